package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mgrozdek22/TBP-nail-app/internal/database"
	"github.com/mgrozdek22/TBP-nail-app/internal/model"
)

// ReviewRepo stores reviews and helpfulness votes.
type ReviewRepo struct {
	db *database.DB
}

func NewReviewRepo(db *database.DB) *ReviewRepo { return &ReviewRepo{db: db} }

// requireApproved checks that a catalog or technician row is approved.
func requireApproved(ctx context.Context, q queryer, table string, id uint64) error {
	var status string
	err := q.QueryRowContext(ctx, "SELECT status FROM "+table+" WHERE id = ?", id).Scan(&status)
	if errors.Is(err, sql.ErrNoRows) || (err == nil && model.Status(status) != model.StatusApproved) {
		return ErrNotFound
	}
	return err
}

// Create inserts rv with the status already set on it. The technician,
// technique and style must be approved. A second review of the same
// (technician, author, technique, style) fails with ErrDuplicateReview.
func (r *ReviewRepo) Create(ctx context.Context, rv *model.Review) error {
	return r.db.InTx(ctx, func(tx *sql.Tx) error {
		for _, ref := range []struct {
			table string
			id    uint64
		}{{"technicians", rv.TechnicianID}, {"techniques", rv.TechniqueID}, {"styles", rv.StyleID}} {
			if err := requireApproved(ctx, tx, ref.table, ref.id); err != nil {
				return fmt.Errorf("%s %d: %w", ref.table, ref.id, err)
			}
		}
		now := database.Now()
		const q = `INSERT INTO reviews (technician_id, author_id, technique_id, style_id,
                       rating_technician, rating_technique, rating_style, body, created_at,
                       status, submitted_by, submitted_at)
                   VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
		res, err := tx.ExecContext(ctx, q, rv.TechnicianID, rv.AuthorID, rv.TechniqueID, rv.StyleID,
			rv.RatingTechnician, rv.RatingTechnique, rv.RatingStyle, nullString(rv.Text),
			database.FormatTime(now), string(rv.Status), rv.AuthorID, database.FormatTime(now))
		if err != nil {
			if r.db.Dialect.IsUniqueViolation(err) {
				return fmt.Errorf("%w: technician %d technique %d style %d", ErrDuplicateReview, rv.TechnicianID, rv.TechniqueID, rv.StyleID)
			}
			return err
		}
		if rv.ID, err = lastID(res); err != nil {
			return err
		}
		rv.CreatedAt, rv.SubmittedAt, rv.SubmittedBy = now, now, rv.AuthorID
		return nil
	})
}

// Vote records voterID's verdict on an approved review, replacing any
// earlier vote by the same voter.
func (r *ReviewRepo) Vote(ctx context.Context, reviewID, voterID uint64, helpful bool) error {
	return r.db.InTx(ctx, func(tx *sql.Tx) error {
		if err := requireApproved(ctx, tx, "reviews", reviewID); err != nil {
			return fmt.Errorf("review %d: %w", reviewID, err)
		}
		q := "INSERT INTO votes (review_id, voter_id, helpful, voted_at) VALUES (?, ?, ?, ?)" +
			r.db.Dialect.Upsert([]string{"review_id", "voter_id"}, "helpful", "voted_at")
		_, err := tx.ExecContext(ctx, q, reviewID, voterID, helpful, database.FormatTime(database.Now()))
		return err
	})
}

// Helpfulness counts votes on one review.
func (r *ReviewRepo) Helpfulness(ctx context.Context, reviewID uint64) (model.Helpfulness, error) {
	var h model.Helpfulness
	err := r.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(CASE WHEN helpful THEN 1 ELSE 0 END), 0), COUNT(*) FROM votes WHERE review_id = ?`,
		reviewID).Scan(&h.HelpfulCount, &h.TotalVotes)
	return h, err
}

const reviewCols = `r.id, r.technician_id, r.author_id, r.technique_id, r.style_id,
                    r.rating_technician, r.rating_technique, r.rating_style, r.body, r.created_at,
                    r.status, r.submitted_by, r.submitted_at, r.moderated_by, r.moderated_at`

func scanReview(sc interface{ Scan(...interface{}) error }, extra ...interface{}) (model.Review, error) {
	var (
		rv   model.Review
		body sql.NullString
		at   database.Time
		env  envelopeScan
	)
	dest := []interface{}{&rv.ID, &rv.TechnicianID, &rv.AuthorID, &rv.TechniqueID, &rv.StyleID,
		&rv.RatingTechnician, &rv.RatingTechnique, &rv.RatingStyle, &body, &at}
	dest = append(dest, env.dest()...)
	dest = append(dest, extra...)
	if err := sc.Scan(dest...); err != nil {
		return rv, err
	}
	rv.Text = strPtr(body)
	rv.CreatedAt = at.Time
	rv.Envelope = env.envelope()
	return rv, nil
}

// GetByID returns a review in any status.
func (r *ReviewRepo) GetByID(ctx context.Context, id uint64) (*model.Review, error) {
	rv, err := scanReview(r.db.QueryRowContext(ctx, "SELECT "+reviewCols+" FROM reviews r WHERE r.id = ?", id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &rv, nil
}

// ListByTechnician returns approved reviews of a technician, newest
// first, with vote totals and viewerID's own vote (viewerID 0 for
// anonymous readers).
func (r *ReviewRepo) ListByTechnician(ctx context.Context, technicianID, viewerID uint64) ([]model.ReviewView, error) {
	q := `SELECT ` + reviewCols + `, u.handle, q.name, s.name,
                 (SELECT COALESCE(SUM(CASE WHEN v.helpful THEN 1 ELSE 0 END), 0) FROM votes v WHERE v.review_id = r.id),
                 (SELECT COUNT(*) FROM votes v WHERE v.review_id = r.id),
                 mv.helpful
          FROM reviews r
          JOIN users u ON u.id = r.author_id
          JOIN techniques q ON q.id = r.technique_id
          JOIN styles s ON s.id = r.style_id
          LEFT JOIN votes mv ON mv.review_id = r.id AND mv.voter_id = ?
          WHERE r.technician_id = ? AND r.status = 'approved'
          ORDER BY r.created_at DESC, r.id DESC`
	rows, err := r.db.QueryContext(ctx, q, viewerID, technicianID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.ReviewView{}
	for rows.Next() {
		var (
			v      model.ReviewView
			myVote sql.NullBool
		)
		rv, err := scanReview(rows, &v.AuthorHandle, &v.TechniqueName, &v.StyleName, &v.HelpfulCount, &v.TotalVotes, &myVote)
		if err != nil {
			return nil, err
		}
		v.Review = rv
		if myVote.Valid {
			b := myVote.Bool
			v.ViewerVote = &b
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

// ListByAuthor returns every review written by authorID in any status.
func (r *ReviewRepo) ListByAuthor(ctx context.Context, authorID uint64) ([]model.Review, error) {
	return r.list(ctx, "SELECT "+reviewCols+" FROM reviews r WHERE r.author_id = ? ORDER BY r.id", authorID)
}

// ListApprovedOfApprovedTechnicians returns the approved reviews of
// approved technicians, the input of recommendation scoring.
func (r *ReviewRepo) ListApprovedOfApprovedTechnicians(ctx context.Context) ([]model.Review, error) {
	return r.list(ctx, `SELECT `+reviewCols+` FROM reviews r
        JOIN technicians t ON t.id = r.technician_id
        WHERE r.status = 'approved' AND t.status = 'approved'
        ORDER BY r.technician_id, r.id`)
}

func (r *ReviewRepo) list(ctx context.Context, q string, args ...interface{}) ([]model.Review, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.Review{}
	for rows.Next() {
		rv, err := scanReview(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rv)
	}
	return out, rows.Err()
}
