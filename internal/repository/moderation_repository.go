package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mgrozdek22/TBP-nail-app/internal/database"
	"github.com/mgrozdek22/TBP-nail-app/internal/model"
)

// ModerationRepo reads the pending queue and flips envelope status on any
// moderatable table.
type ModerationRepo struct {
	db *database.DB
}

func NewModerationRepo(db *database.DB) *ModerationRepo { return &ModerationRepo{db: db} }

// DB exposes the handle for transactions driven by the moderation engine.
func (r *ModerationRepo) DB() *database.DB { return r.db }

// TableFor maps a kind onto its table.
func TableFor(k model.EntityKind) (string, error) {
	switch k {
	case model.KindTechnician:
		return "technicians", nil
	case model.KindTechnique:
		return "techniques", nil
	case model.KindStyle:
		return "styles", nil
	case model.KindTechnicianTechnique:
		return "technician_techniques", nil
	case model.KindTechnicianStyle:
		return "technician_styles", nil
	case model.KindLocation:
		return "locations", nil
	case model.KindAvailability:
		return "availabilities", nil
	case model.KindProfileEdit:
		return "profile_edits", nil
	case model.KindReview:
		return "reviews", nil
	}
	return "", fmt.Errorf("%w: unknown entity kind %q", ErrValidation, k)
}

// pendingSelects produce (kind, id, technician_id, title, detail,
// submitted_by, submitted_at) for each kind.
var pendingSelects = []string{
	`SELECT 'technician' AS kind, t.id, t.id AS technician_id, t.name AS title, NULL AS detail, t.submitted_by, t.submitted_at
       FROM technicians t WHERE t.status = 'pending'`,
	`SELECT 'technique', q.id, NULL, q.name, NULL, q.submitted_by, q.submitted_at
       FROM techniques q WHERE q.status = 'pending'`,
	`SELECT 'style', s.id, NULL, s.name, NULL, s.submitted_by, s.submitted_at
       FROM styles s WHERE s.status = 'pending'`,
	`SELECT 'technician_technique', l.id, l.technician_id, t.name, q.name, l.submitted_by, l.submitted_at
       FROM technician_techniques l JOIN technicians t ON t.id = l.technician_id JOIN techniques q ON q.id = l.technique_id
       WHERE l.status = 'pending'`,
	`SELECT 'technician_style', l.id, l.technician_id, t.name, s.name, l.submitted_by, l.submitted_at
       FROM technician_styles l JOIN technicians t ON t.id = l.technician_id JOIN styles s ON s.id = l.style_id
       WHERE l.status = 'pending'`,
	`SELECT 'location', l.id, l.technician_id, t.name, l.display_name, l.submitted_by, l.submitted_at
       FROM locations l JOIN technicians t ON t.id = l.technician_id WHERE l.status = 'pending'`,
	`SELECT 'availability', a.id, a.technician_id, t.name, a.note, a.submitted_by, a.submitted_at
       FROM availabilities a JOIN technicians t ON t.id = a.technician_id WHERE a.status = 'pending'`,
	`SELECT 'profile_edit', e.id, e.technician_id, t.name, NULL, e.submitted_by, e.submitted_at
       FROM profile_edits e JOIN technicians t ON t.id = e.technician_id WHERE e.status = 'pending'`,
	`SELECT 'review', r.id, r.technician_id, t.name, NULL, r.submitted_by, r.submitted_at
       FROM reviews r JOIN technicians t ON t.id = r.technician_id WHERE r.status = 'pending'`,
}

// ListPending returns every pending row across all kinds, most recent
// submission first. Ties are broken by kind then id, both descending.
func (r *ModerationRepo) ListPending(ctx context.Context) ([]model.PendingItem, error) {
	q := `SELECT p.kind, p.id, p.technician_id, p.title, p.detail, p.submitted_by, u.handle, p.submitted_at
          FROM (` + strings.Join(pendingSelects, "\nUNION ALL\n") + `) p
          JOIN users u ON u.id = p.submitted_by
          ORDER BY p.submitted_at DESC, p.kind DESC, p.id DESC`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.PendingItem{}
	for rows.Next() {
		var (
			it      model.PendingItem
			kind    string
			techID  sql.NullInt64
			title   string
			detail  sql.NullString
			subTime database.Time
		)
		if err := rows.Scan(&kind, &it.ID, &techID, &title, &detail, &it.SubmittedBy, &it.Submitter, &subTime); err != nil {
			return nil, err
		}
		it.Kind = model.EntityKind(kind)
		if techID.Valid {
			v := uint64(techID.Int64)
			it.TechnicianID = &v
		}
		it.Summary = summarize(it.Kind, title, detail.String)
		it.SubmittedAt = subTime.Time
		out = append(out, it)
	}
	return out, rows.Err()
}

func summarize(k model.EntityKind, title, detail string) string {
	switch k {
	case model.KindTechnicianTechnique:
		return fmt.Sprintf("%s offers technique %s", title, detail)
	case model.KindTechnicianStyle:
		return fmt.Sprintf("%s offers style %s", title, detail)
	case model.KindLocation:
		return fmt.Sprintf("%s at %s", title, detail)
	case model.KindAvailability:
		if detail != "" {
			return fmt.Sprintf("availability for %s: %s", title, detail)
		}
		return "availability for " + title
	case model.KindProfileEdit:
		return "profile edit for " + title
	case model.KindReview:
		return "review of " + title
	}
	return title
}

// LockStatusTx locks one row of kind k and returns its status.
func (r *ModerationRepo) LockStatusTx(ctx context.Context, tx *sql.Tx, k model.EntityKind, id uint64) (model.Status, error) {
	tbl, err := TableFor(k)
	if err != nil {
		return "", err
	}
	var status string
	err = tx.QueryRowContext(ctx, "SELECT status FROM "+tbl+" WHERE id = ?"+r.db.Dialect.ForUpdate(), id).Scan(&status)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("%w: %s %d", ErrNotFound, k, id)
	}
	return model.Status(status), err
}

// DecideTx moves a pending row to status. Zero affected rows means the
// row was decided in the meantime.
func (r *ModerationRepo) DecideTx(ctx context.Context, tx *sql.Tx, k model.EntityKind, id uint64, status model.Status, moderatorID uint64, at time.Time) error {
	tbl, err := TableFor(k)
	if err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx,
		"UPDATE "+tbl+" SET status = ?, moderated_by = ?, moderated_at = ? WHERE id = ? AND status = 'pending'",
		string(status), moderatorID, database.FormatTime(at), id)
	if err != nil {
		if r.db.Dialect.IsUniqueViolation(err) {
			return fmt.Errorf("%w: %s %d clashes with an active row", ErrDuplicateActiveName, k, id)
		}
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %s %d", ErrAlreadyDecided, k, id)
	}
	return nil
}
