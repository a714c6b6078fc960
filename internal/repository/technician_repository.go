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

// TechnicianRepo manages persistence for technicians.
type TechnicianRepo struct {
	db *database.DB
}

// NewTechnicianRepo constructs a TechnicianRepo with the given DB handle.
func NewTechnicianRepo(db *database.DB) *TechnicianRepo {
	return &TechnicianRepo{db: db}
}

// DB exposes the underlying handle so services can open transactions
// that span several repositories.
func (r *TechnicianRepo) DB() *database.DB {
	return r.db
}

const technicianCols = "id, name, description, phone, instagram, " + envelopeCols

func scanTechnician(sc interface{ Scan(...interface{}) error }) (model.Technician, error) {
	var (
		t           model.Technician
		desc, phone sql.NullString
		insta       sql.NullString
		env         envelopeScan
	)
	dest := append([]interface{}{&t.ID, &t.Name, &desc, &phone, &insta}, env.dest()...)
	if err := sc.Scan(dest...); err != nil {
		return t, err
	}
	t.Description, t.Phone, t.Instagram = strPtr(desc), strPtr(phone), strPtr(insta)
	t.Envelope = env.envelope()
	return t, nil
}

// Create inserts a pending technician. A clash with another pending or
// approved technician's normalized name yields ErrDuplicateActiveName.
func (r *TechnicianRepo) Create(ctx context.Context, name string, submitterID uint64) (uint64, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, fmt.Errorf("%w: name required", ErrValidation)
	}
	const q = `INSERT INTO technicians (name, name_norm, status, submitted_by, submitted_at) VALUES (?, ?, 'pending', ?, ?)`
	res, err := r.db.ExecContext(ctx, q, name, model.NormalizeName(name), submitterID, database.FormatTime(database.Now()))
	if err != nil {
		if r.db.Dialect.IsUniqueViolation(err) {
			return 0, fmt.Errorf("%w: technician %q", ErrDuplicateActiveName, name)
		}
		return 0, err
	}
	return lastID(res)
}

// GetByID returns a technician in any status, or ErrNotFound.
func (r *TechnicianRepo) GetByID(ctx context.Context, id uint64) (*model.Technician, error) {
	t, err := scanTechnician(r.db.QueryRowContext(ctx, "SELECT "+technicianCols+" FROM technicians WHERE id = ?", id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}

// ListApproved returns approved technicians ordered by name.
func (r *TechnicianRepo) ListApproved(ctx context.Context) ([]model.Technician, error) {
	return r.list(ctx, "SELECT "+technicianCols+" FROM technicians WHERE status = 'approved' ORDER BY name, id")
}

// ListWithoutLocation returns approved technicians that have no approved
// location covering now.
func (r *TechnicianRepo) ListWithoutLocation(ctx context.Context, now time.Time) ([]model.Technician, error) {
	const q = `SELECT ` + technicianCols + ` FROM technicians t
               WHERE t.status = 'approved'
                 AND NOT EXISTS (
                     SELECT 1 FROM locations l
                     WHERE l.technician_id = t.id AND l.status = 'approved'
                       AND l.valid_from <= ? AND l.valid_to > ?)
               ORDER BY t.name, t.id`
	ts := database.FormatTime(now)
	return r.list(ctx, q, ts, ts)
}

func (r *TechnicianRepo) list(ctx context.Context, q string, args ...interface{}) ([]model.Technician, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.Technician{}
	for rows.Next() {
		t, err := scanTechnician(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// LockTx locks the technician row for the rest of tx and returns its
// status. Reservations on the same technician queue behind this lock.
func (r *TechnicianRepo) LockTx(ctx context.Context, tx *sql.Tx, id uint64) (model.Status, error) {
	var status string
	err := tx.QueryRowContext(ctx, "SELECT status FROM technicians WHERE id = ?"+r.db.Dialect.ForUpdate(), id).Scan(&status)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", err
	}
	return model.Status(status), nil
}

// ApplyPatchTx overwrites the fields set in p. Any structural failure
// (missing or rejected technician, empty or clashing name) is an
// ErrPatchApplication.
func (r *TechnicianRepo) ApplyPatchTx(ctx context.Context, tx *sql.Tx, id uint64, p model.ProfilePatch) error {
	status, err := r.LockTx(ctx, tx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return fmt.Errorf("%w: technician %d does not exist", ErrPatchApplication, id)
		}
		return err
	}
	if status == model.StatusRejected {
		return fmt.Errorf("%w: technician %d was rejected", ErrPatchApplication, id)
	}
	var (
		sets []string
		args []interface{}
	)
	if p.Name != nil {
		name := strings.TrimSpace(*p.Name)
		if name == "" {
			return fmt.Errorf("%w: name cannot be empty", ErrPatchApplication)
		}
		sets = append(sets, "name = ?", "name_norm = ?")
		args = append(args, name, model.NormalizeName(name))
	}
	for _, f := range []struct {
		col string
		val *string
	}{{"description", p.Description}, {"phone", p.Phone}, {"instagram", p.Instagram}} {
		if f.val != nil {
			sets = append(sets, f.col+" = ?")
			args = append(args, nullIfBlank(*f.val))
		}
	}
	if len(sets) == 0 {
		return fmt.Errorf("%w: patch changes nothing", ErrPatchApplication)
	}
	args = append(args, id)
	if _, err := tx.ExecContext(ctx, "UPDATE technicians SET "+strings.Join(sets, ", ")+" WHERE id = ?", args...); err != nil {
		if r.db.Dialect.IsUniqueViolation(err) {
			return fmt.Errorf("%w: name already used by another technician", ErrPatchApplication)
		}
		return err
	}
	return nil
}

func nullIfBlank(s string) sql.NullString {
	s = strings.TrimSpace(s)
	return sql.NullString{String: s, Valid: s != ""}
}

// RatingSummary averages the approved reviews of a technician.
func (r *TechnicianRepo) RatingSummary(ctx context.Context, id uint64) (model.RatingSummary, error) {
	const q = `SELECT COUNT(*),
                      COALESCE(AVG(rating_technician), 0),
                      COALESCE(AVG(rating_technique), 0),
                      COALESCE(AVG(rating_style), 0)
               FROM reviews WHERE technician_id = ? AND status = 'approved'`
	var s model.RatingSummary
	err := r.db.QueryRowContext(ctx, q, id).Scan(&s.Count, &s.Technician, &s.Technique, &s.Style)
	return s, err
}
