package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mgrozdek22/TBP-nail-app/internal/database"
	"github.com/mgrozdek22/TBP-nail-app/internal/model"
)

// LinkRepo stores technician_techniques and technician_styles rows.
type LinkRepo struct {
	db *database.DB
}

func NewLinkRepo(db *database.DB) *LinkRepo { return &LinkRepo{db: db} }

type linkTable struct {
	table, target, fk string
}

func linkTableFor(c model.Catalog) (linkTable, error) {
	switch c {
	case model.CatalogTechniques:
		return linkTable{"technician_techniques", "techniques", "technique_id"}, nil
	case model.CatalogStyles:
		return linkTable{"technician_styles", "styles", "style_id"}, nil
	}
	return linkTable{}, fmt.Errorf("%w: unknown catalog %q", ErrValidation, c)
}

// Insert proposes a link between a technician and a technique or style.
// When a pending or approved link for the pair already exists nothing is
// written and inserted is false. Both ends must exist and not be
// rejected, otherwise ErrNotFound.
func (r *LinkRepo) Insert(ctx context.Context, c model.Catalog, technicianID, targetID, submitterID uint64) (inserted bool, id uint64, err error) {
	lt, err := linkTableFor(c)
	if err != nil {
		return false, 0, err
	}
	err = r.db.InTx(ctx, func(tx *sql.Tx) error {
		if err := requireLive(ctx, tx, "technicians", technicianID); err != nil {
			return fmt.Errorf("technician %d: %w", technicianID, err)
		}
		if err := requireLive(ctx, tx, lt.target, targetID); err != nil {
			return fmt.Errorf("%s %d: %w", c.Kind(), targetID, err)
		}
		var existing uint64
		qe := "SELECT id FROM " + lt.table + " WHERE technician_id = ? AND " + lt.fk + " = ? AND status IN ('pending','approved')"
		switch err := tx.QueryRowContext(ctx, qe, technicianID, targetID).Scan(&existing); {
		case err == nil:
			id = existing
			return nil
		case !errors.Is(err, sql.ErrNoRows):
			return err
		}
		q := "INSERT INTO " + lt.table + " (technician_id, " + lt.fk + ", status, submitted_by, submitted_at) VALUES (?, ?, 'pending', ?, ?)"
		res, err := tx.ExecContext(ctx, q, technicianID, targetID, submitterID, database.FormatTime(database.Now()))
		if err != nil {
			if r.db.Dialect.IsUniqueViolation(err) {
				// lost a race with an identical proposal
				return nil
			}
			return err
		}
		id, err = lastID(res)
		inserted = err == nil
		return err
	})
	return inserted, id, err
}

// requireLive checks that a row exists and was not rejected.
func requireLive(ctx context.Context, q queryer, table string, id uint64) error {
	var status string
	err := q.QueryRowContext(ctx, "SELECT status FROM "+table+" WHERE id = ?", id).Scan(&status)
	if errors.Is(err, sql.ErrNoRows) || (err == nil && !model.Status(status).Active()) {
		return ErrNotFound
	}
	return err
}

// ListByTechnician returns a technician's links joined with the target
// name, ordered by that name. onlyApproved restricts to approved links of
// approved targets.
func (r *LinkRepo) ListByTechnician(ctx context.Context, c model.Catalog, technicianID uint64, onlyApproved bool) ([]model.Link, error) {
	lt, err := linkTableFor(c)
	if err != nil {
		return nil, err
	}
	q := `SELECT l.id, l.technician_id, l.` + lt.fk + `, x.name,
                 l.status, l.submitted_by, l.submitted_at, l.moderated_by, l.moderated_at
          FROM ` + lt.table + ` l JOIN ` + lt.target + ` x ON x.id = l.` + lt.fk + `
          WHERE l.technician_id = ?`
	if onlyApproved {
		q += " AND l.status = 'approved' AND x.status = 'approved'"
	}
	q += " ORDER BY x.name, l.id"
	rows, err := r.db.QueryContext(ctx, q, technicianID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.Link{}
	for rows.Next() {
		var (
			l   model.Link
			env envelopeScan
		)
		if err := rows.Scan(append([]interface{}{&l.ID, &l.TechnicianID, &l.TargetID, &l.TargetName}, env.dest()...)...); err != nil {
			return nil, err
		}
		l.Envelope = env.envelope()
		out = append(out, l)
	}
	return out, rows.Err()
}
