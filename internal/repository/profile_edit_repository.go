package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mgrozdek22/TBP-nail-app/internal/database"
	"github.com/mgrozdek22/TBP-nail-app/internal/model"
)

// ProfileEditRepo stores proposed technician profile changes.
type ProfileEditRepo struct {
	db *database.DB
}

func NewProfileEditRepo(db *database.DB) *ProfileEditRepo { return &ProfileEditRepo{db: db} }

// Create stores a pending edit. The technician must exist and not be
// rejected. The patch is expected to be validated by the caller.
func (r *ProfileEditRepo) Create(ctx context.Context, technicianID, proposerID uint64, patch json.RawMessage) (uint64, error) {
	var id uint64
	err := r.db.InTx(ctx, func(tx *sql.Tx) error {
		if err := requireLive(ctx, tx, "technicians", technicianID); err != nil {
			return fmt.Errorf("technician %d: %w", technicianID, err)
		}
		const q = `INSERT INTO profile_edits (technician_id, patch, status, submitted_by, submitted_at) VALUES (?, ?, 'pending', ?, ?)`
		res, err := tx.ExecContext(ctx, q, technicianID, string(patch), proposerID, database.FormatTime(database.Now()))
		if err != nil {
			return err
		}
		id, err = lastID(res)
		return err
	})
	return id, err
}

// GetTx reads an edit inside tx.
func (r *ProfileEditRepo) GetTx(ctx context.Context, tx *sql.Tx, id uint64) (*model.ProfileEdit, error) {
	return r.get(ctx, tx, id)
}

// GetByID reads an edit outside any transaction.
func (r *ProfileEditRepo) GetByID(ctx context.Context, id uint64) (*model.ProfileEdit, error) {
	return r.get(ctx, r.db, id)
}

func (r *ProfileEditRepo) get(ctx context.Context, q queryer, id uint64) (*model.ProfileEdit, error) {
	var (
		e     model.ProfileEdit
		patch string
		env   envelopeScan
	)
	dest := append([]interface{}{&e.ID, &e.TechnicianID, &patch}, env.dest()...)
	err := q.QueryRowContext(ctx, "SELECT id, technician_id, patch, "+envelopeCols+" FROM profile_edits WHERE id = ?", id).Scan(dest...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	e.Patch = json.RawMessage(patch)
	e.Envelope = env.envelope()
	return &e, nil
}
