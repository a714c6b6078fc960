package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/mgrozdek22/TBP-nail-app/internal/database"
	"github.com/mgrozdek22/TBP-nail-app/internal/model"
)

// CatalogRepo stores techniques and styles. Both tables have the same
// columns; the catalog argument picks one.
type CatalogRepo struct {
	db *database.DB
}

func NewCatalogRepo(db *database.DB) *CatalogRepo { return &CatalogRepo{db: db} }

// table maps a catalog onto its table. Only the two known names reach SQL.
func table(c model.Catalog) (string, error) {
	switch c {
	case model.CatalogTechniques:
		return "techniques", nil
	case model.CatalogStyles:
		return "styles", nil
	}
	return "", fmt.Errorf("%w: unknown catalog %q", ErrValidation, c)
}

// Create inserts a pending technique or style.
func (r *CatalogRepo) Create(ctx context.Context, c model.Catalog, name string, submitterID uint64) (uint64, error) {
	tbl, err := table(c)
	if err != nil {
		return 0, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, fmt.Errorf("%w: name required", ErrValidation)
	}
	q := "INSERT INTO " + tbl + " (name, name_norm, status, submitted_by, submitted_at) VALUES (?, ?, 'pending', ?, ?)"
	res, err := r.db.ExecContext(ctx, q, name, model.NormalizeName(name), submitterID, database.FormatTime(database.Now()))
	if err != nil {
		if r.db.Dialect.IsUniqueViolation(err) {
			return 0, fmt.Errorf("%w: %s %q", ErrDuplicateActiveName, c.Kind(), name)
		}
		return 0, err
	}
	return lastID(res)
}

// GetByID returns an entry in any status.
func (r *CatalogRepo) GetByID(ctx context.Context, c model.Catalog, id uint64) (*model.CatalogItem, error) {
	tbl, err := table(c)
	if err != nil {
		return nil, err
	}
	var (
		it  model.CatalogItem
		env envelopeScan
	)
	dest := append([]interface{}{&it.ID, &it.Name}, env.dest()...)
	err = r.db.QueryRowContext(ctx, "SELECT id, name, "+envelopeCols+" FROM "+tbl+" WHERE id = ?", id).Scan(dest...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	it.Envelope = env.envelope()
	return &it, nil
}

// ListApproved returns approved entries ordered by name.
func (r *CatalogRepo) ListApproved(ctx context.Context, c model.Catalog) ([]model.CatalogItem, error) {
	tbl, err := table(c)
	if err != nil {
		return nil, err
	}
	rows, err := r.db.QueryContext(ctx, "SELECT id, name, "+envelopeCols+" FROM "+tbl+" WHERE status = 'approved' ORDER BY name, id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.CatalogItem{}
	for rows.Next() {
		var (
			it  model.CatalogItem
			env envelopeScan
		)
		if err := rows.Scan(append([]interface{}{&it.ID, &it.Name}, env.dest()...)...); err != nil {
			return nil, err
		}
		it.Envelope = env.envelope()
		out = append(out, it)
	}
	return out, rows.Err()
}
