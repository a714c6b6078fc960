package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/mgrozdek22/TBP-nail-app/internal/database"
	"github.com/mgrozdek22/TBP-nail-app/internal/model"
	"github.com/mgrozdek22/TBP-nail-app/internal/utils"
)

type UserRepo struct{ DB *database.DB }

func NewUserRepo(db *database.DB) *UserRepo { return &UserRepo{DB: db} }

// NormalizeHandle trims and lower-cases a login handle.
func NormalizeHandle(h string) string {
	return strings.ToLower(strings.TrimSpace(h))
}

// Create inserts user and returns its ID. An empty password leaves the
// account without one.
func (r *UserRepo) Create(ctx context.Context, handle, password, role string, cost int) (uint64, error) {
	handle = NormalizeHandle(handle)
	if handle == "" {
		return 0, fmt.Errorf("%w: handle required", ErrValidation)
	}
	var hash sql.NullString
	if password != "" {
		h, err := utils.HashPassword(password, cost)
		if err != nil {
			return 0, err
		}
		hash = sql.NullString{String: h, Valid: true}
	}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (handle, password_hash, role, created_at) VALUES (?,?,?,?)",
		handle, hash, role, database.FormatTime(database.Now()))
	if err != nil {
		if r.DB.Dialect.IsUniqueViolation(err) {
			return 0, ErrHandleExists
		}
		return 0, err
	}
	return lastID(res)
}

const userCols = "id, handle, password_hash, role, created_at"

func scanUser(row *sql.Row) (*model.User, error) {
	var (
		u    model.User
		hash sql.NullString
		at   database.Time
	)
	if err := row.Scan(&u.ID, &u.Handle, &hash, &u.Role, &at); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	u.PasswordHash = strPtr(hash)
	u.CreatedAt = at.Time
	return &u, nil
}

// LookupUser fetches a user by handle. It returns ErrNotFound when the
// handle is unknown.
func (r *UserRepo) LookupUser(ctx context.Context, handle string) (*model.User, error) {
	return scanUser(r.DB.QueryRowContext(ctx,
		"SELECT "+userCols+" FROM users WHERE handle=? LIMIT 1", NormalizeHandle(handle)))
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (*model.User, error) {
	return scanUser(r.DB.QueryRowContext(ctx,
		"SELECT "+userCols+" FROM users WHERE id=? LIMIT 1", id))
}

// SetRole changes a user's role. Used to promote moderators.
func (r *UserRepo) SetRole(ctx context.Context, id uint64, role string) error {
	res, err := r.DB.ExecContext(ctx, "UPDATE users SET role=? WHERE id=?", role, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
