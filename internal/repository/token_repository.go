package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/mgrozdek22/TBP-nail-app/internal/database"
)

// TokenRepo stores refresh tokens by SHA-256 hash. Raw tokens never
// reach the database.
type TokenRepo struct{ DB *database.DB }

func NewTokenRepo(db *database.DB) *TokenRepo { return &TokenRepo{DB: db} }

// StoreRefresh records a newly issued token.
func (r *TokenRepo) StoreRefresh(ctx context.Context, userID uint64, tokenHash string, exp time.Time) error {
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO refresh_tokens (user_id, token_hash, expires_at, created_at) VALUES (?,?,?,?)",
		userID, tokenHash, database.FormatTime(exp), database.FormatTime(database.Now()))
	return err
}

// Consume revokes a live token and returns its owner. The revoke is a
// single conditional UPDATE, so of two concurrent refreshes with the same
// token exactly one succeeds. Unknown, expired and already revoked tokens
// give ErrNotFound.
func (r *TokenRepo) Consume(ctx context.Context, tokenHash string) (uint64, error) {
	var userID uint64
	err := r.DB.InTx(ctx, func(tx *sql.Tx) error {
		now := database.FormatTime(database.Now())
		res, err := tx.ExecContext(ctx,
			`UPDATE refresh_tokens SET revoked_at = ?
             WHERE token_hash = ? AND revoked_at IS NULL AND expires_at > ?`,
			now, tokenHash, now)
		if err != nil {
			return err
		}
		if n, err := res.RowsAffected(); err != nil {
			return err
		} else if n == 0 {
			return ErrNotFound
		}
		return tx.QueryRowContext(ctx,
			"SELECT user_id FROM refresh_tokens WHERE token_hash = ?", tokenHash).Scan(&userID)
	})
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrNotFound
	}
	return userID, err
}

// RevokeByHash ends one session. Revoking an unknown token is not an
// error.
func (r *TokenRepo) RevokeByHash(ctx context.Context, tokenHash string) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE refresh_tokens SET revoked_at = ? WHERE token_hash = ? AND revoked_at IS NULL",
		database.FormatTime(database.Now()), tokenHash)
	return err
}

// RevokeAllForUser ends every session of userID.
func (r *TokenRepo) RevokeAllForUser(ctx context.Context, userID uint64) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE refresh_tokens SET revoked_at = ? WHERE user_id = ? AND revoked_at IS NULL",
		database.FormatTime(database.Now()), userID)
	return err
}
