package model

import "time"

// Roles stored in users.role.
const (
	RoleUser      = "USER"
	RoleModerator = "MODERATOR"
)

// User represents an application user record as stored in the
// `users` table. Users are identified by a unique handle; a password
// is optional, matching accounts created before passwords existed.
//
// Fields:
//  ID           – primary key identifier.
//  Handle       – unique login handle.
//  PasswordHash – bcrypt hash, nil when the account has no password.
//  Role         – USER or MODERATOR.
//  CreatedAt    – timestamp of creation.
type User struct {
	ID           uint64    // users.id
	Handle       string    // users.handle
	PasswordHash *string   // users.password_hash (nullable)
	Role         string    // users.role
	CreatedAt    time.Time // users.created_at
}

// IsModerator reports whether the user may act on the moderation queue.
func (u User) IsModerator() bool { return u.Role == RoleModerator }

// RefreshToken models an entry in the `refresh_tokens` table.  Each
// refresh token belongs to a user and contains metadata for expiry
// and revocation.  The plain token is not stored; only its
// SHA‑256 hash.
type RefreshToken struct {
	ID        uint64     // refresh_tokens.id
	UserID    uint64     // refresh_tokens.user_id
	TokenHash string     // refresh_tokens.token_hash
	ExpiresAt time.Time  // refresh_tokens.expires_at
	RevokedAt *time.Time // refresh_tokens.revoked_at (nullable)
	CreatedAt time.Time  // refresh_tokens.created_at
}
