// Package dbtest opens migrated in-memory SQLite databases for tests.
package dbtest

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/mgrozdek22/TBP-nail-app/internal/database"
)

var seq atomic.Int64

// Open returns a fresh, migrated database that is closed when the test
// ends.
func Open(t testing.TB) *database.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_", "#", "_").Replace(t.Name())
	d, err := database.OpenSQLite(fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, seq.Add(1)))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = d.Close() })
	if err := database.Migrate(context.Background(), d); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return d
}

// User inserts a user directly and returns its id.
func User(t testing.TB, d *database.DB, handle, role string) uint64 {
	t.Helper()
	res, err := d.ExecContext(context.Background(),
		`INSERT INTO users (handle, role, created_at) VALUES (?, ?, ?)`,
		handle, role, database.FormatTime(time.Now()))
	if err != nil {
		t.Fatalf("insert user %s: %v", handle, err)
	}
	id, _ := res.LastInsertId()
	return uint64(id)
}

// SetStatus forces the status of a row, bypassing moderation.
func SetStatus(t testing.TB, d *database.DB, table string, id uint64, status string) {
	t.Helper()
	if _, err := d.ExecContext(context.Background(),
		"UPDATE "+table+" SET status = ? WHERE id = ?", status, id); err != nil {
		t.Fatalf("set status %s %d: %v", table, id, err)
	}
}
