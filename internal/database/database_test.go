package database

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	d, err := OpenSQLite("file:" + name + "?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = d.Close() })
	return d
}

func TestMigrateIsIdempotent(t *testing.T) {
	d := openTestDB(t)
	ctx := context.Background()
	if err := Migrate(ctx, d); err != nil {
		t.Fatalf("first migrate: %v", err)
	}
	if err := Migrate(ctx, d); err != nil {
		t.Fatalf("second migrate: %v", err)
	}
	var n int
	if err := d.QueryRowContext(ctx, `SELECT COUNT(1) FROM schema_migrations`).Scan(&n); err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected 1 applied migration, got %d", n)
	}
}

func TestIsUniqueViolationSQLite(t *testing.T) {
	d := openTestDB(t)
	ctx := context.Background()
	if err := Migrate(ctx, d); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	now := FormatTime(time.Now())
	if _, err := d.ExecContext(ctx, `INSERT INTO users (handle, role, created_at) VALUES ('ana','USER',?)`, now); err != nil {
		t.Fatalf("insert: %v", err)
	}
	_, err := d.ExecContext(ctx, `INSERT INTO users (handle, role, created_at) VALUES ('ana','USER',?)`, now)
	if !d.Dialect.IsUniqueViolation(err) {
		t.Fatalf("expected unique violation, got %v", err)
	}
	if d.Dialect.IsUniqueViolation(errors.New("boom")) {
		t.Fatal("plain error reported as unique violation")
	}
}

func TestPartialIndexIgnoresRejected(t *testing.T) {
	d := openTestDB(t)
	ctx := context.Background()
	if err := Migrate(ctx, d); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	now := FormatTime(time.Now())
	if _, err := d.ExecContext(ctx, `INSERT INTO users (handle, role, created_at) VALUES ('ana','USER',?)`, now); err != nil {
		t.Fatalf("insert user: %v", err)
	}
	ins := `INSERT INTO styles (name, name_norm, status, submitted_by, submitted_at) VALUES ('French','french',?,1,?)`
	if _, err := d.ExecContext(ctx, ins, "rejected", now); err != nil {
		t.Fatalf("insert rejected: %v", err)
	}
	if _, err := d.ExecContext(ctx, ins, "pending", now); err != nil {
		t.Fatalf("insert pending beside rejected: %v", err)
	}
	if _, err := d.ExecContext(ctx, ins, "approved", now); !d.Dialect.IsUniqueViolation(err) {
		t.Fatalf("expected unique violation, got %v", err)
	}
}

func TestUpsertClause(t *testing.T) {
	got := MySQL.Upsert([]string{"review_id", "voter_id"}, "helpful", "voted_at")
	want := " ON DUPLICATE KEY UPDATE helpful = VALUES(helpful), voted_at = VALUES(voted_at)"
	if got != want {
		t.Fatalf("mysql upsert = %q", got)
	}
	got = SQLite.Upsert([]string{"review_id", "voter_id"}, "helpful")
	want = " ON CONFLICT(review_id, voter_id) DO UPDATE SET helpful = excluded.helpful"
	if got != want {
		t.Fatalf("sqlite upsert = %q", got)
	}
}

func TestForUpdate(t *testing.T) {
	if MySQL.ForUpdate() != " FOR UPDATE" || SQLite.ForUpdate() != "" {
		t.Fatal("unexpected lock clause")
	}
}

func TestParseDialect(t *testing.T) {
	cases := map[string]Dialect{"": MySQL, "mysql": MySQL, "SQLite": SQLite, "sqlite3": SQLite}
	for in, want := range cases {
		got, err := ParseDialect(in)
		if err != nil || got != want {
			t.Fatalf("ParseDialect(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := ParseDialect("postgres"); err == nil {
		t.Fatal("expected error for unsupported driver")
	}
}

func TestSplitStatements(t *testing.T) {
	src := "-- header; ignored\nCREATE TABLE a (x INT);\n\nCREATE TABLE b (\n  y INT\n);\n"
	got := splitStatements(src)
	if len(got) != 2 {
		t.Fatalf("expected 2 statements, got %d: %q", len(got), got)
	}
	if !strings.HasPrefix(got[1], "CREATE TABLE b") || strings.HasSuffix(got[1], ";") {
		t.Fatalf("unexpected second statement %q", got[1])
	}
}

func TestTimeScan(t *testing.T) {
	want := time.Date(2026, 1, 10, 10, 0, 0, 123000, time.UTC)
	for _, src := range []interface{}{want, FormatTime(want), []byte(FormatTime(want))} {
		var tm Time
		if err := tm.Scan(src); err != nil {
			t.Fatalf("Scan(%T): %v", src, err)
		}
		if !tm.Valid || !tm.Time.Equal(want) {
			t.Fatalf("Scan(%T) = %v", src, tm.Time)
		}
	}
	var null Time
	if err := null.Scan(nil); err != nil || null.Valid || null.Ptr() != nil {
		t.Fatalf("expected NULL time, got %+v err=%v", null, err)
	}
}
