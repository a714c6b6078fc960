package repository

import (
	"context"
	"database/sql"

	"github.com/mgrozdek22/TBP-nail-app/internal/database"
	"github.com/mgrozdek22/TBP-nail-app/internal/model"
)

// envelopeCols is selected, in this order, by every query that scans an
// envelope with envelopeScan.
const envelopeCols = "status, submitted_by, submitted_at, moderated_by, moderated_at"

// queryer is satisfied by both *sql.DB and *sql.Tx.
type queryer interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

type envelopeScan struct {
	status      string
	submittedBy uint64
	submittedAt database.Time
	moderatedBy sql.NullInt64
	moderatedAt database.Time
}

func (s *envelopeScan) dest() []interface{} {
	return []interface{}{&s.status, &s.submittedBy, &s.submittedAt, &s.moderatedBy, &s.moderatedAt}
}

func (s *envelopeScan) envelope() model.Envelope {
	e := model.Envelope{
		Status:      model.Status(s.status),
		SubmittedBy: s.submittedBy,
		SubmittedAt: s.submittedAt.Time,
		ModeratedAt: s.moderatedAt.Ptr(),
	}
	if s.moderatedBy.Valid {
		v := uint64(s.moderatedBy.Int64)
		e.ModeratedBy = &v
	}
	return e
}

func nullString(p *string) sql.NullString {
	if p == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *p, Valid: true}
}

func strPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	v := ns.String
	return &v
}

func lastID(res sql.Result) (uint64, error) {
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}
