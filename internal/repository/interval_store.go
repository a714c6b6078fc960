package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/mgrozdek22/TBP-nail-app/internal/database"
	"github.com/mgrozdek22/TBP-nail-app/internal/interval"
	"github.com/mgrozdek22/TBP-nail-app/internal/model"
)

// Namespace is an independent set of per-technician intervals. A
// location never conflicts with an availability window.
type Namespace string

const (
	NamespaceLocations      Namespace = "locations"
	NamespaceAvailabilities Namespace = "availabilities"
)

// IntervalStore enforces that a technician's pending and approved
// intervals within one namespace never overlap.
type IntervalStore struct {
	db          *database.DB
	technicians *TechnicianRepo
}

func NewIntervalStore(db *database.DB, technicians *TechnicianRepo) *IntervalStore {
	return &IntervalStore{db: db, technicians: technicians}
}

// Reserve validates iv and checks it against every active interval of
// the technician in ns. It must run inside the transaction that inserts
// the new row: the technician row stays locked until tx ends, so a
// concurrent Reserve for the same technician waits and then sees the
// row this transaction inserted.
func (s *IntervalStore) Reserve(ctx context.Context, tx *sql.Tx, ns Namespace, technicianID uint64, iv interval.Interval) error {
	if err := iv.Validate(); err != nil {
		return err
	}
	if ns != NamespaceLocations && ns != NamespaceAvailabilities {
		return fmt.Errorf("%w: unknown namespace %q", ErrValidation, ns)
	}
	status, err := s.technicians.LockTx(ctx, tx, technicianID)
	if err != nil {
		return fmt.Errorf("technician %d: %w", technicianID, err)
	}
	if status == model.StatusRejected {
		return fmt.Errorf("technician %d: %w", technicianID, ErrNotFound)
	}

	active, err := s.activeTx(ctx, tx, ns, technicianID)
	if err != nil {
		return err
	}
	if i := interval.FirstOverlap(iv, active); i >= 0 {
		return fmt.Errorf("%w: overlaps %s [%s, %s)", ErrConflict, ns,
			database.FormatTime(active[i].From), database.FormatTime(active[i].To))
	}
	return nil
}

// activeTx loads the pending and approved intervals of one technician.
// Only rows that could overlap matter, but the full set per technician
// is small.
func (s *IntervalStore) activeTx(ctx context.Context, tx *sql.Tx, ns Namespace, technicianID uint64) ([]interval.Interval, error) {
	q := "SELECT valid_from, valid_to FROM " + string(ns) +
		" WHERE technician_id = ? AND status IN ('pending','approved')" + s.db.Dialect.ForUpdate()
	rows, err := tx.QueryContext(ctx, q, technicianID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []interval.Interval
	for rows.Next() {
		var from, to database.Time
		if err := rows.Scan(&from, &to); err != nil {
			return nil, err
		}
		out = append(out, interval.Interval{From: from.Time, To: to.Time})
	}
	return out, rows.Err()
}
