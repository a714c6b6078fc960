package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/mgrozdek22/TBP-nail-app/internal/database"
	"github.com/mgrozdek22/TBP-nail-app/internal/interval"
	"github.com/mgrozdek22/TBP-nail-app/internal/model"
)

// ScheduleRepo stores locations and availability windows. Inserts run in
// the caller's transaction after IntervalStore.Reserve.
type ScheduleRepo struct {
	db *database.DB
}

func NewScheduleRepo(db *database.DB) *ScheduleRepo { return &ScheduleRepo{db: db} }

// CreateLocationTx inserts a pending location.
func (r *ScheduleRepo) CreateLocationTx(ctx context.Context, tx *sql.Tx, l *model.Location) error {
	const q = `INSERT INTO locations (technician_id, display_name, lat, lon, valid_from, valid_to, status, submitted_by, submitted_at)
               VALUES (?, ?, ?, ?, ?, ?, 'pending', ?, ?)`
	now := database.Now()
	res, err := tx.ExecContext(ctx, q, l.TechnicianID, l.DisplayName, l.Lat, l.Lon,
		database.FormatTime(l.Interval.From), database.FormatTime(l.Interval.To),
		l.SubmittedBy, database.FormatTime(now))
	if err != nil {
		return err
	}
	if l.ID, err = lastID(res); err != nil {
		return err
	}
	l.Status, l.SubmittedAt = model.StatusPending, now
	return nil
}

// CreateAvailabilityTx inserts a pending availability window.
func (r *ScheduleRepo) CreateAvailabilityTx(ctx context.Context, tx *sql.Tx, a *model.Availability) error {
	const q = `INSERT INTO availabilities (technician_id, working, valid_from, valid_to, note, status, submitted_by, submitted_at)
               VALUES (?, ?, ?, ?, ?, 'pending', ?, ?)`
	now := database.Now()
	res, err := tx.ExecContext(ctx, q, a.TechnicianID, a.Working,
		database.FormatTime(a.Interval.From), database.FormatTime(a.Interval.To),
		nullString(a.Note), a.SubmittedBy, database.FormatTime(now))
	if err != nil {
		return err
	}
	if a.ID, err = lastID(res); err != nil {
		return err
	}
	a.Status, a.SubmittedAt = model.StatusPending, now
	return nil
}

// ListLocations returns a technician's locations, latest start first.
func (r *ScheduleRepo) ListLocations(ctx context.Context, technicianID uint64, onlyApproved bool) ([]model.Location, error) {
	q := `SELECT id, technician_id, display_name, lat, lon, valid_from, valid_to, ` + envelopeCols + `
          FROM locations WHERE technician_id = ?`
	if onlyApproved {
		q += " AND status = 'approved'"
	}
	q += " ORDER BY valid_from DESC, id DESC"
	rows, err := r.db.QueryContext(ctx, q, technicianID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.Location{}
	for rows.Next() {
		var (
			l        model.Location
			from, to database.Time
			env      envelopeScan
		)
		dest := append([]interface{}{&l.ID, &l.TechnicianID, &l.DisplayName, &l.Lat, &l.Lon, &from, &to}, env.dest()...)
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}
		l.Interval = interval.Interval{From: from.Time, To: to.Time}
		l.Envelope = env.envelope()
		out = append(out, l)
	}
	return out, rows.Err()
}

// ListAvailability returns a technician's availability windows, latest
// start first.
func (r *ScheduleRepo) ListAvailability(ctx context.Context, technicianID uint64, onlyApproved bool) ([]model.Availability, error) {
	q := `SELECT id, technician_id, working, valid_from, valid_to, note, ` + envelopeCols + `
          FROM availabilities WHERE technician_id = ?`
	if onlyApproved {
		q += " AND status = 'approved'"
	}
	q += " ORDER BY valid_from DESC, id DESC"
	rows, err := r.db.QueryContext(ctx, q, technicianID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.Availability{}
	for rows.Next() {
		var (
			a        model.Availability
			from, to database.Time
			note     sql.NullString
			env      envelopeScan
		)
		dest := append([]interface{}{&a.ID, &a.TechnicianID, &a.Working, &from, &to, &note}, env.dest()...)
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}
		a.Interval = interval.Interval{From: from.Time, To: to.Time}
		a.Note = strPtr(note)
		a.Envelope = env.envelope()
		out = append(out, a)
	}
	return out, rows.Err()
}

// MapEntries lists approved technicians at their approved location
// covering now, filtered by technique and style. With MatchAll both
// filters must match; otherwise either is enough. OnlyAvailable keeps
// technicians with an approved working window covering now.
func (r *ScheduleRepo) MapEntries(ctx context.Context, f model.MapFilter, now time.Time) ([]model.MapEntry, error) {
	ts := database.FormatTime(now)
	var (
		b    strings.Builder
		args = []interface{}{ts, ts}
	)
	b.WriteString(`SELECT t.id, t.name, l.id, l.display_name, l.lat, l.lon
        FROM technicians t
        JOIN locations l ON l.technician_id = t.id AND l.status = 'approved'
             AND l.valid_from <= ? AND l.valid_to > ?
        WHERE t.status = 'approved'`)

	techniqueCond := `EXISTS (SELECT 1 FROM technician_techniques tt JOIN techniques q ON q.id = tt.technique_id
        WHERE tt.technician_id = t.id AND tt.technique_id = ? AND tt.status = 'approved' AND q.status = 'approved')`
	styleCond := `EXISTS (SELECT 1 FROM technician_styles ts JOIN styles s ON s.id = ts.style_id
        WHERE ts.technician_id = t.id AND ts.style_id = ? AND ts.status = 'approved' AND s.status = 'approved')`

	switch {
	case f.TechniqueID != 0 && f.StyleID != 0:
		op := " OR "
		if f.MatchAll {
			op = " AND "
		}
		fmt.Fprintf(&b, " AND (%s%s%s)", techniqueCond, op, styleCond)
		args = append(args, f.TechniqueID, f.StyleID)
	case f.TechniqueID != 0:
		b.WriteString(" AND " + techniqueCond)
		args = append(args, f.TechniqueID)
	case f.StyleID != 0:
		b.WriteString(" AND " + styleCond)
		args = append(args, f.StyleID)
	}
	if f.OnlyAvailable {
		b.WriteString(` AND EXISTS (SELECT 1 FROM availabilities a
            WHERE a.technician_id = t.id AND a.status = 'approved' AND a.working = ?
              AND a.valid_from <= ? AND a.valid_to > ?)`)
		args = append(args, true, ts, ts)
	}
	b.WriteString(" ORDER BY t.name, t.id")

	rows, err := r.db.QueryContext(ctx, b.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.MapEntry{}
	for rows.Next() {
		var e model.MapEntry
		if err := rows.Scan(&e.TechnicianID, &e.Name, &e.LocationID, &e.DisplayName, &e.Lat, &e.Lon); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
