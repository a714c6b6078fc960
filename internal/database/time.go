package database

import (
	"database/sql/driver"
	"fmt"
	"time"
)

// TimeLayout is how timestamps are written. Fixed width in UTC, so text
// columns in SQLite sort the same way MySQL DATETIME(6) columns do.
const TimeLayout = "2006-01-02 15:04:05.000000"

// FormatTime renders t as a query argument.
func FormatTime(t time.Time) string {
	return t.UTC().Truncate(time.Microsecond).Format(TimeLayout)
}

// Now is the current time at the precision the store keeps.
func Now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

// Time scans a timestamp column from either backend. MySQL with
// parseTime=true hands back time.Time, SQLite hands back text.
type Time struct {
	Time  time.Time
	Valid bool
}

var scanLayouts = []string{
	TimeLayout,
	"2006-01-02 15:04:05",
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999-07:00",
}

// Scan implements sql.Scanner.
func (t *Time) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		t.Time, t.Valid = time.Time{}, false
		return nil
	case time.Time:
		t.Time, t.Valid = v.UTC(), true
		return nil
	case string:
		return t.parse(v)
	case []byte:
		return t.parse(string(v))
	}
	return fmt.Errorf("database.Time: unsupported type %T", src)
}

func (t *Time) parse(s string) error {
	for _, l := range scanLayouts {
		if p, err := time.Parse(l, s); err == nil {
			t.Time, t.Valid = p.UTC(), true
			return nil
		}
	}
	return fmt.Errorf("database.Time: cannot parse %q", s)
}

// Value implements driver.Valuer.
func (t Time) Value() (driver.Value, error) {
	if !t.Valid {
		return nil, nil
	}
	return FormatTime(t.Time), nil
}

// Ptr returns nil for NULL.
func (t Time) Ptr() *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}
