package repository

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// dialect hides the differences between the Postgres and SQLite backends.
// Queries are written with $n placeholders.
type dialect struct {
	name              string
	rebind            func(string) string
	isUniqueViolation func(error) bool
}

var postgresDialect = dialect{
	name:   "postgres",
	rebind: func(q string) string { return q },
	isUniqueViolation: func(err error) bool {
		var pqErr *pq.Error
		return errors.As(err, &pqErr) && pqErr.Code == "23505"
	},
}

// SQLite reads ?NNN as a numbered parameter, so $n maps onto ?n.
var sqliteDialect = dialect{
	name:   "sqlite",
	rebind: func(q string) string { return strings.ReplaceAll(q, "$", "?") },
	isUniqueViolation: func(err error) bool {
		var sqErr *sqlite.Error
		if errors.As(err, &sqErr) {
			code := sqErr.Code()
			return code == sqlite3.SQLITE_CONSTRAINT_UNIQUE ||
				code == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY ||
				(code&0xff == sqlite3.SQLITE_CONSTRAINT && strings.Contains(sqErr.Error(), "UNIQUE"))
		}
		return false
	},
}

// timestamp scans TIMESTAMPTZ (time.Time) and SQLite TEXT columns alike.
type timestamp struct {
	t *time.Time
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05",
}

func (ts timestamp) Scan(src any) error {
	switch v := src.(type) {
	case time.Time:
		*ts.t = v.UTC()
		return nil
	case []byte:
		return ts.Scan(string(v))
	case string:
		for _, layout := range timestampLayouts {
			if parsed, err := time.Parse(layout, v); err == nil {
				*ts.t = parsed.UTC()
				return nil
			}
		}
		return fmt.Errorf("cannot parse timestamp %q", v)
	case int64:
		*ts.t = time.Unix(v, 0).UTC()
		return nil
	case nil:
		*ts.t = time.Time{}
		return nil
	}
	return fmt.Errorf("cannot scan %T into timestamp", src)
}

// timeLayout is fixed width so SQLite orders the text the same as time.
const timeLayout = "2006-01-02T15:04:05.000000Z"

// timeValue writes timestamps as UTC ISO 8601 text, which both backends accept.
type timeValue time.Time

func (v timeValue) Value() (driver.Value, error) {
	return time.Time(v).UTC().Format(timeLayout), nil
}
