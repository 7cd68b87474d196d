package store

import (
	"fmt"
	"time"

	"github.com/roach88/dpl/internal/wiki"
)

// TimestampLayout is the 14-digit wiki timestamp format (UTC).
const TimestampLayout = "20060102150405"

// ParseTimestamp parses a 14-digit wiki timestamp.
func ParseTimestamp(s string) (time.Time, error) {
	t, err := time.ParseInLocation(TimestampLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse timestamp %q: %w", s, err)
	}
	return t, nil
}

// FormatTimestamp formats t as a 14-digit wiki timestamp in UTC.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// Timestamp is a nullable timestamp column. It scans the 14-digit text
// of the SQLite schema and the time.Time that pgx returns for MediaWiki's
// PostgreSQL TIMESTAMPTZ columns.
type Timestamp struct {
	Time  time.Time
	Valid bool
}

// Scan implements sql.Scanner.
func (ts *Timestamp) Scan(src any) error {
	var s string
	switch v := src.(type) {
	case nil:
		*ts = Timestamp{}
		return nil
	case time.Time:
		*ts = Timestamp{Time: v.UTC(), Valid: true}
		return nil
	case string:
		s = v
	case []byte:
		s = string(v)
	default:
		return fmt.Errorf("scan timestamp: unsupported type %T", src)
	}

	t, err := ParseTimestamp(s)
	if err != nil {
		// text form of a TIMESTAMPTZ read through a string column
		if rt, rerr := time.Parse(time.RFC3339Nano, s); rerr == nil {
			t, err = rt.UTC(), nil
		}
	}
	if err != nil {
		return err
	}
	*ts = Timestamp{Time: t, Valid: true}
	return nil
}

// Page is one row of the page table.
type Page struct {
	ID         int64
	Namespace  int
	Title      string // DB key: underscores, first letter upper case
	IsRedirect bool
	Length     int64
	Touched    time.Time
	Counter    int64
}

// CategoryLink records that a page is a member of a category.
type CategoryLink struct {
	PageID   int64
	Category string // category DB key, without namespace prefix
	SortKey  string
	Added    time.Time
	Type     string // "page", "subcat" or "file"
}

// Review is the review status of a page. Nil fields are stored as NULL.
type Review struct {
	PageID  int64
	Stable  *int64
	Quality *int
}

// ResultRow is one page returned by a list query.
type ResultRow struct {
	Namespace int
	Title     string // DB key
	ID        int64
	Length    int64
	Touched   time.Time

	// CategoryAdded is when the page joined its first include category.
	// Zero unless the date annotation was requested.
	CategoryAdded time.Time
}

// LinkType returns the categorylinks type of a page in namespace ns.
func LinkType(ns int) string {
	switch ns {
	case wiki.NSCategory:
		return "subcat"
	case wiki.NSFile:
		return "file"
	default:
		return "page"
	}
}
