package i18n

import (
	"fmt"
	"time"
)

// ISODate is the pattern name of the numeric date form.
const ISODate = "ISO 8601"

// FormatDate renders t with a date pattern.
//
// An empty pattern gives the language's long date form. Known patterns:
//
//	ISO 8601  2006-01-02
//	dmy       2 January 2006
//	mdy       January 2, 2006
//	ymd       2006 January 2
//	dm        2 January       (year stripped)
//	md        January 2       (year stripped)
//
// Any other pattern leaves the date in its intermediate form: the ISO date,
// or "January 02" when the year is stripped.
func (l *Localizer) FormatDate(t time.Time, pattern string, stripYear bool) string {
	t = t.UTC()
	if pattern == "" {
		return l.dates.FmtDateLong(t)
	}

	month := l.dates.MonthWide(t.Month())
	day, year := t.Day(), t.Year()

	if stripYear {
		switch pattern {
		case "dm":
			return fmt.Sprintf("%d %s", day, month)
		case "md":
			return fmt.Sprintf("%s %d", month, day)
		default:
			return fmt.Sprintf("%s %02d", month, day)
		}
	}

	switch pattern {
	case "dmy":
		return fmt.Sprintf("%d %s %d", day, month, year)
	case "mdy":
		return fmt.Sprintf("%s %d, %d", month, day, year)
	case "ymd":
		return fmt.Sprintf("%d %s %d", year, month, day)
	default:
		return t.Format("2006-01-02")
	}
}
