package domain

import (
	"fmt"
	"strings"
	"time"
)

// workDateLayout is the wire format for work dates.
const workDateLayout = "02/01/2006"

// WorkDate is a day-precision calendar date. It is exchanged as a
// DD/MM/YYYY string, distinct from the creation timestamps used for
// ordering history entries.
type WorkDate struct {
	t time.Time
}

// NewWorkDate builds a WorkDate from a time, truncating to the day in UTC.
func NewWorkDate(t time.Time) WorkDate {
	return WorkDate{t: time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)}
}

// ParseWorkDate parses a DD/MM/YYYY string.
func ParseWorkDate(s string) (WorkDate, error) {
	t, err := time.Parse(workDateLayout, strings.TrimSpace(s))
	if err != nil {
		return WorkDate{}, fmt.Errorf("%w: %q", ErrInvalidWorkDate, s)
	}

	return NewWorkDate(t), nil
}

// Time returns the date as a UTC midnight time.
func (d WorkDate) Time() time.Time {
	return d.t
}

// IsZero reports whether the date is unset.
func (d WorkDate) IsZero() bool {
	return d.t.IsZero()
}

// Before reports whether d is strictly before other.
func (d WorkDate) Before(other WorkDate) bool {
	return d.t.Before(other.t)
}

// After reports whether d is strictly after other.
func (d WorkDate) After(other WorkDate) bool {
	return d.t.After(other.t)
}

// String formats the date as DD/MM/YYYY.
func (d WorkDate) String() string {
	if d.t.IsZero() {
		return ""
	}

	return d.t.Format(workDateLayout)
}

// MarshalJSON encodes the date as a DD/MM/YYYY string.
func (d WorkDate) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

// UnmarshalJSON decodes a DD/MM/YYYY string. An empty string leaves the
// date unset.
func (d *WorkDate) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		*d = WorkDate{}
		return nil
	}

	parsed, err := ParseWorkDate(s)
	if err != nil {
		return err
	}

	*d = parsed

	return nil
}
