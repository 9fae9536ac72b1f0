package model

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"
)

const (
	// NoDueDate is the wire form of an unset due date.
	NoDueDate = "No Due Date"

	dueCompressedLayout = "20060102150405"
	dueDisplayLayout    = "2006-01-02 15:04"
)

var (
	reDueDateOnly   = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	reDueDateTime   = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}[ T]\d{2}:\d{2}(?::\d{2})?$`)
	reDueCompressed = regexp.MustCompile(`^\d{14}$`)
)

// DueDateTime is an optional local date and time with no zone.
// The zero value has no due date.
type DueDateTime struct {
	at  time.Time
	set bool
}

// DueAt returns a due date at t's wall clock, seconds kept, zone dropped.
func DueAt(t time.Time) DueDateTime {
	return DueDateTime{
		at:  time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, time.UTC),
		set: true,
	}
}

func (d DueDateTime) IsSet() bool { return d.set }

// Time returns the due date as a UTC-anchored wall clock.
func (d DueDateTime) Time() (time.Time, bool) { return d.at, d.set }

// Compare orders earlier dates first and unset dates last.
func (d DueDateTime) Compare(o DueDateTime) int {
	switch {
	case d.set && o.set:
		return d.at.Compare(o.at)
	case d.set:
		return -1
	case o.set:
		return 1
	default:
		return 0
	}
}

// Compressed returns the YYYYMMDDhhmmss wire form, or NoDueDate.
func (d DueDateTime) Compressed() string {
	if !d.set {
		return NoDueDate
	}
	return d.at.Format(dueCompressedLayout)
}

// Display renders "YYYY-MM-DD", or "YYYY-MM-DD HH:MM" when a time is set.
func (d DueDateTime) Display() string {
	if !d.set {
		return NoDueDate
	}
	if d.at.Hour() == 0 && d.at.Minute() == 0 && d.at.Second() == 0 {
		return d.at.Format(time.DateOnly)
	}
	return d.at.Format(dueDisplayLayout)
}

func (d DueDateTime) String() string { return d.Display() }

// ParseDue accepts YYYY-MM-DD, YYYY-MM-DD HH:MM[:SS], the compressed
// YYYYMMDDhhmmss form, or NoDueDate / "none" / "" to clear.
func ParseDue(s string) (DueDateTime, error) {
	s = strings.TrimSpace(s)
	switch {
	case s == "" || s == NoDueDate || strings.EqualFold(s, "none"):
		return DueDateTime{}, nil
	case reDueDateOnly.MatchString(s):
		return parseDueLayout(s, time.DateOnly)
	case reDueDateTime.MatchString(s):
		s = strings.Replace(s, "T", " ", 1)
		if len(s) == len(time.DateTime) {
			return parseDueLayout(s, time.DateTime)
		}
		return parseDueLayout(s, dueDisplayLayout)
	case reDueCompressed.MatchString(s):
		return parseDueLayout(s, dueCompressedLayout)
	}
	return DueDateTime{}, fmt.Errorf("invalid due date %q (expected YYYY-MM-DD, YYYY-MM-DD HH:MM, or YYYYMMDDhhmmss)", s)
}

func parseDueLayout(s, layout string) (DueDateTime, error) {
	t, err := time.ParseInLocation(layout, s, time.UTC)
	if err != nil {
		return DueDateTime{}, fmt.Errorf("invalid due date %q: %w", s, err)
	}
	return DueDateTime{at: t, set: true}, nil
}

func (d DueDateTime) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Compressed())
}

func (d *DueDateTime) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	v, err := ParseDue(s)
	if err != nil {
		return err
	}
	*d = v
	return nil
}
