// Package parse turns loosely formatted client input into typed values.
package parse

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// timestamp layouts accepted from clients, most specific first. Layouts
// without a zone are read in the caller's location.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// Timestamp parses raw as RFC 3339, a datetime-local form value or a bare
// date. Zone-less values are interpreted in loc.
func Timestamp(raw string, loc *time.Location) (time.Time, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty timestamp")
	}
	if loc == nil {
		loc = time.UTC
	}
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unable to parse timestamp %q", raw)
}

// OptionalInt parses raw as a base-10 integer; an empty string yields nil.
func OptionalInt(raw string) (*int, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return nil, fmt.Errorf("invalid integer %q", raw)
	}
	return &n, nil
}

var roomNumberRe = regexp.MustCompile(`^([A-Za-z]+)[\s-]?(\d)(\d{2,})$`)

// RoomNumber is the structure encoded in labels like "B201".
type RoomNumber struct {
	Wing  string
	Floor int
	Seq   int
}

// ParseRoomNumber splits a label of the form <wing letters><floor digit><sequence>,
// e.g. "C302" is wing C, floor 3, room 2.
func ParseRoomNumber(raw string) (RoomNumber, error) {
	s := strings.ToUpper(strings.TrimSpace(raw))
	m := roomNumberRe.FindStringSubmatch(s)
	if m == nil {
		return RoomNumber{}, fmt.Errorf("unable to parse room number %q", raw)
	}
	floor, _ := strconv.Atoi(m[2])
	seq, _ := strconv.Atoi(m[3])
	if floor == 0 {
		return RoomNumber{}, fmt.Errorf("room number %q has no floor", raw)
	}
	return RoomNumber{Wing: m[1], Floor: floor, Seq: seq}, nil
}
