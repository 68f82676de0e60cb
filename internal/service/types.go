// Package service defines the backend-agnostic interface for task operations.
package service

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Task represents a single task item.
type Task struct {
	ID        ID       `json:"id"`
	Title     string   `json:"title"`
	Completed bool     `json:"completed"`
	DueDate   DateTime `json:"dueDate"`
	CreatedAt DateTime `json:"createdAt"`
}

// NewTask is the body sent when creating a task.
// The server assigns ID and CreatedAt.
type NewTask struct {
	Title     string   `json:"title"`
	Completed bool     `json:"completed"`
	DueDate   DateTime `json:"dueDate"`
}

// ID is an opaque, server-assigned task identifier.
// It remembers whether the server sent it as a JSON number or string
// and marshals back in the same form.
type ID struct {
	value   string
	numeric bool
}

// NumericID returns an ID that marshals as a JSON number.
func NumericID(n int64) ID {
	return ID{value: strconv.FormatInt(n, 10), numeric: true}
}

// StringID returns an ID that marshals as a JSON string.
func StringID(s string) ID {
	return ID{value: s}
}

// ParseID builds an ID from user input. Integer input is treated as
// numeric and stored in canonical form, so "007" and "+7" equal NumericID(7).
func ParseID(s string) ID {
	s = strings.TrimSpace(s)
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return NumericID(n)
	}
	return ID{value: s}
}

// String returns the identifier text.
func (id ID) String() string { return id.value }

// IsZero reports whether the ID is unset.
func (id ID) IsZero() bool { return id.value == "" }

// Equal compares identifiers by value, ignoring their JSON form.
func (id ID) Equal(other ID) bool { return id.value == other.value }

// MarshalJSON implements json.Marshaler.
func (id ID) MarshalJSON() ([]byte, error) {
	if id.value == "" {
		return []byte("null"), nil
	}
	if id.numeric {
		return []byte(id.value), nil
	}
	return json.Marshal(id.value)
}

// UnmarshalJSON implements json.Unmarshaler.
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ID{}
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID{value: s}
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("invalid id: %s", data)
	}
	if i, err := n.Int64(); err == nil {
		*id = NumericID(i)
		return nil
	}
	*id = ID{value: n.String(), numeric: true}
	return nil
}

// DateTimeLayout is the wire format for due and creation times.
// The backend uses zone-less local date-times.
const DateTimeLayout = "2006-01-02T15:04:05"

// dateTimeLayouts are the accepted input layouts, tried in order.
var dateTimeLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	time.RFC3339Nano,
	"2006-01-02",
}

// wallClockZone is the zone that zoned input is converted to before its
// offset is dropped. The backend stores local date-times.
var wallClockZone = time.Local

// ErrInvalidDateTime is returned for date-time text in no accepted layout.
var ErrInvalidDateTime = errors.New("invalid date-time")

// DateTime is a zone-less date-time. The zero value means unset.
type DateTime struct {
	time.Time
}

// ParseDateTime parses s in any accepted layout.
// Input with a zone or offset is converted to local time first.
// Empty input yields the zero DateTime.
func ParseDateTime(s string) (DateTime, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return DateTime{}, nil
	}
	for _, layout := range dateTimeLayouts {
		t, err := time.Parse(layout, s)
		if err != nil {
			continue
		}
		if layout == time.RFC3339Nano {
			t = toWallClock(t)
		}
		return DateTime{Time: t}, nil
	}
	return DateTime{}, fmt.Errorf("%w: %s", ErrInvalidDateTime, s)
}

// toWallClock converts t to wallClockZone and keeps only its wall-clock
// reading, the same form zone-less layouts parse to.
func toWallClock(t time.Time) time.Time {
	t = t.In(wallClockZone)
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)
}

// MarshalJSON implements json.Marshaler. The zero value marshals as null.
func (d DateTime) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.Format(DateTimeLayout))
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *DateTime) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*d = DateTime{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidDateTime, data)
	}
	parsed, err := ParseDateTime(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
