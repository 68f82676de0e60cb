package service

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestID_NumericRoundTrip(t *testing.T) {
	var task Task
	if err := json.Unmarshal([]byte(`{"id":42,"title":"x"}`), &task); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if task.ID.String() != "42" {
		t.Errorf("expected id 42, got %q", task.ID.String())
	}

	data, err := json.Marshal(task.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(data) != "42" {
		t.Errorf("expected numeric id to marshal as 42, got %s", data)
	}
}

func TestID_StringRoundTrip(t *testing.T) {
	var id ID
	if err := json.Unmarshal([]byte(`"a1b2"`), &id); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	data, err := json.Marshal(id)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(data) != `"a1b2"` {
		t.Errorf("expected string id to marshal quoted, got %s", data)
	}
}

func TestID_Null(t *testing.T) {
	id := NumericID(1)
	if err := json.Unmarshal([]byte(`null`), &id); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !id.IsZero() {
		t.Errorf("expected zero id, got %q", id.String())
	}
}

func TestID_InvalidJSON(t *testing.T) {
	var id ID
	if err := json.Unmarshal([]byte(`true`), &id); err == nil {
		t.Error("expected error for boolean id")
	}
}

func TestID_EqualIgnoresForm(t *testing.T) {
	if !NumericID(7).Equal(StringID("7")) {
		t.Error("expected numeric and string ids with the same value to be equal")
	}
	if NumericID(7).Equal(NumericID(8)) {
		t.Error("expected different ids to differ")
	}
}

func TestParseID_Canonical(t *testing.T) {
	for _, in := range []string{"7", "007", "+7", " 07 "} {
		id := ParseID(in)
		if !id.Equal(NumericID(7)) {
			t.Errorf("ParseID(%q) = %q, want 7", in, id.String())
		}
		data, err := json.Marshal(id)
		if err != nil {
			t.Errorf("ParseID(%q): marshal error: %v", in, err)
			continue
		}
		if string(data) != "7" {
			t.Errorf("ParseID(%q) marshals as %s, want 7", in, data)
		}
	}
}

func TestID_UnmarshalCanonicalNumber(t *testing.T) {
	var id ID
	if err := json.Unmarshal([]byte(`7`), &id); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !id.Equal(ParseID("007")) {
		t.Errorf("expected decoded id to equal parsed id, got %q", id.String())
	}

	// Non-integer numbers keep their text.
	if err := json.Unmarshal([]byte(`1e2`), &id); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id.String() != "1e2" {
		t.Errorf("expected 1e2, got %q", id.String())
	}
}

func TestParseID(t *testing.T) {
	data, _ := json.Marshal(ParseID(" 12 "))
	if string(data) != "12" {
		t.Errorf("expected digits to parse as numeric id, got %s", data)
	}
	data, _ = json.Marshal(ParseID("abc"))
	if string(data) != `"abc"` {
		t.Errorf("expected text to parse as string id, got %s", data)
	}
}

// useWallClockZone sets the zone zoned input converts to for one test.
func useWallClockZone(t *testing.T, zone *time.Location) {
	t.Helper()
	prev := wallClockZone
	wallClockZone = zone
	t.Cleanup(func() { wallClockZone = prev })
}

func TestParseDateTime_Layouts(t *testing.T) {
	useWallClockZone(t, time.UTC)

	tests := []struct {
		in   string
		want time.Time
	}{
		{"2024-01-01T10:00", time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)},
		{"2024-01-01T10:00:30", time.Date(2024, 1, 1, 10, 0, 30, 0, time.UTC)},
		{"2024-01-01T10:00:30.123456", time.Date(2024, 1, 1, 10, 0, 30, 123456000, time.UTC)},
		{"2024-01-01 10:00", time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)},
		{"2024-01-01T10:00:00Z", time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)},
		{"2024-01-01", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		got, err := ParseDateTime(tt.in)
		if err != nil {
			t.Errorf("ParseDateTime(%q): unexpected error: %v", tt.in, err)
			continue
		}
		if !got.Equal(tt.want) {
			t.Errorf("ParseDateTime(%q) = %v, want %v", tt.in, got.Time, tt.want)
		}
	}
}

func TestParseDateTime_ZonedInputUsesLocalTime(t *testing.T) {
	useWallClockZone(t, time.FixedZone("CET", 3600))

	got, err := ParseDateTime("2024-01-01T10:00:00+02:00")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.Equal(time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)) {
		t.Errorf("expected 09:00 local wall clock, got %v", got.Time)
	}

	data, err := json.Marshal(got)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(data) != `"2024-01-01T09:00:00"` {
		t.Errorf("unexpected wire form %s", data)
	}

	// Zone-less input is taken as local wall clock unchanged.
	plain, _ := ParseDateTime("2024-01-01T10:00")
	if !plain.Equal(time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)) {
		t.Errorf("expected zone-less input unchanged, got %v", plain.Time)
	}
}

func TestParseDateTime_Empty(t *testing.T) {
	got, err := ParseDateTime("  ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.IsZero() {
		t.Errorf("expected zero date-time, got %v", got.Time)
	}
}

func TestParseDateTime_Invalid(t *testing.T) {
	_, err := ParseDateTime("tomorrow")
	if !errors.Is(err, ErrInvalidDateTime) {
		t.Fatalf("expected ErrInvalidDateTime, got %v", err)
	}
	if err.Error() != "invalid date-time: tomorrow" {
		t.Errorf("unexpected message: %q", err.Error())
	}
}

func TestNewTask_MarshalsNullDueDate(t *testing.T) {
	data, err := json.Marshal(NewTask{Title: "Buy milk"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	expected := `{"title":"Buy milk","completed":false,"dueDate":null}`
	if string(data) != expected {
		t.Errorf("expected %s, got %s", expected, data)
	}
}

func TestTask_DecodeBackendPayload(t *testing.T) {
	payload := `{"id":1,"title":"Buy milk","completed":false,"createdAt":"2024-01-01T09:00:00.123456","dueDate":"2024-01-01T10:00:00"}`

	var task Task
	if err := json.Unmarshal([]byte(payload), &task); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if task.Title != "Buy milk" || task.Completed {
		t.Errorf("unexpected task: %+v", task)
	}
	if !task.DueDate.Equal(time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)) {
		t.Errorf("unexpected due date: %v", task.DueDate.Time)
	}
	if task.CreatedAt.IsZero() {
		t.Error("expected createdAt to be set")
	}

	// Sending it back keeps the numeric id and the local date-time layout.
	data, err := json.Marshal(task)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(string(data), `"id":1,`) {
		t.Errorf("expected numeric id in %s", data)
	}
	if !strings.Contains(string(data), `"dueDate":"2024-01-01T10:00:00"`) {
		t.Errorf("expected local date-time in %s", data)
	}
}

func TestDateTime_InvalidJSON(t *testing.T) {
	var d DateTime
	if err := json.Unmarshal([]byte(`12`), &d); !errors.Is(err, ErrInvalidDateTime) {
		t.Errorf("expected ErrInvalidDateTime, got %v", err)
	}
}
