package resolve

import (
	"testing"

	"haru/internal/types"
)

var events = []types.CalendarEvent{
	{ID: "e1", Title: "팀 회의", Date: "2024-03-11", StartTime: "10:00", Tag: "work"},
	{ID: "e2", Title: "치과 예약", Date: "2024-03-11", StartTime: "15:00", Tag: "personal"},
	{ID: "e3", Title: "저녁 약속", Date: "2024-03-12", Tag: "personal"},
	{ID: "e4", Title: "주간 전체 회의", Date: "2024-03-12", StartTime: "09:00", Tag: "work"},
}

func TestEvent_IDShortCircuits(t *testing.T) {
	// Conflicting title/date must be ignored once the ID matches.
	got := Event(types.DeleteEventPayload{ID: "e3", Title: "회의", Date: "2024-03-11"}, events)
	if got == nil || got.ID != "e3" {
		t.Fatalf("got %v, want e3", got)
	}

	// An unmatched ID falls through to field filtering.
	got = Event(types.DeleteEventPayload{ID: "missing", Title: "치과"}, events)
	if got == nil || got.ID != "e2" {
		t.Fatalf("got %v, want e2 via title filter", got)
	}
}

func TestEvent_TitleContainment(t *testing.T) {
	tests := []struct {
		name   string
		title  string
		wantID string
	}{
		{"fragment of stored title", "치과", "e2"},
		{"stored title is the fragment", "저녁 약속 취소된 거", "e3"},
		{"whitespace insensitive", "팀회의", "e1"},
		{"case insensitive", "팀 회의", "e1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Event(types.DeleteEventPayload{Title: tt.title}, events)
			if got == nil || got.ID != tt.wantID {
				t.Errorf("Event(title=%q) = %v, want %s", tt.title, got, tt.wantID)
			}
		})
	}
}

func TestEvent_DateAndTimeFilters(t *testing.T) {
	got := Event(types.DeleteEventPayload{Date: "2024-03-11", StartTime: "15:00"}, events)
	if got == nil || got.ID != "e2" {
		t.Fatalf("got %v, want e2", got)
	}
}

func TestEvent_NoMatch(t *testing.T) {
	if got := Event(types.DeleteEventPayload{Title: "등산"}, events); got != nil {
		t.Errorf("got %v, want nil", got)
	}
	if got := Event(types.DeleteEventPayload{Date: "2024-12-25"}, events); got != nil {
		t.Errorf("got %v, want nil", got)
	}
	if got := Event(types.DeleteEventPayload{Title: "회의"}, nil); got != nil {
		t.Errorf("empty candidate set: got %v, want nil", got)
	}
}

func TestEvent_TieBreakEarliest(t *testing.T) {
	// Two matches on the same date: earlier start time wins.
	got := Event(types.DeleteEventPayload{Date: "2024-03-11"}, events)
	if got == nil || got.ID != "e1" {
		t.Fatalf("got %v, want e1 (10:00 before 15:00)", got)
	}

	// "회의" matches e1 and e4 across dates: earlier date wins.
	got = Event(types.DeleteEventPayload{Title: "회의"}, events)
	if got == nil || got.ID != "e1" {
		t.Fatalf("got %v, want e1 (2024-03-11 before 2024-03-12)", got)
	}

	// A timeless event sorts at midnight, ahead of timed events that day.
	sameDay := []types.CalendarEvent{
		{ID: "a", Title: "회의 A", Date: "2024-03-12", StartTime: "09:00"},
		{ID: "b", Title: "회의 B", Date: "2024-03-12"},
	}
	got = Event(types.DeleteEventPayload{Date: "2024-03-12"}, sameDay)
	if got == nil || got.ID != "b" {
		t.Fatalf("got %v, want b (no time sorts as 00:00)", got)
	}
}
