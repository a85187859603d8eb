// Package action turns untrusted model action payloads into validated
// domain actions.
//
// The completion service is a hostile input source: fields may be missing,
// hallucinated, or wrongly typed, and the envelope may carry an action type
// this system has never heard of. Validate is total over all of that - every
// input maps to a well-formed Action, with None as the floor. Nothing in this
// package panics or returns an error.
package action

import (
	"strings"
	"time"

	"haru/internal/normalize"
	"haru/internal/types"
)

// DefaultEventTag is applied when the model supplies no event tag.
const DefaultEventTag = "personal"

// maxTitleRunes caps the user-text fallback for event titles.
const maxTitleRunes = 60

// journalTitleRunes caps the content-derived fallback for journal titles.
const journalTitleRunes = 24

// untitledEvent is the last-resort event title when both the model and the
// user supplied nothing.
const untitledEvent = "제목 없는 일정"

// Validate normalizes a raw, untrusted action payload against the latest user
// message and the anchor timestamp. Unknown or malformed types yield None.
//
// The payload shape is {type, data?}; identifying fields are read from the
// data sub-object when present, otherwise from the top level, since models
// produce both shapes.
func Validate(raw map[string]any, userText string, anchor time.Time) types.Action {
	if raw == nil {
		return types.None()
	}

	data := types.SubObject(raw, "data")
	if data == nil {
		data = raw
	}

	switch types.ActionType(strings.TrimSpace(types.Field(raw, "type"))) {
	case types.ActionAddEvent:
		return validateAddEvent(data, userText, anchor)
	case types.ActionDeleteEvent:
		return validateDeleteEvent(data, userText, anchor)
	case types.ActionAddTodo:
		return validateAddTodo(data, anchor)
	case types.ActionAddJournal:
		return validateAddJournal(data)
	case types.ActionGenerateInsight:
		return types.Action{Type: types.ActionGenerateInsight}
	default:
		return types.None()
	}
}

// validateAddEvent resolves each field through its fallback chain:
// structured value, then inference from the raw user text, then for the date
// the anchor itself. First success wins.
func validateAddEvent(data map[string]any, userText string, anchor time.Time) types.Action {
	date, ok := normalize.Date(types.Field(data, "date"), anchor)
	if !ok {
		date, ok = normalize.DateFromText(userText, anchor)
	}
	if !ok {
		date = anchor.Format(normalize.DateLayout)
	}

	start, ok := normalize.Time(types.Field(data, "startTime"))
	if !ok {
		start, _ = normalize.TimeFromText(userText)
	}

	// End time has no text-inference fallback: a bare time in the message
	// almost always means the start.
	end, _ := normalize.Time(types.Field(data, "endTime"))

	title := types.Field(data, "title")
	if title == "" {
		title = truncateRunes(strings.TrimSpace(userText), maxTitleRunes)
	}
	if title == "" {
		title = untitledEvent
	}

	tag := types.Field(data, "tag")
	if tag == "" {
		tag = DefaultEventTag
	}

	return types.Action{
		Type: types.ActionAddEvent,
		AddEvent: &types.AddEventPayload{
			Title:     title,
			Date:      date,
			StartTime: start,
			EndTime:   end,
			Tag:       tag,
		},
	}
}

// validateDeleteEvent refuses a delete with zero identifying signal rather
// than guessing a target.
func validateDeleteEvent(data map[string]any, userText string, anchor time.Time) types.Action {
	id := types.Field(data, "id")
	title := types.Field(data, "title")

	date, ok := normalize.Date(types.Field(data, "date"), anchor)
	if !ok {
		date, _ = normalize.DateFromText(userText, anchor)
	}

	start, ok := normalize.Time(types.Field(data, "startTime"))
	if !ok {
		start, _ = normalize.TimeFromText(userText)
	}

	if id == "" && title == "" && date == "" {
		return types.None()
	}

	return types.Action{
		Type: types.ActionDeleteEvent,
		DeleteEvent: &types.DeleteEventPayload{
			ID:        id,
			Title:     title,
			Date:      date,
			StartTime: start,
		},
	}
}

func validateAddTodo(data map[string]any, anchor time.Time) types.Action {
	// Required and strictly typed: a numeric or structural "text" is a
	// hallucination, not something to stringify.
	text, ok := stringField(data, "text")
	if !ok {
		return types.None()
	}

	category := strings.ToLower(types.Field(data, "category"))
	if !types.ValidCategory(category) {
		category = types.CategoryPersonal
	}

	due, _ := normalize.Date(types.Field(data, "dueDate"), anchor)

	return types.Action{
		Type: types.ActionAddTodo,
		AddTodo: &types.AddTodoPayload{
			Text:     text,
			Category: category,
			DueDate:  due,
		},
	}
}

func validateAddJournal(data map[string]any) types.Action {
	content, ok := stringField(data, "content")
	if !ok {
		return types.None()
	}

	title := types.Field(data, "title")
	if title == "" {
		title = truncateRunes(content, journalTitleRunes)
	}

	mood := strings.ToLower(types.Field(data, "mood"))
	if !types.ValidMood(mood) {
		mood = types.MoodNeutral
	}

	return types.Action{
		Type: types.ActionAddJournal,
		AddJournal: &types.AddJournalPayload{
			Title:   title,
			Content: content,
			Mood:    mood,
		},
	}
}

// stringField extracts a required, strictly string-typed field. Unlike
// types.Field it does not stringify numbers or booleans.
func stringField(m map[string]any, key string) (string, bool) {
	if m == nil {
		return "", false
	}
	s, ok := m[key].(string)
	s = strings.TrimSpace(s)
	if !ok || s == "" {
		return "", false
	}
	return s, true
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
