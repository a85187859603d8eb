// Package types provides shared type definitions used across haru packages.
// This package exists to break import cycles between the validator, resolver,
// orchestrator, and session layers. Types here are foundational data
// structures with no complex dependencies.
package types

import (
	"fmt"
	"time"
)

// =============================================================================
// ACTION UNION
// =============================================================================

// ActionType is the discriminant of the Action tagged union.
type ActionType string

const (
	ActionAddEvent        ActionType = "add_event"
	ActionDeleteEvent     ActionType = "delete_event"
	ActionAddTodo         ActionType = "add_todo"
	ActionAddJournal      ActionType = "add_journal"
	ActionGenerateInsight ActionType = "generate_insight"
	ActionNone            ActionType = "none"
)

// Action is the closed set of domain-mutating intents the pipeline can
// produce. Exactly the payload matching Type is non-nil; everything
// downstream of the validator may rely on that.
type Action struct {
	Type        ActionType
	AddEvent    *AddEventPayload
	DeleteEvent *DeleteEventPayload
	AddTodo     *AddTodoPayload
	AddJournal  *AddJournalPayload
}

// None returns the empty action.
func None() Action {
	return Action{Type: ActionNone}
}

// IsNone reports whether the action carries no intent.
func (a Action) IsNone() bool {
	return a.Type == ActionNone || a.Type == ""
}

// AddEventPayload is a validated calendar insertion. Date is always
// YYYY-MM-DD; StartTime/EndTime are 24-hour HH:MM or empty.
type AddEventPayload struct {
	Title     string
	Date      string
	StartTime string
	EndTime   string
	Tag       string
}

// DeleteEventPayload is a deletion request. Before resolution it carries
// whatever identifying fields survived validation; after resolution ID names
// a concrete stored event.
type DeleteEventPayload struct {
	ID        string
	Title     string
	Date      string
	StartTime string
}

// Todo categories. Unknown values coerce to CategoryPersonal.
const (
	CategoryPersonal = "personal"
	CategoryWork     = "work"
	CategoryHealth   = "health"
	CategoryShopping = "shopping"
)

// ValidCategory reports whether c is one of the todo category constants.
func ValidCategory(c string) bool {
	switch c {
	case CategoryPersonal, CategoryWork, CategoryHealth, CategoryShopping:
		return true
	}
	return false
}

// AddTodoPayload is a validated todo insertion. DueDate is YYYY-MM-DD or empty.
type AddTodoPayload struct {
	Text     string
	Category string
	DueDate  string
}

// Journal moods. Unknown values coerce to MoodNeutral.
const (
	MoodGood    = "good"
	MoodNeutral = "neutral"
	MoodBad     = "bad"
)

// ValidMood reports whether m is one of the mood constants.
func ValidMood(m string) bool {
	switch m {
	case MoodGood, MoodNeutral, MoodBad:
		return true
	}
	return false
}

// AddJournalPayload is a validated journal insertion.
type AddJournalPayload struct {
	Title   string
	Content string
	Mood    string
}

// Describe renders a short human-readable Korean summary of the action, used
// for confirmation prompts and execution acknowledgements.
func (a Action) Describe() string {
	switch a.Type {
	case ActionAddEvent:
		if a.AddEvent == nil {
			return "일정 추가"
		}
		s := fmt.Sprintf("일정 추가: %s (%s", a.AddEvent.Title, a.AddEvent.Date)
		if a.AddEvent.StartTime != "" {
			s += " " + a.AddEvent.StartTime
		}
		return s + ")"
	case ActionDeleteEvent:
		if a.DeleteEvent == nil {
			return "일정 삭제"
		}
		switch {
		case a.DeleteEvent.Title != "":
			return fmt.Sprintf("일정 삭제: %s", a.DeleteEvent.Title)
		case a.DeleteEvent.Date != "":
			return fmt.Sprintf("일정 삭제: %s", a.DeleteEvent.Date)
		default:
			return fmt.Sprintf("일정 삭제: #%s", a.DeleteEvent.ID)
		}
	case ActionAddTodo:
		if a.AddTodo == nil {
			return "할 일 추가"
		}
		return fmt.Sprintf("할 일 추가: %s [%s]", a.AddTodo.Text, a.AddTodo.Category)
	case ActionAddJournal:
		if a.AddJournal == nil {
			return "일기 작성"
		}
		return fmt.Sprintf("일기 작성: %s", a.AddJournal.Title)
	case ActionGenerateInsight:
		return "인사이트 생성"
	default:
		return "없음"
	}
}

// =============================================================================
// DOMAIN ENTITIES
// =============================================================================

// CalendarEvent is a stored calendar entry. The resolver treats the event
// collection as read-only; only the store mutates it.
type CalendarEvent struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Date      string `json:"date"`
	StartTime string `json:"start_time,omitempty"`
	EndTime   string `json:"end_time,omitempty"`
	Tag       string `json:"tag"`
}

// StartSortKey is the combined date+time key used for chronological ordering.
// Events without a start time sort at midnight.
func (e CalendarEvent) StartSortKey() string {
	t := e.StartTime
	if t == "" {
		t = "00:00"
	}
	return e.Date + " " + t
}

// TodoItem is a stored todo entry.
type TodoItem struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Category  string    `json:"category"`
	DueDate   string    `json:"due_date,omitempty"`
	Done      bool      `json:"done"`
	CreatedAt time.Time `json:"created_at"`
}

// JournalEntry is a stored journal entry.
type JournalEntry struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Mood      string    `json:"mood"`
	CreatedAt time.Time `json:"created_at"`
}

// InsightPost is a generated reflection over recent journal and todo state.
type InsightPost struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// =============================================================================
// CONVERSATION
// =============================================================================

// Role identifies the author of a conversation turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ConversationTurn is one entry of the ordered chat history. PersonaID is set
// on assistant turns only.
type ConversationTurn struct {
	Role      Role   `json:"role"`
	Content   string `json:"content"`
	PersonaID string `json:"persona_id,omitempty"`
}

// PendingAction is an action awaiting explicit user confirmation. At most one
// exists per conversation.
type PendingAction struct {
	Action     Action
	ProposedAt time.Time
}

// =============================================================================
// PERSONA
// =============================================================================

// ConnectionConfig names the completion provider a persona talks to. An empty
// config inherits the global LLM configuration.
type ConnectionConfig struct {
	Provider  string `yaml:"provider" json:"provider"`
	Model     string `yaml:"model" json:"model,omitempty"`
	BaseURL   string `yaml:"base_url" json:"base_url,omitempty"`
	APIKey    string `yaml:"api_key" json:"api_key,omitempty"`
	APIKeyEnv string `yaml:"api_key_env" json:"api_key_env,omitempty"`
}

// Persona is one configured conversational identity. Memory is opaque text
// injected into that persona's instruction and never shared across personas
// within a turn.
type Persona struct {
	ID         string           `yaml:"id" json:"id"`
	Name       string           `yaml:"name" json:"name"`
	Profile    string           `yaml:"profile" json:"profile"`
	Memory     string           `yaml:"memory" json:"memory,omitempty"`
	Active     bool             `yaml:"active" json:"active"`
	Connection ConnectionConfig `yaml:"connection" json:"connection"`
}
