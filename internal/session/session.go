// Package session ties the conversational pipeline together: gate check,
// persona orchestration, action execution against the store, and history
// bookkeeping. One ChatSession serves one conversation on one goroutine.
package session

import (
	"context"
	"errors"
	"time"

	"haru/internal/config"
	"haru/internal/gate"
	"haru/internal/logging"
	"haru/internal/persona"
	"haru/internal/perception"
	"haru/internal/store"
	"haru/internal/types"
)

// Store is the persistence surface the session drives. *store.Store
// satisfies it; tests substitute fakes.
type Store interface {
	AddEvent(ctx context.Context, ev types.CalendarEvent) (types.CalendarEvent, error)
	DeleteEvent(ctx context.Context, id string) error
	ListEvents(ctx context.Context) ([]types.CalendarEvent, error)
	ListUpcomingEvents(ctx context.Context, from string, limit int) ([]types.CalendarEvent, error)
	AddTodo(ctx context.Context, t types.TodoItem) (types.TodoItem, error)
	ListPendingTodos(ctx context.Context, limit int) ([]types.TodoItem, error)
	AddJournal(ctx context.Context, j types.JournalEntry) (types.JournalEntry, error)
	ListRecentJournal(ctx context.Context, limit int) ([]types.JournalEntry, error)
	SaveInsight(ctx context.Context, p types.InsightPost) (types.InsightPost, error)
}

// ProfileSource yields the personas joining each turn.
type ProfileSource interface {
	Active() []types.Persona
}

// Execution acknowledgements. The failure messages deliberately avoid
// surfacing internal error text.
const (
	msgExecuteFail = "죄송해요, 작업을 처리하지 못했어요. 잠시 후 다시 시도해주세요."
	msgDeleteGone  = "이미 삭제되었거나 찾을 수 없는 일정이에요."
	msgNoPersona   = "활성화된 페르소나가 없어요. 프로필 설정을 확인해주세요."
)

// Message is one line of session output, attributed to a persona. System
// acknowledgements (gate prompts, execution results) carry the primary
// persona's identity.
type Message struct {
	PersonaID   string
	PersonaName string
	Text        string
	Degraded    bool
}

// ChatSession owns one conversation: its gate, its history, and its view of
// the store.
type ChatSession struct {
	store    Store
	profiles ProfileSource
	orch     *persona.Orchestrator
	gate     *gate.Gate
	insight  *InsightGenerator
	cfg      config.ChatConfig

	history []types.ConversationTurn
	now     func() time.Time
}

// New assembles a session from its collaborators.
func New(st Store, profiles ProfileSource, factory perception.Factory, cfg config.ChatConfig) *ChatSession {
	return &ChatSession{
		store:    st,
		profiles: profiles,
		orch:     persona.New(factory, cfg.ReplyDelayDuration()),
		gate:     gate.New(cfg.ConfirmActions),
		insight:  NewInsightGenerator(st, factory),
		cfg:      cfg,
		now:      time.Now,
	}
}

// History returns the conversation so far.
func (s *ChatSession) History() []types.ConversationTurn {
	return s.history
}

// HandleTurn processes one user turn end to end and returns the messages to
// display, in order. It never returns an error to the caller; every failure
// degrades into a message.
func (s *ChatSession) HandleTurn(ctx context.Context, userText string) []Message {
	personas := s.profiles.Active()
	if len(personas) == 0 {
		return []Message{{Text: msgNoPersona, Degraded: true}}
	}
	primary := personas[0]

	// Gate first: while a proposal is pending, the turn is a verdict on the
	// proposal, never a new request.
	decision, pending := s.gate.Check(userText)
	switch decision {
	case gate.Confirm:
		logging.Session("gate confirm: %s", pending.Describe())
		s.appendUser(userText)
		return []Message{s.execute(ctx, pending, primary)}
	case gate.Cancel:
		logging.Session("gate cancel: %s", pending.Describe())
		s.appendUser(userText)
		return []Message{{PersonaID: primary.ID, PersonaName: primary.Name, Text: gate.CancelAck}}
	case gate.Reprompt:
		logging.Session("gate reprompt, holding: %s", pending.Describe())
		return []Message{{PersonaID: primary.ID, PersonaName: primary.Name, Text: s.gate.Prompt()}}
	}

	s.appendUser(userText)

	snapshot := buildSnapshot(ctx, s.store, s.cfg, s.today())
	events, err := s.store.ListEvents(ctx)
	if err != nil {
		logging.StoreError("list events for turn: %v", err)
		events = nil
	}

	result := s.orch.RunTurn(ctx, persona.TurnInput{
		UserText: userText,
		Personas: personas,
		History:  s.boundedHistory(),
		Snapshot: snapshot,
		Events:   events,
		Anchor:   s.now(),
	})

	messages := make([]Message, 0, len(result.Replies)+1)
	for _, r := range result.Replies {
		messages = append(messages, Message{
			PersonaID:   r.PersonaID,
			PersonaName: r.PersonaName,
			Text:        r.Text,
			Degraded:    r.Degraded,
		})
		s.appendAssistant(r)
	}

	if result.Action.IsNone() {
		return messages
	}

	if s.gate.Offer(result.Action) {
		messages = append(messages, s.execute(ctx, result.Action, primary))
	} else {
		logging.Session("gate proposed: %s", result.Action.Describe())
		messages = append(messages, Message{
			PersonaID:   primary.ID,
			PersonaName: primary.Name,
			Text:        s.gate.Prompt(),
		})
	}
	return messages
}

// execute applies a validated action to the store and renders an
// acknowledgement attributed to the primary persona.
func (s *ChatSession) execute(ctx context.Context, a types.Action, primary types.Persona) Message {
	msg := Message{PersonaID: primary.ID, PersonaName: primary.Name}

	var err error
	switch a.Type {
	case types.ActionAddEvent:
		p := a.AddEvent
		_, err = s.store.AddEvent(ctx, types.CalendarEvent{
			Title:     p.Title,
			Date:      p.Date,
			StartTime: p.StartTime,
			EndTime:   p.EndTime,
			Tag:       p.Tag,
		})
	case types.ActionDeleteEvent:
		err = s.store.DeleteEvent(ctx, a.DeleteEvent.ID)
		if errors.Is(err, store.ErrNotFound) {
			logging.Actions("delete target vanished: %s", a.DeleteEvent.ID)
			msg.Text = msgDeleteGone
			msg.Degraded = true
			return msg
		}
	case types.ActionAddTodo:
		p := a.AddTodo
		_, err = s.store.AddTodo(ctx, types.TodoItem{
			Text:     p.Text,
			Category: p.Category,
			DueDate:  p.DueDate,
		})
	case types.ActionAddJournal:
		p := a.AddJournal
		_, err = s.store.AddJournal(ctx, types.JournalEntry{
			Title:   p.Title,
			Content: p.Content,
			Mood:    p.Mood,
		})
	case types.ActionGenerateInsight:
		var post types.InsightPost
		post, err = s.insight.Generate(ctx, primary.Connection)
		if err == nil {
			msg.Text = "돌아보기를 정리했어요 · " + post.Title
			return msg
		}
	default:
		return msg
	}

	if err != nil {
		logging.Actions("execute %s failed: %v", a.Type, err)
		msg.Text = msgExecuteFail
		msg.Degraded = true
		return msg
	}

	logging.Actions("executed %s", a.Describe())
	msg.Text = "네, 완료했어요 · " + a.Describe()
	return msg
}

func (s *ChatSession) appendUser(text string) {
	s.history = append(s.history, types.ConversationTurn{Role: types.RoleUser, Content: text})
}

func (s *ChatSession) appendAssistant(r persona.Reply) {
	// Degraded substitutions are display-only; feeding apologies back into
	// the model context only confuses later turns.
	if r.Degraded {
		return
	}
	s.history = append(s.history, types.ConversationTurn{
		Role:      types.RoleAssistant,
		Content:   r.Text,
		PersonaID: r.PersonaID,
	})
}

// boundedHistory returns the most recent HistoryLimit turns.
func (s *ChatSession) boundedHistory() []types.ConversationTurn {
	limit := s.cfg.HistoryLimit
	if limit <= 0 || len(s.history) <= limit {
		return s.history
	}
	return s.history[len(s.history)-limit:]
}

func (s *ChatSession) today() string {
	return s.now().Format("2006-01-02")
}
