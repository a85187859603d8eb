// Package persona sequences completion requests across the active personas
// for one user turn and owns the persona profile store.
//
// Persona order is a correctness property, not a scheduling detail: requests
// run strictly sequentially, persona[0] is the only persona whose action may
// reach the sinks, and each later persona is told the turn has already been
// answered. One persona failing never aborts the rest of the turn.
package persona

import (
	"context"
	"time"

	"haru/internal/action"
	"haru/internal/articulation"
	"haru/internal/logging"
	"haru/internal/perception"
	"haru/internal/resolve"
	"haru/internal/types"
)

// User-facing degradation messages. These substitute a persona's reply, never
// surface as errors.
const (
	msgNoCredential   = "연결 설정을 찾을 수 없어요. 설정을 확인해주세요."
	msgCompletionFail = "죄송해요, 지금은 답하기가 어려워요. 잠시 후 다시 말해주세요."
	msgDeleteNotFound = "말씀하신 항목을 찾지 못했어요. 날짜나 제목을 조금 더 구체적으로 알려주시겠어요?"
)

// Reply is one persona's contribution to a turn, in persona order.
type Reply struct {
	PersonaID   string
	PersonaName string
	Text        string
	// Degraded marks warning/apology substitutions rather than model output.
	Degraded bool
}

// TurnInput carries everything one orchestrated turn needs. History already
// includes the latest user turn.
type TurnInput struct {
	UserText string
	Personas []types.Persona
	History  []types.ConversationTurn
	Snapshot string
	Events   []types.CalendarEvent
	Anchor   time.Time
}

// TurnResult is the outcome of one orchestrated turn. Action is the validated
// (and, for deletes, resolved) action of persona[0]; every other persona's
// action has been discarded.
type TurnResult struct {
	Replies []Reply
	Action  types.Action
}

// Orchestrator drives one completion request per active persona, in order.
type Orchestrator struct {
	factory    perception.Factory
	replyDelay time.Duration
}

// New creates an orchestrator. replyDelay is a cosmetic pause between persona
// replies; zero disables it.
func New(factory perception.Factory, replyDelay time.Duration) *Orchestrator {
	return &Orchestrator{factory: factory, replyDelay: replyDelay}
}

// RunTurn issues one completion request per active persona, sequentially and
// in order. Only persona[0]'s action survives validation; delete actions are
// resolved against in.Events, and an unresolvable delete substitutes a
// "not found" message for persona[0]'s reply.
func (o *Orchestrator) RunTurn(ctx context.Context, in TurnInput) TurnResult {
	result := TurnResult{Action: types.None()}

	otherNames := make([]string, 0, len(in.Personas))
	for _, p := range in.Personas {
		otherNames = append(otherNames, p.Name)
	}

	for i, p := range in.Personas {
		if i > 0 && o.replyDelay > 0 {
			time.Sleep(o.replyDelay)
		}

		reply, rawAction := o.completeOne(ctx, p, in, i == 0, namesExcept(otherNames, i))

		if i == 0 {
			validated := action.Validate(rawAction, in.UserText, in.Anchor)
			validated, reply = o.resolveDelete(validated, in.Events, reply)
			result.Action = validated
		} else if rawAction != nil {
			// Hard single-owner policy: non-primary actions are discarded
			// regardless of content.
			logging.Personas("discarded action from non-primary persona %s", p.ID)
		}

		result.Replies = append(result.Replies, reply)
	}

	return result
}

// completeOne runs a single persona's completion with full failure isolation.
// Every failure path returns a degraded Reply; nothing propagates an error.
func (o *Orchestrator) completeOne(ctx context.Context, p types.Persona, in TurnInput, primary bool, otherNames []string) (Reply, map[string]any) {
	reply := Reply{PersonaID: p.ID, PersonaName: p.Name}

	client, err := o.factory(ctx, p.Connection)
	if err != nil {
		logging.PersonasWarn("persona %s has no usable client: %v", p.ID, err)
		reply.Text = msgNoCredential
		reply.Degraded = true
		return reply, nil
	}

	system := buildSystemInstruction(p, in.Snapshot, primary, otherNames)
	history := filterHistory(in.History, p.ID)

	raw, err := client.Complete(ctx, system, history)
	if err != nil {
		logging.PersonasWarn("completion failed for persona %s: %v", p.ID, err)
		reply.Text = msgCompletionFail
		reply.Degraded = true
		return reply, nil
	}

	env, err := articulation.ParseEnvelope(raw)
	if err != nil {
		// The whole output is the reply; no action was recoverable.
		reply.Text = articulation.Sanitize(raw, p.Name, otherNames)
		return reply, nil
	}

	reply.Text = articulation.Sanitize(env.Reply, p.Name, otherNames)
	return reply, env.Action
}

// resolveDelete turns a delete request into a concrete target, or degrades
// the turn to a "not found" message with no action.
func (o *Orchestrator) resolveDelete(a types.Action, events []types.CalendarEvent, reply Reply) (types.Action, Reply) {
	if a.Type != types.ActionDeleteEvent {
		return a, reply
	}
	target := resolve.Event(*a.DeleteEvent, events)
	if target == nil {
		logging.Actions("delete target not resolved (title=%q date=%q)", a.DeleteEvent.Title, a.DeleteEvent.Date)
		reply.Text = msgDeleteNotFound
		reply.Degraded = true
		return types.None(), reply
	}
	a.DeleteEvent = &types.DeleteEventPayload{
		ID:        target.ID,
		Title:     target.Title,
		Date:      target.Date,
		StartTime: target.StartTime,
	}
	return a, reply
}

// namesExcept returns all persona names except index i, preserving order.
func namesExcept(names []string, i int) []string {
	out := make([]string, 0, len(names)-1)
	for j, n := range names {
		if j != i {
			out = append(out, n)
		}
	}
	return out
}
