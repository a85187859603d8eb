// Package gate implements the per-conversation confirmation state machine.
//
// Destructive or noisy actions do not execute off the back of a single model
// completion; they park in a Proposed state until the user's next turn
// confirms or cancels them. The gate is strict: while a proposal is pending,
// unrelated user text re-prompts instead of becoming a new request, so a
// second pending action can never exist.
package gate

import (
	"strings"
	"time"
	"unicode"

	"haru/internal/types"
)

// State of the gate. Idle means the next validated action is processed
// normally; Proposed means an action is parked awaiting confirm/cancel.
type State int

const (
	Idle State = iota
	Proposed
)

// Decision classifies an incoming user turn against the gate state.
type Decision int

const (
	// PassThrough: nothing pending, the turn proceeds to orchestration.
	PassThrough Decision = iota
	// Confirm: the pending action should execute now.
	Confirm
	// Cancel: the pending action is discarded.
	Cancel
	// Reprompt: a proposal is pending and the turn was neither confirm nor
	// cancel; re-emit the instruction and hold state.
	Reprompt
)

// Bilingual keyword sets, matched case- and punctuation-insensitively.
// These are part of the observable contract.
var (
	confirmKeywords = []string{"실행", "확인", "네", "응", "좋아", "그래", "ok", "오케이", "okay", "yes"}
	cancelKeywords  = []string{"취소", "아니", "아니요", "아니오", "그만", "나중에", "no"}
)

// confirmRequired is the set of action types that must be confirmed before
// execution when confirmation is enabled.
var confirmRequired = map[types.ActionType]struct{}{
	types.ActionDeleteEvent: {},
	types.ActionAddTodo:     {},
	types.ActionAddJournal:  {},
}

// Gate holds the pending proposal for one conversation session. It is not
// safe for concurrent use; a session owns exactly one gate on one logical
// thread.
type Gate struct {
	enabled bool
	pending *types.PendingAction
	now     func() time.Time
}

// New returns a gate. When enabled is false the state machine is bypassed
// entirely and every action executes immediately.
func New(enabled bool) *Gate {
	return &Gate{enabled: enabled, now: time.Now}
}

// State returns the current gate state.
func (g *Gate) State() State {
	if g.pending != nil {
		return Proposed
	}
	return Idle
}

// Pending returns the parked action, or the None action when idle.
func (g *Gate) Pending() types.Action {
	if g.pending == nil {
		return types.None()
	}
	return g.pending.Action
}

// Check classifies an incoming user turn. On Confirm or Cancel the pending
// action is returned and the gate returns to Idle; on Reprompt it is returned
// and retained.
func (g *Gate) Check(userText string) (Decision, types.Action) {
	if g.pending == nil {
		return PassThrough, types.None()
	}

	folded := foldKeyword(userText)
	if matchesAny(folded, confirmKeywords) {
		a := g.pending.Action
		g.pending = nil
		return Confirm, a
	}
	if matchesAny(folded, cancelKeywords) {
		a := g.pending.Action
		g.pending = nil
		return Cancel, a
	}
	return Reprompt, g.pending.Action
}

// Offer presents a validated action to the gate. It returns true when the
// action should execute immediately; false when it has been parked as a
// proposal. Offering while a proposal is already pending is refused and
// reported as parked, preserving the single-pending invariant.
func (g *Gate) Offer(a types.Action) bool {
	if !g.enabled || a.IsNone() {
		return true
	}
	if _, required := confirmRequired[a.Type]; !required {
		return true
	}
	if g.pending != nil {
		return false
	}
	g.pending = &types.PendingAction{Action: a, ProposedAt: g.now()}
	return false
}

// Prompt renders the confirm/cancel instruction for the pending action.
// Returns "" when nothing is pending.
func (g *Gate) Prompt() string {
	if g.pending == nil {
		return ""
	}
	return "다음 작업을 실행할까요?\n· " + g.pending.Action.Describe() +
		"\n실행하려면 \"실행\", 취소하려면 \"취소\"라고 답해주세요."
}

// CancelAck is the acknowledgement emitted when a proposal is cancelled.
const CancelAck = "알겠어요, 취소했어요."

// foldKeyword lowercases and strips punctuation, spaces, and symbols so
// "네!!", " OK. ", and "오케이~" all match their keywords.
func foldKeyword(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if unicode.IsPunct(r) || unicode.IsSpace(r) || unicode.IsSymbol(r) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func matchesAny(folded string, keywords []string) bool {
	for _, k := range keywords {
		if folded == k {
			return true
		}
	}
	return false
}
