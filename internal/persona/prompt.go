package persona

import (
	"fmt"
	"strings"

	"haru/internal/types"
)

// envelopeInstruction pins the completion output contract. Personas after the
// first get an additional directive to leave actions alone; the orchestrator
// discards their actions regardless, this just reduces wasted tokens.
const envelopeInstruction = `응답은 반드시 아래 JSON 형식으로만 출력하세요:
{"reply": "<사용자에게 보낼 답변>", "action": {"type": "<액션 타입>", "data": { ... }}}

action.type은 다음 중 하나입니다: add_event, delete_event, add_todo, add_journal, generate_insight, none.
수행할 작업이 없으면 {"type": "none"}을 사용하세요.
날짜는 YYYY-MM-DD, 시간은 24시간 HH:MM 형식을 권장하지만 "내일", "오후 3시" 같은 표현도 허용됩니다.`

// buildSystemInstruction assembles one persona's completion instruction:
// identity, domain context snapshot, per-persona memory, the envelope
// contract, and cross-talk suppression for non-primary personas.
func buildSystemInstruction(p types.Persona, snapshot string, primary bool, otherNames []string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "당신은 개인 비서 \"%s\"입니다.\n", p.Name)
	if strings.TrimSpace(p.Profile) != "" {
		b.WriteString(strings.TrimSpace(p.Profile))
		b.WriteString("\n")
	}

	if strings.TrimSpace(snapshot) != "" {
		b.WriteString("\n[사용자의 현재 상태]\n")
		b.WriteString(strings.TrimSpace(snapshot))
		b.WriteString("\n")
	}

	if strings.TrimSpace(p.Memory) != "" {
		b.WriteString("\n[이 사용자에 대해 기억하고 있는 것]\n")
		b.WriteString(strings.TrimSpace(p.Memory))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(envelopeInstruction)

	if !primary {
		b.WriteString("\n\n이번 대화에는 다른 비서(")
		b.WriteString(strings.Join(otherNames, ", "))
		b.WriteString(")도 함께 참여 중이며, 이미 답변했습니다. 그들을 흉내 내거나 대신 말하지 마세요. 작업 실행은 담당하지 않으므로 action은 항상 {\"type\": \"none\"}으로 두세요.")
	}

	return b.String()
}

// filterHistory returns the turns persona p is allowed to see: every user
// turn plus its own prior assistant turns. A persona must never see another
// persona's replies as its own history.
func filterHistory(history []types.ConversationTurn, personaID string) []types.ConversationTurn {
	out := make([]types.ConversationTurn, 0, len(history))
	for _, turn := range history {
		if turn.Role == types.RoleUser || turn.PersonaID == personaID {
			out = append(out, turn)
		}
	}
	return out
}
