package perception

import (
	"testing"

	"google.golang.org/genai"

	"haru/internal/types"
)

func TestGeminiContents_RoleMapping(t *testing.T) {
	history := []types.ConversationTurn{
		{Role: types.RoleUser, Content: "내일 일정 알려줘"},
		{Role: types.RoleAssistant, Content: "팀 회의가 있어요", PersonaID: "haru"},
		{Role: types.RoleUser, Content: "고마워"},
	}

	contents := geminiContents(history)
	if len(contents) != 3 {
		t.Fatalf("contents = %d, want 3", len(contents))
	}

	wantRoles := []genai.Role{genai.RoleUser, genai.RoleModel, genai.RoleUser}
	for i, c := range contents {
		if genai.Role(c.Role) != wantRoles[i] {
			t.Errorf("contents[%d].Role = %q, want %q", i, c.Role, wantRoles[i])
		}
		if len(c.Parts) != 1 || c.Parts[0].Text != history[i].Content {
			t.Errorf("contents[%d] text = %+v, want %q", i, c.Parts, history[i].Content)
		}
	}
}

func TestGeminiContents_Empty(t *testing.T) {
	if got := geminiContents(nil); len(got) != 0 {
		t.Fatalf("contents = %v, want empty", got)
	}
}
