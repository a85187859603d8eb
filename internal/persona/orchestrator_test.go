package persona

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"haru/internal/perception"
	"haru/internal/types"
)

var anchor = time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)

// fakeClient returns a canned envelope and records what it was asked.
type fakeClient struct {
	reply      string
	action     string // raw JSON fragment for the action object
	err        error
	gotSystem  string
	gotHistory []types.ConversationTurn
}

func (f *fakeClient) Complete(_ context.Context, system string, history []types.ConversationTurn) (string, error) {
	f.gotSystem = system
	f.gotHistory = history
	if f.err != nil {
		return "", f.err
	}
	return fmt.Sprintf(`{"reply": %q, "action": %s}`, f.reply, f.action), nil
}

// fakeFactory hands out one client per persona ID.
func fakeFactory(clients map[string]*fakeClient) perception.Factory {
	return func(_ context.Context, conn types.ConnectionConfig) (perception.Client, error) {
		c, ok := clients[conn.APIKeyEnv] // tests key clients by APIKeyEnv
		if !ok || c == nil {
			return nil, perception.ErrNoCredential
		}
		return c, nil
	}
}

func testPersona(id, name string) types.Persona {
	return types.Persona{
		ID:         id,
		Name:       name,
		Active:     true,
		Connection: types.ConnectionConfig{APIKeyEnv: id},
	}
}

func TestRunTurn_SingleOwnerPolicy(t *testing.T) {
	clients := map[string]*fakeClient{
		"p1": {reply: "추가할게요", action: `{"type": "add_todo", "data": {"text": "우유 사기"}}`},
		"p2": {reply: "좋은 생각이에요", action: `{"type": "add_journal", "data": {"content": "몰래 쓰는 일기"}}`},
		"p3": {reply: "저도요", action: `{"type": "add_todo", "data": {"text": "빵 사기"}}`},
	}
	o := New(fakeFactory(clients), 0)

	in := TurnInput{
		UserText: "우유 사는 거 할 일에 넣어줘",
		Personas: []types.Persona{testPersona("p1", "하루"), testPersona("p2", "미리"), testPersona("p3", "소리")},
		History:  []types.ConversationTurn{{Role: types.RoleUser, Content: "우유 사는 거 할 일에 넣어줘"}},
		Anchor:   anchor,
	}
	result := o.RunTurn(context.Background(), in)

	if len(result.Replies) != 3 {
		t.Fatalf("replies = %d, want 3", len(result.Replies))
	}
	if result.Action.Type != types.ActionAddTodo {
		t.Fatalf("action = %v, want persona[0]'s add_todo", result.Action.Type)
	}
	if result.Action.AddTodo.Text != "우유 사기" {
		t.Errorf("action text = %q: personas 2/3 leaked through", result.Action.AddTodo.Text)
	}
}

func TestRunTurn_PersonaOrderPreserved(t *testing.T) {
	clients := map[string]*fakeClient{
		"p1": {reply: "첫째", action: `{"type": "none"}`},
		"p2": {reply: "둘째", action: `{"type": "none"}`},
	}
	o := New(fakeFactory(clients), 0)
	result := o.RunTurn(context.Background(), TurnInput{
		UserText: "안녕",
		Personas: []types.Persona{testPersona("p1", "하루"), testPersona("p2", "미리")},
		History:  []types.ConversationTurn{{Role: types.RoleUser, Content: "안녕"}},
		Anchor:   anchor,
	})
	if result.Replies[0].Text != "첫째" || result.Replies[1].Text != "둘째" {
		t.Errorf("replies out of order: %+v", result.Replies)
	}
}

func TestRunTurn_FailureIsolation(t *testing.T) {
	clients := map[string]*fakeClient{
		"p1": {err: errors.New("quota exceeded")},
		"p3": {reply: "저는 잘 있어요", action: `{"type": "none"}`},
		// p2 intentionally absent: no credential.
	}
	o := New(fakeFactory(clients), 0)
	result := o.RunTurn(context.Background(), TurnInput{
		UserText: "다들 잘 있어?",
		Personas: []types.Persona{testPersona("p1", "하루"), testPersona("p2", "미리"), testPersona("p3", "소리")},
		History:  []types.ConversationTurn{{Role: types.RoleUser, Content: "다들 잘 있어?"}},
		Anchor:   anchor,
	})

	if len(result.Replies) != 3 {
		t.Fatalf("a failing persona aborted the turn: %+v", result.Replies)
	}
	if result.Replies[0].Text != msgCompletionFail || !result.Replies[0].Degraded {
		t.Errorf("persona 1 should apologize, got %+v", result.Replies[0])
	}
	if result.Replies[1].Text != msgNoCredential || !result.Replies[1].Degraded {
		t.Errorf("persona 2 should warn about config, got %+v", result.Replies[1])
	}
	if result.Replies[2].Text != "저는 잘 있어요" {
		t.Errorf("persona 3 should answer normally, got %+v", result.Replies[2])
	}
	if !result.Action.IsNone() {
		t.Errorf("failed persona[0] must yield none, got %v", result.Action.Type)
	}
}

func TestRunTurn_DeleteResolution(t *testing.T) {
	events := []types.CalendarEvent{
		{ID: "e1", Title: "팀 회의", Date: "2024-03-11", StartTime: "10:00"},
		{ID: "e2", Title: "치과 예약", Date: "2024-03-15", StartTime: "15:00"},
	}

	clients := map[string]*fakeClient{
		"p1": {reply: "삭제할게요", action: `{"type": "delete_event", "data": {"title": "치과"}}`},
	}
	o := New(fakeFactory(clients), 0)
	in := TurnInput{
		UserText: "치과 예약 지워줘",
		Personas: []types.Persona{testPersona("p1", "하루")},
		History:  []types.ConversationTurn{{Role: types.RoleUser, Content: "치과 예약 지워줘"}},
		Events:   events,
		Anchor:   anchor,
	}
	result := o.RunTurn(context.Background(), in)

	if result.Action.Type != types.ActionDeleteEvent {
		t.Fatalf("action = %v", result.Action.Type)
	}
	if result.Action.DeleteEvent.ID != "e2" {
		t.Errorf("resolved ID = %q, want e2", result.Action.DeleteEvent.ID)
	}
	if result.Replies[0].Text != "삭제할게요" {
		t.Errorf("reply = %q", result.Replies[0].Text)
	}
}

func TestRunTurn_DeleteNotFound(t *testing.T) {
	clients := map[string]*fakeClient{
		"p1": {reply: "지울게요!", action: `{"type": "delete_event", "data": {"title": "등산"}}`},
	}
	o := New(fakeFactory(clients), 0)
	result := o.RunTurn(context.Background(), TurnInput{
		UserText: "등산 일정 지워줘",
		Personas: []types.Persona{testPersona("p1", "하루")},
		History:  []types.ConversationTurn{{Role: types.RoleUser, Content: "등산 일정 지워줘"}},
		Events:   []types.CalendarEvent{{ID: "e1", Title: "팀 회의", Date: "2024-03-11"}},
		Anchor:   anchor,
	})

	if !result.Action.IsNone() {
		t.Errorf("unresolved delete must yield none, got %v", result.Action.Type)
	}
	if result.Replies[0].Text != msgDeleteNotFound {
		t.Errorf("reply = %q, want not-found message instead of persona reply", result.Replies[0].Text)
	}
}

func TestRunTurn_HistoryScoping(t *testing.T) {
	clients := map[string]*fakeClient{
		"p1": {reply: "a", action: `{"type": "none"}`},
		"p2": {reply: "b", action: `{"type": "none"}`},
	}
	o := New(fakeFactory(clients), 0)

	history := []types.ConversationTurn{
		{Role: types.RoleUser, Content: "어제 뭐 했더라"},
		{Role: types.RoleAssistant, Content: "산책하셨어요", PersonaID: "p1"},
		{Role: types.RoleAssistant, Content: "그리고 책도 읽으셨죠", PersonaID: "p2"},
		{Role: types.RoleUser, Content: "맞다, 고마워"},
	}
	o.RunTurn(context.Background(), TurnInput{
		UserText: "맞다, 고마워",
		Personas: []types.Persona{testPersona("p1", "하루"), testPersona("p2", "미리")},
		History:  history,
		Anchor:   anchor,
	})

	for id, c := range clients {
		for _, turn := range c.gotHistory {
			if turn.Role == types.RoleAssistant && turn.PersonaID != id {
				t.Errorf("persona %s saw %s's assistant turn: %+v", id, turn.PersonaID, turn)
			}
		}
		if len(c.gotHistory) != 3 {
			t.Errorf("persona %s history = %d turns, want 2 user + 1 own", id, len(c.gotHistory))
		}
	}
}

func TestRunTurn_CrossTalkInstructionForSecondaries(t *testing.T) {
	clients := map[string]*fakeClient{
		"p1": {reply: "a", action: `{"type": "none"}`},
		"p2": {reply: "b", action: `{"type": "none"}`},
	}
	o := New(fakeFactory(clients), 0)
	o.RunTurn(context.Background(), TurnInput{
		UserText: "안녕",
		Personas: []types.Persona{testPersona("p1", "하루"), testPersona("p2", "미리")},
		History:  []types.ConversationTurn{{Role: types.RoleUser, Content: "안녕"}},
		Anchor:   anchor,
	})

	if strings.Contains(clients["p1"].gotSystem, "이미 답변했습니다") {
		t.Error("primary persona should not get the already-answered directive")
	}
	if !strings.Contains(clients["p2"].gotSystem, "하루") || !strings.Contains(clients["p2"].gotSystem, "이미 답변했습니다") {
		t.Errorf("secondary persona missing cross-talk suppression: %s", clients["p2"].gotSystem)
	}
}

func TestRunTurn_MemoryScopedPerPersona(t *testing.T) {
	clients := map[string]*fakeClient{
		"p1": {reply: "a", action: `{"type": "none"}`},
		"p2": {reply: "b", action: `{"type": "none"}`},
	}
	o := New(fakeFactory(clients), 0)

	p1 := testPersona("p1", "하루")
	p1.Memory = "사용자는 아침형 인간이다"
	p2 := testPersona("p2", "미리")
	p2.Memory = "사용자는 커피를 싫어한다"

	o.RunTurn(context.Background(), TurnInput{
		UserText: "안녕",
		Personas: []types.Persona{p1, p2},
		History:  []types.ConversationTurn{{Role: types.RoleUser, Content: "안녕"}},
		Anchor:   anchor,
	})

	if !strings.Contains(clients["p1"].gotSystem, "아침형 인간") || strings.Contains(clients["p1"].gotSystem, "커피를 싫어한다") {
		t.Error("persona 1 memory leaked or missing")
	}
	if !strings.Contains(clients["p2"].gotSystem, "커피를 싫어한다") || strings.Contains(clients["p2"].gotSystem, "아침형 인간") {
		t.Error("persona 2 memory leaked or missing")
	}
}

func TestRunTurn_UnparseableOutputBecomesReply(t *testing.T) {
	raw := &rawClient{output: "그냥 평문으로 답할게요"}
	factory := func(_ context.Context, _ types.ConnectionConfig) (perception.Client, error) {
		return raw, nil
	}
	o := New(factory, 0)
	result := o.RunTurn(context.Background(), TurnInput{
		UserText: "안녕",
		Personas: []types.Persona{testPersona("p1", "하루")},
		History:  []types.ConversationTurn{{Role: types.RoleUser, Content: "안녕"}},
		Anchor:   anchor,
	})
	if result.Replies[0].Text != "그냥 평문으로 답할게요" {
		t.Errorf("reply = %q", result.Replies[0].Text)
	}
	if !result.Action.IsNone() {
		t.Errorf("action = %v, want none", result.Action.Type)
	}
}

type rawClient struct{ output string }

func (r *rawClient) Complete(context.Context, string, []types.ConversationTurn) (string, error) {
	return r.output, nil
}
