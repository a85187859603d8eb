package articulation

import "testing"

func TestParseEnvelope_Robustness(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{
			name:  "clean JSON",
			input: `{"reply": "안녕하세요!", "action": {"type": "none"}}`,
		},
		{
			name:  "markdown wrapped",
			input: "```json\n" + `{"reply": "안녕하세요!", "action": {"type": "none"}}` + "\n```",
		},
		{
			name:  "prefix prose",
			input: `Here is my response: {"reply": "안녕하세요!", "action": {"type": "none"}}`,
		},
		{
			name:  "suffix prose",
			input: `{"reply": "안녕하세요!", "action": {"type": "none"}} hope that helps`,
		},
		{
			name:  "nested braces in values",
			input: `{"reply": "안녕하세요!", "action": {"type": "add_event", "data": {"title": "회의 {3월}"}}}`,
		},
		{
			name:  "braces inside strings",
			input: `{"reply": "안녕하세요!", "action": {"type": "none", "note": "literal } and { here"}}`,
		},
		{
			name:    "truncated JSON",
			input:   `{"reply": "안녕", "action":`,
			wantErr: true,
		},
		{
			name:    "plain text",
			input:   "그냥 텍스트만 왔어요",
			wantErr: true,
		},
		{
			name:    "empty",
			input:   "",
			wantErr: true,
		},
		{
			name:    "object without reply",
			input:   `{"action": {"type": "none"}}`,
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env, err := ParseEnvelope(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseEnvelope() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && env.Reply != "안녕하세요!" {
				t.Errorf("reply = %q", env.Reply)
			}
		})
	}
}

func TestParseEnvelope_ActionPassthrough(t *testing.T) {
	env, err := ParseEnvelope(`{"reply": "추가했어요", "action": {"type": "add_todo", "data": {"text": "우유 사기"}}}`)
	if err != nil {
		t.Fatal(err)
	}
	if env.Action["type"] != "add_todo" {
		t.Errorf("action type = %v", env.Action["type"])
	}
}

func TestSanitize(t *testing.T) {
	tests := []struct {
		name   string
		reply  string
		self   string
		others []string
		want   string
	}{
		{
			name:  "generic role tag",
			reply: "[Assistant] 오늘 일정은 두 개예요.",
			self:  "하루",
			want:  "오늘 일정은 두 개예요.",
		},
		{
			name:  "korean role tag",
			reply: "[봇] 알겠어요.",
			self:  "하루",
			want:  "알겠어요.",
		},
		{
			name:  "own name tag substring tolerant",
			reply: "[하루 비서] 네, 추가했어요.",
			self:  "하루",
			want:  "네, 추가했어요.",
		},
		{
			name:  "own name colon prefix",
			reply: "하루: 좋은 아침이에요!",
			self:  "하루",
			want:  "좋은 아침이에요!",
		},
		{
			name:  "fullwidth colon prefix",
			reply: "하루： 좋은 아침이에요!",
			self:  "하루",
			want:  "좋은 아침이에요!",
		},
		{
			name:  "foreign bracket tag kept in single persona mode",
			reply: "[미리] 제가 대신 답할게요.",
			self:  "하루",
			want:  "[미리] 제가 대신 답할게요.",
		},
		{
			name:   "impersonated lines dropped",
			reply:  "제 생각은 이래요.\n미리: 저도 동의해요!\n그래서 내일 쉬는 게 좋겠어요.",
			self:   "하루",
			others: []string{"미리"},
			want:   "제 생각은 이래요.\n그래서 내일 쉬는 게 좋겠어요.",
		},
		{
			name:   "bracketed impersonation dropped",
			reply:  "오늘 바빴네요.\n[미리] 맞아요!",
			self:   "하루",
			others: []string{"미리"},
			want:   "오늘 바빴네요.",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Sanitize(tt.reply, tt.self, tt.others)
			if got != tt.want {
				t.Errorf("Sanitize() = %q, want %q", got, tt.want)
			}
		})
	}
}

// Non-emptying guarantee: when every stripping rule would fire, the original
// trimmed reply comes back instead of "".
func TestSanitize_NeverEmpties(t *testing.T) {
	cases := []struct {
		reply  string
		self   string
		others []string
	}{
		{"미리: 전부 다른 사람 말투", "하루", []string{"미리"}},
		{"미리: 한 줄\n미리: 두 줄", "하루", []string{"미리"}},
		{"[하루]", "하루", nil},
		{"하루:", "하루", nil},
	}
	for _, c := range cases {
		got := Sanitize(c.reply, c.self, c.others)
		if got == "" {
			t.Errorf("Sanitize(%q) returned empty", c.reply)
		}
	}
}

func TestSanitize_EmptyInput(t *testing.T) {
	if got := Sanitize("   ", "하루", nil); got != "" {
		t.Errorf("whitespace-only input should stay empty, got %q", got)
	}
}
