package normalize

import (
	"testing"
	"time"
)

// anchor is a Sunday.
var anchor = time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)

func TestDate_RelativeTokens(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"korean today", "오늘", "2024-03-10"},
		{"korean tomorrow", "내일", "2024-03-11"},
		{"korean day after", "모레", "2024-03-12"},
		{"korean next week", "다음주", "2024-03-17"},
		{"english today", "today", "2024-03-10"},
		{"english tomorrow", "tomorrow", "2024-03-11"},
		{"english day after", "day after tomorrow", "2024-03-12"},
		{"english next week", "next week", "2024-03-17"},
		{"english mixed case", "Tomorrow", "2024-03-11"},
		{"english upper", "TODAY", "2024-03-10"},
		{"padded", "  내일  ", "2024-03-11"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Date(tt.raw, anchor)
			if !ok {
				t.Fatalf("Date(%q) not ok", tt.raw)
			}
			if got != tt.want {
				t.Errorf("Date(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestDate_Absolute(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"2024-03-15", "2024-03-15"},
		{"2024.03.15", "2024-03-15"},
		{"2024/03/15", "2024-03-15"},
		{"2024-3-5", "2024-03-05"},
		{"Mar 15, 2024", "2024-03-15"},
		{"2024년 3월 15일", "2024-03-15"},
	}
	for _, tt := range tests {
		got, ok := Date(tt.raw, anchor)
		if !ok || got != tt.want {
			t.Errorf("Date(%q) = %q, %v; want %q, true", tt.raw, got, ok, tt.want)
		}
	}
}

func TestDate_Idempotent(t *testing.T) {
	first, ok := Date("내일", anchor)
	if !ok {
		t.Fatal("first pass failed")
	}
	second, ok := Date(first, anchor)
	if !ok || second != first {
		t.Errorf("Date(Date(x)) = %q, want %q", second, first)
	}
}

func TestDate_Rejects(t *testing.T) {
	for _, raw := range []string{"", "   ", "어제는좋았다", "not a date", "99999", "2024-13-40", "\x00\xff"} {
		if got, ok := Date(raw, anchor); ok {
			t.Errorf("Date(%q) = %q, want rejection", raw, got)
		}
	}
}

func TestTime(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
		ok   bool
	}{
		{"canonical", "14:30", "14:30", true},
		{"canonical single digit hour", "9:05", "09:05", true},
		{"bare hour", "15", "15:00", true},
		{"bare zero", "0", "00:00", true},
		{"korean pm", "오후 3시", "15:00", true},
		{"korean am noon", "오전 12시", "00:00", true},
		{"korean minutes", "오후 6시 30분", "18:30", true},
		{"korean half", "3시 반", "03:30", true},
		{"korean no meridiem", "9시", "09:00", true},
		{"korean already 24h", "오후 15시", "15:00", true},
		{"pm colon", "pm 2:30", "14:30", true},
		{"am bare", "am 9", "09:00", true},
		{"pm upper", "PM 11", "23:00", true},
		{"am noon", "am 12", "00:00", true},
		{"hour overflow", "25:00", "", false},
		{"minute overflow", "10:75", "", false},
		{"bare hour overflow", "24", "", false},
		{"korean minute overflow", "3시 99분", "", false},
		{"empty", "", "", false},
		{"garbage", "점심쯤", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Time(tt.raw)
			if ok != tt.ok || got != tt.want {
				t.Errorf("Time(%q) = %q, %v; want %q, %v", tt.raw, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestDateFromText(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
		ok   bool
	}{
		{"korean token embedded", "내일 오후에 회의 잡아줘", "2024-03-11", true},
		{"english token embedded", "schedule dinner Tomorrow at 7", "2024-03-11", true},
		{"longer token wins", "day after tomorrow works", "2024-03-12", true},
		{"iso embedded", "2024-04-01에 보자", "2024-04-01", true},
		{"nothing", "그냥 인사야", "", false},
		{"empty", "", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := DateFromText(tt.text, anchor)
			if ok != tt.ok || got != tt.want {
				t.Errorf("DateFromText(%q) = %q, %v; want %q, %v", tt.text, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestTimeFromText(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
		ok   bool
	}{
		{"embedded colon", "회의는 14:30에 시작해", "14:30", true},
		{"embedded korean", "내일 오후 3시에 만나", "15:00", true},
		{"no time", "내일 보자", "", false},
		{"invalid embedded", "버스는 99:99에 안 와", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := TimeFromText(tt.text)
			if ok != tt.ok || got != tt.want {
				t.Errorf("TimeFromText(%q) = %q, %v; want %q, %v", tt.text, got, ok, tt.want, tt.ok)
			}
		})
	}
}

// Totality: adversarial inputs must never panic.
func TestTotality(t *testing.T) {
	inputs := []string{
		"", " ", "\t\n", "\x00", "\xff\xfe", "시분초", "오후", "am", ":",
		"-1", "0000-00-00", "9999999999999", "오후 시", "[]{}", "내일내일내일",
		"​", "🙂🙂🙂", "am pm am", "12:345", "시시시시",
	}
	for _, s := range inputs {
		Date(s, anchor)
		Time(s)
		DateFromText(s, anchor)
		TimeFromText(s)
	}
}
