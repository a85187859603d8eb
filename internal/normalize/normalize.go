// Package normalize converts loosely formatted Korean/English date and time
// expressions into canonical YYYY-MM-DD and 24-hour HH:MM forms.
//
// Every function here is total: any input string, including empty or
// adversarial Unicode, yields either a canonical value or ok=false. Nothing
// panics. The validator composes these into first-success-wins fallback
// chains, so a false here simply moves the chain to its next strategy.
package normalize

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the canonical date form produced by this package.
const DateLayout = "2006-01-02"

// relativeDays maps relative tokens in both languages to day offsets from the
// anchor. English lookups are lowercased first.
var relativeDays = map[string]int{
	"오늘":                 0,
	"내일":                 1,
	"모레":                 2,
	"다음주":                7,
	"today":              0,
	"tomorrow":           1,
	"day after tomorrow": 2,
	"next week":          7,
}

// absoluteLayouts are attempted in order for non-relative date strings.
var absoluteLayouts = []string{
	"2006-01-02",
	"2006.01.02",
	"2006/01/02",
	"2006-1-2",
	"Jan 2, 2006",
	"January 2, 2006",
	"2006년 1월 2일",
}

// Date normalizes raw into YYYY-MM-DD against the anchor date.
// Accepts canonical dates, relative tokens (오늘/내일/모레/다음주 and their
// English equivalents, case-insensitive), and a handful of absolute layouts.
func Date(raw string, anchor time.Time) (string, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", false
	}

	if off, ok := relativeDays[s]; ok {
		return anchor.AddDate(0, 0, off).Format(DateLayout), true
	}
	if off, ok := relativeDays[strings.ToLower(s)]; ok {
		return anchor.AddDate(0, 0, off).Format(DateLayout), true
	}

	for _, layout := range absoluteLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(DateLayout), true
		}
	}
	return "", false
}

var (
	canonicalTimeRe = regexp.MustCompile(`^(\d{1,2}):(\d{2})$`)
	bareHourRe      = regexp.MustCompile(`^(\d{1,2})$`)
	// 오후 3시 / 오전 9시 30분 / 3시 반
	koreanTimeRe = regexp.MustCompile(`^(오전|오후)?\s*(\d{1,2})시(?:\s*(?:(\d{1,2})분|(반)))?$`)
	// pm 2:30 / AM 9
	meridiemTimeRe = regexp.MustCompile(`^(?i)(am|pm)\s*(\d{1,2})(?::(\d{2}))?$`)
)

// Time normalizes raw into 24-hour HH:MM.
// Accepts canonical times, a bare hour 0-23, Korean hour/minute phrasing with
// an optional 오전/오후 meridiem, and am/pm H[:MM]. 오후/pm add 12 to hours
// below 12; 오전/am map hour 12 to 0. Minutes outside 0-59 are rejected.
func Time(raw string) (string, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", false
	}

	if m := canonicalTimeRe.FindStringSubmatch(s); m != nil {
		h, _ := strconv.Atoi(m[1])
		min, _ := strconv.Atoi(m[2])
		return clock(h, min)
	}

	if m := bareHourRe.FindStringSubmatch(s); m != nil {
		h, _ := strconv.Atoi(m[1])
		return clock(h, 0)
	}

	if m := koreanTimeRe.FindStringSubmatch(s); m != nil {
		h, _ := strconv.Atoi(m[2])
		min := 0
		if m[3] != "" {
			min, _ = strconv.Atoi(m[3])
		} else if m[4] != "" {
			min = 30
		}
		return clock(applyMeridiem(h, m[1] == "오후", m[1] == "오전"), min)
	}

	if m := meridiemTimeRe.FindStringSubmatch(s); m != nil {
		h, _ := strconv.Atoi(m[2])
		min := 0
		if m[3] != "" {
			min, _ = strconv.Atoi(m[3])
		}
		mer := strings.ToLower(m[1])
		return clock(applyMeridiem(h, mer == "pm", mer == "am"), min)
	}

	return "", false
}

// applyMeridiem converts a 12-hour reading to 24-hour. Hours already >= 13
// pass through unchanged so "오후 15시" stays 15.
func applyMeridiem(h int, pm, am bool) int {
	if pm && h < 12 {
		return h + 12
	}
	if am && h == 12 {
		return 0
	}
	return h
}

func clock(h, min int) (string, bool) {
	if h < 0 || h > 23 || min < 0 || min > 59 {
		return "", false
	}
	return fmt.Sprintf("%02d:%02d", h, min), true
}

var (
	embeddedDateRe = regexp.MustCompile(`\d{4}-\d{2}-\d{2}`)
	embeddedTimeRe = regexp.MustCompile(`(\d{1,2}):(\d{2})`)
	// 오후 3시 / 3시 30분 anywhere in free text
	embeddedKoreanTimeRe = regexp.MustCompile(`(오전|오후)?\s*(\d{1,2})시(?:\s*(\d{1,2})분)?`)
	// Longer tokens first so "day after tomorrow" wins over "tomorrow".
	textRelativeTokens = []string{"day after tomorrow", "next week", "tomorrow", "today", "다음주", "모레", "내일", "오늘"}
)

// DateFromText scans free text for a relative token or an embedded ISO date.
// Used only as a fallback when the structured output supplied nothing.
func DateFromText(text string, anchor time.Time) (string, bool) {
	if strings.TrimSpace(text) == "" {
		return "", false
	}
	lower := strings.ToLower(text)
	for _, tok := range textRelativeTokens {
		if strings.Contains(lower, tok) {
			return Date(tok, anchor)
		}
	}
	if m := embeddedDateRe.FindString(text); m != "" {
		return Date(m, anchor)
	}
	return "", false
}

// TimeFromText scans free text for an embedded HH:MM or a Korean hour phrase.
func TimeFromText(text string) (string, bool) {
	if strings.TrimSpace(text) == "" {
		return "", false
	}
	if m := embeddedTimeRe.FindString(text); m != "" {
		if v, ok := Time(m); ok {
			return v, true
		}
	}
	if m := embeddedKoreanTimeRe.FindStringSubmatch(text); m != nil {
		phrase := strings.TrimSpace(m[0])
		if v, ok := Time(phrase); ok {
			return v, true
		}
	}
	return "", false
}
