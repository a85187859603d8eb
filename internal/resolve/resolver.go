// Package resolve selects the deletion target a conversational reference
// points at.
//
// A delete request usually carries partial information - "내일 회의 지워줘"
// names a date and half a title at best - so resolution is a progressive
// filter over the user's events rather than a lookup. The resolver never
// mutates the event collection; it only selects from it.
package resolve

import (
	"sort"
	"strings"

	"haru/internal/types"
)

// Event returns the single best-matching event for the request, or nil when
// nothing matches. Selection order:
//
//  1. An exact ID match short-circuits all other filtering.
//  2. Candidates are intersected by exact date, exact start time, and a
//     bidirectional case-insensitive whitespace-normalized title containment
//     (either side may hold the abbreviation).
//  3. Zero survivors means nil - the caller reports "not found" and must not
//     guess.
//  4. Ties break toward the earliest date+time; the soonest-occurring match
//     is the more likely subject of a short conversational reference.
func Event(req types.DeleteEventPayload, candidates []types.CalendarEvent) *types.CalendarEvent {
	if req.ID != "" {
		for i := range candidates {
			if candidates[i].ID == req.ID {
				return &candidates[i]
			}
		}
	}

	matched := make([]types.CalendarEvent, 0, len(candidates))
	target := normalizeTitle(req.Title)
	for _, ev := range candidates {
		if req.Date != "" && ev.Date != req.Date {
			continue
		}
		if req.StartTime != "" && ev.StartTime != req.StartTime {
			continue
		}
		if target != "" && !titlesOverlap(normalizeTitle(ev.Title), target) {
			continue
		}
		matched = append(matched, ev)
	}

	switch len(matched) {
	case 0:
		return nil
	case 1:
		return &matched[0]
	default:
		sort.SliceStable(matched, func(i, j int) bool {
			return matched[i].StartSortKey() < matched[j].StartSortKey()
		})
		return &matched[0]
	}
}

// normalizeTitle lowercases and collapses all whitespace so "팀 회의" and
// "팀회의" compare equal.
func normalizeTitle(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), ""))
}

// titlesOverlap reports asymmetric containment in either direction: the
// stored title may contain the spoken fragment, or the user may have spoken
// the full title of a tersely stored event.
func titlesOverlap(candidate, target string) bool {
	if candidate == "" {
		return false
	}
	return strings.Contains(candidate, target) || strings.Contains(target, candidate)
}
