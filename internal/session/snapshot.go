package session

import (
	"context"
	"fmt"
	"strings"

	"haru/internal/config"
	"haru/internal/logging"
)

// buildSnapshot renders the small context block injected into every persona
// instruction: a bounded slice of upcoming events, pending todos, and recent
// journal entries. A failing section is skipped, never fatal.
func buildSnapshot(ctx context.Context, st Store, cfg config.ChatConfig, today string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "오늘 날짜: %s\n", today)

	if events, err := st.ListUpcomingEvents(ctx, today, cfg.SnapshotEvents); err != nil {
		logging.StoreError("snapshot events: %v", err)
	} else if len(events) > 0 {
		b.WriteString("\n다가오는 일정:\n")
		for _, ev := range events {
			fmt.Fprintf(&b, "- %s", ev.Date)
			if ev.StartTime != "" {
				fmt.Fprintf(&b, " %s", ev.StartTime)
			}
			fmt.Fprintf(&b, " %s [%s]\n", ev.Title, ev.Tag)
		}
	}

	if todos, err := st.ListPendingTodos(ctx, cfg.SnapshotTodos); err != nil {
		logging.StoreError("snapshot todos: %v", err)
	} else if len(todos) > 0 {
		b.WriteString("\n남은 할 일:\n")
		for _, t := range todos {
			fmt.Fprintf(&b, "- %s [%s]", t.Text, t.Category)
			if t.DueDate != "" {
				fmt.Fprintf(&b, " (기한 %s)", t.DueDate)
			}
			b.WriteString("\n")
		}
	}

	if entries, err := st.ListRecentJournal(ctx, cfg.SnapshotJournal); err != nil {
		logging.StoreError("snapshot journal: %v", err)
	} else if len(entries) > 0 {
		b.WriteString("\n최근 일기:\n")
		for _, j := range entries {
			fmt.Fprintf(&b, "- %s (%s)\n", j.Title, j.Mood)
		}
	}

	return b.String()
}
