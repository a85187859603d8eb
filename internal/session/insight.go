package session

import (
	"context"
	"fmt"
	"strings"

	"haru/internal/articulation"
	"haru/internal/logging"
	"haru/internal/perception"
	"haru/internal/types"
)

const insightInstruction = `당신은 사용자의 최근 기록을 돌아보고 짧은 성찰 글을 쓰는 비서입니다.
아래 기록을 바탕으로 따뜻하고 구체적인 돌아보기 글을 한국어로 작성하세요.
첫 줄은 글의 제목이며, 그 아래에 본문을 씁니다. 3~6문장이면 충분합니다.
응답은 {"reply": "<제목과 본문>", "action": {"type": "none"}} 형식의 JSON으로만 출력하세요.`

const insightTitleRunes = 40

// InsightGenerator produces a reflection post over recent journal entries
// and pending todos and persists it.
type InsightGenerator struct {
	store   Store
	factory perception.Factory
}

func NewInsightGenerator(st Store, factory perception.Factory) *InsightGenerator {
	return &InsightGenerator{store: st, factory: factory}
}

// Generate builds the reflection prompt, runs one completion over conn, and
// saves the resulting post.
func (g *InsightGenerator) Generate(ctx context.Context, conn types.ConnectionConfig) (types.InsightPost, error) {
	client, err := g.factory(ctx, conn)
	if err != nil {
		return types.InsightPost{}, fmt.Errorf("insight client: %w", err)
	}

	material, err := g.collect(ctx)
	if err != nil {
		return types.InsightPost{}, err
	}

	history := []types.ConversationTurn{{Role: types.RoleUser, Content: material}}
	raw, err := client.Complete(ctx, insightInstruction, history)
	if err != nil {
		return types.InsightPost{}, fmt.Errorf("insight completion: %w", err)
	}

	text := raw
	if env, err := articulation.ParseEnvelope(raw); err == nil {
		text = env.Reply
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return types.InsightPost{}, fmt.Errorf("insight completion returned empty text")
	}

	post, err := g.store.SaveInsight(ctx, types.InsightPost{
		Title:   insightTitle(text),
		Content: text,
	})
	if err != nil {
		return types.InsightPost{}, fmt.Errorf("save insight: %w", err)
	}
	logging.Actions("insight saved: %s", post.Title)
	return post, nil
}

// collect renders the journal and todo material the reflection is grounded
// on. Having nothing to reflect on is an error, not an empty post.
func (g *InsightGenerator) collect(ctx context.Context) (string, error) {
	entries, err := g.store.ListRecentJournal(ctx, 7)
	if err != nil {
		return "", fmt.Errorf("insight journal: %w", err)
	}
	todos, err := g.store.ListPendingTodos(ctx, 10)
	if err != nil {
		return "", fmt.Errorf("insight todos: %w", err)
	}
	if len(entries) == 0 && len(todos) == 0 {
		return "", fmt.Errorf("no journal entries or todos to reflect on")
	}

	var b strings.Builder
	if len(entries) > 0 {
		b.WriteString("[최근 일기]\n")
		for _, j := range entries {
			fmt.Fprintf(&b, "- %s (%s): %s\n", j.Title, j.Mood, j.Content)
		}
	}
	if len(todos) > 0 {
		b.WriteString("\n[남은 할 일]\n")
		for _, t := range todos {
			fmt.Fprintf(&b, "- %s [%s]\n", t.Text, t.Category)
		}
	}
	return b.String(), nil
}

// insightTitle takes the first line, bounded to a displayable length.
func insightTitle(text string) string {
	title := text
	if i := strings.IndexByte(title, '\n'); i >= 0 {
		title = title[:i]
	}
	title = strings.TrimSpace(strings.TrimLeft(title, "#*- "))
	runes := []rune(title)
	if len(runes) > insightTitleRunes {
		title = string(runes[:insightTitleRunes])
	}
	if title == "" {
		title = "이번 주 돌아보기"
	}
	return title
}
