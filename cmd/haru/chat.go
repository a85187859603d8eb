package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"haru/internal/persona"
	"haru/internal/perception"
	"haru/internal/session"
	"haru/internal/store"
)

var (
	promptStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	degradedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Italic(true)
	systemStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))

	// Deterministic per-persona name colors, assigned in join order.
	personaPalette = []lipgloss.Color{"10", "13", "11", "14"}
)

// runChat is the interactive loop: read a line, hand it to the session,
// print every persona's message.
func runChat(parent context.Context) error {
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := store.Open(cfg.StorePath())
	if err != nil {
		return err
	}
	defer st.Close()

	profiles, err := persona.NewProfileStore(cfg.PersonasPath)
	if err != nil {
		return err
	}
	if err := profiles.Watch(ctx); err != nil {
		logger.Warn("persona hot-reload disabled", zap.Error(err))
	}

	sess := session.New(st, profiles, perception.NewFactory(cfg.LLM), cfg.Chat)

	fmt.Println(systemStyle.Render("haru와 대화를 시작합니다. 종료하려면 /exit 를 입력하세요."))

	colors := map[string]lipgloss.Color{}
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print(promptStyle.Render("나> "))
		if !scanner.Scan() {
			fmt.Println()
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "/exit" || line == "/quit" {
			fmt.Println(systemStyle.Render("다음에 또 봐요."))
			return nil
		}
		if ctx.Err() != nil {
			return nil
		}

		for _, msg := range sess.HandleTurn(ctx, line) {
			printMessage(msg, colors)
		}
	}
}

func printMessage(msg session.Message, colors map[string]lipgloss.Color) {
	name := msg.PersonaName
	if name == "" {
		name = "haru"
	}
	style := lipgloss.NewStyle().Foreground(personaColor(msg.PersonaID, colors)).Bold(true)
	body := msg.Text
	if msg.Degraded {
		body = degradedStyle.Render(body)
	}
	fmt.Printf("%s %s\n", style.Render(name+">"), body)
}

func personaColor(id string, colors map[string]lipgloss.Color) lipgloss.Color {
	if c, ok := colors[id]; ok {
		return c
	}
	c := personaPalette[len(colors)%len(personaPalette)]
	colors[id] = c
	return c
}
