package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"haru/internal/store"
)

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "저장된 일정, 할 일, 일기를 출력합니다",
}

var showEventsCmd = &cobra.Command{
	Use:   "events",
	Short: "일정 목록",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(func(st *store.Store) error {
			events, err := st.ListEvents(cmd.Context())
			if err != nil {
				return err
			}
			if len(events) == 0 {
				fmt.Println(systemStyle.Render("등록된 일정이 없어요."))
				return nil
			}
			for _, ev := range events {
				line := ev.Date
				if ev.StartTime != "" {
					line += " " + ev.StartTime
					if ev.EndTime != "" {
						line += "~" + ev.EndTime
					}
				}
				fmt.Printf("%s  %s [%s]\n", line, ev.Title, ev.Tag)
			}
			return nil
		})
	},
}

var showTodosCmd = &cobra.Command{
	Use:   "todos",
	Short: "남은 할 일 목록",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(func(st *store.Store) error {
			todos, err := st.ListPendingTodos(cmd.Context(), 50)
			if err != nil {
				return err
			}
			if len(todos) == 0 {
				fmt.Println(systemStyle.Render("남은 할 일이 없어요."))
				return nil
			}
			for _, t := range todos {
				line := fmt.Sprintf("[ ] %s (%s)", t.Text, t.Category)
				if t.DueDate != "" {
					line += " 기한 " + t.DueDate
				}
				fmt.Println(line)
			}
			return nil
		})
	},
}

var showJournalCmd = &cobra.Command{
	Use:   "journal",
	Short: "최근 일기 목록",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(func(st *store.Store) error {
			entries, err := st.ListRecentJournal(cmd.Context(), 10)
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				fmt.Println(systemStyle.Render("아직 일기가 없어요."))
				return nil
			}
			for _, j := range entries {
				fmt.Printf("%s  %s (%s)\n", j.CreatedAt.Format("2006-01-02"), j.Title, j.Mood)
			}
			return nil
		})
	},
}

func withStore(fn func(*store.Store) error) error {
	st, err := store.Open(cfg.StorePath())
	if err != nil {
		return err
	}
	defer st.Close()
	return fn(st)
}

func init() {
	showCmd.AddCommand(showEventsCmd, showTodosCmd, showJournalCmd)
	rootCmd.AddCommand(showCmd)
}
