package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"haru/internal/store"
	"haru/internal/types"
)

// seedCmd loads a handful of sample records for trying the chat flow without
// typing everything in first.
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "예시 데이터로 저장소를 채웁니다",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(func(st *store.Store) error {
			ctx := cmd.Context()
			day := func(offset int) string {
				return time.Now().AddDate(0, 0, offset).Format("2006-01-02")
			}

			events := []types.CalendarEvent{
				{Title: "팀 회의", Date: day(1), StartTime: "10:00", EndTime: "11:00", Tag: types.CategoryWork},
				{Title: "치과 예약", Date: day(5), StartTime: "15:00", Tag: types.CategoryHealth},
				{Title: "친구 저녁 약속", Date: day(2), StartTime: "19:00", Tag: types.CategoryPersonal},
			}
			for _, ev := range events {
				if _, err := st.AddEvent(ctx, ev); err != nil {
					return err
				}
			}

			todos := []types.TodoItem{
				{Text: "우유 사기", Category: types.CategoryShopping, DueDate: day(1)},
				{Text: "보고서 초안 쓰기", Category: types.CategoryWork},
				{Text: "30분 걷기", Category: types.CategoryHealth},
			}
			for _, t := range todos {
				if _, err := st.AddTodo(ctx, t); err != nil {
					return err
				}
			}

			journal := []types.JournalEntry{
				{Title: "산책 일기", Content: "오랜만에 공원을 한 바퀴 돌았다. 머리가 맑아졌다.", Mood: types.MoodGood},
				{Title: "바빴던 하루", Content: "회의가 연달아 있어서 정신이 없었다.", Mood: types.MoodNeutral},
			}
			for _, j := range journal {
				if _, err := st.AddJournal(ctx, j); err != nil {
					return err
				}
			}

			fmt.Println(systemStyle.Render(fmt.Sprintf(
				"예시 데이터를 추가했어요: 일정 %d개, 할 일 %d개, 일기 %d편", len(events), len(todos), len(journal))))
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)
}
