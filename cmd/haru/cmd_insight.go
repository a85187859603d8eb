package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"haru/internal/perception"
	"haru/internal/session"
	"haru/internal/store"
	"haru/internal/types"
)

// insightCmd generates one reflection post outside the chat loop.
var insightCmd = &cobra.Command{
	Use:   "insight",
	Short: "최근 일기와 할 일을 바탕으로 돌아보기 글을 생성합니다",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := store.Open(cfg.StorePath())
		if err != nil {
			return err
		}
		defer st.Close()

		gen := session.NewInsightGenerator(st, perception.NewFactory(cfg.LLM))
		post, err := gen.Generate(cmd.Context(), types.ConnectionConfig{})
		if err != nil {
			return err
		}

		fmt.Println(promptStyle.Render(post.Title))
		fmt.Println(post.Content)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(insightCmd)
}
