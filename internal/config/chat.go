package config

import "time"

// ChatConfig tunes the conversational pipeline.
type ChatConfig struct {
	// ConfirmActions gates delete/todo/journal execution behind an explicit
	// user confirmation. When false the confirmation state machine is
	// bypassed entirely.
	ConfirmActions bool `yaml:"confirm_actions"`

	// ReplyDelay is a cosmetic pause between persona replies in a
	// multi-persona turn, as a duration string. It has no correctness role.
	ReplyDelay string `yaml:"reply_delay"`

	// HistoryLimit caps the turns sent to the completion service.
	HistoryLimit int `yaml:"history_limit"`

	// Context snapshot sizes: a small fixed slice, never the full datasets.
	SnapshotEvents  int `yaml:"snapshot_events"`
	SnapshotTodos   int `yaml:"snapshot_todos"`
	SnapshotJournal int `yaml:"snapshot_journal"`
}

// DefaultChatConfig returns sensible defaults.
func DefaultChatConfig() ChatConfig {
	return ChatConfig{
		ConfirmActions:  true,
		HistoryLimit:    30,
		SnapshotEvents:  5,
		SnapshotTodos:   5,
		SnapshotJournal: 3,
	}
}

// ReplyDelayDuration parses ReplyDelay, treating absent or malformed values
// as zero.
func (c ChatConfig) ReplyDelayDuration() time.Duration {
	d, err := time.ParseDuration(c.ReplyDelay)
	if err != nil || d < 0 {
		return 0
	}
	return d
}
