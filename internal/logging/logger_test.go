package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"haru/internal/config"
)

func TestDisabledWritesNothing(t *testing.T) {
	dir := t.TempDir()
	if err := Configure(config.LoggingConfig{DebugMode: false}, dir); err != nil {
		t.Fatal(err)
	}
	defer Close()

	Session("should not appear")
	if _, err := os.Stat(filepath.Join(dir, "logs")); !os.IsNotExist(err) {
		t.Error("logs dir should not be created when disabled")
	}
}

func TestCategoryFiles(t *testing.T) {
	dir := t.TempDir()
	if err := Configure(config.LoggingConfig{DebugMode: true, Level: "debug"}, dir); err != nil {
		t.Fatal(err)
	}
	defer Close()

	Session("turn handled persona=%s", "haru")
	Actions("executed %s", "add_event")
	Close()

	data, err := os.ReadFile(filepath.Join(dir, "logs", "session.log"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "turn handled persona=haru") {
		t.Errorf("session.log missing entry: %s", data)
	}
	if _, err := os.Stat(filepath.Join(dir, "logs", "actions.log")); err != nil {
		t.Errorf("actions.log not written: %v", err)
	}
}

func TestLevelFiltering(t *testing.T) {
	dir := t.TempDir()
	if err := Configure(config.LoggingConfig{DebugMode: true, Level: "warn"}, dir); err != nil {
		t.Fatal(err)
	}
	defer Close()

	Session("info entry")
	PersonasWarn("warn entry")
	Close()

	if _, err := os.Stat(filepath.Join(dir, "logs", "session.log")); !os.IsNotExist(err) {
		t.Error("info entry should be filtered at warn level")
	}
	data, err := os.ReadFile(filepath.Join(dir, "logs", "personas.log"))
	if err != nil || !strings.Contains(string(data), "warn entry") {
		t.Errorf("warn entry missing: %v %s", err, data)
	}
}

func TestCategoryToggle(t *testing.T) {
	dir := t.TempDir()
	cfg := config.LoggingConfig{
		DebugMode:  true,
		Categories: map[string]bool{"store": false},
	}
	if err := Configure(cfg, dir); err != nil {
		t.Fatal(err)
	}
	defer Close()

	Store("hidden")
	Session("visible")
	Close()

	if _, err := os.Stat(filepath.Join(dir, "logs", "store.log")); !os.IsNotExist(err) {
		t.Error("disabled category should not write")
	}
	if _, err := os.Stat(filepath.Join(dir, "logs", "session.log")); err != nil {
		t.Error("enabled category should write")
	}
}
