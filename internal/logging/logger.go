// Package logging provides config-driven categorized file-based logging for
// haru. Logs are written to <data_dir>/logs/ with one file per category.
// When debug_mode is off, nothing is written.
package logging

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"

	"haru/internal/config"
)

// Category represents a log category.
type Category string

const (
	CategorySession  Category = "session"  // Chat session lifecycle, gate transitions
	CategoryAPI      Category = "api"      // Completion service calls
	CategoryPersonas Category = "personas" // Persona orchestration, profile reloads
	CategoryActions  Category = "actions"  // Validated actions and execution
	CategoryStore    Category = "store"    // Store operations
)

// Log levels.
const (
	LevelDebug = 0
	LevelInfo  = 1
	LevelWarn  = 2
	LevelError = 3
)

type categoryLogger struct {
	logger *log.Logger
	file   *os.File
}

var (
	mu       sync.RWMutex
	loggers  = make(map[Category]*categoryLogger)
	cfg      config.LoggingConfig
	logsDir  string
	active   bool
	logLevel = LevelInfo
)

// Configure sets up the logging directory from config. Call once at startup;
// a disabled config turns every helper into a no-op.
func Configure(c config.LoggingConfig, dataDir string) error {
	mu.Lock()
	defer mu.Unlock()

	closeAllLocked()

	cfg = c
	active = c.DebugMode
	logLevel = parseLevel(c.Level)
	if !active {
		return nil
	}

	logsDir = filepath.Join(dataDir, "logs")
	if err := os.MkdirAll(logsDir, 0o755); err != nil {
		active = false
		return fmt.Errorf("create logs dir: %w", err)
	}
	return nil
}

// Close flushes and closes all category files.
func Close() {
	mu.Lock()
	defer mu.Unlock()
	closeAllLocked()
}

func closeAllLocked() {
	for _, cl := range loggers {
		_ = cl.file.Close()
	}
	loggers = make(map[Category]*categoryLogger)
}

func parseLevel(s string) int {
	switch s {
	case "debug":
		return LevelDebug
	case "warn":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

func categoryEnabled(c Category) bool {
	if cfg.Categories == nil {
		return true
	}
	enabled, listed := cfg.Categories[string(c)]
	return !listed || enabled
}

func get(c Category) *categoryLogger {
	mu.RLock()
	cl, ok := loggers[c]
	mu.RUnlock()
	if ok {
		return cl
	}

	mu.Lock()
	defer mu.Unlock()
	if cl, ok := loggers[c]; ok {
		return cl
	}
	f, err := os.OpenFile(filepath.Join(logsDir, string(c)+".log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil
	}
	cl = &categoryLogger{
		logger: log.New(f, "", log.LstdFlags|log.Lmicroseconds),
		file:   f,
	}
	loggers[c] = cl
	return cl
}

func write(c Category, level int, levelTag, format string, args ...interface{}) {
	mu.RLock()
	on := active && level >= logLevel && categoryEnabled(c)
	mu.RUnlock()
	if !on {
		return
	}
	cl := get(c)
	if cl == nil {
		return
	}
	cl.logger.Printf("[%s] %s", levelTag, fmt.Sprintf(format, args...))
}

// Category helpers, info level unless suffixed.

func Session(format string, args ...interface{}) {
	write(CategorySession, LevelInfo, "INFO", format, args...)
}

func SessionDebug(format string, args ...interface{}) {
	write(CategorySession, LevelDebug, "DEBUG", format, args...)
}

func API(format string, args ...interface{}) {
	write(CategoryAPI, LevelInfo, "INFO", format, args...)
}

func APIError(format string, args ...interface{}) {
	write(CategoryAPI, LevelError, "ERROR", format, args...)
}

func Personas(format string, args ...interface{}) {
	write(CategoryPersonas, LevelInfo, "INFO", format, args...)
}

func PersonasWarn(format string, args ...interface{}) {
	write(CategoryPersonas, LevelWarn, "WARN", format, args...)
}

func Actions(format string, args ...interface{}) {
	write(CategoryActions, LevelInfo, "INFO", format, args...)
}

func Store(format string, args ...interface{}) {
	write(CategoryStore, LevelInfo, "INFO", format, args...)
}

func StoreError(format string, args ...interface{}) {
	write(CategoryStore, LevelError, "ERROR", format, args...)
}
