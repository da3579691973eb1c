package logging

import (
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	mu      sync.Mutex
	current *lumberjack.Logger
)

// Setup installs a JSON slog handler writing to a rotating file at path and
// makes it the default logger. Calling it again replaces the previous file.
func Setup(path string, debug bool, maxSizeMB int) (*slog.Logger, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	if maxSizeMB <= 0 {
		maxSizeMB = 10
	}
	rotate := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    maxSizeMB,
		MaxBackups: 3,
		MaxAge:     30,
	}

	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(rotate, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	mu.Lock()
	prev := current
	current = rotate
	mu.Unlock()
	if prev != nil {
		_ = prev.Close()
	}
	return logger, nil
}

// Close flushes and closes the active log file, if any.
func Close() error {
	mu.Lock()
	defer mu.Unlock()
	if current == nil {
		return nil
	}
	err := current.Close()
	current = nil
	return err
}
