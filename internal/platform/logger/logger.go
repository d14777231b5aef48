package logger

import (
	"log/slog"
	"os"
)

// New returns the application logger. Text output to stdout keeps local
// development readable; swap the handler when shipping logs elsewhere.
func New() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
}
