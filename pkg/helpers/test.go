package helpers

import (
	"context"
	"log/slog"

	"github.com/sarthology/dailysage-backend/pkg/logger"
)

// TestCtx returns a context carrying a test logger.
func TestCtx() context.Context {
	return logger.ToContext(context.Background(), TestLogger())
}

// TestLogger returns a logger that discards output.
func TestLogger() *slog.Logger {
	return slog.New(logger.NewTestHandler(slog.LevelInfo))
}
