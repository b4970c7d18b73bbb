package cli

import (
	"context"
	"log/slog"

	"github.com/example/sereno-rh/internal/logging"
)

func defaultLogger(logger *slog.Logger) *slog.Logger {
	if logger != nil {
		return logger
	}
	return slog.Default()
}

func viewLogger(ctx context.Context, fallback *slog.Logger, view View, action string, attrs ...any) *slog.Logger {
	logger := logging.FromContext(ctx)
	if logger == nil {
		logger = fallback
	}
	if logger == nil {
		logger = slog.Default()
	}

	pairs := []any{"view", view.String()}
	if action != "" {
		pairs = append(pairs, "action", action)
	}
	if len(attrs) > 0 {
		pairs = append(pairs, attrs...)
	}
	return logger.With(pairs...)
}
