package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/scope"
)

// LogHooks logs every enter and exit at the given level.
func LogHooks(logger *slog.Logger, level slog.Level) scope.Hooks {
	return scope.Hooks{
		OnEnter: func(ctx context.Context, e *scope.Event) {
			logger.Log(ctx, level, "scope_enter", "scope", e.Name)
		},
		OnExit: func(ctx context.Context, e *scope.Event) {
			logger.Log(ctx, level, "scope_exit", "scope", e.Name, "duration", e.Duration)
		},
	}
}

// Combine fans every event out to all hooks, in order.
func Combine(hooks ...scope.Hooks) scope.Hooks {
	return scope.Hooks{
		OnEnter: func(ctx context.Context, e *scope.Event) {
			for _, h := range hooks {
				if h.OnEnter != nil {
					h.OnEnter(ctx, e)
				}
			}
		},
		OnExit: func(ctx context.Context, e *scope.Event) {
			for _, h := range hooks {
				if h.OnExit != nil {
					h.OnExit(ctx, e)
				}
			}
		},
	}
}
