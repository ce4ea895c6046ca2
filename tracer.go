package scope

import (
	"context"
	"log/slog"
	"time"

	"github.com/aretw0/scope/internal/logging"
)

// Phase tells which side of a guarded block an Event describes.
type Phase string

const (
	// PhaseEnter marks the event fired once the before action has run.
	PhaseEnter Phase = "enter"
	// PhaseExit marks the event fired once the after action has run.
	PhaseExit Phase = "exit"
)

// Event is emitted by a Tracer around a guarded block.
type Event struct {
	Name      string        `json:"name"`
	Phase     Phase         `json:"phase"`
	Timestamp time.Time     `json:"timestamp"`
	Duration  time.Duration `json:"duration,omitempty"` // time spent inside the block, exit only
}

// Hooks defines callbacks for guard observability.
// OnEnter fires after the before action, OnExit after the after action.
type Hooks struct {
	OnEnter func(context.Context, *Event)
	OnExit  func(context.Context, *Event)
}

// Tracer decorates before/after actions with hooks and debug logging.
// The zero cost path is not to use one: Guard and friends never trace on their own.
type Tracer struct {
	hooks  Hooks
	logger *slog.Logger
	now    func() time.Time
}

// Option defines a functional option for configuring a Tracer.
type Option func(*Tracer)

// WithHooks registers observability hooks.
func WithHooks(hooks Hooks) Option {
	return func(t *Tracer) {
		t.hooks = hooks
	}
}

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(t *Tracer) {
		t.logger = logger
	}
}

// WithClock overrides time.Now, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(t *Tracer) {
		t.now = now
	}
}

// NewTracer creates a Tracer. Without options it only measures time.
func NewTracer(opts ...Option) *Tracer {
	t := &Tracer{
		logger: logging.NewNop(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Wrap returns before and after actions that behave like the given ones and
// report the block named name. The result plugs straight into Guard:
//
//	for range scope.Guard(tracer.Wrap(ctx, "irq", irq.Disable, irq.Enable)) {
//		// ...
//	}
//
// The pair shares state, so each call to Wrap serves one activation at a time.
func (t *Tracer) Wrap(ctx context.Context, name string, before, after func()) (func(), func()) {
	var entered time.Time
	wrappedBefore := func() {
		if before != nil {
			before()
		}
		entered = t.now()
		t.logger.DebugContext(ctx, "scope enter", "scope", name)
		if t.hooks.OnEnter != nil {
			t.hooks.OnEnter(ctx, &Event{Name: name, Phase: PhaseEnter, Timestamp: entered})
		}
	}
	wrappedAfter := func() {
		if after != nil {
			after()
		}
		now := t.now()
		elapsed := now.Sub(entered)
		t.logger.DebugContext(ctx, "scope exit", "scope", name, "duration", elapsed)
		if t.hooks.OnExit != nil {
			t.hooks.OnExit(ctx, &Event{Name: name, Phase: PhaseExit, Timestamp: now, Duration: elapsed})
		}
	}
	return wrappedBefore, wrappedAfter
}

// Traced is Wrap for declarations, to be fed into Using or Do.
func Traced[T any](t *Tracer, ctx context.Context, name string, acquire func() T, release func(T)) (func() T, func(T)) {
	var v T
	before, after := t.Wrap(ctx, name,
		func() { v = acquire() },
		func() {
			if release != nil {
				release(v)
			}
		},
	)
	acq := func() T {
		before()
		return v
	}
	rel := func(T) { after() }
	return acq, rel
}
