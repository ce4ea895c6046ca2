package observability

import (
	"context"
	"errors"
	"fmt"

	"github.com/aretw0/scope"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics records guarded block activity per scope name.
type Metrics struct {
	enters   *prometheus.CounterVec
	exits    *prometheus.CounterVec
	active   *prometheus.GaugeVec
	duration *prometheus.HistogramVec
}

// NewMetrics creates the collectors and registers them with reg.
// Collectors that are already registered are reused.
func NewMetrics(reg prometheus.Registerer, namespace string) (*Metrics, error) {
	m := &Metrics{
		enters: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "scope_enter_total",
			Help:      "Total number of guarded blocks entered",
		}, []string{"scope"}),
		exits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "scope_exit_total",
			Help:      "Total number of guarded blocks left",
		}, []string{"scope"}),
		active: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "scope_active",
			Help:      "Guarded blocks currently live",
		}, []string{"scope"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "scope_duration_seconds",
			Help:      "Time spent inside guarded blocks",
			Buckets:   prometheus.ExponentialBuckets(1e-6, 10, 8),
		}, []string{"scope"}),
	}

	var err error
	if m.enters, err = register(reg, m.enters); err != nil {
		return nil, err
	}
	if m.exits, err = register(reg, m.exits); err != nil {
		return nil, err
	}
	if m.active, err = register(reg, m.active); err != nil {
		return nil, err
	}
	if m.duration, err = register(reg, m.duration); err != nil {
		return nil, err
	}
	return m, nil
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, fmt.Errorf("failed to register scope metrics: %w", err)
	}
	return c, nil
}

// Hooks returns lifecycle hooks that feed the collectors.
func (m *Metrics) Hooks() scope.Hooks {
	return scope.Hooks{
		OnEnter: func(_ context.Context, e *scope.Event) {
			m.enters.WithLabelValues(e.Name).Inc()
			m.active.WithLabelValues(e.Name).Inc()
		},
		OnExit: func(_ context.Context, e *scope.Event) {
			m.exits.WithLabelValues(e.Name).Inc()
			m.active.WithLabelValues(e.Name).Dec()
			m.duration.WithLabelValues(e.Name).Observe(e.Duration.Seconds())
		},
	}
}
