package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/aretw0/scope"
	"github.com/aretw0/scope/internal/config"
	"github.com/aretw0/scope/internal/demo"
	"github.com/aretw0/scope/internal/logging"
	"github.com/aretw0/scope/internal/presentation/tui"
	"github.com/aretw0/scope/internal/rtx"
	"github.com/aretw0/scope/pkg/adapters/redis"
	"github.com/aretw0/scope/pkg/observability"
	"github.com/aretw0/scope/pkg/section"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	backend "github.com/redis/go-redis/v9"
)

// DemoOptions contains all the configuration for the demo command.
type DemoOptions struct {
	ConfigPath string
	RedisAddr  string // overrides redis.addr from the config file
	NoBanner   bool
	Debug      bool
	Color      bool

	Out     io.Writer
	Err     io.Writer // log destination
	Metrics io.Writer // optional; receives the Prometheus text dump after the run
}

// RunDemo loads the config, wires the collaborators and runs the demo scenarios.
func RunDemo(ctx context.Context, opts DemoOptions) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return err
	}
	if opts.RedisAddr != "" {
		cfg.Redis.Addr = opts.RedisAddr
	}

	level := logging.ParseLevel(cfg.Log.Level)
	if opts.Debug {
		level = slog.LevelDebug
	}
	logger := logging.NewWithWriter(opts.Err, level)

	if !opts.NoBanner {
		tui.PrintBanner(opts.Out, scope.Version, opts.Color)
	}

	pool, err := rtx.NewPool(cfg.Pool.Blocks, cfg.Pool.BlockSize)
	if err != nil {
		return fmt.Errorf("invalid pool config: %w", err)
	}
	irq := &rtx.IRQ{OnChange: func(masked bool) {
		logger.Debug("interrupt mask changed", "masked", masked)
	}}

	reg := prometheus.NewRegistry()
	metrics, err := observability.NewMetrics(reg, cfg.Metrics.Namespace)
	if err != nil {
		return fmt.Errorf("failed to register metrics: %w", err)
	}

	deps := demo.Deps{
		IRQ:  irq,
		Pool: pool,
		Tracer: scope.NewTracer(
			scope.WithLogger(logger),
			scope.WithHooks(observability.Combine(
				observability.LogHooks(logger, slog.LevelDebug),
				metrics.Hooks(),
			)),
		),
	}

	if cfg.Redis.Addr != "" {
		client := backend.NewClient(&backend.Options{Addr: cfg.Redis.Addr})
		defer client.Close()
		if err := client.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("failed to connect to redis at %s: %w", cfg.Redis.Addr, err)
		}
		logger.Info("using redis for critical sections", "addr", cfg.Redis.Addr)
		deps.Sections = section.NewManager(
			section.WithLocker(redis.NewLocker(client, cfg.Redis.Prefix)),
			section.WithLogger(logger),
		)
	}

	if err := demo.Run(ctx, opts.Out, deps); err != nil {
		return err
	}
	if opts.Metrics != nil {
		return dumpMetrics(opts.Metrics, reg)
	}
	return nil
}

// dumpMetrics writes every gathered family in the Prometheus text format.
func dumpMetrics(w io.Writer, g prometheus.Gatherer) error {
	families, err := g.Gather()
	if err != nil {
		return fmt.Errorf("failed to gather metrics: %w", err)
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return fmt.Errorf("failed to write metrics: %w", err)
		}
	}
	return nil
}
