package demo

import (
	"bytes"
	"context"
	"testing"

	"github.com/aretw0/scope"
	"github.com/aretw0/scope/internal/rtx"
	"github.com/aretw0/scope/pkg/adapters/memory"
	"github.com/aretw0/scope/pkg/section"
	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDeps(t *testing.T) Deps {
	t.Helper()
	pool, err := rtx.NewPool(4, 64)
	require.NoError(t, err)
	return Deps{IRQ: &rtx.IRQ{}, Pool: pool}
}

func assertGolden(t *testing.T, name string, got []byte) {
	t.Helper()
	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, got)
}

func TestRun_Golden(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, Run(context.Background(), &out, newDeps(t)))
	assertGolden(t, "demo", out.Bytes())
}

func TestRun_WithSection(t *testing.T) {
	locker := memory.NewLocker()
	deps := newDeps(t)
	deps.Sections = section.NewManager(section.WithLocker(locker))

	var out bytes.Buffer
	require.NoError(t, Run(context.Background(), &out, deps))
	assertGolden(t, "demo_section", out.Bytes())
	assert.False(t, locker.Held("pool"))
}

func TestRun_TracesNamedGuards(t *testing.T) {
	var names []string
	deps := newDeps(t)
	deps.Tracer = scope.NewTracer(scope.WithHooks(scope.Hooks{
		OnExit: func(_ context.Context, e *scope.Event) { names = append(names, e.Name) },
	}))

	var out bytes.Buffer
	require.NoError(t, Run(context.Background(), &out, deps))
	assert.Equal(t, []string{"interrupt_free", "early_exit"}, names)
	assert.False(t, deps.IRQ.Masked())
}

func TestRun_PoolTooSmall(t *testing.T) {
	pool, err := rtx.NewPool(1, 8)
	require.NoError(t, err)

	var out bytes.Buffer
	err = Run(context.Background(), &out, Deps{IRQ: &rtx.IRQ{}, Pool: pool})
	require.ErrorIs(t, err, rtx.ErrPoolExhausted)
	assert.NotContains(t, out.String(), "(*p4, *p5)")
	assert.Equal(t, 1, pool.Available(), "earlier blocks were released")
}

func TestRun_MissingDeps(t *testing.T) {
	assert.Error(t, Run(context.Background(), &bytes.Buffer{}, Deps{}))
}
