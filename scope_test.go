package scope_test

import (
	"errors"
	"testing"

	"github.com/aretw0/scope"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recorder collects an ordered trace of side effects.
type recorder struct {
	events []string
}

func (r *recorder) add(ev string) func() {
	return func() { r.events = append(r.events, ev) }
}

func (r *recorder) log(ev string) {
	r.events = append(r.events, ev)
}

func TestGuard_BeforeBodyAfter(t *testing.T) {
	x := 0
	for range scope.Guard(func() { x = 1 }, func() { x = 2 }) {
		assert.Equal(t, 1, x, "before must run before the body")
	}
	assert.Equal(t, 2, x, "after must run once the body is done")
}

func TestGuard_Order(t *testing.T) {
	rec := &recorder{}
	for range scope.Guard(rec.add("before"), rec.add("after")) {
		rec.log("body-1")
		rec.log("body-2")
	}
	rec.log("next")

	assert.Equal(t, []string{"before", "body-1", "body-2", "after", "next"}, rec.events)
}

func TestGuard_BreakRunsAfter(t *testing.T) {
	rec := &recorder{}
	for range scope.Guard(nil, rec.add("released")) {
		rec.log("start")
		if len(rec.events) > 0 {
			break
		}
		rec.log("unreachable")
	}

	assert.Equal(t, []string{"start", "released"}, rec.events)
}

func TestGuard_ContinueRunsAfterOnce(t *testing.T) {
	rec := &recorder{}
	for range scope.Guard(rec.add("before"), rec.add("after")) {
		rec.log("body")
		if len(rec.events) > 0 {
			continue
		}
		rec.log("unreachable")
	}

	assert.Equal(t, []string{"before", "body", "after"}, rec.events)
}

func TestGuard_BreakOnlyLeavesInnermost(t *testing.T) {
	rec := &recorder{}
	for i := range 3 {
		for range scope.Guard(rec.add("in"), rec.add("out")) {
			if i == 1 {
				break
			}
			rec.log("work")
		}
	}

	assert.Equal(t, []string{
		"in", "work", "out",
		"in", "out",
		"in", "work", "out",
	}, rec.events, "break must not leave the enclosing loop")
}

func TestGuard_NestedGuardsUnwindInReverse(t *testing.T) {
	rec := &recorder{}
	for range scope.Guard(rec.add("outer-in"), rec.add("outer-out")) {
		for range scope.Guard(rec.add("inner-in"), rec.add("inner-out")) {
			rec.log("body")
			break
		}
		rec.log("between")
	}

	assert.Equal(t, []string{"outer-in", "inner-in", "body", "inner-out", "between", "outer-out"}, rec.events)
}

func TestGuard_RepeatedEntriesPairOneToOne(t *testing.T) {
	const n = 25
	befores, afters := 0, 0
	for i := 0; i < n; i++ {
		for range scope.Guard(func() { befores++ }, func() { afters++ }) {
			assert.Equal(t, befores, afters+1, "exactly one activation is live")
			if i%2 == 0 {
				break
			}
		}
	}

	assert.Equal(t, n, befores)
	assert.Equal(t, n, afters)
}

func TestGuard_ReturnFromFunctionRunsAfter(t *testing.T) {
	released := false
	find := func() int {
		for range scope.Exit(func() { released = true }) {
			return 42
		}
		return 0
	}

	assert.Equal(t, 42, find())
	assert.True(t, released, "returning from the enclosing function still releases")
}

func TestGuard_PanicRunsAfterAndPropagates(t *testing.T) {
	released := 0
	assert.PanicsWithValue(t, "boom", func() {
		for range scope.Exit(func() { released++ }) {
			panic("boom")
		}
	})
	assert.Equal(t, 1, released)
}

func TestGuard_PanicInBeforeSkipsBodyAndAfter(t *testing.T) {
	bodyRan, afterRan := false, false
	assert.Panics(t, func() {
		for range scope.Guard(func() { panic("before failed") }, func() { afterRan = true }) {
			bodyRan = true
		}
	})
	assert.False(t, bodyRan)
	assert.False(t, afterRan)
}

func TestGuard_RecoveredPanicInsideBlockRunsAfter(t *testing.T) {
	rec := &recorder{}
	for range scope.Exit(rec.add("released")) {
		func() {
			defer func() {
				if r := recover(); r != nil {
					rec.log("recovered")
				}
			}()
			panic("caught inside the guard")
		}()
		rec.log("after-recover")
	}

	assert.Equal(t, []string{"recovered", "after-recover", "released"}, rec.events)
}

func TestExit_LogsReleasedOnce(t *testing.T) {
	var logged []string
	for range scope.Exit(func() { logged = append(logged, "released") }) {
		break
	}

	assert.Equal(t, []string{"released"}, logged)
}

func TestUsing_BindsValue(t *testing.T) {
	type block struct{ v int }
	var released *block

	for b := range scope.Using(func() *block { return &block{} }, func(b *block) { released = b }) {
		b.v = 7
		assert.Nil(t, released)
	}

	require.NotNil(t, released)
	assert.Equal(t, 7, released.v, "release sees the value bound in the body")
}

func TestNest_AcquireOuterFirstReleaseInnerFirst(t *testing.T) {
	rec := &recorder{}
	acquire := func(name string) func() string {
		return func() string {
			rec.log("acquire " + name)
			return name
		}
	}
	release := func(name string) { rec.log("release " + name) }

	for a, b := range scope.Nest(scope.Using(acquire("a"), release), scope.Using(acquire("b"), release)) {
		rec.log("use " + a + b)
	}

	assert.Equal(t, []string{"acquire a", "acquire b", "use ab", "release b", "release a"}, rec.events)
}

func TestNest_BreakReleasesBoth(t *testing.T) {
	rec := &recorder{}
	for range scope.Nest(
		scope.Using(func() int { return 1 }, func(int) { rec.log("release 1") }),
		scope.Using(func() int { return 2 }, func(int) { rec.log("release 2") }),
	) {
		break
	}

	assert.Equal(t, []string{"release 2", "release 1"}, rec.events)
}

func TestNest_ThreeDeep(t *testing.T) {
	rec := &recorder{}
	use := func(n int) func() int {
		return func() int {
			rec.log("acquire")
			return n
		}
	}
	release := func(n int) { rec.log("release") }
	var released []int
	releaseTracked := func(n int) {
		release(n)
		released = append(released, n)
	}

	for a := range scope.Using(use(1), releaseTracked) {
		for b, c := range scope.Nest(scope.Using(use(2), releaseTracked), scope.Using(use(3), releaseTracked)) {
			assert.Equal(t, 6, a+b+c)
		}
	}

	assert.Equal(t, []int{3, 2, 1}, released)
}

func TestAcquire_ErrorSkipsRelease(t *testing.T) {
	errExhausted := errors.New("exhausted")
	released := false
	var got error

	for v, err := range scope.Acquire(func() (int, error) { return 0, errExhausted }, func(int) { released = true }) {
		got = err
		assert.Zero(t, v)
	}

	assert.ErrorIs(t, got, errExhausted)
	assert.False(t, released)
}

func TestAcquire_SuccessReleases(t *testing.T) {
	var released []int
	for v, err := range scope.Acquire(func() (int, error) { return 5, nil }, func(v int) { released = append(released, v) }) {
		require.NoError(t, err)
		assert.Equal(t, 5, v)
	}
	assert.Equal(t, []int{5}, released)
}

func TestRun_ReturnIsEarlyExit(t *testing.T) {
	rec := &recorder{}
	scope.Run(rec.add("before"), rec.add("after"), func() {
		rec.log("body")
		if len(rec.events) == 2 {
			return
		}
		rec.log("unreachable")
	})

	assert.Equal(t, []string{"before", "body", "after"}, rec.events)
}

func TestRunExit_NilBlock(t *testing.T) {
	ran := false
	scope.RunExit(func() { ran = true }, nil)
	assert.True(t, ran)
}

func TestDo_ReleasesBoundValue(t *testing.T) {
	var released string
	scope.Do(func() string { return "p3" }, func(s string) { released = s }, func(s string) {
		assert.Equal(t, "p3", s)
		assert.Empty(t, released)
	})
	assert.Equal(t, "p3", released)
}

func TestWith_ErrorPaths(t *testing.T) {
	errAcquire := errors.New("acquire failed")
	errBody := errors.New("body failed")

	t.Run("acquire error", func(t *testing.T) {
		bodyRan, released := false, false
		err := scope.With(
			func() (int, error) { return 0, errAcquire },
			func(int) { released = true },
			func(int) error { bodyRan = true; return nil },
		)
		assert.ErrorIs(t, err, errAcquire)
		assert.False(t, bodyRan)
		assert.False(t, released)
	})

	t.Run("body error", func(t *testing.T) {
		released := false
		err := scope.With(
			func() (int, error) { return 1, nil },
			func(int) { released = true },
			func(int) error { return errBody },
		)
		assert.ErrorIs(t, err, errBody)
		assert.True(t, released, "release runs even when the body fails")
	})
}
