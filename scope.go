package scope

import "iter"

// Block is a single-pass guarded block, meant to be ranged over:
//
//	for range scope.Guard(mask, unmask) {
//		// ...
//	}
//
// The loop body runs exactly once. break and continue leave the block early
// and still run the after action; they never reach an enclosing loop.
type Block func(yield func() bool)

// Guard runs before, then the loop body once, then after.
// Either action may be nil.
func Guard(before, after func()) Block {
	return func(yield func() bool) {
		h := Enter(before, after)
		defer h.Exit()
		yield()
	}
}

// Exit is Guard without a before action.
func Exit(after func()) Block {
	return Guard(nil, after)
}

// Using acquires a value, binds it to the loop variable for the single pass
// of the body and hands it to release when the body is left.
//
//	for p := range scope.Using(pool.MustRequest, pool.MustRelease) {
//		p.SetInt(7)
//	}
func Using[T any](acquire func() T, release func(T)) iter.Seq[T] {
	return func(yield func(T) bool) {
		v := acquire()
		h := Enter(nil, releaser(release, v))
		defer h.Exit()
		yield(v)
	}
}

// Acquire is Using for acquisitions that can fail. When acquire returns an
// error the body still runs once, with the zero value and that error, and
// release is not called.
//
//	for blk, err := range scope.Acquire(pool.Request, pool.MustRelease) {
//		if err != nil {
//			return err
//		}
//		// ...
//	}
func Acquire[T any](acquire func() (T, error), release func(T)) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		v, err := acquire()
		if err != nil {
			var zero T
			yield(zero, err)
			return
		}
		h := Enter(nil, releaser(release, v))
		defer h.Exit()
		yield(v, nil)
	}
}

// Nest stacks two declarations in front of one shared body. The outer value
// is acquired first and released last.
//
//	for a, b := range scope.Nest(scope.Using(openA, closeA), scope.Using(openB, closeB)) {
//		// a and b are both live here
//	}
//
// Deeper stacks are built by nesting loops, or by nesting Nest inside Using.
func Nest[A, B any](outer iter.Seq[A], inner iter.Seq[B]) iter.Seq2[A, B] {
	return func(yield func(A, B) bool) {
		for a := range outer {
			for b := range inner {
				if !yield(a, b) {
					return
				}
			}
		}
	}
}

// Run is the closure form of Guard. Returning from block leaves the guarded
// block early; after still runs.
func Run(before, after func(), block func()) {
	h := Enter(before, after)
	defer h.Exit()
	if block != nil {
		block()
	}
}

// RunExit is Run without a before action.
func RunExit(after func(), block func()) {
	Run(nil, after, block)
}

// Do is the closure form of Using.
func Do[T any](acquire func() T, release func(T), block func(T)) {
	v := acquire()
	h := Enter(nil, releaser(release, v))
	defer h.Exit()
	if block != nil {
		block(v)
	}
}

// With is the closure form of Acquire. An acquire error is returned as is,
// without running block or release; otherwise the error of block is returned
// after release has run.
func With[T any](acquire func() (T, error), release func(T), block func(T) error) error {
	v, err := acquire()
	if err != nil {
		return err
	}
	h := Enter(nil, releaser(release, v))
	defer h.Exit()
	if block == nil {
		return nil
	}
	return block(v)
}

func releaser[T any](release func(T), v T) func() {
	if release == nil {
		return nil
	}
	return func() { release(v) }
}
