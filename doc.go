/*
Package scope provides scope-bound resource management: a before action and an
after action paired around a block of code, with the after action guaranteed to
run exactly once when the block is left.

It is the Go rendition of the "for-scope" technique, where a loop that runs
exactly once is used as a scope guard with deterministic enter and exit hooks.

# Concept

A guarded block has three parts: the before action (acquire, mask, lock), the
block itself, and the after action (release, unmask, unlock). The package offers
the same construct in three shapes, all sharing one run-state machine (Handle):

  - Loop form: Guard, Exit, Using, Acquire and Nest return range-over-func
    iterators. The loop body is the guarded block and runs exactly once.
  - Closure form: Run, RunExit, Do and With take the guarded block as a function.
  - Object form: Enter returns a Handle whose Exit runs the after action once.

# Leaving a block early

In the loop form, break (or continue) leaves the guarded block and still runs
the after action. It only affects the innermost guard, never an enclosing loop
or guard. In the closure form, return from the block function does the same.

Unlike the C for-scope macros, returning from the enclosing
function, or panicking, inside a guarded block also runs the after action. The
panic keeps propagating afterwards.

# Usage

	for range scope.Guard(disableIRQ, enableIRQ) {
		// no interrupts
	}

	// Two declarations, one body. b is released before a.
	for a, b := range scope.Nest(
		scope.Using(requestBlock, releaseBlock),
		scope.Using(requestBlock, releaseBlock),
	) {
		a.SetInt(8)
		b.SetInt(9)
	}

# Concurrency

Guards are synchronous and hold no locks. If the block or its actions touch
shared state, exclusion is up to the caller (see package pkg/section for keyed
critical sections built on top of this package).
*/
package scope
