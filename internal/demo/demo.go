// Package demo runs the interrupt masking and memory block scenarios that show
// every form of guarded block against the simulated kernel in internal/rtx.
package demo

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/aretw0/scope"
	"github.com/aretw0/scope/internal/rtx"
	"github.com/aretw0/scope/pkg/section"
)

// Deps are the collaborators a demo run guards.
type Deps struct {
	IRQ  *rtx.IRQ
	Pool *rtx.Pool

	// Sections is optional; when set the run ends with a keyed critical section.
	Sections *section.Manager
	// Tracer is optional; it observes the named guards.
	Tracer *scope.Tracer
}

// Run executes the scenarios in order and writes their output to w.
func Run(ctx context.Context, w io.Writer, d Deps) error {
	if d.IRQ == nil || d.Pool == nil {
		return errors.New("demo needs both an IRQ and a Pool")
	}
	irq, pool := d.IRQ, d.Pool
	tracer := d.Tracer
	if tracer == nil {
		tracer = scope.NewTracer()
	}

	logRelease := func(b *rtx.Block) {
		fmt.Fprintf(w, "Freeing pointer (block %d)\n", b.ID())
		pool.MustRelease(b)
	}

	fmt.Fprintln(w, "== interrupt-free block ==")
	for range scope.Guard(tracer.Wrap(ctx, "interrupt_free", irq.Disable, irq.Enable)) {
		fmt.Fprintf(w, "interrupts masked: %t\n", irq.Masked())
	}
	fmt.Fprintf(w, "interrupts masked: %t\n", irq.Masked())

	fmt.Fprintln(w, "== scope exit ==")
	p2, err := pool.Request()
	if err != nil {
		return fmt.Errorf("request p2: %w", err)
	}
	for range scope.Exit(func() { logRelease(p2) }) {
		p2.SetInt(6)
		fmt.Fprintf(w, "*p2: %d\n", p2.Int())
	}

	fmt.Fprintln(w, "== scoped declaration ==")
	for p3, err := range scope.Acquire(pool.Request, logRelease) {
		if err != nil {
			return fmt.Errorf("request p3: %w", err)
		}
		p3.SetInt(7)
		fmt.Fprintf(w, "*p3: %d\n", p3.Int())
	}

	fmt.Fprintln(w, "== stacked declarations ==")
	if pool.Available() < 2 {
		return fmt.Errorf("stacked declarations need two blocks, %d available: %w", pool.Available(), rtx.ErrPoolExhausted)
	}
	for p4, p5 := range scope.Nest(
		scope.Using(pool.MustRequest, logRelease),
		scope.Using(pool.MustRequest, logRelease),
	) {
		p4.SetInt(8)
		p5.SetInt(9)
		fmt.Fprintf(w, "(*p4, *p5) = (%d, %d)\n", p4.Int(), p5.Int())
	}

	fmt.Fprintln(w, "== scope break ==")
	for range scope.Guard(tracer.Wrap(ctx, "early_exit", irq.Disable, irq.Enable)) {
		fmt.Fprintln(w, "leaving early")
		if irq.Masked() {
			break
		}
		fmt.Fprintln(w, "unreachable")
	}
	fmt.Fprintf(w, "interrupts masked: %t\n", irq.Masked())

	if d.Sections != nil {
		fmt.Fprintln(w, "== critical section ==")
		for lease, err := range d.Sections.Enter(ctx, "pool") {
			if err != nil {
				return err
			}
			fmt.Fprintf(w, "section %q held\n", lease.Key)
		}
		fmt.Fprintf(w, "sections held: %d\n", d.Sections.Active())
	}

	fmt.Fprintf(w, "blocks available: %d/%d\n", pool.Available(), pool.Size())
	return nil
}
