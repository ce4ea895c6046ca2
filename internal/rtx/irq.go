package rtx

// IRQ simulates the processor interrupt mask.
// Disable and Enable nest: interrupts come back only when every Disable
// has been matched by an Enable.
type IRQ struct {
	depth int
	// OnChange, if set, is called whenever the mask actually flips.
	OnChange func(masked bool)
}

// Disable masks interrupts.
func (q *IRQ) Disable() {
	q.depth++
	if q.depth == 1 && q.OnChange != nil {
		q.OnChange(true)
	}
}

// Enable unmasks interrupts. Enabling an unmasked controller does nothing.
func (q *IRQ) Enable() {
	if q.depth == 0 {
		return
	}
	q.depth--
	if q.depth == 0 && q.OnChange != nil {
		q.OnChange(false)
	}
}

// Masked reports whether interrupts are currently disabled.
func (q *IRQ) Masked() bool { return q.depth > 0 }

// Depth is the number of unmatched Disable calls.
func (q *IRQ) Depth() int { return q.depth }
