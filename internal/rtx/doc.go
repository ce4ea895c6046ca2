// Package rtx simulates the two kernel services the demo guards: the interrupt
// mask and the fixed-block memory pool.
package rtx
