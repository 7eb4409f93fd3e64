// Package physics bakes collision volumes for scene nodes that request them
// and attaches dynamic rigid bodies to their hierarchy roots.
//
// Collider baking runs once per session. Asset loading finishing does not
// mean the meshes have been instantiated into the scene yet, so the pass is
// retried every tick for a bounded number of ticks until it finds work.
package physics

import (
	"fmt"
	"sync/atomic"
)

// ProcessingState is the collider baking lifecycle.
type ProcessingState int32

const (
	// Waiting means no collider request has been processed yet.
	Waiting ProcessingState = iota
	// Done is terminal: baking already happened this session.
	Done
)

// String returns a human-readable state name.
func (s ProcessingState) String() string {
	switch s {
	case Waiting:
		return "Waiting"
	case Done:
		return "Done"
	default:
		return fmt.Sprintf("Unknown(%d)", int32(s))
	}
}

// Context carries the session-wide baking state between ticks. It is
// created by the scheduler at session start and passed to every tick.
type Context struct {
	ticks atomic.Uint64
	state atomic.Int32
}

// NewContext returns a context in the Waiting state with no ticks spent.
func NewContext() *Context {
	return &Context{}
}

// State returns the current processing state.
func (c *Context) State() ProcessingState {
	return ProcessingState(c.state.Load())
}

// Ticks returns the number of gate evaluations so far.
func (c *Context) Ticks() uint64 {
	return c.ticks.Load()
}

// spendTick increments the tick budget and returns the value before the
// increment.
func (c *Context) spendTick() uint64 {
	return c.ticks.Add(1) - 1
}

// markDone moves the state to Done. It reports whether this call made the
// transition.
func (c *Context) markDone() bool {
	return c.state.CompareAndSwap(int32(Waiting), int32(Done))
}
