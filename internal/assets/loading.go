// Package assets tracks asset collection loading and instantiates scene
// manifests once their assets are available.
package assets

import (
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/Faultbox/midgard-collider/internal/logger"
)

// LoadingState is the asset loading lifecycle.
type LoadingState int

const (
	Loading LoadingState = iota
	Loaded
)

// String returns a human-readable state name.
func (s LoadingState) String() string {
	switch s {
	case Loading:
		return "Loading"
	case Loaded:
		return "Loaded"
	default:
		return fmt.Sprintf("Unknown(%d)", int(s))
	}
}

// Tracker follows a set of asset collections and switches to Loaded once
// all of them have finished. Each collection finishes after a fixed number
// of updates.
type Tracker struct {
	state   LoadingState
	pending map[string]int
	onDone  []func() error
	updates int
}

// NewTracker creates a tracker in the Loading state.
func NewTracker() *Tracker {
	return &Tracker{
		pending: make(map[string]int),
	}
}

// Add registers a collection that finishes after ticks updates.
// Collections added after loading finished are ignored.
func (t *Tracker) Add(name string, ticks int) {
	if t.state == Loaded {
		return
	}
	if ticks < 0 {
		ticks = 0
	}
	t.pending[name] = ticks
}

// OnLoaded registers a hook run once, in registration order, when loading
// finishes.
func (t *Tracker) OnLoaded(fn func() error) {
	t.onDone = append(t.onDone, fn)
}

// Update advances every pending collection by one tick and performs the
// transition to Loaded when nothing is pending anymore.
func (t *Tracker) Update() error {
	if t.state == Loaded {
		return nil
	}
	t.updates++

	names := make([]string, 0, len(t.pending))
	for name := range t.pending {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		t.pending[name]--
		if t.pending[name] <= 0 {
			delete(t.pending, name)
			logger.Debug("asset collection loaded", zap.String("collection", name), zap.Int("tick", t.updates))
		}
	}

	if len(t.pending) > 0 {
		return nil
	}

	t.state = Loaded
	logger.Info("assets loaded", zap.Int("tick", t.updates))
	for _, fn := range t.onDone {
		if err := fn(); err != nil {
			return fmt.Errorf("asset loaded hook: %w", err)
		}
	}
	return nil
}

// State returns the current loading state.
func (t *Tracker) State() LoadingState {
	return t.state
}

// Done reports whether loading has finished.
func (t *Tracker) Done() bool {
	return t.state == Loaded
}

// Pending returns the number of unfinished collections.
func (t *Tracker) Pending() int {
	return len(t.pending)
}
