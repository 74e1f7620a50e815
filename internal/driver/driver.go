// Package driver owns the single authoritative game state. All actions,
// whether from local input, a remote peer or the automated proposer, pass
// through Apply serially; the resolver itself stays pure and the driver is
// the only place holding a lock.
package driver

import (
	"sync"

	"go.uber.org/zap"

	"github.com/beastbrawl/beastbrawl-server-go/internal/game"
)

// Listener receives each accepted state. The state passed is a private
// deep copy; listeners may retain it.
type Listener func(*game.GameState)

// Driver applies actions to one match and fans the resulting states out to
// subscribers. It never mutates a state in place: Apply swaps the whole
// value for the resolver's result.
type Driver struct {
	logger   *zap.Logger
	recorder *game.ReplayRecorder

	mu        sync.Mutex
	state     *game.GameState
	listeners []Listener
}

// New starts a driver for the given initial state. recorder may be nil to
// disable replay capture.
func New(logger *zap.Logger, st *game.GameState, recorder *game.ReplayRecorder) *Driver {
	if logger == nil {
		logger = zap.NewNop()
	}
	d := &Driver{logger: logger, state: st, recorder: recorder}
	if recorder != nil && st != nil {
		recorder.Start(st.GameID)
		recorder.Record(st.GameID, st)
	}
	return d
}

// Apply resolves one action and installs the result as the authoritative
// state. The returned state is a copy safe to hand to callers.
func (d *Driver) Apply(act game.Action) *game.GameState {
	d.mu.Lock()
	prev := d.state
	next := game.Resolve(prev, act)
	d.state = next
	listeners := append([]Listener(nil), d.listeners...)
	d.mu.Unlock()

	if next == nil {
		return nil
	}

	d.logger.Debug("applied action",
		zap.String("kind", string(act.Kind())),
		zap.String("player", act.PlayerID()),
		zap.Int("turn", next.Turn),
	)

	if d.recorder != nil {
		d.recorder.Record(next.GameID, next)
		if next.Over() && prev != nil && !prev.Over() {
			if err := d.recorder.Save(next.GameID); err != nil {
				d.logger.Warn("failed to save replay",
					zap.String("game_id", next.GameID), zap.Error(err))
			}
		}
	}

	for _, l := range listeners {
		l(next.Clone())
	}
	return next.Clone()
}

// State returns a copy of the current authoritative state.
func (d *Driver) State() *game.GameState {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.state == nil {
		return nil
	}
	return d.state.Clone()
}

// Subscribe registers a listener for every subsequently accepted state.
func (d *Driver) Subscribe(l Listener) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.listeners = append(d.listeners, l)
}
