package game

import (
	"compress/gzip"
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Replay is a recorded match: the sequence of states produced by each
// accepted transition, playable in both directions.
type Replay struct {
	GameID string
	States []*GameState

	mu     sync.RWMutex
	cursor int
}

func NewReplay(gameID string) *Replay {
	return &Replay{GameID: gameID}
}

// Record appends a deep copy of the state, so later transitions cannot
// alter what was recorded.
func (r *Replay) Record(st *GameState) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.States = append(r.States, st.Clone())
}

// Rewind resets playback to the first snapshot.
func (r *Replay) Rewind() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cursor = 0
}

// Next returns the next snapshot, or nil when playback is exhausted.
func (r *Replay) Next() *GameState {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cursor >= len(r.States) {
		return nil
	}
	st := r.States[r.cursor]
	r.cursor++
	return st
}

// Previous steps playback back one snapshot, or nil at the start.
func (r *Replay) Previous() *GameState {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cursor == 0 {
		return nil
	}
	r.cursor--
	return r.States[r.cursor]
}

// Len returns the number of recorded snapshots.
func (r *Replay) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.States)
}

// StateAt returns the snapshot at index, or nil when out of range.
func (r *Replay) StateAt(index int) *GameState {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if index < 0 || index >= len(r.States) {
		return nil
	}
	return r.States[index]
}

type replayHeader struct {
	GameID     string
	RecordedAt time.Time
	Version    int
	StateCount int
}

const replayVersion = 1

// Save writes the replay as a gob stream inside a gzipped file named
// <gameID>.replay under dir.
func (r *Replay) Save(dir string) error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create replay dir: %w", err)
	}
	file, err := os.Create(replayPath(dir, r.GameID))
	if err != nil {
		return fmt.Errorf("create replay file: %w", err)
	}
	defer file.Close()

	zw := gzip.NewWriter(file)
	enc := gob.NewEncoder(zw)

	header := replayHeader{
		GameID:     r.GameID,
		RecordedAt: time.Now(),
		Version:    replayVersion,
		StateCount: len(r.States),
	}
	if err := enc.Encode(&header); err != nil {
		return fmt.Errorf("encode replay header: %w", err)
	}
	for i, st := range r.States {
		if err := enc.Encode(st); err != nil {
			return fmt.Errorf("encode snapshot %d: %w", i, err)
		}
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("flush replay file: %w", err)
	}
	return nil
}

// LoadReplay reads a replay previously written by Save.
func LoadReplay(dir, gameID string) (*Replay, error) {
	file, err := os.Open(replayPath(dir, gameID))
	if err != nil {
		return nil, fmt.Errorf("open replay file: %w", err)
	}
	defer file.Close()

	zr, err := gzip.NewReader(file)
	if err != nil {
		return nil, fmt.Errorf("read replay file: %w", err)
	}
	defer zr.Close()

	dec := gob.NewDecoder(zr)
	var header replayHeader
	if err := dec.Decode(&header); err != nil {
		return nil, fmt.Errorf("decode replay header: %w", err)
	}
	if header.Version != replayVersion {
		return nil, fmt.Errorf("unsupported replay version %d", header.Version)
	}

	replay := NewReplay(header.GameID)
	for i := 0; i < header.StateCount; i++ {
		var st GameState
		if err := dec.Decode(&st); err != nil {
			return nil, fmt.Errorf("decode snapshot %d: %w", i, err)
		}
		replay.States = append(replay.States, &st)
	}
	return replay, nil
}

func replayPath(dir, gameID string) string {
	return filepath.Join(dir, gameID+".replay")
}

// ReplayRecorder tracks in-progress recordings for multiple matches and
// persists them on demand.
type ReplayRecorder struct {
	logger  *zap.Logger
	saveDir string

	mu      sync.RWMutex
	replays map[string]*Replay
	active  map[string]bool
}

func NewReplayRecorder(logger *zap.Logger, saveDir string) *ReplayRecorder {
	return &ReplayRecorder{
		logger:  logger,
		saveDir: saveDir,
		replays: make(map[string]*Replay),
		active:  make(map[string]bool),
	}
}

// Start begins recording a match.
func (rr *ReplayRecorder) Start(gameID string) {
	rr.mu.Lock()
	defer rr.mu.Unlock()
	rr.replays[gameID] = NewReplay(gameID)
	rr.active[gameID] = true
	if rr.logger != nil {
		rr.logger.Info("started replay recording", zap.String("game_id", gameID))
	}
}

// Stop pauses recording without discarding the snapshots taken so far.
func (rr *ReplayRecorder) Stop(gameID string) {
	rr.mu.Lock()
	defer rr.mu.Unlock()
	rr.active[gameID] = false
}

// Record snapshots the state when the match is being recorded.
func (rr *ReplayRecorder) Record(gameID string, st *GameState) {
	rr.mu.RLock()
	active := rr.active[gameID]
	replay := rr.replays[gameID]
	rr.mu.RUnlock()

	if !active || replay == nil {
		return
	}
	replay.Record(st)
}

// Recording reports whether the match is currently being recorded.
func (rr *ReplayRecorder) Recording(gameID string) bool {
	rr.mu.RLock()
	defer rr.mu.RUnlock()
	return rr.active[gameID]
}

// Replay returns the in-memory replay for a match.
func (rr *ReplayRecorder) Replay(gameID string) (*Replay, bool) {
	rr.mu.RLock()
	defer rr.mu.RUnlock()
	replay, ok := rr.replays[gameID]
	return replay, ok
}

// Save persists a finished recording to disk and drops it from memory.
func (rr *ReplayRecorder) Save(gameID string) error {
	rr.mu.Lock()
	replay, ok := rr.replays[gameID]
	delete(rr.replays, gameID)
	delete(rr.active, gameID)
	rr.mu.Unlock()

	if !ok {
		return fmt.Errorf("no replay recorded for game %s", gameID)
	}
	if err := replay.Save(rr.saveDir); err != nil {
		return err
	}
	if rr.logger != nil {
		rr.logger.Info("saved replay",
			zap.String("game_id", gameID),
			zap.Int("snapshots", replay.Len()),
			zap.String("dir", rr.saveDir),
		)
	}
	return nil
}

// Discard drops an in-memory recording without saving it.
func (rr *ReplayRecorder) Discard(gameID string) {
	rr.mu.Lock()
	defer rr.mu.Unlock()
	delete(rr.replays, gameID)
	delete(rr.active, gameID)
}
