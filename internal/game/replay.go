package game

import (
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/courtside/courtside-server-go/internal/roster"
)

// Replay is a scrubbable playback session over a parsed event list.
// Forward stepping folds in place; moving backward rebuilds the state
// from zero, which for a single game's few hundred events is cheap and
// eliminates inverse-operation bugs. Each session owns its state tree,
// so concurrent sessions over the same events never alias.
type Replay struct {
	GameID string

	engine *Engine
	cfg    *roster.Config
	events []Event

	mu      sync.Mutex
	current *State
	// index of the last folded event; -1 means nothing folded yet.
	cursor int
}

// NewReplay creates a playback session positioned before the first event.
func NewReplay(gameID string, events []Event, cfg *roster.Config, logger *zap.Logger) (*Replay, error) {
	engine := NewEngine(logger)
	st, err := NewState(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize replay: %w", err)
	}
	st.Events = events

	return &Replay{
		GameID:  gameID,
		engine:  engine,
		cfg:     cfg,
		events:  events,
		current: st,
		cursor:  -1,
	}, nil
}

// Size returns the number of events in the session.
func (r *Replay) Size() int {
	return len(r.events)
}

// Cursor returns the index of the last folded event, -1 before the first.
func (r *Replay) Cursor() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cursor
}

// Current returns the state at the cursor.
func (r *Replay) Current() *State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}

// Start rewinds to a fresh state before the first event.
func (r *Replay) Start() (*State, error) {
	return r.SeekTo(-1)
}

// Next folds one more event and returns the state. At the end it returns
// the final state unchanged.
func (r *Replay) Next() (*State, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.cursor+1 >= len(r.events) {
		return r.current, nil
	}
	r.cursor++
	r.engine.ApplyEvent(r.current, r.events[r.cursor])
	r.markFinished()
	return r.current, nil
}

// Previous steps one event back by refolding from the start.
func (r *Replay) Previous() (*State, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.seekLocked(r.cursor - 1)
}

// Skip moves the cursor by count events in either direction, clamped to
// the session bounds.
func (r *Replay) Skip(count int) (*State, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.seekLocked(r.cursor + count)
}

// SeekTo positions the session at the state after folding events
// [0..index]; -1 yields the fresh pre-game state.
func (r *Replay) SeekTo(index int) (*State, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.seekLocked(index)
}

func (r *Replay) seekLocked(index int) (*State, error) {
	if index < -1 {
		index = -1
	}
	if index >= len(r.events) {
		index = len(r.events) - 1
	}

	st, err := r.engine.ReplayTo(r.events, index, r.cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to seek replay: %w", err)
	}
	r.current = st
	r.cursor = index
	r.markFinished()
	return r.current, nil
}

// markFinished flips the status once the slice is exhausted. The engine
// never decides this; exhaustion is a session-level observation.
func (r *Replay) markFinished() {
	if len(r.events) > 0 && r.cursor == len(r.events)-1 {
		r.current.Status = StatusFinished
	}
}
