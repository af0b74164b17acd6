package board

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
)

// Intent outcomes reported to the observer
const (
	OutcomeApplied    = "applied"
	OutcomeNoop       = "noop"
	OutcomeRejected   = "rejected"
	OutcomeRolledBack = "rolled_back"
)

// Persister writes an applied intent to durable storage. It receives the
// state after the intent was applied.
type Persister interface {
	Persist(ctx context.Context, s *State, r Result) error
}

// PersistFunc adapts a function to Persister
type PersistFunc func(ctx context.Context, s *State, r Result) error

// Persist calls f
func (f PersistFunc) Persist(ctx context.Context, s *State, r Result) error {
	return f(ctx, s, r)
}

// Option configures a Board
type Option func(*Board)

// WithLogger sets the logger used for rollback failures
func WithLogger(logger *slog.Logger) Option {
	return func(b *Board) {
		b.logger = logger
	}
}

// WithObserver registers a callback invoked once per dispatched intent
func WithObserver(fn func(kind, outcome string)) Option {
	return func(b *Board) {
		b.observe = fn
	}
}

// Board serializes intents on one board state. Each intent is applied in
// memory first, then persisted; a failed write is undone with the inverse.
type Board struct {
	mu      sync.Mutex
	state   *State
	persist Persister
	logger  *slog.Logger
	observe func(kind, outcome string)
	stale   bool
}

// New creates a board around state. A nil persister keeps the board in memory.
func New(state *State, persist Persister, opts ...Option) *Board {
	b := &Board{
		state:   state,
		persist: persist,
		logger:  slog.Default(),
		observe: func(string, string) {},
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Dispatch applies the intent and persists it
func (b *Board) Dispatch(ctx context.Context, in Intent) (Result, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	kind := KindOf(in)

	res, err := Apply(b.state, in)
	if err != nil {
		b.observe(kind, OutcomeRejected)
		return Result{}, err
	}
	if res.Noop {
		b.observe(kind, OutcomeNoop)
		return res, nil
	}

	if b.persist != nil {
		if err := b.persist.Persist(ctx, b.state.Clone(), res); err != nil {
			if _, rbErr := Apply(b.state, res.Inverse); rbErr != nil {
				b.stale = true
				b.logger.Error("failed to roll back board intent",
					"board_id", b.state.BoardID, "intent", kind, "error", rbErr)
			}
			b.observe(kind, OutcomeRolledBack)
			return Result{}, fmt.Errorf("failed to persist %s: %w", kind, err)
		}
	}

	b.observe(kind, OutcomeApplied)
	return res, nil
}

// Snapshot returns a copy of the current state
func (b *Board) Snapshot() *State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state.Clone()
}

// Stale reports whether the in-memory state may have diverged from storage
func (b *Board) Stale() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.stale
}

// KindOf returns the kind of an intent, "unknown" for nil
func KindOf(in Intent) string {
	if in == nil {
		return "unknown"
	}
	return in.Kind()
}
