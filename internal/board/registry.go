package board

import (
	"context"
	"fmt"
	"sync"

	"github.com/teamsync/teamsync/internal/events"
)

// Loader reads a board layout from storage
type Loader interface {
	LoadBoard(ctx context.Context, boardID string) (*State, error)
}

// Registry caches one Board per (project, board). Entries are dropped when a
// change event for their board is published, the next Get reloads them.
type Registry struct {
	mu      sync.Mutex
	boards  map[Key]*Board
	index   map[string]Key
	loader  Loader
	persist Persister
	opts    []Option
}

// NewRegistry creates a registry that loads through loader and persists through persist
func NewRegistry(loader Loader, persist Persister, opts ...Option) *Registry {
	return &Registry{
		boards:  make(map[Key]*Board),
		index:   make(map[string]Key),
		loader:  loader,
		persist: persist,
		opts:    opts,
	}
}

// Get returns the cached board, loading it on a miss
func (r *Registry) Get(ctx context.Context, boardID string) (*Board, error) {
	if b, ok := r.lookup(boardID); ok {
		return b, nil
	}

	state, err := r.loader.LoadBoard(ctx, boardID)
	if err != nil {
		return nil, fmt.Errorf("failed to load board %s: %w", boardID, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	// Another request may have loaded the board meanwhile
	if key, ok := r.index[boardID]; ok {
		if b, ok := r.boards[key]; ok && !b.Stale() {
			return b, nil
		}
	}

	b := New(state, r.persist, r.opts...)
	key := state.Key()
	r.boards[key] = b
	r.index[boardID] = key
	return b, nil
}

func (r *Registry) lookup(boardID string) (*Board, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key, ok := r.index[boardID]
	if !ok {
		return nil, false
	}
	b, ok := r.boards[key]
	if !ok || b.Stale() {
		return nil, false
	}
	return b, true
}

// Invalidate drops the cached board
func (r *Registry) Invalidate(boardID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if key, ok := r.index[boardID]; ok {
		delete(r.boards, key)
		delete(r.index, boardID)
	}
}

// Len returns the number of cached boards
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.boards)
}

// Publish implements events.Publisher so the registry can sit in the event
// fan-out and drop boards that changed outside the engine.
func (r *Registry) Publish(_ context.Context, e events.Event) error {
	if e.BoardID != "" && e.Origin != events.OriginEngine {
		r.Invalidate(e.BoardID)
	}
	return nil
}

var _ events.Publisher = (*Registry)(nil)
