package board

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teamsync/teamsync/internal/events"
)

type outcome struct {
	kind, outcome string
}

type outcomeLog struct {
	mu  sync.Mutex
	got []outcome
}

func (l *outcomeLog) observe(kind, out string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.got = append(l.got, outcome{kind, out})
}

func TestDispatch_PersistsAppliedState(t *testing.T) {
	var persisted *State
	var persistedResult Result
	persist := PersistFunc(func(_ context.Context, s *State, r Result) error {
		persisted = s
		persistedResult = r
		return nil
	})
	log := &outcomeLog{}
	b := New(sampleState(), persist, WithObserver(log.observe))

	res, err := b.Dispatch(context.Background(), MoveTask{FromColumn: "c-todo", FromIndex: 0, ToColumn: "c-done", ToIndex: 0})
	require.NoError(t, err)

	require.NotNil(t, persisted)
	assert.Equal(t, []string{"T1"}, cardIDs(persisted.Columns[2]))
	assert.Len(t, persistedResult.Changes, 1)
	assert.Equal(t, res.Changes, persistedResult.Changes)
	assert.Equal(t, []outcome{{KindMoveTask, OutcomeApplied}}, log.got)

	snap := b.Snapshot()
	assert.Equal(t, persisted, snap)
}

func TestDispatch_NoopSkipsPersist(t *testing.T) {
	calls := 0
	persist := PersistFunc(func(context.Context, *State, Result) error {
		calls++
		return nil
	})
	log := &outcomeLog{}
	b := New(sampleState(), persist, WithObserver(log.observe))

	res, err := b.Dispatch(context.Background(), MoveTask{FromColumn: "c-todo", FromIndex: 0, ToColumn: "c-todo", ToIndex: 0})
	require.NoError(t, err)

	assert.True(t, res.Noop)
	assert.Zero(t, calls, "a no-op must not reach storage")
	assert.Equal(t, sampleState(), b.Snapshot())
	assert.Equal(t, []outcome{{KindMoveTask, OutcomeNoop}}, log.got)
}

func TestDispatch_RollsBackWhenPersistFails(t *testing.T) {
	boom := errors.New("disk full")
	persist := PersistFunc(func(context.Context, *State, Result) error { return boom })
	log := &outcomeLog{}
	b := New(sampleState(), persist, WithObserver(log.observe))

	intents := []Intent{
		MoveTask{FromColumn: "c-todo", FromIndex: 0, ToColumn: "c-prog", ToIndex: 1},
		MoveColumn{From: 0, To: 2},
		RenameColumn{ColumnID: "c-done", Name: "shipped"},
		DeleteColumn{ColumnID: "c-todo", TargetColumnID: "c-done"},
		AddColumn{},
	}

	for _, in := range intents {
		_, err := b.Dispatch(context.Background(), in)
		require.Error(t, err, in.Kind())
		assert.ErrorIs(t, err, boom)
		assert.Equal(t, sampleState(), b.Snapshot(), "%s must be rolled back", in.Kind())
	}

	assert.False(t, b.Stale())
	for _, o := range log.got {
		assert.Equal(t, OutcomeRolledBack, o.outcome)
	}
}

func TestDispatch_RejectedIntent(t *testing.T) {
	log := &outcomeLog{}
	b := New(&State{Columns: []*Column{{ID: "only", Name: "todo"}}}, nil, WithObserver(log.observe))

	_, err := b.Dispatch(context.Background(), DeleteColumn{ColumnID: "only"})
	assert.ErrorIs(t, err, ErrLastColumn)
	assert.Equal(t, []outcome{{KindDeleteColumn, OutcomeRejected}}, log.got)
}

func TestDispatch_ConcurrentMovesKeepTaskSet(t *testing.T) {
	b := New(sampleState(), nil)
	before := sortedIDs(sampleState())

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if i%2 == 0 {
				_, _ = b.Dispatch(context.Background(), MoveTask{FromColumn: "c-todo", FromIndex: 0, ToColumn: "c-done", ToIndex: 0})
			} else {
				_, _ = b.Dispatch(context.Background(), MoveTask{FromColumn: "c-done", FromIndex: 0, ToColumn: "c-todo", ToIndex: 0})
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, before, sortedIDs(b.Snapshot()))
}

type countingLoader struct {
	mu    sync.Mutex
	loads int
	err   error
}

func (l *countingLoader) LoadBoard(_ context.Context, boardID string) (*State, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.err != nil {
		return nil, l.err
	}
	l.loads++
	s := sampleState()
	s.BoardID = boardID
	return s, nil
}

func TestRegistry_CachesAndInvalidates(t *testing.T) {
	loader := &countingLoader{}
	reg := NewRegistry(loader, nil)
	ctx := context.Background()

	first, err := reg.Get(ctx, "b1")
	require.NoError(t, err)
	second, err := reg.Get(ctx, "b1")
	require.NoError(t, err)
	assert.Same(t, first, second)
	assert.Equal(t, 1, loader.loads)
	assert.Equal(t, 1, reg.Len())

	// Engine-originated events describe changes the cache already holds
	require.NoError(t, reg.Publish(ctx, events.Event{BoardID: "b1", Origin: events.OriginEngine}))
	third, err := reg.Get(ctx, "b1")
	require.NoError(t, err)
	assert.Same(t, first, third)

	require.NoError(t, reg.Publish(ctx, events.Event{BoardID: "b1", Origin: events.OriginService}))
	assert.Zero(t, reg.Len())

	fourth, err := reg.Get(ctx, "b1")
	require.NoError(t, err)
	assert.NotSame(t, first, fourth)
	assert.Equal(t, 2, loader.loads)
}

func TestRegistry_LoadError(t *testing.T) {
	boom := errors.New("no such board")
	reg := NewRegistry(&countingLoader{err: boom}, nil)

	_, err := reg.Get(context.Background(), "b1")
	assert.ErrorIs(t, err, boom)
	assert.Zero(t, reg.Len())
}

func TestRegistry_ReloadsStaleBoard(t *testing.T) {
	loader := &countingLoader{}
	reg := NewRegistry(loader, nil)

	b, err := reg.Get(context.Background(), "b1")
	require.NoError(t, err)

	b.mu.Lock()
	b.stale = true
	b.mu.Unlock()

	fresh, err := reg.Get(context.Background(), "b1")
	require.NoError(t, err)
	assert.NotSame(t, b, fresh)
	assert.False(t, fresh.Stale())
}
