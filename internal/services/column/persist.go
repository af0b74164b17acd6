package column

import (
	"context"
	"fmt"

	"github.com/teamsync/teamsync/internal/board"
	"github.com/teamsync/teamsync/internal/database"
	"github.com/teamsync/teamsync/internal/events"
	"github.com/teamsync/teamsync/internal/models"
)

type actorKey struct{}

// withActor records the user on whose behalf an intent is persisted
func withActor(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, actorKey{}, userID)
}

func actorFrom(ctx context.Context) string {
	id, _ := ctx.Value(actorKey{}).(string)
	return id
}

// LoadBoard builds the engine state of a board from storage
func (s *service) LoadBoard(ctx context.Context, boardID string) (*board.State, error) {
	b, err := s.repo.GetBoard(ctx, boardID)
	if err != nil {
		return nil, err
	}
	cols, err := s.repo.ListColumns(ctx, boardID)
	if err != nil {
		return nil, err
	}
	tasks, err := s.repo.ListTasksByBoard(ctx, boardID)
	if err != nil {
		return nil, err
	}

	st := &board.State{ProjectID: b.ProjectID, BoardID: b.ID, Columns: make([]*board.Column, 0, len(cols))}
	byID := make(map[string]*board.Column, len(cols))
	for _, c := range cols {
		col := &board.Column{ID: c.ID, Name: c.Name, Stage: c.Stage, Tasks: []board.Card{}}
		st.Columns = append(st.Columns, col)
		byID[c.ID] = col
	}
	for _, t := range tasks {
		col, ok := byID[t.ColumnID]
		if !ok {
			continue
		}
		col.Tasks = append(col.Tasks, cardOf(t))
	}
	return st, nil
}

func cardOf(t *models.Task) board.Card {
	return board.Card{
		ID:         t.ID,
		Title:      t.Title,
		Priority:   t.Priority,
		AssigneeID: t.AssigneeID,
		Tags:       t.Tags,
	}
}

// Persist writes an applied intent in one transaction: task placement,
// column layout, a history entry per status change and the board version
func (s *service) Persist(ctx context.Context, st *board.State, r board.Result) error {
	actor := actorFrom(ctx)

	err := s.repo.InTx(ctx, func(tx database.DataStore) error {
		for _, colID := range placedColumns(r.Applied) {
			col, _, ok := st.Column(colID)
			if !ok {
				continue
			}
			ids := make([]string, len(col.Tasks))
			for i, card := range col.Tasks {
				ids[i] = card.ID
			}
			if err := tx.PlaceTasks(ctx, colID, ids); err != nil {
				return err
			}
		}

		if changesLayout(r.Applied) {
			cols := make([]*models.Column, len(st.Columns))
			for i, c := range st.Columns {
				cols[i] = &models.Column{ID: c.ID, Name: c.Name, Stage: c.Stage}
			}
			if err := tx.SyncColumns(ctx, st.BoardID, cols); err != nil {
				return err
			}
		}

		if len(r.Changes) > 0 {
			entries := make([]*models.HistoryEntry, len(r.Changes))
			for i, c := range r.Changes {
				entries[i] = &models.HistoryEntry{
					TaskID:    c.TaskID,
					UserID:    actor,
					Action:    models.ActionMoved,
					FieldName: "status",
					OldValue:  c.From,
					NewValue:  c.To,
				}
			}
			if err := tx.AppendHistory(ctx, entries...); err != nil {
				return err
			}
		}

		return tx.TouchBoard(ctx, st.BoardID)
	})
	if err != nil {
		return fmt.Errorf("failed to save board %s: %w", st.BoardID, err)
	}

	s.publishBoardEvent(ctx, st.ProjectID, st.BoardID, events.OriginEngine)
	return nil
}

// placedColumns lists the columns whose task order an intent changed
func placedColumns(in board.Intent) []string {
	switch m := in.(type) {
	case board.MoveTask:
		if m.FromColumn == m.ToColumn {
			return []string{m.FromColumn}
		}
		return []string{m.FromColumn, m.ToColumn}
	case board.DeleteColumn:
		if m.TargetColumnID != "" {
			return []string{m.TargetColumnID}
		}
	}
	return nil
}

// changesLayout reports whether an intent changed the columns themselves
func changesLayout(in board.Intent) bool {
	switch in.(type) {
	case board.MoveTask:
		return false
	default:
		return true
	}
}

var (
	_ board.Loader    = (*service)(nil)
	_ board.Persister = (*service)(nil)
)
