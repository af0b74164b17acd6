// Package board keeps the in-memory layout of a kanban board and applies
// reorder intents to it. Every applied intent yields its inverse so a failed
// write can be undone without reloading the board.
package board

import "github.com/teamsync/teamsync/internal/models"

// Card is the board view of a task
type Card struct {
	ID         string          `json:"id"`
	Title      string          `json:"title"`
	Priority   models.Priority `json:"priority"`
	AssigneeID *string         `json:"assigneeId,omitempty"`
	Tags       []string        `json:"tags,omitempty"`
}

// Column is an ordered list of cards
type Column struct {
	ID    string       `json:"id"`
	Name  string       `json:"name"`
	Stage models.Stage `json:"stage,omitempty"`
	Tasks []Card       `json:"tasks"`
}

// State is the full layout of one board. Column display order is slice order.
type State struct {
	ProjectID string    `json:"projectId"`
	BoardID   string    `json:"boardId"`
	Columns   []*Column `json:"columns"`
}

// Key identifies a board inside a project
type Key struct {
	ProjectID string
	BoardID   string
}

// Key returns the registry key of the state
func (s *State) Key() Key {
	return Key{ProjectID: s.ProjectID, BoardID: s.BoardID}
}

// Clone returns a deep copy of the state
func (s *State) Clone() *State {
	c := &State{ProjectID: s.ProjectID, BoardID: s.BoardID, Columns: make([]*Column, len(s.Columns))}
	for i, col := range s.Columns {
		c.Columns[i] = col.clone()
	}
	return c
}

func (c *Column) clone() *Column {
	cp := *c
	cp.Tasks = append([]Card{}, c.Tasks...)
	return &cp
}

// Column returns the column with the given id and its display index
func (s *State) Column(id string) (*Column, int, bool) {
	for i, col := range s.Columns {
		if col.ID == id {
			return col, i, true
		}
	}
	return nil, -1, false
}

// Locate finds the column and index of a task
func (s *State) Locate(taskID string) (columnID string, index int, ok bool) {
	for _, col := range s.Columns {
		for i, card := range col.Tasks {
			if card.ID == taskID {
				return col.ID, i, true
			}
		}
	}
	return "", -1, false
}

// TaskIDs lists every task id on the board, column by column
func (s *State) TaskIDs() []string {
	var ids []string
	for _, col := range s.Columns {
		for _, card := range col.Tasks {
			ids = append(ids, card.ID)
		}
	}
	return ids
}

// ColumnByStage returns the first column carrying the stage
func (s *State) ColumnByStage(stage models.Stage) (*Column, bool) {
	for _, col := range s.Columns {
		if col.Stage == stage {
			return col, true
		}
	}
	return nil, false
}
