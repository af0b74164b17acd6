package board

import (
	"fmt"
	"strings"

	"github.com/teamsync/teamsync/internal/models"
)

// Intent kinds
const (
	KindMoveTask      = "move_task"
	KindMoveColumn    = "move_column"
	KindRenameColumn  = "rename_column"
	KindDeleteColumn  = "delete_column"
	KindAddColumn     = "add_column"
	kindRestoreColumn = "restore_column"
	kindRemoveColumn  = "remove_column"
)

// DefaultColumnPrefix names columns added without an explicit prefix
const DefaultColumnPrefix = "New column"

// Intent is a single board mutation. The set of intents is closed: only
// types in this package implement it.
type Intent interface {
	Kind() string
	apply(s *State) (Result, error)
}

// StatusChange records a task changing column as a side effect of an intent
type StatusChange struct {
	TaskID       string
	FromColumnID string
	ToColumnID   string
	From         string // column name before
	To           string // column name after
}

// Result describes an applied intent
type Result struct {
	// Applied is the intent as executed, with generated values filled in
	Applied Intent
	// Inverse undoes Applied on the resulting state
	Inverse Intent
	// Changes lists tasks whose column changed
	Changes []StatusChange
	// Noop is set when the intent left the state untouched
	Noop bool
}

// Apply executes the intent against s. On error s is left unchanged.
func Apply(s *State, in Intent) (Result, error) {
	if in == nil {
		return Result{}, ErrUnknownIntent
	}
	return in.apply(s)
}

func noop(in Intent) Result {
	return Result{Applied: in, Noop: true}
}

// ============================================================================
// MOVE TASK
// ============================================================================

// MoveTask moves the card at FromIndex of FromColumn to ToIndex of ToColumn.
// When TaskID is set the card is located by id and FromColumn/FromIndex are
// ignored. ToIndex may equal the destination length (append).
type MoveTask struct {
	TaskID     string `json:"taskId,omitempty"`
	FromColumn string `json:"fromColumn"`
	FromIndex  int    `json:"fromIndex"`
	ToColumn   string `json:"toColumn"`
	ToIndex    int    `json:"toIndex"`
}

func (MoveTask) Kind() string { return KindMoveTask }

func (m MoveTask) apply(s *State) (Result, error) {
	if m.TaskID != "" {
		colID, idx, ok := s.Locate(m.TaskID)
		if !ok {
			return Result{}, ErrTaskNotOnBoard
		}
		m.FromColumn, m.FromIndex = colID, idx
	}

	from, _, ok := s.Column(m.FromColumn)
	if !ok {
		return Result{}, fmt.Errorf("source %w", ErrColumnNotFound)
	}
	if m.FromIndex < 0 || m.FromIndex >= len(from.Tasks) {
		return Result{}, fmt.Errorf("source %w", ErrIndexOutOfRange)
	}
	to, _, ok := s.Column(m.ToColumn)
	if !ok {
		return Result{}, fmt.Errorf("destination %w", ErrColumnNotFound)
	}
	if m.ToIndex < 0 || m.ToIndex > len(to.Tasks) {
		return Result{}, fmt.Errorf("destination %w", ErrIndexOutOfRange)
	}

	card := from.Tasks[m.FromIndex]
	inverse := MoveTask{FromColumn: m.ToColumn, ToColumn: m.FromColumn, ToIndex: m.FromIndex}

	if from == to {
		// the column is one card shorter once the card is lifted
		if m.ToIndex == len(from.Tasks) {
			m.ToIndex--
		}
		if m.ToIndex == m.FromIndex {
			return noop(m), nil
		}
		from.Tasks = insertCard(removeCard(from.Tasks, m.FromIndex), m.ToIndex, card)
		inverse.FromIndex = m.ToIndex
		return Result{Applied: m, Inverse: inverse}, nil
	}

	from.Tasks = removeCard(from.Tasks, m.FromIndex)
	to.Tasks = insertCard(to.Tasks, m.ToIndex, card)
	inverse.FromIndex = m.ToIndex

	return Result{
		Applied: m,
		Inverse: inverse,
		Changes: []StatusChange{{
			TaskID:       card.ID,
			FromColumnID: from.ID,
			ToColumnID:   to.ID,
			From:         from.Name,
			To:           to.Name,
		}},
	}, nil
}

// removeCard returns a new slice without the card at i
func removeCard(cards []Card, i int) []Card {
	out := make([]Card, 0, len(cards)-1)
	out = append(out, cards[:i]...)
	return append(out, cards[i+1:]...)
}

// insertCard returns a new slice with card inserted at i
func insertCard(cards []Card, i int, card Card) []Card {
	out := make([]Card, 0, len(cards)+1)
	out = append(out, cards[:i]...)
	out = append(out, card)
	return append(out, cards[i:]...)
}

// ============================================================================
// MOVE COLUMN
// ============================================================================

// MoveColumn changes the display position of a column
type MoveColumn struct {
	From int `json:"from"`
	To   int `json:"to"`
}

func (MoveColumn) Kind() string { return KindMoveColumn }

func (m MoveColumn) apply(s *State) (Result, error) {
	n := len(s.Columns)
	if m.From < 0 || m.From >= n || m.To < 0 || m.To >= n {
		return Result{}, ErrIndexOutOfRange
	}
	if m.From == m.To {
		return noop(m), nil
	}

	col := s.Columns[m.From]
	rest := make([]*Column, 0, n)
	rest = append(rest, s.Columns[:m.From]...)
	rest = append(rest, s.Columns[m.From+1:]...)

	cols := make([]*Column, 0, n)
	cols = append(cols, rest[:m.To]...)
	cols = append(cols, col)
	s.Columns = append(cols, rest[m.To:]...)

	return Result{Applied: m, Inverse: MoveColumn{From: m.To, To: m.From}}, nil
}

// ============================================================================
// RENAME COLUMN
// ============================================================================

// RenameColumn changes a column's display name. Tasks reference the column id
// so nothing else changes.
type RenameColumn struct {
	ColumnID string `json:"columnId"`
	Name     string `json:"name"`
}

func (RenameColumn) Kind() string { return KindRenameColumn }

func (m RenameColumn) apply(s *State) (Result, error) {
	col, _, ok := s.Column(m.ColumnID)
	if !ok {
		return Result{}, ErrColumnNotFound
	}
	name, err := ValidateColumnName(m.Name)
	if err != nil {
		return Result{}, err
	}
	if name == col.Name {
		return noop(RenameColumn{ColumnID: m.ColumnID, Name: name}), nil
	}
	if s.nameTaken(name, col.ID) {
		return Result{}, ErrDuplicateColumnName
	}

	old := col.Name
	col.Name = name
	return Result{
		Applied: RenameColumn{ColumnID: m.ColumnID, Name: name},
		Inverse: RenameColumn{ColumnID: m.ColumnID, Name: old},
	}, nil
}

// ValidateColumnName trims and checks a column name
func ValidateColumnName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ErrEmptyColumnName
	}
	if len(name) > models.MaxNameLength {
		return "", ErrColumnNameTooLong
	}
	return name, nil
}

// nameTaken reports whether another column already uses name
func (s *State) nameTaken(name, exceptID string) bool {
	for _, col := range s.Columns {
		if col.ID != exceptID && strings.EqualFold(col.Name, name) {
			return true
		}
	}
	return false
}

// ============================================================================
// DELETE COLUMN
// ============================================================================

// DeleteColumn removes a column. A non-empty column needs TargetColumnID; its
// tasks are appended there in their current order.
type DeleteColumn struct {
	ColumnID       string `json:"columnId"`
	TargetColumnID string `json:"targetColumnId,omitempty"`
}

func (DeleteColumn) Kind() string { return KindDeleteColumn }

func (m DeleteColumn) apply(s *State) (Result, error) {
	col, idx, ok := s.Column(m.ColumnID)
	if !ok {
		return Result{}, ErrColumnNotFound
	}
	if len(s.Columns) == 1 {
		return Result{}, ErrLastColumn
	}

	var target *Column
	if len(col.Tasks) > 0 {
		if m.TargetColumnID == "" {
			return Result{}, ErrColumnNotEmpty
		}
		if m.TargetColumnID == m.ColumnID {
			return Result{}, ErrInvalidTargetColumn
		}
		target, _, ok = s.Column(m.TargetColumnID)
		if !ok {
			return Result{}, fmt.Errorf("target %w", ErrColumnNotFound)
		}
	}

	changes := make([]StatusChange, 0, len(col.Tasks))
	if target != nil {
		merged := make([]Card, 0, len(target.Tasks)+len(col.Tasks))
		merged = append(merged, target.Tasks...)
		target.Tasks = append(merged, col.Tasks...)
		for _, card := range col.Tasks {
			changes = append(changes, StatusChange{
				TaskID:       card.ID,
				FromColumnID: col.ID,
				ToColumnID:   target.ID,
				From:         col.Name,
				To:           target.Name,
			})
		}
	}

	removed := col.clone()
	s.Columns = removeColumnAt(s.Columns, idx)

	return Result{
		Applied: m,
		Inverse: restoreColumn{Column: removed, Index: idx, TargetColumnID: m.TargetColumnID, Moved: len(removed.Tasks)},
		Changes: changes,
	}, nil
}

func removeColumnAt(cols []*Column, i int) []*Column {
	out := make([]*Column, 0, len(cols)-1)
	out = append(out, cols[:i]...)
	return append(out, cols[i+1:]...)
}

// restoreColumn reinserts a deleted column and takes its cards back from the
// tail of the target column
type restoreColumn struct {
	Column         *Column
	Index          int
	TargetColumnID string
	Moved          int
}

func (restoreColumn) Kind() string { return kindRestoreColumn }

func (m restoreColumn) apply(s *State) (Result, error) {
	if m.Index < 0 || m.Index > len(s.Columns) {
		return Result{}, ErrIndexOutOfRange
	}
	if m.Moved > 0 {
		target, _, ok := s.Column(m.TargetColumnID)
		if !ok {
			return Result{}, fmt.Errorf("target %w", ErrColumnNotFound)
		}
		if len(target.Tasks) < m.Moved {
			return Result{}, ErrIndexOutOfRange
		}
		target.Tasks = append([]Card{}, target.Tasks[:len(target.Tasks)-m.Moved]...)
	}

	col := m.Column.clone()
	cols := make([]*Column, 0, len(s.Columns)+1)
	cols = append(cols, s.Columns[:m.Index]...)
	cols = append(cols, col)
	s.Columns = append(cols, s.Columns[m.Index:]...)

	return Result{
		Applied: m,
		Inverse: DeleteColumn{ColumnID: col.ID, TargetColumnID: m.TargetColumnID},
	}, nil
}

// ============================================================================
// ADD COLUMN
// ============================================================================

// AddColumn appends an empty column named after Prefix. ID and Name are
// generated when empty and reported back through Result.Applied.
type AddColumn struct {
	ID     string       `json:"id,omitempty"`
	Prefix string       `json:"prefix,omitempty"`
	Name   string       `json:"name,omitempty"`
	Stage  models.Stage `json:"stage,omitempty"`
}

func (AddColumn) Kind() string { return KindAddColumn }

func (m AddColumn) apply(s *State) (Result, error) {
	if m.ID == "" {
		m.ID = models.NewID()
	} else if _, _, exists := s.Column(m.ID); exists {
		return Result{}, fmt.Errorf("column id %w", models.ErrDuplicate)
	}
	if !m.Stage.Valid() {
		return Result{}, fmt.Errorf("%w: unknown stage %q", models.ErrInvalid, m.Stage)
	}

	prefix := strings.TrimSpace(m.Prefix)
	if prefix == "" {
		prefix = DefaultColumnPrefix
	}
	if _, err := ValidateColumnName(prefix); err != nil {
		return Result{}, err
	}
	m.Prefix = prefix
	m.Name = s.uniqueName(prefix)

	s.Columns = append(append([]*Column{}, s.Columns...), &Column{ID: m.ID, Name: m.Name, Stage: m.Stage, Tasks: []Card{}})

	return Result{Applied: m, Inverse: removeColumn{ColumnID: m.ID}}, nil
}

// uniqueName returns prefix, or prefix followed by the first free counter
func (s *State) uniqueName(prefix string) string {
	if !s.nameTaken(prefix, "") {
		return prefix
	}
	for n := 2; ; n++ {
		name := fmt.Sprintf("%s %d", prefix, n)
		if !s.nameTaken(name, "") {
			return name
		}
	}
}

// removeColumn drops an empty column without the last-column guard. It only
// undoes AddColumn.
type removeColumn struct {
	ColumnID string
}

func (removeColumn) Kind() string { return kindRemoveColumn }

func (m removeColumn) apply(s *State) (Result, error) {
	col, idx, ok := s.Column(m.ColumnID)
	if !ok {
		return Result{}, ErrColumnNotFound
	}
	if len(col.Tasks) > 0 {
		return Result{}, ErrColumnNotEmpty
	}
	s.Columns = removeColumnAt(s.Columns, idx)
	return Result{Applied: m, Inverse: AddColumn{ID: col.ID, Prefix: col.Name, Stage: col.Stage}}, nil
}
