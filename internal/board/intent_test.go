package board

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teamsync/teamsync/internal/models"
)

func sampleState() *State {
	return &State{
		ProjectID: "p1",
		BoardID:   "b1",
		Columns: []*Column{
			{ID: "c-todo", Name: "todo", Stage: models.StageTodo, Tasks: []Card{{ID: "T1"}, {ID: "T2"}, {ID: "T3"}}},
			{ID: "c-prog", Name: "in_progress", Stage: models.StageInProgress, Tasks: []Card{{ID: "T4"}}},
			{ID: "c-done", Name: "done", Stage: models.StageDone, Tasks: []Card{}},
		},
	}
}

func sortedIDs(s *State) []string {
	ids := s.TaskIDs()
	sort.Strings(ids)
	return ids
}

func columnIDs(s *State) []string {
	ids := make([]string, 0, len(s.Columns))
	for _, c := range s.Columns {
		ids = append(ids, c.ID)
	}
	return ids
}

func cardIDs(col *Column) []string {
	ids := make([]string, 0, len(col.Tasks))
	for _, c := range col.Tasks {
		ids = append(ids, c.ID)
	}
	return ids
}

func TestMoveTask_PreservesTaskSet(t *testing.T) {
	moves := []MoveTask{
		{FromColumn: "c-todo", FromIndex: 0, ToColumn: "c-todo", ToIndex: 2},
		{FromColumn: "c-todo", FromIndex: 2, ToColumn: "c-todo", ToIndex: 0},
		{FromColumn: "c-todo", FromIndex: 1, ToColumn: "c-prog", ToIndex: 0},
		{FromColumn: "c-todo", FromIndex: 1, ToColumn: "c-prog", ToIndex: 1},
		{FromColumn: "c-prog", FromIndex: 0, ToColumn: "c-done", ToIndex: 0},
	}

	for _, m := range moves {
		s := sampleState()
		before := sortedIDs(s)

		_, err := Apply(s, m)
		require.NoError(t, err, "move %+v", m)
		assert.Equal(t, before, sortedIDs(s), "move %+v must not duplicate or lose cards", m)
	}
}

func TestMoveTask_SameColumnReorder(t *testing.T) {
	s := &State{Columns: []*Column{{ID: "c1", Name: "todo", Tasks: []Card{{ID: "T1"}, {ID: "T2"}}}}}

	res, err := Apply(s, MoveTask{FromColumn: "c1", FromIndex: 0, ToColumn: "c1", ToIndex: 1})
	require.NoError(t, err)

	assert.Equal(t, []string{"T2", "T1"}, cardIDs(s.Columns[0]))
	assert.Empty(t, res.Changes, "reordering within a column changes no status")
	assert.False(t, res.Noop)
}

func TestMoveTask_SameColumnAppend(t *testing.T) {
	s := sampleState()
	before := s.Clone()

	res, err := Apply(s, MoveTask{FromColumn: "c-todo", FromIndex: 0, ToColumn: "c-todo", ToIndex: 3})
	require.NoError(t, err)
	assert.Equal(t, []string{"T2", "T3", "T1"}, cardIDs(s.Columns[0]))
	assert.Equal(t, 2, res.Applied.(MoveTask).ToIndex, "applied index is the final position")

	_, err = Apply(s, res.Inverse)
	require.NoError(t, err)
	assert.Equal(t, before, s)
}

func TestMoveTask_SameColumnAppendLastCardIsNoop(t *testing.T) {
	s := sampleState()

	res, err := Apply(s, MoveTask{FromColumn: "c-todo", FromIndex: 2, ToColumn: "c-todo", ToIndex: 3})
	require.NoError(t, err)
	assert.True(t, res.Noop)
	assert.Equal(t, []string{"T1", "T2", "T3"}, cardIDs(s.Columns[0]))
}

func TestMoveTask_ByTaskIDIgnoresStalePosition(t *testing.T) {
	s := sampleState()

	// another move shifts T2 to index 0 after the caller read the board
	_, err := Apply(s, MoveTask{FromColumn: "c-todo", FromIndex: 0, ToColumn: "c-done", ToIndex: 0})
	require.NoError(t, err)

	res, err := Apply(s, MoveTask{TaskID: "T2", FromColumn: "c-todo", FromIndex: 1, ToColumn: "c-prog", ToIndex: 0})
	require.NoError(t, err)

	require.Len(t, res.Changes, 1)
	assert.Equal(t, "T2", res.Changes[0].TaskID)
	assert.Equal(t, []string{"T3"}, cardIDs(s.Columns[0]))
	assert.Equal(t, []string{"T2", "T4"}, cardIDs(s.Columns[1]))

	applied := res.Applied.(MoveTask)
	assert.Equal(t, "c-todo", applied.FromColumn)
	assert.Equal(t, 0, applied.FromIndex)
}

func TestMoveTask_ByTaskIDUnknown(t *testing.T) {
	s := sampleState()
	before := s.Clone()

	_, err := Apply(s, MoveTask{TaskID: "T9", ToColumn: "c-done"})
	assert.ErrorIs(t, err, ErrTaskNotOnBoard)
	assert.ErrorIs(t, err, models.ErrNotFound)
	assert.Equal(t, before, s)
}

func TestMoveTask_NoopLeavesStateIdentical(t *testing.T) {
	s := sampleState()
	before := s.Clone()

	res, err := Apply(s, MoveTask{FromColumn: "c-todo", FromIndex: 1, ToColumn: "c-todo", ToIndex: 1})
	require.NoError(t, err)

	assert.True(t, res.Noop)
	assert.Nil(t, res.Inverse)
	assert.Empty(t, res.Changes)
	assert.Equal(t, before, s)
}

func TestMoveTask_CrossColumnEmitsOneStatusChange(t *testing.T) {
	s := sampleState()

	res, err := Apply(s, MoveTask{FromColumn: "c-todo", FromIndex: 0, ToColumn: "c-done", ToIndex: 0})
	require.NoError(t, err)

	require.Len(t, res.Changes, 1)
	assert.Equal(t, StatusChange{
		TaskID:       "T1",
		FromColumnID: "c-todo",
		ToColumnID:   "c-done",
		From:         "todo",
		To:           "done",
	}, res.Changes[0])

	col, idx, ok := s.Locate("T1")
	require.True(t, ok)
	assert.Equal(t, "c-done", col)
	assert.Equal(t, 0, idx)
}

func TestMoveTask_AppendToEnd(t *testing.T) {
	s := sampleState()

	_, err := Apply(s, MoveTask{FromColumn: "c-todo", FromIndex: 2, ToColumn: "c-prog", ToIndex: 1})
	require.NoError(t, err)
	assert.Equal(t, []string{"T4", "T3"}, cardIDs(s.Columns[1]))
}

func TestMoveTask_InverseRestoresState(t *testing.T) {
	moves := []MoveTask{
		{FromColumn: "c-todo", FromIndex: 0, ToColumn: "c-todo", ToIndex: 2},
		{FromColumn: "c-todo", FromIndex: 1, ToColumn: "c-prog", ToIndex: 1},
		{FromColumn: "c-prog", FromIndex: 0, ToColumn: "c-done", ToIndex: 0},
	}

	for _, m := range moves {
		s := sampleState()
		before := s.Clone()

		res, err := Apply(s, m)
		require.NoError(t, err)
		_, err = Apply(s, res.Inverse)
		require.NoError(t, err)

		assert.Equal(t, before, s, "inverse of %+v", m)
	}
}

func TestMoveTask_RejectsOutOfRange(t *testing.T) {
	tests := []struct {
		name string
		move MoveTask
	}{
		{"negative source", MoveTask{FromColumn: "c-todo", FromIndex: -1, ToColumn: "c-prog", ToIndex: 0}},
		{"source past end", MoveTask{FromColumn: "c-todo", FromIndex: 3, ToColumn: "c-prog", ToIndex: 0}},
		{"same column past end", MoveTask{FromColumn: "c-todo", FromIndex: 0, ToColumn: "c-todo", ToIndex: 4}},
		{"destination past end", MoveTask{FromColumn: "c-todo", FromIndex: 0, ToColumn: "c-prog", ToIndex: 2}},
		{"empty source column", MoveTask{FromColumn: "c-done", FromIndex: 0, ToColumn: "c-todo", ToIndex: 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := sampleState()
			before := s.Clone()

			_, err := Apply(s, tt.move)
			assert.ErrorIs(t, err, ErrIndexOutOfRange)
			assert.ErrorIs(t, err, models.ErrInvalid)
			assert.Equal(t, before, s, "rejected intent must not mutate state")
		})
	}
}

func TestMoveTask_UnknownColumn(t *testing.T) {
	s := sampleState()
	_, err := Apply(s, MoveTask{FromColumn: "nope", ToColumn: "c-todo"})
	assert.ErrorIs(t, err, models.ErrNotFound)

	_, err = Apply(s, MoveTask{FromColumn: "c-todo", ToColumn: "nope"})
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestMoveColumn(t *testing.T) {
	s := sampleState()

	res, err := Apply(s, MoveColumn{From: 0, To: 2})
	require.NoError(t, err)
	assert.Equal(t, []string{"c-prog", "c-done", "c-todo"}, columnIDs(s))

	_, err = Apply(s, res.Inverse)
	require.NoError(t, err)
	assert.Equal(t, []string{"c-todo", "c-prog", "c-done"}, columnIDs(s))

	res, err = Apply(s, MoveColumn{From: 1, To: 1})
	require.NoError(t, err)
	assert.True(t, res.Noop)

	_, err = Apply(s, MoveColumn{From: 0, To: 3})
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
}

func TestRenameColumn(t *testing.T) {
	s := sampleState()

	res, err := Apply(s, RenameColumn{ColumnID: "c-prog", Name: "  doing  "})
	require.NoError(t, err)
	assert.Equal(t, "doing", s.Columns[1].Name)
	assert.Equal(t, []string{"T4"}, cardIDs(s.Columns[1]), "rename keeps the cards attached")
	assert.Equal(t, RenameColumn{ColumnID: "c-prog", Name: "in_progress"}, res.Inverse)

	res, err = Apply(s, RenameColumn{ColumnID: "c-prog", Name: "doing"})
	require.NoError(t, err)
	assert.True(t, res.Noop)
}

func TestRenameColumn_Validation(t *testing.T) {
	long := make([]byte, models.MaxNameLength+1)
	for i := range long {
		long[i] = 'x'
	}

	tests := []struct {
		name    string
		newName string
		wantErr error
	}{
		{"empty", "   ", ErrEmptyColumnName},
		{"too long", string(long), ErrColumnNameTooLong},
		{"duplicate ignoring case", "DONE", ErrDuplicateColumnName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := sampleState()
			_, err := Apply(s, RenameColumn{ColumnID: "c-todo", Name: tt.newName})
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, "todo", s.Columns[0].Name)
		})
	}

	s := sampleState()
	_, err := Apply(s, RenameColumn{ColumnID: "c-todo", Name: string(long[:models.MaxNameLength])})
	assert.NoError(t, err, "exactly the maximum length is accepted")
}

func TestDeleteColumn_LastColumnFails(t *testing.T) {
	s := &State{Columns: []*Column{{ID: "only", Name: "todo", Tasks: []Card{}}}}

	_, err := Apply(s, DeleteColumn{ColumnID: "only"})
	assert.ErrorIs(t, err, ErrLastColumn)
	assert.Len(t, s.Columns, 1)
}

func TestDeleteColumn_NonEmptyNeedsTarget(t *testing.T) {
	s := sampleState()

	_, err := Apply(s, DeleteColumn{ColumnID: "c-todo"})
	assert.ErrorIs(t, err, ErrColumnNotEmpty)

	_, err = Apply(s, DeleteColumn{ColumnID: "c-todo", TargetColumnID: "c-todo"})
	assert.ErrorIs(t, err, ErrInvalidTargetColumn)

	_, err = Apply(s, DeleteColumn{ColumnID: "c-todo", TargetColumnID: "missing"})
	assert.ErrorIs(t, err, models.ErrNotFound)

	assert.Len(t, s.Columns, 3)
}

func TestDeleteColumn_EmptyColumn(t *testing.T) {
	s := sampleState()

	res, err := Apply(s, DeleteColumn{ColumnID: "c-done"})
	require.NoError(t, err)
	assert.Equal(t, []string{"c-todo", "c-prog"}, columnIDs(s))
	assert.Empty(t, res.Changes)
}

func TestDeleteColumn_MovesTasksToTarget(t *testing.T) {
	s := sampleState()
	before := s.Clone()

	res, err := Apply(s, DeleteColumn{ColumnID: "c-todo", TargetColumnID: "c-prog"})
	require.NoError(t, err)

	assert.Equal(t, []string{"c-prog", "c-done"}, columnIDs(s))
	assert.Equal(t, []string{"T4", "T1", "T2", "T3"}, cardIDs(s.Columns[0]))
	require.Len(t, res.Changes, 3)
	for i, id := range []string{"T1", "T2", "T3"} {
		assert.Equal(t, id, res.Changes[i].TaskID)
		assert.Equal(t, "todo", res.Changes[i].From)
		assert.Equal(t, "in_progress", res.Changes[i].To)
	}

	_, err = Apply(s, res.Inverse)
	require.NoError(t, err)
	assert.Equal(t, before, s)
}

func TestAddColumn_GeneratesUniqueNames(t *testing.T) {
	s := sampleState()

	first, err := Apply(s, AddColumn{})
	require.NoError(t, err)
	second, err := Apply(s, AddColumn{})
	require.NoError(t, err)

	added := first.Applied.(AddColumn)
	assert.NotEmpty(t, added.ID)
	assert.Equal(t, DefaultColumnPrefix, added.Name)
	assert.Equal(t, DefaultColumnPrefix+" 2", second.Applied.(AddColumn).Name)
	assert.Len(t, s.Columns, 5)

	_, err = Apply(s, second.Inverse)
	require.NoError(t, err)
	_, err = Apply(s, first.Inverse)
	require.NoError(t, err)
	assert.Equal(t, []string{"c-todo", "c-prog", "c-done"}, columnIDs(s))
}

func TestAddColumn_CustomPrefix(t *testing.T) {
	s := sampleState()

	res, err := Apply(s, AddColumn{ID: "c-new", Prefix: "Todo", Stage: models.StageTodo})
	require.NoError(t, err)
	assert.Equal(t, "Todo 2", res.Applied.(AddColumn).Name, "names collide case-insensitively")

	_, err = Apply(s, AddColumn{ID: "c-new"})
	assert.ErrorIs(t, err, models.ErrDuplicate)

	_, err = Apply(s, AddColumn{Stage: "archived"})
	assert.ErrorIs(t, err, models.ErrInvalid)
}

func TestApply_NilIntent(t *testing.T) {
	_, err := Apply(sampleState(), nil)
	assert.ErrorIs(t, err, ErrUnknownIntent)
	assert.Equal(t, "unknown", KindOf(nil))
}

func TestState_CloneIsDeep(t *testing.T) {
	s := sampleState()
	c := s.Clone()
	c.Columns[0].Tasks[0].ID = "changed"
	c.Columns[0].Name = "changed"

	assert.Equal(t, "T1", s.Columns[0].Tasks[0].ID)
	assert.Equal(t, "todo", s.Columns[0].Name)
}

func TestState_ColumnByStage(t *testing.T) {
	s := sampleState()

	col, ok := s.ColumnByStage(models.StageInProgress)
	require.True(t, ok)
	assert.Equal(t, "c-prog", col.ID)

	_, ok = s.ColumnByStage(models.StageReview)
	assert.False(t, ok)
}
