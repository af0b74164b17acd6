package task

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teamsync/teamsync/internal/database"
	"github.com/teamsync/teamsync/internal/events"
	"github.com/teamsync/teamsync/internal/models"
	"github.com/teamsync/teamsync/internal/testutil"
)

// ============================================================================
// TEST HELPERS
// ============================================================================

type fixture struct {
	repo    *database.Repository
	svc     Service
	rec     *events.Recorder
	user    *models.User
	other   *models.User
	project *models.Project
	board   *models.Board
	cols    []*models.Column
}

func setup(t *testing.T) *fixture {
	t.Helper()
	_, repo := testutil.SetupTestDB(t)
	rec := &events.Recorder{}
	f := &fixture{repo: repo, rec: rec, svc: NewService(repo, rec)}
	f.user = testutil.CreateTestUser(t, repo, "reporter@example.com")
	f.other = testutil.CreateTestUser(t, repo, "other@example.com")
	f.project = testutil.CreateTestProject(t, repo, f.user)
	f.board, f.cols = testutil.CreateTestBoard(t, repo, f.project)
	return f
}

func (f *fixture) create(t *testing.T, title string) *models.Task {
	t.Helper()
	task, err := f.svc.CreateTask(context.Background(), CreateTaskRequest{
		BoardID:    f.board.ID,
		Title:      title,
		ReporterID: f.user.ID,
	})
	require.NoError(t, err)
	return task
}

func (f *fixture) reload(t *testing.T, id string) *models.Task {
	t.Helper()
	task, err := f.repo.GetTask(context.Background(), id)
	require.NoError(t, err)
	return task
}

func findHistory(entries []*models.HistoryEntry, action string) []*models.HistoryEntry {
	var found []*models.HistoryEntry
	for _, e := range entries {
		if e.Action == action {
			found = append(found, e)
		}
	}
	return found
}

// ============================================================================
// CREATE
// ============================================================================

func TestCreateTask_Defaults(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	task := f.create(t, "  Write docs  ")

	assert.Equal(t, "Write docs", task.Title)
	assert.Equal(t, f.cols[0].ID, task.ColumnID, "should start in the todo column")
	assert.Equal(t, "todo", task.Status)
	assert.Equal(t, models.PriorityMedium, task.Priority)
	assert.Equal(t, models.DefaultTaskType, task.Type)
	assert.Equal(t, 0, task.Order)
	require.NotNil(t, task.AssigneeID)
	assert.Equal(t, f.user.ID, *task.AssigneeID, "assignee should default to the reporter")

	observers, err := f.svc.ListObservers(ctx, task.ID)
	require.NoError(t, err)
	require.Len(t, observers, 1)
	assert.Equal(t, f.user.ID, observers[0].UserID)

	history, err := f.svc.ListHistory(ctx, task.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, models.ActionCreated, history[0].Action)

	evs := f.rec.Events()
	require.Len(t, evs, 1)
	assert.Equal(t, events.EventTaskChanged, evs[0].Type)
	assert.Equal(t, task.ID, evs[0].TaskID)
	assert.Equal(t, f.board.ID, evs[0].BoardID)
}

func TestCreateTask_AppendsToColumn(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	first := f.create(t, "first")
	second, err := f.svc.CreateTask(ctx, CreateTaskRequest{
		BoardID:    f.board.ID,
		ColumnID:   f.cols[0].ID,
		Title:      "second",
		ReporterID: f.user.ID,
		AssigneeID: &f.other.ID,
		Priority:   "HIGH",
		Tags:       []string{" ui ", "ui", ""},
	})
	require.NoError(t, err)

	assert.Equal(t, 0, first.Order)
	assert.Equal(t, 1, second.Order)
	assert.Equal(t, models.PriorityHigh, second.Priority)
	assert.Equal(t, []string{"ui"}, second.Tags)

	observers, err := f.svc.ListObservers(ctx, second.ID)
	require.NoError(t, err)
	assert.Len(t, observers, 2, "reporter and assignee should both observe")
}

func TestCreateTask_Validation(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	tests := []struct {
		name string
		req  CreateTaskRequest
		want error
	}{
		{"empty title", CreateTaskRequest{BoardID: f.board.ID, ReporterID: f.user.ID, Title: "   "}, ErrEmptyTitle},
		{"long title", CreateTaskRequest{BoardID: f.board.ID, ReporterID: f.user.ID, Title: strings.Repeat("a", 256)}, ErrTitleTooLong},
		{"no board", CreateTaskRequest{ReporterID: f.user.ID, Title: "x"}, ErrInvalidBoardID},
		{"bad priority", CreateTaskRequest{BoardID: f.board.ID, ReporterID: f.user.ID, Title: "x", Priority: "urgent"}, ErrInvalidPriority},
		{"foreign column", CreateTaskRequest{BoardID: f.board.ID, ReporterID: f.user.ID, Title: "x", ColumnID: "nope"}, ErrInvalidColumnID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.CreateTask(ctx, tt.req)
			assert.ErrorIs(t, err, tt.want)
			assert.ErrorIs(t, err, models.ErrInvalid)
		})
	}

	_, err := f.svc.CreateTask(ctx, CreateTaskRequest{BoardID: "missing", ReporterID: f.user.ID, Title: "x"})
	assert.ErrorIs(t, err, models.ErrNotFound)
}

// ============================================================================
// UPDATE FIELD
// ============================================================================

func TestUpdateField_StatusRecordsHistory(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	t1 := f.create(t, "T1")
	t2 := f.create(t, "T2")

	updated, err := f.svc.UpdateField(ctx, UpdateFieldRequest{
		TaskID: t1.ID,
		UserID: f.other.ID,
		Field:  "status",
		Value:  "REVIEW",
	})
	require.NoError(t, err)

	assert.Equal(t, f.cols[2].ID, updated.ColumnID)
	assert.Equal(t, "review", updated.Status)
	assert.Equal(t, 0, updated.Order, "should be appended to the empty destination")
	assert.Equal(t, t1.Version+1, updated.Version)

	assert.Equal(t, 0, f.reload(t, t2.ID).Order, "source column should be compacted")

	history, err := f.svc.ListHistory(ctx, t1.ID)
	require.NoError(t, err)
	changes := findHistory(history, models.ActionUpdated)
	require.Len(t, changes, 1)
	assert.Equal(t, "status", changes[0].FieldName)
	assert.Equal(t, "todo", changes[0].OldValue)
	assert.Equal(t, "review", changes[0].NewValue)
	assert.Equal(t, f.other.ID, changes[0].UserID)
}

func TestUpdateField_StatusByColumnID(t *testing.T) {
	f := setup(t)
	task := f.create(t, "T1")

	updated, err := f.svc.UpdateField(context.Background(), UpdateFieldRequest{
		TaskID: task.ID, UserID: f.user.ID, Field: "status", Value: f.cols[3].ID,
	})
	require.NoError(t, err)
	assert.Equal(t, "done", updated.Status)
}

func TestUpdateField_UnchangedIsNoop(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	task := f.create(t, "T1")
	f.rec.Reset()

	updated, err := f.svc.UpdateField(ctx, UpdateFieldRequest{
		TaskID: task.ID, UserID: f.user.ID, Field: "priority", Value: "medium",
	})
	require.NoError(t, err)
	assert.Equal(t, task.Version, updated.Version)

	history, err := f.svc.ListHistory(ctx, task.ID)
	require.NoError(t, err)
	assert.Len(t, history, 1)
	assert.Empty(t, f.rec.Events())
}

func TestUpdateField_VersionConflict(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	task := f.create(t, "original")

	_, err := f.svc.UpdateField(ctx, UpdateFieldRequest{
		TaskID: task.ID, UserID: f.user.ID, Field: "title", Value: "first", ExpectedVersion: task.Version,
	})
	require.NoError(t, err)

	_, err = f.svc.UpdateField(ctx, UpdateFieldRequest{
		TaskID: task.ID, UserID: f.other.ID, Field: "title", Value: "second", ExpectedVersion: task.Version,
	})
	assert.ErrorIs(t, err, models.ErrConflict)
	assert.Equal(t, "first", f.reload(t, task.ID).Title)
}

func TestUpdateField_Fields(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	task := f.create(t, "T1")

	update := func(field, value string) (*models.Task, error) {
		return f.svc.UpdateField(ctx, UpdateFieldRequest{TaskID: task.ID, UserID: f.user.ID, Field: field, Value: value})
	}

	got, err := update("priority", "Critical")
	require.NoError(t, err)
	assert.Equal(t, models.PriorityCritical, got.Priority)

	got, err = update("dueDate", "2026-03-01")
	require.NoError(t, err)
	require.NotNil(t, got.DueDate)
	assert.Equal(t, "2026-03-01", got.DueDate.UTC().Format(dateOnly))

	got, err = update("due_date", "")
	require.NoError(t, err)
	assert.Nil(t, got.DueDate)

	got, err = update("assignee", f.other.ID)
	require.NoError(t, err)
	require.NotNil(t, got.AssigneeID)
	assert.Equal(t, f.other.ID, *got.AssigneeID)

	got, err = update("assignee", "")
	require.NoError(t, err)
	assert.Nil(t, got.AssigneeID)

	got, err = update("tags", "backend, api,,backend")
	require.NoError(t, err)
	assert.Equal(t, []string{"backend", "api"}, got.Tags)

	got, err = update("description", "Details here")
	require.NoError(t, err)
	assert.Equal(t, "Details here", got.Description)

	got, err = update("type", "bug")
	require.NoError(t, err)
	assert.Equal(t, "bug", got.Type)

	_, err = update("priority", "trivial")
	assert.ErrorIs(t, err, ErrInvalidPriority)
	_, err = update("assignee", "ghost")
	assert.ErrorIs(t, err, ErrUnknownAssignee)
	_, err = update("dueDate", "next week")
	assert.ErrorIs(t, err, ErrInvalidDueDate)
	_, err = update("status", "nowhere")
	assert.ErrorIs(t, err, ErrInvalidStatus)
	_, err = update("budget", "100")
	assert.ErrorIs(t, err, ErrUnknownField)
}

func TestUpdateFieldOptimistic(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	task := f.create(t, "original")

	t.Run("applies and catches up with the stored version", func(t *testing.T) {
		local := f.reload(t, task.ID)
		err := f.svc.UpdateFieldOptimistic(ctx, local, UpdateFieldRequest{
			UserID: f.user.ID, Field: "priority", Value: "high",
		})
		require.NoError(t, err)
		assert.Equal(t, models.PriorityHigh, local.Priority)
		assert.Equal(t, f.reload(t, task.ID).Version, local.Version)
	})

	t.Run("reverts the local copy on conflict", func(t *testing.T) {
		local := f.reload(t, task.ID)
		before := local.Clone()

		_, err := f.svc.UpdateField(ctx, UpdateFieldRequest{
			TaskID: task.ID, UserID: f.other.ID, Field: "title", Value: "theirs",
		})
		require.NoError(t, err)

		err = f.svc.UpdateFieldOptimistic(ctx, local, UpdateFieldRequest{
			UserID: f.user.ID, Field: "status", Value: "done",
		})
		assert.ErrorIs(t, err, models.ErrConflict)
		assert.Equal(t, before.ColumnID, local.ColumnID)
		assert.Equal(t, before.Status, local.Status)
		assert.Equal(t, before.Version, local.Version)
		assert.Equal(t, f.cols[0].ID, f.reload(t, task.ID).ColumnID)
	})

	t.Run("rejects invalid values without touching the copy", func(t *testing.T) {
		local := f.reload(t, task.ID)
		err := f.svc.UpdateFieldOptimistic(ctx, local, UpdateFieldRequest{Field: "title", Value: ""})
		assert.ErrorIs(t, err, ErrEmptyTitle)
		assert.Equal(t, "theirs", local.Title)
	})
}

// ============================================================================
// ACCEPT
// ============================================================================

func TestAcceptTask(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	now := time.Date(2026, 5, 4, 9, 30, 0, 0, time.UTC)
	f.svc.(*service).now = func() time.Time { return now }

	task := f.create(t, "T1")
	assert.False(t, task.IsAccepted)

	accepted, err := f.svc.AcceptTask(ctx, task.ID, f.other.ID)
	require.NoError(t, err)
	assert.True(t, accepted.IsAccepted)
	assert.Equal(t, f.cols[1].ID, accepted.ColumnID)
	assert.Equal(t, "in_progress", accepted.Status)
	require.NotNil(t, accepted.StartTime)
	assert.True(t, now.Equal(*accepted.StartTime))
	assert.Equal(t, 2*time.Hour, accepted.TimeSpent(now.Add(2*time.Hour)))

	again, err := f.svc.AcceptTask(ctx, task.ID, f.other.ID)
	require.NoError(t, err)
	assert.Equal(t, accepted.Version, again.Version, "second accept should change nothing")

	history, err := f.svc.ListHistory(ctx, task.ID)
	require.NoError(t, err)
	entries := findHistory(history, models.ActionAccepted)
	require.Len(t, entries, 1)
	assert.Equal(t, "todo", entries[0].OldValue)
	assert.Equal(t, "in_progress", entries[0].NewValue)
}

func TestAcceptTask_AlreadyInProgress(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	task, err := f.svc.CreateTask(ctx, CreateTaskRequest{
		BoardID:    f.board.ID,
		ColumnID:   f.cols[1].ID,
		Title:      "T1",
		ReporterID: f.user.ID,
	})
	require.NoError(t, err)

	accepted, err := f.svc.AcceptTask(ctx, task.ID, f.other.ID)
	require.NoError(t, err)
	assert.True(t, accepted.IsAccepted)
	assert.Equal(t, f.cols[1].ID, accepted.ColumnID)

	history, err := f.svc.ListHistory(ctx, task.ID)
	require.NoError(t, err)
	entries := findHistory(history, models.ActionAccepted)
	require.Len(t, entries, 1)
	assert.Empty(t, entries[0].FieldName, "status did not change")
	assert.Empty(t, entries[0].OldValue)
	assert.Empty(t, entries[0].NewValue)
}

func TestAcceptTask_NoInProgressColumn(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	b := &models.Board{ProjectID: f.project.ID, Name: "Simple"}
	require.NoError(t, f.repo.CreateBoard(ctx, b, []*models.Column{
		{Name: "open", Stage: models.StageTodo},
		{Name: "closed", Stage: models.StageDone},
	}))
	task, err := f.svc.CreateTask(ctx, CreateTaskRequest{BoardID: b.ID, Title: "x", ReporterID: f.user.ID})
	require.NoError(t, err)

	_, err = f.svc.AcceptTask(ctx, task.ID, f.user.ID)
	assert.ErrorIs(t, err, ErrNoInProgressColumn)
	assert.False(t, f.reload(t, task.ID).IsAccepted)
}

func TestDeleteTask(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	t1 := f.create(t, "T1")
	t2 := f.create(t, "T2")

	require.NoError(t, f.svc.DeleteTask(ctx, t1.ID))

	_, err := f.svc.GetTask(ctx, t1.ID)
	assert.ErrorIs(t, err, models.ErrNotFound)
	assert.Equal(t, 0, f.reload(t, t2.ID).Order)

	assert.ErrorIs(t, f.svc.DeleteTask(ctx, t1.ID), models.ErrNotFound)
}

// ============================================================================
// SUBTASKS
// ============================================================================

func TestSubtasks_Progress(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	task := f.create(t, "T1")

	detail, err := f.svc.GetTask(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, detail.Progress)

	a, err := f.svc.AddSubtask(ctx, task.ID, f.user.ID, "step one")
	require.NoError(t, err)
	b, err := f.svc.AddSubtask(ctx, task.ID, f.user.ID, "step two")
	require.NoError(t, err)
	assert.Equal(t, 1, b.Order)

	_, err = f.svc.ToggleSubtask(ctx, task.ID, a.ID, f.user.ID)
	require.NoError(t, err)
	detail, err = f.svc.GetTask(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, 50, detail.Progress)

	toggled, err := f.svc.ToggleSubtask(ctx, task.ID, b.ID, f.user.ID)
	require.NoError(t, err)
	assert.True(t, toggled.Completed)

	detail, err = f.svc.GetTask(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, 100, detail.Progress)
	assert.Equal(t, "todo", detail.Status, "completing the checklist should not move the task")

	require.NoError(t, f.svc.DeleteSubtask(ctx, task.ID, a.ID, f.user.ID))
	subtasks, err := f.svc.ListSubtasks(ctx, task.ID)
	require.NoError(t, err)
	assert.Len(t, subtasks, 1)
}

func TestSubtasks_Validation(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	task := f.create(t, "T1")
	other := f.create(t, "T2")

	_, err := f.svc.AddSubtask(ctx, task.ID, f.user.ID, " ")
	assert.ErrorIs(t, err, ErrEmptySubtaskTitle)

	st, err := f.svc.AddSubtask(ctx, other.ID, f.user.ID, "elsewhere")
	require.NoError(t, err)
	_, err = f.svc.ToggleSubtask(ctx, task.ID, st.ID, f.user.ID)
	assert.ErrorIs(t, err, ErrSubtaskNotFound)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

// ============================================================================
// COMMENTS
// ============================================================================

func TestComments(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	task := f.create(t, "T1")

	_, err := f.svc.AddComment(ctx, AddCommentRequest{TaskID: task.ID, AuthorID: f.user.ID, Content: "  "})
	assert.ErrorIs(t, err, ErrEmptyComment)

	_, err = f.svc.AddComment(ctx, AddCommentRequest{
		TaskID: task.ID, AuthorID: f.user.ID, Content: strings.Repeat("x", models.MaxCommentLength+1),
	})
	assert.ErrorIs(t, err, ErrCommentTooLong)

	long, err := f.svc.AddComment(ctx, AddCommentRequest{
		TaskID: task.ID, AuthorID: f.user.ID, Content: strings.Repeat("x", models.MaxCommentLength),
	})
	require.NoError(t, err)

	withFile, err := f.svc.AddComment(ctx, AddCommentRequest{
		TaskID:      task.ID,
		AuthorID:    f.other.ID,
		Attachments: []models.FileMeta{{Name: "shot.png", Size: 42, Type: "image/png"}},
	})
	require.NoError(t, err, "attachments make an empty comment valid")

	comments, err := f.svc.ListComments(ctx, task.ID)
	require.NoError(t, err)
	require.Len(t, comments, 2)

	require.NoError(t, f.svc.DeleteComment(ctx, task.ID, long.ID, f.user.ID))
	comments, err = f.svc.ListComments(ctx, task.ID)
	require.NoError(t, err)
	require.Len(t, comments, 1)
	assert.Equal(t, withFile.ID, comments[0].ID)
	require.Len(t, comments[0].Attachments, 1)
	assert.Equal(t, "shot.png", comments[0].Attachments[0].Name)

	assert.ErrorIs(t, f.svc.DeleteComment(ctx, task.ID, long.ID, f.user.ID), ErrCommentNotFound)
}

// ============================================================================
// OBSERVERS
// ============================================================================

func TestObservers(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	task := f.create(t, "T1")

	require.NoError(t, f.svc.AddObserver(ctx, task.ID, f.user.ID, f.other.ID))
	require.NoError(t, f.svc.AddObserver(ctx, task.ID, f.user.ID, f.other.ID), "duplicate add is a no-op")

	observers, err := f.svc.ListObservers(ctx, task.ID)
	require.NoError(t, err)
	assert.Len(t, observers, 2)

	history, err := f.svc.ListHistory(ctx, task.ID)
	require.NoError(t, err)
	assert.Len(t, findHistory(history, models.ActionObserverAdded), 1)

	err = f.svc.RemoveObserver(ctx, task.ID, f.other.ID, f.user.ID)
	assert.ErrorIs(t, err, ErrCannotRemoveReporter)
	assert.ErrorIs(t, err, models.ErrForbidden)

	require.NoError(t, f.svc.RemoveObserver(ctx, task.ID, f.user.ID, f.other.ID))
	require.NoError(t, f.svc.LeaveTask(ctx, task.ID, f.user.ID), "the reporter may leave")

	observers, err = f.svc.ListObservers(ctx, task.ID)
	require.NoError(t, err)
	assert.Empty(t, observers)

	assert.ErrorIs(t, f.svc.LeaveTask(ctx, task.ID, f.user.ID), ErrNotObserving)
	assert.ErrorIs(t, f.svc.AddObserver(ctx, task.ID, f.user.ID, "ghost"), models.ErrNotFound)
}

// ============================================================================
// LABELS
// ============================================================================

func TestLabels(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	task := f.create(t, "T1")

	got, err := f.svc.AddLabel(ctx, task.ID, f.user.ID, "  bug ")
	require.NoError(t, err)
	assert.Equal(t, []string{"bug"}, got.Tags)

	_, err = f.svc.AddLabel(ctx, task.ID, f.user.ID, "bug")
	assert.ErrorIs(t, err, ErrLabelExists)
	assert.ErrorIs(t, err, models.ErrDuplicate)
	assert.Equal(t, []string{"bug"}, f.reload(t, task.ID).Tags, "label should not be duplicated")

	_, err = f.svc.AddLabel(ctx, task.ID, f.user.ID, strings.Repeat("l", models.MaxNameLength+1))
	assert.ErrorIs(t, err, ErrLabelTooLong)
	_, err = f.svc.AddLabel(ctx, task.ID, f.user.ID, "")
	assert.ErrorIs(t, err, ErrEmptyLabel)

	_, err = f.svc.AddLabel(ctx, task.ID, f.user.ID, "ui")
	require.NoError(t, err)

	got, err = f.svc.RemoveLabel(ctx, task.ID, f.user.ID, "bug")
	require.NoError(t, err)
	assert.Equal(t, []string{"ui"}, got.Tags)

	unchanged, err := f.svc.RemoveLabel(ctx, task.ID, f.user.ID, "missing")
	require.NoError(t, err)
	assert.Equal(t, got.Version, unchanged.Version)

	history, err := f.svc.ListHistory(ctx, task.ID)
	require.NoError(t, err)
	assert.Len(t, findHistory(history, models.ActionLabelAdded), 2)
	assert.Len(t, findHistory(history, models.ActionLabelRemoved), 1)
}

// ============================================================================
// ATTACHMENTS
// ============================================================================

func TestAttachments(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	task := f.create(t, "T1")

	a, err := f.svc.AddAttachment(ctx, AddAttachmentRequest{
		TaskID:     task.ID,
		UploaderID: f.user.ID,
		Name:       "notes.txt",
		MimeType:   "text/plain",
		Data:       []byte("hello"),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(5), a.Size)
	assert.Equal(t, "data:text/plain;base64,aGVsbG8=", a.DataURL)

	list, err := f.svc.ListAttachments(ctx, task.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Empty(t, list[0].DataURL, "listing should not carry file data")

	got, err := f.svc.GetAttachment(ctx, task.ID, a.ID)
	require.NoError(t, err)
	assert.Equal(t, a.DataURL, got.DataURL)

	_, err = f.svc.AddAttachment(ctx, AddAttachmentRequest{TaskID: task.ID, UploaderID: f.user.ID, Name: "empty"})
	assert.ErrorIs(t, err, ErrEmptyAttachment)

	_, err = f.svc.AddAttachment(ctx, AddAttachmentRequest{
		TaskID: task.ID, UploaderID: f.user.ID, Name: "big.bin", Data: make([]byte, models.MaxUploadBytes+1),
	})
	assert.ErrorIs(t, err, ErrAttachmentTooLarge)

	require.NoError(t, f.svc.DeleteAttachment(ctx, task.ID, a.ID, f.user.ID))
	_, err = f.svc.GetAttachment(ctx, task.ID, a.ID)
	assert.ErrorIs(t, err, ErrAttachmentNotFound)
}

func TestAddAttachment_ConfiguredLimit(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	task := f.create(t, "T1")
	svc := NewService(f.repo, f.rec, WithMaxUploadBytes(4))

	_, err := svc.AddAttachment(ctx, AddAttachmentRequest{
		TaskID: task.ID, UploaderID: f.user.ID, Name: "notes.txt", MimeType: "text/plain", Data: []byte("hello"),
	})
	assert.ErrorIs(t, err, ErrAttachmentTooLarge)
	assert.ErrorIs(t, err, models.ErrInvalid)

	_, err = svc.AddAttachment(ctx, AddAttachmentRequest{
		TaskID: task.ID, UploaderID: f.user.ID, Name: "notes.txt", MimeType: "text/plain", Data: []byte("hell"),
	})
	require.NoError(t, err)
}
