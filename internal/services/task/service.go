// Package task implements the task lifecycle: creation, field edits with
// audit history, acceptance, checklists, comments, observers, labels and
// attachments.
package task

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/teamsync/teamsync/internal/database"
	"github.com/teamsync/teamsync/internal/events"
	"github.com/teamsync/teamsync/internal/models"
)

// Service defines all task-related business operations
type Service interface {
	// Reads
	GetTask(ctx context.Context, taskID string) (*models.TaskDetail, error)
	ListHistory(ctx context.Context, taskID string) ([]*models.HistoryEntry, error)

	// Lifecycle
	CreateTask(ctx context.Context, req CreateTaskRequest) (*models.Task, error)
	UpdateField(ctx context.Context, req UpdateFieldRequest) (*models.Task, error)
	UpdateFieldOptimistic(ctx context.Context, local *models.Task, req UpdateFieldRequest) error
	AcceptTask(ctx context.Context, taskID, userID string) (*models.Task, error)
	DeleteTask(ctx context.Context, taskID string) error

	// Subtasks
	AddSubtask(ctx context.Context, taskID, userID, title string) (*models.Subtask, error)
	ToggleSubtask(ctx context.Context, taskID, subtaskID, userID string) (*models.Subtask, error)
	DeleteSubtask(ctx context.Context, taskID, subtaskID, userID string) error
	ListSubtasks(ctx context.Context, taskID string) ([]*models.Subtask, error)

	// Comments
	AddComment(ctx context.Context, req AddCommentRequest) (*models.Comment, error)
	DeleteComment(ctx context.Context, taskID, commentID, userID string) error
	ListComments(ctx context.Context, taskID string) ([]*models.Comment, error)

	// Observers
	AddObserver(ctx context.Context, taskID, actorID, userID string) error
	RemoveObserver(ctx context.Context, taskID, actorID, userID string) error
	LeaveTask(ctx context.Context, taskID, userID string) error
	ListObservers(ctx context.Context, taskID string) ([]*models.TaskObserver, error)

	// Labels
	AddLabel(ctx context.Context, taskID, userID, label string) (*models.Task, error)
	RemoveLabel(ctx context.Context, taskID, userID, label string) (*models.Task, error)

	// Attachments
	AddAttachment(ctx context.Context, req AddAttachmentRequest) (*models.Attachment, error)
	GetAttachment(ctx context.Context, taskID, attachmentID string) (*models.Attachment, error)
	ListAttachments(ctx context.Context, taskID string) ([]*models.Attachment, error)
	DeleteAttachment(ctx context.Context, taskID, attachmentID, userID string) error
}

// CreateTaskRequest encapsulates data for creating a task
type CreateTaskRequest struct {
	BoardID     string
	ColumnID    string  // Optional: defaults to the board's todo column
	AssigneeID  *string // Optional: defaults to the reporter
	ReporterID  string
	Title       string
	Description string
	Priority    string
	Type        string
	DueDate     *time.Time
	Tags        []string
}

// UpdateFieldRequest changes a single task field. ExpectedVersion zero means
// "the version just read".
type UpdateFieldRequest struct {
	TaskID          string
	UserID          string
	Field           string
	Value           string
	ExpectedVersion int
}

// AddCommentRequest encapsulates data for commenting on a task
type AddCommentRequest struct {
	TaskID      string
	AuthorID    string
	Content     string
	Attachments []models.FileMeta
}

// AddAttachmentRequest carries an uploaded file
type AddAttachmentRequest struct {
	TaskID     string
	UploaderID string
	Name       string
	MimeType   string
	Data       []byte
}

// Option configures the task service
type Option func(*service)

// WithMaxUploadBytes caps attachment size; values <= 0 keep the default
func WithMaxUploadBytes(n int64) Option {
	return func(s *service) {
		if n > 0 {
			s.maxUpload = n
		}
	}
}

// service implements Service
type service struct {
	repo      database.DataStore
	events    events.Publisher
	now       func() time.Time
	maxUpload int64
}

// NewService creates a new task service
func NewService(repo database.DataStore, publisher events.Publisher, opts ...Option) Service {
	s := &service{
		repo:      repo,
		events:    publisher,
		now:       time.Now,
		maxUpload: models.MaxUploadBytes,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ============================================================================
// READS
// ============================================================================

// GetTask retrieves a task with its checklist, comments and observers
func (s *service) GetTask(ctx context.Context, taskID string) (*models.TaskDetail, error) {
	t, err := s.requireTask(ctx, taskID)
	if err != nil {
		return nil, err
	}

	subtasks, err := s.repo.ListSubtasks(ctx, taskID)
	if err != nil {
		return nil, err
	}
	comments, err := s.repo.ListComments(ctx, taskID)
	if err != nil {
		return nil, err
	}
	observers, err := s.repo.ListObservers(ctx, taskID)
	if err != nil {
		return nil, err
	}

	return &models.TaskDetail{
		Task:      t,
		Subtasks:  subtasks,
		Comments:  comments,
		Observers: observers,
		Progress:  models.Progress(subtasks),
	}, nil
}

// ListHistory returns the audit trail of a task
func (s *service) ListHistory(ctx context.Context, taskID string) ([]*models.HistoryEntry, error) {
	if _, err := s.requireTask(ctx, taskID); err != nil {
		return nil, err
	}
	return s.repo.ListHistory(ctx, taskID)
}

// ============================================================================
// LIFECYCLE
// ============================================================================

// CreateTask creates a task at the end of its column
func (s *service) CreateTask(ctx context.Context, req CreateTaskRequest) (*models.Task, error) {
	title := strings.TrimSpace(req.Title)
	if req.BoardID == "" {
		return nil, ErrInvalidBoardID
	}
	if req.ReporterID == "" {
		return nil, ErrInvalidUserID
	}
	if title == "" {
		return nil, ErrEmptyTitle
	}
	if utf8.RuneCountInString(title) > models.MaxTitleLength {
		return nil, ErrTitleTooLong
	}

	priority := models.PriorityMedium
	if req.Priority != "" {
		p, ok := models.ParsePriority(req.Priority)
		if !ok {
			return nil, ErrInvalidPriority
		}
		priority = p
	}

	taskType := strings.TrimSpace(req.Type)
	if taskType == "" {
		taskType = models.DefaultTaskType
	}
	if utf8.RuneCountInString(taskType) > models.MaxNameLength {
		return nil, ErrTypeTooLong
	}

	tags, err := normalizeTags(req.Tags)
	if err != nil {
		return nil, err
	}

	if _, err := s.repo.GetBoard(ctx, req.BoardID); err != nil {
		return nil, err
	}
	if _, err := s.repo.GetUser(ctx, req.ReporterID); err != nil {
		return nil, fmt.Errorf("failed to get reporter: %w", err)
	}

	cols, err := s.repo.ListColumns(ctx, req.BoardID)
	if err != nil {
		return nil, err
	}
	col, err := initialColumn(cols, req.ColumnID)
	if err != nil {
		return nil, err
	}

	assignee := req.ReporterID
	if req.AssigneeID != nil && *req.AssigneeID != "" {
		assignee = *req.AssigneeID
		if err := s.requireAssignee(ctx, assignee); err != nil {
			return nil, err
		}
	}

	t := &models.Task{
		BoardID:     req.BoardID,
		ColumnID:    col.ID,
		Title:       title,
		Description: req.Description,
		AssigneeID:  &assignee,
		ReporterID:  req.ReporterID,
		Priority:    priority,
		Type:        taskType,
		DueDate:     req.DueDate,
		Tags:        tags,
	}

	err = s.repo.InTx(ctx, func(tx database.DataStore) error {
		n, err := tx.CountTasksInColumn(ctx, col.ID)
		if err != nil {
			return err
		}
		t.Order = n
		if err := tx.CreateTask(ctx, t); err != nil {
			return err
		}
		for _, uid := range []string{req.ReporterID, assignee} {
			if _, err := tx.AddObserver(ctx, t.ID, uid); err != nil {
				return err
			}
		}
		return tx.AppendHistory(ctx, &models.HistoryEntry{
			TaskID:   t.ID,
			UserID:   req.ReporterID,
			Action:   models.ActionCreated,
			NewValue: t.Title,
		})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	s.publishTaskEvent(ctx, t)
	return t, nil
}

// UpdateField changes one field of a stored task with a version check
func (s *service) UpdateField(ctx context.Context, req UpdateFieldRequest) (*models.Task, error) {
	current, err := s.requireTask(ctx, req.TaskID)
	if err != nil {
		return nil, err
	}

	change, err := s.resolve(ctx, current, req.Field, req.Value)
	if err != nil {
		return nil, err
	}
	if change == nil {
		return current, nil
	}

	expected := req.ExpectedVersion
	if expected == 0 {
		expected = current.Version
	}
	return s.commit(ctx, current, change, req.UserID, expected)
}

// UpdateFieldOptimistic applies the change to local right away and writes it.
// When the write fails local is restored to what it was before the call.
func (s *service) UpdateFieldOptimistic(ctx context.Context, local *models.Task, req UpdateFieldRequest) error {
	if local == nil || local.ID == "" {
		return ErrInvalidTaskID
	}

	pre := local.Clone()
	change, err := s.resolve(ctx, local, req.Field, req.Value)
	if err != nil {
		return err
	}
	if change == nil {
		return nil
	}
	change.apply(local)

	expected := req.ExpectedVersion
	if expected == 0 {
		expected = pre.Version
	}
	updated, err := s.commit(ctx, pre, change, req.UserID, expected)
	if err != nil {
		*local = *pre
		return err
	}
	*local = *updated
	return nil
}

// AcceptTask marks a task accepted, moves it to the in-progress column and
// starts its clock. Accepting an accepted task changes nothing.
func (s *service) AcceptTask(ctx context.Context, taskID, userID string) (*models.Task, error) {
	t, err := s.requireTask(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if t.IsAccepted {
		return t, nil
	}

	cols, err := s.repo.ListColumns(ctx, t.BoardID)
	if err != nil {
		return nil, err
	}
	target := inProgressColumn(cols)
	if target == nil {
		return nil, ErrNoInProgressColumn
	}

	now := s.now().UTC()
	change := &fieldChange{
		action: models.ActionAccepted,
		fields: map[string]any{"is_accepted": true, "start_time": now},
		apply: func(t *models.Task) {
			t.IsAccepted = true
			t.StartTime = &now
		},
	}
	// the status only changes when the task is not already in progress
	if target.ID != t.ColumnID {
		change.column = target.ID
		change.field = "status"
		change.oldValue = columnName(cols, t.ColumnID, t.Status)
		change.newValue = target.Name
	}

	return s.commit(ctx, t, change, userID, t.Version)
}

// DeleteTask removes a task and everything it owns
func (s *service) DeleteTask(ctx context.Context, taskID string) error {
	t, err := s.requireTask(ctx, taskID)
	if err != nil {
		return err
	}

	err = s.repo.InTx(ctx, func(tx database.DataStore) error {
		if err := tx.DeleteTask(ctx, taskID); err != nil {
			return err
		}
		return compactColumn(ctx, tx, t.ColumnID)
	})
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	s.publishTaskEvent(ctx, t)
	return nil
}

// commit writes a resolved change and its history entry in one transaction
func (s *service) commit(ctx context.Context, current *models.Task, c *fieldChange, userID string, expected int) (*models.Task, error) {
	action := c.action
	if action == "" {
		action = models.ActionUpdated
	}

	var updated *models.Task
	err := s.repo.InTx(ctx, func(tx database.DataStore) error {
		fields := c.fields
		if c.column != "" {
			n, err := tx.CountTasksInColumn(ctx, c.column)
			if err != nil {
				return err
			}
			fields["column_id"] = c.column
			fields["position"] = n
		}

		var err error
		updated, err = tx.UpdateTask(ctx, current.ID, expected, fields)
		if err != nil {
			return err
		}
		if c.column != "" {
			if err := compactColumn(ctx, tx, current.ColumnID); err != nil {
				return err
			}
		}

		return tx.AppendHistory(ctx, &models.HistoryEntry{
			TaskID:    current.ID,
			UserID:    userID,
			Action:    action,
			FieldName: c.field,
			OldValue:  c.oldValue,
			NewValue:  c.newValue,
		})
	})
	if err != nil {
		label := c.field
		if label == "" {
			label = action
		}
		return nil, fmt.Errorf("failed to update task %s: %w", label, err)
	}

	s.publishTaskEvent(ctx, updated)
	return updated, nil
}

// ============================================================================
// SUBTASKS
// ============================================================================

// AddSubtask appends an item to the task's checklist
func (s *service) AddSubtask(ctx context.Context, taskID, userID, title string) (*models.Subtask, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, ErrEmptySubtaskTitle
	}
	if utf8.RuneCountInString(title) > models.MaxTitleLength {
		return nil, ErrSubtaskTitleTooLong
	}
	t, err := s.requireTask(ctx, taskID)
	if err != nil {
		return nil, err
	}

	st := &models.Subtask{TaskID: taskID, Title: title}
	err = s.repo.InTx(ctx, func(tx database.DataStore) error {
		if err := tx.CreateSubtask(ctx, st); err != nil {
			return err
		}
		return tx.AppendHistory(ctx, &models.HistoryEntry{
			TaskID:   taskID,
			UserID:   userID,
			Action:   models.ActionSubtaskAdded,
			NewValue: title,
		})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to add subtask: %w", err)
	}

	s.publishTaskEvent(ctx, t)
	return st, nil
}

// ToggleSubtask flips the completion of a checklist item. The task's status
// is left alone.
func (s *service) ToggleSubtask(ctx context.Context, taskID, subtaskID, userID string) (*models.Subtask, error) {
	t, st, err := s.requireSubtask(ctx, taskID, subtaskID)
	if err != nil {
		return nil, err
	}

	var updated *models.Subtask
	err = s.repo.InTx(ctx, func(tx database.DataStore) error {
		var err error
		updated, err = tx.UpdateSubtask(ctx, st.ID, map[string]any{"completed": !st.Completed})
		if err != nil {
			return err
		}
		return tx.AppendHistory(ctx, &models.HistoryEntry{
			TaskID:    taskID,
			UserID:    userID,
			Action:    models.ActionSubtaskToggled,
			FieldName: st.Title,
			OldValue:  fmt.Sprint(st.Completed),
			NewValue:  fmt.Sprint(updated.Completed),
		})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to toggle subtask: %w", err)
	}

	s.publishTaskEvent(ctx, t)
	return updated, nil
}

// DeleteSubtask removes a checklist item
func (s *service) DeleteSubtask(ctx context.Context, taskID, subtaskID, userID string) error {
	t, st, err := s.requireSubtask(ctx, taskID, subtaskID)
	if err != nil {
		return err
	}

	err = s.repo.InTx(ctx, func(tx database.DataStore) error {
		if err := tx.DeleteSubtask(ctx, st.ID); err != nil {
			return err
		}
		return tx.AppendHistory(ctx, &models.HistoryEntry{
			TaskID:   taskID,
			UserID:   userID,
			Action:   models.ActionSubtaskDeleted,
			OldValue: st.Title,
		})
	})
	if err != nil {
		return fmt.Errorf("failed to delete subtask: %w", err)
	}

	s.publishTaskEvent(ctx, t)
	return nil
}

// ListSubtasks returns the checklist of a task
func (s *service) ListSubtasks(ctx context.Context, taskID string) ([]*models.Subtask, error) {
	if _, err := s.requireTask(ctx, taskID); err != nil {
		return nil, err
	}
	return s.repo.ListSubtasks(ctx, taskID)
}

// ============================================================================
// COMMENTS
// ============================================================================

// AddComment posts a comment. Content may be empty only when files are attached.
func (s *service) AddComment(ctx context.Context, req AddCommentRequest) (*models.Comment, error) {
	if req.AuthorID == "" {
		return nil, ErrInvalidUserID
	}
	content := strings.TrimSpace(req.Content)
	if content == "" && len(req.Attachments) == 0 {
		return nil, ErrEmptyComment
	}
	if utf8.RuneCountInString(content) > models.MaxCommentLength {
		return nil, ErrCommentTooLong
	}
	for _, f := range req.Attachments {
		if f.Size > s.maxUpload {
			return nil, fmt.Errorf("%w (%d bytes)", ErrAttachmentTooLarge, s.maxUpload)
		}
	}

	t, err := s.requireTask(ctx, req.TaskID)
	if err != nil {
		return nil, err
	}

	c := &models.Comment{
		TaskID:      req.TaskID,
		AuthorID:    req.AuthorID,
		Content:     content,
		Attachments: req.Attachments,
	}
	err = s.repo.InTx(ctx, func(tx database.DataStore) error {
		if err := tx.CreateComment(ctx, c); err != nil {
			return err
		}
		return tx.AppendHistory(ctx, &models.HistoryEntry{
			TaskID: req.TaskID,
			UserID: req.AuthorID,
			Action: models.ActionCommentAdded,
		})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to add comment: %w", err)
	}

	s.publishTaskEvent(ctx, t)
	return c, nil
}

// DeleteComment removes a comment from a task
func (s *service) DeleteComment(ctx context.Context, taskID, commentID, userID string) error {
	t, err := s.requireTask(ctx, taskID)
	if err != nil {
		return err
	}
	c, err := s.repo.GetComment(ctx, commentID)
	if errors.Is(err, models.ErrNotFound) || (err == nil && c.TaskID != taskID) {
		return ErrCommentNotFound
	}
	if err != nil {
		return err
	}

	err = s.repo.InTx(ctx, func(tx database.DataStore) error {
		if err := tx.DeleteComment(ctx, commentID); err != nil {
			return err
		}
		return tx.AppendHistory(ctx, &models.HistoryEntry{
			TaskID: taskID,
			UserID: userID,
			Action: models.ActionCommentDeleted,
		})
	})
	if err != nil {
		return fmt.Errorf("failed to delete comment: %w", err)
	}

	s.publishTaskEvent(ctx, t)
	return nil
}

// ListComments returns a task's comments
func (s *service) ListComments(ctx context.Context, taskID string) ([]*models.Comment, error) {
	if _, err := s.requireTask(ctx, taskID); err != nil {
		return nil, err
	}
	return s.repo.ListComments(ctx, taskID)
}

// ============================================================================
// OBSERVERS
// ============================================================================

// AddObserver subscribes userID to the task. Adding an existing observer is a no-op.
func (s *service) AddObserver(ctx context.Context, taskID, actorID, userID string) error {
	if userID == "" {
		return ErrInvalidUserID
	}
	t, err := s.requireTask(ctx, taskID)
	if err != nil {
		return err
	}
	if _, err := s.repo.GetUser(ctx, userID); err != nil {
		return err
	}

	added := false
	err = s.repo.InTx(ctx, func(tx database.DataStore) error {
		var err error
		added, err = tx.AddObserver(ctx, taskID, userID)
		if err != nil || !added {
			return err
		}
		return tx.AppendHistory(ctx, &models.HistoryEntry{
			TaskID:   taskID,
			UserID:   actorID,
			Action:   models.ActionObserverAdded,
			NewValue: userID,
		})
	})
	if err != nil {
		return fmt.Errorf("failed to add observer: %w", err)
	}

	if added {
		s.publishTaskEvent(ctx, t)
	}
	return nil
}

// RemoveObserver unsubscribes another user. The reporter can only leave on
// their own through LeaveTask.
func (s *service) RemoveObserver(ctx context.Context, taskID, actorID, userID string) error {
	t, err := s.requireTask(ctx, taskID)
	if err != nil {
		return err
	}
	if userID == t.ReporterID {
		return ErrCannotRemoveReporter
	}
	return s.unobserve(ctx, t, actorID, userID)
}

// LeaveTask unsubscribes the acting user
func (s *service) LeaveTask(ctx context.Context, taskID, userID string) error {
	t, err := s.requireTask(ctx, taskID)
	if err != nil {
		return err
	}
	return s.unobserve(ctx, t, userID, userID)
}

func (s *service) unobserve(ctx context.Context, t *models.Task, actorID, userID string) error {
	if userID == "" {
		return ErrInvalidUserID
	}

	err := s.repo.InTx(ctx, func(tx database.DataStore) error {
		removed, err := tx.RemoveObserver(ctx, t.ID, userID)
		if err != nil {
			return err
		}
		if !removed {
			return ErrNotObserving
		}
		return tx.AppendHistory(ctx, &models.HistoryEntry{
			TaskID:   t.ID,
			UserID:   actorID,
			Action:   models.ActionObserverRemoved,
			OldValue: userID,
		})
	})
	if err != nil {
		return fmt.Errorf("failed to remove observer: %w", err)
	}

	s.publishTaskEvent(ctx, t)
	return nil
}

// ListObservers returns the observers of a task
func (s *service) ListObservers(ctx context.Context, taskID string) ([]*models.TaskObserver, error) {
	if _, err := s.requireTask(ctx, taskID); err != nil {
		return nil, err
	}
	return s.repo.ListObservers(ctx, taskID)
}

// ============================================================================
// LABELS
// ============================================================================

// AddLabel attaches a label to the task
func (s *service) AddLabel(ctx context.Context, taskID, userID, label string) (*models.Task, error) {
	label, err := validateLabel(label)
	if err != nil {
		return nil, err
	}
	t, err := s.requireTask(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if t.HasTag(label) {
		return nil, ErrLabelExists
	}

	tags := append(append([]string{}, t.Tags...), label)
	return s.commit(ctx, t, &fieldChange{
		field:    "tags",
		newValue: label,
		action:   models.ActionLabelAdded,
		fields:   map[string]any{"tags": tags},
	}, userID, t.Version)
}

// RemoveLabel detaches a label. Removing a label the task lacks changes nothing.
func (s *service) RemoveLabel(ctx context.Context, taskID, userID, label string) (*models.Task, error) {
	label = strings.TrimSpace(label)
	t, err := s.requireTask(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if !t.HasTag(label) {
		return t, nil
	}

	tags := make([]string, 0, len(t.Tags))
	for _, tag := range t.Tags {
		if tag != label {
			tags = append(tags, tag)
		}
	}
	return s.commit(ctx, t, &fieldChange{
		field:    "tags",
		oldValue: label,
		action:   models.ActionLabelRemoved,
		fields:   map[string]any{"tags": tags},
	}, userID, t.Version)
}

func validateLabel(label string) (string, error) {
	label = strings.TrimSpace(label)
	if label == "" {
		return "", ErrEmptyLabel
	}
	if utf8.RuneCountInString(label) > models.MaxNameLength {
		return "", ErrLabelTooLong
	}
	return label, nil
}

// normalizeTags trims, validates and de-duplicates tags keeping first occurrences
func normalizeTags(raw []string) ([]string, error) {
	tags := make([]string, 0, len(raw))
	seen := make(map[string]bool, len(raw))
	for _, r := range raw {
		tag := strings.TrimSpace(r)
		if tag == "" || seen[tag] {
			continue
		}
		if utf8.RuneCountInString(tag) > models.MaxNameLength {
			return nil, ErrLabelTooLong
		}
		seen[tag] = true
		tags = append(tags, tag)
	}
	return tags, nil
}

// ============================================================================
// ATTACHMENTS
// ============================================================================

// AddAttachment stores an uploaded file as a data URL
func (s *service) AddAttachment(ctx context.Context, req AddAttachmentRequest) (*models.Attachment, error) {
	if len(req.Data) == 0 {
		return nil, ErrEmptyAttachment
	}
	if int64(len(req.Data)) > s.maxUpload {
		return nil, fmt.Errorf("%w (%d bytes)", ErrAttachmentTooLarge, s.maxUpload)
	}
	t, err := s.requireTask(ctx, req.TaskID)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		name = "attachment"
	}
	mime := req.MimeType
	if mime == "" {
		mime = "application/octet-stream"
	}

	a := &models.Attachment{
		TaskID:     req.TaskID,
		UploaderID: req.UploaderID,
		Name:       name,
		Size:       int64(len(req.Data)),
		MimeType:   mime,
		DataURL:    "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(req.Data),
	}
	err = s.repo.InTx(ctx, func(tx database.DataStore) error {
		if err := tx.CreateAttachment(ctx, a); err != nil {
			return err
		}
		return tx.AppendHistory(ctx, &models.HistoryEntry{
			TaskID:   req.TaskID,
			UserID:   req.UploaderID,
			Action:   models.ActionAttachmentAdded,
			NewValue: name,
		})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to add attachment: %w", err)
	}

	s.publishTaskEvent(ctx, t)
	return a, nil
}

// GetAttachment retrieves an attachment with its data
func (s *service) GetAttachment(ctx context.Context, taskID, attachmentID string) (*models.Attachment, error) {
	a, err := s.repo.GetAttachment(ctx, attachmentID)
	if errors.Is(err, models.ErrNotFound) || (err == nil && a.TaskID != taskID) {
		return nil, ErrAttachmentNotFound
	}
	if err != nil {
		return nil, err
	}
	return a, nil
}

// ListAttachments returns a task's attachments without their data
func (s *service) ListAttachments(ctx context.Context, taskID string) ([]*models.Attachment, error) {
	if _, err := s.requireTask(ctx, taskID); err != nil {
		return nil, err
	}
	return s.repo.ListAttachments(ctx, taskID)
}

// DeleteAttachment removes an attachment
func (s *service) DeleteAttachment(ctx context.Context, taskID, attachmentID, userID string) error {
	t, err := s.requireTask(ctx, taskID)
	if err != nil {
		return err
	}
	a, err := s.GetAttachment(ctx, taskID, attachmentID)
	if err != nil {
		return err
	}

	err = s.repo.InTx(ctx, func(tx database.DataStore) error {
		if err := tx.DeleteAttachment(ctx, a.ID); err != nil {
			return err
		}
		return tx.AppendHistory(ctx, &models.HistoryEntry{
			TaskID:   taskID,
			UserID:   userID,
			Action:   models.ActionAttachmentDeleted,
			OldValue: a.Name,
		})
	})
	if err != nil {
		return fmt.Errorf("failed to delete attachment: %w", err)
	}

	s.publishTaskEvent(ctx, t)
	return nil
}

// ============================================================================
// HELPERS
// ============================================================================

func (s *service) requireTask(ctx context.Context, taskID string) (*models.Task, error) {
	if taskID == "" {
		return nil, ErrInvalidTaskID
	}
	return s.repo.GetTask(ctx, taskID)
}

func (s *service) requireSubtask(ctx context.Context, taskID, subtaskID string) (*models.Task, *models.Subtask, error) {
	t, err := s.requireTask(ctx, taskID)
	if err != nil {
		return nil, nil, err
	}
	st, err := s.repo.GetSubtask(ctx, subtaskID)
	if errors.Is(err, models.ErrNotFound) || (err == nil && st.TaskID != taskID) {
		return nil, nil, ErrSubtaskNotFound
	}
	if err != nil {
		return nil, nil, err
	}
	return t, st, nil
}

func (s *service) requireAssignee(ctx context.Context, userID string) error {
	if _, err := s.repo.GetUser(ctx, userID); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return ErrUnknownAssignee
		}
		return err
	}
	return nil
}

// initialColumn picks the column a new task starts in
func initialColumn(cols []*models.Column, columnID string) (*models.Column, error) {
	if len(cols) == 0 {
		return nil, ErrBoardHasNoColumn
	}
	if columnID != "" {
		for _, c := range cols {
			if c.ID == columnID {
				return c, nil
			}
		}
		return nil, ErrInvalidColumnID
	}
	for _, c := range cols {
		if c.Stage == models.StageTodo {
			return c, nil
		}
	}
	return cols[0], nil
}

// inProgressColumn finds the accept target: the in-progress stage column, or
// a column named after the stage on boards without stages
func inProgressColumn(cols []*models.Column) *models.Column {
	for _, c := range cols {
		if c.Stage == models.StageInProgress {
			return c
		}
	}
	for _, c := range cols {
		if strings.EqualFold(c.Name, string(models.StageInProgress)) {
			return c
		}
	}
	return nil
}

func columnName(cols []*models.Column, columnID, fallback string) string {
	for _, c := range cols {
		if c.ID == columnID {
			return c.Name
		}
	}
	return fallback
}

// compactColumn rewrites the positions of a column's tasks densely
func compactColumn(ctx context.Context, tx database.DataStore, columnID string) error {
	tasks, err := tx.ListTasksByColumn(ctx, columnID)
	if err != nil {
		return err
	}
	ids := make([]string, len(tasks))
	for i, t := range tasks {
		ids[i] = t.ID
	}
	return tx.PlaceTasks(ctx, columnID, ids)
}

func (s *service) publishTaskEvent(ctx context.Context, t *models.Task) {
	events.Emit(ctx, s.events, events.Event{
		Type:    events.EventTaskChanged,
		BoardID: t.BoardID,
		TaskID:  t.ID,
		Origin:  events.OriginService,
	})
}
