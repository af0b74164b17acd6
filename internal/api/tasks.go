package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/teamsync/teamsync/internal/models"
	taskservice "github.com/teamsync/teamsync/internal/services/task"
)

type createTaskRequest struct {
	BoardID     string   `json:"boardId"`
	ColumnID    string   `json:"columnId"`
	AssigneeID  *string  `json:"assigneeId"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Priority    string   `json:"priority"`
	Type        string   `json:"type"`
	DueDate     string   `json:"dueDate"`
	Tags        []string `json:"tags"`
}

type updateTaskRequest struct {
	Field   string `json:"field"`
	Value   string `json:"value"`
	Version int    `json:"version"`
}

type titleRequest struct {
	Title string `json:"title"`
}

type commentRequest struct {
	Content     string            `json:"content"`
	Attachments []models.FileMeta `json:"attachments"`
}

type observerRequest struct {
	UserID string `json:"userId"`
}

type labelRequest struct {
	Label string `json:"label"`
}

// ============================================================================
// TASKS
// ============================================================================

func (s *Server) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	var req createTaskRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	var due *time.Time
	if req.DueDate != "" {
		d, err := parseDueDate(req.DueDate)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		due = &d
	}

	t, err := s.svc.Tasks.CreateTask(r.Context(), taskservice.CreateTaskRequest{
		BoardID:     req.BoardID,
		ColumnID:    req.ColumnID,
		AssigneeID:  req.AssigneeID,
		ReporterID:  currentUser(r).ID,
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
		Type:        req.Type,
		DueDate:     due,
		Tags:        req.Tags,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, t)
}

func parseDueDate(raw string) (time.Time, error) {
	if d, err := time.Parse(time.RFC3339, raw); err == nil {
		return d.UTC(), nil
	}
	if d, err := time.Parse(time.DateOnly, raw); err == nil {
		return d, nil
	}
	return time.Time{}, taskservice.ErrInvalidDueDate
}

func (s *Server) handleGetTask(w http.ResponseWriter, r *http.Request) {
	t, err := s.svc.Tasks.GetTask(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

// handleUpdateTask changes one field; version guards against lost updates
func (s *Server) handleUpdateTask(w http.ResponseWriter, r *http.Request) {
	var req updateTaskRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	t, err := s.svc.Tasks.UpdateField(r.Context(), taskservice.UpdateFieldRequest{
		TaskID:          chi.URLParam(r, "id"),
		UserID:          currentUser(r).ID,
		Field:           req.Field,
		Value:           req.Value,
		ExpectedVersion: req.Version,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (s *Server) handleDeleteTask(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.Tasks.DeleteTask(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleAcceptTask(w http.ResponseWriter, r *http.Request) {
	t, err := s.svc.Tasks.AcceptTask(r.Context(), chi.URLParam(r, "id"), currentUser(r).ID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (s *Server) handleListHistory(w http.ResponseWriter, r *http.Request) {
	entries, err := s.svc.Tasks.ListHistory(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

// ============================================================================
// SUBTASKS
// ============================================================================

func (s *Server) handleListSubtasks(w http.ResponseWriter, r *http.Request) {
	subtasks, err := s.svc.Tasks.ListSubtasks(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, subtasks)
}

func (s *Server) handleAddSubtask(w http.ResponseWriter, r *http.Request) {
	var req titleRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	st, err := s.svc.Tasks.AddSubtask(r.Context(), chi.URLParam(r, "id"), currentUser(r).ID, req.Title)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, st)
}

// handleToggleSubtask flips the completed flag
func (s *Server) handleToggleSubtask(w http.ResponseWriter, r *http.Request) {
	st, err := s.svc.Tasks.ToggleSubtask(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "subtaskId"), currentUser(r).ID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (s *Server) handleDeleteSubtask(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.Tasks.DeleteSubtask(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "subtaskId"), currentUser(r).ID); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ============================================================================
// COMMENTS
// ============================================================================

func (s *Server) handleListComments(w http.ResponseWriter, r *http.Request) {
	comments, err := s.svc.Tasks.ListComments(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, comments)
}

func (s *Server) handleAddComment(w http.ResponseWriter, r *http.Request) {
	var req commentRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	c, err := s.svc.Tasks.AddComment(r.Context(), taskservice.AddCommentRequest{
		TaskID:      chi.URLParam(r, "id"),
		AuthorID:    currentUser(r).ID,
		Content:     req.Content,
		Attachments: req.Attachments,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

func (s *Server) handleDeleteComment(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.Tasks.DeleteComment(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "commentId"), currentUser(r).ID); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ============================================================================
// OBSERVERS
// ============================================================================

func (s *Server) handleListObservers(w http.ResponseWriter, r *http.Request) {
	observers, err := s.svc.Tasks.ListObservers(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, observers)
}

// handleAddObserver subscribes userId, or the caller when the body is empty
func (s *Server) handleAddObserver(w http.ResponseWriter, r *http.Request) {
	var req observerRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	actor := currentUser(r)
	if req.UserID == "" {
		req.UserID = actor.ID
	}
	if err := s.svc.Tasks.AddObserver(r.Context(), chi.URLParam(r, "id"), actor.ID, req.UserID); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleRemoveObserver removes another observer, or leaves the task when
// userId is the caller
func (s *Server) handleRemoveObserver(w http.ResponseWriter, r *http.Request) {
	taskID, userID := chi.URLParam(r, "id"), chi.URLParam(r, "userId")
	actor := currentUser(r)

	var err error
	if userID == actor.ID || userID == "me" {
		err = s.svc.Tasks.LeaveTask(r.Context(), taskID, actor.ID)
	} else {
		err = s.svc.Tasks.RemoveObserver(r.Context(), taskID, actor.ID, userID)
	}
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ============================================================================
// LABELS
// ============================================================================

func (s *Server) handleAddLabel(w http.ResponseWriter, r *http.Request) {
	var req labelRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	t, err := s.svc.Tasks.AddLabel(r.Context(), chi.URLParam(r, "id"), currentUser(r).ID, req.Label)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (s *Server) handleRemoveLabel(w http.ResponseWriter, r *http.Request) {
	t, err := s.svc.Tasks.RemoveLabel(r.Context(), chi.URLParam(r, "id"), currentUser(r).ID, chi.URLParam(r, "label"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

// ============================================================================
// ATTACHMENTS
// ============================================================================

func (s *Server) handleListAttachments(w http.ResponseWriter, r *http.Request) {
	attachments, err := s.svc.Tasks.ListAttachments(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, attachments)
}

func (s *Server) handleAddAttachment(w http.ResponseWriter, r *http.Request) {
	name, mimeType, data, err := readUpload(w, r, "file", s.opts.MaxUploadBytes)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	a, err := s.svc.Tasks.AddAttachment(r.Context(), taskservice.AddAttachmentRequest{
		TaskID:     chi.URLParam(r, "id"),
		UploaderID: currentUser(r).ID,
		Name:       name,
		MimeType:   mimeType,
		Data:       data,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, a)
}

func (s *Server) handleGetAttachment(w http.ResponseWriter, r *http.Request) {
	a, err := s.svc.Tasks.GetAttachment(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "attachmentId"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

func (s *Server) handleDeleteAttachment(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.Tasks.DeleteAttachment(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "attachmentId"), currentUser(r).ID); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
