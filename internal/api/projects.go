package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/teamsync/teamsync/internal/board"
	columnservice "github.com/teamsync/teamsync/internal/services/column"
	projectservice "github.com/teamsync/teamsync/internal/services/project"
)

// ============================================================================
// PROJECTS
// ============================================================================

type createProjectRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Department  string `json:"department"`
	Status      string `json:"status"`
	Priority    string `json:"priority"`
	Color       string `json:"color"`
}

type updateProjectRequest struct {
	Version     int     `json:"version"`
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Department  *string `json:"department"`
	Status      *string `json:"status"`
	Priority    *string `json:"priority"`
	Color       *string `json:"color"`
}

func (s *Server) handleListProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := s.svc.Projects.ListProjects(r.Context(), r.URL.Query().Get("status"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, projects)
}

// handleCreateProject creates a project owned by the caller
func (s *Server) handleCreateProject(w http.ResponseWriter, r *http.Request) {
	var req createProjectRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	p, err := s.svc.Projects.CreateProject(r.Context(), projectservice.CreateProjectRequest{
		Name:        req.Name,
		Description: req.Description,
		OwnerID:     currentUser(r).ID,
		Department:  req.Department,
		Status:      req.Status,
		Priority:    req.Priority,
		Color:       req.Color,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (s *Server) handleGetProject(w http.ResponseWriter, r *http.Request) {
	p, err := s.svc.Projects.GetProject(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleUpdateProject(w http.ResponseWriter, r *http.Request) {
	var req updateProjectRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	p, err := s.svc.Projects.UpdateProject(r.Context(), projectservice.UpdateProjectRequest{
		ID:              chi.URLParam(r, "id"),
		ExpectedVersion: req.Version,
		Name:            req.Name,
		Description:     req.Description,
		Department:      req.Department,
		Status:          req.Status,
		Priority:        req.Priority,
		Color:           req.Color,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// ============================================================================
// BOARDS
// ============================================================================

type createBoardRequest struct {
	Name       string  `json:"name"`
	IsTemplate bool    `json:"isTemplate"`
	TemplateID *string `json:"templateId"`
}

type moveTaskRequest struct {
	TaskID       string `json:"taskId"`
	FromColumnID string `json:"fromColumnId"`
	FromIndex    int    `json:"fromIndex"`
	ToColumnID   string `json:"toColumnId"`
	ToIndex      int    `json:"toIndex"`
}

type moveColumnRequest struct {
	From int `json:"from"`
	To   int `json:"to"`
}

type renameColumnRequest struct {
	Name string `json:"name"`
}

type statusChange struct {
	TaskID string `json:"taskId"`
	From   string `json:"from"`
	To     string `json:"to"`
}

// dispatchResponse is returned by every layout change
type dispatchResponse struct {
	Kind    string         `json:"kind"`
	Applied board.Intent   `json:"applied"`
	Noop    bool           `json:"noop"`
	Changes []statusChange `json:"changes"`
	Board   *board.State   `json:"board"`
}

func newDispatchResponse(res *columnservice.DispatchResult) dispatchResponse {
	out := dispatchResponse{
		Kind:    board.KindOf(res.Result.Applied),
		Applied: res.Result.Applied,
		Noop:    res.Result.Noop,
		Changes: make([]statusChange, 0, len(res.Result.Changes)),
		Board:   res.State,
	}
	for _, c := range res.Result.Changes {
		out.Changes = append(out.Changes, statusChange{TaskID: c.TaskID, From: c.From, To: c.To})
	}
	return out
}

func (s *Server) handleListBoards(w http.ResponseWriter, r *http.Request) {
	boards, err := s.svc.Columns.ListBoards(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, boards)
}

func (s *Server) handleCreateBoard(w http.ResponseWriter, r *http.Request) {
	var req createBoardRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	b, err := s.svc.Columns.CreateBoard(r.Context(), columnservice.CreateBoardRequest{
		ProjectID:  chi.URLParam(r, "id"),
		Name:       req.Name,
		IsTemplate: req.IsTemplate,
		TemplateID: req.TemplateID,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, b)
}

func (s *Server) handleGetBoard(w http.ResponseWriter, r *http.Request) {
	st, err := s.svc.Columns.GetBoardState(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (s *Server) handleMoveTask(w http.ResponseWriter, r *http.Request) {
	var req moveTaskRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	res, err := s.svc.Columns.MoveTask(r.Context(), columnservice.MoveTaskRequest{
		BoardID:      chi.URLParam(r, "id"),
		UserID:       currentUser(r).ID,
		TaskID:       req.TaskID,
		FromColumnID: req.FromColumnID,
		FromIndex:    req.FromIndex,
		ToColumnID:   req.ToColumnID,
		ToIndex:      req.ToIndex,
	})
	s.writeDispatch(w, r, res, err)
}

func (s *Server) handleAddColumn(w http.ResponseWriter, r *http.Request) {
	var req board.AddColumn
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	res, err := s.svc.Columns.AddColumn(r.Context(), chi.URLParam(r, "id"), currentUser(r).ID, req)
	s.writeDispatch(w, r, res, err)
}

func (s *Server) handleMoveColumn(w http.ResponseWriter, r *http.Request) {
	var req moveColumnRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	res, err := s.svc.Columns.MoveColumn(r.Context(), chi.URLParam(r, "id"), currentUser(r).ID, req.From, req.To)
	s.writeDispatch(w, r, res, err)
}

func (s *Server) handleRenameColumn(w http.ResponseWriter, r *http.Request) {
	var req renameColumnRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	res, err := s.svc.Columns.RenameColumn(r.Context(), chi.URLParam(r, "id"), currentUser(r).ID,
		chi.URLParam(r, "columnId"), req.Name)
	s.writeDispatch(w, r, res, err)
}

// handleDeleteColumn removes a column; a non-empty column needs ?target=
func (s *Server) handleDeleteColumn(w http.ResponseWriter, r *http.Request) {
	res, err := s.svc.Columns.DeleteColumn(r.Context(), chi.URLParam(r, "id"), currentUser(r).ID,
		chi.URLParam(r, "columnId"), r.URL.Query().Get("target"))
	s.writeDispatch(w, r, res, err)
}

func (s *Server) writeDispatch(w http.ResponseWriter, r *http.Request, res *columnservice.DispatchResult, err error) {
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newDispatchResponse(res))
}
