// Package column manages boards and their column layout. Every layout change
// goes through the board ordering engine, which this package feeds from and
// persists to the entity store.
package column

import (
	"context"
	"fmt"
	"strings"

	"github.com/teamsync/teamsync/internal/board"
	"github.com/teamsync/teamsync/internal/database"
	"github.com/teamsync/teamsync/internal/events"
	"github.com/teamsync/teamsync/internal/models"
)

// Service defines all board and column business operations
type Service interface {
	// Boards
	CreateBoard(ctx context.Context, req CreateBoardRequest) (*models.Board, error)
	GetBoard(ctx context.Context, boardID string) (*models.Board, error)
	ListBoards(ctx context.Context, projectID string) ([]*models.Board, error)
	GetBoardState(ctx context.Context, boardID string) (*board.State, error)

	// Layout changes, all dispatched through the ordering engine
	Dispatch(ctx context.Context, req DispatchRequest) (*DispatchResult, error)
	MoveTask(ctx context.Context, req MoveTaskRequest) (*DispatchResult, error)
	AddColumn(ctx context.Context, boardID, userID string, req board.AddColumn) (*DispatchResult, error)
	MoveColumn(ctx context.Context, boardID, userID string, from, to int) (*DispatchResult, error)
	RenameColumn(ctx context.Context, boardID, userID, columnID, name string) (*DispatchResult, error)
	DeleteColumn(ctx context.Context, boardID, userID, columnID, targetColumnID string) (*DispatchResult, error)

	// Registry exposes the board cache so it can subscribe to change events
	Registry() *board.Registry
}

// CreateBoardRequest encapsulates data for creating a board
type CreateBoardRequest struct {
	ProjectID  string
	Name       string
	IsTemplate bool
	TemplateID *string // Optional: copy the columns of this template board
}

// DispatchRequest applies a single intent to a board on behalf of a user
type DispatchRequest struct {
	BoardID string
	UserID  string
	Intent  board.Intent
}

// MoveTaskRequest moves a task identified by id. When TaskID is empty the
// source is taken from FromColumnID and FromIndex.
type MoveTaskRequest struct {
	BoardID      string
	UserID       string
	TaskID       string
	FromColumnID string
	FromIndex    int
	ToColumnID   string
	ToIndex      int
}

// DispatchResult is the applied intent and the board after it
type DispatchResult struct {
	Result board.Result
	State  *board.State
}

// service implements Service
type service struct {
	repo     database.DataStore
	events   events.Publisher
	registry *board.Registry
}

// NewService creates a new column service. opts configure every cached board.
func NewService(repo database.DataStore, publisher events.Publisher, opts ...board.Option) Service {
	s := &service{
		repo:   repo,
		events: publisher,
	}
	s.registry = board.NewRegistry(s, s, opts...)
	return s
}

func (s *service) Registry() *board.Registry {
	return s.registry
}

// ============================================================================
// BOARDS
// ============================================================================

// CreateBoard creates a board with the default columns, or with a copy of the
// template's columns when TemplateID is set
func (s *service) CreateBoard(ctx context.Context, req CreateBoardRequest) (*models.Board, error) {
	name := strings.TrimSpace(req.Name)
	if req.ProjectID == "" {
		return nil, ErrInvalidProjectID
	}
	if name == "" {
		return nil, ErrEmptyBoardName
	}
	if len(name) > models.MaxTitleLength {
		return nil, ErrBoardNameTooLong
	}

	if _, err := s.repo.GetProject(ctx, req.ProjectID); err != nil {
		return nil, err
	}

	var cols []*models.Column
	if req.TemplateID != nil && *req.TemplateID != "" {
		template, err := s.repo.GetBoard(ctx, *req.TemplateID)
		if err != nil {
			return nil, fmt.Errorf("failed to get template: %w", err)
		}
		if !template.IsTemplate {
			return nil, ErrNotATemplate
		}
		source, err := s.repo.ListColumns(ctx, template.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to get template columns: %w", err)
		}
		for _, c := range source {
			cols = append(cols, &models.Column{Name: c.Name, Stage: c.Stage})
		}
	} else {
		for _, dc := range models.DefaultColumns {
			cols = append(cols, &models.Column{Name: dc.Name, Stage: dc.Stage})
		}
	}

	b := &models.Board{
		ProjectID:  req.ProjectID,
		Name:       name,
		IsTemplate: req.IsTemplate,
		TemplateID: req.TemplateID,
	}
	if err := s.repo.CreateBoard(ctx, b, cols); err != nil {
		return nil, fmt.Errorf("failed to create board: %w", err)
	}

	s.publishBoardEvent(ctx, b.ProjectID, b.ID, events.OriginService)
	return b, nil
}

// GetBoard retrieves a board
func (s *service) GetBoard(ctx context.Context, boardID string) (*models.Board, error) {
	if boardID == "" {
		return nil, ErrInvalidBoardID
	}
	return s.repo.GetBoard(ctx, boardID)
}

// ListBoards retrieves the boards of a project
func (s *service) ListBoards(ctx context.Context, projectID string) ([]*models.Board, error) {
	if projectID == "" {
		return nil, ErrInvalidProjectID
	}
	if _, err := s.repo.GetProject(ctx, projectID); err != nil {
		return nil, err
	}
	return s.repo.ListBoards(ctx, projectID)
}

// GetBoardState returns the cached layout of a board
func (s *service) GetBoardState(ctx context.Context, boardID string) (*board.State, error) {
	if boardID == "" {
		return nil, ErrInvalidBoardID
	}
	b, err := s.registry.Get(ctx, boardID)
	if err != nil {
		return nil, err
	}
	return b.Snapshot(), nil
}

// ============================================================================
// LAYOUT CHANGES
// ============================================================================

// Dispatch applies an intent to the cached board and persists it
func (s *service) Dispatch(ctx context.Context, req DispatchRequest) (*DispatchResult, error) {
	if req.BoardID == "" {
		return nil, ErrInvalidBoardID
	}
	b, err := s.registry.Get(ctx, req.BoardID)
	if err != nil {
		return nil, err
	}

	res, err := b.Dispatch(withActor(ctx, req.UserID), req.Intent)
	if err != nil {
		return nil, err
	}
	return &DispatchResult{Result: res, State: b.Snapshot()}, nil
}

// MoveTask moves a task within or across columns
func (s *service) MoveTask(ctx context.Context, req MoveTaskRequest) (*DispatchResult, error) {
	if req.BoardID == "" {
		return nil, ErrInvalidBoardID
	}

	if req.TaskID == "" && req.FromColumnID == "" {
		return nil, ErrInvalidMove
	}

	intent := board.MoveTask{
		TaskID:     req.TaskID,
		FromColumn: req.FromColumnID,
		FromIndex:  req.FromIndex,
		ToColumn:   req.ToColumnID,
		ToIndex:    req.ToIndex,
	}
	return s.Dispatch(ctx, DispatchRequest{BoardID: req.BoardID, UserID: req.UserID, Intent: intent})
}

// AddColumn appends a column to the board
func (s *service) AddColumn(ctx context.Context, boardID, userID string, req board.AddColumn) (*DispatchResult, error) {
	return s.Dispatch(ctx, DispatchRequest{BoardID: boardID, UserID: userID, Intent: req})
}

// MoveColumn changes a column's display position
func (s *service) MoveColumn(ctx context.Context, boardID, userID string, from, to int) (*DispatchResult, error) {
	return s.Dispatch(ctx, DispatchRequest{BoardID: boardID, UserID: userID, Intent: board.MoveColumn{From: from, To: to}})
}

// RenameColumn changes a column's name
func (s *service) RenameColumn(ctx context.Context, boardID, userID, columnID, name string) (*DispatchResult, error) {
	return s.Dispatch(ctx, DispatchRequest{
		BoardID: boardID,
		UserID:  userID,
		Intent:  board.RenameColumn{ColumnID: columnID, Name: name},
	})
}

// DeleteColumn removes a column, moving its tasks to targetColumnID
func (s *service) DeleteColumn(ctx context.Context, boardID, userID, columnID, targetColumnID string) (*DispatchResult, error) {
	return s.Dispatch(ctx, DispatchRequest{
		BoardID: boardID,
		UserID:  userID,
		Intent:  board.DeleteColumn{ColumnID: columnID, TargetColumnID: targetColumnID},
	})
}

func (s *service) publishBoardEvent(ctx context.Context, projectID, boardID, origin string) {
	events.Emit(ctx, s.events, events.Event{
		Type:      events.EventBoardChanged,
		ProjectID: projectID,
		BoardID:   boardID,
		Origin:    origin,
	})
}
