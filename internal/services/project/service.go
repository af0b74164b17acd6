// Package project manages projects and their membership.
package project

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/teamsync/teamsync/internal/database"
	"github.com/teamsync/teamsync/internal/events"
	"github.com/teamsync/teamsync/internal/models"
)

// Service defines all project-related business operations
type Service interface {
	// Read operations
	GetProject(ctx context.Context, id string) (*models.Project, error)
	ListProjects(ctx context.Context, status string) ([]*models.Project, error)
	ListMembers(ctx context.Context, projectID string) ([]string, error)

	// Write operations
	CreateProject(ctx context.Context, req CreateProjectRequest) (*models.Project, error)
	UpdateProject(ctx context.Context, req UpdateProjectRequest) (*models.Project, error)
	AddMember(ctx context.Context, projectID, userID string) error
}

// CreateProjectRequest encapsulates data for creating a project
type CreateProjectRequest struct {
	Name        string
	Description string
	OwnerID     string
	Department  string
	Status      string
	Priority    string
	Color       string
}

// UpdateProjectRequest encapsulates data for updating a project. Nil fields
// are left unchanged; ExpectedVersion zero skips the version check.
type UpdateProjectRequest struct {
	ID              string
	ExpectedVersion int
	Name            *string
	Description     *string
	Department      *string
	Status          *string
	Priority        *string
	Color           *string
}

// repository defines the data access methods needed by the project service
type repository interface {
	database.ProjectRepository
	GetUser(ctx context.Context, id string) (*models.User, error)
}

// service implements Service interface with private repository
type service struct {
	repo   repository
	events events.Publisher
}

// NewService creates a new project service
func NewService(repo repository, publisher events.Publisher) Service {
	return &service{
		repo:   repo,
		events: publisher,
	}
}

var colorPattern = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// GetProject retrieves a specific project
func (s *service) GetProject(ctx context.Context, id string) (*models.Project, error) {
	if id == "" {
		return nil, ErrInvalidProjectID
	}
	return s.repo.GetProject(ctx, id)
}

// ListProjects retrieves all projects, or those with the given status
func (s *service) ListProjects(ctx context.Context, status string) ([]*models.Project, error) {
	st := models.ProjectStatus(strings.ToLower(strings.TrimSpace(status)))
	if st != "" && !st.Valid() {
		return nil, ErrInvalidStatus
	}
	return s.repo.ListProjects(ctx, st)
}

// ListMembers returns the user ids of a project's members
func (s *service) ListMembers(ctx context.Context, projectID string) ([]string, error) {
	if _, err := s.GetProject(ctx, projectID); err != nil {
		return nil, err
	}
	return s.repo.ListProjectMembers(ctx, projectID)
}

// CreateProject creates a new project with validation. The owner becomes a member.
func (s *service) CreateProject(ctx context.Context, req CreateProjectRequest) (*models.Project, error) {
	name, err := validateName(req.Name)
	if err != nil {
		return nil, err
	}
	if req.OwnerID == "" {
		return nil, ErrInvalidOwnerID
	}

	p := &models.Project{
		Name:        name,
		Description: req.Description,
		OwnerID:     req.OwnerID,
		Department:  strings.TrimSpace(req.Department),
		Color:       req.Color,
	}
	if req.Status != "" {
		if p.Status, err = parseStatus(req.Status); err != nil {
			return nil, err
		}
	}
	if req.Priority != "" {
		if p.Priority, err = parsePriority(req.Priority); err != nil {
			return nil, err
		}
	}
	if p.Color != "" && !colorPattern.MatchString(p.Color) {
		return nil, ErrInvalidColor
	}

	if _, err := s.repo.GetUser(ctx, req.OwnerID); err != nil {
		return nil, fmt.Errorf("failed to get owner: %w", err)
	}
	if err := s.repo.CreateProject(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	s.publishProjectEvent(ctx, p.ID)
	return p, nil
}

// UpdateProject updates an existing project
func (s *service) UpdateProject(ctx context.Context, req UpdateProjectRequest) (*models.Project, error) {
	if req.ID == "" {
		return nil, ErrInvalidProjectID
	}

	fields := make(map[string]any)
	if req.Name != nil {
		name, err := validateName(*req.Name)
		if err != nil {
			return nil, err
		}
		fields["name"] = name
	}
	if req.Description != nil {
		fields["description"] = *req.Description
	}
	if req.Department != nil {
		fields["department"] = strings.TrimSpace(*req.Department)
	}
	if req.Status != nil {
		st, err := parseStatus(*req.Status)
		if err != nil {
			return nil, err
		}
		fields["status"] = st
	}
	if req.Priority != nil {
		p, err := parsePriority(*req.Priority)
		if err != nil {
			return nil, err
		}
		fields["priority"] = p
	}
	if req.Color != nil {
		if *req.Color != "" && !colorPattern.MatchString(*req.Color) {
			return nil, ErrInvalidColor
		}
		fields["color"] = *req.Color
	}

	if len(fields) == 0 {
		return s.GetProject(ctx, req.ID)
	}

	p, err := s.repo.UpdateProject(ctx, req.ID, req.ExpectedVersion, fields)
	if err != nil {
		return nil, fmt.Errorf("failed to update project: %w", err)
	}

	s.publishProjectEvent(ctx, req.ID)
	return p, nil
}

// AddMember adds a user to a project; adding an existing member is a no-op
func (s *service) AddMember(ctx context.Context, projectID, userID string) error {
	if _, err := s.GetProject(ctx, projectID); err != nil {
		return err
	}
	if _, err := s.repo.GetUser(ctx, userID); err != nil {
		return err
	}
	if err := s.repo.AddProjectMember(ctx, projectID, userID); err != nil {
		return fmt.Errorf("failed to add member: %w", err)
	}

	s.publishProjectEvent(ctx, projectID)
	return nil
}

func validateName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ErrEmptyName
	}
	if utf8.RuneCountInString(name) > models.MaxTitleLength {
		return "", ErrNameTooLong
	}
	return name, nil
}

func parseStatus(s string) (models.ProjectStatus, error) {
	st := models.ProjectStatus(strings.ToLower(strings.TrimSpace(s)))
	if !st.Valid() {
		return "", ErrInvalidStatus
	}
	return st, nil
}

func parsePriority(s string) (models.Priority, error) {
	p, ok := models.ParsePriority(s)
	if !ok {
		return "", ErrInvalidPriority
	}
	return p, nil
}

// publishProjectEvent publishes a project event
func (s *service) publishProjectEvent(ctx context.Context, projectID string) {
	events.Emit(ctx, s.events, events.Event{
		Type:      events.EventProjectChanged,
		ProjectID: projectID,
		Origin:    events.OriginService,
	})
}
