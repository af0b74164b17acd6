// Package team manages teams and their membership.
package team

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/teamsync/teamsync/internal/database"
	"github.com/teamsync/teamsync/internal/models"
)

// Service defines all team-related business operations
type Service interface {
	CreateTeam(ctx context.Context, name, description string) (*models.Team, error)
	GetTeam(ctx context.Context, id string) (*models.Team, error)
	ListTeams(ctx context.Context) ([]*models.Team, error)
	AddMember(ctx context.Context, teamID, userID string) (*models.Team, error)
	RemoveMember(ctx context.Context, teamID, userID string) (*models.Team, error)
}

type repository interface {
	database.TeamRepository
	GetUser(ctx context.Context, id string) (*models.User, error)
}

type service struct {
	repo repository
}

// NewService creates a new team service
func NewService(repo repository) Service {
	return &service{repo: repo}
}

// CreateTeam creates a team with a unique name
func (s *service) CreateTeam(ctx context.Context, name, description string) (*models.Team, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyName
	}
	if utf8.RuneCountInString(name) > models.MaxTitleLength {
		return nil, ErrNameTooLong
	}

	t := &models.Team{Name: name, Description: description}
	if err := s.repo.CreateTeam(ctx, t); err != nil {
		if errors.Is(err, models.ErrDuplicate) {
			return nil, ErrTeamExists
		}
		return nil, fmt.Errorf("failed to create team: %w", err)
	}
	return t, nil
}

// GetTeam retrieves a team with its members
func (s *service) GetTeam(ctx context.Context, id string) (*models.Team, error) {
	return s.repo.GetTeam(ctx, id)
}

// ListTeams retrieves all teams
func (s *service) ListTeams(ctx context.Context) ([]*models.Team, error) {
	return s.repo.ListTeams(ctx)
}

// AddMember adds a user to a team; existing members are kept
func (s *service) AddMember(ctx context.Context, teamID, userID string) (*models.Team, error) {
	if _, err := s.repo.GetTeam(ctx, teamID); err != nil {
		return nil, err
	}
	if _, err := s.repo.GetUser(ctx, userID); err != nil {
		return nil, err
	}
	if err := s.repo.AddTeamMember(ctx, teamID, userID); err != nil {
		return nil, err
	}
	return s.repo.GetTeam(ctx, teamID)
}

// RemoveMember removes a user from a team
func (s *service) RemoveMember(ctx context.Context, teamID, userID string) (*models.Team, error) {
	removed, err := s.repo.RemoveTeamMember(ctx, teamID, userID)
	if err != nil {
		return nil, err
	}
	if !removed {
		return nil, ErrNotAMember
	}
	return s.repo.GetTeam(ctx, teamID)
}
