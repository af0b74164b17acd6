package database

import (
	"context"

	"gorm.io/gorm/clause"

	"github.com/teamsync/teamsync/internal/models"
)

// CreateTeam inserts a team
func (r *Repository) CreateTeam(ctx context.Context, t *models.Team) error {
	if err := r.conn(ctx).Create(t).Error; err != nil {
		return wrap("create team", err)
	}
	t.MemberIDs = []string{}
	return nil
}

// GetTeam retrieves a team with its member ids
func (r *Repository) GetTeam(ctx context.Context, id string) (*models.Team, error) {
	var t models.Team
	if err := r.conn(ctx).First(&t, "id = ?", id).Error; err != nil {
		return nil, wrap("get team", err)
	}
	if err := r.loadMembers(ctx, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

// ListTeams returns all teams ordered by name
func (r *Repository) ListTeams(ctx context.Context) ([]*models.Team, error) {
	var teams []*models.Team
	if err := r.conn(ctx).Order("name ASC").Find(&teams).Error; err != nil {
		return nil, wrap("list teams", err)
	}
	for _, t := range teams {
		if err := r.loadMembers(ctx, t); err != nil {
			return nil, err
		}
	}
	return teams, nil
}

// AddTeamMember adds a user to a team, existing members are kept
func (r *Repository) AddTeamMember(ctx context.Context, teamID, userID string) error {
	m := &models.TeamMember{TeamID: teamID, UserID: userID}
	if err := r.conn(ctx).Omit("Team", "User").Clauses(clause.OnConflict{DoNothing: true}).Create(m).Error; err != nil {
		return wrap("add team member", err)
	}
	return nil
}

// RemoveTeamMember removes a user from a team
func (r *Repository) RemoveTeamMember(ctx context.Context, teamID, userID string) (bool, error) {
	res := r.conn(ctx).Delete(&models.TeamMember{}, "team_id = ? AND user_id = ?", teamID, userID)
	if res.Error != nil {
		return false, wrap("remove team member", res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (r *Repository) loadMembers(ctx context.Context, t *models.Team) error {
	ids := []string{}
	err := r.conn(ctx).Model(&models.TeamMember{}).
		Where("team_id = ?", t.ID).
		Order("user_id ASC").
		Pluck("user_id", &ids).Error
	if err != nil {
		return wrap("list team members", err)
	}
	t.MemberIDs = ids
	return nil
}
