package database

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/teamsync/teamsync/internal/models"
)

// CreateProject inserts a project and makes its owner a member
func (r *Repository) CreateProject(ctx context.Context, p *models.Project) error {
	return withTx(ctx, r.db, func(tx *gorm.DB) error {
		if err := tx.Create(p).Error; err != nil {
			return wrap("create project", err)
		}
		member := &models.ProjectMember{ProjectID: p.ID, UserID: p.OwnerID}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(member).Error; err != nil {
			return wrap("add project owner", err)
		}
		return nil
	})
}

// GetProject retrieves a project by id
func (r *Repository) GetProject(ctx context.Context, id string) (*models.Project, error) {
	var p models.Project
	if err := r.conn(ctx).First(&p, "id = ?", id).Error; err != nil {
		return nil, wrap("get project", err)
	}
	return &p, nil
}

// ListProjects returns projects newest first, filtered by status unless empty
func (r *Repository) ListProjects(ctx context.Context, status models.ProjectStatus) ([]*models.Project, error) {
	q := r.conn(ctx).Order("created_at DESC")
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var projects []*models.Project
	if err := q.Find(&projects).Error; err != nil {
		return nil, wrap("list projects", err)
	}
	return projects, nil
}

// UpdateProject applies fields with a version check
func (r *Repository) UpdateProject(ctx context.Context, id string, expectedVersion int, fields map[string]any) (*models.Project, error) {
	var p models.Project
	err := withTx(ctx, r.db, func(tx *gorm.DB) error {
		return casUpdate(tx, &models.Project{}, id, expectedVersion, fields, &p)
	})
	if err != nil {
		return nil, wrap("update project", err)
	}
	return &p, nil
}

// AddProjectMember adds a user to a project, existing members are kept
func (r *Repository) AddProjectMember(ctx context.Context, projectID, userID string) error {
	member := &models.ProjectMember{ProjectID: projectID, UserID: userID}
	if err := r.conn(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(member).Error; err != nil {
		return wrap("add project member", err)
	}
	return nil
}

// ListProjectMembers returns the user ids of a project's members
func (r *Repository) ListProjectMembers(ctx context.Context, projectID string) ([]string, error) {
	var ids []string
	err := r.conn(ctx).Model(&models.ProjectMember{}).
		Where("project_id = ?", projectID).
		Order("created_at ASC").
		Pluck("user_id", &ids).Error
	if err != nil {
		return nil, wrap("list project members", err)
	}
	return ids, nil
}

// casUpdate writes fields to the row id when its version matches, bumps the
// version and reloads the row into dest
func casUpdate(tx *gorm.DB, model any, id string, expectedVersion int, fields map[string]any, dest any) error {
	values := make(map[string]any, len(fields)+2)
	for k, v := range fields {
		values[k] = v
	}
	values["version"] = bumpVersion
	values["updated_at"] = time.Now().UTC()

	q := tx.Model(model).Where("id = ?", id)
	if expectedVersion > 0 {
		q = q.Where("version = ?", expectedVersion)
	}
	res := q.Updates(values)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return casFailure(tx, model, id)
	}
	return translate(tx.First(dest, "id = ?", id).Error)
}
