package database

import (
	"context"

	"github.com/teamsync/teamsync/internal/models"
)

// CreateComment inserts a comment
func (r *Repository) CreateComment(ctx context.Context, c *models.Comment) error {
	if err := r.conn(ctx).Omit("Task").Create(c).Error; err != nil {
		return wrap("create comment", err)
	}
	return nil
}

// GetComment retrieves a comment by id
func (r *Repository) GetComment(ctx context.Context, id string) (*models.Comment, error) {
	var c models.Comment
	if err := r.conn(ctx).First(&c, "id = ?", id).Error; err != nil {
		return nil, wrap("get comment", err)
	}
	return &c, nil
}

// ListComments returns a task's comments oldest first
func (r *Repository) ListComments(ctx context.Context, taskID string) ([]*models.Comment, error) {
	var comments []*models.Comment
	err := r.conn(ctx).Where("task_id = ?", taskID).Order("created_at ASC").Find(&comments).Error
	if err != nil {
		return nil, wrap("list comments", err)
	}
	return comments, nil
}

// DeleteComment removes a comment
func (r *Repository) DeleteComment(ctx context.Context, id string) error {
	res := r.conn(ctx).Delete(&models.Comment{}, "id = ?", id)
	if res.Error != nil {
		return wrap("delete comment", res.Error)
	}
	if res.RowsAffected == 0 {
		return wrap("delete comment", models.ErrNotFound)
	}
	return nil
}

// ============================================================================
// ATTACHMENTS
// ============================================================================

// CreateAttachment inserts an attachment
func (r *Repository) CreateAttachment(ctx context.Context, a *models.Attachment) error {
	if err := r.conn(ctx).Omit("Task").Create(a).Error; err != nil {
		return wrap("create attachment", err)
	}
	return nil
}

// GetAttachment retrieves an attachment including its data
func (r *Repository) GetAttachment(ctx context.Context, id string) (*models.Attachment, error) {
	var a models.Attachment
	if err := r.conn(ctx).First(&a, "id = ?", id).Error; err != nil {
		return nil, wrap("get attachment", err)
	}
	return &a, nil
}

// ListAttachments returns a task's attachments without their data
func (r *Repository) ListAttachments(ctx context.Context, taskID string) ([]*models.Attachment, error) {
	var attachments []*models.Attachment
	err := r.conn(ctx).Omit("data_url").
		Where("task_id = ?", taskID).
		Order("created_at ASC").
		Find(&attachments).Error
	if err != nil {
		return nil, wrap("list attachments", err)
	}
	return attachments, nil
}

// DeleteAttachment removes an attachment
func (r *Repository) DeleteAttachment(ctx context.Context, id string) error {
	res := r.conn(ctx).Delete(&models.Attachment{}, "id = ?", id)
	if res.Error != nil {
		return wrap("delete attachment", res.Error)
	}
	if res.RowsAffected == 0 {
		return wrap("delete attachment", models.ErrNotFound)
	}
	return nil
}
