package database

import (
	"context"

	"gorm.io/gorm/clause"

	"github.com/teamsync/teamsync/internal/models"
)

// AddObserver subscribes a user to a task
func (r *Repository) AddObserver(ctx context.Context, taskID, userID string) (bool, error) {
	obs := &models.TaskObserver{TaskID: taskID, UserID: userID}
	res := r.conn(ctx).Omit("Task").Clauses(clause.OnConflict{DoNothing: true}).Create(obs)
	if res.Error != nil {
		return false, wrap("add observer", res.Error)
	}
	return res.RowsAffected > 0, nil
}

// RemoveObserver unsubscribes a user from a task
func (r *Repository) RemoveObserver(ctx context.Context, taskID, userID string) (bool, error) {
	res := r.conn(ctx).Delete(&models.TaskObserver{}, "task_id = ? AND user_id = ?", taskID, userID)
	if res.Error != nil {
		return false, wrap("remove observer", res.Error)
	}
	return res.RowsAffected > 0, nil
}

// ListObservers returns the observers of a task in subscription order
func (r *Repository) ListObservers(ctx context.Context, taskID string) ([]*models.TaskObserver, error) {
	var observers []*models.TaskObserver
	err := r.conn(ctx).Where("task_id = ?", taskID).Order("created_at ASC").Find(&observers).Error
	if err != nil {
		return nil, wrap("list observers", err)
	}
	return observers, nil
}

// ============================================================================
// HISTORY
// ============================================================================

// AppendHistory records audit entries. Entries are never updated.
func (r *Repository) AppendHistory(ctx context.Context, entries ...*models.HistoryEntry) error {
	if len(entries) == 0 {
		return nil
	}
	if err := r.conn(ctx).Omit("Task").Create(entries).Error; err != nil {
		return wrap("append history", err)
	}
	return nil
}

// ListHistory returns a task's audit trail oldest first
func (r *Repository) ListHistory(ctx context.Context, taskID string) ([]*models.HistoryEntry, error) {
	var entries []*models.HistoryEntry
	err := r.conn(ctx).Where("task_id = ?", taskID).Order("created_at ASC").Find(&entries).Error
	if err != nil {
		return nil, wrap("list history", err)
	}
	return entries, nil
}
