package database

import (
	"context"

	"gorm.io/gorm"

	"github.com/teamsync/teamsync/internal/models"
)

// CreateTask inserts a task
func (r *Repository) CreateTask(ctx context.Context, t *models.Task) error {
	if err := r.conn(ctx).Omit("Board", "Column").Create(t).Error; err != nil {
		return wrap("create task", err)
	}
	return r.resolveStatus(ctx, t)
}

// GetTask retrieves a task with its status resolved from the column
func (r *Repository) GetTask(ctx context.Context, id string) (*models.Task, error) {
	var t models.Task
	if err := r.conn(ctx).Preload("Column").First(&t, "id = ?", id).Error; err != nil {
		return nil, wrap("get task", err)
	}
	withStatus(&t)
	return &t, nil
}

// ListTasksByBoard returns every task of a board ordered within its column
func (r *Repository) ListTasksByBoard(ctx context.Context, boardID string) ([]*models.Task, error) {
	var tasks []*models.Task
	err := orderedByPosition(r.conn(ctx).Preload("Column").Where("board_id = ?", boardID)).Find(&tasks).Error
	if err != nil {
		return nil, wrap("list tasks", err)
	}
	for _, t := range tasks {
		withStatus(t)
	}
	return tasks, nil
}

// ListTasksByColumn returns the tasks of one column in display order
func (r *Repository) ListTasksByColumn(ctx context.Context, columnID string) ([]*models.Task, error) {
	var tasks []*models.Task
	err := orderedByPosition(r.conn(ctx).Preload("Column").Where("column_id = ?", columnID)).Find(&tasks).Error
	if err != nil {
		return nil, wrap("list column tasks", err)
	}
	for _, t := range tasks {
		withStatus(t)
	}
	return tasks, nil
}

// CountTasksInColumn returns how many tasks a column holds
func (r *Repository) CountTasksInColumn(ctx context.Context, columnID string) (int, error) {
	var n int64
	if err := r.conn(ctx).Model(&models.Task{}).Where("column_id = ?", columnID).Count(&n).Error; err != nil {
		return 0, wrap("count tasks", err)
	}
	return int(n), nil
}

// UpdateTask applies fields with a version check
func (r *Repository) UpdateTask(ctx context.Context, id string, expectedVersion int, fields map[string]any) (*models.Task, error) {
	fields, err := encodeJSONFields(fields, "tags")
	if err != nil {
		return nil, wrap("update task", err)
	}

	var t models.Task
	err = withTx(ctx, r.db, func(tx *gorm.DB) error {
		return casUpdate(tx, &models.Task{}, id, expectedVersion, fields, &t)
	})
	if err != nil {
		return nil, wrap("update task", err)
	}
	if err := r.resolveStatus(ctx, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

// PlaceTasks stores the column and dense positions of taskIDs. Tasks that
// change column get a new version.
func (r *Repository) PlaceTasks(ctx context.Context, columnID string, taskIDs []string) error {
	return withTx(ctx, r.db, func(tx *gorm.DB) error {
		for i, id := range taskIDs {
			err := tx.Model(&models.Task{}).
				Where("id = ? AND column_id <> ?", id, columnID).
				Update("version", bumpVersion).Error
			if err != nil {
				return wrap("bump task version", err)
			}
			res := tx.Model(&models.Task{}).Where("id = ?", id).
				Updates(map[string]any{"column_id": columnID, "position": i})
			if res.Error != nil {
				return wrap("place task", res.Error)
			}
			if res.RowsAffected == 0 {
				return wrap("place task "+id, models.ErrNotFound)
			}
		}
		return nil
	})
}

// DeleteTask removes a task, owned rows go with it through cascades
func (r *Repository) DeleteTask(ctx context.Context, id string) error {
	res := r.conn(ctx).Delete(&models.Task{}, "id = ?", id)
	if res.Error != nil {
		return wrap("delete task", res.Error)
	}
	if res.RowsAffected == 0 {
		return wrap("delete task", models.ErrNotFound)
	}
	return nil
}

func (r *Repository) resolveStatus(ctx context.Context, t *models.Task) error {
	var col models.Column
	if err := r.conn(ctx).First(&col, "id = ?", t.ColumnID).Error; err != nil {
		return wrap("resolve task status", err)
	}
	t.Column = &col
	withStatus(t)
	return nil
}

func withStatus(t *models.Task) {
	if t.Column != nil {
		t.Status = t.Column.Name
	}
}

// ============================================================================
// SUBTASKS
// ============================================================================

// CreateSubtask appends a subtask to the end of its task's checklist
func (r *Repository) CreateSubtask(ctx context.Context, s *models.Subtask) error {
	return withTx(ctx, r.db, func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&models.Subtask{}).Where("task_id = ?", s.TaskID).Count(&n).Error; err != nil {
			return wrap("count subtasks", err)
		}
		s.Order = int(n)
		if err := tx.Omit("Task").Create(s).Error; err != nil {
			return wrap("create subtask", err)
		}
		return nil
	})
}

// GetSubtask retrieves a subtask by id
func (r *Repository) GetSubtask(ctx context.Context, id string) (*models.Subtask, error) {
	var s models.Subtask
	if err := r.conn(ctx).First(&s, "id = ?", id).Error; err != nil {
		return nil, wrap("get subtask", err)
	}
	return &s, nil
}

// ListSubtasks returns the checklist of a task in order
func (r *Repository) ListSubtasks(ctx context.Context, taskID string) ([]*models.Subtask, error) {
	var subtasks []*models.Subtask
	err := orderedByPosition(r.conn(ctx).Where("task_id = ?", taskID)).Find(&subtasks).Error
	if err != nil {
		return nil, wrap("list subtasks", err)
	}
	return subtasks, nil
}

// UpdateSubtask applies fields to a subtask
func (r *Repository) UpdateSubtask(ctx context.Context, id string, fields map[string]any) (*models.Subtask, error) {
	res := r.conn(ctx).Model(&models.Subtask{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return nil, wrap("update subtask", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, wrap("update subtask", models.ErrNotFound)
	}
	return r.GetSubtask(ctx, id)
}

// DeleteSubtask removes a subtask
func (r *Repository) DeleteSubtask(ctx context.Context, id string) error {
	res := r.conn(ctx).Delete(&models.Subtask{}, "id = ?", id)
	if res.Error != nil {
		return wrap("delete subtask", res.Error)
	}
	if res.RowsAffected == 0 {
		return wrap("delete subtask", models.ErrNotFound)
	}
	return nil
}
