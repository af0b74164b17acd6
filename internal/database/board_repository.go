package database

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/teamsync/teamsync/internal/models"
)

// CreateBoard inserts a board together with its initial columns
func (r *Repository) CreateBoard(ctx context.Context, b *models.Board, columns []*models.Column) error {
	return withTx(ctx, r.db, func(tx *gorm.DB) error {
		if err := tx.Create(b).Error; err != nil {
			return wrap("create board", err)
		}
		for i, col := range columns {
			col.BoardID = b.ID
			col.Order = i
			if err := tx.Create(col).Error; err != nil {
				return wrap("create column", err)
			}
		}
		return nil
	})
}

// GetBoard retrieves a board by id
func (r *Repository) GetBoard(ctx context.Context, id string) (*models.Board, error) {
	var b models.Board
	if err := r.conn(ctx).First(&b, "id = ?", id).Error; err != nil {
		return nil, wrap("get board", err)
	}
	return &b, nil
}

// ListBoards returns the boards of a project in creation order
func (r *Repository) ListBoards(ctx context.Context, projectID string) ([]*models.Board, error) {
	var boards []*models.Board
	err := r.conn(ctx).Where("project_id = ?", projectID).Order("created_at ASC").Find(&boards).Error
	if err != nil {
		return nil, wrap("list boards", err)
	}
	return boards, nil
}

// TouchBoard bumps the board version after a layout change
func (r *Repository) TouchBoard(ctx context.Context, id string) error {
	res := r.conn(ctx).Model(&models.Board{}).Where("id = ?", id).
		Updates(map[string]any{"version": bumpVersion, "updated_at": time.Now().UTC()})
	if res.Error != nil {
		return wrap("touch board", res.Error)
	}
	if res.RowsAffected == 0 {
		return wrap("touch board", models.ErrNotFound)
	}
	return nil
}

// ============================================================================
// COLUMNS
// ============================================================================

// ListColumns returns the columns of a board left to right
func (r *Repository) ListColumns(ctx context.Context, boardID string) ([]*models.Column, error) {
	var cols []*models.Column
	err := orderedByPosition(r.conn(ctx).Where("board_id = ?", boardID)).Find(&cols).Error
	if err != nil {
		return nil, wrap("list columns", err)
	}
	return cols, nil
}

// GetColumn retrieves a column by id
func (r *Repository) GetColumn(ctx context.Context, id string) (*models.Column, error) {
	var c models.Column
	if err := r.conn(ctx).First(&c, "id = ?", id).Error; err != nil {
		return nil, wrap("get column", err)
	}
	return &c, nil
}

// SyncColumns makes the stored columns of a board match columns
func (r *Repository) SyncColumns(ctx context.Context, boardID string, columns []*models.Column) error {
	return withTx(ctx, r.db, func(tx *gorm.DB) error {
		var existing []*models.Column
		if err := tx.Where("board_id = ?", boardID).Find(&existing).Error; err != nil {
			return wrap("load columns", err)
		}
		stored := make(map[string]*models.Column, len(existing))
		for _, c := range existing {
			stored[c.ID] = c
		}

		keep := make(map[string]bool, len(columns))
		for i, col := range columns {
			keep[col.ID] = true
			col.BoardID = boardID
			col.Order = i

			old, ok := stored[col.ID]
			if !ok {
				if err := tx.Create(col).Error; err != nil {
					return wrap("create column", err)
				}
				continue
			}
			if old.Name == col.Name && old.Stage == col.Stage && old.Order == col.Order {
				continue
			}
			err := tx.Model(&models.Column{}).Where("id = ?", col.ID).Updates(map[string]any{
				"name":       col.Name,
				"stage":      col.Stage,
				"position":   col.Order,
				"version":    bumpVersion,
				"updated_at": time.Now().UTC(),
			}).Error
			if err != nil {
				return wrap("update column", err)
			}
		}

		for id := range stored {
			if keep[id] {
				continue
			}
			if err := tx.Delete(&models.Column{}, "id = ?", id).Error; err != nil {
				return wrap("delete column", err)
			}
		}
		return nil
	})
}
