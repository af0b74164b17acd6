package database

import (
	"context"
	"time"

	"gorm.io/gorm/clause"

	"github.com/teamsync/teamsync/internal/models"
)

// GetSetting retrieves a setting by key
func (r *Repository) GetSetting(ctx context.Context, key string) (*models.Setting, error) {
	var s models.Setting
	if err := r.conn(ctx).First(&s, "key = ?", key).Error; err != nil {
		return nil, wrap("get setting", err)
	}
	return &s, nil
}

// SetSetting creates or overwrites a setting
func (r *Repository) SetSetting(ctx context.Context, key, value string) (*models.Setting, error) {
	s := &models.Setting{Key: key, Value: value, UpdatedAt: time.Now().UTC()}
	err := r.conn(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(s).Error
	if err != nil {
		return nil, wrap("set setting", err)
	}
	return s, nil
}

// ListSettings returns all settings ordered by key
func (r *Repository) ListSettings(ctx context.Context) ([]*models.Setting, error) {
	var settings []*models.Setting
	if err := r.conn(ctx).Order("key ASC").Find(&settings).Error; err != nil {
		return nil, wrap("list settings", err)
	}
	return settings, nil
}
