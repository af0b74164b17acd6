package models

import (
	"time"

	"gorm.io/gorm"
)

// Board is a kanban board inside a project. Template boards are never
// instantiated themselves, new boards copy their columns.
type Board struct {
	ID         string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	ProjectID  string    `gorm:"type:varchar(36);not null;index" json:"projectId"`
	Name       string    `gorm:"type:varchar(255);not null" json:"name"`
	IsTemplate bool      `gorm:"not null;default:false" json:"isTemplate"`
	TemplateID *string   `gorm:"type:varchar(36)" json:"templateId,omitempty"`
	Version    int       `gorm:"not null;default:1" json:"version"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`

	Project *Project `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

func (b *Board) BeforeCreate(*gorm.DB) error {
	ensureID(&b.ID)
	ensureVersion(&b.Version)
	return nil
}
