package models

import (
	"time"

	"gorm.io/gorm"
)

// Column represents a kanban board column (e.g., "todo", "review").
// Columns are ordered left to right by Order. Tasks point at the column id,
// so renaming a column never touches its tasks.
type Column struct {
	ID        string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	BoardID   string    `gorm:"type:varchar(36);not null;index" json:"boardId"`
	Name      string    `gorm:"type:varchar(50);not null" json:"name"`
	Order     int       `gorm:"column:position;not null;default:0" json:"order"`
	Stage     Stage     `gorm:"type:varchar(20);not null;default:''" json:"stage,omitempty"`
	Version   int       `gorm:"not null;default:1" json:"version"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Board *Board `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

func (c *Column) BeforeCreate(*gorm.DB) error {
	ensureID(&c.ID)
	ensureVersion(&c.Version)
	return nil
}
