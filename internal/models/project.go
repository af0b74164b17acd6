package models

import (
	"time"

	"gorm.io/gorm"
)

// Project is the top-level container for boards
type Project struct {
	ID          string        `gorm:"type:varchar(36);primaryKey" json:"id"`
	Name        string        `gorm:"type:varchar(255);not null" json:"name"`
	Description string        `gorm:"type:text" json:"description"`
	OwnerID     string        `gorm:"type:varchar(36);not null;index" json:"ownerId"`
	Department  string        `gorm:"type:varchar(255)" json:"department,omitempty"`
	Status      ProjectStatus `gorm:"type:varchar(20);not null;default:active" json:"status"`
	Priority    Priority      `gorm:"type:varchar(20);not null;default:medium" json:"priority"`
	Color       string        `gorm:"type:varchar(7)" json:"color"`
	Version     int           `gorm:"not null;default:1" json:"version"`
	CreatedAt   time.Time     `json:"createdAt"`
	UpdatedAt   time.Time     `json:"updatedAt"`

	Owner *User `gorm:"foreignKey:OwnerID" json:"-"`
}

func (p *Project) BeforeCreate(*gorm.DB) error {
	ensureID(&p.ID)
	ensureVersion(&p.Version)
	if p.Status == "" {
		p.Status = ProjectActive
	}
	if p.Priority == "" {
		p.Priority = PriorityMedium
	}
	return nil
}

// ProjectMember links users to the projects they belong to
type ProjectMember struct {
	ProjectID string    `gorm:"type:varchar(36);primaryKey" json:"projectId"`
	UserID    string    `gorm:"type:varchar(36);primaryKey" json:"userId"`
	CreatedAt time.Time `json:"createdAt"`

	Project *Project `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	User    *User    `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}
