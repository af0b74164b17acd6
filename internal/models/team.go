package models

import (
	"time"

	"gorm.io/gorm"
)

// Team is a named group of users
type Team struct {
	ID          string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	Name        string    `gorm:"type:varchar(255);not null;uniqueIndex" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	CreatedAt   time.Time `json:"createdAt"`

	// MemberIDs is filled by the team repository
	MemberIDs []string `gorm:"-" json:"memberIds"`
}

func (t *Team) BeforeCreate(*gorm.DB) error {
	ensureID(&t.ID)
	return nil
}

// TeamMember links users to teams
type TeamMember struct {
	TeamID string `gorm:"type:varchar(36);primaryKey" json:"teamId"`
	UserID string `gorm:"type:varchar(36);primaryKey" json:"userId"`

	Team *Team `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	User *User `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}
