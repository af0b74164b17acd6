package models

import (
	"time"

	"gorm.io/gorm"
)

// User is a team member who can log in
type User struct {
	ID           string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	Email        string    `gorm:"type:varchar(255);not null;uniqueIndex" json:"email"`
	Name         string    `gorm:"type:varchar(255);not null" json:"name"`
	PasswordHash string    `gorm:"type:varchar(255)" json:"-"`
	AvatarURL    string    `gorm:"type:text" json:"avatarUrl,omitempty"`
	Department   string    `gorm:"type:varchar(255)" json:"department,omitempty"`
	Points       int       `gorm:"not null;default:0" json:"points"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`

	// Roles is filled by the user repository
	Roles []*Role `gorm:"-" json:"roles,omitempty"`
}

func (u *User) BeforeCreate(*gorm.DB) error {
	ensureID(&u.ID)
	return nil
}

// Can reports whether any of the user's roles grants p
func (u *User) Can(p Permission) bool {
	for _, r := range u.Roles {
		if r.Has(p) {
			return true
		}
	}
	return false
}
