package models

import (
	"time"

	"gorm.io/gorm"
)

// Permission is a feature area a role grants access to
type Permission string

const (
	PermDashboard Permission = "dashboard"
	PermProjects  Permission = "projects"
	PermTasks     Permission = "tasks"
	PermCalendar  Permission = "calendar"
	PermChat      Permission = "chat"
	PermTeam      Permission = "team"
	PermShop      Permission = "shop"
	PermAdmin     Permission = "admin"
)

// AllPermissions lists every permission in display order
var AllPermissions = []Permission{
	PermDashboard, PermProjects, PermTasks, PermCalendar,
	PermChat, PermTeam, PermShop, PermAdmin,
}

// Valid reports whether p is a known permission
func (p Permission) Valid() bool {
	for _, known := range AllPermissions {
		if p == known {
			return true
		}
	}
	return false
}

// Built-in role names
const (
	RoleAdministrator = "Administrator"
	RoleMember        = "Member"
)

// Role groups permissions. System roles are seeded and cannot be edited.
type Role struct {
	ID          string       `gorm:"type:varchar(36);primaryKey" json:"id"`
	Name        string       `gorm:"type:varchar(100);not null;uniqueIndex" json:"name"`
	Permissions []Permission `gorm:"type:text;serializer:json" json:"permissions"`
	IsSystem    bool         `gorm:"not null;default:false" json:"isSystem"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
}

func (r *Role) BeforeCreate(*gorm.DB) error {
	ensureID(&r.ID)
	if r.Permissions == nil {
		r.Permissions = []Permission{}
	}
	return nil
}

// Has reports whether the role grants p
func (r *Role) Has(p Permission) bool {
	for _, granted := range r.Permissions {
		if granted == p {
			return true
		}
	}
	return false
}

// UserRole assigns a role to a user
type UserRole struct {
	UserID string `gorm:"type:varchar(36);primaryKey" json:"userId"`
	RoleID string `gorm:"type:varchar(36);primaryKey" json:"roleId"`

	User *User `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Role *Role `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}
