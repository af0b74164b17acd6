package models

import "time"

// TaskObserver is a user watching a task
type TaskObserver struct {
	TaskID    string    `gorm:"type:varchar(36);primaryKey" json:"taskId"`
	UserID    string    `gorm:"type:varchar(36);primaryKey" json:"userId"`
	CreatedAt time.Time `json:"createdAt"`

	Task *Task `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}
