package models

import (
	"time"

	"gorm.io/gorm"
)

// History actions
const (
	ActionCreated      = "created"
	ActionUpdated      = "updated"
	ActionMoved        = "moved"
	ActionAccepted     = "accepted"
	ActionLabelAdded   = "label_added"
	ActionLabelRemoved = "label_removed"

	ActionSubtaskAdded      = "subtask_added"
	ActionSubtaskToggled    = "subtask_toggled"
	ActionSubtaskDeleted    = "subtask_deleted"
	ActionCommentAdded      = "comment_added"
	ActionCommentDeleted    = "comment_deleted"
	ActionObserverAdded     = "observer_added"
	ActionObserverRemoved   = "observer_removed"
	ActionAttachmentAdded   = "attachment_added"
	ActionAttachmentDeleted = "attachment_deleted"
)

// HistoryEntry is an immutable audit record of a change on a task
type HistoryEntry struct {
	ID        string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	TaskID    string    `gorm:"type:varchar(36);not null;index" json:"taskId"`
	UserID    string    `gorm:"type:varchar(36)" json:"userId"`
	Action    string    `gorm:"type:varchar(50);not null" json:"action"`
	FieldName string    `gorm:"type:varchar(50)" json:"fieldName,omitempty"`
	OldValue  string    `gorm:"type:text" json:"oldValue,omitempty"`
	NewValue  string    `gorm:"type:text" json:"newValue,omitempty"`
	CreatedAt time.Time `json:"createdAt"`

	Task *Task `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

// TableName return the real table name
func (HistoryEntry) TableName() string {
	return "task_history"
}

func (h *HistoryEntry) BeforeCreate(*gorm.DB) error {
	ensureID(&h.ID)
	return nil
}
