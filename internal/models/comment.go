package models

import (
	"time"

	"gorm.io/gorm"
)

// FileMeta describes a file attached to a comment
type FileMeta struct {
	Name string `json:"name"`
	Size int64  `json:"size"`
	Type string `json:"type"`
	Data string `json:"data,omitempty"`
}

// Comment represents a note/comment on a task
type Comment struct {
	ID          string     `gorm:"type:varchar(36);primaryKey" json:"id"`
	TaskID      string     `gorm:"type:varchar(36);not null;index" json:"taskId"`
	AuthorID    string     `gorm:"type:varchar(36);not null" json:"authorId"`
	Content     string     `gorm:"type:text;not null" json:"content"`
	Attachments []FileMeta `gorm:"type:text;serializer:json" json:"attachments"`
	CreatedAt   time.Time  `json:"createdAt"`

	Task *Task `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

func (c *Comment) BeforeCreate(*gorm.DB) error {
	ensureID(&c.ID)
	if c.Attachments == nil {
		c.Attachments = []FileMeta{}
	}
	return nil
}

// Attachment is a file uploaded directly to a task, stored as a data URL
type Attachment struct {
	ID         string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	TaskID     string    `gorm:"type:varchar(36);not null;index" json:"taskId"`
	UploaderID string    `gorm:"type:varchar(36);not null" json:"uploaderId"`
	Name       string    `gorm:"type:varchar(255);not null" json:"name"`
	Size       int64     `gorm:"not null" json:"size"`
	MimeType   string    `gorm:"type:varchar(255)" json:"mimeType"`
	DataURL    string    `gorm:"type:text" json:"dataUrl,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`

	Task *Task `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

func (a *Attachment) BeforeCreate(*gorm.DB) error {
	ensureID(&a.ID)
	return nil
}
