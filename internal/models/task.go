package models

import (
	"time"

	"gorm.io/gorm"
)

// Task represents a single task on a kanban board
type Task struct {
	ID          string     `gorm:"type:varchar(36);primaryKey" json:"id"`
	BoardID     string     `gorm:"type:varchar(36);not null;index" json:"boardId"`
	ColumnID    string     `gorm:"type:varchar(36);not null;index:idx_tasks_column" json:"columnId"`
	Title       string     `gorm:"type:varchar(255);not null" json:"title"`
	Description string     `gorm:"type:text" json:"description"`
	AssigneeID  *string    `gorm:"type:varchar(36);index" json:"assigneeId,omitempty"`
	ReporterID  string     `gorm:"type:varchar(36);not null" json:"reporterId"`
	Priority    Priority   `gorm:"type:varchar(20);not null;default:medium" json:"priority"`
	Type        string     `gorm:"type:varchar(50);not null;default:task" json:"type"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
	Order       int        `gorm:"column:position;not null;default:0;index:idx_tasks_column" json:"order"`
	Tags        []string   `gorm:"type:text;serializer:json" json:"tags"`
	IsAccepted  bool       `gorm:"not null;default:false" json:"isAccepted"`
	StartTime   *time.Time `json:"startTime,omitempty"`
	Version     int        `gorm:"not null;default:1" json:"version"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`

	// Status is the name of the current column, resolved on read
	Status string `gorm:"-" json:"status"`

	Board  *Board  `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Column *Column `gorm:"foreignKey:ColumnID" json:"-"`
}

func (t *Task) BeforeCreate(*gorm.DB) error {
	ensureID(&t.ID)
	ensureVersion(&t.Version)
	if t.Priority == "" {
		t.Priority = PriorityMedium
	}
	if t.Type == "" {
		t.Type = DefaultTaskType
	}
	if t.Tags == nil {
		t.Tags = []string{}
	}
	return nil
}

// HasTag reports whether the task carries the label name
func (t *Task) HasTag(name string) bool {
	for _, tag := range t.Tags {
		if tag == name {
			return true
		}
	}
	return false
}

// TimeSpent is the elapsed time since the task was accepted
func (t *Task) TimeSpent(now time.Time) time.Duration {
	if t.StartTime == nil {
		return 0
	}
	return now.Sub(*t.StartTime)
}

// Clone returns a deep copy suitable as a rollback pre-image
func (t *Task) Clone() *Task {
	c := *t
	if t.Tags != nil {
		c.Tags = append([]string{}, t.Tags...)
	}
	if t.AssigneeID != nil {
		a := *t.AssigneeID
		c.AssigneeID = &a
	}
	if t.DueDate != nil {
		d := *t.DueDate
		c.DueDate = &d
	}
	if t.StartTime != nil {
		s := *t.StartTime
		c.StartTime = &s
	}
	return &c
}

// TaskDetail is the full task view including owned collections
type TaskDetail struct {
	*Task
	Subtasks  []*Subtask      `json:"subtasks"`
	Comments  []*Comment      `json:"comments"`
	Observers []*TaskObserver `json:"observers"`
	Progress  int             `json:"progress"`
}

// Subtask is a checklist item owned by a task
type Subtask struct {
	ID        string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	TaskID    string    `gorm:"type:varchar(36);not null;index" json:"taskId"`
	Title     string    `gorm:"type:varchar(255);not null" json:"title"`
	Completed bool      `gorm:"not null;default:false" json:"completed"`
	Order     int       `gorm:"column:position;not null;default:0" json:"order"`
	CreatedAt time.Time `json:"createdAt"`

	Task *Task `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

func (s *Subtask) BeforeCreate(*gorm.DB) error {
	ensureID(&s.ID)
	return nil
}

// Progress returns the percentage of completed subtasks, 0 for none
func Progress(subtasks []*Subtask) int {
	if len(subtasks) == 0 {
		return 0
	}
	done := 0
	for _, s := range subtasks {
		if s.Completed {
			done++
		}
	}
	return done * 100 / len(subtasks)
}
