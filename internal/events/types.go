package events

import "time"

// EventType indicates what kind of change occurred
type EventType string

const (
	EventTaskChanged    EventType = "task_changed"
	EventBoardChanged   EventType = "board_changed"
	EventProjectChanged EventType = "project_changed"
)

// Origins of an event
const (
	// OriginService marks writes made by the lifecycle services
	OriginService = "service"
	// OriginEngine marks writes made by the board ordering engine, whose
	// cached state is already up to date
	OriginEngine = "engine"
)

// Event represents a change notification
type Event struct {
	Type       EventType `json:"type"`
	ProjectID  string    `json:"projectId,omitempty"`
	BoardID    string    `json:"boardId,omitempty"`
	TaskID     string    `json:"taskId,omitempty"`
	Origin     string    `json:"origin,omitempty"`
	Instance   string    `json:"instance,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
	SequenceID int64     `json:"sequenceId"` // Monotonically increasing sequence number for ordering
}
