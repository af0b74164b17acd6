package models

import "strings"

// ============================================================================
// PRIORITY CONSTANTS
// ============================================================================

// Priority is shared by projects and tasks
type Priority string

const (
	PriorityLow      Priority = "low"
	PriorityMedium   Priority = "medium"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

// Valid reports whether p is one of the known priorities
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical:
		return true
	}
	return false
}

// ParsePriority maps a priority string to a Priority
func ParsePriority(s string) (Priority, bool) {
	p := Priority(strings.ToLower(strings.TrimSpace(s)))
	return p, p.Valid()
}

// ============================================================================
// PROJECT STATUS CONSTANTS
// ============================================================================

// ProjectStatus is the lifecycle state of a project
type ProjectStatus string

const (
	ProjectActive    ProjectStatus = "active"
	ProjectPaused    ProjectStatus = "paused"
	ProjectCompleted ProjectStatus = "completed"
	ProjectArchived  ProjectStatus = "archived"
)

// Valid reports whether s is one of the known project statuses
func (s ProjectStatus) Valid() bool {
	switch s {
	case ProjectActive, ProjectPaused, ProjectCompleted, ProjectArchived:
		return true
	}
	return false
}

// ============================================================================
// COLUMN STAGE CONSTANTS
// ============================================================================

// Stage marks the workflow role of a column. Tasks reference columns by id,
// the stage lets the lifecycle find "the in-progress column" of a board
// regardless of how users renamed it.
type Stage string

const (
	StageNone       Stage = ""
	StageTodo       Stage = "todo"
	StageInProgress Stage = "in_progress"
	StageReview     Stage = "review"
	StageDone       Stage = "done"
)

// Valid reports whether s is a known stage (including none)
func (s Stage) Valid() bool {
	switch s {
	case StageNone, StageTodo, StageInProgress, StageReview, StageDone:
		return true
	}
	return false
}

// DefaultColumns are created for every new non-template board
var DefaultColumns = []struct {
	Name  string
	Stage Stage
}{
	{"todo", StageTodo},
	{"in_progress", StageInProgress},
	{"review", StageReview},
	{"done", StageDone},
}

// ============================================================================
// TASK DEFAULTS
// ============================================================================

// DefaultTaskType is used when a task is created without a type
const DefaultTaskType = "task"

// ============================================================================
// LIMITS
// ============================================================================

const (
	MaxNameLength    = 50
	MaxTitleLength   = 255
	MaxCommentLength = 5000

	// MaxUploadBytes caps avatar and attachment uploads
	MaxUploadBytes = 5 << 20
)
