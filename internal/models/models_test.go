package models

import (
	"errors"
	"fmt"
	"testing"
	"time"
)

// ============================================================================
// Error Tests
// ============================================================================

func TestErrors_Unique(t *testing.T) {
	kinds := []error{ErrInvalid, ErrNotFound, ErrDuplicate, ErrConflict, ErrForbidden, ErrUnauthorized}
	for i, a := range kinds {
		for j, b := range kinds {
			if i != j && errors.Is(a, b) {
				t.Errorf("%v should not match %v", a, b)
			}
		}
	}
}

func TestErrors_WrappedKind(t *testing.T) {
	err := fmt.Errorf("%w: title cannot be empty", ErrInvalid)
	if !errors.Is(err, ErrInvalid) {
		t.Error("wrapped error should match ErrInvalid")
	}
	if errors.Is(err, ErrNotFound) {
		t.Error("wrapped error should not match ErrNotFound")
	}
}

// ============================================================================
// Progress Tests
// ============================================================================

func TestProgress(t *testing.T) {
	tests := []struct {
		name     string
		subtasks []*Subtask
		want     int
	}{
		{"no subtasks", nil, 0},
		{"none completed", []*Subtask{{}, {}}, 0},
		{"half completed", []*Subtask{{Completed: true}, {}}, 50},
		{"all completed", []*Subtask{{Completed: true}, {Completed: true}}, 100},
		{"one of three", []*Subtask{{Completed: true}, {}, {}}, 33},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Progress(tt.subtasks); got != tt.want {
				t.Errorf("Progress() = %d, want %d", got, tt.want)
			}
		})
	}
}

// ============================================================================
// Task Tests
// ============================================================================

func TestTask_TimeSpent(t *testing.T) {
	task := &Task{}
	if task.TimeSpent(time.Now()) != 0 {
		t.Error("unaccepted task should have no time spent")
	}

	start := time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)
	task.StartTime = &start
	if got := task.TimeSpent(start.Add(90 * time.Minute)); got != 90*time.Minute {
		t.Errorf("TimeSpent() = %v, want 1h30m", got)
	}
}

func TestTask_CloneIsDeep(t *testing.T) {
	assignee := "u1"
	task := &Task{Title: "a", Tags: []string{"bug"}, AssigneeID: &assignee}

	clone := task.Clone()
	clone.Tags[0] = "feature"
	*clone.AssigneeID = "u2"

	if task.Tags[0] != "bug" {
		t.Error("clone should not share the tags slice")
	}
	if *task.AssigneeID != "u1" {
		t.Error("clone should not share the assignee pointer")
	}
}

func TestTask_HasTag(t *testing.T) {
	task := &Task{Tags: []string{"bug", "ui"}}
	if !task.HasTag("ui") {
		t.Error("expected tag ui")
	}
	if task.HasTag("backend") {
		t.Error("unexpected tag backend")
	}
}

// ============================================================================
// Enum Tests
// ============================================================================

func TestParsePriority(t *testing.T) {
	if p, ok := ParsePriority(" HIGH "); !ok || p != PriorityHigh {
		t.Errorf("ParsePriority(HIGH) = %q, %v", p, ok)
	}
	if _, ok := ParsePriority("trivial"); ok {
		t.Error("trivial is not a TeamSync priority")
	}
}

func TestPermission_Valid(t *testing.T) {
	for _, p := range AllPermissions {
		if !p.Valid() {
			t.Errorf("%q should be valid", p)
		}
	}
	if Permission("billing").Valid() {
		t.Error("billing should not be valid")
	}
}

func TestUser_Can(t *testing.T) {
	u := &User{Roles: []*Role{{Name: RoleMember, Permissions: []Permission{PermTasks}}}}
	if !u.Can(PermTasks) {
		t.Error("member should have tasks permission")
	}
	if u.Can(PermAdmin) {
		t.Error("member should not have admin permission")
	}
}
