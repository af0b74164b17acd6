package project

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/teamsync/teamsync/internal/events"
	"github.com/teamsync/teamsync/internal/models"
	"github.com/teamsync/teamsync/internal/testutil"
)

// ============================================================================
// TEST HELPERS
// ============================================================================

func setup(t *testing.T) (Service, *models.User, *events.Recorder) {
	t.Helper()
	_, repo := testutil.SetupTestDB(t)
	rec := &events.Recorder{}
	owner := testutil.CreateTestUser(t, repo, "owner@example.com")
	return NewService(repo, rec), owner, rec
}

func strPtr(s string) *string { return &s }

// ============================================================================
// CREATE
// ============================================================================

func TestCreateProject_OwnerBecomesMember(t *testing.T) {
	svc, owner, rec := setup(t)
	ctx := context.Background()

	p, err := svc.CreateProject(ctx, CreateProjectRequest{Name: "  Apollo ", OwnerID: owner.ID, Color: "#1A2b3C"})
	if err != nil {
		t.Fatalf("CreateProject() error = %v", err)
	}
	if p.Name != "Apollo" {
		t.Errorf("Name = %q, want Apollo", p.Name)
	}
	if p.Status != models.ProjectActive || p.Priority != models.PriorityMedium {
		t.Errorf("defaults = %s/%s, want active/medium", p.Status, p.Priority)
	}

	members, err := svc.ListMembers(ctx, p.ID)
	if err != nil {
		t.Fatalf("ListMembers() error = %v", err)
	}
	if len(members) != 1 || members[0] != owner.ID {
		t.Errorf("members = %v, want [%s]", members, owner.ID)
	}

	evs := rec.Events()
	if len(evs) != 1 || evs[0].Type != events.EventProjectChanged || evs[0].ProjectID != p.ID {
		t.Errorf("events = %+v, want one project change", evs)
	}
}

func TestCreateProject_Validation(t *testing.T) {
	svc, owner, _ := setup(t)
	ctx := context.Background()

	tests := []struct {
		name string
		req  CreateProjectRequest
		want error
	}{
		{"empty name", CreateProjectRequest{Name: " ", OwnerID: owner.ID}, ErrEmptyName},
		{"long name", CreateProjectRequest{Name: strings.Repeat("p", 256), OwnerID: owner.ID}, ErrNameTooLong},
		{"no owner", CreateProjectRequest{Name: "x"}, ErrInvalidOwnerID},
		{"bad status", CreateProjectRequest{Name: "x", OwnerID: owner.ID, Status: "frozen"}, ErrInvalidStatus},
		{"bad priority", CreateProjectRequest{Name: "x", OwnerID: owner.ID, Priority: "meh"}, ErrInvalidPriority},
		{"bad color", CreateProjectRequest{Name: "x", OwnerID: owner.ID, Color: "red"}, ErrInvalidColor},
		{"short color", CreateProjectRequest{Name: "x", OwnerID: owner.ID, Color: "#fff"}, ErrInvalidColor},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateProject(ctx, tt.req)
			if !errors.Is(err, tt.want) {
				t.Errorf("error = %v, want %v", err, tt.want)
			}
			if !errors.Is(err, models.ErrInvalid) {
				t.Errorf("error %v should be a validation error", err)
			}
		})
	}

	if _, err := svc.CreateProject(ctx, CreateProjectRequest{Name: "x", OwnerID: "ghost"}); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("unknown owner error = %v, want not found", err)
	}
}

// ============================================================================
// UPDATE
// ============================================================================

func TestUpdateProject(t *testing.T) {
	svc, owner, _ := setup(t)
	ctx := context.Background()

	p, err := svc.CreateProject(ctx, CreateProjectRequest{Name: "Apollo", OwnerID: owner.ID})
	if err != nil {
		t.Fatalf("CreateProject() error = %v", err)
	}

	updated, err := svc.UpdateProject(ctx, UpdateProjectRequest{
		ID:              p.ID,
		ExpectedVersion: p.Version,
		Status:          strPtr("Paused"),
		Priority:        strPtr("high"),
		Color:           strPtr("#00ff00"),
	})
	if err != nil {
		t.Fatalf("UpdateProject() error = %v", err)
	}
	if updated.Status != models.ProjectPaused || updated.Priority != models.PriorityHigh || updated.Color != "#00ff00" {
		t.Errorf("updated = %+v", updated)
	}
	if updated.Name != "Apollo" {
		t.Errorf("Name = %q, unset fields should be kept", updated.Name)
	}
	if updated.Version != p.Version+1 {
		t.Errorf("Version = %d, want %d", updated.Version, p.Version+1)
	}

	_, err = svc.UpdateProject(ctx, UpdateProjectRequest{ID: p.ID, ExpectedVersion: p.Version, Name: strPtr("Stale")})
	if !errors.Is(err, models.ErrConflict) {
		t.Errorf("stale update error = %v, want conflict", err)
	}

	_, err = svc.UpdateProject(ctx, UpdateProjectRequest{ID: p.ID, Color: strPtr("#12345G")})
	if !errors.Is(err, ErrInvalidColor) {
		t.Errorf("color error = %v, want ErrInvalidColor", err)
	}

	_, err = svc.UpdateProject(ctx, UpdateProjectRequest{ID: "missing", Name: strPtr("x")})
	if !errors.Is(err, models.ErrNotFound) {
		t.Errorf("missing project error = %v, want not found", err)
	}
}

func TestListProjects_StatusFilter(t *testing.T) {
	svc, owner, _ := setup(t)
	ctx := context.Background()

	for _, st := range []string{"active", "active", "archived"} {
		if _, err := svc.CreateProject(ctx, CreateProjectRequest{Name: st, OwnerID: owner.ID, Status: st}); err != nil {
			t.Fatalf("CreateProject() error = %v", err)
		}
	}

	all, err := svc.ListProjects(ctx, "")
	if err != nil || len(all) != 3 {
		t.Fatalf("ListProjects() = %d projects, %v; want 3", len(all), err)
	}
	archived, err := svc.ListProjects(ctx, "ARCHIVED")
	if err != nil || len(archived) != 1 {
		t.Errorf("ListProjects(archived) = %d projects, %v; want 1", len(archived), err)
	}
	if _, err := svc.ListProjects(ctx, "deleted"); !errors.Is(err, ErrInvalidStatus) {
		t.Errorf("unknown status error = %v", err)
	}
}

func TestAddMember(t *testing.T) {
	_, repo := testutil.SetupTestDB(t)
	svc := NewService(repo, nil)
	ctx := context.Background()
	owner := testutil.CreateTestUser(t, repo, "owner@example.com")
	dev := testutil.CreateTestUser(t, repo, "dev@example.com")
	p := testutil.CreateTestProject(t, repo, owner)

	for i := 0; i < 2; i++ {
		if err := svc.AddMember(ctx, p.ID, dev.ID); err != nil {
			t.Fatalf("AddMember() error = %v", err)
		}
	}
	members, err := svc.ListMembers(ctx, p.ID)
	if err != nil {
		t.Fatalf("ListMembers() error = %v", err)
	}
	if len(members) != 2 {
		t.Errorf("members = %v, want owner and dev once each", members)
	}

	if err := svc.AddMember(ctx, p.ID, "ghost"); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("unknown user error = %v", err)
	}
}
