// Package testutil provides shared helpers for package tests: a migrated
// in-memory database, entity fixtures and CLI output capture.
package testutil

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/teamsync/teamsync/internal/database"
	"github.com/teamsync/teamsync/internal/models"
)

// SetupTestDB opens a migrated in-memory SQLite database. It is closed when
// the test ends.
func SetupTestDB(t *testing.T) (*gorm.DB, *database.Repository) {
	t.Helper()
	ctx := context.Background()

	db, err := database.Open(ctx, database.Options{URL: "sqlite::memory:"})
	require.NoError(t, err, "failed to open test database")
	t.Cleanup(func() { _ = database.Close(db) })

	require.NoError(t, database.Migrate(ctx, db), "failed to migrate test database")
	return db, database.NewRepository(db)
}

// CreateTestUser inserts a user with the given email
func CreateTestUser(t *testing.T, repo database.DataStore, email string) *models.User {
	t.Helper()
	u := &models.User{Email: email, Name: email}
	require.NoError(t, repo.CreateUser(context.Background(), u))
	return u
}

// CreateTestProject inserts a project owned by owner
func CreateTestProject(t *testing.T, repo database.DataStore, owner *models.User) *models.Project {
	t.Helper()
	p := &models.Project{Name: "Test Project", OwnerID: owner.ID}
	require.NoError(t, repo.CreateProject(context.Background(), p))
	return p
}

// CreateTestBoard inserts a board with the default columns and returns them
// left to right
func CreateTestBoard(t *testing.T, repo database.DataStore, project *models.Project) (*models.Board, []*models.Column) {
	t.Helper()
	b := &models.Board{ProjectID: project.ID, Name: "Test Board"}
	cols := make([]*models.Column, 0, len(models.DefaultColumns))
	for _, dc := range models.DefaultColumns {
		cols = append(cols, &models.Column{Name: dc.Name, Stage: dc.Stage})
	}
	require.NoError(t, repo.CreateBoard(context.Background(), b, cols))
	return b, cols
}

// CreateTestTask appends a task to col
func CreateTestTask(t *testing.T, repo database.DataStore, col *models.Column, reporter *models.User, title string) *models.Task {
	t.Helper()
	ctx := context.Background()
	n, err := repo.CountTasksInColumn(ctx, col.ID)
	require.NoError(t, err)
	task := &models.Task{
		BoardID:    col.BoardID,
		ColumnID:   col.ID,
		Title:      title,
		ReporterID: reporter.ID,
		Order:      n,
	}
	require.NoError(t, repo.CreateTask(ctx, task))
	return task
}
