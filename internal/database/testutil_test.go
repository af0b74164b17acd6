package database

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/teamsync/teamsync/internal/models"
)

// ============================================================================
// DATABASE SETUP HELPERS
// ============================================================================

// setupTestDB opens a migrated in-memory SQLite database
func setupTestDB(t *testing.T) (*gorm.DB, *Repository) {
	t.Helper()
	ctx := context.Background()

	db, err := Open(ctx, Options{URL: "sqlite::memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = Close(db) })

	require.NoError(t, Migrate(ctx, db))
	return db, NewRepository(db)
}

// ============================================================================
// FIXTURES
// ============================================================================

func createTestUser(t *testing.T, repo *Repository, email string) *models.User {
	t.Helper()
	u := &models.User{Email: email, Name: email}
	require.NoError(t, repo.CreateUser(context.Background(), u))
	return u
}

func createTestProject(t *testing.T, repo *Repository, owner *models.User) *models.Project {
	t.Helper()
	p := &models.Project{Name: "Website", OwnerID: owner.ID}
	require.NoError(t, repo.CreateProject(context.Background(), p))
	return p
}

// createTestBoard creates a board with todo, in_progress, review and done columns
func createTestBoard(t *testing.T, repo *Repository, project *models.Project) (*models.Board, []*models.Column) {
	t.Helper()
	b := &models.Board{ProjectID: project.ID, Name: "Main"}
	cols := make([]*models.Column, 0, len(models.DefaultColumns))
	for _, dc := range models.DefaultColumns {
		cols = append(cols, &models.Column{Name: dc.Name, Stage: dc.Stage})
	}
	require.NoError(t, repo.CreateBoard(context.Background(), b, cols))
	return b, cols
}

func createTestTask(t *testing.T, repo *Repository, board *models.Board, col *models.Column, reporter *models.User, title string) *models.Task {
	t.Helper()
	n, err := repo.CountTasksInColumn(context.Background(), col.ID)
	require.NoError(t, err)
	task := &models.Task{
		BoardID:    board.ID,
		ColumnID:   col.ID,
		Title:      title,
		ReporterID: reporter.ID,
		Order:      n,
	}
	require.NoError(t, repo.CreateTask(context.Background(), task))
	return task
}
