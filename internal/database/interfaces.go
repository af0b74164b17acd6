package database

import (
	"context"

	"github.com/teamsync/teamsync/internal/models"
)

// DataStore is the full entity store. It is composed of smaller per-entity
// interfaces; consumers should depend on the narrowest one they need.
type DataStore interface {
	ProjectRepository
	BoardRepository
	ColumnRepository
	TaskRepository
	SubtaskRepository
	CommentRepository
	AttachmentRepository
	ObserverRepository
	HistoryRepository
	UserRepository
	RoleRepository
	TeamRepository
	SettingRepository

	// InTx runs fn against a store bound to a single transaction
	InTx(ctx context.Context, fn func(tx DataStore) error) error
	// Ping checks the connection
	Ping(ctx context.Context) error
}

// ProjectRepository persists projects and their members
type ProjectRepository interface {
	CreateProject(ctx context.Context, p *models.Project) error
	GetProject(ctx context.Context, id string) (*models.Project, error)
	ListProjects(ctx context.Context, status models.ProjectStatus) ([]*models.Project, error)
	UpdateProject(ctx context.Context, id string, expectedVersion int, fields map[string]any) (*models.Project, error)
	AddProjectMember(ctx context.Context, projectID, userID string) error
	ListProjectMembers(ctx context.Context, projectID string) ([]string, error)
}

// BoardRepository persists boards
type BoardRepository interface {
	CreateBoard(ctx context.Context, b *models.Board, columns []*models.Column) error
	GetBoard(ctx context.Context, id string) (*models.Board, error)
	ListBoards(ctx context.Context, projectID string) ([]*models.Board, error)
	TouchBoard(ctx context.Context, id string) error
}

// ColumnRepository persists board columns
type ColumnRepository interface {
	ListColumns(ctx context.Context, boardID string) ([]*models.Column, error)
	GetColumn(ctx context.Context, id string) (*models.Column, error)
	// SyncColumns makes the board's columns match columns: missing ones are
	// created, listed ones take the given name, stage and slice position,
	// and unlisted ones are deleted
	SyncColumns(ctx context.Context, boardID string, columns []*models.Column) error
}

// TaskRepository persists tasks
type TaskRepository interface {
	CreateTask(ctx context.Context, t *models.Task) error
	GetTask(ctx context.Context, id string) (*models.Task, error)
	ListTasksByBoard(ctx context.Context, boardID string) ([]*models.Task, error)
	ListTasksByColumn(ctx context.Context, columnID string) ([]*models.Task, error)
	CountTasksInColumn(ctx context.Context, columnID string) (int, error)
	// UpdateTask writes fields when the stored version equals
	// expectedVersion, zero skips the check
	UpdateTask(ctx context.Context, id string, expectedVersion int, fields map[string]any) (*models.Task, error)
	// PlaceTasks moves taskIDs into columnID with dense positions in slice order
	PlaceTasks(ctx context.Context, columnID string, taskIDs []string) error
	DeleteTask(ctx context.Context, id string) error
}

// SubtaskRepository persists checklist items
type SubtaskRepository interface {
	CreateSubtask(ctx context.Context, s *models.Subtask) error
	GetSubtask(ctx context.Context, id string) (*models.Subtask, error)
	ListSubtasks(ctx context.Context, taskID string) ([]*models.Subtask, error)
	UpdateSubtask(ctx context.Context, id string, fields map[string]any) (*models.Subtask, error)
	DeleteSubtask(ctx context.Context, id string) error
}

// CommentRepository persists comments
type CommentRepository interface {
	CreateComment(ctx context.Context, c *models.Comment) error
	GetComment(ctx context.Context, id string) (*models.Comment, error)
	ListComments(ctx context.Context, taskID string) ([]*models.Comment, error)
	DeleteComment(ctx context.Context, id string) error
}

// AttachmentRepository persists task attachments
type AttachmentRepository interface {
	CreateAttachment(ctx context.Context, a *models.Attachment) error
	GetAttachment(ctx context.Context, id string) (*models.Attachment, error)
	ListAttachments(ctx context.Context, taskID string) ([]*models.Attachment, error)
	DeleteAttachment(ctx context.Context, id string) error
}

// ObserverRepository persists task observers
type ObserverRepository interface {
	// AddObserver reports false when the user already observed the task
	AddObserver(ctx context.Context, taskID, userID string) (bool, error)
	// RemoveObserver reports false when the user was not observing
	RemoveObserver(ctx context.Context, taskID, userID string) (bool, error)
	ListObservers(ctx context.Context, taskID string) ([]*models.TaskObserver, error)
}

// HistoryRepository appends to and reads the task audit trail
type HistoryRepository interface {
	AppendHistory(ctx context.Context, entries ...*models.HistoryEntry) error
	ListHistory(ctx context.Context, taskID string) ([]*models.HistoryEntry, error)
}

// UserRepository persists users
type UserRepository interface {
	CreateUser(ctx context.Context, u *models.User) error
	GetUser(ctx context.Context, id string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	ListUsers(ctx context.Context) ([]*models.User, error)
	UpdateUser(ctx context.Context, id string, fields map[string]any) (*models.User, error)
}

// RoleRepository persists roles and role assignments
type RoleRepository interface {
	CreateRole(ctx context.Context, r *models.Role) error
	GetRole(ctx context.Context, id string) (*models.Role, error)
	GetRoleByName(ctx context.Context, name string) (*models.Role, error)
	ListRoles(ctx context.Context) ([]*models.Role, error)
	SetRolePermissions(ctx context.Context, id string, perms []models.Permission) error
	AssignRole(ctx context.Context, userID, roleID string) error
	ListUserRoles(ctx context.Context, userID string) ([]*models.Role, error)
}

// TeamRepository persists teams and membership
type TeamRepository interface {
	CreateTeam(ctx context.Context, t *models.Team) error
	GetTeam(ctx context.Context, id string) (*models.Team, error)
	ListTeams(ctx context.Context) ([]*models.Team, error)
	AddTeamMember(ctx context.Context, teamID, userID string) error
	// RemoveTeamMember reports false when the user was not a member
	RemoveTeamMember(ctx context.Context, teamID, userID string) (bool, error)
}

// SettingRepository is the key/value settings store
type SettingRepository interface {
	GetSetting(ctx context.Context, key string) (*models.Setting, error)
	SetSetting(ctx context.Context, key, value string) (*models.Setting, error)
	ListSettings(ctx context.Context) ([]*models.Setting, error)
}
