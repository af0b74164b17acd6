// Package user manages accounts: registration, password checks, profile
// edits and avatars.
package user

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"

	"github.com/teamsync/teamsync/internal/database"
	"github.com/teamsync/teamsync/internal/models"
)

const (
	minPasswordLength = 8
	maxPasswordBytes  = 72 // bcrypt ignores the rest
)

// Service defines all user-related business operations
type Service interface {
	CreateUser(ctx context.Context, req CreateUserRequest) (*models.User, error)
	Authenticate(ctx context.Context, email, password string) (*models.User, error)
	GetUser(ctx context.Context, id string) (*models.User, error)
	ListUsers(ctx context.Context) ([]*models.User, error)
	UpdateUser(ctx context.Context, req UpdateUserRequest) (*models.User, error)
	SetAvatar(ctx context.Context, actor *models.User, userID, mimeType string, data []byte) (*models.User, error)
}

// CreateUserRequest encapsulates data for registering a user
type CreateUserRequest struct {
	Email      string
	Name       string
	Password   string
	Department string
	RoleName   string // Optional: defaults to Member
}

// UpdateUserRequest changes profile fields; nil fields are kept
type UpdateUserRequest struct {
	ID         string
	Name       *string
	Department *string
	Password   *string
}

// repository defines the data access methods needed by the user service
type repository interface {
	database.UserRepository
	GetRoleByName(ctx context.Context, name string) (*models.Role, error)
	AssignRole(ctx context.Context, userID, roleID string) error
	InTx(ctx context.Context, fn func(tx database.DataStore) error) error
}

// Option configures the user service
type Option func(*service)

// WithHashCost sets the bcrypt cost; tests use bcrypt.MinCost
func WithHashCost(cost int) Option {
	return func(s *service) {
		s.cost = cost
	}
}

// WithMaxUploadBytes caps avatar size; values <= 0 keep the default
func WithMaxUploadBytes(n int64) Option {
	return func(s *service) {
		if n > 0 {
			s.maxUpload = n
		}
	}
}

type service struct {
	repo      repository
	cost      int
	maxUpload int64
}

// NewService creates a new user service
func NewService(repo repository, opts ...Option) Service {
	s := &service{repo: repo, cost: bcrypt.DefaultCost, maxUpload: models.MaxUploadBytes}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateUser registers a user with a hashed password and a default role
func (s *service) CreateUser(ctx context.Context, req CreateUserRequest) (*models.User, error) {
	email, err := parseEmail(req.Email)
	if err != nil {
		return nil, err
	}
	name, err := validateName(req.Name)
	if err != nil {
		return nil, err
	}
	hash, err := s.hash(req.Password)
	if err != nil {
		return nil, err
	}

	roleName := req.RoleName
	if roleName == "" {
		roleName = models.RoleMember
	}

	u := &models.User{
		Email:        email,
		Name:         name,
		PasswordHash: hash,
		Department:   strings.TrimSpace(req.Department),
	}
	err = s.repo.InTx(ctx, func(tx database.DataStore) error {
		role, err := tx.GetRoleByName(ctx, roleName)
		if err != nil {
			return fmt.Errorf("failed to get role %s: %w", roleName, err)
		}
		if err := tx.CreateUser(ctx, u); err != nil {
			return err
		}
		if err := tx.AssignRole(ctx, u.ID, role.ID); err != nil {
			return err
		}
		u.Roles = []*models.Role{role}
		return nil
	})
	if errors.Is(err, models.ErrDuplicate) {
		return nil, ErrEmailTaken
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return u, nil
}

// Authenticate returns the user when password matches the stored hash
func (s *service) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	u, err := s.repo.GetUserByEmail(ctx, email)
	if errors.Is(err, models.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if u.PasswordHash == "" {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

// GetUser retrieves a user with roles
func (s *service) GetUser(ctx context.Context, id string) (*models.User, error) {
	return s.repo.GetUser(ctx, id)
}

// ListUsers retrieves all users
func (s *service) ListUsers(ctx context.Context) ([]*models.User, error) {
	return s.repo.ListUsers(ctx)
}

// UpdateUser updates profile fields
func (s *service) UpdateUser(ctx context.Context, req UpdateUserRequest) (*models.User, error) {
	fields := make(map[string]any)
	if req.Name != nil {
		name, err := validateName(*req.Name)
		if err != nil {
			return nil, err
		}
		fields["name"] = name
	}
	if req.Department != nil {
		fields["department"] = strings.TrimSpace(*req.Department)
	}
	if req.Password != nil {
		hash, err := s.hash(*req.Password)
		if err != nil {
			return nil, err
		}
		fields["password_hash"] = hash
	}

	if len(fields) == 0 {
		return s.repo.GetUser(ctx, req.ID)
	}
	return s.repo.UpdateUser(ctx, req.ID, fields)
}

// SetAvatar stores an image as the user's avatar. Users may change their own
// avatar, administrators anyone's.
func (s *service) SetAvatar(ctx context.Context, actor *models.User, userID, mimeType string, data []byte) (*models.User, error) {
	if actor == nil || (actor.ID != userID && !actor.Can(models.PermAdmin)) {
		return nil, ErrNotAllowed
	}
	if !strings.HasPrefix(mimeType, "image/") {
		return nil, ErrAvatarNotImage
	}
	if len(data) == 0 {
		return nil, ErrEmptyAvatar
	}
	if int64(len(data)) > s.maxUpload {
		return nil, fmt.Errorf("%w (%d bytes)", ErrAvatarTooLarge, s.maxUpload)
	}

	url := "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data)
	return s.repo.UpdateUser(ctx, userID, map[string]any{"avatar_url": url})
}

func (s *service) hash(password string) (string, error) {
	if utf8.RuneCountInString(password) < minPasswordLength {
		return "", ErrPasswordTooShort
	}
	if len(password) > maxPasswordBytes {
		return "", ErrPasswordTooLong
	}
	b, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(b), nil
}

func parseEmail(raw string) (string, error) {
	addr, err := mail.ParseAddress(strings.TrimSpace(raw))
	if err != nil || addr.Name != "" {
		return "", ErrInvalidEmail
	}
	return strings.ToLower(addr.Address), nil
}

func validateName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ErrEmptyName
	}
	if utf8.RuneCountInString(name) > models.MaxTitleLength {
		return "", ErrNameTooLong
	}
	return name, nil
}
