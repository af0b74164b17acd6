// Package setting exposes the key/value application settings.
package setting

import (
	"context"
	"fmt"
	"strings"

	"github.com/teamsync/teamsync/internal/database"
	"github.com/teamsync/teamsync/internal/models"
)

const maxKeyLength = 255

// ErrInvalidKey is returned for empty or oversized keys
var ErrInvalidKey = fmt.Errorf("%w: setting key must be 1-%d characters", models.ErrInvalid, maxKeyLength)

// Service reads and writes settings
type Service interface {
	Get(ctx context.Context, key string) (*models.Setting, error)
	Set(ctx context.Context, key, value string) (*models.Setting, error)
	List(ctx context.Context) ([]*models.Setting, error)
}

type service struct {
	repo database.SettingRepository
}

// NewService creates a new setting service
func NewService(repo database.SettingRepository) Service {
	return &service{repo: repo}
}

func (s *service) Get(ctx context.Context, key string) (*models.Setting, error) {
	key, err := validateKey(key)
	if err != nil {
		return nil, err
	}
	return s.repo.GetSetting(ctx, key)
}

// Set creates or overwrites a setting
func (s *service) Set(ctx context.Context, key, value string) (*models.Setting, error) {
	key, err := validateKey(key)
	if err != nil {
		return nil, err
	}
	return s.repo.SetSetting(ctx, key, value)
}

func (s *service) List(ctx context.Context) ([]*models.Setting, error) {
	return s.repo.ListSettings(ctx)
}

func validateKey(key string) (string, error) {
	key = strings.TrimSpace(key)
	if key == "" || len(key) > maxKeyLength {
		return "", ErrInvalidKey
	}
	return key, nil
}
