// Package app wires the entity store, the services and the HTTP surface
// into one container.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/teamsync/teamsync/internal/api"
	"github.com/teamsync/teamsync/internal/board"
	"github.com/teamsync/teamsync/internal/config"
	"github.com/teamsync/teamsync/internal/database"
	"github.com/teamsync/teamsync/internal/events"
	"github.com/teamsync/teamsync/internal/logging"
	"github.com/teamsync/teamsync/internal/metrics"
	"github.com/teamsync/teamsync/internal/models"
	columnservice "github.com/teamsync/teamsync/internal/services/column"
	projectservice "github.com/teamsync/teamsync/internal/services/project"
	roleservice "github.com/teamsync/teamsync/internal/services/role"
	settingservice "github.com/teamsync/teamsync/internal/services/setting"
	taskservice "github.com/teamsync/teamsync/internal/services/task"
	teamservice "github.com/teamsync/teamsync/internal/services/team"
	userservice "github.com/teamsync/teamsync/internal/services/user"
	"github.com/teamsync/teamsync/internal/session"
)

// App holds all application services and provides dependency injection.
type App struct {
	// Repository layer (direct database access)
	repo *database.Repository

	// Event fan-out: metrics, board cache invalidation and the broker
	events     *events.Fanout
	subscriber events.Subscriber
	instanceID string
	maxUpload  int64

	Metrics  *metrics.Metrics
	Sessions session.Store
	Logger   *slog.Logger

	// Service layer (business logic)
	TaskService    taskservice.Service
	ColumnService  columnservice.Service
	ProjectService projectservice.Service
	UserService    userservice.Service
	RoleService    roleservice.Service
	TeamService    teamservice.Service
	SettingService settingservice.Service

	closers []func() error
}

// New creates a new App with all services initialized over repo
func New(repo *database.Repository, opts ...Option) *App {
	cfg := &appConfig{
		logger:    slog.Default(),
		hashCost:  bcrypt.DefaultCost,
		maxUpload: models.MaxUploadBytes,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.metrics == nil {
		cfg.metrics = metrics.New()
	}
	if cfg.sessions == nil {
		cfg.sessions = session.NewMemoryStore(session.DefaultTTL)
	}
	if cfg.instanceID == "" {
		cfg.instanceID = uuid.NewString()
	}

	fanout := events.NewFanout(cfg.metrics, cfg.publisher).WithInstance(cfg.instanceID)

	columns := columnservice.NewService(repo, fanout,
		cfg.metrics.BoardOption(),
		board.WithLogger(cfg.logger))
	fanout.Add(columns.Registry())

	return &App{
		repo:           repo,
		events:         fanout,
		subscriber:     cfg.subscriber,
		instanceID:     cfg.instanceID,
		maxUpload:      cfg.maxUpload,
		Metrics:        cfg.metrics,
		Sessions:       cfg.sessions,
		Logger:         cfg.logger,
		TaskService:    taskservice.NewService(repo, fanout, taskservice.WithMaxUploadBytes(cfg.maxUpload)),
		ColumnService:  columns,
		ProjectService: projectservice.NewService(repo, fanout),
		UserService:    userservice.NewService(repo, userservice.WithHashCost(cfg.hashCost), userservice.WithMaxUploadBytes(cfg.maxUpload)),
		RoleService:    roleservice.NewService(repo),
		TeamService:    teamservice.NewService(repo),
		SettingService: settingservice.NewService(repo),
	}
}

// Open connects to the database and the optional Redis and NATS servers
// named in cfg, then builds the App. The caller must Close it.
func Open(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	if logger == nil {
		logger = slog.Default()
	}

	db, err := database.Open(ctx, database.Options{
		URL:          cfg.Database.URL,
		MaxOpenConns: cfg.Database.MaxOpenConns,
		MaxIdleConns: cfg.Database.MaxIdleConns,
		Logger:       logging.Gorm(logger, cfg.Database.LogLevel),
	})
	if err != nil {
		return nil, err
	}
	closers := []func() error{func() error { return database.Close(db) }}
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			_ = closers[i]()
		}
	}

	opts := []Option{WithLogger(logger), WithMaxUploadBytes(cfg.Upload.MaxBytes)}

	sessions := session.Store(session.NewMemoryStore(cfg.Session.TTL))
	if cfg.Redis.URL != "" {
		client, err := connectRedis(ctx, cfg.Redis.URL)
		if err != nil {
			cleanup()
			return nil, err
		}
		closers = append(closers, client.Close)
		sessions = session.NewRedisStore(client, cfg.Session.TTL)

		if cfg.Events.Backend == config.BackendRedis {
			pub := events.NewRedisPublisher(client, cfg.Events.Channel)
			opts = append(opts, WithEventPublisher(pub), WithEventSubscriber(pub))
		}
	}
	opts = append(opts, WithSessionStore(sessions))

	if cfg.Events.Backend == config.BackendNATS {
		conn, err := nats.Connect(cfg.Events.NATSURL, nats.Name("teamsync"))
		if err != nil {
			cleanup()
			return nil, fmt.Errorf("failed to connect to nats: %w", err)
		}
		closers = append(closers, func() error { conn.Close(); return nil })
		pub := events.NewNATSPublisher(conn, cfg.Events.Channel)
		opts = append(opts, WithEventPublisher(pub), WithEventSubscriber(pub))
	}

	a := New(database.NewRepository(db), opts...)
	a.closers = closers
	logger.Info("application ready",
		"events", cfg.Events.Backend,
		"redis", cfg.Redis.URL != "",
		"instance", a.instanceID)
	return a, nil
}

func connectRedis(ctx context.Context, url string) (*redis.Client, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_URL: %w", err)
	}
	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return client, nil
}

// Migrate brings the schema up to date and seeds the built-in roles
func (a *App) Migrate(ctx context.Context) error {
	return database.Migrate(ctx, a.repo.DB())
}

// DB returns the underlying gorm handle
func (a *App) DB() *gorm.DB {
	return a.repo.DB()
}

// Repo returns the underlying repository for direct database access
func (a *App) Repo() database.DataStore {
	return a.repo
}

// Handler builds the REST API over the services
func (a *App) Handler(opts api.Options) http.Handler {
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = a.maxUpload
	}
	srv := api.New(api.Services{
		Users:    a.UserService,
		Roles:    a.RoleService,
		Teams:    a.TeamService,
		Settings: a.SettingService,
		Projects: a.ProjectService,
		Columns:  a.ColumnService,
		Tasks:    a.TaskService,
	}, a.Sessions, a.repo, a.Metrics, a.Logger, opts)
	return srv.Handler()
}

// Listen drops cached boards changed by other instances until ctx is done.
// It returns immediately when no broker is configured.
func (a *App) Listen(ctx context.Context) error {
	if a.subscriber == nil {
		return nil
	}
	registry := a.ColumnService.Registry()
	return a.subscriber.Subscribe(ctx, func(e events.Event) {
		if e.Instance == a.instanceID || e.BoardID == "" {
			return
		}
		registry.Invalidate(e.BoardID)
	})
}

// Close releases the database and broker connections opened by Open
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
