// Package api serves the TeamSync REST interface over chi.
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

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

// Pinger reports whether the entity store is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

// Services are the business operations the handlers call
type Services struct {
	Users    userservice.Service
	Roles    roleservice.Service
	Teams    teamservice.Service
	Settings settingservice.Service
	Projects projectservice.Service
	Columns  columnservice.Service
	Tasks    taskservice.Service
}

// Options configures the HTTP surface
type Options struct {
	AllowedOrigins []string
	CookieName     string
	SecureCookie   bool
	MaxUploadBytes int64
}

// Server holds the handler dependencies
type Server struct {
	svc      Services
	sessions session.Store
	db       Pinger
	metrics  *metrics.Metrics
	logger   *slog.Logger
	opts     Options
	now      func() time.Time
}

// New creates the API server. A nil metrics disables instrumentation, a nil
// logger uses slog.Default.
func New(svc Services, sessions session.Store, db Pinger, m *metrics.Metrics, logger *slog.Logger, opts Options) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.CookieName == "" {
		opts.CookieName = "teamsync_session"
	}
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = models.MaxUploadBytes
	}
	return &Server{
		svc:      svc,
		sessions: sessions,
		db:       db,
		metrics:  m,
		logger:   logger,
		opts:     opts,
		now:      time.Now,
	}
}

// Handler builds the router
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.instrument)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.opts.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics.Handler())
	}

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", s.handleHealth)
		r.Post("/auth/login", s.handleLogin)

		r.Group(func(r chi.Router) {
			r.Use(s.authenticate)

			r.Post("/auth/logout", s.handleLogout)
			r.Get("/auth/me", s.handleMe)

			admin := s.requirePermission(models.PermAdmin)

			r.Route("/users", func(r chi.Router) {
				r.Get("/", s.handleListUsers)
				r.With(admin).Post("/", s.handleCreateUser)
				r.Get("/{id}", s.handleGetUser)
				r.Put("/{id}", s.handleUpdateUser)
				r.Post("/{id}/avatar", s.handleSetAvatar)
				r.With(admin).Post("/{id}/roles/{roleId}", s.handleAssignRole)
			})

			r.Route("/settings", func(r chi.Router) {
				r.Get("/", s.handleListSettings)
				r.With(admin).Post("/", s.handleSetSetting)
				r.Get("/{key}", s.handleGetSetting)
			})

			r.Route("/roles", func(r chi.Router) {
				r.Get("/", s.handleListRoles)
				r.With(admin).Post("/", s.handleCreateRole)
				r.With(admin).Post("/{id}/permissions/{permission}", s.handleTogglePermission)
			})

			r.Route("/teams", func(r chi.Router) {
				r.Get("/", s.handleListTeams)
				r.With(admin).Post("/", s.handleCreateTeam)
				r.With(admin).Post("/{id}/members/{userId}", s.handleAddTeamMember)
				r.With(admin).Delete("/{id}/members/{userId}", s.handleRemoveTeamMember)
			})

			r.Route("/projects", func(r chi.Router) {
				r.Get("/", s.handleListProjects)
				r.Post("/", s.handleCreateProject)
				r.Get("/{id}", s.handleGetProject)
				r.Put("/{id}", s.handleUpdateProject)
				r.Get("/{id}/boards", s.handleListBoards)
				r.Post("/{id}/boards", s.handleCreateBoard)
			})

			r.Route("/boards/{id}", func(r chi.Router) {
				r.Get("/", s.handleGetBoard)
				r.Post("/moves", s.handleMoveTask)
				r.Post("/columns", s.handleAddColumn)
				r.Post("/columns/move", s.handleMoveColumn)
				r.Put("/columns/{columnId}", s.handleRenameColumn)
				r.Delete("/columns/{columnId}", s.handleDeleteColumn)
			})

			r.Post("/tasks", s.handleCreateTask)
			r.Route("/tasks/{id}", func(r chi.Router) {
				r.Get("/", s.handleGetTask)
				r.Put("/", s.handleUpdateTask)
				r.Delete("/", s.handleDeleteTask)
				r.Post("/accept", s.handleAcceptTask)
				r.Get("/history", s.handleListHistory)

				r.Get("/subtasks", s.handleListSubtasks)
				r.Post("/subtasks", s.handleAddSubtask)
				r.Put("/subtasks/{subtaskId}", s.handleToggleSubtask)
				r.Delete("/subtasks/{subtaskId}", s.handleDeleteSubtask)

				r.Get("/comments", s.handleListComments)
				r.Post("/comments", s.handleAddComment)
				r.Delete("/comments/{commentId}", s.handleDeleteComment)

				r.Get("/observers", s.handleListObservers)
				r.Post("/observers", s.handleAddObserver)
				r.Delete("/observers/{userId}", s.handleRemoveObserver)

				r.Post("/labels", s.handleAddLabel)
				r.Delete("/labels/{label}", s.handleRemoveLabel)

				r.Get("/attachments", s.handleListAttachments)
				r.Post("/attachments", s.handleAddAttachment)
				r.Get("/attachments/{attachmentId}", s.handleGetAttachment)
				r.Delete("/attachments/{attachmentId}", s.handleDeleteAttachment)
			})
		})
	})

	return r
}

// handleHealth reports liveness and database connectivity
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status, dbStatus, code := "ok", "connected", http.StatusOK
	if s.db == nil {
		dbStatus = "unknown"
	} else if err := s.db.Ping(r.Context()); err != nil {
		s.logger.Warn("health check: database unreachable", "error", err)
		status, dbStatus, code = "degraded", "disconnected", http.StatusServiceUnavailable
	}
	writeJSON(w, code, map[string]any{
		"status":    status,
		"database":  dbStatus,
		"timestamp": s.now().UTC().Format(time.RFC3339),
	})
}
