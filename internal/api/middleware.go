package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/teamsync/teamsync/internal/models"
	"github.com/teamsync/teamsync/internal/session"
)

type ctxKey int

const (
	userKey ctxKey = iota
	sessionKey
)

var (
	errNoSession  = fmt.Errorf("%w: login required", models.ErrUnauthorized)
	errPermission = fmt.Errorf("%w: missing permission", models.ErrForbidden)
)

// instrument records request metrics by route pattern and logs each request
func (s *Server) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		route := ""
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			route = rctx.RoutePattern()
		}
		elapsed := time.Since(start)
		if s.metrics != nil {
			s.metrics.ObserveRequest(route, r.Method, status, elapsed)
		}
		s.logger.Debug("http request",
			"method", r.Method,
			"route", route,
			"status", status,
			"duration", elapsed,
			"request_id", middleware.GetReqID(r.Context()))
	})
}

// authenticate resolves the session cookie (or bearer token) to a user
func (s *Server) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := sessionToken(r, s.opts.CookieName)
		if token == "" {
			s.writeError(w, r, errNoSession)
			return
		}
		sess, err := s.sessions.Get(r.Context(), token)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		u, err := s.svc.Users.GetUser(r.Context(), sess.UserID)
		if errors.Is(err, models.ErrNotFound) {
			s.writeError(w, r, session.ErrNotFound)
			return
		}
		if err != nil {
			s.writeError(w, r, err)
			return
		}

		ctx := context.WithValue(r.Context(), userKey, u)
		ctx = context.WithValue(ctx, sessionKey, sess)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requirePermission rejects users whose roles lack p. It must run after
// authenticate.
func (s *Server) requirePermission(p models.Permission) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if u := currentUser(r); u == nil || !u.Can(p) {
				s.writeError(w, r, fmt.Errorf("%w %s", errPermission, p))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func sessionToken(r *http.Request, cookieName string) string {
	if c, err := r.Cookie(cookieName); err == nil && c.Value != "" {
		return c.Value
	}
	if auth := r.Header.Get("Authorization"); strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
	}
	return ""
}

// currentUser returns the authenticated user; authenticate guarantees it is set
func currentUser(r *http.Request) *models.User {
	u, _ := r.Context().Value(userKey).(*models.User)
	return u
}

func currentSession(r *http.Request) *session.Session {
	sess, _ := r.Context().Value(sessionKey).(*session.Session)
	return sess
}
