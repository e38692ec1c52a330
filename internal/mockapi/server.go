// Package mockapi is an in-memory implementation of the Botfolio REST API.
// It backs the client's end-to-end tests and local development; it is a test
// double, not a product backend.
package mockapi

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/dmitrijs2005/botfolio/internal/client/models"
	"github.com/dmitrijs2005/botfolio/internal/cryptox"
	"github.com/dmitrijs2005/botfolio/internal/logging"
	"github.com/dmitrijs2005/botfolio/internal/mockapi/config"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
)

type Option func(*Server)

// WithClock replaces time.Now for plan purchases and logins.
func WithClock(now func() time.Time) Option {
	return func(s *Server) { s.now = now }
}

type Server struct {
	cfg     *config.Config
	logger  logging.Logger
	now     func() time.Time
	store   *store
	metrics *metrics
}

func NewServer(cfg *config.Config, l logging.Logger, opts ...Option) *Server {
	if l == nil {
		l = logging.Nop()
	}
	s := &Server{
		cfg:     cfg,
		logger:  l.With("module", "mockapi"),
		now:     time.Now,
		store:   newStore(),
		metrics: newMetrics(prometheus.NewRegistry()),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Router builds the HTTP handler: the API under /api, metrics at /metrics.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.instrument)

	r.Handle("/metrics", s.metrics.handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", s.handleHealth)

		r.Post("/auth/signup", s.handleSignup)
		r.Post("/auth/login", s.handleLogin)
		r.Post("/users/auth/google", s.handleGoogle)
		r.Post("/users/auth/google/complete-signup", s.handleCompleteGoogle)

		r.Get("/all-users", s.handleAllUsers)

		r.Group(func(r chi.Router) {
			r.Use(s.requireAuth)

			r.Get("/users/me", s.handleMe)
			r.Get("/users/profile", s.handleProfile)
			r.Put("/users/profile", s.handleUpdateProfile)

			r.Post("/payment/create-order", s.handleCreateOrder)
			r.Post("/payment/verify-payment", s.handleVerifyPayment)

			r.Get("/projects", s.handleListProjects)
			r.Post("/projects", s.handleCreateProject)
			r.Put("/projects/{id}", s.handleUpdateProject)
			r.Delete("/projects/{id}", s.handleDeleteProject)

			r.Get("/tasks/summary", s.handleTaskSummary)
			r.Get("/tasks/project/{id}", s.handleListTasks)
			r.Post("/tasks/project/{id}", s.handleCreateTask)
			r.Put("/tasks/{id}", s.handleUpdateTask)
			r.Delete("/tasks/{id}", s.handleDeleteTask)

			r.Route("/admin", func(r chi.Router) {
				r.Use(s.requireAdmin)

				r.Get("/users", s.handleAdminUsers)
				r.Put("/users/{id}", s.handleAdminUpdateUser)
				r.Delete("/users/{id}", s.handleAdminDeleteUser)
				r.Get("/portfolio-links", s.handleAdminLinks)
				r.Post("/portfolio-links/remove", s.handleAdminRemoveLink)
				r.Get("/analytics", s.handleAdminAnalytics)
			})
		})

		r.Get("/users/{username}", s.handlePublicProfile)
	})

	return r
}

// Run serves on cfg.Addr until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return err
	}

	srv := &http.Server{Handler: s.Router(), ReadHeaderTimeout: 10 * time.Second}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", listen.Addr().String())

	if err := srv.Serve(listen); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// SeedUser stores an account directly, bypassing signup validation. A
// missing plan gets the basic tier purchased now.
func (s *Server) SeedUser(u models.User, password string) (*models.User, error) {
	a := &account{user: *u.Clone()}
	if password != "" {
		hash, err := cryptox.HashPassword([]byte(password))
		if err != nil {
			return nil, err
		}
		a.passwordHash = hash
	}
	if a.user.Role == "" {
		a.user.Role = models.RoleUser
	}
	if a.user.Plan == nil {
		a.user.Plan = s.basicPlan()
	}
	if err := s.store.create(a); err != nil {
		return nil, err
	}
	return a.user.Clone(), nil
}

// SetPlan overwrites a user's plan, e.g. to backdate a purchase.
func (s *Server) SetPlan(userID string, plan *models.Plan) error {
	return s.store.update(userID, func(a *account) error {
		a.user.Plan = plan
		return nil
	})
}

// SetLinks overwrites a user's stored portfolio collections.
func (s *Server) SetLinks(userID string, short, long, designs []string) error {
	return s.store.update(userID, func(a *account) error {
		a.short, a.long, a.designs = short, long, designs
		return nil
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Helper functions for JSON responses
func respondWithJSON(w http.ResponseWriter, code int, payload any) {
	response, err := json.Marshal(payload)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(response)
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	response, _ := json.Marshal(map[string]string{"message": message})
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(response)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}
