package mockapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/dmitrijs2005/botfolio/internal/client/models"
	"github.com/dmitrijs2005/botfolio/internal/common"
	"github.com/dmitrijs2005/botfolio/internal/mockapi/auth"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

type ctxKey string

const userIDKey ctxKey = "userID"

func userIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(userIDKey).(string)
	return id
}

// instrument records request metrics and logs every request at debug level.
func (s *Server) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		elapsed := time.Since(start)
		s.metrics.observe(r.Method, route, status, elapsed.Seconds())
		s.logger.Debug(r.Context(), "request",
			"method", r.Method, "route", route, "status", status,
			"duration", elapsed, "request_id", middleware.GetReqID(r.Context()))
	})
}

// requireAuth resolves the bearer token to a live account.
func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := common.BearerToken(r.Header.Get(common.AuthorizationHeaderName))
		if token == "" {
			respondWithError(w, http.StatusUnauthorized, "Authorization token missing")
			return
		}

		claims, err := auth.ParseToken(token, []byte(s.cfg.SecretKey))
		if err != nil {
			msg := "Invalid token"
			if errors.Is(err, common.ErrTokenExpired) {
				msg = "Token expired"
			}
			respondWithError(w, http.StatusUnauthorized, msg)
			return
		}

		if err := s.store.view(claims.UserID, func(*account) {}); err != nil {
			respondWithError(w, http.StatusUnauthorized, "User no longer exists")
			return
		}

		ctx := context.WithValue(r.Context(), userIDKey, claims.UserID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requireAdmin checks the stored role, not the token claim, so a demotion
// takes effect immediately.
func (s *Server) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var role models.Role
		_ = s.store.view(userIDFrom(r.Context()), func(a *account) { role = a.user.Role })
		if role != models.RoleAdmin {
			respondWithError(w, http.StatusForbidden, "Admin access required")
			return
		}
		next.ServeHTTP(w, r)
	})
}
