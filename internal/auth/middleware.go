package auth

import (
	"net/http"
	"time"

	"github.com/krasavchik01/rbbb-sub002/internal/domain"
	"github.com/krasavchik01/rbbb-sub002/internal/logger"
	"go.uber.org/zap"
)

// Identity headers sent by the client with every request
const (
	HeaderUserID   = "X-User-Id"
	HeaderUserName = "X-User-Name"
	HeaderUserRole = "X-User-Role"
)

// Middleware resolves the acting user from identity headers
type Middleware struct {
	logger *zap.Logger
}

// NewMiddleware creates a new identity middleware
func NewMiddleware(logger *zap.Logger) *Middleware {
	return &Middleware{logger: logger}
}

// Identify requires the identity headers. An unknown role is rejected rather
// than silently downgraded.
func (m *Middleware) Identify(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		userID := r.Header.Get(HeaderUserID)
		if !domain.ValidID(userID) {
			http.Error(w, "Unauthorized: missing or malformed "+HeaderUserID+" header", http.StatusUnauthorized)
			return
		}

		role := domain.Role(r.Header.Get(HeaderUserRole))
		if !role.IsValid() {
			m.logger.Warn("unknown role in identity headers",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.String("userID", userID),
				zap.String("role", string(role)),
			)
			http.Error(w, "Unauthorized: unknown "+HeaderUserRole, http.StatusUnauthorized)
			return
		}

		userCtx := &UserContext{
			UserID:      userID,
			DisplayName: r.Header.Get(HeaderUserName),
			Role:        role,
		}

		logger.WithUser(m.logger, userID, string(role)).Debug("request identified",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Duration("identifyDuration", time.Since(start)),
		)

		next.ServeHTTP(w, r.WithContext(WithUserContext(r.Context(), userCtx)))
	})
}

// RequirePermission ensures the user's role grants the permission
func (m *Middleware) RequirePermission(permission domain.Permission) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userCtx, ok := FromContext(r.Context())
			if !ok {
				http.Error(w, "Forbidden: no user context", http.StatusForbidden)
				return
			}

			if !userCtx.HasPermission(permission) {
				http.Error(w, "Forbidden: insufficient permissions", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
