package auth

import (
	"context"

	"github.com/krasavchik01/rbbb-sub002/internal/domain"
	"github.com/krasavchik01/rbbb-sub002/internal/workflow"
)

// UserContext holds the acting user as identified by request headers
type UserContext struct {
	UserID      string
	DisplayName string
	Role        domain.Role
}

type contextKey string

const userContextKey contextKey = "userContext"

// WithUserContext adds user context to the context
func WithUserContext(ctx context.Context, user *UserContext) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

// FromContext extracts user context from the context
func FromContext(ctx context.Context) (*UserContext, bool) {
	user, ok := ctx.Value(userContextKey).(*UserContext)
	return user, ok
}

// MustFromContext extracts user context or panics
func MustFromContext(ctx context.Context) *UserContext {
	user, ok := FromContext(ctx)
	if !ok {
		panic("user context not found in context")
	}
	return user
}

// HasPermission checks the permission set of the user's role
func (u *UserContext) HasPermission(permission domain.Permission) bool {
	return u.Role.Can(permission)
}

// IsManagement reports whether the user holds a manager-level role or above
func (u *UserContext) IsManagement() bool {
	return u.Role.IsManagement()
}

// Actor converts the user into a workflow actor
func (u *UserContext) Actor() workflow.Actor {
	return workflow.Actor{
		EmployeeID: u.UserID,
		Name:       u.DisplayName,
		Role:       u.Role,
	}
}
