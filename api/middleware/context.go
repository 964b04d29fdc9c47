package middleware

import (
	"context"

	"github.com/google/uuid"

	"github.com/Kushal-prime/kushalwearback/pkg/enums"
	apperrors "github.com/Kushal-prime/kushalwearback/pkg/errors"
)

type contextKey string

const (
	ctxKeyUserID    contextKey = "user_id"
	ctxKeyUserRole  contextKey = "user_role"
	ctxKeyRequestID contextKey = "request_id"
)

// WithUser stores the authenticated identity on the context.
func WithUser(ctx context.Context, userID uuid.UUID, role enums.UserRole) context.Context {
	ctx = context.WithValue(ctx, ctxKeyUserID, userID)
	return context.WithValue(ctx, ctxKeyUserRole, role)
}

// UserID returns the authenticated user id or an unauthorized error.
func UserID(ctx context.Context) (uuid.UUID, error) {
	id, ok := ctx.Value(ctxKeyUserID).(uuid.UUID)
	if !ok || id == uuid.Nil {
		return uuid.Nil, apperrors.New(apperrors.CodeUnauthorized, "missing authenticated user")
	}
	return id, nil
}

// UserRole returns the authenticated role, defaulting to the shopper role.
func UserRole(ctx context.Context) enums.UserRole {
	role, ok := ctx.Value(ctxKeyUserRole).(enums.UserRole)
	if !ok {
		return enums.UserRoleUser
	}
	return role
}

// RequestIDFrom returns the request id attached by RequestID, if any.
func RequestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(ctxKeyRequestID).(string)
	return id
}
