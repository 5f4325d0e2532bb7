package out

import (
	"context"

	"mih/internal/modules/auth/domain"
)

type UserStore interface {
	// CreateUser persists a new user; apperrors.ErrEmailTaken when the
	// email is already registered.
	CreateUser(ctx context.Context, user domain.User) error
	// UserByEmail returns apperrors.ErrNotFound for unknown emails.
	UserByEmail(ctx context.Context, email string) (domain.User, error)
	UserByID(ctx context.Context, id string) (domain.User, error)
}

// TokenCodec issues and verifies opaque bearer credentials.
type TokenCodec interface {
	Issue(userID string) (string, error)
	// Verify returns the user id, or apperrors.ErrUnauthorized for any
	// invalid or expired token.
	Verify(token string) (string, error)
}
