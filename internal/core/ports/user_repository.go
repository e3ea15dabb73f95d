package ports

import (
	"context"

	"orderreview/internal/core/domain/model/kernel"
	"orderreview/internal/core/domain/model/user"
)

// UserRepository reads accounts owned by the authentication system.
type UserRepository interface {
	// Get returns errs.ObjectNotFoundError for an unknown id.
	Get(ctx context.Context, id kernel.UUID) (user.User, error)

	// ListAdmins returns every admin. Callers must not cache the result.
	ListAdmins(ctx context.Context) ([]user.User, error)
}
