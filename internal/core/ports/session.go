package ports

import (
	"context"

	"github.com/catalogo/storefront-client/internal/core/domain"
)

// SessionManager is the session store as seen by services and front ends.
type SessionManager interface {
	TokenSource
	Restore(ctx context.Context) domain.SessionState
	Login(ctx context.Context, profile *domain.User, token string) error
	Logout(ctx context.Context)
	// ForceClear is the forced-clear transition triggered by a 401.
	ForceClear(ctx context.Context)
	State() domain.SessionState
	Subscribe() (<-chan domain.SessionState, func())
}
