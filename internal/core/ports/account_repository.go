package ports

import (
	"context"

	"github.com/fiscaldesk/obligations-api/internal/core/domain"
)

// AccountRepository defines persistence operations for user accounts.
// Email uniqueness is enforced by the store; Insert surfaces a violation
// as domain.ErrUserExists.
type AccountRepository interface {
	Insert(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	// UpdateLoginIP records the address a successful login came from.
	UpdateLoginIP(ctx context.Context, id, ip string) error
}
