package ports

import (
	"context"

	"github.com/fiscaldesk/obligations-api/internal/core/domain"
)

// ObligationRepository defines persistence operations for obligations.
// Every method that addresses a single record takes the owner id and scopes
// the query by it; a record owned by someone else behaves exactly like a
// missing one (domain.ErrObligationNotFound).
type ObligationRepository interface {
	Insert(ctx context.Context, o *domain.Obligation) (*domain.Obligation, error)
	FindByID(ctx context.Context, id, ownerID string) (*domain.Obligation, error)
	// FindByOwner returns all obligations of ownerID ordered by due date descending.
	FindByOwner(ctx context.Context, ownerID string) ([]*domain.Obligation, error)
	Update(ctx context.Context, o *domain.Obligation) error
	Delete(ctx context.Context, id, ownerID string) error
}
