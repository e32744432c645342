package ports

import (
	"context"
	"time"

	"github.com/fiscaldesk/obligations-api/internal/core/domain"
)

// ObligationInput carries all client-settable fields of an obligation.
// The owner is never part of the input; the service assigns it from the
// authenticated caller.
type ObligationInput struct {
	Description string
	Type        string
	DueDate     time.Time
	Status      string // optional, defaults to pending
	Value       *domain.Money
	Reference   string
	Priority    string // optional, defaults to medium
}

// ObligationPatch carries a partial update; nil fields are left unchanged.
type ObligationPatch struct {
	Description *string
	Type        *string
	DueDate     *time.Time
	Status      *string
	Value       *domain.Money
	Reference   *string
	Priority    *string
}

// ObligationService defines the owner-scoped use cases over obligations.
// callerID is the authenticated user id; no operation can reach another
// user's records.
type ObligationService interface {
	List(ctx context.Context, callerID string) ([]*domain.Obligation, error)
	Get(ctx context.Context, callerID, id string) (*domain.Obligation, error)
	Create(ctx context.Context, callerID string, in ObligationInput) (*domain.Obligation, error)
	Replace(ctx context.Context, callerID, id string, in ObligationInput) (*domain.Obligation, error)
	Patch(ctx context.Context, callerID, id string, p ObligationPatch) (*domain.Obligation, error)
	Delete(ctx context.Context, callerID, id string) error
}
