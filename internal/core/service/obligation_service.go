package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/fiscaldesk/obligations-api/internal/core/domain"
	"github.com/fiscaldesk/obligations-api/internal/core/ports"
)

// ObligationService implements the owner-scoped use cases over obligations.
// The caller id comes from the verified access token; it is stamped onto
// every record at creation and used to scope every lookup, so one user can
// never observe or mutate another user's obligations.
type ObligationService struct {
	repo ports.ObligationRepository
	log  zerolog.Logger
}

func NewObligationService(repo ports.ObligationRepository, log zerolog.Logger) *ObligationService {
	return &ObligationService{repo: repo, log: log}
}

func (s *ObligationService) List(ctx context.Context, callerID string) ([]*domain.Obligation, error) {
	return s.repo.FindByOwner(ctx, callerID)
}

func (s *ObligationService) Get(ctx context.Context, callerID, id string) (*domain.Obligation, error) {
	return s.repo.FindByID(ctx, id, callerID)
}

func (s *ObligationService) Create(ctx context.Context, callerID string, in ports.ObligationInput) (*domain.Obligation, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	o := &domain.Obligation{
		UserID:      callerID,
		Description: in.Description,
		Type:        domain.ObligationType(in.Type),
		DueDate:     in.DueDate,
		Status:      domain.StatusPending,
		Value:       in.Value,
		Reference:   in.Reference,
		Priority:    domain.PriorityMedium,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if in.Status != "" {
		o.Status = domain.ObligationStatus(in.Status)
	}
	if in.Priority != "" {
		o.Priority = domain.Priority(in.Priority)
	}

	created, err := s.repo.Insert(ctx, o)
	if err != nil {
		s.log.Error().Err(err).Str("user_id", callerID).Msg("failed to create obligation")
		return nil, err
	}

	s.log.Info().
		Str("obligation_id", created.ID).
		Str("user_id", callerID).
		Str("type", string(created.Type)).
		Msg("obligation created")
	return created, nil
}

// Replace applies a full update (PUT semantics): every client-settable field
// takes the incoming value, with status and priority falling back to their
// defaults when omitted.
func (s *ObligationService) Replace(ctx context.Context, callerID, id string, in ports.ObligationInput) (*domain.Obligation, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}

	existing, err := s.repo.FindByID(ctx, id, callerID)
	if err != nil {
		return nil, err
	}

	existing.Description = in.Description
	existing.Type = domain.ObligationType(in.Type)
	existing.DueDate = in.DueDate
	existing.Status = domain.StatusPending
	if in.Status != "" {
		existing.Status = domain.ObligationStatus(in.Status)
	}
	existing.Value = in.Value
	existing.Reference = in.Reference
	existing.Priority = domain.PriorityMedium
	if in.Priority != "" {
		existing.Priority = domain.Priority(in.Priority)
	}
	existing.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, existing); err != nil {
		return nil, err
	}
	return existing, nil
}

// Patch applies a partial update (PATCH semantics): nil fields keep their
// current value. Status changes are free-form; any valid status can follow
// any other.
func (s *ObligationService) Patch(ctx context.Context, callerID, id string, p ports.ObligationPatch) (*domain.Obligation, error) {
	existing, err := s.repo.FindByID(ctx, id, callerID)
	if err != nil {
		return nil, err
	}

	if p.Description != nil {
		existing.Description = *p.Description
	}
	if p.Type != nil {
		if !validType(*p.Type) {
			return nil, fmt.Errorf("%w: unknown obligation type %q", domain.ErrInvalidInput, *p.Type)
		}
		existing.Type = domain.ObligationType(*p.Type)
	}
	if p.DueDate != nil {
		existing.DueDate = *p.DueDate
	}
	if p.Status != nil {
		if !validStatus(*p.Status) {
			return nil, fmt.Errorf("%w: unknown status %q", domain.ErrInvalidInput, *p.Status)
		}
		existing.Status = domain.ObligationStatus(*p.Status)
	}
	if p.Value != nil {
		existing.Value = p.Value
	}
	if p.Reference != nil {
		existing.Reference = *p.Reference
	}
	if p.Priority != nil {
		if !validPriority(*p.Priority) {
			return nil, fmt.Errorf("%w: unknown priority %q", domain.ErrInvalidInput, *p.Priority)
		}
		existing.Priority = domain.Priority(*p.Priority)
	}
	existing.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, existing); err != nil {
		return nil, err
	}
	return existing, nil
}

func (s *ObligationService) Delete(ctx context.Context, callerID, id string) error {
	if err := s.repo.Delete(ctx, id, callerID); err != nil {
		return err
	}
	s.log.Info().Str("obligation_id", id).Str("user_id", callerID).Msg("obligation deleted")
	return nil
}

func validateInput(in ports.ObligationInput) error {
	if in.Description == "" {
		return fmt.Errorf("%w: description is required", domain.ErrInvalidInput)
	}
	if !validType(in.Type) {
		return fmt.Errorf("%w: unknown obligation type %q", domain.ErrInvalidInput, in.Type)
	}
	if in.DueDate.IsZero() {
		return fmt.Errorf("%w: due_date is required", domain.ErrInvalidInput)
	}
	if in.Status != "" && !validStatus(in.Status) {
		return fmt.Errorf("%w: unknown status %q", domain.ErrInvalidInput, in.Status)
	}
	if in.Priority != "" && !validPriority(in.Priority) {
		return fmt.Errorf("%w: unknown priority %q", domain.ErrInvalidInput, in.Priority)
	}
	return nil
}

func validType(t string) bool {
	switch domain.ObligationType(t) {
	case domain.TypeFederal, domain.TypeState, domain.TypeMunicipal, domain.TypeLabor:
		return true
	}
	return false
}

func validStatus(s string) bool {
	switch domain.ObligationStatus(s) {
	case domain.StatusPending, domain.StatusInProgress, domain.StatusCompleted, domain.StatusOverdue:
		return true
	}
	return false
}

func validPriority(p string) bool {
	switch domain.Priority(p) {
	case domain.PriorityHigh, domain.PriorityMedium, domain.PriorityLow:
		return true
	}
	return false
}
