package handler

import (
	"time"

	"github.com/fiscaldesk/obligations-api/internal/core/domain"
	"github.com/fiscaldesk/obligations-api/internal/core/ports"
)

// --- Request → Service input ---

func toObligationInput(req obligationRequest) (ports.ObligationInput, error) {
	due, err := time.Parse(dueDateLayout, req.DueDate)
	if err != nil {
		return ports.ObligationInput{}, err
	}
	return ports.ObligationInput{
		Description: req.Description,
		Type:        req.Type,
		DueDate:     due.UTC(),
		Status:      req.Status,
		Value:       req.Value,
		Reference:   req.Reference,
		Priority:    req.Priority,
	}, nil
}

func toObligationPatch(req obligationPatchRequest) (ports.ObligationPatch, error) {
	p := ports.ObligationPatch{
		Description: req.Description,
		Type:        req.Type,
		Status:      req.Status,
		Value:       req.Value,
		Reference:   req.Reference,
		Priority:    req.Priority,
	}
	if req.DueDate != nil {
		due, err := time.Parse(dueDateLayout, *req.DueDate)
		if err != nil {
			return ports.ObligationPatch{}, err
		}
		utc := due.UTC()
		p.DueDate = &utc
	}
	return p, nil
}

// --- Domain → HTTP response ---

func toObligationResponse(o *domain.Obligation) obligationResponse {
	return obligationResponse{
		ID:          o.ID,
		Description: o.Description,
		Type:        string(o.Type),
		DueDate:     o.DueDate.UTC().Format(dueDateLayout),
		Status:      string(o.Status),
		Value:       o.Value,
		Reference:   o.Reference,
		Priority:    string(o.Priority),
		CreatedAt:   o.CreatedAt.UTC(),
		UpdatedAt:   o.UpdatedAt.UTC(),
	}
}

func toObligationListResponse(items []*domain.Obligation) []obligationResponse {
	out := make([]obligationResponse, len(items))
	for i, o := range items {
		out[i] = toObligationResponse(o)
	}
	return out
}
