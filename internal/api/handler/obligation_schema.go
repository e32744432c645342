package handler

import (
	"time"

	"github.com/fiscaldesk/obligations-api/internal/core/domain"
)

const dueDateLayout = "2006-01-02"

// obligationRequest is the full payload used by POST and PUT. Any owner or
// user field a client sends is simply not part of the schema and is dropped
// on decode; the owner always comes from the access token.
type obligationRequest struct {
	Description string        `json:"description" validate:"required"`
	Type        string        `json:"type"        validate:"required,oneof=federal state municipal labor"`
	DueDate     string        `json:"due_date"    validate:"required,datetime=2006-01-02"`
	Status      string        `json:"status"      validate:"omitempty,oneof=pending in_progress completed overdue"`
	Value       *domain.Money `json:"value"`
	Reference   string        `json:"reference"`
	Priority    string        `json:"priority"    validate:"omitempty,oneof=high medium low"`
}

// obligationPatchRequest is the partial payload used by PATCH; absent fields
// keep their stored value.
type obligationPatchRequest struct {
	Description *string       `json:"description" validate:"omitempty,min=1"`
	Type        *string       `json:"type"        validate:"omitempty,oneof=federal state municipal labor"`
	DueDate     *string       `json:"due_date"    validate:"omitempty,datetime=2006-01-02"`
	Status      *string       `json:"status"      validate:"omitempty,oneof=pending in_progress completed overdue"`
	Value       *domain.Money `json:"value"`
	Reference   *string       `json:"reference"`
	Priority    *string       `json:"priority"    validate:"omitempty,oneof=high medium low"`
}

// obligationResponse is the JSON view of a single obligation. The due date
// renders date-only; the value renders as a decimal string or null.
type obligationResponse struct {
	ID          string        `json:"id"`
	Description string        `json:"description"`
	Type        string        `json:"type"`
	DueDate     string        `json:"due_date"`
	Status      string        `json:"status"`
	Value       *domain.Money `json:"value"`
	Reference   string        `json:"reference"`
	Priority    string        `json:"priority"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}
