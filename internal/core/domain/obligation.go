package domain

import (
	"errors"
	"time"
)

var ErrObligationNotFound = errors.New("obligation not found")

// ObligationType classifies the tax sphere an obligation belongs to.
type ObligationType string

const (
	TypeFederal   ObligationType = "federal"
	TypeState     ObligationType = "state"
	TypeMunicipal ObligationType = "municipal"
	TypeLabor     ObligationType = "labor"
)

// ObligationStatus represents the lifecycle state of an obligation.
// Any status may be set at any time; there is no enforced transition graph,
// and "overdue" is never derived automatically from the due date.
type ObligationStatus string

const (
	StatusPending    ObligationStatus = "pending"
	StatusInProgress ObligationStatus = "in_progress"
	StatusCompleted  ObligationStatus = "completed"
	StatusOverdue    ObligationStatus = "overdue"
)

// Priority ranks how urgent an obligation is.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Obligation is a tax or legal due-item owned by exactly one user. The owner
// is assigned at creation from the authenticated caller and never changes.
type Obligation struct {
	ID          string
	UserID      string
	Description string
	Type        ObligationType
	DueDate     time.Time
	Status      ObligationStatus
	Value       *Money
	Reference   string
	Priority    Priority
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
