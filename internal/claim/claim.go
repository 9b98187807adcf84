package claim

import (
	"fmt"
	"time"

	"github.com/campushr/claims-management/internal/auth"
	claimDatamodel "github.com/campushr/claims-management/internal/core/datamodel/claim"
	"github.com/shopspring/decimal"
)

// Status is the closed set of claim lifecycle states.
type Status string

const (
	StatusSubmitted             Status = "Submitted"
	StatusApprovedByCoordinator Status = "ApprovedByCoordinator"
	StatusRejected              Status = "Rejected"
	StatusPaid                  Status = "Paid"
)

func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusSubmitted, StatusApprovedByCoordinator, StatusRejected, StatusPaid:
		return Status(s), nil
	default:
		return "", fmt.Errorf("unknown claim status %q", s)
	}
}

// Terminal reports whether no further transition is defined from s.
func (s Status) Terminal() bool {
	return s == StatusPaid || s == StatusRejected
}

// Action names a lifecycle transition on an existing claim.
type Action string

const (
	ActionCoordinatorApprove Action = "CoordinatorApprove"
	ActionCoordinatorReject  Action = "CoordinatorReject"
	ActionManagerApprove     Action = "ManagerApprove"
	ActionManagerReject      Action = "ManagerReject"
	ActionOwnerEdit          Action = "OwnerEdit"
	ActionOwnerDelete        Action = "OwnerDelete"
)

// transitionRule gates one action: who may perform it, from which status,
// and where the claim ends up. Owner actions additionally require
// actor.ID == claim.OwnerID.
type transitionRule struct {
	From      Status
	Role      auth.Role
	To        Status
	OwnerOnly bool
}

// transitions is the complete table. Anything absent from it is refused;
// there is no fallback path for an unknown (action, status, role) triple.
var transitions = map[Action]transitionRule{
	ActionCoordinatorApprove: {From: StatusSubmitted, Role: auth.RoleProgrammeCoordinator, To: StatusApprovedByCoordinator},
	ActionCoordinatorReject:  {From: StatusSubmitted, Role: auth.RoleProgrammeCoordinator, To: StatusRejected},
	ActionManagerApprove:     {From: StatusApprovedByCoordinator, Role: auth.RoleAcademicManager, To: StatusPaid},
	ActionManagerReject:      {From: StatusApprovedByCoordinator, Role: auth.RoleAcademicManager, To: StatusRejected},
	ActionOwnerEdit:          {From: StatusSubmitted, Role: auth.RoleLecturer, To: StatusSubmitted, OwnerOnly: true},
	ActionOwnerDelete:        {From: StatusSubmitted, Role: auth.RoleLecturer, To: "", OwnerOnly: true},
}

// Claim is the domain entity for a lecturer's payment request.
type Claim struct {
	ID                  int64            `json:"id"`
	OwnerID             int64            `json:"owner_id"`
	Title               string           `json:"title"`
	Description         string           `json:"description"`
	HoursWorked         decimal.Decimal  `json:"hours_worked"`
	Amount              decimal.Decimal  `json:"amount"`
	Status              Status           `json:"status"`
	SubmissionDate      time.Time        `json:"submission_date"`
	DocumentationRef    *string          `json:"documentation_ref,omitempty"`
	OriginalFileName    *string          `json:"original_file_name,omitempty"`
	CoordinatorApproved *bool            `json:"coordinator_approved,omitempty"`
	ManagerApproved     *bool            `json:"manager_approved,omitempty"`
	RejectionReason     *string          `json:"rejection_reason,omitempty"`
	Version             int64            `json:"version"`
	CreatedAt           time.Time        `json:"created_at"`
	UpdatedAt           time.Time        `json:"updated_at"`
}

// Authorize checks the actor against the rule for action. The role and
// ownership checks come before the status check, so an actor who was never
// allowed to act learns nothing about the claim's current state.
func (c *Claim) Authorize(actor auth.Actor, action Action) (transitionRule, error) {
	rule, ok := transitions[action]
	if !ok {
		return transitionRule{}, fmt.Errorf("unknown action %q", action)
	}

	if !actor.Authenticated || actor.Role != rule.Role {
		return transitionRule{}, ErrUnauthorized(action)
	}
	if rule.OwnerOnly && actor.ID != c.OwnerID {
		return transitionRule{}, ErrUnauthorized(action)
	}

	if c.Status != rule.From {
		return transitionRule{}, ErrInvalidTransition(action, c.Status)
	}

	return rule, nil
}

func boolPtr(b bool) *bool { return &b }

// ApplyTransition mutates the claim per the already-authorized rule. The
// audit flags record each stage's decision separately from the status.
func (c *Claim) ApplyTransition(action Action, rule transitionRule, rejectionReason string) {
	c.Status = rule.To
	switch action {
	case ActionCoordinatorApprove:
		c.CoordinatorApproved = boolPtr(true)
	case ActionCoordinatorReject:
		c.CoordinatorApproved = boolPtr(false)
		c.RejectionReason = &rejectionReason
	case ActionManagerApprove:
		c.ManagerApproved = boolPtr(true)
	case ActionManagerReject:
		c.ManagerApproved = boolPtr(false)
		c.RejectionReason = &rejectionReason
	}
	c.UpdatedAt = time.Now()
}

func ToDataModel(c *Claim) *claimDatamodel.Claim {
	return &claimDatamodel.Claim{
		ID:                  c.ID,
		OwnerID:             c.OwnerID,
		Title:               c.Title,
		Description:         c.Description,
		HoursWorked:         c.HoursWorked,
		Amount:              c.Amount,
		Status:              string(c.Status),
		SubmissionDate:      c.SubmissionDate,
		DocumentationRef:    c.DocumentationRef,
		OriginalFileName:    c.OriginalFileName,
		CoordinatorApproved: c.CoordinatorApproved,
		ManagerApproved:     c.ManagerApproved,
		RejectionReason:     c.RejectionReason,
		Version:             c.Version,
		CreatedAt:           c.CreatedAt,
		UpdatedAt:           c.UpdatedAt,
	}
}

func FromDataModel(m *claimDatamodel.Claim) *Claim {
	return &Claim{
		ID:                  m.ID,
		OwnerID:             m.OwnerID,
		Title:               m.Title,
		Description:         m.Description,
		HoursWorked:         m.HoursWorked,
		Amount:              m.Amount,
		Status:              Status(m.Status),
		SubmissionDate:      m.SubmissionDate,
		DocumentationRef:    m.DocumentationRef,
		OriginalFileName:    m.OriginalFileName,
		CoordinatorApproved: m.CoordinatorApproved,
		ManagerApproved:     m.ManagerApproved,
		RejectionReason:     m.RejectionReason,
		Version:             m.Version,
		CreatedAt:           m.CreatedAt,
		UpdatedAt:           m.UpdatedAt,
	}
}

func FromDataModelSlice(models []*claimDatamodel.Claim) []*Claim {
	result := make([]*Claim, len(models))
	for i, m := range models {
		result[i] = FromDataModel(m)
	}
	return result
}
