package claim

import (
	"fmt"

	errors "github.com/campushr/claims-management/internal"
	"github.com/campushr/claims-management/internal/core/common/validation"
	"github.com/shopspring/decimal"
)

var maxHoursWorked = decimal.NewFromInt(180)

// ErrUnauthorized is the outcome for an actor who lacks the role or the
// ownership a transition requires. It is deliberately independent of the
// claim's current status.
func ErrUnauthorized(action Action) *errors.AppError {
	return errors.NewForbiddenError(
		fmt.Sprintf("you are not allowed to perform %s on this claim", action),
		errors.ErrCodeUnauthorizedAccess)
}

// ErrInvalidTransition is the outcome for a correctly-authorized actor whose
// requested action is not legal from the claim's current status.
func ErrInvalidTransition(action Action, current Status) *errors.AppError {
	switch action {
	case ActionOwnerEdit:
		return errors.NewInvalidTransitionError("Only submitted claims can be edited", string(current))
	case ActionOwnerDelete:
		return errors.NewInvalidTransitionError("Only submitted claims can be deleted", string(current))
	default:
		return errors.NewInvalidTransitionError(string(action), string(current))
	}
}

// DocumentUpload carries the raw uploaded file through validation into the
// file store.
type DocumentUpload struct {
	FileName string
	Size     int64
	Data     []byte
}

type CreateClaimDTO struct {
	Title       string          `json:"title"`
	Description string          `json:"description"`
	HoursWorked decimal.Decimal `json:"hours_worked"`
	Document    *DocumentUpload `json:"-"`
}

// Validate collects every field violation before reporting.
func (dto CreateClaimDTO) Validate() *errors.AppError {
	v := validation.NewValidator()
	v.Field("title", dto.Title).Required().MaxLength(255)
	v.Field("description", dto.Description).Required().MaxLength(1000)
	v.Field("hours_worked", dto.HoursWorked).
		GreaterThan(decimal.Zero, errors.ErrCodeInvalidHours).
		AtMost(maxHoursWorked, errors.ErrCodeInvalidHours)
	v.Field("documentation", dto.Document).Custom(validateRequiredDocument)
	return v.Validate()
}

type UpdateClaimDTO struct {
	Title       string          `json:"title"`
	Description string          `json:"description"`
	HoursWorked decimal.Decimal `json:"hours_worked"`
	// Document is optional on edit; nil keeps the existing file.
	Document *DocumentUpload `json:"-"`
}

func (dto UpdateClaimDTO) Validate() *errors.AppError {
	v := validation.NewValidator()
	v.Field("title", dto.Title).Required().MaxLength(255)
	v.Field("description", dto.Description).Required().MaxLength(1000)
	v.Field("hours_worked", dto.HoursWorked).
		GreaterThan(decimal.Zero, errors.ErrCodeInvalidHours).
		AtMost(maxHoursWorked, errors.ErrCodeInvalidHours)
	if dto.Document != nil {
		v.Field("documentation", dto.Document).Custom(validateOptionalDocument)
	}
	return v.Validate()
}

type RejectClaimDTO struct {
	Reason string `json:"reason"`
}

// ReasonOrDefault guarantees a rejected claim always carries a reason.
func (dto RejectClaimDTO) ReasonOrDefault() string {
	if dto.Reason == "" {
		return "No reason provided"
	}
	return dto.Reason
}

func validateRequiredDocument(value interface{}) *errors.AppError {
	doc, _ := value.(*DocumentUpload)
	if doc == nil || doc.Size == 0 {
		return errors.NewValidationFieldError("documentation",
			"please upload a supporting document",
			errors.ErrCodeDocumentRequired)
	}
	return validateOptionalDocument(value)
}

func validateOptionalDocument(value interface{}) *errors.AppError {
	doc, _ := value.(*DocumentUpload)
	if doc == nil {
		return nil
	}

	var violations []errors.ValidationError
	if err := validation.ValidateDocumentFileName("documentation", doc.FileName); err != nil {
		if details, ok := err.Details.(errors.ValidationErrors); ok {
			violations = append(violations, details.Errors...)
		}
	}
	if err := validation.ValidateDocumentSize("documentation", doc.Size); err != nil {
		if details, ok := err.Details.(errors.ValidationErrors); ok {
			violations = append(violations, details.Errors...)
		}
	}

	if len(violations) > 0 {
		return errors.NewValidationError("Validation failed", errors.ErrCodeValidationFailed).
			WithDetails(errors.ValidationErrors{Errors: violations})
	}
	return nil
}
