package user

import (
	"strings"
	"time"

	errors "github.com/campushr/claims-management/internal"
	"github.com/campushr/claims-management/internal/auth"
	"github.com/campushr/claims-management/internal/core/common/validation"
	"github.com/shopspring/decimal"
)

const minPasswordLength = 8

type CreateUserDTO struct {
	Name       string           `json:"name"`
	Surname    string           `json:"surname"`
	Email      string           `json:"email"`
	Password   string           `json:"password"`
	Role       string           `json:"role"`
	HourlyRate *decimal.Decimal `json:"hourly_rate,omitempty"`
}

func (d CreateUserDTO) Validate() *errors.AppError {
	v := validation.NewValidator()
	v.Field("name", d.Name).Required().MaxLength(100)
	v.Field("surname", d.Surname).Required().MaxLength(100)
	v.Field("email", d.Email).Required().MaxLength(255).Custom(validateEmailShape)
	v.Field("password", d.Password).Required().Custom(func(val interface{}) *errors.AppError {
		if s, ok := val.(string); ok && len(s) < minPasswordLength {
			return errors.NewValidationFieldError("password", "password must be at least 8 characters", errors.ErrCodeValidationFailed)
		}
		return nil
	})
	v.Field("role", d.Role).Required().Custom(validateRole)
	if err := v.Validate(); err != nil {
		return err
	}
	return validateRate(auth.Role(d.Role), d.HourlyRate)
}

type UpdateUserDTO struct {
	Name       string           `json:"name"`
	Surname    string           `json:"surname"`
	Email      string           `json:"email"`
	Role       string           `json:"role"`
	HourlyRate *decimal.Decimal `json:"hourly_rate,omitempty"`
}

func (d UpdateUserDTO) Validate() *errors.AppError {
	v := validation.NewValidator()
	v.Field("name", d.Name).Required().MaxLength(100)
	v.Field("surname", d.Surname).Required().MaxLength(100)
	v.Field("email", d.Email).Required().MaxLength(255).Custom(validateEmailShape)
	v.Field("role", d.Role).Required().Custom(validateRole)
	if err := v.Validate(); err != nil {
		return err
	}
	return validateRate(auth.Role(d.Role), d.HourlyRate)
}

func validateEmailShape(val interface{}) *errors.AppError {
	s, ok := val.(string)
	if !ok {
		return nil
	}
	at := strings.Index(s, "@")
	if at <= 0 || at == len(s)-1 || strings.ContainsAny(s, " \t") {
		return errors.NewValidationFieldError("email", "email address is not valid", errors.ErrCodeValidationFailed)
	}
	return nil
}

func validateRole(val interface{}) *errors.AppError {
	s, ok := val.(string)
	if !ok {
		return nil
	}
	if _, err := auth.ParseRole(s); err != nil {
		return errors.NewValidationFieldError("role", "unknown role: "+s, errors.ErrCodeValidationFailed)
	}
	return nil
}

// lecturers need a positive hourly rate so claim amounts can be derived;
// the other roles never carry one
func validateRate(role auth.Role, rate *decimal.Decimal) *errors.AppError {
	if role == auth.RoleLecturer {
		if rate == nil || !rate.IsPositive() {
			return errors.NewValidationFieldError("hourly_rate", "lecturers require a positive hourly rate", errors.ErrCodeValidationFailed)
		}
		return nil
	}
	if rate != nil {
		return errors.NewValidationFieldError("hourly_rate", "hourly rate only applies to lecturers", errors.ErrCodeValidationFailed)
	}
	return nil
}

type UserResponse struct {
	ID          int64            `json:"id"`
	Name        string           `json:"name"`
	Surname     string           `json:"surname"`
	Email       string           `json:"email"`
	Role        string           `json:"role"`
	HourlyRate  *decimal.Decimal `json:"hourly_rate,omitempty"`
	IsActive    bool             `json:"is_active"`
	CreatedDate time.Time        `json:"created_date"`
}

func ToResponse(u *User) UserResponse {
	return UserResponse{
		ID:          u.ID,
		Name:        u.Name,
		Surname:     u.Surname,
		Email:       u.Email,
		Role:        string(u.Role),
		HourlyRate:  u.HourlyRate,
		IsActive:    u.IsActive,
		CreatedDate: u.CreatedDate,
	}
}

func ToResponseSlice(users []*User) []UserResponse {
	out := make([]UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, ToResponse(u))
	}
	return out
}
