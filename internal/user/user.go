package user

import (
	"time"

	"github.com/campushr/claims-management/internal/auth"
	userDatamodel "github.com/campushr/claims-management/internal/core/datamodel/user"
	"github.com/shopspring/decimal"
)

// User is a directory entry. HourlyRate is only meaningful for lecturers;
// for the other roles it stays nil.
type User struct {
	ID          int64
	Name        string
	Surname     string
	Email       string
	Role        auth.Role
	HourlyRate  *decimal.Decimal
	IsActive    bool
	CreatedDate time.Time
	UpdatedAt   time.Time
}

func (u *User) FullName() string {
	return u.Name + " " + u.Surname
}

func (u *User) ToDataModel(passwordHash string) *userDatamodel.User {
	return &userDatamodel.User{
		ID:           u.ID,
		Name:         u.Name,
		Surname:      u.Surname,
		Email:        u.Email,
		PasswordHash: passwordHash,
		HourlyRate:   u.HourlyRate,
		Role:         string(u.Role),
		IsActive:     u.IsActive,
		CreatedDate:  u.CreatedDate,
		UpdatedAt:    u.UpdatedAt,
	}
}

func FromDataModel(dm *userDatamodel.User) *User {
	return &User{
		ID:          dm.ID,
		Name:        dm.Name,
		Surname:     dm.Surname,
		Email:       dm.Email,
		Role:        auth.Role(dm.Role),
		HourlyRate:  dm.HourlyRate,
		IsActive:    dm.IsActive,
		CreatedDate: dm.CreatedDate,
		UpdatedAt:   dm.UpdatedAt,
	}
}

func FromDataModelSlice(dms []*userDatamodel.User) []*User {
	users := make([]*User, 0, len(dms))
	for _, dm := range dms {
		users = append(users, FromDataModel(dm))
	}
	return users
}
