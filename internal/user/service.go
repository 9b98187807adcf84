package user

import (
	"log/slog"

	errors "github.com/campushr/claims-management/internal"
	"github.com/campushr/claims-management/internal/auth"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

// Repository is the persistence boundary for the user directory.
type Repository interface {
	Create(u *User, passwordHash string) error
	GetByID(id int64) (*User, error)
	GetByEmail(email string) (*User, error)
	Update(u *User) error
	SetActive(id int64, active bool) error
	List(activeOnly bool) ([]*User, error)
}

type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// Create registers a new account. Only HR manages the directory, and an
// email address can only ever belong to one account.
func (s *Service) Create(actor auth.Actor, dto CreateUserDTO) (*User, error) {
	if !actor.Is(auth.RoleHR) {
		return nil, errors.NewForbiddenError("only HR can manage users", errors.ErrCodeUnauthorizedAccess)
	}

	if err := dto.Validate(); err != nil {
		s.logger.Warn("user validation failed", "actor_id", actor.ID, "error", err.GetDetailedMessage())
		return nil, err
	}

	if existing, err := s.repo.GetByEmail(dto.Email); err == nil && existing != nil {
		return nil, errors.ErrEmailAlreadyInUse
	}

	hash, err := auth.HashPassword(dto.Password, bcrypt.DefaultCost)
	if err != nil {
		return nil, errors.NewInternalError("failed to hash password", err)
	}

	u := &User{
		Name:       dto.Name,
		Surname:    dto.Surname,
		Email:      dto.Email,
		Role:       auth.Role(dto.Role),
		HourlyRate: dto.HourlyRate,
		IsActive:   true,
	}
	if err := s.repo.Create(u, hash); err != nil {
		s.logger.Error("user create failed", "email", dto.Email, "error", err)
		return nil, err
	}

	s.logger.Info("user created", "user_id", u.ID, "role", u.Role)
	return u, nil
}

// Update replaces the mutable profile fields. The password is managed
// separately and never changes here.
func (s *Service) Update(actor auth.Actor, id int64, dto UpdateUserDTO) (*User, error) {
	if !actor.Is(auth.RoleHR) {
		return nil, errors.NewForbiddenError("only HR can manage users", errors.ErrCodeUnauthorizedAccess)
	}

	if err := dto.Validate(); err != nil {
		return nil, err
	}

	u, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}

	if dto.Email != u.Email {
		if existing, err := s.repo.GetByEmail(dto.Email); err == nil && existing != nil {
			return nil, errors.ErrEmailAlreadyInUse
		}
	}

	u.Name = dto.Name
	u.Surname = dto.Surname
	u.Email = dto.Email
	u.Role = auth.Role(dto.Role)
	u.HourlyRate = dto.HourlyRate

	if err := s.repo.Update(u); err != nil {
		s.logger.Error("user update failed", "user_id", id, "error", err)
		return nil, err
	}
	return u, nil
}

// Deactivate disables the account without deleting it; existing claims
// keep referring to it.
func (s *Service) Deactivate(actor auth.Actor, id int64) error {
	if !actor.Is(auth.RoleHR) {
		return errors.NewForbiddenError("only HR can manage users", errors.ErrCodeUnauthorizedAccess)
	}

	if err := s.repo.SetActive(id, false); err != nil {
		s.logger.Error("user deactivate failed", "user_id", id, "error", err)
		return err
	}
	s.logger.Info("user deactivated", "user_id", id, "actor_id", actor.ID)
	return nil
}

func (s *Service) Get(actor auth.Actor, id int64) (*User, error) {
	if !actor.Is(auth.RoleHR) && actor.ID != id {
		return nil, errors.NewForbiddenError("you can only view your own account", errors.ErrCodeUnauthorizedAccess)
	}
	return s.repo.GetByID(id)
}

func (s *Service) List(actor auth.Actor, activeOnly bool) ([]*User, error) {
	if !actor.Is(auth.RoleHR) {
		return nil, errors.NewForbiddenError("only HR can list users", errors.ErrCodeUnauthorizedAccess)
	}
	return s.repo.List(activeOnly)
}

func (s *Service) CurrentUser(actor auth.Actor) (*User, error) {
	return s.repo.GetByID(actor.ID)
}

// HourlyRate resolves the owner's current rate at the moment of a claim
// create or edit. A missing or non-lecturer user has no rate.
func (s *Service) HourlyRate(userID int64) (decimal.Decimal, error) {
	u, err := s.repo.GetByID(userID)
	if err != nil {
		return decimal.Zero, err
	}
	if u.Role != auth.RoleLecturer || u.HourlyRate == nil {
		return decimal.Zero, errors.ErrUserNotFound
	}
	return *u.HourlyRate, nil
}
