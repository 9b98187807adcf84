package postgres

import (
	stdErrors "errors"
	"strings"
	"time"

	errors "github.com/campushr/claims-management/internal"
	userDatamodel "github.com/campushr/claims-management/internal/core/datamodel/user"
	"github.com/campushr/claims-management/internal/user"
	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(u *user.User, passwordHash string) error {
	dm := u.ToDataModel(passwordHash)
	dm.CreatedDate = time.Now().UTC()
	dm.UpdatedAt = dm.CreatedDate

	if err := r.db.Create(dm).Error; err != nil {
		// the unique index backs up the service-level check against races
		if isUniqueViolation(err) {
			return errors.ErrEmailAlreadyInUse
		}
		return err
	}

	u.ID = dm.ID
	u.CreatedDate = dm.CreatedDate
	u.UpdatedAt = dm.UpdatedAt
	return nil
}

func (r *UserRepository) GetByID(id int64) (*user.User, error) {
	var dm userDatamodel.User
	if err := r.db.Where("id = ?", id).First(&dm).Error; err != nil {
		if stdErrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrUserNotFound
		}
		return nil, err
	}
	return user.FromDataModel(&dm), nil
}

func (r *UserRepository) GetByEmail(email string) (*user.User, error) {
	var dm userDatamodel.User
	if err := r.db.Where("email = ?", email).First(&dm).Error; err != nil {
		if stdErrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrUserNotFound
		}
		return nil, err
	}
	return user.FromDataModel(&dm), nil
}

func (r *UserRepository) Update(u *user.User) error {
	updates := map[string]interface{}{
		"name":        u.Name,
		"surname":     u.Surname,
		"email":       u.Email,
		"role":        string(u.Role),
		"hourly_rate": u.HourlyRate,
		"updated_at":  time.Now().UTC(),
	}

	result := r.db.Model(&userDatamodel.User{}).Where("id = ?", u.ID).Updates(updates)
	if result.Error != nil {
		if isUniqueViolation(result.Error) {
			return errors.ErrEmailAlreadyInUse
		}
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errors.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) SetActive(id int64, active bool) error {
	result := r.db.Model(&userDatamodel.User{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"is_active": active, "updated_at": time.Now().UTC()})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errors.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) List(activeOnly bool) ([]*user.User, error) {
	var dms []*userDatamodel.User
	query := r.db.Order("surname ASC, name ASC")
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}
	if err := query.Find(&dms).Error; err != nil {
		return nil, err
	}
	return user.FromDataModelSlice(dms), nil
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if stdErrors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "unique constraint")
}
