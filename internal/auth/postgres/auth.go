package postgres

import (
	"github.com/campushr/claims-management/internal/auth"
	userDatamodel "github.com/campushr/claims-management/internal/core/datamodel/user"
	"gorm.io/gorm"
)

// AuthRepository resolves login credentials against the users table.
type AuthRepository struct {
	db *gorm.DB
}

func NewAuthRepository(db *gorm.DB) auth.RepositoryAPI {
	return &AuthRepository{db: db}
}

func (r *AuthRepository) GetCredentials(email string) (string, int64, auth.Role, bool, error) {
	var u userDatamodel.User
	// email comparison is case-sensitive, matching the uniqueness rule
	if err := r.db.Where("email = ?", email).First(&u).Error; err != nil {
		return "", 0, "", false, err
	}

	role, err := auth.ParseRole(u.Role)
	if err != nil {
		return "", 0, "", false, err
	}

	return u.PasswordHash, u.ID, role, u.IsActive, nil
}

func (r *AuthRepository) IsActive(userID int64) (bool, error) {
	var u userDatamodel.User
	if err := r.db.Select("is_active").Where("id = ?", userID).First(&u).Error; err != nil {
		return false, err
	}
	return u.IsActive, nil
}
