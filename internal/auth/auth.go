package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// Role is the closed set of roles the system knows about. Authorization
// decisions switch over these values rather than comparing raw strings.
type Role string

const (
	RoleHR                   Role = "HR"
	RoleLecturer             Role = "Lecturer"
	RoleProgrammeCoordinator Role = "ProgrammeCoordinator"
	RoleAcademicManager      Role = "AcademicManager"
)

func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleHR, RoleLecturer, RoleProgrammeCoordinator, RoleAcademicManager:
		return Role(s), nil
	default:
		return "", fmt.Errorf("unknown role %q", s)
	}
}

func (r Role) Valid() bool {
	switch r {
	case RoleHR, RoleLecturer, RoleProgrammeCoordinator, RoleAcademicManager:
		return true
	}
	return false
}

// Actor is the immutable per-request identity handed to every lifecycle
// operation. It is resolved once by the auth middleware; the core never
// reaches into ambient session state.
type Actor struct {
	ID            int64
	Role          Role
	Authenticated bool
}

func (a Actor) Is(role Role) bool {
	return a.Authenticated && a.Role == role
}

type ServiceAPI interface {
	Authenticate(dto LoginDTO) (AuthTokens, error)
	RefreshTokens(refreshToken string) (AuthTokens, error)
	ValidateAccessToken(tokenString string) (*Claims, error)
}

type RepositoryAPI interface {
	GetCredentials(email string) (passwordHash string, userID int64, role Role, active bool, err error)
	IsActive(userID int64) (bool, error)
}

type AuthTokens struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type Claims struct {
	UserID int64  `json:"user_id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

type JWTTokenGenerator struct {
	AccessTokenSecret  []byte
	RefreshTokenSecret []byte
	AccessTokenTTL     time.Duration
	RefreshTokenTTL    time.Duration
}

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
	ErrTokenExpired       = errors.New("token expired")
	ErrUserInactive       = errors.New("user is inactive")
)

func VerifyPassword(hashedPassword, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
}

func HashPassword(password string, cost int) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
