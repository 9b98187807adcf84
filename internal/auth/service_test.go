package auth_test

import (
	"fmt"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"golang.org/x/crypto/bcrypt"

	"github.com/campushr/claims-management/internal/auth"
)

func TestAuth(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Auth Suite")
}

type mockAuthRepository struct {
	passwordHash string
	userID       int64
	role         auth.Role
	active       bool
	credsErr     error
	activeErr    error
}

func (m *mockAuthRepository) GetCredentials(email string) (string, int64, auth.Role, bool, error) {
	if m.credsErr != nil {
		return "", 0, "", false, m.credsErr
	}
	return m.passwordHash, m.userID, m.role, m.active, nil
}

func (m *mockAuthRepository) IsActive(userID int64) (bool, error) {
	if m.activeErr != nil {
		return false, m.activeErr
	}
	return m.active, nil
}

var _ = Describe("Auth Service", func() {
	var (
		repo    *mockAuthRepository
		service *auth.Service
	)

	const password = "correct-horse-battery"

	BeforeEach(func() {
		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
		Expect(err).NotTo(HaveOccurred())

		repo = &mockAuthRepository{
			passwordHash: string(hash),
			userID:       42,
			role:         auth.RoleLecturer,
			active:       true,
		}

		tokenGen := auth.NewJWTTokenGenerator(
			"test-access-secret-0123456789abcdef",
			"test-refresh-secret-0123456789abcdef",
			15*time.Minute,
			24*time.Hour,
		)
		service = auth.NewService(repo, tokenGen)
	})

	Describe("Authenticate", func() {
		It("returns tokens for valid credentials", func() {
			tokens, err := service.Authenticate(auth.LoginDTO{Email: "lena@campus.example", Password: password})

			Expect(err).NotTo(HaveOccurred())
			Expect(tokens.AccessToken).NotTo(BeEmpty())
			Expect(tokens.RefreshToken).NotTo(BeEmpty())

			claims, err := service.ValidateAccessToken(tokens.AccessToken)
			Expect(err).NotTo(HaveOccurred())
			Expect(claims.UserID).To(Equal(int64(42)))
			Expect(claims.Role).To(Equal(string(auth.RoleLecturer)))
		})

		It("rejects a wrong password", func() {
			_, err := service.Authenticate(auth.LoginDTO{Email: "lena@campus.example", Password: "wrong"})
			Expect(err).To(Equal(auth.ErrInvalidCredentials))
		})

		It("rejects an unknown email without revealing it", func() {
			repo.credsErr = fmt.Errorf("record not found")

			_, err := service.Authenticate(auth.LoginDTO{Email: "ghost@campus.example", Password: password})
			Expect(err).To(Equal(auth.ErrInvalidCredentials))
		})

		It("rejects an inactive account even with the right password", func() {
			repo.active = false

			_, err := service.Authenticate(auth.LoginDTO{Email: "lena@campus.example", Password: password})
			Expect(err).To(Equal(auth.ErrUserInactive))
		})

		It("rejects a malformed login payload", func() {
			_, err := service.Authenticate(auth.LoginDTO{Email: "", Password: ""})
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("RefreshTokens", func() {
		It("issues a fresh pair from a valid refresh token", func() {
			tokens, err := service.Authenticate(auth.LoginDTO{Email: "lena@campus.example", Password: password})
			Expect(err).NotTo(HaveOccurred())

			refreshed, err := service.RefreshTokens(tokens.RefreshToken)
			Expect(err).NotTo(HaveOccurred())
			Expect(refreshed.AccessToken).NotTo(BeEmpty())
		})

		It("rejects garbage tokens", func() {
			_, err := service.RefreshTokens("not-a-token")
			Expect(err).To(HaveOccurred())
		})

		It("refuses a refresh for a deactivated account", func() {
			tokens, err := service.Authenticate(auth.LoginDTO{Email: "lena@campus.example", Password: password})
			Expect(err).NotTo(HaveOccurred())

			repo.active = false
			_, err = service.RefreshTokens(tokens.RefreshToken)
			Expect(err).To(Equal(auth.ErrUserInactive))
		})
	})

	Describe("token validation", func() {
		It("rejects an expired token", func() {
			shortGen := &auth.JWTTokenGenerator{
				AccessTokenSecret:  []byte("test-access-secret-0123456789abcdef"),
				RefreshTokenSecret: []byte("test-refresh-secret-0123456789abcdef"),
				AccessTokenTTL:     -1 * time.Minute,
				RefreshTokenTTL:    24 * time.Hour,
			}
			expired, err := shortGen.GenerateAccessToken(42, auth.RoleLecturer)
			Expect(err).NotTo(HaveOccurred())

			_, err = shortGen.ValidateToken(expired)
			Expect(err).To(HaveOccurred())
		})

		It("rejects a token signed with a different secret", func() {
			otherGen := auth.NewJWTTokenGenerator(
				"another-access-secret-0123456789ab",
				"another-refresh-secret-0123456789a",
				15*time.Minute,
				24*time.Hour,
			)
			token, err := otherGen.GenerateAccessToken(42, auth.RoleLecturer)
			Expect(err).NotTo(HaveOccurred())

			_, err = service.ValidateAccessToken(token)
			Expect(err).To(HaveOccurred())
		})
	})
})
