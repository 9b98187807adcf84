package postgres_test

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	errors "github.com/campushr/claims-management/internal"
	"github.com/campushr/claims-management/internal/auth"
	userDatamodel "github.com/campushr/claims-management/internal/core/datamodel/user"
	"github.com/campushr/claims-management/internal/user"
	userPostgres "github.com/campushr/claims-management/internal/user/postgres"
)

func TestUserPostgres(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "User Postgres Suite")
}

var _ = Describe("User Repository", func() {
	var (
		db   *gorm.DB
		repo *userPostgres.UserRepository
	)

	rate := decimal.NewFromInt(150)

	newUser := func(email string) *user.User {
		return &user.User{
			Name:       "Lena",
			Surname:    "Novak",
			Email:      email,
			Role:       auth.RoleLecturer,
			HourlyRate: &rate,
			IsActive:   true,
		}
	}

	BeforeEach(func() {
		var err error
		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
		Expect(err).NotTo(HaveOccurred())

		err = db.AutoMigrate(&userDatamodel.User{})
		Expect(err).NotTo(HaveOccurred())

		repo = userPostgres.NewUserRepository(db)
	})

	It("persists and reads back a user", func() {
		u := newUser("lena@campus.example")

		Expect(repo.Create(u, "hash")).To(Succeed())
		Expect(u.ID).NotTo(BeZero())

		got, err := repo.GetByID(u.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(got.Email).To(Equal("lena@campus.example"))
		Expect(got.Role).To(Equal(auth.RoleLecturer))
		Expect(got.HourlyRate.Equal(rate)).To(BeTrue())
	})

	It("enforces the unique email index", func() {
		Expect(repo.Create(newUser("lena@campus.example"), "hash")).To(Succeed())

		err := repo.Create(newUser("lena@campus.example"), "hash")
		Expect(err).To(Equal(errors.ErrEmailAlreadyInUse))
	})

	It("finds users by exact email", func() {
		Expect(repo.Create(newUser("lena@campus.example"), "hash")).To(Succeed())

		_, err := repo.GetByEmail("lena@campus.example")
		Expect(err).NotTo(HaveOccurred())

		_, err = repo.GetByEmail("LENA@campus.example")
		Expect(err).To(Equal(errors.ErrUserNotFound))
	})

	It("updates profile fields", func() {
		u := newUser("lena@campus.example")
		Expect(repo.Create(u, "hash")).To(Succeed())

		newRate := decimal.NewFromInt(175)
		u.Surname = "Novak-Kral"
		u.HourlyRate = &newRate
		Expect(repo.Update(u)).To(Succeed())

		got, err := repo.GetByID(u.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(got.Surname).To(Equal("Novak-Kral"))
		Expect(got.HourlyRate.Equal(newRate)).To(BeTrue())
	})

	It("deactivates without deleting", func() {
		u := newUser("lena@campus.example")
		Expect(repo.Create(u, "hash")).To(Succeed())

		Expect(repo.SetActive(u.ID, false)).To(Succeed())

		got, err := repo.GetByID(u.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(got.IsActive).To(BeFalse())
	})

	It("lists only active users on request", func() {
		first := newUser("a@campus.example")
		second := newUser("b@campus.example")
		Expect(repo.Create(first, "hash")).To(Succeed())
		Expect(repo.Create(second, "hash")).To(Succeed())
		Expect(repo.SetActive(first.ID, false)).To(Succeed())

		all, err := repo.List(false)
		Expect(err).NotTo(HaveOccurred())
		Expect(all).To(HaveLen(2))

		active, err := repo.List(true)
		Expect(err).NotTo(HaveOccurred())
		Expect(active).To(HaveLen(1))
		Expect(active[0].Email).To(Equal("b@campus.example"))
	})

	It("reports a missing user", func() {
		_, err := repo.GetByID(424242)
		Expect(err).To(Equal(errors.ErrUserNotFound))

		Expect(repo.SetActive(424242, false)).To(Equal(errors.ErrUserNotFound))
	})
})
