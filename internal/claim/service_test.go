package claim_test

import (
	"context"
	"fmt"
	"log/slog"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"

	errors "github.com/campushr/claims-management/internal"
	"github.com/campushr/claims-management/internal/auth"
	"github.com/campushr/claims-management/internal/claim"
	"github.com/campushr/claims-management/internal/core/events"
)

func TestClaim(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Claim Suite")
}

// Mock repository for testing
type mockClaimRepository struct {
	claims    map[int64]*claim.Claim
	nextID    int64
	createErr error
	getErr    error
	updateErr error
	deleteErr error
}

func newMockClaimRepository() *mockClaimRepository {
	return &mockClaimRepository{
		claims: make(map[int64]*claim.Claim),
		nextID: 1,
	}
}

func (m *mockClaimRepository) Create(c *claim.Claim) error {
	if m.createErr != nil {
		return m.createErr
	}
	c.ID = m.nextID
	m.nextID++
	stored := *c
	m.claims[c.ID] = &stored
	return nil
}

func (m *mockClaimRepository) GetByID(id int64) (*claim.Claim, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	c, ok := m.claims[id]
	if !ok {
		return nil, errors.ErrClaimNotFound
	}
	copied := *c
	return &copied, nil
}

func (m *mockClaimRepository) GetByOwner(ownerID int64) ([]*claim.Claim, error) {
	var result []*claim.Claim
	for _, c := range m.claims {
		if c.OwnerID == ownerID {
			copied := *c
			result = append(result, &copied)
		}
	}
	return result, nil
}

func (m *mockClaimRepository) GetByStatus(status claim.Status) ([]*claim.Claim, error) {
	var result []*claim.Claim
	for _, c := range m.claims {
		if c.Status == status {
			copied := *c
			result = append(result, &copied)
		}
	}
	return result, nil
}

func (m *mockClaimRepository) Update(c *claim.Claim) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	stored, ok := m.claims[c.ID]
	if !ok {
		return errors.ErrClaimNotFound
	}
	if stored.Version != c.Version {
		return errors.ErrStaleClaimVersion
	}
	c.Version++
	copied := *c
	m.claims[c.ID] = &copied
	return nil
}

func (m *mockClaimRepository) Delete(id, expectedOwnerID int64, expectedStatus claim.Status) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	c, ok := m.claims[id]
	if !ok {
		return errors.ErrClaimNotFound
	}
	if c.OwnerID != expectedOwnerID || c.Status != expectedStatus {
		return errors.NewConflictError("claim changed before delete", errors.ErrCodePreconditionFailed)
	}
	delete(m.claims, id)
	return nil
}

type mockFileStore struct {
	stored   map[string]string
	deleted  []string
	storeErr error
	nextRef  int
}

func newMockFileStore() *mockFileStore {
	return &mockFileStore{stored: make(map[string]string)}
}

func (m *mockFileStore) Store(data []byte, originalName string) (string, error) {
	if m.storeErr != nil {
		return "", m.storeErr
	}
	m.nextRef++
	ref := fmt.Sprintf("ref-%d", m.nextRef)
	m.stored[ref] = originalName
	return ref, nil
}

func (m *mockFileStore) Delete(ref string) error {
	m.deleted = append(m.deleted, ref)
	delete(m.stored, ref)
	return nil
}

type mockRateDirectory struct {
	rate decimal.Decimal
	err  error
}

func (m *mockRateDirectory) HourlyRate(userID int64) (decimal.Decimal, error) {
	if m.err != nil {
		return decimal.Zero, m.err
	}
	return m.rate, nil
}

type mockPublisher struct {
	published []events.Event
}

func (m *mockPublisher) Publish(ctx context.Context, event events.Event) error {
	m.published = append(m.published, event)
	return nil
}

var _ = Describe("Claim Service", func() {
	var (
		repo      *mockClaimRepository
		files     *mockFileStore
		rates     *mockRateDirectory
		publisher *mockPublisher
		service   *claim.Service

		lecturer    auth.Actor
		coordinator auth.Actor
		manager     auth.Actor
		hr          auth.Actor
	)

	validDocument := func() *claim.DocumentUpload {
		return &claim.DocumentUpload{
			FileName: "timesheet.pdf",
			Size:     1024,
			Data:     []byte("pdf-bytes"),
		}
	}

	validCreateDTO := func() claim.CreateClaimDTO {
		return claim.CreateClaimDTO{
			Title:       "Guest lecture series",
			Description: "Extra teaching hours for semester one",
			HoursWorked: decimal.NewFromInt(10),
			Document:    validDocument(),
		}
	}

	BeforeEach(func() {
		repo = newMockClaimRepository()
		files = newMockFileStore()
		rates = &mockRateDirectory{rate: decimal.NewFromInt(150)}
		publisher = &mockPublisher{}
		service = claim.NewService(repo, files, rates, publisher, slog.Default())

		lecturer = auth.Actor{ID: 1, Role: auth.RoleLecturer, Authenticated: true}
		coordinator = auth.Actor{ID: 2, Role: auth.RoleProgrammeCoordinator, Authenticated: true}
		manager = auth.Actor{ID: 3, Role: auth.RoleAcademicManager, Authenticated: true}
		hr = auth.Actor{ID: 4, Role: auth.RoleHR, Authenticated: true}
	})

	submitClaim := func() *claim.Claim {
		c, err := service.SubmitClaim(lecturer, validCreateDTO())
		Expect(err).NotTo(HaveOccurred())
		return c
	}

	Describe("SubmitClaim", func() {
		It("creates a Submitted claim with the derived amount", func() {
			c, err := service.SubmitClaim(lecturer, validCreateDTO())

			Expect(err).NotTo(HaveOccurred())
			Expect(c.Status).To(Equal(claim.StatusSubmitted))
			Expect(c.OwnerID).To(Equal(lecturer.ID))
			Expect(c.Amount.Equal(decimal.NewFromInt(1500))).To(BeTrue())
			Expect(c.Version).To(Equal(int64(1)))
			Expect(c.DocumentationRef).NotTo(BeNil())
			Expect(files.stored).To(HaveLen(1))
			Expect(publisher.published).To(HaveLen(1))
		})

		It("accepts exactly 180 hours", func() {
			dto := validCreateDTO()
			dto.HoursWorked = decimal.RequireFromString("180.00")

			_, err := service.SubmitClaim(lecturer, dto)
			Expect(err).NotTo(HaveOccurred())
		})

		It("rejects 180.01 hours", func() {
			dto := validCreateDTO()
			dto.HoursWorked = decimal.RequireFromString("180.01")

			_, err := service.SubmitClaim(lecturer, dto)
			Expect(err).To(HaveOccurred())
			appErr, ok := err.(*errors.AppError)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(errors.ErrorTypeValidation))
		})

		It("rejects zero hours", func() {
			dto := validCreateDTO()
			dto.HoursWorked = decimal.Zero

			_, err := service.SubmitClaim(lecturer, dto)
			Expect(err).To(HaveOccurred())
		})

		It("requires a documentation file", func() {
			dto := validCreateDTO()
			dto.Document = nil

			_, err := service.SubmitClaim(lecturer, dto)
			Expect(err).To(HaveOccurred())
			appErr := err.(*errors.AppError)
			Expect(appErr.GetDetailedMessage()).To(ContainSubstring("supporting document"))
		})

		It("rejects an executable attachment", func() {
			dto := validCreateDTO()
			dto.Document.FileName = "invoice.exe"

			_, err := service.SubmitClaim(lecturer, dto)
			Expect(err).To(HaveOccurred())
			Expect(files.stored).To(BeEmpty())
		})

		It("rejects a 6MB pdf", func() {
			dto := validCreateDTO()
			dto.Document.Size = 6 * 1024 * 1024

			_, err := service.SubmitClaim(lecturer, dto)
			Expect(err).To(HaveOccurred())
		})

		It("accepts a 4MB png", func() {
			dto := validCreateDTO()
			dto.Document.FileName = "receipt.PNG"
			dto.Document.Size = 4 * 1024 * 1024

			_, err := service.SubmitClaim(lecturer, dto)
			Expect(err).NotTo(HaveOccurred())
		})

		It("collects every violation in one response", func() {
			dto := claim.CreateClaimDTO{
				Title:       "",
				Description: "",
				HoursWorked: decimal.Zero,
				Document:    nil,
			}

			_, err := service.SubmitClaim(lecturer, dto)
			Expect(err).To(HaveOccurred())
			appErr := err.(*errors.AppError)
			details, ok := appErr.Details.(errors.ValidationErrors)
			Expect(ok).To(BeTrue())
			Expect(len(details.Errors)).To(BeNumerically(">=", 4))
		})

		It("refuses non-lecturer roles", func() {
			for _, actor := range []auth.Actor{coordinator, manager, hr} {
				_, err := service.SubmitClaim(actor, validCreateDTO())
				Expect(err).To(HaveOccurred())
				appErr := err.(*errors.AppError)
				Expect(appErr.Type).To(Equal(errors.ErrorTypeForbidden))
			}
			Expect(repo.claims).To(BeEmpty())
		})

		It("blocks submission when the file store fails", func() {
			files.storeErr = fmt.Errorf("disk full")

			_, err := service.SubmitClaim(lecturer, validCreateDTO())
			Expect(err).To(HaveOccurred())
			appErr := err.(*errors.AppError)
			Expect(appErr.Type).To(Equal(errors.ErrorTypeStorage))
			Expect(repo.claims).To(BeEmpty())
		})

		It("releases the stored file when the create fails", func() {
			repo.createErr = fmt.Errorf("db down")

			_, err := service.SubmitClaim(lecturer, validCreateDTO())
			Expect(err).To(HaveOccurred())
			Expect(files.stored).To(BeEmpty())
			Expect(files.deleted).To(HaveLen(1))
		})
	})

	Describe("EditClaim", func() {
		var existing *claim.Claim

		validUpdateDTO := func() claim.UpdateClaimDTO {
			return claim.UpdateClaimDTO{
				Title:       "Guest lecture series (amended)",
				Description: "Corrected the hours",
				HoursWorked: decimal.NewFromInt(12),
			}
		}

		BeforeEach(func() {
			existing = submitClaim()
		})

		It("recomputes the amount from the current rate", func() {
			rates.rate = decimal.NewFromInt(200)

			updated, err := service.EditClaim(lecturer, existing.ID, validUpdateDTO())

			Expect(err).NotTo(HaveOccurred())
			Expect(updated.Amount.Equal(decimal.NewFromInt(2400))).To(BeTrue())
			Expect(updated.Status).To(Equal(claim.StatusSubmitted))
		})

		It("keeps the existing file when no new one is uploaded", func() {
			_, err := service.EditClaim(lecturer, existing.ID, validUpdateDTO())

			Expect(err).NotTo(HaveOccurred())
			Expect(files.deleted).To(BeEmpty())
			Expect(files.stored).To(HaveLen(1))
		})

		It("replaces the file and releases the old one after the update", func() {
			oldRef := *existing.DocumentationRef
			dto := validUpdateDTO()
			dto.Document = &claim.DocumentUpload{FileName: "new.pdf", Size: 100, Data: []byte("x")}

			updated, err := service.EditClaim(lecturer, existing.ID, dto)

			Expect(err).NotTo(HaveOccurred())
			Expect(*updated.DocumentationRef).NotTo(Equal(oldRef))
			Expect(files.deleted).To(ContainElement(oldRef))
		})

		It("releases the new file when the update fails", func() {
			repo.updateErr = fmt.Errorf("db down")
			oldRef := *existing.DocumentationRef
			dto := validUpdateDTO()
			dto.Document = &claim.DocumentUpload{FileName: "new.pdf", Size: 100, Data: []byte("x")}

			_, err := service.EditClaim(lecturer, existing.ID, dto)

			Expect(err).To(HaveOccurred())
			Expect(files.stored).To(HaveKey(oldRef))
			Expect(files.deleted).NotTo(ContainElement(oldRef))
		})

		It("refuses another lecturer", func() {
			other := auth.Actor{ID: 99, Role: auth.RoleLecturer, Authenticated: true}

			_, err := service.EditClaim(other, existing.ID, validUpdateDTO())
			Expect(err).To(HaveOccurred())
			appErr := err.(*errors.AppError)
			Expect(appErr.Type).To(Equal(errors.ErrorTypeForbidden))
		})

		It("refuses an edit once the coordinator approved", func() {
			_, err := service.CoordinatorApprove(coordinator, existing.ID)
			Expect(err).NotTo(HaveOccurred())

			_, err = service.EditClaim(lecturer, existing.ID, validUpdateDTO())
			Expect(err).To(HaveOccurred())
			appErr := err.(*errors.AppError)
			Expect(appErr.Type).To(Equal(errors.ErrorTypeInvalidTransition))
			Expect(appErr.Message).To(ContainSubstring("Only submitted claims can be edited"))
			Expect(appErr.Message).To(ContainSubstring("ApprovedByCoordinator"))
		})
	})

	Describe("DeleteClaim", func() {
		It("removes an owned Submitted claim and its file", func() {
			c := submitClaim()
			ref := *c.DocumentationRef

			err := service.DeleteClaim(lecturer, c.ID)

			Expect(err).NotTo(HaveOccurred())
			Expect(repo.claims).To(BeEmpty())
			Expect(files.deleted).To(ContainElement(ref))
		})

		It("refuses once the claim left Submitted", func() {
			c := submitClaim()
			_, err := service.CoordinatorApprove(coordinator, c.ID)
			Expect(err).NotTo(HaveOccurred())

			err = service.DeleteClaim(lecturer, c.ID)
			Expect(err).To(HaveOccurred())
			appErr := err.(*errors.AppError)
			Expect(appErr.Message).To(ContainSubstring("Only submitted claims can be deleted"))
		})
	})

	Describe("approval workflow", func() {
		It("moves Submitted to ApprovedByCoordinator", func() {
			c := submitClaim()

			updated, err := service.CoordinatorApprove(coordinator, c.ID)

			Expect(err).NotTo(HaveOccurred())
			Expect(updated.Status).To(Equal(claim.StatusApprovedByCoordinator))
			Expect(updated.CoordinatorApproved).NotTo(BeNil())
			Expect(*updated.CoordinatorApproved).To(BeTrue())
		})

		It("moves ApprovedByCoordinator to Paid", func() {
			c := submitClaim()
			_, err := service.CoordinatorApprove(coordinator, c.ID)
			Expect(err).NotTo(HaveOccurred())

			updated, err := service.ManagerApprove(manager, c.ID)

			Expect(err).NotTo(HaveOccurred())
			Expect(updated.Status).To(Equal(claim.StatusPaid))
			Expect(*updated.ManagerApproved).To(BeTrue())
		})

		It("refuses a second coordinator approval", func() {
			c := submitClaim()
			_, err := service.CoordinatorApprove(coordinator, c.ID)
			Expect(err).NotTo(HaveOccurred())

			_, err = service.CoordinatorApprove(coordinator, c.ID)
			Expect(err).To(HaveOccurred())
			appErr := err.(*errors.AppError)
			Expect(appErr.Type).To(Equal(errors.ErrorTypeInvalidTransition))
			Expect(appErr.Message).To(ContainSubstring("Current status: ApprovedByCoordinator"))
		})

		It("refuses a manager approval straight from Submitted", func() {
			c := submitClaim()

			_, err := service.ManagerApprove(manager, c.ID)
			Expect(err).To(HaveOccurred())
			appErr := err.(*errors.AppError)
			Expect(appErr.Type).To(Equal(errors.ErrorTypeInvalidTransition))
			Expect(appErr.Message).To(ContainSubstring("Current status: Submitted"))
		})

		It("records the rejection reason", func() {
			c := submitClaim()

			updated, err := service.CoordinatorReject(coordinator, c.ID, claim.RejectClaimDTO{Reason: "no contract on file"})

			Expect(err).NotTo(HaveOccurred())
			Expect(updated.Status).To(Equal(claim.StatusRejected))
			Expect(*updated.RejectionReason).To(Equal("no contract on file"))
			Expect(*updated.CoordinatorApproved).To(BeFalse())
		})

		It("defaults an empty rejection reason", func() {
			c := submitClaim()
			_, err := service.CoordinatorApprove(coordinator, c.ID)
			Expect(err).NotTo(HaveOccurred())

			updated, err := service.ManagerReject(manager, c.ID, claim.RejectClaimDTO{})

			Expect(err).NotTo(HaveOccurred())
			Expect(updated.Status).To(Equal(claim.StatusRejected))
			Expect(*updated.RejectionReason).To(Equal("No reason provided"))
		})

		It("refuses a lecturer attempting an approval, even on a missing claim", func() {
			_, err := service.CoordinatorApprove(lecturer, 424242)

			Expect(err).To(HaveOccurred())
			appErr := err.(*errors.AppError)
			Expect(appErr.Type).To(Equal(errors.ErrorTypeForbidden))
		})

		It("refuses an approver settling their own claim", func() {
			c := submitClaim()
			repoClaim := repo.claims[c.ID]
			repoClaim.OwnerID = coordinator.ID

			_, err := service.CoordinatorApprove(coordinator, c.ID)
			Expect(err).To(HaveOccurred())
			appErr := err.(*errors.AppError)
			Expect(appErr.Type).To(Equal(errors.ErrorTypeForbidden))
		})

		It("rejected claims accept no further transitions", func() {
			c := submitClaim()
			_, err := service.CoordinatorReject(coordinator, c.ID, claim.RejectClaimDTO{Reason: "duplicate"})
			Expect(err).NotTo(HaveOccurred())

			_, err = service.CoordinatorApprove(coordinator, c.ID)
			Expect(err).To(HaveOccurred())
			_, err = service.ManagerApprove(manager, c.ID)
			Expect(err).To(HaveOccurred())
		})

		It("surfaces a stale version as a conflict", func() {
			c := submitClaim()
			repo.updateErr = errors.ErrStaleClaimVersion

			_, err := service.CoordinatorApprove(coordinator, c.ID)
			Expect(err).To(HaveOccurred())
			appErr := err.(*errors.AppError)
			Expect(appErr.Code).To(Equal(errors.ErrCodeStaleClaimVersion))
		})

		It("publishes an audit event for each transition", func() {
			c := submitClaim()
			before := len(publisher.published)

			_, err := service.CoordinatorApprove(coordinator, c.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(publisher.published).To(HaveLen(before + 1))
		})
	})

	Describe("GetClaim", func() {
		It("lets the owner read their claim", func() {
			c := submitClaim()

			got, err := service.GetClaim(lecturer, c.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(got.ID).To(Equal(c.ID))
		})

		It("hides another lecturer's claim", func() {
			c := submitClaim()
			other := auth.Actor{ID: 99, Role: auth.RoleLecturer, Authenticated: true}

			_, err := service.GetClaim(other, c.ID)
			Expect(err).To(HaveOccurred())
		})

		It("lets review roles read any claim", func() {
			c := submitClaim()

			for _, actor := range []auth.Actor{coordinator, manager, hr} {
				_, err := service.GetClaim(actor, c.ID)
				Expect(err).NotTo(HaveOccurred())
			}
		})
	})

	Describe("review queues", func() {
		It("gives coordinators the Submitted queue only", func() {
			submitClaim()

			list, err := service.ListByStatus(coordinator, claim.StatusSubmitted)
			Expect(err).NotTo(HaveOccurred())
			Expect(list).To(HaveLen(1))

			_, err = service.ListByStatus(coordinator, claim.StatusApprovedByCoordinator)
			Expect(err).To(HaveOccurred())
		})

		It("gives managers the ApprovedByCoordinator queue only", func() {
			c := submitClaim()
			_, err := service.CoordinatorApprove(coordinator, c.ID)
			Expect(err).NotTo(HaveOccurred())

			list, err := service.ListByStatus(manager, claim.StatusApprovedByCoordinator)
			Expect(err).NotTo(HaveOccurred())
			Expect(list).To(HaveLen(1))

			_, err = service.ListByStatus(manager, claim.StatusSubmitted)
			Expect(err).To(HaveOccurred())
		})

		It("lets HR ask for any status", func() {
			submitClaim()

			list, err := service.ListByStatus(hr, claim.StatusSubmitted)
			Expect(err).NotTo(HaveOccurred())
			Expect(list).To(HaveLen(1))
		})

		It("limits ListOwn to lecturers", func() {
			submitClaim()

			list, err := service.ListOwn(lecturer)
			Expect(err).NotTo(HaveOccurred())
			Expect(list).To(HaveLen(1))

			_, err = service.ListOwn(hr)
			Expect(err).To(HaveOccurred())
		})
	})
})
