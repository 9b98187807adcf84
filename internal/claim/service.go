package claim

import (
	"context"
	"log/slog"
	"time"

	errors "github.com/campushr/claims-management/internal"
	"github.com/campushr/claims-management/internal/auth"
	"github.com/campushr/claims-management/internal/core/events"
	"github.com/shopspring/decimal"
)

// Repository is the persistence boundary. It performs no authorization or
// business-rule checks; every legality decision is made here in the
// lifecycle before a repository call.
type Repository interface {
	Create(c *Claim) error
	GetByID(id int64) (*Claim, error)
	GetByOwner(ownerID int64) ([]*Claim, error)
	GetByStatus(status Status) ([]*Claim, error)
	Update(c *Claim) error
	Delete(id, expectedOwnerID int64, expectedStatus Status) error
}

// FileStore is the opaque blob store for supporting documentation.
type FileStore interface {
	Store(data []byte, originalName string) (ref string, err error)
	Delete(ref string) error
}

// RateDirectory looks up the owner's current hourly rate; the amount is
// recomputed from it on every create and edit, not from a stored snapshot.
type RateDirectory interface {
	HourlyRate(userID int64) (decimal.Decimal, error)
}

type Publisher interface {
	Publish(ctx context.Context, event events.Event) error
}

type Service struct {
	repo   Repository
	files  FileStore
	rates  RateDirectory
	events Publisher
	logger *slog.Logger
}

func NewService(repo Repository, files FileStore, rates RateDirectory, publisher Publisher, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		files:  files,
		rates:  rates,
		events: publisher,
		logger: logger,
	}
}

// SubmitClaim creates a new claim in status Submitted. Only an
// authenticated lecturer may submit, and the claim is always their own.
func (s *Service) SubmitClaim(actor auth.Actor, dto CreateClaimDTO) (*Claim, error) {
	if !actor.Is(auth.RoleLecturer) {
		s.logger.Warn("submit claim denied", "actor_id", actor.ID, "actor_role", actor.Role)
		return nil, errors.NewForbiddenError("only lecturers can submit claims", errors.ErrCodeUnauthorizedAccess)
	}

	if err := dto.Validate(); err != nil {
		s.logger.Warn("claim validation failed", "actor_id", actor.ID, "error", err.GetDetailedMessage())
		return nil, err
	}

	rate, err := s.rates.HourlyRate(actor.ID)
	if err != nil {
		s.logger.Error("hourly rate lookup failed", "actor_id", actor.ID, "error", err)
		return nil, errors.ErrUserNotFound
	}

	ref, err := s.files.Store(dto.Document.Data, dto.Document.FileName)
	if err != nil {
		s.logger.Error("documentation store failed", "actor_id", actor.ID, "error", err)
		return nil, errors.NewStorageError("could not store documentation, please try again", err)
	}

	now := time.Now()
	c := &Claim{
		OwnerID:          actor.ID,
		Title:            dto.Title,
		Description:      dto.Description,
		HoursWorked:      dto.HoursWorked,
		Amount:           dto.HoursWorked.Mul(rate),
		Status:           StatusSubmitted,
		SubmissionDate:   now,
		DocumentationRef: &ref,
		OriginalFileName: &dto.Document.FileName,
		Version:          1,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := s.repo.Create(c); err != nil {
		// scoped acquisition: the stored file must not outlive a failed create
		s.releaseFile(&ref)
		s.logger.Error("failed to create claim", "actor_id", actor.ID, "error", err)
		return nil, errors.NewInternalError("failed to create claim", err)
	}

	s.publish(events.NewClaimSubmittedEvent(c.ID, c.OwnerID, c.Amount.StringFixed(2)))
	s.logger.Info("claim submitted",
		"claim_id", c.ID,
		"owner_id", c.OwnerID,
		"hours", c.HoursWorked.String(),
		"amount", c.Amount.StringFixed(2))

	return c, nil
}

// EditClaim mutates an owned, still-Submitted claim. The amount is
// recomputed from the owner's current hourly rate.
func (s *Service) EditClaim(actor auth.Actor, claimID int64, dto UpdateClaimDTO) (*Claim, error) {
	c, err := s.repo.GetByID(claimID)
	if err != nil {
		return nil, errors.ErrClaimNotFound
	}

	if _, err := c.Authorize(actor, ActionOwnerEdit); err != nil {
		s.logger.Warn("edit claim refused", "claim_id", claimID, "actor_id", actor.ID, "error", err)
		return nil, err
	}

	if verr := dto.Validate(); verr != nil {
		s.logger.Warn("claim validation failed", "claim_id", claimID, "error", verr.GetDetailedMessage())
		return nil, verr
	}

	rate, err := s.rates.HourlyRate(actor.ID)
	if err != nil {
		s.logger.Error("hourly rate lookup failed", "actor_id", actor.ID, "error", err)
		return nil, errors.ErrUserNotFound
	}

	oldRef := c.DocumentationRef
	var newRef *string
	if dto.Document != nil {
		ref, serr := s.files.Store(dto.Document.Data, dto.Document.FileName)
		if serr != nil {
			s.logger.Error("documentation store failed", "claim_id", claimID, "error", serr)
			return nil, errors.NewStorageError("could not store documentation, please try again", serr)
		}
		newRef = &ref
		c.DocumentationRef = &ref
		c.OriginalFileName = &dto.Document.FileName
	}

	c.Title = dto.Title
	c.Description = dto.Description
	c.HoursWorked = dto.HoursWorked
	c.Amount = dto.HoursWorked.Mul(rate)
	c.UpdatedAt = time.Now()

	if err := s.repo.Update(c); err != nil {
		s.releaseFile(newRef)
		return nil, err
	}

	// the superseded file is released only after the record is durable;
	// a failed release is logged and never surfaces to the caller
	if newRef != nil {
		s.releaseFile(oldRef)
	}

	s.logger.Info("claim updated",
		"claim_id", c.ID,
		"owner_id", c.OwnerID,
		"amount", c.Amount.StringFixed(2))

	return c, nil
}

// DeleteClaim removes an owned, still-Submitted claim.
func (s *Service) DeleteClaim(actor auth.Actor, claimID int64) error {
	c, err := s.repo.GetByID(claimID)
	if err != nil {
		return errors.ErrClaimNotFound
	}

	if _, err := c.Authorize(actor, ActionOwnerDelete); err != nil {
		s.logger.Warn("delete claim refused", "claim_id", claimID, "actor_id", actor.ID, "error", err)
		return err
	}

	if err := s.repo.Delete(claimID, actor.ID, StatusSubmitted); err != nil {
		return err
	}

	s.releaseFile(c.DocumentationRef)
	s.publish(events.NewClaimDeletedEvent(c.ID, c.OwnerID))
	s.logger.Info("claim deleted", "claim_id", claimID, "owner_id", actor.ID)
	return nil
}

func (s *Service) CoordinatorApprove(actor auth.Actor, claimID int64) (*Claim, error) {
	return s.applyTransition(actor, claimID, ActionCoordinatorApprove, "")
}

func (s *Service) CoordinatorReject(actor auth.Actor, claimID int64, dto RejectClaimDTO) (*Claim, error) {
	return s.applyTransition(actor, claimID, ActionCoordinatorReject, dto.ReasonOrDefault())
}

func (s *Service) ManagerApprove(actor auth.Actor, claimID int64) (*Claim, error) {
	return s.applyTransition(actor, claimID, ActionManagerApprove, "")
}

func (s *Service) ManagerReject(actor auth.Actor, claimID int64, dto RejectClaimDTO) (*Claim, error) {
	return s.applyTransition(actor, claimID, ActionManagerReject, dto.ReasonOrDefault())
}

func (s *Service) applyTransition(actor auth.Actor, claimID int64, action Action, rejectionReason string) (*Claim, error) {
	// role check before load: an actor who could never perform this action
	// gets the same answer whether or not the claim exists
	rule, ok := transitions[action]
	if !ok || !actor.Is(rule.Role) {
		s.logger.Warn("transition denied",
			"claim_id", claimID,
			"actor_id", actor.ID,
			"actor_role", actor.Role,
			"action", action)
		return nil, ErrUnauthorized(action)
	}

	c, err := s.repo.GetByID(claimID)
	if err != nil {
		return nil, errors.ErrClaimNotFound
	}

	// an approver never settles their own claim
	if actor.ID == c.OwnerID {
		s.logger.Warn("self-approval refused", "claim_id", claimID, "actor_id", actor.ID, "action", action)
		return nil, ErrUnauthorized(action)
	}

	if _, err := c.Authorize(actor, action); err != nil {
		s.logger.Warn("transition refused",
			"claim_id", claimID,
			"actor_id", actor.ID,
			"action", action,
			"current_status", c.Status)
		return nil, err
	}

	from := c.Status
	c.ApplyTransition(action, rule, rejectionReason)

	if err := s.repo.Update(c); err != nil {
		return nil, err
	}

	s.publish(events.NewClaimTransitionedEvent(c.ID, actor.ID, string(from), string(c.Status)))
	s.logger.Info("claim transitioned",
		"claim_id", c.ID,
		"actor_id", actor.ID,
		"action", action,
		"from", from,
		"to", c.Status)

	return c, nil
}

// GetClaim returns one claim; lecturers see only their own, the approval
// and HR roles see any.
func (s *Service) GetClaim(actor auth.Actor, claimID int64) (*Claim, error) {
	if !actor.Authenticated {
		return nil, errors.NewUnauthorizedError("unauthorized", errors.ErrCodeUnauthorizedAccess)
	}

	c, err := s.repo.GetByID(claimID)
	if err != nil {
		return nil, errors.ErrClaimNotFound
	}

	switch actor.Role {
	case auth.RoleLecturer:
		if actor.ID != c.OwnerID {
			return nil, errors.ErrUnauthorizedAccess
		}
	case auth.RoleProgrammeCoordinator, auth.RoleAcademicManager, auth.RoleHR:
		// review roles may inspect any claim
	default:
		return nil, errors.ErrUnauthorizedAccess
	}

	return c, nil
}

// ListOwn returns the actor's claims, newest submission first.
func (s *Service) ListOwn(actor auth.Actor) ([]*Claim, error) {
	if !actor.Is(auth.RoleLecturer) {
		return nil, errors.ErrUnauthorizedAccess
	}
	return s.repo.GetByOwner(actor.ID)
}

// ListByStatus returns the review queue for the actor's role, oldest
// submission first. Coordinators see Submitted, managers see
// ApprovedByCoordinator, HR may ask for any status.
func (s *Service) ListByStatus(actor auth.Actor, status Status) ([]*Claim, error) {
	switch {
	case actor.Is(auth.RoleProgrammeCoordinator) && status == StatusSubmitted:
	case actor.Is(auth.RoleAcademicManager) && status == StatusApprovedByCoordinator:
	case actor.Is(auth.RoleHR):
	default:
		return nil, errors.ErrUnauthorizedAccess
	}
	return s.repo.GetByStatus(status)
}

func (s *Service) releaseFile(ref *string) {
	if ref == nil || *ref == "" {
		return
	}
	if err := s.files.Delete(*ref); err != nil {
		s.logger.Warn("could not delete documentation file", "ref", *ref, "error", err)
	}
}

func (s *Service) publish(event events.Event) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(context.Background(), event); err != nil {
		s.logger.Warn("event publish failed", "event_type", event.EventType(), "error", err)
	}
}
