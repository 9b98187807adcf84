package postgres

import (
	"time"

	errors "github.com/campushr/claims-management/internal"
	"github.com/campushr/claims-management/internal/claim"
	claimDatamodel "github.com/campushr/claims-management/internal/core/datamodel/claim"
	"gorm.io/gorm"
)

// ClaimRepository implements claim.Repository using GORM. It holds the two
// repository invariants — updates never partially apply, and stale versions
// never overwrite newer writes — and nothing else; all business rules live
// in the lifecycle.
type ClaimRepository struct {
	db *gorm.DB
}

func NewClaimRepository(db *gorm.DB) claim.Repository {
	return &ClaimRepository{db: db}
}

func (r *ClaimRepository) Create(c *claim.Claim) error {
	m := claim.ToDataModel(c)
	if err := r.db.Create(m).Error; err != nil {
		return err
	}
	c.ID = m.ID
	c.CreatedAt = m.CreatedAt
	c.UpdatedAt = m.UpdatedAt
	return nil
}

func (r *ClaimRepository) GetByID(id int64) (*claim.Claim, error) {
	var m claimDatamodel.Claim
	err := r.db.Where("id = ?", id).First(&m).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrClaimNotFound
		}
		return nil, err
	}
	return claim.FromDataModel(&m), nil
}

func (r *ClaimRepository) GetByOwner(ownerID int64) ([]*claim.Claim, error) {
	var models []*claimDatamodel.Claim
	err := r.db.Where("owner_id = ?", ownerID).
		Order("submission_date DESC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	return claim.FromDataModelSlice(models), nil
}

func (r *ClaimRepository) GetByStatus(status claim.Status) ([]*claim.Claim, error) {
	var models []*claimDatamodel.Claim
	// FIFO review queues: oldest submissions first
	err := r.db.Where("status = ?", string(status)).
		Order("submission_date ASC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	return claim.FromDataModelSlice(models), nil
}

// Update applies the full record in one statement, guarded by the version
// the caller read. A row that moved on disappears from the WHERE clause and
// the caller gets a conflict instead of a silent overwrite.
func (r *ClaimRepository) Update(c *claim.Claim) error {
	m := claim.ToDataModel(c)
	res := r.db.Model(&claimDatamodel.Claim{}).
		Where("id = ? AND version = ?", m.ID, m.Version).
		Updates(map[string]interface{}{
			"title":                m.Title,
			"description":          m.Description,
			"hours_worked":         m.HoursWorked,
			"amount":               m.Amount,
			"status":               m.Status,
			"documentation_ref":    m.DocumentationRef,
			"original_file_name":   m.OriginalFileName,
			"coordinator_approved": m.CoordinatorApproved,
			"manager_approved":     m.ManagerApproved,
			"rejection_reason":     m.RejectionReason,
			"version":              m.Version + 1,
			"updated_at":           time.Now(),
		})
	if res.Error != nil {
		return res.Error
	}

	if res.RowsAffected == 0 {
		var count int64
		if err := r.db.Model(&claimDatamodel.Claim{}).Where("id = ?", m.ID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return errors.ErrClaimNotFound
		}
		return errors.ErrStaleClaimVersion
	}

	c.Version = m.Version + 1
	return nil
}

// Delete removes the claim only when the owner and status preconditions
// still hold at the time of the statement.
func (r *ClaimRepository) Delete(id, expectedOwnerID int64, expectedStatus claim.Status) error {
	res := r.db.Where("id = ? AND owner_id = ? AND status = ?", id, expectedOwnerID, string(expectedStatus)).
		Delete(&claimDatamodel.Claim{})
	if res.Error != nil {
		return res.Error
	}

	if res.RowsAffected == 0 {
		var count int64
		if err := r.db.Model(&claimDatamodel.Claim{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return errors.ErrClaimNotFound
		}
		return errors.NewConflictError("claim no longer satisfies the delete preconditions", errors.ErrCodePreconditionFailed)
	}

	return nil
}
