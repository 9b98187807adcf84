package claim

import (
	"time"

	"github.com/shopspring/decimal"
)

// Claim is the persistence model for lecturer claims. Version backs the
// optimistic-concurrency check in the repository: an update only applies
// when the stored version still matches.
type Claim struct {
	ID                  int64           `gorm:"primaryKey"`
	OwnerID             int64           `gorm:"column:owner_id;not null;index"`
	Title               string          `gorm:"not null"`
	Description         string          `gorm:"not null"`
	HoursWorked         decimal.Decimal `gorm:"column:hours_worked;type:decimal(10,2);not null"`
	Amount              decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Status              string          `gorm:"not null;default:Submitted;index"`
	SubmissionDate      time.Time       `gorm:"column:submission_date;not null"`
	DocumentationRef    *string         `gorm:"column:documentation_ref"`
	OriginalFileName    *string         `gorm:"column:original_file_name"`
	CoordinatorApproved *bool           `gorm:"column:coordinator_approved"`
	ManagerApproved     *bool           `gorm:"column:manager_approved"`
	RejectionReason     *string         `gorm:"column:rejection_reason"`
	Version             int64           `gorm:"not null;default:1"`
	CreatedAt           time.Time       `gorm:"column:created_at"`
	UpdatedAt           time.Time       `gorm:"column:updated_at"`
}

func (Claim) TableName() string {
	return "claims"
}
