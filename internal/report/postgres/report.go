package postgres

import (
	"github.com/campushr/claims-management/internal/auth"
	"github.com/campushr/claims-management/internal/report"
	"gorm.io/gorm"
)

type ReportRepository struct {
	db *gorm.DB
}

func NewReportRepository(db *gorm.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

func (r *ReportRepository) ClaimRows(status string) ([]report.Row, error) {
	var rows []report.Row
	query := r.db.
		Table("claims").
		Select(`claims.id AS claim_id,
			users.name || ' ' || users.surname AS lecturer_name,
			claims.title,
			claims.hours_worked,
			claims.amount,
			claims.status,
			claims.submission_date`).
		Joins("JOIN users ON users.id = claims.owner_id").
		Order("claims.submission_date ASC")
	if status != "" {
		query = query.Where("claims.status = ?", status)
	}
	if err := query.Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *ReportRepository) ActiveLecturerCount() (int64, error) {
	var count int64
	err := r.db.
		Table("users").
		Where("role = ? AND is_active = ?", string(auth.RoleLecturer), true).
		Count(&count).Error
	return count, err
}
