package report

import (
	"log/slog"
	"time"

	errors "github.com/campushr/claims-management/internal"
	"github.com/campushr/claims-management/internal/auth"
	"github.com/campushr/claims-management/internal/claim"
	"github.com/shopspring/decimal"
)

// Row is one claim line in the HR report, joined with its owner's name.
type Row struct {
	ClaimID        int64
	LecturerName   string
	Title          string
	HoursWorked    decimal.Decimal
	Amount         decimal.Decimal
	Status         string
	SubmissionDate time.Time
}

// Summary is the full HR projection: the per-claim rows plus the totals
// derived from them.
type Summary struct {
	GeneratedAt     time.Time
	TotalClaims     int
	TotalHours      decimal.Decimal
	TotalAmount     decimal.Decimal
	ActiveLecturers int64
	Rows            []Row
}

// Repository reads the report projection. It never mutates anything. An
// empty status selects every claim.
type Repository interface {
	ClaimRows(status string) ([]Row, error)
	ActiveLecturerCount() (int64, error)
}

type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// BuildSummary assembles the projection, optionally narrowed to one
// status. HR only.
func (s *Service) BuildSummary(actor auth.Actor, status string) (*Summary, error) {
	if !actor.Is(auth.RoleHR) {
		return nil, errors.NewForbiddenError("only HR can view claim reports", errors.ErrCodeUnauthorizedAccess)
	}

	if status != "" {
		if _, err := claim.ParseStatus(status); err != nil {
			return nil, errors.NewValidationError("unknown claim status: "+status, errors.ErrCodeValidationFailed)
		}
	}

	rows, err := s.repo.ClaimRows(status)
	if err != nil {
		s.logger.Error("report rows query failed", "error", err)
		return nil, err
	}

	lecturers, err := s.repo.ActiveLecturerCount()
	if err != nil {
		s.logger.Error("lecturer count query failed", "error", err)
		return nil, err
	}

	summary := &Summary{
		GeneratedAt:     time.Now().UTC(),
		TotalClaims:     len(rows),
		TotalHours:      decimal.Zero,
		TotalAmount:     decimal.Zero,
		ActiveLecturers: lecturers,
		Rows:            rows,
	}
	for _, row := range rows {
		summary.TotalHours = summary.TotalHours.Add(row.HoursWorked)
		summary.TotalAmount = summary.TotalAmount.Add(row.Amount)
	}
	return summary, nil
}
