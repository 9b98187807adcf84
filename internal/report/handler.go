package report

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/campushr/claims-management/internal/auth"
	"github.com/campushr/claims-management/internal/transport"
	"github.com/campushr/claims-management/pkg/logger"
	"github.com/shopspring/decimal"
)

type ServiceAPI interface {
	BuildSummary(actor auth.Actor, status string) (*Summary, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(service ServiceAPI) *Handler {
	lg := logger.L()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     service,
	}
}

type summaryResponse struct {
	GeneratedAt     time.Time     `json:"generated_at"`
	TotalClaims     int           `json:"total_claims"`
	TotalHours      string        `json:"total_hours"`
	TotalAmount     string        `json:"total_amount"`
	ActiveLecturers int64         `json:"active_lecturers"`
	Rows            []rowResponse `json:"rows"`
}

type rowResponse struct {
	ClaimID        int64           `json:"claim_id"`
	LecturerName   string          `json:"lecturer"`
	Title          string          `json:"title"`
	HoursWorked    decimal.Decimal `json:"hours_worked"`
	Amount         decimal.Decimal `json:"amount"`
	Status         string          `json:"status"`
	SubmissionDate time.Time       `json:"submission_date"`
}

func (h *Handler) GetSummary(w http.ResponseWriter, r *http.Request) {
	summary, ok := h.buildSummary(w, r)
	if !ok {
		return
	}

	resp := summaryResponse{
		GeneratedAt:     summary.GeneratedAt,
		TotalClaims:     summary.TotalClaims,
		TotalHours:      summary.TotalHours.StringFixed(2),
		TotalAmount:     summary.TotalAmount.StringFixed(2),
		ActiveLecturers: summary.ActiveLecturers,
		Rows:            make([]rowResponse, 0, len(summary.Rows)),
	}
	for _, row := range summary.Rows {
		resp.Rows = append(resp.Rows, rowResponse{
			ClaimID:        row.ClaimID,
			LecturerName:   row.LecturerName,
			Title:          row.Title,
			HoursWorked:    row.HoursWorked,
			Amount:         row.Amount,
			Status:         row.Status,
			SubmissionDate: row.SubmissionDate,
		})
	}
	h.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) DownloadPDF(w http.ResponseWriter, r *http.Request) {
	summary, ok := h.buildSummary(w, r)
	if !ok {
		return
	}

	data, err := RenderPDF(summary)
	if err != nil {
		h.Logger.Error("pdf render failed", "error", err)
		h.WriteError(w, http.StatusInternalServerError, "failed to render report")
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", attachmentName(summary.GeneratedAt, "pdf"))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

func (h *Handler) DownloadCSV(w http.ResponseWriter, r *http.Request) {
	summary, ok := h.buildSummary(w, r)
	if !ok {
		return
	}

	data, err := RenderCSV(summary)
	if err != nil {
		h.Logger.Error("csv render failed", "error", err)
		h.WriteError(w, http.StatusInternalServerError, "failed to render report")
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", attachmentName(summary.GeneratedAt, "csv"))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

func (h *Handler) buildSummary(w http.ResponseWriter, r *http.Request) (*Summary, bool) {
	actor, ok := auth.ActorFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return nil, false
	}

	summary, err := h.Service.BuildSummary(actor, r.URL.Query().Get("status"))
	if err != nil {
		h.HandleServiceError(w, err)
		return nil, false
	}
	return summary, true
}

func attachmentName(t time.Time, ext string) string {
	return fmt.Sprintf(`attachment; filename="claims-report-%s.%s"`, t.Format("20060102-150405"), ext)
}
