package claim

import (
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/campushr/claims-management/internal/auth"
	"github.com/campushr/claims-management/internal/transport"
	"github.com/campushr/claims-management/pkg/logger"
	"github.com/go-chi/chi"
	"github.com/shopspring/decimal"
)

const maxUploadMemory = 8 << 20

type ServiceAPI interface {
	SubmitClaim(actor auth.Actor, dto CreateClaimDTO) (*Claim, error)
	EditClaim(actor auth.Actor, claimID int64, dto UpdateClaimDTO) (*Claim, error)
	DeleteClaim(actor auth.Actor, claimID int64) error
	CoordinatorApprove(actor auth.Actor, claimID int64) (*Claim, error)
	CoordinatorReject(actor auth.Actor, claimID int64, dto RejectClaimDTO) (*Claim, error)
	ManagerApprove(actor auth.Actor, claimID int64) (*Claim, error)
	ManagerReject(actor auth.Actor, claimID int64, dto RejectClaimDTO) (*Claim, error)
	GetClaim(actor auth.Actor, claimID int64) (*Claim, error)
	ListOwn(actor auth.Actor) ([]*Claim, error)
	ListByStatus(actor auth.Actor, status Status) ([]*Claim, error)
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

// SubmitClaim accepts multipart form data: title, description, hours_worked
// and the documentation file.
func (h *Handler) SubmitClaim(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.ActorFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	dto, err := h.parseClaimForm(r)
	if err != nil {
		h.Logger.Error("SubmitClaim: invalid form", "error", err)
		h.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	created, serr := h.Service.SubmitClaim(actor, CreateClaimDTO{
		Title:       dto.Title,
		Description: dto.Description,
		HoursWorked: dto.HoursWorked,
		Document:    dto.Document,
	})
	if serr != nil {
		h.HandleServiceError(w, serr)
		return
	}

	h.WriteJSON(w, http.StatusCreated, created)
}

func (h *Handler) EditClaim(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.ActorFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	claimID, err := h.claimID(r)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid claim ID")
		return
	}

	dto, err := h.parseClaimForm(r)
	if err != nil {
		h.Logger.Error("EditClaim: invalid form", "error", err)
		h.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	updated, serr := h.Service.EditClaim(actor, claimID, *dto)
	if serr != nil {
		h.HandleServiceError(w, serr)
		return
	}

	h.WriteJSON(w, http.StatusOK, updated)
}

func (h *Handler) DeleteClaim(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.ActorFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	claimID, err := h.claimID(r)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid claim ID")
		return
	}

	if serr := h.Service.DeleteClaim(actor, claimID); serr != nil {
		h.HandleServiceError(w, serr)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *Handler) GetClaim(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.ActorFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	claimID, err := h.claimID(r)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid claim ID")
		return
	}

	c, serr := h.Service.GetClaim(actor, claimID)
	if serr != nil {
		h.HandleServiceError(w, serr)
		return
	}

	h.WriteJSON(w, http.StatusOK, c)
}

func (h *Handler) ListOwnClaims(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.ActorFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	claims, serr := h.Service.ListOwn(actor)
	if serr != nil {
		h.HandleServiceError(w, serr)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{"claims": claims})
}

// ListReviewQueue serves the pending queue for the approval roles. The
// status defaults per role so a coordinator and a manager each see their
// own stage without passing parameters.
func (h *Handler) ListReviewQueue(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.ActorFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var status Status
	if raw := r.URL.Query().Get("status"); raw != "" {
		parsed, err := ParseStatus(raw)
		if err != nil {
			h.WriteError(w, http.StatusBadRequest, "invalid status")
			return
		}
		status = parsed
	} else {
		switch actor.Role {
		case auth.RoleProgrammeCoordinator:
			status = StatusSubmitted
		case auth.RoleAcademicManager:
			status = StatusApprovedByCoordinator
		default:
			status = StatusPaid
		}
	}

	claims, serr := h.Service.ListByStatus(actor, status)
	if serr != nil {
		h.HandleServiceError(w, serr)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"claims": claims,
		"status": status,
	})
}

// ApproveClaim dispatches to the approval stage matching the actor's role;
// the lifecycle still verifies the full transition rule.
func (h *Handler) ApproveClaim(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.ActorFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	claimID, err := h.claimID(r)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid claim ID")
		return
	}

	var (
		updated *Claim
		serr    error
	)
	switch actor.Role {
	case auth.RoleAcademicManager:
		updated, serr = h.Service.ManagerApprove(actor, claimID)
	default:
		updated, serr = h.Service.CoordinatorApprove(actor, claimID)
	}
	if serr != nil {
		h.HandleServiceError(w, serr)
		return
	}

	h.Logger.Info("ApproveClaim: claim approved", "claim_id", claimID, "actor_id", actor.ID, "status", updated.Status)
	h.WriteJSON(w, http.StatusOK, updated)
}

func (h *Handler) RejectClaim(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.ActorFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	claimID, err := h.claimID(r)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid claim ID")
		return
	}

	var dto RejectClaimDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	var (
		updated *Claim
		serr    error
	)
	switch actor.Role {
	case auth.RoleAcademicManager:
		updated, serr = h.Service.ManagerReject(actor, claimID, dto)
	default:
		updated, serr = h.Service.CoordinatorReject(actor, claimID, dto)
	}
	if serr != nil {
		h.HandleServiceError(w, serr)
		return
	}

	h.Logger.Info("RejectClaim: claim rejected", "claim_id", claimID, "actor_id", actor.ID)
	h.WriteJSON(w, http.StatusOK, updated)
}

func (h *Handler) claimID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}

func (h *Handler) parseClaimForm(r *http.Request) (*UpdateClaimDTO, error) {
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		return nil, err
	}

	hours := decimal.Zero
	if raw := r.FormValue("hours_worked"); raw != "" {
		parsed, err := decimal.NewFromString(raw)
		if err != nil {
			return nil, err
		}
		hours = parsed
	}

	dto := &UpdateClaimDTO{
		Title:       r.FormValue("title"),
		Description: r.FormValue("description"),
		HoursWorked: hours,
	}

	file, header, err := r.FormFile("documentation")
	if err == nil {
		defer file.Close()
		data, rerr := io.ReadAll(file)
		if rerr != nil {
			return nil, rerr
		}
		dto.Document = &DocumentUpload{
			FileName: header.Filename,
			Size:     header.Size,
			Data:     data,
		}
	} else if err != http.ErrMissingFile {
		return nil, err
	}

	return dto, nil
}
