package approvals

import (
	"context"
	"net/http"
	"strconv"

	"filemarket/internal/auth"
	"filemarket/internal/errors"
	"filemarket/internal/json"

	"github.com/go-chi/chi/v5"
)

type ApprovalsHandler struct {
	service ApprovalsService
}

func NewApprovalsHandler(svc ApprovalsService) *ApprovalsHandler {
	return &ApprovalsHandler{service: svc}
}

// ListPending handles GET /admin/approvals?limit=N.
func (h *ApprovalsHandler) ListPending(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			errors.RespondError(w, r, errors.Validation("limit", "limit must be a positive number", err))
			return
		}
		limit = n
	}

	cards, err := h.service.ListPending(r.Context(), limit)
	if err != nil {
		errors.RespondError(w, r, err)
		return
	}
	json.Write(w, http.StatusOK, cards)
}

// Preview handles GET /admin/files/{id}/preview.
func (h *ApprovalsHandler) Preview(w http.ResponseWriter, r *http.Request) {
	preview, err := h.service.Preview(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		errors.RespondError(w, r, err)
		return
	}
	json.Write(w, http.StatusOK, preview)
}

func (h *ApprovalsHandler) AcceptPending(w http.ResponseWriter, r *http.Request) {
	h.resolve(w, r, chi.URLParam(r, "id"), h.service.AcceptPending)
}

func (h *ApprovalsHandler) RejectPending(w http.ResponseWriter, r *http.Request) {
	h.resolve(w, r, chi.URLParam(r, "id"), h.service.RejectPending)
}

func (h *ApprovalsHandler) AcceptApproval(w http.ResponseWriter, r *http.Request) {
	h.resolve(w, r, chi.URLParam(r, "approvalID"), h.service.AcceptApproval)
}

func (h *ApprovalsHandler) RejectApproval(w http.ResponseWriter, r *http.Request) {
	h.resolve(w, r, chi.URLParam(r, "approvalID"), h.service.RejectApproval)
}

type resolveFunc func(ctx context.Context, admin auth.UserInfo, id string) (Resolution, error)

func (h *ApprovalsHandler) resolve(w http.ResponseWriter, r *http.Request, id string, op resolveFunc) {
	admin, err := auth.GetUserInfo(r.Context())
	if err != nil {
		errors.RespondError(w, r, errors.New(errors.ErrUnauthorized, "Unauthorized access", err))
		return
	}

	res, err := op(r.Context(), admin, id)
	if err != nil {
		errors.RespondError(w, r, err)
		return
	}
	json.Write(w, http.StatusOK, res)
}
