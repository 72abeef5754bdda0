package covers

import (
	"net/http"

	"filemarket/internal/auth"
	"filemarket/internal/errors"
	"filemarket/internal/json"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) PresignUpload(w http.ResponseWriter, r *http.Request) {
	userID, err := auth.GetUserID(r.Context())
	if err != nil {
		errors.RespondError(w, r, errors.New(errors.ErrUnauthorized, "Authentication required", err))
		return
	}

	var req PresignRequest
	if err := json.Read(r, &req); err != nil {
		errors.RespondError(w, r, errors.New(errors.ErrInvalidInput, "Invalid request body", err))
		return
	}

	response, err := h.svc.PresignUpload(r.Context(), userID, req)
	if err != nil {
		errors.RespondError(w, r, err)
		return
	}

	json.Write(w, http.StatusCreated, response)
}
