package listings

import (
	"context"
	"log/slog"
	"net/http"

	"filemarket/internal/auth"
	"filemarket/internal/errors"
	"filemarket/internal/imaging"
	"filemarket/internal/json"

	"github.com/go-chi/chi/v5"
)

type ListingsHandler struct {
	service ListingsService
	maxBody int64
}

// NewListingsHandler caps write requests at maxCoverBytes plus room for the
// text fields. Zero means imaging.MaxInputBytes.
func NewListingsHandler(svc ListingsService, maxCoverBytes int64) *ListingsHandler {
	if maxCoverBytes <= 0 {
		maxCoverBytes = imaging.MaxInputBytes
	}
	return &ListingsHandler{
		service: svc,
		maxBody: maxCoverBytes + formOverhead,
	}
}

func userFrom(w http.ResponseWriter, r *http.Request) (auth.UserInfo, bool) {
	userInfo, err := auth.GetUserInfo(r.Context())
	if err != nil {
		slog.WarnContext(r.Context(), "Unauthorized access attempt", "error", err)
		errors.RespondError(w, r, errors.New(errors.ErrUnauthorized, "Unauthorized access", err))
		return auth.UserInfo{}, false
	}
	return userInfo, true
}

// CreateDraft handles POST /files.
func (h *ListingsHandler) CreateDraft(w http.ResponseWriter, r *http.Request) {
	userInfo, ok := userFrom(w, r)
	if !ok {
		return
	}

	draft, err := h.service.CreateDraft(r.Context(), userInfo)
	if err != nil {
		errors.RespondError(w, r, err)
		return
	}

	json.Write(w, http.StatusCreated, draft)
}

// Submit handles POST /files/{id}.
func (h *ListingsHandler) Submit(w http.ResponseWriter, r *http.Request) {
	h.write(w, r, h.service.Submit)
}

// Update handles PUT /files/{id}.
func (h *ListingsHandler) Update(w http.ResponseWriter, r *http.Request) {
	h.write(w, r, h.service.Update)
}

type writeFunc func(ctx context.Context, userInfo auth.UserInfo, listingID string, req *ListingRequest) (Outcome, error)

func (h *ListingsHandler) write(w http.ResponseWriter, r *http.Request, op writeFunc) {
	ctx := r.Context()
	userInfo, ok := userFrom(w, r)
	if !ok {
		return
	}

	listingID := chi.URLParam(r, "id")

	req, cleanup, err := parseListingForm(w, r, h.maxBody)
	defer cleanup()
	if err != nil {
		errors.RespondError(w, r, err)
		return
	}

	outcome, err := op(ctx, userInfo, listingID, req)
	if err != nil {
		slog.WarnContext(ctx, "Failed to save listing", "listing_id", listingID, "error", err)
		errors.RespondError(w, r, err)
		return
	}

	status := http.StatusOK
	if outcome.Kind == OutcomeQueued {
		status = http.StatusAccepted
	}
	json.Write(w, status, outcome)
}

// Get handles GET /files/{id}.
func (h *ListingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	userInfo, ok := userFrom(w, r)
	if !ok {
		return
	}

	resp, err := h.service.Get(r.Context(), userInfo, chi.URLParam(r, "id"))
	if err != nil {
		errors.RespondError(w, r, err)
		return
	}

	json.Write(w, http.StatusOK, resp)
}

// ListForOwner handles GET /files.
func (h *ListingsHandler) ListForOwner(w http.ResponseWriter, r *http.Request) {
	userInfo, ok := userFrom(w, r)
	if !ok {
		return
	}

	listings, err := h.service.ListForOwner(r.Context(), userInfo)
	if err != nil {
		errors.RespondError(w, r, err)
		return
	}

	json.Write(w, http.StatusOK, listings)
}

// GetPublic handles GET /listings/{id}. It is unauthenticated.
func (h *ListingsHandler) GetPublic(w http.ResponseWriter, r *http.Request) {
	listing, err := h.service.GetPublic(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		errors.RespondError(w, r, err)
		return
	}

	json.Write(w, http.StatusOK, listing)
}
