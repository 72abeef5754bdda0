package listings

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"filemarket/internal/auth"
	apperrors "filemarket/internal/errors"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockListingsService struct {
	mock.Mock
}

func (m *MockListingsService) CreateDraft(ctx context.Context, userInfo auth.UserInfo) (ListingResponse, error) {
	args := m.Called(ctx, userInfo)
	return args.Get(0).(ListingResponse), args.Error(1)
}

func (m *MockListingsService) Submit(ctx context.Context, userInfo auth.UserInfo, listingID string, req *ListingRequest) (Outcome, error) {
	args := m.Called(ctx, userInfo, listingID, req)
	return args.Get(0).(Outcome), args.Error(1)
}

func (m *MockListingsService) Update(ctx context.Context, userInfo auth.UserInfo, listingID string, req *ListingRequest) (Outcome, error) {
	args := m.Called(ctx, userInfo, listingID, req)
	return args.Get(0).(Outcome), args.Error(1)
}

func (m *MockListingsService) Get(ctx context.Context, userInfo auth.UserInfo, listingID string) (EditResponse, error) {
	args := m.Called(ctx, userInfo, listingID)
	return args.Get(0).(EditResponse), args.Error(1)
}

func (m *MockListingsService) ListForOwner(ctx context.Context, userInfo auth.UserInfo) ([]ListingResponse, error) {
	args := m.Called(ctx, userInfo)
	return args.Get(0).([]ListingResponse), args.Error(1)
}

func (m *MockListingsService) GetPublic(ctx context.Context, listingID string) (PublicListing, error) {
	args := m.Called(ctx, listingID)
	return args.Get(0).(PublicListing), args.Error(1)
}

func newRouter(h *ListingsHandler) http.Handler {
	r := chi.NewRouter()
	r.Post("/files", h.CreateDraft)
	r.Post("/files/{id}", h.Submit)
	r.Put("/files/{id}", h.Update)
	r.Get("/listings/{id}", h.GetPublic)
	return r
}

func formRequest(method, target string, values url.Values, user *auth.UserInfo) *http.Request {
	r := httptest.NewRequest(method, target, strings.NewReader(values.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if user != nil {
		r = r.WithContext(auth.WithUser(r.Context(), *user))
	}
	return r
}

func TestHandler_UpdateQueuedReturnsAccepted(t *testing.T) {
	svc := new(MockListingsService)
	svc.On("Update", mock.Anything, owner, listingID, mock.MatchedBy(func(req *ListingRequest) bool {
		return req.Title != nil && *req.Title == "New" && req.Price != nil && *req.Price == 2000
	})).Return(newOutcome(OutcomeQueued, listingID, approvalID), nil)

	rec := httptest.NewRecorder()
	newRouter(NewListingsHandler(svc, 0)).ServeHTTP(rec, formRequest(http.MethodPut, "/files/"+listingID,
		url.Values{"title": {"New"}, "price": {"20.00"}}, &owner))

	assert.Equal(t, http.StatusAccepted, rec.Code)
	var body Outcome
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, MessageQueued, body.Message)
	assert.Equal(t, approvalID, body.ApprovalID)
	svc.AssertExpectations(t)
}

func TestHandler_SubmitReturnsOK(t *testing.T) {
	svc := new(MockListingsService)
	svc.On("Submit", mock.Anything, owner, listingID, mock.Anything).
		Return(newOutcome(OutcomeSubmitted, listingID, ""), nil)

	rec := httptest.NewRecorder()
	newRouter(NewListingsHandler(svc, 0)).ServeHTTP(rec, formRequest(http.MethodPost, "/files/"+listingID,
		url.Values{"title": {"My Product"}}, &owner))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), MessageSubmitted)
}

func TestHandler_ValidationErrorNamesField(t *testing.T) {
	svc := new(MockListingsService)
	svc.On("Update", mock.Anything, owner, listingID, mock.Anything).
		Return(Outcome{}, apperrors.Validation("youtube_url", "Not valid Youtube URL", nil))

	rec := httptest.NewRecorder()
	newRouter(NewListingsHandler(svc, 0)).ServeHTTP(rec, formRequest(http.MethodPut, "/files/"+listingID,
		url.Values{"youtube_url": {"not-a-url"}}, &owner))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var body map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "youtube_url", body["field"])
	assert.Equal(t, "Not valid Youtube URL", body["message"])
}

func TestHandler_BadFormNeverReachesService(t *testing.T) {
	svc := new(MockListingsService)

	rec := httptest.NewRecorder()
	newRouter(NewListingsHandler(svc, 0)).ServeHTTP(rec, formRequest(http.MethodPut, "/files/"+listingID,
		url.Values{"live": {"sometimes"}}, &owner))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	svc.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestHandler_RequiresUser(t *testing.T) {
	svc := new(MockListingsService)

	rec := httptest.NewRecorder()
	newRouter(NewListingsHandler(svc, 0)).ServeHTTP(rec, formRequest(http.MethodPost, "/files", nil, nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestHandler_CreateDraft(t *testing.T) {
	svc := new(MockListingsService)
	svc.On("CreateDraft", mock.Anything, owner).Return(ListingResponse{ID: listingID, Title: "Untitled"}, nil)

	rec := httptest.NewRecorder()
	newRouter(NewListingsHandler(svc, 0)).ServeHTTP(rec, formRequest(http.MethodPost, "/files", nil, &owner))

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), listingID)
}

func TestHandler_GetPublicNotFound(t *testing.T) {
	svc := new(MockListingsService)
	svc.On("GetPublic", mock.Anything, listingID).
		Return(PublicListing{}, apperrors.New(apperrors.ErrNotFound, "File not found", nil))

	rec := httptest.NewRecorder()
	newRouter(NewListingsHandler(svc, 0)).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/listings/"+listingID, nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
