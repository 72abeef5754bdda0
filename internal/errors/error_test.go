package errors

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRespondError_ValidationCarriesField(t *testing.T) {
	r := httptest.NewRequest(http.MethodPut, "/files/1", nil)
	w := httptest.NewRecorder()

	RespondError(w, r, Validation("youtube_url", "Not valid Youtube URL", nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "INVALID_INPUT", body["error_code"])
	assert.Equal(t, "youtube_url", body["field"])
	assert.Equal(t, "Not valid Youtube URL", body["message"])
}

func TestRespondError_StatusMapping(t *testing.T) {
	cases := map[ErrorCode]int{
		ErrNotFound:     http.StatusNotFound,
		ErrConflict:     http.StatusConflict,
		ErrUnauthorized: http.StatusUnauthorized,
		ErrForbidden:    http.StatusForbidden,
		ErrInternal:     http.StatusInternalServerError,
	}

	for code, status := range cases {
		w := httptest.NewRecorder()
		RespondError(w, httptest.NewRequest(http.MethodGet, "/", nil), New(code, "msg", nil))
		assert.Equal(t, status, w.Code, code)
	}
}

func TestRespondError_PlainErrorIsInternal(t *testing.T) {
	w := httptest.NewRecorder()
	RespondError(w, httptest.NewRequest(http.MethodGet, "/", nil), fmt.Errorf("db gone"))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestHasCode_FindsWrappedAppError(t *testing.T) {
	err := fmt.Errorf("accept: %w", New(ErrNotFound, "gone", nil))
	assert.True(t, HasCode(err, ErrNotFound))
	assert.False(t, HasCode(err, ErrConflict))
	assert.False(t, HasCode(fmt.Errorf("plain"), ErrNotFound))
}
