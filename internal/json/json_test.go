package json

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type payload struct {
	Key string `json:"key"`
}

func TestRead(t *testing.T) {
	var p payload
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"key":"covers/a.jpg"}`))
	require.NoError(t, Read(req, &p))
	assert.Equal(t, "covers/a.jpg", p.Key)

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"key":"a","extra":1}`))
	assert.Error(t, Read(req, &p))

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"key":"a"}{"key":"b"}`))
	assert.Error(t, Read(req, &p))
}

func TestWrite_DoesNotEscapeHTML(t *testing.T) {
	rec := httptest.NewRecorder()
	require.NoError(t, Write(rec, http.StatusCreated, map[string]string{"url": "a?b=1&c=<2>"}))

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "a?b=1&c=<2>")
}
