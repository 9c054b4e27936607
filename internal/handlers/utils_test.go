package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func newTestContext(headers map[string]string) echo.Context {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	return e.NewContext(req, httptest.NewRecorder())
}

func TestGetClientIP(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		want    string
	}{
		{"forwarded chain keeps originating client", map[string]string{"X-Forwarded-For": "203.0.113.7, 10.0.0.1, 10.0.0.2"}, "203.0.113.7"},
		{"forwarded entry is trimmed", map[string]string{"X-Forwarded-For": "  203.0.113.7  "}, "203.0.113.7"},
		{"real ip fallback", map[string]string{"X-Real-IP": "198.51.100.4"}, "198.51.100.4"},
		{"remote addr fallback", nil, "192.0.2.1:1234"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, getClientIP(newTestContext(tt.headers)))
		})
	}
}

func TestGetUserIDFromContext(t *testing.T) {
	c := newTestContext(nil)

	_, err := getUserIDFromContext(c)
	assert.ErrorIs(t, err, ErrUnauthorized)

	c.Set("user_id", "not-a-uuid")
	_, err = getUserIDFromContext(c)
	assert.ErrorIs(t, err, ErrUnauthorized)

	id := uuid.New()
	c.Set("user_id", id)
	got, err := getUserIDFromContext(c)
	assert.NoError(t, err)
	assert.Equal(t, id, got)
}
