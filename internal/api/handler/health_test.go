package handler_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/clubhouse/clubhouse/internal/api/handler"
)

type mockPinger struct {
	err error
}

func (m *mockPinger) Ping(_ context.Context) error {
	return m.err
}

func TestHealthHandler(t *testing.T) {
	tests := []struct {
		name          string
		pinger        handler.DBPinger
		wantStatus    string
		wantConnected bool
	}{
		{"healthy", &mockPinger{}, "healthy", true},
		{"ping fails", &mockPinger{err: errors.New("connection refused")}, "degraded", false},
		{"no database", nil, "degraded", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := handler.NewHealthHandler(tt.pinger, "0.1.0")
			w := httptest.NewRecorder()

			h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

			assert.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

			env := decodeEnvelope(t, w)
			data := env["data"].(map[string]any)
			assert.Equal(t, tt.wantStatus, data["status"])
			assert.Equal(t, "0.1.0", data["version"])
			assert.Equal(t, tt.wantConnected, data["database"].(map[string]any)["connected"])
			assert.Nil(t, env["error"])
		})
	}
}
