package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eshaffer321/splitwise-sync/internal/api/dto"
	"github.com/eshaffer321/splitwise-sync/internal/api/handlers"
	"github.com/eshaffer321/splitwise-sync/internal/infrastructure/storage"
)

func TestHealthHandler_ServeHTTP(t *testing.T) {
	tests := []struct {
		name    string
		repo    storage.Repository
		storage string
	}{
		{name: "with storage", repo: storage.NewMockRepository(), storage: "enabled"},
		{name: "without storage", repo: nil, storage: "disabled"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := handlers.NewHealthHandler(tt.repo)

			req := httptest.NewRequest(http.MethodGet, "/health", nil)
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

			var response dto.HealthResponse
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&response))

			assert.Equal(t, "ok", response.Status)
			assert.Equal(t, tt.storage, response.Storage)
			assert.NotEmpty(t, response.Timestamp)
		})
	}
}
