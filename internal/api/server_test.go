package api_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eshaffer321/splitwise-sync/internal/api"
	"github.com/eshaffer321/splitwise-sync/internal/api/dto"
	"github.com/eshaffer321/splitwise-sync/internal/infrastructure/storage"
)

func newTestServer(t *testing.T) (*api.Server, *storage.MockRepository) {
	t.Helper()
	repo := storage.NewMockRepository()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	server := api.NewServer(api.DefaultConfig(), repo, logger)
	return server, repo
}

func seedRun(t *testing.T, repo *storage.MockRepository) int64 {
	t.Helper()
	runID, err := repo.StartSyncRun(&storage.SyncRun{
		RunUUID:   "8d4a1c2e",
		Source:    "mint",
		FilePath:  "transactions.json",
		GroupID:   42,
		StartedAt: time.Now(),
	})
	require.NoError(t, err)
	require.NoError(t, repo.SaveRecord(&storage.SyncRecord{
		RunID:         runID,
		TransactionID: "tx1",
		Amount:        "-45.00",
		Outcome:       storage.OutcomeCreated,
		ExpenseID:     77,
	}))
	require.NoError(t, repo.LogAPICall(&storage.APICall{
		RunID:         runID,
		TransactionID: "tx1",
		Method:        "CreateExpense",
		RequestJSON:   `{"cost":"45.00"}`,
		ResponseJSON:  `[{"id":77}]`,
	}))
	require.NoError(t, repo.CompleteSyncRun(runID, storage.RunCounts{TransactionsRead: 1, TransactionsConsidered: 1, Created: 1}))
	return runID
}

func get(t *testing.T, server *api.Server, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	server.Router().ServeHTTP(rec, req)
	return rec
}

func TestServer_HealthEndpoint(t *testing.T) {
	server, _ := newTestServer(t)

	rec := get(t, server, "/health")

	assert.Equal(t, http.StatusOK, rec.Code)

	var response dto.HealthResponse
	err := json.NewDecoder(rec.Body).Decode(&response)
	require.NoError(t, err)
	assert.Equal(t, "ok", response.Status)
}

func TestServer_RunsEndpoints(t *testing.T) {
	t.Run("GET /api/runs lists runs", func(t *testing.T) {
		server, repo := newTestServer(t)
		seedRun(t, repo)

		rec := get(t, server, "/api/runs")

		assert.Equal(t, http.StatusOK, rec.Code)

		var response dto.SyncRunListResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&response))
		require.Equal(t, 1, response.Count)
		assert.Equal(t, "completed", response.Runs[0].Status)
	})

	t.Run("GET /api/runs/{id} routes the URL parameter", func(t *testing.T) {
		server, repo := newTestServer(t)
		seedRun(t, repo)

		rec := get(t, server, "/api/runs/1")

		assert.Equal(t, http.StatusOK, rec.Code)

		var response dto.SyncRunResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&response))
		assert.Equal(t, "8d4a1c2e", response.RunUUID)
		assert.Equal(t, 1, response.Created)
	})

	t.Run("GET /api/runs/{id}/records lists outcomes", func(t *testing.T) {
		server, repo := newTestServer(t)
		seedRun(t, repo)

		rec := get(t, server, "/api/runs/1/records")

		assert.Equal(t, http.StatusOK, rec.Code)

		var response dto.SyncRecordListResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&response))
		require.Len(t, response.Records, 1)
		assert.Equal(t, int64(77), response.Records[0].ExpenseID)
	})

	t.Run("GET /api/runs/{id}/calls lists audited writes", func(t *testing.T) {
		server, repo := newTestServer(t)
		seedRun(t, repo)

		rec := get(t, server, "/api/runs/1/calls")

		assert.Equal(t, http.StatusOK, rec.Code)

		var response dto.APICallListResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&response))
		require.Len(t, response.Calls, 1)
		assert.Equal(t, "CreateExpense", response.Calls[0].Method)
		assert.JSONEq(t, `{"cost":"45.00"}`, string(response.Calls[0].Request))
	})

	t.Run("GET /api/runs/{id} returns 404 for unknown run", func(t *testing.T) {
		server, _ := newTestServer(t)

		rec := get(t, server, "/api/runs/12")

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestServer_StatsEndpoint(t *testing.T) {
	server, repo := newTestServer(t)
	seedRun(t, repo)

	rec := get(t, server, "/api/stats")

	assert.Equal(t, http.StatusOK, rec.Code)

	var response dto.StatsResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&response))
	assert.Equal(t, 1, response.TotalRuns)
	assert.Equal(t, "45.00", response.CreatedAmount)
}

func TestServer_WithoutStorage(t *testing.T) {
	server := api.NewServer(api.DefaultConfig(), nil, nil)

	health := get(t, server, "/health")
	assert.Equal(t, http.StatusOK, health.Code)
	assert.Contains(t, health.Body.String(), `"storage":"disabled"`)
	assert.Equal(t, http.StatusServiceUnavailable, get(t, server, "/api/runs").Code)
	assert.Equal(t, http.StatusServiceUnavailable, get(t, server, "/api/stats").Code)
}

func TestServer_RejectsWrites(t *testing.T) {
	server, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/runs", nil)
	rec := httptest.NewRecorder()
	server.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestServer_CORS(t *testing.T) {
	server, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/runs", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	rec := httptest.NewRecorder()
	server.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestServer_ShutdownBeforeStart(t *testing.T) {
	server, _ := newTestServer(t)
	assert.NoError(t, server.Shutdown(context.Background()))
}
