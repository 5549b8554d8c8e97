package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/eshaffer321/splitwise-sync/internal/api/dto"
	"github.com/eshaffer321/splitwise-sync/internal/infrastructure/storage"
)

const maxRunsLimit = 500

// RunsHandler handles sync run-related HTTP requests.
type RunsHandler struct {
	*Base
}

// NewRunsHandler creates a new runs handler.
func NewRunsHandler(repo storage.Repository) *RunsHandler {
	return &RunsHandler{
		Base: NewBase(repo),
	}
}

// List handles GET /api/runs - returns recent sync runs, newest first.
func (h *RunsHandler) List(w http.ResponseWriter, r *http.Request) {
	if !h.requireRepo(w) {
		return
	}

	limit := ParseIntParam(r, "limit", 20)
	if limit <= 0 || limit > maxRunsLimit {
		h.WriteError(w, http.StatusBadRequest, dto.BadRequestError("limit must be between 1 and 500"))
		return
	}

	runs, err := h.repo.ListSyncRuns(limit)
	if err != nil {
		h.WriteError(w, http.StatusInternalServerError, dto.InternalError())
		return
	}

	response := dto.SyncRunListResponse{
		Runs:  make([]dto.SyncRunResponse, 0, len(runs)),
		Count: len(runs),
	}

	for _, run := range runs {
		response.Runs = append(response.Runs, toSyncRunResponse(run))
	}

	h.WriteJSON(w, http.StatusOK, response)
}

// Get handles GET /api/runs/{id} - returns a single sync run by ID.
func (h *RunsHandler) Get(w http.ResponseWriter, r *http.Request) {
	if !h.requireRepo(w) {
		return
	}
	id, ok := h.runIDParam(w, r)
	if !ok {
		return
	}

	run, err := h.repo.GetSyncRun(id)
	if errors.Is(err, storage.ErrNotFound) {
		h.WriteError(w, http.StatusNotFound, dto.NotFoundError("sync run"))
		return
	}
	if err != nil {
		h.WriteError(w, http.StatusInternalServerError, dto.InternalError())
		return
	}

	h.WriteJSON(w, http.StatusOK, toSyncRunResponse(*run))
}

// Records handles GET /api/runs/{id}/records - returns per-transaction outcomes.
func (h *RunsHandler) Records(w http.ResponseWriter, r *http.Request) {
	if !h.requireRepo(w) {
		return
	}
	id, ok := h.runIDParam(w, r)
	if !ok {
		return
	}

	if _, err := h.repo.GetSyncRun(id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			h.WriteError(w, http.StatusNotFound, dto.NotFoundError("sync run"))
			return
		}
		h.WriteError(w, http.StatusInternalServerError, dto.InternalError())
		return
	}

	records, err := h.repo.ListRecords(id)
	if err != nil {
		h.WriteError(w, http.StatusInternalServerError, dto.InternalError())
		return
	}

	response := dto.SyncRecordListResponse{
		RunID:   id,
		Records: make([]dto.SyncRecordResponse, 0, len(records)),
		Count:   len(records),
	}
	for _, rec := range records {
		response.Records = append(response.Records, dto.SyncRecordResponse{
			TransactionID:   rec.TransactionID,
			TransactionDate: rec.TransactionDate.Format("2006-01-02"),
			Amount:          rec.Amount,
			Description:     rec.Description,
			AccountName:     rec.AccountName,
			Outcome:         string(rec.Outcome),
			ExpenseID:       rec.ExpenseID,
			MatchKind:       rec.MatchKind,
			ErrorMessage:    rec.ErrorMessage,
		})
	}

	h.WriteJSON(w, http.StatusOK, response)
}

// Calls handles GET /api/runs/{id}/calls - returns the audited Splitwise writes.
func (h *RunsHandler) Calls(w http.ResponseWriter, r *http.Request) {
	if !h.requireRepo(w) {
		return
	}
	id, ok := h.runIDParam(w, r)
	if !ok {
		return
	}

	if _, err := h.repo.GetSyncRun(id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			h.WriteError(w, http.StatusNotFound, dto.NotFoundError("sync run"))
			return
		}
		h.WriteError(w, http.StatusInternalServerError, dto.InternalError())
		return
	}

	calls, err := h.repo.GetAPICallsByRunID(id)
	if err != nil {
		h.WriteError(w, http.StatusInternalServerError, dto.InternalError())
		return
	}

	response := dto.APICallListResponse{
		RunID: id,
		Calls: make([]dto.APICallResponse, 0, len(calls)),
		Count: len(calls),
	}
	for _, call := range calls {
		resp := dto.APICallResponse{
			TransactionID: call.TransactionID,
			Method:        call.Method,
			Request:       rawJSON(call.RequestJSON),
			Response:      rawJSON(call.ResponseJSON),
			Error:         call.Error,
			DurationMs:    call.DurationMs,
		}
		if !call.Timestamp.IsZero() {
			resp.Timestamp = call.Timestamp.UTC().Format(time.RFC3339)
		}
		response.Calls = append(response.Calls, resp)
	}

	h.WriteJSON(w, http.StatusOK, response)
}

// rawJSON passes stored payloads through as JSON, quoting anything that isn't
func rawJSON(s string) json.RawMessage {
	if s == "" {
		return nil
	}
	if json.Valid([]byte(s)) {
		return json.RawMessage(s)
	}
	quoted, _ := json.Marshal(s)
	return quoted
}

// toSyncRunResponse converts a storage SyncRun to an API response.
func toSyncRunResponse(run storage.SyncRun) dto.SyncRunResponse {
	resp := dto.SyncRunResponse{
		ID:                     run.ID,
		RunUUID:                run.RunUUID,
		Source:                 run.Source,
		FilePath:               run.FilePath,
		GroupID:                run.GroupID,
		DryRun:                 run.DryRun,
		AssumeYes:              run.AssumeYes,
		SnapshotPolicy:         run.SnapshotPolicy,
		StartedAt:              run.StartedAt.UTC().Format(time.RFC3339),
		TransactionsRead:       run.TransactionsRead,
		TransactionsConsidered: run.TransactionsConsidered,
		Created:                run.Created,
		DryRunCount:            run.DryRunCount,
		Duplicates:             run.Duplicates,
		Declined:               run.Declined,
		Failed:                 run.Failed,
		Status:                 run.Status,
		ErrorMessage:           run.ErrorMessage,
	}
	if run.CompletedAt != nil {
		resp.CompletedAt = run.CompletedAt.UTC().Format(time.RFC3339)
	}
	return resp
}
