package handlers

import (
	"net/http"
	"sort"

	"github.com/eshaffer321/splitwise-sync/internal/api/dto"
	"github.com/eshaffer321/splitwise-sync/internal/infrastructure/storage"
)

// StatsHandler handles stats-related HTTP requests.
type StatsHandler struct {
	*Base
}

// NewStatsHandler creates a new stats handler.
func NewStatsHandler(repo storage.Repository) *StatsHandler {
	return &StatsHandler{
		Base: NewBase(repo),
	}
}

// Get handles GET /api/stats - returns aggregate statistics.
func (h *StatsHandler) Get(w http.ResponseWriter, r *http.Request) {
	if !h.requireRepo(w) {
		return
	}

	stats, err := h.repo.GetStats()
	if err != nil {
		h.WriteError(w, http.StatusInternalServerError, dto.InternalError())
		return
	}

	// Convert source stats map to a sorted slice for easier frontend consumption
	sources := make([]dto.SourceStatsResponse, 0, len(stats.SourceStats))
	for source, s := range stats.SourceStats {
		sources = append(sources, dto.SourceStatsResponse{
			Source:  source,
			Runs:    s.Runs,
			Created: s.Created,
		})
	}
	sort.Slice(sources, func(i, j int) bool { return sources[i].Source < sources[j].Source })

	outcomes := make(map[string]int, len(stats.OutcomeCounts))
	for outcome, count := range stats.OutcomeCounts {
		outcomes[string(outcome)] = count
	}

	response := dto.StatsResponse{
		TotalRuns:     stats.TotalRuns,
		FailedRuns:    stats.FailedRuns,
		TotalRecords:  stats.TotalRecords,
		OutcomeCounts: outcomes,
		CreatedAmount: stats.CreatedAmount,
		SourceStats:   sources,
	}

	h.WriteJSON(w, http.StatusOK, response)
}
