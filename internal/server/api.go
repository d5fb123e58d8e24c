package server

import (
	"encoding/json"
	"net/http"

	"servenet/internal/store"
	"servenet/pkg/types"
)

type submissionsResponse struct {
	Submissions []types.Submission `json:"submissions"`
	Summary     summaryResponse    `json:"summary"`
}

type summaryResponse struct {
	TotalEarned    int `json:"totalEarned"`
	PendingCount   int `json:"pendingCount"`
	ValidatedCount int `json:"validatedCount"`
	Submitted      int `json:"submitted"`
}

// handleAPISubmissions lets the dashboard poll for status changes.
func (s *Service) handleAPISubmissions(w http.ResponseWriter, r *http.Request) {
	st, ok := storeFromContext(r.Context())
	if !ok {
		s.logger.Error("store not found in context")
		s.internalServerError(w)
		return
	}

	submissions := st.List()
	summary := store.Summarize(submissions)

	if status := r.URL.Query().Get("status"); status != "" {
		submissions = store.FilterByStatus(submissions, types.SubmissionStatus(status))
	}
	submissions = store.FilterByCategoryAndSearch(submissions, r.URL.Query().Get("category"), r.URL.Query().Get("q"))

	w.Header().Set("Content-Type", "application/json")
	err := json.NewEncoder(w).Encode(submissionsResponse{
		Submissions: submissions,
		Summary: summaryResponse{
			TotalEarned:    summary.TotalEarned,
			PendingCount:   summary.PendingCount,
			ValidatedCount: summary.ValidatedCount,
			Submitted:      summary.Submitted,
		},
	})
	if err != nil {
		s.logger.WithError(err).Error("failed to encode submissions response")
	}
}
