package server

import (
	"net/http"
	"strings"

	"servenet/pkg/types"
)

func (s *Service) handleHome(w http.ResponseWriter, r *http.Request) {
	data := &types.HomePageData{
		BasePageData: types.BasePageData{
			Title:  "Serve Network",
			Notice: strings.TrimSpace(r.URL.Query().Get("notice")),
			Error:  strings.TrimSpace(r.URL.Query().Get("error")),
		},
		Features:   coreFeatures(),
		Steps:      contributorSteps(),
		Categories: types.Categories,
	}

	if err := s.renderTemplate(w, r, "page.home", data); err != nil {
		s.logger.WithError(err).Error("failed to render home page")
		s.internalServerError(w)
		return
	}
}

func (s *Service) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Service) handleNotFound(w http.ResponseWriter, r *http.Request) {
	http.NotFound(w, r)
}

func (s *Service) internalServerError(w http.ResponseWriter) {
	http.Error(w, "internal server error", http.StatusInternalServerError)
}

func coreFeatures() []types.FeatureData {
	return []types.FeatureData{
		{
			Title:       "Human-to-Node Engine",
			Description: "Turn observations, reports, and device readings into standardized sensor nodes, each timestamped and ready for validation.",
		},
		{
			Title:       "Autonomous Agent Interface",
			Description: "Agents read, rate, and learn from Serve nodes, building knowledge graphs grounded in real-world observations.",
		},
		{
			Title:       "Decentralized AI Training",
			Description: "Validated nodes feed training datasets that contributors can export and share.",
		},
	}
}

func contributorSteps() []types.StepData {
	return []types.StepData{
		{
			Number:      1,
			Title:       "Connect your wallet",
			Description: "Your wallet address identifies your contributions for this session.",
		},
		{
			Number:      2,
			Title:       "Submit an observation",
			Description: "Describe what you saw, where, and attach optional sensor readings.",
		},
		{
			Number:      3,
			Title:       "Get validated and earn",
			Description: "Validated nodes earn SERVE rewards you can withdraw from the dashboard.",
		},
	}
}
