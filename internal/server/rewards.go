package server

import (
	"errors"
	"fmt"
	"net/http"

	"servenet/internal/store"
	"servenet/pkg/types"
)

func (s *Service) handleGetRewards(w http.ResponseWriter, r *http.Request) {
	st, ok := storeFromContext(r.Context())
	if !ok {
		s.logger.Error("store not found in context")
		s.internalServerError(w)
		return
	}

	submissions := st.List()

	data := &types.RewardsPageData{
		DashboardPageData: dashboardPage(r, "Rewards", tabRewards),
		Summary:           store.Summarize(submissions),
		Submissions:       submissions,
	}

	if err := s.renderTemplate(w, r, "page.dashboard.rewards", data); err != nil {
		s.logger.WithError(err).Error("failed to render rewards page")
		s.internalServerError(w)
		return
	}
}

func (s *Service) handlePostWithdraw(w http.ResponseWriter, r *http.Request) {
	st, ok := storeFromContext(r.Context())
	if !ok {
		s.logger.Error("store not found in context")
		s.internalServerError(w)
		return
	}

	amount, err := st.Withdraw()
	if errors.Is(err, types.ErrNothingToWithdraw) {
		s.redirectWithError(w, r, "/dashboard/rewards", "Nothing to withdraw yet.")
		return
	}
	if err != nil {
		s.logger.WithError(err).Error("failed to withdraw rewards")
		s.internalServerError(w)
		return
	}

	s.logger.WithField("wallet", shortWallet(walletFromContext(r.Context()))).
		WithField("amount", amount).
		Info("withdrawal simulated")

	s.redirectWithNotice(w, r, "/dashboard/rewards", fmt.Sprintf("Withdrew %d SERVE to your wallet.", amount))
}
