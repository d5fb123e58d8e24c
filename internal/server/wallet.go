package server

import (
	"errors"
	"net/http"
	"strings"

	"servenet/internal/store"
	"servenet/pkg/types"
)

const maxWalletLength = 128

type connectForm struct {
	Wallet string `form:"wallet"`
}

func (s *Service) handleGetConnect(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.walletFromCookie(r); ok {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}

	data := &types.ConnectPageData{
		BasePageData: types.BasePageData{
			Title: "Connect Wallet",
			Error: strings.TrimSpace(r.URL.Query().Get("error")),
		},
	}

	if err := s.renderTemplate(w, r, "page.connect", data); err != nil {
		s.logger.WithError(err).Error("failed to render connect page")
		s.internalServerError(w)
		return
	}
}

func (s *Service) handlePostConnect(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.redirectWithError(w, r, "/connect", "invalid form payload")
		return
	}

	var input connectForm
	if err := decoder.Decode(&input, r.PostForm); err != nil {
		s.logger.WithError(err).Error("failed to decode connect form")
		s.redirectWithError(w, r, "/connect", "invalid form payload")
		return
	}

	wallet := store.NormalizeWallet(input.Wallet)
	if wallet == "" || len(wallet) > maxWalletLength {
		s.redirectWithError(w, r, "/connect", "Enter a wallet address.")
		return
	}

	encoded, err := s.cookie.Encode(s.config.WalletCookieName, wallet)
	if err != nil {
		s.logger.WithError(err).Error("failed to encode wallet cookie")
		s.internalServerError(w)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     s.config.WalletCookieName,
		Value:    encoded,
		HttpOnly: true,
		Secure:   s.config.Environment != "development",
		SameSite: http.SameSiteLaxMode,
		MaxAge:   s.config.WalletMaxAgeSec,
		Path:     "/",
	})

	s.registry.Open(wallet)
	s.logger.WithField("wallet", shortWallet(wallet)).Info("wallet connected")

	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

// handlePostDisconnect is the logout path: the session's store is reset,
// which cancels any verification still pending for it.
func (s *Service) handlePostDisconnect(w http.ResponseWriter, r *http.Request) {
	if wallet, ok := s.walletFromCookie(r); ok {
		entry := s.logger.WithField("wallet", shortWallet(wallet))
		if err := s.registry.Close(wallet); errors.Is(err, types.ErrSessionNotFound) {
			entry.Debug("disconnect without an open session")
		} else {
			entry.Info("wallet disconnected")
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     s.config.WalletCookieName,
		Value:    "",
		HttpOnly: true,
		Secure:   s.config.Environment != "development",
		SameSite: http.SameSiteLaxMode,
		Path:     "/",
		MaxAge:   -1,
	})

	s.redirectWithNotice(w, r, "/", "Wallet disconnected")
}

func (s *Service) walletFromCookie(r *http.Request) (string, bool) {
	cookie, err := r.Cookie(s.config.WalletCookieName)
	if err != nil {
		return "", false
	}

	var wallet string
	if err := s.cookie.Decode(s.config.WalletCookieName, cookie.Value, &wallet); err != nil {
		s.logger.WithError(err).Debug("failed to decode wallet cookie")
		return "", false
	}

	if wallet == "" {
		return "", false
	}
	return wallet, true
}

// shortWallet renders 0xabcdef...123456 as 0xabcd...3456.
func shortWallet(wallet string) string {
	if len(wallet) <= 12 {
		return wallet
	}
	return wallet[:6] + "..." + wallet[len(wallet)-4:]
}
