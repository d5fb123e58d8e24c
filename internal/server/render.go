package server

import (
	"net/http"

	"servenet/pkg/types"
)

func (s *Service) renderTemplate(w http.ResponseWriter, r *http.Request, templateName string, data any) error {
	wallet := walletFromContext(r.Context())
	if wallet == "" {
		wallet, _ = s.walletFromCookie(r)
	}

	if setter, ok := data.(types.NavbarDataSetter); ok {
		setter.SetNavbarData(types.NavbarData{
			WalletConnected: wallet != "",
			Wallet:          wallet,
			WalletShort:     shortWallet(wallet),
		})
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	return s.templates.ExecuteTemplate(w, templateName, data)
}
