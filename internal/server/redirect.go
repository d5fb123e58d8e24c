package server

import (
	"net/http"
	"net/url"
)

func (s *Service) redirectWithNotice(w http.ResponseWriter, r *http.Request, path, notice string) {
	v := url.Values{}
	v.Set("notice", notice)
	http.Redirect(w, r, path+"?"+v.Encode(), http.StatusSeeOther)
}

func (s *Service) redirectWithError(w http.ResponseWriter, r *http.Request, path, msg string) {
	v := url.Values{}
	v.Set("error", msg)
	http.Redirect(w, r, path+"?"+v.Encode(), http.StatusSeeOther)
}
