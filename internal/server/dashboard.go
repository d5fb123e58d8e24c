package server

import (
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"servenet/internal/export"
	"servenet/internal/store"
	"servenet/internal/utils"
	"servenet/pkg/types"
)

const (
	tabSubmit    = "submit"
	tabMyData    = "mydata"
	tabValidated = "validated"
	tabRewards   = "rewards"

	previewNodeID = "serve_0x000000"
)

func buildDashboardTabs(active string) []types.DashboardTab {
	return []types.DashboardTab{
		{Label: "Submit Data", Href: "/dashboard", Active: active == tabSubmit},
		{Label: "My Data", Href: "/dashboard/data", Active: active == tabMyData},
		{Label: "Validated Data", Href: "/dashboard/validated", Active: active == tabValidated},
		{Label: "Rewards", Href: "/dashboard/rewards", Active: active == tabRewards},
	}
}

func dashboardPage(r *http.Request, title, tab string) types.DashboardPageData {
	return types.DashboardPageData{
		BasePageData: types.BasePageData{
			Title:  title,
			Notice: strings.TrimSpace(r.URL.Query().Get("notice")),
			Error:  strings.TrimSpace(r.URL.Query().Get("error")),
		},
		Tabs: buildDashboardTabs(tab),
	}
}

func (s *Service) handleGetDashboard(w http.ResponseWriter, r *http.Request) {
	st, ok := storeFromContext(r.Context())
	if !ok {
		s.logger.Error("store not found in context")
		s.internalServerError(w)
		return
	}

	data := &types.SubmitPageData{
		DashboardPageData: dashboardPage(r, "Submit Data", tabSubmit),
		Categories:        types.Categories,
	}

	if id := strings.TrimSpace(r.URL.Query().Get("submitted")); id != "" {
		sub, err := st.Get(id)
		if err != nil && !errors.Is(err, types.ErrSubmissionNotFound) {
			s.logger.WithError(err).WithField("submission_id", id).Error("failed to load submission")
			s.internalServerError(w)
			return
		}
		if err == nil {
			data.Submitted = &sub
		}
	}

	if err := s.renderTemplate(w, r, "page.dashboard.submit", data); err != nil {
		s.logger.WithError(err).Error("failed to render submit page")
		s.internalServerError(w)
		return
	}
}

func (s *Service) handlePostSubmission(w http.ResponseWriter, r *http.Request) {
	st, ok := storeFromContext(r.Context())
	if !ok {
		s.logger.Error("store not found in context")
		s.internalServerError(w)
		return
	}

	values, media, err := s.parseSubmissionRequest(w, r)
	if err != nil {
		s.logger.WithError(err).Warn("failed to parse submission form")
		s.redirectWithError(w, r, "/dashboard", "We could not read that submission. Please try again.")
		return
	}

	var input types.SubmissionForm
	if err := decoder.Decode(&input, values); err != nil {
		s.logger.WithError(err).Error("failed to decode submission form")
		s.redirectWithError(w, r, "/dashboard", "We could not read that submission. Please try again.")
		return
	}
	input.Media = media

	if input.Action == "preview" {
		s.renderSubmissionPreview(w, r, st, input)
		return
	}

	sub := st.Submit(input)

	v := url.Values{}
	v.Set("submitted", sub.ID)
	v.Set("notice", "Data submitted successfully! Node ID: "+sub.ID+" - awaiting validation")
	http.Redirect(w, r, "/dashboard?"+v.Encode(), http.StatusSeeOther)
}

// parseSubmissionRequest accepts multipart and urlencoded bodies. Only the
// media file's metadata is kept; its contents are never read.
func (s *Service) parseSubmissionRequest(w http.ResponseWriter, r *http.Request) (url.Values, *types.MediaRef, error) {
	r.Body = http.MaxBytesReader(w, r.Body, s.config.MaxUploadBytes)

	err := r.ParseMultipartForm(s.config.MaxUploadBytes)
	if errors.Is(err, http.ErrNotMultipart) {
		if err := r.ParseForm(); err != nil {
			return nil, nil, err
		}
		return r.PostForm, nil, nil
	}
	if err != nil {
		return nil, nil, err
	}

	file, header, err := r.FormFile("media")
	if errors.Is(err, http.ErrMissingFile) {
		return r.PostForm, nil, nil
	}
	if err != nil {
		return nil, nil, err
	}
	_ = file.Close()

	media := &types.MediaRef{
		FileName:    header.Filename,
		SizeBytes:   header.Size,
		ContentType: header.Header.Get("Content-Type"),
	}
	if media.FileName == "" {
		media = nil
	}

	return r.PostForm, media, nil
}

func (s *Service) renderSubmissionPreview(w http.ResponseWriter, r *http.Request, st *store.SubmissionStore, input types.SubmissionForm) {
	pending := store.NewPendingSubmission(input, previewNodeID, time.Now())

	var (
		preview []byte
		err     error
	)
	st.WithRandom(func(rnd utils.IntSource) {
		preview, err = export.NodeJSON(*pending, rnd)
	})
	if err != nil {
		s.logger.WithError(err).Error("failed to build submission preview")
		s.internalServerError(w)
		return
	}

	data := &types.SubmitPageData{
		DashboardPageData: dashboardPage(r, "Submit Data", tabSubmit),
		Categories:        types.Categories,
		Form:              input,
		Preview:           string(preview),
	}

	if err := s.renderTemplate(w, r, "page.dashboard.submit", data); err != nil {
		s.logger.WithError(err).Error("failed to render submission preview")
		s.internalServerError(w)
		return
	}
}

type myDataFilters struct {
	Category string `form:"category"`
	Search   string `form:"q"`
}

func (s *Service) handleGetMyData(w http.ResponseWriter, r *http.Request) {
	st, ok := storeFromContext(r.Context())
	if !ok {
		s.logger.Error("store not found in context")
		s.internalServerError(w)
		return
	}

	var filters myDataFilters
	if err := decoder.Decode(&filters, r.URL.Query()); err != nil {
		s.logger.WithError(err).Warn("failed to decode data filters")
	}

	all := store.MyData(st.List())

	data := &types.MyDataPageData{
		DashboardPageData: dashboardPage(r, "My Data", tabMyData),
		Categories:        types.Categories,
		Submissions:       store.FilterByCategoryAndSearch(all, filters.Category, filters.Search),
		Category:          strings.TrimSpace(filters.Category),
		Search:            strings.TrimSpace(filters.Search),
		HasAny:            len(all) > 0,
	}

	if err := s.renderTemplate(w, r, "page.dashboard.data", data); err != nil {
		s.logger.WithError(err).Error("failed to render my data page")
		s.internalServerError(w)
		return
	}
}

func (s *Service) handleGetValidated(w http.ResponseWriter, r *http.Request) {
	st, ok := storeFromContext(r.Context())
	if !ok {
		s.logger.Error("store not found in context")
		s.internalServerError(w)
		return
	}

	data := &types.ValidatedPageData{
		DashboardPageData: dashboardPage(r, "Validated Data", tabValidated),
		Submissions:       store.Validated(st.List()),
		CodeTypes:         codeTypeOptions(""),
	}

	if err := s.renderTemplate(w, r, "page.dashboard.validated", data); err != nil {
		s.logger.WithError(err).Error("failed to render validated page")
		s.internalServerError(w)
		return
	}
}
