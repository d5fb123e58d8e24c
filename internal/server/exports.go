package server

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"servenet/internal/export"
	"servenet/internal/store"
	"servenet/internal/utils"
	"servenet/pkg/types"

)

func (s *Service) handleGetNodeExport(w http.ResponseWriter, r *http.Request) {
	st, ok := storeFromContext(r.Context())
	if !ok {
		s.logger.Error("store not found in context")
		s.internalServerError(w)
		return
	}

	id := strings.TrimSpace(r.PathValue("id"))

	sub, err := st.Get(id)
	if errors.Is(err, types.ErrSubmissionNotFound) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		s.logger.WithError(err).WithField("submission_id", id).Error("failed to load submission for export")
		s.internalServerError(w)
		return
	}

	var data []byte
	st.WithRandom(func(rnd utils.IntSource) {
		data, err = export.NodeJSON(sub, rnd)
	})
	if err != nil {
		s.logger.WithError(err).WithField("submission_id", id).Error("failed to export node")
		s.internalServerError(w)
		return
	}

	s.writeDownload(w, export.NodeFilename(sub.ID), data)
}

type datasetForm struct {
	Nodes  []string `form:"nodes"`
	Format string   `form:"format"`
}

func (s *Service) handlePostDataset(w http.ResponseWriter, r *http.Request) {
	st, ok := storeFromContext(r.Context())
	if !ok {
		s.logger.Error("store not found in context")
		s.internalServerError(w)
		return
	}

	if err := r.ParseForm(); err != nil {
		s.redirectWithError(w, r, "/dashboard/validated", "invalid form payload")
		return
	}

	var input datasetForm
	if err := decoder.Decode(&input, r.PostForm); err != nil {
		s.logger.WithError(err).Error("failed to decode dataset form")
		s.redirectWithError(w, r, "/dashboard/validated", "invalid form payload")
		return
	}

	format, err := export.ParseFormat(input.Format)
	if err != nil {
		s.redirectWithError(w, r, "/dashboard/validated", "Missing selection: choose an export format.")
		return
	}

	data, err := export.Dataset(st.List(), input.Nodes, format)
	if errors.Is(err, types.ErrMissingSelection) {
		s.redirectWithError(w, r, "/dashboard/validated", "Missing selection: select at least one verified node.")
		return
	}
	if err != nil {
		s.logger.WithError(err).Error("failed to build dataset")
		s.internalServerError(w)
		return
	}

	s.writeDownload(w, export.DatasetFilename(format), data)
}

type codeForm struct {
	Nodes    []string `form:"nodes"`
	CodeType string   `form:"code_type"`
	Action   string   `form:"action"`
}

func codeTypeOptions(selected string) []types.SelectOption {
	options := make([]types.SelectOption, 0, len(export.CodeTemplates))
	for _, t := range export.CodeTemplates {
		options = append(options, types.SelectOption{
			Value:    string(t.Type),
			Label:    t.Label,
			Selected: string(t.Type) == selected,
		})
	}
	return options
}

// handlePostCode renders training code for the selected verified nodes,
// either inline on the Validated tab or as a download.
func (s *Service) handlePostCode(w http.ResponseWriter, r *http.Request) {
	st, ok := storeFromContext(r.Context())
	if !ok {
		s.logger.Error("store not found in context")
		s.internalServerError(w)
		return
	}

	if err := r.ParseForm(); err != nil {
		s.redirectWithError(w, r, "/dashboard/validated", "invalid form payload")
		return
	}

	var input codeForm
	if err := decoder.Decode(&input, r.PostForm); err != nil {
		s.logger.WithError(err).Error("failed to decode code form")
		s.redirectWithError(w, r, "/dashboard/validated", "invalid form payload")
		return
	}

	const missing = "Missing selection: select data nodes and a code type."

	codeType, err := export.ParseCodeType(input.CodeType)
	if err != nil || len(input.Nodes) == 0 {
		s.redirectWithError(w, r, "/dashboard/validated", missing)
		return
	}

	records := st.List()
	code, err := export.GenerateCode(records, input.Nodes, codeType)
	if errors.Is(err, types.ErrMissingSelection) {
		s.redirectWithError(w, r, "/dashboard/validated", missing)
		return
	}
	if err != nil {
		s.logger.WithError(err).WithField("code_type", codeType).Error("failed to generate code")
		s.internalServerError(w)
		return
	}

	if input.Action == "download" {
		s.writeDownload(w, export.CodeFilename(codeType), code)
		return
	}

	used := export.SelectVerified(records, input.Nodes)
	selected := make(map[string]bool, len(used))
	for _, sub := range used {
		selected[sub.ID] = true
	}

	data := &types.ValidatedPageData{
		DashboardPageData: dashboardPage(r, "Validated Data", tabValidated),
		Submissions:       store.Validated(records),
		CodeTypes:         codeTypeOptions(string(codeType)),
		GeneratedCode:     string(code),
		CodeTypeLabel:     codeType.Label(),
		CodeFilename:      export.CodeFilename(codeType),
		CodeNodeCount:     len(used),
		SelectedNodes:     selected,
	}
	data.Notice = fmt.Sprintf("Generated %s training code using %d data nodes.", codeType.Label(), len(used))

	if err := s.renderTemplate(w, r, "page.dashboard.validated", data); err != nil {
		s.logger.WithError(err).Error("failed to render generated code")
		s.internalServerError(w)
		return
	}
}

// writeDownload serves data as a text/plain attachment.
func (s *Service) writeDownload(w http.ResponseWriter, filename string, data []byte) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
