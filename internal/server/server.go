package server

import (
	"context"
	"embed"
	"encoding/base64"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"strings"
	"time"

	"servenet/internal/store"
	"servenet/internal/utils"
	"servenet/pkg/types"

	"github.com/alexedwards/flow"
	"github.com/go-playground/form/v4"
	"github.com/gorilla/securecookie"
	"github.com/sirupsen/logrus"
)

//go:embed templates static
var uiFS embed.FS
var decoder = form.NewDecoder()

type Service struct {
	logger    *logrus.Logger
	config    *types.Config
	registry  *store.Registry
	templates *template.Template

	cookie *securecookie.SecureCookie

	handler http.Handler
	server  *http.Server
}

func New(
	config *types.Config,
	logger *logrus.Logger,
	registry *store.Registry,
) (*Service, error) {
	mux := flow.New()

	cookie, err := newSecureCookie(config, logger)
	if err != nil {
		return nil, err
	}

	s := &Service{
		logger:   logger,
		config:   config,
		registry: registry,
		cookie:   cookie,
		server: &http.Server{
			Addr:              fmt.Sprintf(":%d", config.ServerPort),
			ReadTimeout:       time.Duration(config.ReadTimeoutSec) * time.Second,
			ReadHeaderTimeout: time.Duration(config.ReadTimeoutSec) * time.Second,
			WriteTimeout:      time.Duration(config.WriteTimeoutSec) * time.Second,
			MaxHeaderBytes:    1 << 20,
		},
	}

	templates, err := loadTemplates()
	if err != nil {
		return nil, err
	}
	s.templates = templates

	s.buildRouter(mux)

	// trailing slashes never match a flow route, so strip them before routing
	s.handler = s.RequestID(s.StripTrailingSlash(mux))
	s.server.Handler = s.handler

	return s, nil
}

func (s *Service) Handler() http.Handler {
	return s.handler
}

func (s *Service) Start() error {
	return s.server.ListenAndServe()
}

// Stop drains HTTP traffic, then closes every session so no verification
// timer outlives the server.
func (s *Service) Stop(ctx context.Context) error {
	err := s.server.Shutdown(ctx)

	closed := s.registry.CloseAll()
	s.logger.WithField("sessions", closed).Info("closed contributor sessions")

	return err
}

func newSecureCookie(config *types.Config, logger *logrus.Logger) (*securecookie.SecureCookie, error) {
	hashKey, err := base64.StdEncoding.DecodeString(config.CookieHashKey)
	if err != nil {
		return nil, fmt.Errorf("decode cookie hash key: %w", err)
	}
	blockKey, err := base64.StdEncoding.DecodeString(config.CookieBlockKey)
	if err != nil {
		return nil, fmt.Errorf("decode cookie block key: %w", err)
	}

	if len(hashKey) == 0 {
		logger.Warn("COOKIE_HASH_KEY not set, generating an ephemeral key")
		hashKey = securecookie.GenerateRandomKey(64)
	}
	if len(blockKey) == 0 {
		logger.Warn("COOKIE_BLOCK_KEY not set, generating an ephemeral key")
		blockKey = securecookie.GenerateRandomKey(32)
	}

	cookie := securecookie.New(hashKey, blockKey)
	cookie.MaxAge(config.WalletMaxAgeSec)
	return cookie, nil
}

func (s *Service) buildRouter(r *flow.Mux) {
	r.NotFound = http.HandlerFunc(s.handleNotFound)

	r.Use(s.LoggingMiddleware)

	r.HandleFunc("/", s.handleHome, http.MethodGet)
	r.HandleFunc("/healthz", s.handleHealth, http.MethodGet)

	r.HandleFunc("/connect", s.handleGetConnect, http.MethodGet)
	r.HandleFunc("/connect", s.handlePostConnect, http.MethodPost)
	r.HandleFunc("/disconnect", s.handlePostDisconnect, http.MethodPost)

	r.Group(func(r *flow.Mux) {
		r.Use(s.RequireWallet)

		r.HandleFunc("/dashboard", s.handleGetDashboard, http.MethodGet)
		r.HandleFunc("/dashboard/submissions", s.handlePostSubmission, http.MethodPost)
		r.HandleFunc("/dashboard/data", s.handleGetMyData, http.MethodGet)
		r.HandleFunc("/dashboard/validated", s.handleGetValidated, http.MethodGet)
		r.HandleFunc("/dashboard/rewards", s.handleGetRewards, http.MethodGet)
		r.HandleFunc("/dashboard/rewards/withdraw", s.handlePostWithdraw, http.MethodPost)
		r.HandleFunc("/dashboard/nodes/:id/export", s.handleGetNodeExport, http.MethodGet)
		r.HandleFunc("/dashboard/dataset", s.handlePostDataset, http.MethodPost)
		r.HandleFunc("/dashboard/code", s.handlePostCode, http.MethodPost)

		r.HandleFunc("/api/submissions", s.handleAPISubmissions, http.MethodGet)
	})

	staticRoot, err := fs.Sub(uiFS, "static")
	if err != nil {
		s.logger.WithError(err).Fatal("failed to mount static assets")
	}
	r.Handle("/static/...", http.StripPrefix("/static/", http.FileServer(http.FS(staticRoot))), http.MethodGet)
}

func loadTemplates() (*template.Template, error) {
	funcMap := template.FuncMap{
		"reward": func(v *int) int {
			return utils.PtrInt(v)
		},
		"hasReward": func(v *int) bool {
			return v != nil
		},
		"categoryName": types.CategoryName,
		"statusClass": func(status types.SubmissionStatus) string {
			switch status {
			case types.SubmissionStatusVerified:
				return "badge-verified"
			case types.SubmissionStatusRejected:
				return "badge-rejected"
			default:
				return "badge-pending"
			}
		},
		"formatTime": func(t time.Time) string {
			if t.IsZero() {
				return ""
			}
			return t.UTC().Format("2006-01-02 15:04 MST")
		},
	}

	t := template.New("").Funcs(funcMap)
	err := fs.WalkDir(uiFS, "templates", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".html") {
			return nil
		}

		data, err := fs.ReadFile(uiFS, path)
		if err != nil {
			return fmt.Errorf("read template %s: %w", path, err)
		}

		if _, err := t.Parse(string(data)); err != nil {
			return fmt.Errorf("parse template %s: %w", path, err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return t, nil
}
