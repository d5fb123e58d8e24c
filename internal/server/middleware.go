package server

import (
	"context"
	"net/http"
	"strings"
	"time"

	"servenet/internal/store"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Context key types to avoid collisions
type contextKey string

const (
	contextKeyRequestID contextKey = "request_id"
	contextKeyWallet    contextKey = "wallet"
	contextKeyStore     contextKey = "store"
)

const requestIDHeader = "X-Request-ID"

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// RequestID tags every request with an id, reusing a valid incoming one.
func (s *Service) RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(requestIDHeader)
		if _, err := uuid.Parse(requestID); err != nil {
			requestID = uuid.NewString()
		}

		w.Header().Set(requestIDHeader, requestID)
		ctx := context.WithValue(r.Context(), contextKeyRequestID, requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *Service) LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		started := time.Now()
		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(rw, r)

		requestID, _ := r.Context().Value(contextKeyRequestID).(string)
		s.logger.WithFields(logrus.Fields{
			"request_id":  requestID,
			"method":      r.Method,
			"path":        r.URL.Path,
			"status":      rw.statusCode,
			"duration_ms": time.Since(started).Milliseconds(),
		}).Info("http request")
	})
}

// RequireWallet resolves the wallet cookie into the contributor's store and
// adds both to the request context.
func (s *Service) RequireWallet(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		wallet, ok := s.walletFromCookie(r)
		if !ok {
			http.Redirect(w, r, "/connect", http.StatusSeeOther)
			return
		}

		st := s.registry.Open(wallet)

		ctx := r.Context()
		ctx = context.WithValue(ctx, contextKeyWallet, wallet)
		ctx = context.WithValue(ctx, contextKeyStore, st)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *Service) StripTrailingSlash(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path

		// Only strip if path is not root and has trailing slash
		if path != "/" && strings.HasSuffix(path, "/") {
			newURL := *r.URL
			newURL.Path = strings.TrimSuffix(path, "/")

			http.Redirect(w, r, newURL.String(), http.StatusMovedPermanently)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func storeFromContext(ctx context.Context) (*store.SubmissionStore, bool) {
	st, ok := ctx.Value(contextKeyStore).(*store.SubmissionStore)
	return st, ok
}

func walletFromContext(ctx context.Context) string {
	wallet, _ := ctx.Value(contextKeyWallet).(string)
	return wallet
}
