// Package server exposes the title resolver over HTTP.
//
// Serve mode lets several documentation builds (a CI fleet, typically)
// share one warm title cache instead of each maintaining its own:
//
//	GET /healthz
//	GET /api/v1/title/{number}                 resolve against the default repository
//	GET /api/v1/title/{owner}/{repo}/{number}  resolve against an explicit repository
//
// Responses are the resolver's Title JSON. Resolution failures degrade to
// placeholder titles exactly as in CLI mode; only invalid requests produce
// non-200 responses.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	rterrors "github.com/sphinx-toolbox/reftitle/pkg/errors"
	"github.com/sphinx-toolbox/reftitle/pkg/resolve"
)

const shutdownTimeout = 5 * time.Second

// Server serves title resolutions over HTTP.
type Server struct {
	resolver *resolve.Resolver
	logger   *log.Logger
}

// New creates a Server around an existing resolver.
// A nil logger falls back to log.Default().
func New(resolver *resolve.Resolver, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{resolver: resolver, logger: logger}
}

// Router builds the HTTP routing table.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(s.requestLogger)

	r.Get("/healthz", s.handleHealth)
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/title/{number}", s.handleTitle)
		r.Get("/title/{owner}/{repo}/{number}", s.handleTitle)
	})

	return r
}

// ListenAndServe runs the server until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:    addr,
		Handler: s.Router(),
		BaseContext: func(net.Listener) context.Context {
			return ctx
		},
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	s.logger.Info("listening", "addr", addr)

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleTitle(w http.ResponseWriter, r *http.Request) {
	number, err := strconv.Atoi(chi.URLParam(r, "number"))
	if err != nil || number < 1 {
		s.writeError(w, http.StatusBadRequest,
			rterrors.New(rterrors.ErrCodeInvalidReference, "number must be a positive integer"))
		return
	}

	ref := resolve.Reference{Number: number}
	if owner := chi.URLParam(r, "owner"); owner != "" {
		ref.Repo = owner + "/" + chi.URLParam(r, "repo")
	}

	title, err := s.resolver.Resolve(r.Context(), ref)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	writeJSON(w, http.StatusOK, title)
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{
		"error": rterrors.UserMessage(err),
		"code":  string(rterrors.GetCode(err)),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// requestLogger tags each request with a UUID and logs it on completion.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := uuid.NewString()
		w.Header().Set("X-Request-ID", requestID)

		start := time.Now()
		ww := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(ww, r)

		s.logger.Debug("request",
			"id", requestID,
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.status,
			"duration", time.Since(start).Round(time.Microsecond),
		)
	})
}

// statusWriter captures the response status for logging.
type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}
