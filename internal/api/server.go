package api

import (
	"context"
	"encoding/json"
	"expvar"
	"fmt"
	"net/http"
	"strconv"
	"time"

	chi "github.com/go-chi/chi/v5"

	"github.com/shala-studio/shala/internal/common"
	ctxbuilder "github.com/shala-studio/shala/internal/context"
	"github.com/shala-studio/shala/internal/llm"
	"github.com/shala-studio/shala/internal/sqlite"
)

// ProviderResolver selects the AI provider for one chat turn. It is
// re-invoked per request so configuration changes take effect without a
// restart.
type ProviderResolver func(ctx context.Context) (llm.Provider, error)

type Server struct {
	router   chi.Router
	store    *sqlite.Store
	builder  *ctxbuilder.Builder
	resolver ProviderResolver
}

// NewServer wires the store, the context builder and the provider
// resolver into the HTTP surface. A nil resolver falls back to
// settings-driven selection against the store.
func NewServer(store *sqlite.Store, resolver ProviderResolver) (*Server, error) {
	logger := common.Logger()
	if store == nil {
		return nil, fmt.Errorf("store required")
	}
	builder, err := ctxbuilder.NewBuilder(store)
	if err != nil {
		return nil, fmt.Errorf("init context builder: %w", err)
	}
	if resolver == nil {
		resolver = func(ctx context.Context) (llm.Provider, error) {
			return llm.ResolveProvider(ctx, store)
		}
	}
	srv := &Server{
		router:   chi.NewRouter(),
		store:    store,
		builder:  builder,
		resolver: resolver,
	}
	srv.routes()
	logger.Info("api: server ready")
	return srv, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	logger := common.Logger()
	s.router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			next.ServeHTTP(w, r)
			logger.Debug("request", "method", r.Method, "path", r.URL.Path, "dur", time.Since(start), "remote", r.RemoteAddr)
		})
	})

	s.router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	s.router.Get("/v1/students", s.handleListStudents)
	s.router.Post("/v1/students", s.handleCreateStudent)
	s.router.Get("/v1/students/{id}", s.handleGetStudent)
	s.router.Put("/v1/students/{id}", s.handleUpdateStudent)
	s.router.Delete("/v1/students/{id}", s.handleDeleteStudent)

	s.router.Get("/v1/plans", s.handleListPlans)
	s.router.Post("/v1/plans", s.handleCreatePlan)
	s.router.Get("/v1/plans/{id}", s.handleGetPlan)
	s.router.Put("/v1/plans/{id}", s.handleUpdatePlan)
	s.router.Delete("/v1/plans/{id}", s.handleDeletePlan)

	s.router.Get("/v1/timeline", s.handleListTimeline)
	s.router.Post("/v1/timeline", s.handleCreateTimelineEntry)
	s.router.Put("/v1/timeline/{id}", s.handleUpdateTimelineEntry)
	s.router.Delete("/v1/timeline/{id}", s.handleDeleteTimelineEntry)

	s.router.Get("/v1/chat", s.handleListChat)
	s.router.Post("/v1/chat", s.handleChatTurn)

	s.router.Get("/v1/settings", s.handleGetSettings)
	s.router.Put("/v1/settings", s.handlePutSetting)

	s.router.Get("/v1/export", s.handleExport)
	s.router.Post("/v1/import", s.handleImport)

	s.router.Get("/v1/logs", s.handleLogs)
	s.router.Handle("/debug/vars", expvar.Handler())
}

func (s *Server) handleLogs(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"logs": common.LogEntries()})
}

func idParam(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id")
	}
	return id, nil
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, err error) {
	logger := common.Logger()
	if status >= http.StatusInternalServerError {
		logger.Error("request failed", "status", status, "error", err)
	} else {
		logger.Warn("request failed", "status", status, "error", err)
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

// writeFieldErrors reports a validation failure as a per-field message
// map under the error key.
func writeFieldErrors(w http.ResponseWriter, fields map[string][]string) {
	writeJSON(w, http.StatusBadRequest, map[string]any{"error": fields})
}
