// Package server provides the HTTP surface of the catalog proxy: the
// retrieval endpoint, liveness and metrics.
package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/keno-tools/catalog-proxy/internal/config"
	"github.com/keno-tools/catalog-proxy/pkg/catalog"
	"github.com/keno-tools/catalog-proxy/pkg/logging"
)

// Data source values for the X-Data-Source response header.
const (
	sourceCache    = "cache"
	sourceUpstream = "upstream"
)

// Server wires the resolver and pipeline behind the HTTP routes.
type Server struct {
	cfg      *config.Config
	resolver *catalog.Resolver
	pipeline *catalog.Pipeline
	spec     catalog.MatchSpec
	logger   zerolog.Logger
}

// New creates the HTTP server layer.
func New(cfg *config.Config, resolver *catalog.Resolver, pipeline *catalog.Pipeline, spec catalog.MatchSpec) *Server {
	return &Server{
		cfg:      cfg,
		resolver: resolver,
		pipeline: pipeline,
		spec:     spec,
		logger:   logging.NewLogger("server"),
	}
}

// Router builds the chi router. Non-GET requests on registered routes get
// chi's 405 with the Allow header.
func (s *Server) Router() *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.accessLog)

	r.Get("/healthz", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())
	r.Get("/api/products", s.handleProducts)

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// handleProducts is the retrieval entry point. The optional mode=categories
// flag switches to the diagnostic flattened-tree view.
func (s *Server) handleProducts(w http.ResponseWriter, r *http.Request) {
	// Precondition: the vendor credential must be configured. Checked here,
	// before any upstream work, so the failure surfaces as a server-side
	// configuration error.
	if s.cfg.APIKey == "" {
		s.logger.Error().Msg("Missing KENO_API_KEY")
		s.writeError(w, http.StatusInternalServerError, "Missing KENO_API_KEY env var")
		return
	}

	switch mode := r.URL.Query().Get("mode"); mode {
	case "", "products":
		s.serveProducts(w, r)
	case "categories":
		s.serveCategories(w, r)
	default:
		s.writeError(w, http.StatusBadRequest, "unknown mode: "+mode)
	}
}

func (s *Server) serveProducts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	ids, err := s.resolver.Resolve(ctx, s.spec)
	if err != nil {
		s.upstreamError(w, err)
		return
	}

	payload, cached, err := s.pipeline.Products(ctx, ids)
	if err != nil {
		s.upstreamError(w, err)
		return
	}

	source := sourceUpstream
	if cached {
		source = sourceCache
	}
	w.Header().Set("X-Data-Source", source)

	// Summarize walks every kept row, so gate it on the log level.
	if zerolog.GlobalLevel() <= zerolog.DebugLevel {
		s.logger.Debug().
			Str("source", source).
			Int("kept", len(payload.ProductsBase)).
			Interface("by_category", catalog.Summarize(payload.ProductsBase)).
			Msg("Serving products")
	}

	s.writeJSON(w, http.StatusOK, payload)
}

func (s *Server) serveCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := s.resolver.Categories(r.Context())
	if err != nil {
		s.upstreamError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]any{
		"categories": categories,
	})
}

// upstreamError reports any vendor failure, transport or application, as a
// gateway-style 502 carrying the underlying message.
func (s *Server) upstreamError(w http.ResponseWriter, err error) {
	s.logger.Error().Err(err).Msg("Upstream unavailable")
	s.writeError(w, http.StatusBadGateway, err.Error())
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error().Err(err).Msg("Failed to write response")
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, map[string]string{"error": msg})
}

// accessLog logs one line per handled request.
func (s *Server) accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, r)

		s.logger.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("duration", time.Since(start)).
			Str("request_id", middleware.GetReqID(r.Context())).
			Msg("Request handled")
	})
}
