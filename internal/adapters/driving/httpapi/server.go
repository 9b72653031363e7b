package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/custodia-labs/digest/internal/core/domain"
	"github.com/custodia-labs/digest/internal/logger"
)

// Default server settings.
const (
	DefaultAddr           = "127.0.0.1:8000"
	DefaultRequestTimeout = 5 * time.Minute

	// maxUploadMemory bounds the in-memory part of a multipart upload.
	maxUploadMemory = 8 << 20
)

// Server serves the pipeline over HTTP.
type Server struct {
	ports   *Ports
	router  chi.Router
	timeout time.Duration
	mounts  map[string]http.Handler
}

// Option configures a Server.
type Option func(*Server)

// WithRequestTimeout bounds every request. Zero disables the bound.
func WithRequestTimeout(d time.Duration) Option {
	return func(s *Server) {
		s.timeout = d
	}
}

// WithMount mounts an extra handler, such as the MCP streamable handler.
func WithMount(pattern string, h http.Handler) Option {
	return func(s *Server) {
		s.mounts[pattern] = h
	}
}

// NewServer builds the router for ports.
func NewServer(ports *Ports, opts ...Option) (*Server, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("validating ports: %w", err)
	}

	s := &Server{
		ports:   ports,
		router:  chi.NewRouter(),
		timeout: DefaultRequestTimeout,
		mounts:  make(map[string]http.Handler),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.routes()
	return s, nil
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run listens on addr until ctx is cancelled.
func (s *Server) Run(ctx context.Context, addr string) error {
	if addr == "" {
		addr = DefaultAddr
	}
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		httpServer.Shutdown(shutdownCtx) //nolint:errcheck
	}()

	logger.Debug("HTTP API listening on %s", addr)
	err := httpServer.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (s *Server) routes() {
	r := s.router
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger)

	r.Get("/health", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		if s.timeout > 0 {
			r.Use(middleware.Timeout(s.timeout))
		}

		r.Route("/documents", func(r chi.Router) {
			r.Post("/", s.handleUpload)
			r.Get("/{id}", s.handleGetDocument)
			r.Get("/{id}/stages", s.handleStages)
			r.Delete("/{id}", s.handleDeleteDocument)
		})

		r.Route("/clean", func(r chi.Router) {
			r.Post("/text/{id}", s.handleClean)
			r.Get("/text/{id}", s.handleGetCleaned)
			r.Post("/preview/{id}", s.handlePreview)
		})

		r.Route("/summarize", func(r chi.Router) {
			r.Post("/extractive/{id}", s.handleExtractive)
			r.Post("/abstractive/{id}", s.handleAbstractive)
			r.Post("/hybrid/{id}", s.handleHybrid)
			r.Post("/formatted-hybrid/{id}", s.handleFormattedHybrid)
			r.Get("/summary/{id}", s.handleGetSummary)
		})

		r.Route("/translate", func(r chi.Router) {
			r.Post("/summary/{id}", s.handleTranslate)
			r.Get("/summary/{id}", s.handleGetTranslation)
			r.Get("/languages", s.handleLanguages)
		})
	})

	for pattern, h := range s.mounts {
		r.Mount(pattern, h)
	}
}

// requestLogger logs each request at debug level through the zap facade.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		logger.Debug("%s %s %d %s [%s]", r.Method, r.URL.Path, ww.Status(),
			time.Since(start).Round(time.Millisecond), middleware.GetReqID(r.Context()))
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":         "ok",
		"llm_configured": s.ports.LLMAvailable,
		"languages":      domain.SupportedLanguages(),
	})
}
