package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	appcompliance "github.com/bryanwahyu/compliance-view/internal/application/compliance"
	domain "github.com/bryanwahyu/compliance-view/internal/domain/compliance"
	"github.com/bryanwahyu/compliance-view/internal/infra/render"
	"github.com/bryanwahyu/compliance-view/internal/middleware"
)

type Options struct {
	View           *appcompliance.View
	Metrics        *middleware.Metrics
	Health         map[string]middleware.HealthChecker
	RateLimiter    *middleware.RateLimiter
	AllowedOrigins []string
	// RenderWait bounds the wait for the query; 0 waits until it resolves
	// or the client goes away. Pages rendered on timeout show placeholders.
	RenderWait time.Duration
	Logger     zerolog.Logger
}

type Router struct {
	view       *appcompliance.View
	renderWait time.Duration
}

func NewRouter(opts Options) http.Handler {
	r := &Router{view: opts.View, renderWait: opts.RenderWait}
	mux := chi.NewRouter()

	mux.Use(chimw.RequestID)
	mux.Use(middleware.Logging(opts.Logger))
	mux.Use(chimw.Recoverer)
	if opts.Metrics != nil {
		mux.Use(opts.Metrics.Middleware)
	}
	mux.Use(cors.Handler(cors.Options{
		AllowedOrigins: opts.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		MaxAge:         300,
	}))
	mux.Use(middleware.RateLimit(opts.RateLimiter))

	mux.Get("/health", middleware.HealthHandler(opts.Health))
	mux.Get("/ready", middleware.ReadinessHandler)
	mux.Get("/live", middleware.LivenessHandler)
	if opts.Metrics != nil {
		mux.Method(http.MethodGet, "/metrics", opts.Metrics.Handler())
	}

	mux.Route("/systems", func(rt chi.Router) {
		rt.Get("/compliance", r.wrap(r.handlePage))
		rt.Get("/{inventoryId}/compliance", r.wrap(r.handlePage))
	})
	mux.Route("/api/v1/systems", func(rt chi.Router) {
		rt.Get("/compliance", r.wrap(r.handleJSON))
		rt.Get("/{inventoryId}/compliance", r.wrap(r.handleJSON))
	})

	return mux
}

type handlerFunc func(http.ResponseWriter, *http.Request) error

func (r *Router) wrap(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		if err := h(w, req); err != nil {
			zerolog.Ctx(req.Context()).Error().Err(err).Msg("render failed")
			http.Error(w, "internal error", http.StatusInternalServerError)
		}
	}
}

// GET /systems/{inventoryId}/compliance
func (r *Router) handlePage(w http.ResponseWriter, req *http.Request) error {
	systemID := chi.URLParam(req, "inventoryId")
	st := r.resolve(req.Context(), systemID)

	var buf bytes.Buffer
	if err := render.HTML(&buf, systemID, st); err != nil {
		return err
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(statusFor(st))
	_, err := buf.WriteTo(w)
	return err
}

// GET /api/v1/systems/{inventoryId}/compliance
func (r *Router) handleJSON(w http.ResponseWriter, req *http.Request) error {
	systemID := chi.URLParam(req, "inventoryId")
	st := r.resolve(req.Context(), systemID)

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(render.JSON(systemID, st)); err != nil {
		return err
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusFor(st))
	_, err := buf.WriteTo(w)
	return err
}

// resolve mounts the view for one request and always unmounts it.
func (r *Router) resolve(ctx context.Context, systemID string) domain.State {
	s := r.view.Mount(ctx, systemID)
	defer func() {
		if err := s.Close(ctx); err != nil {
			zerolog.Ctx(ctx).Warn().Err(err).Str("session", s.ID()).Msg("store clear on unmount failed")
		}
	}()

	waitCtx := ctx
	if r.renderWait > 0 {
		var cancel context.CancelFunc
		waitCtx, cancel = context.WithTimeout(ctx, r.renderWait)
		defer cancel()
	}
	st := s.Wait(waitCtx)
	if !domain.Resolved(st) {
		zerolog.Ctx(ctx).Debug().Str("session", s.ID()).Msg("render wait elapsed, rendering placeholders")
	}
	return st
}

// statusFor maps a failed query to 502. Any other failure is ours.
func statusFor(st domain.State) int {
	failed, ok := st.(domain.Failed)
	switch {
	case !ok:
		return http.StatusOK
	case errors.Is(failed.Err, domain.ErrQueryFailed):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
