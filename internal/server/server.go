// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package server serves clock frames over HTTP.
//
// Endpoints:
//   - /           : page showing the PNG clock, reloaded once a second
//   - /clock.png  : current frame as PNG, ?size=WxH
//   - /clock.svg  : current frame as SVG, ?size=WxH
//   - /healthz    : liveness, with NTP state when an NTP clock is used
//   - /metrics    : Prometheus metrics
//
// One Renderer is kept per requested size in an LRU cache holding at most
// server.cache_size renderers. A Renderer is not safe for concurrent use, so
// each cache entry carries its own mutex; the frame is built under the lock
// and encoded outside it. At most server.max_concurrent frame requests run
// at once; others queue until the handler timeout.
package server

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"image"
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gogpu/gg"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/gogpu/reverseclock"
	"github.com/gogpu/reverseclock/backend/raster"
	"github.com/gogpu/reverseclock/backend/svg"
	"github.com/gogpu/reverseclock/clocksource"
	"github.com/gogpu/reverseclock/internal/config"
	"github.com/gogpu/reverseclock/internal/metrics"
)

//go:embed templates/index.html
var indexTemplate string

var indexTmpl = template.Must(template.New("index").Parse(indexTemplate))

// HTTP server timeouts not covered by the configuration.
const (
	DefaultIdleTimeout    = 60 * time.Second
	DefaultHandlerTimeout = 15 * time.Second
	refreshInterval       = time.Second

	// throttleBacklogFactor sizes the queue of frame requests waiting for a
	// render slot, as a multiple of server.max_concurrent.
	throttleBacklogFactor = 4
)

// indexPageData holds template data for the index page.
type indexPageData struct {
	Size          string
	Width, Height int
	Background    template.CSS
	RefreshMillis int64
}

// Option configures a Server.
type Option func(*Server)

// WithImage sets the decorative image drawn on every clock.
func WithImage(img image.Image) Option {
	return func(s *Server) { s.image = img }
}

// WithClock sets the time source.
func WithClock(c reverseclock.Clock) Option {
	return func(s *Server) {
		if c != nil {
			s.clock = c
		}
	}
}

// WithNTP reports the state of an NTP clock on /healthz and in metrics.
func WithNTP(n *clocksource.NTP) Option {
	return func(s *Server) { s.ntp = n }
}

// WithMetrics records renderer and request metrics into m and serves
// gatherer on /metrics.
func WithMetrics(m *metrics.Metrics, gatherer prometheus.Gatherer) Option {
	return func(s *Server) {
		s.metrics = m
		s.gatherer = gatherer
	}
}

// WithLogger sets the request and error logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// Server is the clock HTTP server.
type Server struct {
	cfg      *config.Config
	server   *http.Server
	image    image.Image
	clock    reverseclock.Clock
	ntp      *clocksource.NTP
	metrics  *metrics.Metrics
	gatherer prometheus.Gatherer
	logger   *slog.Logger

	defaultW, defaultH int
	renderers          *lru.Cache[string, *rendererEntry]
}

type rendererEntry struct {
	mu       sync.Mutex
	renderer *reverseclock.Renderer
}

// New creates a server for cfg. The configuration must have been
// validated.
func New(cfg *config.Config, opts ...Option) (*Server, error) {
	w, h, err := reverseclock.ParseSize(cfg.Size)
	if err != nil {
		return nil, fmt.Errorf("server: default size: %w", err)
	}

	renderers, err := lru.New[string, *rendererEntry](cfg.Server.CacheSize)
	if err != nil {
		return nil, fmt.Errorf("server: renderer cache: %w", err)
	}

	s := &Server{
		cfg:       cfg,
		clock:     reverseclock.SystemClock,
		logger:    slog.New(slog.DiscardHandler),
		gatherer:  prometheus.DefaultGatherer,
		defaultW:  w,
		defaultH:  h,
		renderers: renderers,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.server = &http.Server{
		Addr:         cfg.Server.Listen,
		Handler:      s.Routes(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  DefaultIdleTimeout,
	}
	return s, nil
}

// Routes returns the HTTP handler.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.RequestLogger(&middleware.DefaultLogFormatter{
		Logger:  slog.NewLogLogger(s.logger.Handler(), slog.LevelDebug),
		NoColor: true,
	}))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(DefaultHandlerTimeout))

	r.Group(func(r chi.Router) {
		limit := max(s.cfg.Server.MaxConcurrent, 1)
		r.Use(middleware.ThrottleBacklog(limit, limit*throttleBacklogFactor, DefaultHandlerTimeout))
		r.Get("/clock.png", s.handleClock("png"))
		r.Get("/clock.svg", s.handleClock("svg"))
	})
	r.Get("/", s.handleIndex)
	r.Get("/healthz", s.handleHealth)
	r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	return r
}

// Start listens and serves until Shutdown.
func (s *Server) Start() error {
	s.logger.Info("Starting HTTP server", "address", s.server.Addr)
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server")
	return s.server.Shutdown(ctx)
}

// renderer returns the cached renderer for a size, creating it on first use.
// Two requests racing on a new size may both build a renderer; the first one
// stored wins.
func (s *Server) renderer(width, height int) *rendererEntry {
	key := strconv.Itoa(width) + "x" + strconv.Itoa(height)
	if e, ok := s.renderers.Get(key); ok {
		return e
	}

	opts := []reverseclock.Option{
		reverseclock.WithClock(s.clock),
		reverseclock.WithImage(s.image),
	}
	if s.cfg.ImageRotation != nil {
		opts = append(opts, reverseclock.WithImageRotation(*s.cfg.ImageRotation))
	}
	if s.metrics != nil {
		opts = append(opts, reverseclock.WithObserver(s.metrics))
	}
	r := reverseclock.NewRenderer(opts...)
	r.SetSize(width, height)

	e := &rendererEntry{renderer: r}
	if prev, ok, _ := s.renderers.PeekOrAdd(key, e); ok {
		return prev
	}
	return e
}

// frameSize reads ?size=WxH, falling back to the configured size.
func (s *Server) frameSize(r *http.Request) (width, height int, err error) {
	q := r.URL.Query().Get("size")
	if q == "" {
		return s.defaultW, s.defaultH, nil
	}
	width, height, err = reverseclock.ParseSize(q)
	if err != nil {
		return 0, 0, err
	}
	if limit := s.cfg.Server.MaxSide; width > limit || height > limit {
		return 0, 0, fmt.Errorf("%w: %dx%d exceeds %d", reverseclock.ErrInvalidSize, width, height, limit)
	}
	return width, height, nil
}

func (s *Server) handleClock(format string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		width, height, err := s.frameSize(r)
		if err != nil {
			s.requestError("bad_size")
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		entry := s.renderer(width, height)
		entry.mu.Lock()
		frame := entry.renderer.Render()
		entry.mu.Unlock()

		var (
			backend     reverseclock.WriterBackend
			contentType string
		)
		switch format {
		case "svg":
			backend, contentType = svg.NewBackend(), "image/svg+xml"
		default:
			backend, contentType = raster.NewBackend(), "image/png"
		}

		start := time.Now()
		if err := frame.Playback(backend); err != nil {
			s.requestError("render")
			s.logger.Error("Failed to render frame", "format", format, "error", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
		if s.metrics != nil {
			s.metrics.ObserveEncode(format, time.Since(start))
		}

		w.Header().Set("Content-Type", contentType)
		w.Header().Set("Cache-Control", "no-store")
		if _, err := backend.WriteTo(w); err != nil {
			s.logger.Debug("Failed to write frame", "format", format, "error", err)
		}
	}
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	width, height, err := s.frameSize(r)
	if err != nil {
		s.requestError("bad_size")
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	theme := reverseclock.ThemeFor(reverseclock.SampleTime(s.clock.Now()))

	data := indexPageData{
		Size:          strconv.Itoa(width) + "x" + strconv.Itoa(height),
		Width:         width,
		Height:        height,
		Background:    template.CSS(hexColor(theme.Background)),
		RefreshMillis: refreshInterval.Milliseconds(),
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := indexTmpl.Execute(w, data); err != nil {
		s.logger.Error("Failed to render index template", "error", err)
	}
}

// healthResponse is the /healthz body.
type healthResponse struct {
	Status string              `json:"status"`
	Time   time.Time           `json:"time"`
	NTP    *clocksource.Health `json:"ntp,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	resp := healthResponse{Status: "ok", Time: s.clock.Now()}
	if s.ntp != nil {
		h := s.ntp.Health()
		resp.NTP = &h
		if !h.Healthy {
			resp.Status = "degraded"
		}
		if s.metrics != nil {
			s.metrics.SetNTP(h.Offset, h.Healthy)
		}
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		s.logger.Debug("Failed to write health response", "error", err)
	}
}

func (s *Server) requestError(reason string) {
	if s.metrics != nil {
		s.metrics.RequestError(reason)
	}
}

func hexColor(c gg.RGBA) string {
	ch := func(v float64) int { return int(min(max(v, 0), 1)*255 + 0.5) }
	return fmt.Sprintf("#%02x%02x%02x", ch(c.R), ch(c.G), ch(c.B))
}
