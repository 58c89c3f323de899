// Package http exposes the resolve pipeline over HTTP along with health
// checks and Prometheus metrics.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"playlink/internal/core"
	"playlink/internal/store"
	"playlink/pkg/duration"
)

type Server struct {
	config   *core.ServerConfig
	logger   *zap.Logger
	server   *http.Server
	metrics  *Metrics
	builder  *core.Builder
	resolver *core.Resolver
	cache    *store.TrackCache
	seen     *store.SeenStore
}

type Metrics struct {
	ResolutionsTotal *prometheus.CounterVec
	ResolveDuration  prometheus.Histogram
	CacheHitsTotal   prometheus.Counter
	UniqueTracks     prometheus.Gauge
}

func newMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		ResolutionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "playlink_resolutions_total",
				Help: "Total number of track resolutions",
			},
			[]string{"status"},
		),
		ResolveDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "playlink_resolve_duration_seconds",
				Help:    "Time spent resolving tracks",
				Buckets: prometheus.DefBuckets,
			},
		),
		CacheHitsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "playlink_track_cache_hits_total",
				Help: "Total number of resolutions served from the track cache",
			},
		),
		UniqueTracks: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "playlink_unique_tracks",
				Help: "Number of distinct tracks resolved so far",
			},
		),
	}

	reg.MustRegister(
		m.ResolutionsTotal,
		m.ResolveDuration,
		m.CacheHitsTotal,
		m.UniqueTracks,
	)
	return m
}

// NewServer wires the resolve pipeline behind an HTTP mux. cache and seen
// may be nil; the corresponding steps are skipped.
func NewServer(
	config *core.ServerConfig,
	builder *core.Builder,
	resolver *core.Resolver,
	cache *store.TrackCache,
	seen *store.SeenStore,
	reg prometheus.Registerer,
	logger *zap.Logger,
) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	s := &Server{
		config:   config,
		logger:   logger,
		metrics:  newMetrics(reg),
		builder:  builder,
		resolver: resolver,
		cache:    cache,
		seen:     seen,
	}
	s.server = createHTTPServer(config, s.routes())
	return s
}

func createHTTPServer(config *core.ServerConfig, mux *http.ServeMux) *http.Server {
	return &http.Server{
		Addr:         fmt.Sprintf("%s:%d", config.Host, config.Port),
		Handler:      mux,
		ReadTimeout:  config.ReadTimeout,
		WriteTimeout: config.WriteTimeout,
	}
}

func (s *Server) routes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "service": "playlink"})
	})

	mux.HandleFunc("/readyz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready", "service": "playlink"})
	})

	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/resolve", s.handleResolve)

	return mux
}

type resolveResponse struct {
	Track        string `json:"track"`
	Title        string `json:"title"`
	Author       string `json:"author,omitempty"`
	Duration     int64  `json:"duration"`
	DurationText string `json:"durationText"`
	URI          string `json:"uri,omitempty"`
	Thumbnail    string `json:"thumbnail,omitempty"`
	Cached       bool   `json:"cached"`
}

// handleResolve runs the full pipeline for a one-shot query: build an
// unresolved track, consult the persistent cache, resolve against the
// search provider, and render the result with a display duration.
func (s *Server) handleResolve(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("query")
	if query == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "query parameter is required"})
		return
	}

	q := core.UnresolvedQuery{
		Title:  query,
		Author: r.URL.Query().Get("author"),
	}
	if text := r.URL.Query().Get("duration"); text != "" {
		if ms, ok := duration.Parse(text); ok {
			q.Duration = ms
		}
	}

	track, cached, err := s.resolveQuery(r.Context(), q)
	if err != nil {
		s.metrics.ResolutionsTotal.WithLabelValues("error").Inc()

		var searchErr *core.SearchError
		if errors.As(err, &searchErr) {
			writeJSON(w, http.StatusNotFound, map[string]string{
				"error":    searchErr.Message,
				"severity": string(searchErr.Severity),
			})
			return
		}
		s.logger.Error("resolve failed", zap.String("query", query), zap.Error(err))
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": "resolution failed"})
		return
	}

	s.metrics.ResolutionsTotal.WithLabelValues("ok").Inc()
	if s.seen != nil {
		s.seen.Mark(track.Identifier())
		s.metrics.UniqueTracks.Set(float64(s.seen.Size()))
	}

	text, err := duration.Format(track.Duration(), false)
	if err != nil {
		text = "N/A"
	}
	writeJSON(w, http.StatusOK, resolveResponse{
		Track:        track.Encoded(),
		Title:        track.Title(),
		Author:       track.Author(),
		Duration:     track.Duration(),
		DurationText: text,
		URI:          track.URI(),
		Thumbnail:    track.Thumbnail(),
		Cached:       cached,
	})
}

func (s *Server) resolveQuery(ctx context.Context, q core.UnresolvedQuery) (*core.Track, bool, error) {
	cacheKey := q.Title
	if q.Author != "" {
		cacheKey = q.Author + " - " + q.Title
	}

	if s.cache != nil {
		raw, ok, err := s.cache.Get(ctx, cacheKey)
		if err != nil {
			s.logger.Warn("track cache read failed", zap.Error(err))
		} else if ok {
			s.metrics.CacheHitsTotal.Inc()
			track, err := s.builder.Build(raw, nil)
			if err == nil {
				return track, true, nil
			}
			s.logger.Warn("cached track no longer buildable", zap.Error(err))
		}
	}

	unresolved, err := s.builder.BuildUnresolved(q, nil)
	if err != nil {
		return nil, false, err
	}

	start := time.Now()
	track, err := s.resolver.Resolve(ctx, unresolved)
	s.metrics.ResolveDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, false, err
	}

	if s.cache != nil {
		raw := &core.RawTrack{
			Track: track.Encoded(),
			Info: core.RawTrackInfo{
				Title:      track.Title(),
				Identifier: track.Identifier(),
				Author:     track.Author(),
				Length:     track.Duration(),
				IsSeekable: track.IsSeekable(),
				IsStream:   track.IsStream(),
				URI:        track.URI(),
			},
		}
		if err := s.cache.Put(ctx, cacheKey, raw); err != nil {
			s.logger.Warn("track cache write failed", zap.Error(err))
		}
	}

	return track, false, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	s.logger.Info("starting HTTP server", zap.String("addr", s.server.Addr))

	go func() {
		<-ctx.Done()
		s.logger.Info("shutting down HTTP server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := s.server.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("failed to shut down HTTP server gracefully", zap.Error(err))
		}
	}()

	if err := s.server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("HTTP server failed: %w", err)
	}
	return nil
}

// SetUniqueTracks updates the unique-tracks gauge.
func (s *Server) SetUniqueTracks(n int) {
	s.metrics.UniqueTracks.Set(float64(n))
}
