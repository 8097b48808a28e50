package devtools

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ripple-ui/ripple/pkg/reactive"
)

// ServerConfig configures the inspector server.
type ServerConfig struct {
	// Addr is the listen address (default: "127.0.0.1:9321").
	Addr string

	// RingSize is the number of recent events retained for the /graph
	// snapshot (default: 512).
	RingSize int

	// Logger receives server logs (default: slog.Default()).
	Logger *slog.Logger

	// Metrics, when set, also receives every observed event.
	Metrics *Metrics

	// Tracer, when set, also receives every observed event.
	Tracer *Tracer
}

// ServerOption configures the inspector server.
type ServerOption func(*ServerConfig)

// WithAddr sets the listen address.
func WithAddr(addr string) ServerOption {
	return func(c *ServerConfig) {
		c.Addr = addr
	}
}

// WithRingSize sets how many recent events the snapshot retains.
func WithRingSize(n int) ServerOption {
	return func(c *ServerConfig) {
		c.RingSize = n
	}
}

// WithLogger sets the server logger.
func WithLogger(logger *slog.Logger) ServerOption {
	return func(c *ServerConfig) {
		c.Logger = logger
	}
}

// WithMetrics attaches a Metrics observer to the server's event fanout.
func WithMetrics(m *Metrics) ServerOption {
	return func(c *ServerConfig) {
		c.Metrics = m
	}
}

// WithTracer attaches a Tracer observer to the server's event fanout.
func WithTracer(t *Tracer) ServerOption {
	return func(c *ServerConfig) {
		c.Tracer = t
	}
}

func defaultServerConfig() ServerConfig {
	return ServerConfig{
		Addr:     "127.0.0.1:9321",
		RingSize: 512,
		Logger:   slog.Default(),
	}
}

// eventRecord is the JSON form of an engine event.
type eventRecord struct {
	Kind     string `json:"kind"`
	Target   uint64 `json:"target,omitempty"`
	Key      string `json:"key,omitempty"`
	Effect   uint64 `json:"effect,omitempty"`
	Duration int64  `json:"duration_ns,omitempty"`
	At       int64  `json:"at_unix_ns"`
}

// Server is the devtools inspector: it records recent engine events,
// serves a JSON snapshot, exposes Prometheus metrics, and streams live
// events to WebSocket clients.
type Server struct {
	config ServerConfig
	logger *slog.Logger

	mu     sync.Mutex
	ring   []eventRecord
	counts map[string]uint64

	hub *hub
}

// NewServer creates an inspector server. Install its Observer on the
// engine to start recording:
//
//	srv := devtools.NewServer(devtools.WithAddr(":9321"))
//	reactive.SetObserver(srv.Observer())
func NewServer(opts ...ServerOption) *Server {
	config := defaultServerConfig()
	for _, opt := range opts {
		opt(&config)
	}

	return &Server{
		config: config,
		logger: config.Logger,
		counts: make(map[string]uint64),
		hub:    newHub(config.Logger),
	}
}

// Observer returns the fanout observer feeding this server, its ring
// buffer, its WebSocket hub, and any attached Metrics/Tracer. The
// observer runs on the engine's hot path: everything it does is
// non-blocking (slow WebSocket clients are dropped, not waited on).
func (s *Server) Observer() reactive.Observer {
	return func(ev reactive.Event) {
		if s.config.Metrics != nil {
			s.config.Metrics.Observe(ev)
		}
		if s.config.Tracer != nil {
			s.config.Tracer.Observe(ev)
		}

		rec := eventRecord{
			Kind:     ev.Kind.String(),
			Target:   ev.Target,
			Key:      ev.Key,
			Effect:   ev.Effect,
			Duration: ev.Duration.Nanoseconds(),
			At:       time.Now().UnixNano(),
		}

		s.mu.Lock()
		s.counts[rec.Kind]++
		s.ring = append(s.ring, rec)
		if len(s.ring) > s.config.RingSize {
			s.ring = s.ring[len(s.ring)-s.config.RingSize:]
		}
		s.mu.Unlock()

		s.hub.broadcast(rec)
	}
}

// Handler returns the inspector's HTTP handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Get("/graph", s.handleGraph)
	r.Get("/events", s.handleEvents)
	r.Handle("/metrics", promhttp.Handler())

	return r
}

// ListenAndServe runs the inspector until ctx is canceled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.config.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("inspector shutdown", "error", err)
		}
	}()

	s.logger.Info("inspector listening", "addr", s.config.Addr)

	err := srv.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// handleGraph serves a JSON snapshot: per-kind counters plus the recent
// event ring.
func (s *Server) handleGraph(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	snapshot := struct {
		Counts map[string]uint64 `json:"counts"`
		Recent []eventRecord     `json:"recent"`
	}{
		Counts: make(map[string]uint64, len(s.counts)),
		Recent: make([]eventRecord, len(s.ring)),
	}
	for k, v := range s.counts {
		snapshot.Counts[k] = v
	}
	copy(snapshot.Recent, s.ring)
	s.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(snapshot); err != nil {
		s.logger.Error("graph encode", "error", err)
	}
}

// handleEvents upgrades to WebSocket and streams live events.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	s.hub.serve(w, r)
}
