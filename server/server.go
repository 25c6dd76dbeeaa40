package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/jonwraymond/typeahead/health"
	"github.com/jonwraymond/typeahead/observe"
	"github.com/jonwraymond/typeahead/users"
)

// Suggester answers typeahead queries. *search.Service implements it.
type Suggester interface {
	Suggest(ctx context.Context, query string) ([]users.User, error)
	SuggestN(ctx context.Context, query string, limit int) ([]users.User, error)
}

// Config configures a Server. Only Suggester is required.
type Config struct {
	Addr            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration

	Suggester Suggester

	// Stats backs /api/cache/stats; the route is omitted when nil.
	Stats health.StatsSource

	// Health backs the readiness and detailed health routes. Without it
	// only /healthz is served.
	Health *health.Aggregator

	// Metrics is mounted at /metrics when non-nil.
	Metrics http.Handler

	Logger observe.Logger
}

// Server is the typeahead HTTP surface.
type Server struct {
	echo        *echo.Echo
	http        *http.Server
	suggester   Suggester
	statsSource health.StatsSource
	logger      observe.Logger
	shutdown    time.Duration
}

// New builds the routes. The listener is not opened until Start.
func New(cfg Config) (*Server, error) {
	if cfg.Suggester == nil {
		return nil, ErrNilSuggester
	}
	if cfg.Logger == nil {
		cfg.Logger = observe.NopLogger()
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = 10 * time.Second
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = errorHandler(cfg.Logger)

	s := &Server{
		echo:        e,
		suggester:   cfg.Suggester,
		statsSource: cfg.Stats,
		logger:      cfg.Logger,
		shutdown:    cfg.ShutdownTimeout,
	}
	s.http = &http.Server{
		Addr:         cfg.Addr,
		Handler:      e,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	e.Use(requestID(), accessLog(cfg.Logger))

	e.GET("/api/suggest", s.handleSuggest)
	if cfg.Stats != nil {
		e.GET("/api/cache/stats", s.handleStats)
	}

	e.GET("/healthz", echo.WrapHandler(health.LivenessHandler()))
	if cfg.Health != nil {
		e.GET("/readyz", echo.WrapHandler(health.ReadinessHandler(cfg.Health)))
		e.GET("/health", echo.WrapHandler(health.DetailedHandler(cfg.Health)))
		e.GET("/health/:name", func(c echo.Context) error {
			name := c.Param("name")
			h := health.SingleCheckHandler(cfg.Health, func(*http.Request) string { return name })
			h.ServeHTTP(c.Response(), c.Request())
			return nil
		})
	}
	if cfg.Metrics != nil {
		e.GET("/metrics", echo.WrapHandler(cfg.Metrics))
	}

	return s, nil
}

// Handler returns the routed handler, for tests and embedding.
func (s *Server) Handler() http.Handler { return s.echo }

// Start serves on the configured address until Shutdown. It returns nil
// after a clean shutdown.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.http.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ln)
}

// Serve serves on ln until Shutdown.
func (s *Server) Serve(ln net.Listener) error {
	s.logger.Info(context.Background(), "http server listening",
		observe.Field{Key: "addr", Value: ln.Addr().String()},
	)
	if err := s.http.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting connections and waits for in-flight requests,
// bounded by the configured shutdown timeout and ctx.
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.shutdown)
	defer cancel()

	s.logger.Info(ctx, "http server shutting down")
	return s.http.Shutdown(ctx)
}
