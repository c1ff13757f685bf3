package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/banger/internal/shared"
)

const shutdownTimeout = 5 * time.Second

// APIOpts contains the dependencies of the HTTP API.
type APIOpts struct {
	Songs       Catalog // source for /api/songs
	Stats       Catalog // source for /api/songs/stats
	Logger      *log.Logger
	Metrics     *Metrics
	CORSOrigins []string
	RateLimit   float64
	RateBurst   int
}

// NewAPI builds the router with every route and middleware registered.
func NewAPI(opts APIOpts) *BasicRouter {
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Metrics == nil {
		opts.Metrics = NewMetrics()
	}
	logger := shared.WithLogger(opts.Logger, "component", "api")

	r := NewBasicRouter()
	r.Use(
		RequestID(),
		Logging(logger),
		Recover(logger),
		CORS(opts.CORSOrigins),
		RateLimit(opts.RateLimit, opts.RateBurst),
	)

	songs := &SongsHandler{catalog: opts.Songs, metrics: opts.Metrics, logger: logger}
	stats := &StatsHandler{catalog: opts.Stats, metrics: opts.Metrics, logger: logger}

	r.Handle(http.MethodGet, "/api/songs", opts.Metrics.Middleware("/api/songs")(songs))
	r.Handle(http.MethodGet, "/api/songs/stats", opts.Metrics.Middleware("/api/songs/stats")(stats))
	r.Handle(http.MethodGet, "/health", http.HandlerFunc(Health))
	r.Handler(opts.Metrics.handler())

	return r
}

// Server runs an [http.Handler] until its context is cancelled.
type Server struct {
	http   *http.Server
	logger *log.Logger
}

// NewServer creates a Server listening on addr.
func NewServer(addr string, handler http.Handler, logger *log.Logger) *Server {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Server{
		http: &http.Server{
			Addr:              addr,
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		},
		logger: logger,
	}
}

// ListenAndServe binds the listener and serves until ctx is done, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.http.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.http.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is done.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", "addr", ln.Addr().String())
		errCh <- s.http.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := s.http.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
