package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/yigit/sis/internal/bootstrap"
	"github.com/yigit/sis/internal/config"
)

const shutdownTimeout = 10 * time.Second

// Server owns the API listener and the database pool it closes on shutdown.
type Server struct {
	config *config.Config
	dbPool *pgxpool.Pool
	logger zerolog.Logger
	http   *http.Server
}

// NewServer loads configuration, prepares the database (migrations and the
// bootstrap admin) and builds the API.
func NewServer() (*Server, error) {
	cfg, lgr, err := bootstrap.LoadConfigAndSetupLogger()
	if err != nil {
		return nil, fmt.Errorf("failed to load config or setup logger: %w", err)
	}

	dbPool, err := bootstrap.SetupDatabase(cfg, lgr)
	if err != nil {
		return nil, fmt.Errorf("failed to setup database: %w", err)
	}

	s, err := New(cfg, dbPool, lgr)
	if err != nil {
		dbPool.Close()
		return nil, err
	}
	return s, nil
}

// New wires the API onto an already prepared pool.
func New(cfg *config.Config, dbPool *pgxpool.Pool, lgr zerolog.Logger) (*Server, error) {
	deps, err := bootstrap.BuildDependencies(cfg, dbPool, lgr)
	if err != nil {
		return nil, fmt.Errorf("failed to setup dependencies: %w", err)
	}

	lgr.Info().
		Str("mode", cfg.Server.Mode).
		Str("bootstrapAdmin", cfg.Bootstrap.AdminAccountNo).
		Strs("corsOrigins", cfg.AllowedOrigins()).
		Dur("accessTokenTTL", cfg.AccessTokenTTL()).
		Msg("Student information API configured")

	return &Server{
		config: cfg,
		dbPool: dbPool,
		logger: lgr,
		http: &http.Server{
			Addr:         ":" + cfg.Server.Port,
			Handler:      bootstrap.SetupRouter(cfg, deps, lgr),
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  120 * time.Second,
		},
	}, nil
}

// Run listens on the configured port until SIGINT or SIGTERM.
func (s *Server) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	ln, err := net.Listen("tcp", s.http.Addr)
	if err != nil {
		s.dbPool.Close()
		return fmt.Errorf("error starting server: %w", err)
	}
	return s.Serve(ctx, ln)
}

// Serve answers requests on ln until ctx is done, then shuts down.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", ln.Addr().String()).Msg("HTTP server listening")
		serverErrors <- s.http.Serve(ln)
	}()

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			s.dbPool.Close()
			return fmt.Errorf("error serving: %w", err)
		}
	case <-ctx.Done():
		s.logger.Info().Msg("Shutdown requested")
	}

	return s.Shutdown(context.Background())
}

// Shutdown drains in-flight requests and closes the pool.
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()

	var shutdownErr error
	if err := s.http.Shutdown(ctx); err != nil {
		s.logger.Error().Err(err).Msg("HTTP server shutdown error")
		shutdownErr = fmt.Errorf("http shutdown: %w", err)
	} else {
		s.logger.Info().Msg("HTTP server stopped")
	}

	s.dbPool.Close()
	s.logger.Info().Msg("Database connection pool closed")
	return shutdownErr
}
