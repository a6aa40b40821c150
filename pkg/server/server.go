package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"

	"github.com/SoftwareEngineering-E-Complish/service-manager/pkg/config"
	"github.com/SoftwareEngineering-E-Complish/service-manager/pkg/geocode"
	"github.com/SoftwareEngineering-E-Complish/service-manager/pkg/pipeline/listing"
	"github.com/SoftwareEngineering-E-Complish/service-manager/pkg/pipeline/query"
	"github.com/SoftwareEngineering-E-Complish/service-manager/pkg/proxy"
	"github.com/SoftwareEngineering-E-Complish/service-manager/pkg/proxy/handlers"
	"github.com/SoftwareEngineering-E-Complish/service-manager/pkg/proxy/middleware"
	"github.com/SoftwareEngineering-E-Complish/service-manager/pkg/security/auth"
	"github.com/SoftwareEngineering-E-Complish/service-manager/pkg/security/secrets"
	sectls "github.com/SoftwareEngineering-E-Complish/service-manager/pkg/security/tls"
	"github.com/SoftwareEngineering-E-Complish/service-manager/pkg/telemetry/health"
	"github.com/SoftwareEngineering-E-Complish/service-manager/pkg/telemetry/metrics"
	"github.com/SoftwareEngineering-E-Complish/service-manager/pkg/telemetry/tracing"
	"github.com/SoftwareEngineering-E-Complish/service-manager/pkg/upstream"
)

// BuildInfo identifies the running binary on the version endpoint.
type BuildInfo struct {
	Version   string
	Commit    string
	BuildTime string
}

// Server is the gateway HTTP server.
type Server struct {
	cfg  *config.Config
	info BuildInfo

	metrics *metrics.Collector
	tracer  *tracing.Tracer
	secrets *secrets.Manager
	health  *health.Checker

	engine         *proxy.Engine
	queryHandler   http.Handler
	listingHandler http.Handler
	handler        http.Handler

	httpServer   *http.Server
	shutdownOnce sync.Once
	mu           sync.RWMutex
	isRunning    bool
}

// New wires every gateway component from cfg. cfg must already be
// validated. Close releases the tracer and secret watchers when New
// succeeded but Start is never called.
func New(cfg *config.Config, info BuildInfo) (*Server, error) {
	s := &Server{cfg: cfg, info: info}

	s.metrics = metrics.NewCollector(cfg.Telemetry.Metrics, nil)

	tracer, err := tracing.New(cfg.Telemetry.Tracing, info.Version)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize tracing: %w", err)
	}
	s.tracer = tracer

	secretManager, err := secrets.NewManagerFromConfig(cfg.Security.Secrets)
	if err != nil {
		_ = tracer.Shutdown(context.Background())
		return nil, fmt.Errorf("failed to initialize secrets: %w", err)
	}
	s.secrets = secretManager

	client := upstream.NewClient(upstream.Options{
		Timeout:             cfg.Backends.Timeout,
		MaxIdleConns:        cfg.Backends.MaxIdleConns,
		MaxIdleConnsPerHost: cfg.Backends.MaxIdleConnsPerHost,
		IdleConnTimeout:     cfg.Backends.IdleConnTimeout,
		Observer:            s.metrics,
	})
	gate := auth.NewGate(client, cfg.Backends.UserURL)

	s.engine = proxy.NewEngine(client, gate, cfg.Gateway.MaxProxyBodyBytes)

	queryPipeline := query.New(client, query.Config{
		InventoryURL: cfg.Backends.InventoryURL,
		LLMURL:       cfg.Backends.LLMURL,
		EchoFilters:  cfg.Gateway.EchoFilters,
	}, s.metrics)
	s.queryHandler = handlers.NewQueryHandler(queryPipeline)

	geocoder := geocode.New(client, cfg.Backends.Geolocation.URL, cfg.Backends.Geolocation.APIKey, secretManager)
	listingPipeline := listing.New(client, gate, geocoder, listing.Config{
		InventoryURL: cfg.Backends.InventoryURL,
		ImageURL:     cfg.Backends.ImageURL,
	}, s.metrics)
	s.listingHandler = handlers.NewListingHandler(listingPipeline, cfg.Gateway.MaxUploadBytes)

	s.health = newHealthChecker(cfg)
	s.health.SetObserver(s.metrics)

	s.handler = s.setupRoutes()
	return s, nil
}

// setupRoutes builds the mux and wraps it in the middleware chain.
func (s *Server) setupRoutes() http.Handler {
	mux := http.NewServeMux()
	s.registerRoutes(mux)

	var handler http.Handler = mux
	handler = middleware.CORSMiddleware(s.cfg.Server.CORS)(handler)
	handler = middleware.LoggingMiddleware(s.metrics)(handler)
	handler = tracing.HTTPMiddleware(handler)
	handler = middleware.RequestIDMiddleware(handler)
	handler = middleware.RecoveryMiddleware(handler)
	return handler
}

// Handler returns the fully wrapped gateway handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Start listens on the configured address and serves until ctx is
// cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.cfg.Server.ListenAddress)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.cfg.Server.ListenAddress, err)
	}
	return s.Serve(ctx, listener)
}

// Serve serves on listener until ctx is cancelled.
func (s *Server) Serve(ctx context.Context, listener net.Listener) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		_ = listener.Close()
		return errors.New("server is already running")
	}
	s.isRunning = true
	s.mu.Unlock()

	s.httpServer = &http.Server{
		Handler:        s.handler,
		ReadTimeout:    s.cfg.Server.ReadTimeout,
		WriteTimeout:   s.cfg.Server.WriteTimeout,
		IdleTimeout:    s.cfg.Server.IdleTimeout,
		MaxHeaderBytes: s.cfg.Server.MaxHeaderBytes,
		ErrorLog:       slog.NewLogLogger(slog.Default().Handler(), slog.LevelWarn),
	}

	tlsEnabled := s.cfg.Security.TLS.Enabled
	if tlsEnabled {
		tlsConfig, err := sectls.ServerConfig(ctx, s.cfg.Security.TLS)
		if err != nil {
			_ = listener.Close()
			return fmt.Errorf("failed to configure TLS: %w", err)
		}
		s.httpServer.TLSConfig = tlsConfig
	}

	errChan := make(chan error, 1)
	go func() {
		slog.Info("starting gateway",
			"address", listener.Addr().String(),
			"tls_enabled", tlsEnabled,
			"version", s.info.Version,
		)

		var err error
		if tlsEnabled {
			err = s.httpServer.ServeTLS(listener, "", "")
		} else {
			err = s.httpServer.Serve(listener)
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("server error: %w", err)
		}
		close(errChan)
	}()

	select {
	case <-ctx.Done():
		slog.Info("context cancelled, initiating shutdown")
		return s.Shutdown(context.Background())
	case err, ok := <-errChan:
		_ = s.Shutdown(context.Background())
		if ok {
			return err
		}
		return nil
	}
}

// Shutdown stops accepting connections, waits for in-flight requests up to
// the configured shutdown timeout and flushes telemetry.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		slog.Info("initiating graceful shutdown", "timeout", s.cfg.Server.ShutdownTimeout.String())

		shutdownCtx, cancel := context.WithTimeout(ctx, s.cfg.Server.ShutdownTimeout)
		defer cancel()

		if s.httpServer != nil {
			if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
				slog.Error("error during server shutdown", "error", err)
				shutdownErr = fmt.Errorf("server shutdown error: %w", err)
			}
		}

		if err := s.Close(shutdownCtx); err != nil && shutdownErr == nil {
			shutdownErr = err
		}

		s.mu.Lock()
		s.isRunning = false
		s.mu.Unlock()

		slog.Info("gateway stopped")
	})

	return shutdownErr
}

// Close flushes pending spans and stops secret file watchers.
func (s *Server) Close(ctx context.Context) error {
	var errs []error
	if s.tracer != nil {
		if err := s.tracer.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("tracer shutdown: %w", err))
		}
	}
	if s.secrets != nil {
		if err := s.secrets.Close(); err != nil {
			errs = append(errs, fmt.Errorf("secrets close: %w", err))
		}
	}
	return errors.Join(errs...)
}

// IsRunning returns true if the server is running.
func (s *Server) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}
