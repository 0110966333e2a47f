package rest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/davidleathers/caller-identity/internal/infrastructure/config"
	"github.com/davidleathers/caller-identity/internal/service/lookup"
)

// Server represents the API server
type Server struct {
	config     *config.Config
	httpServer *http.Server
	logger     *slog.Logger
}

// NewServer creates the API server over the configured provider set.
func NewServer(cfg *config.Config, logger *slog.Logger, metrics lookup.MetricsCollector) (*Server, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if logger == nil {
		logger = slog.Default()
	}

	zlog, err := newZapLogger(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("creating infrastructure logger: %w", err)
	}

	provs := lookup.DefaultProviders(lookup.ProvidersConfig{
		Timeout:               cfg.Providers.Timeout,
		TwilioAccountSID:      cfg.Providers.Twilio.AccountSID,
		TwilioAuthToken:       cfg.Providers.Twilio.AuthToken,
		NumverifyAPIKey:       cfg.Providers.Numverify.APIKey,
		YelpAPIKey:            cfg.Providers.Yelp.APIKey,
		GooglePlacesAPIKey:    cfg.Providers.GooglePlaces.APIKey,
		OpenCorporatesAPIKey:  cfg.Providers.OpenCorporates.APIKey,
		OpenCorporatesEnabled: cfg.Providers.OpenCorporates.Enabled,
	})

	handler := NewHandler(cfg, logger, zlog, provs, metrics)
	router := NewRouter(handler, logger,
		cfg.Server.RateLimit.RequestsPerSecond,
		cfg.Server.RateLimit.BurstSize,
	)

	return &Server{
		config: cfg,
		logger: logger,
		httpServer: &http.Server{
			Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
			Handler:      router,
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
		},
	}, nil
}

// Start runs the server until SIGINT/SIGTERM, then shuts down gracefully.
func (s *Server) Start() error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", "addr", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-stop:
		s.logger.Info("shutting down", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.config.Server.ShutdownTimeout)
	defer cancel()
	return s.httpServer.Shutdown(ctx)
}

func newZapLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if lvl, err := zap.ParseAtomicLevel(level); err == nil {
		cfg.Level = lvl
	}
	return cfg.Build()
}
