package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/UnknownOlympus/postcodes"
	"github.com/UnknownOlympus/postcodes/internal/config"
	"github.com/UnknownOlympus/postcodes/internal/geocoding"
	"github.com/UnknownOlympus/postcodes/internal/logger"
	"github.com/UnknownOlympus/postcodes/internal/metrics"
	"github.com/UnknownOlympus/postcodes/internal/repository"
	"github.com/UnknownOlympus/postcodes/internal/service"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"golang.org/x/time/rate"
)

// NewServeCmd creates the serve command.
func NewServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the enrichment daemon",
		Long: `Run the enrichment daemon.

The daemon polls PostgreSQL for tasks without a resolved postcode, looks them
up on postcodes.io (geocoding address-only tasks first) and stores the result.
A monitoring server exposes /healthz and /metrics.

Configuration is read from the environment and an optional .env file:
  POSTCODES_ENV, POSTCODES_HEALTH_PORT, POSTCODES_BASE_URL, POSTCODES_TIMEOUT,
  POSTCODES_WORKERS, POSTCODES_INTERVAL, POSTCODES_BATCH_SIZE,
  POSTCODES_RATE_LIMIT, POSTCODES_GEOCODER_TYPE, POSTCODES_GEOCODER_API_KEY,
  DB_HOST, DB_PORT, DB_USERNAME, DB_PASSWORD, DB_NAME.

The --base-url and --timeout flags override the environment when given.`,
		Args: cobra.NoArgs,
		RunE: runServeCmd,
	}
}

func runServeCmd(cmd *cobra.Command, _ []string) error {
	// The context is canceled when an interrupt signal is received.
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.MustLoad()
	if err := applyFlagOverrides(cmd, cfg); err != nil {
		return err
	}

	log := logger.Setup(cfg.Env, os.Stdout)

	// Separate registry so only our collectors are exposed.
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	appMetrics := metrics.NewMetrics(reg)

	dtb, err := repository.NewDatabase(
		cfg.Database.Host, cfg.Database.Port, cfg.Database.User, cfg.Database.Password, cfg.Database.Name,
	)
	if err != nil {
		return fmt.Errorf("failed to connect to DB: %w", err)
	}
	defer dtb.Close()

	repo := repository.NewRepository(dtb, log)

	geoProvider, err := geocoding.NewProvider(geocoding.ProviderConfig{
		Type:      geocoding.ProviderType(cfg.GeocoderType),
		APIKey:    cfg.GeocoderAPIKey,
		RateLimit: int(cfg.RateLimit),
		Logger:    log,
	})
	if err != nil {
		return fmt.Errorf("failed to create geocoding provider: %w", err)
	}
	log.InfoContext(ctx, "Geocoding provider initialized", "type", cfg.GeocoderType)

	client := postcodes.NewClient(log, postcodes.WithBaseURL(cfg.BaseURL), postcodes.WithTimeout(cfg.Timeout))

	enrichment := service.NewEnrichmentService(
		log,
		repo,
		client,
		geoProvider,
		appMetrics,
		newLimiter(cfg.RateLimit, cfg.Workers),
		cfg.Workers,
		cfg.BatchSize,
		cfg.Interval,
	)

	log.InfoContext(ctx, "Application started. Press Ctrl+C to stop.")

	go startMonitoringServer(ctx, log, newMonitoringHandler(ctx, log, reg, dtb), cfg.Port)
	go enrichment.Run(ctx)

	<-ctx.Done()

	log.InfoContext(ctx, "Shutdown signal received. Stopping application...")
	log.InfoContext(ctx, "Application stopped gracefully.")

	return nil
}

// applyFlagOverrides lets explicitly set persistent flags win over the environment.
func applyFlagOverrides(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()

	if flags.Changed("base-url") {
		baseURL, err := flags.GetString("base-url")
		if err != nil {
			return err
		}
		cfg.BaseURL = baseURL
	}
	if flags.Changed("timeout") {
		timeout, err := flags.GetDuration("timeout")
		if err != nil {
			return err
		}
		cfg.Timeout = timeout
	}

	return nil
}

// newLimiter returns a limiter shared by all workers, or nil when perSecond
// is not positive. The burst never exceeds one second's worth of requests.
func newLimiter(perSecond float64, workers int) *rate.Limiter {
	if perSecond <= 0 {
		return nil
	}
	burst := max(1, min(workers, int(perSecond)))
	return rate.NewLimiter(rate.Limit(perSecond), burst)
}

// pinger is satisfied by *pgxpool.Pool.
type pinger interface {
	Ping(ctx context.Context) error
}

// newMonitoringHandler serves /healthz (database ping) and /metrics.
func newMonitoringHandler(ctx context.Context, log *slog.Logger, reg *prometheus.Registry, dtb pinger) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/healthz", func(writer http.ResponseWriter, req *http.Request) {
		log.DebugContext(ctx, "Performing health checks...")
		status, body := http.StatusOK, "OK"
		if err := dtb.Ping(req.Context()); err != nil {
			status, body = http.StatusServiceUnavailable, "DB ping failed"
		}
		writer.WriteHeader(status)
		if _, err := writer.Write([]byte(body)); err != nil {
			log.ErrorContext(ctx, "failed to write reply", "error", err)
		}

		log.DebugContext(ctx, "Health checks completed", "status", status)
	})
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	return mux
}

// startMonitoringServer listens on port until ctx is canceled.
func startMonitoringServer(ctx context.Context, log *slog.Logger, handler http.Handler, port int) {
	const (
		readTimeout     = 5 * time.Second
		writeTimeout    = 10 * time.Second
		shutdownTimeout = 5 * time.Second
	)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      handler,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.ErrorContext(shutdownCtx, "Monitoring server shutdown failed", "error", err)
		}
	}()

	log.InfoContext(ctx, "Starting monitoring server", "port", port)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.ErrorContext(ctx, "Monitoring server failed", "error", err)
	}
}
