package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	internalrepo "MarketBrief/internal/repository"
	"MarketBrief/pkg/cache"
	pkgch "MarketBrief/pkg/clickhouse"
	"MarketBrief/pkg/config"
	xhttp "MarketBrief/pkg/http"
	pkgkafka "MarketBrief/pkg/kafka"
	applogger "MarketBrief/pkg/logger"
)

// App encapsulates the application lifecycle: the HTTP server plus the
// optional Kafka and ClickHouse clients it must close on shutdown.
type App struct {
	cfg        *config.Config
	handler    xhttp.Handler
	log        *applogger.Logger
	cache      cache.Service
	producer   *pkgkafka.Producer
	chClient   *pkgch.Client
	httpServer *xhttp.Server
}

// New creates an App with all dependencies. producer and chClient may be nil
// when the corresponding subsystems are disabled.
func New(
	cfg *config.Config,
	handler xhttp.Handler,
	log *applogger.Logger,
	c cache.Service,
	producer *pkgkafka.Producer,
	chClient *pkgch.Client,
) *App {
	return &App{
		cfg:      cfg,
		handler:  handler,
		log:      log,
		cache:    c,
		producer: producer,
		chClient: chClient,
	}
}

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Ship aggregated warn/error logs to Kafka when a producer exists.
	if a.producer != nil && a.cfg.Kafka.LogsTopic != "" {
		a.log.AddCollector(&applogger.CollectionConfig{
			TimeInterval:   30 * time.Second,
			CountThreshold: 100,
			Topic:          a.cfg.Kafka.LogsTopic,
			Publisher:      internalrepo.NewKafkaPublisher(a.producer),
		})
	}

	a.httpServer = xhttp.NewServer(a.handler,
		xhttp.WithPort(a.cfg.Server.Port),
		xhttp.WithTimeouts(a.cfg.Server.ReadTimeout, a.cfg.Server.WriteTimeout, a.cfg.Server.ShutdownTimeout),
		xhttp.WithMetrics(a.cfg.Metrics.Enabled, a.cfg.Metrics.Path),
	)
	if err := a.httpServer.Start(); err != nil {
		a.log.Error("http server start error", applogger.Error(err))
		return err
	}
	a.log.Info("server started",
		applogger.Int("port", a.cfg.Server.Port),
		applogger.String("environment", a.cfg.Environment),
		applogger.String("cache_backend", a.cfg.Cache.Backend),
	)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	a.log.Info("shutdown signal received")
	return a.shutdown(ctx)
}

// shutdown gracefully stops the HTTP server and closes clients.
func (a *App) shutdown(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, a.cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := a.httpServer.Stop(shutdownCtx); err != nil {
		a.log.Error("http shutdown error", applogger.Error(err))
	}

	a.log.RemoveCollector()

	if a.producer != nil {
		if err := a.producer.Close(); err != nil {
			a.log.Warn("kafka producer close error", applogger.Error(err))
		}
	}
	if a.chClient != nil {
		if err := a.chClient.Close(); err != nil {
			a.log.Warn("clickhouse close error", applogger.Error(err))
		}
	}
	if a.cache != nil {
		if err := a.cache.Close(); err != nil {
			a.log.Warn("cache close error", applogger.Error(err))
		}
	}

	a.log.Info("shutdown complete")
	return nil
}
