package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	domrepo "TrendLens/internal/domain/repository"
	"TrendLens/pkg/config"
	xhttp "TrendLens/pkg/http"
	pkgkafka "TrendLens/pkg/kafka"
	applogger "TrendLens/pkg/logger"
	"TrendLens/pkg/queue"
)

// App encapsulates the entire application lifecycle.
type App struct {
	cfg        *config.Config
	logger     *applogger.Logger
	handler    xhttp.Handler
	httpServer *xhttp.Server
	consumer   *queue.RedisQueue
	store      domrepo.AnnotationStore
	archive    domrepo.BarArchive
	publisher  domrepo.AnnotationPublisher
	producer   *pkgkafka.Producer
}

// New creates a new App instance with all dependencies. The consumer,
// archive and producer may be nil when their backends are disabled.
func New(
	cfg *config.Config,
	lgr *applogger.Logger,
	handler xhttp.Handler,
	consumer *queue.RedisQueue,
	store domrepo.AnnotationStore,
	archive domrepo.BarArchive,
	publisher domrepo.AnnotationPublisher,
	producer *pkgkafka.Producer,
) *App {
	return &App{
		cfg:       cfg,
		logger:    lgr,
		handler:   handler,
		consumer:  consumer,
		store:     store,
		archive:   archive,
		publisher: publisher,
		producer:  producer,
	}
}

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a.httpServer = xhttp.NewServer(a.handler,
		xhttp.WithPort(a.cfg.Server.Port),
		xhttp.WithTimeouts(a.cfg.Server.ReadTimeout, a.cfg.Server.WriteTimeout, a.cfg.Server.ShutdownTimeout),
	)

	// Start job queue workers if configured
	if a.consumer != nil {
		if err := a.consumer.Start(); err != nil {
			a.logger.Error("job queue start error", applogger.Error(err))
			return err
		}
		a.consumer.StartRetryProcessor()
		a.logger.Info("job queue started")
	}

	// Start HTTP server
	if err := a.httpServer.Start(); err != nil {
		a.logger.Error("http server start error", applogger.Error(err))
		return err
	}
	a.logger.Info("http server started", applogger.Int("port", a.cfg.Server.Port))

	// Wait for interrupt
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	a.logger.Info("shutdown signal received")
	return a.shutdown(ctx)
}

// shutdown gracefully stops all services.
func (a *App) shutdown(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, a.cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := a.httpServer.Stop(shutdownCtx); err != nil {
		a.logger.Error("http shutdown error", applogger.Error(err))
	}

	if a.consumer != nil {
		if err := a.consumer.Stop(shutdownCtx); err != nil {
			a.logger.Warn("job queue stop error", applogger.Error(err))
		}
	}

	// The publisher owns the Kafka producer; closing it closes both.
	if a.producer != nil {
		a.logger.RemoveCollector()
	}
	if a.publisher != nil {
		if err := a.publisher.Close(); err != nil {
			a.logger.Warn("publisher close error", applogger.Error(err))
		}
	}

	if a.archive != nil {
		if err := a.archive.Close(); err != nil {
			a.logger.Warn("bar archive close error", applogger.Error(err))
		}
	}
	if err := a.store.Close(); err != nil {
		a.logger.Warn("annotation store close error", applogger.Error(err))
	}

	a.logger.Info("shutdown complete")
	return nil
}
