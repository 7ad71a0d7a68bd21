package di

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	domrepo "TrendLens/internal/domain/repository"
	domservice "TrendLens/internal/domain/service"
	"TrendLens/internal/handler/api"
	internalrepo "TrendLens/internal/repository"
	"TrendLens/internal/service/dify"
	"TrendLens/internal/service/tasks"
	tickersvc "TrendLens/internal/service/ticker"
	"TrendLens/internal/service/yahoo"
	"TrendLens/internal/usecase"
	pkgcache "TrendLens/pkg/cache"
	pkgch "TrendLens/pkg/clickhouse"
	"TrendLens/pkg/config"
	pkgkafka "TrendLens/pkg/kafka"
	applogger "TrendLens/pkg/logger"
	"TrendLens/pkg/metrics"
	"TrendLens/pkg/queue"
	"TrendLens/pkg/server"
)

// ProvideLogger creates the application logger from config.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	l, err := applogger.New(&applogger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return l, nil
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() domrepo.Metrics {
	return metrics.New()
}

// ProvideCache selects the cache backend. With Redis enabled the memory
// layer fronts Redis so hot chart payloads skip the network round trip.
func ProvideCache(cfg *config.Config) (pkgcache.Service, error) {
	if !cfg.Cache.Redis.Enabled {
		return pkgcache.NewMemoryCache(), nil
	}

	host, port, err := splitAddr(cfg.Cache.Redis.Addr)
	if err != nil {
		return nil, fmt.Errorf("cache redis addr: %w", err)
	}

	rc, err := pkgcache.NewRedisCache(
		pkgcache.WithRedisHost(host),
		pkgcache.WithRedisPort(port),
		pkgcache.WithRedisPassword(cfg.Cache.Redis.Password),
		pkgcache.WithRedisDB(cfg.Cache.Redis.DB),
		pkgcache.WithRedisPrefix("trendlens"),
	)
	if err != nil {
		return nil, fmt.Errorf("redis cache: %w", err)
	}
	return pkgcache.NewLayeredCache(rc), nil
}

// ProvideRedisClient creates the raw Redis client used by the job queue.
// Returns nil when Redis is disabled; async AI runs then fall back to
// in-process goroutines.
func ProvideRedisClient(cfg *config.Config) *redis.Client {
	if !cfg.Cache.Redis.Enabled {
		return nil
	}
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Cache.Redis.Addr,
		Password: cfg.Cache.Redis.Password,
		DB:       cfg.Cache.Redis.DB,
	})
}

// ProvideKafkaProducer creates a Kafka producer, or nil when Kafka is
// disabled.
func ProvideKafkaProducer(cfg *config.Config) (*pkgkafka.Producer, error) {
	if !cfg.Kafka.Enabled {
		return nil, nil
	}
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithBatchSize(cfg.Kafka.Producer.BatchSize),
		pkgkafka.WithBatchBytes(cfg.Kafka.Producer.BatchBytes),
		pkgkafka.WithBatchTimeout(cfg.Kafka.Producer.Linger),
		pkgkafka.WithTimeouts(cfg.Kafka.Producer.WriteTimeout, cfg.Kafka.Producer.ReadTimeout),
		pkgkafka.WithMaxAttempts(cfg.Kafka.Producer.MaxAttempts),
		pkgkafka.WithAsync(cfg.Kafka.Producer.Async),
		pkgkafka.WithHashByKey(true),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return producer, nil
}

// ProvideAnnotationPublisher publishes created annotations to Kafka, or
// drops them when Kafka is disabled.
func ProvideAnnotationPublisher(producer *pkgkafka.Producer, cfg *config.Config) domrepo.AnnotationPublisher {
	if producer == nil {
		return internalrepo.NoopAnnotationPublisher{}
	}
	return internalrepo.NewKafkaAnnotationPublisher(producer, cfg.Kafka.Topic)
}

// ProvideBarSource creates the Yahoo Finance chart client.
func ProvideBarSource(cfg *config.Config, lgr *applogger.Logger, m domrepo.Metrics) domrepo.BarSource {
	return yahoo.New(
		cfg.Yahoo.BaseURL,
		cfg.Yahoo.UserAgent,
		cfg.Yahoo.Timeout,
		cfg.Yahoo.RetryBase,
		cfg.Yahoo.RetryMax,
		lgr,
		m,
	)
}

// ProvideAnnotationStore creates the Postgres annotation store and runs
// its schema migration.
func ProvideAnnotationStore(cfg *config.Config, lgr *applogger.Logger) (domrepo.AnnotationStore, error) {
	store, err := internalrepo.NewPGAnnotationStore(cfg.PostgresDSN(), cfg.Postgres.MaxConns, lgr)
	if err != nil {
		return nil, fmt.Errorf("annotation store: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := store.Init(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("annotation store schema: %w", err)
	}
	return store, nil
}

// ProvideBarArchive creates the ClickHouse bar archive, or nil when
// ClickHouse is disabled. Chart requests then depend on the provider alone.
func ProvideBarArchive(cfg *config.Config, lgr *applogger.Logger) (domrepo.BarArchive, error) {
	if !cfg.ClickHouse.Enabled {
		return nil, nil
	}

	client, err := pkgch.NewClient(
		pkgch.WithHost(cfg.ClickHouse.Host),
		pkgch.WithPort(cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithMaxConnections(10, 5),
		pkgch.WithHTTP(cfg.ClickHouse.UseHTTP),
		pkgch.WithAsyncInsert(cfg.ClickHouse.AsyncInsert, cfg.ClickHouse.WaitForAsync),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout, cfg.ClickHouse.WriteTimeout),
		pkgch.WithMaxExecutionTime(cfg.ClickHouse.MaxExecutionTime),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := client.InitSchema(ctx, internalrepo.BarSchema()); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("clickhouse schema: %w", err)
	}

	return internalrepo.NewCHBarStore(client, lgr), nil
}

// ProvideNameResolver creates the cached company name resolver.
func ProvideNameResolver(c pkgcache.Service, cfg *config.Config, lgr *applogger.Logger) *tickersvc.NameResolver {
	return tickersvc.NewNameResolver(c, cfg.Cache.NamesTTL, lgr)
}

// ProvideAIWorkflow creates the Dify workflow client.
func ProvideAIWorkflow(cfg *config.Config, lgr *applogger.Logger) domservice.AIWorkflow {
	return dify.New(cfg.Dify.BaseURL, cfg.Dify.APIKey, cfg.Dify.Timeout, lgr)
}

// ProvideTracker creates the in-memory AI task tracker.
func ProvideTracker() *tasks.Tracker {
	return tasks.NewTracker()
}

// ProvideJobQueue creates the Redis queue publisher for async AI runs, or
// nil when Redis is disabled.
func ProvideJobQueue(lgr *applogger.Logger, client *redis.Client, cfg *config.Config) queue.QueueService {
	if client == nil {
		return nil
	}
	return queue.NewRedisPublisher(lgr, client, queue.WithKeyPrefix(queueKeyPrefix(cfg)))
}

// ProvideQueueConsumer creates the Redis queue worker that executes AI
// analysis jobs, or nil when Redis is disabled.
func ProvideQueueConsumer(lgr *applogger.Logger, client *redis.Client, cfg *config.Config, ai *usecase.AIAnalysisUseCase) *queue.RedisQueue {
	if client == nil {
		return nil
	}

	qc := &queue.QueueConfig{
		Workers:    cfg.Queue.Workers,
		QueueSize:  cfg.Queue.QueueSize,
		RetryLimit: cfg.Queue.RetryLimit,
		RetryDelay: cfg.Queue.RetryDelay,
	}
	if qc.Workers <= 0 {
		qc.Workers = 2
	}
	if qc.QueueSize <= 0 {
		qc.QueueSize = 100
	}
	if qc.RetryLimit <= 0 {
		qc.RetryLimit = 3
	}
	if qc.RetryDelay <= 0 {
		qc.RetryDelay = 5 * time.Second
	}

	jobs := []queue.Job{usecase.NewAnalysisJob(ai)}
	return queue.NewRedisConsumer(lgr, qc, client, jobs, queue.WithKeyPrefix(queueKeyPrefix(cfg)))
}

// ProvideChartDataUseCase creates the chart pipeline use case.
func ProvideChartDataUseCase(
	source domrepo.BarSource,
	store domrepo.AnnotationStore,
	archive domrepo.BarArchive,
	publisher domrepo.AnnotationPublisher,
	names *tickersvc.NameResolver,
	cacheSvc pkgcache.Service,
	m domrepo.Metrics,
	lgr *applogger.Logger,
	cfg *config.Config,
) *usecase.ChartDataUseCase {
	return usecase.NewChartDataUseCase(source, store, names, cacheSvc, m, lgr, usecase.ChartDataOptions{
		Archive:     archive,
		Publisher:   publisher,
		Lookup:      names.Known,
		HistoryDays: cfg.Yahoo.HistoryDays,
		Window:      cfg.Analysis.Window,
		ResponseTTL: cfg.Cache.ResponseTTL,
	})
}

// ProvideTrendAnalysisUseCase creates the long-term trend analysis use case.
func ProvideTrendAnalysisUseCase(
	charts *usecase.ChartDataUseCase,
	store domrepo.AnnotationStore,
	m domrepo.Metrics,
	lgr *applogger.Logger,
) *usecase.TrendAnalysisUseCase {
	return usecase.NewTrendAnalysisUseCase(charts, store, m, lgr)
}

// ProvideAnnotationUseCase creates the annotation CRUD use case.
func ProvideAnnotationUseCase(
	store domrepo.AnnotationStore,
	publisher domrepo.AnnotationPublisher,
	charts *usecase.ChartDataUseCase,
	names *tickersvc.NameResolver,
	lgr *applogger.Logger,
) *usecase.AnnotationUseCase {
	return usecase.NewAnnotationUseCase(store, publisher, charts, names, names.Known, lgr)
}

// ProvideAIAnalysisUseCase creates the AI workflow proxy use case.
func ProvideAIAnalysisUseCase(
	workflow domservice.AIWorkflow,
	tracker *tasks.Tracker,
	jobs queue.QueueService,
	m domrepo.Metrics,
	lgr *applogger.Logger,
) *usecase.AIAnalysisUseCase {
	return usecase.NewAIAnalysisUseCase(workflow, tracker, jobs, m, lgr)
}

// ProvideRouter assembles the API route table.
func ProvideRouter(
	lgr *applogger.Logger,
	charts *api.ChartsHandler,
	annotations *api.AnnotationsHandler,
	ai *api.AIHandler,
	cfg *config.Config,
) *api.Router {
	return api.NewRouter(lgr, charts, annotations, ai, cfg.Auth.APIToken)
}

// ProvideApp creates the application server and attaches the Kafka log
// collector when a producer is available.
func ProvideApp(
	cfg *config.Config,
	lgr *applogger.Logger,
	router *api.Router,
	consumer *queue.RedisQueue,
	store domrepo.AnnotationStore,
	archive domrepo.BarArchive,
	publisher domrepo.AnnotationPublisher,
	producer *pkgkafka.Producer,
) *server.App {
	if producer != nil && cfg.Kafka.LogTopic != "" {
		lgr.AddCollector(&applogger.CollectionConfig{
			TimeInterval:   30 * time.Second,
			CountThreshold: 100,
			Topic:          cfg.Kafka.LogTopic,
			Publisher:      producer,
		})
	}
	return server.New(cfg, lgr, router, consumer, store, archive, publisher, producer)
}

func queueKeyPrefix(cfg *config.Config) string {
	if cfg.Queue.KeyPrefix != "" {
		return cfg.Queue.KeyPrefix
	}
	return "trendlens"
}

func splitAddr(addr string) (string, int, error) {
	host, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		return "", 0, err
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return "", 0, fmt.Errorf("port %q: %w", portStr, err)
	}
	return host, port, nil
}
