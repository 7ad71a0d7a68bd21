//go:build wireinject
// +build wireinject

package di

import (
	"TrendLens/internal/handler/api"
	"TrendLens/pkg/config"
	"TrendLens/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		// Observability
		ProvideLogger,
		ProvideMetrics,

		// Infrastructure clients
		ProvideCache,
		ProvideRedisClient,
		ProvideKafkaProducer,
		ProvideBarArchive,

		// Repositories
		ProvideAnnotationStore,
		ProvideAnnotationPublisher,

		// Domain services
		ProvideBarSource,
		ProvideNameResolver,
		ProvideAIWorkflow,
		ProvideTracker,
		ProvideJobQueue,

		// Use cases
		ProvideChartDataUseCase,
		ProvideTrendAnalysisUseCase,
		ProvideAnnotationUseCase,
		ProvideAIAnalysisUseCase,
		ProvideQueueConsumer,

		// HTTP handlers
		api.NewChartsHandler,
		api.NewAnnotationsHandler,
		api.NewAIHandler,
		ProvideRouter,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}
