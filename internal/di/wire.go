//go:build wireinject
// +build wireinject

package di

import (
	"MarketBrief/pkg/config"
	"MarketBrief/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire generates the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		// Ambient infrastructure
		ProvideLogger,
		ProvideMetrics,
		ProvideCache,
		ProvideHTTPClient,

		// Optional infrastructure clients
		ProvideKafkaProducer,
		ProvideClickHouseClient,

		// Feeds and domain services
		ProvidePulseSources,
		ProvideClassifier,
		ProvideAggregator,
		ProvideSynthesizer,

		// Use case and HTTP surface
		ProvideBriefUseCase,
		ProvideHandler,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}
