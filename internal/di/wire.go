//go:build wireinject
// +build wireinject

package di

import (
	"BiasDesk/pkg/config"
	"BiasDesk/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		// Ambient
		ProvideLogger,
		ProvideMetrics,

		// Domain services
		ProvideBiasStore,
		ProvideMarketSource,
		ProvideAdvisor,

		// Use cases
		ProvideChatOrchestrator,
		ProvideBiasRefresher,

		// Transport
		ProvideAPIHandler,
		ProvideBotHandler,
		ProvideHandlers,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}
