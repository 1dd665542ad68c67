package di

import (
	"fmt"
	"time"

	"BiasDesk/internal/domain/repository"
	"BiasDesk/internal/handler/api"
	"BiasDesk/internal/handler/bot"
	"BiasDesk/internal/service/biasstore"
	"BiasDesk/internal/service/llm"
	"BiasDesk/internal/service/marketsource"
	"BiasDesk/internal/usecase"
	"BiasDesk/pkg/config"
	xhttp "BiasDesk/pkg/http"
	applogger "BiasDesk/pkg/logger"
	"BiasDesk/pkg/metrics"
	"BiasDesk/pkg/server"
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
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideBiasStore creates the in-memory bias store, all assets neutral.
func ProvideBiasStore() repository.BiasStore {
	return biasstore.New()
}

// ProvideMarketSource creates the market snapshot scraper.
func ProvideMarketSource(cfg *config.Config, l *applogger.Logger, m repository.Metrics) repository.MarketSource {
	return marketsource.New(cfg, l, m)
}

// ProvideAdvisor creates the LLM-backed advisor.
func ProvideAdvisor(cfg *config.Config, l *applogger.Logger, m repository.Metrics) repository.Advisor {
	return llm.New(cfg, l, m)
}

// ProvideChatOrchestrator creates the chat use case.
func ProvideChatOrchestrator(
	store repository.BiasStore,
	source repository.MarketSource,
	advisor repository.Advisor,
	l *applogger.Logger,
	m repository.Metrics,
) *usecase.ChatOrchestrator {
	return usecase.NewChatOrchestrator(store, source, advisor, l, m)
}

// ProvideBiasRefresher creates the periodic BTC/SPX bias refresher.
func ProvideBiasRefresher(
	source repository.MarketSource,
	store repository.BiasStore,
	cfg *config.Config,
	l *applogger.Logger,
	m repository.Metrics,
) *usecase.BiasRefresher {
	return usecase.NewBiasRefresher(
		source,
		store,
		cfg.Bias.RefreshInterval,
		cfg.Bias.RetryMax,
		cfg.Bias.RetryDelay,
		l,
		m,
	)
}

// ProvideAPIHandler creates the HTTP API handler.
func ProvideAPIHandler(
	l *applogger.Logger,
	chat *usecase.ChatOrchestrator,
	store repository.BiasStore,
	m repository.Metrics,
	cfg *config.Config,
) *api.AdvisorEchoHandler {
	return api.NewAdvisorEchoHandler(l, chat, store, m, cfg.Admin.Password)
}

// ProvideBotHandler creates the bot WebSocket handler, or nil when the bot is
// disabled. In proxy mode the bot talks to the HTTP API over the network
// instead of calling the orchestrator in-process.
func ProvideBotHandler(cfg *config.Config, chat *usecase.ChatOrchestrator, l *applogger.Logger) *bot.Handler {
	if !cfg.Bot.Enabled {
		return nil
	}

	var responder bot.Responder = chat
	if cfg.Bot.Mode == "proxy" {
		timeout := cfg.Bot.Timeout
		if timeout <= 0 {
			timeout = 60 * time.Second
		}
		responder = bot.NewProxyResponder(cfg.Bot.APIBaseURL, timeout)
	}
	return bot.NewHandler(responder, cfg.Bot.Token, l)
}

// ProvideHandlers collects route handlers for the HTTP server. A nil bot
// handler is skipped rather than wrapped in a non-nil interface.
func ProvideHandlers(apiHandler *api.AdvisorEchoHandler, botHandler *bot.Handler) []xhttp.Handler {
	handlers := []xhttp.Handler{apiHandler}
	if botHandler != nil {
		handlers = append(handlers, botHandler)
	}
	return handlers
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	l *applogger.Logger,
	refresher *usecase.BiasRefresher,
	handlers []xhttp.Handler,
) *server.App {
	return server.New(cfg, l, refresher, handlers)
}
