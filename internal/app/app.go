package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/exp/slog"

	"odosight/internal/app/server/api"
	"odosight/internal/bot"
	"odosight/internal/config"
	"odosight/internal/domain/finance"
	"odosight/internal/domain/settings"
	"odosight/internal/erp"
	"odosight/internal/infrastructure/storage"
	"odosight/internal/llm"
	"odosight/internal/metrics"
	"odosight/internal/vault"
)

// App связывает хранилище, сервисы и бота. Создается при старте процесса,
// Close освобождает хранилище.
type App struct {
	Config   *config.Config
	Store    *storage.Store
	Vault    *vault.Vault
	Settings *settings.Service
	Finance  *finance.Service
	Bot      *bot.Bot
	Registry *prometheus.Registry

	httpClient *http.Client
	log        *slog.Logger
}

func New(ctx context.Context, cfg *config.Config, log *slog.Logger) (*App, error) {
	v, err := vault.New(cfg.Vault.Passphrase)
	if err != nil {
		return nil, fmt.Errorf("vault: %w", err)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	if err := metrics.Register(reg); err != nil {
		return nil, fmt.Errorf("register metrics: %w", err)
	}

	store, err := storage.Open(ctx, cfg.DB.URI, log)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}

	a := &App{
		Config:     cfg,
		Store:      store,
		Vault:      v,
		Registry:   reg,
		httpClient: &http.Client{Timeout: cfg.ERP.QueryTimeout},
		log:        log,
	}

	a.Settings = settings.NewService(store.Settings, v, log)
	answerer := llm.NewGemini(cfg.LLM.BaseURL, cfg.LLM.Model, a.httpClient, log)
	a.Finance = finance.NewService(a.Settings, a.Transport, answerer, cfg.ERP.LookbackDays, log)
	a.Bot = bot.New(a.Settings, a.Finance, cfg.ERP.QueryTimeout, cfg.ERP.LookbackDays, log)

	return a, nil
}

// Transport создает новый транспорт ERP выбранного протокола.
func (a *App) Transport(baseURL string) (erp.Transport, error) {
	return erp.NewTransport(a.Config.ERP.Protocol, baseURL, a.httpClient)
}

// Handler - HTTP API приложения.
func (a *App) Handler() http.Handler {
	return api.New(api.Deps{
		Bot:      a.Bot,
		Store:    a.Store,
		APIToken: a.Config.HTTP.APIToken,
		Metrics:  a.Registry,
	}, a.log)
}

func (a *App) Close() error {
	if err := a.Store.Close(); err != nil {
		return fmt.Errorf("close storage: %w", err)
	}
	return nil
}
