// GET  /api/v1/health         # Проверка живости (публичный)
// GET  /api/v1/health/ready   # Готовность: пинг хранилища (публичный)
// POST /api/v1/chat/messages  # Сообщение боту (bearer, если задан API_TOKEN)
// GET  /metrics               # Метрики Prometheus (публичный)

package api

import (
	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/exp/slog"

	chatAPI "odosight/internal/app/server/api/http/chat"
	healthAPI "odosight/internal/app/server/api/http/health"
	"odosight/internal/app/server/api/http/middleware"
	"odosight/internal/app/server/api/http/middleware/auth"
	"odosight/internal/app/server/api/http/middleware/logger"
)

const Version = "1.0.0"

type Deps struct {
	Bot      chatAPI.Responder
	Store    healthAPI.Pinger
	APIToken string
	Metrics  prometheus.Gatherer
}

type Handlers struct {
	Health *healthAPI.Handler
	Chat   *chatAPI.Handler
}

// New создает *chi.Mux с операциями huma и обработчиком метрик
func New(deps Deps, log *slog.Logger) *chi.Mux {
	mux := chi.NewMux()

	config := huma.DefaultConfig("OdoSight API", Version)
	config.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"bearer": {Type: "http", Scheme: "bearer"},
	}

	API := humachi.New(mux, config)

	h := handlers(deps, log)
	h.Health.SetupRoutes(API)
	h.Chat.SetupRoutes(API)

	if deps.Metrics != nil {
		mux.Handle("/metrics", promhttp.HandlerFor(deps.Metrics, promhttp.HandlerOpts{}))
	}

	return mux
}

func handlers(deps Deps, log *slog.Logger) *Handlers {
	authMW := auth.New(deps.APIToken, log)
	if !authMW.Enabled() {
		log.Warn("API_TOKEN is empty, chat API is not protected")
	}
	loggerMW := logger.New(log)
	middlewares := middleware.NewContainer()

	middlewares.Add(loggerMW.Middleware())
	healthHandler := healthAPI.NewHandler(Version, deps.Store, log, middlewares.GetAllAndClear())

	middlewares.Add(loggerMW.Middleware(), authMW.Middleware())
	chatHandler := chatAPI.NewHandler(deps.Bot, log, middlewares.GetAllAndClear())

	return &Handlers{
		Health: healthHandler,
		Chat:   chatHandler,
	}
}
