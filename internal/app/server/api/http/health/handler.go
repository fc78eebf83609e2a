package health

import (
	"context"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"golang.org/x/exp/slog"
)

const (
	statusOK     = "OK"
	storageUp    = "up"
	storageDown  = "down"
	readyTimeout = 2 * time.Second
)

// Pinger - хранилище настроек, которое умеет сообщать о своей доступности.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Handler struct {
	version    string
	store      Pinger
	log        *slog.Logger
	middleware huma.Middlewares
}

// NewHandler: store может быть nil, тогда готовность не зависит от базы.
func NewHandler(version string, store Pinger, log *slog.Logger, middleware huma.Middlewares) *Handler {
	return &Handler{
		version:    version,
		store:      store,
		log:        log.With(slog.String("component", "health")),
		middleware: middleware,
	}
}

func (h *Handler) SetupRoutes(api huma.API) {
	huma.Register(api, h.liveOp(), h.live)
	huma.Register(api, h.readyOp(), h.ready)
}

func (h *Handler) live(_ context.Context, _ *Input) (*Output, error) {
	return &Output{Body: Response{Status: statusOK, Version: h.version}}, nil
}

func (h *Handler) ready(ctx context.Context, _ *Input) (*Output, error) {
	if h.store == nil {
		return &Output{Body: Response{Status: statusOK, Version: h.version}}, nil
	}

	ctx, cancel := context.WithTimeout(ctx, readyTimeout)
	defer cancel()

	if err := h.store.Ping(ctx); err != nil {
		h.log.Warn("storage is not ready", slog.String("error", err.Error()))
		return nil, huma.Error503ServiceUnavailable("storage " + storageDown)
	}

	return &Output{Body: Response{Status: statusOK, Version: h.version, Storage: storageUp}}, nil
}
