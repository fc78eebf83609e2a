package chat

import (
	"context"

	"github.com/danielgtaylor/huma/v2"
	"golang.org/x/exp/slog"
)

// Responder - диалоговое ядро бота.
type Responder interface {
	Handle(ctx context.Context, userID, text string) []string
	AwaitingSecret(userID string) bool
}

type Handler struct {
	bot        Responder
	log        *slog.Logger
	middleware huma.Middlewares
}

func NewHandler(bot Responder, log *slog.Logger, mws huma.Middlewares) *Handler {
	return &Handler{
		bot:        bot,
		log:        log,
		middleware: mws,
	}
}

func (h *Handler) SetupRoutes(api huma.API) {
	huma.Register(api, h.sendOp(), h.send)
}

func (h *Handler) send(ctx context.Context, input *sendInput) (*sendOutput, error) {
	replies := h.bot.Handle(ctx, input.Body.UserID, input.Body.Text)
	if replies == nil {
		replies = []string{}
	}

	return &sendOutput{
		Body: sendResponse{
			Replies:        replies,
			AwaitingSecret: h.bot.AwaitingSecret(input.Body.UserID),
		},
	}, nil
}
