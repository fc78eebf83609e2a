package chat

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

func (h *Handler) sendOp() huma.Operation {
	return huma.Operation{
		OperationID: "chat-send",
		Method:      http.MethodPost,
		Path:        "/api/v1/chat/messages",
		Summary:     "Отправить сообщение боту",
		Description: "Принимает сообщение пользователя (команду, ответ мастера настройки или вопрос) и возвращает ответы бота.",
		Tags:        []string{"chat"},
		Security:    []map[string][]string{{"bearer": {}}},
		Middlewares: h.middleware,
	}
}
