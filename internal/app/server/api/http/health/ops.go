package health

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

func (h *Handler) liveOp() huma.Operation {
	return huma.Operation{
		OperationID: "health-live",
		Method:      http.MethodGet,
		Path:        "/api/v1/health",
		Summary:     "Проверка живости сервиса",
		Description: "Возвращает OK и версию API. Не обращается к ERP и хранилищу.",
		Tags:        []string{"health"},
		Middlewares: h.middleware,
	}
}

func (h *Handler) readyOp() huma.Operation {
	return huma.Operation{
		OperationID: "health-ready",
		Method:      http.MethodGet,
		Path:        "/api/v1/health/ready",
		Summary:     "Проверка готовности",
		Description: "Пингует хранилище настроек. 503, если база недоступна.",
		Tags:        []string{"health"},
		Middlewares: h.middleware,
		Errors:      []int{http.StatusServiceUnavailable},
	}
}
