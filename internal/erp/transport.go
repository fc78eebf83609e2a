package erp

import (
	"context"
	"fmt"
	"net/http"
	"strings"
)

const (
	ProtocolXMLRPC  = "xmlrpc"
	ProtocolJSONRPC = "jsonrpc"
)

// Transport - удаленный интерфейс ERP: сервис идентификации и сервис данных.
type Transport interface {
	// Authenticate возвращает uid пользователя, 0 если учетные данные отклонены.
	Authenticate(ctx context.Context, db, username, password string) (int, error)
	Version(ctx context.Context) (map[string]any, error)
	ExecuteKw(ctx context.Context, db string, uid int, password, model, method string, args []any, kwargs map[string]any) (any, error)
}

// NewTransport создает транспорт по имени протокола. client может быть nil.
func NewTransport(protocol, baseURL string, client *http.Client) (Transport, error) {
	if client == nil {
		client = http.DefaultClient
	}
	baseURL = strings.TrimRight(baseURL, "/")

	switch strings.ToLower(protocol) {
	case ProtocolXMLRPC, "":
		return NewXMLRPC(baseURL, client), nil
	case ProtocolJSONRPC:
		return NewJSONRPC(baseURL, client), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedProtocol, protocol)
	}
}

// uidFrom приводит ответ authenticate к числу. false и nil означают отказ.
func uidFrom(v any) (int, error) {
	switch id := v.(type) {
	case nil:
		return 0, nil
	case bool:
		if id {
			return 0, fmt.Errorf("unexpected authenticate result: true")
		}
		return 0, nil
	case int:
		return id, nil
	case int64:
		return int(id), nil
	case float64:
		return int(id), nil
	default:
		return 0, fmt.Errorf("unexpected authenticate result type %T", v)
	}
}
