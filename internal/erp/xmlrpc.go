package erp

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/kolo/xmlrpc"
)

// XMLRPC - транспорт поверх /xmlrpc/2/common и /xmlrpc/2/object.
type XMLRPC struct {
	client    *http.Client
	commonURL string
	objectURL string
}

var _ Transport = (*XMLRPC)(nil)

// NewXMLRPC создает транспорт. Таймаут client ограничивает каждый вызов, client может быть nil.
func NewXMLRPC(baseURL string, client *http.Client) *XMLRPC {
	if client == nil {
		client = http.DefaultClient
	}
	return &XMLRPC{
		client:    client,
		commonURL: baseURL + "/xmlrpc/2/common",
		objectURL: baseURL + "/xmlrpc/2/object",
	}
}

func (x *XMLRPC) Authenticate(ctx context.Context, db, username, password string) (int, error) {
	reply, err := x.call(ctx, x.commonURL, "authenticate", db, username, password, map[string]any{})
	if err != nil {
		return 0, err
	}

	return uidFrom(reply)
}

func (x *XMLRPC) Version(ctx context.Context) (map[string]any, error) {
	reply, err := x.call(ctx, x.commonURL, "version")
	if err != nil {
		return nil, err
	}

	info, ok := reply.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("unexpected version result type %T", reply)
	}
	return info, nil
}

func (x *XMLRPC) ExecuteKw(ctx context.Context, db string, uid int, password, model, method string, args []any, kwargs map[string]any) (any, error) {
	if args == nil {
		args = []any{}
	}
	if kwargs == nil {
		kwargs = map[string]any{}
	}

	return x.call(ctx, x.objectURL, "execute_kw", db, uid, password, model, method, args, kwargs)
}

// Close освобождает простаивающие соединения клиента.
func (x *XMLRPC) Close() error {
	x.client.CloseIdleConnections()
	return nil
}

// call отправляет methodCall запросом, привязанным к ctx: отмена контекста прерывает обмен.
func (x *XMLRPC) call(ctx context.Context, url, method string, params ...any) (any, error) {
	payload, err := xmlrpc.EncodeMethodCall(method, params...)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "text/xml")
	req.Header.Set("Content-Length", strconv.Itoa(len(payload)))

	resp, err := x.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("server returned status: %d", resp.StatusCode)
	}

	out := xmlrpc.Response(body)
	if err := out.Err(); err != nil {
		return nil, err
	}

	var reply any
	if err := out.Unmarshal(&reply); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	return reply, nil
}
