package erp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync/atomic"
)

// JSONRPC - транспорт поверх единого эндпоинта /jsonrpc.
type JSONRPC struct {
	client  *http.Client
	url     string
	counter atomic.Int64
}

var _ Transport = (*JSONRPC)(nil)

type jsonrpcRequest struct {
	JSONRPC string        `json:"jsonrpc"`
	Method  string        `json:"method"`
	Params  jsonrpcParams `json:"params"`
	ID      int64         `json:"id"`
}

type jsonrpcParams struct {
	Service string `json:"service"`
	Method  string `json:"method"`
	Args    []any  `json:"args"`
}

type jsonrpcResponse struct {
	Result any           `json:"result"`
	Error  *jsonrpcError `json:"error"`
}

type jsonrpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    struct {
		Name    string `json:"name"`
		Message string `json:"message"`
	} `json:"data"`
}

func (e *jsonrpcError) Error() string {
	if e.Data.Message != "" {
		return fmt.Sprintf("rpc error %d: %s: %s", e.Code, e.Message, e.Data.Message)
	}
	return fmt.Sprintf("rpc error %d: %s", e.Code, e.Message)
}

func NewJSONRPC(baseURL string, client *http.Client) *JSONRPC {
	if client == nil {
		client = http.DefaultClient
	}
	return &JSONRPC{
		client: client,
		url:    baseURL + "/jsonrpc",
	}
}

func (j *JSONRPC) Authenticate(ctx context.Context, db, username, password string) (int, error) {
	result, err := j.call(ctx, "common", "authenticate", []any{db, username, password, map[string]any{}})
	if err != nil {
		return 0, err
	}

	return uidFrom(result)
}

func (j *JSONRPC) Version(ctx context.Context) (map[string]any, error) {
	result, err := j.call(ctx, "common", "version", []any{})
	if err != nil {
		return nil, err
	}

	info, ok := result.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("unexpected version result type %T", result)
	}
	return info, nil
}

func (j *JSONRPC) ExecuteKw(ctx context.Context, db string, uid int, password, model, method string, args []any, kwargs map[string]any) (any, error) {
	if args == nil {
		args = []any{}
	}
	if kwargs == nil {
		kwargs = map[string]any{}
	}

	return j.call(ctx, "object", "execute_kw", []any{db, uid, password, model, method, args, kwargs})
}

func (j *JSONRPC) call(ctx context.Context, service, method string, args []any) (any, error) {
	payload, err := json.Marshal(jsonrpcRequest{
		JSONRPC: "2.0",
		Method:  "call",
		Params:  jsonrpcParams{Service: service, Method: method, Args: args},
		ID:      j.counter.Add(1),
	})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, j.url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := j.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("server returned status: %d", resp.StatusCode)
	}

	var out jsonrpcResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if out.Error != nil {
		return nil, out.Error
	}

	return out.Result, nil
}
