package erp

import (
	"context"
	"fmt"

	"golang.org/x/exp/slog"

	"odosight/internal/metrics"
)

// Credentials - расшифрованные данные подключения к ERP.
type Credentials struct {
	URL      string
	Database string
	Username string
	Password string
}

// SearchReadOptions - необязательные параметры search_read. Нулевые значения не передаются,
// кроме offset, который передается всегда.
type SearchReadOptions struct {
	Fields []string
	Limit  int
	Offset int
	Order  string
}

var defaultFieldAttributes = []string{"string", "help", "type", "relation"}

// Session - сессия только-для-чтения к ERP. Аутентификация ленивая, при первом вызове.
// Сессия не потокобезопасна: одна сессия на один запрос пользователя.
type Session struct {
	transport Transport
	policy    AllowList
	creds     Credentials
	uid       int
	log       *slog.Logger
}

func NewSession(transport Transport, creds Credentials, log *slog.Logger) *Session {
	return &Session{
		transport: transport,
		policy:    ReadOnly,
		creds:     creds,
		log:       log.With(slog.String("component", "erp_session"), slog.String("db", creds.Database)),
	}
}

func (s *Session) Authenticated() bool {
	return s.uid != 0
}

func (s *Session) UID() int {
	return s.uid
}

// Authenticate проверяет учетные данные. При отказе сессия остается неаутентифицированной.
func (s *Session) Authenticate(ctx context.Context) error {
	uid, err := s.transport.Authenticate(ctx, s.creds.Database, s.creds.Username, s.creds.Password)
	if err != nil {
		s.log.Warn("authenticate failed", slog.String("error", err.Error()))
		return fmt.Errorf("%w: %w", ErrConnectionFailed, err)
	}
	if uid == 0 {
		s.log.Warn("credentials rejected", slog.String("user", s.creds.Username))
		return fmt.Errorf("%w: credentials rejected for %s", ErrConnectionFailed, s.creds.Username)
	}

	s.uid = uid
	s.log.Debug("authenticated", slog.Int("uid", uid))
	return nil
}

// Call выполняет execute_kw. Политика проверяется до любого ввода-вывода.
func (s *Session) Call(ctx context.Context, model, method string, args []any, kwargs map[string]any) (any, error) {
	if !s.policy.Allowed(method) {
		metrics.ERPCalls.WithLabelValues(method, metrics.OutcomeAccessDenied).Inc()
		s.log.Warn("method denied", slog.String("model", model), slog.String("method", method))
		return nil, fmt.Errorf("%w: method %q is restricted in read-only mode", ErrAccessDenied, method)
	}

	if !s.Authenticated() {
		if err := s.Authenticate(ctx); err != nil {
			metrics.ERPCalls.WithLabelValues(method, metrics.OutcomeConnectionFailed).Inc()
			return nil, err
		}
	}

	result, err := s.transport.ExecuteKw(ctx, s.creds.Database, s.uid, s.creds.Password, model, method, args, kwargs)
	if err != nil {
		metrics.ERPCalls.WithLabelValues(method, metrics.OutcomeExecutionFailed).Inc()
		s.log.Error("execute_kw failed",
			slog.String("model", model),
			slog.String("method", method),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("%w: %s.%s: %w", ErrExecutionFailed, model, method, err)
	}

	metrics.ERPCalls.WithLabelValues(method, metrics.OutcomeOK).Inc()
	return result, nil
}

// SearchRead вызывает search_read и приводит результат к списку строк.
func (s *Session) SearchRead(ctx context.Context, model string, domain []any, opts SearchReadOptions) ([]map[string]any, error) {
	if domain == nil {
		domain = []any{}
	}

	kwargs := map[string]any{"offset": opts.Offset}
	if len(opts.Fields) > 0 {
		kwargs["fields"] = opts.Fields
	}
	if opts.Limit > 0 {
		kwargs["limit"] = opts.Limit
	}
	if opts.Order != "" {
		kwargs["order"] = opts.Order
	}

	result, err := s.Call(ctx, model, "search_read", []any{domain}, kwargs)
	if err != nil {
		return nil, err
	}

	return rowsFrom(result)
}

// FieldsGet описывает поля модели. Пустой attributes означает string, help, type, relation.
func (s *Session) FieldsGet(ctx context.Context, model string, attributes []string) (map[string]any, error) {
	if len(attributes) == 0 {
		attributes = defaultFieldAttributes
	}

	result, err := s.Call(ctx, model, "fields_get", nil, map[string]any{"attributes": attributes})
	if err != nil {
		return nil, err
	}

	fields, ok := result.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: unexpected fields_get result type %T", ErrExecutionFailed, result)
	}
	return fields, nil
}

// Version запрашивает сведения о сервере, аутентификация не нужна.
func (s *Session) Version(ctx context.Context) (map[string]any, error) {
	info, err := s.transport.Version(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConnectionFailed, err)
	}
	return info, nil
}

// Create, Write и Unlink всегда запрещены.
func (s *Session) Create(_ context.Context, model string, _ map[string]any) (int, error) {
	return 0, fmt.Errorf("%w: create on %s (read-only mode)", ErrAccessDenied, model)
}

func (s *Session) Write(_ context.Context, model string, _ []int, _ map[string]any) error {
	return fmt.Errorf("%w: write on %s (read-only mode)", ErrAccessDenied, model)
}

func (s *Session) Unlink(_ context.Context, model string, _ []int) error {
	return fmt.Errorf("%w: delete on %s (read-only mode)", ErrAccessDenied, model)
}

func rowsFrom(result any) ([]map[string]any, error) {
	list, ok := result.([]any)
	if !ok {
		if result == nil {
			return []map[string]any{}, nil
		}
		return nil, fmt.Errorf("%w: unexpected search_read result type %T", ErrExecutionFailed, result)
	}

	rows := make([]map[string]any, 0, len(list))
	for i, item := range list {
		row, ok := item.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: row %d has type %T", ErrExecutionFailed, i, item)
		}
		rows = append(rows, row)
	}

	return rows, nil
}
