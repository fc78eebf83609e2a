package finance

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slog"

	"odosight/internal/domain/settings"
	"odosight/internal/erp"
	"odosight/internal/vault"
)

type MockLoader struct {
	mock.Mock
}

func (m *MockLoader) Load(ctx context.Context, userID string) (settings.Credentials, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(settings.Credentials), args.Error(1)
}

type MockAnswerer struct {
	mock.Mock
}

func (m *MockAnswerer) Answer(ctx context.Context, apiKey, question string, data DataContext) (string, error) {
	args := m.Called(ctx, apiKey, question, data)
	return args.String(0), args.Error(1)
}

// fakeTransport отвечает фиксированными строками и считает вызовы
type fakeTransport struct {
	uid     int
	authErr error
	rows    []any
	execErr error
	auths   int
	calls   []string
	kwargs  map[string]any
	domain  []any
	closed  bool
}

func (f *fakeTransport) Authenticate(_ context.Context, _, _, _ string) (int, error) {
	f.auths++
	return f.uid, f.authErr
}

func (f *fakeTransport) Version(_ context.Context) (map[string]any, error) {
	return map[string]any{"server_version": "17.0"}, nil
}

func (f *fakeTransport) ExecuteKw(_ context.Context, _ string, _ int, _, model, method string, args []any, kwargs map[string]any) (any, error) {
	f.calls = append(f.calls, model+"."+method)
	f.kwargs = kwargs
	if len(args) > 0 {
		f.domain, _ = args[0].([]any)
	}
	if f.execErr != nil {
		return nil, f.execErr
	}
	return f.rows, nil
}

func (f *fakeTransport) Close() error {
	f.closed = true
	return nil
}

var testCreds = settings.Credentials{
	ERP: erp.Credentials{
		URL:      "https://company.odoo.com",
		Database: "company",
		Username: "cfo@company.com",
		Password: "api-key",
	},
	AIKey: "AIza-test",
}

var testRows = []any{
	map[string]any{
		"name": "INV/1", "partner_id": []any{1, "Deco Addict"}, "move_type": "out_invoice",
		"invoice_date": "2025-03-01", "amount_total_signed": 1000.0,
	},
	map[string]any{
		"name": "BILL/1", "partner_id": []any{2, "Wood Corner"}, "move_type": "in_invoice",
		"invoice_date": "2025-03-02", "amount_total_signed": -400.0,
	},
}

func newTestService(loader CredentialsLoader, answerer Answerer, transports *[]*fakeTransport, template fakeTransport) *Service {
	dial := func(baseURL string) (erp.Transport, error) {
		tr := template
		*transports = append(*transports, &tr)
		return &tr, nil
	}
	s := NewService(loader, dial, answerer, 30, slog.Default())
	s.now = func() time.Time { return time.Date(2025, 3, 15, 10, 0, 0, 0, time.UTC) }
	return s
}

func TestService_Summary(t *testing.T) {
	loader := new(MockLoader)
	loader.On("Load", mock.Anything, "42").Return(testCreds, nil)

	var transports []*fakeTransport
	s := newTestService(loader, nil, &transports, fakeTransport{uid: 2, rows: testRows})

	summary, err := s.Summary(context.Background(), "42")
	require.NoError(t, err)

	assert.InDelta(t, 1000, summary.Revenue, 0.001)
	assert.InDelta(t, 400, summary.Expenses, 0.001)
	assert.InDelta(t, 600, summary.Net, 0.001)
	assert.Equal(t, 2, summary.InvoiceCount)
	assert.Equal(t, "2025-02-13", summary.From.Format(dateLayout))

	require.Len(t, transports, 1)
	tr := transports[0]
	assert.Equal(t, []string{"account.move.search_read"}, tr.calls)
	assert.Equal(t, 0, tr.kwargs["offset"])
	assert.Equal(t, maxMoves, tr.kwargs["limit"])
	assert.Equal(t, moveFields, tr.kwargs["fields"])
	assert.Contains(t, tr.domain, []any{"invoice_date", ">=", "2025-02-13"})
	assert.True(t, tr.closed)
}

func TestService_AskUsesFreshSessionPerQuery(t *testing.T) {
	loader := new(MockLoader)
	loader.On("Load", mock.Anything, "42").Return(testCreds, nil)

	answerer := new(MockAnswerer)
	answerer.On("Answer", mock.Anything, "AIza-test", "What are my top expenses?",
		mock.MatchedBy(func(d DataContext) bool {
			return len(d.Moves) == 2 && d.Summary.TopExpenses[0].Partner == "Wood Corner"
		})).Return("Wood Corner is your top expense.", nil)

	var transports []*fakeTransport
	s := newTestService(loader, answerer, &transports, fakeTransport{uid: 2, rows: testRows})
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		answer, err := s.Ask(ctx, "42", "What are my top expenses?")
		require.NoError(t, err)
		assert.Equal(t, "Wood Corner is your top expense.", answer)
	}

	require.Len(t, transports, 2)
	for _, tr := range transports {
		assert.Equal(t, 1, tr.auths)
		assert.True(t, tr.closed)
	}
	answerer.AssertExpectations(t)
}

func TestService_ErrorsPropagate(t *testing.T) {
	tests := []struct {
		name     string
		loadErr  error
		template fakeTransport
		want     error
	}{
		{name: "not configured", loadErr: settings.ErrNotConfigured, want: settings.ErrNotConfigured},
		{name: "bad vault", loadErr: vault.ErrDecryptionFailed, want: vault.ErrDecryptionFailed},
		{name: "rejected credentials", template: fakeTransport{uid: 0}, want: erp.ErrConnectionFailed},
		{name: "server down", template: fakeTransport{authErr: errors.New("dial tcp: refused")}, want: erp.ErrConnectionFailed},
		{name: "remote fault", template: fakeTransport{uid: 2, execErr: errors.New("fault")}, want: erp.ErrExecutionFailed},
		{name: "malformed row", template: fakeTransport{uid: 2, rows: []any{map[string]any{"amount_total_signed": "x"}}}, want: erp.ErrExecutionFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loader := new(MockLoader)
			if tt.loadErr != nil {
				loader.On("Load", mock.Anything, "42").Return(settings.Credentials{}, tt.loadErr)
			} else {
				loader.On("Load", mock.Anything, "42").Return(testCreds, nil)
			}
			answerer := new(MockAnswerer)

			var transports []*fakeTransport
			s := newTestService(loader, answerer, &transports, tt.template)

			_, err := s.Ask(context.Background(), "42", "revenue?")
			assert.ErrorIs(t, err, tt.want)
			answerer.AssertNotCalled(t, "Answer", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestService_DialError(t *testing.T) {
	loader := new(MockLoader)
	loader.On("Load", mock.Anything, "42").Return(testCreds, nil)

	dial := func(string) (erp.Transport, error) { return nil, errors.New("bad url") }
	s := NewService(loader, dial, nil, 30, slog.Default())

	_, err := s.Summary(context.Background(), "42")
	assert.ErrorIs(t, err, erp.ErrConnectionFailed)
}
