package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slog"

	"odosight/internal/domain/finance"
)

func TestGemini_Answer(t *testing.T) {
	var got generateRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1beta/models/gemini-2.0-flash:generateContent", r.URL.Path)
		assert.Equal(t, "user-key", r.Header.Get("x-goog-api-key"))
		assert.Empty(t, r.URL.Query().Get("key"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		_, _ = w.Write([]byte(`{"candidates":[{"content":{"role":"model","parts":[{"text":"Revenue is 1000. "}]},"finishReason":"STOP"}]}`))
	}))
	defer srv.Close()

	g := NewGemini(srv.URL+"/v1beta/", "gemini-2.0-flash", srv.Client(), slog.Default())
	data := finance.DataContext{Summary: finance.Summary{Revenue: 1000}}

	answer, err := g.Answer(context.Background(), "user-key", "What is my revenue?", data)
	require.NoError(t, err)
	assert.Equal(t, "Revenue is 1000.", answer)

	require.NotNil(t, got.SystemInstruction)
	require.Len(t, got.Contents, 1)
	require.Len(t, got.Contents[0].Parts, 2)
	assert.Contains(t, got.Contents[0].Parts[0].Text, `"revenue":1000`)
	assert.Equal(t, "Question: What is my revenue?", got.Contents[0].Parts[1].Text)
}

func TestGemini_Errors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr string
	}{
		{name: "api error", status: http.StatusBadRequest, body: `{"error":{"code":400,"message":"API key not valid","status":"INVALID_ARGUMENT"}}`, wantErr: "API key not valid"},
		{name: "no candidates", status: http.StatusOK, body: `{"candidates":[]}`, wantErr: ErrEmptyResponse.Error()},
		{name: "not json", status: http.StatusBadGateway, body: `<html>bad gateway</html>`, wantErr: "status 502"},
		{name: "bare status", status: http.StatusServiceUnavailable, body: `{}`, wantErr: "status 503"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			g := NewGemini(srv.URL, "m", srv.Client(), slog.Default())
			_, err := g.Answer(context.Background(), "k", "q", finance.DataContext{})
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestGemini_MissingKey(t *testing.T) {
	g := NewGemini("http://unused", "m", nil, slog.Default())

	_, err := g.Answer(context.Background(), "", "q", finance.DataContext{})
	assert.ErrorIs(t, err, ErrMissingKey)
}
