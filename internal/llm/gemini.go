package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/exp/slog"

	"odosight/internal/domain/finance"
)

var (
	ErrMissingKey    = errors.New("ai key is empty")
	ErrEmptyResponse = errors.New("model returned no text")
)

const systemPrompt = `You are OdoSight, a financial analyst for a company that runs Odoo ERP.
Answer the user's question using only the JSON data provided. Amounts are in the company currency.
Be concise, name concrete partners and figures, and say so plainly when the data cannot answer the question.`

// Gemini - клиент REST API generateContent. Ключ передается на каждый вызов,
// клиент не хранит ключи пользователей.
type Gemini struct {
	client  *http.Client
	baseURL string
	model   string
	log     *slog.Logger
}

var _ finance.Answerer = (*Gemini)(nil)

func NewGemini(baseURL, model string, client *http.Client, log *slog.Logger) *Gemini {
	if client == nil {
		client = http.DefaultClient
	}
	return &Gemini{
		client:  client,
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   model,
		log:     log.With(slog.String("component", "llm"), slog.String("model", model)),
	}
}

type part struct {
	Text string `json:"text"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type generateRequest struct {
	SystemInstruction *content  `json:"systemInstruction,omitempty"`
	Contents          []content `json:"contents"`
}

type generateResponse struct {
	Candidates []struct {
		Content      content `json:"content"`
		FinishReason string  `json:"finishReason"`
	} `json:"candidates"`
	Error *apiError `json:"error"`
}

type apiError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Status  string `json:"status"`
}

func (e *apiError) Error() string {
	return fmt.Sprintf("gemini %d %s: %s", e.Code, e.Status, e.Message)
}

// Answer отправляет вопрос вместе с данными ERP и возвращает текст ответа.
func (g *Gemini) Answer(ctx context.Context, apiKey, question string, data finance.DataContext) (string, error) {
	if apiKey == "" {
		return "", ErrMissingKey
	}

	payload, err := json.Marshal(data)
	if err != nil {
		return "", fmt.Errorf("marshal data context: %w", err)
	}

	req := generateRequest{
		SystemInstruction: &content{Parts: []part{{Text: systemPrompt}}},
		Contents: []content{{
			Role: "user",
			Parts: []part{
				{Text: "ERP data:\n" + string(payload)},
				{Text: "Question: " + question},
			},
		}},
	}

	return g.generate(ctx, apiKey, req)
}

func (g *Gemini) generate(ctx context.Context, apiKey string, body generateRequest) (string, error) {
	raw, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/models/%s:generateContent", g.baseURL, url.PathEscape(g.model))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(raw))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", apiKey)

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	var out generateResponse
	if err := json.Unmarshal(respBody, &out); err != nil {
		return "", fmt.Errorf("decode response (status %d): %w", resp.StatusCode, err)
	}
	if out.Error != nil {
		g.log.Warn("generateContent failed", slog.Int("status", resp.StatusCode), slog.String("reason", out.Error.Status))
		return "", out.Error
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("gemini status %d", resp.StatusCode)
	}

	var sb strings.Builder
	for _, c := range out.Candidates {
		for _, p := range c.Content.Parts {
			sb.WriteString(p.Text)
		}
		if sb.Len() > 0 {
			break
		}
	}
	if sb.Len() == 0 {
		return "", ErrEmptyResponse
	}

	return strings.TrimSpace(sb.String()), nil
}
