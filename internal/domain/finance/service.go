package finance

import (
	"context"
	"fmt"
	"io"
	"time"

	"golang.org/x/exp/slog"

	"odosight/internal/domain/settings"
	"odosight/internal/erp"
)

// Answerer отвечает на вопрос по данным ERP. Ключ передается на каждый запрос.
type Answerer interface {
	Answer(ctx context.Context, apiKey, question string, data DataContext) (string, error)
}

// CredentialsLoader - источник расшифрованных учетных данных.
type CredentialsLoader interface {
	Load(ctx context.Context, userID string) (settings.Credentials, error)
}

// TransportFactory создает транспорт к серверу ERP пользователя.
type TransportFactory func(baseURL string) (erp.Transport, error)

type Servicer interface {
	Ask(ctx context.Context, userID, question string) (string, error)
	Summary(ctx context.Context, userID string) (Summary, error)
}

// Service выполняет запросы пользователя. Каждый запрос открывает новую сессию ERP,
// между запросами ничего не кэшируется.
type Service struct {
	creds    CredentialsLoader
	dial     TransportFactory
	answerer Answerer
	lookback time.Duration
	log      *slog.Logger
	now      func() time.Time
}

func NewService(creds CredentialsLoader, dial TransportFactory, answerer Answerer, lookbackDays int, log *slog.Logger) *Service {
	return &Service{
		creds:    creds,
		dial:     dial,
		answerer: answerer,
		lookback: time.Duration(lookbackDays) * 24 * time.Hour,
		log:      log.With(slog.String("component", "finance")),
		now:      time.Now,
	}
}

// Summary считает сводку за последние дни.
func (s *Service) Summary(ctx context.Context, userID string) (Summary, error) {
	creds, err := s.creds.Load(ctx, userID)
	if err != nil {
		return Summary{}, err
	}

	data, err := s.collect(ctx, creds.ERP)
	if err != nil {
		return Summary{}, err
	}
	return data.Summary, nil
}

// Ask собирает данные за период и передает вопрос модели.
func (s *Service) Ask(ctx context.Context, userID, question string) (string, error) {
	creds, err := s.creds.Load(ctx, userID)
	if err != nil {
		return "", err
	}

	data, err := s.collect(ctx, creds.ERP)
	if err != nil {
		return "", err
	}

	start := s.now()
	answer, err := s.answerer.Answer(ctx, creds.AIKey, question, data)
	if err != nil {
		return "", fmt.Errorf("answer question: %w", err)
	}

	s.log.Info("question answered",
		slog.String("user_id", userID),
		slog.Int("moves", len(data.Moves)),
		slog.Duration("llm_duration", s.now().Sub(start)),
	)
	return answer, nil
}

func (s *Service) collect(ctx context.Context, creds erp.Credentials) (DataContext, error) {
	tr, err := s.dial(creds.URL)
	if err != nil {
		return DataContext{}, fmt.Errorf("%w: %w", erp.ErrConnectionFailed, err)
	}
	if c, ok := tr.(io.Closer); ok {
		defer c.Close()
	}

	session := erp.NewSession(tr, creds, s.log)

	to := s.now().UTC()
	from := to.Add(-s.lookback)

	rows, err := session.SearchRead(ctx, moveModel, movesDomain(from), movesOptions())
	if err != nil {
		return DataContext{}, err
	}

	moves := make([]Move, 0, len(rows))
	for _, row := range rows {
		m, err := moveFromRow(row)
		if err != nil {
			return DataContext{}, fmt.Errorf("%w: %w", erp.ErrExecutionFailed, err)
		}
		moves = append(moves, m)
	}

	return DataContext{
		Summary: Summarize(moves, from, to),
		Moves:   moves,
	}, nil
}
