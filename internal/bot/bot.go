package bot

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"golang.org/x/exp/slog"

	"odosight/internal/domain/finance"
	"odosight/internal/domain/settings"
	"odosight/internal/metrics"
)

const (
	kindCommand = "command"
	kindWizard  = "wizard"
	kindQuery   = "query"
)

// CredentialStore - часть сервиса настроек, нужная боту.
type CredentialStore interface {
	Save(ctx context.Context, userID string, draft settings.Draft) error
	Forget(ctx context.Context, userID string) error
}

// Bot - диалог с пользователем, независимый от транспорта (HTTP, терминал).
type Bot struct {
	settings CredentialStore
	finance  finance.Servicer
	timeout  time.Duration
	days     int
	log      *slog.Logger

	mu      sync.Mutex
	wizards map[string]*settings.Wizard
}

// New создает бота. lookbackDays - длина окна /summary в днях.
func New(store CredentialStore, fin finance.Servicer, timeout time.Duration, lookbackDays int, log *slog.Logger) *Bot {
	return &Bot{
		settings: store,
		finance:  fin,
		timeout:  timeout,
		days:     lookbackDays,
		log:      log.With(slog.String("component", "bot")),
		wizards:  make(map[string]*settings.Wizard),
	}
}

// Handle обрабатывает одно сообщение и возвращает ответы по порядку.
func (b *Bot) Handle(ctx context.Context, userID, text string) []string {
	trimmed := strings.TrimSpace(text)
	if strings.HasPrefix(trimmed, "/") {
		metrics.ChatMessages.WithLabelValues(kindCommand).Inc()
		return b.command(ctx, userID, trimmed)
	}

	// мастер сам решает, какие пробелы значимы
	if reply, draft, active := b.advance(userID, text); active {
		metrics.ChatMessages.WithLabelValues(kindWizard).Inc()
		if draft == nil {
			return []string{reply}
		}
		return b.finishSetup(ctx, userID, *draft)
	}

	metrics.ChatMessages.WithLabelValues(kindQuery).Inc()
	return b.query(ctx, userID, trimmed)
}

// AwaitingSecret сообщает, что следующий ответ пользователя - пароль или ключ.
func (b *Bot) AwaitingSecret(userID string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	w, ok := b.wizards[userID]
	return ok && w.Secret()
}

func (b *Bot) command(ctx context.Context, userID, text string) []string {
	name := strings.Fields(text)[0]
	// команды в группах приходят как /summary@botname
	if i := strings.IndexByte(name, '@'); i > 0 {
		name = name[:i]
	}

	switch name {
	case "/start", "/help":
		return []string{fmt.Sprintf(msgWelcome, b.days)}
	case "/setup":
		w := settings.NewWizard()
		b.setWizard(userID, w)
		b.log.Debug("setup started", slog.String("user_id", userID))
		return []string{w.Prompt()}
	case "/cancel":
		b.dropWizard(userID)
		return []string{msgCancelled}
	case "/reset":
		b.dropWizard(userID)
		if err := b.settings.Forget(ctx, userID); err != nil {
			return []string{b.fail(userID, "reset", err)}
		}
		return []string{msgReset}
	case "/summary":
		return b.summary(ctx, userID)
	default:
		return []string{msgUnknown}
	}
}

// advance передает ответ активному мастеру. draft заполнен, когда мастер завершен.
func (b *Bot) advance(userID, text string) (reply string, draft *settings.Draft, active bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	w, ok := b.wizards[userID]
	if !ok {
		return "", nil, false
	}

	done, err := w.Submit(text)
	if err != nil {
		return fmt.Sprintf(msgInvalidInput, w.Prompt()), nil, true
	}
	if !done {
		return w.Prompt(), nil, true
	}

	delete(b.wizards, userID)
	d, err := w.Draft()
	if err != nil {
		return msgInternal, nil, true
	}
	return "", &d, true
}

func (b *Bot) finishSetup(ctx context.Context, userID string, draft settings.Draft) []string {
	if err := b.settings.Save(ctx, userID, draft); err != nil {
		return []string{b.fail(userID, "setup", err)}
	}

	b.log.Info("setup complete", slog.String("user_id", userID))
	return []string{msgSetupDone}
}

func (b *Bot) summary(ctx context.Context, userID string) []string {
	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	progress := fmt.Sprintf(msgFetching, b.days)
	s, err := b.finance.Summary(ctx, userID)
	if err != nil {
		return b.progressOrFail(userID, "summary", progress, err)
	}
	return []string{progress, formatSummary(s)}
}

func (b *Bot) query(ctx context.Context, userID, text string) []string {
	if text == "" {
		return []string{msgEmptyQuestion}
	}

	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	answer, err := b.finance.Ask(ctx, userID, text)
	if err != nil {
		return b.progressOrFail(userID, "query", msgThinking, err)
	}
	return []string{msgThinking, answer}
}

// progressOrFail: без настроек пользователь видит только просьбу пройти /setup.
func (b *Bot) progressOrFail(userID, op, progress string, err error) []string {
	msg := b.fail(userID, op, err)
	if msg == msgNotConfigured {
		return []string{msg}
	}
	return []string{progress, msg}
}

func (b *Bot) fail(userID, op string, err error) string {
	msg := errorMessage(err)
	if msg == msgNotConfigured {
		b.log.Debug(op+" without settings", slog.String("user_id", userID))
	} else {
		b.log.Error(op+" failed", slog.String("user_id", userID), slog.String("error", err.Error()))
	}
	return msg
}

func (b *Bot) setWizard(userID string, w *settings.Wizard) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.wizards[userID] = w
}

func (b *Bot) dropWizard(userID string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.wizards, userID)
}
