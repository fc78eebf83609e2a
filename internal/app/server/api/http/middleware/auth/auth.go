package auth

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"
	"golang.org/x/exp/slog"
)

// Auth проверяет статический bearer-токен сервиса.
type Auth struct {
	token []byte
	log   *slog.Logger
}

// New создает проверку токена. С пустым токеном API открыт.
func New(token string, log *slog.Logger) *Auth {
	return &Auth{
		token: []byte(token),
		log:   log.With(slog.String("component", "auth_middleware")),
	}
}

func (a *Auth) Enabled() bool {
	return len(a.token) > 0
}

// Middleware возвращает middleware для Huma с сигнатурой func(ctx Context, next func(Context))
func (a *Auth) Middleware() func(huma.Context, func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		if !a.Enabled() {
			next(ctx)
			return
		}

		header := ctx.Header("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || subtle.ConstantTimeCompare([]byte(token), a.token) != 1 {
			a.log.Warn("unauthorized request",
				slog.String("path", ctx.URL().Path),
				slog.Bool("bearer", ok),
			)
			unauthorized(ctx, a.log)
			return
		}

		next(ctx)
	}
}

func unauthorized(ctx huma.Context, log *slog.Logger) {
	ctx.SetHeader("WWW-Authenticate", "Bearer")
	ctx.SetHeader("Content-Type", "application/json")
	ctx.SetStatus(http.StatusUnauthorized)

	err := json.NewEncoder(ctx.BodyWriter()).Encode(map[string]string{
		"error": "Unauthorized",
	})
	if err != nil {
		log.Error("json encode", slog.String("error", err.Error()))
	}
}
