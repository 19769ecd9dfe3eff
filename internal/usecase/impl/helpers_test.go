package impl

import (
	"io"
	"log/slog"
	"time"

	"voltcart/config"
)

const defaultTestRefreshTTL = 7 * 24 * time.Hour

func newDiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestAuthConfig(maxActiveSessions, passwordHistory int) *config.Config {
	return &config.Config{
		Auth: &config.AuthConfig{
			BcryptCost:        12,
			MaxActiveSessions: maxActiveSessions,
			PasswordHistory:   passwordHistory,
		},
	}
}
