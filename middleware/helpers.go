package middleware

import (
	"context"

	"github.com/Dosada05/ranked-hc/auth"
)

type contextKey string

const (
	sessionContextKey contextKey = "admin_session"
	flagsContextKey   contextKey = "admin_flags"
)

// WithSession кладёт сессию и хранилище флагов в контекст запроса.
func WithSession(ctx context.Context, sess *auth.Session, flags auth.FlagStore) context.Context {
	ctx = context.WithValue(ctx, sessionContextKey, sess)
	return context.WithValue(ctx, flagsContextKey, flags)
}

// SessionFromContext returns nil when the Session middleware did not run.
func SessionFromContext(ctx context.Context) *auth.Session {
	sess, _ := ctx.Value(sessionContextKey).(*auth.Session)
	return sess
}

func FlagsFromContext(ctx context.Context) auth.FlagStore {
	flags, _ := ctx.Value(flagsContextKey).(auth.FlagStore)
	return flags
}
