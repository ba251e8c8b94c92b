package middleware

import (
	"context"

	"github.com/amaldonado/fixpoint-backend/pkg/types"
)

type contextKey string

const ctxSession contextKey = "session"

// WithSession injects the verified caller identity into the context.
func WithSession(ctx context.Context, session types.SessionContext) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxSession, session)
}

// SessionFromContext returns the caller identity seeded by the auth
// middleware. The second return value is false on unauthenticated paths.
func SessionFromContext(ctx context.Context) (types.SessionContext, bool) {
	if ctx == nil {
		return types.SessionContext{}, false
	}
	session, ok := ctx.Value(ctxSession).(types.SessionContext)
	return session, ok
}

func UserIDFromContext(ctx context.Context) string {
	session, ok := SessionFromContext(ctx)
	if !ok {
		return ""
	}
	return session.UserID.String()
}

func OrgIDFromContext(ctx context.Context) string {
	session, ok := SessionFromContext(ctx)
	if !ok || !session.HasActiveOrg() {
		return ""
	}
	return session.OrgID().String()
}
