package middleware

import (
	"net/http"
	"strings"

	"github.com/amaldonado/fixpoint-backend/api/responses"
	pkgauth "github.com/amaldonado/fixpoint-backend/pkg/auth"
	"github.com/amaldonado/fixpoint-backend/pkg/auth/session"
	"github.com/amaldonado/fixpoint-backend/pkg/config"
	pkgerrors "github.com/amaldonado/fixpoint-backend/pkg/errors"
	"github.com/amaldonado/fixpoint-backend/pkg/logger"
	"github.com/amaldonado/fixpoint-backend/pkg/types"
)

// Auth validates a bearer token and seeds the request context with the
// caller's session.
func Auth(cfg config.JWTConfig, verifier session.AccessSessionChecker, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := strings.TrimSpace(r.Header.Get("Authorization"))
			if raw == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			token := raw
			if strings.HasPrefix(strings.ToLower(token), "bearer ") {
				token = strings.TrimSpace(token[7:])
			}
			if token == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			claims, err := pkgauth.ParseAccessToken(cfg, token)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token"))
				return
			}

			if claims.ID == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing session id"))
				return
			}

			if verifier != nil {
				ok, err := verifier.HasSession(r.Context(), claims.ID)
				if err != nil {
					responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "validate session"))
					return
				}
				if !ok {
					responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "session unavailable"))
					return
				}
			}

			sessionCtx := types.SessionContext{
				UserID:      claims.UserID,
				AccountRole: claims.AccountRole,
				ActiveOrgID: claims.ActiveOrgID,
				Role:        claims.Role,
			}
			ctx := WithSession(r.Context(), sessionCtx)

			if logg != nil {
				fields := map[string]any{
					"user_id":      claims.UserID.String(),
					"account_role": string(claims.AccountRole),
				}
				if sessionCtx.HasActiveOrg() {
					fields["org_id"] = sessionCtx.OrgID().String()
					fields["role"] = string(claims.Role)
				}
				ctx = logg.WithFields(ctx, fields)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
