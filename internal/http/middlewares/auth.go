package middlewares

import (
	"net/http"
	"strings"

	"github.com/dropDatabas3/agencyhub/internal/authz"
	httperrors "github.com/dropDatabas3/agencyhub/internal/http/errors"
	"github.com/dropDatabas3/agencyhub/internal/observability/logger"
)

// TokenVerifier valida un access token y devuelve el Principal.
type TokenVerifier interface {
	Verify(token string) (authz.Principal, error)
}

// RequireAuth exige un Bearer token válido y deja el Principal en el contexto.
func RequireAuth(v TokenVerifier) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, ok := bearerToken(r)
			if !ok {
				httperrors.WriteError(w, httperrors.ErrUnauthorized.WithDetail("missing bearer token"))
				return
			}
			p, err := v.Verify(raw)
			if err != nil {
				logger.From(r.Context()).Debug("access token rejected", logger.Layer("http"), logger.Err(err))
				httperrors.WriteError(w, err)
				return
			}

			ctx := authz.ContextWithPrincipal(r.Context(), p)
			ctx = logger.ToContext(ctx, logger.From(ctx).With(
				logger.UserID(p.SubjectID),
				logger.Role(string(p.Role)),
			))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	h := strings.TrimSpace(r.Header.Get("Authorization"))
	scheme, tok, found := strings.Cut(h, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	tok = strings.TrimSpace(tok)
	return tok, tok != ""
}
