package middlewares

import (
	"errors"
	"net/http"

	"github.com/dropDatabas3/agencyhub/internal/authz"
	httperrors "github.com/dropDatabas3/agencyhub/internal/http/errors"
	"github.com/dropDatabas3/agencyhub/internal/metrics"
	"github.com/dropDatabas3/agencyhub/internal/observability/logger"
)

// Require aplica la regla de la ruta antes del handler. Sin Principal en el
// contexto (ruta pública o auth opcional) la regla no aplica.
func Require(rule authz.Rule, resolve TenantResolver) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, _ := authz.PrincipalFromContext(r.Context())

			var tenantID string
			if resolve != nil {
				tenantID = resolve(r)
			}

			if err := authz.Authorize(p, rule, tenantID); err != nil {
				reason := "forbidden"
				var fe *authz.ForbiddenError
				if errors.As(err, &fe) {
					reason = fe.Reason
				}
				metrics.AuthzDenials.WithLabelValues(reason).Inc()
				logger.From(r.Context()).Info("authorization denied",
					logger.Layer("http"),
					logger.TenantID(tenantID),
					logger.String("reason", reason),
				)
				httperrors.WriteError(w, err)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
