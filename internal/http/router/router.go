// Package router arma el árbol de rutas chi de la API.
package router

import (
	"net/http"
	"net/netip"

	"github.com/go-chi/chi/v5"

	"github.com/dropDatabas3/agencyhub/internal/authz"
	"github.com/dropDatabas3/agencyhub/internal/domain/repository"
	"github.com/dropDatabas3/agencyhub/internal/http/controllers"
	httperrors "github.com/dropDatabas3/agencyhub/internal/http/errors"
	mw "github.com/dropDatabas3/agencyhub/internal/http/middlewares"
	"github.com/dropDatabas3/agencyhub/internal/rate"
)

// TenantHeader permite indicar el tenant objetivo en rutas sin {tenantID}.
const TenantHeader = "X-Tenant-ID"

// Deps son las piezas ya construidas que el router conecta.
type Deps struct {
	Auth     controllers.AuthService
	Tenants  controllers.TenantReader
	Verifier mw.TokenVerifier
	// Limiter nil desactiva el rate limit.
	Limiter rate.Limiter
	// Metrics es el handler de /metrics; nil no expone la ruta.
	Metrics http.Handler
	Checks  map[string]controllers.Pinger
	// TrustedProxies habilita X-Forwarded-For / X-Real-IP para esas redes.
	TrustedProxies []netip.Prefix
}

// tenantRead: staff de la agencia dueña, o superadmin.
var tenantRead = authz.Roles(
	repository.RoleSuperAdmin,
	repository.RoleAgencyAdmin,
	repository.RoleAgent,
).Owned()

// New devuelve el handler raíz con los middlewares globales aplicados.
func New(d Deps) http.Handler {
	authCtl := controllers.NewAuthController(d.Auth)
	tenantCtl := controllers.NewTenantsController(d.Tenants)
	healthCtl := controllers.NewHealthController(d.Checks)

	r := chi.NewRouter()
	r.Use(
		mw.WithRecover(),
		mw.WithRequestID(),
		mw.WithClientIP(d.TrustedProxies),
		mw.WithLogging(),
		mw.WithMetrics(),
		mw.WithSecurityHeaders(),
	)
	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		httperrors.WriteError(w, httperrors.ErrNotFound)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		httperrors.WriteError(w, httperrors.ErrBadRequest.WithDetail("method not allowed"))
	})

	r.Get("/healthz", healthCtl.Healthz)
	r.Get("/readyz", healthCtl.Readyz)
	if d.Metrics != nil {
		r.Handle("/metrics", d.Metrics)
	}

	requireAuth := mw.RequireAuth(d.Verifier)

	r.Route("/v1/auth", func(r chi.Router) {
		r.Use(mw.WithNoStore())

		r.Group(func(r chi.Router) {
			r.Use(mw.WithRateLimit(mw.RateLimitConfig{Limiter: d.Limiter}))
			r.Post("/signup", authCtl.Signup)
			r.Post("/login", authCtl.Login)
			r.Post("/refresh", authCtl.Refresh)
			r.Post("/logout", authCtl.Logout)
		})

		r.Group(func(r chi.Router) {
			r.Use(requireAuth)
			r.Post("/logout-all", authCtl.LogoutAll)
			r.Get("/me", authCtl.Me)
		})
	})

	r.Route("/v1/tenants/{tenantID}", func(r chi.Router) {
		r.Use(requireAuth)
		r.With(mw.Require(tenantRead, mw.ChainResolvers(
			mw.URLParamResolver("tenantID"),
			mw.HeaderResolver(TenantHeader),
		))).Get("/", tenantCtl.Get)
	})

	return r
}
