package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Métricas Prometheus de auth. Viven en un paquete aparte para que auth,
// lockout y los paquetes HTTP las usen sin ciclos de import.

var (
	LoginAttempts = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "auth_login_attempts_total",
		Help: "Intentos de login por resultado",
	}, []string{"result"}) // success|invalid|locked|error

	Lockouts = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "auth_lockouts_total",
		Help: "Identidades bloqueadas por exceso de intentos fallidos",
	})

	RefreshRotations = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "auth_refresh_rotations_total",
		Help: "Rotaciones de refresh token por resultado",
	}, []string{"result"}) // rotated|rejected|error

	Signups = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "auth_signups_total",
		Help: "Altas de agencia por flujo",
	}, []string{"flow"}) // direct|invite

	AuthzDenials = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "authz_denials_total",
		Help: "Requests rechazadas por el guard de autorización",
	}, []string{"reason"})

	ExpiredTokensDeleted = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "auth_refresh_tokens_cleaned_total",
		Help: "Refresh tokens vencidos eliminados por el cleanup",
	})
)

// RegisterAuth registra las métricas en reg (o en el default si es nil).
func RegisterAuth(reg prometheus.Registerer) error {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	for _, c := range []prometheus.Collector{
		LoginAttempts, Lockouts, RefreshRotations, Signups, AuthzDenials, ExpiredTokensDeleted,
	} {
		if err := reg.Register(c); err != nil {
			if _, ok := err.(prometheus.AlreadyRegisteredError); !ok {
				return err
			}
		}
	}
	return nil
}
