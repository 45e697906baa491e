// Package audit emite eventos de seguridad (alta de agencia, bloqueos,
// revocaciones) por un logger dedicado "audit", separable en el pipeline de logs.
package audit

import (
	"context"

	"go.uber.org/zap"

	"github.com/dropDatabas3/agencyhub/internal/observability/logger"
)

const (
	EventAgencyCreated   = "agency.created"
	EventInviteCreated   = "agency.invite_created"
	EventIdentityLocked  = "login.locked"
	EventSessionsRevoked = "session.revoked_all"
	EventRefreshReplay   = "refresh.replay"
)

// Log escribe el evento con los campos del logger del request (request_id, etc).
func Log(ctx context.Context, event string, fields ...zap.Field) {
	logger.From(ctx).Named("audit").Info(event, append(fields, zap.String("event", event))...)
}
