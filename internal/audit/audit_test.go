package audit

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/dropDatabas3/agencyhub/internal/observability/logger"
)

func TestLog_UsesRequestLogger(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	base := zap.New(core).With(logger.RequestID("rid-1"))
	ctx := logger.ToContext(context.Background(), base)

	Log(ctx, EventIdentityLocked, logger.Email("owner@acme.com"))

	require.Equal(t, 1, logs.Len())
	e := logs.All()[0]
	require.Equal(t, "audit", e.LoggerName)
	require.Equal(t, EventIdentityLocked, e.Message)

	fields := e.ContextMap()
	require.Equal(t, "rid-1", fields["request_id"])
	require.Equal(t, EventIdentityLocked, fields["event"])
	require.Equal(t, "o…@a….com", fields["email"])
}
