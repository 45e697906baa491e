package rate

import (
	"context"
	"os"
	"strconv"
	"testing"
	"time"

	rdb "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func TestMemoryLimiter_BurstThenDeny(t *testing.T) {
	ctx := context.Background()
	l := NewMemoryLimiter(1, 3)

	for i := 0; i < 3; i++ {
		res, err := l.Allow(ctx, "1.2.3.4")
		require.NoError(t, err)
		require.True(t, res.Allowed, "hit %d", i)
	}
	res, err := l.Allow(ctx, "1.2.3.4")
	require.NoError(t, err)
	require.False(t, res.Allowed)
	require.Greater(t, res.RetryAfter, time.Duration(0))
	require.LessOrEqual(t, res.RetryAfter, time.Second)

	// otra clave tiene su propio bucket
	res, err = l.Allow(ctx, "5.6.7.8")
	require.NoError(t, err)
	require.True(t, res.Allowed)
}

func TestMemoryLimiter_DeniedDoesNotConsume(t *testing.T) {
	ctx := context.Background()
	l := NewMemoryLimiter(1000, 1)

	res, _ := l.Allow(ctx, "k")
	require.True(t, res.Allowed)
	require.Eventually(t, func() bool {
		res, _ := l.Allow(ctx, "k")
		return res.Allowed
	}, time.Second, 2*time.Millisecond)
}

func TestMemoryLimiter_Defaults(t *testing.T) {
	l := NewMemoryLimiter(0, 0)
	require.Equal(t, 10, l.burst)
	require.GreaterOrEqual(t, l.idle, time.Minute)
}

func TestRedisLimiter_KeyIncludesWindow(t *testing.T) {
	l := NewRedisLimiter(nil, "app:", 5, time.Minute)
	ws := time.Unix(1700000000, 0).Truncate(time.Minute)
	require.Equal(t, "app:rl:a_b:"+strconv.FormatInt(ws.UnixMilli(), 10), l.key("a b", ws))
}

// Necesita un Redis accesible; se saltea si RATE_TEST_REDIS_ADDR no está.
func TestRedisLimiter_FixedWindow(t *testing.T) {
	addr := os.Getenv("RATE_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("RATE_TEST_REDIS_ADDR not set")
	}
	client := rdb.NewClient(&rdb.Options{Addr: addr})
	t.Cleanup(func() { _ = client.Close() })

	l := NewRedisLimiter(client, "test:"+time.Now().Format("150405.000")+":", 2, time.Minute)
	fixed := time.Now()
	l.now = func() time.Time { return fixed }

	ctx := context.Background()
	for i := 0; i < 2; i++ {
		res, err := l.Allow(ctx, "ip")
		require.NoError(t, err)
		require.True(t, res.Allowed)
	}
	res, err := l.Allow(ctx, "ip")
	require.NoError(t, err)
	require.False(t, res.Allowed)
	require.Greater(t, res.RetryAfter, time.Duration(0))
}

func TestWindowFor(t *testing.T) {
	require.Equal(t, time.Second, WindowFor(0, 10))
	require.Equal(t, time.Second, WindowFor(10, 5))
	require.Equal(t, 10*time.Second, WindowFor(0.5, 5))
	require.Equal(t, 20*time.Second, WindowFor(1, 20))
}
