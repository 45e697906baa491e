package rate

import (
	"context"
	"math"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
	xrate "golang.org/x/time/rate"
)

// MemoryLimiter: token bucket por clave, local al proceso. Las claves inactivas
// expiran solas, así que la cantidad de IPs vistas no crece sin límite.
type MemoryLimiter struct {
	rps   xrate.Limit
	burst int
	idle  time.Duration

	mu      sync.Mutex
	buckets *gocache.Cache
}

func NewMemoryLimiter(rps float64, burst int) *MemoryLimiter {
	if rps <= 0 {
		rps = 5
	}
	if burst <= 0 {
		burst = 10
	}
	// un bucket lleno a los idle se puede descartar sin cambiar el resultado
	idle := time.Duration(math.Ceil(float64(burst)/rps)) * time.Second
	if idle < time.Minute {
		idle = time.Minute
	}
	return &MemoryLimiter{
		rps:     xrate.Limit(rps),
		burst:   burst,
		idle:    idle,
		buckets: gocache.New(idle, 2*idle),
	}
}

func (l *MemoryLimiter) bucket(key string) *xrate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()
	if v, ok := l.buckets.Get(key); ok {
		lim := v.(*xrate.Limiter)
		l.buckets.Set(key, lim, l.idle) // refresca TTL
		return lim
	}
	lim := xrate.NewLimiter(l.rps, l.burst)
	l.buckets.Set(key, lim, l.idle)
	return lim
}

func (l *MemoryLimiter) Allow(_ context.Context, key string) (Result, error) {
	lim := l.bucket(key)
	now := time.Now()
	r := lim.ReserveN(now, 1)
	if d := r.DelayFrom(now); d > 0 {
		r.CancelAt(now)
		return Result{Allowed: false, RetryAfter: d}, nil
	}
	return Result{Allowed: true, Remaining: int64(lim.TokensAt(now))}, nil
}
