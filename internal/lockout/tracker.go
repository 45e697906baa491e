// Package lockout cuenta logins fallidos por identidad y la bloquea después
// de demasiadas fallas consecutivas.
//
// Por identidad (email, sin distinguir mayúsculas):
//
//	clean ──fail──▶ accumulating ──fail (count ≥ max)──▶ locked
//	  ▲                  │                                 │
//	  └──── reset ───────┴──── lock expired (IsLocked) ────┘
//
// El fin de un bloqueo es perezoso: el registro se borra la próxima vez que
// IsLocked lo mira. No hay timer de fondo.
package lockout

import (
	"context"
	"strings"
	"time"

	"github.com/dropDatabas3/agencyhub/internal/metrics"
	"github.com/dropDatabas3/agencyhub/internal/observability/logger"
)

const (
	DefaultMaxAttempts = 5
	DefaultDuration    = 15 * time.Minute
)

type Options struct {
	MaxAttempts int
	Duration    time.Duration
	// Now es inyectable para tests; el tracker deriva de él todos los TTL.
	Now func() time.Time
}

// Status describe la identidad después de registrar una falla.
type Status struct {
	Count             int
	RemainingAttempts int
	Locked            bool
	LockedFor         time.Duration
}

// Tracker implementa la máquina de estados sobre un Store. Los errores del
// store se loguean y cuentan como "limpio": un store caído no bloquea logins.
type Tracker struct {
	store    Store
	max      int
	duration time.Duration
	now      func() time.Time
}

// NewTracker: opciones en cero toman los defaults.
func NewTracker(store Store, opts Options) *Tracker {
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = DefaultMaxAttempts
	}
	if opts.Duration <= 0 {
		opts.Duration = DefaultDuration
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Tracker{store: store, max: opts.MaxAttempts, duration: opts.Duration, now: opts.Now}
}

func (t *Tracker) MaxAttempts() int { return t.max }

// Key normaliza un email a clave del tracker.
func Key(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// RecordFailedAttempt suma una falla; al llegar al umbral bloquea la identidad.
func (t *Tracker) RecordFailedAttempt(ctx context.Context, email string) Status {
	key := Key(email)
	log := logger.From(ctx).With(logger.Component("lockout"), logger.Op("RecordFailedAttempt"))

	count, err := t.store.Increment(ctx, key, t.duration)
	if err != nil {
		log.Warn("lockout store increment failed", logger.Err(err))
		return Status{RemainingAttempts: t.max}
	}

	st := Status{Count: count, RemainingAttempts: max(t.max-count, 0)}
	if count < t.max {
		return st
	}

	now := t.now()
	rec, ok, err := t.store.Get(ctx, key)
	if err == nil && ok && rec.LockedUntil.After(now) {
		st.Locked = true
		st.LockedFor = rec.LockedUntil.Sub(now)
		return st
	}

	until := now.Add(t.duration)
	if err := t.store.Lock(ctx, key, until, until.Sub(now)); err != nil {
		log.Warn("lockout store lock failed", logger.Err(err))
		return st
	}
	metrics.Lockouts.Inc()
	log.Info("identity locked", logger.Int("attempts", count))
	st.Locked = true
	st.LockedFor = t.duration
	return st
}

// IsLocked dice si la identidad está bloqueada. Un bloqueo vencido se limpia
// acá y la identidad vuelve a limpia.
func (t *Tracker) IsLocked(ctx context.Context, email string) bool {
	key := Key(email)
	rec, ok := t.get(ctx, key)
	if !ok || rec.LockedUntil.IsZero() {
		return false
	}
	if rec.LockedUntil.After(t.now()) {
		return true
	}
	if err := t.store.Reset(ctx, key); err != nil {
		logger.From(ctx).Warn("lockout store reset failed", logger.Component("lockout"), logger.Err(err))
	}
	return false
}

// ResetAttempts fuerza la identidad a limpia.
func (t *Tracker) ResetAttempts(ctx context.Context, email string) {
	if err := t.store.Reset(ctx, Key(email)); err != nil {
		logger.From(ctx).Warn("lockout store reset failed", logger.Component("lockout"), logger.Err(err))
	}
}

// AttemptCount devuelve las fallas registradas; un bloqueo vencido cuenta cero.
func (t *Tracker) AttemptCount(ctx context.Context, email string) int {
	rec, ok := t.live(ctx, Key(email))
	if !ok {
		return 0
	}
	return rec.Count
}

// RemainingAttempts: fallas que quedan antes del bloqueo.
func (t *Tracker) RemainingAttempts(ctx context.Context, email string) int {
	return max(t.max-t.AttemptCount(ctx, email), 0)
}

// LockoutTimeRemaining: cuánto falta para el desbloqueo (0 si no está bloqueada).
func (t *Tracker) LockoutTimeRemaining(ctx context.Context, email string) time.Duration {
	rec, ok := t.live(ctx, Key(email))
	if !ok || rec.LockedUntil.IsZero() {
		return 0
	}
	return rec.LockedUntil.Sub(t.now())
}

// live devuelve el registro salvo que su bloqueo ya haya vencido. Sin efectos.
func (t *Tracker) live(ctx context.Context, key string) (Record, bool) {
	rec, ok := t.get(ctx, key)
	if !ok {
		return Record{}, false
	}
	if !rec.LockedUntil.IsZero() && !rec.LockedUntil.After(t.now()) {
		return Record{}, false
	}
	return rec, true
}

func (t *Tracker) get(ctx context.Context, key string) (Record, bool) {
	rec, ok, err := t.store.Get(ctx, key)
	if err != nil {
		logger.From(ctx).Warn("lockout store get failed", logger.Component("lockout"), logger.Err(err))
		return Record{}, false
	}
	return rec, ok
}
