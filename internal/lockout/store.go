package lockout

import (
	"context"
	"time"
)

// Record es el estado persistido de una identidad.
type Record struct {
	Count       int
	LockedUntil time.Time // cero si no está bloqueada
}

// Store guarda los contadores por identidad; las claves llegan normalizadas.
// Increment debe ser atómico por clave. El tracker tolera carreras entre
// Increment y Lock.
//
// Los TTL los calcula el tracker con su propio reloj: el store nunca compara
// LockedUntil contra la hora del sistema.
type Store interface {
	// Increment suma una falla y devuelve el total. ttl acota cuánto vive un
	// registro inactivo.
	Increment(ctx context.Context, key string, ttl time.Duration) (int, error)

	// Get devuelve el registro; ok=false si la identidad está limpia.
	Get(ctx context.Context, key string) (rec Record, ok bool, err error)

	// Lock marca la identidad bloqueada hasta until. ttl es until menos el
	// "ahora" del tracker y define cuánto se conserva el registro.
	Lock(ctx context.Context, key string, until time.Time, ttl time.Duration) error

	// Reset borra el registro.
	Reset(ctx context.Context, key string) error
}
