package lockout

import (
	"context"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// MemoryStore guarda los registros en memoria del proceso. Las entradas vencen
// solas, así que las identidades que no vuelven no se acumulan. No se comparte
// entre instancias.
type MemoryStore struct {
	mu sync.Mutex // serializa el read-modify-write por clave
	c  *gocache.Cache
}

// NewMemoryStore: cleanupInterval es cada cuánto go-cache purga vencidos.
func NewMemoryStore(cleanupInterval time.Duration) *MemoryStore {
	if cleanupInterval <= 0 {
		cleanupInterval = time.Minute
	}
	return &MemoryStore{c: gocache.New(gocache.NoExpiration, cleanupInterval)}
}

func (m *MemoryStore) Increment(_ context.Context, key string, ttl time.Duration) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec, left := m.load(key)
	rec.Count++
	m.c.Set(key, rec, expiry(ttl, left))
	return rec.Count, nil
}

func (m *MemoryStore) Get(_ context.Context, key string) (Record, bool, error) {
	v, ok := m.c.Get(key)
	if !ok {
		return Record{}, false, nil
	}
	return v.(Record), true, nil
}

func (m *MemoryStore) Lock(_ context.Context, key string, until time.Time, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec, left := m.load(key)
	rec.LockedUntil = until
	m.c.Set(key, rec, expiry(ttl, left))
	return nil
}

func (m *MemoryStore) Reset(_ context.Context, key string) error {
	m.c.Delete(key)
	return nil
}

// Len cuenta identidades rastreadas, incluidas las vencidas hasta la próxima purga.
func (m *MemoryStore) Len() int { return m.c.ItemCount() }

// load devuelve el registro y cuánto le queda de vida en el cache (0 = sin vencimiento).
func (m *MemoryStore) load(key string) (Record, time.Duration) {
	v, exp, ok := m.c.GetWithExpiration(key)
	if !ok {
		return Record{}, 0
	}
	var left time.Duration
	if !exp.IsZero() {
		left = time.Until(exp)
	}
	return v.(Record), left
}

// expiry nunca acorta la vida que ya tenía el registro: una falla durante un
// bloqueo no debe hacerlo vencer antes de tiempo.
func expiry(ttl, left time.Duration) time.Duration {
	ttl = max(ttl, left)
	if ttl <= 0 {
		return gocache.NoExpiration
	}
	return ttl
}
