package rate

import (
	"context"
	"sync"
	"time"
)

// MemoryLimiter: fixed window en memoria, por proceso. Para desarrollo y
// single-node; en producción multi-réplica usar RedisLimiter.
type MemoryLimiter struct {
	Max    int64
	Window time.Duration

	mu      sync.Mutex
	entries map[string]*memEntry
	now     func() time.Time
}

type memEntry struct {
	count   int64
	resetAt time.Time
}

func NewMemoryLimiter(max int, window time.Duration) *MemoryLimiter {
	return &MemoryLimiter{
		Max:     int64(max),
		Window:  window,
		entries: make(map[string]*memEntry),
		now:     time.Now,
	}
}

func (l *MemoryLimiter) Allow(_ context.Context, key string) (Result, error) {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	e, ok := l.entries[key]
	if !ok || now.After(e.resetAt) {
		// Ventana nueva; de paso limpiamos entradas vencidas cada tanto
		if len(l.entries) > 4096 {
			for k, v := range l.entries {
				if now.After(v.resetAt) {
					delete(l.entries, k)
				}
			}
		}
		l.entries[key] = &memEntry{count: 1, resetAt: now.Add(l.Window)}
		return Result{Allowed: true, Remaining: l.Max - 1, CurrentHits: 1, WindowTTL: l.Window}, nil
	}

	e.count++
	remaining := l.Max - e.count
	if remaining < 0 {
		remaining = 0
	}
	res := Result{
		Allowed:     e.count <= l.Max,
		Remaining:   remaining,
		CurrentHits: e.count,
		WindowTTL:   e.resetAt.Sub(now),
	}
	if !res.Allowed {
		res.RetryAfter = e.resetAt.Sub(now)
	}
	return res, nil
}
