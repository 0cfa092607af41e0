package rate

import (
	"context"
	"testing"
	"time"
)

func TestMemoryLimiter_Window(t *testing.T) {
	now := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	l := NewMemoryLimiter(3, time.Minute)
	l.now = func() time.Time { return now }
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		res, err := l.Allow(ctx, "ip-1")
		if err != nil {
			t.Fatalf("Allow: %v", err)
		}
		if !res.Allowed {
			t.Fatalf("hit %d denegado", i)
		}
	}

	res, _ := l.Allow(ctx, "ip-1")
	if res.Allowed {
		t.Fatal("cuarto hit permitido, límite es 3")
	}
	if res.RetryAfter <= 0 {
		t.Fatalf("RetryAfter = %v", res.RetryAfter)
	}

	// Otra key no comparte la ventana
	if res, _ := l.Allow(ctx, "ip-2"); !res.Allowed {
		t.Fatal("keys independientes comparten contador")
	}

	// Pasada la ventana se resetea
	now = now.Add(2 * time.Minute)
	if res, _ := l.Allow(ctx, "ip-1"); !res.Allowed {
		t.Fatal("ventana vencida no se reseteó")
	}
}

func TestMemoryLimiter_Remaining(t *testing.T) {
	l := NewMemoryLimiter(2, time.Minute)
	ctx := context.Background()

	res, _ := l.Allow(ctx, "k")
	if res.Remaining != 1 {
		t.Fatalf("remaining = %d, want 1", res.Remaining)
	}
	res, _ = l.Allow(ctx, "k")
	if res.Remaining != 0 {
		t.Fatalf("remaining = %d, want 0", res.Remaining)
	}
	res, _ = l.Allow(ctx, "k")
	if res.Remaining != 0 || res.Allowed {
		t.Fatalf("res = %+v", res)
	}
}
