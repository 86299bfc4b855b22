package middleware

import (
	"context"
	"time"

	"github.com/aretw0/katsuyo/pkg/ports"
)

type tieredMiddleware struct {
	front ports.Cache
	next  ports.Cache
	ttl   time.Duration
}

// NewTieredMiddleware puts front (usually in-memory) ahead of the wrapped cache.
// Hits from the wrapped cache are copied into front with ttl.
func NewTieredMiddleware(front ports.Cache, ttl time.Duration) Middleware {
	return func(next ports.Cache) ports.Cache {
		return &tieredMiddleware{front: front, next: next, ttl: ttl}
	}
}

func (m *tieredMiddleware) Get(ctx context.Context, key string) (string, error) {
	if surface, err := m.front.Get(ctx, key); err == nil {
		return surface, nil
	}

	surface, err := m.next.Get(ctx, key)
	if err != nil {
		return "", err
	}
	// A failed copy only costs a later round trip.
	_ = m.front.Set(ctx, key, surface, m.ttl)
	return surface, nil
}

func (m *tieredMiddleware) Set(ctx context.Context, key, surface string, ttl time.Duration) error {
	if err := m.next.Set(ctx, key, surface, ttl); err != nil {
		return err
	}
	frontTTL := m.ttl
	if ttl > 0 && (frontTTL == 0 || ttl < frontTTL) {
		frontTTL = ttl
	}
	return m.front.Set(ctx, key, surface, frontTTL)
}
