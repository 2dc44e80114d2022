package cache

import (
	"context"
	"sync"
	"time"

	"campussync/internal/domain"
)

// IssuerCache keeps a short-lived snapshot of the trusted-issuer registry
// so the matcher does not hit the database on every certificate.
type IssuerCache struct {
	TTL time.Duration

	mu      sync.RWMutex
	issuers []domain.TrustedIssuer
	setAt   time.Time
	now     func() time.Time
}

func NewIssuerCache(ttl time.Duration) *IssuerCache {
	return &IssuerCache{TTL: ttl, now: time.Now}
}

func (c *IssuerCache) Get(_ context.Context) ([]domain.TrustedIssuer, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.setAt.IsZero() || c.now().Sub(c.setAt) > c.TTL {
		return nil, false, nil
	}
	out := make([]domain.TrustedIssuer, len(c.issuers))
	copy(out, c.issuers)
	return out, true, nil
}

func (c *IssuerCache) Put(_ context.Context, issuers []domain.TrustedIssuer) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.issuers = make([]domain.TrustedIssuer, len(issuers))
	copy(c.issuers, issuers)
	c.setAt = c.now()
	return nil
}
