// Package cache provides the assessment staleness window: the latest
// computed assessment per student is reused for the configured TTL unless a
// caller forces reanalysis or an intervention completion invalidates it.
package cache

import (
	"context"
	"sync"
	"time"

	"github.com/bgeheroes/risk-backend/internal/types"
)

type AssessmentCache interface {
	Get(ctx context.Context, studentID string) (*types.RiskAssessment, bool, error)
	Set(ctx context.Context, studentID string, a *types.RiskAssessment, ttl time.Duration) error
	Invalidate(ctx context.Context, studentID string) error
}

type memoryEntry struct {
	assessment *types.RiskAssessment
	expiresAt  time.Time
}

// MemoryCache is the default in-process backend.
type MemoryCache struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

func (c *MemoryCache) Get(_ context.Context, studentID string) (*types.RiskAssessment, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[studentID]
	if !ok {
		return nil, false, nil
	}
	if c.now().After(e.expiresAt) {
		delete(c.entries, studentID)
		return nil, false, nil
	}
	return e.assessment, true, nil
}

func (c *MemoryCache) Set(_ context.Context, studentID string, a *types.RiskAssessment, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[studentID] = memoryEntry{assessment: a, expiresAt: c.now().Add(ttl)}
	return nil
}

func (c *MemoryCache) Invalidate(_ context.Context, studentID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, studentID)
	return nil
}

// SetClock overrides the clock; tests only.
func (c *MemoryCache) SetClock(now func() time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = now
}
