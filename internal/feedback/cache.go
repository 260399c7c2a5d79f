package feedback

import (
	"sync"
	"time"

	"vocalhire/interview/internal/models"
)

// Cache keeps generated feedback in memory for a while so repeated views of
// the same report skip the store round trip.
type Cache struct {
	entries map[string]*cacheEntry
	mu      sync.RWMutex
	ttl     time.Duration
	stop    chan struct{}
	once    sync.Once
}

type cacheEntry struct {
	feedback    *models.DetailedFeedback
	generatedAt time.Time
	expiresAt   time.Time
}

// NewCache starts a cache whose entries live for ttl.
func NewCache(ttl time.Duration) *Cache {
	c := &Cache{
		entries: make(map[string]*cacheEntry),
		ttl:     ttl,
		stop:    make(chan struct{}),
	}

	go c.cleanupLoop()

	return c
}

// Set stores feedback for an interview.
func (c *Cache) Set(interviewID string, fb *models.DetailedFeedback, generatedAt time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[interviewID] = &cacheEntry{
		feedback:    fb,
		generatedAt: generatedAt,
		expiresAt:   time.Now().Add(c.ttl),
	}
}

// Get returns the cached feedback and when it was generated.
func (c *Cache) Get(interviewID string) (*models.DetailedFeedback, time.Time, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[interviewID]
	if !ok || time.Now().After(entry.expiresAt) {
		return nil, time.Time{}, false
	}
	return entry.feedback, entry.generatedAt, true
}

func (c *Cache) Delete(interviewID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.entries, interviewID)
}

func (c *Cache) cleanupLoop() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.cleanup()
		case <-c.stop:
			return
		}
	}
}

func (c *Cache) cleanup() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	for id, entry := range c.entries {
		if now.After(entry.expiresAt) {
			delete(c.entries, id)
		}
	}
}

// Size returns the number of entries, expired ones included until the next sweep.
func (c *Cache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.entries)
}

// Close stops the background sweep.
func (c *Cache) Close() {
	c.once.Do(func() { close(c.stop) })
}
