package cache

import (
	"context"
	"sync"
	"time"
)

// MemoryProvider is a bounded in-process Provider with per-entry TTLs.
// When full it evicts expired entries first, then the oldest entry by
// insertion time.
type MemoryProvider struct {
	mu         sync.Mutex
	entries    map[string]memoryEntry
	maxEntries int
	now        func() time.Time
}

type memoryEntry struct {
	value      []byte
	insertedAt time.Time
	expiresAt  time.Time
}

// NewMemoryProvider creates a bounded memory cache holding up to maxEntries
// values.
func NewMemoryProvider(maxEntries int) *MemoryProvider {
	if maxEntries <= 0 {
		maxEntries = 128
	}
	return &MemoryProvider{
		entries:    make(map[string]memoryEntry),
		maxEntries: maxEntries,
		now:        time.Now,
	}
}

// Get returns the stored bytes or ErrCacheMiss when absent or expired.
func (p *MemoryProvider) Get(_ context.Context, key string) ([]byte, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	entry, ok := p.entries[key]
	if !ok {
		return nil, ErrCacheMiss
	}
	if !entry.expiresAt.IsZero() && p.now().After(entry.expiresAt) {
		delete(p.entries, key)
		return nil, ErrCacheMiss
	}
	return append([]byte(nil), entry.value...), nil
}

// Set stores bytes under key with the given TTL (zero means no expiry).
func (p *MemoryProvider) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	now := p.now()
	if _, exists := p.entries[key]; !exists && len(p.entries) >= p.maxEntries {
		p.evictLocked(now)
	}

	var expires time.Time
	if ttl > 0 {
		expires = now.Add(ttl)
	}
	p.entries[key] = memoryEntry{
		value:      append([]byte(nil), value...),
		insertedAt: now,
		expiresAt:  expires,
	}
	return nil
}

// Del removes an entry.
func (p *MemoryProvider) Del(_ context.Context, key string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.entries, key)
	return nil
}

// Close releases all entries.
func (p *MemoryProvider) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.entries = make(map[string]memoryEntry)
	return nil
}

// Len reports the current entry count.
func (p *MemoryProvider) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.entries)
}

func (p *MemoryProvider) evictLocked(now time.Time) {
	for key, entry := range p.entries {
		if !entry.expiresAt.IsZero() && now.After(entry.expiresAt) {
			delete(p.entries, key)
		}
	}
	if len(p.entries) < p.maxEntries {
		return
	}

	var oldestKey string
	var oldestAt time.Time
	for key, entry := range p.entries {
		if oldestKey == "" || entry.insertedAt.Before(oldestAt) {
			oldestKey = key
			oldestAt = entry.insertedAt
		}
	}
	if oldestKey != "" {
		delete(p.entries, oldestKey)
	}
}
