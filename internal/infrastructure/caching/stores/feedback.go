// Package stores provides in-memory cache store implementations
package stores

import (
	"sync"
	"time"

	"github.com/supportcentre/supportcentre-go/internal/domain/entities/feedback"
	"github.com/supportcentre/supportcentre-go/internal/infrastructure/observability/logging"
)

// FeedbackStore caches per-resource aggregates in front of the key-value
// store. Entries expire after the configured TTL; writes through the
// FeedbackService refresh them immediately after each vote.
type FeedbackStore struct {
	aggregates map[string]*cachedAggregate
	ttl        time.Duration
	mu         sync.RWMutex
	logger     *logging.ChanneledLogger

	hits   int64
	misses int64
}

type cachedAggregate struct {
	aggregate feedback.Aggregate
	loadedAt  time.Time
}

// NewFeedbackStore creates a feedback aggregate cache store.
func NewFeedbackStore(ttl time.Duration, logger *logging.ChanneledLogger) *FeedbackStore {
	if logger != nil {
		logger.Cache().Info("Initializing feedback cache store", "ttl", ttl)
	}
	return &FeedbackStore{
		aggregates: make(map[string]*cachedAggregate),
		ttl:        ttl,
		logger:     logger,
	}
}

// Get retrieves a cached aggregate, reporting a miss for expired entries.
func (fs *FeedbackStore) Get(resourceID string) (*feedback.Aggregate, bool) {
	start := time.Now()
	fs.mu.RLock()
	entry, found := fs.aggregates[resourceID]
	fs.mu.RUnlock()

	if !found || time.Since(entry.loadedAt) > fs.ttl {
		fs.mu.Lock()
		fs.misses++
		fs.mu.Unlock()
		if fs.logger != nil {
			fs.logger.LogCacheOperation("get", resourceID, false, time.Since(start))
		}
		return nil, false
	}

	fs.mu.Lock()
	fs.hits++
	fs.mu.Unlock()
	if fs.logger != nil {
		fs.logger.LogCacheOperation("get", resourceID, true, time.Since(start))
	}

	agg := entry.aggregate
	return &agg, true
}

// Set stores an aggregate snapshot.
func (fs *FeedbackStore) Set(agg *feedback.Aggregate) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.aggregates[agg.ResourceID] = &cachedAggregate{
		aggregate: *agg,
		loadedAt:  time.Now().UTC(),
	}
}

// Invalidate drops a resource's cached aggregate.
func (fs *FeedbackStore) Invalidate(resourceID string) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	delete(fs.aggregates, resourceID)
}

// Warm bulk loads aggregates, used at startup.
func (fs *FeedbackStore) Warm(aggregates []*feedback.Aggregate) {
	start := time.Now()
	now := time.Now().UTC()

	fs.mu.Lock()
	for _, agg := range aggregates {
		fs.aggregates[agg.ResourceID] = &cachedAggregate{aggregate: *agg, loadedAt: now}
	}
	fs.mu.Unlock()

	if fs.logger != nil {
		fs.logger.Cache().Info("Feedback cache warmed", "count", len(aggregates), "duration", time.Since(start))
	}
}

// Stats reports cache effectiveness for the sysop dashboard.
func (fs *FeedbackStore) Stats() map[string]any {
	fs.mu.RLock()
	defer fs.mu.RUnlock()

	total := fs.hits + fs.misses
	stats := map[string]any{
		"entries": len(fs.aggregates),
		"hits":    fs.hits,
		"misses":  fs.misses,
	}
	if total > 0 {
		stats["hitRatio"] = float64(fs.hits) / float64(total)
	}
	return stats
}
