// Package feedback provides BadgerDB-backed repositories for feedback
// aggregates, per-visitor vote interactions, and comments.
package feedback

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/supportcentre/supportcentre-go/internal/domain/entities/feedback"
	"github.com/supportcentre/supportcentre-go/internal/infrastructure/observability/logging"
	"github.com/supportcentre/supportcentre-go/internal/infrastructure/persistence/kv"
)

const aggregateKeyPrefix = "agg:"

// AggregateRepository stores per-resource like/dislike counters.
type AggregateRepository struct {
	store  *kv.Store
	logger *logging.ChanneledLogger
}

// NewAggregateRepository creates an aggregate repository.
func NewAggregateRepository(store *kv.Store, logger *logging.ChanneledLogger) *AggregateRepository {
	return &AggregateRepository{store: store, logger: logger}
}

func aggregateKey(resourceID string) []byte {
	return []byte(aggregateKeyPrefix + resourceID)
}

// Get retrieves the aggregate for one resource. The second return value is
// false when the resource has never received a vote.
func (r *AggregateRepository) Get(resourceID string) (*feedback.Aggregate, bool, error) {
	var agg feedback.Aggregate
	found := false

	err := r.store.DB().View(func(txn *badger.Txn) error {
		item, err := txn.Get(aggregateKey(resourceID))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("get aggregate: %w", err)
		}
		found = true
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &agg)
		})
	})
	if err != nil {
		return nil, false, err
	}
	if !found {
		return nil, false, nil
	}
	return &agg, true, nil
}

// All scans every aggregate row. Used for the bulk feedback endpoint and
// cache warming.
func (r *AggregateRepository) All() ([]*feedback.Aggregate, error) {
	start := time.Now()
	var aggregates []*feedback.Aggregate

	err := r.store.DB().View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = true
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(aggregateKeyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var agg feedback.Aggregate
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &agg)
			})
			if err != nil {
				return fmt.Errorf("decode aggregate: %w", err)
			}
			aggregates = append(aggregates, &agg)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if r.logger != nil {
		r.logger.Storage().Debug("Aggregate scan completed", "count", len(aggregates), "duration", time.Since(start))
	}
	return aggregates, nil
}

// ApplyDelta adds the vote deltas to a resource's counters inside a single
// update transaction, seeding a new row when none exists. Counts are clamped
// at zero. Concurrent votes on the same resource serialize here.
func (r *AggregateRepository) ApplyDelta(resourceID string, likeDelta, dislikeDelta int64) (*feedback.Aggregate, error) {
	start := time.Now()
	now := time.Now().UTC()
	var result feedback.Aggregate

	err := r.store.DB().Update(func(txn *badger.Txn) error {
		key := aggregateKey(resourceID)
		agg := feedback.Aggregate{ResourceID: resourceID, CreatedAt: now}

		item, err := txn.Get(key)
		if err == nil {
			if err := item.Value(func(val []byte) error {
				return json.Unmarshal(val, &agg)
			}); err != nil {
				return fmt.Errorf("decode aggregate: %w", err)
			}
		} else if !errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("get aggregate: %w", err)
		}

		agg.Likes += likeDelta
		agg.Dislikes += dislikeDelta
		if agg.Likes < 0 {
			agg.Likes = 0
		}
		if agg.Dislikes < 0 {
			agg.Dislikes = 0
		}
		agg.UpdatedAt = now

		data, err := json.Marshal(&agg)
		if err != nil {
			return fmt.Errorf("marshal aggregate: %w", err)
		}
		if err := txn.Set(key, data); err != nil {
			return fmt.Errorf("set aggregate: %w", err)
		}

		result = agg
		return nil
	})
	if err != nil {
		return nil, err
	}

	if r.logger != nil {
		r.logger.Storage().Debug("Aggregate delta applied",
			"resourceId", resourceID,
			"likeDelta", likeDelta,
			"dislikeDelta", dislikeDelta,
			"likes", result.Likes,
			"dislikes", result.Dislikes,
			"duration", time.Since(start))
	}
	return &result, nil
}
