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

const voteKeyPrefix = "vote:"

// VoteRepository keeps at most one vote row per (visitor, resource). Rows
// carry a badger TTL so stale voters age out of the store.
type VoteRepository struct {
	store     *kv.Store
	retention time.Duration
	logger    *logging.ChanneledLogger
}

// NewVoteRepository creates a vote repository with the given row retention.
func NewVoteRepository(store *kv.Store, retention time.Duration, logger *logging.ChanneledLogger) *VoteRepository {
	return &VoteRepository{store: store, retention: retention, logger: logger}
}

func voteKey(visitorID, resourceID string) []byte {
	return []byte(voteKeyPrefix + visitorID + ":" + resourceID)
}

// Get returns the visitor's current vote for a resource, VoteNone when the
// visitor has no live row.
func (r *VoteRepository) Get(visitorID, resourceID string) (feedback.VoteChoice, error) {
	var interaction feedback.VoteInteraction
	found := false

	err := r.store.DB().View(func(txn *badger.Txn) error {
		item, err := txn.Get(voteKey(visitorID, resourceID))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("get vote: %w", err)
		}
		found = true
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &interaction)
		})
	})
	if err != nil {
		return feedback.VoteNone, err
	}
	if !found {
		return feedback.VoteNone, nil
	}
	return interaction.Vote, nil
}

// Set overwrites the visitor's vote row, including the retracted (none)
// state, refreshing the retention TTL.
func (r *VoteRepository) Set(visitorID, resourceID string, vote feedback.VoteChoice) error {
	interaction := feedback.VoteInteraction{
		VisitorID:  visitorID,
		ResourceID: resourceID,
		Vote:       vote,
		Timestamp:  time.Now().UTC(),
	}

	data, err := json.Marshal(&interaction)
	if err != nil {
		return fmt.Errorf("marshal vote: %w", err)
	}

	err = r.store.DB().Update(func(txn *badger.Txn) error {
		entry := badger.NewEntry(voteKey(visitorID, resourceID), data).WithTTL(r.retention)
		return txn.SetEntry(entry)
	})
	if err != nil {
		return fmt.Errorf("set vote: %w", err)
	}

	if r.logger != nil {
		r.logger.Storage().Debug("Vote row written", "resourceId", resourceID, "vote", string(vote))
	}
	return nil
}
