package feedback

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/supportcentre/supportcentre-go/internal/domain/entities/feedback"
	"github.com/supportcentre/supportcentre-go/internal/infrastructure/observability/logging"
	"github.com/supportcentre/supportcentre-go/internal/infrastructure/persistence/kv"
)

const commentKeyPrefix = "comment:"

// CommentRepository stores comments keyed by resource and ULID. ULIDs sort
// lexicographically by creation time, so a reverse prefix scan yields
// newest-first order without a secondary index.
type CommentRepository struct {
	store  *kv.Store
	logger *logging.ChanneledLogger
}

// NewCommentRepository creates a comment repository.
func NewCommentRepository(store *kv.Store, logger *logging.ChanneledLogger) *CommentRepository {
	return &CommentRepository{store: store, logger: logger}
}

func commentKey(resourceID, commentID string) []byte {
	return []byte(commentKeyPrefix + resourceID + ":" + commentID)
}

// Append stores a new comment.
func (r *CommentRepository) Append(comment *feedback.Comment) error {
	data, err := json.Marshal(comment)
	if err != nil {
		return fmt.Errorf("marshal comment: %w", err)
	}

	err = r.store.DB().Update(func(txn *badger.Txn) error {
		return txn.Set(commentKey(comment.ResourceID, comment.ID), data)
	})
	if err != nil {
		return fmt.Errorf("append comment: %w", err)
	}

	if r.logger != nil {
		r.logger.Storage().Debug("Comment appended", "resourceId", comment.ResourceID, "commentId", comment.ID)
	}
	return nil
}

// ListByResource returns a resource's comments, newest first.
func (r *CommentRepository) ListByResource(resourceID string) ([]*feedback.Comment, error) {
	start := time.Now()
	var comments []*feedback.Comment

	err := r.store.DB().View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = true
		opts.Reverse = true
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(commentKeyPrefix + resourceID + ":")
		// Reverse iteration starts just past the last key under the prefix.
		seek := append(append([]byte{}, prefix...), 0xFF)
		for it.Seek(seek); it.ValidForPrefix(prefix); it.Next() {
			var comment feedback.Comment
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &comment)
			})
			if err != nil {
				return fmt.Errorf("decode comment: %w", err)
			}
			comments = append(comments, &comment)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if r.logger != nil {
		r.logger.Storage().Debug("Comments listed", "resourceId", resourceID, "count", len(comments), "duration", time.Since(start))
	}
	return comments, nil
}

// CountByResource returns the number of comments on a resource.
func (r *CommentRepository) CountByResource(resourceID string) (int, error) {
	count := 0
	err := r.store.DB().View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(commentKeyPrefix + resourceID + ":")
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			count++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return count, nil
}

// CountAll returns comment counts for every resource that has comments.
func (r *CommentRepository) CountAll() (map[string]int, error) {
	counts := make(map[string]int)
	err := r.store.DB().View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(commentKeyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			key := string(it.Item().Key())
			rest := strings.TrimPrefix(key, commentKeyPrefix)
			// Comment IDs are ULIDs and contain no colon, so the resource id
			// is everything before the final separator.
			if idx := strings.LastIndex(rest, ":"); idx > 0 {
				counts[rest[:idx]]++
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return counts, nil
}
