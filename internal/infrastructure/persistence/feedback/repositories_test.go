package feedback

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	entities "github.com/supportcentre/supportcentre-go/internal/domain/entities/feedback"
	"github.com/supportcentre/supportcentre-go/internal/infrastructure/observability/logging"
	"github.com/supportcentre/supportcentre-go/internal/infrastructure/persistence/kv"
	"github.com/supportcentre/supportcentre-go/internal/infrastructure/security"
)

func newTestStore(t *testing.T) *kv.Store {
	t.Helper()

	store, err := kv.Open(kv.Options{InMemory: true})
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestApplyDeltaSeedsOnFirstVote(t *testing.T) {
	repo := NewAggregateRepository(newTestStore(t), logging.NewSilent())

	agg, err := repo.ApplyDelta("res-1", 1, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), agg.Likes)
	assert.Equal(t, int64(0), agg.Dislikes)
	assert.False(t, agg.CreatedAt.IsZero())
}

func TestApplyDeltaAccumulates(t *testing.T) {
	repo := NewAggregateRepository(newTestStore(t), logging.NewSilent())

	_, err := repo.ApplyDelta("res-1", 1, 0)
	require.NoError(t, err)
	_, err = repo.ApplyDelta("res-1", 1, 1)
	require.NoError(t, err)

	agg, found, err := repo.Get("res-1")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, int64(2), agg.Likes)
	assert.Equal(t, int64(1), agg.Dislikes)
}

func TestApplyDeltaClampsAtZero(t *testing.T) {
	repo := NewAggregateRepository(newTestStore(t), logging.NewSilent())

	agg, err := repo.ApplyDelta("res-1", -5, -3)
	require.NoError(t, err)
	assert.Equal(t, int64(0), agg.Likes)
	assert.Equal(t, int64(0), agg.Dislikes)
}

func TestAggregateAllScansEveryResource(t *testing.T) {
	repo := NewAggregateRepository(newTestStore(t), logging.NewSilent())

	_, err := repo.ApplyDelta("res-a", 1, 0)
	require.NoError(t, err)
	_, err = repo.ApplyDelta("res-b", 0, 1)
	require.NoError(t, err)

	all, err := repo.All()
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestVoteRepositoryRoundTrip(t *testing.T) {
	repo := NewVoteRepository(newTestStore(t), time.Hour, logging.NewSilent())

	vote, err := repo.Get("visitor-1", "res-1")
	require.NoError(t, err)
	assert.Equal(t, entities.VoteNone, vote)

	require.NoError(t, repo.Set("visitor-1", "res-1", entities.VoteLike))
	vote, err = repo.Get("visitor-1", "res-1")
	require.NoError(t, err)
	assert.Equal(t, entities.VoteLike, vote)

	// Retraction stores an explicit none row rather than deleting.
	require.NoError(t, repo.Set("visitor-1", "res-1", entities.VoteNone))
	vote, err = repo.Get("visitor-1", "res-1")
	require.NoError(t, err)
	assert.Equal(t, entities.VoteNone, vote)
}

func TestVoteRepositoryKeysPerVisitorAndResource(t *testing.T) {
	repo := NewVoteRepository(newTestStore(t), time.Hour, logging.NewSilent())

	require.NoError(t, repo.Set("visitor-1", "res-1", entities.VoteLike))

	vote, err := repo.Get("visitor-2", "res-1")
	require.NoError(t, err)
	assert.Equal(t, entities.VoteNone, vote)

	vote, err = repo.Get("visitor-1", "res-2")
	require.NoError(t, err)
	assert.Equal(t, entities.VoteNone, vote)
}

func TestCommentRepositoryCounts(t *testing.T) {
	store := newTestStore(t)
	repo := NewCommentRepository(store, logging.NewSilent())

	for _, resourceID := range []string{"res-1", "res-1", "res-2"} {
		comment := &entities.Comment{
			ID:         security.GenerateULID(),
			ResourceID: resourceID,
			Text:       "hello",
			Timestamp:  time.Now().UTC(),
		}
		require.NoError(t, repo.Append(comment))
	}

	count, err := repo.CountByResource("res-1")
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	all, err := repo.CountAll()
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"res-1": 2, "res-2": 1}, all)
}
