package services

import (
	"fmt"
	"time"

	"github.com/supportcentre/supportcentre-go/internal/domain/entities/feedback"
	"github.com/supportcentre/supportcentre-go/internal/infrastructure/caching/stores"
	"github.com/supportcentre/supportcentre-go/internal/infrastructure/observability/logging"
	persistence "github.com/supportcentre/supportcentre-go/internal/infrastructure/persistence/feedback"
)

// Publisher receives a notification after every applied vote or comment so
// live dashboard clients stay current.
type Publisher interface {
	Publish(kind, resourceID string)
}

// FeedbackService reconciles votes against the single-vote-per-visitor
// invariant and serves feedback snapshots cache-first.
type FeedbackService struct {
	aggregates *persistence.AggregateRepository
	votes      *persistence.VoteRepository
	comments   *persistence.CommentRepository
	cache      *stores.FeedbackStore
	publisher  Publisher
	logger     *logging.ChanneledLogger
}

// NewFeedbackService creates a feedback service. The publisher may be nil.
func NewFeedbackService(
	aggregates *persistence.AggregateRepository,
	votes *persistence.VoteRepository,
	comments *persistence.CommentRepository,
	cache *stores.FeedbackStore,
	publisher Publisher,
	logger *logging.ChanneledLogger,
) *FeedbackService {
	return &FeedbackService{
		aggregates: aggregates,
		votes:      votes,
		comments:   comments,
		cache:      cache,
		publisher:  publisher,
		logger:     logger,
	}
}

// SubmitVote applies toggle semantics for one visitor's vote on one resource:
// repeating the current choice retracts it, any other choice replaces it.
// Returns the post-vote snapshot including the visitor's new state.
//
// The prior-state read and the vote-row write are not one transaction; two
// near-simultaneous toggles from the same visitor can double-count. Accepted
// at this scale, the aggregate increment itself is transactional.
func (s *FeedbackService) SubmitVote(visitorID, resourceID string, requested feedback.VoteChoice) (*feedback.Snapshot, error) {
	start := time.Now()

	if !requested.IsValid() {
		return nil, NewValidationError(`invalid vote, must be "like" or "dislike"`)
	}

	previous, err := s.votes.Get(visitorID, resourceID)
	if err != nil {
		return nil, fmt.Errorf("read prior vote: %w", err)
	}

	newVote := requested
	if previous == requested {
		newVote = feedback.VoteNone
	}

	if err := s.votes.Set(visitorID, resourceID, newVote); err != nil {
		return nil, fmt.Errorf("write vote: %w", err)
	}

	var likeDelta, dislikeDelta int64
	if previous == feedback.VoteLike {
		likeDelta--
	}
	if previous == feedback.VoteDislike {
		dislikeDelta--
	}
	if newVote == feedback.VoteLike {
		likeDelta++
	}
	if newVote == feedback.VoteDislike {
		dislikeDelta++
	}

	if likeDelta != 0 || dislikeDelta != 0 {
		agg, err := s.aggregates.ApplyDelta(resourceID, likeDelta, dislikeDelta)
		if err != nil {
			return nil, fmt.Errorf("apply vote delta: %w", err)
		}
		s.cache.Set(agg)
	}

	snapshot, err := s.buildSnapshot(visitorID, resourceID)
	if err != nil {
		return nil, err
	}

	s.logger.Feedback().Info("Vote reconciled",
		"resourceId", resourceID,
		"previous", string(previous),
		"current", string(newVote),
		"likes", snapshot.Likes,
		"dislikes", snapshot.Dislikes,
		"duration", time.Since(start))

	if s.publisher != nil {
		s.publisher.Publish("vote", resourceID)
	}
	return snapshot, nil
}

// GetFeedback returns one resource's feedback including the caller's vote.
// The aggregate is served cache-first; the vote row is always read fresh.
func (s *FeedbackService) GetFeedback(visitorID, resourceID string) (*feedback.Snapshot, error) {
	return s.buildSnapshot(visitorID, resourceID)
}

// GetAllFeedback returns totals for every resource that has votes or
// comments, for the client's bulk warm-up call.
func (s *FeedbackService) GetAllFeedback() (map[string]feedback.Totals, error) {
	start := time.Now()

	aggregates, err := s.aggregates.All()
	if err != nil {
		return nil, fmt.Errorf("scan aggregates: %w", err)
	}

	commentCounts, err := s.comments.CountAll()
	if err != nil {
		return nil, fmt.Errorf("count comments: %w", err)
	}

	totals := make(map[string]feedback.Totals, len(aggregates))
	for _, agg := range aggregates {
		s.cache.Set(agg)
		totals[agg.ResourceID] = feedback.Totals{Likes: agg.Likes, Dislikes: agg.Dislikes}
	}
	for resourceID, count := range commentCounts {
		entry := totals[resourceID]
		entry.CommentCount = count
		totals[resourceID] = entry
	}

	s.logger.Feedback().Debug("Bulk feedback assembled", "resources", len(totals), "duration", time.Since(start))
	return totals, nil
}

// WarmCache bulk loads every aggregate into the cache at startup.
func (s *FeedbackService) WarmCache() (int, error) {
	aggregates, err := s.aggregates.All()
	if err != nil {
		return 0, fmt.Errorf("warm feedback cache: %w", err)
	}
	s.cache.Warm(aggregates)
	return len(aggregates), nil
}

func (s *FeedbackService) buildSnapshot(visitorID, resourceID string) (*feedback.Snapshot, error) {
	agg, found := s.cache.Get(resourceID)
	if !found {
		stored, exists, err := s.aggregates.Get(resourceID)
		if err != nil {
			return nil, fmt.Errorf("read aggregate: %w", err)
		}
		if exists {
			s.cache.Set(stored)
			agg = stored
		}
	}

	userVote, err := s.votes.Get(visitorID, resourceID)
	if err != nil {
		return nil, fmt.Errorf("read vote: %w", err)
	}

	commentCount, err := s.comments.CountByResource(resourceID)
	if err != nil {
		return nil, fmt.Errorf("count comments: %w", err)
	}

	snapshot := &feedback.Snapshot{
		ResourceID:   resourceID,
		UserVote:     userVote,
		CommentCount: commentCount,
	}
	if agg != nil {
		snapshot.Likes = agg.Likes
		snapshot.Dislikes = agg.Dislikes
	}
	return snapshot, nil
}
