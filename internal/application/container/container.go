// Package container provides dependency injection for all singleton services
package container

import (
	"fmt"

	"github.com/supportcentre/supportcentre-go/internal/application/services"
	"github.com/supportcentre/supportcentre-go/internal/domain/entities/feedback"
	"github.com/supportcentre/supportcentre-go/internal/infrastructure/caching/stores"
	"github.com/supportcentre/supportcentre-go/internal/infrastructure/messaging"
	"github.com/supportcentre/supportcentre-go/internal/infrastructure/observability/logging"
	"github.com/supportcentre/supportcentre-go/internal/infrastructure/observability/performance"
	persistence "github.com/supportcentre/supportcentre-go/internal/infrastructure/persistence/feedback"
	"github.com/supportcentre/supportcentre-go/internal/infrastructure/persistence/kv"
	"github.com/supportcentre/supportcentre-go/internal/infrastructure/security"
	"github.com/supportcentre/supportcentre-go/pkg/config"
)

// Container holds all singleton services and infrastructure dependencies
type Container struct {
	// Application services
	FeedbackService *services.FeedbackService
	CommentService  *services.CommentService
	SysOpService    *services.SysOpService

	// Infrastructure
	Store         *kv.Store
	FeedbackCache *stores.FeedbackStore
	Broadcaster   *messaging.Broadcaster
	Logger        *logging.ChanneledLogger
	PerfTracker   *performance.Tracker
}

// NewContainer creates and wires all singleton services on top of an open
// key-value store.
func NewContainer(store *kv.Store, logger *logging.ChanneledLogger, perfTracker *performance.Tracker) (*Container, error) {
	aggregateRepo := persistence.NewAggregateRepository(store, logger)
	voteRepo := persistence.NewVoteRepository(store, config.VoteRetention, logger)
	commentRepo := persistence.NewCommentRepository(store, logger)

	feedbackCache := stores.NewFeedbackStore(config.FeedbackCacheTTL, logger)

	// The broadcaster pulls snapshots through the feedback service and the
	// services publish into the broadcaster. The snapshot closure binds the
	// service variable late to break the cycle; it is assigned below, before
	// the broadcaster's loop ever runs.
	var feedbackService *services.FeedbackService
	broadcaster := messaging.NewBroadcaster(func() (map[string]feedback.Totals, error) {
		return feedbackService.GetAllFeedback()
	}, config.BroadcastInterval, logger)

	feedbackService = services.NewFeedbackService(aggregateRepo, voteRepo, commentRepo, feedbackCache, broadcaster, logger)

	jwtSecret := config.JWTSecret
	if jwtSecret == "" {
		// Tokens minted against an ephemeral secret stop validating on
		// restart, which is acceptable for dashboard sessions.
		generated, err := security.GenerateSecureKey(64)
		if err != nil {
			return nil, fmt.Errorf("generate jwt secret: %w", err)
		}
		jwtSecret = generated
	}

	sysopService, err := services.NewSysOpService(
		aggregateRepo,
		commentRepo,
		feedbackCache,
		logger,
		perfTracker,
		config.SysOpPassword,
		jwtSecret,
		config.TokenLifetime,
	)
	if err != nil {
		return nil, fmt.Errorf("create sysop service: %w", err)
	}

	return &Container{
		FeedbackService: feedbackService,
		CommentService:  services.NewCommentService(commentRepo, config.CommentMaxChars, broadcaster, logger),
		SysOpService:    sysopService,
		Store:           store,
		FeedbackCache:   feedbackCache,
		Broadcaster:     broadcaster,
		Logger:          logger,
		PerfTracker:     perfTracker,
	}, nil
}
