package services

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/supportcentre/supportcentre-go/internal/domain/entities/feedback"
	"github.com/supportcentre/supportcentre-go/internal/infrastructure/observability/logging"
	persistence "github.com/supportcentre/supportcentre-go/internal/infrastructure/persistence/feedback"
	"github.com/supportcentre/supportcentre-go/internal/infrastructure/security"
)

// CommentService validates and stores resource comments.
type CommentService struct {
	comments  *persistence.CommentRepository
	maxChars  int
	publisher Publisher
	logger    *logging.ChanneledLogger
}

func NewCommentService(comments *persistence.CommentRepository, maxChars int, publisher Publisher, logger *logging.ChanneledLogger) *CommentService {
	return &CommentService{
		comments:  comments,
		maxChars:  maxChars,
		publisher: publisher,
		logger:    logger,
	}
}

// Add validates and persists a comment. The text must be non-empty after
// trimming and at most maxChars characters. The visitor id is stored only as
// a one-way hash.
func (s *CommentService) Add(visitorID, resourceID, text string) (*feedback.Comment, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil, NewValidationError("comment text is required")
	}
	if len([]rune(trimmed)) > s.maxChars {
		return nil, NewValidationError(fmt.Sprintf("comment must be %d characters or fewer", s.maxChars))
	}

	comment := &feedback.Comment{
		ID:          security.GenerateULID(),
		ResourceID:  resourceID,
		Text:        trimmed,
		VisitorHash: hashVisitorID(visitorID),
		Timestamp:   time.Now().UTC(),
		Helpful:     0,
	}

	if err := s.comments.Append(comment); err != nil {
		return nil, fmt.Errorf("store comment: %w", err)
	}

	s.logger.Comment().Info("Comment stored",
		"resourceId", resourceID,
		"commentId", comment.ID,
		"chars", len([]rune(trimmed)))

	if s.publisher != nil {
		s.publisher.Publish("comment", resourceID)
	}
	return comment, nil
}

// List returns a resource's comments newest first.
func (s *CommentService) List(resourceID string) ([]*feedback.Comment, error) {
	comments, err := s.comments.ListByResource(resourceID)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	return comments, nil
}

// hashVisitorID folds the visitor id to a signed 32-bit accumulator and
// renders it as hex. Not reversible, stable per visitor, nothing more.
func hashVisitorID(visitorID string) string {
	var hash int32
	for _, r := range visitorID {
		hash = (hash << 5) - hash + int32(r)
	}
	if hash < 0 {
		return "-" + strconv.FormatInt(-int64(hash), 16)
	}
	return strconv.FormatInt(int64(hash), 16)
}
