// Package services provides the application service layer.
package services

import (
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/supportcentre/supportcentre-go/internal/infrastructure/caching/stores"
	"github.com/supportcentre/supportcentre-go/internal/infrastructure/observability/logging"
	"github.com/supportcentre/supportcentre-go/internal/infrastructure/observability/performance"
	persistence "github.com/supportcentre/supportcentre-go/internal/infrastructure/persistence/feedback"
	"github.com/supportcentre/supportcentre-go/internal/infrastructure/security"
)

// SysOpService handles sysop dashboard operations following DI pattern
type SysOpService struct {
	aggregates    *persistence.AggregateRepository
	comments      *persistence.CommentRepository
	cache         *stores.FeedbackStore
	logger        *logging.ChanneledLogger
	perfTracker   *performance.Tracker
	passwordHash  []byte
	jwtSecret     string
	tokenLifetime time.Duration
	startedAt     time.Time
}

// NewSysOpService creates a new sysop service with injected dependencies.
// The configured password is bcrypt-hashed once here so the plaintext is
// never kept on the struct.
func NewSysOpService(
	aggregates *persistence.AggregateRepository,
	comments *persistence.CommentRepository,
	cache *stores.FeedbackStore,
	logger *logging.ChanneledLogger,
	perfTracker *performance.Tracker,
	password, jwtSecret string,
	tokenLifetime time.Duration,
) (*SysOpService, error) {
	var passwordHash []byte
	if password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("hash sysop password: %w", err)
		}
		passwordHash = hash
	}

	return &SysOpService{
		aggregates:    aggregates,
		comments:      comments,
		cache:         cache,
		logger:        logger,
		perfTracker:   perfTracker,
		passwordHash:  passwordHash,
		jwtSecret:     jwtSecret,
		tokenLifetime: tokenLifetime,
		startedAt:     time.Now(),
	}, nil
}

// ActivityStats summarises feedback activity for the sysop dashboard.
type ActivityStats struct {
	Resources      int            `json:"resources"`
	TotalLikes     int64          `json:"totalLikes"`
	TotalDislikes  int64          `json:"totalDislikes"`
	TotalComments  int            `json:"totalComments"`
	UptimeSeconds  int64          `json:"uptimeSeconds"`
	Cache          map[string]any `json:"cache"`
	Performance    map[string]any `json:"performance"`
	GeneratedAtUTC string         `json:"generatedAt"`
}

// Login verifies the sysop password and issues a bearer token.
func (s *SysOpService) Login(password string) (string, error) {
	if len(s.passwordHash) == 0 {
		return "", fmt.Errorf("sysop access is not configured")
	}
	if err := bcrypt.CompareHashAndPassword(s.passwordHash, []byte(password)); err != nil {
		s.logger.SysOp().Warn("Rejected sysop login attempt")
		return "", NewValidationError("invalid password")
	}

	token, err := security.GenerateSysOpToken(s.jwtSecret, s.tokenLifetime)
	if err != nil {
		return "", fmt.Errorf("generate sysop token: %w", err)
	}

	s.logger.SysOp().Info("Sysop login succeeded", "tokenLifetime", s.tokenLifetime)
	return token, nil
}

// ValidateToken checks a sysop bearer token.
func (s *SysOpService) ValidateToken(token string) error {
	return security.ValidateSysOpToken(token, s.jwtSecret)
}

// GetActivityStats assembles dashboard statistics across every resource.
func (s *SysOpService) GetActivityStats() (*ActivityStats, error) {
	start := time.Now()
	marker := s.perfTracker.StartOperation("sysop_activity_stats")
	defer marker.Complete()

	aggregates, err := s.aggregates.All()
	if err != nil {
		marker.SetSuccess(false)
		return nil, fmt.Errorf("scan aggregates: %w", err)
	}

	commentCounts, err := s.comments.CountAll()
	if err != nil {
		marker.SetSuccess(false)
		return nil, fmt.Errorf("count comments: %w", err)
	}

	stats := &ActivityStats{
		Resources:      len(aggregates),
		Cache:          s.cache.Stats(),
		Performance:    s.perfTracker.OverallStats(),
		UptimeSeconds:  int64(time.Since(s.startedAt).Seconds()),
		GeneratedAtUTC: time.Now().UTC().Format(time.RFC3339),
	}
	for _, agg := range aggregates {
		stats.TotalLikes += agg.Likes
		stats.TotalDislikes += agg.Dislikes
	}
	for _, count := range commentCounts {
		stats.TotalComments += count
	}

	s.logger.SysOp().Debug("Activity stats assembled",
		"resources", stats.Resources,
		"duration", time.Since(start))
	return stats, nil
}

// GetLogLevels returns the current level of every log channel.
func (s *SysOpService) GetLogLevels() map[string]string {
	return s.logger.GetChannelLevels()
}

// SetLogLevel changes one channel's level at runtime.
func (s *SysOpService) SetLogLevel(channel, level string) error {
	var slogLevel slog.Level
	switch level {
	case "debug":
		slogLevel = slog.LevelDebug
	case "info":
		slogLevel = slog.LevelInfo
	case "warn":
		slogLevel = slog.LevelWarn
	case "error":
		slogLevel = slog.LevelError
	default:
		return NewValidationError(fmt.Sprintf("unknown log level %q", level))
	}

	if err := s.logger.SetChannelLevel(logging.Channel(channel), slogLevel); err != nil {
		return NewValidationError(err.Error())
	}
	s.logger.SysOp().Info("Log level changed", "channel", channel, "level", level)
	return nil
}
