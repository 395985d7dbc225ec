package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/supportcentre/supportcentre-go/internal/infrastructure/caching/stores"
	"github.com/supportcentre/supportcentre-go/internal/infrastructure/observability/logging"
	"github.com/supportcentre/supportcentre-go/internal/infrastructure/observability/performance"
	persistence "github.com/supportcentre/supportcentre-go/internal/infrastructure/persistence/feedback"
	"github.com/supportcentre/supportcentre-go/internal/infrastructure/persistence/kv"
)

func newTestSysOpService(t *testing.T, password string) *SysOpService {
	t.Helper()

	store, err := kv.Open(kv.Options{InMemory: true})
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	logger := logging.NewSilent()
	svc, err := NewSysOpService(
		persistence.NewAggregateRepository(store, logger),
		persistence.NewCommentRepository(store, logger),
		stores.NewFeedbackStore(time.Minute, logger),
		logger,
		performance.NewTracker(100),
		password,
		"test-secret",
		time.Hour,
	)
	require.NoError(t, err)
	return svc
}

func TestLoginIssuesValidToken(t *testing.T) {
	svc := newTestSysOpService(t, "hunter2")

	token, err := svc.Login("hunter2")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	assert.NoError(t, svc.ValidateToken(token))
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	svc := newTestSysOpService(t, "hunter2")

	_, err := svc.Login("wrong")
	require.Error(t, err)
	assert.True(t, IsValidationError(err))
}

func TestLoginUnavailableWithoutPassword(t *testing.T) {
	svc := newTestSysOpService(t, "")

	_, err := svc.Login("anything")
	require.Error(t, err)
	assert.False(t, IsValidationError(err))
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	svc := newTestSysOpService(t, "hunter2")

	assert.Error(t, svc.ValidateToken("not-a-jwt"))
}

func TestActivityStatsEmptyStore(t *testing.T) {
	svc := newTestSysOpService(t, "hunter2")

	stats, err := svc.GetActivityStats()
	require.NoError(t, err)
	assert.Equal(t, 0, stats.Resources)
	assert.Equal(t, int64(0), stats.TotalLikes)
	assert.Equal(t, 0, stats.TotalComments)
	assert.NotNil(t, stats.Cache)
	assert.NotNil(t, stats.Performance)
}

func TestSetLogLevel(t *testing.T) {
	svc := newTestSysOpService(t, "hunter2")

	require.NoError(t, svc.SetLogLevel("feedback", "debug"))
	assert.Equal(t, "DEBUG", svc.GetLogLevels()["feedback"])

	err := svc.SetLogLevel("feedback", "loud")
	require.Error(t, err)
	assert.True(t, IsValidationError(err))

	err = svc.SetLogLevel("nope", "debug")
	require.Error(t, err)
	assert.True(t, IsValidationError(err))
}
