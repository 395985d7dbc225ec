package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/supportcentre/supportcentre-go/internal/infrastructure/observability/logging"
	persistence "github.com/supportcentre/supportcentre-go/internal/infrastructure/persistence/feedback"
	"github.com/supportcentre/supportcentre-go/internal/infrastructure/persistence/kv"
)

func newTestCommentService(t *testing.T) *CommentService {
	t.Helper()

	store, err := kv.Open(kv.Options{InMemory: true})
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	logger := logging.NewSilent()
	comments := persistence.NewCommentRepository(store, logger)
	return NewCommentService(comments, 500, nil, logger)
}

func TestAddCommentRejectsEmptyText(t *testing.T) {
	svc := newTestCommentService(t)

	_, err := svc.Add("visitor-1", "res-1", "   \t  ")
	require.Error(t, err)
	assert.True(t, IsValidationError(err))
}

func TestAddCommentLengthBoundary(t *testing.T) {
	svc := newTestCommentService(t)

	_, err := svc.Add("visitor-1", "res-1", strings.Repeat("a", 501))
	require.Error(t, err)
	assert.True(t, IsValidationError(err))

	comment, err := svc.Add("visitor-1", "res-1", strings.Repeat("a", 500))
	require.NoError(t, err)
	assert.Len(t, comment.Text, 500)
}

func TestAddCommentTrimsAndStores(t *testing.T) {
	svc := newTestCommentService(t)

	comment, err := svc.Add("visitor-1", "res-1", "  this helped me a lot  ")
	require.NoError(t, err)
	assert.Equal(t, "this helped me a lot", comment.Text)
	assert.NotEmpty(t, comment.ID)
	assert.Equal(t, 0, comment.Helpful)
	assert.NotEqual(t, "visitor-1", comment.VisitorHash)
}

func TestListCommentsNewestFirst(t *testing.T) {
	svc := newTestCommentService(t)

	for _, text := range []string{"first", "second", "third"} {
		_, err := svc.Add("visitor-1", "res-1", text)
		require.NoError(t, err)
	}

	comments, err := svc.List("res-1")
	require.NoError(t, err)
	require.Len(t, comments, 3)
	assert.Equal(t, "third", comments[0].Text)
	assert.Equal(t, "second", comments[1].Text)
	assert.Equal(t, "first", comments[2].Text)
}

func TestListCommentsScopedToResource(t *testing.T) {
	svc := newTestCommentService(t)

	_, err := svc.Add("visitor-1", "res-1", "about res-1")
	require.NoError(t, err)
	_, err = svc.Add("visitor-1", "res-2", "about res-2")
	require.NoError(t, err)

	comments, err := svc.List("res-1")
	require.NoError(t, err)
	require.Len(t, comments, 1)
	assert.Equal(t, "about res-1", comments[0].Text)
}

func TestHashVisitorIDIsStableAndOneWay(t *testing.T) {
	a := hashVisitorID("v_01HV2K3M4N5P6Q7R")
	b := hashVisitorID("v_01HV2K3M4N5P6Q7R")
	c := hashVisitorID("v_different")

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.NotContains(t, a, "v_")
}

func TestHashVisitorIDMatchesCharCodeFold(t *testing.T) {
	// "abc": 97, then 97*31+98 = 3105, then 3105*31+99 = 96354 = 0x17862
	assert.Equal(t, "17862", hashVisitorID("abc"))
	assert.Equal(t, "0", hashVisitorID(""))
}
