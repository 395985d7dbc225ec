package routes

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/supportcentre/supportcentre-go/internal/application/container"
	"github.com/supportcentre/supportcentre-go/internal/infrastructure/observability/logging"
	"github.com/supportcentre/supportcentre-go/internal/infrastructure/observability/performance"
	"github.com/supportcentre/supportcentre-go/internal/infrastructure/persistence/kv"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store, err := kv.Open(kv.Options{InMemory: true})
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	c, err := container.NewContainer(store, logging.NewSilent(), performance.NewTracker(100))
	require.NoError(t, err)

	return SetupRoutes(c)
}

func doRequest(router *gin.Engine, method, path, visitorID, body string) *httptest.ResponseRecorder {
	var reader *strings.Reader
	if body != "" {
		reader = strings.NewReader(body)
	} else {
		reader = strings.NewReader("")
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if visitorID != "" {
		req.Header.Set("X-Visitor-Id", visitorID)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestVoteEndpointToggle(t *testing.T) {
	router := newTestRouter(t)

	w := doRequest(router, http.MethodPost, "/feedback/res-1/vote", "visitor-1", `{"vote":"like"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var snap map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &snap))
	assert.Equal(t, float64(1), snap["likes"])
	assert.Equal(t, "like", snap["userVote"])

	// Repeating the vote retracts it and userVote serializes as null.
	w = doRequest(router, http.MethodPost, "/feedback/res-1/vote", "visitor-1", `{"vote":"like"}`)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &snap))
	assert.Equal(t, float64(0), snap["likes"])
	assert.Nil(t, snap["userVote"])
}

func TestVoteEndpointRejectsInvalidChoice(t *testing.T) {
	router := newTestRouter(t)

	w := doRequest(router, http.MethodPost, "/feedback/res-1/vote", "visitor-1", `{"vote":"maybe"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMissingVisitorHeaderIsAnonymous(t *testing.T) {
	router := newTestRouter(t)

	// Two bare requests share the anonymous identity, so the second like
	// toggles the first off.
	w := doRequest(router, http.MethodPost, "/feedback/res-1/vote", "", `{"vote":"like"}`)
	require.Equal(t, http.StatusOK, w.Code)
	w = doRequest(router, http.MethodPost, "/feedback/res-1/vote", "", `{"vote":"like"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var snap map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &snap))
	assert.Equal(t, float64(0), snap["likes"])
}

func TestFetchAllFeedbackShape(t *testing.T) {
	router := newTestRouter(t)

	doRequest(router, http.MethodPost, "/feedback/res-1/vote", "visitor-1", `{"vote":"like"}`)
	doRequest(router, http.MethodPost, "/comments/res-1", "visitor-1", `{"text":"useful"}`)

	w := doRequest(router, http.MethodGet, "/feedback", "visitor-1", "")
	require.Equal(t, http.StatusOK, w.Code)

	var payload struct {
		Feedback map[string]struct {
			Likes        int64 `json:"likes"`
			Dislikes     int64 `json:"dislikes"`
			CommentCount int   `json:"commentCount"`
		} `json:"feedback"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &payload))
	require.Contains(t, payload.Feedback, "res-1")
	assert.Equal(t, int64(1), payload.Feedback["res-1"].Likes)
	assert.Equal(t, 1, payload.Feedback["res-1"].CommentCount)
}

func TestCommentEndpointValidation(t *testing.T) {
	router := newTestRouter(t)

	w := doRequest(router, http.MethodPost, "/comments/res-1", "visitor-1", `{"text":"  "}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doRequest(router, http.MethodPost, "/comments/res-1", "visitor-1", `{"text":"this one helped"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	var comment map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &comment))
	assert.Equal(t, "this one helped", comment["text"])
	assert.NotEmpty(t, comment["id"])
}

func TestListCommentsIncludesResourceID(t *testing.T) {
	router := newTestRouter(t)

	doRequest(router, http.MethodPost, "/comments/res-1", "visitor-1", `{"text":"first"}`)
	doRequest(router, http.MethodPost, "/comments/res-1", "visitor-1", `{"text":"second"}`)

	w := doRequest(router, http.MethodGet, "/comments/res-1", "visitor-1", "")
	require.Equal(t, http.StatusOK, w.Code)

	var payload struct {
		ResourceID string `json:"resourceId"`
		Comments   []struct {
			Text string `json:"text"`
		} `json:"comments"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &payload))
	assert.Equal(t, "res-1", payload.ResourceID)
	require.Len(t, payload.Comments, 2)
	assert.Equal(t, "second", payload.Comments[0].Text)
}

func TestUnknownRouteReturnsJSON404(t *testing.T) {
	router := newTestRouter(t)

	w := doRequest(router, http.MethodGet, "/nope", "visitor-1", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "not found")
}

func TestSysOpEndpointsRequireToken(t *testing.T) {
	router := newTestRouter(t)

	w := doRequest(router, http.MethodGet, "/api/sysop/activity", "", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
