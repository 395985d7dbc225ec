package personalization

import (
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrackerAccumulatesWeights(t *testing.T) {
	tracker := NewTracker(NewMemoryProfileStore(), nil)

	tracker.Record("mental-health", KindNavigation, "")
	tracker.Record("mental-health", KindAccordion, "faq")
	tracker.Record("grief-loss", KindNavigation, "")
	tracker.Record("grief-loss", KindPassiveView, "")

	profile := tracker.Profile()
	assert.InDelta(t, 2.0, profile.Clicks["mental-health"], 1e-9)
	assert.InDelta(t, 1.1, profile.Clicks["grief-loss"], 1e-9)
}

func TestTrackerTopInterestsOrdersByWeight(t *testing.T) {
	tracker := NewTracker(NewMemoryProfileStore(), nil)

	tracker.Record("carers", KindNavigation, "")
	tracker.Record("crisis", KindNavigation, "")
	tracker.Record("crisis", KindNavigation, "")
	tracker.Record("mental-health", KindPassiveView, "")

	interests := tracker.TopInterests(3)
	require.Len(t, interests, 3)
	assert.Equal(t, "crisis", interests[0].Category)
	assert.Equal(t, "carers", interests[1].Category)
	assert.Equal(t, "mental-health", interests[2].Category)
}

func TestTrackerTopInterestsTieBreaksByFirstInsertion(t *testing.T) {
	tracker := NewTracker(NewMemoryProfileStore(), nil)

	tracker.Record("grief-loss", KindNavigation, "")
	tracker.Record("carers", KindNavigation, "")

	interests := tracker.TopInterests(2)
	require.Len(t, interests, 2)
	assert.Equal(t, "grief-loss", interests[0].Category)
	assert.Equal(t, "carers", interests[1].Category)
}

func TestTrackerDetailedHistoryCap(t *testing.T) {
	tracker := NewTracker(NewMemoryProfileStore(), nil)

	for i := 0; i < 25; i++ {
		tracker.Record("mental-health", KindNavigation, fmt.Sprintf("event-%d", i))
	}

	profile := tracker.Profile()
	require.Len(t, profile.LastClicks, 20)
	// Newest first: event-24 down to event-5.
	assert.Equal(t, "event-24", profile.LastClicks[0].Detail)
	assert.Equal(t, "event-5", profile.LastClicks[19].Detail)
}

func TestTrackerExternalHistoryCap(t *testing.T) {
	tracker := NewTracker(NewMemoryProfileStore(), nil)

	for i := 0; i < 60; i++ {
		tracker.RecordExternal(fmt.Sprintf("https://example.com/%d", i), "title", "crisis")
	}

	profile := tracker.Profile()
	require.Len(t, profile.ExternalClicks, 50)
	assert.Equal(t, "https://example.com/59", profile.ExternalClicks[0].URL)
}

func TestTrackerClearResetsProfile(t *testing.T) {
	tracker := NewTracker(NewMemoryProfileStore(), nil)

	tracker.Record("crisis", KindNavigation, "")
	tracker.RecordExternal("https://example.com", "t", "crisis")
	tracker.Clear()

	profile := tracker.Profile()
	assert.Empty(t, profile.Clicks)
	assert.Empty(t, profile.LastClicks)
	assert.Empty(t, profile.ExternalClicks)
	assert.Empty(t, tracker.TopInterests(3))
}

func TestTrackerOnChangeFiresSynchronously(t *testing.T) {
	var calls int
	tracker := NewTracker(NewMemoryProfileStore(), func(p *Profile) {
		calls++
	})

	tracker.Record("carers", KindNavigation, "")
	tracker.RecordExternal("https://example.com", "t", "")
	tracker.Clear()

	assert.Equal(t, 3, calls)
}

func TestFileProfileStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.json")
	tracker := NewTracker(NewFileProfileStore(path), nil)

	tracker.Record("degenerative", KindNavigation, "")
	tracker.Record("degenerative", KindNavigation, "")

	reloaded := NewTracker(NewFileProfileStore(path), nil)
	profile := reloaded.Profile()
	assert.InDelta(t, 2.0, profile.Clicks["degenerative"], 1e-9)
	assert.Equal(t, []string{"degenerative"}, profile.ClickOrder)
}

func TestTrackerDegradesToMemoryOnStoreFailure(t *testing.T) {
	// A directory path makes every file write fail.
	tracker := NewTracker(NewFileProfileStore(t.TempDir()), nil)

	tracker.Record("carers", KindNavigation, "")
	tracker.Record("carers", KindNavigation, "")

	profile := tracker.Profile()
	assert.InDelta(t, 2.0, profile.Clicks["carers"], 1e-9)
}
