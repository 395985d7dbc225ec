package personalization

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecommendEmptyProfileReturnsGeneralMix(t *testing.T) {
	ranker := NewRanker(DefaultCatalog())

	recs := ranker.Recommend(nil)
	require.Len(t, recs, 6)
	for _, rec := range recs {
		assert.Equal(t, RelevanceGeneral, rec.Relevance)
	}
	assert.Equal(t, "https://www.mind.org.uk", recs[0].URL)
	assert.Equal(t, "https://www.cruse.org.uk", recs[2].URL)
	assert.Equal(t, "https://www.turn2us.org.uk", recs[4].URL)
}

func TestRecommendPrimaryBeforeRelated(t *testing.T) {
	ranker := NewRanker(DefaultCatalog())

	recs := ranker.Recommend([]Interest{{Category: "crisis", Weight: 3}})
	require.NotEmpty(t, recs)

	// All four crisis resources first, tagged primary.
	for i := 0; i < 4; i++ {
		assert.Equal(t, "crisis", recs[i].Category)
		assert.Equal(t, RelevancePrimary, recs[i].Relevance)
	}
	// Then the first two of each related category.
	assert.Equal(t, RelevanceRelated, recs[4].Relevance)
	assert.Equal(t, "mental-health", recs[4].Category)
}

func TestRecommendNeverDuplicatesURLs(t *testing.T) {
	ranker := NewRanker(DefaultCatalog())

	// grief-loss and crisis both curate the Samaritans URL.
	recs := ranker.Recommend([]Interest{
		{Category: "grief-loss", Weight: 5},
		{Category: "crisis", Weight: 2},
	})

	seen := make(map[string]bool)
	for _, rec := range recs {
		assert.False(t, seen[rec.URL], "duplicate url %s", rec.URL)
		seen[rec.URL] = true
	}
}

func TestRecommendTruncatesToMaxResults(t *testing.T) {
	ranker := NewRanker(DefaultCatalog())

	recs := ranker.Recommend([]Interest{
		{Category: "mental-health", Weight: 9},
		{Category: "degenerative", Weight: 4},
		{Category: "financial-support", Weight: 2},
	})
	assert.LessOrEqual(t, len(recs), DefaultMaxResults)
	assert.Len(t, recs, DefaultMaxResults)
}

func TestRecommendFirstOccurrenceWins(t *testing.T) {
	ranker := NewRanker(DefaultCatalog())

	// Samaritans is primary for grief-loss; when crisis is ranked first it
	// claims that URL as its own primary instead.
	recs := ranker.Recommend([]Interest{{Category: "crisis", Weight: 1}})
	for _, rec := range recs {
		if rec.URL == "https://www.samaritans.org" {
			assert.Equal(t, "crisis", rec.Category)
			assert.Equal(t, RelevancePrimary, rec.Relevance)
			return
		}
	}
	t.Fatal("expected samaritans resource in recommendations")
}

func TestRecommendIgnoresUnknownCategories(t *testing.T) {
	ranker := NewRanker(DefaultCatalog())

	recs := ranker.Recommend([]Interest{{Category: "general", Weight: 2}})
	// Unknown interest contributes nothing, so the general mix applies.
	assert.Len(t, recs, 6)
}
