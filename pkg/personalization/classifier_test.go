package personalization

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyHintWins(t *testing.T) {
	cl := NewClassifier(DefaultCatalog())

	got := cl.Classify(Signal{Hint: "grief-loss", URL: "https://example.com/unrelated", Label: "nothing here"})
	assert.Equal(t, "grief-loss", got)
}

func TestClassifyUnknownHintFallsThroughToKeywords(t *testing.T) {
	cl := NewClassifier(DefaultCatalog())

	got := cl.Classify(Signal{Hint: "not-a-category", Label: "I need help with anxiety"})
	assert.Equal(t, "mental-health", got)
}

func TestClassifyKeywordScan(t *testing.T) {
	cl := NewClassifier(DefaultCatalog())

	tests := []struct {
		name   string
		signal Signal
		want   string
	}{
		{"label keyword", Signal{Label: "I need help with anxiety"}, "mental-health"},
		{"url keyword", Signal{URL: "https://www.turn2us.org.uk/benefits"}, "financial-support"},
		{"case insensitive", Signal{Label: "DEMENTIA support group"}, "degenerative"},
		{"carer label", Signal{Label: "looking after my mum"}, "carers"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, cl.Classify(tt.signal))
		})
	}
}

func TestClassifyCatalogOrderBreaksTies(t *testing.T) {
	cl := NewClassifier(DefaultCatalog())

	// "stress" (mental-health) and "grief" (grief-loss) both match; the
	// catalog declares mental-health first.
	got := cl.Classify(Signal{Label: "stress and grief"})
	assert.Equal(t, "mental-health", got)
}

func TestClassifyNoMatchReturnsGeneral(t *testing.T) {
	cl := NewClassifier(DefaultCatalog())

	got := cl.Classify(Signal{URL: "https://example.com/zzz", Label: "qqqq"})
	assert.Equal(t, GeneralCategoryID, got)
}
