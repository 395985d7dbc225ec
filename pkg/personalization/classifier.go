package personalization

import "strings"

// Signal bundles the evidence available when classifying one interaction:
// an explicit hint (a section identifier), the link URL, and its visible
// label.
type Signal struct {
	Hint  string
	URL   string
	Label string
}

// Classifier resolves interaction signals to catalog category ids.
type Classifier struct {
	catalog *Catalog
}

// NewClassifier creates a classifier over the given catalog.
func NewClassifier(catalog *Catalog) *Classifier {
	return &Classifier{catalog: catalog}
}

// Classify resolves a signal to a category id. The explicit hint wins when
// it names a known category; otherwise the URL and label are scanned for
// keywords in catalog order, first match wins. Unmatched signals fall back
// to the general sentinel.
func (cl *Classifier) Classify(signal Signal) string {
	if signal.Hint != "" {
		if _, ok := cl.catalog.Get(signal.Hint); ok {
			return signal.Hint
		}
	}

	searchText := strings.ToLower(signal.URL + " " + signal.Label)
	for _, category := range cl.catalog.Categories() {
		for _, keyword := range category.Keywords {
			if strings.Contains(searchText, strings.ToLower(keyword)) {
				return category.ID
			}
		}
	}

	return GeneralCategoryID
}
