package personalization

// Relevance tags how a recommendation was selected.
type Relevance string

const (
	RelevancePrimary Relevance = "primary"
	RelevanceRelated Relevance = "related"
	RelevanceGeneral Relevance = "general"
)

// DefaultMaxResults bounds the recommendation list.
const DefaultMaxResults = 8

// Recommendation is one ranked resource.
type Recommendation struct {
	Resource
	Category  string    `json:"category"`
	Relevance Relevance `json:"relevance"`
}

// Ranker assembles recommendation lists from an interest profile. Greedy and
// deterministic: same profile and catalog, same output.
type Ranker struct {
	catalog    *Catalog
	maxResults int
}

// NewRanker creates a ranker with the default result bound.
func NewRanker(catalog *Catalog) *Ranker {
	return &Ranker{catalog: catalog, maxResults: DefaultMaxResults}
}

// Recommend ranks resources for the given interests, strongest first. For
// each of the top three interests it takes that category's full resource
// list, then the first two resources of each related category. Duplicate
// URLs keep their first selection. An empty profile falls back to a fixed
// general mix.
func (r *Ranker) Recommend(interests []Interest) []Recommendation {
	if len(interests) > 3 {
		interests = interests[:3]
	}

	recommendations := []Recommendation{}
	seen := make(map[string]bool)

	add := func(res Resource, category string, relevance Relevance) {
		if seen[res.URL] {
			return
		}
		seen[res.URL] = true
		recommendations = append(recommendations, Recommendation{
			Resource:  res,
			Category:  category,
			Relevance: relevance,
		})
	}

	for _, interest := range interests {
		category, ok := r.catalog.Get(interest.Category)
		if !ok {
			continue
		}

		for _, res := range category.Resources {
			add(res, category.ID, RelevancePrimary)
		}
		for _, relatedID := range category.Related {
			related, ok := r.catalog.Get(relatedID)
			if !ok {
				continue
			}
			for _, res := range firstN(related.Resources, 2) {
				add(res, relatedID, RelevanceRelated)
			}
		}
	}

	if len(recommendations) == 0 {
		for _, id := range []string{"mental-health", "grief-loss", "financial-support"} {
			category, ok := r.catalog.Get(id)
			if !ok {
				continue
			}
			for _, res := range firstN(category.Resources, 2) {
				add(res, id, RelevanceGeneral)
			}
		}
		return recommendations
	}

	if len(recommendations) > r.maxResults {
		recommendations = recommendations[:r.maxResults]
	}
	return recommendations
}

func firstN(resources []Resource, n int) []Resource {
	if len(resources) > n {
		return resources[:n]
	}
	return resources
}
