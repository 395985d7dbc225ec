package personalization

import (
	"sort"
	"time"
)

// EventKind tags one interaction with how it happened.
type EventKind string

const (
	KindNavigation     EventKind = "navigation"
	KindExternalLink   EventKind = "external-link"
	KindAccordion      EventKind = "accordion"
	KindRecommendation EventKind = "recommendation"
	KindPassiveView    EventKind = "passive-view"
	KindSearch         EventKind = "search"
)

const (
	explicitWeight = 1.0
	passiveWeight  = 0.1

	detailedHistoryCap = 20
	externalHistoryCap = 50
)

// InteractionEvent is one recorded interaction.
type InteractionEvent struct {
	Category  string    `json:"category"`
	Kind      EventKind `json:"kind"`
	Detail    string    `json:"detail,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// ExternalClick records one outbound link visit.
type ExternalClick struct {
	URL       string    `json:"url"`
	Title     string    `json:"title"`
	Category  string    `json:"category,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Interest is one entry of the weight-ordered interest ranking.
type Interest struct {
	Category string
	Weight   float64
}

// Tracker accumulates interaction events into a persisted interest profile.
// Single-writer local state: no concurrency guard beyond the store's own.
type Tracker struct {
	store    ProfileStore
	onChange func(*Profile)

	// set after the first persistence failure; the tracker carries on with
	// an in-memory store for the rest of the session
	degraded bool
}

// NewTracker creates a tracker over the given profile store. The onChange
// observer, if non-nil, fires synchronously after every successful record.
func NewTracker(store ProfileStore, onChange func(*Profile)) *Tracker {
	return &Tracker{store: store, onChange: onChange}
}

// Record appends an interaction event and bumps the category's accumulated
// weight. Passive views weigh a tenth of an explicit interaction.
func (t *Tracker) Record(category string, kind EventKind, detail string) {
	weight := explicitWeight
	if kind == KindPassiveView {
		weight = passiveWeight
	}

	t.mutate(func(p *Profile) {
		bumpWeight(p, category, weight)
		p.LastClicks = append([]InteractionEvent{{
			Category:  category,
			Kind:      kind,
			Detail:    detail,
			Timestamp: time.Now(),
		}}, p.LastClicks...)
		if len(p.LastClicks) > detailedHistoryCap {
			p.LastClicks = p.LastClicks[:detailedHistoryCap]
		}
	})
}

// RecordExternal appends an outbound link visit and, when the link was
// classified, counts it toward that category's weight.
func (t *Tracker) RecordExternal(url, title, category string) {
	t.mutate(func(p *Profile) {
		p.ExternalClicks = append([]ExternalClick{{
			URL:       url,
			Title:     title,
			Category:  category,
			Timestamp: time.Now(),
		}}, p.ExternalClicks...)
		if len(p.ExternalClicks) > externalHistoryCap {
			p.ExternalClicks = p.ExternalClicks[:externalHistoryCap]
		}

		if category != "" {
			bumpWeight(p, category, explicitWeight)
		}
	})
}

// TopInterests returns up to limit categories ordered by accumulated weight
// descending, ties broken by first insertion order.
func (t *Tracker) TopInterests(limit int) []Interest {
	profile := t.profile()

	interests := make([]Interest, 0, len(profile.ClickOrder))
	for _, category := range profile.ClickOrder {
		interests = append(interests, Interest{Category: category, Weight: profile.Clicks[category]})
	}
	sort.SliceStable(interests, func(i, j int) bool {
		return interests[i].Weight > interests[j].Weight
	})

	if limit >= 0 && len(interests) > limit {
		interests = interests[:limit]
	}
	return interests
}

// Profile returns a snapshot of the current profile.
func (t *Tracker) Profile() *Profile {
	return t.profile()
}

// Clear resets the profile to its default empty state.
func (t *Tracker) Clear() {
	fresh := NewProfile()
	if err := t.store.Save(fresh); err != nil {
		t.degrade(fresh)
	}
	if t.onChange != nil {
		t.onChange(fresh)
	}
}

func (t *Tracker) mutate(fn func(*Profile)) {
	if err := t.store.Mutate(fn); err != nil {
		// Carry the last readable state into memory and retry there.
		// Persistence failures are deliberately invisible to the caller.
		profile, loadErr := t.store.Load()
		if loadErr != nil || profile == nil {
			profile = NewProfile()
		}
		t.degrade(profile)
		_ = t.store.Mutate(fn)
	}

	if t.onChange != nil {
		t.onChange(t.profile())
	}
}

func (t *Tracker) degrade(seed *Profile) {
	if t.degraded {
		return
	}
	mem := NewMemoryProfileStore()
	_ = mem.Save(seed)
	t.store = mem
	t.degraded = true
}

func (t *Tracker) profile() *Profile {
	profile, err := t.store.Load()
	if err != nil || profile == nil {
		return NewProfile()
	}
	return profile
}

func bumpWeight(p *Profile, category string, weight float64) {
	if _, seen := p.Clicks[category]; !seen {
		p.ClickOrder = append(p.ClickOrder, category)
	}
	p.Clicks[category] += weight
}
