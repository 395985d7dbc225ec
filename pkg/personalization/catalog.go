// Package personalization tracks visitor interests and ranks curated
// support resources against them. All state is local to the embedding
// client; nothing here talks to the network.
package personalization

// GeneralCategoryID is the sentinel returned when no category matches. It
// never appears in the catalog itself.
const GeneralCategoryID = "general"

// Resource is a single curated external link.
type Resource struct {
	Title       string `json:"title"`
	URL         string `json:"url"`
	Description string `json:"description"`
}

// Category is a topical grouping of resources with associated keywords and
// related categories.
type Category struct {
	ID       string
	Name     string
	Keywords []string
	Related  []string
	Resources []Resource
}

// Catalog holds categories in declaration order. Order matters: keyword
// classification and ranking tie-breaks follow it.
type Catalog struct {
	categories []Category
	byID       map[string]*Category
}

// NewCatalog builds a catalog from ordered categories.
func NewCatalog(categories []Category) *Catalog {
	c := &Catalog{
		categories: categories,
		byID:       make(map[string]*Category, len(categories)),
	}
	for i := range c.categories {
		c.byID[c.categories[i].ID] = &c.categories[i]
	}
	return c
}

// Categories returns the categories in declaration order.
func (c *Catalog) Categories() []Category {
	return c.categories
}

// Get returns the category with the given id.
func (c *Catalog) Get(id string) (*Category, bool) {
	cat, ok := c.byID[id]
	return cat, ok
}

// DefaultCatalog returns the built-in support categories.
func DefaultCatalog() *Catalog {
	return NewCatalog([]Category{
		{
			ID:       "mental-health",
			Name:     "Mental Health",
			Keywords: []string{"mind", "mental", "anxiety", "depression", "stress", "wellbeing", "therapy", "counselling", "psychology", "rethink", "sane", "helpguide", "beyondblue"},
			Related:  []string{"professional-guidance", "financial-support", "self-care"},
			Resources: []Resource{
				{Title: "Mind - Mental Health Support", URL: "https://www.mind.org.uk", Description: "Information and support for mental health problems"},
				{Title: "Rethink Mental Illness", URL: "https://www.rethink.org", Description: "Support for those severely affected by mental illness"},
				{Title: "SANE Mental Health", URL: "https://www.sane.org.uk", Description: "Emotional support and information"},
				{Title: "Mental Health Foundation", URL: "https://www.mentalhealth.org.uk", Description: "Prevention and research"},
			},
		},
		{
			ID:       "grief-loss",
			Name:     "Grief & Loss",
			Keywords: []string{"grief", "loss", "bereavement", "death", "dying", "cruse", "samaritans", "marie curie", "funeral", "mourning"},
			Related:  []string{"mental-health", "financial-support", "degenerative"},
			Resources: []Resource{
				{Title: "Cruse Bereavement Support", URL: "https://www.cruse.org.uk", Description: "Free bereavement support"},
				{Title: "Marie Curie", URL: "https://www.mariecurie.org.uk", Description: "End of life care and support"},
				{Title: "What's Your Grief", URL: "https://whatsyourgrief.com", Description: "Grief education and resources"},
				{Title: "Samaritans", URL: "https://www.samaritans.org", Description: "24/7 listening support"},
			},
		},
		{
			ID:       "degenerative",
			Name:     "Degenerative Conditions",
			Keywords: []string{"alzheimer", "dementia", "parkinson", "mnd", "motor neurone", "ms", "multiple sclerosis", "progressive", "neurological"},
			Related:  []string{"financial-support", "grief-loss", "professional-guidance"},
			Resources: []Resource{
				{Title: "Alzheimer's Society", URL: "https://www.alzheimers.org.uk", Description: "Dementia support and information"},
				{Title: "Parkinson's UK", URL: "https://www.parkinsons.org.uk", Description: "Support for Parkinson's"},
				{Title: "MND Association", URL: "https://www.mndassociation.org", Description: "Motor Neurone Disease support"},
				{Title: "MS Society", URL: "https://www.mssociety.org.uk", Description: "Multiple Sclerosis support"},
			},
		},
		{
			ID:       "financial-support",
			Name:     "Financial Support",
			Keywords: []string{"money", "financial", "benefits", "pip", "universal credit", "esa", "allowance", "grants", "debt", "carers allowance", "turn2us", "citizens advice"},
			Related:  []string{"mental-health", "degenerative", "carers"},
			Resources: []Resource{
				{Title: "Turn2us", URL: "https://www.turn2us.org.uk", Description: "Benefits calculator and grants search"},
				{Title: "Citizens Advice", URL: "https://www.citizensadvice.org.uk/benefits", Description: "Free benefits advice"},
				{Title: "Mental Health & Money Advice", URL: "https://mentalhealthandmoneyadvice.org", Description: "Money and mental health support"},
				{Title: "Carers UK Financial Support", URL: "https://www.carersuk.org/help-and-advice/financial-support", Description: "Help for carers"},
			},
		},
		{
			ID:       "professional-guidance",
			Name:     "Professional Guidance",
			Keywords: []string{"nice", "nhs", "rcpsych", "clinical", "guidelines", "treatment", "doctor", "psychiatrist", "gp", "medication"},
			Related:  []string{"mental-health", "degenerative"},
			Resources: []Resource{
				{Title: "NICE Guidelines", URL: "https://www.nice.org.uk", Description: "Evidence-based healthcare guidance"},
				{Title: "NHS Mental Health", URL: "https://www.nhs.uk/mental-health", Description: "NHS mental health services"},
				{Title: "Royal College of Psychiatrists", URL: "https://www.rcpsych.ac.uk/mental-health", Description: "Trusted mental health information"},
				{Title: "Clinical Knowledge Summaries", URL: "https://cks.nice.org.uk", Description: "Clinical guidance for professionals"},
			},
		},
		{
			ID:       "carers",
			Name:     "Carers Support",
			Keywords: []string{"carer", "caring", "caregiver", "family", "looking after", "support someone"},
			Related:  []string{"financial-support", "degenerative", "mental-health"},
			Resources: []Resource{
				{Title: "Carers UK", URL: "https://www.carersuk.org", Description: "Support and advice for carers"},
				{Title: "Carers Trust", URL: "https://carers.org", Description: "Help for unpaid carers"},
				{Title: "Dementia UK", URL: "https://www.dementiauk.org", Description: "Admiral Nurses for dementia carers"},
				{Title: "Young Carers", URL: "https://www.childrenssociety.org.uk/what-we-do/our-work/supporting-young-carers", Description: "Support for young carers"},
			},
		},
		{
			ID:       "crisis",
			Name:     "Crisis Support",
			Keywords: []string{"crisis", "urgent", "emergency", "suicide", "self-harm", "immediate", "now", "help"},
			Related:  []string{"mental-health", "grief-loss"},
			Resources: []Resource{
				{Title: "Samaritans - 116 123", URL: "https://www.samaritans.org", Description: "Free 24/7 support"},
				{Title: "NHS Crisis - 111", URL: "https://www.nhs.uk/nhs-services/mental-health-services", Description: "NHS mental health crisis"},
				{Title: "CALM - 0800 58 58 58", URL: "https://www.thecalmzone.net", Description: "For men in crisis"},
				{Title: "Shout - Text 85258", URL: "https://giveusashout.org", Description: "Crisis text support"},
			},
		},
	})
}
