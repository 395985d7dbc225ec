// Package feedback defines the core entities for resource feedback:
// per-resource aggregates, per-visitor vote interactions, and comments.
package feedback

import "time"

// VoteChoice is a visitor's current vote state for one resource.
type VoteChoice string

const (
	VoteNone    VoteChoice = ""
	VoteLike    VoteChoice = "like"
	VoteDislike VoteChoice = "dislike"
)

// IsValid reports whether the choice is one a visitor may submit.
// VoteNone is reached only by toggling, never submitted directly.
func (v VoteChoice) IsValid() bool {
	return v == VoteLike || v == VoteDislike
}

// MarshalJSON renders VoteNone as null so clients see the absence of a vote.
func (v VoteChoice) MarshalJSON() ([]byte, error) {
	if v == VoteNone {
		return []byte("null"), nil
	}
	return []byte(`"` + string(v) + `"`), nil
}

// UnmarshalJSON accepts "like", "dislike", null, or "" (treated as none).
func (v *VoteChoice) UnmarshalJSON(data []byte) error {
	switch string(data) {
	case "null", `""`:
		*v = VoteNone
	default:
		*v = VoteChoice(trimQuotes(string(data)))
	}
	return nil
}

func trimQuotes(s string) string {
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		return s[1 : len(s)-1]
	}
	return s
}

// Aggregate holds the server-side like/dislike counters for one resource.
// Counts are never negative and reflect exactly one current vote per
// visitor who has ever voted on the resource.
type Aggregate struct {
	ResourceID string    `json:"resourceId"`
	Likes      int64     `json:"likes"`
	Dislikes   int64     `json:"dislikes"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// VoteInteraction is the single row kept per (visitor, resource). It records
// the visitor's current vote only; prior votes are not retained.
type VoteInteraction struct {
	VisitorID  string     `json:"visitorId"`
	ResourceID string     `json:"resourceId"`
	Vote       VoteChoice `json:"vote"`
	Timestamp  time.Time  `json:"timestamp"`
}

// Comment is one anonymous comment on a resource. VisitorHash is a one-way
// fold of the visitor id kept for attribution only.
type Comment struct {
	ID          string    `json:"id"`
	ResourceID  string    `json:"resourceId"`
	Text        string    `json:"text"`
	VisitorHash string    `json:"-"`
	Timestamp   time.Time `json:"timestamp"`
	Helpful     int       `json:"helpful"`
}

// Snapshot is the wire shape returned for a single resource, including the
// calling visitor's current vote.
type Snapshot struct {
	ResourceID   string     `json:"resourceId"`
	Likes        int64      `json:"likes"`
	Dislikes     int64      `json:"dislikes"`
	UserVote     VoteChoice `json:"userVote"`
	CommentCount int        `json:"commentCount"`
}

// Totals is the per-resource entry in the bulk feedback response.
type Totals struct {
	Likes        int64 `json:"likes"`
	Dislikes     int64 `json:"dislikes"`
	CommentCount int   `json:"commentCount"`
}
