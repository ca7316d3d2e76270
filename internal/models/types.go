
package models

import (
	"fmt"
	"time"
)

// MatchTier is the strength of the match found for a keyword.
// Tiers are ordered by precedence: Exact > Partial > Semantic > None.
type MatchTier int

const (
	TierNone MatchTier = iota
	TierSemantic
	TierPartial
	TierExact
)

func (t MatchTier) String() string {
	switch t {
	case TierExact:
		return "exact"
	case TierPartial:
		return "partial"
	case TierSemantic:
		return "semantic"
	default:
		return "none"
	}
}

// Label is the human readable status used in exports.
func (t MatchTier) Label() string {
	switch t {
	case TierExact:
		return "Duplicate (Exact Slug)"
	case TierPartial:
		return "Duplicate (Partial Slug)"
	case TierSemantic:
		return "Similar Topic Exists"
	default:
		return "Clear"
	}
}

func (t MatchTier) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *MatchTier) UnmarshalText(b []byte) error {
	switch string(b) {
	case "exact":
		*t = TierExact
	case "partial":
		*t = TierPartial
	case "semantic":
		*t = TierSemantic
	case "none", "":
		*t = TierNone
	default:
		return fmt.Errorf("unknown match tier %q", string(b))
	}
	return nil
}

// Inventory is the deduplicated list of blog post URLs, in first-seen order.
// It is never mutated after it has been published.
type Inventory []string

type ClassificationRecord struct {
	Keyword      string    `json:"keyword"`
	Tier         MatchTier `json:"tier"`
	Status       string    `json:"status"`
	MatchedURL   *string   `json:"matchedUrl,omitempty"`
	MatchedTitle *string   `json:"matchedTitle,omitempty"`
	Score        *float64  `json:"score,omitempty"`
	PageTitle    *string   `json:"pageTitle,omitempty"`
}

// Warning reports a sitemap endpoint that was skipped after exhausting retries.
type Warning struct {
	Endpoint string `json:"endpoint"`
	Attempts int    `json:"attempts"`
	Error    string `json:"error"`
}

func (w Warning) String() string {
	return fmt.Sprintf("could not fetch sitemap %s after %d attempts: %s", w.Endpoint, w.Attempts, w.Error)
}

type Report struct {
	Records       []ClassificationRecord `json:"records"`
	Warnings      []Warning              `json:"warnings,omitempty"`
	InventorySize int                    `json:"inventorySize"`
	FromCache     bool                   `json:"fromCache"`
	FetchedAt     time.Time              `json:"fetchedAt"`
}
