
package classifier

import (
	"strings"

	"contentguard/internal/models"
	"contentguard/internal/similarity"
	"contentguard/internal/slug"
)

// DefaultThreshold is the similarity a slug must exceed to count as a similar topic.
const DefaultThreshold = 0.7

type Classifier struct {
	threshold float64
}

func New(threshold float64) *Classifier { return &Classifier{threshold: threshold} }

// Classify matches one keyword against the inventory. Tiers are tried in
// precedence order and the first URL of the winning tier, in inventory
// order, is reported. The similarity scan only runs when neither the exact
// nor the partial tier matched anything.
func (c *Classifier) Classify(keyword string, inv models.Inventory) models.ClassificationRecord {
	kwSlug := slug.FromKeyword(keyword)

	tier := models.TierNone
	var match string
	var score *float64

	for _, u := range inv {
		if slug.LastSegment(u) == kwSlug {
			tier, match = models.TierExact, u
			break
		}
	}

	// no exact match means no URL needs excluding from the partial scan
	if tier == models.TierNone && kwSlug != "" {
		for _, u := range inv {
			if strings.Contains(u, kwSlug) {
				tier, match = models.TierPartial, u
				break
			}
		}
	}

	if tier == models.TierNone {
		for _, u := range inv {
			if s := similarity.Score(slug.Extract(u), keyword); s > c.threshold {
				tier, match, score = models.TierSemantic, u, &s
				break
			}
		}
	}

	rec := models.ClassificationRecord{
		Keyword: keyword,
		Tier:    tier,
		Status:  tier.Label(),
		Score:   score,
	}
	if tier != models.TierNone {
		title := slug.Title(slug.Extract(match))
		rec.MatchedURL = &match
		rec.MatchedTitle = &title
	}
	return rec
}

// ClassifyAll classifies keywords one at a time in the given order. progress,
// when set, is called after each keyword with the number done so far.
func (c *Classifier) ClassifyAll(keywords []string, inv models.Inventory, progress func(done, total int)) []models.ClassificationRecord {
	out := make([]models.ClassificationRecord, 0, len(keywords))
	for i, kw := range keywords {
		out = append(out, c.Classify(kw, inv))
		if progress != nil {
			progress(i+1, len(keywords))
		}
	}
	return out
}
