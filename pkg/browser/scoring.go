package browser

import (
	"math"
	"sort"
	"strings"
)

// RawCandidate is an element whose text contains the query, before ranking.
type RawCandidate struct {
	Order      int    `json:"order"`
	Tag        string `json:"tag"`
	ParentTag  string `json:"parentTag"`
	Role       string `json:"role"`
	Text       string `json:"text"`
	OwnText    string `json:"ownText"`
	TextLength int    `json:"textLength"`
	Context    string `json:"context"`
	ID         string `json:"id"`
	Classes    string `json:"classes"`

	// Locator is a structural locator, set only for candidates produced by
	// a static parse.
	Locator string `json:"-"`
}

// ElementCandidate is a ranked match the agent can act on.
type ElementCandidate struct {
	Locator       string
	Text          string
	Tag           string
	Role          string
	ParentContext string
	Score         float64
	Order         int
}

var (
	interactiveTags = map[string]bool{"button": true, "a": true, "input": true, "select": true, "textarea": true}
	wrapperTags     = map[string]bool{"span": true, "div": true, "p": true}
	genericTags     = map[string]bool{"div": true, "span": true, "body": true, "html": true}
)

// Scoring weights. Only the resulting order is relied upon.
const (
	interactiveBonus   = 100.0
	ownTextBonus       = 50.0
	nestedLabelPenalty = 200.0
	genericPenalty     = 20.0
	lengthPenaltyCap   = 30.0
)

// Score rates how likely raw is the element a person means by query. Native
// controls win, text sitting directly in the element beats text inherited
// from descendants, the label span inside a button loses to the button, and
// shorter text is more specific.
func Score(raw RawCandidate, query string) float64 {
	score := 0.0

	if interactiveTags[raw.Tag] {
		score += interactiveBonus
	}
	if query != "" && strings.Contains(raw.OwnText, query) {
		score += ownTextBonus
	}
	if wrapperTags[raw.Tag] && interactiveTags[raw.ParentTag] {
		score -= nestedLabelPenalty
	}
	if genericTags[raw.Tag] {
		score -= genericPenalty
	}
	score -= math.Min(float64(raw.TextLength)/100, lengthPenaltyCap)

	return score
}

// Rank scores every candidate and returns the best limit of them, highest
// score first. Equal scores keep document order.
func Rank(raws []RawCandidate, query string, limit int) []ElementCandidate {
	ranked := make([]ElementCandidate, 0, len(raws))
	for _, raw := range raws {
		ranked = append(ranked, ElementCandidate{
			Locator:       raw.Locator,
			Text:          raw.Text,
			Tag:           raw.Tag,
			Role:          raw.Role,
			ParentContext: raw.Context,
			Score:         Score(raw, query),
			Order:         raw.Order,
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		return ranked[i].Order < ranked[j].Order
	})

	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}
