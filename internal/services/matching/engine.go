package matching

import (
	fuzzy "github.com/paul-mannino/go-fuzzywuzzy"
)

// MatchThreshold is the minimum similarity score (0-100) at which a raw
// attendance name is accepted as a spelling of a canonical roster name.
// This is a business rule, not a request parameter.
const MatchThreshold = 90

// Scorer rates how similar a raw name is to a canonical one, 0-100.
type Scorer interface {
	Score(raw, canonical string) int
}

// TokenSetScorer scores with a token-set ratio: insensitive to word order
// and duplicated words, which is how the roster and attendance systems
// usually disagree about a name (reordering, middle names, abbreviations).
type TokenSetScorer struct{}

func (TokenSetScorer) Score(raw, canonical string) int {
	return fuzzy.TokenSetRatio(raw, canonical)
}

type Engine struct {
	scorer    Scorer
	threshold int
}

// NewEngine builds a reconciliation engine. A nil scorer selects the
// token-set scorer.
func NewEngine(scorer Scorer) *Engine {
	if scorer == nil {
		scorer = TokenSetScorer{}
	}
	return &Engine{scorer: scorer, threshold: MatchThreshold}
}

// MapNames resolves each raw name to its best-scoring canonical name.
// Only raw names whose best score reaches the threshold appear in the
// result; ties keep the first-encountered maximum, so the mapping is
// deterministic for a fixed canonical ordering.
func (e *Engine) MapNames(rawNames, canonicalNames []string) map[string]string {
	mapping := make(map[string]string, len(rawNames))
	for _, raw := range rawNames {
		bestScore := -1
		bestName := ""
		for _, canonical := range canonicalNames {
			if score := e.scorer.Score(raw, canonical); score > bestScore {
				bestScore = score
				bestName = canonical
			}
		}
		if bestScore >= e.threshold {
			mapping[raw] = bestName
		}
	}
	return mapping
}
