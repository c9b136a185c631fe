package strategy

import "strings"

// TraceabilityThreshold is the minimum keyword-overlap ratio at which a
// planning priority links to a strategy priority.
const TraceabilityThreshold = 0.15

// tokenize lowercases text and keeps words longer than three characters.
func tokenize(text string) map[string]bool {
	words := make(map[string]bool)
	for _, w := range strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !('a' <= r && r <= 'z' || '0' <= r && r <= '9')
	}) {
		if len(w) > 3 {
			words[w] = true
		}
	}
	return words
}

// overlapRatio returns |a ∩ b| / |a| for the candidate token set a.
func overlapRatio(a, b map[string]bool) float64 {
	if len(a) == 0 {
		return 0
	}
	shared := 0
	for w := range a {
		if b[w] {
			shared++
		}
	}
	return float64(shared) / float64(len(a))
}

// TraceToStrategy finds the best-matching strategy priority for a planning
// priority entry by keyword overlap. Returns nil when no candidate clears
// the threshold.
func TraceToStrategy(entry *PriorityEntry, candidates []*StrategyPriority) *StrategyPriority {
	entryTokens := tokenize(entry.Effect + " " + entry.Description)
	if len(entryTokens) == 0 {
		return nil
	}

	var best *StrategyPriority
	bestRatio := 0.0
	for _, candidate := range candidates {
		ratio := overlapRatio(entryTokens, tokenize(candidate.Objective+" "+candidate.Description))
		if ratio >= TraceabilityThreshold && ratio > bestRatio {
			best = candidate
			bestRatio = ratio
		}
	}
	return best
}
