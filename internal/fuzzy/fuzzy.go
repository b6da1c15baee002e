// Package fuzzy suggests the closest option name for a mistyped reference.
package fuzzy

import (
	"sort"
	"strings"

	"github.com/xrash/smetrics"
)

// Matcher ranks candidates by edit distance.
type Matcher struct {
	maxDistance int
	minLength   int
}

// NewMatcher creates a matcher accepting candidates within maxDistance edits.
func NewMatcher(maxDistance int) *Matcher {
	return &Matcher{
		maxDistance: maxDistance,
		minLength:   2,
	}
}

// Match is one accepted candidate.
type Match struct {
	Value    string
	Distance int
	Score    float64 // 0.0 to 1.0, higher is better
}

// FindBest returns the best candidate for input, or "" when none is close enough.
func (m *Matcher) FindBest(input string, candidates []string) string {
	matches := m.FindMatches(input, candidates)
	if len(matches) == 0 {
		return ""
	}
	return matches[0].Value
}

// FindMatches returns the accepted candidates, best first.
// Exact (case-insensitive) matches are skipped.
func (m *Matcher) FindMatches(input string, candidates []string) []Match {
	if len(input) < m.minLength {
		return nil
	}

	input = strings.ToLower(input)
	var matches []Match
	for _, candidate := range candidates {
		lower := strings.ToLower(candidate)
		if lower == input {
			continue
		}
		if abs(len(lower)-len(input)) > m.maxDistance {
			continue
		}
		distance := Distance(input, lower)
		if distance > m.maxDistance {
			continue
		}
		matches = append(matches, Match{
			Value:    candidate,
			Distance: distance,
			Score:    score(input, lower, distance),
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Score == matches[j].Score {
			return matches[i].Distance < matches[j].Distance
		}
		return matches[i].Score > matches[j].Score
	})
	return matches
}

// Distance is the unit-cost Levenshtein distance between a and b.
func Distance(a, b string) int {
	return smetrics.WagnerFischer(a, b, 1, 1, 1)
}

// score blends edit distance with Jaro-Winkler similarity so that shared
// prefixes break ties between equally distant candidates.
func score(input, candidate string, distance int) float64 {
	longest := max(len(input), len(candidate))
	if longest == 0 {
		return 1.0
	}
	edit := 1.0 - float64(distance)/float64(longest)
	jw := smetrics.JaroWinkler(input, candidate, 0.7, 4)
	return 0.7*edit + 0.3*jw
}

func abs(a int) int {
	if a < 0 {
		return -a
	}
	return a
}

// FindBestFlag finds the closest flag name.
func FindBestFlag(input string, flags []string, maxDistance int) string {
	return NewMatcher(maxDistance).FindBest(input, flags)
}
