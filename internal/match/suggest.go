package match

import (
	"sort"
)

// DefaultThreshold is the minimum similarity for a name to be suggested.
const DefaultThreshold = 0.5

// Candidate is an available name scored against a wanted one.
type Candidate struct {
	Name  string
	Score float64
}

// CandidateList is a list of candidates with ranking functionality.
type CandidateList []Candidate

// Rank scores every available name against want, best first. Duplicate
// names are scored once.
func Rank(want string, available []string) CandidateList {
	seen := make(map[string]struct{}, len(available))
	out := make(CandidateList, 0, len(available))

	for _, name := range available {
		if _, ok := seen[name]; ok {
			continue
		}

		seen[name] = struct{}{}
		out = append(out, Candidate{Name: name, Score: NameSimilarity(want, name)})
	}

	sort.Sort(out)

	return out
}

// Suggest returns up to limit available names similar enough to want.
func Suggest(want string, available []string, limit int) []string {
	ranked := Rank(want, available).AboveThreshold(DefaultThreshold).Top(limit)

	out := make([]string, len(ranked))
	for i, c := range ranked {
		out[i] = c.Name
	}

	return out
}

// Len implements sort.Interface.
func (c CandidateList) Len() int { return len(c) }

// Swap implements sort.Interface.
func (c CandidateList) Swap(i, j int) { c[i], c[j] = c[j], c[i] }

// Less implements sort.Interface.
// Sorts by score descending, then by name for determinism.
func (c CandidateList) Less(i, j int) bool {
	if c[i].Score != c[j].Score {
		return c[i].Score > c[j].Score
	}

	return c[i].Name < c[j].Name
}

// Top returns the top n candidates.
func (c CandidateList) Top(n int) CandidateList {
	if n < 0 || n >= len(c) {
		return c
	}

	return c[:n]
}

// AboveThreshold returns candidates scoring at least threshold.
func (c CandidateList) AboveThreshold(threshold float64) CandidateList {
	var result CandidateList

	for _, cand := range c {
		if cand.Score >= threshold {
			result = append(result, cand)
		}
	}

	return result
}
