package match

import (
	"sort"
)

// DefaultThreshold is the similarity a known name needs to be suggested.
const DefaultThreshold = 0.5

// Candidate is a known name scored against the name that was asked for.
type Candidate struct {
	Name       string
	Normalized string
	// NameScore is the normalized Levenshtein similarity (0-1)
	NameScore float64
}

// CandidateList is sorted by score, best first.
type CandidateList []Candidate

// RankCandidates scores every known name against target.
func RankCandidates(target string, known []string) CandidateList {
	targetNorm := NormalizeIdent(target)
	candidates := make(CandidateList, 0, len(known))

	for _, name := range known {
		norm := NormalizeIdent(name)

		candidates = append(candidates, Candidate{
			Name:       name,
			Normalized: norm,
			NameScore:  LevenshteinNormalized(norm, targetNorm),
		})
	}

	sort.Sort(candidates)

	return candidates
}

// Suggest returns at most limit known names whose similarity to target reaches
// threshold, best first. A non-positive limit means no limit.
func Suggest(target string, known []string, threshold float64, limit int) []string {
	var out []string

	for _, c := range RankCandidates(target, known) {
		if c.NameScore < threshold {
			break
		}

		out = append(out, c.Name)

		if limit > 0 && len(out) == limit {
			break
		}
	}

	return out
}

func (c CandidateList) Len() int      { return len(c) }
func (c CandidateList) Swap(i, j int) { c[i], c[j] = c[j], c[i] }

func (c CandidateList) Less(i, j int) bool {
	if c[i].NameScore != c[j].NameScore {
		return c[i].NameScore > c[j].NameScore
	}

	return c[i].Name < c[j].Name
}
