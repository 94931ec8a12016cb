// Package match implements approximate business-name matching used to flag
// likely duplicate listings within a location.
//
// Detection is pure and side-effect-free: callers collect the candidate set
// (every business in the same location, across directories) and pass it to
// Find; persisting or clearing the advisory duplicate flag happens in the
// service layer. Scoring is a classic Levenshtein edit distance over
// normalized names, mapped onto a 0-100 integer scale, with a substring rule
// to catch suffix variants ("Joe's Plumbing" vs "Joe's Plumbing LLC") that
// raw edit distance understates.
//
// The scan is O(candidates × name length²), which is fine for single-city
// directories (hundreds of rows). If the candidate set ever grows large,
// pre-filter with an n-gram or phonetic index and keep this scoring as the
// final pass over the shortlist.
package match

import (
	"math"
	"sort"
	"strings"
	"unicode"
)

// Type classifies how a candidate matched.
type Type string

const (
	// TypeExact means the normalized names are identical (similarity 100).
	TypeExact Type = "exact"
	// TypePartial means one normalized name contains the other.
	TypePartial Type = "partial"
	// TypeSimilar means the names met the similarity threshold by edit
	// distance alone.
	TypeSimilar Type = "similar"
)

// DefaultThreshold is the minimum similarity score (0-100) at which a
// candidate is reported, absent a caller override.
const DefaultThreshold = 70

// Candidate is an existing business considered for duplicate comparison.
type Candidate struct {
	ID         string
	Name       string
	OwnerEmail string
}

// Match is one reported potential duplicate.
type Match struct {
	BusinessID   string `json:"business_id"`
	BusinessName string `json:"business_name"`
	OwnerEmail   string `json:"owner_email"`
	Similarity   int    `json:"similarity"`
	Type         Type   `json:"match_type"`
}

// Result wraps the outcome of a duplicate check.
type Result struct {
	HasDuplicates bool    `json:"has_duplicates"`
	Matches       []Match `json:"matches"`
}

// Normalize reduces a business name to its comparable form: lowercase, all
// characters that are neither alphanumeric nor spaces removed, whitespace
// runs collapsed to a single space, trimmed.
func Normalize(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range strings.ToLower(name) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// Levenshtein computes the edit distance between a and b with unit cost for
// insertion, deletion, and substitution, operating on runes. It uses the
// two-row form of the standard dynamic-programming table.
func Levenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = min3(curr[j-1]+1, prev[j]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(rb)]
}

// Similarity scores two raw names on a 0-100 integer scale: 100 when the
// normalized forms are equal, otherwise round((1 - dist/maxLen) * 100)
// clamped to [0,100]. It is symmetric in its arguments.
func Similarity(a, b string) int {
	na, nb := Normalize(a), Normalize(b)
	if na == nb {
		return 100
	}
	la, lb := len([]rune(na)), len([]rune(nb))
	maxLen := la
	if lb > maxLen {
		maxLen = lb
	}
	if maxLen == 0 {
		return 100
	}
	d := Levenshtein(na, nb)
	score := int(math.Round((1 - float64(d)/float64(maxLen)) * 100))
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	return score
}

// Find scores name against every candidate and returns those that either
// meet the threshold or contain one another as substrings (normalized),
// ordered by descending similarity. A threshold <= 0 falls back to
// DefaultThreshold. Candidates whose normalized name is empty are skipped.
func Find(name string, candidates []Candidate, threshold int) []Match {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	target := Normalize(name)
	if target == "" {
		return nil
	}

	var out []Match
	for _, c := range candidates {
		cn := Normalize(c.Name)
		if cn == "" {
			continue
		}
		sim := Similarity(name, c.Name)
		substr := strings.Contains(target, cn) || strings.Contains(cn, target)
		if sim < threshold && !substr {
			continue
		}
		out = append(out, Match{
			BusinessID:   c.ID,
			BusinessName: c.Name,
			OwnerEmail:   c.OwnerEmail,
			Similarity:   sim,
			Type:         classify(sim, substr),
		})
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Similarity > out[j].Similarity })
	return out
}

// classify maps a score and substring relation onto a match Type.
func classify(sim int, substr bool) Type {
	switch {
	case sim == 100:
		return TypeExact
	case substr:
		return TypePartial
	default:
		return TypeSimilar
	}
}

func min3(a, b, c int) int {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}
