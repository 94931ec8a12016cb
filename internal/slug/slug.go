// Package slug derives URL-safe, human-readable identifiers for business
// listings and resolves collisions within a (location, directory) scope.
//
// Slugs are at most MaxLen bytes, contain only [a-z0-9-], and are unique
// within their scope at the time of the check. Uniqueness is verified through
// the narrow Checker interface so the package stays independent of the
// storage layer; the creation transaction in the service layer additionally
// relies on a database unique index with retry-on-conflict to close the
// check-then-insert window.
package slug

import (
	"context"
	"errors"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// MaxLen is the hard cap on generated slug length, in bytes.
const MaxLen = 50

// ErrEmptyBase is returned when a business name normalizes to nothing
// (no alphanumeric content). Callers should surface it as input validation,
// not as a generator fault.
var ErrEmptyBase = errors.New("slug: name yields an empty slug")

// errExhausted guards against a broken Checker that reports every candidate
// as taken; in practice the counter loop terminates long before this.
var errExhausted = errors.New("slug: no unique candidate found")

var (
	nonSlugRE   = regexp.MustCompile(`[^a-z0-9\s-]`)
	spaceRunRE  = regexp.MustCompile(`\s+`)
	hyphenRunRE = regexp.MustCompile(`-{2,}`)

	// streetRE captures the street portion of a number-prefixed address,
	// up to the first comma: "456 Oak Ave, Anytown" -> "Oak Ave".
	streetRE = regexp.MustCompile(`^\d+\s+(.+?)(?:,|$)`)

	// foldDiacritics decomposes accented characters and drops the combining
	// marks, so "Café Río" normalizes to "cafe-rio" rather than "caf-ro".
	foldDiacritics = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
)

// streetSuffixes are common street-type words stripped from the end of an
// extracted street name before it is used as a slug disambiguator.
var streetSuffixes = map[string]struct{}{
	"st": {}, "street": {}, "ave": {}, "avenue": {}, "rd": {}, "road": {},
	"blvd": {}, "boulevard": {}, "dr": {}, "drive": {}, "ln": {}, "lane": {},
	"ct": {}, "court": {}, "way": {}, "pl": {}, "place": {},
}

// Base normalizes a business name into slug form: lowercase, apostrophes
// stripped, "&" spelled out as "and", all characters outside [a-z0-9\s-]
// removed, whitespace runs collapsed to single hyphens, repeated hyphens
// collapsed, leading/trailing hyphens trimmed, and the result truncated to
// MaxLen. Already-normalized input is a fixed point.
func Base(name string) string {
	s := strings.ToLower(name)
	if folded, _, err := transform.String(foldDiacritics, s); err == nil {
		s = folded
	}
	s = strings.NewReplacer("'", "", "’", "", "&", "and").Replace(s)
	s = nonSlugRE.ReplaceAllString(s, "")
	s = spaceRunRE.ReplaceAllString(strings.TrimSpace(s), "-")
	s = hyphenRunRE.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")
	return clamp(s)
}

// StreetName extracts the street name from the first number-prefixed token
// sequence of an address ("123 Main St, Anytown" -> "Main"), stripping a
// trailing street-type suffix. It returns "" when no street can be derived.
func StreetName(address string) string {
	m := streetRE.FindStringSubmatch(strings.TrimSpace(address))
	if m == nil {
		return ""
	}
	fields := strings.Fields(m[1])
	if len(fields) > 1 {
		last := strings.ToLower(strings.TrimSuffix(fields[len(fields)-1], "."))
		if _, ok := streetSuffixes[last]; ok {
			fields = fields[:len(fields)-1]
		}
	}
	return strings.Join(fields, " ")
}

// Checker answers whether a candidate slug is already taken within the
// (locationID, directoryID) scope. excludeID, when non-empty, names a
// business whose own row is ignored (used when regenerating the slug of an
// existing listing being edited).
type Checker interface {
	SlugExists(ctx context.Context, slug, locationID, directoryID, excludeID string) (bool, error)
}

// Generator resolves slug collisions against the current table state.
// It holds no state of its own and is safe for concurrent use.
type Generator struct {
	Checker Checker
}

// NewGenerator returns a Generator backed by the given Checker.
func NewGenerator(c Checker) *Generator { return &Generator{Checker: c} }

// Unique derives a slug for name that is unused within the scope, trying in
// order: the base slug, the base slug suffixed with the normalized street
// name from address, and finally numeric suffixes -2, -3, ... (shortening
// the base when a suffix would overflow MaxLen). The returned slug is always
// at most MaxLen bytes.
//
// Determinism: no randomness or I/O beyond the Checker; the result depends
// only on the inputs and current table state.
func (g *Generator) Unique(ctx context.Context, name, address, locationID, directoryID, excludeID string) (string, error) {
	base := Base(name)
	if base == "" {
		return "", ErrEmptyBase
	}

	taken, err := g.Checker.SlugExists(ctx, base, locationID, directoryID, excludeID)
	if err != nil {
		return "", err
	}
	if !taken {
		return base, nil
	}

	if street := Base(StreetName(address)); street != "" {
		cand := clamp(base + "-" + street)
		taken, err = g.Checker.SlugExists(ctx, cand, locationID, directoryID, excludeID)
		if err != nil {
			return "", err
		}
		if !taken {
			return cand, nil
		}
	}

	for n := 2; n < 10000; n++ {
		suffix := "-" + strconv.Itoa(n)
		prefix := base
		if len(prefix)+len(suffix) > MaxLen {
			prefix = strings.TrimRight(base[:MaxLen-len(suffix)], "-")
		}
		cand := prefix + suffix
		taken, err = g.Checker.SlugExists(ctx, cand, locationID, directoryID, excludeID)
		if err != nil {
			return "", err
		}
		if !taken {
			return cand, nil
		}
	}
	return "", errExhausted
}

// clamp truncates s to MaxLen bytes, trimming a trailing hyphen the cut may
// have introduced. Safe on ASCII slugs (Base output is ASCII-only).
func clamp(s string) string {
	if len(s) <= MaxLen {
		return s
	}
	return strings.TrimRight(s[:MaxLen], "-")
}
