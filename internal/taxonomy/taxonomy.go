// Package taxonomy normalizes free-text category and capability labels so the
// shared vocabulary converges on one spelling per label.
package taxonomy

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var smallWords = map[string]struct{}{
	"a": {}, "an": {}, "and": {}, "as": {}, "at": {}, "but": {}, "by": {},
	"for": {}, "in": {}, "nor": {}, "of": {}, "on": {}, "or": {}, "per": {},
	"the": {}, "to": {}, "via": {}, "vs": {}, "yet": {},
}

// Clean trims s and collapses runs of whitespace to one space.
func Clean(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Key is the comparison form of a label: cleaned and Unicode case folded.
// Two labels match when their keys are equal.
func Key(s string) string {
	return cases.Fold().String(Clean(s))
}

// Equal reports whether a and b are the same label ignoring case and spacing.
func Equal(a, b string) bool {
	return Key(a) == Key(b)
}

// TitleCase re-cases s to Title Case. Small words (articles, short
// prepositions and conjunctions) stay lower case unless they lead.
func TitleCase(s string) string {
	words := strings.Fields(lower(s))
	for i, w := range words {
		if _, ok := smallWords[w]; ok && i > 0 {
			continue
		}
		words[i] = capitalize(w)
	}
	return strings.Join(words, " ")
}

// CapitalizeWords re-cases s with every word capitalized.
func CapitalizeWords(s string) string {
	words := strings.Fields(lower(s))
	for i, w := range words {
		words[i] = capitalize(w)
	}
	return strings.Join(words, " ")
}

// NormalizeCategory returns the existing category matching raw, if any, so the
// first spelling ever used wins. Otherwise it returns raw in Title Case.
func NormalizeCategory(raw string, existing []string) string {
	return normalize(raw, existing, TitleCase)
}

// NormalizeCapability is NormalizeCategory for capability labels, which use
// CapitalizeWords.
func NormalizeCapability(raw string, existing []string) string {
	return normalize(raw, existing, CapitalizeWords)
}

func normalize(raw string, existing []string, recase func(string) string) string {
	k := Key(raw)
	if k == "" {
		return ""
	}
	for _, e := range existing {
		if Key(e) == k {
			return e
		}
	}
	return recase(raw)
}

func lower(s string) string {
	return cases.Lower(language.Und).String(s)
}

// capitalize upper-cases the first letter of every hyphen-separated part.
func capitalize(word string) string {
	parts := strings.Split(word, "-")
	title := cases.Title(language.Und, cases.NoLower)
	for i, p := range parts {
		parts[i] = title.String(p)
	}
	return strings.Join(parts, "-")
}
