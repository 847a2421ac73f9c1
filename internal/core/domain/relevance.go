package domain

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// MaxRelevantSections caps the sections attached to a DocumentReference.
const MaxRelevantSections = 5

// minSectionLength drops sentence fragments shorter than this many runes.
const minSectionLength = 10

var sentenceBoundary = regexp.MustCompile(`[.!?]`)

// Tokenize lower-cases text and splits it on whitespace.
func Tokenize(text string) []string {
	return strings.Fields(strings.ToLower(text))
}

// ContainmentScore is the fraction of tokens that occur as substrings of
// content, compared case-insensitively. It returns 0 for no tokens.
func ContainmentScore(tokens []string, content string) float64 {
	if len(tokens) == 0 {
		return 0
	}
	lower := strings.ToLower(content)
	matched := 0
	for _, t := range tokens {
		if strings.Contains(lower, t) {
			matched++
		}
	}
	return float64(matched) / float64(len(tokens))
}

// RelevantSections splits content into sentences and returns, in document
// order, up to MaxRelevantSections trimmed sentences of at least ten
// characters that contain any of the tokens.
func RelevantSections(tokens []string, content string) []string {
	sections := make([]string, 0, MaxRelevantSections)
	if len(tokens) == 0 {
		return sections
	}
	for _, part := range sentenceBoundary.Split(content, -1) {
		part = strings.TrimSpace(part)
		if utf8.RuneCountInString(part) < minSectionLength {
			continue
		}
		lower := strings.ToLower(part)
		for _, t := range tokens {
			if strings.Contains(lower, t) {
				sections = append(sections, part)
				break
			}
		}
		if len(sections) == MaxRelevantSections {
			break
		}
	}
	return sections
}

// Confidence maps the mean relevance of the supporting documents into
// [0.3, 1.0]. With no documents it is exactly 0.3.
func Confidence(query string, docs []Document) float64 {
	const base, weight = 0.3, 0.7
	if len(docs) == 0 {
		return base
	}
	tokens := Tokenize(query)
	var sum float64
	for i := range docs {
		sum += ContainmentScore(tokens, docs[i].Content)
	}
	c := base + weight*(sum/float64(len(docs)))
	if c > 1.0 {
		return 1.0
	}
	return c
}
