// Package embedding holds the input handling shared by the embedding
// adapters in its subpackages.
package embedding

import "strings"

// Prepare collapses whitespace runs and joins words hyphenated across line
// breaks, which PDF extraction leaves behind in statutes and rulings. The
// result is cut to at most maxRunes runes; zero means no limit.
func Prepare(text string, maxRunes int) string {
	text = strings.ReplaceAll(text, "-\n", "")
	text = strings.Join(strings.Fields(text), " ")
	if maxRunes <= 0 {
		return text
	}
	r := []rune(text)
	if len(r) <= maxRunes {
		return text
	}
	return strings.TrimSpace(string(r[:maxRunes]))
}

// Float32s narrows a JSON-decoded vector.
func Float32s(v []float64) []float32 {
	out := make([]float32, len(v))
	for i, x := range v {
		out[i] = float32(x)
	}
	return out
}
