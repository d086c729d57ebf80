package helpers

import (
	"strings"
	"unicode"
)

// HighlightSegment is a run of text that either matches the search term or not.
type HighlightSegment struct {
	Text  string
	Match bool
}

// HighlightSegments splits text around case-insensitive occurrences of term.
// Matching works rune by rune with simple case folding, so every segment is a
// slice of the original text even when upper and lower forms differ in width.
func HighlightSegments(text, term string) []HighlightSegment {
	if text == "" {
		return nil
	}
	needle := []rune(strings.TrimSpace(term))
	if len(needle) == 0 {
		return []HighlightSegment{{Text: text}}
	}

	haystack := []rune(text)
	var segments []HighlightSegment
	start := 0
	for i := 0; i+len(needle) <= len(haystack); {
		if !foldedPrefix(haystack[i:], needle) {
			i++
			continue
		}
		if i > start {
			segments = append(segments, HighlightSegment{Text: string(haystack[start:i])})
		}
		end := i + len(needle)
		segments = append(segments, HighlightSegment{Text: string(haystack[i:end]), Match: true})
		start, i = end, end
	}
	if start < len(haystack) {
		segments = append(segments, HighlightSegment{Text: string(haystack[start:])})
	}
	return segments
}

func foldedPrefix(s, prefix []rune) bool {
	for i, r := range prefix {
		if !runesFoldEqual(s[i], r) {
			return false
		}
	}
	return true
}

// runesFoldEqual walks the simple fold orbit of a until it reaches b.
func runesFoldEqual(a, b rune) bool {
	if a == b {
		return true
	}
	for f := unicode.SimpleFold(a); f != a; f = unicode.SimpleFold(f) {
		if f == b {
			return true
		}
	}
	return false
}
