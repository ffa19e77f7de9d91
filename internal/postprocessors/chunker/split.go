package chunker

import "strings"

// NormalizeWhitespace collapses every run of whitespace into a single space
// and trims both ends.
func NormalizeWhitespace(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

// SplitBySize normalises whitespace and cuts the text into windows of at
// most maxLen characters. Consecutive windows share exactly overlap
// characters; the window that reaches the end of the text is the last.
// Lengths are counted in runes.
func SplitBySize(text string, maxLen, overlap int) []string {
	text = NormalizeWhitespace(text)
	if text == "" {
		return nil
	}

	runes := []rune(text)
	if maxLen <= 0 || len(runes) <= maxLen {
		return []string{text}
	}

	var pieces []string
	start := 0
	for {
		end := start + maxLen
		if end > len(runes) {
			end = len(runes)
		}
		if piece := string(runes[start:end]); strings.TrimSpace(piece) != "" {
			pieces = append(pieces, piece)
		}
		if end == len(runes) {
			break
		}

		next := end - overlap
		if next <= start {
			next = end
		}
		start = next
	}

	return pieces
}
