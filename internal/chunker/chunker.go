// Package chunker splits composed product text into overlapping
// fixed-size segments for embedding.
package chunker

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

const (
	// DefaultMaxSize is the maximum character count per segment.
	DefaultMaxSize = 400
	// DefaultOverlap is the character count shared with the previous segment.
	DefaultOverlap = 50
)

// Break points are searched in order of preference: paragraph, line,
// sentence, word.
var separators = []string{"\n\n", "\n", ". ", " "}

// Split divides text into segments of at most maxSize bytes. Each
// segment after the first starts inside the last overlap bytes of the
// previous one, so segments cover the source text with no gaps. Segment
// boundaries never fall inside a multi-byte rune: the overlap start is
// nudged forward to the next rune when needed.
// Deterministic: the same input always yields the same segments.
func Split(text string, maxSize, overlap int) ([]string, error) {
	if maxSize <= 0 {
		return nil, fmt.Errorf("max size must be positive, got %d", maxSize)
	}
	if overlap < 0 || overlap >= maxSize {
		return nil, fmt.Errorf("overlap %d must be in [0, %d)", overlap, maxSize)
	}
	if text == "" {
		return nil, nil
	}

	var segments []string
	start := 0
	for {
		if len(text)-start <= maxSize {
			segments = append(segments, text[start:])
			return segments, nil
		}
		window := text[start : start+maxSize]
		end := breakIndex(window, overlap)
		// Never cut a multi-byte rune on a forced split.
		for end > overlap+1 && !utf8.RuneStart(text[start+end]) {
			end--
		}
		segments = append(segments, window[:end])
		start += end - overlap
		// The break position is rune-aligned but end-overlap need not
		// be; shrink the overlap until the next start is.
		for !utf8.RuneStart(text[start]) {
			start++
		}
	}
}

// breakIndex picks the split position inside the window, preferring the
// latest structural boundary. Boundaries that fall inside the overlap
// prefix are skipped so every segment advances past the shared region.
func breakIndex(window string, overlap int) int {
	for _, sep := range separators {
		if i := strings.LastIndex(window, sep); i >= 0 {
			end := i + len(sep)
			if end > overlap {
				return end
			}
		}
	}
	return len(window)
}
