package usecases

import (
	"regexp"
	"strings"
)

var whitespaceRun = regexp.MustCompile(`\s+`)

// CleanText normalizes text for prompt assembly: literal "\n" and "/n"
// sequences, real newlines, and repeated whitespace collapse to single
// spaces, and the ends are trimmed. Applied uniformly to stored chunk
// text, history turns, the current question, and model output.
func CleanText(text string) string {
	text = strings.ReplaceAll(text, `\n`, " ")
	text = strings.ReplaceAll(text, "/n", " ")
	text = whitespaceRun.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}
