package pipeline

import (
	"regexp"
	"strings"
)

// Highlight markers from the Unicode Private Use Area. They pass through
// Goldmark and the sanitizer untouched and become <mark> tags afterwards.
const (
	markOpen  = "\uE000"
	markClose = "\uE001"
)

var (
	crlfOrCR           = regexp.MustCompile(`\r\n?`)
	multipleBlankLines = regexp.MustCompile(`\n{3,}`)
	highlightPattern   = regexp.MustCompile(`==([^=\n]+?)==`)
)

// preprocessNarrative normalizes narrative Markdown before conversion.
func preprocessNarrative(content string) string {
	content = crlfOrCR.ReplaceAllString(content, "\n")
	content = highlightPattern.ReplaceAllString(content, markOpen+"$1"+markClose)
	content = multipleBlankLines.ReplaceAllString(content, "\n\n")
	return strings.TrimSpace(content) + "\n"
}

// finishMarks turns highlight markers into <mark> tags.
func finishMarks(content string) string {
	return strings.NewReplacer(markOpen, "<mark>", markClose, "</mark>").Replace(content)
}
