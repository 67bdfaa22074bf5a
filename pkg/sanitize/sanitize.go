package sanitize

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var (
	strict    = bluemonday.StrictPolicy()
	blockTags = strings.NewReplacer("</p>", " ", "<br>", " ", "<br/>", " ", "</div>", " ", "</li>", " ")
)

// Text strips every tag from user input and collapses whitespace. Entities
// are unescaped so "&" is stored as typed.
func Text(s string) string {
	cleaned := strict.Sanitize(blockTags.Replace(s))
	cleaned = html.UnescapeString(cleaned)
	return strings.Join(strings.Fields(cleaned), " ")
}

// Multiline is like Text but keeps line breaks.
func Multiline(s string) string {
	lines := strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		out = append(out, Text(line))
	}
	return strings.TrimSpace(strings.Join(out, "\n"))
}
