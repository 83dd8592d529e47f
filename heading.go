package pagefetch

import (
	"regexp"
	"strings"
)

var atxHeadingRe = regexp.MustCompile(`^ {0,3}#{1,6}[ \t]+(.+?)(?:[ \t]+#+)?[ \t]*$`)

// MarkdownHeadings returns the text of ATX headings (# through ######) in
// document order. Lines inside fenced code blocks are ignored.
func MarkdownHeadings(markdown string) []string {
	headings := []string{}
	inFence := false
	for _, line := range strings.Split(markdown, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "```") || strings.HasPrefix(trimmed, "~~~") {
			inFence = !inFence
			continue
		}
		if inFence {
			continue
		}
		m := atxHeadingRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		if title := strings.TrimSpace(m[1]); title != "" {
			headings = append(headings, title)
		}
	}
	return headings
}
