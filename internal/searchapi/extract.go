package searchapi

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

// tagPattern matches an opening or closing HTML tag. A bare "<" in
// prose (e.g. "salary < 100k") does not qualify.
var tagPattern = regexp.MustCompile(`(?i)</?[a-z][^>]*>`)

// whitespacePattern collapses runs of whitespace, including newlines
// left behind by block elements.
var whitespacePattern = regexp.MustCompile(`\s+`)

// looksLikeHTML reports whether a description needs tag stripping.
func looksLikeHTML(s string) bool {
	return tagPattern.MatchString(s)
}

// ExtractText strips markup from an HTML fragment and returns the
// readable text with whitespace collapsed. Script and style contents
// are dropped. Malformed input is returned as-is.
func ExtractText(fragment string) string {
	doc, err := html.Parse(strings.NewReader(fragment))
	if err != nil {
		return fragment
	}

	var sb strings.Builder
	var traverse func(*html.Node)
	traverse = func(n *html.Node) {
		if n.Type == html.ElementNode && (n.Data == "script" || n.Data == "style") {
			return
		}
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
			sb.WriteString(" ")
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			traverse(c)
		}
	}
	traverse(doc)

	return strings.TrimSpace(whitespacePattern.ReplaceAllString(sb.String(), " "))
}
