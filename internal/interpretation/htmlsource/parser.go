package htmlsource

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"

	"github.com/at-ishikawa/sonnik/internal/interpretation"
)

// findInterpretation returns the text of the first <p> following the heading that names term.
func findInterpretation(r io.Reader, headingTag, term string) (string, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return "", fmt.Errorf("html.Parse > %w", err)
	}

	want := normalizeSpace(strings.ToLower(term))
	var matched, done bool
	var paragraph string

	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if done {
			return
		}
		if n.Type == html.ElementNode {
			switch {
			case matched && n.Data == "p":
				paragraph = strings.TrimSpace(getNodeText(n))
				done = true
				return
			case !matched && n.Data == headingTag:
				if normalizeSpace(strings.ToLower(getNodeText(n))) == want {
					matched = true
				}
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	if paragraph == "" {
		return "", interpretation.ErrNotFound
	}
	return paragraph, nil
}

func getNodeText(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	var sb strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		sb.WriteString(getNodeText(c))
	}
	return sb.String()
}

func normalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
