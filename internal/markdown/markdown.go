// Package markdown parses document bodies with goldmark to recover the
// bits the sidebar and lint need: the rendered heading and outgoing links.
package markdown

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var md = goldmark.New(goldmark.WithParserOptions(parser.WithAutoHeadingID()))

// RenderHTML converts a Markdown body (frontmatter already removed) to HTML.
func RenderHTML(body []byte) ([]byte, error) {
	var buf bytes.Buffer
	if err := md.Convert(body, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// FirstHeading returns the text of the first level-one heading as it
// renders, so inline markup (emphasis, code, entities) is flattened.
func FirstHeading(body []byte) (string, bool) {
	rendered, err := RenderHTML(body)
	if err != nil {
		return "", false
	}
	doc, err := html.Parse(bytes.NewReader(rendered))
	if err != nil {
		return "", false
	}
	h1 := findFirst(doc, atom.H1)
	if h1 == nil {
		return "", false
	}
	title := strings.Join(strings.Fields(textContent(h1)), " ")
	return title, title != ""
}

func findFirst(n *html.Node, a atom.Atom) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == a {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findFirst(c, a); found != nil {
			return found
		}
	}
	return nil
}

func textContent(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		b.WriteString(textContent(c))
	}
	return b.String()
}

// Link is an outgoing link found in a document body.
type Link struct {
	Destination string
	Image       bool
}

// ExtractLinks walks the goldmark AST and returns inline, reference and
// image destinations in document order.
func ExtractLinks(body []byte) []Link {
	root := md.Parser().Parse(text.NewReader(body))

	var links []Link
	_ = gmast.Walk(root, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *gmast.Link:
			links = append(links, Link{Destination: string(node.Destination)})
		case *gmast.Image:
			links = append(links, Link{Destination: string(node.Destination), Image: true})
		case *gmast.AutoLink:
			links = append(links, Link{Destination: string(node.URL(body))})
		}
		return gmast.WalkContinue, nil
	})
	return links
}

// SlugFromLink maps a site-internal link such as "/guides/styling/" or
// "/guides/styling#events" to a slug. External, relative and asset links
// report false.
func SlugFromLink(dest string) (string, bool) {
	if !strings.HasPrefix(dest, "/") || strings.HasPrefix(dest, "//") {
		return "", false
	}
	if i := strings.IndexAny(dest, "?#"); i >= 0 {
		dest = dest[:i]
	}
	slug := strings.Trim(dest, "/")
	if slug == "" {
		return "", false
	}
	last := slug[strings.LastIndex(slug, "/")+1:]
	if strings.Contains(last, ".") {
		return "", false
	}
	return slug, true
}
