// Package htmldoc is the small read-only view of a parsed page that the
// extractors work against. Only selector lookup, attribute reads and text
// reads are exposed, so extraction code never touches the parser directly.
package htmldoc

import (
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

type Node interface {
	Find(selector string) []Node
	// First returns nil when nothing matches.
	First(selector string) Node
	Attr(name string) string
	Text() string
	Parent() Node
	// NextSiblings lists the element siblings after this node in document
	// order.
	NextSiblings() []Node
	Is(selector string) bool
	// NextText is the text of the first non-blank sibling after this node,
	// whether that sibling is a bare text node or an element.
	NextText() string
	IsLeaf() bool
}

type Document interface {
	Node
	HTML() string
}

type document struct {
	selection
	raw string
}

type selection struct {
	sel *goquery.Selection
}

func Parse(r io.Reader) (Document, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read html: %w", err)
	}
	return ParseString(string(raw))
}

func ParseString(raw string) (Document, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	return &document{selection: selection{sel: doc.Selection}, raw: raw}, nil
}

func (d *document) HTML() string {
	return d.raw
}

func (s selection) Find(selector string) []Node {
	return wrap(s.sel.Find(selector))
}

func wrap(found *goquery.Selection) []Node {
	nodes := make([]Node, 0, found.Length())
	found.Each(func(_ int, item *goquery.Selection) {
		nodes = append(nodes, selection{sel: item})
	})
	return nodes
}

func (s selection) First(selector string) Node {
	found := s.sel.Find(selector).First()
	if found.Length() == 0 {
		return nil
	}
	return selection{sel: found}
}

func (s selection) Attr(name string) string {
	value, _ := s.sel.Attr(name)
	return strings.TrimSpace(value)
}

func (s selection) Text() string {
	return collapseWhitespace(s.sel.Text())
}

func (s selection) Parent() Node {
	parent := s.sel.Parent()
	if parent.Length() == 0 {
		return nil
	}
	return selection{sel: parent}
}

func (s selection) NextSiblings() []Node {
	return wrap(s.sel.NextAll())
}

func (s selection) Is(selector string) bool {
	return s.sel.Is(selector)
}

func (s selection) NextText() string {
	if len(s.sel.Nodes) == 0 {
		return ""
	}

	for sibling := s.sel.Nodes[0].NextSibling; sibling != nil; sibling = sibling.NextSibling {
		var text string
		switch sibling.Type {
		case html.TextNode:
			text = sibling.Data
		case html.ElementNode:
			text = goquery.NewDocumentFromNode(sibling).Text()
		default:
			continue
		}
		if collapsed := collapseWhitespace(text); collapsed != "" {
			return collapsed
		}
	}
	return ""
}

func (s selection) IsLeaf() bool {
	return s.sel.Children().Length() == 0
}

func collapseWhitespace(raw string) string {
	return strings.Join(strings.Fields(raw), " ")
}
