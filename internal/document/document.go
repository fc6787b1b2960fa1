// Package document exposes a read-only, selector-driven view over a fetched
// HTML body. CSS selectors are served by goquery and XPath expressions by
// htmlquery; both operate on the same parsed tree.
package document

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/antchfx/htmlquery"
	"golang.org/x/net/html"
)

// View is a parsed HTML document. A nil *View behaves as an empty
// document: every query returns no elements.
type View struct {
	doc *goquery.Document
}

// Parse builds a View over body. It returns nil when body is empty or
// cannot be parsed.
func Parse(body []byte) *View {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil || len(doc.Nodes) == 0 {
		return nil
	}
	return &View{doc: doc}
}

// Find returns every element matching the CSS selector, in document order.
func (v *View) Find(selector string) []*Element {
	if v == nil {
		return nil
	}
	return wrap(v.doc.Find(selector))
}

// First returns the first element matching selector, or nil.
func (v *View) First(selector string) *Element {
	return v.Nth(selector, 0)
}

// Nth returns the i-th (zero-based) match of selector, or nil when there
// are fewer matches.
func (v *View) Nth(selector string, i int) *Element {
	if v == nil || i < 0 {
		return nil
	}
	sel := v.doc.Find(selector)
	if i >= sel.Length() {
		return nil
	}
	return &Element{sel: sel.Eq(i)}
}

// XPath evaluates expr against the document root.
func (v *View) XPath(expr string) ([]*Element, error) {
	if v == nil {
		return nil, nil
	}
	nodes, err := htmlquery.QueryAll(v.doc.Nodes[0], expr)
	if err != nil {
		return nil, fmt.Errorf("xpath %q: %w", expr, err)
	}
	out := make([]*Element, 0, len(nodes))
	for _, n := range nodes {
		if n.Type != html.ElementNode {
			continue
		}
		out = append(out, &Element{sel: v.doc.FindNodes(n)})
	}
	return out, nil
}

// Title returns the trimmed text of <title>.
func (v *View) Title() string {
	if v == nil {
		return ""
	}
	return strings.TrimSpace(v.doc.Find("title").First().Text())
}

// Element is a single node of a View.
type Element struct {
	sel *goquery.Selection
}

func wrap(sel *goquery.Selection) []*Element {
	out := make([]*Element, 0, sel.Length())
	sel.Each(func(_ int, s *goquery.Selection) {
		out = append(out, &Element{sel: s})
	})
	return out
}

// Attr returns the value of the named attribute and whether it is present.
func (e *Element) Attr(name string) (string, bool) {
	if e == nil {
		return "", false
	}
	return e.sel.Attr(name)
}

// Tag returns the lower-case element name.
func (e *Element) Tag() string {
	if e == nil {
		return ""
	}
	return goquery.NodeName(e.sel)
}

// Text returns the combined text of the element and its descendants.
func (e *Element) Text() string {
	if e == nil {
		return ""
	}
	return e.sel.Text()
}

// HTML returns the outer HTML of the element.
func (e *Element) HTML() string {
	if e == nil {
		return ""
	}
	out, err := goquery.OuterHtml(e.sel)
	if err != nil {
		return ""
	}
	return out
}

// Find returns the descendants of e matching selector.
func (e *Element) Find(selector string) []*Element {
	if e == nil {
		return nil
	}
	return wrap(e.sel.Find(selector))
}
