package browser

import "github.com/raysh454/sbrowser/internal/document"

// Document returns the parsed current page, or nil when nothing has been
// fetched or the body is not parseable. The result is memoised until the
// next top-level request.
func (c *Client) Document() *document.View {
	if !c.docParsed {
		c.doc = document.Parse(c.last.Body)
		c.docParsed = true
	}
	return c.doc
}

// FindFirst returns the first element of the current page matching
// selector, or nil.
func (c *Client) FindFirst(selector string) *document.Element {
	return c.Document().First(selector)
}

// FindAll returns every element of the current page matching selector.
func (c *Client) FindAll(selector string) []*document.Element {
	return c.Document().Find(selector)
}

// FindNth returns the i-th (zero-based) match of selector, or nil.
func (c *Client) FindNth(selector string, i int) *document.Element {
	return c.Document().Nth(selector, i)
}

// XPath evaluates expr against the current page.
func (c *Client) XPath(expr string) ([]*document.Element, error) {
	return c.Document().XPath(expr)
}
