// Package document models the head of the page hosting the UI core: the
// <link> elements the host mutates from Go.
package document

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"sync"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Link is a <link> element in the document head.
type Link interface {
	Rel() string
	Href() string
	SetHref(href string)
}

// Document finds and creates head links.
type Document interface {
	// FindLink returns the first head link whose rel list contains rel.
	FindLink(rel string) (Link, bool)
	// AppendLink creates a link with the given rel at the end of <head>.
	AppendLink(rel string) Link
}

const blankPage = `<!DOCTYPE html><html><head></head><body></body></html>`

// HTMLDocument is an in-memory HTML tree.
type HTMLDocument struct {
	mu   sync.Mutex
	root *html.Node
}

// New returns an empty page.
func New() *HTMLDocument {
	doc, _ := Parse(strings.NewReader(blankPage))
	return doc
}

// Parse reads a full HTML page. The parser always synthesises <head>, so a
// fragment without one still yields a usable document.
func Parse(r io.Reader) (*HTMLDocument, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}
	return &HTMLDocument{root: root}, nil
}

func (d *HTMLDocument) FindLink(rel string) (Link, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	links := d.linksLocked(rel)
	if len(links) == 0 {
		return nil, false
	}
	return &htmlLink{doc: d, node: links[0]}, true
}

func (d *HTMLDocument) AppendLink(rel string) Link {
	d.mu.Lock()
	defer d.mu.Unlock()

	n := &html.Node{
		Type:     html.ElementNode,
		DataAtom: atom.Link,
		Data:     "link",
		Attr:     []html.Attribute{{Key: "rel", Val: rel}},
	}
	d.headLocked().AppendChild(n)
	return &htmlLink{doc: d, node: n}
}

// CountLinks returns how many head links carry rel.
func (d *HTMLDocument) CountLinks(rel string) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.linksLocked(rel))
}

// Render serialises the whole page.
func (d *HTMLDocument) Render() string {
	d.mu.Lock()
	defer d.mu.Unlock()

	var buf bytes.Buffer
	if err := html.Render(&buf, d.root); err != nil {
		return ""
	}
	return buf.String()
}

func (d *HTMLDocument) headLocked() *html.Node {
	if head := findElement(d.root, atom.Head); head != nil {
		return head
	}
	// Only reachable for a hand-built tree without <html>.
	head := &html.Node{Type: html.ElementNode, DataAtom: atom.Head, Data: "head"}
	d.root.AppendChild(head)
	return head
}

func (d *HTMLDocument) linksLocked(rel string) []*html.Node {
	head := findElement(d.root, atom.Head)
	if head == nil {
		return nil
	}
	var out []*html.Node
	for c := head.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.DataAtom == atom.Link && hasRelToken(attr(c, "rel"), rel) {
			out = append(out, c)
		}
	}
	return out
}

type htmlLink struct {
	doc  *HTMLDocument
	node *html.Node
}

func (l *htmlLink) Rel() string {
	l.doc.mu.Lock()
	defer l.doc.mu.Unlock()
	return attr(l.node, "rel")
}

func (l *htmlLink) Href() string {
	l.doc.mu.Lock()
	defer l.doc.mu.Unlock()
	return attr(l.node, "href")
}

func (l *htmlLink) SetHref(href string) {
	l.doc.mu.Lock()
	defer l.doc.mu.Unlock()
	setAttr(l.node, "href", href)
}

// ── tree helpers ───────────────────────────────────────────

func findElement(n *html.Node, a atom.Atom) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == a {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, a); found != nil {
			return found
		}
	}
	return nil
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Namespace == "" && strings.EqualFold(a.Key, key) {
			return a.Val
		}
	}
	return ""
}

func setAttr(n *html.Node, key, val string) {
	for i, a := range n.Attr {
		if a.Namespace == "" && strings.EqualFold(a.Key, key) {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

// hasRelToken matches the way browsers read rel: a case-insensitive,
// whitespace separated token list ("shortcut icon" contains "icon").
func hasRelToken(list, token string) bool {
	for _, f := range strings.Fields(list) {
		if strings.EqualFold(f, token) {
			return true
		}
	}
	return false
}
