package render

import (
	"fmt"
	"net/url"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

func el(a atom.Atom, attrs []html.Attribute, children ...*html.Node) *html.Node {
	n := &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String(), Attr: attrs}
	for _, c := range children {
		if c != nil {
			n.AppendChild(c)
		}
	}
	return n
}

func classed(a atom.Atom, class string, children ...*html.Node) *html.Node {
	return el(a, []html.Attribute{{Key: "class", Val: class}}, children...)
}

func text(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}

func anchor(href string, children ...*html.Node) *html.Node {
	var attrs []html.Attribute
	if href != "" {
		attrs = append(attrs, html.Attribute{Key: "href", Val: href})
	}
	return el(atom.A, attrs, children...)
}

func section(class string, children ...*html.Node) *html.Node {
	return classed(atom.Section, class, children...)
}

func heading(title string) *html.Node {
	return el(atom.H4, nil, text(title))
}

// safeURL keeps web, mail and relative links verbatim and drops everything else.
func safeURL(raw string) string {
	raw = strings.TrimSpace(raw)
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	switch strings.ToLower(u.Scheme) {
	case "", "http", "https", "mailto":
		return raw
	}
	return ""
}

func toString(nodes ...*html.Node) (string, error) {
	var buf strings.Builder
	for _, n := range nodes {
		if n == nil {
			continue
		}
		if err := html.Render(&buf, n); err != nil {
			return "", fmt.Errorf("render html: %w", err)
		}
	}
	return buf.String(), nil
}
