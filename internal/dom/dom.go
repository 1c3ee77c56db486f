// Package dom holds small helpers over golang.org/x/net/html trees: fragment
// parsing, sanitizing, queries and text extraction.
package dom

import (
	"fmt"
	"slices"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ParseFragment parses an HTML fragment as if it were the content of a <div>
// and returns that div.
func ParseFragment(fragment string) (*html.Node, error) {
	root := &html.Node{Type: html.ElementNode, DataAtom: atom.Div, Data: "div"}
	nodes, err := html.ParseFragment(strings.NewReader(fragment), root)
	if err != nil {
		return nil, fmt.Errorf("parse html fragment: %w", err)
	}
	for _, n := range nodes {
		root.AppendChild(n)
	}
	return root, nil
}

var droppedElements = map[atom.Atom]bool{
	atom.Script: true,
	atom.Style:  true,
	atom.Iframe: true,
	atom.Object: true,
	atom.Embed:  true,
	atom.Form:   true,
}

// Sanitize removes active content from the tree rooted at n: script-like
// elements, inline event handlers and javascript: URLs.
func Sanitize(n *html.Node) {
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		if c.Type == html.ElementNode && droppedElements[c.DataAtom] {
			n.RemoveChild(c)
		} else if c.Type == html.CommentNode {
			n.RemoveChild(c)
		} else {
			Sanitize(c)
		}
		c = next
	}
	if n.Type != html.ElementNode {
		return
	}
	n.Attr = slices.DeleteFunc(n.Attr, func(a html.Attribute) bool {
		key := strings.ToLower(a.Key)
		if strings.HasPrefix(key, "on") {
			return true
		}
		if key == "href" || key == "src" {
			v := strings.ToLower(strings.TrimSpace(a.Val))
			return strings.HasPrefix(v, "javascript:")
		}
		return false
	})
}

// Predicate selects nodes in FindAll and Find.
type Predicate func(*html.Node) bool

// ByTag matches elements with the given tag.
func ByTag(a atom.Atom) Predicate {
	return func(n *html.Node) bool {
		return n.Type == html.ElementNode && n.DataAtom == a
	}
}

// ByClass matches elements whose class list contains class.
func ByClass(class string) Predicate {
	return func(n *html.Node) bool {
		if n.Type != html.ElementNode {
			return false
		}
		return slices.Contains(strings.Fields(Attr(n, "class")), class)
	}
}

// FindAll returns every descendant of n matching pred, in document order.
func FindAll(n *html.Node, pred Predicate) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if pred(c) {
				out = append(out, c)
			}
			walk(c)
		}
	}
	walk(n)
	return out
}

// Find returns the first descendant of n matching pred, or nil.
func Find(n *html.Node, pred Predicate) *html.Node {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if pred(c) {
			return c
		}
		if found := Find(c, pred); found != nil {
			return found
		}
	}
	return nil
}

// Attr returns the value of attribute key on n, or "".
func Attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

// Text returns the concatenated text content of n, trimmed.
func Text(n *html.Node) string {
	var buf strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(n)
	return strings.TrimSpace(buf.String())
}

// PlainText flattens a rendered fragment into readable text: headings and
// paragraphs become blocks, list items become "- " lines, code keeps its
// line breaks.
func PlainText(fragment string) (string, error) {
	root, err := ParseFragment(fragment)
	if err != nil {
		return "", err
	}

	var blocks []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.DataAtom {
			case atom.Script, atom.Style:
				return
			case atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6, atom.P, atom.Blockquote, atom.Dt, atom.Dd:
				if t := collapse(Text(n)); t != "" {
					blocks = append(blocks, t)
				}
				return
			case atom.Li:
				if t := collapse(Text(n)); t != "" {
					blocks = append(blocks, "- "+t)
				}
				return
			case atom.Pre:
				if t := strings.TrimRight(rawText(n), "\n "); t != "" {
					blocks = append(blocks, t)
				}
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	return strings.Join(blocks, "\n\n"), nil
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func rawText(n *html.Node) string {
	var buf strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(n)
	return buf.String()
}
