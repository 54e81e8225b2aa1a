package snapshot

import (
	"strings"

	"golang.org/x/net/html"
)

// HTML element names used when matching controls.
const (
	elementInput    = "input"
	elementSelect   = "select"
	elementTextarea = "textarea"
	elementOption   = "option"
	elementButton   = "button"
	elementLabel    = "label"
)

// getAttr retrieves an attribute value from an HTML node.
func getAttr(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val
		}
	}
	return ""
}

func hasAttr(n *html.Node, key string) bool {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return true
		}
	}
	return false
}

// setAttr sets key on n, adding it when missing.
func setAttr(n *html.Node, key, val string) {
	for i := range n.Attr {
		if n.Attr[i].Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

func removeAttr(n *html.Node, key string) {
	out := n.Attr[:0]
	for _, attr := range n.Attr {
		if attr.Key != key {
			out = append(out, attr)
		}
	}
	n.Attr = out
}

// hasClass reports whether the class attribute of n contains class as a token.
func hasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(getAttr(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}

// findAll returns the descendants of n matching match, in document order.
func findAll(n *html.Node, match func(*html.Node) bool) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.ElementNode && match(c) {
				out = append(out, c)
			}
			walk(c)
		}
	}
	walk(n)
	return out
}

// findFirst returns the first descendant of n matching match, or nil.
func findFirst(n *html.Node, match func(*html.Node) bool) *html.Node {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && match(c) {
			return c
		}
		if found := findFirst(c, match); found != nil {
			return found
		}
	}
	return nil
}

// textOf returns the visible text of n with whitespace collapsed.
func textOf(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch {
		case n.Type == html.TextNode:
			b.WriteString(n.Data)
			b.WriteString(" ")
		case n.Type == html.ElementNode && (n.Data == "script" || n.Data == "style"):
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.Join(strings.Fields(b.String()), " ")
}

// hidden reports whether n or one of its ancestors is hidden.
func hidden(n *html.Node) bool {
	for ; n != nil; n = n.Parent {
		if n.Type != html.ElementNode {
			continue
		}
		if hasAttr(n, "hidden") || getAttr(n, "aria-hidden") == "true" {
			return true
		}
		style := strings.ReplaceAll(strings.ToLower(getAttr(n, "style")), " ", "")
		if strings.Contains(style, "display:none") {
			return true
		}
	}
	return false
}

// setText replaces the children of n with a single text node.
func setText(n *html.Node, text string) {
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		n.RemoveChild(c)
		c = next
	}
	n.AppendChild(&html.Node{Type: html.TextNode, Data: text})
}

// describe names an element for action logs: #id, else tag[name=...], else tag.
func describe(n *html.Node) string {
	if id := getAttr(n, "id"); id != "" {
		return "#" + id
	}
	if name := getAttr(n, "name"); name != "" {
		return n.Data + "[name=" + name + "]"
	}
	return n.Data
}
