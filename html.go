package pptxjson

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

const nbsp = "\u00a0"

// element creates an HTML element with an optional inline style.
func element(tag, style string) *html.Node {
	n := &html.Node{Type: html.ElementNode, Data: tag, DataAtom: atom.Lookup([]byte(tag))}
	if style != "" {
		n.Attr = append(n.Attr, html.Attribute{Key: "style", Val: style})
	}
	return n
}

func textNode(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}

// renderFragment serializes top-level nodes in order.
func renderFragment(nodes []*html.Node) string {
	var b strings.Builder
	for _, n := range nodes {
		// Render only fails on void elements with children, which are never built.
		_ = html.Render(&b, n)
	}
	return b.String()
}

// plainText returns the text of an HTML fragment with tags removed and
// non-breaking spaces read as spaces.
func plainText(content string) string {
	if content == "" {
		return ""
	}
	z := html.NewTokenizer(strings.NewReader(content))
	var b strings.Builder
	for {
		switch z.Next() {
		case html.ErrorToken:
			// io.EOF or a malformed tail; either way the text so far stands.
			return strings.ReplaceAll(b.String(), nbsp, " ")
		case html.TextToken:
			b.Write(z.Text())
		case html.SelfClosingTagToken, html.StartTagToken:
			if name, _ := z.TagName(); string(name) == "br" {
				b.WriteByte('\n')
			}
		}
	}
}

// hasValidText reports whether an HTML fragment holds any visible text.
func hasValidText(content string) bool {
	return strings.TrimSpace(plainText(content)) != ""
}
