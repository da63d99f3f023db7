package pptxjson

import (
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/net/html"
	"golang.org/x/text/unicode/norm"
)

// GenerateTextBody renders a p:txBody (or a:txBody) as an HTML fragment.
// Paragraphs become <p> or list items, runs with equal resolved styles are
// merged into one <span>, and hyperlinks get a span of their own.
// Hyperlink targets are resolved through the slide relationships.
func GenerateTextBody(body *Node, c Cascade, ctx *SlideContext) string {
	var rels Relationships
	if ctx != nil {
		rels = ctx.SlideRels
	}
	return generateTextBody(body, c, ctx, rels)
}

func generateTextBody(body *Node, c Cascade, ctx *SlideContext, rels Relationships) string {
	if body == nil {
		return ""
	}
	var (
		out  []*html.Node
		list *listState
	)
	closeList := func() {
		if list != nil {
			out = append(out, list.container)
			list = nil
		}
	}

	for _, p := range body.ChildrenNamed("a:p") {
		align := HorizontalAlign(p, body, c, ctx)
		var block *html.Node
		if info := ResolveListInfo(p, body, c, ctx); info != nil {
			if list == nil || list.key != info.Key() {
				closeList()
				list = newListState(*info)
			}
			indent := formatNumber(float64(info.Level-1) * 1.5)
			block = element("li", "text-align: "+align+"; margin-left: "+indent+"em;")
			marker := element("span", list.info.markerStyle())
			marker.AppendChild(textNode(list.next()))
			block.AppendChild(marker)
			list.container.AppendChild(block)
		} else {
			closeList()
			block = element("p", "text-align: "+align+";")
			out = append(out, block)
		}
		appendRuns(block, p, body, c, ctx, rels)
	}
	closeList()
	return renderFragment(out)
}

// paragraphRuns returns the runs, fields and breaks of p in document order.
func paragraphRuns(p *Node) []*Node {
	var runs []*Node
	for _, n := range p.Elements() {
		switch n.Name {
		case "a:r", "a:fld", "a:br":
			runs = append(runs, n)
		}
	}
	return runs
}

// pendingSpan accumulates the text of consecutive runs sharing one style.
type pendingSpan struct {
	style string
	text  strings.Builder
}

// appendRuns renders the runs of p into block.
func appendRuns(block *html.Node, p, body *Node, c Cascade, ctx *SlideContext, rels Relationships) {
	runs := paragraphRuns(p)
	if len(runs) == 0 {
		// An empty paragraph keeps its line height through its end properties.
		span := element("span", runStyle(p, p, body, c, ctx).String())
		span.AppendChild(textNode(nbsp))
		block.AppendChild(span)
		return
	}

	var pending *pendingSpan
	flush := func() {
		if pending == nil {
			return
		}
		if pending.text.Len() > 0 {
			span := element("span", pending.style)
			span.AppendChild(textNode(normalizeSpace(pending.text.String())))
			block.AppendChild(span)
		}
		pending = nil
	}

	for _, r := range runs {
		if r.Name == "a:br" {
			flush()
			block.AppendChild(element("br", ""))
			continue
		}
		style := runStyle(r, p, body, c, ctx).String()
		text := runText(r, ctx)

		if href := linkTarget(r, rels); href != "" {
			flush()
			span := element("span", style)
			a := element("a", "")
			a.Attr = append(a.Attr,
				html.Attribute{Key: "href", Val: href},
				html.Attribute{Key: "target", Val: "_blank"},
			)
			a.AppendChild(textNode(normalizeSpace(text)))
			span.AppendChild(a)
			block.AppendChild(span)
			continue
		}
		if pending != nil && pending.style == style {
			pending.text.WriteString(text)
			continue
		}
		flush()
		pending = &pendingSpan{style: style}
		pending.text.WriteString(text)
	}
	flush()
}

// runText returns the NFC-normalized text of a run or field. A run without
// text renders as a single non-breaking space; a slide number field shows
// the number of the slide being decoded.
func runText(r *Node, ctx *SlideContext) string {
	t := r.Child("a:t")
	if t == nil {
		return nbsp
	}
	if r.Name == "a:fld" && r.Attr("type") == "slidenum" && ctx != nil && ctx.SlideNo > 0 {
		if s := strings.TrimSpace(t.Text); s == "" || s == "‹#›" {
			return strconv.Itoa(ctx.SlideNo)
		}
	}
	return norm.NFC.String(t.Text)
}

// linkTarget resolves the click hyperlink of a run, or "".
func linkTarget(r *Node, rels Relationships) string {
	id := r.Find("a:rPr", "a:hlinkClick").Attr("r:id")
	if id == "" {
		return ""
	}
	return rels[id].Target
}

// normalizeSpace expands tabs to four non-breaking spaces and turns every
// other whitespace character into one non-breaking space.
func normalizeSpace(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r == '\t':
			b.WriteString(nbsp + nbsp + nbsp + nbsp)
		case unicode.IsSpace(r):
			b.WriteString(nbsp)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
