package pptxjson

import (
	"fmt"
	"strings"
)

// HeaderFooter holds the presentation-wide header/footer enable flags.
type HeaderFooter struct {
	Date        bool `json:"dt"`
	Footer      bool `json:"ftr"`
	Header      bool `json:"hdr"`
	SlideNumber bool `json:"sldNum"`
}

// enabled returns the flag for a header/footer placeholder type.
func (hf HeaderFooter) enabled(phType string) bool {
	switch phType {
	case PlaceholderDate:
		return hf.Date
	case PlaceholderFooter:
		return hf.Footer
	case PlaceholderHeader:
		return hf.Header
	case PlaceholderSlideNum:
		return hf.SlideNumber
	}
	return true
}

// SlideContext carries everything resolution needs for one slide. It is
// built once per slide and passed explicitly; nothing in it is mutated while
// elements are resolved.
type SlideContext struct {
	Slide  *Node // decoded slide part
	Layout *Node // decoded layout part
	Master *Node // decoded master part
	Theme  *Node // decoded theme part (master's theme, or the presentation theme)

	LayoutIndex *PlaceholderIndex
	MasterIndex *PlaceholderIndex

	// MasterTextStyles is the master's p:txStyles node.
	MasterTextStyles *Node
	// DefaultTextStyle is the presentation's p:defaultTextStyle node.
	DefaultTextStyle *Node
	HeaderFooter     HeaderFooter
	// ColorMap is the master's p:clrMap (bg1 -> lt1, tx1 -> dk1, ...).
	ColorMap map[string]string
	// TableStyles is the decoded ppt/tableStyles.xml part, if any.
	TableStyles *Node

	SlideRels  Relationships
	LayoutRels Relationships
	MasterRels Relationships
	ThemeRels  Relationships

	// Diagrams maps diagram drawing part names to their decoded trees.
	Diagrams map[string]*diagramPart
	// diagramTargets lists the drawing parts in relationship order; frames
	// that do not name their drawing take them in turn.
	diagramTargets []string

	SlideNo int
	parts   *partReader
	opts    *Options
}

// source identifies which part an element was read from.
type source int

const (
	sourceSlide source = iota
	sourceLayout
	sourceMaster
	sourceDiagram
)

func (s source) String() string {
	switch s {
	case sourceLayout:
		return "layout"
	case sourceMaster:
		return "master"
	case sourceDiagram:
		return "diagram"
	}
	return "slide"
}

// rels returns the relationship map used to resolve references made from src.
func (ctx *SlideContext) rels(src source) Relationships {
	switch src {
	case sourceLayout:
		return ctx.LayoutRels
	case sourceMaster:
		return ctx.MasterRels
	}
	return ctx.SlideRels
}

// Cascade is the inheritance chain of one shape: the node itself and its
// placeholder-matched counterparts in the layout and master.
type Cascade struct {
	Node   *Node
	Layout *Node
	Master *Node
	// Type is the effective placeholder type ("title", "body", "obj", "text", ...).
	Type string
	// IsPlaceholder is set when the node itself carries a p:ph.
	IsPlaceholder bool
}

// newCascade matches node against the layout and master placeholder
// indexes. The effective type is the node's own placeholder type, "text"
// for text boxes, or the type of the matched layout or master placeholder.
// It stays empty when none applies.
func newCascade(node *Node, ctx *SlideContext) Cascade {
	id := IdentityOf(node)
	c := Cascade{Node: node, IsPlaceholder: placeholderNode(node) != nil}
	if ctx != nil && !id.IsZero() {
		c.Layout = ctx.LayoutIndex.Lookup(id)
		c.Master = ctx.MasterIndex.Lookup(id)
	}
	c.Type = firstNonEmpty(id.Type, IdentityOf(c.Layout).Type, IdentityOf(c.Master).Type)
	if id.Type == "" && node.PathAttr("txBox", "p:nvSpPr", "p:cNvSpPr") == "1" {
		c.Type = "text"
	}
	return c
}

// firstDefined evaluates lookups in order and returns the first value that
// reports ok. It is the single fallback walk every property resolver shares.
func firstDefined[T any](lookups ...func() (T, bool)) (T, bool) {
	for _, lookup := range lookups {
		if v, ok := lookup(); ok {
			return v, true
		}
	}
	var zero T
	return zero, false
}

// attrLookup adapts an attribute read into a firstDefined lookup; empty
// values count as absent.
func attrLookup(n *Node, attr string, path ...string) func() (string, bool) {
	return func() (string, bool) {
		v := n.PathAttr(attr, path...)
		return v, v != ""
	}
}

// sizeLookup reads a hundredths-of-a-point size attribute and converts it to
// points. Malformed or non-positive values count as absent.
func sizeLookup(n *Node, path ...string) func() (float64, bool) {
	return func() (float64, bool) {
		v, ok := parseNumber(n.PathAttr("sz", path...))
		if !ok || v <= 0 {
			return 0, false
		}
		return v / 100, true
	}
}

// outlineLevel returns the 1-based list-style level of a paragraph: lvl="n"
// maps to level n+1, absent or malformed lvl maps to level 1.
func outlineLevel(p *Node) int {
	lvl, ok := p.Find("a:pPr").IntAttr("lvl")
	if !ok || lvl < 0 {
		return 1
	}
	if lvl > 8 {
		lvl = 8
	}
	return lvl + 1
}

// levelKey returns the list-style child name for a 1-based level.
func levelKey(lvl int) string {
	return fmt.Sprintf("a:lvl%dpPr", lvl)
}

// masterStyleNames returns the master txStyles entries consulted for a
// shape, most specific first. Shapes without a p:ph use the other style.
func masterStyleNames(c Cascade) []string {
	if c.Type == "obj" && !c.IsPlaceholder {
		return []string{"p:otherStyle"}
	}
	switch c.Type {
	case PlaceholderTitle, PlaceholderCtrTitle:
		return []string{"p:titleStyle"}
	case PlaceholderSubTitle:
		return []string{"p:titleStyle", "p:bodyStyle"}
	case PlaceholderBody, "obj":
		return []string{"p:bodyStyle"}
	}
	return []string{"p:otherStyle"}
}

// levelStyles returns the list-style level nodes that apply to a paragraph at
// level lvl, in cascade order: the text body's own list style, the layout
// placeholder's, the master placeholder's, then the master text styles for
// the placeholder type.
func levelStyles(body *Node, c Cascade, ctx *SlideContext, lvl int) []*Node {
	return append(placeholderLevels(body, c, lvl), masterLevels(c, ctx, lvl)...)
}

// placeholderLevels returns the level nodes defined on the shape and its
// placeholder counterparts.
func placeholderLevels(body *Node, c Cascade, lvl int) []*Node {
	key := levelKey(lvl)
	return nonNil(
		body.Find("a:lstStyle", key),
		c.Layout.Find("p:txBody", "a:lstStyle", key),
		c.Master.Find("p:txBody", "a:lstStyle", key),
	)
}

// masterLevels returns the level nodes of the master text styles that apply
// to the cascade's placeholder type.
func masterLevels(c Cascade, ctx *SlideContext, lvl int) []*Node {
	if ctx == nil {
		return nil
	}
	key := levelKey(lvl)
	var out []*Node
	for _, name := range masterStyleNames(c) {
		out = append(out, nonNil(ctx.MasterTextStyles.Find(name, key))...)
	}
	return out
}

func nonNil(nodes ...*Node) []*Node {
	out := nodes[:0]
	for _, n := range nodes {
		if n != nil {
			out = append(out, n)
		}
	}
	return out
}

// isPlaceholderPrompt reports whether text is the authoring prompt of an
// empty placeholder ("Click to add title").
func isPlaceholderPrompt(text string) bool {
	t := strings.Join(strings.Fields(strings.ReplaceAll(text, "\u00a0", " ")), " ")
	if t == "" {
		return false
	}
	lower := strings.ToLower(t)
	switch lower {
	case "click to add title", "click to add text", "click to add subtitle", "click to add notes":
		return true
	}
	if strings.Contains(lower, "edit master") || strings.Contains(lower, "edit the master") {
		return true
	}
	switch t {
	case "此处添加标题", "单击以添加标题", "单击此处添加标题",
		"此处添加文本", "单击以添加文本", "单击此处添加文本",
		"单击以添加副标题", "单击此处添加副标题":
		return true
	}
	return strings.Contains(t, "编辑母版")
}
