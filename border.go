package pptxjson

// Border line types.
const (
	BorderSolid  = "solid"
	BorderDashed = "dashed"
	BorderDotted = "dotted"
)

// Border is a resolved outline.
type Border struct {
	Color           string  `json:"borderColor"`
	Width           float64 `json:"borderWidth"`
	Type            string  `json:"borderType"`
	StrokeDasharray string  `json:"borderStrokeDasharray"`
}

// dashPresets maps a:prstDash values to a line type and SVG dash array.
var dashPresets = map[string]struct{ kind, dash string }{
	"solid":         {BorderSolid, "0"},
	"dash":          {BorderDashed, "5"},
	"dashDot":       {BorderDashed, "5, 5, 1, 5"},
	"dot":           {BorderDotted, "1, 5"},
	"lgDash":        {BorderDashed, "10, 5"},
	"lgDashDotDot":  {BorderDotted, "10, 5, 1, 5, 1, 5"},
	"sysDash":       {BorderDashed, "5, 2"},
	"sysDashDot":    {BorderDotted, "5, 2, 1, 5"},
	"sysDashDotDot": {BorderDotted, "5, 2, 1, 5, 1, 5"},
	"sysDot":        {BorderDotted, "2, 5"},
}

// lineNode picks the a:ln element that outlines node: its own, the nearest
// enclosing group's when its own is missing or defers to the group, the
// theme line style referenced by the shape style, or node itself.
func lineNode(node *Node, groups []*Node, theme *Node) *Node {
	ln := node.Find("p:spPr", "a:ln")
	if ln == nil || ln.Has("a:grpFill") {
		for i := len(groups) - 1; i >= 0; i-- {
			if g := groups[i].Find("p:grpSpPr", "a:ln"); g != nil {
				ln = g
				break
			}
		}
	}
	if ln == nil {
		if idx, ok := node.Find("p:style", "a:lnRef").IntAttr("idx"); ok {
			styles := theme.Root().Find("a:themeElements", "a:fmtScheme", "a:lnStyleLst").ChildrenNamed("a:ln")
			if idx >= 1 && idx <= len(styles) {
				ln = styles[idx-1]
			}
		}
	}
	if ln == nil {
		return node
	}
	return ln
}

// BorderOf resolves the outline of a shape or picture. groups lists the
// enclosing group nodes, outermost first.
func BorderOf(node *Node, groups []*Node, ctx *SlideContext) Border {
	cr := newColorResolver(ctx)
	ln := lineNode(node, groups, cr.theme)

	hasStyle := ln.HasAttr("w") || ln.Has("a:prstDash") || ln.Has("a:solidFill") ||
		ln.Has("a:gradFill") || ln.Has("a:pattFill")

	var b Border
	if !ln.Has("a:noFill") && hasStyle {
		w, ok := parseEMU(ln.Attr("w"))
		if !ok || w <= 0 {
			w = 1
		}
		b.Width = numberToFixed(w)
	}

	color, ok := firstDefined(
		func() (string, bool) {
			c, ok := ParseColor(ln.PathAttr("val", "a:solidFill", "a:srgbClr"))
			return c.Hex(), ok
		},
		func() (string, bool) {
			return SchemeColor(ln.PathAttr("val", "a:solidFill", "a:schemeClr"), cr.theme, cr.clrMap)
		},
		func() (string, bool) {
			ref := node.Find("p:style", "a:lnRef", "a:schemeClr")
			c, ok := SchemeColor(ref.Attr("val"), cr.theme, cr.clrMap)
			if !ok {
				return "", false
			}
			if shade, ok := percentAttr(ref.PathAttr("val", "a:shade")); ok {
				c = ApplyShade(c, shade)
			}
			return c, true
		},
	)
	if !ok {
		color = ColorBlack.Hex()
	}
	b.Color = color

	b.Type, b.StrokeDasharray = BorderSolid, "0"
	if preset, ok := dashPresets[ln.PathAttr("val", "a:prstDash")]; ok {
		b.Type, b.StrokeDasharray = preset.kind, preset.dash
	}
	return b
}
