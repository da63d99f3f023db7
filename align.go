package pptxjson

// Horizontal alignment values.
const (
	AlignLeft    = "left"
	AlignRight   = "right"
	AlignCenter  = "center"
	AlignJustify = "justify"
	AlignInherit = "inherit"
)

// Vertical anchor values.
const (
	AnchorTop    = "up"
	AnchorMiddle = "mid"
	AnchorBottom = "down"
)

// HorizontalAlign resolves the alignment of paragraph p inside text body
// body. The paragraph's own algn wins; otherwise the list styles at the
// paragraph's outline level are consulted in cascade order (text body,
// layout placeholder, master placeholder, master text styles). With no
// definition anywhere the result is left.
func HorizontalAlign(p, body *Node, c Cascade, ctx *SlideContext) string {
	lookups := []func() (string, bool){attrLookup(p, "algn", "a:pPr")}
	for _, lvl := range levelStyles(body, c, ctx, outlineLevel(p)) {
		lookups = append(lookups, attrLookup(lvl, "algn"))
	}
	algn, ok := firstDefined(lookups...)
	if !ok {
		return AlignLeft
	}
	switch algn {
	case "l":
		return AlignLeft
	case "r":
		return AlignRight
	case "ctr":
		return AlignCenter
	case "just", "dist":
		return AlignJustify
	}
	return AlignInherit
}

// VerticalAlign resolves the text anchor of a shape through its layout and
// master placeholders. Absent everywhere, text is anchored at the top.
func VerticalAlign(c Cascade) string {
	anchor, _ := firstDefined(
		attrLookup(c.Node, "anchor", "p:txBody", "a:bodyPr"),
		attrLookup(c.Layout, "anchor", "p:txBody", "a:bodyPr"),
		attrLookup(c.Master, "anchor", "p:txBody", "a:bodyPr"),
	)
	switch anchor {
	case "ctr":
		return AnchorMiddle
	case "b":
		return AnchorBottom
	}
	return AnchorTop
}

// AutoFit describes how a text body adapts to its shape.
type AutoFit struct {
	// Type is "shape" (the shape grows) or "text" (the text shrinks).
	Type string `json:"type"`
	// FontScale is the shrink factor in percent, when given.
	FontScale float64 `json:"fontScale,omitempty"`
}

// autoFitOf reports the autofit declared by one bodyPr. ok is false when
// bodyPr declares nothing, so the cascade continues; a declared noAutofit
// yields (nil, true).
func autoFitOf(bodyPr *Node) (*AutoFit, bool) {
	switch {
	case bodyPr == nil:
		return nil, false
	case bodyPr.Has("a:noAutofit"):
		return nil, true
	case bodyPr.Has("a:spAutoFit"):
		return &AutoFit{Type: "shape"}, true
	case bodyPr.Has("a:normAutofit"):
		fit := &AutoFit{Type: "text"}
		if v, ok := parseNumber(bodyPr.PathAttr("fontScale", "a:normAutofit")); ok {
			fit.FontScale = v / 1000
		}
		return fit, true
	}
	return nil, false
}

// TextAutoFit resolves the autofit mode through the shape, its layout and
// master placeholders. The first tier declaring any mode is terminal.
func TextAutoFit(c Cascade) *AutoFit {
	fit, _ := firstDefined(
		func() (*AutoFit, bool) { return autoFitOf(c.Node.Find("p:txBody", "a:bodyPr")) },
		func() (*AutoFit, bool) { return autoFitOf(c.Layout.Find("p:txBody", "a:bodyPr")) },
		func() (*AutoFit, bool) { return autoFitOf(c.Master.Find("p:txBody", "a:bodyPr")) },
	)
	return fit
}
