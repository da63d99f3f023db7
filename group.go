package pptxjson

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
)

// groupTolerance is the fraction of the group's smaller extent by which the
// slide-space hypothesis must beat the child-space hypothesis before
// children are treated as slide-absolute. The floor is one point.
const groupTolerance = 0.002

// GroupTransform is a group's slide-space placement plus its declared child
// space, all in points. Absent extents are NaN.
type GroupTransform struct {
	Transform
	ChildLeft, ChildTop     float64
	ChildWidth, ChildHeight float64
}

// Scale returns slide extent / child extent per axis. An axis whose slide
// or child extent is zero, absent or non-finite has scale 1.
func (g GroupTransform) Scale() (ws, hs float64) {
	return axisScale(g.Width, g.ChildWidth), axisScale(g.Height, g.ChildHeight)
}

func axisScale(ext, chExt float64) float64 {
	if !isUsable(ext) || !isUsable(chExt) {
		return 1
	}
	return ext / chExt
}

// isUsable reports whether v is finite and non-zero.
func isUsable(v float64) bool {
	return v != 0 && !math.IsNaN(v) && !math.IsInf(v, 0)
}

// loose reports whether any extent is degenerate.
func (g GroupTransform) loose() bool {
	return !isUsable(g.Width) || !isUsable(g.Height) || !isUsable(g.ChildWidth) || !isUsable(g.ChildHeight)
}

// validate rejects transforms that cannot be normalized.
func (g GroupTransform) validate() error {
	for _, v := range []float64{g.Width, g.Height, g.ChildWidth, g.ChildHeight} {
		if v < 0 {
			return fmt.Errorf("%w: negative extent %v", ErrInvalidTransform, v)
		}
	}
	for _, v := range []float64{g.Left, g.Top, g.ChildLeft, g.ChildTop} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: non-finite offset", ErrInvalidTransform)
		}
	}
	return nil
}

// groupXfrm returns the a:xfrm of a group node.
func groupXfrm(group *Node) *Node {
	return firstNode(
		group.Find("p:grpSpPr", "a:xfrm"),
		group.Find("p:grpSp", "p:grpSpPr", "a:xfrm"),
	)
}

// GroupTransformOf reads a group's a:xfrm. Missing offsets read as 0 and
// missing extents as NaN; a missing child extent defaults to the slide extent.
func GroupTransformOf(xfrm *Node) GroupTransform {
	emu := func(n *Node, attr string, absent float64) float64 {
		if v, ok := parseEMU(n.Attr(attr)); ok {
			return v
		}
		return absent
	}
	off, ext := xfrm.Child("a:off"), xfrm.Child("a:ext")
	chOff, chExt := xfrm.Child("a:chOff"), xfrm.Child("a:chExt")

	var g GroupTransform
	g.Left = emu(off, "x", 0)
	g.Top = emu(off, "y", 0)
	g.Width = emu(ext, "cx", math.NaN())
	g.Height = emu(ext, "cy", math.NaN())
	g.ChildLeft = emu(chOff, "x", 0)
	g.ChildTop = emu(chOff, "y", 0)
	g.ChildWidth = emu(chExt, "cx", g.Width)
	g.ChildHeight = emu(chExt, "cy", g.Height)
	g.Rotate = angleToDegrees(xfrm.Attr("rot"))
	g.FlipH, _ = boolAttr(xfrm.Attr("flipH"))
	g.FlipV, _ = boolAttr(xfrm.Attr("flipV"))
	return g
}

// groupPlan records how a group's children are re-based.
type groupPlan struct {
	HasBBox                bool
	MinX, MinY, MaxX, MaxY float64
	Loose                  bool
	Eps                    float64
	ErrToSlide, ErrToChild float64
	Absolute               bool
	BaseX, BaseY           float64
	ScaleX, ScaleY         float64
	Left, Top              float64
	Width, Height          float64
}

// planGroup decides the base offset, scale and output rectangle of a group
// from its transform and the bounding box of its children.
func planGroup(g GroupTransform, children []*Element) groupPlan {
	p := groupPlan{
		MinX: math.Inf(1), MinY: math.Inf(1),
		MaxX: math.Inf(-1), MaxY: math.Inf(-1),
	}
	for _, el := range children {
		p.MinX = math.Min(p.MinX, el.Left)
		p.MinY = math.Min(p.MinY, el.Top)
		p.MaxX = math.Max(p.MaxX, el.Left+el.Width)
		p.MaxY = math.Max(p.MaxY, el.Top+el.Height)
	}
	p.HasBBox = len(children) > 0 && !math.IsInf(p.MinX, 0) && !math.IsInf(p.MaxY, 0)
	p.Loose = g.loose()

	finite := func(v float64) float64 {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return 0
		}
		return v
	}
	p.Eps = math.Max(1, math.Min(finite(g.Width), finite(g.Height))*groupTolerance)

	p.ErrToSlide, p.ErrToChild = math.Inf(1), math.Inf(1)
	var bboxW, bboxH float64
	if p.HasBBox {
		bboxW, bboxH = p.MaxX-p.MinX, p.MaxY-p.MinY
		p.ErrToSlide = math.Abs(bboxW-g.Width) + math.Abs(bboxH-g.Height) +
			math.Abs(p.MinX-g.Left) + math.Abs(p.MinY-g.Top)
		p.ErrToChild = math.Abs(bboxW-g.ChildWidth) + math.Abs(bboxH-g.ChildHeight) +
			math.Abs(p.MinX-g.ChildLeft) + math.Abs(p.MinY-g.ChildTop)
	}
	p.Absolute = !p.Loose && p.HasBBox && p.ErrToSlide+2*p.Eps < p.ErrToChild

	ws, hs := g.Scale()
	switch {
	case p.Loose:
		p.ScaleX, p.ScaleY = 1, 1
		if p.HasBBox {
			p.BaseX, p.BaseY = p.MinX, p.MinY
		}
	case p.Absolute:
		p.ScaleX, p.ScaleY = 1, 1
		p.BaseX, p.BaseY = g.Left, g.Top
	default:
		p.ScaleX, p.ScaleY = ws, hs
		p.BaseX, p.BaseY = g.ChildLeft, g.ChildTop
	}

	p.Left, p.Top = g.Left, g.Top
	p.Width, p.Height = finite(g.Width), finite(g.Height)
	if p.Loose && p.HasBBox {
		p.Left, p.Top, p.Width, p.Height = p.MinX, p.MinY, bboxW, bboxH
	}
	p.Left, p.Top = numberToFixed(p.Left), numberToFixed(p.Top)
	p.Width, p.Height = numberToFixed(p.Width), numberToFixed(p.Height)
	return p
}

// NormalizeGroup re-bases a group's already-normalized children into the
// group's own coordinate space and returns the group element. Children are
// copied; the input slice is not modified. Flips of the group are pushed
// down to its children and the group itself is reported unflipped.
func NormalizeGroup(g GroupTransform, children []*Element) (*Element, error) {
	if err := g.validate(); err != nil {
		return nil, err
	}
	el, _ := normalizeGroup(g, children)
	return el, nil
}

func normalizeGroup(g GroupTransform, children []*Element) (*Element, groupPlan) {
	plan := planGroup(g, children)

	out := make([]*Element, 0, len(children))
	for _, child := range children {
		moved := child.clone()
		moved.Left -= plan.BaseX
		moved.Top -= plan.BaseY
		scaleElementTree(moved, plan.ScaleX, plan.ScaleY)
		out = append(out, moved)
	}
	sortByOrder(out)
	applyGroupFlip(out, plan.Width, plan.Height, g.FlipH, g.FlipV)

	return &Element{
		Type:     ElementGroup,
		Left:     plan.Left,
		Top:      plan.Top,
		Width:    plan.Width,
		Height:   plan.Height,
		Rotate:   g.Rotate,
		Elements: out,
	}, plan
}

// scaleElementTree scales an owned element tree in place: positions and
// sizes per axis, border widths, path data and font sizes by the larger
// axis scale.
func scaleElementTree(el *Element, ws, hs float64) {
	el.Left = numberToFixed(el.Left * ws)
	el.Top = numberToFixed(el.Top * hs)
	el.Width = numberToFixed(el.Width * ws)
	el.Height = numberToFixed(el.Height * hs)

	maxScale := math.Max(ws, hs)
	if el.Border != nil {
		el.Border.Width = numberToFixed(el.Border.Width * maxScale)
	}
	if el.Path != "" {
		el.Path = ScaleSVGPath(el.Path, ws, hs)
	}
	if el.Content != "" {
		el.Content = scaleContentFont(el.Content, maxScale)
	}
	for i := range el.ColWidths {
		el.ColWidths[i] = numberToFixed(el.ColWidths[i] * ws)
	}
	for i := range el.RowHeights {
		el.RowHeights[i] = numberToFixed(el.RowHeights[i] * hs)
	}
	for _, row := range el.Cells {
		for j := range row {
			row[j].Text = scaleContentFont(row[j].Text, maxScale)
		}
	}
	for _, child := range el.Elements {
		scaleElementTree(child, ws, hs)
	}
}

var fontSizeDecl = regexp.MustCompile(`(font-size:\s*)([\d.]+)pt`)

// scaleContentFont multiplies every point font size declared in html.
func scaleContentFont(html string, scale float64) string {
	if scale == 1 || html == "" {
		return html
	}
	return fontSizeDecl.ReplaceAllStringFunc(html, func(m string) string {
		parts := fontSizeDecl.FindStringSubmatch(m)
		size, err := strconv.ParseFloat(parts[2], 64)
		if err != nil {
			return m
		}
		return parts[1] + formatNumber(size*scale) + "pt"
	})
}

// applyGroupFlip mirrors children about the group's width and height.
// Text is mirrored in position only; nested groups pass the flip on to
// their own children; other elements toggle their flip flags and, when
// exactly one axis flips, negate their rotation.
func applyGroupFlip(children []*Element, gw, gh float64, flipH, flipV bool) {
	if !flipH && !flipV {
		return
	}
	if math.IsNaN(gw) || math.IsNaN(gh) || math.IsInf(gw, 0) || math.IsInf(gh, 0) {
		return
	}
	for _, child := range children {
		if flipH {
			child.Left = numberToFixed(gw - child.Left - child.Width)
		}
		if flipV {
			child.Top = numberToFixed(gh - child.Top - child.Height)
		}
		switch {
		case child.Type == ElementText || hasValidText(child.Content):
			child.IsFlipH, child.IsFlipV = false, false
		case child.Type == ElementGroup:
			applyGroupFlip(child.Elements, child.Width, child.Height, flipH, flipV)
			child.IsFlipH, child.IsFlipV = false, false
		default:
			if flipH {
				child.IsFlipH = !child.IsFlipH
			}
			if flipV {
				child.IsFlipV = !child.IsFlipV
			}
			if flipH != flipV {
				child.Rotate = numberToFixed(-child.Rotate)
			}
		}
	}
	sortByOrder(children)
}
