package pptxjson

// Transform is a resolved placement in points and degrees.
type Transform struct {
	Left, Top     float64
	Width, Height float64
	Rotate        float64
	FlipH, FlipV  bool
}

// pointPair reads two EMU attributes of one child of xfrm as points. Both
// must parse for the tier to count.
func pointPair(xfrm *Node, child, a, b string) func() ([2]float64, bool) {
	return func() ([2]float64, bool) {
		n := xfrm.Child(child)
		x, okX := parseEMU(n.Attr(a))
		y, okY := parseEMU(n.Attr(b))
		if !okX || !okY {
			return [2]float64{}, false
		}
		return [2]float64{x, y}, true
	}
}

// Position resolves the top-left corner from the first of the own, layout
// and master a:xfrm nodes that carries a valid offset. With none, (0, 0).
func Position(own, layout, master *Node) (top, left float64) {
	off, _ := firstDefined(
		pointPair(own, "a:off", "x", "y"),
		pointPair(layout, "a:off", "x", "y"),
		pointPair(master, "a:off", "x", "y"),
	)
	return numberToFixed(off[1]), numberToFixed(off[0])
}

// Size resolves the extent from the first of the own, layout and master
// a:xfrm nodes that carries a valid extent. With none, (0, 0).
func Size(own, layout, master *Node) (width, height float64) {
	ext, _ := firstDefined(
		pointPair(own, "a:ext", "cx", "cy"),
		pointPair(layout, "a:ext", "cx", "cy"),
		pointPair(master, "a:ext", "cx", "cy"),
	)
	return numberToFixed(ext[0]), numberToFixed(ext[1])
}

// xfrmAttr returns the first value of attr defined on any of xfrms.
func xfrmAttr(attr string, xfrms ...*Node) string {
	lookups := make([]func() (string, bool), 0, len(xfrms))
	for _, x := range xfrms {
		lookups = append(lookups, func() (string, bool) {
			if !x.HasAttr(attr) {
				return "", false
			}
			return x.Attr(attr), true
		})
	}
	v, _ := firstDefined(lookups...)
	return v
}

// resolveTransform combines Position, Size, rotation and flips for a
// shape and its placeholder counterparts' xfrm nodes.
func resolveTransform(own, layout, master *Node) Transform {
	var t Transform
	t.Top, t.Left = Position(own, layout, master)
	t.Width, t.Height = Size(own, layout, master)
	t.Rotate = angleToDegrees(xfrmAttr("rot", own, layout, master))
	t.FlipH, _ = boolAttr(xfrmAttr("flipH", own, layout, master))
	t.FlipV, _ = boolAttr(xfrmAttr("flipV", own, layout, master))
	return t
}

// apply copies the transform onto an element.
func (t Transform) apply(el *Element) {
	el.Left, el.Top = t.Left, t.Top
	el.Width, el.Height = t.Width, t.Height
	el.Rotate = t.Rotate
	el.IsFlipH, el.IsFlipV = t.FlipH, t.FlipV
}
