package pptxjson

import (
	"math"
	"regexp"
	"strings"
)

var pathToken = regexp.MustCompile(`[a-zA-Z]|[-+]?(?:\d*\.\d+|\d+)(?:[eE][-+]?\d+)?`)

// pathArity is the argument group length of each SVG path command.
var pathArity = map[byte]int{
	'M': 2, 'L': 2, 'T': 2,
	'H': 1, 'V': 1,
	'C': 6, 'S': 4, 'Q': 4,
	'A': 7,
	'Z': 0,
}

// ScaleSVGPath scales SVG path data by ws horizontally and hs vertically.
// Arc radii follow their axis while the rotation and flag arguments of A
// are kept. The result is space separated.
func ScaleSVGPath(d string, ws, hs float64) string {
	if d == "" || (ws == 1 && hs == 1) {
		return d
	}
	tokens := pathToken.FindAllString(d, -1)
	if len(tokens) == 0 {
		return d
	}
	out := make([]string, 0, len(tokens))
	var cmd byte
	idx := 0
	for _, tok := range tokens {
		if len(tok) == 1 && isLetter(tok[0]) {
			cmd = upper(tok[0])
			idx = 0
			out = append(out, tok)
			continue
		}
		arity := pathArity[cmd]
		if arity == 0 {
			out = append(out, tok)
			continue
		}
		pos := idx % arity
		idx++
		n, ok := parseNumber(tok)
		if !ok || (cmd == 'A' && pos >= 2 && pos <= 4) {
			out = append(out, tok)
			continue
		}
		switch {
		case cmd == 'H':
			n *= ws
		case cmd == 'V':
			n *= hs
		case cmd == 'A':
			if pos == 0 || pos == 5 {
				n *= ws
			} else {
				n *= hs
			}
		case pos%2 == 0:
			n *= ws
		default:
			n *= hs
		}
		out = append(out, formatNumber(n))
	}
	return strings.Join(out, " ")
}

func isLetter(c byte) bool { return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') }

func upper(c byte) byte {
	if c >= 'a' && c <= 'z' {
		return c - 'a' + 'A'
	}
	return c
}

// pathWriter accumulates SVG path commands.
type pathWriter struct {
	b      strings.Builder
	cx, cy float64
}

func (w *pathWriter) cmd(c string, coords ...float64) {
	if w.b.Len() > 0 {
		w.b.WriteByte(' ')
	}
	w.b.WriteString(c)
	for _, v := range coords {
		w.b.WriteByte(' ')
		w.b.WriteString(formatNumber(v))
	}
	if n := len(coords); n >= 2 {
		w.cx, w.cy = coords[n-2], coords[n-1]
	}
}

func (w *pathWriter) String() string { return w.b.String() }

// CustomPath converts an a:custGeom to SVG path data sized to w x h points.
func CustomPath(custGeom *Node, w, h float64) string {
	var pw pathWriter
	for _, path := range custGeom.Find("a:pathLst").ChildrenNamed("a:path") {
		sx, sy := 1/float64(emuPerPoint), 1/float64(emuPerPoint)
		if pathW, ok := parseNumber(path.Attr("w")); ok && pathW > 0 {
			sx = w / pathW
		}
		if pathH, ok := parseNumber(path.Attr("h")); ok && pathH > 0 {
			sy = h / pathH
		}
		pt := func(n *Node) (float64, float64) {
			x, _ := parseNumber(n.Attr("x"))
			y, _ := parseNumber(n.Attr("y"))
			return x * sx, y * sy
		}
		for _, seg := range path.Elements() {
			pts := seg.ChildrenNamed("a:pt")
			switch seg.Name {
			case "a:moveTo", "a:lnTo":
				if len(pts) == 0 {
					continue
				}
				x, y := pt(pts[0])
				c := "L"
				if seg.Name == "a:moveTo" {
					c = "M"
				}
				pw.cmd(c, x, y)
			case "a:cubicBezTo":
				if len(pts) < 3 {
					continue
				}
				x1, y1 := pt(pts[0])
				x2, y2 := pt(pts[1])
				x3, y3 := pt(pts[2])
				pw.cmd("C", x1, y1, x2, y2, x3, y3)
			case "a:quadBezTo":
				if len(pts) < 2 {
					continue
				}
				x1, y1 := pt(pts[0])
				x2, y2 := pt(pts[1])
				pw.cmd("Q", x1, y1, x2, y2)
			case "a:arcTo":
				wR, _ := parseNumber(seg.Attr("wR"))
				hR, _ := parseNumber(seg.Attr("hR"))
				st, _ := parseNumber(seg.Attr("stAng"))
				sw, _ := parseNumber(seg.Attr("swAng"))
				arcTo(&pw, wR*sx, hR*sy, st/angleUnit, sw/angleUnit)
			case "a:close":
				pw.cmd("Z")
			}
		}
	}
	return pw.String()
}

// arcTo appends an elliptical arc that starts at the current point, which
// lies at angle st on the ellipse, and sweeps sw degrees.
func arcTo(pw *pathWriter, rx, ry, st, sw float64) {
	if rx == 0 || ry == 0 || sw == 0 {
		return
	}
	a0 := st * math.Pi / 180
	a1 := (st + sw) * math.Pi / 180
	cx := pw.cx - rx*math.Cos(a0)
	cy := pw.cy - ry*math.Sin(a0)
	ex := cx + rx*math.Cos(a1)
	ey := cy + ry*math.Sin(a1)
	large, sweep := 0.0, 0.0
	if math.Abs(sw) > 180 {
		large = 1
	}
	if sw > 0 {
		sweep = 1
	}
	pw.cmd("A", rx, ry, 0, large, sweep, ex, ey)
}

// adjust reads a preset shape adjust value (a:gd name="adj" fmla="val 25000")
// as a fraction, or def when absent.
func adjust(node *Node, name string, def float64) float64 {
	for _, gd := range node.Find("p:spPr", "a:prstGeom", "a:avLst").ChildrenNamed("a:gd") {
		if gd.Attr("name") != name {
			continue
		}
		if f := strings.Fields(gd.Attr("fmla")); len(f) == 2 && f[0] == "val" {
			if v, ok := parseNumber(f[1]); ok {
				return v / 100000
			}
		}
	}
	return def
}

// PresetPath returns SVG path data for a preset geometry sized w x h.
// Unknown presets are drawn as their bounding rectangle.
func PresetPath(prst string, w, h float64, node *Node) string {
	var pw pathWriter
	poly := func(pts ...float64) string {
		for i := 0; i+1 < len(pts); i += 2 {
			c := "L"
			if i == 0 {
				c = "M"
			}
			pw.cmd(c, pts[i], pts[i+1])
		}
		pw.cmd("Z")
		return pw.String()
	}
	m := math.Min(w, h)
	switch prst {
	case "line", "straightConnector1", "bentConnector2", "bentConnector3", "curvedConnector3":
		pw.cmd("M", 0, 0)
		pw.cmd("L", w, h)
		return pw.String()
	case "ellipse", "flowChartConnector":
		rx, ry := w/2, h/2
		pw.cmd("M", 0, ry)
		pw.cmd("A", rx, ry, 0, 1, 0, w, ry)
		pw.cmd("A", rx, ry, 0, 1, 0, 0, ry)
		pw.cmd("Z")
		return pw.String()
	case "roundRect":
		r := m * adjust(node, "adj", 0.16667)
		pw.cmd("M", r, 0)
		pw.cmd("L", w-r, 0)
		pw.cmd("Q", w, 0, w, r)
		pw.cmd("L", w, h-r)
		pw.cmd("Q", w, h, w-r, h)
		pw.cmd("L", r, h)
		pw.cmd("Q", 0, h, 0, h-r)
		pw.cmd("L", 0, r)
		pw.cmd("Q", 0, 0, r, 0)
		pw.cmd("Z")
		return pw.String()
	case "triangle", "flowChartExtract":
		x := w * adjust(node, "adj", 0.5)
		return poly(x, 0, w, h, 0, h)
	case "rtTriangle":
		return poly(0, 0, w, h, 0, h)
	case "diamond", "flowChartDecision":
		return poly(w/2, 0, w, h/2, w/2, h, 0, h/2)
	case "parallelogram", "flowChartInputOutput":
		d := m * adjust(node, "adj", 0.25)
		return poly(d, 0, w, 0, w-d, h, 0, h)
	case "trapezoid":
		d := m * adjust(node, "adj", 0.25)
		return poly(d, 0, w-d, 0, w, h, 0, h)
	case "pentagon", "homePlate":
		d := m * adjust(node, "adj", 0.5)
		return poly(0, 0, w-d, 0, w, h/2, w-d, h, 0, h)
	case "chevron":
		d := m * adjust(node, "adj", 0.5)
		return poly(0, 0, w-d, 0, w, h/2, w-d, h, 0, h, d, h/2)
	case "hexagon":
		d := m * adjust(node, "adj", 0.25)
		return poly(d, 0, w-d, 0, w, h/2, w-d, h, d, h, 0, h/2)
	case "octagon":
		d := m * adjust(node, "adj", 0.29289)
		return poly(d, 0, w-d, 0, w, d, w, h-d, w-d, h, d, h, 0, h-d, 0, d)
	case "plus", "mathPlus":
		d := m * adjust(node, "adj", 0.25)
		return poly(d, 0, w-d, 0, w-d, d, w, d, w, h-d, w-d, h-d, w-d, h, d, h, d, h-d, 0, h-d, 0, d, d, d)
	case "rightArrow":
		t := h * adjust(node, "adj1", 0.5) / 2
		d := m * adjust(node, "adj2", 0.5)
		return poly(0, h/2-t, w-d, h/2-t, w-d, 0, w, h/2, w-d, h, w-d, h/2+t, 0, h/2+t)
	case "leftArrow":
		t := h * adjust(node, "adj1", 0.5) / 2
		d := m * adjust(node, "adj2", 0.5)
		return poly(0, h/2, d, 0, d, h/2-t, w, h/2-t, w, h/2+t, d, h/2+t, d, h)
	case "upArrow":
		t := w * adjust(node, "adj1", 0.5) / 2
		d := m * adjust(node, "adj2", 0.5)
		return poly(w/2, 0, w, d, w/2+t, d, w/2+t, h, w/2-t, h, w/2-t, d, 0, d)
	case "downArrow":
		t := w * adjust(node, "adj1", 0.5) / 2
		d := m * adjust(node, "adj2", 0.5)
		return poly(w/2-t, 0, w/2+t, 0, w/2+t, h-d, w, h-d, w/2, h, 0, h-d, w/2-t, h-d)
	case "star5":
		return poly(starPoints(5, w, h, 0.38197)...)
	case "star4":
		return poly(starPoints(4, w, h, 0.25)...)
	}
	return poly(0, 0, w, 0, w, h, 0, h)
}

// starPoints returns the vertices of an n-pointed star inscribed in w x h,
// with the inner radius as a fraction of the outer one.
func starPoints(n int, w, h, inner float64) []float64 {
	pts := make([]float64, 0, 4*n)
	for i := 0; i < 2*n; i++ {
		r := 1.0
		if i%2 == 1 {
			r = inner
		}
		a := -math.Pi/2 + float64(i)*math.Pi/float64(n)
		pts = append(pts, w/2+r*w/2*math.Cos(a), h/2+r*h/2*math.Sin(a))
	}
	return pts
}
