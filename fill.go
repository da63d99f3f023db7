package pptxjson

import (
	"math"
	"strings"
)

// Fill types.
const (
	FillColor    = "color"
	FillGradient = "gradient"
	FillImage    = "image"
	FillPattern  = "pattern"
)

// Fill is a resolved shape or background fill.
type Fill struct {
	Type     string       `json:"type"`
	Color    string       `json:"color,omitempty"`
	Gradient *Gradient    `json:"gradient,omitempty"`
	Image    *ImageFill   `json:"image,omitempty"`
	Pattern  *PatternFill `json:"pattern,omitempty"`
}

// GradientStop is one color stop; Pos is a CSS percentage.
type GradientStop struct {
	Pos   string `json:"pos"`
	Color string `json:"color"`
}

// Gradient is a linear or path gradient.
type Gradient struct {
	// Path is "line" for linear gradients, otherwise the path shape
	// ("circle", "rect", "shape").
	Path   string         `json:"path"`
	Rot    float64        `json:"rot"`
	Colors []GradientStop `json:"colors"`
}

func (g *Gradient) css() string {
	stops := make([]string, 0, len(g.Colors))
	for _, s := range g.Colors {
		stops = append(stops, s.Color+" "+s.Pos)
	}
	if g.Path != "line" {
		return "radial-gradient(" + strings.Join(stops, ", ") + ")"
	}
	return "linear-gradient(" + formatNumber(g.Rot+90) + "deg, " + strings.Join(stops, ", ") + ")"
}

// ImageFill is a picture used as a fill.
type ImageFill struct {
	Src     string  `json:"src"`
	Opacity float64 `json:"opacity,omitempty"`
}

// PatternFill is a preset hatch pattern.
type PatternFill struct {
	Preset     string `json:"preset"`
	Foreground string `json:"foreground,omitempty"`
	Background string `json:"background,omitempty"`
}

// blipResolver turns an a:blip reference into an image source.
type blipResolver func(blip *Node) string

// fillNames are the DrawingML fill choices.
var fillNames = []string{"a:noFill", "a:solidFill", "a:gradFill", "a:blipFill", "a:pattFill", "a:grpFill"}

// fillChoice returns the fill element held by container (spPr, bgPr, tcPr ...).
func fillChoice(container *Node) *Node {
	for _, name := range fillNames {
		if c := container.Child(name); c != nil {
			return c
		}
	}
	return nil
}

// fillFromChoice resolves one fill element. ok is false for grpFill and
// unknown elements, which defer to the next tier.
func fillFromChoice(choice *Node, cr colorResolver, phClr string, blip blipResolver) (*Fill, bool) {
	if choice == nil {
		return nil, false
	}
	switch choice.Name {
	case "a:noFill":
		return nil, true
	case "a:solidFill":
		if c, ok := cr.resolve(choice, phClr); ok {
			return &Fill{Type: FillColor, Color: c}, true
		}
		return nil, false
	case "a:gradFill":
		if g := gradientOf(choice, cr, phClr); g != nil {
			return &Fill{Type: FillGradient, Gradient: g}, true
		}
		return nil, false
	case "a:blipFill":
		if blip == nil {
			return nil, false
		}
		src := blip(choice.Child("a:blip"))
		if src == "" {
			return nil, false
		}
		img := &ImageFill{Src: src}
		if a, ok := percentAttr(choice.PathAttr("amt", "a:blip", "a:alphaModFix")); ok {
			img.Opacity = numberToFixed(a)
		}
		return &Fill{Type: FillImage, Image: img}, true
	case "a:pattFill":
		p := &PatternFill{Preset: choice.Attr("prst")}
		p.Foreground, _ = cr.resolve(choice.Child("a:fgClr"), phClr)
		p.Background, _ = cr.resolve(choice.Child("a:bgClr"), phClr)
		return &Fill{Type: FillPattern, Pattern: p}, true
	}
	return nil, false
}

// gradientOf resolves an a:gradFill element.
func gradientOf(g *Node, cr colorResolver, phClr string) *Gradient {
	stops := g.Find("a:gsLst").ChildrenNamed("a:gs")
	if len(stops) == 0 {
		return nil
	}
	out := &Gradient{Path: "line"}
	for _, gs := range stops {
		c, ok := cr.resolve(gs, phClr)
		if !ok {
			continue
		}
		pos, _ := parseNumber(gs.Attr("pos"))
		out.Colors = append(out.Colors, GradientStop{Pos: formatNumber(pos/1000) + "%", Color: c})
	}
	if len(out.Colors) == 0 {
		return nil
	}
	if lin := g.Child("a:lin"); lin != nil {
		out.Rot = angleToDegrees(lin.Attr("ang"))
	} else if path := g.Child("a:path"); path != nil {
		out.Path = firstNonEmpty(path.Attr("path"), "circle")
	}
	return out
}

// styleListEntry returns the idx-th fill from the theme's format scheme.
// Indexes from 1001 address the background fill list.
func styleListEntry(theme *Node, idx int) *Node {
	scheme := theme.Root().Find("a:themeElements", "a:fmtScheme")
	list := scheme.Child("a:fillStyleLst")
	if idx >= 1001 {
		list = scheme.Child("a:bgFillStyleLst")
		idx -= 1000
	}
	entries := list.Elements()
	if idx < 1 || idx > len(entries) {
		return nil
	}
	return entries[idx-1]
}

// fillRefFill resolves a p:style/a:fillRef (or p:bgRef) through the theme.
func fillRefFill(ref *Node, ctx *SlideContext, cr colorResolver, blip blipResolver) (*Fill, bool) {
	if ref == nil || ctx == nil {
		return nil, false
	}
	idx, ok := ref.IntAttr("idx")
	if !ok {
		return nil, false
	}
	if idx == 0 {
		return nil, true
	}
	phClr, _ := cr.resolve(ref, "")
	return fillFromChoice(styleListEntry(ctx.Theme, idx), cr, phClr, blip)
}

// shapeFill resolves the fill of a shape: its own spPr (a grpFill defers to
// the nearest enclosing group), the layout and master placeholders, then
// the theme fill referenced by the shape style.
func shapeFill(c Cascade, groups []*Node, ctx *SlideContext, blip blipResolver) *Fill {
	cr := newColorResolver(ctx)
	own := func() (*Fill, bool) {
		choice := fillChoice(c.Node.Child("p:spPr"))
		if choice != nil && choice.Name == "a:grpFill" {
			for i := len(groups) - 1; i >= 0; i-- {
				if f, ok := fillFromChoice(fillChoice(groups[i].Child("p:grpSpPr")), cr, "", blip); ok {
					return f, true
				}
			}
			return nil, false
		}
		return fillFromChoice(choice, cr, "", blip)
	}
	fill, _ := firstDefined(
		own,
		func() (*Fill, bool) { return fillFromChoice(fillChoice(c.Layout.Child("p:spPr")), cr, "", blip) },
		func() (*Fill, bool) { return fillFromChoice(fillChoice(c.Master.Child("p:spPr")), cr, "", blip) },
		func() (*Fill, bool) { return fillRefFill(c.Node.Find("p:style", "a:fillRef"), ctx, cr, blip) },
	)
	return fill
}

// backgroundFill resolves the slide background through slide, layout and
// master. White is used when none declares one.
func backgroundFill(ctx *SlideContext, blips map[source]blipResolver) *Fill {
	cr := newColorResolver(ctx)
	tier := func(part *Node, src source) func() (*Fill, bool) {
		return func() (*Fill, bool) {
			bg := part.Root().Find("p:cSld", "p:bg")
			if bgPr := bg.Child("p:bgPr"); bgPr != nil {
				return fillFromChoice(fillChoice(bgPr), cr, "", blips[src])
			}
			return fillRefFill(bg.Child("p:bgRef"), ctx, cr, blips[src])
		}
	}
	fill, ok := firstDefined(
		tier(ctx.Slide, sourceSlide),
		tier(ctx.Layout, sourceLayout),
		tier(ctx.Master, sourceMaster),
	)
	if !ok || fill == nil {
		return &Fill{Type: FillColor, Color: ColorWhite.Hex()}
	}
	return fill
}

// Shadow is an outer shadow. Offsets and blur are in points.
type Shadow struct {
	H     float64 `json:"h"`
	V     float64 `json:"v"`
	Blur  float64 `json:"blur"`
	Color string  `json:"color"`
}

// shadowOf resolves an a:outerShdw element.
func shadowOf(n *Node, cr colorResolver) *Shadow {
	if n == nil {
		return nil
	}
	dist, _ := parseEMU(n.Attr("dist"))
	blur, _ := parseEMU(n.Attr("blurRad"))
	dir, _ := parseNumber(n.Attr("dir"))
	rad := dir / angleUnit * math.Pi / 180
	color, ok := cr.resolve(n, "")
	if !ok {
		color = ColorBlack.Hex()
	}
	return &Shadow{
		H:     numberToFixed(dist * math.Cos(rad)),
		V:     numberToFixed(dist * math.Sin(rad)),
		Blur:  numberToFixed(blur),
		Color: color,
	}
}

func (s *Shadow) textShadow() string {
	out := formatNumber(s.H) + "pt " + formatNumber(s.V) + "pt "
	if s.Blur != 0 {
		out += formatNumber(s.Blur) + "pt"
	}
	return out + " " + s.Color
}
