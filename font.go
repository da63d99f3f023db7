package pptxjson

import (
	"strings"
	"unicode"
)

// Style is the fully resolved style of one text run.
type Style struct {
	Color         string
	Gradient      *Gradient
	Size          float64 // points
	Family        string
	Bold          bool
	Italic        bool
	Underline     bool
	Strike        bool
	LetterSpacing float64 // points, 0 when unset
	Baseline      string  // "super", "sub" or ""
	Shadow        string
}

// String renders the style as an inline CSS declaration list. Two runs with
// equal strings render identically, which is what run merging relies on.
func (s Style) String() string {
	var b strings.Builder
	switch {
	case s.Gradient != nil:
		b.WriteString("background: " + s.Gradient.css() + "; background-clip: text; color: transparent;")
	case s.Color != "":
		b.WriteString("color: " + s.Color + ";")
	}
	if s.Size > 0 {
		b.WriteString("font-size: " + formatNumber(s.Size) + "pt;")
	}
	if s.Family != "" {
		b.WriteString("font-family: " + s.Family + ";")
	}
	if s.Bold {
		b.WriteString("font-weight: bold;")
	}
	if s.Italic {
		b.WriteString("font-style: italic;")
	}
	if s.Underline {
		b.WriteString("text-decoration: underline;")
	}
	if s.Strike {
		b.WriteString("text-decoration-line: line-through;")
	}
	if s.LetterSpacing != 0 {
		b.WriteString("letter-spacing: " + formatNumber(s.LetterSpacing) + "pt;")
	}
	if s.Baseline != "" {
		b.WriteString("vertical-align: " + s.Baseline + ";")
	}
	if s.Shadow != "" {
		b.WriteString("text-shadow: " + s.Shadow + ";")
	}
	return b.String()
}

const (
	defaultFontSize = 18
	// headerFooterFontSize applies to date and slide number placeholders.
	headerFooterFontSize = 12
)

// FontSize resolves the size in points of run r in paragraph p of text body
// body. The walk is: run, paragraph end properties, text body list style at
// the paragraph level, layout placeholder list style (level, then level 1),
// paragraph default run properties, the fixed date/slide number size,
// master text styles for the placeholder type, the presentation default
// text style, and finally 18pt.
func FontSize(r, p, body *Node, c Cascade, ctx *SlideContext) float64 {
	lvl := outlineLevel(p)
	key := levelKey(lvl)
	lookups := []func() (float64, bool){
		sizeLookup(r, "a:rPr"),
		sizeLookup(p, "a:endParaRPr"),
		sizeLookup(body, "a:lstStyle", key, "a:defRPr"),
		sizeLookup(c.Layout, "p:txBody", "a:lstStyle", key, "a:defRPr"),
		sizeLookup(c.Layout, "p:txBody", "a:lstStyle", "a:lvl1pPr", "a:defRPr"),
		sizeLookup(p, "a:pPr", "a:defRPr"),
	}
	if c.Type == PlaceholderDate || c.Type == PlaceholderSlideNum {
		lookups = append(lookups, func() (float64, bool) { return headerFooterFontSize, true })
	}
	if ctx != nil {
		for _, name := range masterStyleNames(c) {
			lookups = append(lookups,
				sizeLookup(ctx.MasterTextStyles, name, key, "a:defRPr"),
				sizeLookup(ctx.MasterTextStyles, name, "a:lvl1pPr", "a:defRPr"),
			)
		}
		lookups = append(lookups,
			sizeLookup(ctx.DefaultTextStyle, key, "a:defRPr"),
			sizeLookup(ctx.DefaultTextStyle, "a:defPPr", "a:defRPr"),
		)
	}
	if size, ok := firstDefined(lookups...); ok {
		return size
	}
	return defaultFontSize
}

// containsCJK reports whether s holds kana or CJK ideographs.
func containsCJK(s string) bool {
	for _, r := range s {
		if unicode.Is(unicode.Han, r) || unicode.Is(unicode.Hiragana, r) || unicode.Is(unicode.Katakana, r) {
			return true
		}
	}
	return false
}

// typefaceOf picks a typeface from a node holding a:latin/a:ea/a:cs
// children. East Asian faces come first for CJK text.
func typefaceOf(n *Node, preferEA bool) string {
	if n == nil {
		return ""
	}
	var ea string
	if preferEA {
		ea = n.PathAttr("typeface", "a:ea")
	}
	return firstNonEmpty(ea,
		n.PathAttr("typeface", "a:latin"),
		n.PathAttr("typeface", "a:ea"),
		n.PathAttr("typeface", "a:cs"),
	)
}

// FontFamily resolves the typeface of run r. Without an explicit face the
// theme major font applies to titles and the minor font to everything else.
func FontFamily(r *Node, phType string, theme *Node) string {
	preferEA := containsCJK(r.Child("a:t").Value())
	scheme := theme.Root().Find("a:themeElements", "a:fontScheme")

	face := typefaceOf(r.Child("a:rPr"), preferEA)
	if face == "" {
		font := scheme.Child("a:minorFont")
		if isTitleType(phType) {
			font = scheme.Child("a:majorFont")
		}
		face = typefaceOf(font, preferEA)
	}
	return themeFontToken(face, scheme)
}

// themeFontToken resolves "+mj-lt" style references to the theme's faces.
func themeFontToken(face string, scheme *Node) string {
	if !strings.HasPrefix(face, "+") || len(face) < 6 {
		return face
	}
	font := "a:minorFont"
	if strings.HasPrefix(face, "+mj") {
		font = "a:majorFont"
	}
	script := "a:latin"
	switch face[len(face)-2:] {
	case "ea":
		script = "a:ea"
	case "cs":
		script = "a:cs"
	}
	return scheme.PathAttr("typeface", font, script)
}

// boolAttr parses an OOXML boolean.
func boolAttr(v string) (bool, bool) {
	switch strings.ToLower(v) {
	case "1", "true", "on":
		return true, true
	case "0", "false", "off":
		return false, true
	}
	return false, false
}

// flagLookup reads a boolean attribute from a run property node.
func flagLookup(n *Node, attr string, path ...string) func() (bool, bool) {
	return func() (bool, bool) {
		return boolAttr(n.PathAttr(attr, path...))
	}
}

// runFlag resolves a boolean run property (b, i) through the run and the
// default run properties of the applicable list-style levels.
func runFlag(attr string, r *Node, levels []*Node) bool {
	lookups := []func() (bool, bool){flagLookup(r, attr, "a:rPr")}
	for _, lvl := range levels {
		lookups = append(lookups, flagLookup(lvl, attr, "a:defRPr"))
	}
	v, _ := firstDefined(lookups...)
	return v
}

// fontColor resolves the run color: the run's own fill, the list styles of
// the shape and its placeholders, the shape's font reference, then the
// master text styles. A gradient fill on the run yields a gradient instead.
func fontColor(r, p, body *Node, c Cascade, ctx *SlideContext) (string, *Gradient) {
	cr := newColorResolver(ctx)
	rPr := r.Child("a:rPr")
	if g := rPr.Child("a:gradFill"); g != nil {
		if grad := gradientOf(g, cr, ""); grad != nil {
			return "", grad
		}
	}
	fillOf := func(n *Node) func() (string, bool) {
		return func() (string, bool) { return cr.resolve(n, "") }
	}
	lvl := outlineLevel(p)
	lookups := []func() (string, bool){fillOf(rPr.Child("a:solidFill"))}
	for _, n := range placeholderLevels(body, c, lvl) {
		lookups = append(lookups, fillOf(n.Find("a:defRPr", "a:solidFill")))
	}
	lookups = append(lookups, fillOf(c.Node.Find("p:style", "a:fontRef")))
	for _, n := range masterLevels(c, ctx, lvl) {
		lookups = append(lookups, fillOf(n.Find("a:defRPr", "a:solidFill")))
	}
	color, _ := firstDefined(lookups...)
	return color, nil
}

// runStyle resolves every style property of run r.
func runStyle(r, p, body *Node, c Cascade, ctx *SlideContext) Style {
	levels := levelStyles(body, c, ctx, outlineLevel(p))
	rPr := r.Child("a:rPr")
	var theme *Node
	if ctx != nil {
		theme = ctx.Theme
	}

	s := Style{
		Size:      FontSize(r, p, body, c, ctx),
		Family:    FontFamily(r, c.Type, theme),
		Bold:      runFlag("b", r, levels),
		Italic:    runFlag("i", r, levels),
		Underline: rPr.Attr("u") != "" && rPr.Attr("u") != "none",
		Strike:    rPr.Attr("strike") == "sngStrike" || rPr.Attr("strike") == "dblStrike",
	}
	s.Color, s.Gradient = fontColor(r, p, body, c, ctx)
	if spc, ok := parseNumber(rPr.Attr("spc")); ok {
		s.LetterSpacing = spc / 100
	}
	if bl, ok := parseNumber(rPr.Attr("baseline")); ok && bl != 0 {
		s.Baseline = "sub"
		if bl > 0 {
			s.Baseline = "super"
		}
	}
	if sh := shadowOf(rPr.Find("a:effectLst", "a:outerShdw"), newColorResolver(ctx)); sh != nil {
		s.Shadow = sh.textShadow()
	}
	return s
}
