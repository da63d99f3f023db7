package pptxjson

import (
	"fmt"
	"math"
	"strings"
)

// Color is an opaque sRGB color.
type Color struct {
	R, G, B uint8
}

// Predefined colors.
var (
	ColorBlack = Color{0x00, 0x00, 0x00}
	ColorWhite = Color{0xFF, 0xFF, 0xFF}
)

// ParseColor parses a 6-character RGB hex string. A leading "#" is stripped.
func ParseColor(hex string) (Color, bool) {
	hex = strings.TrimPrefix(strings.TrimSpace(hex), "#")
	if len(hex) == 8 {
		hex = hex[2:] // ARGB
	}
	if len(hex) != 6 {
		return Color{}, false
	}
	var out [3]uint8
	for i := range out {
		h, l := hexVal(hex[2*i]), hexVal(hex[2*i+1])
		if h < 0 || l < 0 {
			return Color{}, false
		}
		out[i] = uint8(h<<4 | l)
	}
	return Color{out[0], out[1], out[2]}, true
}

func hexVal(c byte) int {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0')
	case c >= 'A' && c <= 'F':
		return int(c-'A') + 10
	case c >= 'a' && c <= 'f':
		return int(c-'a') + 10
	default:
		return -1
	}
}

// Hex returns the color as "#RRGGBB".
func (c Color) Hex() string {
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}

// hsl is a color in hue/saturation/lightness space. H is in degrees, S and L in [0,1].
type hsl struct {
	H, S, L float64
}

func (c Color) toHSL() hsl {
	r, g, b := float64(c.R)/255, float64(c.G)/255, float64(c.B)/255
	maxC := math.Max(r, math.Max(g, b))
	minC := math.Min(r, math.Min(g, b))
	l := (maxC + minC) / 2
	if maxC == minC {
		return hsl{0, 0, l}
	}
	d := maxC - minC
	var s float64
	if l > 0.5 {
		s = d / (2 - maxC - minC)
	} else {
		s = d / (maxC + minC)
	}
	var h float64
	switch maxC {
	case r:
		h = (g - b) / d
		if g < b {
			h += 6
		}
	case g:
		h = (b-r)/d + 2
	default:
		h = (r-g)/d + 4
	}
	return hsl{h * 60, s, l}
}

func (v hsl) toColor() Color {
	l := clamp01(v.L)
	s := clamp01(v.S)
	if s == 0 {
		c := uint8(math.Round(l * 255))
		return Color{c, c, c}
	}
	var q float64
	if l < 0.5 {
		q = l * (1 + s)
	} else {
		q = l + s - l*s
	}
	p := 2*l - q
	h := math.Mod(v.H, 360) / 360
	if h < 0 {
		h++
	}
	channel := func(t float64) uint8 {
		if t < 0 {
			t++
		}
		if t > 1 {
			t--
		}
		var x float64
		switch {
		case t < 1.0/6:
			x = p + (q-p)*6*t
		case t < 0.5:
			x = q
		case t < 2.0/3:
			x = p + (q-p)*(2.0/3-t)*6
		default:
			x = p
		}
		return uint8(math.Round(clamp01(x) * 255))
	}
	return Color{channel(h + 1.0/3), channel(h), channel(h - 1.0/3)}
}

func clamp01(v float64) float64 {
	switch {
	case math.IsNaN(v), v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}

// ApplyShade scales the HSL lightness of hex by shade (0.5 halves it) and
// returns "#RRGGBB". Hue and saturation are kept. Invalid input is returned unchanged.
func ApplyShade(hex string, shade float64) string {
	c, ok := ParseColor(hex)
	if !ok || math.IsNaN(shade) || math.IsInf(shade, 0) {
		return hex
	}
	v := c.toHSL()
	v.L *= shade
	return v.toColor().Hex()
}

// defaultColorMap is used when a master carries no p:clrMap.
var defaultColorMap = map[string]string{
	"bg1": "lt1", "tx1": "dk1", "bg2": "lt2", "tx2": "dk2",
}

// colorMapOf reads the attribute map of a master's p:clrMap.
func colorMapOf(master *Node) map[string]string {
	clrMap := master.Root().Child("p:clrMap")
	if clrMap == nil || len(clrMap.Attrs) == 0 {
		return defaultColorMap
	}
	return clrMap.Attrs
}

// SchemeColor resolves a scheme color key ("accent1", "tx1", ...) against
// the theme's color scheme, following clrMap for the bg/tx aliases. It
// returns "#RRGGBB".
func SchemeColor(key string, theme *Node, clrMap map[string]string) (string, bool) {
	key = strings.TrimPrefix(key, "a:")
	if key == "" {
		return "", false
	}
	if clrMap == nil {
		clrMap = defaultColorMap
	}
	if mapped, ok := clrMap[key]; ok && mapped != "" {
		key = mapped
	}
	slot := theme.Root().Find("a:themeElements", "a:clrScheme", "a:"+key)
	if slot == nil {
		return "", false
	}
	if v := slot.PathAttr("val", "a:srgbClr"); v != "" {
		if c, ok := ParseColor(v); ok {
			return c.Hex(), true
		}
	}
	if v := slot.PathAttr("lastClr", "a:sysClr"); v != "" {
		if c, ok := ParseColor(v); ok {
			return c.Hex(), true
		}
	}
	return "", false
}

// ThemeColors lists the colors of the theme's color scheme in document order.
func ThemeColors(theme *Node) []string {
	var out []string
	for _, slot := range theme.Root().Find("a:themeElements", "a:clrScheme").Elements() {
		v := firstNonEmpty(slot.PathAttr("val", "a:srgbClr"), slot.PathAttr("lastClr", "a:sysClr"))
		if c, ok := ParseColor(v); ok {
			out = append(out, c.Hex())
		}
	}
	return out
}

// colorResolver resolves DrawingML color choices within one slide.
type colorResolver struct {
	theme  *Node
	clrMap map[string]string
}

func newColorResolver(ctx *SlideContext) colorResolver {
	if ctx == nil {
		return colorResolver{}
	}
	return colorResolver{theme: ctx.Theme, clrMap: ctx.ColorMap}
}

// colorChoiceNames are the DrawingML elements that carry a color.
var colorChoiceNames = []string{"a:srgbClr", "a:schemeClr", "a:scrgbClr", "a:prstClr", "a:hslClr", "a:sysClr"}

// colorChoice returns the color element held by n (a:solidFill, a:fontRef, a:gs ...).
func colorChoice(n *Node) *Node {
	for _, name := range colorChoiceNames {
		if c := n.Child(name); c != nil {
			return c
		}
	}
	return nil
}

// resolve returns the color held by n as "#RRGGBB". phClr substitutes for
// the placeholder color used inside theme style lists.
func (r colorResolver) resolve(n *Node, phClr string) (string, bool) {
	choice := colorChoice(n)
	if choice == nil {
		return "", false
	}
	var base Color
	var ok bool
	switch choice.Name {
	case "a:srgbClr":
		base, ok = ParseColor(choice.Attr("val"))
	case "a:schemeClr":
		val := choice.Attr("val")
		if val == "phClr" {
			base, ok = ParseColor(phClr)
			break
		}
		var hex string
		if hex, ok = SchemeColor(val, r.theme, r.clrMap); ok {
			base, ok = ParseColor(hex)
		}
	case "a:scrgbClr":
		base, ok = scRGB(choice)
	case "a:prstClr":
		base, ok = presetColors[choice.Attr("val")]
	case "a:hslClr":
		hue, hok := parseNumber(choice.Attr("hue"))
		sat, sok := percentAttr(choice.Attr("sat"))
		lum, lok := percentAttr(choice.Attr("lum"))
		if hok && sok && lok {
			base, ok = hsl{hue / angleUnit, sat, lum}.toColor(), true
		}
	case "a:sysClr":
		base, ok = ParseColor(choice.Attr("lastClr"))
		if !ok && choice.Attr("val") == "window" {
			base, ok = ColorWhite, true
		} else if !ok && choice.Attr("val") == "windowText" {
			base, ok = ColorBlack, true
		}
	}
	if !ok {
		return "", false
	}
	return applyTransforms(base, choice).Hex(), true
}

// scRGB converts a linear scRGB color with percentage channels.
func scRGB(n *Node) (Color, bool) {
	var ch [3]uint8
	for i, attr := range []string{"r", "g", "b"} {
		v, ok := percentAttr(n.Attr(attr))
		if !ok {
			return Color{}, false
		}
		v = clamp01(v)
		if v <= 0.0031308 {
			v *= 12.92
		} else {
			v = 1.055*math.Pow(v, 1/2.4) - 0.055
		}
		ch[i] = uint8(math.Round(clamp01(v) * 255))
	}
	return Color{ch[0], ch[1], ch[2]}, true
}

// applyTransforms applies the lightness and saturation modifiers listed
// under a color element, in document order. Alpha is ignored.
func applyTransforms(c Color, choice *Node) Color {
	mods := choice.Elements()
	if len(mods) == 0 {
		return c
	}
	v := c.toHSL()
	for _, m := range mods {
		val, ok := percentAttr(m.Attr("val"))
		if !ok {
			continue
		}
		switch m.Name {
		case "a:lumMod":
			v.L *= val
		case "a:lumOff":
			v.L += val
		case "a:shade":
			v.L *= val
		case "a:tint":
			v.L = v.L*val + (1 - val)
		case "a:satMod":
			v.S *= val
		case "a:satOff":
			v.S += val
		case "a:hueOff":
			v.H += angleToDegrees(m.Attr("val"))
		}
		v.L = clamp01(v.L)
		v.S = clamp01(v.S)
	}
	return v.toColor()
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// presetColors holds the DrawingML preset color names in common use.
var presetColors = map[string]Color{
	"black":     {0x00, 0x00, 0x00},
	"white":     {0xFF, 0xFF, 0xFF},
	"red":       {0xFF, 0x00, 0x00},
	"green":     {0x00, 0x80, 0x00},
	"lime":      {0x00, 0xFF, 0x00},
	"blue":      {0x00, 0x00, 0xFF},
	"yellow":    {0xFF, 0xFF, 0x00},
	"cyan":      {0x00, 0xFF, 0xFF},
	"aqua":      {0x00, 0xFF, 0xFF},
	"magenta":   {0xFF, 0x00, 0xFF},
	"fuchsia":   {0xFF, 0x00, 0xFF},
	"gray":      {0x80, 0x80, 0x80},
	"grey":      {0x80, 0x80, 0x80},
	"silver":    {0xC0, 0xC0, 0xC0},
	"maroon":    {0x80, 0x00, 0x00},
	"navy":      {0x00, 0x00, 0x80},
	"olive":     {0x80, 0x80, 0x00},
	"purple":    {0x80, 0x00, 0x80},
	"teal":      {0x00, 0x80, 0x80},
	"orange":    {0xFF, 0xA5, 0x00},
	"pink":      {0xFF, 0xC0, 0xCB},
	"brown":     {0xA5, 0x2A, 0x2A},
	"gold":      {0xFF, 0xD7, 0x00},
	"indigo":    {0x4B, 0x00, 0x82},
	"violet":    {0xEE, 0x82, 0xEE},
	"coral":     {0xFF, 0x7F, 0x50},
	"crimson":   {0xDC, 0x14, 0x3C},
	"khaki":     {0xF0, 0xE6, 0x8C},
	"salmon":    {0xFA, 0x80, 0x72},
	"tan":       {0xD2, 0xB4, 0x8C},
	"beige":     {0xF5, 0xF5, 0xDC},
	"ivory":     {0xFF, 0xFF, 0xF0},
	"lavender":  {0xE6, 0xE6, 0xFA},
	"ltGray":    {0xD3, 0xD3, 0xD3},
	"dkGray":    {0xA9, 0xA9, 0xA9},
	"dkBlue":    {0x00, 0x00, 0x8B},
	"dkRed":     {0x8B, 0x00, 0x00},
	"dkGreen":   {0x00, 0x64, 0x00},
	"ltBlue":    {0xAD, 0xD8, 0xE6},
	"ltGreen":   {0x90, 0xEE, 0x90},
	"ltYellow":  {0xFF, 0xFF, 0xE0},
	"skyBlue":   {0x87, 0xCE, 0xEB},
	"steelBlue": {0x46, 0x82, 0xB4},
	"tomato":    {0xFF, 0x63, 0x47},
	"turquoise": {0x40, 0xE0, 0xD0},
	"wheat":     {0xF5, 0xDE, 0xB3},
}
