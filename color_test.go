package pptxjson

import (
	"math"
	"testing"
)

func TestParseColor(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"FF0000", "#FF0000", true},
		{"#00ff7f", "#00FF7F", true},
		{"80112233", "#112233", true},
		{"F00", "", false},
		{"GGGGGG", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		c, ok := ParseColor(tt.in)
		if ok != tt.ok {
			t.Errorf("ParseColor(%q) ok = %v, want %v", tt.in, ok, tt.ok)
			continue
		}
		if ok && c.Hex() != tt.want {
			t.Errorf("ParseColor(%q) = %s, want %s", tt.in, c.Hex(), tt.want)
		}
	}
}

func TestApplyShadeKeepsHue(t *testing.T) {
	base, _ := ParseColor("4F81BD")
	shaded, ok := ParseColor(ApplyShade("#4F81BD", 0.5))
	if !ok {
		t.Fatal("ApplyShade returned an invalid color")
	}
	b, s := base.toHSL(), shaded.toHSL()
	if math.Abs(b.H-s.H) > 1.5 {
		t.Errorf("hue moved from %.1f to %.1f", b.H, s.H)
	}
	if math.Abs(s.L-b.L*0.5) > 0.01 {
		t.Errorf("lightness = %.3f, want %.3f", s.L, b.L*0.5)
	}
	if got := ApplyShade("#FFFFFF", 1); got != "#FFFFFF" {
		t.Errorf("shade 1 = %s, want #FFFFFF", got)
	}
	if got := ApplyShade("nope", 0.5); got != "nope" {
		t.Errorf("invalid input should be returned unchanged, got %s", got)
	}
}

func TestSchemeColor(t *testing.T) {
	theme := mustParse(t, testTheme)
	clrMap := colorMapOf(mustParse(t, testMaster))

	tests := []struct {
		key  string
		want string
		ok   bool
	}{
		{"accent1", "#4F81BD", true},
		{"tx1", "#000000", true},
		{"bg1", "#FFFFFF", true},
		{"tx2", "#1F497D", true},
		{"hlink", "#0000FF", true},
		{"phClr", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := SchemeColor(tt.key, theme, clrMap)
		if ok != tt.ok || got != tt.want {
			t.Errorf("SchemeColor(%q) = %q, %v; want %q, %v", tt.key, got, ok, tt.want, tt.ok)
		}
	}

	swapped := map[string]string{"bg1": "dk1", "tx1": "lt1"}
	if got, _ := SchemeColor("bg1", theme, swapped); got != "#000000" {
		t.Errorf("swapped bg1 = %s, want #000000", got)
	}
	if got := len(ThemeColors(theme)); got != 12 {
		t.Errorf("ThemeColors returned %d colors, want 12", got)
	}
}

func TestColorResolver(t *testing.T) {
	ctx := testContext(t, slideXML("", ""))
	cr := newColorResolver(ctx)
	fill := func(xml string) *Node { return mustParse(t, `<a:solidFill `+nsDecl+`>`+xml+`</a:solidFill>`).Root() }

	tests := []struct {
		name  string
		node  *Node
		phClr string
		want  string
	}{
		{"rgb", fill(`<a:srgbClr val="123456"/>`), "", "#123456"},
		{"scheme", fill(`<a:schemeClr val="accent2"/>`), "", "#C0504D"},
		{"placeholder color", fill(`<a:schemeClr val="phClr"/>`), "#00FF00", "#00FF00"},
		{"preset", fill(`<a:prstClr val="black"/>`), "", "#000000"},
		{"system", fill(`<a:sysClr val="window" lastClr="FFFFFF"/>`), "", "#FFFFFF"},
		{"hsl", fill(`<a:hslClr hue="0" sat="100000" lum="50000"/>`), "", "#FF0000"},
		{"scRGB", fill(`<a:scrgbClr r="100000" g="0" b="0"/>`), "", "#FF0000"},
		{"lumMod", fill(`<a:srgbClr val="FFFFFF"><a:lumMod val="50000"/></a:srgbClr>`), "", "#808080"},
		{"tint", fill(`<a:srgbClr val="000000"><a:tint val="50000"/></a:srgbClr>`), "", "#808080"},
	}
	for _, tt := range tests {
		got, ok := cr.resolve(tt.node, tt.phClr)
		if !ok || got != tt.want {
			t.Errorf("%s: resolve = %q, %v; want %q", tt.name, got, ok, tt.want)
		}
	}
	if _, ok := cr.resolve(fill(""), ""); ok {
		t.Error("empty fill should not resolve")
	}
}
