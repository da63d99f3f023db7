package pptxjson

import (
	"strings"
	"testing"
)

func TestScaleSVGPath(t *testing.T) {
	tests := []struct {
		name   string
		d      string
		ws, hs float64
		want   string
	}{
		{"identity", "M 0 0 L 10 10", 1, 1, "M 0 0 L 10 10"},
		{"empty", "", 2, 2, ""},
		{"move and line", "M 0 0 L 10 20 Z", 2, 3, "M 0 0 L 20 60 Z"},
		{"horizontal and vertical", "M1,1H10V10", 2, 3, "M 2 3 H 20 V 30"},
		{"implicit repeat", "M 0 0 L 1 1 2 2", 2, 2, "M 0 0 L 2 2 4 4"},
		{"arc keeps flags", "M 0 5 A 5 5 30 1 0 10 5", 2, 3, "M 0 15 A 10 15 30 1 0 20 15"},
		{"cubic", "C 1 2 3 4 5 6", 10, 100, "C 10 200 30 400 50 600"},
	}
	for _, tt := range tests {
		if got := ScaleSVGPath(tt.d, tt.ws, tt.hs); got != tt.want {
			t.Errorf("%s: got %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestCustomPath(t *testing.T) {
	geom := mustParse(t, `<a:custGeom `+nsDecl+`><a:pathLst>
  <a:path w="100" h="50">
    <a:moveTo><a:pt x="0" y="0"/></a:moveTo>
    <a:lnTo><a:pt x="100" y="0"/></a:lnTo>
    <a:lnTo><a:pt x="100" y="50"/></a:lnTo>
    <a:close/>
  </a:path>
</a:pathLst></a:custGeom>`).Root()

	got := CustomPath(geom, 200, 100)
	want := "M 0 0 L 200 0 L 200 100 Z"
	if got != want {
		t.Errorf("CustomPath = %q, want %q", got, want)
	}
	if CustomPath(nil, 10, 10) != "" {
		t.Error("missing geometry should give an empty path")
	}
}

func TestPresetPath(t *testing.T) {
	if got := PresetPath("rect", 10, 20, nil); got != "M 0 0 L 10 0 L 10 20 L 0 20 Z" {
		t.Errorf("rect = %q", got)
	}
	if got := PresetPath("line", 10, 0, nil); got != "M 0 0 L 10 0" {
		t.Errorf("line = %q", got)
	}
	if got := PresetPath("ellipse", 10, 6, nil); !strings.Contains(got, "A 5 3 0 1 0 10 3") {
		t.Errorf("ellipse = %q", got)
	}
	sp := mustParse(t, `<p:sp `+nsDecl+`><p:spPr><a:prstGeom prst="triangle"><a:avLst><a:gd name="adj" fmla="val 0"/></a:avLst></a:prstGeom></p:spPr></p:sp>`).Root()
	if got := PresetPath("triangle", 10, 10, sp); got != "M 0 0 L 10 10 L 0 10 Z" {
		t.Errorf("adjusted triangle = %q", got)
	}
	if got := PresetPath("noSuchShape", 1, 1, nil); got != "M 0 0 L 1 0 L 1 1 L 0 1 Z" {
		t.Errorf("unknown preset = %q", got)
	}
}
