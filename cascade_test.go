package pptxjson

import "testing"

const titleShape = `<p:sp>
  <p:nvSpPr><p:cNvPr id="2" name="Title 1"/><p:cNvSpPr/><p:nvPr><p:ph type="title"/></p:nvPr></p:nvSpPr>
  <p:spPr/>
  <p:txBody><a:bodyPr/><a:lstStyle/><a:p><a:r><a:rPr lang="en-US"/><a:t>Hello</a:t></a:r></a:p></p:txBody>
</p:sp>`

const bodyShape = `<p:sp>
  <p:nvSpPr><p:cNvPr id="3" name="Content 2"/><p:cNvSpPr/><p:nvPr><p:ph idx="1"/></p:nvPr></p:nvSpPr>
  <p:spPr/>
  <p:txBody><a:bodyPr><a:normAutofit fontScale="92500"/></a:bodyPr><a:lstStyle/>
    <a:p><a:r><a:t>First</a:t></a:r></a:p>
    <a:p><a:pPr lvl="1"/><a:r><a:t>Second</a:t></a:r></a:p>
    <a:p><a:pPr algn="r"/><a:r><a:rPr sz="2000"/><a:t>Third</a:t></a:r></a:p>
  </p:txBody>
</p:sp>`

const textBoxShape = `<p:sp>
  <p:nvSpPr><p:cNvPr id="4" name="TextBox 3"/><p:cNvSpPr txBox="1"/><p:nvPr/></p:nvSpPr>
  <p:spPr><a:xfrm><a:off x="0" y="0"/><a:ext cx="254000" cy="127000"/></a:xfrm><a:prstGeom prst="rect"/></p:spPr>
  <p:txBody><a:bodyPr><a:spAutoFit/></a:bodyPr><a:lstStyle/><a:p><a:r><a:t>Note</a:t></a:r></a:p></p:txBody>
</p:sp>`

func TestNewCascadeMatchesPlaceholders(t *testing.T) {
	ctx := testContext(t, slideXML("", titleShape+bodyShape+textBoxShape))

	tests := []struct {
		shape      int
		wantType   string
		wantLayout bool
		wantMaster bool
	}{
		{0, "title", true, true},
		{1, "body", true, true},
		{2, "text", false, false},
	}
	for _, tt := range tests {
		c := newCascade(shapeNode(t, ctx, tt.shape), ctx)
		if c.Type != tt.wantType {
			t.Errorf("shape %d: type = %q, want %q", tt.shape, c.Type, tt.wantType)
		}
		if (c.Layout != nil) != tt.wantLayout || (c.Master != nil) != tt.wantMaster {
			t.Errorf("shape %d: layout=%v master=%v", tt.shape, c.Layout != nil, c.Master != nil)
		}
	}
}

func TestHorizontalAlignCascade(t *testing.T) {
	ctx := testContext(t, slideXML("", titleShape+bodyShape+textBoxShape))

	title := shapeNode(t, ctx, 0)
	c := newCascade(title, ctx)
	body := title.Child("p:txBody")
	// The layout's lvl1pPr centers the title over the master's left alignment.
	if got := HorizontalAlign(body.Child("a:p"), body, c, ctx); got != AlignCenter {
		t.Errorf("title align = %q, want %q", got, AlignCenter)
	}

	content := shapeNode(t, ctx, 1)
	c = newCascade(content, ctx)
	body = content.Child("p:txBody")
	paras := body.ChildrenNamed("a:p")
	if got := HorizontalAlign(paras[0], body, c, ctx); got != AlignLeft {
		t.Errorf("body align = %q, want %q", got, AlignLeft)
	}
	if got := HorizontalAlign(paras[2], body, c, ctx); got != AlignRight {
		t.Errorf("paragraph algn = %q, want %q", got, AlignRight)
	}

	if got := HorizontalAlign(nil, nil, Cascade{}, nil); got != AlignLeft {
		t.Errorf("empty cascade align = %q, want %q", got, AlignLeft)
	}
}

func TestFontSizeCascade(t *testing.T) {
	ctx := testContext(t, slideXML("", titleShape+bodyShape+textBoxShape))

	size := func(shape, para int) float64 {
		sp := shapeNode(t, ctx, shape)
		body := sp.Child("p:txBody")
		p := body.ChildrenNamed("a:p")[para]
		return FontSize(p.Child("a:r"), p, body, newCascade(sp, ctx), ctx)
	}

	tests := []struct {
		name        string
		shape, para int
		want        float64
	}{
		{"title from master title style", 0, 0, 44},
		{"body level 1", 1, 0, 32},
		{"body level 2", 1, 1, 28},
		{"explicit run size", 1, 2, 20},
		{"text box from other style", 2, 0, 18},
	}
	for _, tt := range tests {
		if got := size(tt.shape, tt.para); got != tt.want {
			t.Errorf("%s: size = %v, want %v", tt.name, got, tt.want)
		}
	}

	if got := FontSize(nil, nil, nil, Cascade{}, nil); got != defaultFontSize {
		t.Errorf("default size = %v, want %v", got, defaultFontSize)
	}
	if got := FontSize(nil, nil, nil, Cascade{Type: PlaceholderSlideNum}, nil); got != headerFooterFontSize {
		t.Errorf("slide number size = %v, want %v", got, headerFooterFontSize)
	}
}

func TestVerticalAlignAndAutoFit(t *testing.T) {
	ctx := testContext(t, slideXML("", titleShape+bodyShape+textBoxShape))

	title := newCascade(shapeNode(t, ctx, 0), ctx)
	if got := VerticalAlign(title); got != AnchorMiddle {
		t.Errorf("title anchor = %q, want %q from the master", got, AnchorMiddle)
	}
	if fit := TextAutoFit(title); fit != nil {
		t.Errorf("title autofit = %+v, want nil", fit)
	}

	content := newCascade(shapeNode(t, ctx, 1), ctx)
	if got := VerticalAlign(content); got != AnchorTop {
		t.Errorf("body anchor = %q, want %q", got, AnchorTop)
	}
	fit := TextAutoFit(content)
	if fit == nil || fit.Type != "text" || fit.FontScale != 92.5 {
		t.Errorf("body autofit = %+v, want text at 92.5", fit)
	}

	box := newCascade(shapeNode(t, ctx, 2), ctx)
	if fit := TextAutoFit(box); fit == nil || fit.Type != "shape" {
		t.Errorf("text box autofit = %+v, want shape", fit)
	}
}

func TestFontFamilyFromTheme(t *testing.T) {
	theme := mustParse(t, testTheme)
	run := func(xml string) *Node { return mustParse(t, `<a:r `+nsDecl+`>`+xml+`</a:r>`).Root() }

	tests := []struct {
		name   string
		run    *Node
		phType string
		want   string
	}{
		{"minor font for body", run(`<a:t>x</a:t>`), "body", "Calibri"},
		{"major font for title", run(`<a:t>x</a:t>`), "title", "Calibri Light"},
		{"east asian face for CJK", run(`<a:t>标题</a:t>`), "title", "SimHei"},
		{"explicit latin face", run(`<a:rPr><a:latin typeface="Georgia"/></a:rPr><a:t>x</a:t>`), "body", "Georgia"},
		{"theme token", run(`<a:rPr><a:latin typeface="+mj-lt"/></a:rPr><a:t>x</a:t>`), "body", "Calibri Light"},
	}
	for _, tt := range tests {
		if got := FontFamily(tt.run, tt.phType, theme); got != tt.want {
			t.Errorf("%s: family = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestBorderOf(t *testing.T) {
	ctx := testContext(t, slideXML("", ""))
	sp := func(xml string) *Node { return mustParse(t, `<p:sp `+nsDecl+`>`+xml+`</p:sp>`).Root() }

	tests := []struct {
		name string
		node *Node
		want Border
	}{
		{
			name: "no line",
			node: sp(`<p:spPr/>`),
			want: Border{Color: "#000000", Width: 0, Type: BorderSolid, StrokeDasharray: "0"},
		},
		{
			name: "explicit dashed line",
			node: sp(`<p:spPr><a:ln w="25400"><a:solidFill><a:srgbClr val="FF0000"/></a:solidFill><a:prstDash val="dash"/></a:ln></p:spPr>`),
			want: Border{Color: "#FF0000", Width: 2, Type: BorderDashed, StrokeDasharray: "5"},
		},
		{
			name: "line turned off",
			node: sp(`<p:spPr><a:ln w="25400"><a:noFill/></a:ln></p:spPr>`),
			want: Border{Color: "#000000", Width: 0, Type: BorderSolid, StrokeDasharray: "0"},
		},
		{
			name: "theme line style",
			node: sp(`<p:spPr/><p:style><a:lnRef idx="2"><a:schemeClr val="accent1"/></a:lnRef></p:style>`),
			want: Border{Color: "#4F81BD", Width: 2, Type: BorderSolid, StrokeDasharray: "0"},
		},
	}
	for _, tt := range tests {
		if got := BorderOf(tt.node, nil, ctx); got != tt.want {
			t.Errorf("%s: border = %+v, want %+v", tt.name, got, tt.want)
		}
	}
}

func TestIsPlaceholderPrompt(t *testing.T) {
	tests := []struct {
		text string
		want bool
	}{
		{"Click to add title", true},
		{"  click   to add text ", true},
		{"Click to edit Master title style", true},
		{"单击此处添加标题", true},
		{"单击此处编辑母版标题样式", true},
		{"Quarterly results", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := isPlaceholderPrompt(tt.text); got != tt.want {
			t.Errorf("isPlaceholderPrompt(%q) = %v, want %v", tt.text, got, tt.want)
		}
	}
}
