package pptxjson

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"
	"time"
)

// tinyPNG encodes a 2x1 picture.
func tinyPNG(t *testing.T) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 2, 1))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.String()
}

const (
	agendaTitle = `<p:sp>
  <p:nvSpPr><p:cNvPr id="2" name="Title 1"/><p:cNvSpPr/><p:nvPr><p:ph type="title"/></p:nvPr></p:nvSpPr>
  <p:spPr/>
  <p:txBody><a:bodyPr/><a:lstStyle/><a:p><a:r><a:rPr lang="en-US"/><a:t>Agenda</a:t></a:r></a:p></p:txBody>
</p:sp>`
	agendaBody = `<p:sp>
  <p:nvSpPr><p:cNvPr id="3" name="Content Placeholder 2"/><p:cNvSpPr/><p:nvPr><p:ph idx="1"/></p:nvPr></p:nvSpPr>
  <p:spPr/>
  <p:txBody><a:bodyPr/><a:lstStyle/><a:p><a:r><a:t>Intro</a:t></a:r></a:p></p:txBody>
</p:sp>`
	redBox = `<p:sp>
  <p:nvSpPr><p:cNvPr id="4" name="Rectangle 3"/><p:cNvSpPr/><p:nvPr/></p:nvSpPr>
  <p:spPr><a:xfrm><a:off x="127000" y="127000"/><a:ext cx="635000" cy="635000"/></a:xfrm><a:prstGeom prst="rect"/><a:solidFill><a:srgbClr val="FF0000"/></a:solidFill></p:spPr>
</p:sp>`
	picture = `<p:pic>
  <p:nvPicPr><p:cNvPr id="5" name="Picture 4"/><p:cNvPicPr/><p:nvPr/></p:nvPicPr>
  <p:blipFill><a:blip r:embed="rId2"/><a:srcRect l="10000"/></p:blipFill>
  <p:spPr><a:xfrm><a:off x="0" y="0"/><a:ext cx="254000" cy="127000"/></a:xfrm><a:prstGeom prst="ellipse"/></p:spPr>
</p:pic>`
	pageNumber = `<p:sp>
  <p:nvSpPr><p:cNvPr id="6" name="TextBox 5"/><p:cNvSpPr txBox="1"/><p:nvPr/></p:nvSpPr>
  <p:spPr><a:xfrm><a:off x="8382000" y="6400800"/><a:ext cx="508000" cy="254000"/></a:xfrm><a:prstGeom prst="rect"/></p:spPr>
  <p:txBody><a:bodyPr/><a:lstStyle/><a:p><a:r><a:t>12</a:t></a:r></a:p></p:txBody>
</p:sp>`
	groupOfTwo = `<p:grpSp>
  <p:nvGrpSpPr><p:cNvPr id="10" name="Group 9"/><p:cNvGrpSpPr/><p:nvPr/></p:nvGrpSpPr>
  <p:grpSpPr><a:xfrm><a:off x="1270000" y="1270000"/><a:ext cx="2540000" cy="1270000"/><a:chOff x="0" y="0"/><a:chExt cx="1270000" cy="635000"/></a:xfrm></p:grpSpPr>
  <p:sp><p:nvSpPr><p:cNvPr id="11" name="A"/><p:cNvSpPr/><p:nvPr/></p:nvSpPr>
    <p:spPr><a:xfrm><a:off x="0" y="0"/><a:ext cx="635000" cy="635000"/></a:xfrm><a:prstGeom prst="rect"/></p:spPr></p:sp>
  <p:sp><p:nvSpPr><p:cNvPr id="12" name="B"/><p:cNvSpPr/><p:nvPr/></p:nvSpPr>
    <p:spPr><a:xfrm><a:off x="635000" y="0"/><a:ext cx="635000" cy="635000"/></a:xfrm><a:prstGeom prst="ellipse"/></p:spPr></p:sp>
</p:grpSp>`
	speakerNotes = `<p:notes ` + nsDecl + `><p:cSld><p:spTree>
  <p:sp><p:txBody><a:bodyPr/><a:p><a:r><a:t>Speaker notes here</a:t></a:r></a:p></p:txBody></p:sp>
</p:spTree></p:cSld></p:notes>`
)

// agendaPackage holds two slides. The second slide file is listed first.
func agendaPackage(t *testing.T) *zip.Reader {
	t.Helper()
	slide1 := slideXML("", agendaTitle+agendaBody+redBox+picture+pageNumber)
	slide2 := strings.Replace(
		slideXML(`showMasterSp="0"`, groupOfTwo),
		"<p:cSld>", `<p:cSld><p:bg><p:bgPr><a:solidFill><a:srgbClr val="112233"/></a:solidFill></p:bgPr></p:bg>`, 1)
	slide2 = strings.Replace(slide2, "</p:sld>", `<p:hdrFtr ftr="0"/></p:sld>`, 1)

	return testPackage(t, []string{slide1, slide2}, map[string]string{
		"ppt/slides/_rels/slide1.xml.rels": relsXML(
			[3]string{"rId1", relSlideLayout, "../slideLayouts/slideLayout1.xml"},
			[3]string{"rId2", "/image", "../media/image1.png"},
			[3]string{"rId3", relNotesSlide, "../notesSlides/notesSlide1.xml"},
		),
		"ppt/media/image1.png":            tinyPNG(t),
		"ppt/notesSlides/notesSlide1.xml": speakerNotes,
	})
}

func decodeAgenda(t *testing.T, opts ...Option) *Presentation {
	t.Helper()
	pres, err := Decode(context.Background(), agendaPackage(t), opts...)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if len(pres.Slides) != 2 {
		t.Fatalf("got %d slides, want 2", len(pres.Slides))
	}
	return pres
}

func elementTypes(elements []*Element) []string {
	var out []string
	for _, el := range elements {
		out = append(out, el.Type)
	}
	return out
}

func TestDecodePresentation(t *testing.T) {
	pres := decodeAgenda(t, WithConcurrency(2))

	if pres.Size != (SlideSize{Width: 720, Height: 540, Name: LayoutScreen4x3}) {
		t.Errorf("size = %+v", pres.Size)
	}
	if len(pres.ThemeColors) != 12 || pres.ThemeColors[4] != "#4F81BD" {
		t.Errorf("theme colors = %v", pres.ThemeColors)
	}
	if pres.Properties == nil || pres.Properties.Title != "Quarterly Review" || pres.Properties.Creator != "Ada" {
		t.Errorf("properties = %+v", pres.Properties)
	}
	if want := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC); !pres.Properties.Modified.Equal(want) {
		t.Errorf("modified = %v, want %v", pres.Properties.Modified, want)
	}

	// sldIdLst order wins over file names.
	first, second := pres.Slides[0], pres.Slides[1]
	if first.Part != "ppt/slides/slide2.xml" || first.Number != 1 {
		t.Errorf("first slide = %s #%d", first.Part, first.Number)
	}
	if second.Part != "ppt/slides/slide1.xml" || second.Number != 2 {
		t.Errorf("second slide = %s #%d", second.Part, second.Number)
	}
	if err := pres.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
	if errs := pres.Errors(); len(errs) != 0 {
		t.Errorf("unexpected dropped elements: %v", errs)
	}
}

func TestDecodeSlideElements(t *testing.T) {
	pres := decodeAgenda(t)
	s := pres.Slides[1]

	// The page number text box near the bottom edge is filtered out.
	got := strings.Join(elementTypes(s.Elements), ",")
	if want := "text,text,shape,image"; got != want {
		t.Fatalf("element types = %s, want %s", got, want)
	}
	for i, el := range s.Elements {
		if el.Order != i {
			t.Errorf("element %d has order %d", i, el.Order)
		}
	}

	title := s.Elements[0]
	if title.PlaceholderType != PlaceholderTitle || title.VAlign != AnchorMiddle {
		t.Errorf("title = %+v", title)
	}
	// Master txStyles size, layout alignment and the tx1 scheme color.
	for _, want := range []string{"text-align: center;", "color: #000000;font-size: 44pt;font-family: Calibri Light;", "Agenda"} {
		if !strings.Contains(title.Content, want) {
			t.Errorf("title content %q lacks %q", title.Content, want)
		}
	}
	// The master's placeholder position is inherited.
	if title.Left != 36 || title.Width != 648 {
		t.Errorf("title geometry = (%v, %v)", title.Left, title.Width)
	}

	body := s.Elements[1]
	if !strings.Contains(body.Content, "<ul") || !strings.Contains(body.Content, "•") {
		t.Errorf("body should be a bullet list from the master body style: %s", body.Content)
	}

	box := s.Elements[2]
	if box.ShapeType != "rect" || box.Fill == nil || box.Fill.Color != "#FF0000" || box.Left != 10 || box.Width != 50 {
		t.Errorf("box = %+v fill %+v", box, box.Fill)
	}

	pic := s.Elements[3]
	if !strings.HasPrefix(pic.Src, "data:image/png;base64,") {
		t.Errorf("picture src = %.40s", pic.Src)
	}
	if pic.Media == nil || pic.Media.PixelWidth != 2 || pic.Media.PixelHeight != 1 {
		t.Errorf("media = %+v", pic.Media)
	}
	if pic.Geom != "ellipse" || pic.Rect == nil || pic.Rect.Left != 10 {
		t.Errorf("geom = %q rect = %+v", pic.Geom, pic.Rect)
	}

	if s.Note != "Speaker notes here" {
		t.Errorf("note = %q", s.Note)
	}
	if s.Fill == nil || s.Fill.Color != "#FAFAFA" {
		t.Errorf("background = %+v, want the master's #FAFAFA", s.Fill)
	}

	// Only the master's decoration is inherited; overridden placeholders
	// and the filtered footer are not.
	if len(s.LayoutElements) != 1 {
		t.Fatalf("layout elements = %v", elementTypes(s.LayoutElements))
	}
	logo := s.LayoutElements[0]
	if logo.Name != "Logo" || logo.Fill == nil || logo.Fill.Color != "#4F81BD" {
		t.Errorf("logo = %+v", logo)
	}
}

func TestDecodeGroupAndBackground(t *testing.T) {
	pres := decodeAgenda(t)
	s := pres.Slides[0]

	if s.Fill == nil || s.Fill.Type != FillColor || s.Fill.Color != "#112233" {
		t.Errorf("background = %+v", s.Fill)
	}
	if len(s.LayoutElements) != 0 {
		t.Errorf("master shapes are hidden, got %v", elementTypes(s.LayoutElements))
	}
	if len(s.Elements) != 1 || s.Elements[0].Type != ElementGroup {
		t.Fatalf("elements = %v", elementTypes(s.Elements))
	}
	g := s.Elements[0]
	if g.Left != 100 || g.Top != 100 || g.Width != 200 || g.Height != 100 || g.Name != "Group 9" {
		t.Errorf("group = %+v", g)
	}
	a, b := g.Elements[0], g.Elements[1]
	if a.Left != 0 || a.Width != 100 || a.Height != 100 || a.Order != 0 {
		t.Errorf("first child = %+v", a)
	}
	if b.Left != 100 || b.ShapeType != "ellipse" || b.Order != 1 {
		t.Errorf("second child = %+v", b)
	}

	flat := Flatten(s.Elements)
	if len(flat) != 2 || flat[1].Left != 200 || flat[1].Top != 100 {
		t.Errorf("flattened = %+v", flat)
	}
}

func TestDecodeWithoutHeaderFooterFilter(t *testing.T) {
	pres := decodeAgenda(t, WithHeaderFooterFilter(false), WithEmbedMedia(false))

	s := pres.Slides[1]
	if got := len(s.Elements); got != 5 {
		t.Errorf("got %d elements, want the page number kept", got)
	}
	if pic := s.Elements[3]; pic.Src != "ppt/media/image1.png" {
		t.Errorf("picture src = %q, want the part path", pic.Src)
	}

	var footer *Element
	for _, el := range s.LayoutElements {
		if el.PlaceholderType == PlaceholderFooter {
			footer = el
		}
	}
	if footer == nil || !strings.Contains(footer.Content, "Confidential") {
		t.Errorf("enabled layout footer should be inherited: %v", elementTypes(s.LayoutElements))
	}

	// The second package slide turns its footer off.
	if got := len(pres.Slides[0].LayoutElements); got != 0 {
		t.Errorf("disabled footer inherited: %d layout elements", got)
	}
}

func TestDecodeJSONShape(t *testing.T) {
	pres := decodeAgenda(t)
	data, err := json.Marshal(pres)
	if err != nil {
		t.Fatal(err)
	}
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatal(err)
	}
	slides := raw["slides"].([]any)
	el := slides[1].(map[string]any)["elements"].([]any)[2].(map[string]any)
	for _, key := range []string{"type", "left", "top", "width", "height", "rotate", "order", "borderColor", "borderWidth", "borderType", "borderStrokeDasharray", "shapType"} {
		if _, ok := el[key]; !ok {
			t.Errorf("shape JSON lacks %q: %v", key, el)
		}
	}
	if _, ok := slides[0].(map[string]any)["Errors"]; ok {
		t.Error("decode errors must not be serialized")
	}
}

func TestDecodeSlidesByContentType(t *testing.T) {
	types := `<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">` +
		`<Override PartName="/ppt/slides/slide10.xml" ContentType="` + slideContentType + `"/>` +
		`<Override PartName="/ppt/slides/slide2.xml" ContentType="` + slideContentType + `"/>` +
		`</Types>`
	zr := zipFiles(t, map[string]string{
		"ppt/presentation.xml":   `<p:presentation ` + nsDecl + `><p:sldSz cx="12192000" cy="6858000"/></p:presentation>`,
		"[Content_Types].xml":    types,
		"ppt/slides/slide2.xml":  slideXML("", redBox),
		"ppt/slides/slide10.xml": slideXML("", ""),
	})
	pres, err := Decode(context.Background(), zr)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if pres.Size.Name != LayoutScreen16x9 {
		t.Errorf("size = %+v, want 16:9", pres.Size)
	}
	if len(pres.Slides) != 2 || pres.Slides[0].Part != "ppt/slides/slide2.xml" || pres.Slides[1].Part != "ppt/slides/slide10.xml" {
		t.Fatalf("slides out of order: %+v", pres.Slides)
	}
	// Without layout, master or theme the background is white.
	if f := pres.Slides[1].Fill; f == nil || f.Color != "#FFFFFF" {
		t.Errorf("default background = %+v", f)
	}
}

func TestDecodeErrors(t *testing.T) {
	zr := zipFiles(t, map[string]string{"word/document.xml": "<w:document/>"})
	if _, err := Decode(context.Background(), zr); !errors.Is(err, ErrNotPresentation) {
		t.Errorf("err = %v, want ErrNotPresentation", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Decode(ctx, agendaPackage(t)); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}

	if _, err := Decode(context.Background(), agendaPackage(t), WithMaxPartSize(64)); !errors.Is(err, ErrPartTooLarge) {
		t.Errorf("err = %v, want ErrPartTooLarge", err)
	}

	if _, err := ReadFrom(bytes.NewReader(nil), 0); err == nil {
		t.Error("zero size should fail")
	}
	if _, err := ReadFrom(strings.NewReader("not a zip"), 9); err == nil {
		t.Error("non-zip input should fail")
	}
}
