package pptxjson

import (
	"archive/zip"
	"bytes"
	"fmt"
	"sort"
	"strings"
	"testing"
)

const nsDecl = `xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main" ` +
	`xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships" ` +
	`xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main"`

const relNS = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"

// testTheme has an Office-like color scheme, Calibri fonts and three line
// styles.
const testTheme = `<a:theme ` + nsDecl + ` name="Test">
<a:themeElements>
  <a:clrScheme name="Test">
    <a:dk1><a:sysClr val="windowText" lastClr="000000"/></a:dk1>
    <a:lt1><a:sysClr val="window" lastClr="FFFFFF"/></a:lt1>
    <a:dk2><a:srgbClr val="1F497D"/></a:dk2>
    <a:lt2><a:srgbClr val="EEECE1"/></a:lt2>
    <a:accent1><a:srgbClr val="4F81BD"/></a:accent1>
    <a:accent2><a:srgbClr val="C0504D"/></a:accent2>
    <a:accent3><a:srgbClr val="9BBB59"/></a:accent3>
    <a:accent4><a:srgbClr val="8064A2"/></a:accent4>
    <a:accent5><a:srgbClr val="4BACC6"/></a:accent5>
    <a:accent6><a:srgbClr val="F79646"/></a:accent6>
    <a:hlink><a:srgbClr val="0000FF"/></a:hlink>
    <a:folHlink><a:srgbClr val="800080"/></a:folHlink>
  </a:clrScheme>
  <a:fontScheme name="Test">
    <a:majorFont><a:latin typeface="Calibri Light"/><a:ea typeface="SimHei"/><a:cs typeface=""/></a:majorFont>
    <a:minorFont><a:latin typeface="Calibri"/><a:ea typeface="SimSun"/><a:cs typeface=""/></a:minorFont>
  </a:fontScheme>
  <a:fmtScheme name="Test">
    <a:fillStyleLst>
      <a:solidFill><a:schemeClr val="phClr"/></a:solidFill>
      <a:solidFill><a:schemeClr val="phClr"><a:shade val="50000"/></a:schemeClr></a:solidFill>
      <a:solidFill><a:srgbClr val="00FF00"/></a:solidFill>
    </a:fillStyleLst>
    <a:lnStyleLst>
      <a:ln w="9525"><a:solidFill><a:schemeClr val="phClr"/></a:solidFill><a:prstDash val="solid"/></a:ln>
      <a:ln w="25400"><a:solidFill><a:schemeClr val="phClr"/></a:solidFill><a:prstDash val="solid"/></a:ln>
      <a:ln w="38100"><a:solidFill><a:schemeClr val="phClr"/></a:solidFill><a:prstDash val="dash"/></a:ln>
    </a:lnStyleLst>
    <a:bgFillStyleLst>
      <a:solidFill><a:schemeClr val="phClr"/></a:solidFill>
    </a:bgFillStyleLst>
  </a:fmtScheme>
</a:themeElements>
</a:theme>`

// testMaster defines title/body/other text styles and title and body
// placeholders.
const testMaster = `<p:sldMaster ` + nsDecl + `>
<p:cSld>
  <p:bg><p:bgPr><a:solidFill><a:srgbClr val="FAFAFA"/></a:solidFill></p:bgPr></p:bg>
  <p:spTree>
    <p:nvGrpSpPr><p:cNvPr id="1" name=""/><p:cNvGrpSpPr/><p:nvPr/></p:nvGrpSpPr>
    <p:grpSpPr/>
    <p:sp>
      <p:nvSpPr><p:cNvPr id="2" name="Title Placeholder 1"/><p:cNvSpPr/><p:nvPr><p:ph type="title"/></p:nvPr></p:nvSpPr>
      <p:spPr><a:xfrm><a:off x="457200" y="274638"/><a:ext cx="8229600" cy="1143000"/></a:xfrm></p:spPr>
      <p:txBody><a:bodyPr anchor="ctr"/><a:lstStyle/><a:p><a:r><a:t>Click to edit Master title style</a:t></a:r></a:p></p:txBody>
    </p:sp>
    <p:sp>
      <p:nvSpPr><p:cNvPr id="3" name="Text Placeholder 2"/><p:cNvSpPr/><p:nvPr><p:ph type="body" idx="1"/></p:nvPr></p:nvSpPr>
      <p:spPr><a:xfrm><a:off x="457200" y="1600200"/><a:ext cx="8229600" cy="4525963"/></a:xfrm></p:spPr>
      <p:txBody><a:bodyPr/><a:lstStyle/><a:p><a:r><a:t>Click to edit Master text styles</a:t></a:r></a:p></p:txBody>
    </p:sp>
    <p:sp>
      <p:nvSpPr><p:cNvPr id="4" name="Logo"/><p:cNvSpPr/><p:nvPr/></p:nvSpPr>
      <p:spPr><a:xfrm><a:off x="0" y="0"/><a:ext cx="127000" cy="127000"/></a:xfrm><a:prstGeom prst="rect"/><a:solidFill><a:schemeClr val="accent1"/></a:solidFill></p:spPr>
    </p:sp>
  </p:spTree>
</p:cSld>
<p:clrMap bg1="lt1" tx1="dk1" bg2="lt2" tx2="dk2" accent1="accent1" accent2="accent2" accent3="accent3" accent4="accent4" accent5="accent5" accent6="accent6" hlink="hlink" folHlink="folHlink"/>
<p:txStyles>
  <p:titleStyle>
    <a:lvl1pPr algn="l"><a:defRPr sz="4400"><a:solidFill><a:schemeClr val="tx1"/></a:solidFill></a:defRPr></a:lvl1pPr>
  </p:titleStyle>
  <p:bodyStyle>
    <a:lvl1pPr><a:buFont typeface="Arial"/><a:buChar char="•"/><a:defRPr sz="3200"/></a:lvl1pPr>
    <a:lvl2pPr><a:buFont typeface="Arial"/><a:buChar char="–"/><a:defRPr sz="2800"/></a:lvl2pPr>
  </p:bodyStyle>
  <p:otherStyle>
    <a:lvl1pPr><a:defRPr sz="1800"/></a:lvl1pPr>
  </p:otherStyle>
</p:txStyles>
</p:sldMaster>`

// testLayout centers its title and keeps the master's body placeholder.
const testLayout = `<p:sldLayout ` + nsDecl + `>
<p:cSld>
  <p:spTree>
    <p:nvGrpSpPr><p:cNvPr id="1" name=""/><p:cNvGrpSpPr/><p:nvPr/></p:nvGrpSpPr>
    <p:grpSpPr/>
    <p:sp>
      <p:nvSpPr><p:cNvPr id="2" name="Title 1"/><p:cNvSpPr/><p:nvPr><p:ph type="title"/></p:nvPr></p:nvSpPr>
      <p:spPr/>
      <p:txBody><a:bodyPr/><a:lstStyle><a:lvl1pPr algn="ctr"/></a:lstStyle><a:p><a:r><a:t>Click to edit Master title style</a:t></a:r></a:p></p:txBody>
    </p:sp>
    <p:sp>
      <p:nvSpPr><p:cNvPr id="3" name="Content Placeholder 2"/><p:cNvSpPr/><p:nvPr><p:ph idx="1"/></p:nvPr></p:nvSpPr>
      <p:spPr/>
      <p:txBody><a:bodyPr/><a:lstStyle/><a:p><a:r><a:t>Click to edit Master text styles</a:t></a:r></a:p></p:txBody>
    </p:sp>
    <p:sp>
      <p:nvSpPr><p:cNvPr id="4" name="Footer Placeholder 3"/><p:cNvSpPr/><p:nvPr><p:ph type="ftr" sz="quarter" idx="11"/></p:nvPr></p:nvSpPr>
      <p:spPr><a:xfrm><a:off x="3124200" y="6356350"/><a:ext cx="2895600" cy="365125"/></a:xfrm></p:spPr>
      <p:txBody><a:bodyPr/><a:lstStyle/><a:p><a:r><a:t>Confidential</a:t></a:r></a:p></p:txBody>
    </p:sp>
  </p:spTree>
</p:cSld>
</p:sldLayout>`

const testCoreProperties = `<cp:coreProperties xmlns:cp="http://schemas.openxmlformats.org/package/2006/metadata/core-properties" ` +
	`xmlns:dc="http://purl.org/dc/elements/1.1/" xmlns:dcterms="http://purl.org/dc/terms/">` +
	`<dc:title>Quarterly Review</dc:title><dc:creator>Ada</dc:creator>` +
	`<dcterms:modified>2024-03-01T10:00:00Z</dcterms:modified></cp:coreProperties>`

// slideXML wraps shape tree children into a slide part.
func slideXML(attrs, shapes string) string {
	return `<p:sld ` + nsDecl + ` ` + attrs + `><p:cSld><p:spTree>` +
		`<p:nvGrpSpPr><p:cNvPr id="1" name=""/><p:cNvGrpSpPr/><p:nvPr/></p:nvGrpSpPr><p:grpSpPr/>` +
		shapes + `</p:spTree></p:cSld></p:sld>`
}

// relsXML renders a relationship part; each entry is id, type suffix, target.
func relsXML(entries ...[3]string) string {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>`)
	b.WriteString(`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">`)
	for _, e := range entries {
		typ := relNS + e[1]
		mode := ""
		if strings.HasPrefix(e[2], "http") {
			mode = ` TargetMode="External"`
		}
		fmt.Fprintf(&b, `<Relationship Id="%s" Type="%s" Target="%s"%s/>`, e[0], typ, e[2], mode)
	}
	b.WriteString(`</Relationships>`)
	return b.String()
}

// testContext builds a slide context over the test layout, master and theme
// without a package.
func testContext(t *testing.T, slide string) *SlideContext {
	t.Helper()
	layout := mustParse(t, testLayout)
	master := mustParse(t, testMaster)
	ctx := &SlideContext{
		Slide:            mustParse(t, slide),
		Layout:           layout,
		Master:           master,
		Theme:            mustParse(t, testTheme),
		LayoutIndex:      IndexPlaceholders(layout),
		MasterIndex:      IndexPlaceholders(master),
		MasterTextStyles: master.Root().Child("p:txStyles"),
		HeaderFooter:     HeaderFooter{Date: true, Footer: true, Header: true, SlideNumber: true},
		ColorMap:         colorMapOf(master),
		SlideNo:          1,
		opts:             newOptions(nil),
	}
	return ctx
}

// shapeNode returns the n-th p:sp of a context's slide.
func shapeNode(t *testing.T, ctx *SlideContext, n int) *Node {
	t.Helper()
	shapes := ctx.Slide.Root().Find("p:cSld", "p:spTree").ChildrenNamed("p:sp")
	if n >= len(shapes) {
		t.Fatalf("slide has %d shapes, want index %d", len(shapes), n)
	}
	return shapes[n]
}

// testPackage assembles an in-memory .pptx from slide parts. Each slide
// uses the test layout; extra holds additional parts by name.
func testPackage(t *testing.T, slides []string, extra map[string]string) *zip.Reader {
	t.Helper()
	files := map[string]string{
		"ppt/theme/theme1.xml":                         testTheme,
		"ppt/slideMasters/slideMaster1.xml":            testMaster,
		"ppt/slideMasters/_rels/slideMaster1.xml.rels": relsXML([3]string{"rId1", relTheme, "../theme/theme1.xml"}, [3]string{"rId2", relSlideLayout, "../slideLayouts/slideLayout1.xml"}),
		"ppt/slideLayouts/slideLayout1.xml":            testLayout,
		"ppt/slideLayouts/_rels/slideLayout1.xml.rels": relsXML([3]string{"rId1", relSlideMaster, "../slideMasters/slideMaster1.xml"}),
		"docProps/core.xml":                            testCoreProperties,
	}
	presRels := [][3]string{
		{"rId1", relSlideMaster, "slideMasters/slideMaster1.xml"},
		{"rId2", relTheme, "theme/theme1.xml"},
	}
	var sldIDs strings.Builder
	// Slides are listed in reverse file order to check that sldIdLst wins.
	for i := range slides {
		n := len(slides) - i
		id := fmt.Sprintf("rId%d", 10+n)
		fmt.Fprintf(&sldIDs, `<p:sldId id="%d" r:id="%s"/>`, 255+n, id)
		presRels = append(presRels, [3]string{id, relSlide, fmt.Sprintf("slides/slide%d.xml", n)})
	}
	for i, s := range slides {
		name := fmt.Sprintf("ppt/slides/slide%d.xml", i+1)
		files[name] = s
		if _, ok := extra[relsPath(name)]; !ok {
			files[relsPath(name)] = relsXML([3]string{"rId1", relSlideLayout, "../slideLayouts/slideLayout1.xml"})
		}
	}
	files["ppt/presentation.xml"] = `<p:presentation ` + nsDecl + `>` +
		`<p:sldMasterIdLst><p:sldMasterId id="2147483648" r:id="rId1"/></p:sldMasterIdLst>` +
		`<p:sldIdLst>` + sldIDs.String() + `</p:sldIdLst>` +
		`<p:sldSz cx="9144000" cy="6858000" type="screen4x3"/>` +
		`<p:defaultTextStyle><a:defPPr><a:defRPr lang="en-US"/></a:defPPr></p:defaultTextStyle>` +
		`</p:presentation>`
	files["ppt/_rels/presentation.xml.rels"] = relsXML(presRels...)
	for name, data := range extra {
		files[name] = data
	}
	return zipFiles(t, files)
}

// zipFiles writes files into an in-memory zip archive.
func zipFiles(t *testing.T, files map[string]string) *zip.Reader {
	t.Helper()
	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	sort.Strings(names)

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, name := range names {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("zip create %s: %v", name, err)
		}
		if _, err := w.Write([]byte(files[name])); err != nil {
			t.Fatalf("zip write %s: %v", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("zip close: %v", err)
	}
	zr, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	if err != nil {
		t.Fatalf("zip open: %v", err)
	}
	return zr
}
