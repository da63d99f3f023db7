package pptxjson

// TableCell is one resolved table cell. Text is an HTML fragment.
type TableCell struct {
	Text      string       `json:"text"`
	RowSpan   int          `json:"rowSpan,omitempty"`
	ColSpan   int          `json:"colSpan,omitempty"`
	VMerge    bool         `json:"vMerge,omitempty"`
	HMerge    bool         `json:"hMerge,omitempty"`
	FontBold  bool         `json:"fontBold,omitempty"`
	FontColor string       `json:"fontColor,omitempty"`
	FillColor string       `json:"fillColor,omitempty"`
	Borders   *CellBorders `json:"borders,omitempty"`
}

// CellBorders are the edge lines of a cell or of a whole table.
type CellBorders struct {
	Top    *Border `json:"top,omitempty"`
	Bottom *Border `json:"bottom,omitempty"`
	Left   *Border `json:"left,omitempty"`
	Right  *Border `json:"right,omitempty"`
}

func (b *CellBorders) empty() bool {
	return b == nil || (b.Top == nil && b.Bottom == nil && b.Left == nil && b.Right == nil)
}

// tableFlags are the style options of a:tblPr.
type tableFlags struct {
	firstRow, firstCol bool
	lastRow, lastCol   bool
	bandRow, bandCol   bool
}

func tableFlagsOf(tblPr *Node) tableFlags {
	on := func(attr string) bool {
		v, _ := boolAttr(tblPr.Attr(attr))
		return v
	}
	return tableFlags{
		firstRow: on("firstRow"), firstCol: on("firstCol"),
		lastRow: on("lastRow"), lastCol: on("lastCol"),
		bandRow: on("bandRow"), bandCol: on("bandCol"),
	}
}

// tableStyle finds the a:tblStyle with the given id in tableStyles.xml.
func tableStyle(tableStyles *Node, id string) *Node {
	if id == "" {
		return nil
	}
	for _, s := range tableStyles.Root().ChildrenNamed("a:tblStyle") {
		if s.Attr("styleId") == id {
			return s
		}
	}
	return nil
}

// lineBorder resolves an a:ln element of a table border.
func lineBorder(ln *Node, cr colorResolver) *Border {
	if ln == nil || ln.Has("a:noFill") {
		return nil
	}
	b := &Border{Type: BorderSolid, StrokeDasharray: "0"}
	if w, ok := parseEMU(ln.Attr("w")); ok && w > 0 {
		b.Width = numberToFixed(w)
	} else {
		b.Width = 1
	}
	c, ok := cr.resolve(ln.Child("a:solidFill"), "")
	if !ok {
		c = ColorBlack.Hex()
	}
	b.Color = c
	if preset, ok := dashPresets[ln.PathAttr("val", "a:prstDash")]; ok {
		b.Type, b.StrokeDasharray = preset.kind, preset.dash
	}
	return b
}

// styleBorders reads the a:tcBdr of a table style part.
func styleBorders(tcBdr *Node, cr colorResolver) *CellBorders {
	if tcBdr == nil {
		return nil
	}
	edge := func(name string) *Border {
		e := tcBdr.Child(name)
		if ln := e.Child("a:ln"); ln != nil {
			return lineBorder(ln, cr)
		}
		if ref := e.Child("a:lnRef"); ref != nil {
			if c, ok := cr.resolve(ref, ""); ok {
				return &Border{Color: c, Width: 1, Type: BorderSolid, StrokeDasharray: "0"}
			}
		}
		return nil
	}
	b := &CellBorders{Top: edge("a:top"), Bottom: edge("a:bottom"), Left: edge("a:left"), Right: edge("a:right")}
	if b.empty() {
		return nil
	}
	return b
}

// partFill resolves the fill color of a table style part or tblBg.
func partFill(part *Node, cr colorResolver) string {
	if ref := part.Child("a:fillRef"); ref != nil {
		c, _ := cr.resolve(ref, "")
		return c
	}
	c, _ := cr.resolve(part.Find("a:tcStyle", "a:fill", "a:solidFill"), "")
	return c
}

// partFont reads bold and color from a style part's a:tcTxStyle.
func partFont(part *Node, cr colorResolver) (bool, string) {
	tx := part.Child("a:tcTxStyle")
	bold, _ := boolAttr(tx.Attr("b"))
	color, _ := cr.resolve(tx, "")
	return bold, color
}

// rowPart picks the table style part that applies to row i of n.
func rowPart(style *Node, f tableFlags, i, n int) *Node {
	switch {
	case f.firstRow && i == 0:
		return style.Child("a:firstRow")
	case f.lastRow && i == n-1:
		return style.Child("a:lastRow")
	case f.bandRow:
		band := i
		if f.firstRow {
			band--
		}
		if band%2 == 0 {
			return style.Child("a:band1H")
		}
		return style.Child("a:band2H")
	}
	return nil
}

// cellPartName picks the table style part for cell (i, j) of a table with
// rows x cols cells. Corner parts win over first/last column parts.
func cellPartName(style *Node, f tableFlags, i, j, rows, cols int) string {
	var name string
	switch {
	case j == 0 && f.firstCol:
		name = "a:firstCol"
		if f.lastRow && i == rows-1 && style.Has("a:seCell") {
			name = "a:seCell"
		} else if f.firstRow && i == 0 && style.Has("a:neCell") {
			name = "a:neCell"
		}
	case j > 0 && f.bandCol && !(f.firstCol && i == 0) && !(f.lastRow && i == rows-1) && j != cols-1:
		if j%2 != 0 && (style.Has("a:band2V") || style.Has("a:band1V")) {
			name = "a:band2V"
		}
	}
	if j == cols-1 && f.lastCol {
		name = "a:lastCol"
		if f.lastRow && i == rows-1 && style.Has("a:swCell") {
			name = "a:swCell"
		} else if f.firstRow && i == 0 && style.Has("a:nwCell") {
			name = "a:nwCell"
		}
	}
	return name
}

// cellBorders reads the explicit edge lines of a:tcPr.
func cellBorders(tcPr *Node, cr colorResolver) *CellBorders {
	b := &CellBorders{
		Top:    lineBorder(tcPr.Child("a:lnT"), cr),
		Bottom: lineBorder(tcPr.Child("a:lnB"), cr),
		Left:   lineBorder(tcPr.Child("a:lnL"), cr),
		Right:  lineBorder(tcPr.Child("a:lnR"), cr),
	}
	if b.empty() {
		return nil
	}
	return b
}

// buildTable resolves a graphic frame holding an a:tbl.
func (b *builder) buildTable(frame *Node) *Element {
	tbl := frame.Find("a:graphic", "a:graphicData", "a:tbl")
	cr := newColorResolver(b.ctx)
	el := &Element{Type: ElementTable}
	t := resolveTransform(frame.Child("p:xfrm"), nil, nil)
	el.Left, el.Top, el.Width, el.Height = t.Left, t.Top, t.Width, t.Height

	for _, col := range tbl.Find("a:tblGrid").ChildrenNamed("a:gridCol") {
		w, _ := parseEMU(col.Attr("w"))
		el.ColWidths = append(el.ColWidths, numberToFixed(w))
	}

	tblPr := tbl.Child("a:tblPr")
	flags := tableFlagsOf(tblPr)
	style := tableStyle(b.ctx.TableStyles, tblPr.Child("a:tableStyleId").Value())
	el.TableBorders = styleBorders(style.Find("a:wholeTbl", "a:tcStyle", "a:tcBdr"), cr)

	bg := partFill(style.Child("a:tblBg"), cr)
	if bg == "" {
		bg = partFill(style.Child("a:wholeTbl"), cr)
	}

	rows := tbl.ChildrenNamed("a:tr")
	for i, tr := range rows {
		h, _ := parseEMU(tr.Attr("h"))
		el.RowHeights = append(el.RowHeights, numberToFixed(h))

		rp := rowPart(style, flags, i, len(rows))
		rowFill := partFill(rp, cr)
		rowBold, rowColor := partFont(rp, cr)

		cells := tr.ChildrenNamed("a:tc")
		row := make([]TableCell, 0, len(cells))
		for j, tc := range cells {
			tcPr := tc.Child("a:tcPr")
			cell := TableCell{
				Text: generateTextBody(tc.Child("a:txBody"), Cascade{Node: tc}, b.ctx, b.rels),
			}
			cell.RowSpan, _ = tc.IntAttr("rowSpan")
			cell.ColSpan, _ = tc.IntAttr("gridSpan")
			cell.VMerge, _ = boolAttr(tc.Attr("vMerge"))
			cell.HMerge, _ = boolAttr(tc.Attr("hMerge"))

			var partBold bool
			var partColor, partBg string
			if name := cellPartName(style, flags, i, j, len(rows), len(cells)); name != "" {
				part := style.Child(name)
				partBold, partColor = partFont(part, cr)
				partBg = partFill(part, cr)
			}
			ownFill, _ := cr.resolve(tcPr.Child("a:solidFill"), "")

			cell.FontBold = partBold || rowBold
			cell.FontColor = firstNonEmpty(partColor, rowColor)
			cell.FillColor = firstNonEmpty(ownFill, partBg, rowFill, bg)
			cell.Borders = cellBorders(tcPr, cr)
			row = append(row, cell)
		}
		el.Cells = append(el.Cells, row)
	}
	return el
}
