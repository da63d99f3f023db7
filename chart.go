package pptxjson

import "strings"

// Chart types, named after their plot area element.
const (
	ChartBar      = "barChart"
	ChartBar3D    = "bar3DChart"
	ChartLine     = "lineChart"
	ChartLine3D   = "line3DChart"
	ChartArea     = "areaChart"
	ChartArea3D   = "area3DChart"
	ChartPie      = "pieChart"
	ChartPie3D    = "pie3DChart"
	ChartOfPie    = "ofPieChart"
	ChartDoughnut = "doughnutChart"
	ChartScatter  = "scatterChart"
	ChartBubble   = "bubbleChart"
	ChartRadar    = "radarChart"
	ChartStock    = "stockChart"
	ChartSurface  = "surfaceChart"
)

var chartTypes = map[string]bool{
	ChartBar: true, ChartBar3D: true, ChartLine: true, ChartLine3D: true,
	ChartArea: true, ChartArea3D: true, ChartPie: true, ChartPie3D: true,
	ChartOfPie: true, ChartDoughnut: true, ChartScatter: true, ChartBubble: true,
	ChartRadar: true, ChartStock: true, ChartSurface: true,
}

// ChartInfo is the structural description of a chart. Series values are
// not extracted.
type ChartInfo struct {
	Type     string   `json:"chartType"`
	BarDir   string   `json:"barDir,omitempty"`
	Grouping string   `json:"grouping,omitempty"`
	HoleSize float64  `json:"holeSize,omitempty"`
	Marker   bool     `json:"marker,omitempty"`
	Style    string   `json:"style,omitempty"`
	Series   []string `json:"series,omitempty"`
	Colors   []string `json:"colors,omitempty"`
}

// chartInfoOf reads the first recognized chart of a c:plotArea.
func chartInfoOf(plotArea *Node, cr colorResolver) *ChartInfo {
	for _, child := range plotArea.Elements() {
		kind := child.Local()
		if !chartTypes[kind] {
			continue
		}
		info := &ChartInfo{
			Type:     kind,
			BarDir:   child.PathAttr("val", "c:barDir"),
			Grouping: child.PathAttr("val", "c:grouping"),
			Style:    child.PathAttr("val", "c:scatterStyle"),
		}
		if kind == ChartRadar {
			info.Style = child.PathAttr("val", "c:radarStyle")
		}
		if hole, ok := parseNumber(child.PathAttr("val", "c:holeSize")); ok {
			info.HoleSize = hole
		}
		info.Marker, _ = boolAttr(child.PathAttr("val", "c:marker"))
		for _, ser := range child.ChildrenNamed("c:ser") {
			name := ser.Find("c:tx", "c:strRef", "c:strCache", "c:pt", "c:v").Value()
			if name == "" {
				name = ser.Find("c:tx", "c:v").Value()
			}
			info.Series = append(info.Series, strings.TrimSpace(name))
			if c, ok := cr.resolve(ser.Find("c:spPr", "a:solidFill"), ""); ok {
				info.Colors = append(info.Colors, c)
			}
		}
		return info
	}
	return nil
}

// buildChart resolves a graphic frame holding a c:chart reference. The
// reference is looked up in the slide, layout and master relationships.
func (b *builder) buildChart(frame *Node) *Element {
	id := frame.Find("a:graphic", "a:graphicData", "c:chart").Attr("r:id")
	rel, ok := firstDefined(
		func() (Relationship, bool) { r, ok := b.rels[id]; return r, ok },
		func() (Relationship, bool) { r, ok := b.ctx.LayoutRels[id]; return r, ok },
		func() (Relationship, bool) { r, ok := b.ctx.MasterRels[id]; return r, ok },
	)
	if !ok || b.ctx.parts == nil {
		return nil
	}
	doc, err := b.ctx.parts.node(rel.Target)
	if err != nil {
		b.log.Debug("chart/skip", "part", rel.Target, "err", err)
		return nil
	}
	info := chartInfoOf(doc.Find("c:chartSpace", "c:chart", "c:plotArea"), newColorResolver(b.ctx))
	if info == nil {
		return nil
	}
	el := &Element{Type: ElementChart, Chart: info}
	t := resolveTransform(frame.Child("p:xfrm"), nil, nil)
	el.Left, el.Top, el.Width, el.Height = t.Left, t.Top, t.Width, t.Height
	return el
}
