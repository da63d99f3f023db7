package pptxjson

import (
	"slices"
	"sort"
)

// Element types.
const (
	ElementText    = "text"
	ElementShape   = "shape"
	ElementImage   = "image"
	ElementVideo   = "video"
	ElementAudio   = "audio"
	ElementTable   = "table"
	ElementChart   = "chart"
	ElementDiagram = "diagram"
	ElementGroup   = "group"
	ElementMath    = "math"
)

// Element is one render-ready item of a slide. Positions and sizes are in
// points; children of groups and diagrams are relative to their parent.
// Which variant fields are set depends on Type.
type Element struct {
	Type   string  `json:"type"`
	Name   string  `json:"name,omitempty"`
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Rotate float64 `json:"rotate"`

	IsFlipH bool `json:"isFlipH"`
	IsFlipV bool `json:"isFlipV"`
	Order   int  `json:"order"`

	PlaceholderType string `json:"placeholderType,omitempty"`
	PlaceholderIdx  string `json:"placeholderIdx,omitempty"`

	// text and shape
	Fill *Fill `json:"fill,omitempty"`
	// Border fields are inlined as borderColor, borderWidth ...
	*Border
	Shadow     *Shadow  `json:"shadow,omitempty"`
	Content    string   `json:"content,omitempty"`
	VAlign     string   `json:"vAlign,omitempty"`
	IsVertical bool     `json:"isVertical,omitempty"`
	AutoFit    *AutoFit `json:"autoFit,omitempty"`
	ShapeType  string   `json:"shapType,omitempty"`
	Path       string   `json:"path,omitempty"`

	// image, video, audio and math fallback pictures
	Src    string     `json:"src,omitempty"`
	Media  *MediaInfo `json:"media,omitempty"`
	Rect   *CropRect  `json:"rect,omitempty"`
	Geom   string     `json:"geom,omitempty"`
	IsLink bool       `json:"isLink,omitempty"`

	// table
	Cells        [][]TableCell `json:"data,omitempty"`
	RowHeights   []float64     `json:"rowHeights,omitempty"`
	ColWidths    []float64     `json:"colWidths,omitempty"`
	TableBorders *CellBorders  `json:"borders,omitempty"`

	// chart
	Chart *ChartInfo `json:"chart,omitempty"`

	// math
	Text string `json:"text,omitempty"`

	// group and diagram
	Elements []*Element `json:"elements,omitempty"`
}

// CropRect is a picture crop in percent of each edge.
type CropRect struct {
	Top    float64 `json:"t,omitempty"`
	Bottom float64 `json:"b,omitempty"`
	Left   float64 `json:"l,omitempty"`
	Right  float64 `json:"r,omitempty"`
}

// isContainer reports whether el holds child elements.
func (el *Element) isContainer() bool {
	return el.Type == ElementGroup || el.Type == ElementDiagram
}

// clone returns a deep copy of el's element tree. Variant data that is
// never rewritten after building (fills, shadows, media) is shared.
func (el *Element) clone() *Element {
	if el == nil {
		return nil
	}
	out := *el
	if el.Border != nil {
		b := *el.Border
		out.Border = &b
	}
	out.ColWidths = slices.Clone(el.ColWidths)
	out.RowHeights = slices.Clone(el.RowHeights)
	if el.Cells != nil {
		out.Cells = make([][]TableCell, len(el.Cells))
		for i, row := range el.Cells {
			out.Cells[i] = slices.Clone(row)
		}
	}
	if el.Elements != nil {
		out.Elements = make([]*Element, len(el.Elements))
		for i, child := range el.Elements {
			out.Elements[i] = child.clone()
		}
	}
	return &out
}

// sortByOrder sorts elements by their document order, keeping the relative
// position of equal orders.
func sortByOrder(elements []*Element) {
	sort.SliceStable(elements, func(i, j int) bool {
		return elements[i].Order < elements[j].Order
	})
}

// renumberOrder assigns consecutive orders to siblings, recursively.
func renumberOrder(elements []*Element) {
	for i, el := range elements {
		el.Order = i
		if el.Elements != nil {
			renumberOrder(el.Elements)
		}
	}
}

// Flatten returns leaf elements with absolute slide coordinates. Group and
// diagram offsets are added to their children; group rotation is not
// applied to descendants.
func Flatten(elements []*Element) []*Element {
	var out []*Element
	var walk func(list []*Element, dx, dy float64)
	walk = func(list []*Element, dx, dy float64) {
		for _, el := range list {
			if el.isContainer() {
				walk(el.Elements, dx+el.Left, dy+el.Top)
				continue
			}
			leaf := el.clone()
			leaf.Left = numberToFixed(leaf.Left + dx)
			leaf.Top = numberToFixed(leaf.Top + dy)
			out = append(out, leaf)
		}
	}
	walk(elements, 0, 0)
	return out
}
