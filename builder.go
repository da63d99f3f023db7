package pptxjson

import (
	"log/slog"
	"regexp"
	"sort"
	"strings"
)

// Graphic frame payload URIs.
const (
	uriTable   = "http://schemas.openxmlformats.org/drawingml/2006/table"
	uriChart   = "http://schemas.openxmlformats.org/drawingml/2006/chart"
	uriDiagram = "http://schemas.openxmlformats.org/drawingml/2006/diagram"
	uriOLE     = "http://schemas.openxmlformats.org/presentationml/2006/ole"
)

var (
	headerFooterName   = regexp.MustCompile(`(?i)\b(Footer Text|Header Text|Slide Number|Date)\b|页脚|页眉|页码|日期`)
	diagramDrawingPath = regexp.MustCompile(`(?i)/diagrams/drawing`)
)

// isHeaderFooterName reports whether a shape name marks a header or footer.
func isHeaderFooterName(name string) bool {
	return name != "" && headerFooterName.MatchString(name)
}

// nodeName returns the cNvPr name of any drawing node.
func nodeName(node *Node) string {
	for _, nv := range []string{"p:nvSpPr", "p:nvPicPr", "p:nvGraphicFramePr", "p:nvGrpSpPr", "p:nvCxnSpPr"} {
		if n := node.Child(nv); n != nil {
			return n.PathAttr("name", "p:cNvPr")
		}
	}
	return ""
}

// builder turns the drawing nodes of one part into elements. Structural
// errors are collected and the offending element is dropped.
type builder struct {
	ctx  *SlideContext
	src  source
	rels Relationships
	log  *slog.Logger

	errs          *[]error
	diagramCursor *int
}

func newBuilder(ctx *SlideContext, src source) *builder {
	if ctx.opts == nil {
		ctx.opts = newOptions(nil)
	}
	logger := ctx.opts.Logger.With("slide", ctx.SlideNo, "source", src.String())
	return &builder{
		ctx:           ctx,
		src:           src,
		rels:          ctx.rels(src),
		log:           logger,
		errs:          new([]error),
		diagramCursor: new(int),
	}
}

// fork returns a builder for another part of the same slide that shares
// the error list and diagram cursor.
func (b *builder) fork(src source, rels Relationships) *builder {
	return &builder{
		ctx:           b.ctx,
		src:           src,
		rels:          rels,
		log:           b.ctx.opts.Logger.With("slide", b.ctx.SlideNo, "source", src.String()),
		errs:          b.errs,
		diagramCursor: b.diagramCursor,
	}
}

func (b *builder) fail(node *Node, err error) {
	name := firstNonEmpty(nodeName(node), node.Name)
	b.log.Debug("element/drop", "name", name, "err", err)
	*b.errs = append(*b.errs, &GeometryError{Element: name, Err: err})
}

// cascade resolves the inheritance chain of a shape built from b's part.
func (b *builder) cascade(node *Node) Cascade {
	c := newCascade(node, b.ctx)
	if c.Type == "" {
		c.Type = "obj"
		if b.src == sourceDiagram {
			c.Type = "diagram"
		}
	}
	return c
}

// buildChildren builds every drawing child of a shape tree or group, in
// document order.
func (b *builder) buildChildren(container *Node, groups []*Node, visited map[*Node]bool) []*Element {
	var out []*Element
	for _, child := range container.Elements() {
		if child.Name == "p:nvGrpSpPr" || child.Name == "p:grpSpPr" {
			continue
		}
		if el := b.buildNode(child, groups, visited); el != nil {
			out = append(out, el)
		}
	}
	return out
}

// buildNode dispatches on the drawing node kind.
func (b *builder) buildNode(node *Node, groups []*Node, visited map[*Node]bool) *Element {
	if b.ctx.opts.FilterHeaderFooter {
		if isHeaderFooterType(IdentityOf(node).Type) || isHeaderFooterName(nodeName(node)) {
			return nil
		}
	}
	switch node.Name {
	case "p:sp":
		return b.buildShape(node, groups, b.cascade(node))
	case "p:cxnSp":
		return b.buildShape(node, groups, Cascade{Node: node})
	case "p:pic":
		return b.buildPicture(node, groups)
	case "p:graphicFrame":
		return b.buildGraphicFrame(node, groups, visited)
	case "p:grpSp":
		return b.buildGroup(node, groups, visited)
	case "mc:AlternateContent":
		return b.buildAlternate(node, groups, visited)
	}
	return nil
}

// buildAlternate resolves mc:AlternateContent: a fallback group wins, math
// content becomes a math element, anything else uses the fallback.
func (b *builder) buildAlternate(node *Node, groups []*Node, visited map[*Node]bool) *Element {
	fallback := node.Child("mc:Fallback")
	if fallback != nil {
		target := firstNode(fallback.Child("p:grpSp"), fallback)
		if groupXfrm(target) != nil {
			el := b.buildGroup(target, groups, visited)
			if el != nil {
				el.Order = node.Order
			}
			return el
		}
	}
	choice := node.Child("mc:Choice")
	if choice == nil {
		return nil
	}
	if hasMath(choice) {
		return b.buildMath(node)
	}
	for _, child := range fallback.Elements() {
		if el := b.buildNode(child, groups, visited); el != nil {
			el.Order = node.Order
			return el
		}
	}
	return nil
}

// hasMath reports whether an mc:Choice holds Office math.
func hasMath(choice *Node) bool {
	for _, p := range choice.Find("p:sp", "p:txBody").ChildrenNamed("a:p") {
		if p.Has("a14:m") {
			return true
		}
	}
	return false
}

// mathText collects the m:t runs of an Office math tree in document order.
func mathText(n *Node, b *strings.Builder) {
	for _, child := range n.Elements() {
		if child.Name == "m:t" {
			b.WriteString(child.Text)
			continue
		}
		mathText(child, b)
	}
}

// buildMath builds a math element from the text of the choice branch and
// the fallback picture.
func (b *builder) buildMath(node *Node) *Element {
	choice, fallback := node.Child("mc:Choice"), node.Child("mc:Fallback")
	sp := choice.Child("p:sp")
	el := &Element{Type: ElementMath, Name: nodeName(sp), Order: node.Order}
	t := resolveTransform(sp.Find("p:spPr", "a:xfrm"), nil, nil)
	el.Left, el.Top, el.Width, el.Height = t.Left, t.Top, t.Width, t.Height

	var text strings.Builder
	for _, p := range sp.Find("p:txBody").ChildrenNamed("a:p") {
		if text.Len() > 0 {
			text.WriteByte('\n')
		}
		mathText(p, &text)
	}
	el.Text = text.String()
	if blip := fallback.Find("p:sp", "p:spPr", "a:blipFill", "a:blip"); blip != nil {
		el.Src = b.blipSource(b.rels)(blip)
	}
	return el
}

// buildGroup builds a group and normalizes its children into its space.
func (b *builder) buildGroup(node *Node, groups []*Node, visited map[*Node]bool) *Element {
	xfrm := groupXfrm(node)
	if xfrm == nil {
		return nil
	}
	if visited[node] {
		b.fail(node, ErrCyclicGroup)
		return nil
	}
	if len(groups) >= maxGroupDepth {
		b.fail(node, ErrGroupTooDeep)
		return nil
	}
	g := GroupTransformOf(xfrm)
	if err := g.validate(); err != nil {
		b.fail(node, err)
		return nil
	}

	visited[node] = true
	defer delete(visited, node)

	name := nodeName(node)
	hierarchy := append(groups[:len(groups):len(groups)], node)
	children := b.buildChildren(node, hierarchy, visited)
	sortByOrder(children)

	el, plan := normalizeGroup(g, children)
	b.log.Debug("group/bbox",
		"name", name, "order", node.Order, "children", len(children),
		"hasBBox", plan.HasBBox, "loose", plan.Loose, "eps", plan.Eps,
		"errToSlide", plan.ErrToSlide, "errToChild", plan.ErrToChild,
		"absolute", plan.Absolute,
	)
	b.log.Debug("group/normalize",
		"name", name, "order", node.Order,
		"baseX", plan.BaseX, "baseY", plan.BaseY,
		"scaleX", plan.ScaleX, "scaleY", plan.ScaleY,
		"left", plan.Left, "top", plan.Top, "width", plan.Width, "height", plan.Height,
	)
	el.Name = name
	el.Order = node.Order
	return el
}

// buildShape builds a p:sp or p:cxnSp as a shape or text element.
func (b *builder) buildShape(node *Node, groups []*Node, c Cascade) *Element {
	const xfrmPath = "a:xfrm"
	t := resolveTransform(
		node.Find("p:spPr", xfrmPath),
		c.Layout.Find("p:spPr", xfrmPath),
		c.Master.Find("p:spPr", xfrmPath),
	)
	textRotate := t.Rotate
	if rot := node.PathAttr("rot", "p:txXfrm"); rot != "" {
		textRotate += angleToDegrees(rot)
	}

	id := IdentityOf(node)
	border := BorderOf(node, groups, b.ctx)
	fill := shapeFill(c, groups, b.ctx, b.blipSource(b.rels))
	prst := node.PathAttr("prst", "p:spPr", "a:prstGeom")
	if prst == "arc" {
		fill = nil
	}
	if prst == "line" {
		minSize := max(1, border.Width)
		if t.Width == 0 {
			t.Width = minSize
		}
		if t.Height == 0 {
			t.Height = minSize
		}
	}

	el := &Element{
		Name:            nodeName(node),
		Order:           node.Order,
		PlaceholderType: id.Type,
		PlaceholderIdx:  id.Idx,
		Fill:            fill,
		Border:          &border,
		Shadow:          shadowOf(node.Find("p:spPr", "a:effectLst", "a:outerShdw"), newColorResolver(b.ctx)),
		Content:         generateTextBody(node.Child("p:txBody"), c, b.ctx, b.rels),
		VAlign:          VerticalAlign(c),
		AutoFit:         TextAutoFit(c),
	}
	t.apply(el)
	validText := hasValidText(el.Content)

	if cust := node.Find("p:spPr", "a:custGeom"); cust != nil && c.Type != "diagram" {
		el.Type, el.ShapeType = ElementShape, "custom"
		el.Path = CustomPath(cust, el.Width, el.Height)
		if !validText {
			el.Content = ""
		}
		return el
	}
	if prst != "" && (c.Type == "obj" || c.Type == "" || prst != "rect") {
		el.Type, el.ShapeType = ElementShape, prst
		el.Path = PresetPath(prst, el.Width, el.Height, node)
		if !validText {
			el.Content = ""
		}
		return el
	}
	if prst != "" && !validText && (fill != nil || border.Width > 0) {
		el.Type, el.ShapeType = ElementShape, prst
		el.Path = PresetPath(prst, el.Width, el.Height, node)
		el.Content = ""
		return el
	}

	el.Type = ElementText
	el.IsVertical = node.PathAttr("vert", "p:txBody", "a:bodyPr") == "eaVert"
	el.IsFlipH, el.IsFlipV = false, false
	el.Rotate = textRotate
	return el
}

// idxXfrm returns the xfrm of the placeholder with index idx.
func idxXfrm(ix *PlaceholderIndex, idx string) *Node {
	if ix == nil || idx == "" {
		return nil
	}
	return ix.Idx[idx].Find("p:spPr", "a:xfrm")
}

// buildPicture builds a p:pic as an image, video or audio element.
func (b *builder) buildPicture(node *Node, groups []*Node) *Element {
	id := IdentityOf(node)
	layoutXfrm := idxXfrm(b.ctx.LayoutIndex, id.Idx)
	masterXfrm := idxXfrm(b.ctx.MasterIndex, id.Idx)
	own := firstNode(node.Find("p:spPr", "a:xfrm"), layoutXfrm, masterXfrm)

	el := &Element{
		Name:            nodeName(node),
		Order:           node.Order,
		PlaceholderType: id.Type,
		PlaceholderIdx:  id.Idx,
	}
	resolveTransform(own, layoutXfrm, masterXfrm).apply(el)

	nvPr := node.Find("p:nvPicPr", "p:nvPr")
	if video := nvPr.Child("a:videoFile"); video != nil {
		el.Type = ElementVideo
		el.IsFlipH, el.IsFlipV = false, false
		rel := b.rels[video.Attr("r:link")]
		switch ext := fileExt(rel.Target); {
		case rel.External || isURL(rel.Target):
			el.Src, el.IsLink = rel.Target, true
		case ext == "mp4" || ext == "webm" || ext == "ogg":
			el.Src, el.Media = b.loadMedia(rel.Target)
		}
		return el
	}
	if audio := nvPr.Child("a:audioFile"); audio != nil {
		el.Type = ElementAudio
		el.IsFlipH, el.IsFlipV = false, false
		rel := b.rels[audio.Attr("r:link")]
		switch ext := fileExt(rel.Target); ext {
		case "mp3", "wav", "ogg":
			if rel.External {
				el.Src, el.IsLink = rel.Target, true
			} else {
				el.Src, el.Media = b.loadMedia(rel.Target)
			}
		}
		return el
	}

	el.Type = ElementImage
	blip := node.Find("p:blipFill", "a:blip")
	if rel, ok := b.rels[blip.Attr("r:embed")]; ok && !rel.External {
		el.Src, el.Media = b.loadMedia(rel.Target)
	} else if rel, ok := b.rels[blip.Attr("r:link")]; ok {
		el.Src, el.IsLink = rel.Target, true
	}
	if el.Src == "" {
		b.log.Debug("picture/skip", "name", el.Name)
		return nil
	}

	src := node.Find("p:blipFill", "a:srcRect")
	crop := &CropRect{}
	for _, edge := range []struct {
		attr string
		dst  *float64
	}{{"t", &crop.Top}, {"b", &crop.Bottom}, {"l", &crop.Left}, {"r", &crop.Right}} {
		if v, ok := parseNumber(src.Attr(edge.attr)); ok {
			*edge.dst = v / 1000
		}
	}
	if *crop != (CropRect{}) {
		el.Rect = crop
	}
	el.Geom = firstNonEmpty(node.PathAttr("prst", "p:spPr", "a:prstGeom"), "rect")
	border := BorderOf(node, groups, b.ctx)
	el.Border = &border
	return el
}

// buildGraphicFrame builds tables, charts, diagrams and OLE objects.
func (b *builder) buildGraphicFrame(node *Node, groups []*Node, visited map[*Node]bool) *Element {
	data := node.Find("a:graphic", "a:graphicData")
	var el *Element
	switch data.Attr("uri") {
	case uriTable:
		el = b.buildTable(node)
	case uriChart:
		el = b.buildChart(node)
	case uriDiagram:
		el = b.buildDiagram(node, visited)
	case uriOLE:
		el = b.buildOLE(node, data, groups, visited)
	}
	if el == nil {
		return nil
	}
	el.Name = firstNonEmpty(el.Name, nodeName(node))
	el.Order = node.Order
	if id := IdentityOf(node); !id.IsZero() {
		el.PlaceholderType, el.PlaceholderIdx = id.Type, id.Idx
	}
	return el
}

// buildOLE renders an embedded object through its preview picture, placed
// at the frame's position.
func (b *builder) buildOLE(frame, data *Node, groups []*Node, visited map[*Node]bool) *Element {
	ole := firstNode(data.Find("mc:AlternateContent", "mc:Fallback", "p:oleObj"), data.Child("p:oleObj"))
	if ole == nil {
		return nil
	}
	if ole.Has("p:grpSpPr") {
		return b.buildGroup(ole, groups, visited)
	}
	pic := ole.Child("p:pic")
	if pic == nil {
		return nil
	}
	el := b.buildPicture(pic, groups)
	if el == nil {
		return nil
	}
	if xfrm := frame.Child("p:xfrm"); xfrm != nil {
		t := resolveTransform(xfrm, nil, nil)
		el.Left, el.Top, el.Width, el.Height = t.Left, t.Top, t.Width, t.Height
	}
	return el
}

// diagramPart is a decoded diagram drawing and its relationships.
type diagramPart struct {
	Tree *Node
	Rels Relationships
}

// diagramTarget finds the drawing part of a diagram frame: a relationship
// named by the frame that points at a drawing, else the next unclaimed one.
func (b *builder) diagramTarget(frame *Node) string {
	data := frame.Find("a:graphic", "a:graphicData")
	relIDs := firstNode(data.Child("dgm:relIds"), data.Child("p:relIds"))
	keys := make([]string, 0, len(relIDs.Attrs))
	for k := range relIDs.Attrs {
		if strings.HasPrefix(k, "r:") {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	for _, k := range keys {
		if rel, ok := b.ctx.SlideRels[relIDs.Attrs[k]]; ok && diagramDrawingPath.MatchString(rel.Target) {
			return rel.Target
		}
	}
	cursor := *b.diagramCursor
	*b.diagramCursor = cursor + 1
	if cursor < len(b.ctx.diagramTargets) {
		return b.ctx.diagramTargets[cursor]
	}
	return ""
}

// buildDiagram builds the pre-rendered drawing of a SmartArt frame. Its
// shapes are positioned relative to the frame.
func (b *builder) buildDiagram(frame *Node, visited map[*Node]bool) *Element {
	el := &Element{Type: ElementDiagram}
	t := resolveTransform(frame.Child("p:xfrm"), nil, nil)
	el.Left, el.Top, el.Width, el.Height = t.Left, t.Top, t.Width, t.Height

	part := b.ctx.Diagrams[b.diagramTarget(frame)]
	if part == nil {
		return el
	}
	sub := b.fork(sourceDiagram, part.Rels)
	el.Elements = sub.buildChildren(part.Tree.Root().Find("p:spTree"), nil, visited)
	sortByOrder(el.Elements)
	return el
}
