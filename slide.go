package pptxjson

import (
	"fmt"
	"regexp"
	"strings"
)

// Slide is one decoded slide. Elements are the slide's own shapes;
// LayoutElements are the shapes it inherits from its layout and master.
type Slide struct {
	Number         int        `json:"number"`
	Part           string     `json:"part"`
	Fill           *Fill      `json:"fill"`
	Elements       []*Element `json:"elements"`
	LayoutElements []*Element `json:"layoutElements"`
	Note           string     `json:"note"`
	// Errors lists the elements dropped as structurally invalid.
	Errors []error `json:"-"`
}

var (
	footerNumber = regexp.MustCompile(`^[0-9]{1,3}$`)
	footerDate   = regexp.MustCompile(`^\d{4}[-/]\d{1,2}[-/]\d{1,2}$|年\d{1,2}月\d{1,2}日$`)
	footerWord   = regexp.MustCompile(`页码|日期`)
)

// isFooterLikeText reports whether a text element near the bottom edge of
// the slide only shows a page number or a date.
func isFooterLikeText(el *Element, slideHeight float64) bool {
	if el.Type != ElementText || slideHeight <= 0 {
		return false
	}
	if el.Top <= slideHeight*0.78 || el.Height >= slideHeight*0.2 {
		return false
	}
	text := strings.TrimSpace(plainText(el.Content))
	if text == "" {
		return false
	}
	return footerNumber.MatchString(text) || footerDate.MatchString(text) || footerWord.MatchString(text)
}

// filterElements removes header/footer leftovers and placeholder prompts.
// Containers left empty are removed as well.
func filterElements(elements []*Element, slideHeight float64, headerFooter bool) []*Element {
	out := make([]*Element, 0, len(elements))
	for _, el := range elements {
		if headerFooter && (isHeaderFooterName(el.Name) || isFooterLikeText(el, slideHeight)) {
			continue
		}
		if el.Type == ElementText && isPlaceholderPrompt(plainText(el.Content)) {
			continue
		}
		if el.Elements != nil {
			children := filterElements(el.Elements, slideHeight, headerFooter)
			if len(children) == 0 {
				continue
			}
			el.Elements = children
		}
		out = append(out, el)
	}
	return out
}

// noteText joins the run text of a notes slide.
func noteText(notes *Node) string {
	var b strings.Builder
	for _, sp := range notes.Root().Find("p:cSld", "p:spTree").ChildrenNamed("p:sp") {
		for _, p := range sp.Find("p:txBody").ChildrenNamed("a:p") {
			for _, r := range p.ChildrenNamed("a:r") {
				b.WriteString(r.Child("a:t").Value())
			}
		}
	}
	return b.String()
}

// slideContext loads the layout, master, theme, notes and diagram parts a
// slide refers to.
func (d *decoder) slideContext(part string, no int) (*SlideContext, string, error) {
	pr := d.parts
	slide, err := pr.decode(part, nil)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read slide %s: %w", part, err)
	}
	ctx := &SlideContext{
		Slide:            slide,
		DefaultTextStyle: d.defaultTextStyle,
		HeaderFooter:     d.headerFooter,
		TableStyles:      d.tableStyles,
		Theme:            d.theme,
		ThemeRels:        d.themeRels,
		Diagrams:         map[string]*diagramPart{},
		SlideNo:          no,
		parts:            pr,
		opts:             d.opts,
	}
	if ctx.SlideRels, err = pr.rels(part); err != nil {
		return nil, "", err
	}

	if rel, ok := ctx.SlideRels.firstOfType(relSlideLayout); ok {
		if ctx.Layout, err = pr.node(rel.Target); err != nil {
			return nil, "", fmt.Errorf("failed to read layout %s: %w", rel.Target, err)
		}
		if ctx.LayoutRels, err = pr.rels(rel.Target); err != nil {
			return nil, "", err
		}
	}
	if rel, ok := ctx.LayoutRels.firstOfType(relSlideMaster); ok {
		if ctx.Master, err = pr.node(rel.Target); err != nil {
			return nil, "", fmt.Errorf("failed to read master %s: %w", rel.Target, err)
		}
		if ctx.MasterRels, err = pr.rels(rel.Target); err != nil {
			return nil, "", err
		}
	}
	if rel, ok := ctx.MasterRels.firstOfType(relTheme); ok {
		if theme, err := pr.node(rel.Target); err == nil {
			ctx.Theme = theme
			ctx.ThemeRels, _ = pr.rels(rel.Target)
		}
	}
	ctx.LayoutIndex = IndexPlaceholders(ctx.Layout)
	ctx.MasterIndex = IndexPlaceholders(ctx.Master)
	ctx.MasterTextStyles = ctx.Master.Root().Child("p:txStyles")
	ctx.ColorMap = colorMapOf(ctx.Master)

	for _, rel := range ctx.SlideRels.ofType(relDiagramDraw) {
		tree, err := pr.decode(rel.Target, map[string]string{"dsp": "p"})
		if err != nil {
			d.opts.Logger.Debug("diagram/skip", "slide", no, "part", rel.Target, "err", err)
			continue
		}
		rels, _ := pr.rels(rel.Target)
		ctx.Diagrams[rel.Target] = &diagramPart{Tree: tree, Rels: rels}
		ctx.diagramTargets = append(ctx.diagramTargets, rel.Target)
	}

	var note string
	if rel, ok := ctx.SlideRels.firstOfType(relNotesSlide); ok {
		if notes, err := pr.decode(rel.Target, nil); err == nil {
			note = noteText(notes)
		}
	}
	return ctx, note, nil
}

// decodeSlide builds the elements of slide number no.
func (d *decoder) decodeSlide(part string, no int) (*Slide, error) {
	ctx, note, err := d.slideContext(part, no)
	if err != nil {
		return nil, err
	}
	b := newBuilder(ctx, sourceSlide)
	b.log.Debug("slide/rels", "part", part, "layouts", len(ctx.LayoutRels), "diagrams", len(ctx.diagramTargets))

	root := ctx.Slide.Root()
	showPh := root.Attr("showPh") != "0"
	var elements []*Element
	for _, node := range root.Find("p:cSld", "p:spTree").Elements() {
		if node.Name == "p:nvGrpSpPr" || node.Name == "p:grpSpPr" {
			continue
		}
		if !showPh && placeholderNode(node) != nil {
			continue
		}
		if el := b.buildNode(node, nil, map[*Node]bool{}); el != nil {
			elements = append(elements, el)
		}
	}
	sortByOrder(elements)

	inherited := layoutElements(b)
	sortByOrder(inherited)

	fill := backgroundFill(ctx, map[source]blipResolver{
		sourceSlide:  b.blipSource(ctx.SlideRels),
		sourceLayout: b.blipSource(ctx.LayoutRels),
		sourceMaster: b.blipSource(ctx.MasterRels),
	})

	hf := d.opts.FilterHeaderFooter
	elements = filterElements(elements, d.size.Height, hf)
	inherited = filterElements(inherited, d.size.Height, hf)
	renumberOrder(elements)
	renumberOrder(inherited)

	return &Slide{
		Number:         no,
		Part:           part,
		Fill:           fill,
		Elements:       elements,
		LayoutElements: inherited,
		Note:           note,
		Errors:         *b.errs,
	}, nil
}
