// Package pptxjson decodes PowerPoint packages (.pptx) into render-ready
// element trees.
//
// Every slide is resolved through its layout, master and theme: placeholder
// inheritance, scheme colors, list styles and group transforms are applied
// so that each Element carries final positions in points, resolved fills
// and borders, and its text as an HTML fragment. The result serializes
// directly to JSON.
//
// See the Version variable for the current library version.
package pptxjson

import (
	"archive/zip"
	"context"
	"fmt"
	"regexp"
	"sort"
	"strconv"

	"golang.org/x/sync/errgroup"
)

const (
	presentationPart = "ppt/presentation.xml"
	contentTypesPart = "[Content_Types].xml"
	slideContentType = "application/vnd.openxmlformats-officedocument.presentationml.slide+xml"
)

// Presentation is a decoded package.
type Presentation struct {
	Slides      []*Slide            `json:"slides"`
	Size        SlideSize           `json:"size"`
	ThemeColors []string            `json:"themeColors"`
	Properties  *DocumentProperties `json:"properties,omitempty"`
}

// Errors returns the structural errors of every slide.
func (p *Presentation) Errors() []error {
	var errs []error
	for _, s := range p.Slides {
		for _, err := range s.Errors {
			errs = append(errs, fmt.Errorf("slide %d: %w", s.Number, err))
		}
	}
	return errs
}

// decoder holds the package-wide state shared by all slides. Nothing in it
// changes once slides are being decoded.
type decoder struct {
	parts *partReader
	opts  *Options

	size             SlideSize
	defaultTextStyle *Node
	headerFooter     HeaderFooter
	theme            *Node
	themeRels        Relationships
	tableStyles      *Node
}

// Decode decodes every slide of zr. Slides are decoded in parallel; the
// first failing slide cancels the rest.
func Decode(ctx context.Context, zr *zip.Reader, opts ...Option) (*Presentation, error) {
	o := newOptions(opts)
	parts, err := newPartReader(zr, o.MaxPartSize)
	if err != nil {
		return nil, err
	}
	if !parts.has(presentationPart) {
		return nil, ErrNotPresentation
	}
	d := &decoder{parts: parts, opts: o}

	pres, err := parts.node(presentationPart)
	if err != nil {
		return nil, fmt.Errorf("failed to read presentation: %w", err)
	}
	presRels, err := parts.rels(presentationPart)
	if err != nil {
		return nil, err
	}
	root := pres.Root()
	d.size = slideSizeOf(root.Child("p:sldSz"))
	d.defaultTextStyle = root.Child("p:defaultTextStyle")
	d.headerFooter = headerFooterOf(root.Child("p:hf"))
	if rel, ok := presRels.firstOfType(relTheme); ok {
		if d.theme, err = parts.node(rel.Target); err != nil {
			o.Logger.Debug("theme/skip", "part", rel.Target, "err", err)
		}
		d.themeRels, _ = parts.rels(rel.Target)
	}
	if rel, ok := presRels.firstOfType(relTableStyles); ok {
		d.tableStyles, _ = parts.node(rel.Target)
	}

	props, err := readCoreProperties(parts)
	if err != nil {
		o.Logger.Debug("properties/skip", "err", err)
	}

	slideParts := slideOrder(root, presRels)
	if len(slideParts) == 0 {
		slideParts = d.slidesByContentType()
	}
	o.Logger.Debug("presentation/slides", "count", len(slideParts), "width", d.size.Width, "height", d.size.Height)

	out := &Presentation{
		Slides:      make([]*Slide, len(slideParts)),
		Size:        d.size,
		ThemeColors: ThemeColors(d.theme),
		Properties:  props,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.Concurrency)
	for i, part := range slideParts {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			slide, err := d.decodeSlide(part, i+1)
			if err != nil {
				return err
			}
			out.Slides[i] = slide
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// headerFooterOf reads p:hf. Missing flags are on.
func headerFooterOf(hf *Node) HeaderFooter {
	flag := func(attr string) bool {
		v := hf.Attr(attr)
		return v == "" || onFlag(v)
	}
	return HeaderFooter{
		Date:        flag("dt"),
		Footer:      flag("ftr"),
		Header:      flag("hdr"),
		SlideNumber: flag("sldNum"),
	}
}

// slideOrder lists slide parts in p:sldIdLst order.
func slideOrder(root *Node, rels Relationships) []string {
	var out []string
	for _, id := range root.Find("p:sldIdLst").ChildrenNamed("p:sldId") {
		rel, ok := rels[id.Attr("r:id")]
		if !ok || rel.External {
			continue
		}
		out = append(out, rel.Target)
	}
	return out
}

var partNumber = regexp.MustCompile(`(\d+)\.xml$`)

// slidesByContentType lists slide parts declared in [Content_Types].xml,
// sorted by their file number.
func (d *decoder) slidesByContentType() []string {
	types, err := d.parts.node(contentTypesPart)
	if err != nil {
		return nil
	}
	var out []string
	for _, o := range types.Root().ChildrenNamed("Override") {
		if o.Attr("ContentType") == slideContentType {
			out = append(out, resolveTarget("", o.Attr("PartName")))
		}
	}
	number := func(name string) int {
		m := partNumber.FindStringSubmatch(name)
		if m == nil {
			return 0
		}
		n, _ := strconv.Atoi(m[1])
		return n
	}
	sort.SliceStable(out, func(i, j int) bool { return number(out[i]) < number(out[j]) })
	return out
}
