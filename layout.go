package pptxjson

import "strings"

// overrideSet holds the placeholder keys a slide (and its layout) fill in
// themselves. Layout and master placeholders matching any key are not drawn.
type overrideSet map[string]bool

func (s overrideSet) add(id Identity) {
	if id.IsZero() {
		return
	}
	s[id.key()] = true
	if id.Type != "" {
		s[id.Type+"|"] = true
	}
	if id.Idx != "" {
		s["|"+id.Idx] = true
	}
}

func (s overrideSet) has(id Identity) bool {
	return s[id.key()] || (id.Type != "" && s[id.Type+"|"]) || (id.Idx != "" && s["|"+id.Idx])
}

// collect adds the placeholder identities found in a shape tree, walking
// into groups and alternate content fallbacks.
func (s overrideSet) collect(container *Node) {
	for _, node := range container.Elements() {
		s.collectNode(node)
	}
}

func (s overrideSet) collectNode(node *Node) {
	s.add(IdentityOf(node))
	switch node.Name {
	case "p:grpSp":
		for _, child := range node.Elements() {
			if child.Name != "p:nvGrpSpPr" && child.Name != "p:grpSpPr" {
				s.collectNode(child)
			}
		}
	case "mc:AlternateContent":
		fallback := node.Child("mc:Fallback")
		if group := fallback.Child("p:grpSp"); group != nil {
			s.collectNode(group)
		} else {
			s.collect(fallback)
		}
	}
}

// prune drops elements overridden by the slide, recursively. Containers
// left without children are dropped too.
func (s overrideSet) prune(el *Element) *Element {
	if el == nil || s.has(Identity{Type: el.PlaceholderType, Idx: el.PlaceholderIdx}) {
		return nil
	}
	if el.Elements == nil {
		return el
	}
	kept := make([]*Element, 0, len(el.Elements))
	for _, child := range el.Elements {
		if next := s.prune(child); next != nil {
			kept = append(kept, next)
		}
	}
	if len(kept) == 0 {
		return nil
	}
	out := *el
	out.Elements = kept
	return &out
}

// hasRunText reports whether a shape's text body has any non-blank run or
// field text.
func hasRunText(node *Node) bool {
	for _, p := range node.Find("p:txBody").ChildrenNamed("a:p") {
		for _, r := range p.Elements() {
			if (r.Name == "a:r" || r.Name == "a:fld") && strings.TrimSpace(r.Child("a:t").Value()) != "" {
				return true
			}
		}
	}
	return false
}

// onFlag parses the loose on/off values used by p:hdrFtr.
func onFlag(v string) bool {
	switch strings.ToLower(v) {
	case "1", "true", "on":
		return true
	}
	return false
}

// layoutWalker collects the elements a slide inherits from its layout and
// master.
type layoutWalker struct {
	b         *builder
	overrides overrideSet
	// slide-level show flags
	showPh, showMasterSp, showMasterPh bool
}

// renderable reports whether an inherited placeholder is drawn on the
// slide. Only footers are, when enabled and when they carry text.
func (w *layoutWalker) renderable(node *Node, id Identity) bool {
	if id.Type != PlaceholderFooter {
		return false
	}
	enabled := w.b.ctx.HeaderFooter.enabled(id.Type)
	if v := w.b.ctx.Slide.Root().PathAttr(id.Type, "p:hdrFtr"); v != "" {
		enabled = onFlag(v)
	}
	return enabled && hasRunText(node)
}

// inherit builds the drawable nodes of one inherited shape tree. With
// allowPh false every placeholder of the tree is skipped.
func (w *layoutWalker) inherit(b *builder, tree *Node, allowPh bool) []*Element {
	var out []*Element
	for _, node := range tree.Elements() {
		if node.Name == "p:nvGrpSpPr" || node.Name == "p:grpSpPr" {
			continue
		}
		if placeholderNode(node) != nil {
			if !w.showPh || !allowPh {
				continue
			}
			id := IdentityOf(node)
			if !id.IsZero() {
				if w.overrides.has(id) || !w.renderable(node, id) {
					continue
				}
			}
		}
		el := b.buildNode(node, nil, map[*Node]bool{})
		if el = w.overrides.prune(el); el != nil {
			out = append(out, el)
		}
	}
	b.log.Debug("layout/elements", "kept", len(out))
	return out
}

// layoutElements returns the elements inherited from the layout and, unless
// hidden, the master.
func layoutElements(b *builder) []*Element {
	ctx := b.ctx
	slideRoot := ctx.Slide.Root()
	layoutRoot := ctx.Layout.Root()
	w := &layoutWalker{
		b:            b,
		overrides:    overrideSet{},
		showPh:       slideRoot.Attr("showPh") != "0",
		showMasterSp: slideRoot.Attr("showMasterSp") != "0" && layoutRoot.Attr("showMasterSp") != "0",
		showMasterPh: slideRoot.Attr("showMasterPh") != "0" && layoutRoot.Attr("showMasterPh") != "0",
	}
	w.overrides.collect(slideRoot.Find("p:cSld", "p:spTree"))

	layoutTree := layoutRoot.Find("p:cSld", "p:spTree")
	out := w.inherit(b.fork(sourceLayout, ctx.LayoutRels), layoutTree, true)

	w.overrides.collect(layoutTree)
	if w.showMasterSp {
		masterTree := ctx.Master.Root().Find("p:cSld", "p:spTree")
		out = append(out, w.inherit(b.fork(sourceMaster, ctx.MasterRels), masterTree, w.showMasterPh)...)
	}
	return out
}
