package pptxjson

// Placeholder types that carry header/footer content.
const (
	PlaceholderTitle    = "title"
	PlaceholderCtrTitle = "ctrTitle"
	PlaceholderSubTitle = "subTitle"
	PlaceholderBody     = "body"
	PlaceholderDate     = "dt"
	PlaceholderFooter   = "ftr"
	PlaceholderHeader   = "hdr"
	PlaceholderSlideNum = "sldNum"
)

// Identity is a placeholder's (type, idx) pair. Either half may be empty.
type Identity struct {
	Type string
	Idx  string
}

// IsZero reports whether neither type nor idx is set.
func (id Identity) IsZero() bool { return id.Type == "" && id.Idx == "" }

func (id Identity) key() string { return id.Type + "|" + id.Idx }

// nonVisualProps returns the nv*Pr node of a shape, picture or graphic frame.
func nonVisualProps(node *Node) *Node {
	return firstNode(
		node.Child("p:nvSpPr"),
		node.Child("p:nvPicPr"),
		node.Child("p:nvGraphicFramePr"),
	)
}

// placeholderNode returns the p:ph descriptor of a node, or nil.
func placeholderNode(node *Node) *Node {
	return nonVisualProps(node).Find("p:nvPr", "p:ph")
}

// IdentityOf extracts the placeholder identity of a shape node.
func IdentityOf(node *Node) Identity {
	ph := placeholderNode(node)
	return Identity{Type: ph.Attr("type"), Idx: ph.Attr("idx")}
}

// isHeaderFooterType reports whether t names a date, footer, header or slide number placeholder.
func isHeaderFooterType(t string) bool {
	switch t {
	case PlaceholderDate, PlaceholderSlideNum, PlaceholderFooter, PlaceholderHeader:
		return true
	}
	return false
}

// isTitleType reports whether t names a title-like placeholder.
func isTitleType(t string) bool {
	return t == PlaceholderTitle || t == PlaceholderCtrTitle || t == PlaceholderSubTitle
}

// PlaceholderIndex maps placeholder identities of one layout or master part
// to their shape nodes. It is built once per part and never mutated afterwards.
type PlaceholderIndex struct {
	ID      map[string]*Node
	Idx     map[string]*Node
	Type    map[string]*Node
	TypeIdx map[string]*Node
}

// IndexPlaceholders walks a part's shape tree once, descending into groups and
// into the fallback branch of alternate content, and indexes every shape,
// picture and graphic frame by id, idx, type and type+idx.
func IndexPlaceholders(part *Node) *PlaceholderIndex {
	ix := &PlaceholderIndex{
		ID:      map[string]*Node{},
		Idx:     map[string]*Node{},
		Type:    map[string]*Node{},
		TypeIdx: map[string]*Node{},
	}
	spTree := part.Root().Find("p:cSld", "p:spTree")
	ix.walkContainer(spTree)
	return ix
}

func (ix *PlaceholderIndex) walkContainer(container *Node) {
	for _, child := range container.Elements() {
		if child.Name == "p:nvGrpSpPr" || child.Name == "p:grpSpPr" {
			continue
		}
		ix.walkNode(child)
	}
}

func (ix *PlaceholderIndex) walkNode(node *Node) {
	switch node.Name {
	case "p:sp", "p:pic", "p:graphicFrame":
		ix.add(node)
	case "p:grpSp":
		ix.walkContainer(node)
	case "mc:AlternateContent":
		fallback := node.Child("mc:Fallback")
		if fallback == nil {
			return
		}
		if grp := fallback.Child("p:grpSp"); grp != nil {
			ix.walkContainer(grp)
			return
		}
		ix.walkContainer(fallback)
	}
}

func (ix *PlaceholderIndex) add(node *Node) {
	nv := nonVisualProps(node)
	if nv == nil {
		return
	}
	id := nv.PathAttr("id", "p:cNvPr")
	ph := nv.Find("p:nvPr", "p:ph")
	idx := ph.Attr("idx")
	typ := ph.Attr("type")

	if id != "" {
		ix.ID[id] = node
	}
	if idx != "" {
		ix.Idx[idx] = node
	}
	if typ != "" {
		ix.Type[typ] = node
	}
	if typ != "" && idx != "" {
		ix.TypeIdx[Identity{Type: typ, Idx: idx}.key()] = node
	}
}

// Lookup returns the node matching id. When both type and idx are set an
// exact match wins over idx alone, which wins over type alone.
func (ix *PlaceholderIndex) Lookup(id Identity) *Node {
	if ix == nil || id.IsZero() {
		return nil
	}
	switch {
	case id.Type != "" && id.Idx != "":
		return firstNode(ix.TypeIdx[id.key()], ix.Idx[id.Idx], ix.Type[id.Type])
	case id.Idx != "":
		return ix.Idx[id.Idx]
	default:
		return ix.Type[id.Type]
	}
}
