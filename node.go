package pptxjson

import (
	"strconv"
	"strings"
)

// Node is one element of a decoded part. Children are kept both in document
// order and grouped by their qualified tag name ("p:sp", "a:off"). A node
// never references its parent; callers pass context nodes explicitly.
type Node struct {
	Name  string
	Attrs map[string]string
	Text  string
	// Order is the element's position among its siblings in the source document.
	Order int

	children []*Node
	byName   map[string][]*Node
}

// NewNode creates a node with the given attributes and children.
func NewNode(name string, attrs map[string]string, children ...*Node) *Node {
	n := &Node{Name: name, Attrs: attrs}
	for _, c := range children {
		n.AppendChild(c)
	}
	return n
}

// AppendChild adds c as the last child of n and assigns its sibling order.
func (n *Node) AppendChild(c *Node) *Node {
	if n == nil || c == nil {
		return n
	}
	c.Order = len(n.children)
	n.children = append(n.children, c)
	if n.byName == nil {
		n.byName = make(map[string][]*Node)
	}
	n.byName[c.Name] = append(n.byName[c.Name], c)
	return n
}

// Child returns the first child with the given name, or nil.
func (n *Node) Child(name string) *Node {
	if n == nil {
		return nil
	}
	if list := n.byName[name]; len(list) > 0 {
		return list[0]
	}
	return nil
}

// ChildrenNamed returns every child with the given name in document order.
func (n *Node) ChildrenNamed(name string) []*Node {
	if n == nil {
		return nil
	}
	return n.byName[name]
}

// Elements returns all children in document order.
func (n *Node) Elements() []*Node {
	if n == nil {
		return nil
	}
	return n.children
}

// Find walks path from n, taking the first child at each step. It returns nil
// as soon as a step is missing.
func (n *Node) Find(path ...string) *Node {
	cur := n
	for _, name := range path {
		cur = cur.Child(name)
		if cur == nil {
			return nil
		}
	}
	return cur
}

// Has reports whether the path exists below n.
func (n *Node) Has(path ...string) bool {
	return n.Find(path...) != nil
}

// Attr returns the attribute value, or "" when n is nil or the attribute is absent.
func (n *Node) Attr(key string) string {
	if n == nil || n.Attrs == nil {
		return ""
	}
	return n.Attrs[key]
}

// HasAttr reports whether the attribute is present, even when empty.
func (n *Node) HasAttr(key string) bool {
	if n == nil || n.Attrs == nil {
		return false
	}
	_, ok := n.Attrs[key]
	return ok
}

// Value returns the character data of n, or "" when n is nil.
func (n *Node) Value() string {
	if n == nil {
		return ""
	}
	return n.Text
}

// PathAttr returns attribute attr of the node found at path.
func (n *Node) PathAttr(attr string, path ...string) string {
	return n.Find(path...).Attr(attr)
}

// IntAttr parses an integer attribute. Missing or malformed values report false.
func (n *Node) IntAttr(key string) (int, bool) {
	v := strings.TrimSpace(n.Attr(key))
	if v == "" {
		return 0, false
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return i, true
}

// FloatAttr parses a numeric attribute. Missing or malformed values report false.
func (n *Node) FloatAttr(key string) (float64, bool) {
	v := strings.TrimSpace(n.Attr(key))
	if v == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// Root returns the first element child. Decoded documents wrap the part's root
// element in an unnamed node.
func (n *Node) Root() *Node {
	if n == nil || len(n.children) == 0 {
		return nil
	}
	return n.children[0]
}

// Local returns the tag name without its namespace prefix.
func (n *Node) Local() string {
	if n == nil {
		return ""
	}
	if i := strings.IndexByte(n.Name, ':'); i >= 0 {
		return n.Name[i+1:]
	}
	return n.Name
}

// firstNode returns the first non-nil node.
func firstNode(nodes ...*Node) *Node {
	for _, n := range nodes {
		if n != nil {
			return n
		}
	}
	return nil
}
