package pageqa

import "strings"

// Node is a parser-independent HTML tree node. Element nodes carry a
// lowercase Tag; text nodes have an empty Tag and carry Text.
//
// The extraction heuristics operate on Node trees only, so they can be
// tested with synthetic trees built from NewElement and NewText.
type Node struct {
	Tag      string
	Attrs    map[string]string
	Text     string
	Children []*Node
}

// NewElement returns an element node with the given children.
func NewElement(tag string, children ...*Node) *Node {
	return &Node{Tag: strings.ToLower(tag), Children: children}
}

// NewText returns a text node.
func NewText(text string) *Node {
	return &Node{Text: text}
}

// SetAttr sets an attribute and returns n for chaining.
func (n *Node) SetAttr(key, value string) *Node {
	if n.Attrs == nil {
		n.Attrs = make(map[string]string)
	}
	n.Attrs[key] = value
	return n
}

// Attr returns the value of an attribute, or "" if it is not set.
func (n *Node) Attr(key string) string {
	return n.Attrs[key]
}

// HasAttr reports whether the attribute is present, even if empty.
func (n *Node) HasAttr(key string) bool {
	_, ok := n.Attrs[key]
	return ok
}

// IsText reports whether n is a text node.
func (n *Node) IsText() bool {
	return n.Tag == ""
}

// Walk visits n and its descendants in document order.
// The children of a node are skipped when fn returns false.
func (n *Node) Walk(fn func(*Node) bool) {
	if !fn(n) {
		return
	}
	for _, c := range n.Children {
		c.Walk(fn)
	}
}

// inlineTags are elements that do not break the flow of text.
var inlineTags = map[string]bool{
	"a": true, "abbr": true, "b": true, "bdi": true, "bdo": true, "cite": true,
	"code": true, "data": true, "dfn": true, "em": true, "font": true, "i": true,
	"kbd": true, "mark": true, "q": true, "s": true, "samp": true, "small": true,
	"span": true, "strong": true, "sub": true, "sup": true, "time": true,
	"u": true, "var": true, "label": true, "strike": true,
}

// TextContent returns the normalized visible text of n and its descendants.
// Block-level elements are separated by a space; inline elements are not.
func (n *Node) TextContent() string {
	var sb strings.Builder
	n.writeText(&sb)
	return NormalizeText(sb.String())
}

func (n *Node) writeText(sb *strings.Builder) {
	if n.IsText() {
		sb.WriteString(n.Text)
		return
	}
	block := !inlineTags[n.Tag]
	if block {
		sb.WriteByte(' ')
	}
	for _, c := range n.Children {
		c.writeText(sb)
	}
	if block {
		sb.WriteByte(' ')
	}
}
