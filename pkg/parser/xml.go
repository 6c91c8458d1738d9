package parser

import (
	"encoding/xml"
	"strings"
)

// node is a generic element tree. Execution-model documents are loosely
// structured (parameter tags are open ended) so they are decoded without a
// fixed struct layout.
type node struct {
	XMLName xml.Name
	Attrs   []xml.Attr `xml:",any,attr"`
	Content string     `xml:",chardata"`
	Inner   string     `xml:",innerxml"`
	Nodes   []node     `xml:",any"`
}

func (n *node) tag() string {
	return n.XMLName.Local
}

// text returns the character data of n and all of its descendants, so inline
// markup such as <i> inside a label keeps its words.
func (n *node) text() string {
	if len(n.Nodes) == 0 {
		return n.Content
	}
	decoder := xml.NewDecoder(strings.NewReader(n.Inner))
	decoder.Strict = false
	var b strings.Builder
	for {
		tok, err := decoder.Token()
		if err != nil {
			break
		}
		if data, ok := tok.(xml.CharData); ok {
			b.Write(data)
		}
	}
	return b.String()
}

// child returns the first direct child named name.
func (n *node) child(name string) (*node, bool) {
	for i := range n.Nodes {
		if n.Nodes[i].XMLName.Local == name {
			return &n.Nodes[i], true
		}
	}
	return nil, false
}

// childText returns the text of the first direct child named name.
func (n *node) childText(name string) (string, bool) {
	c, ok := n.child(name)
	if !ok {
		return "", false
	}
	return c.text(), true
}

// descendants collects every element named name below n in document order.
func (n *node) descendants(name string) []*node {
	var out []*node
	for i := range n.Nodes {
		c := &n.Nodes[i]
		if c.XMLName.Local == name {
			out = append(out, c)
		}
		out = append(out, c.descendants(name)...)
	}
	return out
}

func (n *node) attr(name string) (string, bool) {
	for _, a := range n.Attrs {
		if a.Name.Local == name {
			return a.Value, true
		}
	}
	return "", false
}

func (n *node) boolAttr(name string) bool {
	v, _ := n.attr(name)
	return strings.EqualFold(strings.TrimSpace(v), "true")
}
