// Package xmltree converts the law API's XML payloads into generic trees.
//
// Parse produces a RawNode tree that mirrors the document: leaves keep whether
// their value came from plain text or a CDATA section, repeated sibling
// elements collapse into a single Array node, and attributes are kept.
// Normalize turns that tree into a Node tree that is easy to shape into typed
// records and to encode as JSON.
package xmltree

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

// RawKind tags the variant held by a RawNode.
type RawKind int

const (
	// RawText is a leaf element whose value came from character data.
	RawText RawKind = iota
	// RawCData is a leaf element whose value came from a CDATA section.
	RawCData
	// RawContainer is an element with named children.
	RawContainer
	// RawArray groups sibling elements sharing one name.
	RawArray
)

func (k RawKind) String() string {
	switch k {
	case RawText:
		return "text"
	case RawCData:
		return "cdata"
	case RawContainer:
		return "container"
	case RawArray:
		return "array"
	default:
		return fmt.Sprintf("RawKind(%d)", int(k))
	}
}

// Attr is a single XML attribute.
type Attr struct {
	Name  string
	Value string
}

// RawNode is one node of the decoded document.
//
// Leaves (RawText, RawCData) carry Value. Containers carry Children in
// document order, where a name repeated among siblings appears once as a
// RawArray at the position of its first occurrence. A container may also keep
// stray Value text when the element had mixed content. CData reports that
// Value came only from CDATA sections.
type RawNode struct {
	Kind       RawKind
	Name       string
	Value      string
	CData      bool
	Attributes []Attr
	Children   []*RawNode
	Items      []*RawNode
}

// Child returns the named child of a container, or nil.
func (n *RawNode) Child(name string) *RawNode {
	if n == nil {
		return nil
	}
	for _, c := range n.Children {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// Parse decodes an XML document and returns its root element.
func Parse(r io.Reader) (*RawNode, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read xml: %w", err)
	}
	return ParseBytes(data)
}

// ParseBytes decodes an in-memory XML document and returns its root element.
func ParseBytes(data []byte) (*RawNode, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	// Case texts carry HTML entities such as &nbsp; outside CDATA; keep them verbatim.
	dec.Strict = false
	// Bodies are always UTF-8 regardless of the declared charset.
	dec.CharsetReader = func(_ string, input io.Reader) (io.Reader, error) { return input, nil }

	var stack []*builder
	var root *RawNode

	for {
		start := dec.InputOffset()
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("decode xml: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			b := &builder{name: t.Name.Local}
			for _, a := range t.Attr {
				b.attrs = append(b.attrs, Attr{Name: a.Name.Local, Value: a.Value})
			}
			stack = append(stack, b)

		case xml.CharData:
			if len(stack) == 0 {
				continue
			}
			top := stack[len(stack)-1]
			raw := data[start:dec.InputOffset()]
			if bytes.HasPrefix(raw, []byte("<![CDATA[")) {
				top.cdata = true
				top.text.Write(t)
				top.cdataText.Write(t)
				continue
			}
			if len(bytes.TrimSpace(t)) > 0 {
				top.plain = true
			}
			top.text.Write(t)

		case xml.EndElement:
			if len(stack) == 0 {
				return nil, fmt.Errorf("decode xml: unexpected end element %q", t.Name.Local)
			}
			b := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			node := b.build()
			if len(stack) == 0 {
				root = node
				continue
			}
			stack[len(stack)-1].add(node)
		}
	}

	if root == nil {
		return nil, fmt.Errorf("decode xml: no root element")
	}
	return root, nil
}

// builder accumulates one open element while its content is decoded.
type builder struct {
	name      string
	attrs     []Attr
	text      strings.Builder
	cdataText strings.Builder
	plain     bool
	cdata     bool
	children  []*RawNode
}

func (b *builder) add(child *RawNode) {
	for i, c := range b.children {
		if c.Name != child.Name {
			continue
		}
		if c.Kind == RawArray {
			c.Items = append(c.Items, child)
			return
		}
		b.children[i] = &RawNode{Kind: RawArray, Name: child.Name, Items: []*RawNode{c, child}}
		return
	}
	b.children = append(b.children, child)
}

func (b *builder) build() *RawNode {
	n := &RawNode{Name: b.name, Attributes: b.attrs, CData: b.cdata && !b.plain}
	if len(b.children) > 0 || len(b.attrs) > 0 {
		n.Kind = RawContainer
		n.Children = b.children
		n.Value = b.value()
		return n
	}
	n.Kind = RawText
	if n.CData {
		n.Kind = RawCData
	}
	n.Value = b.value()
	return n
}

func (b *builder) value() string {
	switch {
	case b.plain:
		return strings.TrimSpace(b.text.String())
	case b.cdata:
		// Whitespace between the tags and the CDATA section is layout.
		return b.cdataText.String()
	default:
		return ""
	}
}
