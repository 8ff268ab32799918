package xmltree

import (
	"bytes"
	"encoding/json"
	"regexp"
	"strconv"
)

// Kind tags the variant held by a Node.
type Kind int

const (
	String Kind = iota
	Number
	Object
	Array
)

// Field is one named member of an Object node.
type Field struct {
	Name  string
	Value *Node
}

// Node is a normalized value: a string, a number, an ordered object or an array.
//
// Numbers keep their source text in Text so values like "0" or long dates are
// never reformatted.
type Node struct {
	Kind   Kind
	Text   string
	Fields []Field
	Items  []*Node
}

// numberPattern matches JSON number literals. Zero-padded keys ("0001001")
// do not match and stay strings.
var numberPattern = regexp.MustCompile(`^-?(0|[1-9][0-9]*)(\.[0-9]+)?([eE][+-]?[0-9]+)?$`)

// Scalar returns a Number node when text is a number literal, else a String node.
func Scalar(text string) *Node {
	if numberPattern.MatchString(text) {
		return &Node{Kind: Number, Text: text}
	}
	return &Node{Kind: String, Text: text}
}

// Str returns a String node.
func Str(text string) *Node {
	return &Node{Kind: String, Text: text}
}

// Get returns the named field of an object, or nil. It is nil-safe.
func (n *Node) Get(name string) *Node {
	if n == nil || n.Kind != Object {
		return nil
	}
	for _, f := range n.Fields {
		if f.Name == name {
			return f.Value
		}
	}
	return nil
}

// Path walks nested objects by field name.
func (n *Node) Path(names ...string) *Node {
	cur := n
	for _, name := range names {
		cur = cur.Get(name)
	}
	return cur
}

// AsList resolves the lone-value-or-array ambiguity of the upstream API:
// nil yields nil, an array yields its items, anything else a one-element list.
func (n *Node) AsList() []*Node {
	if n == nil {
		return nil
	}
	if n.Kind == Array {
		return n.Items
	}
	return []*Node{n}
}

// String returns the text of a scalar node, or "" for objects, arrays and nil.
func (n *Node) String() string {
	if n == nil || (n.Kind != String && n.Kind != Number) {
		return ""
	}
	return n.Text
}

// Int parses a scalar node as an integer.
func (n *Node) Int() (int, bool) {
	s := n.String()
	if s == "" {
		return 0, false
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return v, true
}

// Strings flattens a scalar or an array of scalars.
func (n *Node) Strings() []string {
	var out []string
	for _, item := range n.AsList() {
		if s := item.String(); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// MarshalJSON encodes the node keeping object field order.
func (n *Node) MarshalJSON() ([]byte, error) {
	if n == nil {
		return []byte("null"), nil
	}
	var buf bytes.Buffer
	if err := n.encode(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (n *Node) encode(buf *bytes.Buffer) error {
	switch n.Kind {
	case Number:
		buf.WriteString(n.Text)
	case Object:
		buf.WriteByte('{')
		for i, f := range n.Fields {
			if i > 0 {
				buf.WriteByte(',')
			}
			key, err := json.Marshal(f.Name)
			if err != nil {
				return err
			}
			buf.Write(key)
			buf.WriteByte(':')
			if f.Value == nil {
				buf.WriteString("null")
				continue
			}
			if err := f.Value.encode(buf); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	case Array:
		buf.WriteByte('[')
		for i, item := range n.Items {
			if i > 0 {
				buf.WriteByte(',')
			}
			if item == nil {
				buf.WriteString("null")
				continue
			}
			if err := item.encode(buf); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	default:
		s, err := json.Marshal(n.Text)
		if err != nil {
			return err
		}
		buf.Write(s)
	}
	return nil
}
