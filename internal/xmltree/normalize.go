package xmltree

// Normalize replaces every leaf with its text (or CDATA) value and every
// container with its normalized children. Repeated elements become arrays.
//
// Text wins over CDATA and both win over children, so an element with mixed
// content collapses to its text. CDATA values stay strings even when they look
// numeric. The literal "0" counts as a value. Attributes
// of containers are kept under the "_attributes" field as strings.
// Normalize is pure: the same input always yields an equal tree.
func Normalize(raw *RawNode) *Node {
	if raw == nil {
		return nil
	}

	switch raw.Kind {
	case RawArray:
		items := make([]*Node, len(raw.Items))
		for i, item := range raw.Items {
			items[i] = Normalize(item)
		}
		return &Node{Kind: Array, Items: items}

	case RawCData:
		return Str(raw.Value)

	case RawText:
		return Scalar(raw.Value)

	case RawContainer:
		if raw.Value != "" {
			if raw.CData {
				return Str(raw.Value)
			}
			return Scalar(raw.Value)
		}
		obj := &Node{Kind: Object}
		if len(raw.Attributes) > 0 {
			attrs := &Node{Kind: Object}
			for _, a := range raw.Attributes {
				attrs.Fields = append(attrs.Fields, Field{Name: a.Name, Value: Str(a.Value)})
			}
			obj.Fields = append(obj.Fields, Field{Name: "_attributes", Value: attrs})
		}
		for _, c := range raw.Children {
			obj.Fields = append(obj.Fields, Field{Name: c.Name, Value: Normalize(c)})
		}
		return obj

	default:
		// Unknown shapes degrade to their raw text.
		return Str(raw.Value)
	}
}

// ParseNormalized parses an XML document and normalizes it, returning the
// root element's name alongside the tree.
func ParseNormalized(data []byte) (string, *Node, error) {
	raw, err := ParseBytes(data)
	if err != nil {
		return "", nil, err
	}
	return raw.Name, Normalize(raw), nil
}
