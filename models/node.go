package models

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// NodeKind discriminates the three shapes a state-tree value can take.
type NodeKind int

const (
	KindObject NodeKind = iota
	KindArray
	KindScalar
)

// Node is one value of the parsed application-state tree. Object nodes keep
// their key order as it appeared in the document, so "first match wins"
// policies downstream stay deterministic.
type Node struct {
	kind   NodeKind
	keys   []string
	fields map[string]*Node
	items  []*Node
	scalar any // string, float64, bool or nil
}

// NewObject creates an empty object node.
func NewObject() *Node {
	return &Node{kind: KindObject, fields: make(map[string]*Node)}
}

// Set adds or replaces a field and returns the node for chaining.
func (n *Node) Set(key string, child *Node) *Node {
	if _, exists := n.fields[key]; !exists {
		n.keys = append(n.keys, key)
	}
	n.fields[key] = child
	return n
}

// NewArray creates an array node from the given elements.
func NewArray(items ...*Node) *Node {
	return &Node{kind: KindArray, items: items}
}

func StringNode(s string) *Node  { return &Node{kind: KindScalar, scalar: s} }
func NumberNode(f float64) *Node { return &Node{kind: KindScalar, scalar: f} }
func BoolNode(b bool) *Node      { return &Node{kind: KindScalar, scalar: b} }
func NullNode() *Node            { return &Node{kind: KindScalar} }

func (n *Node) Kind() NodeKind { return n.kind }

// Keys returns an object's field names in document order.
func (n *Node) Keys() []string { return n.keys }

// Field looks up a key on an object node.
func (n *Node) Field(key string) (*Node, bool) {
	if n == nil || n.kind != KindObject {
		return nil, false
	}
	v, ok := n.fields[key]
	return v, ok
}

// Items returns an array node's elements in document order.
func (n *Node) Items() []*Node {
	if n == nil || n.kind != KindArray {
		return nil
	}
	return n.items
}

// Str reports a genuine string scalar; numbers and booleans are not coerced.
func (n *Node) Str() (string, bool) {
	if n == nil || n.kind != KindScalar {
		return "", false
	}
	s, ok := n.scalar.(string)
	return s, ok
}

// Num reports a numeric scalar.
func (n *Node) Num() (float64, bool) {
	if n == nil || n.kind != KindScalar {
		return 0, false
	}
	f, ok := n.scalar.(float64)
	return f, ok
}

// Bool reports a boolean scalar.
func (n *Node) Bool() (bool, bool) {
	if n == nil || n.kind != KindScalar {
		return false, false
	}
	b, ok := n.scalar.(bool)
	return b, ok
}

// IsNull reports whether the node is a JSON null.
func (n *Node) IsNull() bool {
	return n != nil && n.kind == KindScalar && n.scalar == nil
}

// Text renders any scalar as trimmed text. Objects and arrays render empty.
func (n *Node) Text() string {
	if n == nil || n.kind != KindScalar {
		return ""
	}
	switch v := n.scalar.(type) {
	case string:
		return strings.TrimSpace(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		return ""
	}
}

// Empty reports whether the node carries no usable value: null, a blank
// string, or an object/array with no members.
func (n *Node) Empty() bool {
	if n == nil {
		return true
	}
	switch n.kind {
	case KindObject:
		return len(n.keys) == 0
	case KindArray:
		return len(n.items) == 0
	default:
		if n.scalar == nil {
			return true
		}
		if s, ok := n.scalar.(string); ok {
			return strings.TrimSpace(s) == ""
		}
		return false
	}
}

// DecodeTree parses a single JSON value into a Node tree, preserving object
// key order. Trailing data after the value is ignored.
func DecodeTree(r io.Reader) (*Node, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	return decodeValue(dec)
}

func decodeValue(dec *json.Decoder) (*Node, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	return decodeFrom(dec, tok)
}

func decodeFrom(dec *json.Decoder, tok json.Token) (*Node, error) {
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			obj := NewObject()
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return nil, err
				}
				key, ok := keyTok.(string)
				if !ok {
					return nil, fmt.Errorf("node: object key is not a string: %v", keyTok)
				}
				child, err := decodeValue(dec)
				if err != nil {
					return nil, err
				}
				obj.Set(key, child)
			}
			if _, err := dec.Token(); err != nil { // closing brace
				return nil, err
			}
			return obj, nil
		case '[':
			arr := &Node{kind: KindArray}
			for dec.More() {
				child, err := decodeValue(dec)
				if err != nil {
					return nil, err
				}
				arr.items = append(arr.items, child)
			}
			if _, err := dec.Token(); err != nil { // closing bracket
				return nil, err
			}
			return arr, nil
		}
		return nil, fmt.Errorf("node: unexpected delimiter %q", t.String())
	case string:
		return StringNode(t), nil
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return nil, fmt.Errorf("node: bad number %q: %w", t.String(), err)
		}
		return NumberNode(f), nil
	case bool:
		return BoolNode(t), nil
	case nil:
		return NullNode(), nil
	}
	return nil, fmt.Errorf("node: unexpected token %v", tok)
}
