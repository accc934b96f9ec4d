// Package markup provides a generic XML element tree for OOXML parts that
// have no stable typed representation, such as diagram data and the raw
// content of graphic frames.
package markup

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html/charset"
)

// Node is one XML element. Name.Space holds the resolved namespace URI, so
// matching on Name.Local is prefix-agnostic.
type Node struct {
	Name     xml.Name
	Attr     []xml.Attr
	Text     string
	Children []*Node
}

// SkipChildren can be returned from a VisitFunc to skip a node's subtree.
var SkipChildren = errors.New("skip children")

// VisitFunc is called for every node visited by Walk.
type VisitFunc func(n *Node) error

// Parse reads a complete XML document from r and returns its root element.
func Parse(r io.Reader) (*Node, error) {
	dec := xml.NewDecoder(r)
	dec.CharsetReader = charset.NewReaderLabel

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return nil, fmt.Errorf("no root element found")
		}
		if err != nil {
			return nil, fmt.Errorf("XML parse error: %w", err)
		}
		if se, ok := tok.(xml.StartElement); ok {
			return Decode(dec, se)
		}
	}
}

// ParseBytes is a convenience wrapper around Parse.
func ParseBytes(data []byte) (*Node, error) {
	return Parse(bytes.NewReader(data))
}

// Decode builds the subtree rooted at start, consuming tokens from dec up to
// and including the matching end element.
func Decode(dec *xml.Decoder, start xml.StartElement) (*Node, error) {
	root := newNode(start)
	stack := []*Node{root}
	text := []*strings.Builder{{}}

	for len(stack) > 0 {
		tok, err := dec.Token()
		if err != nil {
			if err == io.EOF {
				return nil, fmt.Errorf("unexpected end of document inside <%s>", stack[len(stack)-1].Name.Local)
			}
			return nil, fmt.Errorf("XML parse error: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			child := newNode(t)
			parent := stack[len(stack)-1]
			parent.Children = append(parent.Children, child)
			stack = append(stack, child)
			text = append(text, &strings.Builder{})
		case xml.CharData:
			text[len(text)-1].Write(t)
		case xml.EndElement:
			top := stack[len(stack)-1]
			top.Text = text[len(text)-1].String()
			stack = stack[:len(stack)-1]
			text = text[:len(text)-1]
		}
	}

	return root, nil
}

func newNode(se xml.StartElement) *Node {
	n := &Node{Name: se.Name}
	if len(se.Attr) > 0 {
		n.Attr = make([]xml.Attr, len(se.Attr))
		copy(n.Attr, se.Attr)
	}
	return n
}

// Local returns the element's local name.
func (n *Node) Local() string {
	if n == nil {
		return ""
	}
	return n.Name.Local
}

// AttrValue returns the value of the first attribute with the given local name.
func (n *Node) AttrValue(local string) (string, bool) {
	if n == nil {
		return "", false
	}
	for _, a := range n.Attr {
		if a.Name.Local == local {
			return a.Value, true
		}
	}
	return "", false
}

// Child returns the first direct child with the given local name, or nil.
func (n *Node) Child(local string) *Node {
	if n == nil {
		return nil
	}
	for _, c := range n.Children {
		if c.Name.Local == local {
			return c
		}
	}
	return nil
}

// Path follows a chain of direct children by local name.
func (n *Node) Path(locals ...string) *Node {
	cur := n
	for _, l := range locals {
		cur = cur.Child(l)
		if cur == nil {
			return nil
		}
	}
	return cur
}

// ChildrenNamed returns all direct children with the given local name.
func (n *Node) ChildrenNamed(local string) []*Node {
	if n == nil {
		return nil
	}
	var out []*Node
	for _, c := range n.Children {
		if c.Name.Local == local {
			out = append(out, c)
		}
	}
	return out
}

// Find returns the first descendant (depth-first, document order) with the
// given local name, or nil.
func (n *Node) Find(local string) *Node {
	var found *Node
	_ = Walk(n, func(c *Node) error {
		if c != n && c.Name.Local == local {
			found = c
			return errStop
		}
		return nil
	})
	return found
}

var errStop = errors.New("stop")

// Walk visits n and all its descendants in document order (pre-order).
// Returning SkipChildren from fn skips the current node's subtree; any other
// non-nil error stops the walk and is returned. The traversal uses an
// explicit stack, so arbitrarily deep trees do not grow the call stack.
func Walk(n *Node, fn VisitFunc) error {
	if n == nil {
		return nil
	}
	stack := []*Node{n}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		err := fn(cur)
		if err == SkipChildren {
			continue
		}
		if err == errStop {
			return nil
		}
		if err != nil {
			return err
		}
		for i := len(cur.Children) - 1; i >= 0; i-- {
			stack = append(stack, cur.Children[i])
		}
	}
	return nil
}

// IsTextRun reports whether n holds a literal text run of drawing markup.
// The check is on the local name only: a:t, and the same element under any
// other prefix or namespace, all qualify.
func IsTextRun(n *Node) bool {
	return n != nil && n.Name.Local == "t"
}
