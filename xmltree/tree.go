// Package xmltree parses XML into a small element tree that the format
// readers walk. Parsing and XPath selection are provided by xmlquery.
package xmltree

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/antchfx/xmlquery"
	"github.com/antchfx/xpath"
)

// MaxDepth bounds element nesting accepted by Parse.
var MaxDepth = 512

// ErrTooDeep is returned when a document nests deeper than MaxDepth.
var ErrTooDeep = errors.New("xmltree: document nested too deeply")

// SkipChildren can be returned by a Walk callback to skip the children of
// the current node. The walk continues with its next sibling.
var SkipChildren = errors.New("skip children")

// Node is an element. Tag and attribute keys are local names, without any
// namespace prefix.
type Node struct {
	Tag      string
	Value    string
	Attrs    map[string]string
	Children []*Node

	src *xmlquery.Node
	idx map[*xmlquery.Node]*Node
}

// Parse reads a whole document and returns its document node. The returned
// node has an empty Tag; its children are the top-level elements.
func Parse(r io.Reader) (*Node, error) {
	top, err := xmlquery.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parsing XML: %w", err)
	}
	return build(top)
}

type frame struct {
	src   *xmlquery.Node
	dst   *Node
	depth int
}

func build(top *xmlquery.Node) (*Node, error) {
	idx := make(map[*xmlquery.Node]*Node)
	root := &Node{src: top, idx: idx}
	idx[top] = root

	stack := []frame{{src: top, dst: root}}
	for len(stack) > 0 {
		fr := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if fr.depth > MaxDepth {
			return nil, ErrTooDeep
		}

		var text strings.Builder
		for c := fr.src.FirstChild; c != nil; c = c.NextSibling {
			switch c.Type {
			case xmlquery.TextNode, xmlquery.CharDataNode:
				text.WriteString(c.Data)
			case xmlquery.ElementNode:
				child := &Node{
					Tag:   c.Data,
					Attrs: attrs(c),
					src:   c,
					idx:   idx,
				}
				idx[c] = child
				fr.dst.Children = append(fr.dst.Children, child)
			}
		}
		fr.dst.Value = strings.TrimSpace(text.String())

		for i := len(fr.dst.Children) - 1; i >= 0; i-- {
			child := fr.dst.Children[i]
			stack = append(stack, frame{src: child.src, dst: child, depth: fr.depth + 1})
		}
	}
	return root, nil
}

func attrs(n *xmlquery.Node) map[string]string {
	if len(n.Attr) == 0 {
		return nil
	}
	m := make(map[string]string, len(n.Attr))
	for _, a := range n.Attr {
		if a.Name.Space == "xmlns" || a.Name.Local == "xmlns" {
			continue
		}
		m[a.Name.Local] = a.Value
	}
	return m
}

// Select returns every element below n whose local name is tag, in document
// order. Matches nested inside another match are not returned.
func Select(n *Node, tag string) ([]*Node, error) {
	if n == nil || n.src == nil {
		return nil, nil
	}
	if strings.ContainsAny(tag, `'"`) {
		return nil, fmt.Errorf("invalid tag name %q", tag)
	}
	expr, err := xpath.Compile(fmt.Sprintf(
		".//*[local-name()='%[1]s'][not(ancestor::*[local-name()='%[1]s'])]", tag))
	if err != nil {
		return nil, fmt.Errorf("invalid xpath: %w", err)
	}

	var out []*Node
	for _, m := range xmlquery.QuerySelectorAll(n.src, expr) {
		if node, ok := n.idx[m]; ok {
			out = append(out, node)
		}
	}
	return out, nil
}

// Walk visits n, then its first child subtree, then each following sibling
// subtree, in document order. The first error returned by fn stops the walk
// and is returned, except SkipChildren.
func Walk(n *Node, fn func(*Node) error) error {
	if n == nil {
		return nil
	}
	stack := []*Node{n}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		err := fn(cur)
		if errors.Is(err, SkipChildren) {
			continue
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

// Is reports whether the node has the given local name.
func (n *Node) Is(tag string) bool {
	return n != nil && n.Tag == tag
}

// HasValue reports whether the node carries non-empty text of its own.
func (n *Node) HasValue() bool {
	return n != nil && n.Value != ""
}

// Attr returns the named attribute, or "" when absent.
func (n *Node) Attr(name string) string {
	if n == nil {
		return ""
	}
	return n.Attrs[name]
}

// HasAttr reports whether the attribute exists and equals value, ignoring case.
func (n *Node) HasAttr(name, value string) bool {
	if n == nil {
		return false
	}
	v, ok := n.Attrs[name]
	return ok && strings.EqualFold(v, value)
}

// Child returns the first child element named tag.
func (n *Node) Child(tag string) *Node {
	if n == nil {
		return nil
	}
	for _, c := range n.Children {
		if c.Tag == tag {
			return c
		}
	}
	return nil
}

// Text returns the text of the node and all of its descendants, with runs of
// whitespace collapsed. Mixed-content elements such as an abstract containing
// inline markup use this rather than Value.
func (n *Node) Text() string {
	if n == nil || n.src == nil {
		return ""
	}
	return strings.Join(strings.Fields(n.src.InnerText()), " ")
}
