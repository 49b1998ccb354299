package feed

import (
	"encoding/xml"
	"errors"
	"io"
	"strings"
)

// Namespace URIs for the prefixes used in extraction paths. These are the
// CODICE namespaces the platform publishes its feed documents under.
var namespaces = map[string]string{
	"atom":          "http://www.w3.org/2005/Atom",
	"cbc":           "urn:dgpe:names:draft:codice:schema:xsd:CommonBasicComponents-2",
	"cac":           "urn:dgpe:names:draft:codice:schema:xsd:CommonAggregateComponents-2",
	"cac-place-ext": "urn:dgpe:names:draft:codice-place-ext:schema:xsd:CommonAggregateComponents-2",
	"cbc-place-ext": "urn:dgpe:names:draft:codice-place-ext:schema:xsd:CommonBasicComponents-2",
}

// Node is one parsed XML element. Extraction works against this generic
// tree rather than typed structs so missing branches degrade to nil lookups
// instead of schema errors.
type Node struct {
	Space    string
	Local    string
	Attrs    []xml.Attr
	Data     string
	Children []*Node
}

// Parse reads a whole document into a Node tree.
func Parse(r io.Reader) (*Node, error) {
	dec := xml.NewDecoder(r)

	var root *Node
	var stack []*Node
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			n := &Node{Space: t.Name.Space, Local: t.Name.Local, Attrs: t.Attr}
			if len(stack) == 0 {
				root = n
			} else {
				parent := stack[len(stack)-1]
				parent.Children = append(parent.Children, n)
			}
			stack = append(stack, n)
		case xml.EndElement:
			stack = stack[:len(stack)-1]
		case xml.CharData:
			// Only the text before the first child element counts; trailing
			// text in mixed content is not part of the element's value.
			if len(stack) > 0 {
				top := stack[len(stack)-1]
				if len(top.Children) == 0 {
					top.Data += string(t)
				}
			}
		}
	}

	if root == nil {
		return nil, errors.New("document has no root element")
	}
	return root, nil
}

// resolveTag maps a "prefix:local" path segment onto (namespace URI, local
// name). An unprefixed segment matches elements with no namespace, the way
// the unqualified fallback search expects.
func resolveTag(seg string) (space, local string) {
	prefix, local, found := strings.Cut(seg, ":")
	if !found {
		return "", prefix
	}
	return namespaces[prefix], local
}

func (n *Node) matches(space, local string) bool {
	return n.Space == space && n.Local == local
}

// Find returns the first node at the given slash-separated, namespace
// prefixed path, or nil.
func (n *Node) Find(path string) *Node {
	return n.find(strings.Split(path, "/"))
}

func (n *Node) find(segs []string) *Node {
	if len(segs) == 0 {
		return n
	}
	space, local := resolveTag(segs[0])
	for _, c := range n.Children {
		if c.matches(space, local) {
			if found := c.find(segs[1:]); found != nil {
				return found
			}
		}
	}
	return nil
}

// FindAll returns every direct child matching the given tag, in document
// order.
func (n *Node) FindAll(tag string) []*Node {
	space, local := resolveTag(tag)
	var out []*Node
	for _, c := range n.Children {
		if c.matches(space, local) {
			out = append(out, c)
		}
	}
	return out
}

// Descendants returns every descendant matching the given tag, in document
// order.
func (n *Node) Descendants(tag string) []*Node {
	space, local := resolveTag(tag)
	var out []*Node
	var walk func(*Node)
	walk = func(cur *Node) {
		for _, c := range cur.Children {
			if c.matches(space, local) {
				out = append(out, c)
			}
			walk(c)
		}
	}
	walk(n)
	return out
}

// Text returns the trimmed text at path. A missing node and an empty node
// both yield nil.
func (n *Node) Text(path string) *string {
	found := n.Find(path)
	if found == nil {
		return nil
	}
	return found.text()
}

func (n *Node) text() *string {
	s := strings.TrimSpace(n.Data)
	if s == "" {
		return nil
	}
	return &s
}

// Attr returns the named attribute's value, or "" when absent.
func (n *Node) Attr(name string) string {
	for _, a := range n.Attrs {
		if a.Name.Local == name {
			return a.Value
		}
	}
	return ""
}
