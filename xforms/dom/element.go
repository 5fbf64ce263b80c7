package dom

import "strings"

// Namespace URIs understood by the loader and the handler parser.
const (
	XFormsNS    = "http://www.w3.org/2002/xforms"
	XXFormsNS   = "http://orbeon.org/oxf/xml/xforms"
	XMLEventsNS = "http://www.w3.org/2001/xml-events"
	XBLNS       = "http://www.w3.org/ns/xbl"
)

type Attr struct {
	Space, Local, Value string
}

// Element is a node of the static markup: the handler and action
// definitions that outlive every dispatch.
type Element struct {
	Space, Local string
	Attrs        []Attr
	Children     []*Element
	Text         string
	Parent       *Element
}

// Attr returns the value of the attribute with the given namespace URI and
// local name.
func (e *Element) Attr(space, local string) (string, bool) {
	for _, a := range e.Attrs {
		if a.Space == space && a.Local == local {
			return a.Value, true
		}
	}
	return "", false
}

// AttrValue is Attr without the presence flag.
func (e *Element) AttrValue(space, local string) string {
	v, _ := e.Attr(space, local)
	return v
}

// ID returns the unqualified id attribute.
func (e *Element) ID() string {
	return e.AttrValue("", "id")
}

func (e *Element) AppendChild(c *Element) *Element {
	c.Parent = e
	e.Children = append(e.Children, c)
	return c
}

// Is reports whether the element has the given namespace URI and local name.
func (e *Element) Is(space, local string) bool {
	return e.Space == space && e.Local == local
}

// TextContent concatenates the text of the element and its descendants.
func (e *Element) TextContent() string {
	var b strings.Builder
	b.WriteString(e.Text)
	for _, c := range e.Children {
		b.WriteString(c.TextContent())
	}
	return b.String()
}
