package markup

import (
	"github.com/heathj/goxforms/xforms/dom"
	"github.com/pkg/errors"
)

const xmlnsSpace = "xmlns"

var ErrNoDocumentElement = errors.New("markup has no document element")

// TreeConstructor builds the static element tree from tokens using a stack
// of open elements.
type TreeConstructor struct {
	Root *dom.Element
	open []*dom.Element
}

func NewTreeConstructor() *TreeConstructor {
	return &TreeConstructor{}
}

func (tc *TreeConstructor) currentNode() *dom.Element {
	if len(tc.open) == 0 {
		return nil
	}
	return tc.open[len(tc.open)-1]
}

// ProcessToken adds one token to the tree.
func (tc *TreeConstructor) ProcessToken(t *Token) error {
	switch t.TokenType {
	case startTagToken:
		el := &dom.Element{Space: t.Name.Space, Local: t.Name.Local}
		for _, a := range t.Attr {
			space := a.Name.Space
			if space == "" && a.Name.Local == xmlnsSpace {
				space = xmlnsSpace
			}
			el.Attrs = append(el.Attrs, dom.Attr{Space: space, Local: a.Name.Local, Value: a.Value})
		}
		if cur := tc.currentNode(); cur != nil {
			cur.AppendChild(el)
		} else if tc.Root == nil {
			tc.Root = el
		} else {
			return errors.Errorf("line %d: second document element <%s>", t.Line, t.Name.Local)
		}
		tc.open = append(tc.open, el)
	case endTagToken:
		if len(tc.open) == 0 {
			return errors.Errorf("line %d: unexpected end tag </%s>", t.Line, t.Name.Local)
		}
		tc.open = tc.open[:len(tc.open)-1]
	case characterToken:
		if cur := tc.currentNode(); cur != nil {
			cur.Text += t.Data
		}
	}
	return nil
}

// Parse tokenizes and builds the whole element tree.
func Parse(tokenizer *Tokenizer) (*dom.Element, error) {
	tc := NewTreeConstructor()
	for tokenizer.Next() {
		if err := tc.ProcessToken(tokenizer.Token()); err != nil {
			return nil, err
		}
	}
	if err := tokenizer.Err(); err != nil {
		return nil, err
	}
	if tc.Root == nil {
		return nil, ErrNoDocumentElement
	}
	return tc.Root, nil
}

// lookupNamespace resolves a prefix declared on el or one of its ancestors.
func lookupNamespace(el *dom.Element, prefix string) (string, bool) {
	for e := el; e != nil; e = e.Parent {
		for _, a := range e.Attrs {
			if a.Space != xmlnsSpace {
				continue
			}
			if (prefix == "" && a.Local == xmlnsSpace) || (prefix != "" && a.Local == prefix) {
				return a.Value, true
			}
		}
	}
	return "", false
}
