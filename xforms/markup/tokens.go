package markup

import (
	"encoding/xml"
	"fmt"
	"strings"
)

type tokenType uint

const (
	startTagToken tokenType = iota
	endTagToken
	characterToken
)

func (t tokenType) String() string {
	switch t {
	case startTagToken:
		return "start tag"
	case endTagToken:
		return "end tag"
	case characterToken:
		return "character"
	default:
		return fmt.Sprintf("tokenType(%d)", uint(t))
	}
}

// Token is a namespace-resolved markup token.
type Token struct {
	TokenType tokenType
	Name      xml.Name
	Attr      []xml.Attr
	Data      string
	Line      int
}

func (t *Token) String() string {
	switch t.TokenType {
	case startTagToken:
		var b strings.Builder
		b.WriteString("<{" + t.Name.Space + "}" + t.Name.Local)
		for _, a := range t.Attr {
			fmt.Fprintf(&b, " {%s}%s=%q", a.Name.Space, a.Name.Local, a.Value)
		}
		b.WriteString(">")
		return b.String()
	case endTagToken:
		return "</{" + t.Name.Space + "}" + t.Name.Local + ">"
	default:
		return fmt.Sprintf("%q", t.Data)
	}
}
