package markup

import (
	"encoding/xml"
	"io"

	"github.com/pkg/errors"
)

// Tokenizer turns XML into start tag, end tag and character tokens.
// Comments, processing instructions and directives are dropped.
type Tokenizer struct {
	dec *xml.Decoder
	tok *Token
	err error
}

func NewTokenizer(r io.Reader) *Tokenizer {
	return &Tokenizer{dec: xml.NewDecoder(r)}
}

// Next advances to the next token. It returns false at the end of the input
// or on the first error.
func (t *Tokenizer) Next() bool {
	for {
		raw, err := t.dec.Token()
		if err == io.EOF {
			return false
		}
		if err != nil {
			line, _ := t.dec.InputPos()
			t.err = errors.Wrapf(err, "line %d", line)
			return false
		}
		line, _ := t.dec.InputPos()
		switch v := raw.(type) {
		case xml.StartElement:
			t.tok = &Token{TokenType: startTagToken, Name: v.Name, Attr: append([]xml.Attr(nil), v.Attr...), Line: line}
		case xml.EndElement:
			t.tok = &Token{TokenType: endTagToken, Name: v.Name, Line: line}
		case xml.CharData:
			t.tok = &Token{TokenType: characterToken, Data: string(v), Line: line}
		default:
			continue
		}
		return true
	}
}

func (t *Tokenizer) Token() *Token { return t.tok }
func (t *Tokenizer) Err() error    { return t.err }
