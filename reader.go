// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package xmlcodec

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Reader walks the elements of a document. Character data between elements,
// comments, processing instructions and directives are skipped. The first
// error is kept in Err and every later call is a no-op.
type Reader struct {
	dec *xml.Decoder
	Err error
}

// NewReader returns a Reader over b
func NewReader(b []byte) *Reader {
	dec := xml.NewDecoder(bytes.NewReader(b))
	dec.Strict = true
	return &Reader{dec: dec}
}

// Errored returns true if there's been an error
func (r *Reader) Errored() bool {
	return r.Err != nil
}

// Next returns the next xml.StartElement or xml.EndElement. It returns nil
// at the end of input or after an error.
func (r *Reader) Next() xml.Token {
	for r.Err == nil {
		tok, err := r.dec.Token()
		if err != nil {
			if !errors.Is(err, io.EOF) {
				r.Err = err
			}
			return nil
		}
		switch t := tok.(type) {
		case xml.StartElement:
			return t.Copy()
		case xml.EndElement:
			return t
		case xml.CharData:
			if len(bytes.TrimSpace(t)) != 0 {
				r.Err = fmt.Errorf("%w: stray text %q", ErrUnexpectedElement, strings.TrimSpace(string(t)))
			}
		}
	}
	return nil
}

// Text reads the character data of the element whose start tag was just
// returned by Next, through its end tag. A child element is an error.
func (r *Reader) Text() string {
	var sb strings.Builder
	for r.Err == nil {
		tok, err := r.dec.Token()
		if err != nil {
			r.Err = err
			return ""
		}
		switch t := tok.(type) {
		case xml.CharData:
			sb.Write(t)
		case xml.EndElement:
			return sb.String()
		case xml.StartElement:
			r.Err = fmt.Errorf("%w: <%s> inside text", ErrUnexpectedElement, t.Name.Local)
		}
	}
	return ""
}

// Skip consumes the rest of the element whose start tag was just returned
// by Next.
func (r *Reader) Skip() {
	if r.Err != nil {
		return
	}
	r.Err = r.dec.Skip()
}

// AttrValue returns the value of an unqualified attribute.
func AttrValue(start xml.StartElement, name string) (string, bool) {
	for _, a := range start.Attr {
		if a.Name.Space == "" && a.Name.Local == name {
			return a.Value, true
		}
	}
	return "", false
}
