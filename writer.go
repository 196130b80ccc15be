// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package xmlcodec

import (
	"bytes"
	"encoding/xml"
)

// Indent is the per-level indentation of written documents.
const Indent = "  "

// Writer emits XML tokens into a size-bounded buffer. The first error is
// kept in Err and every later call is a no-op.
type Writer struct {
	buf *limitedBuffer
	enc *xml.Encoder
	Err error
}

// NewWriter returns a Writer that fails once more than maxSize bytes are
// written. A non-positive maxSize means DefaultMaxSize.
func NewWriter(maxSize int) *Writer {
	if maxSize <= 0 {
		maxSize = DefaultMaxSize
	}
	buf := &limitedBuffer{max: maxSize}
	enc := xml.NewEncoder(buf)
	enc.Indent("", Indent)
	return &Writer{
		buf: buf,
		enc: enc,
	}
}

// Errored returns true if there's been an error
func (w *Writer) Errored() bool {
	return w.Err != nil
}

// Header writes the XML declaration. It must come before any element.
func (w *Writer) Header() {
	w.token(xml.ProcInst{Target: "xml", Inst: []byte(`version="1.0" encoding="UTF-8"`)})
}

// Start opens an element
func (w *Writer) Start(name string, attrs ...xml.Attr) {
	w.token(xml.StartElement{Name: xml.Name{Local: name}, Attr: attrs})
}

// End closes an element
func (w *Writer) End(name string) {
	w.token(xml.EndElement{Name: xml.Name{Local: name}})
}

// Text writes escaped character data
func (w *Writer) Text(s string) {
	if s == "" {
		return
	}
	w.token(xml.CharData(s))
}

// Element writes a leaf element holding text
func (w *Writer) Element(name, text string, attrs ...xml.Attr) {
	w.Start(name, attrs...)
	w.Text(text)
	w.End(name)
}

// Empty writes an element with no content
func (w *Writer) Empty(name string, attrs ...xml.Attr) {
	w.Start(name, attrs...)
	w.End(name)
}

// Flush pushes buffered tokens into the underlying buffer
func (w *Writer) Flush() {
	if w.Err != nil {
		return
	}
	w.Err = w.enc.Flush()
}

// Bytes flushes and returns the document written so far
func (w *Writer) Bytes() []byte {
	w.Flush()
	return w.buf.Bytes()
}

func (w *Writer) token(t xml.Token) {
	if w.Err != nil {
		return
	}
	w.Err = w.enc.EncodeToken(t)
}

// Attr builds an unqualified attribute
func Attr(name, value string) xml.Attr {
	return xml.Attr{Name: xml.Name{Local: name}, Value: value}
}

type limitedBuffer struct {
	bytes.Buffer
	max int
}

func (b *limitedBuffer) Write(p []byte) (int, error) {
	if b.Len()+len(p) > b.max {
		return 0, ErrMaxSizeExceeded
	}
	return b.Buffer.Write(p)
}
