// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package elementcodec

import (
	"encoding/xml"
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"github.com/luxfi/xmlcodec"
)

const (
	// DefaultMaxSliceLen is the default max number of items in a slice field
	DefaultMaxSliceLen = 64 * 1024

	// maxDepth bounds nesting of tagged structs
	maxDepth = 64
)

var (
	ErrTypeNotFound      = errors.New("type not found")
	ErrTypeIDMismatch    = errors.New("type id mismatch")
	ErrFieldTypeMismatch = errors.New("field type mismatch")
	ErrUnknownField      = errors.New("unknown field")
	ErrInvalidValue      = errors.New("invalid field value")
	ErrRepeatedField     = errors.New("repeated field element")
	ErrMaxDepthExceeded  = errors.New("max nesting depth exceeded")
)

var (
	_ xmlcodec.Codec    = (*Codec)(nil)
	_ xmlcodec.Registry = (*Codec)(nil)
)

// Codec writes each tagged value as one element holding one child element
// per tagged field. Values without the tag are written as <notXMLable/>.
type Codec struct {
	registry    *xmlcodec.TypeRegistry
	maxSliceLen int
}

// New returns a codec resolving types through registry
func New(registry *xmlcodec.TypeRegistry, maxSliceLen int) *Codec {
	if maxSliceLen <= 0 {
		maxSliceLen = DefaultMaxSliceLen
	}
	return &Codec{
		registry:    registry,
		maxSliceLen: maxSliceLen,
	}
}

// NewDefault returns a codec over the process-wide registry with the default
// max slice length
func NewDefault() *Codec {
	return New(xmlcodec.Default, DefaultMaxSliceLen)
}

// Registry returns the registry the codec resolves types through
func (c *Codec) Registry() *xmlcodec.TypeRegistry {
	return c.registry
}

// RegisterType registers a type for serialization
func (c *Codec) RegisterType(val interface{}) error {
	return c.registry.RegisterType(val)
}

// MarshalInto writes val as one element
func (c *Codec) MarshalInto(val interface{}, w *xmlcodec.Writer) error {
	if w.Errored() {
		return w.Err
	}

	rv := reflect.ValueOf(val)
	for rv.Kind() == reflect.Ptr || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return xmlcodec.ErrMarshalNil
		}
		rv = rv.Elem()
	}
	if !rv.IsValid() {
		return xmlcodec.ErrMarshalNil
	}
	if !xmlcodec.IsXMLable(rv.Type()) {
		w.Empty(xmlcodec.NotXMLableElement)
		return w.Err
	}

	d, err := c.registry.Resolve(rv.Type())
	if err != nil {
		return err
	}
	return c.marshalStruct(d, rv, w, 0)
}

// UnmarshalFrom decodes the element opened by start into a newly allocated
// value and returns a pointer to it. <notXMLable/> decodes to nil.
func (c *Codec) UnmarshalFrom(r *xmlcodec.Reader, start xml.StartElement) (interface{}, error) {
	if r.Errored() {
		return nil, r.Err
	}
	if start.Name.Local == xmlcodec.NotXMLableElement {
		r.Skip()
		return nil, r.Err
	}

	d, ok := c.registry.LookupElement(start.Name.Local)
	if !ok {
		return nil, fmt.Errorf("%w: <%s>", ErrTypeNotFound, start.Name.Local)
	}
	ptr := reflect.New(d.Type)
	if err := c.unmarshalStruct(r, start, d, ptr.Elem(), 0); err != nil {
		return nil, err
	}
	return ptr.Interface(), nil
}

func (c *Codec) marshalStruct(d *xmlcodec.Descriptor, rv reflect.Value, w *xmlcodec.Writer, depth int) error {
	if depth > maxDepth {
		return fmt.Errorf("%w: %s", ErrMaxDepthExceeded, d.Name)
	}

	w.Start(d.Name, xmlcodec.Attr(xmlcodec.TypeIDAttr, d.ID.String()))
	for _, f := range d.Fields {
		if err := c.marshalField(f, rv.Field(f.Index), w, depth); err != nil {
			return err
		}
	}
	w.End(d.Name)
	return w.Err
}

func (c *Codec) marshalField(f xmlcodec.Field, fv reflect.Value, w *xmlcodec.Writer, depth int) error {
	typeAttr := xmlcodec.Attr(xmlcodec.TypeAttr, f.Type)

	switch {
	case f.Ptr:
		if fv.IsNil() {
			w.Empty(f.Name, typeAttr, xmlcodec.Attr(xmlcodec.NilAttr, "true"))
			return w.Err
		}
		return c.marshalValue(f.Name, f, fv.Elem(), w, depth, typeAttr)
	case f.Slice:
		if fv.Len() > c.maxSliceLen {
			return fmt.Errorf("%w: %s has %d items", xmlcodec.ErrMaxSliceLenExceeded, f.Name, fv.Len())
		}
		w.Start(f.Name, typeAttr)
		for i := 0; i < fv.Len(); i++ {
			if err := c.marshalValue(xmlcodec.ItemElement, f, fv.Index(i), w, depth); err != nil {
				return err
			}
		}
		w.End(f.Name)
		return w.Err
	default:
		return c.marshalValue(f.Name, f, fv, w, depth, typeAttr)
	}
}

func (c *Codec) marshalValue(name string, f xmlcodec.Field, v reflect.Value, w *xmlcodec.Writer, depth int, attrs ...xml.Attr) error {
	if f.Kind != xmlcodec.KindStruct {
		text := format(f.Kind, v)
		if f.Kind == xmlcodec.KindString {
			if err := checkText(text); err != nil {
				return fmt.Errorf("%w: %s: %w", ErrInvalidValue, f.Name, err)
			}
		}
		w.Element(name, text, attrs...)
		return w.Err
	}

	d, err := c.registry.Resolve(f.Elem)
	if err != nil {
		return err
	}
	w.Start(name, attrs...)
	if err := c.marshalStruct(d, v, w, depth+1); err != nil {
		return err
	}
	w.End(name)
	return w.Err
}

func (c *Codec) unmarshalStruct(r *xmlcodec.Reader, start xml.StartElement, d *xmlcodec.Descriptor, rv reflect.Value, depth int) error {
	if depth > maxDepth {
		return fmt.Errorf("%w: %s", ErrMaxDepthExceeded, d.Name)
	}
	if id, ok := xmlcodec.AttrValue(start, xmlcodec.TypeIDAttr); ok && id != d.ID.String() {
		return fmt.Errorf("%w: <%s> has %s, want %s", ErrTypeIDMismatch, d.Name, id, d.ID)
	}

	seen := make(map[string]struct{}, len(d.Fields))
	for {
		switch tok := r.Next().(type) {
		case xml.StartElement:
			f, ok := d.Field(tok.Name.Local)
			if !ok {
				return fmt.Errorf("%w: %s in <%s>", ErrUnknownField, tok.Name.Local, d.Name)
			}
			if _, dup := seen[f.Name]; dup {
				return fmt.Errorf("%w: %s repeated in <%s>", ErrRepeatedField, f.Name, d.Name)
			}
			seen[f.Name] = struct{}{}
			if label, ok := xmlcodec.AttrValue(tok, xmlcodec.TypeAttr); ok && label != f.Type {
				return fmt.Errorf("%w: %s.%s is %q, want %q", ErrFieldTypeMismatch, d.Name, f.Name, label, f.Type)
			}
			if err := c.unmarshalField(r, tok, f, rv.Field(f.Index), depth); err != nil {
				return err
			}
		case xml.EndElement:
			return nil
		default:
			return endOfInput(r, d.Name)
		}
	}
}

func (c *Codec) unmarshalField(r *xmlcodec.Reader, start xml.StartElement, f xmlcodec.Field, fv reflect.Value, depth int) error {
	switch {
	case f.Ptr:
		if isNil, _ := xmlcodec.AttrValue(start, xmlcodec.NilAttr); isNil == "true" {
			r.Skip()
			fv.Set(reflect.Zero(fv.Type()))
			return r.Err
		}
		elem := reflect.New(f.Elem)
		if err := c.unmarshalValue(r, f, elem.Elem(), depth); err != nil {
			return err
		}
		fv.Set(elem)
		return nil
	case f.Slice:
		return c.unmarshalSlice(r, f, fv, depth)
	default:
		return c.unmarshalValue(r, f, fv, depth)
	}
}

func (c *Codec) unmarshalSlice(r *xmlcodec.Reader, f xmlcodec.Field, fv reflect.Value, depth int) error {
	items := reflect.MakeSlice(fv.Type(), 0, 0)
	for {
		switch tok := r.Next().(type) {
		case xml.StartElement:
			if tok.Name.Local != xmlcodec.ItemElement {
				return fmt.Errorf("%w: <%s> in slice %s", xmlcodec.ErrUnexpectedElement, tok.Name.Local, f.Name)
			}
			if items.Len() >= c.maxSliceLen {
				return fmt.Errorf("%w: %s", xmlcodec.ErrMaxSliceLenExceeded, f.Name)
			}
			elem := reflect.New(f.Elem).Elem()
			if err := c.unmarshalValue(r, f, elem, depth); err != nil {
				return err
			}
			items = reflect.Append(items, elem)
		case xml.EndElement:
			if items.Len() == 0 {
				fv.Set(reflect.Zero(fv.Type()))
			} else {
				fv.Set(items)
			}
			return nil
		default:
			return endOfInput(r, f.Name)
		}
	}
}

// unmarshalValue reads the content of an element whose start tag has been
// consumed, through its end tag.
func (c *Codec) unmarshalValue(r *xmlcodec.Reader, f xmlcodec.Field, v reflect.Value, depth int) error {
	if f.Kind != xmlcodec.KindStruct {
		text := r.Text()
		if r.Err != nil {
			return r.Err
		}
		if err := parse(f.Kind, text, v); err != nil {
			return fmt.Errorf("%w: %s: %w", ErrInvalidValue, f.Name, err)
		}
		return nil
	}

	d, err := c.registry.Resolve(f.Elem)
	if err != nil {
		return err
	}
	start, ok := r.Next().(xml.StartElement)
	if !ok {
		return endOfInput(r, f.Name)
	}
	if start.Name.Local != d.Name {
		return fmt.Errorf("%w: <%s> in %s, want <%s>", xmlcodec.ErrUnexpectedElement, start.Name.Local, f.Name, d.Name)
	}
	if err := c.unmarshalStruct(r, start, d, v, depth+1); err != nil {
		return err
	}
	if _, ok := r.Next().(xml.EndElement); !ok {
		if r.Err != nil {
			return r.Err
		}
		return fmt.Errorf("%w: more than one element in %s", xmlcodec.ErrUnexpectedElement, f.Name)
	}
	return nil
}

func endOfInput(r *xmlcodec.Reader, name string) error {
	if r.Err != nil {
		return r.Err
	}
	return fmt.Errorf("%w: unterminated <%s>", xmlcodec.ErrUnexpectedElement, name)
}

// checkText rejects strings that XML 1.0 cannot carry: invalid UTF-8 and
// characters outside the Char production.
func checkText(s string) error {
	for i, r := range s {
		if r == utf8.RuneError {
			if _, size := utf8.DecodeRuneInString(s[i:]); size == 1 {
				return fmt.Errorf("invalid UTF-8 at byte %d", i)
			}
		}
		if !isXMLChar(r) {
			return fmt.Errorf("character %U at byte %d is not allowed in XML", r, i)
		}
	}
	return nil
}

func isXMLChar(r rune) bool {
	return r == 0x09 || r == 0x0A || r == 0x0D ||
		(r >= 0x20 && r <= 0xD7FF) ||
		(r >= 0xE000 && r <= 0xFFFD) ||
		(r >= 0x10000 && r <= 0x10FFFF)
}

func format(kind xmlcodec.Kind, v reflect.Value) string {
	switch kind {
	case xmlcodec.KindBool:
		return strconv.FormatBool(v.Bool())
	case xmlcodec.KindInt:
		return strconv.FormatInt(v.Int(), 10)
	case xmlcodec.KindUint:
		return strconv.FormatUint(v.Uint(), 10)
	case xmlcodec.KindFloat:
		return strconv.FormatFloat(v.Float(), 'g', -1, v.Type().Bits())
	case xmlcodec.KindDecimal:
		return v.Interface().(decimal.Decimal).String()
	case xmlcodec.KindTime:
		return v.Interface().(time.Time).Format(time.RFC3339Nano)
	default:
		return v.String()
	}
}

func parse(kind xmlcodec.Kind, text string, v reflect.Value) error {
	if kind == xmlcodec.KindString {
		v.SetString(text)
		return nil
	}

	text = strings.TrimSpace(text)
	switch kind {
	case xmlcodec.KindBool:
		b, err := strconv.ParseBool(text)
		if err != nil {
			return err
		}
		v.SetBool(b)
	case xmlcodec.KindInt:
		i, err := strconv.ParseInt(text, 10, v.Type().Bits())
		if err != nil {
			return err
		}
		v.SetInt(i)
	case xmlcodec.KindUint:
		u, err := strconv.ParseUint(text, 10, v.Type().Bits())
		if err != nil {
			return err
		}
		v.SetUint(u)
	case xmlcodec.KindFloat:
		f, err := strconv.ParseFloat(text, v.Type().Bits())
		if err != nil {
			return err
		}
		v.SetFloat(f)
	case xmlcodec.KindDecimal:
		d, err := decimal.NewFromString(text)
		if err != nil {
			return err
		}
		v.Set(reflect.ValueOf(d))
	case xmlcodec.KindTime:
		t, err := time.Parse(time.RFC3339Nano, text)
		if err != nil {
			return err
		}
		v.Set(reflect.ValueOf(t))
	default:
		return fmt.Errorf("%w: kind %d", xmlcodec.ErrUnsupportedType, kind)
	}
	return nil
}
