// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package xmlcodec

import (
	"crypto/sha256"
	"fmt"
	"reflect"
	"strings"
	"time"
	"unicode"

	"github.com/luxfi/ids"
	"github.com/shopspring/decimal"
)

const (
	// NameTag is the struct tag read from the embedded XMLable field.
	NameTag = "xmlname"
	// FieldTag is the struct tag that opts a field in to serialization.
	FieldTag = "xmlfield"

	// RootElement wraps every document written by a Manager.
	RootElement = "xmlable"
	// NotXMLableElement is written in place of values that do not carry the tag.
	NotXMLableElement = "notXMLable"
	// ItemElement wraps each entry of a slice field.
	ItemElement = "item"

	// Attribute names
	VersionAttr = "version"
	TypeIDAttr  = "typeID"
	TypeAttr    = "type"
	NilAttr     = "nil"
)

// Kind classifies the element type of a field.
type Kind uint8

const (
	KindBool Kind = iota
	KindInt
	KindUint
	KindFloat
	KindString
	KindDecimal
	KindTime
	KindStruct
)

var (
	decimalType = reflect.TypeOf(decimal.Decimal{})
	timeType    = reflect.TypeOf(time.Time{})
)

// Field describes one serialized struct field.
type Field struct {
	// Name is the child element name.
	Name string
	// Type is the label written to the type attribute.
	Type string
	// Index is the position of the field in its struct.
	Index int
	// Ptr is set for *T fields, Slice for []T fields.
	Ptr   bool
	Slice bool
	// Elem is T once the pointer or slice is stripped.
	Elem reflect.Type
	Kind Kind
}

// Descriptor is everything the codec needs to know about a tagged type.
type Descriptor struct {
	Type   reflect.Type
	Name   string
	ID     ids.ID
	Fields []Field

	byName map[string]int
}

// Field returns the field serialized under the given element name.
func (d *Descriptor) Field(name string) (Field, bool) {
	i, ok := d.byName[name]
	if !ok {
		return Field{}, false
	}
	return d.Fields[i], true
}

// Describe builds the descriptor of a tagged struct type. Pointer types are
// described by the type they point to.
func Describe(t reflect.Type) (*Descriptor, error) {
	if t != nil && t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if !IsXMLable(t) {
		return nil, fmt.Errorf("%w: %v", ErrNotXMLable, t)
	}

	name, err := elementName(t)
	if err != nil {
		return nil, err
	}

	d := &Descriptor{
		Type:   t,
		Name:   name,
		ID:     TypeID(t),
		byName: make(map[string]int),
	}
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		raw, ok := sf.Tag.Lookup(FieldTag)
		if !ok || raw == "-" {
			continue
		}
		if !sf.IsExported() {
			return nil, fmt.Errorf("%w: %s.%s", ErrUnexportedField, t, sf.Name)
		}
		f, err := describeField(t, sf, raw)
		if err != nil {
			return nil, err
		}
		if _, exists := d.byName[f.Name]; exists {
			return nil, fmt.Errorf("%w: %s in %s", ErrDuplicateField, f.Name, t)
		}
		d.byName[f.Name] = len(d.Fields)
		d.Fields = append(d.Fields, f)
	}
	return d, nil
}

// TypeID is the fingerprint of a type: the SHA-256 of its qualified name.
func TypeID(t reflect.Type) ids.ID {
	if t == nil {
		return ids.Empty
	}
	sum := sha256.Sum256([]byte(t.PkgPath() + "." + t.Name()))
	id, err := ids.ToID(sum[:])
	if err != nil {
		return ids.Empty
	}
	return id
}

func elementName(t reflect.Type) (string, error) {
	name := t.Name()
	if f, ok := tagField(t); ok {
		if tagged := f.Tag.Get(NameTag); tagged != "" {
			name = tagged
		}
	}
	if name == RootElement || name == NotXMLableElement {
		return "", fmt.Errorf("%w: %q", ErrReservedName, name)
	}
	if !validName(name) {
		return "", fmt.Errorf("%w: bad element name %q for %v", ErrInvalidTag, name, t)
	}
	return name, nil
}

func describeField(owner reflect.Type, sf reflect.StructField, raw string) (Field, error) {
	name, opts, _ := strings.Cut(raw, ",")
	if name == "" {
		name = sf.Name
	}
	if !validName(name) {
		return Field{}, fmt.Errorf("%w: bad field name %q in %s", ErrInvalidTag, name, owner)
	}

	f := Field{
		Name:  name,
		Index: sf.Index[0],
		Elem:  sf.Type,
	}
	switch f.Elem.Kind() {
	case reflect.Ptr:
		f.Ptr = true
		f.Elem = f.Elem.Elem()
	case reflect.Slice:
		f.Slice = true
		f.Elem = f.Elem.Elem()
	}

	kind, label, err := classify(f.Elem)
	if err != nil {
		return Field{}, fmt.Errorf("%w: %s.%s", err, owner, sf.Name)
	}
	f.Kind = kind
	f.Type = label
	if f.Slice {
		f.Type = "[]" + label
	}

	if opts != "" {
		key, val, ok := strings.Cut(opts, "=")
		if !ok || key != "type" || val == "" {
			return Field{}, fmt.Errorf("%w: %s.%s: %q", ErrInvalidTag, owner, sf.Name, raw)
		}
		f.Type = val
	}
	return f, nil
}

func classify(t reflect.Type) (Kind, string, error) {
	switch t {
	case decimalType:
		return KindDecimal, "decimal", nil
	case timeType:
		return KindTime, "time", nil
	}
	switch t.Kind() {
	case reflect.Bool:
		return KindBool, "bool", nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return KindInt, t.Kind().String(), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return KindUint, t.Kind().String(), nil
	case reflect.Float32, reflect.Float64:
		return KindFloat, t.Kind().String(), nil
	case reflect.String:
		return KindString, "string", nil
	case reflect.Struct:
		if !IsXMLable(t) {
			return 0, "", fmt.Errorf("%w: nested %v", ErrNotXMLable, t)
		}
		name, err := elementName(t)
		if err != nil {
			return 0, "", err
		}
		return KindStruct, name, nil
	}
	return 0, "", fmt.Errorf("%w: %v", ErrUnsupportedType, t)
}

// validName accepts the subset of XML names without namespaces.
func validName(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_' || unicode.IsLetter(r):
		case i > 0 && (r == '-' || r == '.' || unicode.IsDigit(r)):
		default:
			return false
		}
	}
	return true
}
