// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package xmlcodec

import "reflect"

// XMLable marks a struct as serializable to XML. Embed it to opt in:
//
//	type Person struct {
//		xmlcodec.XMLable `xmlname:"person"`
//
//		Name string `xmlfield:"name"`
//	}
//
// It carries no data. Only its presence is ever checked.
type XMLable struct{}

func (XMLable) xmlable() {}

// Marker is implemented by every type that embeds XMLable, including types
// that only reach it through another embedded struct. Such wrappers are not
// XMLable themselves; Marker only lets callers assert the tag at compile time.
type Marker interface {
	xmlable()
}

var xmlableType = reflect.TypeOf(XMLable{})

// IsXMLable reports whether t declares the XMLable tag, that is, embeds
// XMLable or *XMLable as a direct anonymous field. The tag is not inherited:
// a struct that embeds a tagged struct is not tagged itself. A pointer type
// answers for the type it points to. The tag type itself is not XMLable.
func IsXMLable(t reflect.Type) bool {
	if t == nil {
		return false
	}
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return false
	}
	_, ok := tagField(t)
	return ok
}

// Tagged reports whether the dynamic type of v carries the XMLable tag.
func Tagged(v any) bool {
	return IsXMLable(reflect.TypeOf(v))
}

// tagField returns the embedded XMLable field of t, used to read the xmlname
// struct tag.
func tagField(t reflect.Type) (reflect.StructField, bool) {
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.Anonymous {
			continue
		}
		if f.Type == xmlableType || (f.Type.Kind() == reflect.Ptr && f.Type.Elem() == xmlableType) {
			return f, true
		}
	}
	return reflect.StructField{}, false
}
