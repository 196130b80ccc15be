// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package service

import (
	"fmt"
	"reflect"

	"github.com/luxfi/xmlcodec"
)

// Object is a decoded value keyed by its serialized names
type Object struct {
	Element string         `json:"element"`
	Fields  map[string]any `json:"fields"`
}

// RenderAll renders every value. Values that were not XMLable render as nil.
func RenderAll(reg *xmlcodec.TypeRegistry, values []any) ([]any, error) {
	out := make([]any, 0, len(values))
	for _, v := range values {
		if v == nil {
			out = append(out, nil)
			continue
		}
		obj, err := Render(reg, v)
		if err != nil {
			return nil, err
		}
		out = append(out, obj)
	}
	return out, nil
}

// Render turns a tagged value into an Object using its descriptor, so that
// only serialized fields appear, under their serialized names.
func Render(reg *xmlcodec.TypeRegistry, v any) (*Object, error) {
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return nil, xmlcodec.ErrMarshalNil
		}
		rv = rv.Elem()
	}
	if !rv.IsValid() {
		return nil, xmlcodec.ErrMarshalNil
	}
	return render(reg, rv)
}

func render(reg *xmlcodec.TypeRegistry, rv reflect.Value) (*Object, error) {
	d, err := reg.Resolve(rv.Type())
	if err != nil {
		return nil, err
	}
	obj := &Object{
		Element: d.Name,
		Fields:  make(map[string]any, len(d.Fields)),
	}
	for _, f := range d.Fields {
		fv := rv.Field(f.Index)
		switch {
		case f.Ptr:
			if fv.IsNil() {
				obj.Fields[f.Name] = nil
				continue
			}
			val, err := renderValue(reg, f, fv.Elem())
			if err != nil {
				return nil, err
			}
			obj.Fields[f.Name] = val
		case f.Slice:
			items := make([]any, 0, fv.Len())
			for i := 0; i < fv.Len(); i++ {
				val, err := renderValue(reg, f, fv.Index(i))
				if err != nil {
					return nil, err
				}
				items = append(items, val)
			}
			obj.Fields[f.Name] = items
		default:
			val, err := renderValue(reg, f, fv)
			if err != nil {
				return nil, err
			}
			obj.Fields[f.Name] = val
		}
	}
	return obj, nil
}

func renderValue(reg *xmlcodec.TypeRegistry, f xmlcodec.Field, v reflect.Value) (any, error) {
	if f.Kind != xmlcodec.KindStruct {
		return v.Interface(), nil
	}
	obj, err := render(reg, v)
	if err != nil {
		return nil, fmt.Errorf("field %s: %w", f.Name, err)
	}
	return obj, nil
}
