// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package xmlcodec

import (
	"fmt"
	"reflect"
	"sort"
	"sync"
)

// Registry registers new types that can be marshaled into.
type Registry interface {
	RegisterType(interface{}) error
}

// Default is the process-wide registry, populated at startup.
var Default = NewTypeRegistry()

var _ Registry = (*TypeRegistry)(nil)

// TypeRegistry maps tagged types to their descriptors. It is safe for
// concurrent use.
type TypeRegistry struct {
	lock      sync.RWMutex
	byType    map[reflect.Type]*Descriptor
	byElement map[string]*Descriptor
}

// NewTypeRegistry returns an empty registry
func NewTypeRegistry() *TypeRegistry {
	return &TypeRegistry{
		byType:    make(map[reflect.Type]*Descriptor),
		byElement: make(map[string]*Descriptor),
	}
}

// RegisterType registers the type of val. val may be a value or a pointer.
func (r *TypeRegistry) RegisterType(val interface{}) error {
	_, err := r.register(reflect.TypeOf(val))
	return err
}

// Scan registers every tagged value and skips the rest. It returns how many
// types were registered.
func (r *TypeRegistry) Scan(vals ...interface{}) (int, error) {
	n := 0
	for _, val := range vals {
		if !Tagged(val) {
			continue
		}
		if err := r.RegisterType(val); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}

// Lookup returns the descriptor registered for t.
func (r *TypeRegistry) Lookup(t reflect.Type) (*Descriptor, bool) {
	t = indirect(t)
	r.lock.RLock()
	d, ok := r.byType[t]
	r.lock.RUnlock()
	return d, ok
}

// LookupElement returns the descriptor registered under an element name.
func (r *TypeRegistry) LookupElement(name string) (*Descriptor, bool) {
	r.lock.RLock()
	d, ok := r.byElement[name]
	r.lock.RUnlock()
	return d, ok
}

// Resolve returns the descriptor for t, registering t first if it is tagged
// but not yet known.
func (r *TypeRegistry) Resolve(t reflect.Type) (*Descriptor, error) {
	if d, ok := r.Lookup(t); ok {
		return d, nil
	}
	d, err := r.register(t)
	if err == nil {
		return d, nil
	}
	// lost a race with another registration of the same type
	if d, ok := r.Lookup(t); ok {
		return d, nil
	}
	return nil, err
}

// Descriptors returns all registered descriptors sorted by element name.
func (r *TypeRegistry) Descriptors() []*Descriptor {
	r.lock.RLock()
	out := make([]*Descriptor, 0, len(r.byElement))
	for _, d := range r.byElement {
		out = append(out, d)
	}
	r.lock.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Len returns the number of registered types.
func (r *TypeRegistry) Len() int {
	r.lock.RLock()
	defer r.lock.RUnlock()
	return len(r.byType)
}

func (r *TypeRegistry) register(t reflect.Type) (*Descriptor, error) {
	d, err := Describe(t)
	if err != nil {
		return nil, err
	}

	r.lock.Lock()
	defer r.lock.Unlock()

	if _, exists := r.byType[d.Type]; exists {
		return nil, fmt.Errorf("%w: %v already registered", ErrDuplicateType, d.Type)
	}
	if other, exists := r.byElement[d.Name]; exists {
		return nil, fmt.Errorf("%w: %q used by %v and %v", ErrDuplicateElement, d.Name, other.Type, d.Type)
	}
	r.byType[d.Type] = d
	r.byElement[d.Name] = d
	return d, nil
}

func indirect(t reflect.Type) reflect.Type {
	if t != nil && t.Kind() == reflect.Ptr {
		return t.Elem()
	}
	return t
}
