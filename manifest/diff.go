// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package manifest

import (
	"fmt"
	"sort"
)

// ChangeKind says how an element differs between two manifests
type ChangeKind string

const (
	Added          ChangeKind = "added"
	Removed        ChangeKind = "removed"
	TypeIDChanged  ChangeKind = "type-id-changed"
	FieldAdded     ChangeKind = "field-added"
	FieldRemoved   ChangeKind = "field-removed"
	FieldRetyped   ChangeKind = "field-retyped"
	FieldReordered ChangeKind = "field-reordered"
)

// Change is one difference found by Diff
type Change struct {
	Kind    ChangeKind
	Element string
	Field   string
	Old     string
	New     string
}

func (c Change) String() string {
	switch {
	case c.Field == "" && c.Old == "" && c.New == "":
		return fmt.Sprintf("%s %s", c.Kind, c.Element)
	case c.Field == "":
		return fmt.Sprintf("%s %s: %s -> %s", c.Kind, c.Element, c.Old, c.New)
	case c.Old == "" && c.New == "":
		return fmt.Sprintf("%s %s.%s", c.Kind, c.Element, c.Field)
	default:
		return fmt.Sprintf("%s %s.%s: %s -> %s", c.Kind, c.Element, c.Field, c.Old, c.New)
	}
}

// Diff lists the changes that turn prev into next. Documents written under
// prev can be read under next only if no change is Removed, TypeIDChanged,
// FieldRemoved or FieldRetyped.
func Diff(prev, next Manifest) []Change {
	var changes []Change

	for _, o := range prev.Types {
		n, ok := next.Lookup(o.Element)
		if !ok {
			changes = append(changes, Change{Kind: Removed, Element: o.Element})
			continue
		}
		if o.TypeID != n.TypeID {
			changes = append(changes, Change{Kind: TypeIDChanged, Element: o.Element, Old: o.GoType, New: n.GoType})
		}
		changes = append(changes, diffFields(o, n)...)
	}
	for _, n := range next.Types {
		if _, ok := prev.Lookup(n.Element); !ok {
			changes = append(changes, Change{Kind: Added, Element: n.Element})
		}
	}

	sort.SliceStable(changes, func(i, j int) bool {
		return changes[i].Element < changes[j].Element
	})
	return changes
}

// Breaking reports whether any change prevents reading old documents.
func Breaking(changes []Change) bool {
	for _, c := range changes {
		switch c.Kind {
		case Removed, TypeIDChanged, FieldRemoved, FieldRetyped:
			return true
		}
	}
	return false
}

// diffFields compares the fields of one element. Order is compared only
// among the fields both entries share, so adding or removing a field does not
// mark the fields after it as reordered.
func diffFields(o, n Entry) []Change {
	var changes []Change

	newFields := make(map[string]FieldEntry, len(n.Fields))
	for _, f := range n.Fields {
		newFields[f.Name] = f
	}
	oldFields := make(map[string]FieldEntry, len(o.Fields))
	for _, f := range o.Fields {
		oldFields[f.Name] = f
	}

	// rank of each shared field in the new entry
	newRank := make(map[string]int, len(n.Fields))
	for _, f := range n.Fields {
		if _, ok := oldFields[f.Name]; ok {
			newRank[f.Name] = len(newRank)
		}
	}

	oldRank := 0
	for _, f := range o.Fields {
		nf, ok := newFields[f.Name]
		if !ok {
			changes = append(changes, Change{Kind: FieldRemoved, Element: o.Element, Field: f.Name})
			continue
		}
		rank := oldRank
		oldRank++
		switch {
		case nf.Type != f.Type:
			changes = append(changes, Change{Kind: FieldRetyped, Element: o.Element, Field: f.Name, Old: f.Type, New: nf.Type})
		case newRank[f.Name] != rank:
			changes = append(changes, Change{Kind: FieldReordered, Element: o.Element, Field: f.Name})
		}
	}
	for _, f := range n.Fields {
		if _, ok := oldFields[f.Name]; !ok {
			changes = append(changes, Change{Kind: FieldAdded, Element: n.Element, Field: f.Name})
		}
	}
	return changes
}
