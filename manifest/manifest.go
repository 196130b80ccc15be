// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package manifest snapshots the contents of a type registry so that the
// shape of serialized documents can be stored and compared across builds.
package manifest

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/luxfi/xmlcodec"
)

// Version is the manifest file format version
const Version = 1

var ErrUnknownVersion = errors.New("unknown manifest version")

// Manifest lists every registered type
type Manifest struct {
	Version int     `msgpack:"version" json:"version"`
	Types   []Entry `msgpack:"types" json:"types"`
}

// Entry describes one registered type
type Entry struct {
	Element string       `msgpack:"element" json:"element"`
	GoType  string       `msgpack:"go_type" json:"goType"`
	TypeID  string       `msgpack:"type_id" json:"typeID"`
	Fields  []FieldEntry `msgpack:"fields" json:"fields"`
}

// FieldEntry describes one serialized field
type FieldEntry struct {
	Name string `msgpack:"name" json:"name"`
	Type string `msgpack:"type" json:"type"`
}

// Snapshot captures the registry contents, sorted by element name
func Snapshot(reg *xmlcodec.TypeRegistry) Manifest {
	descs := reg.Descriptors()
	m := Manifest{
		Version: Version,
		Types:   make([]Entry, 0, len(descs)),
	}
	for _, d := range descs {
		e := Entry{
			Element: d.Name,
			GoType:  d.Type.String(),
			TypeID:  d.ID.String(),
			Fields:  make([]FieldEntry, 0, len(d.Fields)),
		}
		for _, f := range d.Fields {
			e.Fields = append(e.Fields, FieldEntry{Name: f.Name, Type: f.Type})
		}
		m.Types = append(m.Types, e)
	}
	return m
}

// Lookup returns the entry for an element name
func (m Manifest) Lookup(element string) (Entry, bool) {
	for _, e := range m.Types {
		if e.Element == element {
			return e, true
		}
	}
	return Entry{}, false
}

// Save writes m to path, replacing any previous manifest
func Save(path string, m Manifest) error {
	b, err := msgpack.Marshal(&m)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// Load reads a manifest written by Save
func Load(path string) (Manifest, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Manifest{}, err
	}
	var m Manifest
	if err := msgpack.Unmarshal(b, &m); err != nil {
		return Manifest{}, fmt.Errorf("%s: failed to decode manifest: %w", path, err)
	}
	if m.Version != Version {
		return Manifest{}, fmt.Errorf("%w: %d", ErrUnknownVersion, m.Version)
	}
	sort.Slice(m.Types, func(i, j int) bool { return m.Types[i].Element < m.Types[j].Element })
	return m, nil
}
