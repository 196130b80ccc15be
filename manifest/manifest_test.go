// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package manifest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/luxfi/xmlcodec"
)

type invoice struct {
	xmlcodec.XMLable `xmlname:"invoice"`

	Number uint32  `xmlfield:"number"`
	Amount float64 `xmlfield:"amount"`
}

type customer struct {
	xmlcodec.XMLable `xmlname:"customer"`

	Name string `xmlfield:"name"`
}

func newRegistry(t *testing.T, vals ...any) *xmlcodec.TypeRegistry {
	t.Helper()
	reg := xmlcodec.NewTypeRegistry()
	_, err := reg.Scan(vals...)
	require.NoError(t, err)
	return reg
}

func TestSnapshot(t *testing.T) {
	require := require.New(t)

	m := Snapshot(newRegistry(t, invoice{}, customer{}))
	require.Equal(Version, m.Version)
	require.Len(m.Types, 2)
	require.Equal("customer", m.Types[0].Element)
	require.Equal("invoice", m.Types[1].Element)

	inv, ok := m.Lookup("invoice")
	require.True(ok)
	require.Equal("manifest.invoice", inv.GoType)
	require.NotEmpty(inv.TypeID)
	require.Equal([]FieldEntry{
		{Name: "number", Type: "uint32"},
		{Name: "amount", Type: "float64"},
	}, inv.Fields)

	_, ok = m.Lookup("missing")
	require.False(ok)
}

func TestSaveLoad(t *testing.T) {
	require := require.New(t)

	path := filepath.Join(t.TempDir(), "sub", "types.msgpack")
	want := Snapshot(newRegistry(t, invoice{}, customer{}))
	require.NoError(Save(path, want))

	got, err := Load(path)
	require.NoError(err)
	require.Equal(want, got)
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := Load(filepath.Join(dir, "missing"))
	require.ErrorIs(t, err, os.ErrNotExist)

	garbage := filepath.Join(dir, "garbage")
	require.NoError(t, os.WriteFile(garbage, []byte{0xc1}, 0o644))
	_, err = Load(garbage)
	require.Error(t, err)

	future := filepath.Join(dir, "future")
	b, err := msgpack.Marshal(&Manifest{Version: Version + 1})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(future, b, 0o644))
	_, err = Load(future)
	require.ErrorIs(t, err, ErrUnknownVersion)
}

func TestDiff(t *testing.T) {
	require := require.New(t)

	prev := Manifest{Version: Version, Types: []Entry{
		{Element: "a", TypeID: "1", GoType: "pkg.A", Fields: []FieldEntry{
			{Name: "x", Type: "int"},
			{Name: "y", Type: "string"},
			{Name: "z", Type: "bool"},
		}},
		{Element: "gone", TypeID: "2"},
		{Element: "moved", TypeID: "3", GoType: "old.M"},
	}}
	next := Manifest{Version: Version, Types: []Entry{
		{Element: "a", TypeID: "1", GoType: "pkg.A", Fields: []FieldEntry{
			{Name: "y", Type: "string"},
			{Name: "x", Type: "int64"},
			{Name: "w", Type: "time"},
		}},
		{Element: "moved", TypeID: "4", GoType: "new.M"},
		{Element: "fresh", TypeID: "5"},
	}}

	changes := Diff(prev, next)
	got := make([]string, 0, len(changes))
	for _, c := range changes {
		got = append(got, c.String())
	}
	require.Equal([]string{
		"field-retyped a.x: int -> int64",
		"field-reordered a.y",
		"field-removed a.z",
		"field-added a.w",
		"added fresh",
		"removed gone",
		"type-id-changed moved: old.M -> new.M",
	}, got)
	require.True(Breaking(changes))
}

func TestDiffReorderIgnoresAddedAndRemovedFields(t *testing.T) {
	require := require.New(t)

	entry := func(names ...string) Manifest {
		e := Entry{Element: "a", TypeID: "1"}
		for _, name := range names {
			e.Fields = append(e.Fields, FieldEntry{Name: name, Type: "int"})
		}
		return Manifest{Version: Version, Types: []Entry{e}}
	}

	require.Equal([]Change{
		{Kind: FieldRemoved, Element: "a", Field: "first"},
	}, Diff(entry("first", "b", "c", "d"), entry("b", "c", "d")))

	require.Equal([]Change{
		{Kind: FieldAdded, Element: "a", Field: "first"},
	}, Diff(entry("b", "c", "d"), entry("first", "b", "c", "d")))

	require.Equal([]Change{
		{Kind: FieldRemoved, Element: "a", Field: "x"},
		{Kind: FieldReordered, Element: "a", Field: "c"},
		{Kind: FieldReordered, Element: "a", Field: "d"},
	}, Diff(entry("x", "c", "d"), entry("d", "c")))
}

func TestDiffCompatible(t *testing.T) {
	require := require.New(t)

	prev := Snapshot(newRegistry(t, invoice{}))
	next := Snapshot(newRegistry(t, invoice{}, customer{}))

	require.Empty(Diff(prev, prev))

	changes := Diff(prev, next)
	require.Equal([]Change{{Kind: Added, Element: "customer"}}, changes)
	require.False(Breaking(changes))
}
