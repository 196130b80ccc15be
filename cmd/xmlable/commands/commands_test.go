// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/require"

	"github.com/luxfi/xmlcodec/manifest"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	configPath, noColor = "", false
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append([]string{"--no-color"}, args...))
	err := root.Execute()
	return out.String(), err
}

func TestTypes(t *testing.T) {
	out, err := run(t, "types")
	require.NoError(t, err)
	require.Contains(t, out, "samples.Person")
	require.Contains(t, out, "XMLable <person> 6 fields")
	require.Contains(t, out, "samples.Car")
	require.Contains(t, out, "not XMLable")
}

func TestEncodeDecode(t *testing.T) {
	require := require.New(t)
	path := filepath.Join(t.TempDir(), "objects.xml")

	out, err := run(t, "encode", path)
	require.NoError(err)
	require.Contains(out, "wrote 4 objects")

	raw, err := os.ReadFile(path)
	require.NoError(err)
	require.Contains(string(raw), "<notXMLable></notXMLable>")

	out, err = run(t, "decode", path)
	require.NoError(err)

	var reply struct {
		Version uint16 `json:"version"`
		Objects []any  `json:"objects"`
	}
	require.NoError(json.Unmarshal([]byte(out), &reply))
	require.Len(reply.Objects, 4)
	require.Nil(reply.Objects[2])
}

func TestEncodeWithConfiguredVersion(t *testing.T) {
	require := require.New(t)
	dir := t.TempDir()

	cfgPath := filepath.Join(dir, "xmlable.toml")
	require.NoError(os.WriteFile(cfgPath, []byte("[codec]\nversion = 5\n"), 0o600))
	path := filepath.Join(dir, "objects.xml")

	_, err := run(t, "--config", cfgPath, "encode", path)
	require.NoError(err)
	raw, err := os.ReadFile(path)
	require.NoError(err)
	require.Contains(string(raw), `<xmlable version="5">`)

	// the default config has no codec for version 5
	_, err = run(t, "decode", path)
	require.Error(err)
}

func TestManifestSaveDiff(t *testing.T) {
	require := require.New(t)
	path := filepath.Join(t.TempDir(), "types.msgpack")

	_, err := run(t, "manifest", "save", path)
	require.NoError(err)

	out, err := run(t, "manifest", "diff", path)
	require.NoError(err)
	require.Contains(out, "no changes")

	m, err := manifest.Load(path)
	require.NoError(err)
	m.Types = append(m.Types, manifest.Entry{Element: "retired"})
	require.NoError(manifest.Save(path, m))

	out, err = run(t, "manifest", "diff", path)
	require.ErrorIs(err, errBreakingChanges)
	require.Contains(out, "removed retired")
}

func TestBench(t *testing.T) {
	require := require.New(t)
	dir := t.TempDir()

	out, err := run(t, "bench", "--iter", "1", "--out", dir)
	require.NoError(err)
	require.Contains(out, "threads=8 seq_iter=2")

	files, err := filepath.Glob(filepath.Join(dir, "marshal_4_*.json"))
	require.NoError(err)
	require.Len(files, 4)
}

func TestArgsValidation(t *testing.T) {
	_, err := run(t, "encode")
	require.Error(t, err)

	_, err = run(t, "types", "extra")
	require.Error(t, err)
}
