// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package xmlcodec

import (
	"fmt"
	"os"
	"path/filepath"
)

// WriteFile marshals values with the given codec version and atomically
// replaces the file at path with the result.
func WriteFile(m Manager, version uint16, path string, values ...interface{}) (err error) {
	b, err := m.Marshal(version, values...)
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(dir, ".xmlable-*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = os.Remove(f.Name())
		}
	}()

	var errs Errs
	_, writeErr := f.Write(b)
	errs.Add(writeErr, f.Sync(), f.Close())
	if errs.Errored() {
		return fmt.Errorf("failed to write %s: %w", path, errs.Err)
	}
	return os.Rename(f.Name(), path)
}

// ReadFile reads and unmarshals the document at path.
func ReadFile(m Manager, path string) (uint16, []interface{}, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return 0, nil, err
	}
	version, values, err := m.Unmarshal(b)
	if err != nil {
		return version, nil, fmt.Errorf("%s: %w", path, err)
	}
	return version, values, nil
}
