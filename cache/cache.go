// Package cache implements the deterministic, atomic filesystem layer
// described in spec.md 4.5 and 6.5: cached framework/user Components and
// .wrapped-* intermediates under a single deps_dir.
package cache

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/wasmcp/compose/wasmcperr"
)

// WrappedPrefix marks intermediate wrap outputs in deps_dir (spec.md 3
// "reserved prefix").
const WrappedPrefix = ".wrapped-"

// FrameworkFilename is the deterministic cache filename for a framework
// Component, matching spec.md 6.5's layout: wasmcp_<name>@<ver>.wasm.
func FrameworkFilename(name, version string) string {
	return "wasmcp_" + name + "@" + version + ".wasm"
}

// WrappedFilename is the deterministic name for a wrapped capability
// Component (spec.md 3, 4.3): .wrapped-<cap>-<idx>.wasm.
func WrappedFilename(capability string, idx int) string {
	return WrappedPrefix + capability + "-" + strconv.Itoa(idx) + ".wasm"
}

// Exists reports whether name is already present under dir — used to skip
// re-fetching/re-wrapping deterministically-named cache entries.
func Exists(dir, name string) bool {
	_, err := os.Stat(filepath.Join(dir, name))
	return err == nil
}

// WriteAtomic writes data to dir/name by first writing to a temp file in
// the same directory and renaming it into place, so no reader ever observes
// a partially-written file (spec.md 4.5, 5 "no partial output file is
// produced").
func WriteAtomic(dir, name string, data []byte) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", wasmcperr.IoError(dir, err)
	}
	final := filepath.Join(dir, name)

	tmp, err := os.CreateTemp(dir, ".tmp-"+name+"-*")
	if err != nil {
		return "", wasmcperr.IoError(final, err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return "", wasmcperr.IoError(final, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return "", wasmcperr.IoError(final, err)
	}
	if err := os.Rename(tmpPath, final); err != nil {
		os.Remove(tmpPath)
		return "", wasmcperr.IoError(final, err)
	}
	return final, nil
}

// RemoveWrapped deletes every .wrapped-* intermediate in dir; used by the
// --keep-wrapped=false cleanup path (SPEC_FULL.md Open Question 1).
func RemoveWrapped(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return wasmcperr.IoError(dir, err)
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if strings.HasPrefix(e.Name(), WrappedPrefix) {
			if err := os.Remove(filepath.Join(dir, e.Name())); err != nil {
				return wasmcperr.IoError(filepath.Join(dir, e.Name()), err)
			}
		}
	}
	return nil
}
