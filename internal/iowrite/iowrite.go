// Package iowrite performs the one filesystem mutation the engine ever
// makes: replacing a file's bytes atomically (spec §4.6 L6, §9 "Atomic
// writes"). Adapted from the teacher's internal/cache.Save/createTempFile
// pattern, generalized from a JSON snapshot to arbitrary file content and
// extended with the backup-and-truncate fallback the teacher never needed
// because its cache directory is always rename-capable.
package iowrite

import (
	"os"
	"path/filepath"

	"hashline-tools/internal/hlerr"
)

// Write replaces the file at path with data, leaving the original bytes
// untouched if anything fails partway (spec §8 property 5, atomicity). It
// prefers temp-file-in-same-dir + os.Rename; on platforms or filesystems
// where rename across the two isn't possible (EXDEV, read-only temp dirs,
// etc.), it falls back to a backup-then-truncate strategy and restores the
// backup on failure.
func Write(path string, data []byte) error {
	dir := filepath.Dir(path)
	info, statErr := os.Stat(path)
	perm := os.FileMode(0o644)
	if statErr == nil {
		perm = info.Mode().Perm()
	}

	tmp, f, err := createTempFile(dir, filepath.Base(path))
	if err != nil {
		return fallbackWrite(path, data, perm)
	}
	if err := writeAndClose(f, data); err != nil {
		_ = os.Remove(tmp)
		return &hlerr.IoError{Op: "write", Path: path, Err: err}
	}
	if err := os.Chmod(tmp, perm); err != nil {
		_ = os.Remove(tmp)
		return &hlerr.IoError{Op: "chmod", Path: path, Err: err}
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fallbackWrite(path, data, perm)
	}
	return nil
}

// fallbackWrite is used when temp-file-and-rename isn't available (spec §9
// "fall back to in-place truncation with a pre-write backup"). It backs up
// the existing file, truncates and rewrites in place, and restores the
// backup if the write fails.
func fallbackWrite(path string, data []byte, perm os.FileMode) error {
	backup := path + ".hashline-bak"
	hadOriginal := false
	if orig, err := os.ReadFile(path); err == nil {
		hadOriginal = true
		if err := os.WriteFile(backup, orig, 0o600); err != nil {
			return &hlerr.IoError{Op: "backup", Path: path, Err: err}
		}
		defer os.Remove(backup)
	}

	if err := os.WriteFile(path, data, perm); err != nil {
		if hadOriginal {
			_ = os.WriteFile(path, mustRead(backup), perm)
		}
		return &hlerr.IoError{Op: "write", Path: path, Err: err}
	}
	return nil
}

func mustRead(path string) []byte {
	b, _ := os.ReadFile(path)
	return b
}

func writeAndClose(f *os.File, data []byte) error {
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// createTempFile creates a temporary file in dir with a name derived from
// base, returning its path and an *os.File ready for writing.
func createTempFile(dir, base string) (string, *os.File, error) {
	prefix := ".tmp-" + base + "-"
	f, err := os.CreateTemp(dir, prefix)
	if err != nil {
		return "", nil, err
	}
	return f.Name(), f, nil
}
