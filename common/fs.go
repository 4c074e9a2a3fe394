// Package common holds the small file-system helpers shared by the
// persisted stores and the circuit artifact cache.
package common

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ValidatePath rejects empty and traversal-suspicious paths before any
// file is created or removed under them.
func ValidatePath(path string) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("empty path")
	}
	clean := filepath.Clean(path)
	if strings.Contains(clean, "..") {
		return fmt.Errorf("path escapes its directory: %q", path)
	}
	return nil
}

// EnsureDirectories creates the parent directory of every given path.
func EnsureDirectories(paths ...string) error {
	for _, p := range paths {
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			return err
		}
	}
	return nil
}

// SafeRemove deletes path if it exists, validating it first.
func SafeRemove(path string) error {
	if err := ValidatePath(path); err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// FileExists reports whether path names an existing regular file.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// AtomicWriteFile commits data to path through a temp file in the same
// directory followed by a rename, so readers never observe a partial
// write and a crash never truncates the previous content.
func AtomicWriteFile(path string, data []byte) error {
	if err := ValidatePath(path); err != nil {
		return err
	}
	if err := EnsureDirectories(path); err != nil {
		return err
	}
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), path)
}
