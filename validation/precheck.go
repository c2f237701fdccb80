// Package validation provides resource precondition checks for the
// access catalogues. File catalogues verify their targets before
// dispatching so missing or inaccessible resources produce the failure
// message instead of an I/O fault.
package validation

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// Readable reports whether path names an existing regular file the
// current process can open for reading.
func Readable(path string) bool {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return false
	}
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	_ = f.Close()
	return true
}

// Writable reports whether path names an existing regular file the
// current process can open for writing.
func Writable(path string) bool {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return false
	}
	f, err := os.OpenFile(path, os.O_WRONLY, 0)
	if err != nil {
		return false
	}
	_ = f.Close()
	return true
}

// Executable reports whether path names an existing file with an
// execute bit set. Windows has no execute bit, so existence suffices.
func Executable(path string) bool {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return false
	}
	if runtime.GOOS == "windows" {
		return true
	}
	return info.Mode().Perm()&0o111 != 0
}

// Exists reports whether path names an existing file or directory.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// Absent reports whether path names nothing.
func Absent(path string) bool {
	_, err := os.Stat(path)
	return os.IsNotExist(err)
}

// SanitizePath cleans a path and rejects traversal segments.
func SanitizePath(path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("path is required")
	}
	cleaned := filepath.Clean(path)
	if strings.Contains(cleaned, "..") {
		return "", fmt.Errorf("path %q contains traversal segments", path)
	}
	return cleaned, nil
}
