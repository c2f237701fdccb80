//go:build !windows

package fsaccess

import "syscall"

// unlink removes the file through the raw syscall.
func unlink(path string) error {
	return syscall.Unlink(path)
}
