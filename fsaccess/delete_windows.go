//go:build windows

package fsaccess

import "syscall"

// unlink removes the file through the raw syscall.
func unlink(path string) error {
	p, err := syscall.UTF16PtrFromString(path)
	if err != nil {
		return err
	}
	return syscall.DeleteFile(p)
}
