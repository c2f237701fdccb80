// Package fsaccess enumerates the standard-library ways a Go program
// can create, read, write, delete, and execute files. Each catalogue
// exposes one category of file access behind numeric method ids so
// security reviews can audit every call site through one dispatch
// surface.
package fsaccess
