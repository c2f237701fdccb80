// Package access provides the core catalogue abstraction for protected
// resource access demonstrations.
package access

import (
	"context"
	"fmt"
)

// Catalog is the single abstraction every access catalogue implements.
// A catalogue groups the method variants of one protected-resource
// category (file read, command execution, socket connect, ...) behind
// numeric ids.
type Catalog interface {
	// Name returns the unique catalogue name, e.g. "fs.read".
	Name() string

	// Resources lists the logical resources the catalogue operates on.
	Resources() []string

	// MethodCount reports the number of supported method variants.
	MethodCount() int

	// Messages returns the success/failure message templates.
	Messages() Messages

	// AccessByID runs the method variant identified by id.
	// The returned message always carries either the success or the
	// failure prefix of the catalogue's templates. Ids outside
	// [1, MethodCount()] yield the failure message with a nil error;
	// underlying I/O failures are returned alongside the failure
	// message.
	AccessByID(ctx context.Context, id int) (string, error)
}

// Supported reports whether id falls within [1, count].
func Supported(id, count int) bool {
	return id >= 1 && id <= count
}

// DescribePort formats a connection descriptor and port.
func DescribePort(description string, port int) string {
	return fmt.Sprintf("%s@%d", description, port)
}

// DescribeResult formats an operation descriptor and its captured result.
func DescribeResult(description, result string) string {
	return fmt.Sprintf("%s -> %s", description, result)
}
