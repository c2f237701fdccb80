package fsaccess

import (
	"context"
	"os"
	"path/filepath"

	"github.com/probelab/accessprobe/access"
	"github.com/probelab/accessprobe/validation"
)

const deleteMethods = 5

// DeleteCatalog demonstrates deleting a file through multiple
// primitives. The target must exist before each variant; after a
// successful deletion the catalogue recreates an empty file so the
// next variant can run.
type DeleteCatalog struct {
	path string
}

// NewDeleteCatalog creates a delete catalogue targeting
// FileToDelete.txt under baseDir.
func NewDeleteCatalog(baseDir string) *DeleteCatalog {
	return &DeleteCatalog{path: filepath.Join(baseDir, "FileToDelete.txt")}
}

func (c *DeleteCatalog) Name() string { return "fs.delete" }

func (c *DeleteCatalog) Resources() []string { return []string{c.path} }

func (c *DeleteCatalog) MethodCount() int { return deleteMethods }

func (c *DeleteCatalog) Messages() access.Messages {
	return access.Messages{
		SuccessFormat: "Successfully deleted file at path: %s",
		ResultFormat:  " Result: %s",
		FailureFormat: "Failed to delete resource at %s for operation id %d",
	}
}

// AccessByID runs the delete variant identified by id.
func (c *DeleteCatalog) AccessByID(ctx context.Context, id int) (string, error) {
	msgs := c.Messages()
	if !access.Supported(id, deleteMethods) {
		return msgs.Failure(c.path, id), nil
	}
	if !validation.Exists(c.path) {
		return msgs.Failure(c.path, id), nil
	}

	var payload string
	var err error
	switch id {
	case 1:
		payload, err = c.deleteWithRemove()
	case 2:
		payload, err = c.deleteWithRemoveAll()
	case 3:
		payload, err = c.deleteWithUnlink()
	case 4:
		payload, err = c.deleteWithRename()
	case 5:
		payload, err = c.deleteWithOpenHandle()
	}
	if err != nil {
		return msgs.Failure(c.path, id), access.NewAccessFailedError(c.Name(), id, err)
	}
	if validation.Exists(c.path) {
		return msgs.Failure(c.path, id), nil
	}

	// Restore the target so the variant can run again.
	if wrErr := os.WriteFile(c.path, []byte{}, 0o644); wrErr != nil {
		return msgs.Failure(c.path, id), access.NewAccessFailedError(c.Name(), id, wrErr)
	}
	return msgs.Success(c.path, payload), nil
}

func (c *DeleteCatalog) deleteWithRemove() (string, error) {
	if err := os.Remove(c.path); err != nil {
		return "", err
	}
	return access.DescribeResult("os.Remove", c.path), nil
}

func (c *DeleteCatalog) deleteWithRemoveAll() (string, error) {
	if err := os.RemoveAll(c.path); err != nil {
		return "", err
	}
	return access.DescribeResult("os.RemoveAll", c.path), nil
}

func (c *DeleteCatalog) deleteWithUnlink() (string, error) {
	if err := unlink(c.path); err != nil {
		return "", err
	}
	return access.DescribeResult("syscall unlink", c.path), nil
}

// deleteWithRename moves the file aside first, then removes the moved
// copy.
func (c *DeleteCatalog) deleteWithRename() (string, error) {
	aside := c.path + ".trash"
	if err := os.Rename(c.path, aside); err != nil {
		return "", err
	}
	if err := os.Remove(aside); err != nil {
		return "", err
	}
	return access.DescribeResult("os.Rename+os.Remove", c.path), nil
}

// deleteWithOpenHandle removes the file while a handle is still open.
func (c *DeleteCatalog) deleteWithOpenHandle() (string, error) {
	f, err := os.Open(c.path)
	if err != nil {
		return "", err
	}
	if err := os.Remove(c.path); err != nil {
		f.Close()
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", err
	}
	return access.DescribeResult("os.Remove with open handle", c.path), nil
}
