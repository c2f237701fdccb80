package fsaccess

import (
	"bufio"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/probelab/accessprobe/access"
	"github.com/probelab/accessprobe/validation"
)

const createMethods = 8

// CreateCatalog demonstrates creating a file through multiple
// primitives. The target must be absent before each variant; every
// variant removes the file again so the catalogue can be replayed.
type CreateCatalog struct {
	path string
}

// NewCreateCatalog creates a create catalogue targeting
// FileToCreate.txt under baseDir.
func NewCreateCatalog(baseDir string) *CreateCatalog {
	return &CreateCatalog{path: filepath.Join(baseDir, "FileToCreate.txt")}
}

func (c *CreateCatalog) Name() string { return "fs.create" }

func (c *CreateCatalog) Resources() []string { return []string{c.path} }

func (c *CreateCatalog) MethodCount() int { return createMethods }

func (c *CreateCatalog) Messages() access.Messages {
	return access.Messages{
		SuccessFormat: "Successfully created resource at %s",
		ResultFormat:  " Result: %s",
		FailureFormat: "Failed to create resource at %s for operation id %d",
	}
}

// AccessByID runs the create variant identified by id.
func (c *CreateCatalog) AccessByID(ctx context.Context, id int) (string, error) {
	msgs := c.Messages()
	if !access.Supported(id, createMethods) {
		return msgs.Failure(c.path, id), nil
	}
	if !validation.Absent(c.path) {
		return msgs.Failure(c.path, id), nil
	}

	var payload string
	var err error
	switch id {
	case 1:
		payload, err = c.createWithCreate()
	case 2:
		payload, err = c.createWithExclusiveOpen()
	case 3:
		payload, err = c.createWithCreateTemp()
	case 4:
		payload, err = c.createWithTempRename()
	case 5:
		payload, err = c.createWithWriteFile()
	case 6:
		payload, err = c.createWithBufio()
	case 7:
		payload, err = c.createWithCopy()
	case 8:
		payload, err = c.createWithAppendFlag()
	}
	if err != nil {
		return msgs.Failure(c.path, id), access.NewAccessFailedError(c.Name(), id, err)
	}

	// Remove the artefact so the variant can run again.
	if rmErr := os.Remove(c.path); rmErr != nil {
		return msgs.Failure(c.path, id), access.NewAccessFailedError(c.Name(), id, rmErr)
	}
	return msgs.Success(c.path, payload), nil
}

func (c *CreateCatalog) createWithCreate() (string, error) {
	f, err := os.Create(c.path)
	if err != nil {
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", err
	}
	return access.DescribeResult("os.Create", c.path), nil
}

func (c *CreateCatalog) createWithExclusiveOpen() (string, error) {
	f, err := os.OpenFile(c.path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", err
	}
	return access.DescribeResult("os.OpenFile O_EXCL", c.path), nil
}

func (c *CreateCatalog) createWithCreateTemp() (string, error) {
	dir := filepath.Dir(c.path)
	f, err := os.CreateTemp(dir, "FileToCreate-*.txt")
	if err != nil {
		return "", err
	}
	tmp := f.Name()
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return "", err
	}
	// The catalogue contract targets the fixed path, so move the
	// temporary file onto it.
	if err := os.Rename(tmp, c.path); err != nil {
		os.Remove(tmp)
		return "", err
	}
	return access.DescribeResult("os.CreateTemp", c.path), nil
}

func (c *CreateCatalog) createWithTempRename() (string, error) {
	dir := filepath.Dir(c.path)
	f, err := os.CreateTemp(dir, ".staging-*")
	if err != nil {
		return "", err
	}
	tmp := f.Name()
	if _, err := f.WriteString("staged\n"); err != nil {
		f.Close()
		os.Remove(tmp)
		return "", err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return "", err
	}
	if err := os.Rename(tmp, c.path); err != nil {
		os.Remove(tmp)
		return "", err
	}
	return access.DescribeResult("os.CreateTemp+os.Rename", c.path), nil
}

func (c *CreateCatalog) createWithWriteFile() (string, error) {
	if err := os.WriteFile(c.path, []byte{}, 0o644); err != nil {
		return "", err
	}
	return access.DescribeResult("os.WriteFile", c.path), nil
}

func (c *CreateCatalog) createWithBufio() (string, error) {
	f, err := os.OpenFile(c.path, os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return "", err
	}
	w := bufio.NewWriter(f)
	if _, err := w.WriteString("created\n"); err != nil {
		f.Close()
		return "", err
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", err
	}
	return access.DescribeResult("os.OpenFile+bufio.Writer", c.path), nil
}

func (c *CreateCatalog) createWithCopy() (string, error) {
	f, err := os.OpenFile(c.path, os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(f, strings.NewReader("created\n")); err != nil {
		f.Close()
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", err
	}
	return access.DescribeResult("os.OpenFile+io.Copy", c.path), nil
}

func (c *CreateCatalog) createWithAppendFlag() (string, error) {
	f, err := os.OpenFile(c.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return "", err
	}
	if _, err := f.Write([]byte("created\n")); err != nil {
		f.Close()
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", err
	}
	return access.DescribeResult("os.OpenFile O_APPEND", c.path), nil
}
