package fsaccess

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/probelab/accessprobe/access"
	"github.com/probelab/accessprobe/validation"
)

const writeMethods = 12

// writePayload is the content every write variant leaves behind.
const writePayload = "written-by-accessprobe\n"

// WriteCatalog demonstrates writing to an existing file through
// multiple I/O primitives. Each variant truncates the target first so
// the file ends up with a deterministic content.
type WriteCatalog struct {
	path string
}

// NewWriteCatalog creates a write catalogue targeting FileToWrite.txt
// under baseDir.
func NewWriteCatalog(baseDir string) *WriteCatalog {
	return &WriteCatalog{path: filepath.Join(baseDir, "FileToWrite.txt")}
}

func (c *WriteCatalog) Name() string { return "fs.write" }

func (c *WriteCatalog) Resources() []string { return []string{c.path} }

func (c *WriteCatalog) MethodCount() int { return writeMethods }

func (c *WriteCatalog) Messages() access.Messages {
	return access.Messages{
		SuccessFormat: "Successfully written resource at %s",
		ResultFormat:  " Result: %s",
		FailureFormat: "Failed to write resource at %s for operation id %d",
	}
}

// AccessByID runs the write variant identified by id.
func (c *WriteCatalog) AccessByID(ctx context.Context, id int) (string, error) {
	msgs := c.Messages()
	if !access.Supported(id, writeMethods) {
		return msgs.Failure(c.path, id), nil
	}
	if !validation.Writable(c.path) {
		return msgs.Failure(c.path, id), nil
	}

	var payload string
	var err error
	switch id {
	case 1:
		payload, err = c.writeWithWriteFile()
	case 2:
		payload, err = c.writeWithFileWrite()
	case 3:
		payload, err = c.writeWithWriteString()
	case 4:
		payload, err = c.writeWithBufio()
	case 5:
		payload, err = c.writeWithFprintf()
	case 6:
		payload, err = c.writeWithIOWriteString()
	case 7:
		payload, err = c.writeWithCopy()
	case 8:
		payload, err = c.writeWithWriteAt()
	case 9:
		payload, err = c.writeWithSeek()
	case 10:
		payload, err = c.writeWithReadFrom()
	case 11:
		payload, err = c.writeWithCopyBuffer()
	case 12:
		payload, err = c.writeWithJSONEncoder()
	}
	if err != nil {
		return msgs.Failure(c.path, id), access.NewAccessFailedError(c.Name(), id, err)
	}
	return msgs.Success(c.path, payload), nil
}

// openTruncated opens the target write-only with truncation.
func (c *WriteCatalog) openTruncated() (*os.File, error) {
	return os.OpenFile(c.path, os.O_WRONLY|os.O_TRUNC, 0o644)
}

func (c *WriteCatalog) writeWithWriteFile() (string, error) {
	if err := os.WriteFile(c.path, []byte(writePayload), 0o644); err != nil {
		return "", err
	}
	return access.DescribeResult("os.WriteFile", c.path), nil
}

func (c *WriteCatalog) writeWithFileWrite() (string, error) {
	f, err := c.openTruncated()
	if err != nil {
		return "", err
	}
	defer f.Close()

	if _, err := f.Write([]byte(writePayload)); err != nil {
		return "", err
	}
	return access.DescribeResult("File.Write", c.path), nil
}

func (c *WriteCatalog) writeWithWriteString() (string, error) {
	f, err := c.openTruncated()
	if err != nil {
		return "", err
	}
	defer f.Close()

	if _, err := f.WriteString(writePayload); err != nil {
		return "", err
	}
	return access.DescribeResult("File.WriteString", c.path), nil
}

func (c *WriteCatalog) writeWithBufio() (string, error) {
	f, err := c.openTruncated()
	if err != nil {
		return "", err
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	if _, err := w.WriteString(writePayload); err != nil {
		return "", err
	}
	if err := w.Flush(); err != nil {
		return "", err
	}
	return access.DescribeResult("bufio.Writer", c.path), nil
}

func (c *WriteCatalog) writeWithFprintf() (string, error) {
	f, err := c.openTruncated()
	if err != nil {
		return "", err
	}
	defer f.Close()

	if _, err := fmt.Fprintf(f, "%s", writePayload); err != nil {
		return "", err
	}
	return access.DescribeResult("fmt.Fprintf", c.path), nil
}

func (c *WriteCatalog) writeWithIOWriteString() (string, error) {
	f, err := c.openTruncated()
	if err != nil {
		return "", err
	}
	defer f.Close()

	if _, err := io.WriteString(f, writePayload); err != nil {
		return "", err
	}
	return access.DescribeResult("io.WriteString", c.path), nil
}

func (c *WriteCatalog) writeWithCopy() (string, error) {
	f, err := c.openTruncated()
	if err != nil {
		return "", err
	}
	defer f.Close()

	if _, err := io.Copy(f, strings.NewReader(writePayload)); err != nil {
		return "", err
	}
	return access.DescribeResult("io.Copy", c.path), nil
}

func (c *WriteCatalog) writeWithWriteAt() (string, error) {
	f, err := c.openTruncated()
	if err != nil {
		return "", err
	}
	defer f.Close()

	if _, err := f.WriteAt([]byte(writePayload), 0); err != nil {
		return "", err
	}
	return access.DescribeResult("File.WriteAt", c.path), nil
}

func (c *WriteCatalog) writeWithSeek() (string, error) {
	f, err := c.openTruncated()
	if err != nil {
		return "", err
	}
	defer f.Close()

	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return "", err
	}
	if _, err := f.Write([]byte(writePayload)); err != nil {
		return "", err
	}
	return access.DescribeResult("File.Seek", c.path), nil
}

func (c *WriteCatalog) writeWithReadFrom() (string, error) {
	f, err := c.openTruncated()
	if err != nil {
		return "", err
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	if _, err := w.ReadFrom(strings.NewReader(writePayload)); err != nil {
		return "", err
	}
	if err := w.Flush(); err != nil {
		return "", err
	}
	return access.DescribeResult("bufio.Writer.ReadFrom", c.path), nil
}

func (c *WriteCatalog) writeWithCopyBuffer() (string, error) {
	f, err := c.openTruncated()
	if err != nil {
		return "", err
	}
	defer f.Close()

	buf := make([]byte, 16)
	if _, err := io.CopyBuffer(f, strings.NewReader(writePayload), buf); err != nil {
		return "", err
	}
	return access.DescribeResult("io.CopyBuffer", c.path), nil
}

func (c *WriteCatalog) writeWithJSONEncoder() (string, error) {
	f, err := c.openTruncated()
	if err != nil {
		return "", err
	}
	defer f.Close()

	if err := json.NewEncoder(f).Encode(strings.TrimSpace(writePayload)); err != nil {
		return "", err
	}
	return access.DescribeResult("json.Encoder", c.path), nil
}
