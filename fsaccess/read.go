package fsaccess

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/probelab/accessprobe/access"
	"github.com/probelab/accessprobe/validation"
)

// readMethods is the number of read variants exposed by the catalogue.
const readMethods = 12

// ReadCatalog demonstrates reading a file through multiple I/O
// primitives. The target file must exist and remain unchanged after
// every variant.
type ReadCatalog struct {
	path string
}

// NewReadCatalog creates a read catalogue targeting FileToRead.txt
// under baseDir.
func NewReadCatalog(baseDir string) *ReadCatalog {
	return &ReadCatalog{path: filepath.Join(baseDir, "FileToRead.txt")}
}

// Name returns the catalogue name.
func (c *ReadCatalog) Name() string { return "fs.read" }

// Resources lists the file path each read variant targets.
func (c *ReadCatalog) Resources() []string { return []string{c.path} }

// MethodCount reports the number of supported read variants.
func (c *ReadCatalog) MethodCount() int { return readMethods }

// Messages returns the read message templates.
func (c *ReadCatalog) Messages() access.Messages {
	return access.Messages{
		SuccessFormat: "Successfully read resource at %s",
		ResultFormat:  " with result: %s",
		FailureFormat: "Failed to read resource at %s for operation id %d",
	}
}

// AccessByID runs the read variant identified by id.
func (c *ReadCatalog) AccessByID(ctx context.Context, id int) (string, error) {
	msgs := c.Messages()
	if !access.Supported(id, readMethods) {
		return msgs.Failure(c.path, id), nil
	}
	if !validation.Readable(c.path) {
		return msgs.Failure(c.path, id), nil
	}

	var payload string
	var err error
	switch id {
	case 1:
		payload, err = c.readWithFileRead()
	case 2:
		payload, err = c.readWithReadFile()
	case 3:
		payload, err = c.readWithBufioReader()
	case 4:
		payload, err = c.readWithScanner()
	case 5:
		payload, err = c.readWithReadAll()
	case 6:
		payload, err = c.readWithCopy()
	case 7:
		payload, err = c.readWithReadAt()
	case 8:
		payload, err = c.readWithSeek()
	case 9:
		payload, err = c.readWithSectionReader()
	case 10:
		payload, err = c.readWithOpenFile()
	case 11:
		payload, err = c.readWithWriteTo()
	case 12:
		payload, err = c.readWithLimitReader()
	}
	if err != nil {
		return msgs.Failure(c.path, id), access.NewAccessFailedError(c.Name(), id, err)
	}
	return msgs.Success(c.path, payload), nil
}

// readWithFileRead reads via os.Open and a raw (*File).Read loop.
func (c *ReadCatalog) readWithFileRead() (string, error) {
	f, err := os.Open(c.path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	var buf bytes.Buffer
	chunk := make([]byte, 512)
	for {
		n, err := f.Read(chunk)
		buf.Write(chunk[:n])
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", err
		}
	}
	return describeContent("File.Read", buf.String()), nil
}

// readWithReadFile reads via os.ReadFile.
func (c *ReadCatalog) readWithReadFile() (string, error) {
	data, err := os.ReadFile(c.path)
	if err != nil {
		return "", err
	}
	return describeContent("os.ReadFile", string(data)), nil
}

// readWithBufioReader reads via bufio.Reader.ReadString.
func (c *ReadCatalog) readWithBufioReader() (string, error) {
	f, err := os.Open(c.path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	reader := bufio.NewReader(f)
	var b strings.Builder
	for {
		line, err := reader.ReadString('\n')
		b.WriteString(line)
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", err
		}
	}
	return describeContent("bufio.Reader.ReadString", b.String()), nil
}

// readWithScanner reads line by line via bufio.Scanner.
func (c *ReadCatalog) readWithScanner() (string, error) {
	f, err := os.Open(c.path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	var lines []string
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return "", err
	}
	return describeContent("bufio.Scanner", strings.Join(lines, "\n")), nil
}

// readWithReadAll reads via io.ReadAll over an open file.
func (c *ReadCatalog) readWithReadAll() (string, error) {
	f, err := os.Open(c.path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return "", err
	}
	return describeContent("io.ReadAll", string(data)), nil
}

// readWithCopy reads by copying the file into a bytes.Buffer.
func (c *ReadCatalog) readWithCopy() (string, error) {
	f, err := os.Open(c.path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, f); err != nil {
		return "", err
	}
	return describeContent("io.Copy", buf.String()), nil
}

// readWithReadAt reads the full file via (*File).ReadAt.
func (c *ReadCatalog) readWithReadAt() (string, error) {
	f, err := os.Open(c.path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return "", err
	}
	data := make([]byte, info.Size())
	if _, err := f.ReadAt(data, 0); err != nil && err != io.EOF {
		return "", err
	}
	return describeContent("File.ReadAt", string(data)), nil
}

// readWithSeek positions via (*File).Seek before reading.
func (c *ReadCatalog) readWithSeek() (string, error) {
	f, err := os.Open(c.path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return "", err
	}
	data, err := io.ReadAll(f)
	if err != nil {
		return "", err
	}
	return describeContent("File.Seek", string(data)), nil
}

// readWithSectionReader reads through an io.SectionReader window.
func (c *ReadCatalog) readWithSectionReader() (string, error) {
	f, err := os.Open(c.path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return "", err
	}
	section := io.NewSectionReader(f, 0, info.Size())
	data, err := io.ReadAll(section)
	if err != nil {
		return "", err
	}
	return describeContent("io.SectionReader", string(data)), nil
}

// readWithOpenFile reads via the explicit os.OpenFile read-only flag.
func (c *ReadCatalog) readWithOpenFile() (string, error) {
	f, err := os.OpenFile(c.path, os.O_RDONLY, 0)
	if err != nil {
		return "", err
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return "", err
	}
	return describeContent("os.OpenFile", string(data)), nil
}

// readWithWriteTo drains the file via (*bufio.Reader).WriteTo.
func (c *ReadCatalog) readWithWriteTo() (string, error) {
	f, err := os.Open(c.path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	var buf bytes.Buffer
	if _, err := bufio.NewReader(f).WriteTo(&buf); err != nil {
		return "", err
	}
	return describeContent("bufio.Reader.WriteTo", buf.String()), nil
}

// readWithLimitReader reads through io.LimitReader sized to the file.
func (c *ReadCatalog) readWithLimitReader() (string, error) {
	f, err := os.Open(c.path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return "", err
	}
	data, err := io.ReadAll(io.LimitReader(f, info.Size()))
	if err != nil {
		return "", err
	}
	return describeContent("io.LimitReader", string(data)), nil
}

// describeContent formats an API label and the trimmed file content.
func describeContent(api, content string) string {
	return access.DescribeResult(api, strings.TrimSpace(content))
}
