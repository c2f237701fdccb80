package fsaccess

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

const readFixture = "catalogue fixture content\n"

func readDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "FileToRead.txt"), []byte(readFixture), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return dir
}

func TestReadCatalogMetadata(t *testing.T) {
	cat := NewReadCatalog("/tmp/base")
	if cat.Name() != "fs.read" {
		t.Errorf("Name() = %q", cat.Name())
	}
	if cat.MethodCount() != 12 {
		t.Errorf("MethodCount() = %d, want 12", cat.MethodCount())
	}
	if got := cat.Resources(); len(got) != 1 || !strings.HasSuffix(got[0], "FileToRead.txt") {
		t.Errorf("Resources() = %v", got)
	}
}

func TestReadCatalogAllVariants(t *testing.T) {
	dir := readDir(t)
	cat := NewReadCatalog(dir)
	want := strings.TrimSpace(readFixture)

	for id := 1; id <= cat.MethodCount(); id++ {
		msg, err := cat.AccessByID(context.Background(), id)
		if err != nil {
			t.Errorf("id %d: unexpected error: %v", id, err)
			continue
		}
		if !strings.HasPrefix(msg, "Successfully read resource at ") {
			t.Errorf("id %d: message %q", id, msg)
		}
		if !strings.Contains(msg, want) {
			t.Errorf("id %d: message %q missing content %q", id, msg, want)
		}
	}

	// The file must survive every variant unchanged.
	data, err := os.ReadFile(filepath.Join(dir, "FileToRead.txt"))
	if err != nil || string(data) != readFixture {
		t.Errorf("fixture changed: %q, %v", data, err)
	}
}

func TestReadCatalogUnsupportedID(t *testing.T) {
	cat := NewReadCatalog(readDir(t))
	for _, id := range []int{0, -1, cat.MethodCount() + 1} {
		msg, err := cat.AccessByID(context.Background(), id)
		if err != nil {
			t.Errorf("id %d: unexpected error: %v", id, err)
		}
		if !strings.HasPrefix(msg, "Failed to read resource at ") {
			t.Errorf("id %d: message %q", id, msg)
		}
		if !strings.Contains(msg, "for operation id") {
			t.Errorf("id %d: message %q missing id clause", id, msg)
		}
	}
}

func TestReadCatalogMissingFile(t *testing.T) {
	cat := NewReadCatalog(t.TempDir())
	msg, err := cat.AccessByID(context.Background(), 1)
	if err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(msg, "Failed to read resource at ") {
		t.Errorf("message %q", msg)
	}
}

func TestWriteCatalogAllVariants(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "FileToWrite.txt")
	cat := NewWriteCatalog(dir)

	if cat.MethodCount() != 12 {
		t.Fatalf("MethodCount() = %d, want 12", cat.MethodCount())
	}

	for id := 1; id <= cat.MethodCount(); id++ {
		if err := os.WriteFile(target, []byte("stale\n"), 0o644); err != nil {
			t.Fatalf("seed target: %v", err)
		}
		msg, err := cat.AccessByID(context.Background(), id)
		if err != nil {
			t.Errorf("id %d: unexpected error: %v", id, err)
			continue
		}
		if !strings.HasPrefix(msg, "Successfully written resource at ") {
			t.Errorf("id %d: message %q", id, msg)
		}
		data, err := os.ReadFile(target)
		if err != nil {
			t.Errorf("id %d: read back: %v", id, err)
			continue
		}
		if strings.Contains(string(data), "stale") {
			t.Errorf("id %d: target not rewritten: %q", id, data)
		}
		if len(data) == 0 {
			t.Errorf("id %d: target left empty", id)
		}
	}
}

func TestWriteCatalogMissingFile(t *testing.T) {
	cat := NewWriteCatalog(t.TempDir())
	msg, err := cat.AccessByID(context.Background(), 1)
	if err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(msg, "Failed to write resource at ") {
		t.Errorf("message %q", msg)
	}
}

func TestCreateCatalogAllVariants(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "FileToCreate.txt")
	cat := NewCreateCatalog(dir)

	if cat.MethodCount() != 8 {
		t.Fatalf("MethodCount() = %d, want 8", cat.MethodCount())
	}

	for id := 1; id <= cat.MethodCount(); id++ {
		msg, err := cat.AccessByID(context.Background(), id)
		if err != nil {
			t.Errorf("id %d: unexpected error: %v", id, err)
			continue
		}
		if !strings.HasPrefix(msg, "Successfully created resource at ") {
			t.Errorf("id %d: message %q", id, msg)
		}
		if _, statErr := os.Stat(target); !os.IsNotExist(statErr) {
			t.Errorf("id %d: target not cleaned up", id)
		}
	}
}

func TestCreateCatalogTargetAlreadyPresent(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "FileToCreate.txt")
	if err := os.WriteFile(target, []byte{}, 0o644); err != nil {
		t.Fatalf("seed target: %v", err)
	}
	cat := NewCreateCatalog(dir)
	msg, err := cat.AccessByID(context.Background(), 1)
	if err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(msg, "Failed to create resource at ") {
		t.Errorf("message %q", msg)
	}
}

func TestDeleteCatalogAllVariants(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "FileToDelete.txt")
	if err := os.WriteFile(target, []byte("doomed\n"), 0o644); err != nil {
		t.Fatalf("seed target: %v", err)
	}
	cat := NewDeleteCatalog(dir)

	if cat.MethodCount() != 5 {
		t.Fatalf("MethodCount() = %d, want 5", cat.MethodCount())
	}

	for id := 1; id <= cat.MethodCount(); id++ {
		msg, err := cat.AccessByID(context.Background(), id)
		if err != nil {
			t.Errorf("id %d: unexpected error: %v", id, err)
			continue
		}
		if !strings.HasPrefix(msg, "Successfully deleted file at path: ") {
			t.Errorf("id %d: message %q", id, msg)
		}
		// The catalogue restores the file for the next variant.
		if _, statErr := os.Stat(target); statErr != nil {
			t.Errorf("id %d: target not restored: %v", id, statErr)
		}
	}
}

func TestDeleteCatalogMissingFile(t *testing.T) {
	cat := NewDeleteCatalog(t.TempDir())
	msg, err := cat.AccessByID(context.Background(), 1)
	if err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(msg, "Failed to delete resource at ") {
		t.Errorf("message %q", msg)
	}
}

func scriptDir(t *testing.T) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("script fixture targets unix shells")
	}
	dir := t.TempDir()
	script := filepath.Join(dir, "FileToExecute.sh")
	body := "#!/bin/sh\necho script ran\n"
	if err := os.WriteFile(script, []byte(body), 0o755); err != nil {
		t.Fatalf("write script: %v", err)
	}
	return dir
}

func TestScriptCatalogAllVariants(t *testing.T) {
	cat := NewScriptCatalog(scriptDir(t))

	if cat.MethodCount() != 3 {
		t.Fatalf("MethodCount() = %d, want 3", cat.MethodCount())
	}

	for id := 1; id <= cat.MethodCount(); id++ {
		msg, err := cat.AccessByID(context.Background(), id)
		if err != nil {
			t.Errorf("id %d: unexpected error: %v", id, err)
			continue
		}
		if !strings.HasPrefix(msg, "Successfully executed path at ") {
			t.Errorf("id %d: message %q", id, msg)
		}
		if !strings.Contains(msg, "script ran") {
			t.Errorf("id %d: message %q missing script output", id, msg)
		}
	}
}

func TestScriptCatalogNotExecutable(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("permission bits are unix specific")
	}
	dir := t.TempDir()
	script := filepath.Join(dir, "FileToExecute.sh")
	if err := os.WriteFile(script, []byte("#!/bin/sh\n"), 0o644); err != nil {
		t.Fatalf("write script: %v", err)
	}
	cat := NewScriptCatalog(dir)
	msg, err := cat.AccessByID(context.Background(), 1)
	if err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(msg, "Failed to execute path at ") {
		t.Errorf("message %q", msg)
	}
}
