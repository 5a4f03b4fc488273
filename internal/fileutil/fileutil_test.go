package fileutil

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestWriteTempFile(t *testing.T) {
	t.Parallel()

	path, cleanup, err := WriteTempFile("<html>content</html>", "html")
	if err != nil {
		t.Fatalf("WriteTempFile: %v", err)
	}
	defer cleanup()

	if !strings.HasSuffix(path, ".html") {
		t.Errorf("path %q missing extension", path)
	}

	content, err := os.ReadFile(path) // #nosec G304 -- path from CreateTemp
	if err != nil {
		t.Fatalf("reading temp file: %v", err)
	}
	if string(content) != "<html>content</html>" {
		t.Errorf("content = %q, want the written string", content)
	}
}

func TestWriteTempFile_CleanupRemovesFile(t *testing.T) {
	t.Parallel()

	path, cleanup, err := WriteTempFile("x", "html")
	if err != nil {
		t.Fatalf("WriteTempFile: %v", err)
	}

	cleanup()
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("file %q still exists after cleanup", path)
	}
}

func TestWriteTempFile_InvalidExtension(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		ext     string
		wantErr error
	}{
		{name: "empty", ext: "", wantErr: ErrExtensionEmpty},
		{name: "path separator", ext: "html/../../etc", wantErr: ErrExtensionPathTraversal},
		{name: "backslash", ext: `html\evil`, wantErr: ErrExtensionPathTraversal},
		{name: "null byte", ext: "html\x00", wantErr: ErrExtensionPathTraversal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, _, err := WriteTempFile("x", tt.ext)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("err = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestEnsureDir(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "a", "b", "c")
	if err := EnsureDir(dir); err != nil {
		t.Fatalf("EnsureDir: %v", err)
	}

	info, err := os.Stat(dir)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if !info.IsDir() {
		t.Error("EnsureDir should create a directory")
	}

	// Idempotent on existing directories.
	if err := EnsureDir(dir); err != nil {
		t.Errorf("EnsureDir on existing dir: %v", err)
	}
}

func TestFileExists(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	file := filepath.Join(dir, "f.txt")
	if err := os.WriteFile(file, []byte("x"), FilePermissions); err != nil {
		t.Fatalf("writing test file: %v", err)
	}

	if !FileExists(file) {
		t.Error("FileExists should report existing regular files")
	}
	if FileExists(dir) {
		t.Error("FileExists should reject directories")
	}
	if FileExists(filepath.Join(dir, "missing")) {
		t.Error("FileExists should reject missing paths")
	}
}
