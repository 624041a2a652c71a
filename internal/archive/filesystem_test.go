package archive

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"estate-go/internal/estate"
)

func TestNewFileSystemArchive(t *testing.T) {
	t.Run("creates root directory", func(t *testing.T) {
		root := filepath.Join(t.TempDir(), "exports")

		a, err := NewFileSystemArchive("test", root)
		if err != nil {
			t.Fatalf("NewFileSystemArchive() error = %v", err)
		}
		if _, err := os.Stat(root); err != nil {
			t.Errorf("root directory not created: %v", err)
		}
		if a.Name() != "test" {
			t.Errorf("Name() = %q, want %q", a.Name(), "test")
		}
	})

	t.Run("works with existing directory", func(t *testing.T) {
		if _, err := NewFileSystemArchive("test", t.TempDir()); err != nil {
			t.Fatalf("NewFileSystemArchive() error = %v", err)
		}
	})
}

func TestFileSystemArchive_Put(t *testing.T) {
	tests := []struct {
		name    string
		object  string
		data    string
		size    int64
		wantErr bool
	}{
		{name: "store successfully", object: "catalog.json", data: "hello world", size: 11},
		{name: "size mismatch", object: "bad.json", data: "hello", size: 100, wantErr: true},
		{name: "invalid name", object: "../x.json", data: "x", size: 1, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := t.TempDir()
			a, err := NewFileSystemArchive("test", root)
			if err != nil {
				t.Fatalf("NewFileSystemArchive() error = %v", err)
			}

			err = a.Put(tt.object, strings.NewReader(tt.data), tt.size)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Put() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				// No partial or temp files left behind.
				entries, _ := os.ReadDir(root)
				if len(entries) != 0 {
					t.Errorf("root has %d entries after failed Put, want 0", len(entries))
				}
				return
			}

			got, err := os.ReadFile(filepath.Join(root, tt.object))
			if err != nil {
				t.Fatalf("reading stored file: %v", err)
			}
			if string(got) != tt.data {
				t.Errorf("stored = %q, want %q", got, tt.data)
			}
		})
	}
}

func TestFileSystemArchive_Get(t *testing.T) {
	a, err := NewFileSystemArchive("test", t.TempDir())
	if err != nil {
		t.Fatalf("NewFileSystemArchive() error = %v", err)
	}

	t.Run("existing object", func(t *testing.T) {
		if err := a.Put("x.json", strings.NewReader("{}"), 2); err != nil {
			t.Fatalf("Put() error = %v", err)
		}
		var buf bytes.Buffer
		if err := a.Get("x.json", &buf); err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if buf.String() != "{}" {
			t.Errorf("Get() = %q, want %q", buf.String(), "{}")
		}
	})

	t.Run("missing object", func(t *testing.T) {
		var buf bytes.Buffer
		if err := a.Get("missing.json", &buf); !errors.Is(err, estate.ErrExportNotFound) {
			t.Errorf("Get() error = %v, want ErrExportNotFound", err)
		}
	})
}

func TestFileSystemArchive_List(t *testing.T) {
	root := t.TempDir()
	a, err := NewFileSystemArchive("test", root)
	if err != nil {
		t.Fatalf("NewFileSystemArchive() error = %v", err)
	}

	for _, name := range []string{"b.json", "a.json"} {
		if err := a.Put(name, strings.NewReader("data"), 4); err != nil {
			t.Fatalf("Put(%s) error = %v", name, err)
		}
	}
	// Leftovers that List must ignore.
	os.WriteFile(filepath.Join(root, ".tmp-123"), []byte("partial"), 0644)
	os.Mkdir(filepath.Join(root, "subdir"), 0755)

	entries, err := a.List()
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("len(List()) = %d, want 2", len(entries))
	}
	if entries[0].Name != "a.json" || entries[1].Name != "b.json" {
		t.Errorf("List() = [%s %s], want [a.json b.json]", entries[0].Name, entries[1].Name)
	}
	if entries[0].Size != 4 {
		t.Errorf("Size = %d, want 4", entries[0].Size)
	}
}

func TestFileSystemArchive_ValidateSetup(t *testing.T) {
	root := t.TempDir()
	a, err := NewFileSystemArchive("test", root)
	if err != nil {
		t.Fatalf("NewFileSystemArchive() error = %v", err)
	}

	if err := a.ValidateSetup(); err != nil {
		t.Errorf("ValidateSetup() error = %v", err)
	}

	os.RemoveAll(root)
	if err := a.ValidateSetup(); err == nil {
		t.Error("ValidateSetup() expected error after root removed")
	}
}
