package archive

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"estate-go/internal/estate"
)

func TestMemoryArchive_PutAndGet(t *testing.T) {
	a := NewMemoryArchive("test-archive")

	tests := []struct {
		name    string
		object  string
		content string
	}{
		{name: "store and retrieve", object: "catalog.json", content: `{"format":"estate-catalog"}`},
		{name: "empty object", object: "empty.json", content: ""},
		{name: "large object", object: "large.json", content: strings.Repeat("x", 10000)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := a.Put(tt.object, strings.NewReader(tt.content), int64(len(tt.content))); err != nil {
				t.Fatalf("Put() error = %v", err)
			}

			var buf bytes.Buffer
			if err := a.Get(tt.object, &buf); err != nil {
				t.Fatalf("Get() error = %v", err)
			}
			if got := buf.String(); got != tt.content {
				t.Errorf("Get() = %q, want %q", got, tt.content)
			}
		})
	}
}

func TestMemoryArchive_PutReplaces(t *testing.T) {
	a := NewMemoryArchive("test-archive")

	for _, content := range []string{"first", "second"} {
		if err := a.Put("x.json", strings.NewReader(content), int64(len(content))); err != nil {
			t.Fatalf("Put() error = %v", err)
		}
	}

	var buf bytes.Buffer
	if err := a.Get("x.json", &buf); err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if buf.String() != "second" {
		t.Errorf("Get() = %q, want %q", buf.String(), "second")
	}
}

func TestMemoryArchive_SizeMismatch(t *testing.T) {
	a := NewMemoryArchive("test-archive")
	if err := a.Put("x.json", strings.NewReader("abc"), 10); err == nil {
		t.Error("Put() expected size mismatch error")
	}
}

func TestMemoryArchive_GetMissing(t *testing.T) {
	a := NewMemoryArchive("test-archive")

	var buf bytes.Buffer
	err := a.Get("missing.json", &buf)
	if !errors.Is(err, estate.ErrExportNotFound) {
		t.Errorf("Get() error = %v, want ErrExportNotFound", err)
	}
}

func TestMemoryArchive_List(t *testing.T) {
	a := NewMemoryArchive("test-archive")
	for _, name := range []string{"b.json", "a.json.age", "c.json"} {
		if err := a.Put(name, strings.NewReader(name), int64(len(name))); err != nil {
			t.Fatalf("Put(%s) error = %v", name, err)
		}
	}

	entries, err := a.List()
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	var names []string
	for _, e := range entries {
		names = append(names, e.Name)
	}
	if strings.Join(names, ",") != "a.json.age,b.json,c.json" {
		t.Errorf("List() names = %v, want sorted", names)
	}
	if entries[1].Size != int64(len("b.json")) {
		t.Errorf("entries[1].Size = %d, want %d", entries[1].Size, len("b.json"))
	}
}

func TestCheckName(t *testing.T) {
	tests := []struct {
		name    string
		wantErr bool
	}{
		{"catalog.json", false},
		{"catalog-20240115T103000Z.json.age", false},
		{"", true},
		{".hidden", true},
		{"../escape.json", true},
		{"dir/file.json", true},
		{`dir\file.json`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := checkName(tt.name); (err != nil) != tt.wantErr {
				t.Errorf("checkName(%q) error = %v, wantErr %v", tt.name, err, tt.wantErr)
			}
		})
	}
}
