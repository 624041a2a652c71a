package archive

import (
	"bytes"
	"fmt"
	"io"
	"slices"
	"strings"
	"sync"
	"time"

	"estate-go/internal/estate"
)

type memoryObject struct {
	data       []byte
	modifiedAt time.Time
}

// MemoryArchive is an in-memory implementation of the Archive interface.
// It is useful for testing. This implementation is safe for concurrent use.
type MemoryArchive struct {
	name    string
	objects map[string]memoryObject
	mu      sync.RWMutex
}

// NewMemoryArchive creates a new in-memory archive with the given name.
func NewMemoryArchive(name string) *MemoryArchive {
	return &MemoryArchive{
		name:    name,
		objects: make(map[string]memoryObject),
	}
}

func (m *MemoryArchive) Name() string { return m.name }

// Put stores the object, replacing any previous one with the same name.
func (m *MemoryArchive) Put(name string, r io.Reader, size int64) error {
	if err := checkName(name); err != nil {
		return err
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("failed to read object: %w", err)
	}
	if int64(len(data)) != size {
		return fmt.Errorf("size mismatch: expected %d bytes, got %d", size, len(data))
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[name] = memoryObject{data: data, modifiedAt: time.Now()}
	return nil
}

// Get writes the named object to w.
func (m *MemoryArchive) Get(name string, w io.Writer) error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	obj, ok := m.objects[name]
	if !ok {
		return fmt.Errorf("%s: %w", name, estate.ErrExportNotFound)
	}
	if _, err := io.Copy(w, bytes.NewReader(obj.data)); err != nil {
		return fmt.Errorf("failed to write object: %w", err)
	}
	return nil
}

// List returns all objects ordered by name.
func (m *MemoryArchive) List() ([]estate.ArchiveEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	entries := make([]estate.ArchiveEntry, 0, len(m.objects))
	for name, obj := range m.objects {
		entries = append(entries, estate.ArchiveEntry{
			Name:       name,
			Size:       int64(len(obj.data)),
			ModifiedAt: obj.modifiedAt,
		})
	}
	slices.SortFunc(entries, func(a, b estate.ArchiveEntry) int { return strings.Compare(a.Name, b.Name) })
	return entries, nil
}

// ValidateSetup always succeeds for an in-memory archive.
func (m *MemoryArchive) ValidateSetup() error {
	return nil
}

var _ estate.Archive = (*MemoryArchive)(nil)
