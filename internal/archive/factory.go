package archive

import (
	"context"
	"fmt"

	"estate-go/internal/config"
	"estate-go/internal/estate"
)

// NewArchiveFromConfig creates an Archive implementation based on the archive config type.
func NewArchiveFromConfig(ctx context.Context, cfg config.ArchiveConfig) (estate.Archive, error) {
	switch cfg.Type {
	case "memory":
		return NewMemoryArchive(cfg.Name), nil
	case "s3":
		a, err := NewS3Archive(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return a, nil
	case "filesystem":
		if cfg.FSRoot == "" {
			return nil, fmt.Errorf("filesystem archive requires fs_root to be set")
		}
		a, err := NewFileSystemArchive(cfg.Name, cfg.FSRoot)
		if err != nil {
			return nil, err
		}
		return a, nil
	default:
		return nil, fmt.Errorf("unknown archive type: %s", cfg.Type)
	}
}

// FindConfig returns the archive config with the given name, or the first
// configured archive when name is empty.
func FindConfig(cfgs []config.ArchiveConfig, name string) (config.ArchiveConfig, error) {
	if len(cfgs) == 0 {
		return config.ArchiveConfig{}, estate.ErrNoArchive
	}
	if name == "" {
		return cfgs[0], nil
	}
	for _, c := range cfgs {
		if c.Name == name {
			return c, nil
		}
	}
	return config.ArchiveConfig{}, fmt.Errorf("archive %q is not configured", name)
}
