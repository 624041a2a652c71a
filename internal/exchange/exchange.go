// Package exchange defines the portable JSON document used to export and
// import a catalog. Documents are checked against an embedded JSON Schema
// before they are decoded.
package exchange

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"estate-go/internal/catalog"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

const (
	Format  = "estate-catalog"
	Version = 1

	schemaPath = "schemas/catalog-v1.json"
)

//go:embed schemas/*.json
var schemaFS embed.FS

// Document is the on-disk form of a catalog snapshot.
type Document struct {
	Format     string             `json:"format"`
	Version    int                `json:"version"`
	ExportedAt time.Time          `json:"exportedAt"`
	Properties []catalog.Property `json:"properties"`
	Favorites  []string           `json:"favorites"`
}

var compileSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	compiler.AssertFormat = true

	f, err := schemaFS.Open(schemaPath)
	if err != nil {
		return nil, fmt.Errorf("opening schema: %w", err)
	}
	defer f.Close()

	if err := compiler.AddResource(schemaPath, f); err != nil {
		return nil, fmt.Errorf("adding schema resource: %w", err)
	}
	return compiler.Compile(schemaPath)
})

// Encode renders snap as an indented Document stamped with exportedAt.
func Encode(snap *catalog.Snapshot, exportedAt time.Time) ([]byte, error) {
	c := snap.Clone()
	if c.Favorites == nil {
		c.Favorites = []string{}
	}
	doc := Document{
		Format:     Format,
		Version:    Version,
		ExportedAt: exportedAt.UTC(),
		Properties: c.Properties,
		Favorites:  c.Favorites,
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding catalog: %w", err)
	}
	return data, nil
}

// Validate checks data against the catalog schema without decoding it.
func Validate(data []byte) error {
	schema, err := compileSchema()
	if err != nil {
		return fmt.Errorf("compiling schema: %w", err)
	}

	var v interface{}
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("document is not valid JSON: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("document does not match schema: %w", err)
	}
	return nil
}

// Decode validates data and converts it back into a snapshot. The snapshot's
// own invariants (unique identifiers) are checked as well.
func Decode(data []byte) (*catalog.Snapshot, time.Time, error) {
	if err := Validate(data); err != nil {
		return nil, time.Time{}, err
	}

	var doc Document
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&doc); err != nil {
		return nil, time.Time{}, fmt.Errorf("decoding catalog: %w", err)
	}

	snap := &catalog.Snapshot{Properties: doc.Properties, Favorites: doc.Favorites}
	if err := snap.Validate(); err != nil {
		return nil, time.Time{}, err
	}
	return snap, doc.ExportedAt, nil
}
