package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"estate-go/internal/catalog"
	"estate-go/internal/database/migrations"
	"estate-go/internal/estate"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

const timeLayout = time.RFC3339Nano

// SQLiteDatabase stores the catalog snapshot in SQLite. Properties keep their
// catalog order through the position column.
type SQLiteDatabase struct {
	db   *sql.DB
	path string
	now  func() time.Time
}

// NewSQLiteDatabase opens the database at path and applies pending
// migrations. path can be a file path or ":memory:".
func NewSQLiteDatabase(path string) (*SQLiteDatabase, error) {
	db, err := OpenConnection(path)
	if err != nil {
		return nil, err
	}
	if err := migrations.MigrateUp(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrating database: %w", err)
	}
	return &SQLiteDatabase{db: db, path: path, now: time.Now}, nil
}

// OpenConnection opens and configures a SQLite connection with the PRAGMAs
// the catalog schema relies on.
func OpenConnection(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// Every pooled connection to ":memory:" would get its own empty database,
	// and SQLite serializes writers anyway.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}
	return db, nil
}

// LoadSnapshot reads the stored catalog. It returns nil, nil when nothing
// has been saved yet, so callers can tell a fresh database from an emptied
// catalog.
func (s *SQLiteDatabase) LoadSnapshot() (*catalog.Snapshot, error) {
	ctx := context.Background()

	var savedAt string
	err := s.db.QueryRowContext(ctx, "SELECT saved_at FROM catalog_state WHERE id = 1").Scan(&savedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading catalog state: %w", err)
	}

	props, err := s.loadProperties(ctx)
	if err != nil {
		return nil, err
	}
	favs, err := s.loadFavorites(ctx)
	if err != nil {
		return nil, err
	}
	return &catalog.Snapshot{Properties: props, Favorites: favs}, nil
}

func (s *SQLiteDatabase) loadProperties(ctx context.Context) ([]catalog.Property, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, description, location, price, kind, bedrooms, bathrooms,
		       area, image_ref, features, created_at
		FROM properties
		ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("querying properties: %w", err)
	}
	defer rows.Close()

	props := []catalog.Property{}
	for rows.Next() {
		var (
			p         catalog.Property
			kind      string
			features  string
			createdAt string
		)
		if err := rows.Scan(&p.ID, &p.Title, &p.Description, &p.Location, &p.Price, &kind,
			&p.Bedrooms, &p.Bathrooms, &p.Area, &p.ImageRef, &features, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning property: %w", err)
		}
		p.Kind = catalog.Kind(kind)
		if err := json.Unmarshal([]byte(features), &p.Features); err != nil {
			return nil, fmt.Errorf("decoding features of property %s: %w", p.ID, err)
		}
		if p.Features == nil {
			p.Features = []string{}
		}
		if p.CreatedAt, err = time.Parse(timeLayout, createdAt); err != nil {
			return nil, fmt.Errorf("parsing created_at of property %s: %w", p.ID, err)
		}
		props = append(props, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating properties: %w", err)
	}
	return props, nil
}

func (s *SQLiteDatabase) loadFavorites(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT property_id FROM favorites ORDER BY property_id")
	if err != nil {
		return nil, fmt.Errorf("querying favorites: %w", err)
	}
	defer rows.Close()

	favs := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning favorite: %w", err)
		}
		favs = append(favs, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating favorites: %w", err)
	}
	return favs, nil
}

// SaveSnapshot replaces the stored catalog with snap. Either the whole
// snapshot is written or nothing changes.
func (s *SQLiteDatabase) SaveSnapshot(snap *catalog.Snapshot) error {
	if err := snap.Validate(); err != nil {
		return err
	}
	ctx := context.Background()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	// favorites rows go with their properties via ON DELETE CASCADE
	if _, err := tx.ExecContext(ctx, "DELETE FROM properties"); err != nil {
		return fmt.Errorf("clearing properties: %w", err)
	}

	insertProperty, err := tx.PrepareContext(ctx, `
		INSERT INTO properties (id, title, description, location, price, kind, bedrooms,
		                        bathrooms, area, image_ref, features, created_at, position)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing property insert: %w", err)
	}
	defer insertProperty.Close()

	for i, p := range snap.Properties {
		features := p.Features
		if features == nil {
			features = []string{}
		}
		encoded, err := json.Marshal(features)
		if err != nil {
			return fmt.Errorf("encoding features of property %s: %w", p.ID, err)
		}
		if _, err := insertProperty.ExecContext(ctx, p.ID, p.Title, p.Description, p.Location,
			p.Price, string(p.Kind), p.Bedrooms, p.Bathrooms, p.Area, p.ImageRef,
			string(encoded), p.CreatedAt.UTC().Format(timeLayout), i); err != nil {
			return fmt.Errorf("inserting property %s: %w", p.ID, err)
		}
	}

	for _, id := range snap.Favorites {
		if _, err := tx.ExecContext(ctx, "INSERT INTO favorites (property_id) VALUES (?)", id); err != nil {
			return fmt.Errorf("inserting favorite %s: %w", id, err)
		}
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO catalog_state (id, saved_at) VALUES (1, ?)
		ON CONFLICT(id) DO UPDATE SET saved_at = excluded.saved_at`,
		s.now().UTC().Format(timeLayout)); err != nil {
		return fmt.Errorf("recording save time: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing snapshot: %w", err)
	}
	return nil
}

// SavedAt returns when the catalog was last saved. ok is false for a fresh
// database.
func (s *SQLiteDatabase) SavedAt() (t time.Time, ok bool, err error) {
	var raw string
	err = s.db.QueryRow("SELECT saved_at FROM catalog_state WHERE id = 1").Scan(&raw)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return time.Time{}, false, nil
		}
		return time.Time{}, false, fmt.Errorf("reading catalog state: %w", err)
	}
	t, err = time.Parse(timeLayout, raw)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("parsing saved_at: %w", err)
	}
	return t, true, nil
}

// Path returns the database file path (or ":memory:" for in-memory databases).
func (s *SQLiteDatabase) Path() string {
	return s.path
}

// CheckMigrations verifies the database schema is up-to-date.
func (s *SQLiteDatabase) CheckMigrations() error {
	return migrations.CheckDBMigrationStatus(s.db)
}

// BackupTo writes a complete copy of the database to destPath using VACUUM INTO.
func (s *SQLiteDatabase) BackupTo(destPath string) error {
	if _, err := s.db.Exec("VACUUM INTO ?", destPath); err != nil {
		return fmt.Errorf("backing up database: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (s *SQLiteDatabase) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

var _ estate.Repository = (*SQLiteDatabase)(nil)
