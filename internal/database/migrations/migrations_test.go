package migrations

import (
	"database/sql"
	"errors"
	"testing"

	_ "github.com/mattn/go-sqlite3"
)

func TestMigrateUp_FreshDatabase(t *testing.T) {
	db := openTestDB(t)

	if err := MigrateUp(db); err != nil {
		t.Fatalf("MigrateUp() failed: %v", err)
	}

	tables := []string{"properties", "favorites", "catalog_state", "schema_migrations"}
	for _, table := range tables {
		var name string
		err := db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name)
		if err != nil {
			t.Errorf("Table %s was not created: %v", table, err)
		}
	}
}

func TestCheckDBMigrationStatus_FreshDatabase(t *testing.T) {
	db := openTestDB(t)

	err := CheckDBMigrationStatus(db)
	if err == nil {
		t.Fatal("CheckDBMigrationStatus() expected error for fresh database, got nil")
	}
	if !errors.Is(err, ErrNoSchema) {
		t.Errorf("CheckDBMigrationStatus() error = %v, want ErrNoSchema", err)
	}
}

func TestCheckDBMigrationStatus_AfterMigration(t *testing.T) {
	db := openTestDB(t)

	if err := MigrateUp(db); err != nil {
		t.Fatalf("MigrateUp() failed: %v", err)
	}
	if err := CheckDBMigrationStatus(db); err != nil {
		t.Errorf("CheckDBMigrationStatus() after migration returned error: %v", err)
	}

	version, dirty, err := SchemaVersion(db)
	if err != nil {
		t.Fatalf("SchemaVersion() error = %v", err)
	}
	latest, err := LatestVersion()
	if err != nil {
		t.Fatalf("LatestVersion() error = %v", err)
	}
	if version != latest || dirty {
		t.Errorf("SchemaVersion() = %d, %v, want %d, false", version, dirty, latest)
	}
}

func TestMigrateUp_Idempotent(t *testing.T) {
	db := openTestDB(t)

	if err := MigrateUp(db); err != nil {
		t.Fatalf("First MigrateUp() failed: %v", err)
	}
	if err := MigrateUp(db); err != nil {
		t.Errorf("Second MigrateUp() failed: %v (should be idempotent)", err)
	}
	if err := CheckDBMigrationStatus(db); err != nil {
		t.Errorf("CheckDBMigrationStatus() after double migration returned error: %v", err)
	}
}

func TestSchema_FavoriteRequiresProperty(t *testing.T) {
	db := openTestDB(t)
	if err := MigrateUp(db); err != nil {
		t.Fatalf("MigrateUp() failed: %v", err)
	}

	if _, err := db.Exec("INSERT INTO favorites (property_id) VALUES ('missing')"); err == nil {
		t.Error("Expected foreign key constraint violation, but insert succeeded")
	}
}

func TestSchema_FavoriteCascade(t *testing.T) {
	db := openTestDB(t)
	if err := MigrateUp(db); err != nil {
		t.Fatalf("MigrateUp() failed: %v", err)
	}

	insertProperty(t, db, "1", "sale", 100)
	if _, err := db.Exec("INSERT INTO favorites (property_id) VALUES ('1')"); err != nil {
		t.Fatalf("inserting favorite: %v", err)
	}
	if _, err := db.Exec("DELETE FROM properties WHERE id = '1'"); err != nil {
		t.Fatalf("deleting property: %v", err)
	}

	var n int
	if err := db.QueryRow("SELECT COUNT(*) FROM favorites").Scan(&n); err != nil {
		t.Fatalf("counting favorites: %v", err)
	}
	if n != 0 {
		t.Errorf("favorites count = %d after deleting property, want 0", n)
	}
}

func TestSchema_PropertyChecks(t *testing.T) {
	tests := []struct {
		name  string
		kind  string
		price float64
	}{
		{"unknown kind", "lease", 100},
		{"negative price", "sale", -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := openTestDB(t)
			if err := MigrateUp(db); err != nil {
				t.Fatalf("MigrateUp() failed: %v", err)
			}
			_, err := db.Exec(`INSERT INTO properties
				(id, title, location, price, kind, bedrooms, bathrooms, area, created_at, position)
				VALUES ('x', 't', 'l', ?, ?, 1, 1, 10, '2024-01-15T00:00:00Z', 0)`, tt.price, tt.kind)
			if err == nil {
				t.Error("Expected check constraint violation, but insert succeeded")
			}
		})
	}
}

func insertProperty(t *testing.T, db *sql.DB, id, kind string, price float64) {
	t.Helper()
	_, err := db.Exec(`INSERT INTO properties
		(id, title, location, price, kind, bedrooms, bathrooms, area, created_at, position)
		VALUES (?, 't', 'l', ?, ?, 1, 1, 10, '2024-01-15T00:00:00Z', 0)`, id, price, kind)
	if err != nil {
		t.Fatalf("inserting property %s: %v", id, err)
	}
}

// openTestDB opens an in-memory SQLite database with foreign keys enabled.
func openTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	// A second pooled connection would see a different in-memory database.
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		t.Fatalf("Failed to enable foreign keys: %v", err)
	}
	return db
}
