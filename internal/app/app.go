package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"estate-go/internal/archive"
	"estate-go/internal/catalog"
	"estate-go/internal/config"
	"estate-go/internal/database"
	"estate-go/internal/encryption"
	"estate-go/internal/estate"
	"estate-go/internal/form"
	"estate-go/internal/pricefmt"
	"estate-go/internal/seed"
)

// EstateApp is the application layer between the CLI/HTTP server and
// EstateService. It constructs all dependencies from config, exposes
// operations that accept raw strings, and persists the catalog on Close.
type EstateApp struct {
	cfg       *config.Config
	db        *database.SQLiteDatabase
	archive   estate.Archive
	encryptor estate.Encryptor
	store     *catalog.Store
	service   *estate.EstateService
	formatter *pricefmt.Formatter
	op        *Operation
	logger    *slog.Logger
	logFile   *os.File

	seededOnLoad bool
	unsubscribe  func()
}

// Options select per-invocation behaviour of NewEstateApp.
type Options struct {
	// Operation names the command being run (e.g. "AddProperty", "Serve").
	Operation string
	// Archive selects a configured archive by name. Empty means the first.
	Archive string
	// Console receives leveled log output. Defaults to os.Stderr.
	Console io.Writer
}

// NewEstateApp creates a fully wired EstateApp from the given config and
// loads the persisted catalog. A fresh database is seeded with the sample
// listings when [catalog] seed_on_empty is set.
// The caller must call Close when done.
func NewEstateApp(cfg *config.Config, opts Options) (*EstateApp, error) {
	formatter, err := pricefmt.New(cfg.Locale.Tag, cfg.Locale.Currency, cfg.Locale.PerMonth)
	if err != nil {
		return nil, fmt.Errorf("creating price formatter: %w", err)
	}

	arch, err := newArchive(cfg.Archives, opts.Archive)
	if err != nil {
		return nil, err
	}

	enc, err := encryption.NewEncryptorFromConfig(cfg.Encryption)
	if err != nil {
		return nil, fmt.Errorf("creating encryptor: %w", err)
	}

	db, err := database.NewDatabaseFromConfig(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("creating database: %w", err)
	}
	if err := db.CheckMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("database schema out of date: %w", err)
	}

	console := opts.Console
	if console == nil {
		console = os.Stderr
	}
	op := NewOperation(opts.Operation, time.Now())
	logger, logFile, err := newLogger(cfg.LogDir, op.ID, cfg.Log, console)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating logger: %w", err)
	}

	store := catalog.NewStore(catalog.RealClock{}, catalog.UUIDGenerator{})
	svc := estate.NewEstateService(store, db, arch, enc, &slogAdapter{l: logger}, catalog.RealClock{})

	a := &EstateApp{
		cfg:       cfg,
		db:        db,
		archive:   arch,
		encryptor: enc,
		store:     store,
		service:   svc,
		formatter: formatter,
		op:        op,
		logger:    logger,
		logFile:   logFile,
	}

	if err := a.load(); err != nil {
		svc.Close()
		db.Close()
		logFile.Close()
		return nil, err
	}
	a.unsubscribe = store.Subscribe(func(uint64) { op.MarkDirty() })

	// Seeding a fresh database counts as a change so it gets saved.
	if a.seededOnLoad {
		op.MarkDirty()
	}
	return a, nil
}

func newArchive(cfgs []config.ArchiveConfig, name string) (estate.Archive, error) {
	acfg, err := archive.FindConfig(cfgs, name)
	if err != nil {
		if errors.Is(err, estate.ErrNoArchive) {
			return nil, nil
		}
		return nil, err
	}
	arch, err := archive.NewArchiveFromConfig(context.Background(), acfg)
	if err != nil {
		return nil, fmt.Errorf("creating archive %s: %w", acfg.Name, err)
	}
	return arch, nil
}

func (a *EstateApp) load() error {
	if _, err := a.service.Load(); err != nil {
		return err
	}
	_, saved, err := a.db.SavedAt()
	if err != nil {
		return fmt.Errorf("checking catalog state: %w", err)
	}
	if !saved && a.cfg.Catalog.SeedOnEmpty {
		seeded, err := a.service.Seed(seed.Snapshot())
		if err != nil {
			return err
		}
		a.seededOnLoad = seeded
	}
	return nil
}

// Formatter returns the configured price formatter.
func (a *EstateApp) Formatter() *pricefmt.Formatter { return a.formatter }

// Logger returns the application logger.
func (a *EstateApp) Logger() *slog.Logger { return a.logger }

// Operation returns the operation this app was created for.
func (a *EstateApp) Operation() *Operation { return a.op }

// AddProperty parses raw form values and adds the listing.
func (a *EstateApp) AddProperty(values form.Values) (catalog.Property, error) {
	in, err := form.ParseNew(values)
	if err != nil {
		return catalog.Property{}, a.fail(err)
	}
	p, err := a.service.AddProperty(in)
	return p, a.fail(err)
}

// UpdateProperty parses the supplied form values and applies them to the
// listing. Fields not present in values are left untouched.
func (a *EstateApp) UpdateProperty(id string, values form.Values) (catalog.Property, error) {
	patch, err := form.ParsePatch(values)
	if err != nil {
		return catalog.Property{}, a.fail(err)
	}
	p, err := a.service.UpdateProperty(id, patch)
	return p, a.fail(err)
}

// DeleteProperty removes a listing.
func (a *EstateApp) DeleteProperty(id string) error {
	return a.fail(a.service.DeleteProperty(id))
}

// ToggleFavorite flips a listing's favorite state and returns the new state.
func (a *EstateApp) ToggleFavorite(id string) (bool, error) {
	on, err := a.service.ToggleFavorite(id)
	return on, a.fail(err)
}

// GetProperty returns a single listing.
func (a *EstateApp) GetProperty(id string) (catalog.Property, error) {
	return a.service.GetProperty(id)
}

// IsFavorite reports whether the listing is favorited.
func (a *EstateApp) IsFavorite(id string) bool {
	return a.service.IsFavorite(id)
}

// Search parses the raw type filter and sort key and runs the query.
func (a *EstateApp) Search(text, typeFilter, sortKey string) ([]catalog.Property, error) {
	params, err := ParseQuery(text, typeFilter, sortKey)
	if err != nil {
		return nil, err
	}
	return a.service.Search(params), nil
}

// ParseQuery builds QueryParams from raw strings. Empty filter and sort
// values select all kinds and newest first.
func ParseQuery(text, typeFilter, sortKey string) (catalog.QueryParams, error) {
	tf, err := catalog.ParseTypeFilter(typeFilter)
	if err != nil {
		return catalog.QueryParams{}, err
	}
	sk, err := catalog.ParseSortKey(sortKey)
	if err != nil {
		return catalog.QueryParams{}, err
	}
	return catalog.QueryParams{SearchText: text, Type: tf, Sort: sk}, nil
}

// Favorites returns the favorited listings in catalog order.
func (a *EstateApp) Favorites() []catalog.Property {
	return a.service.Favorites()
}

// Stats summarizes the catalog.
func (a *EstateApp) Stats() catalog.Stats {
	return a.service.Stats()
}

// Seed loads the sample listings into an empty catalog.
func (a *EstateApp) Seed() (bool, error) {
	seeded, err := a.service.Seed(seed.Snapshot())
	return seeded, a.fail(err)
}

// Export writes the catalog to the selected archive.
func (a *EstateApp) Export(name string, encrypted bool) (string, error) {
	object, err := a.service.Export(name, encrypted)
	return object, a.fail(err)
}

// Import replaces the catalog with an export from the selected archive.
func (a *EstateApp) Import(name, passphrase string) (int, error) {
	n, err := a.service.Import(name, passphrase)
	return n, a.fail(err)
}

// ValidateArchive checks that the selected archive is reachable and usable.
func (a *EstateApp) ValidateArchive() error {
	if a.archive == nil {
		return estate.ErrNoArchive
	}
	return a.archive.ValidateSetup()
}

// ArchiveName returns the name of the selected archive, or "" if none is
// configured.
func (a *EstateApp) ArchiveName() string {
	if a.archive == nil {
		return ""
	}
	return a.archive.Name()
}

// ListExports lists the exports in the selected archive.
func (a *EstateApp) ListExports() ([]estate.ArchiveEntry, error) {
	return a.service.ListExports()
}

// Backup saves pending changes and copies the catalog database to dest.
func (a *EstateApp) Backup(dest string) error {
	if err := a.Save(); err != nil {
		return a.fail(err)
	}
	if err := a.db.BackupTo(dest); err != nil {
		return a.fail(fmt.Errorf("backing up catalog: %w", err))
	}
	return nil
}

// LastSaved reports when the catalog was last saved. ok is false for a
// database that has never been saved.
func (a *EstateApp) LastSaved() (t time.Time, ok bool, err error) {
	return a.db.SavedAt()
}

// Save persists the catalog immediately if it changed.
func (a *EstateApp) Save() error {
	if !a.op.Dirty() {
		return nil
	}
	return a.service.Save()
}

func (a *EstateApp) fail(err error) error {
	a.op.Fail(err)
	return err
}

// Close finalizes the operation and closes all resources.
// The catalog is saved only if the operation changed it.
func (a *EstateApp) Close() error {
	var firstErr error

	if a.unsubscribe != nil {
		a.unsubscribe()
	}
	if a.op.Dirty() {
		if err := a.service.Save(); err != nil {
			firstErr = err
		}
	}
	a.service.Close()

	if err := a.db.Close(); err != nil && firstErr == nil {
		firstErr = fmt.Errorf("closing database: %w", err)
	}

	a.logger.Debug("operation finished",
		"operation", a.op.Name,
		"status", a.op.Status(),
		"dirty", a.op.Dirty(),
		"duration", time.Since(a.op.StartedAt),
	)
	if a.logFile != nil {
		a.logFile.Close()
	}
	return firstErr
}
