// Package storage persists page documents by name.
//
// Two repositories are provided: a diskv directory of JSON blobs and a SQLite
// table. Open picks one from the storage configuration.
package storage

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"time"

	"github.com/dshills/pagecraft/internal/config"
	"github.com/dshills/pagecraft/internal/engine/page"
)

// Errors returned by repositories.
var (
	ErrNotFound    = errors.New("document not found")
	ErrInvalidName = errors.New("invalid document name")
)

// Info describes a stored document.
type Info struct {
	Name      string
	UpdatedAt time.Time
	Size      int64
}

// Repository stores documents under unique names.
type Repository interface {
	// Load returns the named document or ErrNotFound.
	Load(ctx context.Context, name string) (*page.Document, error)

	// Save creates or replaces the named document.
	Save(ctx context.Context, name string, doc *page.Document) error

	// List returns every stored document sorted by name.
	List(ctx context.Context) ([]Info, error)

	// Delete removes the named document. Deleting an absent name is not an
	// error.
	Delete(ctx context.Context, name string) error

	Close() error
}

var nameRE = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]{0,127}$`)

// ValidateName checks that name can be used as a document key.
func ValidateName(name string) error {
	if !nameRE.MatchString(name) {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}

// Open returns the repository selected by cfg.Driver.
func Open(cfg config.StorageConfig) (Repository, error) {
	switch cfg.Driver {
	case config.DriverDiskv, "":
		return NewDiskvRepository(filepath.Join(cfg.Path, "documents"))
	case config.DriverSQLite:
		return NewSQLiteRepository(filepath.Join(cfg.Path, "pagecraft.db"))
	}
	return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
}
