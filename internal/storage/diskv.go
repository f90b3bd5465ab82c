package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/peterbourgon/diskv/v3"

	"github.com/dshills/pagecraft/internal/engine/page"
)

const docExt = ".json"

// DiskvRepository keeps one JSON file per document.
type DiskvRepository struct {
	d        *diskv.Diskv
	basePath string
}

// NewDiskvRepository stores documents under basePath.
func NewDiskvRepository(basePath string) (*DiskvRepository, error) {
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("storage: ensure base path: %w", err)
	}
	return &DiskvRepository{
		d: diskv.New(diskv.Options{
			BasePath:          basePath,
			AdvancedTransform: keyToPath,
			InverseTransform:  pathToKey,
			CacheSizeMax:      1024 * 1024, // 1MB
		}),
		basePath: basePath,
	}, nil
}

func keyToPath(key string) *diskv.PathKey {
	return &diskv.PathKey{FileName: key + docExt}
}

func pathToKey(pk *diskv.PathKey) string {
	return strings.TrimSuffix(pk.FileName, docExt)
}

// Load implements Repository.
func (r *DiskvRepository) Load(ctx context.Context, name string) (*page.Document, error) {
	if err := ValidateName(name); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := r.d.Read(name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		return nil, err
	}
	return Decode(JSON, data)
}

// Save implements Repository.
func (r *DiskvRepository) Save(ctx context.Context, name string, doc *page.Document) error {
	if err := ValidateName(name); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := JSON.Marshal(doc)
	if err != nil {
		return err
	}
	return r.d.Write(name, data)
}

// List implements Repository.
func (r *DiskvRepository) List(ctx context.Context) ([]Info, error) {
	var out []Info
	for key := range r.d.Keys(ctx.Done()) {
		if ValidateName(key) != nil {
			continue
		}
		info, err := os.Stat(filepath.Join(r.basePath, key+docExt))
		if err != nil {
			continue
		}
		out = append(out, Info{Name: key, UpdatedAt: info.ModTime(), Size: info.Size()})
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// Delete implements Repository.
func (r *DiskvRepository) Delete(ctx context.Context, name string) error {
	if err := ValidateName(name); err != nil {
		return err
	}
	if !r.d.Has(name) {
		return nil
	}
	return r.d.Erase(name)
}

// Close implements Repository.
func (r *DiskvRepository) Close() error {
	return nil
}
