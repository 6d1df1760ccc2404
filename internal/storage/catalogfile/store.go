// Package catalogfile implements the product catalog on top of a single JSON
// file. The whole product list is the unit of persistence: every create
// rewrites the file through a temp-file rename, so a concurrent reader sees
// either the pre-write or the post-write list, never a truncated one.
package catalogfile

import (
	"context"
	"os"
	"path/filepath"
	"sync"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"

	"github.com/dsoler/futurshop/internal/domain/catalog"
)

var _ catalog.Repository = (*Store)(nil)

// Store is a catalog.Repository backed by one pretty-printed JSON array on
// disk. All mutation goes through a single mutex, which removes the
// read-modify-write race two concurrent creates would otherwise have on the
// file.
type Store struct {
	path string

	mu       sync.RWMutex
	products []catalog.Product // newest first
}

// Open loads the catalog file at path, creating an empty one when it does
// not exist yet.
func Open(path string) (*Store, error) {
	s := &Store{path: path}

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		if err := s.persist(nil); err != nil {
			return nil, errors.Wrap(err, "initialize catalog file")
		}
		return s, nil
	case err != nil:
		return nil, errors.Wrap(err, "read catalog file")
	}

	products, err := catalog.DecodeProducts(jx.DecodeBytes(data))
	if err != nil {
		return nil, errors.Wrap(err, "decode catalog file")
	}
	s.products = products
	return s, nil
}

// List returns a copy of all products, most-recently-created first.
func (s *Store) List(_ context.Context) ([]catalog.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]catalog.Product, len(s.products))
	copy(out, s.products)
	return out, nil
}

// GetByID returns a single product by its identifier.
func (s *Store) GetByID(_ context.Context, id string) (*catalog.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i := range s.products {
		if s.products[i].ID == id {
			p := s.products[i]
			return &p, nil
		}
	}
	return nil, catalog.ErrNotFound
}

// Create validates the input, assigns an id, prepends the new product, and
// rewrites the whole catalog file.
func (s *Store) Create(_ context.Context, input catalog.Input) (*catalog.Product, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	p := catalog.Product{
		ID:          catalog.NewID(),
		Name:        input.Name,
		Description: input.Description,
		Category:    input.Category,
		Price:       input.Price,
		Images:      input.Images,
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next := make([]catalog.Product, 0, len(s.products)+1)
	next = append(next, p)
	next = append(next, s.products...)

	if err := s.persist(next); err != nil {
		return nil, errors.Wrap(err, "persist catalog")
	}
	s.products = next
	return &p, nil
}

// Ping reports whether the backing file is still reachable.
func (s *Store) Ping(_ context.Context) error {
	_, err := os.Stat(s.path)
	return err
}

// persist writes the full product list to a temp file in the same directory
// and renames it over the catalog file. The caller must hold mu for writing
// (or be the only goroutine with access, as in Open).
func (s *Store) persist(products []catalog.Product) error {
	var e jx.Encoder
	e.SetIdent(2)
	catalog.EncodeProducts(&e, products)

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".catalog-*.json")
	if err != nil {
		return errors.Wrap(err, "create temp file")
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(append(e.Bytes(), '\n')); err != nil {
		tmp.Close()
		return errors.Wrap(err, "write temp file")
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(err, "close temp file")
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return errors.Wrap(err, "replace catalog file")
	}
	return nil
}
