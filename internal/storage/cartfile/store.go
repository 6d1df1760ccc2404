// Package cartfile persists a cart to a single JSON file so it survives
// between CLI runs. The cart is re-read before every command, so external
// changes to the file between runs are observable.
package cartfile

import (
	"os"
	"path/filepath"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"

	"github.com/dsoler/futurshop/internal/domain/cart"
	"github.com/dsoler/futurshop/internal/domain/catalog"
)

// Store reads and writes the serialized cart array at a fixed path.
type Store struct {
	path string
}

// New returns a Store for the given file path.
func New(path string) *Store {
	return &Store{path: path}
}

// Load hydrates a cart from disk. A missing or empty file yields an empty
// cart rather than an error.
func (s *Store) Load() (*cart.Cart, error) {
	data, err := os.ReadFile(s.path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return cart.New(nil), nil
	case err != nil:
		return nil, errors.Wrap(err, "read cart file")
	}
	if len(data) == 0 {
		return cart.New(nil), nil
	}

	entries, err := catalog.DecodeProducts(jx.DecodeBytes(data))
	if err != nil {
		return nil, errors.Wrap(err, "decode cart file")
	}
	return cart.New(entries), nil
}

// Save writes the whole cart back to disk, creating parent directories as
// needed.
func (s *Store) Save(c *cart.Cart) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return errors.Wrap(err, "create cart dir")
	}

	var e jx.Encoder
	catalog.EncodeProducts(&e, c.Entries())

	if err := os.WriteFile(s.path, e.Bytes(), 0o644); err != nil {
		return errors.Wrap(err, "write cart file")
	}
	return nil
}
