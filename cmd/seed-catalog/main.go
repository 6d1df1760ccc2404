// Command seed-catalog bulk-loads products from a JSON fixture file into the
// catalog file, running every entry through the same validation as the API.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"log/slog"
	"os"
	"os/signal"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/dsoler/futurshop/internal/domain/catalog"
	"github.com/dsoler/futurshop/internal/storage/catalogfile"
)

type productJSON struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Price       decimal.Decimal `json:"price"`
	Images      []string        `json:"images"`
}

func main() {
	var (
		catalogPath  string
		productsFile string
	)

	flag.StringVar(&catalogPath, "catalog", "data/catalog.json", "path to the catalog file")
	flag.StringVar(&productsFile, "products-file", "db/seed/products.json", "path to products JSON file")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, catalogPath, productsFile); err != nil {
		slog.Error("catalog seed failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("catalog seed completed successfully")
}

func run(ctx context.Context, catalogPath, productsFile string) error {
	data, err := os.ReadFile(productsFile)
	if err != nil {
		return errors.Wrap(err, "read products file")
	}

	var entries []productJSON
	if err := json.Unmarshal(data, &entries); err != nil {
		return errors.Wrap(err, "parse products file")
	}
	if len(entries) == 0 {
		slog.Info("no products to seed")
		return nil
	}

	store, err := catalogfile.Open(catalogPath)
	if err != nil {
		return errors.Wrap(err, "open catalog")
	}

	for i, entry := range entries {
		p, err := store.Create(ctx, catalog.Input{
			Name:        entry.Name,
			Description: entry.Description,
			Category:    entry.Category,
			Price:       entry.Price,
			Images:      entry.Images,
		})
		if err != nil {
			return errors.Wrapf(err, "seed product %d (%s)", i, entry.Name)
		}
		slog.Info("seeded product", slog.String("id", p.ID), slog.String("name", p.Name))
	}

	return nil
}
