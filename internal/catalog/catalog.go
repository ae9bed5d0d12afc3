// Package catalog loads the static rental/sale catalog.
package catalog

import (
	"context"
	"embed"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"

	"booking_relay/internal/domain"
)

//go:embed data/rentals.json data/products.json
var embedded embed.FS

const (
	rentalsFile  = "rentals.json"
	productsFile = "products.json"
)

// section keys as they appear in the JSON documents, e.g. "audioRentals".
func sectionKey(kind domain.ActionType, category string) string {
	if kind == domain.ActionBuy {
		return category + "SaleItems"
	}
	return category + "Rentals"
}

// Parse builds a catalog from the rentals and products documents.
func Parse(rentals, products []byte) (*domain.Catalog, error) {
	r, err := parseSections(rentals, domain.ActionRent)
	if err != nil {
		return nil, errors.Wrap(err, "parse rentals")
	}
	p, err := parseSections(products, domain.ActionBuy)
	if err != nil {
		return nil, errors.Wrap(err, "parse products")
	}
	return &domain.Catalog{Rentals: r, Sales: p}, nil
}

func parseSections(b []byte, kind domain.ActionType) (map[string][]domain.CatalogItem, error) {
	var doc map[string][]domain.CatalogItem
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, err
	}
	out := make(map[string][]domain.CatalogItem, len(domain.Categories))
	for _, cat := range domain.Categories {
		items := doc[sectionKey(kind, cat)]
		for i := range items {
			if items[i].ID <= 0 {
				return nil, errors.Newf("%s[%d]: id must be positive", sectionKey(kind, cat), i)
			}
			if items[i].Category == "" {
				items[i].Category = cat
			}
		}
		out[cat] = items
	}
	return out, nil
}

// Sections re-keys one kind of the catalog the way the source documents are
// keyed ("audioRentals", "cameraSaleItems", ...).
func Sections(c *domain.Catalog, kind domain.ActionType) map[string][]domain.CatalogItem {
	out := make(map[string][]domain.CatalogItem, len(domain.Categories))
	if c == nil {
		return out
	}
	src := c.Rentals
	if kind == domain.ActionBuy {
		src = c.Sales
	}
	for _, cat := range domain.Categories {
		items := src[cat]
		if items == nil {
			items = []domain.CatalogItem{}
		}
		out[sectionKey(kind, cat)] = items
	}
	return out
}

// EmbeddedSource serves the catalog compiled into the binary.
type EmbeddedSource struct{}

func (EmbeddedSource) Load(context.Context) (*domain.Catalog, error) {
	r, err := embedded.ReadFile("data/" + rentalsFile)
	if err != nil {
		return nil, err
	}
	p, err := embedded.ReadFile("data/" + productsFile)
	if err != nil {
		return nil, err
	}
	return Parse(r, p)
}

// FileSource reads rentals.json and products.json from Dir.
type FileSource struct{ Dir string }

func (s FileSource) Load(context.Context) (*domain.Catalog, error) {
	r, err := os.ReadFile(filepath.Join(s.Dir, rentalsFile))
	if err != nil {
		return nil, errors.Wrap(err, "read rentals")
	}
	p, err := os.ReadFile(filepath.Join(s.Dir, productsFile))
	if err != nil {
		return nil, errors.Wrap(err, "read products")
	}
	return Parse(r, p)
}

// Embedded is a convenience for tests and tools.
func Embedded() *domain.Catalog {
	c, err := EmbeddedSource{}.Load(context.Background())
	if err != nil {
		panic(err)
	}
	return c
}
