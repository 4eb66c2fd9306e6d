// Package seed loads the default product catalog.
package seed

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/utafrali/sportsstore/internal/domain"
	"github.com/utafrali/sportsstore/pkg/validator"
)

//go:embed catalog.yaml
var defaultCatalog []byte

type catalogFile struct {
	Products []catalogEntry `yaml:"products"`
}

type catalogEntry struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Category    string `yaml:"category"`
	Price       string `yaml:"price"`
	ImageURL    string `yaml:"image_url"`
}

// Catalog returns the seed products from path, or the embedded default
// catalog when path is empty.
func Catalog(path string) ([]domain.Product, error) {
	if path == "" {
		return Parse(defaultCatalog)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed catalog %s: %w", path, err)
	}
	products, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("seed catalog %s: %w", path, err)
	}
	return products, nil
}

// Parse decodes a YAML catalog. Every entry must be a valid product with a
// positive price.
func Parse(data []byte) ([]domain.Product, error) {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}

	products := make([]domain.Product, 0, len(file.Products))
	for i, e := range file.Products {
		price, err := decimal.NewFromString(e.Price)
		if err != nil {
			return nil, fmt.Errorf("product %d (%s): invalid price %q: %w", i, e.Name, e.Price, err)
		}
		if !price.IsPositive() {
			return nil, fmt.Errorf("product %d (%s): price must be positive", i, e.Name)
		}

		p := domain.Product{
			Name:        e.Name,
			Description: e.Description,
			Category:    e.Category,
			Price:       price,
			ImageURL:    e.ImageURL,
		}
		if err := validator.Validate(p); err != nil {
			return nil, fmt.Errorf("product %d (%s): %w", i, e.Name, err)
		}
		products = append(products, p)
	}
	return products, nil
}
