// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package catalog

import (
	"fmt"

	"github.com/bureau-foundation/stockroom/lib/command"
	"github.com/bureau-foundation/stockroom/lib/inventory"
)

// Category is one menu entry and the products listed under it.
type Category struct {
	Name     string   `yaml:"name"`
	Products []string `yaml:"products"`
}

// Default returns the stock catalog used when configuration does not
// provide one.
func Default() []Category {
	return []Category{
		{Name: "T-shirt", Products: []string{"Round Neck", "V-Neck"}},
		{Name: "Shirt", Products: []string{"Formal", "Casual"}},
	}
}

// Catalog is an immutable, ordered taxonomy. Safe for concurrent use.
type Catalog struct {
	categories []Category
	byName     map[string]int
	products   map[string]struct{}
}

// New validates categories and builds a Catalog. Category names must
// be unique and non-blank; product names must be non-blank and unique
// within their category. Every name must fit in a button payload.
func New(categories []Category) (*Catalog, error) {
	catalog := &Catalog{
		categories: make([]Category, 0, len(categories)),
		byName:     make(map[string]int, len(categories)),
		products:   make(map[string]struct{}),
	}

	for _, category := range categories {
		name := inventory.CanonicalName(category.Name)
		if name == "" {
			return nil, fmt.Errorf("catalog: category with blank name")
		}
		if _, exists := catalog.byName[name]; exists {
			return nil, fmt.Errorf("catalog: duplicate category %q", name)
		}
		if err := command.CheckSelectionSize(command.CategorySelection(name)); err != nil {
			return nil, fmt.Errorf("catalog: %w", err)
		}

		products := make([]string, 0, len(category.Products))
		seen := make(map[string]struct{}, len(category.Products))
		for _, product := range category.Products {
			product = inventory.CanonicalName(product)
			if product == "" {
				return nil, fmt.Errorf("catalog: category %q lists a blank product", name)
			}
			if _, exists := seen[product]; exists {
				return nil, fmt.Errorf("catalog: category %q lists %q twice", name, product)
			}
			if err := command.CheckSelectionSize(command.ProductSelection(product)); err != nil {
				return nil, fmt.Errorf("catalog: %w", err)
			}
			seen[product] = struct{}{}
			catalog.products[product] = struct{}{}
			products = append(products, product)
		}

		catalog.byName[name] = len(catalog.categories)
		catalog.categories = append(catalog.categories, Category{Name: name, Products: products})
	}

	return catalog, nil
}

// Categories returns category names in configured order.
func (c *Catalog) Categories() []string {
	names := make([]string, len(c.categories))
	for index, category := range c.categories {
		names[index] = category.Name
	}
	return names
}

// Products returns the products of category in configured order, and
// false when the category does not exist.
func (c *Catalog) Products(category string) ([]string, bool) {
	index, exists := c.byName[inventory.CanonicalName(category)]
	if !exists {
		return nil, false
	}
	products := c.categories[index].Products
	result := make([]string, len(products))
	copy(result, products)
	return result, true
}

// Contains reports whether any category lists product.
func (c *Catalog) Contains(product string) bool {
	_, exists := c.products[inventory.CanonicalName(product)]
	return exists
}

// AllProducts returns every product in menu order, without duplicates.
func (c *Catalog) AllProducts() []string {
	var result []string
	seen := make(map[string]struct{}, len(c.products))
	for _, category := range c.categories {
		for _, product := range category.Products {
			if _, exists := seen[product]; exists {
				continue
			}
			seen[product] = struct{}{}
			result = append(result, product)
		}
	}
	return result
}
