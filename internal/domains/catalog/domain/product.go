package domain

import (
	"errors"
	"strings"
)

var (
	ErrEmptyProductName     = errors.New("product name must not be empty")
	ErrEmptyProductCategory = errors.New("product category must not be empty")
	ErrEmptySKU             = errors.New("product sku must not be empty")
	ErrNegativePrice        = errors.New("product price must not be negative")
)

// Product models a catalog item identified externally by its SKU.
type Product struct {
	ID       int64
	Name     string
	Category string
	Price    float64
	SKU      string
}

// NewProduct validates and constructs a Product aggregate.
func NewProduct(id int64, name, category string, price float64, sku string) (*Product, error) {
	product := &Product{ID: id, Name: name, Category: category, Price: price, SKU: sku}
	if err := product.Validate(); err != nil {
		return nil, err
	}
	return product, nil
}

// Validate enforces invariants on the aggregate.
func (p *Product) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return ErrEmptyProductName
	}
	if strings.TrimSpace(p.Category) == "" {
		return ErrEmptyProductCategory
	}
	if strings.TrimSpace(p.SKU) == "" {
		return ErrEmptySKU
	}
	if p.Price < 0 {
		return ErrNegativePrice
	}
	return nil
}

// Reprice replaces the list price. Orders snapshot the price at
// placement time, so repricing never rewrites history.
func (p *Product) Reprice(price float64) error {
	if price < 0 {
		return ErrNegativePrice
	}
	p.Price = price
	return nil
}
