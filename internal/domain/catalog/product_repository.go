package catalog

import (
	"context"
)

// ProductRepository defines the interface for reading the product catalog
type ProductRepository interface {
	// FindAll returns every product of the bakery, soft-deleted ones included
	FindAll(ctx context.Context, bakeryID string) ([]Product, error)
}
