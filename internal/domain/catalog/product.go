package catalog

import (
	"github.com/bakery/backend/internal/domain/shared"
	"github.com/bakery/backend/internal/domain/shared/valueobject"
)

// Product is a catalog entry as seen by reporting.
// CollectionID/CollectionName are the product's category.
type Product struct {
	ID             string
	Name           string
	CollectionID   string
	CollectionName string
	// CostPrice is the current unit cost; nil when the bakery never defined one
	CostPrice *valueobject.Money
	IsDeleted bool
}

// NewProduct validates and creates a catalog product
func NewProduct(id, name, collectionID, collectionName string, costPrice *valueobject.Money, isDeleted bool) (Product, error) {
	if id == "" {
		return Product{}, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if costPrice != nil && costPrice.IsNegative() {
		return Product{}, shared.NewDomainError("INVALID_COST", "Cost price cannot be negative")
	}
	return Product{
		ID:             id,
		Name:           name,
		CollectionID:   collectionID,
		CollectionName: collectionName,
		CostPrice:      costPrice,
		IsDeleted:      isDeleted,
	}, nil
}

// IsActive reports whether the product has not been soft-deleted
func (p Product) IsActive() bool {
	return !p.IsDeleted
}

// HasCost reports whether a current cost is defined
func (p Product) HasCost() bool {
	return p.CostPrice != nil
}

// Catalog is a read-only snapshot of a bakery's products.
// Iteration follows the order the products were supplied in.
type Catalog struct {
	products []Product
	byID     map[string]int
}

// NewCatalog indexes the given products; a later duplicate id replaces an earlier one
func NewCatalog(products []Product) *Catalog {
	c := &Catalog{
		products: make([]Product, 0, len(products)),
		byID:     make(map[string]int, len(products)),
	}
	for _, p := range products {
		if idx, ok := c.byID[p.ID]; ok {
			c.products[idx] = p
			continue
		}
		c.byID[p.ID] = len(c.products)
		c.products = append(c.products, p)
	}
	return c
}

// Get returns the product with the given id
func (c *Catalog) Get(id string) (Product, bool) {
	if c == nil {
		return Product{}, false
	}
	idx, ok := c.byID[id]
	if !ok {
		return Product{}, false
	}
	return c.products[idx], true
}

// Products returns the products in supply order
func (c *Catalog) Products() []Product {
	if c == nil {
		return nil
	}
	out := make([]Product, len(c.products))
	copy(out, c.products)
	return out
}

// Len returns the number of products
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.products)
}
