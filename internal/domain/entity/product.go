// Package entity contains the core business objects of the project.
package entity

import "time"

// Product is a catalog listing owned by a farmer on the remote marketplace.
// The client holds read-only copies; all mutations go through the product
// gateway.
type Product struct {
	ID          int64
	Name        string
	Description string
	Price       string // Decimal string as served by the API, e.g. "12.50".
	Stock       int
	ImageURL    string
	CategoryID  int64
	OwnerID     int64 // The farmer who listed this product.
	CreatedAt   time.Time
}

// Snapshot freezes the product data carried into cart and wishlist entries.
func (p *Product) Snapshot() ProductSnapshot {
	return ProductSnapshot{
		Name:     p.Name,
		Price:    p.Price,
		ImageURL: p.ImageURL,
	}
}

// Category groups products in the catalog.
type Category struct {
	ID          int64
	Name        string
	Description string
}
