// Package usecase contains the application-specific business rules.
package usecase

import (
	"context"

	"harvest/internal/domain/entity"
)

// CartUsecase manages one owner's locally persisted cart. Every mutation is
// a single atomic read-modify-write of the whole collection; the owner key
// is supplied per call so switching sessions can never leak entries between
// owners.
type CartUsecase interface {
	// Add inserts a product or merges its quantity into an existing entry,
	// clamped to the allowed range.
	Add(ctx context.Context, owner entity.Owner, productID int64, quantity int, snapshot entity.ProductSnapshot) error

	// UpdateQuantity sets an entry's quantity, clamped to the allowed range.
	UpdateQuantity(ctx context.Context, owner entity.Owner, productID int64, quantity int) error

	// Remove deletes one entry.
	Remove(ctx context.Context, owner entity.Owner, productID int64) error

	// Clear deletes the owner's whole cart.
	Clear(ctx context.Context, owner entity.Owner) error

	// List returns the owner's cart collection.
	List(ctx context.Context, owner entity.Owner) ([]entity.CartEntry, error)
}

// WishlistUsecase manages one owner's locally persisted wishlist.
type WishlistUsecase interface {
	// Add saves a product; adding an already saved product is a no-op.
	Add(ctx context.Context, owner entity.Owner, productID int64, snapshot entity.ProductSnapshot) error

	// Remove deletes one entry.
	Remove(ctx context.Context, owner entity.Owner, productID int64) error

	// Clear deletes the owner's whole wishlist.
	Clear(ctx context.Context, owner entity.Owner) error

	// List returns the owner's wishlist collection.
	List(ctx context.Context, owner entity.Owner) ([]entity.WishlistEntry, error)

	// Contains reports whether the owner has saved the product.
	Contains(ctx context.Context, owner entity.Owner, productID int64) (bool, error)
}
