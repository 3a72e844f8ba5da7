// Package repository defines the interfaces for the persistence layer.
package repository

import (
	"context"

	"harvest/internal/domain/entity"
)

// CollectionRepository persists the per-owner cart and wishlist collections.
// Each owner's collections are stored under independent keys; loading an
// owner that has never saved anything returns empty slices, and saving
// always replaces the owner's whole collection so no partial-write state is
// ever observable.
type CollectionRepository interface {
	// LoadCart retrieves the owner's full cart collection.
	LoadCart(ctx context.Context, owner entity.Owner) ([]entity.CartEntry, error)

	// SaveCart replaces the owner's full cart collection.
	SaveCart(ctx context.Context, owner entity.Owner, entries []entity.CartEntry) error

	// LoadWishlist retrieves the owner's full wishlist collection.
	LoadWishlist(ctx context.Context, owner entity.Owner) ([]entity.WishlistEntry, error)

	// SaveWishlist replaces the owner's full wishlist collection.
	SaveWishlist(ctx context.Context, owner entity.Owner, entries []entity.WishlistEntry) error

	// PurgeOwner removes every collection stored for the owner.
	PurgeOwner(ctx context.Context, owner entity.Owner) error
}
