// Package entity contains the core business objects of the project.
package entity

import "strconv"

// Quantity bounds for a single cart entry. Mutations clamp into this range
// rather than failing.
const (
	MinQuantity = 1
	MaxQuantity = 99
)

// Owner identifies whose local collections are active: a signed-in user's
// id, or the shared guest pseudo-user when no session exists. Each owner's
// cart and wishlist are fully independent; owners are never merged.
type Owner string

// OwnerGuest is the pseudo-user that owns the anonymous collections.
const OwnerGuest Owner = "guest"

// OwnerForUser derives the collection owner for a signed-in user id.
func OwnerForUser(userID int64) Owner {
	return Owner(strconv.FormatInt(userID, 10))
}

// CartKey returns the storage key for this owner's cart collection.
func (o Owner) CartKey() string {
	return "cart_" + string(o)
}

// WishlistKey returns the storage key for this owner's wishlist collection.
func (o Owner) WishlistKey() string {
	return "wishlist_" + string(o)
}

// ProductSnapshot is the slice of product data frozen into a cart or
// wishlist entry at the moment it is added, so lists render without a
// round trip to the catalog.
type ProductSnapshot struct {
	Name     string
	Price    string
	ImageURL string
}

// CartEntry is one product line in an owner's cart. ProductID is unique
// within a single owner's collection.
type CartEntry struct {
	ProductID int64
	Quantity  int
	Snapshot  ProductSnapshot
}

// WishlistEntry is one saved product in an owner's wishlist.
type WishlistEntry struct {
	ProductID int64
	Snapshot  ProductSnapshot
}

// ClampQuantity forces a requested quantity into the allowed range.
func ClampQuantity(quantity int) int {
	if quantity < MinQuantity {
		return MinQuantity
	}
	if quantity > MaxQuantity {
		return MaxQuantity
	}

	return quantity
}
