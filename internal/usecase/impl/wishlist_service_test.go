package impl

import (
	"context"
	"testing"

	"harvest/internal/domain/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestWishlist(collections *fakeCollectionRepo) *wishlistService {
	return &wishlistService{
		txManager: &fakeTxManager{collections: collections},
		logger:    discardLogger(),
	}
}

func TestWishlistService_Add_Idempotent(t *testing.T) {
	wishlist := newTestWishlist(newFakeCollectionRepo())
	owner := entity.OwnerForUser(7)
	ctx := context.Background()

	require.NoError(t, wishlist.Add(ctx, owner, 1, apples()))
	require.NoError(t, wishlist.Add(ctx, owner, 1, apples()))

	entries, err := wishlist.List(ctx, owner)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestWishlistService_Contains(t *testing.T) {
	wishlist := newTestWishlist(newFakeCollectionRepo())
	owner := entity.OwnerGuest
	ctx := context.Background()

	require.NoError(t, wishlist.Add(ctx, owner, 1, apples()))

	saved, err := wishlist.Contains(ctx, owner, 1)
	require.NoError(t, err)
	assert.True(t, saved)

	saved, err = wishlist.Contains(ctx, owner, 2)
	require.NoError(t, err)
	assert.False(t, saved)
}

func TestWishlistService_RemoveAndClear(t *testing.T) {
	wishlist := newTestWishlist(newFakeCollectionRepo())
	owner := entity.OwnerGuest
	ctx := context.Background()

	require.NoError(t, wishlist.Add(ctx, owner, 1, apples()))
	require.NoError(t, wishlist.Add(ctx, owner, 2, apples()))

	require.NoError(t, wishlist.Remove(ctx, owner, 1))
	entries, err := wishlist.List(ctx, owner)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, int64(2), entries[0].ProductID)

	require.NoError(t, wishlist.Clear(ctx, owner))
	entries, err = wishlist.List(ctx, owner)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestWishlistService_OwnersAreIsolated(t *testing.T) {
	wishlist := newTestWishlist(newFakeCollectionRepo())
	ctx := context.Background()

	require.NoError(t, wishlist.Add(ctx, entity.OwnerGuest, 1, apples()))

	saved, err := wishlist.Contains(ctx, entity.OwnerForUser(7), 1)
	require.NoError(t, err)
	assert.False(t, saved)
}
