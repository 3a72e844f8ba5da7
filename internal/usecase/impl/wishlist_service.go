package impl

import (
	"context"
	"log/slog"

	"harvest/internal/domain/entity"
	"harvest/internal/domain/repository"
	"harvest/internal/usecase"

	"github.com/pkg/errors"
)

// wishlistService implements the WishlistUsecase interface.
type wishlistService struct {
	txManager repository.TransactionManager
	logger    *slog.Logger
}

// NewWishlistService is the constructor for wishlistService.
func NewWishlistService(
	txManager repository.TransactionManager,
	logger *slog.Logger,
) usecase.WishlistUsecase {
	return &wishlistService{
		txManager: txManager,
		logger:    logger,
	}
}

// Add saves a product; adding an already saved product is a no-op.
func (srv *wishlistService) Add(ctx context.Context, owner entity.Owner, productID int64, snapshot entity.ProductSnapshot) error {
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		collectionRepo := repoFactory.CollectionRepo()

		entries, err := collectionRepo.LoadWishlist(ctx, owner)
		if err != nil {
			return errors.Wrap(err, "failed to load wishlist")
		}

		for _, entry := range entries {
			if entry.ProductID == productID {
				return nil
			}
		}
		entries = append(entries, entity.WishlistEntry{ProductID: productID, Snapshot: snapshot})

		return errors.Wrap(collectionRepo.SaveWishlist(ctx, owner, entries), "failed to save wishlist")
	})
	if err != nil {
		srv.logger.Error("Failed to add wishlist entry",
			slog.String("owner", string(owner)), slog.Int64("product_id", productID), slog.Any("error", err))

		return errors.Wrap(err, "failed to add wishlist entry")
	}
	srv.logger.Debug("Added wishlist entry", slog.String("owner", string(owner)), slog.Int64("product_id", productID))

	return nil
}

// Remove deletes one entry.
func (srv *wishlistService) Remove(ctx context.Context, owner entity.Owner, productID int64) error {
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		collectionRepo := repoFactory.CollectionRepo()

		entries, err := collectionRepo.LoadWishlist(ctx, owner)
		if err != nil {
			return errors.Wrap(err, "failed to load wishlist")
		}

		kept := entries[:0]
		for _, entry := range entries {
			if entry.ProductID != productID {
				kept = append(kept, entry)
			}
		}

		return errors.Wrap(collectionRepo.SaveWishlist(ctx, owner, kept), "failed to save wishlist")
	})
	if err != nil {
		srv.logger.Error("Failed to remove wishlist entry",
			slog.String("owner", string(owner)), slog.Int64("product_id", productID), slog.Any("error", err))

		return errors.Wrap(err, "failed to remove wishlist entry")
	}

	return nil
}

// Clear deletes the owner's whole wishlist.
func (srv *wishlistService) Clear(ctx context.Context, owner entity.Owner) error {
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		return errors.Wrap(repoFactory.CollectionRepo().SaveWishlist(ctx, owner, nil), "failed to save wishlist")
	})
	if err != nil {
		srv.logger.Error("Failed to clear wishlist", slog.String("owner", string(owner)), slog.Any("error", err))

		return errors.Wrap(err, "failed to clear wishlist")
	}

	return nil
}

// List returns the owner's wishlist collection.
func (srv *wishlistService) List(ctx context.Context, owner entity.Owner) ([]entity.WishlistEntry, error) {
	var entries []entity.WishlistEntry

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		loaded, err := repoFactory.CollectionRepo().LoadWishlist(ctx, owner)
		if err != nil {
			return errors.Wrap(err, "failed to load wishlist")
		}
		entries = loaded

		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to list wishlist")
	}

	return entries, nil
}

// Contains reports whether the owner has saved the product.
func (srv *wishlistService) Contains(ctx context.Context, owner entity.Owner, productID int64) (bool, error) {
	entries, err := srv.List(ctx, owner)
	if err != nil {
		return false, err
	}

	for _, entry := range entries {
		if entry.ProductID == productID {
			return true, nil
		}
	}

	return false, nil
}
