package impl

import (
	"context"
	"log/slog"

	"harvest/internal/domain/entity"
	"harvest/internal/domain/repository"
	"harvest/internal/usecase"

	"github.com/pkg/errors"
)

// cartService implements the CartUsecase interface. Every mutation loads,
// rewrites and saves the owner's whole collection inside one transaction,
// so callers never observe a partial write.
type cartService struct {
	txManager repository.TransactionManager
	logger    *slog.Logger
}

// NewCartService is the constructor for cartService.
func NewCartService(
	txManager repository.TransactionManager,
	logger *slog.Logger,
) usecase.CartUsecase {
	return &cartService{
		txManager: txManager,
		logger:    logger,
	}
}

// Add inserts a product or merges its quantity into an existing entry.
func (srv *cartService) Add(ctx context.Context, owner entity.Owner, productID int64, quantity int, snapshot entity.ProductSnapshot) error {
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		collectionRepo := repoFactory.CollectionRepo()

		entries, err := collectionRepo.LoadCart(ctx, owner)
		if err != nil {
			return errors.Wrap(err, "failed to load cart")
		}

		merged := false
		for i := range entries {
			if entries[i].ProductID == productID {
				entries[i].Quantity = entity.ClampQuantity(entries[i].Quantity + quantity)
				merged = true

				break
			}
		}
		if !merged {
			entries = append(entries, entity.CartEntry{
				ProductID: productID,
				Quantity:  entity.ClampQuantity(quantity),
				Snapshot:  snapshot,
			})
		}

		return errors.Wrap(collectionRepo.SaveCart(ctx, owner, entries), "failed to save cart")
	})
	if err != nil {
		srv.logger.Error("Failed to add cart entry",
			slog.String("owner", string(owner)), slog.Int64("product_id", productID), slog.Any("error", err))

		return errors.Wrap(err, "failed to add cart entry")
	}
	srv.logger.Debug("Added cart entry", slog.String("owner", string(owner)), slog.Int64("product_id", productID))

	return nil
}

// UpdateQuantity sets an entry's quantity, clamped to the allowed range.
func (srv *cartService) UpdateQuantity(ctx context.Context, owner entity.Owner, productID int64, quantity int) error {
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		collectionRepo := repoFactory.CollectionRepo()

		entries, err := collectionRepo.LoadCart(ctx, owner)
		if err != nil {
			return errors.Wrap(err, "failed to load cart")
		}

		found := false
		for i := range entries {
			if entries[i].ProductID == productID {
				entries[i].Quantity = entity.ClampQuantity(quantity)
				found = true

				break
			}
		}
		if !found {
			return errors.Errorf("product %d is not in the cart", productID)
		}

		return errors.Wrap(collectionRepo.SaveCart(ctx, owner, entries), "failed to save cart")
	})
	if err != nil {
		srv.logger.Error("Failed to update cart quantity",
			slog.String("owner", string(owner)), slog.Int64("product_id", productID), slog.Any("error", err))

		return errors.Wrap(err, "failed to update cart quantity")
	}

	return nil
}

// Remove deletes one entry.
func (srv *cartService) Remove(ctx context.Context, owner entity.Owner, productID int64) error {
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		collectionRepo := repoFactory.CollectionRepo()

		entries, err := collectionRepo.LoadCart(ctx, owner)
		if err != nil {
			return errors.Wrap(err, "failed to load cart")
		}

		kept := entries[:0]
		for _, entry := range entries {
			if entry.ProductID != productID {
				kept = append(kept, entry)
			}
		}

		return errors.Wrap(collectionRepo.SaveCart(ctx, owner, kept), "failed to save cart")
	})
	if err != nil {
		srv.logger.Error("Failed to remove cart entry",
			slog.String("owner", string(owner)), slog.Int64("product_id", productID), slog.Any("error", err))

		return errors.Wrap(err, "failed to remove cart entry")
	}

	return nil
}

// Clear deletes the owner's whole cart.
func (srv *cartService) Clear(ctx context.Context, owner entity.Owner) error {
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		return errors.Wrap(repoFactory.CollectionRepo().SaveCart(ctx, owner, nil), "failed to save cart")
	})
	if err != nil {
		srv.logger.Error("Failed to clear cart", slog.String("owner", string(owner)), slog.Any("error", err))

		return errors.Wrap(err, "failed to clear cart")
	}
	srv.logger.Debug("Cleared cart", slog.String("owner", string(owner)))

	return nil
}

// List returns the owner's cart collection.
func (srv *cartService) List(ctx context.Context, owner entity.Owner) ([]entity.CartEntry, error) {
	var entries []entity.CartEntry

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		loaded, err := repoFactory.CollectionRepo().LoadCart(ctx, owner)
		if err != nil {
			return errors.Wrap(err, "failed to load cart")
		}
		entries = loaded

		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to list cart")
	}

	return entries, nil
}
