package sqlite

import (
	"context"

	"harvest/internal/domain/entity"
	"harvest/internal/domain/repository"
	"harvest/internal/errors"
	"harvest/internal/infra/persistence/model"

	"gorm.io/gorm"
)

type collectionRepository struct {
	db *gorm.DB
}

// NewCollectionRepository creates a collection repository backed by the
// local collection_entries table.
func NewCollectionRepository(db *gorm.DB) repository.CollectionRepository {
	return &collectionRepository{db: db}
}

func (r *collectionRepository) LoadCart(ctx context.Context, owner entity.Owner) ([]entity.CartEntry, error) {
	rows, err := r.loadEntries(ctx, owner.CartKey())
	if err != nil {
		return nil, errors.Wrap(err, "failed to load cart")
	}

	entries := make([]entity.CartEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, entity.CartEntry{
			ProductID: row.ProductID,
			Quantity:  row.Quantity,
			Snapshot:  snapshotFromModel(row),
		})
	}

	return entries, nil
}

func (r *collectionRepository) SaveCart(ctx context.Context, owner entity.Owner, entries []entity.CartEntry) error {
	rows := make([]model.CollectionEntryModel, 0, len(entries))
	for position, entry := range entries {
		row := newEntryModel(owner.CartKey(), position, entry.ProductID, entry.Snapshot)
		row.Quantity = entry.Quantity
		rows = append(rows, row)
	}

	if err := r.replaceEntries(ctx, owner.CartKey(), rows); err != nil {
		return errors.Wrap(err, "failed to save cart")
	}

	return nil
}

func (r *collectionRepository) LoadWishlist(ctx context.Context, owner entity.Owner) ([]entity.WishlistEntry, error) {
	rows, err := r.loadEntries(ctx, owner.WishlistKey())
	if err != nil {
		return nil, errors.Wrap(err, "failed to load wishlist")
	}

	entries := make([]entity.WishlistEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, entity.WishlistEntry{
			ProductID: row.ProductID,
			Snapshot:  snapshotFromModel(row),
		})
	}

	return entries, nil
}

func (r *collectionRepository) SaveWishlist(ctx context.Context, owner entity.Owner, entries []entity.WishlistEntry) error {
	rows := make([]model.CollectionEntryModel, 0, len(entries))
	for position, entry := range entries {
		rows = append(rows, newEntryModel(owner.WishlistKey(), position, entry.ProductID, entry.Snapshot))
	}

	if err := r.replaceEntries(ctx, owner.WishlistKey(), rows); err != nil {
		return errors.Wrap(err, "failed to save wishlist")
	}

	return nil
}

func (r *collectionRepository) PurgeOwner(ctx context.Context, owner entity.Owner) error {
	err := r.db.WithContext(ctx).
		Where("collection_key IN ?", []string{owner.CartKey(), owner.WishlistKey()}).
		Delete(&model.CollectionEntryModel{}).Error
	if err != nil {
		return errors.Wrapf(err, "failed to purge collections for owner %s", owner)
	}

	return nil
}

func (r *collectionRepository) loadEntries(ctx context.Context, key string) ([]model.CollectionEntryModel, error) {
	var rows []model.CollectionEntryModel
	err := r.db.WithContext(ctx).
		Where("collection_key = ?", key).
		Order("position ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	return rows, nil
}

// replaceEntries swaps the whole collection in one delete-then-insert pass.
// Callers run it inside txManager.Execute so the swap is atomic.
func (r *collectionRepository) replaceEntries(ctx context.Context, key string, rows []model.CollectionEntryModel) error {
	db := r.db.WithContext(ctx)

	if err := db.Where("collection_key = ?", key).Delete(&model.CollectionEntryModel{}).Error; err != nil {
		return err
	}

	if len(rows) == 0 {
		return nil
	}

	return db.Create(&rows).Error
}

func newEntryModel(key string, position int, productID int64, snapshot entity.ProductSnapshot) model.CollectionEntryModel {
	return model.CollectionEntryModel{
		CollectionKey: key,
		ProductID:     productID,
		Position:      position,
		Name:          snapshot.Name,
		Price:         snapshot.Price,
		ImageURL:      snapshot.ImageURL,
	}
}

// snapshotFromModel maps the persistence row back to a pure domain snapshot.
func snapshotFromModel(row model.CollectionEntryModel) entity.ProductSnapshot {
	return entity.ProductSnapshot{
		Name:     row.Name,
		Price:    row.Price,
		ImageURL: row.ImageURL,
	}
}
