// Package usecase contains the application-specific business rules.
package usecase

import (
	"context"

	"harvest/internal/domain/entity"
	"harvest/internal/domain/gateway"
)

// CatalogUsecase exposes the remote product catalog to the delivery layer,
// including the farmer-gated listing management operations.
type CatalogUsecase interface {
	ListProducts(ctx context.Context) ([]*entity.Product, error)
	GetProduct(ctx context.Context, id int64) (*entity.Product, error)

	// SearchProducts filters the catalog by a case-insensitive term over
	// name and description.
	SearchProducts(ctx context.Context, term string) ([]*entity.Product, error)

	ListCategories(ctx context.Context) ([]*entity.Category, error)

	// CreateProduct lists a new product for the signed-in farmer.
	CreateProduct(ctx context.Context, input *gateway.ProductInput) (*entity.Product, error)

	// UpdateProduct edits a listing; a nil image keeps the existing one.
	UpdateProduct(ctx context.Context, id int64, input *gateway.ProductInput) (*entity.Product, error)

	DeleteProduct(ctx context.Context, id int64) error

	CreateCategory(ctx context.Context, input *gateway.CategoryInput) (*entity.Category, error)
}
