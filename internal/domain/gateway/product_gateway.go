// Package gateway defines the interfaces for the remote marketplace API.
package gateway

import (
	"context"

	"harvest/internal/domain/entity"
)

// ProductInput carries the fields of a product create or update. On update,
// a nil ImageURL keeps the existing image rather than replacing it.
type ProductInput struct {
	Name        string
	Description string
	Price       string
	Stock       int
	CategoryID  int64
	ImageURL    *string
}

// CategoryInput carries the fields of a new catalog category.
type CategoryInput struct {
	Name        string
	Description string
}

// ProductGateway is the remote catalog collaborator.
type ProductGateway interface {
	ListProducts(ctx context.Context) ([]*entity.Product, error)
	GetProduct(ctx context.Context, id int64) (*entity.Product, error)
	CreateProduct(ctx context.Context, input *ProductInput) (*entity.Product, error)
	UpdateProduct(ctx context.Context, id int64, input *ProductInput) (*entity.Product, error)
	DeleteProduct(ctx context.Context, id int64) error

	ListCategories(ctx context.Context) ([]*entity.Category, error)
	CreateCategory(ctx context.Context, input *CategoryInput) (*entity.Category, error)
}
