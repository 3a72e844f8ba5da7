package impl

import (
	"context"
	"log/slog"
	"strings"

	"harvest/internal/domain/entity"
	"harvest/internal/domain/gateway"
	"harvest/internal/usecase"

	"github.com/pkg/errors"
)

// catalogService implements the CatalogUsecase interface. It is a thin
// orchestration over the product gateway; authorization for the management
// operations is enforced remotely and gated locally by the route gate.
type catalogService struct {
	productGW gateway.ProductGateway
	logger    *slog.Logger
}

// NewCatalogService is the constructor for catalogService.
func NewCatalogService(
	productGW gateway.ProductGateway,
	logger *slog.Logger,
) usecase.CatalogUsecase {
	return &catalogService{
		productGW: productGW,
		logger:    logger,
	}
}

func (srv *catalogService) ListProducts(ctx context.Context) ([]*entity.Product, error) {
	products, err := srv.productGW.ListProducts(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list products")
	}

	return products, nil
}

func (srv *catalogService) GetProduct(ctx context.Context, id int64) (*entity.Product, error) {
	product, err := srv.productGW.GetProduct(ctx, id)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to get product %d", id)
	}

	return product, nil
}

// SearchProducts filters the catalog by a case-insensitive term over name
// and description.
func (srv *catalogService) SearchProducts(ctx context.Context, term string) ([]*entity.Product, error) {
	products, err := srv.productGW.ListProducts(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to search products")
	}

	needle := strings.ToLower(strings.TrimSpace(term))
	if needle == "" {
		return products, nil
	}

	matched := make([]*entity.Product, 0, len(products))
	for _, product := range products {
		if strings.Contains(strings.ToLower(product.Name), needle) ||
			strings.Contains(strings.ToLower(product.Description), needle) {
			matched = append(matched, product)
		}
	}

	return matched, nil
}

func (srv *catalogService) ListCategories(ctx context.Context) ([]*entity.Category, error) {
	categories, err := srv.productGW.ListCategories(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list categories")
	}

	return categories, nil
}

func (srv *catalogService) CreateProduct(ctx context.Context, input *gateway.ProductInput) (*entity.Product, error) {
	product, err := srv.productGW.CreateProduct(ctx, input)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create product")
	}
	srv.logger.Info("Created product", slog.Int64("product_id", product.ID), slog.String("name", product.Name))

	return product, nil
}

func (srv *catalogService) UpdateProduct(ctx context.Context, id int64, input *gateway.ProductInput) (*entity.Product, error) {
	product, err := srv.productGW.UpdateProduct(ctx, id, input)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to update product %d", id)
	}
	srv.logger.Info("Updated product", slog.Int64("product_id", id))

	return product, nil
}

func (srv *catalogService) DeleteProduct(ctx context.Context, id int64) error {
	if err := srv.productGW.DeleteProduct(ctx, id); err != nil {
		return errors.Wrapf(err, "failed to delete product %d", id)
	}
	srv.logger.Info("Deleted product", slog.Int64("product_id", id))

	return nil
}

func (srv *catalogService) CreateCategory(ctx context.Context, input *gateway.CategoryInput) (*entity.Category, error) {
	category, err := srv.productGW.CreateCategory(ctx, input)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create category")
	}
	srv.logger.Info("Created category", slog.Int64("category_id", category.ID), slog.String("name", category.Name))

	return category, nil
}
