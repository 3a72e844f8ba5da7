package api

import (
	"context"
	"fmt"
	"time"

	"harvest/internal/domain/entity"
	"harvest/internal/domain/gateway"
)

type productGateway struct {
	client *Client
}

// NewProductGateway creates the remote catalog gateway.
func NewProductGateway(client *Client) gateway.ProductGateway {
	return &productGateway{client: client}
}

type productPayload struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       string    `json:"price"`
	Quantity    int       `json:"quantity"`
	ImageURL    string    `json:"image_url"`
	Category    int64     `json:"category"`
	Farmer      int64     `json:"farmer"`
	CreatedAt   time.Time `json:"created_at"`
}

func (p productPayload) toEntity() *entity.Product {
	return &entity.Product{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Stock:       p.Quantity,
		ImageURL:    p.ImageURL,
		CategoryID:  p.Category,
		OwnerID:     p.Farmer,
		CreatedAt:   p.CreatedAt,
	}
}

type productRequest struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       string  `json:"price"`
	Quantity    int     `json:"quantity"`
	Category    int64   `json:"category"`
	ImageURL    *string `json:"image_url,omitempty"`
}

func newProductRequest(input *gateway.ProductInput) productRequest {
	return productRequest{
		Name:        input.Name,
		Description: input.Description,
		Price:       input.Price,
		Quantity:    input.Stock,
		Category:    input.CategoryID,
		ImageURL:    input.ImageURL,
	}
}

func (g *productGateway) ListProducts(ctx context.Context) ([]*entity.Product, error) {
	var payloads []productPayload
	if err := g.client.get(ctx, "/products/products/", &payloads); err != nil {
		return nil, err
	}

	products := make([]*entity.Product, 0, len(payloads))
	for _, payload := range payloads {
		products = append(products, payload.toEntity())
	}

	return products, nil
}

func (g *productGateway) GetProduct(ctx context.Context, id int64) (*entity.Product, error) {
	var payload productPayload
	if err := g.client.get(ctx, fmt.Sprintf("/products/products/%d/", id), &payload); err != nil {
		return nil, err
	}

	return payload.toEntity(), nil
}

func (g *productGateway) CreateProduct(ctx context.Context, input *gateway.ProductInput) (*entity.Product, error) {
	var payload productPayload
	if err := g.client.post(ctx, "/products/products/", newProductRequest(input), &payload); err != nil {
		return nil, err
	}

	return payload.toEntity(), nil
}

func (g *productGateway) UpdateProduct(ctx context.Context, id int64, input *gateway.ProductInput) (*entity.Product, error) {
	var payload productPayload
	err := g.client.patch(ctx, fmt.Sprintf("/products/products/%d/", id), newProductRequest(input), &payload)
	if err != nil {
		return nil, err
	}

	return payload.toEntity(), nil
}

func (g *productGateway) DeleteProduct(ctx context.Context, id int64) error {
	return g.client.delete(ctx, fmt.Sprintf("/products/products/%d/", id))
}

type categoryPayload struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (g *productGateway) ListCategories(ctx context.Context) ([]*entity.Category, error) {
	var payloads []categoryPayload
	if err := g.client.get(ctx, "/products/categories/", &payloads); err != nil {
		return nil, err
	}

	categories := make([]*entity.Category, 0, len(payloads))
	for _, payload := range payloads {
		categories = append(categories, &entity.Category{
			ID:          payload.ID,
			Name:        payload.Name,
			Description: payload.Description,
		})
	}

	return categories, nil
}

func (g *productGateway) CreateCategory(ctx context.Context, input *gateway.CategoryInput) (*entity.Category, error) {
	var payload categoryPayload
	err := g.client.post(ctx, "/products/categories/", map[string]string{
		"name":        input.Name,
		"description": input.Description,
	}, &payload)
	if err != nil {
		return nil, err
	}

	return &entity.Category{
		ID:          payload.ID,
		Name:        payload.Name,
		Description: payload.Description,
	}, nil
}
