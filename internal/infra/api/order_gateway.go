package api

import (
	"context"
	"fmt"
	"time"

	"harvest/internal/domain/entity"
	"harvest/internal/domain/gateway"
)

type orderGateway struct {
	client *Client
}

// NewOrderGateway creates the remote order gateway.
func NewOrderGateway(client *Client) gateway.OrderGateway {
	return &orderGateway{client: client}
}

type orderItemPayload struct {
	Product  int64  `json:"product"`
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
	Price    string `json:"price"`
}

type orderPayload struct {
	ID              int64              `json:"id"`
	Items           []orderItemPayload `json:"items"`
	TotalPrice      string             `json:"total_price"`
	Status          string             `json:"status"`
	ShippingAddress string             `json:"shipping_address"`
	CreatedAt       time.Time          `json:"created_at"`
}

func (p orderPayload) toEntity() *entity.Order {
	items := make([]entity.OrderItem, 0, len(p.Items))
	for _, item := range p.Items {
		items = append(items, entity.OrderItem{
			ProductID: item.Product,
			Name:      item.Name,
			Quantity:  item.Quantity,
			Price:     item.Price,
		})
	}

	return &entity.Order{
		ID:              p.ID,
		Items:           items,
		TotalPrice:      p.TotalPrice,
		Status:          p.Status,
		ShippingAddress: p.ShippingAddress,
		CreatedAt:       p.CreatedAt,
	}
}

func (g *orderGateway) ListOrders(ctx context.Context) ([]*entity.Order, error) {
	var payloads []orderPayload
	if err := g.client.get(ctx, "/orders/orders/", &payloads); err != nil {
		return nil, err
	}

	orders := make([]*entity.Order, 0, len(payloads))
	for _, payload := range payloads {
		orders = append(orders, payload.toEntity())
	}

	return orders, nil
}

func (g *orderGateway) GetOrder(ctx context.Context, id int64) (*entity.Order, error) {
	var payload orderPayload
	if err := g.client.get(ctx, fmt.Sprintf("/orders/orders/%d/", id), &payload); err != nil {
		return nil, err
	}

	return payload.toEntity(), nil
}

type createOrderItemRequest struct {
	Product  int64 `json:"product"`
	Quantity int   `json:"quantity"`
}

type createOrderRequest struct {
	Items           []createOrderItemRequest `json:"order_items"`
	ShippingAddress string                   `json:"shipping_address"`
}

func (g *orderGateway) CreateOrder(ctx context.Context, input *gateway.CreateOrderInput) (*entity.Order, error) {
	items := make([]createOrderItemRequest, 0, len(input.Items))
	for _, item := range input.Items {
		items = append(items, createOrderItemRequest{
			Product:  item.ProductID,
			Quantity: item.Quantity,
		})
	}

	var payload orderPayload
	err := g.client.post(ctx, "/orders/orders/", createOrderRequest{
		Items:           items,
		ShippingAddress: input.ShippingAddress,
	}, &payload)
	if err != nil {
		return nil, err
	}

	return payload.toEntity(), nil
}
