// Package gateway defines the interfaces for the remote marketplace API.
package gateway

import (
	"context"

	"harvest/internal/domain/entity"
)

// OrderItemInput is one product line of a new order.
type OrderItemInput struct {
	ProductID int64
	Quantity  int
}

// CreateOrderInput carries the fields of a new order.
type CreateOrderInput struct {
	Items           []OrderItemInput
	ShippingAddress string
}

// OrderGateway is the remote order collaborator.
type OrderGateway interface {
	ListOrders(ctx context.Context) ([]*entity.Order, error)
	GetOrder(ctx context.Context, id int64) (*entity.Order, error)
	CreateOrder(ctx context.Context, input *CreateOrderInput) (*entity.Order, error)
}

// ProviderOrder is the payment provider's pending order, created remotely
// and approved by the buyer out of band.
type ProviderOrder struct {
	ProviderOrderID string
	ApprovalURL     string
}

// PaymentGateway is the remote payment collaborator. The actual approval
// happens in the third-party widget; this gateway only creates and captures
// provider orders through the marketplace backend.
type PaymentGateway interface {
	// CreateProviderOrder asks the backend to open a payment-provider order
	// for the given marketplace order.
	CreateProviderOrder(ctx context.Context, orderID int64, returnURL string) (*ProviderOrder, error)

	// CaptureProviderOrder captures an approved provider order.
	CaptureProviderOrder(ctx context.Context, providerOrderID string, orderID int64) (*entity.PaymentCapture, error)
}
