// Package usecase contains the application-specific business rules.
package usecase

import (
	"context"

	"harvest/internal/domain/entity"
)

// PlaceOrderInput defines the data required to turn a cart into an order.
type PlaceOrderInput struct {
	Owner           entity.Owner
	ShippingAddress string `validate:"required"`
}

// PaymentHandoff is everything the delivery layer needs to send the buyer
// to the third-party approval page.
type PaymentHandoff struct {
	ApprovalURL string
	QRImagePath string // Path of the approval-link QR PNG, empty when QR output is disabled.
}

// CheckoutUsecase drives order history and the two-phase payment flow:
// PlaceOrder creates the marketplace order from the current cart, Pay opens
// a provider order, waits for the out-of-band approval and captures it.
// The cart is cleared only after a successful capture.
type CheckoutUsecase interface {
	History(ctx context.Context) ([]*entity.Order, error)
	Detail(ctx context.Context, orderID int64) (*entity.Order, error)

	// PlaceOrder creates a remote order from the owner's cart.
	PlaceOrder(ctx context.Context, input *PlaceOrderInput) (*entity.Order, error)

	// Pay runs the approval flow for a placed order. The handoff callback
	// receives the approval URL before Pay blocks waiting for the redirect.
	Pay(ctx context.Context, orderID int64, owner entity.Owner, handoff func(PaymentHandoff)) (*entity.PaymentCapture, error)
}
