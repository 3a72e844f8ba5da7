// Package entity contains the core business objects of the project.
package entity

import "time"

// OrderItem is one product line of a placed order.
type OrderItem struct {
	ProductID int64
	Name      string
	Quantity  int
	Price     string
}

// Order is a placed order as served by the remote API.
type Order struct {
	ID              int64
	Items           []OrderItem
	TotalPrice      string
	Status          string
	ShippingAddress string
	CreatedAt       time.Time
}

// PaymentCapture is the result of capturing an approved payment with the
// third-party provider.
type PaymentCapture struct {
	OrderID         int64  // The marketplace order the capture settles.
	ProviderOrderID string // The payment provider's order identifier.
	Status          string // Provider capture status, e.g. "COMPLETED".
	PayerID         string // The approving payer, as reported on the return redirect.
}
