package api

import (
	"context"

	"harvest/internal/domain/entity"
	domainerrors "harvest/internal/domain/errors"
	"harvest/internal/domain/gateway"
)

type paymentGateway struct {
	client *Client
}

// NewPaymentGateway creates the remote payment gateway. The marketplace
// backend brokers every call to the payment provider; the client never
// holds provider credentials.
func NewPaymentGateway(client *Client) gateway.PaymentGateway {
	return &paymentGateway{client: client}
}

type createProviderOrderRequest struct {
	OrderID   int64  `json:"order_id"`
	ReturnURL string `json:"return_url,omitempty"`
}

type createProviderOrderResponse struct {
	ID    string `json:"id"`
	Links []struct {
		Rel  string `json:"rel"`
		Href string `json:"href"`
	} `json:"links"`
}

func (g *paymentGateway) CreateProviderOrder(ctx context.Context, orderID int64, returnURL string) (*gateway.ProviderOrder, error) {
	var resp createProviderOrderResponse
	err := g.client.post(ctx, "/payments/paypal/create-order/", createProviderOrderRequest{
		OrderID:   orderID,
		ReturnURL: returnURL,
	}, &resp)
	if err != nil {
		return nil, err
	}

	if resp.ID == "" {
		return nil, domainerrors.ErrUnexpectedResponse.WithDetails("provider order id missing from response")
	}

	order := &gateway.ProviderOrder{ProviderOrderID: resp.ID}
	for _, link := range resp.Links {
		if link.Rel == "approve" || link.Rel == "payer-action" {
			order.ApprovalURL = link.Href

			break
		}
	}
	if order.ApprovalURL == "" {
		return nil, domainerrors.ErrUnexpectedResponse.WithDetails("approval link missing from provider order")
	}

	return order, nil
}

type captureProviderOrderRequest struct {
	ProviderOrderID string `json:"orderID"`
	OrderID         int64  `json:"djangoOrderID"`
}

type captureProviderOrderResponse struct {
	Status string `json:"status"`
}

func (g *paymentGateway) CaptureProviderOrder(ctx context.Context, providerOrderID string, orderID int64) (*entity.PaymentCapture, error) {
	var resp captureProviderOrderResponse
	err := g.client.post(ctx, "/payments/paypal/capture-order/", captureProviderOrderRequest{
		ProviderOrderID: providerOrderID,
		OrderID:         orderID,
	}, &resp)
	if err != nil {
		return nil, err
	}

	return &entity.PaymentCapture{
		OrderID:         orderID,
		ProviderOrderID: providerOrderID,
		Status:          resp.Status,
	}, nil
}
