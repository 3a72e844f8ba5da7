package impl

import (
	"context"
	"testing"
	"time"

	"harvest/config"
	"harvest/internal/domain/entity"
	"harvest/internal/domain/gateway"
	"harvest/internal/domain/service"
	"harvest/internal/errors"
	"harvest/internal/usecase"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type checkoutFixture struct {
	checkout *checkoutService
	orders   *fakeOrderGateway
	payments *fakePaymentGateway
	listener *fakeListener
	cart     *cartService
}

func newTestCheckout(t *testing.T) *checkoutFixture {
	t.Helper()

	collections := newFakeCollectionRepo()
	cart := &cartService{
		txManager: &fakeTxManager{collections: collections},
		logger:    discardLogger(),
	}
	orders := &fakeOrderGateway{}
	payments := &fakePaymentGateway{}
	listener := &fakeListener{}

	return &checkoutFixture{
		checkout: &checkoutService{
			orderGW:   orders,
			paymentGW: payments,
			cart:      cart,
			listener:  listener,
			qr:        &fakeQR{},
			cfg: &config.Config{
				Payment: &config.PaymentConfig{ApprovalTimeout: time.Second},
			},
			validate: validator.New(),
			logger:   discardLogger(),
		},
		orders:   orders,
		payments: payments,
		listener: listener,
		cart:     cart,
	}
}

func TestCheckoutService_PlaceOrder_EmptyCart(t *testing.T) {
	fixture := newTestCheckout(t)

	input := usecase.PlaceOrderInput{Owner: entity.OwnerGuest, ShippingAddress: "123 Rural Route"}
	_, err := fixture.checkout.PlaceOrder(context.Background(), &input)
	assert.ErrorContains(t, err, "cart is empty")
}

func TestCheckoutService_PlaceOrder_RequiresShippingAddress(t *testing.T) {
	fixture := newTestCheckout(t)

	input := usecase.PlaceOrderInput{Owner: entity.OwnerGuest}
	_, err := fixture.checkout.PlaceOrder(context.Background(), &input)
	assert.ErrorContains(t, err, "invalid order input")
}

func TestCheckoutService_PlaceOrder_BuildsItemsFromCart(t *testing.T) {
	fixture := newTestCheckout(t)
	owner := entity.OwnerForUser(7)
	ctx := context.Background()

	require.NoError(t, fixture.cart.Add(ctx, owner, 1, 2, apples()))
	require.NoError(t, fixture.cart.Add(ctx, owner, 5, 1, apples()))

	var got *gateway.CreateOrderInput
	fixture.orders.createFn = func(_ context.Context, input *gateway.CreateOrderInput) (*entity.Order, error) {
		got = input

		return &entity.Order{ID: 42, TotalPrice: "7.50", Status: "pending"}, nil
	}

	input := usecase.PlaceOrderInput{Owner: owner, ShippingAddress: "123 Rural Route"}
	order, err := fixture.checkout.PlaceOrder(ctx, &input)
	require.NoError(t, err)
	assert.Equal(t, int64(42), order.ID)

	require.NotNil(t, got)
	assert.Equal(t, "123 Rural Route", got.ShippingAddress)
	require.Len(t, got.Items, 2)
	assert.Equal(t, gateway.OrderItemInput{ProductID: 1, Quantity: 2}, got.Items[0])
	assert.Equal(t, gateway.OrderItemInput{ProductID: 5, Quantity: 1}, got.Items[1])

	// Placing the order must not touch the cart; only a capture clears it.
	entries, err := fixture.cart.List(ctx, owner)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestCheckoutService_Pay_CapturesAndClearsCart(t *testing.T) {
	fixture := newTestCheckout(t)
	owner := entity.OwnerForUser(7)
	ctx := context.Background()

	require.NoError(t, fixture.cart.Add(ctx, owner, 1, 2, apples()))

	fixture.payments.createFn = func(_ context.Context, orderID int64, returnURL string) (*gateway.ProviderOrder, error) {
		assert.Equal(t, int64(42), orderID)
		assert.Contains(t, returnURL, "state=")

		return &gateway.ProviderOrder{ProviderOrderID: "PAY-1", ApprovalURL: "https://provider.example/approve"}, nil
	}
	fixture.listener.result = &service.ApprovalResult{ProviderOrderID: "PAY-1", PayerID: "BUYER-9"}
	fixture.payments.captureFn = func(_ context.Context, providerOrderID string, orderID int64) (*entity.PaymentCapture, error) {
		assert.Equal(t, "PAY-1", providerOrderID)
		assert.Equal(t, int64(42), orderID)

		return &entity.PaymentCapture{OrderID: orderID, ProviderOrderID: providerOrderID, Status: "COMPLETED"}, nil
	}

	var handoff *usecase.PaymentHandoff
	capture, err := fixture.checkout.Pay(ctx, 42, owner, func(h usecase.PaymentHandoff) {
		handoff = &h
	})
	require.NoError(t, err)
	assert.Equal(t, "COMPLETED", capture.Status)
	assert.Equal(t, "BUYER-9", capture.PayerID)

	require.NotNil(t, handoff)
	assert.Equal(t, "https://provider.example/approve", handoff.ApprovalURL)
	assert.NotEmpty(t, fixture.listener.awaitedState)

	entries, err := fixture.cart.List(ctx, owner)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestCheckoutService_Pay_RejectsMismatchedProviderOrder(t *testing.T) {
	fixture := newTestCheckout(t)

	fixture.payments.createFn = func(context.Context, int64, string) (*gateway.ProviderOrder, error) {
		return &gateway.ProviderOrder{ProviderOrderID: "PAY-1", ApprovalURL: "https://provider.example/approve"}, nil
	}
	fixture.listener.result = &service.ApprovalResult{ProviderOrderID: "PAY-OTHER"}

	_, err := fixture.checkout.Pay(context.Background(), 42, entity.OwnerGuest, nil)
	assert.ErrorContains(t, err, "unknown provider order")
}

func TestCheckoutService_Pay_PropagatesApprovalFailure(t *testing.T) {
	fixture := newTestCheckout(t)

	fixture.payments.createFn = func(context.Context, int64, string) (*gateway.ProviderOrder, error) {
		return &gateway.ProviderOrder{ProviderOrderID: "PAY-1", ApprovalURL: "https://provider.example/approve"}, nil
	}
	fixture.listener.err = errors.New("buyer cancelled the payment")

	captured := false
	fixture.payments.captureFn = func(context.Context, string, int64) (*entity.PaymentCapture, error) {
		captured = true

		return nil, errors.New("unreachable")
	}

	_, err := fixture.checkout.Pay(context.Background(), 42, entity.OwnerGuest, nil)
	assert.ErrorContains(t, err, "payment was not approved")
	assert.False(t, captured)
}

func TestCheckoutService_History(t *testing.T) {
	fixture := newTestCheckout(t)
	fixture.orders.orders = []*entity.Order{{ID: 1}, {ID: 2}}

	orders, err := fixture.checkout.History(context.Background())
	require.NoError(t, err)
	assert.Len(t, orders, 2)

	order, err := fixture.checkout.Detail(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, int64(2), order.ID)
}
