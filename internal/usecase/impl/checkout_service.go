package impl

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"harvest/config"
	"harvest/internal/domain/entity"
	"harvest/internal/domain/gateway"
	"harvest/internal/domain/service"
	"harvest/internal/usecase"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// checkoutService implements the CheckoutUsecase interface.
type checkoutService struct {
	orderGW   gateway.OrderGateway
	paymentGW gateway.PaymentGateway
	cart      usecase.CartUsecase
	listener  service.ApprovalListener
	qr        service.QRCodeService
	cfg       *config.Config
	validate  *validator.Validate
	logger    *slog.Logger
}

// NewCheckoutService is the constructor for checkoutService. It receives all dependencies as interfaces.
func NewCheckoutService(
	orderGW gateway.OrderGateway,
	paymentGW gateway.PaymentGateway,
	cart usecase.CartUsecase,
	listener service.ApprovalListener,
	qr service.QRCodeService,
	cfg *config.Config,
	logger *slog.Logger,
) usecase.CheckoutUsecase {
	return &checkoutService{
		orderGW:   orderGW,
		paymentGW: paymentGW,
		cart:      cart,
		listener:  listener,
		qr:        qr,
		cfg:       cfg,
		validate:  validator.New(),
		logger:    logger,
	}
}

// History returns the signed-in user's past orders.
func (srv *checkoutService) History(ctx context.Context) ([]*entity.Order, error) {
	orders, err := srv.orderGW.ListOrders(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list orders")
	}

	return orders, nil
}

// Detail returns one order.
func (srv *checkoutService) Detail(ctx context.Context, orderID int64) (*entity.Order, error) {
	order, err := srv.orderGW.GetOrder(ctx, orderID)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to get order %d", orderID)
	}

	return order, nil
}

// PlaceOrder creates a remote order from the owner's cart. The cart is left
// untouched until payment is captured.
func (srv *checkoutService) PlaceOrder(ctx context.Context, input *usecase.PlaceOrderInput) (*entity.Order, error) {
	if err := srv.validate.Struct(input); err != nil {
		return nil, errors.Wrap(err, "invalid order input")
	}

	entries, err := srv.cart.List(ctx, input.Owner)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read cart for checkout")
	}
	if len(entries) == 0 {
		return nil, errors.New("cart is empty")
	}

	items := make([]gateway.OrderItemInput, 0, len(entries))
	for _, entry := range entries {
		items = append(items, gateway.OrderItemInput{
			ProductID: entry.ProductID,
			Quantity:  entry.Quantity,
		})
	}

	order, err := srv.orderGW.CreateOrder(ctx, &gateway.CreateOrderInput{
		Items:           items,
		ShippingAddress: input.ShippingAddress,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create order")
	}

	srv.logger.Info("Order placed",
		slog.Int64("order_id", order.ID), slog.Int("items", len(order.Items)), slog.String("total", order.TotalPrice))

	return order, nil
}

// Pay opens a provider order, waits for the buyer's out-of-band approval on
// the local return listener, then captures. The cart is cleared only after
// a successful capture.
func (srv *checkoutService) Pay(ctx context.Context, orderID int64, owner entity.Owner, handoff func(usecase.PaymentHandoff)) (*entity.PaymentCapture, error) {
	state := uuid.NewString()
	returnURL := srv.listener.ReturnURL(state)

	providerOrder, err := srv.paymentGW.CreateProviderOrder(ctx, orderID, returnURL)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to create provider order for order %d", orderID)
	}

	srv.logger.Info("Provider order created",
		slog.Int64("order_id", orderID), slog.String("provider_order_id", providerOrder.ProviderOrderID))

	if handoff != nil {
		handoff(usecase.PaymentHandoff{
			ApprovalURL: providerOrder.ApprovalURL,
			QRImagePath: srv.writeApprovalQR(orderID, providerOrder.ApprovalURL),
		})
	}

	approvalCtx := ctx
	if srv.cfg.Payment != nil && srv.cfg.Payment.ApprovalTimeout > 0 {
		var cancel context.CancelFunc
		approvalCtx, cancel = context.WithTimeout(ctx, srv.cfg.Payment.ApprovalTimeout)
		defer cancel()
	}

	result, err := srv.listener.Await(approvalCtx, state)
	if err != nil {
		return nil, errors.Wrap(err, "payment was not approved")
	}
	if result.ProviderOrderID != providerOrder.ProviderOrderID {
		return nil, errors.Errorf("approval redirect carries unknown provider order %q", result.ProviderOrderID)
	}

	capture, err := srv.paymentGW.CaptureProviderOrder(ctx, providerOrder.ProviderOrderID, orderID)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to capture provider order for order %d", orderID)
	}
	if capture.PayerID == "" {
		capture.PayerID = result.PayerID
	}

	// Non-fatal: a cart that fails to clear is an annoyance, not a lost payment.
	if err := srv.cart.Clear(ctx, owner); err != nil {
		srv.logger.Warn("Failed to clear cart after capture",
			slog.String("owner", string(owner)), slog.Any("error", err))
	}

	srv.logger.Info("Payment captured",
		slog.Int64("order_id", orderID), slog.String("status", capture.Status))

	return capture, nil
}

// writeApprovalQR renders the approval link as a PNG next to the configured
// output dir. QR output is best effort and never blocks checkout.
func (srv *checkoutService) writeApprovalQR(orderID int64, approvalURL string) string {
	if srv.qr == nil || srv.cfg.QRCode == nil {
		return ""
	}

	png, err := srv.qr.ApprovalQR(approvalURL)
	if err != nil {
		srv.logger.Warn("Failed to render approval QR", slog.Any("error", err))

		return ""
	}

	path := filepath.Join(srv.cfg.QRCode.OutputDir, fmt.Sprintf("approval_order_%d.png", orderID))
	if err := os.WriteFile(path, png, 0o600); err != nil {
		srv.logger.Warn("Failed to write approval QR", slog.String("path", path), slog.Any("error", err))

		return ""
	}

	return path
}
