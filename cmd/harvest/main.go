package main

import (
	"context"
	"log/slog"
	"os"

	"harvest/config"
	"harvest/internal/delivery"
	"harvest/internal/delivery/cli"
	"harvest/internal/domain/service"
	"harvest/internal/infra/api"
	"harvest/internal/infra/auth"
	logs "harvest/internal/infra/log"
	"harvest/internal/infra/payment"
	"harvest/internal/infra/persistence/sqlite"
	"harvest/internal/infra/qrcode"
	"harvest/internal/usecase/impl"

	"github.com/go-playground/validator/v10"
	"go.uber.org/fx"
)

type startStorefrontParams struct {
	fx.In
	fx.Shutdowner

	Deliveries []delivery.Delivery `group:"deliveries"`
}

func main() {
	fx.New(
		injectInfra(),
		injectRepo(),
		injectService(),
		injectGateway(),
		injectUsecase(),
		injectDelivery(),
		fx.Invoke(
			startStorefront,
		),
	).Run()
}

func injectInfra() fx.Option {
	return fx.Provide(
		config.New,
		logs.New,
		context.Background,
		sqlite.New,
	)
}

func injectRepo() fx.Option {
	return fx.Options(
		fx.Provide(
			sqlite.NewCredentialRepository,
			sqlite.NewCollectionRepository,
			sqlite.NewTransactionManager,
		),
	)
}

func injectService() fx.Option {
	return fx.Options(
		fx.Provide(
			newValidator,
			auth.NewCredentialVault,
			auth.NewTokenInspector,
			payment.NewCallbackListener,
			newQRCodeService,
		),
	)
}

// newValidator creates the shared request validator
func newValidator() *validator.Validate {
	return validator.New()
}

// newQRCodeService creates a QR code service with dependency injection
func newQRCodeService(cfg *config.Config) service.QRCodeService {
	if cfg.QRCode == nil {
		// Use default values if not configured
		return qrcode.NewQRCodeService(256, "M")
	}

	return qrcode.NewQRCodeService(cfg.QRCode.Size, cfg.QRCode.ErrorCorrectionLevel)
}

func injectGateway() fx.Option {
	return fx.Options(
		fx.Provide(
			api.NewClient,
			api.NewAuthGateway,
			api.NewProfileGateway,
			api.NewProductGateway,
			api.NewOrderGateway,
			api.NewPaymentGateway,
		),
	)
}

func injectUsecase() fx.Option {
	return fx.Options(
		fx.Provide(
			impl.NewSessionController,
			impl.NewRouteGate,
			impl.NewCartService,
			impl.NewWishlistService,
			impl.NewCatalogService,
			impl.NewProfileService,
			impl.NewCheckoutService,
		),
	)
}

func injectDelivery() fx.Option {
	return fx.Options(
		fx.Provide(
			fx.Annotate(
				cli.NewServer,
				fx.ResultTags(`group:"deliveries"`),
			),
		),
	)
}

func startStorefront(ctx context.Context, params startStorefrontParams) {
	for _, delivery := range params.Deliveries {
		go func() {
			if err := delivery.Serve(ctx); err != nil {
				slog.Error("Storefront stopped", slog.Any("error", err))
			}

			// The shell returning, cleanly or not, ends the process; run
			// every OnStop hook on the way out.
			if shutdownErr := params.Shutdown(); shutdownErr != nil {
				slog.Error("Failed to shutdown gracefully", slog.Any("error", shutdownErr))
				os.Exit(1)
			}
		}()
	}
}
