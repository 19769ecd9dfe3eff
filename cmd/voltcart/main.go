package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"voltcart/config"
	"voltcart/internal/delivery"
	"voltcart/internal/delivery/http"
	"voltcart/internal/delivery/http/middleware"
	"voltcart/internal/delivery/http/router/handler"
	deliverymiddleware "voltcart/internal/delivery/middleware"
	"voltcart/internal/domain/service"
	"voltcart/internal/infra/auth"
	"voltcart/internal/infra/captcha"
	logs "voltcart/internal/infra/log"
	"voltcart/internal/infra/mail"
	"voltcart/internal/infra/notification"
	"voltcart/internal/infra/otp"
	"voltcart/internal/infra/payment/khalti"
	"voltcart/internal/infra/persistence/mongo"
	"voltcart/internal/infra/persistence/postgres"
	"voltcart/internal/infra/persistence/redis"
	"voltcart/internal/infra/pubsub"
	"voltcart/internal/infra/qrcode"
	"voltcart/internal/infra/ratelimit"
	"voltcart/internal/infra/storage"
	"voltcart/internal/usecase/impl"

	"go.uber.org/fx"
)

type startServerParams struct {
	fx.In
	fx.Lifecycle

	Deliveries []delivery.Delivery `group:"deliveries"`
}

func main() {
	fx.New(
		injectInfra(),
		injectRepo(),
		injectService(),
		injectUsecase(),
		injectDelivery(),
		injectMiddleware(),
		injectHandler(),
		fx.Invoke(
			startServer,
		),
	).Run()
}

func injectInfra() fx.Option {
	return fx.Options(
		fx.Provide(
			config.New,
			logs.New,
			context.Background,
			postgres.New,
			redis.New,
			mongo.NewDatabase,
		),
		pubsub.Module,
	)
}

func injectRepo() fx.Option {
	return fx.Options(
		fx.Provide(
			postgres.NewUserRepository,
			postgres.NewCredentialRepository,
			postgres.NewPasswordHistoryRepository,
			postgres.NewRefreshTokenRepository,
			postgres.NewTransactionManager,
			postgres.NewProductRepository,
			postgres.NewCartRepository,
			postgres.NewOrderRepository,
			postgres.NewReviewRepository,
			postgres.NewFavouriteRepository,
			postgres.NewPaymentRepository,
			mongo.NewActivityLogRepository,
		),
	)
}

func injectService() fx.Option {
	return fx.Options(
		fx.Provide(
			auth.NewBcryptHasher,
			auth.NewJWTService,
			captcha.NewHTTPVerifier,
			mail.NewSMTPMailer,
			otp.NewRedisOTPService,
			ratelimit.NewRedisLimiter,
			khalti.NewClient,
			storage.NewBlobImageStore,
			newFirebaseService,
			newQRCodeService,
		),
	)
}

// newFirebaseService creates a Firebase service with dependency injection
func newFirebaseService(ctx context.Context, cfg *config.Config) (service.NotificationService, error) {
	if cfg.Firebase == nil {
		return nil, nil // Firebase is optional
	}

	svc, err := notification.NewFirebaseService(ctx, cfg.Firebase.CredentialsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create Firebase service: %w", err)
	}

	return svc, nil
}

// newQRCodeService creates a QR code service with dependency injection
func newQRCodeService(cfg *config.Config) service.QRCodeService {
	if cfg.QRCode == nil {
		// Use default values if not configured
		return qrcode.NewQRCodeService(256, "M")
	}

	return qrcode.NewQRCodeService(cfg.QRCode.Size, cfg.QRCode.ErrorCorrectionLevel)
}

func injectUsecase() fx.Option {
	return fx.Options(
		fx.Provide(
			impl.NewUserService,
			impl.NewProductService,
			impl.NewCartService,
			impl.NewOrderService,
			impl.NewPaymentService,
			impl.NewReviewService,
			impl.NewFavouriteService,
			impl.NewActivityLogService,
		),
	)
}

func injectMiddleware() fx.Option {
	return fx.Options(
		fx.Provide(
			middleware.NewAuthMiddleware,
			middleware.NewErrorMiddleware,
			middleware.NewRateLimitMiddleware,
			middleware.NewAuditMiddleware,
			deliverymiddleware.NewRequestIDMiddleware,
			deliverymiddleware.NewLoggerMiddleware,
		),
	)
}

func injectHandler() fx.Option {
	return fx.Options(
		fx.Provide(
			handler.NewUserHandler,
			handler.NewProductHandler,
			handler.NewCartHandler,
			handler.NewOrderHandler,
			handler.NewPaymentHandler,
			handler.NewReviewHandler,
			handler.NewFavouriteHandler,
			handler.NewActivityLogHandler,
		),
	)
}

func injectDelivery() fx.Option {
	return fx.Options(
		fx.Provide(
			fx.Annotate(
				http.NewServer,
				fx.ResultTags(`group:"deliveries"`),
			),
		),
	)
}

func startServer(ctx context.Context, params startServerParams) {
	for _, delivery := range params.Deliveries {
		go func() {
			if err := delivery.Serve(ctx); err != nil {
				slog.Error("Failed to start server", slog.Any("error", err))
				os.Exit(1)
			}
		}()
	}
}
