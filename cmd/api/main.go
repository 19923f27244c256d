package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	html "github.com/gofiber/template/html/v2"
	"go.uber.org/zap"

	httptransport "github.com/ultrastartup/platform/internal/api/http"
	"github.com/ultrastartup/platform/internal/api/http/handlers"
	"github.com/ultrastartup/platform/internal/auth"
	"github.com/ultrastartup/platform/internal/billing"
	"github.com/ultrastartup/platform/internal/config"
	"github.com/ultrastartup/platform/internal/events"
	"github.com/ultrastartup/platform/internal/observability"
	"github.com/ultrastartup/platform/internal/persistence"
	"github.com/ultrastartup/platform/internal/repository"
	"github.com/ultrastartup/platform/internal/service"
	"github.com/ultrastartup/platform/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	userRepo := repository.NewUserRepository(pg.PoolHandle())
	sessionStore := persistence.NewCheckoutSessionStore(redis, cfg.Stripe.PendingSessionTTL())

	dispatcher := events.NewInMemoryDispatcher()
	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)
	worker.StartNotificationWorker(notificationService)

	authService := service.NewAuthService(cfg.Auth, userRepo, dispatcher)
	billingService := service.NewBillingService(
		billing.NewStripeClient(cfg.Stripe.SecretKey),
		sessionStore,
		userRepo,
		dispatcher,
		cfg.Stripe,
	)
	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager())

	engine := html.New("./web/templates", ".html")
	app := fiber.New(fiber.Config{Views: engine})

	metrics := observability.NewMetrics()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Users:          handlers.NewUsersHandler(authService),
		Checkout:       handlers.NewCheckoutHandler(billingService, authService.TokenManager()),
		Pages:          handlers.NewPagesHandler(cfg.App.Name),
		AuthMiddleware: authMiddleware,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
