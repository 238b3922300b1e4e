package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/robfig/cron/v3"

	"github.com/davidmora/shopledger-api/internal/application/catalog"
	"github.com/davidmora/shopledger-api/internal/application/ledger"
	"github.com/davidmora/shopledger-api/internal/infrastructure/postgres"
	httpRouter "github.com/davidmora/shopledger-api/internal/interfaces/http"
	"github.com/davidmora/shopledger-api/pkg/config"
	"github.com/davidmora/shopledger-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	shopRepo := postgres.NewShopRepository(pool)
	resourceRepo := postgres.NewResourceRepository(pool)
	balanceRepo := postgres.NewBalanceRepository(pool)
	auditRepo := postgres.NewAuditRepository(pool)
	alertRepo := postgres.NewAlertRepository(pool)
	notificationRepo := postgres.NewNotificationRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	coordinator := ledger.NewUpdateCoordinator(
		txRunner, shopRepo, resourceRepo, balanceRepo, auditRepo,
		cfg.Ledger.MaxRetries,
	)
	alertUC := ledger.NewAlertUseCase(txRunner, alertRepo)
	notificationUC := ledger.NewNotificationUseCase(notificationRepo)
	resourceUC := catalog.NewResourceUseCase(txRunner, resourceRepo)

	// Verificación periódica: el balance vivo de cada par debe coincidir con
	// el replay de su historial. Los desajustes solo se reportan en el log.
	scheduler := cron.New()
	if cfg.Ledger.ConsistencyCron != "" {
		checker := ledger.NewConsistencyChecker(balanceRepo, auditRepo, log.Zerolog())
		_, err := scheduler.AddFunc(cfg.Ledger.ConsistencyCron, func() {
			runCtx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
			defer cancel()
			mismatches, err := checker.Run(runCtx)
			if err != nil {
				log.Error().Err(err).Msg("verificación de consistencia")
				return
			}
			log.Info().Int("mismatches", mismatches).Msg("verificación de consistencia completada")
		})
		if err != nil {
			log.Fatal().Err(err).Str("cron", cfg.Ledger.ConsistencyCron).Msg("programar verificación")
		}
	}
	scheduler.Start()
	defer scheduler.Stop()

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "ShopLedger API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		ResourceUC:     resourceUC,
		Coordinator:    coordinator,
		AlertUC:        alertUC,
		NotificationUC: notificationUC,
		ShopRepo:       shopRepo,
		JWTSecret:      cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
