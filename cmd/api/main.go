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

	"github.com/intercambiomed/intercambio-api/internal/application/auth"
	"github.com/intercambiomed/intercambio-api/internal/application/exchange"
	"github.com/intercambiomed/intercambio-api/internal/application/notify"
	"github.com/intercambiomed/intercambio-api/internal/infrastructure/broadcast"
	"github.com/intercambiomed/intercambio-api/internal/infrastructure/interop"
	infrapdf "github.com/intercambiomed/intercambio-api/internal/infrastructure/pdf"
	"github.com/intercambiomed/intercambio-api/internal/infrastructure/postgres"
	httpRouter "github.com/intercambiomed/intercambio-api/internal/interfaces/http"
	"github.com/intercambiomed/intercambio-api/pkg/config"
	"github.com/intercambiomed/intercambio-api/pkg/logger"

	_ "github.com/intercambiomed/intercambio-api/docs"
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

	hospitalRepo := postgres.NewHospitalRepository(pool)
	medRepo := postgres.NewMedicationRepository(pool)
	pubRepo := postgres.NewPublicationRepository(pool)
	donRepo := postgres.NewDonationRepository(pool)
	reqRepo := postgres.NewRequestRepository(pool)
	envRepo := postgres.NewShipmentRepository(pool)
	notifRepo := postgres.NewNotificationRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	hub := broadcast.NewHub(cfg.SSE.BufferSize, cfg.SSE.Heartbeat(), log)

	actaGenerator := infrapdf.NewActaGenerator()
	remisionBuilder := interop.NewRemisionXMLBuilder()

	exchangeUC := exchange.NewUseCase(
		txRunner, hospitalRepo, medRepo, pubRepo, donRepo, reqRepo, envRepo,
		hub, actaGenerator, remisionBuilder,
	)
	notifyUC := notify.NewUseCase(notifRepo)
	authUC := auth.NewAuthUseCase(userRepo, hospitalRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	app := fiber.New(fiber.Config{
		AppName:     cfg.App.Name,
		ReadTimeout: time.Second * 10,
		// Sin write deadline: /api/notificaciones/stream mantiene la conexión
		// abierta indefinidamente y un deadline la cortaría antes del primer
		// heartbeat (SSE_HEARTBEAT_SECONDS). Una conexión muerta se detecta
		// por el fallo de escritura del propio heartbeat.
		WriteTimeout: 0,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Intercambio Med API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		ExchangeUC:   exchangeUC,
		NotifyUC:     notifyUC,
		AuthUC:       authUC,
		Hub:          hub,
		HospitalRepo: hospitalRepo,
		MedRepo:      medRepo,
		JWTSecret:    cfg.JWT.Secret,
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
