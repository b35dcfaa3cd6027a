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

	_ "github.com/hidrive/inventario-api/docs"
	"github.com/hidrive/inventario-api/internal/application/auth"
	"github.com/hidrive/inventario-api/internal/application/inventory"
	"github.com/hidrive/inventario-api/internal/application/ports"
	"github.com/hidrive/inventario-api/internal/application/usecase"
	infraai "github.com/hidrive/inventario-api/internal/infrastructure/ai"
	"github.com/hidrive/inventario-api/internal/infrastructure/notify"
	"github.com/hidrive/inventario-api/internal/infrastructure/postgres"
	httpRouter "github.com/hidrive/inventario-api/internal/interfaces/http"
	"github.com/hidrive/inventario-api/pkg/config"
	"github.com/hidrive/inventario-api/pkg/logger"
)

// @title        HI-DRIVE Inventario API
// @version      1.0
// @description  Gestión de inventario con ajustes de stock atómicos, pedidos y ventas directas.
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   "info",
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	itemRepo := postgres.NewItemRepository(pool)
	historyRepo := postgres.NewHistoryRepository(pool)
	orderRepo := postgres.NewOrderRepository(pool)
	supplierRepo := postgres.NewSupplierRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	// Alertas por WhatsApp: solo si hay credenciales de Twilio.
	var notifier ports.Notifier
	twilio := notify.NewTwilioWhatsApp(
		cfg.Twilio.AccountSID, cfg.Twilio.AuthToken,
		cfg.Twilio.FromNumber, cfg.Twilio.ToNumber,
	)
	if twilio.Configured() {
		notifier = twilio
	} else {
		log.Info().Msg("Twilio sin configurar: alertas de stock deshabilitadas")
	}

	adjuster := inventory.NewStockAdjusterUseCase(txRunner, notifier)
	itemUC := usecase.NewItemUseCase(txRunner, itemRepo, historyRepo)
	orderUC := usecase.NewOrderUseCase(orderRepo, itemRepo)
	supplierUC := usecase.NewSupplierUseCase(supplierRepo)
	authUC := auth.NewAuthUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	// Análisis de imágenes: solo si hay API key de Gemini.
	var vision ports.VisionService
	if cfg.AI.GeminiAPIKey != "" {
		vision = infraai.NewGeminiService(cfg.AI.GeminiAPIKey, cfg.AI.GeminiModel)
	} else {
		log.Info().Msg("GEMINI_API_KEY sin configurar: análisis de imágenes deshabilitado")
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "HI-DRIVE Inventario API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		ItemUC:     itemUC,
		OrderUC:    orderUC,
		SupplierUC: supplierUC,
		Adjuster:   adjuster,
		AuthUC:     authUC,
		Vision:     vision,
		JWTSecret:  cfg.JWT.Secret,
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
