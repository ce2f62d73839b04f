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

	"github.com/jhoicas/cfdi-api/internal/application/billing"
	"github.com/jhoicas/cfdi-api/internal/domain/cfdi"
	"github.com/jhoicas/cfdi-api/internal/infrastructure/cfdixml"
	"github.com/jhoicas/cfdi-api/internal/infrastructure/pac"
	"github.com/jhoicas/cfdi-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/cfdi-api/internal/interfaces/http"
	"github.com/jhoicas/cfdi-api/pkg/config"
	"github.com/jhoicas/cfdi-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("iva", cfg.CFDI.TaxRate.String()).
		Str("pac_mode", cfg.PAC.Mode).
		Msg("iniciando aplicación")

	if cfg.DB.AutoMigrate {
		if err := postgres.Migrate(cfg.DB.ConnectionString(), log.Component("migrate")); err != nil {
			log.Fatal().Err(err).Msg("migraciones")
		}
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	invoiceRepo := postgres.NewInvoiceRepository(pool)
	companyRepo := postgres.NewCompanyRepository(pool)
	customerRepo := postgres.NewCustomerRepository(pool)

	validator := cfdi.NewValidator(
		cfdi.WithTaxRate(cfg.CFDI.TaxRate),
		cfdi.WithTolerance(cfg.CFDI.Tolerance),
	)
	previewBuilder := cfdixml.NewPreviewBuilder(cfg.CFDI.TaxRate)
	stamper, err := pac.NewStamper(cfg.PAC, log)
	if err != nil {
		log.Fatal().Err(err).Msg("configurar PAC")
	}

	validateUC := billing.NewValidateInvoiceUseCase(invoiceRepo, companyRepo, customerRepo, validator, log)
	previewUC := billing.NewPreviewInvoiceUseCase(invoiceRepo, companyRepo, customerRepo, validator, previewBuilder, log)
	// Ciclo de timbrado: Validar → XML → PAC → MarkStamped
	stampUC := billing.NewStampInvoiceUseCase(invoiceRepo, companyRepo, customerRepo, validator, previewBuilder, stamper, log)

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
		Title:    "CFDI API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		ValidateInvoice: validateUC,
		PreviewInvoice:  previewUC,
		StampInvoice:    stampUC,
		Catalogues:      billing.NewCatalogueUseCase(),
		JWTSecret:       cfg.JWT.Secret,
		JWTIssuer:       cfg.JWT.Issuer,
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
