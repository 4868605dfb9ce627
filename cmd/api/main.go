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

	"github.com/jhoicas/billing-api/internal/application/auth"
	"github.com/jhoicas/billing-api/internal/application/billing"
	"github.com/jhoicas/billing-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/billing-api/internal/interfaces/http"
	"github.com/jhoicas/billing-api/pkg/config"
	"github.com/jhoicas/billing-api/pkg/logger"
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

	customerRepo := postgres.NewCustomerRepository(pool)
	invoiceRepo := postgres.NewInvoiceRepository(pool)
	paymentRepo := postgres.NewPaymentRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	customerUC := billing.NewCustomerUseCase(customerRepo)
	invoiceUC := billing.NewInvoiceUseCase(txRunner, customerRepo, invoiceRepo, paymentRepo)
	paymentUC := billing.NewPaymentUseCase(txRunner, paymentRepo)
	overdueUC := billing.NewOverdueUseCase(invoiceRepo, log)
	authUC := auth.NewAuthUseCase(
		auth.AdminConfig{
			Username:     cfg.Admin.Username,
			Password:     cfg.Admin.Password,
			PasswordHash: cfg.Admin.PasswordHash,
		},
		auth.JWTConfig{
			Secret:     cfg.JWT.Secret,
			ExpMinutes: cfg.JWT.Expiration,
			Issuer:     cfg.JWT.Issuer,
		},
	)

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
		Title:    "Billing API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:     authUC,
		CustomerUC: customerUC,
		InvoiceUC:  invoiceUC,
		PaymentUC:  paymentUC,
		OverdueUC:  overdueUC,
		JWTSecret:  cfg.JWT.Secret,
	})

	// Barrido periódico de facturas vencidas
	sweepCtx, stopSweep := context.WithCancel(ctx)
	defer stopSweep()
	if cfg.Sweep.IntervalMinutes > 0 {
		go runSweep(sweepCtx, overdueUC, time.Duration(cfg.Sweep.IntervalMinutes)*time.Minute, log)
	}

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")
	stopSweep()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}

// runSweep ejecuta el barrido de mora al arrancar y luego cada interval.
func runSweep(ctx context.Context, uc *billing.OverdueUseCase, interval time.Duration, log *logger.Logger) {
	if _, err := uc.Run(ctx); err != nil {
		log.Error().Err(err).Msg("barrido de facturas vencidas")
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := uc.Run(ctx); err != nil {
				log.Error().Err(err).Msg("barrido de facturas vencidas")
			}
		}
	}
}
