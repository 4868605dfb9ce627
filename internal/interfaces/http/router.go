package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/billing-api/internal/application/auth"
	"github.com/jhoicas/billing-api/internal/application/billing"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC     *auth.AuthUseCase
	CustomerUC *billing.CustomerUseCase
	InvoiceUC  *billing.InvoiceUseCase
	PaymentUC  *billing.PaymentUseCase
	OverdueUC  *billing.OverdueUseCase
	JWTSecret  string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Customers (protegido)
	customers := protected.Group("/customers")
	customerHandler := NewCustomerHandler(deps.CustomerUC)
	customers.Post("/", customerHandler.Create)
	customers.Get("/", customerHandler.List)
	customers.Get("/:id", customerHandler.GetByID)
	customers.Put("/:id", customerHandler.Update)
	customers.Delete("/:id", customerHandler.Delete)

	// Invoices (protegido)
	invoices := protected.Group("/invoices")
	invoiceHandler := NewInvoiceHandler(deps.InvoiceUC, deps.OverdueUC)
	invoices.Post("/", invoiceHandler.Create)
	invoices.Get("/", invoiceHandler.List)
	// El barrido también puede dispararse bajo demanda, no solo por el ticker.
	invoices.Post("/check-overdue", invoiceHandler.CheckOverdue)
	invoices.Get("/:id", invoiceHandler.GetByID)
	invoices.Put("/:id", invoiceHandler.Update)
	invoices.Patch("/:id/status", invoiceHandler.UpdateStatus)
	invoices.Delete("/:id", invoiceHandler.Delete)

	// Payments (protegido, anidados bajo la factura que saldan)
	paymentHandler := NewPaymentHandler(deps.PaymentUC)
	invoices.Post("/:id/payments", paymentHandler.Create)
	invoices.Get("/:id/payments", paymentHandler.List)
}
