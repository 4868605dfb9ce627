package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una factura según su historial de pagos y fecha de vencimiento.
const (
	StatusUnpaid  = "Unpaid"  // Creada, sin pagos registrados
	StatusPartial = "Partial" // Pagos acumulados menores al total
	StatusPaid    = "Paid"    // Pagos acumulados >= total (terminal)
	StatusOverdue = "Overdue" // Unpaid con fecha de vencimiento pasada (barrido)
)

// Métodos de pago aceptados.
const (
	MethodBankTransfer = "Bank Transfer"
	MethodCash         = "Cash"
	MethodCreditCard   = "Credit Card"
	MethodCheck        = "Check"
	MethodOther        = "Other"
)

// ValidStatus indica si s es un estado de factura conocido.
func ValidStatus(s string) bool {
	switch s {
	case StatusUnpaid, StatusPartial, StatusPaid, StatusOverdue:
		return true
	}
	return false
}

// ValidPaymentMethod indica si m es un método de pago aceptado.
func ValidPaymentMethod(m string) bool {
	switch m {
	case MethodBankTransfer, MethodCash, MethodCreditCard, MethodCheck, MethodOther:
		return true
	}
	return false
}

// Invoice representa la cabecera de una factura.
// Invariante: TotalAmount = (Subtotal - DiscountAmount) + TaxAmount, con
// DiscountAmount y TaxAmount redondeados a 2 decimales de forma independiente
// (ver billing.ComputeTotals).
type Invoice struct {
	ID             string
	InvoiceNumber  string // INV-000001, único, consecutivo
	CustomerID     string
	InvoiceDate    time.Time
	DueDate        time.Time
	Subtotal       decimal.Decimal
	TaxRate        decimal.Decimal // porcentaje 0-100
	TaxAmount      decimal.Decimal
	DiscountRate   decimal.Decimal // porcentaje 0-100
	DiscountAmount decimal.Decimal
	TotalAmount    decimal.Decimal
	PaymentMethod  string
	Status         string
	Notes          string
	SellerName     string
	SellerEmail    string
	SellerPhone    string
	SellerAddress  string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
