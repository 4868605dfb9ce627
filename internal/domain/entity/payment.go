package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payment representa un abono registrado contra una factura.
// Los pagos son append-only: nunca se editan ni se eliminan.
type Payment struct {
	ID            string
	InvoiceID     string
	Amount        decimal.Decimal
	PaymentDate   time.Time
	PaymentMethod string
	Notes         string
	CreatedAt     time.Time
}
