package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceItem representa una línea de detalle de una factura.
// Total = Quantity * UnitPrice; la línea es inmutable una vez calculada
// (una edición reemplaza las líneas, no las muta).
type InvoiceItem struct {
	ID          string
	InvoiceID   string
	Description string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
	Total       decimal.Decimal
	CreatedAt   time.Time
}
