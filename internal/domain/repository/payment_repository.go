package repository

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/billing-api/internal/domain/entity"
)

// PaymentRepository define el puerto de persistencia para Payment.
// Los pagos son append-only: no hay Update ni Delete.
type PaymentRepository interface {
	Create(payment *entity.Payment) error
	ListByInvoice(invoiceID string) ([]*entity.Payment, error)
	// SumByInvoice devuelve el acumulado pagado contra la factura.
	SumByInvoice(invoiceID string) (decimal.Decimal, error)
}
