package billing

import (
	"context"

	"github.com/jhoicas/billing-api/internal/domain/repository"
)

// TxRunner ejecuta una función con los repositorios de facturación atados a
// una misma transacción. Si fn retorna error se hace rollback: la factura y
// sus líneas, o el pago y su cambio de estado, se persisten completos o nada.
type TxRunner interface {
	RunBilling(ctx context.Context, fn func(
		customerRepo repository.CustomerRepository,
		invoiceRepo repository.InvoiceRepository,
		paymentRepo repository.PaymentRepository,
	) error) error
}
