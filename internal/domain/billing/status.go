package billing

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/billing-api/internal/domain/entity"
)

// ResolveStatus deriva el estado de una factura a partir del total adeudado y
// el acumulado de pagos registrados.
//   - totalPaid >= totalAmount -> Paid (el sobrepago se trata igual que el pago exacto)
//   - totalPaid > 0            -> Partial
//   - en otro caso             -> Unpaid
// Paid es terminal: no existe camino de reversa de pagos, por lo que este
// resolver nunca regresa una factura pagada a Partial o Unpaid.
func ResolveStatus(totalAmount, totalPaid decimal.Decimal) string {
	if totalPaid.GreaterThanOrEqual(totalAmount) {
		return entity.StatusPaid
	}
	if totalPaid.GreaterThan(decimal.Zero) {
		return entity.StatusPartial
	}
	return entity.StatusUnpaid
}
