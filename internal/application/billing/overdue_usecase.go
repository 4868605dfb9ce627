package billing

import (
	"context"
	"time"

	"github.com/jhoicas/billing-api/internal/application/dto"
	"github.com/jhoicas/billing-api/internal/domain/repository"
	"github.com/jhoicas/billing-api/pkg/logger"
)

// OverdueUseCase barrido de mora: reclasifica como Overdue toda factura
// Unpaid cuya fecha de vencimiento ya pasó.
type OverdueUseCase struct {
	invoiceRepo repository.InvoiceRepository
	log         *logger.Logger
}

// NewOverdueUseCase construye el caso de uso.
func NewOverdueUseCase(invoiceRepo repository.InvoiceRepository, log *logger.Logger) *OverdueUseCase {
	return &OverdueUseCase{invoiceRepo: invoiceRepo, log: log}
}

// Run ejecuta el barrido y devuelve las facturas que pasaron a Overdue.
// Idempotente: sin nuevas facturas vencidas devuelve lista vacía y no escribe.
// El UPDATE condicional es un solo statement atómico, seguro frente a pagos
// concurrentes (las facturas Partial y Paid no entran al predicado).
func (uc *OverdueUseCase) Run(ctx context.Context) ([]*dto.InvoiceResponse, error) {
	now := time.Now()
	updated, err := uc.invoiceRepo.MarkOverdue(now)
	if err != nil {
		return nil, err
	}
	if len(updated) > 0 {
		uc.log.Info().Int("count", len(updated)).Msg("facturas marcadas como vencidas")
	}
	out := make([]*dto.InvoiceResponse, 0, len(updated))
	for _, inv := range updated {
		out = append(out, toInvoiceResponse(inv))
	}
	return out, nil
}
