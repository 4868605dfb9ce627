package billing

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/billing-api/internal/application/dto"
	"github.com/jhoicas/billing-api/internal/domain"
	"github.com/jhoicas/billing-api/internal/domain/billing"
	"github.com/jhoicas/billing-api/internal/domain/entity"
	"github.com/jhoicas/billing-api/internal/domain/repository"
)

// PaymentUseCase registra pagos y resuelve el estado de la factura a partir
// del acumulado pagado.
type PaymentUseCase struct {
	txRunner    TxRunner
	paymentRepo repository.PaymentRepository
}

// NewPaymentUseCase construye el caso de uso.
func NewPaymentUseCase(txRunner TxRunner, paymentRepo repository.PaymentRepository) *PaymentUseCase {
	return &PaymentUseCase{txRunner: txRunner, paymentRepo: paymentRepo}
}

// Record registra un pago contra la factura y actualiza su estado si cambió.
// Todo ocurre en una transacción con la fila de la factura bloqueada
// (FOR UPDATE): un pago y el barrido de mora sobre la misma factura no pueden
// intercalarse, y el pago nunca queda persistido sin su cambio de estado.
func (uc *PaymentUseCase) Record(ctx context.Context, invoiceID string, in dto.CreatePaymentRequest) (*dto.PaymentResponse, error) {
	if invoiceID == "" {
		return nil, domain.ErrInvalidInput
	}
	if !in.Amount.GreaterThan(decimal.Zero) {
		return nil, fmt.Errorf("%w: el monto del pago debe ser positivo", domain.ErrInvalidInput)
	}
	if !entity.ValidPaymentMethod(in.PaymentMethod) {
		return nil, fmt.Errorf("%w: método de pago desconocido", domain.ErrInvalidInput)
	}
	if in.PaymentDate.IsZero() {
		return nil, fmt.Errorf("%w: payment_date requerido", domain.ErrInvalidInput)
	}

	now := time.Now()
	payment := &entity.Payment{
		ID:            uuid.New().String(),
		InvoiceID:     invoiceID,
		Amount:        in.Amount,
		PaymentDate:   in.PaymentDate,
		PaymentMethod: in.PaymentMethod,
		Notes:         in.Notes,
		CreatedAt:     now,
	}

	var newStatus string
	err := uc.txRunner.RunBilling(ctx, func(
		_ repository.CustomerRepository,
		invoiceRepo repository.InvoiceRepository,
		paymentRepo repository.PaymentRepository,
	) error {
		inv, err := invoiceRepo.GetByIDForUpdate(invoiceID)
		if err != nil {
			return err
		}
		if inv == nil {
			return domain.ErrNotFound
		}
		if err := paymentRepo.Create(payment); err != nil {
			return err
		}
		// Acumulado dentro de la misma tx: incluye el pago recién insertado.
		totalPaid, err := paymentRepo.SumByInvoice(invoiceID)
		if err != nil {
			return err
		}
		newStatus = billing.ResolveStatus(inv.TotalAmount, totalPaid)
		if newStatus != inv.Status {
			if err := invoiceRepo.UpdateStatus(inv.ID, newStatus, now); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	resp := toPaymentResponse(payment, newStatus)
	return &resp, nil
}

// ListByInvoice devuelve los pagos registrados contra una factura.
func (uc *PaymentUseCase) ListByInvoice(ctx context.Context, invoiceID string) ([]dto.PaymentResponse, error) {
	if invoiceID == "" {
		return nil, domain.ErrInvalidInput
	}
	list, err := uc.paymentRepo.ListByInvoice(invoiceID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.PaymentResponse, 0, len(list))
	for _, p := range list {
		out = append(out, toPaymentResponse(p, ""))
	}
	return out, nil
}
