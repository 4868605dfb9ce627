package billing

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/billing-api/internal/application/dto"
	"github.com/jhoicas/billing-api/internal/domain"
	"github.com/jhoicas/billing-api/internal/domain/billing"
	"github.com/jhoicas/billing-api/internal/domain/entity"
	"github.com/jhoicas/billing-api/internal/domain/repository"
)

// InvoiceUseCase casos de uso de facturas: creación con cálculo de totales,
// edición con recálculo, consulta y borrado.
type InvoiceUseCase struct {
	txRunner     TxRunner
	customerRepo repository.CustomerRepository
	invoiceRepo  repository.InvoiceRepository
	paymentRepo  repository.PaymentRepository
}

// NewInvoiceUseCase construye el caso de uso.
func NewInvoiceUseCase(
	txRunner TxRunner,
	customerRepo repository.CustomerRepository,
	invoiceRepo repository.InvoiceRepository,
	paymentRepo repository.PaymentRepository,
) *InvoiceUseCase {
	return &InvoiceUseCase{
		txRunner:     txRunner,
		customerRepo: customerRepo,
		invoiceRepo:  invoiceRepo,
		paymentRepo:  paymentRepo,
	}
}

// Create calcula los totales, reserva el consecutivo y guarda cabecera y
// líneas en una sola transacción.
func (uc *InvoiceUseCase) Create(ctx context.Context, in dto.CreateInvoiceRequest) (*dto.InvoiceResponse, error) {
	if in.CustomerID == "" || in.SellerName == "" || in.DueDate.IsZero() {
		return nil, domain.ErrInvalidInput
	}
	if !entity.ValidPaymentMethod(in.PaymentMethod) {
		return nil, fmt.Errorf("%w: método de pago desconocido", domain.ErrInvalidInput)
	}

	// Validar cliente (fuera de la tx, solo lectura)
	customer, err := uc.customerRepo.GetByID(in.CustomerID)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, domain.ErrNotFound
	}

	lines := toLineInputs(in.Items)
	totals, err := billing.ComputeTotals(lines, in.TaxRate, in.DiscountRate)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	inv := &entity.Invoice{
		ID:             uuid.New().String(),
		CustomerID:     in.CustomerID,
		InvoiceDate:    now,
		DueDate:        in.DueDate,
		Subtotal:       totals.Subtotal,
		TaxRate:        in.TaxRate,
		TaxAmount:      totals.TaxAmount,
		DiscountRate:   in.DiscountRate,
		DiscountAmount: totals.DiscountAmount,
		TotalAmount:    totals.TotalAmount,
		PaymentMethod:  in.PaymentMethod,
		Status:         entity.StatusUnpaid,
		Notes:          in.Notes,
		SellerName:     in.SellerName,
		SellerEmail:    in.SellerEmail,
		SellerPhone:    in.SellerPhone,
		SellerAddress:  in.SellerAddress,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	err = uc.txRunner.RunBilling(ctx, func(
		_ repository.CustomerRepository,
		invoiceRepo repository.InvoiceRepository,
		_ repository.PaymentRepository,
	) error {
		// Consecutivo desde la secuencia de la DB; la constraint única sobre
		// invoice_number respalda la unicidad ante creación concurrente.
		number, err := invoiceRepo.NextNumber()
		if err != nil {
			return err
		}
		inv.InvoiceNumber = number
		if err := invoiceRepo.Create(inv); err != nil {
			return err
		}
		for _, item := range billing.ToItems(inv.ID, lines) {
			item.ID = uuid.New().String()
			item.CreatedAt = now
			if err := invoiceRepo.CreateItem(item); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toInvoiceResponse(inv), nil
}

// Update edita una factura de forma parcial. Si cambian las líneas o alguna
// tasa, los montos se recalculan con las mismas reglas de la creación; las
// líneas se reemplazan completas (borrar e insertar), nunca se mutan.
func (uc *InvoiceUseCase) Update(ctx context.Context, id string, in dto.UpdateInvoiceRequest) (*dto.InvoiceResponse, error) {
	if id == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.PaymentMethod != nil && !entity.ValidPaymentMethod(*in.PaymentMethod) {
		return nil, fmt.Errorf("%w: método de pago desconocido", domain.ErrInvalidInput)
	}
	if in.Status != nil && !entity.ValidStatus(*in.Status) {
		return nil, fmt.Errorf("%w: estado desconocido", domain.ErrInvalidInput)
	}

	var inv *entity.Invoice
	err := uc.txRunner.RunBilling(ctx, func(
		customerRepo repository.CustomerRepository,
		invoiceRepo repository.InvoiceRepository,
		_ repository.PaymentRepository,
	) error {
		var err error
		inv, err = invoiceRepo.GetByIDForUpdate(id)
		if err != nil {
			return err
		}
		if inv == nil {
			return domain.ErrNotFound
		}
		if in.CustomerID != nil {
			customer, err := customerRepo.GetByID(*in.CustomerID)
			if err != nil {
				return err
			}
			if customer == nil {
				return domain.ErrNotFound
			}
			inv.CustomerID = *in.CustomerID
		}

		// Recalcular montos solo si cambian líneas o tasas
		recompute := in.Items != nil || in.TaxRate != nil || in.DiscountRate != nil
		if in.TaxRate != nil {
			inv.TaxRate = *in.TaxRate
		}
		if in.DiscountRate != nil {
			inv.DiscountRate = *in.DiscountRate
		}
		var lines []billing.LineInput
		if recompute {
			var totals billing.Totals
			if in.Items != nil {
				lines = toLineInputs(*in.Items)
				totals, err = billing.ComputeTotals(lines, inv.TaxRate, inv.DiscountRate)
			} else {
				totals, err = billing.ComputeFromSubtotal(inv.Subtotal, inv.TaxRate, inv.DiscountRate)
			}
			if err != nil {
				return err
			}
			inv.Subtotal = totals.Subtotal
			inv.DiscountAmount = totals.DiscountAmount
			inv.TaxAmount = totals.TaxAmount
			inv.TotalAmount = totals.TotalAmount
		}

		if in.DueDate != nil {
			inv.DueDate = *in.DueDate
		}
		if in.PaymentMethod != nil {
			inv.PaymentMethod = *in.PaymentMethod
		}
		if in.Status != nil {
			inv.Status = *in.Status
		}
		if in.Notes != nil {
			inv.Notes = *in.Notes
		}
		if in.SellerName != nil {
			inv.SellerName = *in.SellerName
		}
		if in.SellerEmail != nil {
			inv.SellerEmail = *in.SellerEmail
		}
		if in.SellerPhone != nil {
			inv.SellerPhone = *in.SellerPhone
		}
		if in.SellerAddress != nil {
			inv.SellerAddress = *in.SellerAddress
		}
		inv.UpdatedAt = time.Now()

		if err := invoiceRepo.Update(inv); err != nil {
			return err
		}
		if in.Items != nil {
			if err := invoiceRepo.DeleteItemsByInvoiceID(inv.ID); err != nil {
				return err
			}
			for _, item := range billing.ToItems(inv.ID, lines) {
				item.ID = uuid.New().String()
				item.CreatedAt = inv.UpdatedAt
				if err := invoiceRepo.CreateItem(item); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toInvoiceResponse(inv), nil
}

// UpdateStatus cambia manualmente el estado de una factura.
func (uc *InvoiceUseCase) UpdateStatus(ctx context.Context, id, status string) (*dto.InvoiceResponse, error) {
	if id == "" || !entity.ValidStatus(status) {
		return nil, domain.ErrInvalidInput
	}
	inv, err := uc.invoiceRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, domain.ErrNotFound
	}
	inv.Status = status
	inv.UpdatedAt = time.Now()
	if err := uc.invoiceRepo.UpdateStatus(inv.ID, inv.Status, inv.UpdatedAt); err != nil {
		return nil, err
	}
	return toInvoiceResponse(inv), nil
}

// List devuelve todas las facturas, más reciente primero.
func (uc *InvoiceUseCase) List(ctx context.Context) ([]*dto.InvoiceResponse, error) {
	list, err := uc.invoiceRepo.List()
	if err != nil {
		return nil, err
	}
	out := make([]*dto.InvoiceResponse, 0, len(list))
	for _, inv := range list {
		out = append(out, toInvoiceResponse(inv))
	}
	return out, nil
}

// GetDetails devuelve la factura con su cliente, líneas y pagos.
func (uc *InvoiceUseCase) GetDetails(ctx context.Context, id string) (*dto.InvoiceDetailsResponse, error) {
	inv, err := uc.invoiceRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, domain.ErrNotFound
	}
	customer, err := uc.customerRepo.GetByID(inv.CustomerID)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, domain.ErrNotFound
	}
	items, err := uc.invoiceRepo.GetItemsByInvoiceID(id)
	if err != nil {
		return nil, err
	}
	payments, err := uc.paymentRepo.ListByInvoice(id)
	if err != nil {
		return nil, err
	}

	resp := &dto.InvoiceDetailsResponse{
		Invoice:  *toInvoiceResponse(inv),
		Customer: *toCustomerResponse(customer),
		Items:    make([]dto.InvoiceItemResponse, 0, len(items)),
		Payments: make([]dto.PaymentResponse, 0, len(payments)),
	}
	for _, item := range items {
		resp.Items = append(resp.Items, toItemResponse(item))
	}
	for _, p := range payments {
		resp.Payments = append(resp.Payments, toPaymentResponse(p, ""))
	}
	return resp, nil
}

// Delete elimina una factura; líneas y pagos caen en cascada (concern CRUD,
// ajeno al cálculo y al resolver de estado).
func (uc *InvoiceUseCase) Delete(ctx context.Context, id string) error {
	inv, err := uc.invoiceRepo.GetByID(id)
	if err != nil {
		return err
	}
	if inv == nil {
		return domain.ErrNotFound
	}
	return uc.invoiceRepo.Delete(id)
}

func toLineInputs(items []dto.InvoiceItemRequest) []billing.LineInput {
	lines := make([]billing.LineInput, 0, len(items))
	for _, item := range items {
		lines = append(lines, billing.LineInput{
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
		})
	}
	return lines
}
