package billing

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/billing-api/internal/application/dto"
	"github.com/jhoicas/billing-api/internal/domain"
	"github.com/jhoicas/billing-api/internal/domain/entity"
)

func paymentReq(amount string) dto.CreatePaymentRequest {
	return dto.CreatePaymentRequest{
		Amount:        dec(amount),
		PaymentDate:   time.Now(),
		PaymentMethod: entity.MethodBankTransfer,
	}
}

// Factura de 1100: un pago de 600 la deja Partial, el segundo de 500 completa
// el total exacto y la pasa a Paid.
func TestPaymentRecord_AcumuladoResuelveEstado(t *testing.T) {
	f := newFixture(t)
	inv := f.createInvoice(t, dto.CreateInvoiceRequest{
		Items: []dto.InvoiceItemRequest{{Description: "x", Quantity: dec("1"), UnitPrice: dec("1100")}},
	})

	first, err := f.paymentUC.Record(context.Background(), inv.ID, paymentReq("600"))
	require.NoError(t, err)
	assert.Equal(t, entity.StatusPartial, first.InvoiceStatus)

	second, err := f.paymentUC.Record(context.Background(), inv.ID, paymentReq("500"))
	require.NoError(t, err)
	assert.Equal(t, entity.StatusPaid, second.InvoiceStatus)

	stored, err := f.invoiceUC.GetDetails(context.Background(), inv.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusPaid, stored.Invoice.Status)
	assert.Len(t, stored.Payments, 2)
}

func TestPaymentRecord_PagoExactoEnUnaExhibicion(t *testing.T) {
	f := newFixture(t)
	inv := f.createInvoice(t, dto.CreateInvoiceRequest{
		Items: []dto.InvoiceItemRequest{{Description: "x", Quantity: dec("1"), UnitPrice: dec("1100")}},
	})

	resp, err := f.paymentUC.Record(context.Background(), inv.ID, paymentReq("1100"))
	require.NoError(t, err)
	assert.Equal(t, entity.StatusPaid, resp.InvoiceStatus)
}

// El sobrepago se acepta y deja la factura en Paid, sin marca adicional.
func TestPaymentRecord_Sobrepago(t *testing.T) {
	f := newFixture(t)
	inv := f.createInvoice(t, dto.CreateInvoiceRequest{
		Items: []dto.InvoiceItemRequest{{Description: "x", Quantity: dec("1"), UnitPrice: dec("1100")}},
	})

	resp, err := f.paymentUC.Record(context.Background(), inv.ID, paymentReq("1500"))
	require.NoError(t, err)
	assert.Equal(t, entity.StatusPaid, resp.InvoiceStatus)
}

func TestPaymentRecord_FacturaInexistente(t *testing.T) {
	f := newFixture(t)
	missing := uuid.New().String()

	_, err := f.paymentUC.Record(context.Background(), missing, paymentReq("100"))
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	// Nada quedó persistido contra el ID inexistente
	payments, err := f.paymentUC.ListByInvoice(context.Background(), missing)
	require.NoError(t, err)
	assert.Empty(t, payments)
}

func TestPaymentRecord_RechazaEntradasInvalidas(t *testing.T) {
	f := newFixture(t)
	inv := f.createInvoice(t, dto.CreateInvoiceRequest{
		Items: []dto.InvoiceItemRequest{{Description: "x", Quantity: dec("1"), UnitPrice: dec("100")}},
	})

	cases := []struct {
		name string
		req  dto.CreatePaymentRequest
	}{
		{"monto cero", dto.CreatePaymentRequest{Amount: decimal.Zero, PaymentDate: time.Now(), PaymentMethod: entity.MethodCash}},
		{"monto negativo", dto.CreatePaymentRequest{Amount: dec("-50"), PaymentDate: time.Now(), PaymentMethod: entity.MethodCash}},
		{"método desconocido", dto.CreatePaymentRequest{Amount: dec("50"), PaymentDate: time.Now(), PaymentMethod: "Trueque"}},
		{"sin fecha de pago", dto.CreatePaymentRequest{Amount: dec("50"), PaymentMethod: entity.MethodCash}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.paymentUC.Record(context.Background(), inv.ID, tc.req)
			assert.True(t, errors.Is(err, domain.ErrInvalidInput), "esperaba ErrInvalidInput, got %v", err)
		})
	}
}

// El estado solo se escribe cuando cambia: dos pagos parciales consecutivos
// producen una única actualización de estado (Unpaid -> Partial).
func TestPaymentRecord_EstadoSinCambioNoEscribe(t *testing.T) {
	f := newFixture(t)
	inv := f.createInvoice(t, dto.CreateInvoiceRequest{
		Items: []dto.InvoiceItemRequest{{Description: "x", Quantity: dec("1"), UnitPrice: dec("1000")}},
	})

	_, err := f.paymentUC.Record(context.Background(), inv.ID, paymentReq("100"))
	require.NoError(t, err)
	assert.Equal(t, 1, f.store.statusUpdates)

	resp, err := f.paymentUC.Record(context.Background(), inv.ID, paymentReq("100"))
	require.NoError(t, err)
	assert.Equal(t, entity.StatusPartial, resp.InvoiceStatus)
	assert.Equal(t, 1, f.store.statusUpdates, "Partial -> Partial no debe reescribir el estado")
}

func TestPaymentListByInvoice(t *testing.T) {
	f := newFixture(t)
	inv := f.createInvoice(t, dto.CreateInvoiceRequest{
		Items: []dto.InvoiceItemRequest{{Description: "x", Quantity: dec("1"), UnitPrice: dec("300")}},
	})

	_, err := f.paymentUC.Record(context.Background(), inv.ID, paymentReq("100"))
	require.NoError(t, err)
	_, err = f.paymentUC.Record(context.Background(), inv.ID, paymentReq("50"))
	require.NoError(t, err)

	payments, err := f.paymentUC.ListByInvoice(context.Background(), inv.ID)
	require.NoError(t, err)
	require.Len(t, payments, 2)
	assert.True(t, payments[0].Amount.Equal(dec("100")))
	assert.True(t, payments[1].Amount.Equal(dec("50")))
}
