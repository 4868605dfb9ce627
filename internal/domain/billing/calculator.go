package billing

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/billing-api/internal/domain"
	"github.com/jhoicas/billing-api/internal/domain/entity"
)

var (
	hundred    = decimal.NewFromInt(100)
	maxPercent = decimal.NewFromInt(100)
)

// LineInput línea de entrada para el cálculo (antes de persistir).
type LineInput struct {
	Description string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
}

// Totals resultado monetario del cálculo de una factura.
type Totals struct {
	Subtotal       decimal.Decimal
	DiscountAmount decimal.Decimal
	TaxAmount      decimal.Decimal
	TotalAmount    decimal.Decimal
}

// ComputeTotals deriva los campos monetarios de una factura (servicio de dominio, puro).
// El orden y el redondeo por paso importan:
//  1. subtotal   = Σ(cantidad * precio), sin redondear
//  2. descuento  = round2(subtotal * discountRate / 100)
//  3. impuesto   = round2((subtotal - descuento) * taxRate / 100)
//  4. total      = round2((subtotal - descuento) + impuesto)
// Redondear solo el total final produce otro resultado; cada monto se redondea
// de forma independiente antes de la suma.
func ComputeTotals(items []LineInput, taxRate, discountRate decimal.Decimal) (Totals, error) {
	if len(items) == 0 {
		return Totals{}, fmt.Errorf("%w: la factura requiere al menos una línea", domain.ErrInvalidInput)
	}
	subtotal := decimal.Zero
	for i, item := range items {
		if item.Description == "" {
			return Totals{}, fmt.Errorf("%w: línea %d sin descripción", domain.ErrInvalidInput, i)
		}
		if !item.Quantity.GreaterThan(decimal.Zero) {
			return Totals{}, fmt.Errorf("%w: línea %d con cantidad no positiva", domain.ErrInvalidInput, i)
		}
		if !item.UnitPrice.GreaterThan(decimal.Zero) {
			return Totals{}, fmt.Errorf("%w: línea %d con precio no positivo", domain.ErrInvalidInput, i)
		}
		subtotal = subtotal.Add(item.Quantity.Mul(item.UnitPrice))
	}
	return ComputeFromSubtotal(subtotal, taxRate, discountRate)
}

// ComputeFromSubtotal aplica descuento e impuesto sobre un subtotal ya conocido
// (pasos 2-4 de ComputeTotals). Se usa al editar una factura cuando solo
// cambian las tasas y el subtotal almacenado sigue vigente.
func ComputeFromSubtotal(subtotal, taxRate, discountRate decimal.Decimal) (Totals, error) {
	if err := validateRate("tax_rate", taxRate); err != nil {
		return Totals{}, err
	}
	if err := validateRate("discount_rate", discountRate); err != nil {
		return Totals{}, err
	}
	// decimal.Round redondea half away from zero; con montos no negativos
	// equivale al half-up estándar.
	discount := subtotal.Mul(discountRate).Div(hundred).Round(2)
	discounted := subtotal.Sub(discount)
	tax := discounted.Mul(taxRate).Div(hundred).Round(2)
	total := discounted.Add(tax).Round(2)
	return Totals{
		Subtotal:       subtotal,
		DiscountAmount: discount,
		TaxAmount:      tax,
		TotalAmount:    total,
	}, nil
}

// LineTotal calcula el total de una línea (cantidad * precio unitario).
func LineTotal(quantity, unitPrice decimal.Decimal) decimal.Decimal {
	return quantity.Mul(unitPrice)
}

// ToItems materializa las líneas de entrada como entidades con su total derivado.
func ToItems(invoiceID string, items []LineInput) []*entity.InvoiceItem {
	out := make([]*entity.InvoiceItem, 0, len(items))
	for _, item := range items {
		out = append(out, &entity.InvoiceItem{
			InvoiceID:   invoiceID,
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			Total:       LineTotal(item.Quantity, item.UnitPrice),
		})
	}
	return out
}

func validateRate(name string, rate decimal.Decimal) error {
	if rate.LessThan(decimal.Zero) || rate.GreaterThan(maxPercent) {
		return fmt.Errorf("%w: %s fuera del rango [0,100]", domain.ErrInvalidInput, name)
	}
	return nil
}
