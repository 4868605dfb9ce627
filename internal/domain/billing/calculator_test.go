package billing

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/billing-api/internal/domain"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func lines(pairs ...[2]string) []LineInput {
	out := make([]LineInput, 0, len(pairs))
	for _, p := range pairs {
		out = append(out, LineInput{Description: "item", Quantity: dec(p[0]), UnitPrice: dec(p[1])})
	}
	return out
}

// El caso de referencia: 2x100 + 1x50 con IVA 11% y descuento 5%.
// El redondeo es por paso: el impuesto se calcula sobre el subtotal ya
// descontado, y cada monto se redondea antes de sumar.
func TestComputeTotals_RedondeoPorPaso(t *testing.T) {
	totals, err := ComputeTotals(lines([2]string{"2", "100"}, [2]string{"1", "50"}), dec("11"), dec("5"))
	require.NoError(t, err)

	assert.True(t, totals.Subtotal.Equal(dec("250")), "subtotal: %s", totals.Subtotal)
	assert.True(t, totals.DiscountAmount.Equal(dec("12.5")), "descuento: %s", totals.DiscountAmount)
	// 237.5 * 11% = 26.125 -> half-up -> 26.13 (redondear solo el total daría otro resultado)
	assert.True(t, totals.TaxAmount.Equal(dec("26.13")), "impuesto: %s", totals.TaxAmount)
	assert.True(t, totals.TotalAmount.Equal(dec("263.63")), "total: %s", totals.TotalAmount)
}

func TestComputeTotals_SubtotalExactoSinRedondeo(t *testing.T) {
	// Cantidades fraccionarias: el subtotal es la suma exacta, sin redondear.
	totals, err := ComputeTotals(lines([2]string{"0.5", "20.01"}, [2]string{"3", "0.333"}), dec("0"), dec("0"))
	require.NoError(t, err)
	assert.True(t, totals.Subtotal.Equal(dec("11.004")), "subtotal: %s", totals.Subtotal)
}

func TestComputeTotals_TasasCero_TotalIgualSubtotal(t *testing.T) {
	totals, err := ComputeTotals(lines([2]string{"3", "19.99"}), dec("0"), dec("0"))
	require.NoError(t, err)
	assert.True(t, totals.TotalAmount.Equal(totals.Subtotal))
	assert.True(t, totals.DiscountAmount.IsZero())
	assert.True(t, totals.TaxAmount.IsZero())
}

// Invariante: total = (subtotal - descuento) + impuesto.
func TestComputeTotals_Invariante(t *testing.T) {
	totals, err := ComputeTotals(lines([2]string{"7", "13.37"}, [2]string{"2", "4.99"}), dec("19"), dec("10"))
	require.NoError(t, err)
	expected := totals.Subtotal.Sub(totals.DiscountAmount).Add(totals.TaxAmount).Round(2)
	assert.True(t, totals.TotalAmount.Equal(expected))
}

// Función pura: misma entrada, mismo resultado.
func TestComputeTotals_Idempotente(t *testing.T) {
	in := lines([2]string{"2", "100"}, [2]string{"1", "50"})
	a, err := ComputeTotals(in, dec("11"), dec("5"))
	require.NoError(t, err)
	b, err := ComputeTotals(in, dec("11"), dec("5"))
	require.NoError(t, err)
	assert.True(t, a.TotalAmount.Equal(b.TotalAmount))
	assert.True(t, a.TaxAmount.Equal(b.TaxAmount))
	assert.True(t, a.DiscountAmount.Equal(b.DiscountAmount))
}

func TestComputeTotals_RechazaEntradasInvalidas(t *testing.T) {
	cases := []struct {
		name     string
		items    []LineInput
		tax      decimal.Decimal
		discount decimal.Decimal
	}{
		{"sin líneas", nil, dec("11"), dec("0")},
		{"cantidad cero", lines([2]string{"0", "100"}), dec("11"), dec("0")},
		{"cantidad negativa", lines([2]string{"-1", "100"}), dec("11"), dec("0")},
		{"precio cero", lines([2]string{"1", "0"}), dec("11"), dec("0")},
		{"precio negativo", lines([2]string{"1", "-5"}), dec("11"), dec("0")},
		{"tasa de impuesto negativa", lines([2]string{"1", "100"}), dec("-1"), dec("0")},
		{"tasa de impuesto > 100", lines([2]string{"1", "100"}), dec("101"), dec("0")},
		{"descuento negativo", lines([2]string{"1", "100"}), dec("11"), dec("-1")},
		{"descuento > 100", lines([2]string{"1", "100"}), dec("11"), dec("100.01")},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ComputeTotals(tc.items, tc.tax, tc.discount)
			assert.True(t, errors.Is(err, domain.ErrInvalidInput), "esperaba ErrInvalidInput, got %v", err)
		})
	}
}

func TestComputeTotals_RechazaDescripcionVacia(t *testing.T) {
	items := []LineInput{{Description: "", Quantity: dec("1"), UnitPrice: dec("10")}}
	_, err := ComputeTotals(items, dec("0"), dec("0"))
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

func TestComputeFromSubtotal_SoloTasas(t *testing.T) {
	// Edición que cambia solo las tasas: mismo resultado que recalcular desde las líneas.
	fromItems, err := ComputeTotals(lines([2]string{"2", "100"}, [2]string{"1", "50"}), dec("11"), dec("5"))
	require.NoError(t, err)
	fromSubtotal, err := ComputeFromSubtotal(dec("250"), dec("11"), dec("5"))
	require.NoError(t, err)
	assert.True(t, fromItems.TotalAmount.Equal(fromSubtotal.TotalAmount))
	assert.True(t, fromItems.TaxAmount.Equal(fromSubtotal.TaxAmount))
}

func TestLineTotal(t *testing.T) {
	assert.True(t, LineTotal(dec("2.5"), dec("19.99")).Equal(dec("49.975")))
}
