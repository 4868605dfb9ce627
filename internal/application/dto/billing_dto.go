package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceItemRequest línea de factura (descripción, cantidad, precio unitario).
type InvoiceItemRequest struct {
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
}

// CreateInvoiceRequest body para POST /api/invoices.
type CreateInvoiceRequest struct {
	CustomerID    string               `json:"customer_id"`
	DueDate       time.Time            `json:"due_date"`
	TaxRate       decimal.Decimal      `json:"tax_rate"`      // porcentaje 0-100
	DiscountRate  decimal.Decimal      `json:"discount_rate"` // porcentaje 0-100
	PaymentMethod string               `json:"payment_method"`
	Notes         string               `json:"notes,omitempty"`
	SellerName    string               `json:"seller_name"`
	SellerEmail   string               `json:"seller_email,omitempty"`
	SellerPhone   string               `json:"seller_phone,omitempty"`
	SellerAddress string               `json:"seller_address,omitempty"`
	Items         []InvoiceItemRequest `json:"items"`
}

// UpdateInvoiceRequest body para PUT /api/invoices/:id. Todos los campos son
// opcionales; si cambian Items, TaxRate o DiscountRate se recalculan los
// montos con las mismas reglas de redondeo de la creación.
type UpdateInvoiceRequest struct {
	CustomerID    *string               `json:"customer_id,omitempty"`
	DueDate       *time.Time            `json:"due_date,omitempty"`
	TaxRate       *decimal.Decimal      `json:"tax_rate,omitempty"`
	DiscountRate  *decimal.Decimal      `json:"discount_rate,omitempty"`
	PaymentMethod *string               `json:"payment_method,omitempty"`
	Status        *string               `json:"status,omitempty"`
	Notes         *string               `json:"notes,omitempty"`
	SellerName    *string               `json:"seller_name,omitempty"`
	SellerEmail   *string               `json:"seller_email,omitempty"`
	SellerPhone   *string               `json:"seller_phone,omitempty"`
	SellerAddress *string               `json:"seller_address,omitempty"`
	Items         *[]InvoiceItemRequest `json:"items,omitempty"`
}

// UpdateInvoiceStatusRequest body para PATCH /api/invoices/:id/status.
type UpdateInvoiceStatusRequest struct {
	Status string `json:"status"`
}

// InvoiceResponse factura en respuestas (montos como números decimales).
type InvoiceResponse struct {
	ID             string          `json:"id"`
	InvoiceNumber  string          `json:"invoice_number"`
	CustomerID     string          `json:"customer_id"`
	InvoiceDate    string          `json:"invoice_date"`
	DueDate        string          `json:"due_date"`
	Subtotal       decimal.Decimal `json:"subtotal"`
	TaxRate        decimal.Decimal `json:"tax_rate"`
	TaxAmount      decimal.Decimal `json:"tax_amount"`
	DiscountRate   decimal.Decimal `json:"discount_rate"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	TotalAmount    decimal.Decimal `json:"total_amount"`
	PaymentMethod  string          `json:"payment_method"`
	Status         string          `json:"status"`
	Notes          string          `json:"notes,omitempty"`
	SellerName     string          `json:"seller_name"`
	SellerEmail    string          `json:"seller_email,omitempty"`
	SellerPhone    string          `json:"seller_phone,omitempty"`
	SellerAddress  string          `json:"seller_address,omitempty"`
	CreatedAt      string          `json:"created_at"`
	UpdatedAt      string          `json:"updated_at"`
}

// InvoiceItemResponse línea de detalle en respuestas.
type InvoiceItemResponse struct {
	ID          string          `json:"id"`
	InvoiceID   string          `json:"invoice_id"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Total       decimal.Decimal `json:"total"`
}

// InvoiceDetailsResponse factura con cliente, líneas y pagos
// para GET /api/invoices/:id.
type InvoiceDetailsResponse struct {
	Invoice  InvoiceResponse       `json:"invoice"`
	Customer CustomerResponse      `json:"customer"`
	Items    []InvoiceItemResponse `json:"items"`
	Payments []PaymentResponse     `json:"payments"`
}

// CreatePaymentRequest body para POST /api/invoices/:id/payments.
type CreatePaymentRequest struct {
	Amount        decimal.Decimal `json:"amount"`
	PaymentDate   time.Time       `json:"payment_date"`
	PaymentMethod string          `json:"payment_method"`
	Notes         string          `json:"notes,omitempty"`
}

// PaymentResponse pago en respuestas. InvoiceStatus refleja el estado de la
// factura resuelto tras registrar el pago.
type PaymentResponse struct {
	ID            string          `json:"id"`
	InvoiceID     string          `json:"invoice_id"`
	Amount        decimal.Decimal `json:"amount"`
	PaymentDate   string          `json:"payment_date"`
	PaymentMethod string          `json:"payment_method"`
	Notes         string          `json:"notes,omitempty"`
	InvoiceStatus string          `json:"invoice_status,omitempty"`
}
