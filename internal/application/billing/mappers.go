package billing

import (
	"time"

	"github.com/jhoicas/billing-api/internal/application/dto"
	"github.com/jhoicas/billing-api/internal/domain/entity"
)

const dateLayout = "2006-01-02"

func toCustomerResponse(c *entity.Customer) *dto.CustomerResponse {
	return &dto.CustomerResponse{
		ID:         c.ID,
		Name:       c.Name,
		Email:      c.Email,
		Phone:      c.Phone,
		Address:    c.Address,
		City:       c.City,
		PostalCode: c.PostalCode,
		CreatedAt:  c.CreatedAt.Format(time.RFC3339),
	}
}

func toInvoiceResponse(inv *entity.Invoice) *dto.InvoiceResponse {
	return &dto.InvoiceResponse{
		ID:             inv.ID,
		InvoiceNumber:  inv.InvoiceNumber,
		CustomerID:     inv.CustomerID,
		InvoiceDate:    inv.InvoiceDate.Format(dateLayout),
		DueDate:        inv.DueDate.Format(dateLayout),
		Subtotal:       inv.Subtotal,
		TaxRate:        inv.TaxRate,
		TaxAmount:      inv.TaxAmount,
		DiscountRate:   inv.DiscountRate,
		DiscountAmount: inv.DiscountAmount,
		TotalAmount:    inv.TotalAmount,
		PaymentMethod:  inv.PaymentMethod,
		Status:         inv.Status,
		Notes:          inv.Notes,
		SellerName:     inv.SellerName,
		SellerEmail:    inv.SellerEmail,
		SellerPhone:    inv.SellerPhone,
		SellerAddress:  inv.SellerAddress,
		CreatedAt:      inv.CreatedAt.Format(time.RFC3339),
		UpdatedAt:      inv.UpdatedAt.Format(time.RFC3339),
	}
}

func toItemResponse(item *entity.InvoiceItem) dto.InvoiceItemResponse {
	return dto.InvoiceItemResponse{
		ID:          item.ID,
		InvoiceID:   item.InvoiceID,
		Description: item.Description,
		Quantity:    item.Quantity,
		UnitPrice:   item.UnitPrice,
		Total:       item.Total,
	}
}

func toPaymentResponse(p *entity.Payment, invoiceStatus string) dto.PaymentResponse {
	return dto.PaymentResponse{
		ID:            p.ID,
		InvoiceID:     p.InvoiceID,
		Amount:        p.Amount,
		PaymentDate:   p.PaymentDate.Format(dateLayout),
		PaymentMethod: p.PaymentMethod,
		Notes:         p.Notes,
		InvoiceStatus: invoiceStatus,
	}
}
