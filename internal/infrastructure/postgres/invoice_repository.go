package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/billing-api/internal/domain"
	"github.com/jhoicas/billing-api/internal/domain/entity"
	"github.com/jhoicas/billing-api/internal/domain/repository"
)

var _ repository.InvoiceRepository = (*InvoiceRepo)(nil)

// invoiceNumberFormat prefijo fijo + consecutivo con ceros a la izquierda.
const invoiceNumberFormat = "INV-%06d"

const invoiceColumns = `
	id, invoice_number, customer_id, invoice_date, due_date,
	subtotal, tax_rate, tax_amount, discount_rate, discount_amount, total_amount,
	payment_method, status, notes,
	seller_name, seller_email, seller_phone, seller_address,
	created_at, updated_at`

// InvoiceRepo implementación de InvoiceRepository (usable con pool o tx).
type InvoiceRepo struct {
	q Querier
}

// NewInvoiceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInvoiceRepository(q Querier) *InvoiceRepo {
	return &InvoiceRepo{q: q}
}

// NextNumber reserva el siguiente consecutivo desde la secuencia de la DB.
// nextval es atómico: dos creaciones concurrentes nunca reciben el mismo número.
func (r *InvoiceRepo) NextNumber() (string, error) {
	var n int64
	err := r.q.QueryRow(context.Background(), `SELECT nextval('invoice_number_seq')`).Scan(&n)
	if err != nil {
		return "", fmt.Errorf("next invoice number: %w", err)
	}
	return fmt.Sprintf(invoiceNumberFormat, n), nil
}

// Create persiste la cabecera de la factura.
func (r *InvoiceRepo) Create(invoice *entity.Invoice) error {
	query := `
		INSERT INTO invoices (` + invoiceColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)`
	_, err := r.q.Exec(context.Background(), query,
		invoice.ID, invoice.InvoiceNumber, invoice.CustomerID, invoice.InvoiceDate, invoice.DueDate,
		invoice.Subtotal, invoice.TaxRate, invoice.TaxAmount, invoice.DiscountRate, invoice.DiscountAmount, invoice.TotalAmount,
		invoice.PaymentMethod, invoice.Status, nullIfEmpty(invoice.Notes),
		invoice.SellerName, nullIfEmpty(invoice.SellerEmail), nullIfEmpty(invoice.SellerPhone), nullIfEmpty(invoice.SellerAddress),
		invoice.CreatedAt, invoice.UpdatedAt,
	)
	if err != nil {
		// Colisión de invoice_number: el caller puede reintentar la reserva.
		if isUniqueViolation(err) {
			return domain.ErrConflict
		}
		return fmt.Errorf("insert invoice: %w", err)
	}
	return nil
}

// CreateItem persiste una línea de detalle.
func (r *InvoiceRepo) CreateItem(item *entity.InvoiceItem) error {
	query := `
		INSERT INTO invoice_items (id, invoice_id, description, quantity, unit_price, total, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(context.Background(), query,
		item.ID, item.InvoiceID, item.Description, item.Quantity, item.UnitPrice, item.Total, item.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert invoice item: %w", err)
	}
	return nil
}

// GetByID obtiene una factura por ID.
func (r *InvoiceRepo) GetByID(id string) (*entity.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE id = $1`
	inv, err := scanInvoice(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get invoice: %w", err)
	}
	return inv, nil
}

// GetByIDForUpdate obtiene la factura bloqueando su fila (FOR UPDATE).
// Dentro de una tx garantiza un único escritor por factura: un pago y el
// barrido de mora concurrentes sobre el mismo id se serializan aquí.
func (r *InvoiceRepo) GetByIDForUpdate(id string) (*entity.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE id = $1 FOR UPDATE`
	inv, err := scanInvoice(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get invoice for update: %w", err)
	}
	return inv, nil
}

// GetItemsByInvoiceID obtiene todas las líneas de una factura.
func (r *InvoiceRepo) GetItemsByInvoiceID(invoiceID string) ([]*entity.InvoiceItem, error) {
	query := `
		SELECT id, invoice_id, description, quantity, unit_price, total, created_at
		FROM invoice_items WHERE invoice_id = $1 ORDER BY created_at, id`
	rows, err := r.q.Query(context.Background(), query, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("list invoice items: %w", err)
	}
	defer rows.Close()
	var list []*entity.InvoiceItem
	for rows.Next() {
		var item entity.InvoiceItem
		if err := rows.Scan(&item.ID, &item.InvoiceID, &item.Description, &item.Quantity, &item.UnitPrice, &item.Total, &item.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		list = append(list, &item)
	}
	return list, rows.Err()
}

// List devuelve todas las facturas, más reciente primero.
func (r *InvoiceRepo) List() ([]*entity.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices ORDER BY created_at DESC`
	rows, err := r.q.Query(context.Background(), query)
	if err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	defer rows.Close()
	return collectInvoices(rows)
}

// Update reescribe los campos editables y los montos recalculados.
func (r *InvoiceRepo) Update(invoice *entity.Invoice) error {
	query := `
		UPDATE invoices
		SET customer_id     = $2,
		    due_date        = $3,
		    subtotal        = $4,
		    tax_rate        = $5,
		    tax_amount      = $6,
		    discount_rate   = $7,
		    discount_amount = $8,
		    total_amount    = $9,
		    payment_method  = $10,
		    status          = $11,
		    notes           = $12,
		    seller_name     = $13,
		    seller_email    = $14,
		    seller_phone    = $15,
		    seller_address  = $16,
		    updated_at      = $17
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		invoice.ID, invoice.CustomerID, invoice.DueDate,
		invoice.Subtotal, invoice.TaxRate, invoice.TaxAmount,
		invoice.DiscountRate, invoice.DiscountAmount, invoice.TotalAmount,
		invoice.PaymentMethod, invoice.Status, nullIfEmpty(invoice.Notes),
		invoice.SellerName, nullIfEmpty(invoice.SellerEmail), nullIfEmpty(invoice.SellerPhone), nullIfEmpty(invoice.SellerAddress),
		invoice.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update invoice: %w", err)
	}
	return nil
}

// UpdateStatus cambia solo estado y updated_at.
func (r *InvoiceRepo) UpdateStatus(id, status string, updatedAt time.Time) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE invoices SET status = $2, updated_at = $3 WHERE id = $1`,
		id, status, updatedAt,
	)
	if err != nil {
		return fmt.Errorf("update invoice status: %w", err)
	}
	return nil
}

// DeleteItemsByInvoiceID borra todas las líneas de una factura (edición:
// las líneas se reemplazan completas).
func (r *InvoiceRepo) DeleteItemsByInvoiceID(invoiceID string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM invoice_items WHERE invoice_id = $1`, invoiceID)
	if err != nil {
		return fmt.Errorf("delete invoice items: %w", err)
	}
	return nil
}

// Delete elimina una factura; líneas y pagos caen por ON DELETE CASCADE.
func (r *InvoiceRepo) Delete(id string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM invoices WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete invoice: %w", err)
	}
	return nil
}

// MarkOverdue pasa a Overdue toda factura Unpaid con due_date < now, en un
// solo UPDATE condicional (atómico frente a pagos concurrentes), y devuelve
// las filas actualizadas.
func (r *InvoiceRepo) MarkOverdue(now time.Time) ([]*entity.Invoice, error) {
	query := `
		UPDATE invoices
		SET status = $1, updated_at = $2
		WHERE status = $3 AND due_date < $2
		RETURNING ` + invoiceColumns
	rows, err := r.q.Query(context.Background(), query, entity.StatusOverdue, now, entity.StatusUnpaid)
	if err != nil {
		return nil, fmt.Errorf("mark overdue: %w", err)
	}
	defer rows.Close()
	return collectInvoices(rows)
}

func collectInvoices(rows pgx.Rows) ([]*entity.Invoice, error) {
	var list []*entity.Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, fmt.Errorf("scan invoice: %w", err)
		}
		list = append(list, inv)
	}
	return list, rows.Err()
}

func scanInvoice(row pgx.Row) (*entity.Invoice, error) {
	var inv entity.Invoice
	var notes, sellerEmail, sellerPhone, sellerAddress *string
	err := row.Scan(
		&inv.ID, &inv.InvoiceNumber, &inv.CustomerID, &inv.InvoiceDate, &inv.DueDate,
		&inv.Subtotal, &inv.TaxRate, &inv.TaxAmount, &inv.DiscountRate, &inv.DiscountAmount, &inv.TotalAmount,
		&inv.PaymentMethod, &inv.Status, &notes,
		&inv.SellerName, &sellerEmail, &sellerPhone, &sellerAddress,
		&inv.CreatedAt, &inv.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	inv.Notes = derefStr(notes)
	inv.SellerEmail = derefStr(sellerEmail)
	inv.SellerPhone = derefStr(sellerPhone)
	inv.SellerAddress = derefStr(sellerAddress)
	return &inv, nil
}
