package repository

import (
	"time"

	"github.com/jhoicas/billing-api/internal/domain/entity"
)

// InvoiceRepository define el puerto de persistencia para Invoice y sus líneas.
type InvoiceRepository interface {
	Create(invoice *entity.Invoice) error
	CreateItem(item *entity.InvoiceItem) error
	GetByID(id string) (*entity.Invoice, error)
	// GetByIDForUpdate bloquea la fila de la factura (SELECT ... FOR UPDATE).
	// Solo tiene sentido dentro de una transacción: garantiza un único
	// escritor por factura entre pagos concurrentes y el barrido de mora.
	GetByIDForUpdate(id string) (*entity.Invoice, error)
	GetItemsByInvoiceID(invoiceID string) ([]*entity.InvoiceItem, error)
	List() ([]*entity.Invoice, error)
	// Update reescribe los campos editables y los montos recalculados.
	Update(invoice *entity.Invoice) error
	// UpdateStatus cambia solo estado y updated_at.
	UpdateStatus(id, status string, updatedAt time.Time) error
	DeleteItemsByInvoiceID(invoiceID string) error
	Delete(id string) error
	// NextNumber reserva el siguiente consecutivo de la secuencia de
	// facturación (serializable: seguro ante creación concurrente).
	NextNumber() (string, error)
	// MarkOverdue pasa a Overdue, en un solo UPDATE condicional, toda factura
	// Unpaid con due_date < now, y devuelve las filas actualizadas.
	MarkOverdue(now time.Time) ([]*entity.Invoice, error)
}
