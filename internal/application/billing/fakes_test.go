package billing

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/billing-api/internal/domain"
	"github.com/jhoicas/billing-api/internal/domain/entity"
	"github.com/jhoicas/billing-api/internal/domain/repository"
)

// fakeStore almacén en memoria compartido por los repos de prueba. Imita el
// comportamiento observable de la DB: copias al leer y escribir, unicidad de
// invoice_number y consecutivo atómico.
type fakeStore struct {
	mu        sync.Mutex
	customers map[string]entity.Customer
	invoices  map[string]entity.Invoice
	items     map[string][]entity.InvoiceItem
	payments  map[string][]entity.Payment
	seq       int64

	statusUpdates int // llamadas a UpdateStatus
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		customers: make(map[string]entity.Customer),
		invoices:  make(map[string]entity.Invoice),
		items:     make(map[string][]entity.InvoiceItem),
		payments:  make(map[string][]entity.Payment),
	}
}

func (s *fakeStore) repos() (repository.CustomerRepository, repository.InvoiceRepository, repository.PaymentRepository) {
	return &fakeCustomerRepo{s}, &fakeInvoiceRepo{s}, &fakePaymentRepo{s}
}

// fakeTxRunner invoca fn con los repos del store; las operaciones individuales
// ya son atómicas sobre el mutex del store.
type fakeTxRunner struct {
	s *fakeStore
}

func (r *fakeTxRunner) RunBilling(_ context.Context, fn func(
	customerRepo repository.CustomerRepository,
	invoiceRepo repository.InvoiceRepository,
	paymentRepo repository.PaymentRepository,
) error) error {
	return fn(r.s.repos())
}

type fakeCustomerRepo struct{ s *fakeStore }

func (r *fakeCustomerRepo) Create(c *entity.Customer) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.customers[c.ID] = *c
	return nil
}

func (r *fakeCustomerRepo) GetByID(id string) (*entity.Customer, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.customers[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (r *fakeCustomerRepo) List(limit, offset int) ([]*entity.Customer, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	all := make([]*entity.Customer, 0, len(r.s.customers))
	for id := range r.s.customers {
		c := r.s.customers[id]
		all = append(all, &c)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	if offset >= len(all) {
		return nil, nil
	}
	all = all[offset:]
	if limit < len(all) {
		all = all[:limit]
	}
	return all, nil
}

func (r *fakeCustomerRepo) Update(c *entity.Customer) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.customers[c.ID]; !ok {
		return domain.ErrNotFound
	}
	r.s.customers[c.ID] = *c
	return nil
}

func (r *fakeCustomerRepo) Delete(id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.customers, id)
	return nil
}

type fakeInvoiceRepo struct{ s *fakeStore }

func (r *fakeInvoiceRepo) Create(inv *entity.Invoice) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for id := range r.s.invoices {
		if r.s.invoices[id].InvoiceNumber == inv.InvoiceNumber {
			return domain.ErrConflict
		}
	}
	r.s.invoices[inv.ID] = *inv
	return nil
}

func (r *fakeInvoiceRepo) CreateItem(item *entity.InvoiceItem) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.items[item.InvoiceID] = append(r.s.items[item.InvoiceID], *item)
	return nil
}

func (r *fakeInvoiceRepo) GetByID(id string) (*entity.Invoice, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	inv, ok := r.s.invoices[id]
	if !ok {
		return nil, nil
	}
	return &inv, nil
}

func (r *fakeInvoiceRepo) GetByIDForUpdate(id string) (*entity.Invoice, error) {
	return r.GetByID(id)
}

func (r *fakeInvoiceRepo) GetItemsByInvoiceID(invoiceID string) ([]*entity.InvoiceItem, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stored := r.s.items[invoiceID]
	out := make([]*entity.InvoiceItem, 0, len(stored))
	for i := range stored {
		item := stored[i]
		out = append(out, &item)
	}
	return out, nil
}

func (r *fakeInvoiceRepo) List() ([]*entity.Invoice, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]*entity.Invoice, 0, len(r.s.invoices))
	for id := range r.s.invoices {
		inv := r.s.invoices[id]
		out = append(out, &inv)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *fakeInvoiceRepo) Update(inv *entity.Invoice) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.invoices[inv.ID]; !ok {
		return domain.ErrNotFound
	}
	r.s.invoices[inv.ID] = *inv
	return nil
}

func (r *fakeInvoiceRepo) UpdateStatus(id, status string, updatedAt time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	inv, ok := r.s.invoices[id]
	if !ok {
		return domain.ErrNotFound
	}
	inv.Status = status
	inv.UpdatedAt = updatedAt
	r.s.invoices[id] = inv
	r.s.statusUpdates++
	return nil
}

func (r *fakeInvoiceRepo) DeleteItemsByInvoiceID(invoiceID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.items, invoiceID)
	return nil
}

func (r *fakeInvoiceRepo) Delete(id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.invoices, id)
	delete(r.s.items, id)
	delete(r.s.payments, id)
	return nil
}

func (r *fakeInvoiceRepo) NextNumber() (string, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.seq++
	return fmt.Sprintf("INV-%06d", r.s.seq), nil
}

func (r *fakeInvoiceRepo) MarkOverdue(now time.Time) ([]*entity.Invoice, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var updated []*entity.Invoice
	for id := range r.s.invoices {
		inv := r.s.invoices[id]
		if inv.Status == entity.StatusUnpaid && inv.DueDate.Before(now) {
			inv.Status = entity.StatusOverdue
			inv.UpdatedAt = now
			r.s.invoices[id] = inv
			copied := inv
			updated = append(updated, &copied)
		}
	}
	return updated, nil
}

type fakePaymentRepo struct{ s *fakeStore }

func (r *fakePaymentRepo) Create(p *entity.Payment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.payments[p.InvoiceID] = append(r.s.payments[p.InvoiceID], *p)
	return nil
}

func (r *fakePaymentRepo) ListByInvoice(invoiceID string) ([]*entity.Payment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stored := r.s.payments[invoiceID]
	out := make([]*entity.Payment, 0, len(stored))
	for i := range stored {
		p := stored[i]
		out = append(out, &p)
	}
	return out, nil
}

func (r *fakePaymentRepo) SumByInvoice(invoiceID string) (decimal.Decimal, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	total := decimal.Zero
	for _, p := range r.s.payments[invoiceID] {
		total = total.Add(p.Amount)
	}
	return total, nil
}
