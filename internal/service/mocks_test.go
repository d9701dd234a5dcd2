package service

import (
	"context"
	"time"

	"timebill/internal/model"
	"timebill/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// In-memory fakes standing in for the gorm repositories.

type fakeCompanyRepo struct {
	companies map[uuid.UUID]*model.Company
}

func newFakeCompanyRepo(companies ...*model.Company) *fakeCompanyRepo {
	repo := &fakeCompanyRepo{companies: make(map[uuid.UUID]*model.Company)}
	for _, c := range companies {
		if c.ID == uuid.Nil {
			c.ID = uuid.New()
		}
		repo.companies[c.ID] = c
	}
	return repo
}

func (r *fakeCompanyRepo) Create(_ context.Context, company *model.Company) error {
	if company.ID == uuid.Nil {
		company.ID = uuid.New()
	}
	r.companies[company.ID] = company
	return nil
}

func (r *fakeCompanyRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Company, error) {
	company, ok := r.companies[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *company
	return &copied, nil
}

func (r *fakeCompanyRepo) List(_ context.Context, search string, activeOnly bool, page, limit int) ([]model.Company, int64, error) {
	var result []model.Company
	for _, c := range r.companies {
		if activeOnly && !c.IsActive {
			continue
		}
		result = append(result, *c)
	}
	return result, int64(len(result)), nil
}

func (r *fakeCompanyRepo) Update(_ context.Context, company *model.Company) error {
	if _, ok := r.companies[company.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	copied := *company
	r.companies[company.ID] = &copied
	return nil
}

type fakeItemRepo struct {
	items       []*model.BillableItem
	batchCalls  int
	failOnBatch error
}

func newFakeItemRepo(items ...*model.BillableItem) *fakeItemRepo {
	repo := &fakeItemRepo{}
	for _, item := range items {
		if item.ID == uuid.Nil {
			item.ID = uuid.New()
		}
		repo.items = append(repo.items, item)
	}
	return repo
}

func (r *fakeItemRepo) Create(_ context.Context, item *model.BillableItem) error {
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	r.items = append(r.items, item)
	return nil
}

func (r *fakeItemRepo) CreateBatch(_ context.Context, items []model.BillableItem) error {
	r.batchCalls++
	if r.failOnBatch != nil {
		return r.failOnBatch
	}
	for i := range items {
		item := items[i]
		if item.ID == uuid.Nil {
			item.ID = uuid.New()
		}
		r.items = append(r.items, &item)
	}
	return nil
}

func (r *fakeItemRepo) FindByID(_ context.Context, id uuid.UUID) (*model.BillableItem, error) {
	for _, item := range r.items {
		if item.ID == id {
			copied := *item
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeItemRepo) List(_ context.Context, filter repository.ItemListFilter) ([]model.BillableItem, int64, error) {
	var result []model.BillableItem
	for _, item := range r.items {
		if filter.CompanyID != nil && item.CompanyID != *filter.CompanyID {
			continue
		}
		if filter.Invoiced != nil && item.IsInvoiced != *filter.Invoiced {
			continue
		}
		result = append(result, *item)
	}
	return result, int64(len(result)), nil
}

func (r *fakeItemRepo) FindUnbilled(_ context.Context, companyID uuid.UUID, from, to time.Time) ([]model.BillableItem, error) {
	var result []model.BillableItem
	for _, item := range r.items {
		if item.CompanyID != companyID || item.IsInvoiced {
			continue
		}
		if item.DateWorked.Before(from) || item.DateWorked.After(to) {
			continue
		}
		result = append(result, *item)
	}
	return result, nil
}

func (r *fakeItemRepo) Update(_ context.Context, item *model.BillableItem) error {
	for i, existing := range r.items {
		if existing.ID == item.ID {
			copied := *item
			r.items[i] = &copied
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *fakeItemRepo) Delete(_ context.Context, id uuid.UUID) error {
	for i, item := range r.items {
		if item.ID == id {
			r.items = append(r.items[:i], r.items[i+1:]...)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *fakeItemRepo) MarkInvoiced(_ context.Context, ids []uuid.UUID, invoiceID uuid.UUID) error {
	idSet := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		idSet[id] = true
	}
	for _, item := range r.items {
		if idSet[item.ID] {
			item.IsInvoiced = true
			id := invoiceID
			item.InvoiceID = &id
		}
	}
	return nil
}

func (r *fakeItemRepo) ReleaseInvoiced(_ context.Context, invoiceID uuid.UUID) error {
	for _, item := range r.items {
		if item.InvoiceID != nil && *item.InvoiceID == invoiceID {
			item.IsInvoiced = false
			item.InvoiceID = nil
		}
	}
	return nil
}

type fakeInvoiceRepo struct {
	invoices       map[uuid.UUID]*model.Invoice
	companies      *fakeCompanyRepo
	failCreateOnce error // returned by the next Create, then cleared
	createCalls    int
}

func newFakeInvoiceRepo(companies *fakeCompanyRepo) *fakeInvoiceRepo {
	return &fakeInvoiceRepo{
		invoices:  make(map[uuid.UUID]*model.Invoice),
		companies: companies,
	}
}

func (r *fakeInvoiceRepo) Create(_ context.Context, invoice *model.Invoice) error {
	r.createCalls++
	if r.failCreateOnce != nil {
		err := r.failCreateOnce
		r.failCreateOnce = nil
		return err
	}
	if invoice.ID == uuid.Nil {
		invoice.ID = uuid.New()
	}
	for i := range invoice.LineItems {
		invoice.LineItems[i].InvoiceID = invoice.ID
	}
	copied := *invoice
	r.invoices[invoice.ID] = &copied
	return nil
}

func (r *fakeInvoiceRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Invoice, error) {
	invoice, ok := r.invoices[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *invoice
	copied.LineItems = nil
	return &copied, nil
}

func (r *fakeInvoiceRepo) FindByIDWithLines(_ context.Context, id uuid.UUID) (*model.Invoice, error) {
	invoice, ok := r.invoices[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *invoice
	if r.companies != nil {
		if company, ok := r.companies.companies[invoice.CompanyID]; ok {
			c := *company
			copied.Company = &c
		}
	}
	return &copied, nil
}

func (r *fakeInvoiceRepo) List(_ context.Context, filter repository.InvoiceListFilter) ([]model.Invoice, int64, error) {
	var result []model.Invoice
	for _, invoice := range r.invoices {
		if filter.CompanyID != nil && invoice.CompanyID != *filter.CompanyID {
			continue
		}
		if filter.Status != "" && invoice.Status != filter.Status {
			continue
		}
		result = append(result, *invoice)
	}
	return result, int64(len(result)), nil
}

func (r *fakeInvoiceRepo) Update(_ context.Context, invoice *model.Invoice) error {
	existing, ok := r.invoices[invoice.ID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	lines := existing.LineItems
	copied := *invoice
	copied.LineItems = lines
	r.invoices[invoice.ID] = &copied
	return nil
}

func (r *fakeInvoiceRepo) CountByPrefix(_ context.Context, prefix string) (int64, error) {
	var count int64
	for _, invoice := range r.invoices {
		if len(invoice.InvoiceNumber) >= len(prefix) && invoice.InvoiceNumber[:len(prefix)] == prefix {
			count++
		}
	}
	return count, nil
}

// noopTxManager runs the callback without a real transaction.
type noopTxManager struct {
	calls int
}

func (t *noopTxManager) RunInTx(ctx context.Context, fn func(txCtx context.Context) error) error {
	t.calls++
	return fn(ctx)
}

// recordingPublisher captures published events for assertions.
type recordingPublisher struct {
	events []string
}

func (p *recordingPublisher) Publish(event string, _ interface{}) {
	p.events = append(p.events, event)
}
