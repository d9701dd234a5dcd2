package service

import (
	"context"
	"testing"
	"time"

	"timebill/internal/config"
	"timebill/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func date(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

type invoiceFixture struct {
	service  InvoiceService
	company  *model.Company
	itemRepo *fakeItemRepo
	invoices *fakeInvoiceRepo
	tx       *noopTxManager
	events   *recordingPublisher
}

func newInvoiceFixture(t *testing.T, items ...*model.BillableItem) *invoiceFixture {
	t.Helper()

	company := &model.Company{
		ID:                uuid.New(),
		Name:              "Acme Corp",
		DefaultHourlyRate: dec("80.00"),
		Currency:          "USD",
		IsActive:          true,
	}
	for _, item := range items {
		item.CompanyID = company.ID
	}

	companyRepo := newFakeCompanyRepo(company)
	itemRepo := newFakeItemRepo(items...)
	invoiceRepo := newFakeInvoiceRepo(companyRepo)
	tx := &noopTxManager{}
	events := &recordingPublisher{}

	svc := NewInvoiceService(
		invoiceRepo, itemRepo, companyRepo, tx, events, zap.NewNop(),
		config.SellerProfile{Name: "Solo Dev"}, InvoiceDefaults{
			VATRate:             dec("23"),
			PaymentTermsDays:    30,
			PolishVATRate:       dec("23"),
			PolishPaymentMethod: "Przelew bankowy",
		},
	)

	return &invoiceFixture{
		service:  svc,
		company:  company,
		itemRepo: itemRepo,
		invoices: invoiceRepo,
		tx:       tx,
		events:   events,
	}
}

func item(description, project, worked, hours string, rate *decimal.Decimal) *model.BillableItem {
	return &model.BillableItem{
		ID:          uuid.New(),
		Description: description,
		Project:     project,
		DateWorked:  date(worked),
		Hours:       dec(hours),
		HourlyRate:  rate,
	}
}

func TestAssembleInvoiceComputesVATPerLine(t *testing.T) {
	// 2h + 1.5h of the same work at the company default 80.00 and 23% VAT
	f := newInvoiceFixture(t,
		item("Backend development", "Platform", "2025-03-03", "2", nil),
		item("Backend development", "Platform", "2025-03-04", "1.5", nil),
	)

	resp, err := f.service.AssembleInvoice(context.Background(), AssembleInvoiceRequest{
		CompanyID: f.company.ID.String(),
		StartDate: "2025-03-01",
		EndDate:   "2025-03-31",
		IssueDate: "2025-04-01",
	})
	require.NoError(t, err)

	require.Len(t, resp.LineItems, 1)
	line := resp.LineItems[0]
	assert.Equal(t, "3.50", line.Quantity)
	assert.Equal(t, "80.00", line.UnitRate)
	assert.Equal(t, "280.00", line.NetAmount)
	assert.Equal(t, "64.40", line.VATAmount)
	assert.Equal(t, "344.40", line.GrossAmount)

	assert.Equal(t, "280.00", resp.NetTotal)
	assert.Equal(t, "64.40", resp.VATTotal)
	assert.Equal(t, "344.40", resp.GrossTotal)
	assert.Equal(t, model.InvoiceStatusDraft, resp.Status)
	assert.Equal(t, "INV-20250401-001", resp.InvoiceNumber)
	assert.Equal(t, "USD", resp.Currency)
}

func TestAssembleInvoiceRoundsVATHalfUp(t *testing.T) {
	// 1h at 33.33 and 23% VAT: 7.6659 rounds up to 7.67
	f := newInvoiceFixture(t,
		item("Consulting", "", "2025-03-10", "1", decPtr("33.33")),
	)

	resp, err := f.service.AssembleInvoice(context.Background(), AssembleInvoiceRequest{
		CompanyID: f.company.ID.String(),
		StartDate: "2025-03-01",
		EndDate:   "2025-03-31",
	})
	require.NoError(t, err)

	require.Len(t, resp.LineItems, 1)
	assert.Equal(t, "33.33", resp.LineItems[0].NetAmount)
	assert.Equal(t, "7.67", resp.LineItems[0].VATAmount)
	assert.Equal(t, "41.00", resp.LineItems[0].GrossAmount)
}

func TestAssembleInvoiceGroupsByDescriptionAndProject(t *testing.T) {
	f := newInvoiceFixture(t,
		item("Development", "Alpha", "2025-03-03", "2", nil),
		item("Development", "Beta", "2025-03-04", "3", nil),
		item("Code review", "Alpha", "2025-03-05", "1", nil),
		item("Development", "Alpha", "2025-03-06", "4", nil),
	)

	resp, err := f.service.AssembleInvoice(context.Background(), AssembleInvoiceRequest{
		CompanyID: f.company.ID.String(),
		StartDate: "2025-03-01",
		EndDate:   "2025-03-31",
	})
	require.NoError(t, err)

	// Groups keep first-seen order; the two Development/Alpha items merge
	require.Len(t, resp.LineItems, 3)
	assert.Equal(t, "Development", resp.LineItems[0].Description)
	assert.Equal(t, "Alpha", resp.LineItems[0].Project)
	assert.Equal(t, "6.00", resp.LineItems[0].Quantity)
	assert.Equal(t, "Development", resp.LineItems[1].Description)
	assert.Equal(t, "Beta", resp.LineItems[1].Project)
	assert.Equal(t, "Code review", resp.LineItems[2].Description)
	assert.Equal(t, 1, resp.LineItems[0].LineNo)
	assert.Equal(t, 3, resp.LineItems[2].LineNo)
}

func TestAssembleInvoiceRejectsRateMismatchWithinGroup(t *testing.T) {
	f := newInvoiceFixture(t,
		item("Development", "Alpha", "2025-03-03", "2", decPtr("90.00")),
		item("Development", "Alpha", "2025-03-04", "1", decPtr("95.00")),
	)

	_, err := f.service.AssembleInvoice(context.Background(), AssembleInvoiceRequest{
		CompanyID: f.company.ID.String(),
		StartDate: "2025-03-01",
		EndDate:   "2025-03-31",
	})
	require.ErrorIs(t, err, ErrRateMismatch)

	// Nothing persisted, nothing frozen
	assert.Empty(t, f.invoices.invoices)
	for _, it := range f.itemRepo.items {
		assert.False(t, it.IsInvoiced)
	}
}

func TestAssembleInvoiceEmptySelection(t *testing.T) {
	f := newInvoiceFixture(t,
		item("Development", "Alpha", "2025-01-15", "2", nil),
	)

	_, err := f.service.AssembleInvoice(context.Background(), AssembleInvoiceRequest{
		CompanyID: f.company.ID.String(),
		StartDate: "2025-03-01",
		EndDate:   "2025-03-31",
	})
	require.ErrorIs(t, err, ErrEmptySelection)
	assert.Empty(t, f.invoices.invoices)
}

func TestAssembleInvoiceFreezesItemsAndSkipsThemNextTime(t *testing.T) {
	f := newInvoiceFixture(t,
		item("Development", "Alpha", "2025-03-03", "2", nil),
	)

	first, err := f.service.AssembleInvoice(context.Background(), AssembleInvoiceRequest{
		CompanyID: f.company.ID.String(),
		StartDate: "2025-03-01",
		EndDate:   "2025-03-31",
	})
	require.NoError(t, err)

	for _, it := range f.itemRepo.items {
		assert.True(t, it.IsInvoiced)
		require.NotNil(t, it.InvoiceID)
		assert.Equal(t, first.ID, *it.InvoiceID)
	}

	// Same window again: the frozen item is no longer selectable
	_, err = f.service.AssembleInvoice(context.Background(), AssembleInvoiceRequest{
		CompanyID: f.company.ID.String(),
		StartDate: "2025-03-01",
		EndDate:   "2025-03-31",
	})
	require.ErrorIs(t, err, ErrEmptySelection)
}

func TestAssembleInvoicePublishesEvent(t *testing.T) {
	f := newInvoiceFixture(t,
		item("Development", "Alpha", "2025-03-03", "2", nil),
	)

	_, err := f.service.AssembleInvoice(context.Background(), AssembleInvoiceRequest{
		CompanyID: f.company.ID.String(),
		StartDate: "2025-03-01",
		EndDate:   "2025-03-31",
	})
	require.NoError(t, err)
	assert.Contains(t, f.events.events, "invoice.created")
}

func TestInvoiceStatusTransitions(t *testing.T) {
	f := newInvoiceFixture(t,
		item("Development", "Alpha", "2025-03-03", "2", nil),
	)

	created, err := f.service.AssembleInvoice(context.Background(), AssembleInvoiceRequest{
		CompanyID: f.company.ID.String(),
		StartDate: "2025-03-01",
		EndDate:   "2025-03-31",
	})
	require.NoError(t, err)

	// Draft cannot be paid directly
	_, err = f.service.MarkPaid(context.Background(), created.ID.String(), MarkPaidRequest{})
	require.ErrorIs(t, err, ErrInvalidStatus)

	issued, err := f.service.IssueInvoice(context.Background(), created.ID.String())
	require.NoError(t, err)
	assert.Equal(t, model.InvoiceStatusIssued, issued.Status)

	// Issued cannot be issued again or cancelled
	_, err = f.service.IssueInvoice(context.Background(), created.ID.String())
	require.ErrorIs(t, err, ErrInvalidStatus)
	_, err = f.service.CancelInvoice(context.Background(), created.ID.String())
	require.ErrorIs(t, err, ErrInvalidStatus)

	paid, err := f.service.MarkPaid(context.Background(), created.ID.String(), MarkPaidRequest{PaidDate: "2025-04-20"})
	require.NoError(t, err)
	assert.Equal(t, model.InvoiceStatusPaid, paid.Status)
	require.NotNil(t, paid.PaidDate)
	assert.Equal(t, "2025-04-20", *paid.PaidDate)
}

func TestCancelInvoiceReleasesItems(t *testing.T) {
	f := newInvoiceFixture(t,
		item("Development", "Alpha", "2025-03-03", "2", nil),
	)

	created, err := f.service.AssembleInvoice(context.Background(), AssembleInvoiceRequest{
		CompanyID: f.company.ID.String(),
		StartDate: "2025-03-01",
		EndDate:   "2025-03-31",
	})
	require.NoError(t, err)

	cancelled, err := f.service.CancelInvoice(context.Background(), created.ID.String())
	require.NoError(t, err)
	assert.Equal(t, model.InvoiceStatusCancelled, cancelled.Status)

	// Released items can be assembled again
	resp, err := f.service.AssembleInvoice(context.Background(), AssembleInvoiceRequest{
		CompanyID: f.company.ID.String(),
		StartDate: "2025-03-01",
		EndDate:   "2025-03-31",
	})
	require.NoError(t, err)
	assert.Equal(t, "160.00", resp.NetTotal)
}

func TestInvoiceNumberSequencePerDay(t *testing.T) {
	f := newInvoiceFixture(t,
		item("Development", "Alpha", "2025-03-03", "2", nil),
		item("Code review", "Beta", "2025-04-10", "1", nil),
	)

	first, err := f.service.AssembleInvoice(context.Background(), AssembleInvoiceRequest{
		CompanyID: f.company.ID.String(),
		StartDate: "2025-03-01",
		EndDate:   "2025-03-31",
		IssueDate: "2025-05-01",
	})
	require.NoError(t, err)
	assert.Equal(t, "INV-20250501-001", first.InvoiceNumber)

	second, err := f.service.AssembleInvoice(context.Background(), AssembleInvoiceRequest{
		CompanyID: f.company.ID.String(),
		StartDate: "2025-04-01",
		EndDate:   "2025-04-30",
		IssueDate: "2025-05-01",
	})
	require.NoError(t, err)
	assert.Equal(t, "INV-20250501-002", second.InvoiceNumber)
}

func TestAssembleInvoiceValidatesDates(t *testing.T) {
	f := newInvoiceFixture(t)

	_, err := f.service.AssembleInvoice(context.Background(), AssembleInvoiceRequest{
		CompanyID: f.company.ID.String(),
		StartDate: "2025-03-31",
		EndDate:   "2025-03-01",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "end_date")
}

func TestGetInvoiceDocumentSnapshotsSellerAndBuyer(t *testing.T) {
	f := newInvoiceFixture(t,
		item("Development", "Alpha", "2025-03-03", "3.5", nil),
	)

	created, err := f.service.AssembleInvoice(context.Background(), AssembleInvoiceRequest{
		CompanyID: f.company.ID.String(),
		StartDate: "2025-03-01",
		EndDate:   "2025-03-31",
	})
	require.NoError(t, err)

	doc, err := f.service.GetInvoiceDocument(context.Background(), created.ID.String())
	require.NoError(t, err)

	assert.Equal(t, created.InvoiceNumber, doc.Number)
	assert.Equal(t, "Solo Dev", doc.Seller.Name)
	assert.Equal(t, "Acme Corp", doc.Buyer.Name)
	require.Len(t, doc.Lines, 1)
	assert.True(t, doc.Lines[0].NetAmount.Equal(dec("280.00")))
	assert.True(t, doc.GrossTotal.Equal(dec("344.40")))
}

// newPolishFixture bills the company in PLN, with assembly defaults that
// keep the generic VAT rate apart from the Polish one.
func newPolishFixture(t *testing.T, items ...*model.BillableItem) *invoiceFixture {
	t.Helper()

	company := &model.Company{
		ID:                uuid.New(),
		Name:              "Wawel Software Sp. z o.o.",
		DefaultHourlyRate: dec("100.00"),
		Currency:          "PLN",
		IsActive:          true,
	}
	for _, item := range items {
		item.CompanyID = company.ID
	}

	companyRepo := newFakeCompanyRepo(company)
	itemRepo := newFakeItemRepo(items...)
	invoiceRepo := newFakeInvoiceRepo(companyRepo)
	tx := &noopTxManager{}
	events := &recordingPublisher{}

	svc := NewInvoiceService(
		invoiceRepo, itemRepo, companyRepo, tx, events, zap.NewNop(),
		config.SellerProfile{Name: "Solo Dev"}, InvoiceDefaults{
			VATRate:             dec("0"),
			PaymentTermsDays:    14,
			PolishVATRate:       dec("23"),
			PolishPaymentMethod: "Przelew bankowy",
		},
	)

	return &invoiceFixture{
		service:  svc,
		company:  company,
		itemRepo: itemRepo,
		invoices: invoiceRepo,
		tx:       tx,
		events:   events,
	}
}

func TestAssembleInvoicePolishCompanyDefaults(t *testing.T) {
	f := newPolishFixture(t,
		item("Rozwój oprogramowania", "Platforma", "2025-03-03", "2", nil),
	)

	resp, err := f.service.AssembleInvoice(context.Background(), AssembleInvoiceRequest{
		CompanyID: f.company.ID.String(),
		StartDate: "2025-03-01",
		EndDate:   "2025-03-31",
	})
	require.NoError(t, err)

	// PLN billing falls back to the Polish VAT rate and payment method,
	// not the generic defaults
	assert.Equal(t, "23.00", resp.VATRate)
	assert.Equal(t, "Przelew bankowy", resp.PaymentMethod)
	assert.Equal(t, "200.00", resp.NetTotal)
	assert.Equal(t, "46.00", resp.VATTotal)
	assert.Equal(t, "246.00", resp.GrossTotal)
}

func TestAssembleInvoicePolishDefaultsYieldToRequest(t *testing.T) {
	f := newPolishFixture(t,
		item("Rozwój oprogramowania", "Platforma", "2025-03-03", "2", nil),
	)

	resp, err := f.service.AssembleInvoice(context.Background(), AssembleInvoiceRequest{
		CompanyID:     f.company.ID.String(),
		StartDate:     "2025-03-01",
		EndDate:       "2025-03-31",
		VATRate:       "8",
		PaymentMethod: "Gotówka",
	})
	require.NoError(t, err)

	assert.Equal(t, "8.00", resp.VATRate)
	assert.Equal(t, "Gotówka", resp.PaymentMethod)
	assert.Equal(t, "16.00", resp.VATTotal)
}

func TestAssembleInvoiceNonPolishSkipsPolishDefaults(t *testing.T) {
	f := newInvoiceFixture(t,
		item("Development", "Alpha", "2025-03-03", "2", nil),
	)

	resp, err := f.service.AssembleInvoice(context.Background(), AssembleInvoiceRequest{
		CompanyID: f.company.ID.String(),
		StartDate: "2025-03-01",
		EndDate:   "2025-03-31",
	})
	require.NoError(t, err)

	assert.Equal(t, "23.00", resp.VATRate)
	assert.Empty(t, resp.PaymentMethod)
}

func TestAssembleInvoiceDefaultsIssueDateToLocalToday(t *testing.T) {
	f := newInvoiceFixture(t,
		item("Development", "Alpha", "2025-03-03", "2", nil),
	)

	resp, err := f.service.AssembleInvoice(context.Background(), AssembleInvoiceRequest{
		CompanyID: f.company.ID.String(),
		StartDate: "2025-03-01",
		EndDate:   "2025-03-31",
	})
	require.NoError(t, err)

	today := time.Now().Format("2006-01-02")
	assert.Equal(t, today, resp.IssueDate)
	assert.Equal(t, today, resp.SaleDate)

	due, err := time.Parse("2006-01-02", resp.DueDate)
	require.NoError(t, err)
	assert.Equal(t, date(today).AddDate(0, 0, 30), due)
}

func TestAssembleInvoiceRetriesOnNumberConflict(t *testing.T) {
	f := newInvoiceFixture(t,
		item("Development", "Alpha", "2025-03-03", "2", nil),
	)
	f.invoices.failCreateOnce = gorm.ErrDuplicatedKey

	resp, err := f.service.AssembleInvoice(context.Background(), AssembleInvoiceRequest{
		CompanyID: f.company.ID.String(),
		StartDate: "2025-03-01",
		EndDate:   "2025-03-31",
		IssueDate: "2025-06-01",
	})
	require.NoError(t, err)

	// One conflicted insert, one successful retry
	assert.Equal(t, 2, f.invoices.createCalls)
	assert.Equal(t, "INV-20250601-001", resp.InvoiceNumber)
	assert.Len(t, f.invoices.invoices, 1)
}

func TestAssembleInvoiceDoesNotRetryOtherCreateErrors(t *testing.T) {
	f := newInvoiceFixture(t,
		item("Development", "Alpha", "2025-03-03", "2", nil),
	)
	f.invoices.failCreateOnce = gorm.ErrInvalidData

	_, err := f.service.AssembleInvoice(context.Background(), AssembleInvoiceRequest{
		CompanyID: f.company.ID.String(),
		StartDate: "2025-03-01",
		EndDate:   "2025-03-31",
	})
	require.Error(t, err)
	assert.Equal(t, 1, f.invoices.createCalls)
	assert.Empty(t, f.invoices.invoices)
}

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}
