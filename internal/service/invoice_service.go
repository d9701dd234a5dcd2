package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"timebill/internal/config"
	"timebill/internal/model"
	"timebill/internal/render"
	"timebill/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	currencyPLN           = "PLN"
	invoiceNumberAttempts = 3
)

// --- DTOs ---

type AssembleInvoiceRequest struct {
	CompanyID     string `json:"company_id" binding:"required"`
	StartDate     string `json:"start_date" binding:"required"` // YYYY-MM-DD
	EndDate       string `json:"end_date" binding:"required"`   // YYYY-MM-DD
	VATRate       string `json:"vat_rate"`                      // percent, defaults to config (Polish rate for PLN companies)
	IssueDate     string `json:"issue_date"`                    // defaults to today
	SaleDate      string `json:"sale_date"`                     // defaults to issue date
	DueDate       string `json:"due_date"`                      // defaults to issue date + payment terms
	PaymentMethod string `json:"payment_method"`
	Notes         string `json:"notes"`
}

// InvoiceDefaults carries the configured assembly defaults. The Polish
// values take over when the company is billed in PLN, matching the
// standard domestic VAT rate and payment method.
type InvoiceDefaults struct {
	VATRate             decimal.Decimal // percent
	PaymentTermsDays    int
	PolishVATRate       decimal.Decimal // percent
	PolishPaymentMethod string
}

type MarkPaidRequest struct {
	PaidDate      string `json:"paid_date"` // defaults to today
	PaymentMethod string `json:"payment_method"`
}

type LineItemResponse struct {
	LineNo       int    `json:"line_no"`
	Description  string `json:"description"`
	Project      string `json:"project"`
	TaskCategory string `json:"task_category"`
	Quantity     string `json:"quantity"`
	UnitRate     string `json:"unit_rate"`
	NetAmount    string `json:"net_amount"`
	VATAmount    string `json:"vat_amount"`
	GrossAmount  string `json:"gross_amount"`
}

type InvoiceResponse struct {
	ID            uuid.UUID          `json:"id"`
	CompanyID     uuid.UUID          `json:"company_id"`
	CompanyName   string             `json:"company_name,omitempty"`
	InvoiceNumber string             `json:"invoice_number"`
	IssueDate     string             `json:"issue_date"`
	SaleDate      string             `json:"sale_date"`
	DueDate       string             `json:"due_date"`
	Currency      string             `json:"currency"`
	VATRate       string             `json:"vat_rate"`
	NetTotal      string             `json:"net_total"`
	VATTotal      string             `json:"vat_total"`
	GrossTotal    string             `json:"gross_total"`
	Status        string             `json:"status"`
	PaymentMethod string             `json:"payment_method"`
	Notes         string             `json:"notes"`
	PaidDate      *string            `json:"paid_date"`
	LineItems     []LineItemResponse `json:"line_items,omitempty"`
	CreatedAt     time.Time          `json:"created_at"`
}

type InvoiceFilter struct {
	CompanyID string
	Status    string
	Number    string
	Page      int
	Limit     int
}

// --- Interface ---

type InvoiceService interface {
	AssembleInvoice(ctx context.Context, req AssembleInvoiceRequest) (InvoiceResponse, error)
	GetInvoice(ctx context.Context, id string) (InvoiceResponse, error)
	ListInvoices(ctx context.Context, filter InvoiceFilter) ([]InvoiceResponse, int64, error)
	IssueInvoice(ctx context.Context, id string) (InvoiceResponse, error)
	MarkPaid(ctx context.Context, id string, req MarkPaidRequest) (InvoiceResponse, error)
	CancelInvoice(ctx context.Context, id string) (InvoiceResponse, error)
	GetInvoiceDocument(ctx context.Context, id string) (render.InvoiceDocument, error)
}

type invoiceService struct {
	invoiceRepo repository.InvoiceRepository
	itemRepo    repository.BillableItemRepository
	companyRepo repository.CompanyRepository
	txManager   repository.TransactionManager
	events      eventPublisher
	logger      *zap.Logger

	seller   config.SellerProfile
	defaults InvoiceDefaults

	// Serializes assembly per company so two concurrent requests cannot
	// double-invoice the same billable items.
	locksMu      sync.Mutex
	companyLocks map[uuid.UUID]*sync.Mutex
}

func NewInvoiceService(
	invoiceRepo repository.InvoiceRepository,
	itemRepo repository.BillableItemRepository,
	companyRepo repository.CompanyRepository,
	txManager repository.TransactionManager,
	events eventPublisher,
	logger *zap.Logger,
	seller config.SellerProfile,
	defaults InvoiceDefaults,
) InvoiceService {
	return &invoiceService{
		invoiceRepo:  invoiceRepo,
		itemRepo:     itemRepo,
		companyRepo:  companyRepo,
		txManager:    txManager,
		events:       events,
		logger:       logger,
		seller:       seller,
		defaults:     defaults,
		companyLocks: make(map[uuid.UUID]*sync.Mutex),
	}
}

// --- Assembly ---

// lineGroup accumulates billable items sharing a (description, project)
// key, in first-seen order.
type lineGroup struct {
	description  string
	project      string
	taskCategory string
	hours        decimal.Decimal
	rate         decimal.Decimal
}

func (s *invoiceService) AssembleInvoice(ctx context.Context, req AssembleInvoiceRequest) (InvoiceResponse, error) {
	companyID, err := uuid.Parse(req.CompanyID)
	if err != nil {
		return InvoiceResponse{}, fmt.Errorf("invalid company id: %w", err)
	}

	startDate, err := time.Parse(dateLayout, req.StartDate)
	if err != nil {
		return InvoiceResponse{}, fmt.Errorf("invalid start_date: %w", err)
	}
	endDate, err := time.Parse(dateLayout, req.EndDate)
	if err != nil {
		return InvoiceResponse{}, fmt.Errorf("invalid end_date: %w", err)
	}
	if endDate.Before(startDate) {
		return InvoiceResponse{}, fmt.Errorf("end_date must not precede start_date")
	}

	var vatRate decimal.Decimal
	if req.VATRate != "" {
		vatRate, err = decimal.NewFromString(req.VATRate)
		if err != nil {
			return InvoiceResponse{}, fmt.Errorf("invalid vat_rate: %w", err)
		}
		if vatRate.IsNegative() {
			return InvoiceResponse{}, fmt.Errorf("vat_rate must not be negative")
		}
	}

	// Midnight of the local calendar day. Truncate would cut on the UTC
	// day boundary and shift the date in other zones.
	now := time.Now()
	issueDate := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if req.IssueDate != "" {
		issueDate, err = time.Parse(dateLayout, req.IssueDate)
		if err != nil {
			return InvoiceResponse{}, fmt.Errorf("invalid issue_date: %w", err)
		}
	}
	saleDate := issueDate
	if req.SaleDate != "" {
		saleDate, err = time.Parse(dateLayout, req.SaleDate)
		if err != nil {
			return InvoiceResponse{}, fmt.Errorf("invalid sale_date: %w", err)
		}
	}
	dueDate := issueDate.AddDate(0, 0, s.defaults.PaymentTermsDays)
	if req.DueDate != "" {
		dueDate, err = time.Parse(dateLayout, req.DueDate)
		if err != nil {
			return InvoiceResponse{}, fmt.Errorf("invalid due_date: %w", err)
		}
	}

	unlock := s.lockCompany(companyID)
	defer unlock()

	company, err := s.companyRepo.FindByID(ctx, companyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return InvoiceResponse{}, fmt.Errorf("company %s: %w", req.CompanyID, ErrNotFound)
		}
		return InvoiceResponse{}, fmt.Errorf("failed to fetch company: %w", err)
	}

	if req.VATRate == "" {
		vatRate = s.defaults.VATRate
		if company.Currency == currencyPLN {
			vatRate = s.defaults.PolishVATRate
		}
	}
	paymentMethod := req.PaymentMethod
	if paymentMethod == "" && company.Currency == currencyPLN {
		paymentMethod = s.defaults.PolishPaymentMethod
	}

	items, err := s.itemRepo.FindUnbilled(ctx, companyID, startDate, endDate)
	if err != nil {
		return InvoiceResponse{}, fmt.Errorf("failed to fetch billable items: %w", err)
	}
	if len(items) == 0 {
		return InvoiceResponse{}, fmt.Errorf("company %s, %s..%s: %w", req.CompanyID, req.StartDate, req.EndDate, ErrEmptySelection)
	}

	groups, err := groupItems(items, company.DefaultHourlyRate)
	if err != nil {
		return InvoiceResponse{}, err
	}

	lines, netTotal, vatTotal, grossTotal := computeLines(groups, vatRate)

	itemIDs := make([]uuid.UUID, len(items))
	for i, item := range items {
		itemIDs[i] = item.ID
	}

	// Persist invoice + lines and freeze the source items atomically. The
	// number is counted outside the insert, so a same-day assembly for
	// another company can race it onto the unique index; regenerate and
	// retry on that conflict.
	var invoice model.Invoice
	for attempt := 0; ; attempt++ {
		invoiceNumber, numErr := s.generateInvoiceNumber(ctx, issueDate)
		if numErr != nil {
			return InvoiceResponse{}, fmt.Errorf("failed to generate invoice number: %w", numErr)
		}

		invoice = model.Invoice{
			CompanyID:     companyID,
			InvoiceNumber: invoiceNumber,
			IssueDate:     issueDate,
			SaleDate:      saleDate,
			DueDate:       dueDate,
			Currency:      company.Currency,
			VATRate:       vatRate,
			NetTotal:      netTotal,
			VATTotal:      vatTotal,
			GrossTotal:    grossTotal,
			Status:        model.InvoiceStatusDraft,
			PaymentMethod: paymentMethod,
			Notes:         req.Notes,
			LineItems:     lines,
		}

		err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
			if err := s.invoiceRepo.Create(txCtx, &invoice); err != nil {
				return fmt.Errorf("failed to create invoice: %w", err)
			}
			if err := s.itemRepo.MarkInvoiced(txCtx, itemIDs, invoice.ID); err != nil {
				return fmt.Errorf("failed to mark items invoiced: %w", err)
			}
			return nil
		})
		if err == nil {
			break
		}
		if errors.Is(err, gorm.ErrDuplicatedKey) && attempt < invoiceNumberAttempts-1 {
			s.logger.Warn("invoice number taken, retrying",
				zap.String("invoice_number", invoiceNumber),
				zap.Int("attempt", attempt+1))
			continue
		}
		return InvoiceResponse{}, err
	}

	s.logger.Info("invoice assembled",
		zap.String("invoice_number", invoice.InvoiceNumber),
		zap.String("company_id", companyID.String()),
		zap.Int("line_items", len(lines)),
		zap.Int("source_items", len(items)),
		zap.String("gross_total", grossTotal.StringFixed(2)))

	if s.events != nil {
		s.events.Publish("invoice.created", map[string]interface{}{
			"invoice_id":     invoice.ID.String(),
			"invoice_number": invoice.InvoiceNumber,
			"company_id":     companyID.String(),
			"gross_total":    grossTotal.StringFixed(2),
		})
	}

	reloaded, err := s.invoiceRepo.FindByIDWithLines(ctx, invoice.ID)
	if err != nil {
		return InvoiceResponse{}, fmt.Errorf("failed to reload invoice: %w", err)
	}
	return toInvoiceResponse(*reloaded), nil
}

// groupItems folds billable items into line groups keyed by
// (description, project). Every item in a group must resolve to the same
// effective rate.
func groupItems(items []model.BillableItem, companyDefaultRate decimal.Decimal) ([]lineGroup, error) {
	type key struct{ description, project string }

	index := make(map[key]int)
	groups := make([]lineGroup, 0, len(items))

	for _, item := range items {
		rate := item.EffectiveRate(companyDefaultRate)
		k := key{item.Description, item.Project}

		if pos, ok := index[k]; ok {
			if !groups[pos].rate.Equal(rate) {
				return nil, fmt.Errorf("group (%q, %q): rates %s and %s: %w",
					item.Description, item.Project,
					groups[pos].rate.StringFixed(2), rate.StringFixed(2), ErrRateMismatch)
			}
			groups[pos].hours = groups[pos].hours.Add(item.Hours)
			continue
		}

		index[k] = len(groups)
		groups = append(groups, lineGroup{
			description:  item.Description,
			project:      item.Project,
			taskCategory: item.TaskCategory,
			hours:        item.Hours,
			rate:         rate,
		})
	}

	return groups, nil
}

// computeLines turns groups into line items with net/VAT/gross amounts.
// VAT is rounded half-up to 2 decimals per line; totals are sums of the
// rounded line values so they always reconcile with the printed lines.
func computeLines(groups []lineGroup, vatRate decimal.Decimal) ([]model.InvoiceLineItem, decimal.Decimal, decimal.Decimal, decimal.Decimal) {
	lines := make([]model.InvoiceLineItem, 0, len(groups))
	netTotal, vatTotal, grossTotal := decimal.Zero, decimal.Zero, decimal.Zero

	for i, g := range groups {
		net := g.hours.Mul(g.rate).Round(2)
		vat := net.Mul(vatRate).Div(decimal.NewFromInt(100)).Round(2)
		gross := net.Add(vat)

		lines = append(lines, model.InvoiceLineItem{
			LineNo:       i + 1,
			Description:  g.description,
			Project:      g.project,
			TaskCategory: g.taskCategory,
			Quantity:     g.hours,
			UnitRate:     g.rate,
			NetAmount:    net,
			VATAmount:    vat,
			GrossAmount:  gross,
		})

		netTotal = netTotal.Add(net)
		vatTotal = vatTotal.Add(vat)
		grossTotal = grossTotal.Add(gross)
	}

	return lines, netTotal, vatTotal, grossTotal
}

func (s *invoiceService) generateInvoiceNumber(ctx context.Context, issueDate time.Time) (string, error) {
	prefix := "INV-" + issueDate.Format("20060102") + "-"

	count, err := s.invoiceRepo.CountByPrefix(ctx, prefix)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("%s%03d", prefix, count+1), nil
}

func (s *invoiceService) lockCompany(companyID uuid.UUID) func() {
	s.locksMu.Lock()
	lock, ok := s.companyLocks[companyID]
	if !ok {
		lock = &sync.Mutex{}
		s.companyLocks[companyID] = lock
	}
	s.locksMu.Unlock()

	lock.Lock()
	return lock.Unlock
}

// --- Reads ---

func (s *invoiceService) GetInvoice(ctx context.Context, id string) (InvoiceResponse, error) {
	invoice, err := s.findInvoiceWithLines(ctx, id)
	if err != nil {
		return InvoiceResponse{}, err
	}
	return toInvoiceResponse(*invoice), nil
}

func (s *invoiceService) ListInvoices(ctx context.Context, filter InvoiceFilter) ([]InvoiceResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.Limit <= 0 {
		filter.Limit = 20
	}

	repoFilter := repository.InvoiceListFilter{
		Status: filter.Status,
		Number: filter.Number,
		Page:   filter.Page,
		Limit:  filter.Limit,
	}
	if filter.CompanyID != "" {
		companyID, err := uuid.Parse(filter.CompanyID)
		if err != nil {
			return nil, 0, fmt.Errorf("invalid company id: %w", err)
		}
		repoFilter.CompanyID = &companyID
	}

	invoices, total, err := s.invoiceRepo.List(ctx, repoFilter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch invoices: %w", err)
	}

	result := make([]InvoiceResponse, 0, len(invoices))
	for _, inv := range invoices {
		result = append(result, toInvoiceResponse(inv))
	}
	return result, total, nil
}

// --- Status transitions ---

func (s *invoiceService) IssueInvoice(ctx context.Context, id string) (InvoiceResponse, error) {
	return s.transition(ctx, id, func(invoice *model.Invoice) error {
		if invoice.Status != model.InvoiceStatusDraft {
			return fmt.Errorf("cannot issue invoice in status %s: %w", invoice.Status, ErrInvalidStatus)
		}
		invoice.Status = model.InvoiceStatusIssued
		return nil
	})
}

func (s *invoiceService) MarkPaid(ctx context.Context, id string, req MarkPaidRequest) (InvoiceResponse, error) {
	paidDate := time.Now()
	if req.PaidDate != "" {
		var err error
		paidDate, err = time.Parse(dateLayout, req.PaidDate)
		if err != nil {
			return InvoiceResponse{}, fmt.Errorf("invalid paid_date: %w", err)
		}
	}

	return s.transition(ctx, id, func(invoice *model.Invoice) error {
		if invoice.Status != model.InvoiceStatusIssued {
			return fmt.Errorf("cannot mark invoice paid in status %s: %w", invoice.Status, ErrInvalidStatus)
		}
		invoice.Status = model.InvoiceStatusPaid
		invoice.PaidDate = &paidDate
		if req.PaymentMethod != "" {
			invoice.PaymentMethod = req.PaymentMethod
		}
		return nil
	})
}

// CancelInvoice voids a draft and releases its billable items back into
// the unbilled pool. Issued invoices cannot be cancelled.
func (s *invoiceService) CancelInvoice(ctx context.Context, id string) (InvoiceResponse, error) {
	invoiceID, err := uuid.Parse(id)
	if err != nil {
		return InvoiceResponse{}, fmt.Errorf("invalid invoice id: %w", err)
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		invoice, findErr := s.invoiceRepo.FindByID(txCtx, invoiceID)
		if findErr != nil {
			if errors.Is(findErr, gorm.ErrRecordNotFound) {
				return fmt.Errorf("invoice %s: %w", id, ErrNotFound)
			}
			return fmt.Errorf("failed to fetch invoice: %w", findErr)
		}

		if invoice.Status != model.InvoiceStatusDraft {
			return fmt.Errorf("cannot cancel invoice in status %s: %w", invoice.Status, ErrInvalidStatus)
		}

		invoice.Status = model.InvoiceStatusCancelled
		if updateErr := s.invoiceRepo.Update(txCtx, invoice); updateErr != nil {
			return fmt.Errorf("failed to update invoice: %w", updateErr)
		}
		if releaseErr := s.itemRepo.ReleaseInvoiced(txCtx, invoiceID); releaseErr != nil {
			return fmt.Errorf("failed to release billable items: %w", releaseErr)
		}
		return nil
	})
	if err != nil {
		return InvoiceResponse{}, err
	}

	s.publishStatusChange(invoiceID, model.InvoiceStatusCancelled)

	reloaded, err := s.invoiceRepo.FindByIDWithLines(ctx, invoiceID)
	if err != nil {
		return InvoiceResponse{}, fmt.Errorf("failed to reload invoice: %w", err)
	}
	return toInvoiceResponse(*reloaded), nil
}

func (s *invoiceService) transition(ctx context.Context, id string, apply func(*model.Invoice) error) (InvoiceResponse, error) {
	invoiceID, err := uuid.Parse(id)
	if err != nil {
		return InvoiceResponse{}, fmt.Errorf("invalid invoice id: %w", err)
	}

	var status string
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		invoice, findErr := s.invoiceRepo.FindByID(txCtx, invoiceID)
		if findErr != nil {
			if errors.Is(findErr, gorm.ErrRecordNotFound) {
				return fmt.Errorf("invoice %s: %w", id, ErrNotFound)
			}
			return fmt.Errorf("failed to fetch invoice: %w", findErr)
		}

		if applyErr := apply(invoice); applyErr != nil {
			return applyErr
		}

		status = invoice.Status
		if updateErr := s.invoiceRepo.Update(txCtx, invoice); updateErr != nil {
			return fmt.Errorf("failed to update invoice: %w", updateErr)
		}
		return nil
	})
	if err != nil {
		return InvoiceResponse{}, err
	}

	s.publishStatusChange(invoiceID, status)

	reloaded, err := s.invoiceRepo.FindByIDWithLines(ctx, invoiceID)
	if err != nil {
		return InvoiceResponse{}, fmt.Errorf("failed to reload invoice: %w", err)
	}
	return toInvoiceResponse(*reloaded), nil
}

func (s *invoiceService) publishStatusChange(invoiceID uuid.UUID, status string) {
	if s.events == nil {
		return
	}
	s.events.Publish("invoice.status_changed", map[string]interface{}{
		"invoice_id": invoiceID.String(),
		"status":     status,
	})
}

// GetInvoiceDocument builds the immutable render snapshot of an invoice:
// the persisted lines and totals plus the frozen seller and buyer details.
// Rendering from this snapshot never recomputes amounts.
func (s *invoiceService) GetInvoiceDocument(ctx context.Context, id string) (render.InvoiceDocument, error) {
	invoice, err := s.findInvoiceWithLines(ctx, id)
	if err != nil {
		return render.InvoiceDocument{}, err
	}

	doc := render.InvoiceDocument{
		Number:        invoice.InvoiceNumber,
		IssueDate:     invoice.IssueDate,
		SaleDate:      invoice.SaleDate,
		DueDate:       invoice.DueDate,
		Currency:      invoice.Currency,
		VATRate:       invoice.VATRate,
		NetTotal:      invoice.NetTotal,
		VATTotal:      invoice.VATTotal,
		GrossTotal:    invoice.GrossTotal,
		Status:        invoice.Status,
		PaymentMethod: invoice.PaymentMethod,
		Notes:         invoice.Notes,
		Seller: render.SellerInfo{
			Name:         s.seller.Name,
			BusinessType: s.seller.BusinessType,
			Address:      s.seller.Address,
			City:         s.seller.City,
			NIP:          s.seller.NIP,
			REGON:        s.seller.REGON,
			Phone:        s.seller.Phone,
			Email:        s.seller.Email,
			BankName:     s.seller.BankName,
			BankAccount:  s.seller.BankAccount,
		},
	}

	if invoice.Company != nil {
		doc.Buyer = render.BuyerInfo{
			Name:          invoice.Company.Name,
			ContactPerson: invoice.Company.ContactPerson,
			Address:       invoice.Company.FormattedAddress(),
			TaxID:         invoice.Company.TaxID,
			Phone:         invoice.Company.Phone,
			Email:         invoice.Company.Email,
		}
	}

	for _, line := range invoice.LineItems {
		doc.Lines = append(doc.Lines, render.DocumentLine{
			No:          line.LineNo,
			Description: line.Description,
			Project:     line.Project,
			Quantity:    line.Quantity,
			UnitRate:    line.UnitRate,
			NetAmount:   line.NetAmount,
			VATAmount:   line.VATAmount,
			GrossAmount: line.GrossAmount,
		})
	}

	return doc, nil
}

// --- Helpers ---

func (s *invoiceService) findInvoiceWithLines(ctx context.Context, id string) (*model.Invoice, error) {
	invoiceID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid invoice id: %w", err)
	}

	invoice, err := s.invoiceRepo.FindByIDWithLines(ctx, invoiceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("invoice %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to fetch invoice: %w", err)
	}
	return invoice, nil
}

func toInvoiceResponse(inv model.Invoice) InvoiceResponse {
	resp := InvoiceResponse{
		ID:            inv.ID,
		CompanyID:     inv.CompanyID,
		InvoiceNumber: inv.InvoiceNumber,
		IssueDate:     inv.IssueDate.Format(dateLayout),
		SaleDate:      inv.SaleDate.Format(dateLayout),
		DueDate:       inv.DueDate.Format(dateLayout),
		Currency:      inv.Currency,
		VATRate:       inv.VATRate.StringFixed(2),
		NetTotal:      inv.NetTotal.StringFixed(2),
		VATTotal:      inv.VATTotal.StringFixed(2),
		GrossTotal:    inv.GrossTotal.StringFixed(2),
		Status:        inv.Status,
		PaymentMethod: inv.PaymentMethod,
		Notes:         inv.Notes,
		CreatedAt:     inv.CreatedAt,
	}
	if inv.Company != nil {
		resp.CompanyName = inv.Company.Name
	}
	if inv.PaidDate != nil {
		d := inv.PaidDate.Format(dateLayout)
		resp.PaidDate = &d
	}
	for _, line := range inv.LineItems {
		resp.LineItems = append(resp.LineItems, LineItemResponse{
			LineNo:       line.LineNo,
			Description:  line.Description,
			Project:      line.Project,
			TaskCategory: line.TaskCategory,
			Quantity:     line.Quantity.StringFixed(2),
			UnitRate:     line.UnitRate.StringFixed(2),
			NetAmount:    line.NetAmount.StringFixed(2),
			VATAmount:    line.VATAmount.StringFixed(2),
			GrossAmount:  line.GrossAmount.StringFixed(2),
		})
	}
	return resp
}
