package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InvoiceStatus enum constants
const (
	InvoiceStatusDraft     = "DRAFT"
	InvoiceStatusIssued    = "ISSUED"
	InvoiceStatusPaid      = "PAID"
	InvoiceStatusCancelled = "CANCELLED"
)

// Invoice is a frozen billing document assembled from a company's
// non-invoiced billable items. Line items and totals never change after
// assembly; only the status fields move.
type Invoice struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	CompanyID uuid.UUID `gorm:"type:uuid;not null;index" json:"company_id"`
	Company   *Company  `gorm:"foreignKey:CompanyID" json:"company,omitempty"`

	InvoiceNumber string    `gorm:"type:varchar(50);uniqueIndex;not null" json:"invoice_number"`
	IssueDate     time.Time `gorm:"type:date;not null" json:"issue_date"`
	SaleDate      time.Time `gorm:"type:date;not null" json:"sale_date"`
	DueDate       time.Time `gorm:"type:date;not null" json:"due_date"`

	Currency string          `gorm:"type:varchar(3);not null" json:"currency"`
	VATRate  decimal.Decimal `gorm:"type:decimal(5,2);not null" json:"vat_rate"` // percent, e.g. 23.00

	NetTotal   decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"net_total"`
	VATTotal   decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"vat_total"`
	GrossTotal decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"gross_total"`

	Status        string `gorm:"type:varchar(20);not null;default:'DRAFT';index" json:"status"`
	PaymentMethod string `gorm:"type:varchar(100)" json:"payment_method"`
	Notes         string `gorm:"type:text" json:"notes"`

	PaidDate *time.Time `json:"paid_date"`

	LineItems []InvoiceLineItem `gorm:"foreignKey:InvoiceID;constraint:OnDelete:CASCADE" json:"line_items"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// InvoiceLineItem is one aggregated row of an invoice, derived from the
// billable items sharing a (description, project) grouping key.
type InvoiceLineItem struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	InvoiceID uuid.UUID `gorm:"type:uuid;not null;index" json:"invoice_id"`

	LineNo       int    `gorm:"not null" json:"line_no"`
	Description  string `gorm:"type:text;not null" json:"description"`
	Project      string `gorm:"type:varchar(255)" json:"project"`
	TaskCategory string `gorm:"type:varchar(100)" json:"task_category"`

	Quantity decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"quantity"` // hours
	UnitRate decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"unit_rate"`

	NetAmount   decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"net_amount"`
	VATAmount   decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"vat_amount"`
	GrossAmount decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"gross_amount"`

	CreatedAt time.Time `json:"created_at"`
}
