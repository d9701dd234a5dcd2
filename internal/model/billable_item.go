package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BillableItem is a unit of trackable work (hours x rate) eligible for
// invoicing. Once attached to an invoice it is frozen: updates and deletes
// are rejected and it is excluded from future assembly.
type BillableItem struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	CompanyID uuid.UUID `gorm:"type:uuid;not null;index" json:"company_id"`
	Company   *Company  `gorm:"foreignKey:CompanyID" json:"company,omitempty"`

	Description  string `gorm:"type:text;not null" json:"description"`
	Project      string `gorm:"type:varchar(255)" json:"project"`
	TaskCategory string `gorm:"type:varchar(100)" json:"task_category"`

	DateWorked time.Time       `gorm:"type:date;not null;index" json:"date_worked"`
	Hours      decimal.Decimal `gorm:"type:decimal(7,2);not null" json:"hours"`

	// HourlyRate overrides the company default when set
	HourlyRate *decimal.Decimal `gorm:"type:decimal(12,2)" json:"hourly_rate"`

	IsInvoiced bool       `gorm:"not null;default:false;index" json:"is_invoiced"`
	InvoiceID  *uuid.UUID `gorm:"type:uuid;index" json:"invoice_id"`

	// Import tracking: filename and timestamp when the row came from a file
	ImportSource string     `gorm:"type:varchar(255)" json:"import_source"`
	ImportDate   *time.Time `json:"import_date"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// EffectiveRate resolves the rate used for invoicing: the item override if
// present, otherwise the company default.
func (b BillableItem) EffectiveRate(companyDefault decimal.Decimal) decimal.Decimal {
	if b.HourlyRate != nil {
		return *b.HourlyRate
	}
	return companyDefault
}
