package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Company represents a client company billed for tracked hours.
// Companies are never hard-deleted because issued invoices reference them;
// IsActive=false hides them from selection instead.
type Company struct {
	ID            uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name          string    `gorm:"type:varchar(255);not null;index" json:"name"`
	ContactPerson string    `gorm:"type:varchar(255)" json:"contact_person"`
	Email         string    `gorm:"type:varchar(255)" json:"email"`
	Phone         string    `gorm:"type:varchar(50)" json:"phone"`
	Address       string    `gorm:"type:text" json:"address"`
	City          string    `gorm:"type:varchar(100)" json:"city"`
	State         string    `gorm:"type:varchar(100)" json:"state"`
	ZipCode       string    `gorm:"type:varchar(20)" json:"zip_code"`
	Country       string    `gorm:"type:varchar(100)" json:"country"`

	// TaxID holds the buyer's tax identification number (NIP for Polish buyers)
	TaxID string `gorm:"type:varchar(50)" json:"tax_id"`

	DefaultHourlyRate decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"default_hourly_rate"`
	Currency          string          `gorm:"type:varchar(3);not null;default:'USD'" json:"currency"`

	IsActive  bool      `gorm:"default:true" json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// FormattedAddress joins the populated address parts into a single line.
func (c Company) FormattedAddress() string {
	stateZip := strings.TrimSpace(c.State + " " + c.ZipCode)
	parts := []string{c.Address, c.City, stateZip, c.Country}
	nonEmpty := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			nonEmpty = append(nonEmpty, p)
		}
	}
	return strings.Join(nonEmpty, ", ")
}
