package render

import (
	"time"

	"github.com/shopspring/decimal"
)

// SellerInfo is the frozen issuer snapshot printed on a document.
type SellerInfo struct {
	Name         string
	BusinessType string
	Address      string
	City         string
	NIP          string
	REGON        string
	Phone        string
	Email        string
	BankName     string
	BankAccount  string
}

// BuyerInfo is the frozen client snapshot printed on a document.
type BuyerInfo struct {
	Name          string
	ContactPerson string
	Address       string
	TaxID         string
	Phone         string
	Email         string
}

// DocumentLine is one printed invoice row.
type DocumentLine struct {
	No          int
	Description string
	Project     string
	Quantity    decimal.Decimal // hours
	UnitRate    decimal.Decimal
	NetAmount   decimal.Decimal
	VATAmount   decimal.Decimal
	GrossAmount decimal.Decimal
}

// InvoiceDocument is the complete, immutable input of a render call.
// Rendering is a pure function of this snapshot plus (locale, format), so
// re-rendering a persisted invoice reproduces the exact same bytes.
type InvoiceDocument struct {
	Number    string
	IssueDate time.Time
	SaleDate  time.Time
	DueDate   time.Time

	Currency string
	VATRate  decimal.Decimal // percent

	NetTotal   decimal.Decimal
	VATTotal   decimal.Decimal
	GrossTotal decimal.Decimal

	Status        string
	PaymentMethod string
	Notes         string

	Seller SellerInfo
	Buyer  BuyerInfo
	Lines  []DocumentLine
}
