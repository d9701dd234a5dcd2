package render

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Locale selects the label set and layout of a rendered invoice.
type Locale string

// Format selects the output document type.
type Format string

const (
	LocaleEN Locale = "en" // default English-style layout
	LocalePL Locale = "pl" // Polish Faktura layout

	FormatPDF  Format = "pdf"
	FormatDocx Format = "docx"
)

// Labels is the translatable string set of an invoice layout.
type Labels struct {
	Title         string
	InvoiceNumber string
	IssueDate     string
	SaleDate      string
	DueDate       string
	Status        string
	Seller        string
	Buyer         string
	ItemsHeader   string
	ItemNo        string
	Description   string
	Quantity      string
	Unit          string
	UnitHour      string
	NetPrice      string
	VATRate       string
	VATAmount     string
	GrossAmount   string
	Total         string
	Summary       string
	NetValue      string
	VATValue      string
	ToPay         string
	PaymentMethod string
	Notes         string
	NIP           string
	REGON         string
	Phone         string
	Email         string
	BankAccount   string
	GeneratedBy   string
}

// Template is a tagged locale descriptor: labels plus the date and money
// formatting rules of the locale, plus the seller fields the layout cannot
// be rendered without.
type Template struct {
	Locale     Locale
	Labels     Labels
	DateLayout string

	// RequiredSellerFields names the SellerInfo fields that must be
	// non-empty for this layout (checked before any bytes are produced).
	RequiredSellerFields []string

	thousandsSep string
	decimalSep   string
	moneySuffix  string // e.g. " zł"; empty means prefix with a symbol
}

var templates = map[Locale]Template{
	LocaleEN: {
		Locale:     LocaleEN,
		DateLayout: "2006-01-02",
		Labels: Labels{
			Title:         "INVOICE",
			InvoiceNumber: "Invoice Number:",
			IssueDate:     "Invoice Date:",
			SaleDate:      "Sale Date:",
			DueDate:       "Due Date:",
			Status:        "Status:",
			Seller:        "From:",
			Buyer:         "Bill To:",
			ItemsHeader:   "Invoice Items",
			ItemNo:        "#",
			Description:   "Description",
			Quantity:      "Hours",
			Unit:          "Unit",
			UnitHour:      "h",
			NetPrice:      "Net",
			VATRate:       "VAT %",
			VATAmount:     "VAT",
			GrossAmount:   "Gross",
			Total:         "Total:",
			Summary:       "Summary",
			NetValue:      "Net total:",
			VATValue:      "VAT total:",
			ToPay:         "Amount due:",
			PaymentMethod: "Payment method:",
			Notes:         "Notes:",
			NIP:           "Tax ID:",
			REGON:         "Registry no.:",
			Phone:         "Phone:",
			Email:         "Email:",
			BankAccount:   "Bank account:",
			GeneratedBy:   "Generated",
		},
		thousandsSep: ",",
		decimalSep:   ".",
	},
	LocalePL: {
		Locale:     LocalePL,
		DateLayout: "02.01.2006",
		Labels: Labels{
			Title:         "FAKTURA",
			InvoiceNumber: "Nr faktury:",
			IssueDate:     "Data wystawienia:",
			SaleDate:      "Data sprzedaży:",
			DueDate:       "Termin płatności:",
			Status:        "Status:",
			Seller:        "SPRZEDAWCA:",
			Buyer:         "NABYWCA:",
			ItemsHeader:   "POZYCJE FAKTURY",
			ItemNo:        "Lp.",
			Description:   "Nazwa towaru/usługi",
			Quantity:      "Ilość",
			Unit:          "J.m.",
			UnitHour:      "godz.",
			NetPrice:      "Cena netto",
			VATRate:       "VAT %",
			VATAmount:     "Kwota VAT",
			GrossAmount:   "Wartość brutto",
			Total:         "RAZEM:",
			Summary:       "PODSUMOWANIE",
			NetValue:      "Wartość netto:",
			VATValue:      "VAT:",
			ToPay:         "Do zapłaty:",
			PaymentMethod: "Sposób zapłaty:",
			Notes:         "Uwagi:",
			NIP:           "NIP:",
			REGON:         "REGON:",
			Phone:         "Tel:",
			Email:         "Email:",
			BankAccount:   "Nr rachunku:",
			GeneratedBy:   "Faktura wygenerowana:",
		},
		RequiredSellerFields: []string{"NIP", "BankAccount"},
		thousandsSep:         " ",
		decimalSep:           ",",
		moneySuffix:          " zł",
	},
}

func templateFor(locale Locale) (Template, error) {
	tpl, ok := templates[locale]
	if !ok {
		return Template{}, fmt.Errorf("%w: %q", ErrUnsupportedLocale, locale)
	}
	return tpl, nil
}

// FormatDate renders a date per the locale.
func (t Template) FormatDate(d time.Time) string {
	return d.Format(t.DateLayout)
}

// FormatMoney renders an amount with the locale's separators. The Polish
// layout suffixes "zł"; other locales prefix the currency symbol or code.
func (t Template) FormatMoney(amount decimal.Decimal, currency string) string {
	s := groupDigits(amount.StringFixed(2), t.thousandsSep, t.decimalSep)
	if t.moneySuffix != "" {
		return s + t.moneySuffix
	}
	return currencySymbol(currency) + s
}

// FormatNumber renders a plain quantity (hours) with the locale's decimal
// separator.
func (t Template) FormatNumber(v decimal.Decimal) string {
	return strings.Replace(v.StringFixed(2), ".", t.decimalSep, 1)
}

func currencySymbol(currency string) string {
	switch currency {
	case "USD":
		return "$"
	case "EUR":
		return "€"
	case "GBP":
		return "£"
	case "PLN":
		return "zł "
	default:
		return currency + " "
	}
}

// groupDigits rewrites a fixed "-1234.56" string with the given separators.
func groupDigits(fixed, thousandsSep, decimalSep string) string {
	sign := ""
	if strings.HasPrefix(fixed, "-") {
		sign = "-"
		fixed = fixed[1:]
	}

	intPart, fracPart, _ := strings.Cut(fixed, ".")

	var b strings.Builder
	for i, digit := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteString(thousandsSep)
		}
		b.WriteRune(digit)
	}

	return sign + b.String() + decimalSep + fracPart
}
