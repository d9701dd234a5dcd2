package render

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDocument() InvoiceDocument {
	return InvoiceDocument{
		Number:    "INV-20250401-001",
		IssueDate: time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC),
		SaleDate:  time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC),
		DueDate:   time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC),

		Currency: "PLN",
		VATRate:  decimal.NewFromInt(23),

		NetTotal:   decimal.RequireFromString("280.00"),
		VATTotal:   decimal.RequireFromString("64.40"),
		GrossTotal: decimal.RequireFromString("344.40"),

		Status:        "ISSUED",
		PaymentMethod: "Przelew bankowy",

		Seller: SellerInfo{
			Name:        "Jan Kowalski Usługi IT",
			Address:     "ul. Długa 1",
			City:        "00-001 Warszawa",
			NIP:         "1234563218",
			BankAccount: "PL61109010140000071219812874",
		},
		Buyer: BuyerInfo{
			Name:    "Acme Sp. z o.o.",
			Address: "ul. Krótka 2, Kraków",
			TaxID:   "5260001246",
		},
		Lines: []DocumentLine{
			{
				No:          1,
				Description: "Rozwój oprogramowania",
				Project:     "Platforma",
				Quantity:    decimal.RequireFromString("3.50"),
				UnitRate:    decimal.RequireFromString("80.00"),
				NetAmount:   decimal.RequireFromString("280.00"),
				VATAmount:   decimal.RequireFromString("64.40"),
				GrossAmount: decimal.RequireFromString("344.40"),
			},
		},
	}
}

func TestRenderPDFMagicBytes(t *testing.T) {
	r := NewRenderer()

	for _, locale := range []Locale{LocaleEN, LocalePL} {
		data, err := r.Render(testDocument(), locale, FormatPDF)
		require.NoError(t, err, "locale %s", locale)
		require.Greater(t, len(data), 4)
		assert.Equal(t, "%PDF", string(data[:4]), "locale %s", locale)
	}
}

func TestRenderDocxMagicBytes(t *testing.T) {
	r := NewRenderer()

	for _, locale := range []Locale{LocaleEN, LocalePL} {
		data, err := r.Render(testDocument(), locale, FormatDocx)
		require.NoError(t, err, "locale %s", locale)
		require.Greater(t, len(data), 2)
		// DOCX is a zip archive
		assert.Equal(t, "PK", string(data[:2]), "locale %s", locale)
	}
}

func TestRenderIsDeterministic(t *testing.T) {
	r := NewRenderer()

	for _, format := range []Format{FormatPDF, FormatDocx} {
		first, err := r.Render(testDocument(), LocalePL, format)
		require.NoError(t, err, "format %s", format)
		second, err := r.Render(testDocument(), LocalePL, format)
		require.NoError(t, err, "format %s", format)

		assert.Equal(t, first, second,
			"re-rendering an unchanged invoice as %s must yield identical bytes", format)
	}
}

func TestRenderPolishRequiresNIP(t *testing.T) {
	r := NewRenderer()

	doc := testDocument()
	doc.Seller.NIP = ""

	data, err := r.Render(doc, LocalePL, FormatPDF)
	require.ErrorIs(t, err, ErrIncompleteSellerInfo)
	assert.Contains(t, err.Error(), "NIP")
	assert.Nil(t, data)
}

func TestRenderPolishRequiresBankAccount(t *testing.T) {
	r := NewRenderer()

	doc := testDocument()
	doc.Seller.BankAccount = ""

	_, err := r.Render(doc, LocalePL, FormatDocx)
	require.ErrorIs(t, err, ErrIncompleteSellerInfo)
}

func TestRenderEnglishAllowsMissingNIP(t *testing.T) {
	r := NewRenderer()

	doc := testDocument()
	doc.Seller.NIP = ""
	doc.Seller.BankAccount = ""
	doc.Currency = "USD"

	data, err := r.Render(doc, LocaleEN, FormatPDF)
	require.NoError(t, err)
	assert.NotEmpty(t, data)
}

func TestRenderRejectsUnknownLocaleAndFormat(t *testing.T) {
	r := NewRenderer()

	_, err := r.Render(testDocument(), Locale("de"), FormatPDF)
	require.ErrorIs(t, err, ErrUnsupportedLocale)

	_, err = r.Render(testDocument(), LocaleEN, Format("odt"))
	require.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestContentTypeAndFileName(t *testing.T) {
	assert.Equal(t, "application/pdf", ContentType(FormatPDF))
	assert.Equal(t,
		"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
		ContentType(FormatDocx))

	assert.Equal(t, "INV-20250401-001.pdf", FileName("INV-20250401-001", FormatPDF))
	assert.Equal(t, "FV-2025-04-001.docx", FileName("FV/2025/04/001", FormatDocx))
}
