package render

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrIncompleteSellerInfo is returned when the selected layout
	// requires seller fields (e.g. NIP on the Polish Faktura) that the
	// profile does not carry. No bytes are produced.
	ErrIncompleteSellerInfo = errors.New("incomplete seller info for locale")

	ErrUnsupportedLocale = errors.New("unsupported locale")
	ErrUnsupportedFormat = errors.New("unsupported format")
)

// Renderer turns an invoice snapshot into a downloadable document. It is
// stateless: identical (document, locale, format) inputs yield identical
// bytes.
type Renderer struct{}

func NewRenderer() *Renderer {
	return &Renderer{}
}

// Render produces the invoice as a PDF or DOCX byte stream in the given
// locale layout.
func (r *Renderer) Render(doc InvoiceDocument, locale Locale, format Format) ([]byte, error) {
	tpl, err := templateFor(locale)
	if err != nil {
		return nil, err
	}

	if err := checkSellerFields(doc.Seller, tpl); err != nil {
		return nil, err
	}

	switch format {
	case FormatPDF:
		return renderPDF(doc, tpl)
	case FormatDocx:
		return renderDocx(doc, tpl)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

func checkSellerFields(seller SellerInfo, tpl Template) error {
	var missing []string
	for _, field := range tpl.RequiredSellerFields {
		switch field {
		case "NIP":
			if seller.NIP == "" {
				missing = append(missing, field)
			}
		case "REGON":
			if seller.REGON == "" {
				missing = append(missing, field)
			}
		case "BankAccount":
			if seller.BankAccount == "" {
				missing = append(missing, field)
			}
		case "Name":
			if seller.Name == "" {
				missing = append(missing, field)
			}
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", ErrIncompleteSellerInfo, strings.Join(missing, ", "))
	}
	return nil
}

// ContentType returns the MIME type for a format.
func ContentType(format Format) string {
	if format == FormatDocx {
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	}
	return "application/pdf"
}

// FileName builds the download name for an invoice document.
func FileName(invoiceNumber string, format Format) string {
	safe := strings.ReplaceAll(invoiceNumber, "/", "-")
	return fmt.Sprintf("%s.%s", safe, format)
}
