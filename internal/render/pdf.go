package render

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"
)

// Column widths of the items table in mm (180mm printable width).
var pdfItemCols = []float64{10, 50, 14, 12, 20, 22, 12, 18, 22}

func renderPDF(doc InvoiceDocument, tpl Template) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.SetAutoPageBreak(true, 15)

	// Pin the creation date to the issue date so re-rendering a persisted
	// invoice is byte-identical.
	pdf.SetCreationDate(doc.IssueDate)
	pdf.SetTitle(tpl.Labels.Title+" "+doc.Number, true)

	// Core fonts are cp1252; the Polish layout needs cp1250 for
	// ą/ć/ę/ł/ń/ó/ś/ź/ż.
	descriptor := ""
	if tpl.Locale == LocalePL {
		descriptor = "cp1250"
	}
	tr := pdf.UnicodeTranslatorFromDescriptor(descriptor)

	pdf.AddPage()

	// Title
	pdf.SetFont("Helvetica", "B", 20)
	pdf.CellFormat(0, 12, tr(tpl.Labels.Title), "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(0, 7, tr(tpl.Labels.InvoiceNumber+" "+doc.Number), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	// Date block
	pdf.SetFont("Helvetica", "", 10)
	pdfLabelRow(pdf, tr, tpl.Labels.IssueDate, tpl.FormatDate(doc.IssueDate))
	pdfLabelRow(pdf, tr, tpl.Labels.SaleDate, tpl.FormatDate(doc.SaleDate))
	pdfLabelRow(pdf, tr, tpl.Labels.DueDate, tpl.FormatDate(doc.DueDate))
	pdf.Ln(6)

	// Seller and buyer, side by side
	topY := pdf.GetY()
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(85, 6, tr(tpl.Labels.Seller), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.MultiCell(85, 5, tr(sellerBlock(doc.Seller, tpl)), "", "L", false)
	leftY := pdf.GetY()

	pdf.SetXY(110, topY)
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(85, 6, tr(tpl.Labels.Buyer), "", 1, "L", false, 0, "")
	pdf.SetX(110)
	pdf.SetFont("Helvetica", "", 9)
	pdf.MultiCell(85, 5, tr(buyerBlock(doc.Buyer, tpl)), "", "L", false)
	if leftY > pdf.GetY() {
		pdf.SetY(leftY)
	}
	pdf.Ln(6)

	// Items table header
	pdf.SetFont("Helvetica", "B", 8)
	pdf.SetFillColor(220, 220, 220)
	headers := []string{
		tpl.Labels.ItemNo, tpl.Labels.Description, tpl.Labels.Quantity,
		tpl.Labels.Unit, tpl.Labels.NetPrice, tpl.Labels.NetValue,
		tpl.Labels.VATRate, tpl.Labels.VATAmount, tpl.Labels.GrossAmount,
	}
	for i, h := range headers {
		pdf.CellFormat(pdfItemCols[i], 7, tr(trimColon(h)), "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	// Items
	pdf.SetFont("Helvetica", "", 8)
	vatRate := doc.VATRate.StringFixed(0) + "%"
	for _, line := range doc.Lines {
		desc := line.Description
		if line.Project != "" {
			desc = fmt.Sprintf("%s (%s)", line.Description, line.Project)
		}
		cells := []struct {
			text  string
			align string
		}{
			{fmt.Sprintf("%d", line.No), "C"},
			{desc, "L"},
			{tpl.FormatNumber(line.Quantity), "R"},
			{tpl.Labels.UnitHour, "C"},
			{tpl.FormatMoney(line.UnitRate, doc.Currency), "R"},
			{tpl.FormatMoney(line.NetAmount, doc.Currency), "R"},
			{vatRate, "R"},
			{tpl.FormatMoney(line.VATAmount, doc.Currency), "R"},
			{tpl.FormatMoney(line.GrossAmount, doc.Currency), "R"},
		}
		for i, c := range cells {
			pdf.CellFormat(pdfItemCols[i], 6, tr(c.text), "1", 0, c.align, false, 0, "")
		}
		pdf.Ln(-1)
	}

	// Totals row
	pdf.SetFont("Helvetica", "B", 8)
	pdf.SetFillColor(235, 235, 235)
	pdf.CellFormat(pdfItemCols[0]+pdfItemCols[1]+pdfItemCols[2]+pdfItemCols[3]+pdfItemCols[4], 7,
		tr(tpl.Labels.Total), "1", 0, "R", true, 0, "")
	pdf.CellFormat(pdfItemCols[5], 7, tr(tpl.FormatMoney(doc.NetTotal, doc.Currency)), "1", 0, "R", true, 0, "")
	pdf.CellFormat(pdfItemCols[6], 7, "", "1", 0, "R", true, 0, "")
	pdf.CellFormat(pdfItemCols[7], 7, tr(tpl.FormatMoney(doc.VATTotal, doc.Currency)), "1", 0, "R", true, 0, "")
	pdf.CellFormat(pdfItemCols[8], 7, tr(tpl.FormatMoney(doc.GrossTotal, doc.Currency)), "1", 1, "R", true, 0, "")
	pdf.Ln(6)

	// Payment details
	pdf.SetFont("Helvetica", "", 10)
	if doc.PaymentMethod != "" {
		pdfLabelRow(pdf, tr, tpl.Labels.PaymentMethod, doc.PaymentMethod)
	}
	if doc.Seller.BankAccount != "" {
		bank := doc.Seller.BankAccount
		if doc.Seller.BankName != "" {
			bank = doc.Seller.BankName + " " + bank
		}
		pdfLabelRow(pdf, tr, tpl.Labels.BankAccount, bank)
	}
	if doc.Notes != "" {
		pdfLabelRow(pdf, tr, tpl.Labels.Notes, doc.Notes)
	}
	pdf.Ln(4)

	// Summary
	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(0, 7, tr(tpl.Labels.Summary), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdfLabelRow(pdf, tr, tpl.Labels.NetValue, tpl.FormatMoney(doc.NetTotal, doc.Currency))
	pdfLabelRow(pdf, tr, tpl.Labels.VATValue, tpl.FormatMoney(doc.VATTotal, doc.Currency))
	pdf.SetFont("Helvetica", "B", 11)
	pdfLabelRow(pdf, tr, tpl.Labels.ToPay, tpl.FormatMoney(doc.GrossTotal, doc.Currency))
	pdf.Ln(10)

	// Footer
	pdf.SetFont("Helvetica", "I", 8)
	pdf.CellFormat(0, 5, tr(tpl.Labels.GeneratedBy+" "+tpl.FormatDate(doc.IssueDate)), "", 1, "R", false, 0, "")

	if pdf.Err() {
		return nil, fmt.Errorf("pdf build failed: %w", pdf.Error())
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("pdf output failed: %w", err)
	}
	return buf.Bytes(), nil
}

func pdfLabelRow(pdf *fpdf.Fpdf, tr func(string) string, label, value string) {
	pdf.SetFontStyle("B")
	pdf.CellFormat(45, 6, tr(label), "", 0, "L", false, 0, "")
	pdf.SetFontStyle("")
	pdf.CellFormat(0, 6, tr(value), "", 1, "L", false, 0, "")
}

func sellerBlock(s SellerInfo, tpl Template) string {
	lines := []string{s.Name}
	if s.BusinessType != "" {
		lines = append(lines, s.BusinessType)
	}
	if s.Address != "" || s.City != "" {
		lines = append(lines, joinNonEmpty(", ", s.City, s.Address))
	}
	if s.NIP != "" {
		lines = append(lines, tpl.Labels.NIP+" "+s.NIP)
	}
	if s.REGON != "" {
		lines = append(lines, tpl.Labels.REGON+" "+s.REGON)
	}
	if s.Phone != "" {
		lines = append(lines, tpl.Labels.Phone+" "+s.Phone)
	}
	if s.Email != "" {
		lines = append(lines, tpl.Labels.Email+" "+s.Email)
	}
	return joinNonEmpty("\n", lines...)
}

func buyerBlock(b BuyerInfo, tpl Template) string {
	lines := []string{b.Name}
	if b.ContactPerson != "" {
		lines = append(lines, b.ContactPerson)
	}
	if b.Address != "" {
		lines = append(lines, b.Address)
	}
	if b.TaxID != "" {
		lines = append(lines, tpl.Labels.NIP+" "+b.TaxID)
	}
	if b.Phone != "" {
		lines = append(lines, tpl.Labels.Phone+" "+b.Phone)
	}
	if b.Email != "" {
		lines = append(lines, tpl.Labels.Email+" "+b.Email)
	}
	return joinNonEmpty("\n", lines...)
}

func joinNonEmpty(sep string, parts ...string) string {
	out := parts[:0]
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	result := ""
	for i, p := range out {
		if i > 0 {
			result += sep
		}
		result += p
	}
	return result
}

func trimColon(label string) string {
	if len(label) > 0 && label[len(label)-1] == ':' {
		return label[:len(label)-1]
	}
	return label
}
