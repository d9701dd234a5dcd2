package render

import (
	"bytes"
	"fmt"

	"github.com/fumiama/go-docx"
)

// Font sizes in half-points, the unit OOXML uses.
const (
	docxTitleSize = "40"
	docxHeadSize  = "24"
	docxBodySize  = "20"
	docxCellSize  = "18"
)

func renderDocx(doc InvoiceDocument, tpl Template) ([]byte, error) {
	w := docx.New().WithDefaultTheme()

	title := w.AddParagraph().Justification("center")
	title.AddText(tpl.Labels.Title).Size(docxTitleSize).Bold()
	sub := w.AddParagraph().Justification("center")
	sub.AddText(tpl.Labels.InvoiceNumber + " " + doc.Number).Size(docxHeadSize).Bold()
	w.AddParagraph()

	docxLabelLine(w, tpl.Labels.IssueDate, tpl.FormatDate(doc.IssueDate))
	docxLabelLine(w, tpl.Labels.SaleDate, tpl.FormatDate(doc.SaleDate))
	docxLabelLine(w, tpl.Labels.DueDate, tpl.FormatDate(doc.DueDate))
	w.AddParagraph()

	// Seller and buyer as a two-column table without visible borders is
	// not supported by the library, so stack the blocks.
	docxHeading(w, tpl.Labels.Seller)
	docxBlock(w, sellerBlock(doc.Seller, tpl))
	w.AddParagraph()
	docxHeading(w, tpl.Labels.Buyer)
	docxBlock(w, buyerBlock(doc.Buyer, tpl))
	w.AddParagraph()

	docxHeading(w, tpl.Labels.ItemsHeader)
	if err := docxItemsTable(w, doc, tpl); err != nil {
		return nil, err
	}
	w.AddParagraph()

	if doc.PaymentMethod != "" {
		docxLabelLine(w, tpl.Labels.PaymentMethod, doc.PaymentMethod)
	}
	if doc.Seller.BankAccount != "" {
		bank := doc.Seller.BankAccount
		if doc.Seller.BankName != "" {
			bank = doc.Seller.BankName + " " + bank
		}
		docxLabelLine(w, tpl.Labels.BankAccount, bank)
	}
	if doc.Notes != "" {
		docxLabelLine(w, tpl.Labels.Notes, doc.Notes)
	}
	w.AddParagraph()

	docxHeading(w, tpl.Labels.Summary)
	docxLabelLine(w, tpl.Labels.NetValue, tpl.FormatMoney(doc.NetTotal, doc.Currency))
	docxLabelLine(w, tpl.Labels.VATValue, tpl.FormatMoney(doc.VATTotal, doc.Currency))
	toPay := w.AddParagraph()
	toPay.AddText(tpl.Labels.ToPay + " " + tpl.FormatMoney(doc.GrossTotal, doc.Currency)).Size(docxHeadSize).Bold()
	w.AddParagraph()

	footer := w.AddParagraph().Justification("right")
	footer.AddText(tpl.Labels.GeneratedBy + " " + tpl.FormatDate(doc.IssueDate)).Size(docxCellSize).Italic()

	var buf bytes.Buffer
	if _, err := w.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("docx output failed: %w", err)
	}
	return buf.Bytes(), nil
}

func docxItemsTable(w *docx.Docx, doc InvoiceDocument, tpl Template) error {
	rows := len(doc.Lines) + 2 // header + lines + totals
	tbl := w.AddTable(rows, 9, 9000, nil)
	if len(tbl.TableRows) != rows {
		return fmt.Errorf("docx table allocation failed")
	}

	headers := []string{
		trimColon(tpl.Labels.ItemNo), trimColon(tpl.Labels.Description),
		trimColon(tpl.Labels.Quantity), trimColon(tpl.Labels.Unit),
		trimColon(tpl.Labels.NetPrice), trimColon(tpl.Labels.NetValue),
		trimColon(tpl.Labels.VATRate), trimColon(tpl.Labels.VATAmount),
		trimColon(tpl.Labels.GrossAmount),
	}
	for i, h := range headers {
		tbl.TableRows[0].TableCells[i].AddParagraph().AddText(h).Size(docxCellSize).Bold()
	}

	vatRate := doc.VATRate.StringFixed(0) + "%"
	for r, line := range doc.Lines {
		desc := line.Description
		if line.Project != "" {
			desc = fmt.Sprintf("%s (%s)", line.Description, line.Project)
		}
		cells := []string{
			fmt.Sprintf("%d", line.No),
			desc,
			tpl.FormatNumber(line.Quantity),
			tpl.Labels.UnitHour,
			tpl.FormatMoney(line.UnitRate, doc.Currency),
			tpl.FormatMoney(line.NetAmount, doc.Currency),
			vatRate,
			tpl.FormatMoney(line.VATAmount, doc.Currency),
			tpl.FormatMoney(line.GrossAmount, doc.Currency),
		}
		row := tbl.TableRows[r+1]
		for i, c := range cells {
			row.TableCells[i].AddParagraph().AddText(c).Size(docxCellSize)
		}
	}

	totals := tbl.TableRows[rows-1]
	totals.TableCells[4].AddParagraph().AddText(tpl.Labels.Total).Size(docxCellSize).Bold()
	totals.TableCells[5].AddParagraph().AddText(tpl.FormatMoney(doc.NetTotal, doc.Currency)).Size(docxCellSize).Bold()
	totals.TableCells[7].AddParagraph().AddText(tpl.FormatMoney(doc.VATTotal, doc.Currency)).Size(docxCellSize).Bold()
	totals.TableCells[8].AddParagraph().AddText(tpl.FormatMoney(doc.GrossTotal, doc.Currency)).Size(docxCellSize).Bold()
	return nil
}

func docxHeading(w *docx.Docx, text string) {
	p := w.AddParagraph()
	p.AddText(trimColon(text)).Size(docxHeadSize).Bold()
}

func docxLabelLine(w *docx.Docx, label, value string) {
	p := w.AddParagraph()
	p.AddText(label + " ").Size(docxBodySize).Bold()
	p.AddText(value).Size(docxBodySize)
}

func docxBlock(w *docx.Docx, block string) {
	for _, line := range splitLines(block) {
		w.AddParagraph().AddText(line).Size(docxBodySize)
	}
}

func splitLines(s string) []string {
	var lines []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			lines = append(lines, s[start:i])
			start = i + 1
		}
	}
	if start < len(s) {
		lines = append(lines, s[start:])
	}
	return lines
}
