package report

import (
	"bytes"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/shopspring/decimal"

	"github.com/expensetrackr/backend/internal/models"
)

// PDFInput is everything that goes into a PDF expense report.
type PDFInput struct {
	User     models.User
	Period   Period
	Expenses []models.Expense
	Summary  []models.CategoryTotal
	Total    decimal.Decimal
	Now      time.Time
}

// PDF renders a complete expense report with a category summary table
// followed by the expense detail table.
func PDF(in PDFInput) ([]byte, error) {
	pdf := newDocument()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(0, 10, "Expense Report", "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(0, 6, "Period: "+in.Period.Label(), "", 1, "C", false, 0, "")
	pdf.CellFormat(0, 6, "Generated for "+in.User.DisplayName()+" on "+in.Now.UTC().Format("2006-01-02 15:04"), "", 1, "C", false, 0, "")
	pdf.Ln(6)

	summaryTable(pdf, in.Summary, in.Total)
	pdf.Ln(6)
	detailTable(pdf, in.Expenses)

	return output(pdf)
}

// PDFFallback renders the document returned when PDF generation fails.
func PDFFallback(genErr error) []byte {
	pdf := newDocument()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, "Expense Report", "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 11)
	pdf.MultiCell(0, 6, "The report could not be generated: "+genErr.Error(), "", "L", false)

	out, err := output(pdf)
	if err != nil {
		// Nothing sensible left to render
		return nil
	}

	return out
}

func newDocument() *fpdf.Fpdf {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Expense Report", false)
	pdf.AddPage()

	return pdf
}

func summaryTable(pdf *fpdf.Fpdf, summary []models.CategoryTotal, total decimal.Decimal) {
	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(0, 8, "Summary by Category", "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(230, 230, 230)
	pdf.CellFormat(90, 7, "Category", "1", 0, "L", true, 0, "")
	pdf.CellFormat(45, 7, "Amount", "1", 0, "R", true, 0, "")
	pdf.CellFormat(45, 7, "Share", "1", 1, "R", true, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	for _, entry := range summary {
		pdf.CellFormat(90, 7, entry.Name, "1", 0, "L", false, 0, "")
		pdf.CellFormat(45, 7, entry.Amount.StringFixed(2), "1", 0, "R", false, 0, "")
		pdf.CellFormat(45, 7, decimal.NewFromFloat(entry.Percentage).StringFixed(1)+" %", "1", 1, "R", false, 0, "")
	}

	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(90, 7, "Total", "1", 0, "L", false, 0, "")
	pdf.CellFormat(45, 7, total.StringFixed(2), "1", 0, "R", false, 0, "")
	pdf.CellFormat(45, 7, "", "1", 1, "R", false, 0, "")
}

func detailTable(pdf *fpdf.Fpdf, expenses []models.Expense) {
	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(0, 8, "Expenses", "", 1, "L", false, 0, "")

	if len(expenses) == 0 {
		pdf.SetFont("Helvetica", "I", 10)
		pdf.CellFormat(0, 7, "No expenses recorded for this period.", "", 1, "L", false, 0, "")
		return
	}

	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(230, 230, 230)
	pdf.CellFormat(25, 7, "Date", "1", 0, "L", true, 0, "")
	pdf.CellFormat(40, 7, "Category", "1", 0, "L", true, 0, "")
	pdf.CellFormat(80, 7, "Description", "1", 0, "L", true, 0, "")
	pdf.CellFormat(35, 7, "Amount", "1", 1, "R", true, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	for _, expense := range expenses {
		pdf.CellFormat(25, 7, expense.Date.UTC().Format("2006-01-02"), "1", 0, "L", false, 0, "")
		pdf.CellFormat(40, 7, truncate(orNA(expense.Category.Name), 22), "1", 0, "L", false, 0, "")
		pdf.CellFormat(80, 7, truncate(orNA(expense.Description), 48), "1", 0, "L", false, 0, "")
		pdf.CellFormat(35, 7, expense.Amount.StringFixed(2)+" "+expense.Currency, "1", 1, "R", false, 0, "")
	}
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}

	return string(runes[:max-3]) + "..."
}

func output(pdf *fpdf.Fpdf) ([]byte, error) {
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}
