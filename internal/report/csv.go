package report

import (
	"bytes"
	"encoding/csv"

	"github.com/expensetrackr/backend/internal/models"
)

var csvHeader = []string{"Date", "Category", "Description", "Amount", "Currency", "Notes"}

// CSV renders the expenses as a CSV document, one row per expense in
// the order given. Empty optional fields are written as "N/A".
func CSV(expenses []models.Expense) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(csvHeader); err != nil {
		return nil, err
	}

	for _, expense := range expenses {
		row := []string{
			expense.Date.UTC().Format("2006-01-02"),
			orNA(expense.Category.Name),
			orNA(expense.Description),
			expense.Amount.StringFixed(2),
			expense.Currency,
			orNA(expense.Notes),
		}

		if err := w.Write(row); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// CSVFallback renders the document returned when CSV generation fails.
// It is a valid CSV file with a single row describing the error.
func CSVFallback(err error) []byte {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	_ = w.Write([]string{"Error"})
	_ = w.Write([]string{"The report could not be generated: " + err.Error()})
	w.Flush()

	return buf.Bytes()
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}

	return s
}
