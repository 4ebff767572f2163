package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/exp/slices"
	"gorm.io/gorm"
)

// Expense is a single spending record of a user.
type Expense struct {
	Model
	Amount        decimal.Decimal `json:"amount" gorm:"type:DECIMAL(20,8)" example:"14.50"`
	Description   string          `json:"description,omitempty" example:"Weekly groceries"`
	Date          time.Time       `json:"date"`
	Currency      string          `json:"currency" gorm:"default:USD" example:"USD"`
	Notes         string          `json:"notes,omitempty"`
	AttachmentURL string          `json:"attachment_url,omitempty"`
	UserID        uint            `json:"user_id"`
	User          User            `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	CategoryID    uint            `json:"category_id"`
	Category      Category        `json:"-" gorm:"constraint:OnDelete:CASCADE"`
}

// BeforeSave validates the expense and sets the timezone for the Date to UTC.
func (e *Expense) BeforeSave(_ *gorm.DB) (err error) {
	if !e.Amount.IsPositive() {
		return ErrAmountNotStrictlyPositive
	}

	if e.Date.IsZero() {
		e.Date = time.Now().In(time.UTC)
	} else {
		e.Date = e.Date.In(time.UTC)
	}

	return nil
}

// AfterFind updates the timestamps to use UTC as timezone, not +0000.
func (e *Expense) AfterFind(_ *gorm.DB) (err error) {
	e.Date = e.Date.In(time.UTC)
	return nil
}

// InPeriod reports whether the expense date falls into the calendar year
// and, when given, the calendar month. The period is determined from the
// date components, not from a rolling range.
func (e Expense) InPeriod(year int, month *int) bool {
	date := e.Date.UTC()
	if date.Year() != year {
		return false
	}

	if month != nil && int(date.Month()) != *month {
		return false
	}

	return true
}

// ExpensesForPeriod returns the expenses of a user for a calendar period,
// newest first, with their categories loaded.
func ExpensesForPeriod(db *gorm.DB, userID uint, year int, month *int, categoryID *uint) ([]Expense, error) {
	q := db.Where("user_id = ?", userID).Preload("Category").Order("date DESC, id DESC")
	if categoryID != nil {
		q = q.Where("category_id = ?", *categoryID)
	}

	var all []Expense
	if err := q.Find(&all).Error; err != nil {
		return nil, err
	}

	expenses := make([]Expense, 0, len(all))
	for _, expense := range all {
		if expense.InPeriod(year, month) {
			expenses = append(expenses, expense)
		}
	}

	return expenses, nil
}

// CategoryTotal is the aggregate of all expenses for one category.
type CategoryTotal struct {
	Name       string          `json:"name"`
	Color      string          `json:"color"`
	Amount     decimal.Decimal `json:"amount"`
	Percentage float64         `json:"percentage"`
}

// MonthTotal is the aggregate of all expenses in one calendar month.
type MonthTotal struct {
	Month      int             `json:"month"`
	Amount     decimal.Decimal `json:"amount"`
	Percentage float64         `json:"percentage"`
}

// CategorySummary aggregates the expenses of a period by category and
// returns the per-category totals together with the grand total.
// Percentages are shares of the grand total and 0 when the grand total is 0.
func CategorySummary(db *gorm.DB, userID uint, year int, month *int, categoryID *uint) ([]CategoryTotal, decimal.Decimal, error) {
	expenses, err := ExpensesForPeriod(db, userID, year, month, categoryID)
	if err != nil {
		return nil, decimal.Zero, err
	}

	byCategory := make(map[uint]*CategoryTotal)
	total := decimal.Zero

	for _, expense := range expenses {
		entry, ok := byCategory[expense.CategoryID]
		if !ok {
			entry = &CategoryTotal{
				Name:   expense.Category.Name,
				Color:  expense.Category.Color,
				Amount: decimal.Zero,
			}
			byCategory[expense.CategoryID] = entry
		}

		entry.Amount = entry.Amount.Add(expense.Amount)
		total = total.Add(expense.Amount)
	}

	summary := make([]CategoryTotal, 0, len(byCategory))
	for _, entry := range byCategory {
		entry.Percentage = percentageOf(entry.Amount, total)
		summary = append(summary, *entry)
	}

	slices.SortFunc(summary, func(a, b CategoryTotal) int {
		return strings.Compare(a.Name, b.Name)
	})

	return summary, total, nil
}

// MonthlyTotals aggregates the expenses of a year by calendar month,
// in ascending month order. Months without expenses are omitted.
func MonthlyTotals(db *gorm.DB, userID uint, year int) ([]MonthTotal, decimal.Decimal, error) {
	expenses, err := ExpensesForPeriod(db, userID, year, nil, nil)
	if err != nil {
		return nil, decimal.Zero, err
	}

	byMonth := make(map[int]decimal.Decimal)
	total := decimal.Zero

	for _, expense := range expenses {
		month := int(expense.Date.UTC().Month())
		byMonth[month] = byMonth[month].Add(expense.Amount)
		total = total.Add(expense.Amount)
	}

	totals := make([]MonthTotal, 0, len(byMonth))
	for month, amount := range byMonth {
		totals = append(totals, MonthTotal{
			Month:      month,
			Amount:     amount,
			Percentage: percentageOf(amount, total),
		})
	}

	slices.SortFunc(totals, func(a, b MonthTotal) int {
		return a.Month - b.Month
	})

	return totals, total, nil
}

// percentageOf returns part/whole as a percentage, 0 when the whole is
// zero or negative. Never a division error.
func percentageOf(part, whole decimal.Decimal) float64 {
	if whole.LessThanOrEqual(decimal.Zero) {
		return 0
	}

	percentage, _ := part.Div(whole).Mul(decimal.NewFromInt(100)).Float64()
	return percentage
}
