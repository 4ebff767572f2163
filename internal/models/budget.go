package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Budget is a spending limit for one category of a user, either for a
// whole year (month is nil) or for a specific calendar month.
//
// Multiple budgets for the same (user, year, month, category) are allowed,
// matching the observed behavior of the system. Each row gets its own
// statistics entry.
type Budget struct {
	Model
	Amount     decimal.Decimal `json:"amount" gorm:"type:DECIMAL(20,8)" example:"200"`
	Year       int             `json:"year" example:"2024"`
	Month      *int            `json:"month" example:"3"`
	Period     string          `json:"period,omitempty" example:"monthly"`
	Currency   string          `json:"currency" gorm:"default:USD" example:"USD"`
	UserID     uint            `json:"user_id"`
	User       User            `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	CategoryID uint            `json:"category_id"`
	Category   Category        `json:"-" gorm:"constraint:OnDelete:CASCADE"`
}

// BeforeSave validates the budget before it is written.
func (b *Budget) BeforeSave(_ *gorm.DB) (err error) {
	if !b.Amount.IsPositive() {
		return ErrAmountNotStrictlyPositive
	}

	if b.Year < 2000 || b.Year > 2100 {
		return ErrYearOutOfRange
	}

	if b.Month != nil && (*b.Month < 1 || *b.Month > 12) {
		return ErrMonthOutOfRange
	}

	return nil
}

// Spent returns the sum of all expenses of the budget's owner for the
// budget's category within the given calendar period.
func (b Budget) Spent(db *gorm.DB, year int, month *int) (decimal.Decimal, error) {
	var expenses []Expense
	err := db.Where("user_id = ? AND category_id = ?", b.UserID, b.CategoryID).Find(&expenses).Error
	if err != nil {
		return decimal.Zero, err
	}

	spent := decimal.Zero
	for _, expense := range expenses {
		if expense.InPeriod(year, month) {
			spent = spent.Add(expense.Amount)
		}
	}

	return spent, nil
}

// BudgetStat is a budget together with its spending statistics for a period.
type BudgetStat struct {
	Budget
	CategoryName    string          `json:"category_name"`
	CategoryColor   string          `json:"category_color"`
	SpentAmount     decimal.Decimal `json:"spent_amount"`
	RemainingAmount decimal.Decimal `json:"remaining_amount"`
	PercentageUsed  float64         `json:"percentage_used"`
}

// BudgetStats computes the spending statistics for all budgets of a user
// matching the given period and optional category.
//
// This is a read-only projection, it never mutates state.
func BudgetStats(db *gorm.DB, userID uint, year int, month *int, categoryID *uint) ([]BudgetStat, error) {
	q := db.Where("user_id = ? AND year = ?", userID, year).Preload("Category")
	if month != nil {
		q = q.Where("month = ?", *month)
	}
	if categoryID != nil {
		q = q.Where("category_id = ?", *categoryID)
	}

	var budgets []Budget
	if err := q.Find(&budgets).Error; err != nil {
		return nil, err
	}

	stats := make([]BudgetStat, 0, len(budgets))
	for _, budget := range budgets {
		spent, err := budget.Spent(db, year, month)
		if err != nil {
			return nil, err
		}

		stats = append(stats, BudgetStat{
			Budget:          budget,
			CategoryName:    budget.Category.Name,
			CategoryColor:   budget.Category.Color,
			SpentAmount:     spent,
			RemainingAmount: budget.Amount.Sub(spent),
			PercentageUsed:  percentageOf(spent, budget.Amount),
		})
	}

	return stats, nil
}

// CurrentBudgetStats binds the statistics period to the current date.
func CurrentBudgetStats(db *gorm.DB, userID uint, now time.Time) ([]BudgetStat, error) {
	month := int(now.Month())
	return BudgetStats(db, userID, now.Year(), &month, nil)
}
