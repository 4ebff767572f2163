package models_test

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/expensetrackr/backend/internal/models"
)

func (suite *TestSuiteStandard) TestExpenseAmountMustBePositive() {
	user := suite.createTestUser(models.User{})
	category := suite.createTestCategory(models.Category{UserID: user.ID})

	for _, amount := range []decimal.Decimal{decimal.Zero, decimal.New(-100, -2)} {
		err := models.DB.Create(&models.Expense{
			Amount:     amount,
			UserID:     user.ID,
			CategoryID: category.ID,
		}).Error
		assert.ErrorIs(suite.T(), err, models.ErrAmountNotStrictlyPositive, "amount %s was accepted", amount)
	}
}

func (suite *TestSuiteStandard) TestExpenseDateDefaultsToNow() {
	user := suite.createTestUser(models.User{})
	category := suite.createTestCategory(models.Category{UserID: user.ID})

	expense := suite.createTestExpense(models.Expense{
		Amount:     decimal.New(1450, -2),
		UserID:     user.ID,
		CategoryID: category.ID,
	})

	assert.False(suite.T(), expense.Date.IsZero())
	assert.WithinDuration(suite.T(), time.Now(), expense.Date, time.Minute)
}

func (suite *TestSuiteStandard) TestExpenseRoundTrip() {
	user := suite.createTestUser(models.User{})
	category := suite.createTestCategory(models.Category{UserID: user.ID})
	date := time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)

	created := suite.createTestExpense(models.Expense{
		Amount:     decimal.New(5000, -2),
		Date:       date,
		UserID:     user.ID,
		CategoryID: category.ID,
	})

	var fetched models.Expense
	err := models.DB.First(&fetched, created.ID).Error
	assert.Nil(suite.T(), err)

	assert.True(suite.T(), fetched.Amount.Equal(decimal.New(5000, -2)), "amount is %s", fetched.Amount)
	assert.Equal(suite.T(), category.ID, fetched.CategoryID)
	assert.True(suite.T(), fetched.Date.Equal(date), "date is %s", fetched.Date)
	assert.Equal(suite.T(), time.UTC, fetched.Date.Location())
}

func (suite *TestSuiteStandard) TestExpenseInPeriod() {
	expense := models.Expense{Date: time.Date(2024, 3, 5, 23, 0, 0, 0, time.UTC)}
	march := 3
	april := 4

	assert.True(suite.T(), expense.InPeriod(2024, nil))
	assert.True(suite.T(), expense.InPeriod(2024, &march))
	assert.False(suite.T(), expense.InPeriod(2024, &april))
	assert.False(suite.T(), expense.InPeriod(2023, nil))
	assert.False(suite.T(), expense.InPeriod(2023, &march))
}

func (suite *TestSuiteStandard) TestCategorySummary() {
	user := suite.createTestUser(models.User{})
	food := suite.createTestCategory(models.Category{Name: "Food", UserID: user.ID})
	travel := suite.createTestCategory(models.Category{Name: "Travel", UserID: user.ID})

	suite.createTestExpense(models.Expense{
		Amount: decimal.New(7500, -2), UserID: user.ID, CategoryID: food.ID,
		Date: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
	})
	suite.createTestExpense(models.Expense{
		Amount: decimal.New(2500, -2), UserID: user.ID, CategoryID: travel.ID,
		Date: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
	})

	// Outside the year, must not count
	suite.createTestExpense(models.Expense{
		Amount: decimal.New(99900, -2), UserID: user.ID, CategoryID: food.ID,
		Date: time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC),
	})

	summary, total, err := models.CategorySummary(models.DB, user.ID, 2024, nil, nil)
	assert.Nil(suite.T(), err)
	assert.True(suite.T(), total.Equal(decimal.New(10000, -2)), "total is %s", total)

	assert.Len(suite.T(), summary, 2)
	assert.Equal(suite.T(), "Food", summary[0].Name)
	assert.InDelta(suite.T(), 75.0, summary[0].Percentage, 0.001)
	assert.Equal(suite.T(), "Travel", summary[1].Name)
	assert.InDelta(suite.T(), 25.0, summary[1].Percentage, 0.001)
}

func (suite *TestSuiteStandard) TestCategorySummaryEmpty() {
	user := suite.createTestUser(models.User{})

	summary, total, err := models.CategorySummary(models.DB, user.ID, 2024, nil, nil)
	assert.Nil(suite.T(), err)
	assert.True(suite.T(), total.IsZero())
	assert.Empty(suite.T(), summary)
}

func (suite *TestSuiteStandard) TestMonthlyTotals() {
	user := suite.createTestUser(models.User{})
	category := suite.createTestCategory(models.Category{UserID: user.ID})

	suite.createTestExpense(models.Expense{
		Amount: decimal.New(4000, -2), UserID: user.ID, CategoryID: category.ID,
		Date: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
	})
	suite.createTestExpense(models.Expense{
		Amount: decimal.New(1000, -2), UserID: user.ID, CategoryID: category.ID,
		Date: time.Date(2024, 5, 20, 0, 0, 0, 0, time.UTC),
	})
	suite.createTestExpense(models.Expense{
		Amount: decimal.New(5000, -2), UserID: user.ID, CategoryID: category.ID,
		Date: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	})

	totals, total, err := models.MonthlyTotals(models.DB, user.ID, 2024)
	assert.Nil(suite.T(), err)
	assert.True(suite.T(), total.Equal(decimal.New(10000, -2)), "total is %s", total)

	assert.Len(suite.T(), totals, 2)
	assert.Equal(suite.T(), 1, totals[0].Month)
	assert.True(suite.T(), totals[0].Amount.Equal(decimal.New(5000, -2)))
	assert.Equal(suite.T(), 5, totals[1].Month)
	assert.True(suite.T(), totals[1].Amount.Equal(decimal.New(5000, -2)))
	assert.InDelta(suite.T(), 50.0, totals[1].Percentage, 0.001)
}

func (suite *TestSuiteStandard) TestExpensesForPeriodDBFail() {
	suite.CloseDB()

	_, err := models.ExpensesForPeriod(models.DB, 1, 2024, nil, nil)
	suite.Assert().ErrorIs(err, models.ErrGeneral)
}
