package models_test

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"github.com/expensetrackr/backend/internal/models"
)

func intp(i int) *int {
	return &i
}

func (suite *TestSuiteStandard) TestBudgetValidation() {
	user := suite.createTestUser(models.User{})
	category := suite.createTestCategory(models.Category{UserID: user.ID})

	tests := []struct {
		name   string
		budget models.Budget
		err    error
	}{
		{"zero amount", models.Budget{Amount: decimal.Zero, Year: 2024}, models.ErrAmountNotStrictlyPositive},
		{"year too small", models.Budget{Amount: decimal.New(100, 0), Year: 1999}, models.ErrYearOutOfRange},
		{"year too large", models.Budget{Amount: decimal.New(100, 0), Year: 2101}, models.ErrYearOutOfRange},
		{"month zero", models.Budget{Amount: decimal.New(100, 0), Year: 2024, Month: intp(0)}, models.ErrMonthOutOfRange},
		{"month too large", models.Budget{Amount: decimal.New(100, 0), Year: 2024, Month: intp(13)}, models.ErrMonthOutOfRange},
	}

	for _, tt := range tests {
		tt.budget.UserID = user.ID
		tt.budget.CategoryID = category.ID

		err := models.DB.Create(&tt.budget).Error
		assert.ErrorIs(suite.T(), err, tt.err, "test case %q", tt.name)
	}
}

func (suite *TestSuiteStandard) TestBudgetSpent() {
	user := suite.createTestUser(models.User{})
	category := suite.createTestCategory(models.Category{UserID: user.ID})
	other := suite.createTestCategory(models.Category{UserID: user.ID})

	budget := suite.createTestBudget(models.Budget{
		Amount: decimal.New(200, 0), Year: 2024, Month: intp(3),
		UserID: user.ID, CategoryID: category.ID,
	})

	// In the period
	suite.createTestExpense(models.Expense{
		Amount: decimal.New(25000, -2), UserID: user.ID, CategoryID: category.ID,
		Date: time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC),
	})

	// Wrong month, wrong category: must not count
	suite.createTestExpense(models.Expense{
		Amount: decimal.New(100, 0), UserID: user.ID, CategoryID: category.ID,
		Date: time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC),
	})
	suite.createTestExpense(models.Expense{
		Amount: decimal.New(100, 0), UserID: user.ID, CategoryID: other.ID,
		Date: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
	})

	spent, err := budget.Spent(models.DB, 2024, intp(3))
	assert.Nil(suite.T(), err)
	assert.True(suite.T(), spent.Equal(decimal.New(250, 0)), "spent is %s", spent)
}

func (suite *TestSuiteStandard) TestBudgetStatsOverspent() {
	user := suite.createTestUser(models.User{})
	category := suite.createTestCategory(models.Category{Name: "Food", Color: "#4CAF50", UserID: user.ID})

	suite.createTestBudget(models.Budget{
		Amount: decimal.New(200, 0), Year: 2024, Month: intp(3),
		UserID: user.ID, CategoryID: category.ID,
	})
	suite.createTestExpense(models.Expense{
		Amount: decimal.New(250, 0), UserID: user.ID, CategoryID: category.ID,
		Date: time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
	})

	stats, err := models.BudgetStats(models.DB, user.ID, 2024, intp(3), nil)
	assert.Nil(suite.T(), err)
	assert.Len(suite.T(), stats, 1)

	stat := stats[0]
	assert.Equal(suite.T(), "Food", stat.CategoryName)
	assert.Equal(suite.T(), "#4CAF50", stat.CategoryColor)
	assert.True(suite.T(), stat.SpentAmount.Equal(decimal.New(250, 0)), "spent is %s", stat.SpentAmount)
	assert.True(suite.T(), stat.RemainingAmount.Equal(decimal.New(-50, 0)), "remaining is %s", stat.RemainingAmount)
	assert.InDelta(suite.T(), 125.0, stat.PercentageUsed, 0.001)
}

func (suite *TestSuiteStandard) TestBudgetStatsZeroAmount() {
	user := suite.createTestUser(models.User{})
	category := suite.createTestCategory(models.Category{UserID: user.ID})

	// A zero amount cannot pass validation, so write it without hooks to
	// verify the aggregation never divides by it
	budget := models.Budget{
		Amount: decimal.Zero, Year: 2024, Month: intp(3),
		UserID: user.ID, CategoryID: category.ID,
	}
	err := models.DB.Session(&gorm.Session{SkipHooks: true}).Create(&budget).Error
	assert.Nil(suite.T(), err)

	suite.createTestExpense(models.Expense{
		Amount: decimal.New(100, 0), UserID: user.ID, CategoryID: category.ID,
		Date: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
	})

	stats, err := models.BudgetStats(models.DB, user.ID, 2024, intp(3), nil)
	assert.Nil(suite.T(), err)
	assert.Len(suite.T(), stats, 1)
	assert.Equal(suite.T(), 0.0, stats[0].PercentageUsed)
	assert.True(suite.T(), stats[0].SpentAmount.Equal(decimal.New(100, 0)))
}

func (suite *TestSuiteStandard) TestBudgetStatsYearly() {
	user := suite.createTestUser(models.User{})
	category := suite.createTestCategory(models.Category{UserID: user.ID})

	// A yearly budget counts expenses from the whole year
	suite.createTestBudget(models.Budget{
		Amount: decimal.New(1000, 0), Year: 2024,
		UserID: user.ID, CategoryID: category.ID,
	})
	for month := time.January; month <= time.March; month++ {
		suite.createTestExpense(models.Expense{
			Amount: decimal.New(100, 0), UserID: user.ID, CategoryID: category.ID,
			Date: time.Date(2024, month, 1, 0, 0, 0, 0, time.UTC),
		})
	}

	stats, err := models.BudgetStats(models.DB, user.ID, 2024, nil, nil)
	assert.Nil(suite.T(), err)
	assert.Len(suite.T(), stats, 1)
	assert.True(suite.T(), stats[0].SpentAmount.Equal(decimal.New(300, 0)), "spent is %s", stats[0].SpentAmount)
	assert.InDelta(suite.T(), 30.0, stats[0].PercentageUsed, 0.001)
}

func (suite *TestSuiteStandard) TestBudgetStatsScopedToUser() {
	user := suite.createTestUser(models.User{})
	stranger := suite.createTestUser(models.User{})
	category := suite.createTestCategory(models.Category{UserID: stranger.ID})

	suite.createTestBudget(models.Budget{
		Amount: decimal.New(100, 0), Year: 2024,
		UserID: stranger.ID, CategoryID: category.ID,
	})

	stats, err := models.BudgetStats(models.DB, user.ID, 2024, nil, nil)
	assert.Nil(suite.T(), err)
	assert.Empty(suite.T(), stats)
}

func (suite *TestSuiteStandard) TestCurrentBudgetStats() {
	user := suite.createTestUser(models.User{})
	category := suite.createTestCategory(models.Category{UserID: user.ID})
	now := time.Date(2024, 3, 20, 12, 0, 0, 0, time.UTC)

	suite.createTestBudget(models.Budget{
		Amount: decimal.New(200, 0), Year: 2024, Month: intp(3),
		UserID: user.ID, CategoryID: category.ID,
	})

	// A budget for another month must not appear
	suite.createTestBudget(models.Budget{
		Amount: decimal.New(300, 0), Year: 2024, Month: intp(4),
		UserID: user.ID, CategoryID: category.ID,
	})

	stats, err := models.CurrentBudgetStats(models.DB, user.ID, now)
	assert.Nil(suite.T(), err)
	assert.Len(suite.T(), stats, 1)
	assert.True(suite.T(), stats[0].Amount.Equal(decimal.New(200, 0)))
}

func (suite *TestSuiteStandard) TestBudgetStatsDBFail() {
	suite.CloseDB()

	_, err := models.BudgetStats(models.DB, 1, 2024, nil, nil)
	suite.Assert().ErrorIs(err, models.ErrGeneral)
}
