package models_test

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/expensetrackr/backend/internal/models"
)

func (suite *TestSuiteStandard) TestCategoryDefaults() {
	user := suite.createTestUser(models.User{})
	category := suite.createTestCategory(models.Category{UserID: user.ID})

	assert.Equal(suite.T(), "#3498db", category.Color)
	assert.Equal(suite.T(), "tag", category.Icon)
}

func (suite *TestSuiteStandard) TestCategoryExpenseCount() {
	user := suite.createTestUser(models.User{})
	category := suite.createTestCategory(models.Category{UserID: user.ID})

	count, err := category.ExpenseCount(models.DB)
	assert.Nil(suite.T(), err)
	assert.Equal(suite.T(), int64(0), count)

	suite.createTestExpense(models.Expense{
		Amount: decimal.New(100, 0), UserID: user.ID, CategoryID: category.ID,
		Date: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	})

	count, err = category.ExpenseCount(models.DB)
	assert.Nil(suite.T(), err)
	assert.Equal(suite.T(), int64(1), count)
}

func (suite *TestSuiteStandard) TestFirstOwned() {
	owner := suite.createTestUser(models.User{})
	stranger := suite.createTestUser(models.User{})
	category := suite.createTestCategory(models.Category{UserID: owner.ID})

	var found models.Category
	err := models.FirstOwned(models.DB, &found, category.ID, owner.ID)
	assert.Nil(suite.T(), err)
	assert.Equal(suite.T(), category.ID, found.ID)

	// Another user's row is indistinguishable from a missing one
	var notFound models.Category
	err = models.FirstOwned(models.DB, &notFound, category.ID, stranger.ID)
	assert.ErrorIs(suite.T(), err, models.ErrResourceNotFound)

	err = models.FirstOwned(models.DB, &notFound, 4096, owner.ID)
	assert.ErrorIs(suite.T(), err, models.ErrResourceNotFound)
}

func (suite *TestSuiteStandard) TestResourceNotFoundMessage() {
	var category models.Category
	err := models.DB.Where("id = ?", 4096).First(&category).Error
	assert.ErrorContains(suite.T(), err, "there is no category matching your query")

	var expense models.Expense
	err = models.DB.Where("id = ?", 4096).First(&expense).Error
	assert.ErrorContains(suite.T(), err, "there is no expense matching your query")
}

func (suite *TestSuiteStandard) TestUserCascadesToOwnedRows() {
	user := suite.createTestUser(models.User{})
	category := suite.createTestCategory(models.Category{UserID: user.ID})
	expense := suite.createTestExpense(models.Expense{
		Amount: decimal.New(100, 0), UserID: user.ID, CategoryID: category.ID,
		Date: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	budget := suite.createTestBudget(models.Budget{
		Amount: decimal.New(100, 0), Year: 2024,
		UserID: user.ID, CategoryID: category.ID,
	})

	err := models.DB.Delete(&user).Error
	assert.Nil(suite.T(), err)

	for _, check := range []error{
		models.DB.First(&models.Category{}, category.ID).Error,
		models.DB.First(&models.Expense{}, expense.ID).Error,
		models.DB.First(&models.Budget{}, budget.ID).Error,
	} {
		assert.ErrorIs(suite.T(), check, models.ErrResourceNotFound)
	}
}
