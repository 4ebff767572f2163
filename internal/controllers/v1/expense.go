package v1

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/expensetrackr/backend/internal/models"
)

// RegisterExpenseRoutes registers the routes for expenses with
// the RouterGroup that is passed.
func RegisterExpenseRoutes(r *gin.RouterGroup) {
	// Root group
	{
		r.GET("", GetExpenses)
		r.POST("", CreateExpense)
		r.GET("/summary/monthly", GetMonthlySummary)
	}

	// Admin
	r.GET("/admin/all", RequireAdmin(), GetAllExpenses)

	// Expense with ID
	{
		r.GET("/:id", GetExpense)
		r.PUT("/:id", UpdateExpense)
		r.DELETE("/:id", DeleteExpense)
	}
}

// ExpenseEditable represents all user configurable parameters
type ExpenseEditable struct {
	Amount      decimal.Decimal `json:"amount" binding:"required" example:"14.50"`
	Description string          `json:"description" example:"Weekly groceries"`
	Date        time.Time       `json:"date" example:"2024-03-05T00:00:00Z"` // Defaults to the current time
	Currency    string          `json:"currency" example:"USD"`
	Notes       string          `json:"notes"`
	CategoryID  uint            `json:"category_id" binding:"required"`
}

func (editable ExpenseEditable) model(userID uint) models.Expense {
	return models.Expense{
		Amount:      editable.Amount,
		Description: editable.Description,
		Date:        editable.Date,
		Currency:    editable.Currency,
		Notes:       editable.Notes,
		UserID:      userID,
		CategoryID:  editable.CategoryID,
	}
}

// ExpenseUpdate represents a sparse update. Absent fields are left
// unchanged.
type ExpenseUpdate struct {
	Amount      *decimal.Decimal `json:"amount" example:"14.50"`
	Description *string          `json:"description" example:"Weekly groceries"`
	Date        *time.Time       `json:"date" example:"2024-03-05T00:00:00Z"`
	Currency    *string          `json:"currency" example:"USD"`
	Notes       *string          `json:"notes"`
	CategoryID  *uint            `json:"category_id"`
}

func (update ExpenseUpdate) apply(expense *models.Expense) {
	if update.Amount != nil {
		expense.Amount = *update.Amount
	}
	if update.Description != nil {
		expense.Description = *update.Description
	}
	if update.Date != nil {
		expense.Date = *update.Date
	}
	if update.Currency != nil {
		expense.Currency = *update.Currency
	}
	if update.Notes != nil {
		expense.Notes = *update.Notes
	}
	if update.CategoryID != nil {
		expense.CategoryID = *update.CategoryID
	}
}

// ExpenseFilter are the query parameters for the expense list.
type ExpenseFilter struct {
	Pagination
	Search     string           `form:"search"`                                                   // Description contains this string, case-insensitive
	CategoryID *uint            `form:"category_id"`                                              // ID of the category
	StartDate  time.Time        `form:"start_date" time_format:"2006-01-02" time_utc:"1"`         // Earliest date, inclusive
	EndDate    time.Time        `form:"end_date" time_format:"2006-01-02" time_utc:"1"`           // Latest date, inclusive
	MinAmount  *decimal.Decimal `form:"min_amount"`                                               // Amount greater than or equal to this
	MaxAmount  *decimal.Decimal `form:"max_amount"`                                               // Amount less than or equal to this
}

// query builds the filtered, ordered expense query without pagination.
func (filter ExpenseFilter) query(db *gorm.DB) *gorm.DB {
	q := db.Model(&models.Expense{}).Preload("Category").Order("date DESC, id DESC")

	if filter.Search != "" {
		q = q.Where("LOWER(description) LIKE ?", "%"+strings.ToLower(filter.Search)+"%")
	}
	if filter.CategoryID != nil {
		q = q.Where("category_id = ?", *filter.CategoryID)
	}
	if !filter.StartDate.IsZero() {
		q = q.Where("date >= ?", filter.StartDate)
	}
	if !filter.EndDate.IsZero() {
		// Include the whole end day
		q = q.Where("date < ?", filter.EndDate.AddDate(0, 0, 1))
	}
	if filter.MinAmount != nil {
		q = q.Where("amount >= ?", *filter.MinAmount)
	}
	if filter.MaxAmount != nil {
		q = q.Where("amount <= ?", *filter.MaxAmount)
	}

	return q
}

// MonthlySummary is the per-category aggregate of a user's expenses for
// one year or one calendar month.
type MonthlySummary struct {
	Year        int                    `json:"year" example:"2024"`
	Month       *int                   `json:"month" example:"3"`
	TotalAmount decimal.Decimal        `json:"total_amount"`
	Categories  []models.CategoryTotal `json:"categories"`
}

// @Summary		List expenses
// @Description	Returns the expenses of the authenticated user, newest first
// @Tags			Expenses
// @Produce		json
// @Success		200			{array}		models.Expense
// @Failure		400			{object}	httpError
// @Failure		401			{object}	httpError
// @Param			search		query		string	false	"Description contains this string, case-insensitive"
// @Param			category_id	query		uint	false	"ID of the category"
// @Param			start_date	query		string	false	"Earliest date, format 2006-01-02"
// @Param			end_date	query		string	false	"Latest date, format 2006-01-02"
// @Param			min_amount	query		string	false	"Minimum amount"
// @Param			max_amount	query		string	false	"Maximum amount"
// @Param			skip		query		int		false	"Number of expenses to skip"
// @Param			limit		query		int		false	"Maximum number of expenses to return"
// @Router			/api/expenses [get]
func GetExpenses(c *gin.Context) {
	var filter ExpenseFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, httpError{Error: err.Error()})
		return
	}

	var expenses []models.Expense
	err := filter.query(models.DB).
		Where("user_id = ?", principal(c).ID).
		Offset(filter.Skip).
		Limit(filter.Limit).
		Find(&expenses).Error
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, expenses)
}

// @Summary		List all expenses
// @Description	Returns the expenses of all users. Requires the admin flag.
// @Tags			Expenses
// @Produce		json
// @Success		200		{array}		models.Expense
// @Failure		401		{object}	httpError
// @Failure		403		{object}	httpError
// @Param			user_id	query		uint	false	"ID of the owning user"
// @Param			skip	query		int		false	"Number of expenses to skip"
// @Param			limit	query		int		false	"Maximum number of expenses to return"
// @Router			/api/expenses/admin/all [get]
func GetAllExpenses(c *gin.Context) {
	var filter struct {
		ExpenseFilter
		UserID *uint `form:"user_id"`
	}
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, httpError{Error: err.Error()})
		return
	}

	q := filter.query(models.DB)
	if filter.UserID != nil {
		q = q.Where("user_id = ?", *filter.UserID)
	}

	var expenses []models.Expense
	err := q.
		Offset(filter.Skip).
		Limit(filter.Limit).
		Find(&expenses).Error
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, expenses)
}

// @Summary		Create expense
// @Description	Creates a new expense for the authenticated user. The category must belong to the user.
// @Tags			Expenses
// @Accept			json
// @Produce		json
// @Success		201		{object}	models.Expense
// @Failure		400		{object}	httpError
// @Failure		401		{object}	httpError
// @Failure		404		{object}	httpError
// @Param			expense	body		ExpenseEditable	true	"Expense"
// @Router			/api/expenses [post]
func CreateExpense(c *gin.Context) {
	var editable ExpenseEditable
	if err := c.ShouldBindJSON(&editable); err != nil {
		c.JSON(http.StatusBadRequest, httpError{Error: err.Error()})
		return
	}

	userID := principal(c).ID
	expense := editable.model(userID)

	err := models.DB.Transaction(func(tx *gorm.DB) error {
		// The referenced category must exist and belong to the user
		var category models.Category
		if err := models.FirstOwned(tx, &category, editable.CategoryID, userID); err != nil {
			return err
		}

		if err := tx.Create(&expense).Error; err != nil {
			return err
		}

		return tx.Preload("Category").First(&expense, expense.ID).Error
	})
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	c.JSON(http.StatusCreated, expense)
}

// @Summary		Get expense
// @Description	Returns one expense of the authenticated user
// @Tags			Expenses
// @Produce		json
// @Success		200	{object}	models.Expense
// @Failure		401	{object}	httpError
// @Failure		404	{object}	httpError
// @Param			id	path		uint	true	"ID of the expense"
// @Router			/api/expenses/{id} [get]
func GetExpense(c *gin.Context) {
	var uri URIID
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, httpError{Error: err.Error()})
		return
	}

	var expense models.Expense
	err := models.DB.Preload("Category").
		Where("id = ? AND user_id = ?", uri.ID, principal(c).ID).
		First(&expense).Error
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, expense)
}

// @Summary		Update expense
// @Description	Updates an expense of the authenticated user. Absent fields are left unchanged.
// @Tags			Expenses
// @Accept			json
// @Produce		json
// @Success		200		{object}	models.Expense
// @Failure		400		{object}	httpError
// @Failure		401		{object}	httpError
// @Failure		404		{object}	httpError
// @Param			id		path		uint			true	"ID of the expense"
// @Param			expense	body		ExpenseUpdate	true	"Expense"
// @Router			/api/expenses/{id} [put]
func UpdateExpense(c *gin.Context) {
	var uri URIID
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, httpError{Error: err.Error()})
		return
	}

	var update ExpenseUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		c.JSON(http.StatusBadRequest, httpError{Error: err.Error()})
		return
	}

	userID := principal(c).ID

	var expense models.Expense
	err := models.DB.Transaction(func(tx *gorm.DB) error {
		if err := models.FirstOwned(tx, &expense, uri.ID, userID); err != nil {
			return err
		}

		if update.CategoryID != nil {
			var category models.Category
			if err := models.FirstOwned(tx, &category, *update.CategoryID, userID); err != nil {
				return err
			}
		}

		update.apply(&expense)
		if err := tx.Save(&expense).Error; err != nil {
			return err
		}

		return tx.Preload("Category").First(&expense, expense.ID).Error
	})
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, expense)
}

// @Summary		Delete expense
// @Description	Deletes an expense of the authenticated user
// @Tags			Expenses
// @Success		204
// @Failure		401	{object}	httpError
// @Failure		404	{object}	httpError
// @Param			id	path		uint	true	"ID of the expense"
// @Router			/api/expenses/{id} [delete]
func DeleteExpense(c *gin.Context) {
	var uri URIID
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, httpError{Error: err.Error()})
		return
	}

	err := models.DB.Transaction(func(tx *gorm.DB) error {
		var expense models.Expense
		if err := models.FirstOwned(tx, &expense, uri.ID, principal(c).ID); err != nil {
			return err
		}

		return tx.Delete(&expense).Error
	})
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	c.Status(http.StatusNoContent)
}

// @Summary		Monthly summary
// @Description	Returns the per-category expense totals for a year or for one month of it
// @Tags			Expenses
// @Produce		json
// @Success		200		{object}	MonthlySummary
// @Failure		400		{object}	httpError
// @Failure		401		{object}	httpError
// @Param			year	query		int	true	"Year to aggregate"
// @Param			month	query		int	false	"Month to aggregate, 1-12"
// @Router			/api/expenses/summary/monthly [get]
func GetMonthlySummary(c *gin.Context) {
	var query struct {
		Year  int  `form:"year" binding:"required"`
		Month *int `form:"month" binding:"omitempty,gte=1,lte=12"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, httpError{Error: err.Error()})
		return
	}

	summary, total, err := models.CategorySummary(models.DB, principal(c).ID, query.Year, query.Month, nil)
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, MonthlySummary{
		Year:        query.Year,
		Month:       query.Month,
		TotalAmount: total,
		Categories:  summary,
	})
}
