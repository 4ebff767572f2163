package v1

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/expensetrackr/backend/internal/models"
)

// RegisterBudgetRoutes registers the routes for budgets with
// the RouterGroup that is passed.
func RegisterBudgetRoutes(r *gin.RouterGroup) {
	// Root group
	{
		r.GET("", GetBudgets)
		r.POST("", CreateBudget)
		r.GET("/stats", GetBudgetStats)
		r.GET("/overview/current", GetCurrentBudgetOverview)
	}

	// Budget with ID
	{
		r.GET("/:id", GetBudget)
		r.PUT("/:id", UpdateBudget)
		r.DELETE("/:id", DeleteBudget)
	}
}

// BudgetEditable represents all user configurable parameters
type BudgetEditable struct {
	Amount     decimal.Decimal `json:"amount" binding:"required" example:"200"`
	Year       int             `json:"year" binding:"required" example:"2024"`
	Month      *int            `json:"month" example:"3"` // null for a yearly budget
	Period     string          `json:"period" example:"monthly"`
	Currency   string          `json:"currency" example:"USD"`
	CategoryID uint            `json:"category_id" binding:"required"`
}

func (editable BudgetEditable) model(userID uint) models.Budget {
	return models.Budget{
		Amount:     editable.Amount,
		Year:       editable.Year,
		Month:      editable.Month,
		Period:     editable.Period,
		Currency:   editable.Currency,
		UserID:     userID,
		CategoryID: editable.CategoryID,
	}
}

// BudgetUpdate represents a sparse update. Absent fields are left
// unchanged.
type BudgetUpdate struct {
	Amount     *decimal.Decimal `json:"amount" example:"250"`
	Year       *int             `json:"year" example:"2024"`
	Month      *int             `json:"month" example:"4"`
	Period     *string          `json:"period" example:"monthly"`
	Currency   *string          `json:"currency" example:"USD"`
	CategoryID *uint            `json:"category_id"`
}

func (update BudgetUpdate) apply(budget *models.Budget) {
	if update.Amount != nil {
		budget.Amount = *update.Amount
	}
	if update.Year != nil {
		budget.Year = *update.Year
	}
	if update.Month != nil {
		budget.Month = update.Month
	}
	if update.Period != nil {
		budget.Period = *update.Period
	}
	if update.Currency != nil {
		budget.Currency = *update.Currency
	}
	if update.CategoryID != nil {
		budget.CategoryID = *update.CategoryID
	}
}

// BudgetFilter are the query parameters for the budget list.
type BudgetFilter struct {
	Pagination
	Year       *int  `form:"year"`        // Budgets for this year
	Month      *int  `form:"month"`       // Budgets for this month
	CategoryID *uint `form:"category_id"` // ID of the category
}

// @Summary		List budgets
// @Description	Returns the budgets of the authenticated user, newest period first
// @Tags			Budgets
// @Produce		json
// @Success		200			{array}		models.Budget
// @Failure		400			{object}	httpError
// @Failure		401			{object}	httpError
// @Param			year		query		int		false	"Budgets for this year"
// @Param			month		query		int		false	"Budgets for this month"
// @Param			category_id	query		uint	false	"ID of the category"
// @Param			skip		query		int		false	"Number of budgets to skip"
// @Param			limit		query		int		false	"Maximum number of budgets to return"
// @Router			/api/budgets [get]
func GetBudgets(c *gin.Context) {
	var filter BudgetFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, httpError{Error: err.Error()})
		return
	}

	q := models.DB.
		Where("user_id = ?", principal(c).ID).
		Order("year DESC, month DESC, id DESC")

	if filter.Year != nil {
		q = q.Where("year = ?", *filter.Year)
	}
	if filter.Month != nil {
		q = q.Where("month = ?", *filter.Month)
	}
	if filter.CategoryID != nil {
		q = q.Where("category_id = ?", *filter.CategoryID)
	}

	var budgets []models.Budget
	err := q.Offset(filter.Skip).Limit(filter.Limit).Find(&budgets).Error
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, budgets)
}

// @Summary		Create budget
// @Description	Creates a new budget for the authenticated user. The category must belong to the user.
// @Tags			Budgets
// @Accept			json
// @Produce		json
// @Success		201		{object}	models.Budget
// @Failure		400		{object}	httpError
// @Failure		401		{object}	httpError
// @Failure		404		{object}	httpError
// @Param			budget	body		BudgetEditable	true	"Budget"
// @Router			/api/budgets [post]
func CreateBudget(c *gin.Context) {
	var editable BudgetEditable
	if err := c.ShouldBindJSON(&editable); err != nil {
		c.JSON(http.StatusBadRequest, httpError{Error: err.Error()})
		return
	}

	userID := principal(c).ID
	budget := editable.model(userID)

	err := models.DB.Transaction(func(tx *gorm.DB) error {
		var category models.Category
		if err := models.FirstOwned(tx, &category, editable.CategoryID, userID); err != nil {
			return err
		}

		return tx.Create(&budget).Error
	})
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	c.JSON(http.StatusCreated, budget)
}

// @Summary		Get budget
// @Description	Returns one budget of the authenticated user
// @Tags			Budgets
// @Produce		json
// @Success		200	{object}	models.Budget
// @Failure		401	{object}	httpError
// @Failure		404	{object}	httpError
// @Param			id	path		uint	true	"ID of the budget"
// @Router			/api/budgets/{id} [get]
func GetBudget(c *gin.Context) {
	var uri URIID
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, httpError{Error: err.Error()})
		return
	}

	var budget models.Budget
	if err := models.FirstOwned(models.DB, &budget, uri.ID, principal(c).ID); err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, budget)
}

// @Summary		Update budget
// @Description	Updates a budget of the authenticated user. Absent fields are left unchanged.
// @Tags			Budgets
// @Accept			json
// @Produce		json
// @Success		200		{object}	models.Budget
// @Failure		400		{object}	httpError
// @Failure		401		{object}	httpError
// @Failure		404		{object}	httpError
// @Param			id		path		uint			true	"ID of the budget"
// @Param			budget	body		BudgetUpdate	true	"Budget"
// @Router			/api/budgets/{id} [put]
func UpdateBudget(c *gin.Context) {
	var uri URIID
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, httpError{Error: err.Error()})
		return
	}

	var update BudgetUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		c.JSON(http.StatusBadRequest, httpError{Error: err.Error()})
		return
	}

	userID := principal(c).ID

	var budget models.Budget
	err := models.DB.Transaction(func(tx *gorm.DB) error {
		if err := models.FirstOwned(tx, &budget, uri.ID, userID); err != nil {
			return err
		}

		if update.CategoryID != nil {
			var category models.Category
			if err := models.FirstOwned(tx, &category, *update.CategoryID, userID); err != nil {
				return err
			}
		}

		update.apply(&budget)
		return tx.Save(&budget).Error
	})
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, budget)
}

// @Summary		Delete budget
// @Description	Deletes a budget of the authenticated user
// @Tags			Budgets
// @Success		204
// @Failure		401	{object}	httpError
// @Failure		404	{object}	httpError
// @Param			id	path		uint	true	"ID of the budget"
// @Router			/api/budgets/{id} [delete]
func DeleteBudget(c *gin.Context) {
	var uri URIID
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, httpError{Error: err.Error()})
		return
	}

	err := models.DB.Transaction(func(tx *gorm.DB) error {
		var budget models.Budget
		if err := models.FirstOwned(tx, &budget, uri.ID, principal(c).ID); err != nil {
			return err
		}

		return tx.Delete(&budget).Error
	})
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	c.Status(http.StatusNoContent)
}

// @Summary		Budget statistics
// @Description	Returns each matching budget with the spending for its period
// @Tags			Budgets
// @Produce		json
// @Success		200			{array}		models.BudgetStat
// @Failure		400			{object}	httpError
// @Failure		401			{object}	httpError
// @Param			year		query		int		true	"Year of the period"
// @Param			month		query		int		false	"Month of the period"
// @Param			category_id	query		uint	false	"ID of the category"
// @Router			/api/budgets/stats [get]
func GetBudgetStats(c *gin.Context) {
	var query struct {
		Year       int   `form:"year" binding:"required"`
		Month      *int  `form:"month" binding:"omitempty,gte=1,lte=12"`
		CategoryID *uint `form:"category_id"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, httpError{Error: err.Error()})
		return
	}

	stats, err := models.BudgetStats(models.DB, principal(c).ID, query.Year, query.Month, query.CategoryID)
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, stats)
}

// @Summary		Current budget overview
// @Description	Returns the budget statistics for the current calendar month
// @Tags			Budgets
// @Produce		json
// @Success		200	{array}		models.BudgetStat
// @Failure		401	{object}	httpError
// @Router			/api/budgets/overview/current [get]
func GetCurrentBudgetOverview(c *gin.Context) {
	stats, err := models.CurrentBudgetStats(models.DB, principal(c).ID, time.Now())
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, stats)
}
