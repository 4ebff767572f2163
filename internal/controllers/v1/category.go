package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/text/cases"
	"gorm.io/gorm"

	"github.com/expensetrackr/backend/internal/models"
)

// RegisterCategoryRoutes registers the routes for categories with
// the RouterGroup that is passed.
func RegisterCategoryRoutes(r *gin.RouterGroup) {
	// Root group
	{
		r.GET("", GetCategories)
		r.POST("", CreateCategory)
		r.POST("/defaults", CreateDefaultCategories)
	}

	// Category with ID
	{
		r.GET("/:id", GetCategory)
		r.PUT("/:id", UpdateCategory)
		r.DELETE("/:id", DeleteCategory)
	}
}

// CategoryEditable represents all user configurable parameters
type CategoryEditable struct {
	Name        string `json:"name" binding:"required" example:"Groceries"` // Name of the category
	Description string `json:"description" example:"Food and household items"`
	Color       string `json:"color" example:"#4CAF50"`
	Icon        string `json:"icon" example:"tag"`
}

func (editable CategoryEditable) model(userID uint) models.Category {
	return models.Category{
		Name:        editable.Name,
		Description: editable.Description,
		Color:       editable.Color,
		Icon:        editable.Icon,
		UserID:      userID,
	}
}

// CategoryUpdate represents a sparse update. Absent fields are left
// unchanged.
type CategoryUpdate struct {
	Name        *string `json:"name" example:"Groceries"`
	Description *string `json:"description" example:"Food and household items"`
	Color       *string `json:"color" example:"#4CAF50"`
	Icon        *string `json:"icon" example:"tag"`
}

func (update CategoryUpdate) apply(category *models.Category) {
	if update.Name != nil {
		category.Name = *update.Name
	}
	if update.Description != nil {
		category.Description = *update.Description
	}
	if update.Color != nil {
		category.Color = *update.Color
	}
	if update.Icon != nil {
		category.Icon = *update.Icon
	}
}

// defaultCategories are seeded by the defaults endpoint for users who
// do not want to start from a blank slate.
var defaultCategories = []models.Category{
	{Name: "Groceries", Color: "#4CAF50", Description: "Food and household items"},
	{Name: "Dining", Color: "#FF9800", Description: "Restaurants and takeout"},
	{Name: "Transportation", Color: "#2196F3", Description: "Public transit, fuel, and ride services"},
	{Name: "Housing", Color: "#9C27B0", Description: "Rent, mortgage, and utilities"},
	{Name: "Entertainment", Color: "#E91E63", Description: "Movies, games, and hobbies"},
	{Name: "Health", Color: "#00BCD4", Description: "Medical expenses and fitness"},
	{Name: "Shopping", Color: "#795548", Description: "Clothing and retail purchases"},
	{Name: "Travel", Color: "#607D8B", Description: "Vacations and trips"},
	{Name: "Education", Color: "#FF5722", Description: "Courses, books, and supplies"},
	{Name: "Other", Color: "#9E9E9E", Description: "Miscellaneous expenses"},
}

// @Summary		List categories
// @Description	Returns the categories of the authenticated user, ordered by name
// @Tags			Categories
// @Produce		json
// @Success		200		{array}		models.Category
// @Failure		401		{object}	httpError
// @Param			skip	query		int	false	"Number of categories to skip"
// @Param			limit	query		int	false	"Maximum number of categories to return"
// @Router			/api/categories [get]
func GetCategories(c *gin.Context) {
	var pagination Pagination
	if err := c.ShouldBindQuery(&pagination); err != nil {
		c.JSON(http.StatusBadRequest, httpError{Error: err.Error()})
		return
	}

	var categories []models.Category
	err := models.DB.
		Where("user_id = ?", principal(c).ID).
		Order("name ASC").
		Offset(pagination.Skip).
		Limit(pagination.Limit).
		Find(&categories).Error
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, categories)
}

// @Summary		Create category
// @Description	Creates a new category for the authenticated user
// @Tags			Categories
// @Accept			json
// @Produce		json
// @Success		201			{object}	models.Category
// @Failure		400			{object}	httpError
// @Failure		401			{object}	httpError
// @Param			category	body		CategoryEditable	true	"Category"
// @Router			/api/categories [post]
func CreateCategory(c *gin.Context) {
	var editable CategoryEditable
	if err := c.ShouldBindJSON(&editable); err != nil {
		c.JSON(http.StatusBadRequest, httpError{Error: err.Error()})
		return
	}

	category := editable.model(principal(c).ID)
	if err := models.DB.Create(&category).Error; err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	c.JSON(http.StatusCreated, category)
}

// @Summary		Create default categories
// @Description	Seeds the default categories. Categories whose name already exists for the user are skipped, comparing names case-insensitively, so repeating the call never creates duplicates.
// @Tags			Categories
// @Produce		json
// @Success		201	{array}	models.Category
// @Failure		401	{object}	httpError
// @Router			/api/categories/defaults [post]
func CreateDefaultCategories(c *gin.Context) {
	userID := principal(c).ID
	fold := cases.Fold()

	var created []models.Category
	err := models.DB.Transaction(func(tx *gorm.DB) error {
		var existing []models.Category
		if err := tx.Where("user_id = ?", userID).Find(&existing).Error; err != nil {
			return err
		}

		taken := make(map[string]bool, len(existing))
		for _, category := range existing {
			taken[fold.String(category.Name)] = true
		}

		for _, template := range defaultCategories {
			if taken[fold.String(template.Name)] {
				continue
			}

			category := template
			category.UserID = userID
			if err := tx.Create(&category).Error; err != nil {
				return err
			}

			created = append(created, category)
		}

		return nil
	})
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	if created == nil {
		created = []models.Category{}
	}

	c.JSON(http.StatusCreated, created)
}

// @Summary		Get category
// @Description	Returns one category of the authenticated user
// @Tags			Categories
// @Produce		json
// @Success		200	{object}	models.Category
// @Failure		401	{object}	httpError
// @Failure		404	{object}	httpError
// @Param			id	path		uint	true	"ID of the category"
// @Router			/api/categories/{id} [get]
func GetCategory(c *gin.Context) {
	var uri URIID
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, httpError{Error: err.Error()})
		return
	}

	var category models.Category
	if err := models.FirstOwned(models.DB, &category, uri.ID, principal(c).ID); err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, category)
}

// @Summary		Update category
// @Description	Updates a category of the authenticated user. Absent fields are left unchanged.
// @Tags			Categories
// @Accept			json
// @Produce		json
// @Success		200			{object}	models.Category
// @Failure		400			{object}	httpError
// @Failure		401			{object}	httpError
// @Failure		404			{object}	httpError
// @Param			id			path		uint			true	"ID of the category"
// @Param			category	body		CategoryUpdate	true	"Category"
// @Router			/api/categories/{id} [put]
func UpdateCategory(c *gin.Context) {
	var uri URIID
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, httpError{Error: err.Error()})
		return
	}

	var update CategoryUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		c.JSON(http.StatusBadRequest, httpError{Error: err.Error()})
		return
	}

	var category models.Category
	err := models.DB.Transaction(func(tx *gorm.DB) error {
		if err := models.FirstOwned(tx, &category, uri.ID, principal(c).ID); err != nil {
			return err
		}

		update.apply(&category)
		return tx.Save(&category).Error
	})
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, category)
}

// @Summary		Delete category
// @Description	Deletes a category of the authenticated user. Categories that still have expenses cannot be deleted.
// @Tags			Categories
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		401	{object}	httpError
// @Failure		404	{object}	httpError
// @Param			id	path		uint	true	"ID of the category"
// @Router			/api/categories/{id} [delete]
func DeleteCategory(c *gin.Context) {
	var uri URIID
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, httpError{Error: err.Error()})
		return
	}

	err := models.DB.Transaction(func(tx *gorm.DB) error {
		var category models.Category
		if err := models.FirstOwned(tx, &category, uri.ID, principal(c).ID); err != nil {
			return err
		}

		count, err := category.ExpenseCount(tx)
		if err != nil {
			return err
		}
		if count > 0 {
			return models.ErrCategoryInUse
		}

		return tx.Delete(&category).Error
	})
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	c.Status(http.StatusNoContent)
}
