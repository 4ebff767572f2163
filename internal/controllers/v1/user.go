package v1

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/expensetrackr/backend/internal/auth"
	"github.com/expensetrackr/backend/internal/models"
)

// RegisterUserRoutes registers the routes for users with the
// RouterGroup that is passed. Everything except /me requires the
// admin flag.
func RegisterUserRoutes(r *gin.RouterGroup) {
	r.GET("/me", GetMe)
	r.PUT("/me", UpdateMe)

	admin := r.Group("", RequireAdmin())
	{
		admin.GET("", GetUsers)
		admin.GET("/:id", GetUser)
		admin.PUT("/:id", UpdateUser)
		admin.DELETE("/:id", DeleteUser)
	}
}

// UserEditable represents the self-service profile fields. All fields
// are optional, absent fields are left unchanged.
type UserEditable struct {
	Email             *string `json:"email" binding:"omitempty,email" example:"jane@example.com"`
	Password          *string `json:"password" example:"correct horse battery staple"`
	FirstName         *string `json:"first_name" example:"Jane"`
	LastName          *string `json:"last_name" example:"Doe"`
	PreferredCurrency *string `json:"preferred_currency" example:"EUR"`
}

// UserAdminEditable adds the fields only admins may change.
type UserAdminEditable struct {
	UserEditable
	IsActive *bool `json:"is_active" example:"false"`
	IsAdmin  *bool `json:"is_admin" example:"true"`
}

// apply merges the set fields into the user.
func (editable UserEditable) apply(user *models.User) error {
	if editable.Email != nil {
		user.Email = strings.ToLower(strings.TrimSpace(*editable.Email))
	}
	if editable.Password != nil {
		if len(*editable.Password) < 8 {
			return errPasswordTooShort
		}

		hash, err := auth.HashPassword(*editable.Password)
		if err != nil {
			return models.ErrGeneral
		}
		user.HashedPassword = hash
	}
	if editable.FirstName != nil {
		user.FirstName = *editable.FirstName
	}
	if editable.LastName != nil {
		user.LastName = *editable.LastName
	}
	if editable.PreferredCurrency != nil {
		user.PreferredCurrency = *editable.PreferredCurrency
	}

	return nil
}

func (editable UserAdminEditable) apply(user *models.User) error {
	if err := editable.UserEditable.apply(user); err != nil {
		return err
	}

	if editable.IsActive != nil {
		user.IsActive = *editable.IsActive
	}
	if editable.IsAdmin != nil {
		user.IsAdmin = *editable.IsAdmin
	}

	return nil
}

// @Summary		Get own profile
// @Description	Returns the profile of the authenticated user
// @Tags			Users
// @Produce		json
// @Success		200	{object}	models.User
// @Failure		401	{object}	httpError
// @Router			/api/users/me [get]
func GetMe(c *gin.Context) {
	c.JSON(http.StatusOK, principal(c))
}

// @Summary		Update own profile
// @Description	Updates the profile of the authenticated user. Absent fields are left unchanged.
// @Tags			Users
// @Accept			json
// @Produce		json
// @Success		200		{object}	models.User
// @Failure		400		{object}	httpError
// @Failure		401		{object}	httpError
// @Param			user	body		UserEditable	true	"User"
// @Router			/api/users/me [put]
func UpdateMe(c *gin.Context) {
	var editable UserEditable
	if err := c.ShouldBindJSON(&editable); err != nil {
		c.JSON(http.StatusBadRequest, httpError{Error: err.Error()})
		return
	}

	user := principal(c)
	if err := editable.apply(&user); err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	if err := models.DB.Save(&user).Error; err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, user)
}

// @Summary		List users
// @Description	Returns all user accounts. Requires the admin flag.
// @Tags			Users
// @Produce		json
// @Success		200		{array}		models.User
// @Failure		403		{object}	httpError
// @Param			skip	query		int	false	"Number of users to skip"
// @Param			limit	query		int	false	"Maximum number of users to return"
// @Router			/api/users [get]
func GetUsers(c *gin.Context) {
	var pagination Pagination
	if err := c.ShouldBindQuery(&pagination); err != nil {
		c.JSON(http.StatusBadRequest, httpError{Error: err.Error()})
		return
	}

	var users []models.User
	err := models.DB.Order("id ASC").Offset(pagination.Skip).Limit(pagination.Limit).Find(&users).Error
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, users)
}

// @Summary		Get user
// @Description	Returns a user account by ID. Requires the admin flag.
// @Tags			Users
// @Produce		json
// @Success		200	{object}	models.User
// @Failure		403	{object}	httpError
// @Failure		404	{object}	httpError
// @Param			id	path		uint	true	"ID of the user"
// @Router			/api/users/{id} [get]
func GetUser(c *gin.Context) {
	var uri URIID
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, httpError{Error: err.Error()})
		return
	}

	var user models.User
	if err := models.DB.First(&user, uri.ID).Error; err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, user)
}

// @Summary		Update user
// @Description	Updates a user account, including the active and admin flags. Requires the admin flag.
// @Tags			Users
// @Accept			json
// @Produce		json
// @Success		200		{object}	models.User
// @Failure		400		{object}	httpError
// @Failure		403		{object}	httpError
// @Failure		404		{object}	httpError
// @Param			id		path		uint				true	"ID of the user"
// @Param			user	body		UserAdminEditable	true	"User"
// @Router			/api/users/{id} [put]
func UpdateUser(c *gin.Context) {
	var uri URIID
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, httpError{Error: err.Error()})
		return
	}

	var editable UserAdminEditable
	if err := c.ShouldBindJSON(&editable); err != nil {
		c.JSON(http.StatusBadRequest, httpError{Error: err.Error()})
		return
	}

	var user models.User
	err := models.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&user, uri.ID).Error; err != nil {
			return err
		}

		if err := editable.apply(&user); err != nil {
			return err
		}

		return tx.Save(&user).Error
	})
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, user)
}

// @Summary		Delete user
// @Description	Deletes a user account and everything it owns. Admins cannot delete themselves.
// @Tags			Users
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		403	{object}	httpError
// @Failure		404	{object}	httpError
// @Param			id	path		uint	true	"ID of the user"
// @Router			/api/users/{id} [delete]
func DeleteUser(c *gin.Context) {
	var uri URIID
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, httpError{Error: err.Error()})
		return
	}

	if uri.ID == principal(c).ID {
		c.JSON(http.StatusBadRequest, httpError{Error: errSelfDelete.Error()})
		return
	}

	err := models.DB.Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.First(&user, uri.ID).Error; err != nil {
			return err
		}

		// The foreign keys cascade, owned rows go with the account
		return tx.Delete(&user).Error
	})
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	c.Status(http.StatusNoContent)
}
