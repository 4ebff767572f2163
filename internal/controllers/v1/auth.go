package v1

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/expensetrackr/backend/internal/auth"
	"github.com/expensetrackr/backend/internal/models"
	"github.com/expensetrackr/backend/internal/notifications"
)

// RegisterAuthRoutes registers the public authentication routes with
// the RouterGroup that is passed.
func RegisterAuthRoutes(r *gin.RouterGroup, signer *auth.Signer, sender notifications.Sender) {
	r.POST("/register", Register)
	r.POST("/login", Login(signer))
	r.POST("/login/json", LoginJSON(signer))
	r.POST("/password-reset/request", RequestPasswordReset(signer, sender))
	r.POST("/password-reset/confirm", ConfirmPasswordReset(signer))
}

// RegisterRequest represents the data needed to create a user account.
type RegisterRequest struct {
	Email     string `json:"email" binding:"required,email" example:"jane@example.com"`
	Password  string `json:"password" binding:"required" example:"correct horse battery staple"`
	FirstName string `json:"first_name" example:"Jane"`
	LastName  string `json:"last_name" example:"Doe"`
}

// TokenResponse is the response for all successful logins.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type" example:"bearer"`
}

type loginForm struct {
	Username string `form:"username" binding:"required"`
	Password string `form:"password" binding:"required"`
}

type loginJSON struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type passwordResetRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type passwordResetConfirm struct {
	Token       string `json:"token" binding:"required"`
	NewPassword string `json:"new_password" binding:"required"`
}

type messageResponse struct {
	Message string `json:"message" example:"if the email is registered, a password reset link has been sent"`
}

// @Summary		Register user
// @Description	Creates a new user account. The email must not be in use.
// @Tags			Auth
// @Accept			json
// @Produce		json
// @Success		201		{object}	models.User
// @Failure		400		{object}	httpError
// @Failure		500		{object}	httpError
// @Param			user	body		RegisterRequest	true	"User"
// @Router			/api/auth/register [post]
func Register(c *gin.Context) {
	var request RegisterRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, httpError{Error: err.Error()})
		return
	}

	if len(request.Password) < 8 {
		c.JSON(http.StatusBadRequest, httpError{Error: errPasswordTooShort.Error()})
		return
	}

	hash, err := auth.HashPassword(request.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, httpError{Error: models.ErrGeneral.Error()})
		return
	}

	user := models.User{
		Email:          strings.ToLower(strings.TrimSpace(request.Email)),
		HashedPassword: hash,
		FirstName:      request.FirstName,
		LastName:       request.LastName,
		IsActive:       true,
	}

	if err := models.DB.Create(&user).Error; err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	c.JSON(http.StatusCreated, user)
}

// @Summary		Log in
// @Description	Authenticates with form-encoded credentials and returns an access token
// @Tags			Auth
// @Accept			x-www-form-urlencoded
// @Produce		json
// @Success		200			{object}	TokenResponse
// @Failure		401			{object}	httpError
// @Param			username	formData	string	true	"Email address"
// @Param			password	formData	string	true	"Password"
// @Router			/api/auth/login [post]
func Login(signer *auth.Signer) gin.HandlerFunc {
	return func(c *gin.Context) {
		var form loginForm
		if err := c.ShouldBind(&form); err != nil {
			c.JSON(http.StatusUnauthorized, httpError{Error: errIncorrectCredentials.Error()})
			return
		}

		issueToken(c, signer, form.Username, form.Password)
	}
}

// @Summary		Log in with JSON
// @Description	Authenticates with a JSON body and returns an access token
// @Tags			Auth
// @Accept			json
// @Produce		json
// @Success		200			{object}	TokenResponse
// @Failure		401			{object}	httpError
// @Param			credentials	body		loginJSON	true	"Credentials"
// @Router			/api/auth/login/json [post]
func LoginJSON(signer *auth.Signer) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body loginJSON
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusUnauthorized, httpError{Error: errIncorrectCredentials.Error()})
			return
		}

		issueToken(c, signer, body.Email, body.Password)
	}
}

// issueToken verifies the credentials and responds with a fresh access
// token. Every failure gets the same generic message so that the
// response does not reveal whether the email is registered.
func issueToken(c *gin.Context, signer *auth.Signer, email, password string) {
	var user models.User
	err := models.DB.Where("email = ?", strings.ToLower(strings.TrimSpace(email))).First(&user).Error
	if err != nil || !auth.CheckPassword(password, user.HashedPassword) {
		c.JSON(http.StatusUnauthorized, httpError{Error: errIncorrectCredentials.Error()})
		return
	}

	if !user.IsActive {
		c.JSON(http.StatusUnauthorized, httpError{Error: errIncorrectCredentials.Error()})
		return
	}

	token, err := signer.IssueAccess(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, httpError{Error: models.ErrGeneral.Error()})
		return
	}

	now := time.Now().In(time.UTC)
	err = models.DB.Model(&user).Update("last_login", &now).Error
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, TokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
	})
}

// @Summary		Request password reset
// @Description	Requests a password reset token for an email address. The response is identical whether or not the email is registered.
// @Tags			Auth
// @Accept			json
// @Produce		json
// @Success		200		{object}	messageResponse
// @Failure		400		{object}	httpError
// @Param			email	body		passwordResetRequest	true	"Email"
// @Router			/api/auth/password-reset/request [post]
func RequestPasswordReset(signer *auth.Signer, sender notifications.Sender) gin.HandlerFunc {
	return func(c *gin.Context) {
		var request passwordResetRequest
		if err := c.ShouldBindJSON(&request); err != nil {
			c.JSON(http.StatusBadRequest, httpError{Error: err.Error()})
			return
		}

		email := strings.ToLower(strings.TrimSpace(request.Email))

		var user models.User
		if err := models.DB.Where("email = ?", email).First(&user).Error; err == nil {
			if token, err := signer.IssuePasswordReset(user.Email); err == nil {
				// Fire and forget, delivery failures never fail the request
				go sender.PasswordReset(user.Email, token)
			}
		}

		c.JSON(http.StatusOK, messageResponse{
			Message: "if the email is registered, a password reset link has been sent",
		})
	}
}

// @Summary		Confirm password reset
// @Description	Sets a new password using a valid password reset token
// @Tags			Auth
// @Accept			json
// @Produce		json
// @Success		200		{object}	messageResponse
// @Failure		400		{object}	httpError
// @Param			reset	body		passwordResetConfirm	true	"Reset"
// @Router			/api/auth/password-reset/confirm [post]
func ConfirmPasswordReset(signer *auth.Signer) gin.HandlerFunc {
	return func(c *gin.Context) {
		var request passwordResetConfirm
		if err := c.ShouldBindJSON(&request); err != nil {
			c.JSON(http.StatusBadRequest, httpError{Error: err.Error()})
			return
		}

		if len(request.NewPassword) < 8 {
			c.JSON(http.StatusBadRequest, httpError{Error: errPasswordTooShort.Error()})
			return
		}

		email, err := signer.VerifyPasswordReset(request.Token)
		if err != nil {
			c.JSON(http.StatusBadRequest, httpError{Error: errInvalidReset.Error()})
			return
		}

		hash, err := auth.HashPassword(request.NewPassword)
		if err != nil {
			c.JSON(http.StatusInternalServerError, httpError{Error: models.ErrGeneral.Error()})
			return
		}

		err = models.DB.Transaction(func(tx *gorm.DB) error {
			var user models.User
			if err := tx.Where("email = ?", email).First(&user).Error; err != nil {
				return err
			}

			return tx.Model(&user).Update("hashed_password", hash).Error
		})
		if err != nil {
			c.JSON(status(err), httpError{Error: errInvalidReset.Error()})
			return
		}

		c.JSON(http.StatusOK, messageResponse{Message: "password updated successfully"})
	}
}
