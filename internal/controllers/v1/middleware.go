package v1

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/expensetrackr/backend/internal/auth"
	"github.com/expensetrackr/backend/internal/models"
)

const principalKey = "principal"

// Authenticate resolves the acting user from the Authorization header.
//
// The gates are checked in order and each one is terminal: token
// validity (401), principal existence (404), account active (403).
// Handlers behind this middleware can rely on principal(c) being set.
func Authenticate(signer *auth.Signer) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			abort(c, http.StatusUnauthorized, errCouldNotValidate)
			return
		}

		userID, err := signer.VerifyAccess(token)
		if err != nil {
			abort(c, http.StatusUnauthorized, errCouldNotValidate)
			return
		}

		var user models.User
		err = models.DB.First(&user, userID).Error
		if err != nil {
			abort(c, http.StatusNotFound, errUserNotFound)
			return
		}

		if !user.IsActive {
			abort(c, http.StatusForbidden, errInactiveUser)
			return
		}

		c.Set(principalKey, user)
		c.Next()
	}
}

// RequireAdmin rejects requests by principals without the admin flag.
// It must run after Authenticate.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !principal(c).IsAdmin {
			abort(c, http.StatusForbidden, errNotAdmin)
			return
		}

		c.Next()
	}
}

// principal returns the authenticated user set by Authenticate.
func principal(c *gin.Context) models.User {
	return c.MustGet(principalKey).(models.User)
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}

	return strings.TrimSpace(token)
}

func abort(c *gin.Context, code int, err error) {
	c.AbortWithStatusJSON(code, httpError{Error: err.Error()})
}
