package v1

import (
	"errors"
	"net/http"

	"github.com/expensetrackr/backend/internal/models"
)

type httpError struct {
	Error string `json:"error" example:"there is no expense matching your query"`
}

// status returns the appropriate status for a database error
func status(err error) int {
	if errors.Is(err, models.ErrGeneral) {
		return http.StatusInternalServerError
	}

	if errors.Is(err, models.ErrResourceNotFound) {
		return http.StatusNotFound
	}

	return http.StatusBadRequest
}

// Login errors. The message never reveals whether the email exists.
var errIncorrectCredentials = errors.New("incorrect email or password")

// Access control errors
var (
	errCouldNotValidate = errors.New("could not validate credentials")
	errUserNotFound     = errors.New("user not found")
	errInactiveUser     = errors.New("inactive user")
	errNotAdmin         = errors.New("insufficient permissions")
)

// User errors
var (
	errSelfDelete       = errors.New("admins cannot delete their own account")
	errInvalidReset     = errors.New("the password reset token is invalid or expired")
	errPasswordTooShort = errors.New("the password must be at least 8 characters long")
)

// Report errors
var errYearRequired = errors.New("the year query parameter must be set")
