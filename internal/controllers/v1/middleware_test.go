package v1_test

import (
	"net/http"

	"github.com/stretchr/testify/assert"

	"github.com/expensetrackr/backend/internal/models"
	"github.com/expensetrackr/backend/test"
)

func (suite *TestSuiteStandard) TestMissingToken() {
	recorder := test.Request(suite.T(), http.MethodGet, "/api/users/me", nil)

	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusUnauthorized)
	assert.Contains(suite.T(), recorder.Body.String(), "could not validate credentials")
}

func (suite *TestSuiteStandard) TestGarbageToken() {
	for _, header := range []map[string]string{
		{"Authorization": "Bearer not-a-token"},
		{"Authorization": "Basic dXNlcjpwYXNz"},
		{"Authorization": "Bearer "},
	} {
		recorder := test.Request(suite.T(), http.MethodGet, "/api/users/me", nil, header)
		test.AssertHTTPStatus(suite.T(), &recorder, http.StatusUnauthorized)
	}
}

// An expired token is rejected on every protected endpoint with the
// same error as a missing one.
func (suite *TestSuiteStandard) TestExpiredToken() {
	suite.T().Setenv("ACCESS_TOKEN_EXPIRE_MINUTES", "-5")

	// Logging in still succeeds, the token is just already expired
	user := suite.registerTestUser()
	token := suite.login(user.Email)

	for _, path := range []string{
		"/api/users/me",
		"/api/categories",
		"/api/expenses",
		"/api/budgets",
		"/api/reports/csv",
	} {
		recorder := test.Request(suite.T(), http.MethodGet, path, nil, test.BearerHeader(token))
		test.AssertHTTPStatus(suite.T(), &recorder, http.StatusUnauthorized)
		assert.Contains(suite.T(), recorder.Body.String(), "could not validate credentials", "path %s", path)
	}
}

func (suite *TestSuiteStandard) TestDeletedPrincipal() {
	user, token := suite.authenticatedUser()

	err := models.DB.Delete(&models.User{}, user.ID).Error
	assert.Nil(suite.T(), err)

	recorder := test.Request(suite.T(), http.MethodGet, "/api/users/me", nil, test.BearerHeader(token))
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusNotFound)
	assert.Contains(suite.T(), recorder.Body.String(), "user not found")
}

func (suite *TestSuiteStandard) TestInactivePrincipal() {
	user, token := suite.authenticatedUser()

	err := models.DB.Model(&models.User{}).Where("id = ?", user.ID).Update("is_active", false).Error
	assert.Nil(suite.T(), err)

	recorder := test.Request(suite.T(), http.MethodGet, "/api/users/me", nil, test.BearerHeader(token))
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusForbidden)
	assert.Contains(suite.T(), recorder.Body.String(), "inactive user")
}

func (suite *TestSuiteStandard) TestAdminGate() {
	_, token := suite.authenticatedUser()

	for _, path := range []string{
		"/api/users",
		"/api/expenses/admin/all",
	} {
		recorder := test.Request(suite.T(), http.MethodGet, path, nil, test.BearerHeader(token))
		test.AssertHTTPStatus(suite.T(), &recorder, http.StatusForbidden)
		assert.Contains(suite.T(), recorder.Body.String(), "insufficient permissions", "path %s", path)
	}
}
