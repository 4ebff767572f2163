package v1_test

import (
	"net/http"

	"github.com/stretchr/testify/assert"

	"github.com/expensetrackr/backend/internal/models"
	"github.com/expensetrackr/backend/test"
)

func (suite *TestSuiteStandard) TestCategoryCRUD() {
	_, token := suite.authenticatedUser()

	category := suite.createTestCategory(token, "Food")
	assert.Equal(suite.T(), "Food", category.Name)
	assert.Equal(suite.T(), "#3498db", category.Color)

	// Read
	recorder := test.Request(suite.T(), http.MethodGet, idPath("/api/categories", category.ID), nil, test.BearerHeader(token))
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	// Update one field, the others stay
	recorder = test.Request(suite.T(), http.MethodPut, idPath("/api/categories", category.ID), map[string]string{
		"color": "#4CAF50",
	}, test.BearerHeader(token))
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	var updated models.Category
	test.DecodeResponse(suite.T(), &recorder, &updated)
	assert.Equal(suite.T(), "#4CAF50", updated.Color)
	assert.Equal(suite.T(), "Food", updated.Name)

	// Delete
	recorder = test.Request(suite.T(), http.MethodDelete, idPath("/api/categories", category.ID), nil, test.BearerHeader(token))
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusNoContent)

	recorder = test.Request(suite.T(), http.MethodGet, idPath("/api/categories", category.ID), nil, test.BearerHeader(token))
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusNotFound)
}

func (suite *TestSuiteStandard) TestCategoryListOrderedByName() {
	_, token := suite.authenticatedUser()

	suite.createTestCategory(token, "Travel")
	suite.createTestCategory(token, "Food")

	recorder := test.Request(suite.T(), http.MethodGet, "/api/categories", nil, test.BearerHeader(token))
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	var categories []models.Category
	test.DecodeResponse(suite.T(), &recorder, &categories)
	assert.Len(suite.T(), categories, 2)
	assert.Equal(suite.T(), "Food", categories[0].Name)
	assert.Equal(suite.T(), "Travel", categories[1].Name)
}

func (suite *TestSuiteStandard) TestCategoryDefaultsSeedingIsIdempotent() {
	_, token := suite.authenticatedUser()

	// The user already has a category whose name collides with a default,
	// differing only in case
	suite.createTestCategory(token, "GROCERIES")

	first := test.Request(suite.T(), http.MethodPost, "/api/categories/defaults", nil, test.BearerHeader(token))
	test.AssertHTTPStatus(suite.T(), &first, http.StatusCreated)

	var created []models.Category
	test.DecodeResponse(suite.T(), &first, &created)
	assert.Len(suite.T(), created, 9, "the colliding default must be skipped")

	// A second call creates nothing
	second := test.Request(suite.T(), http.MethodPost, "/api/categories/defaults", nil, test.BearerHeader(token))
	test.AssertHTTPStatus(suite.T(), &second, http.StatusCreated)

	test.DecodeResponse(suite.T(), &second, &created)
	assert.Empty(suite.T(), created)

	var count int64
	models.DB.Model(&models.Category{}).Count(&count)
	assert.Equal(suite.T(), int64(10), count)
}

func (suite *TestSuiteStandard) TestCategoryDeleteBlockedWhileInUse() {
	_, token := suite.authenticatedUser()

	category := suite.createTestCategory(token, "Food")
	suite.createTestExpense(token, category.ID, "14.50", "2024-03-05T00:00:00Z")

	recorder := test.Request(suite.T(), http.MethodDelete, idPath("/api/categories", category.ID), nil, test.BearerHeader(token))
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusBadRequest)
	assert.Contains(suite.T(), recorder.Body.String(), "cannot be deleted")
}

// Cross-user access is indistinguishable from a missing resource.
func (suite *TestSuiteStandard) TestCategoryCrossUserIsNotFound() {
	_, ownerToken := suite.authenticatedUser()
	_, strangerToken := suite.authenticatedUser()

	category := suite.createTestCategory(ownerToken, "Food")

	for _, tt := range []struct {
		method string
		body   any
	}{
		{http.MethodGet, nil},
		{http.MethodPut, map[string]string{"name": "Hijacked"}},
		{http.MethodDelete, nil},
	} {
		recorder := test.Request(suite.T(), tt.method, idPath("/api/categories", category.ID), tt.body, test.BearerHeader(strangerToken))
		test.AssertHTTPStatus(suite.T(), &recorder, http.StatusNotFound)
		assert.NotContains(suite.T(), recorder.Body.String(), "Food")
	}
}
