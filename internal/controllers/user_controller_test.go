package controllers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserEndpointsRequireToken(t *testing.T) {
	router := setupTestRouter(t)

	testCases := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/auth/users"},
		{http.MethodGet, "/auth/users/1"},
		{http.MethodPost, "/auth/users"},
		{http.MethodPut, "/auth/users/1"},
		{http.MethodDelete, "/auth/users/1"},
	}

	for _, tt := range testCases {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			w := performJSON(router, tt.method, tt.path, nil, "")
			assert.Equal(t, http.StatusUnauthorized, w.Code)
		})
	}
}

func TestListUsersReturnsProjections(t *testing.T) {
	router := setupTestRouter(t)
	token := loginAs(t, router, testAdminEmail, testAdminPassword)

	w := performJSON(router, http.MethodPost, "/auth/register", gin.H{
		"name": "Alice", "email": "alice@x.com", "password": "pw123456",
	}, "")
	require.Equal(t, http.StatusCreated, w.Code)

	w = performJSON(router, http.MethodGet, "/auth/users", nil, token)
	require.Equal(t, http.StatusOK, w.Code)

	body := w.Body.String()
	assert.Contains(t, body, "alice@x.com")
	assert.Contains(t, body, testAdminEmail)
	assert.NotContains(t, body, "password")
}

func TestCreateGetUpdateDeleteFlow(t *testing.T) {
	router := setupTestRouter(t)
	token := loginAs(t, router, testAdminEmail, testAdminPassword)

	// Create
	w := performJSON(router, http.MethodPost, "/auth/users", gin.H{
		"name": "Bob", "email": "bob@x.com", "password": "pw123456",
	}, token)
	require.Equal(t, http.StatusCreated, w.Code)
	created := decodeJSON(t, w)
	bobID := uint(created["id"].(float64))
	assert.Equal(t, "bob@x.com", created["email"])

	// Get
	w = performJSON(router, http.MethodGet, fmt.Sprintf("/auth/users/%d", bobID), nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Bob", decodeJSON(t, w)["name"])

	// Update name only; the old password keeps working
	w = performJSON(router, http.MethodPut, fmt.Sprintf("/auth/users/%d", bobID), gin.H{
		"name": "Robert",
	}, token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Robert", decodeJSON(t, w)["name"])
	loginAs(t, router, "bob@x.com", "pw123456")

	// Update password; login now requires the new one
	w = performJSON(router, http.MethodPut, fmt.Sprintf("/auth/users/%d", bobID), gin.H{
		"password": "new-pw-789",
	}, token)
	require.Equal(t, http.StatusOK, w.Code)

	failed := performJSON(router, http.MethodPost, "/auth/login", gin.H{
		"email": "bob@x.com", "password": "pw123456",
	}, "")
	assert.Equal(t, http.StatusUnauthorized, failed.Code)
	loginAs(t, router, "bob@x.com", "new-pw-789")

	// Delete, then the user is gone
	w = performJSON(router, http.MethodDelete, fmt.Sprintf("/auth/users/%d", bobID), nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "user deleted", decodeJSON(t, w)["message"])

	w = performJSON(router, http.MethodGet, fmt.Sprintf("/auth/users/%d", bobID), nil, token)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestProtectedAdminAccount(t *testing.T) {
	router := setupTestRouter(t)
	token := loginAs(t, router, testAdminEmail, testAdminPassword)

	// Locate the admin's id through the list endpoint
	w := performJSON(router, http.MethodGet, "/auth/users", nil, token)
	require.Equal(t, http.StatusOK, w.Code)

	var users []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &users))
	var adminID uint
	for _, u := range users {
		if u["email"] == testAdminEmail {
			adminID = uint(u["id"].(float64))
		}
	}
	require.NotZero(t, adminID)

	// Creating an account with the admin email is refused
	w = performJSON(router, http.MethodPost, "/auth/users", gin.H{
		"name": "Impostor", "email": testAdminEmail, "password": "pw123456",
	}, token)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// So are update and delete of the admin row, even by the admin itself
	w = performJSON(router, http.MethodPut, fmt.Sprintf("/auth/users/%d", adminID), gin.H{
		"name": "Renamed",
	}, token)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = performJSON(router, http.MethodDelete, fmt.Sprintf("/auth/users/%d", adminID), nil, token)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// The record is unchanged and the admin can still log in
	w = performJSON(router, http.MethodGet, fmt.Sprintf("/auth/users/%d", adminID), nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Administrator", decodeJSON(t, w)["name"])
	loginAs(t, router, testAdminEmail, testAdminPassword)
}

func TestCreateAndUpdateNormalizePaddedEmail(t *testing.T) {
	router := setupTestRouter(t)
	token := loginAs(t, router, testAdminEmail, testAdminPassword)

	w := performJSON(router, http.MethodPost, "/auth/users", gin.H{
		"name": "Bob", "email": " Bob@X.com ", "password": "pw123456",
	}, token)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decodeJSON(t, w)
	assert.Equal(t, "bob@x.com", created["email"])
	bobID := uint(created["id"].(float64))

	w = performJSON(router, http.MethodPut, fmt.Sprintf("/auth/users/%d", bobID), gin.H{
		"email": "  Robert@Example.COM  ",
	}, token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "robert@example.com", decodeJSON(t, w)["email"])

	// A malformed address is still rejected after normalization.
	w = performJSON(router, http.MethodPut, fmt.Sprintf("/auth/users/%d", bobID), gin.H{
		"email": "  not-an-address  ",
	}, token)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateDuplicateEmailConflicts(t *testing.T) {
	router := setupTestRouter(t)
	token := loginAs(t, router, testAdminEmail, testAdminPassword)

	w := performJSON(router, http.MethodPost, "/auth/users", gin.H{
		"name": "Bob", "email": "bob@x.com", "password": "pw123456",
	}, token)
	require.Equal(t, http.StatusCreated, w.Code)

	w = performJSON(router, http.MethodPost, "/auth/users", gin.H{
		"name": "Bob Clone", "email": "BOB@x.com", "password": "pw123456",
	}, token)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestInvalidUserID(t *testing.T) {
	router := setupTestRouter(t)
	token := loginAs(t, router, testAdminEmail, testAdminPassword)

	w := performJSON(router, http.MethodGet, "/auth/users/not-a-number", nil, token)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// TestRegisterThenAdminDeletes covers the end-to-end scenario: a user signs up,
// a separately authenticated admin removes the account, and the id is gone.
func TestRegisterThenAdminDeletes(t *testing.T) {
	router := setupTestRouter(t)

	w := performJSON(router, http.MethodPost, "/auth/register", gin.H{
		"name": "Alice", "email": "alice@x.com", "password": "pw123456",
	}, "")
	require.Equal(t, http.StatusCreated, w.Code)
	aliceID := uint(decodeJSON(t, w)["user"].(map[string]interface{})["id"].(float64))

	adminToken := loginAs(t, router, testAdminEmail, testAdminPassword)

	w = performJSON(router, http.MethodGet, "/auth/users", nil, adminToken)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "alice@x.com")

	w = performJSON(router, http.MethodDelete, fmt.Sprintf("/auth/users/%d", aliceID), nil, adminToken)
	require.Equal(t, http.StatusOK, w.Code)

	w = performJSON(router, http.MethodGet, fmt.Sprintf("/auth/users/%d", aliceID), nil, adminToken)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
