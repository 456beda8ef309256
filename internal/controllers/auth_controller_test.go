package controllers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterReturnsTokenAndProjection(t *testing.T) {
	router := setupTestRouter(t)

	w := performJSON(router, http.MethodPost, "/auth/register", gin.H{
		"name":     "Alice",
		"email":    "Alice@X.com",
		"password": "pw123456",
	}, "")
	require.Equal(t, http.StatusCreated, w.Code)

	resp := decodeJSON(t, w)
	assert.NotEmpty(t, resp["access_token"])
	assert.Equal(t, "Bearer", resp["token_type"])

	user, ok := resp["user"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "Alice", user["name"])
	assert.Equal(t, "alice@x.com", user["email"])
	assert.NotContains(t, user, "password")
}

func TestRegisterAcceptsPaddedEmail(t *testing.T) {
	router := setupTestRouter(t)

	// Whitespace and casing are stripped by normalization, not rejected by
	// format validation.
	w := performJSON(router, http.MethodPost, "/auth/register", gin.H{
		"name":     "Bob",
		"email":    "  Bob@X.com  ",
		"password": "pw123456",
	}, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	user := decodeJSON(t, w)["user"].(map[string]interface{})
	assert.Equal(t, "bob@x.com", user["email"])
}

func TestLoginAcceptsPaddedEmail(t *testing.T) {
	router := setupTestRouter(t)

	w := performJSON(router, http.MethodPost, "/auth/register", gin.H{
		"name": "Alice", "email": "alice@x.com", "password": "pw123456",
	}, "")
	require.Equal(t, http.StatusCreated, w.Code)

	w = performJSON(router, http.MethodPost, "/auth/login", gin.H{
		"email": " ALICE@x.com ", "password": "pw123456",
	}, "")
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
}

func TestRegisterDuplicateEmail(t *testing.T) {
	router := setupTestRouter(t)

	w := performJSON(router, http.MethodPost, "/auth/register", gin.H{
		"name": "Alice", "email": "A@x.com", "password": "pw123456",
	}, "")
	require.Equal(t, http.StatusCreated, w.Code)

	// Same address with different casing and whitespace still conflicts.
	w = performJSON(router, http.MethodPost, "/auth/register", gin.H{
		"name": "Clone", "email": " a@x.com ", "password": "other-pw",
	}, "")
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "CONFLICT", decodeJSON(t, w)["code"])
}

func TestRegisterValidation(t *testing.T) {
	router := setupTestRouter(t)

	testCases := []struct {
		name string
		body gin.H
	}{
		{"missing name", gin.H{"email": "a@x.com", "password": "pw123456"}},
		{"missing email", gin.H{"name": "A", "password": "pw123456"}},
		{"malformed email", gin.H{"name": "A", "email": "nope", "password": "pw123456"}},
		{"short password", gin.H{"name": "A", "email": "a@x.com", "password": "pw"}},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			w := performJSON(router, http.MethodPost, "/auth/register", tt.body, "")
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestLoginSuccess(t *testing.T) {
	router := setupTestRouter(t)

	w := performJSON(router, http.MethodPost, "/auth/register", gin.H{
		"name": "Alice", "email": "alice@x.com", "password": "pw123456",
	}, "")
	require.Equal(t, http.StatusCreated, w.Code)
	registeredID := decodeJSON(t, w)["user"].(map[string]interface{})["id"]

	w = performJSON(router, http.MethodPost, "/auth/login", gin.H{
		"email": " ALICE@x.com ", "password": "pw123456",
	}, "")
	require.Equal(t, http.StatusOK, w.Code)

	resp := decodeJSON(t, w)
	assert.NotEmpty(t, resp["access_token"])
	assert.Equal(t, registeredID, resp["user"].(map[string]interface{})["id"])
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	router := setupTestRouter(t)

	w := performJSON(router, http.MethodPost, "/auth/register", gin.H{
		"name": "Alice", "email": "alice@x.com", "password": "pw123456",
	}, "")
	require.Equal(t, http.StatusCreated, w.Code)

	wrongPassword := performJSON(router, http.MethodPost, "/auth/login", gin.H{
		"email": "alice@x.com", "password": "wrong",
	}, "")
	unknownEmail := performJSON(router, http.MethodPost, "/auth/login", gin.H{
		"email": "nobody@x.com", "password": "pw123456",
	}, "")

	assert.Equal(t, http.StatusUnauthorized, wrongPassword.Code)
	assert.Equal(t, http.StatusUnauthorized, unknownEmail.Code)

	// Identical error shape for both failure modes.
	assert.JSONEq(t, wrongPassword.Body.String(), unknownEmail.Body.String())
}
