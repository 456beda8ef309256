package controllers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/rmartinsanz/gin-userbase-api/internal/auth"
	"github.com/rmartinsanz/gin-userbase-api/internal/middleware"
	"github.com/rmartinsanz/gin-userbase-api/internal/models"
	"github.com/rmartinsanz/gin-userbase-api/internal/services"
)

const (
	testAdminEmail    = "admin@example.com"
	testAdminPassword = "root-pw-123"
)

// setupTestRouter wires controllers, service and middleware exactly as the
// server entry point does, over an in-memory database with a seeded admin.
func setupTestRouter(t *testing.T) *gin.Engine {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}))

	svc := services.NewUserService(db, testAdminEmail)
	require.NoError(t, svc.EnsureAdmin("Administrator", testAdminEmail, testAdminPassword))

	issuer := auth.NewTokenIssuer("test-jwt-secret-key-32-characters", time.Hour)
	authController := NewAuthController(svc, issuer)
	userController := NewUserController(svc)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	authApi := router.Group("/auth")
	authApi.POST("/register", authController.Register)
	authApi.POST("/login", authController.Login)

	usersApi := authApi.Group("/users")
	usersApi.Use(middleware.JWTAuth(issuer))
	usersApi.GET("", userController.ListUsers)
	usersApi.GET("/:id", userController.GetUser)
	usersApi.POST("", userController.CreateUser)
	usersApi.PUT("/:id", userController.UpdateUser)
	usersApi.DELETE("/:id", userController.DeleteUser)

	return router
}

// performJSON sends a JSON request through the router, attaching the bearer
// token when non-empty.
func performJSON(router *gin.Engine, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeJSON(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

// loginAs returns a bearer token for the given credentials.
func loginAs(t *testing.T, router *gin.Engine, email, password string) string {
	w := performJSON(router, http.MethodPost, "/auth/login", gin.H{
		"email":    email,
		"password": password,
	}, "")
	require.Equal(t, http.StatusOK, w.Code, "login as %s failed: %s", email, w.Body.String())

	resp := decodeJSON(t, w)
	token, _ := resp["access_token"].(string)
	require.NotEmpty(t, token)
	return token
}
