package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"github.com/rmartinsanz/gin-userbase-api/internal/auth"
	"github.com/rmartinsanz/gin-userbase-api/internal/models"
	"github.com/rmartinsanz/gin-userbase-api/internal/services"
)

// TokenResponse is the payload returned by register and login.
type TokenResponse struct {
	AccessToken string                `json:"access_token"`
	TokenType   string                `json:"token_type"`
	ExpiresIn   int64                 `json:"expires_in"`
	User        models.UserProjection `json:"user"`
}

// AuthController handles registration and login.
type AuthController struct {
	userService services.UserService
	issuer      *auth.TokenIssuer
}

// NewAuthController creates a new instance of AuthController
func NewAuthController(userService services.UserService, issuer *auth.TokenIssuer) *AuthController {
	return &AuthController{
		userService: userService,
		issuer:      issuer,
	}
}

// Register godoc
// @Summary Register a new account
// @Description Create an account and receive a bearer token for it
// @Tags auth
// @Accept json
// @Produce json
// @Param credentials body object{name=string,email=string,password=string} true "New account"
// @Success 201 {object} controllers.TokenResponse
// @Failure 400 {object} models.APIError
// @Failure 409 {object} models.APIError
// @Failure 500 {object} models.APIError
// @Router /auth/register [post]
func (ac *AuthController) Register(c *gin.Context) {
	var req struct {
		Name     string `json:"name" binding:"required"`
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required,min=6"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.NewAPIError(models.ErrValidationFailed, err.Error()))
		return
	}

	email, err := normalizeEmailInput(req.Email)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.NewAPIError(models.ErrValidationFailed, err.Error()))
		return
	}

	user, err := ac.userService.Register(req.Name, email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrEmailTaken):
			c.JSON(http.StatusConflict, models.NewAPIError(models.ErrConflict, "Email already exists"))
		case errors.Is(err, services.ErrProtectedUser):
			c.JSON(http.StatusForbidden, models.NewAPIError(models.ErrForbidden, err.Error()))
		default:
			log.WithError(err).Error("Registration failed")
			c.JSON(http.StatusInternalServerError, models.NewAPIError(models.ErrInternalServer, "Failed to register user"))
		}
		return
	}

	ac.respondWithToken(c, http.StatusCreated, user)
}

// Login godoc
// @Summary Log in
// @Description Exchange email and password for a bearer token
// @Tags auth
// @Accept json
// @Produce json
// @Param credentials body object{email=string,password=string} true "Credentials"
// @Success 200 {object} controllers.TokenResponse
// @Failure 400 {object} models.APIError
// @Failure 401 {object} models.APIError
// @Failure 500 {object} models.APIError
// @Router /auth/login [post]
func (ac *AuthController) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.NewAPIError(models.ErrValidationFailed, err.Error()))
		return
	}

	email, err := normalizeEmailInput(req.Email)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.NewAPIError(models.ErrValidationFailed, err.Error()))
		return
	}

	user, err := ac.userService.Authenticate(email, req.Password)
	if err != nil {
		c.JSON(http.StatusUnauthorized, models.NewAPIError(models.ErrUnauthorized, "Invalid credentials"))
		return
	}

	ac.respondWithToken(c, http.StatusOK, user)
}

// respondWithToken issues a fresh token for the user and writes the response
func (ac *AuthController) respondWithToken(c *gin.Context, status int, user *models.User) {
	tokenString, err := ac.issuer.Issue(user)
	if err != nil {
		log.WithError(err).Error("Token generation failed")
		c.JSON(http.StatusInternalServerError, models.NewAPIError(models.ErrInternalServer, "Failed to generate token"))
		return
	}

	c.JSON(status, TokenResponse{
		AccessToken: tokenString,
		TokenType:   "Bearer",
		ExpiresIn:   int64(ac.issuer.TTL().Seconds()),
		User:        user.Projection(),
	})
}
