package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"github.com/rmartinsanz/gin-userbase-api/internal/models"
	"github.com/rmartinsanz/gin-userbase-api/internal/services"
)

// UserController handles the bearer-protected user management endpoints
type UserController interface {
	// ListUsers retrieves all users
	ListUsers(c *gin.Context)
	// GetUser retrieves a user by its ID
	GetUser(c *gin.Context)
	// CreateUser creates a new user
	CreateUser(c *gin.Context)
	// UpdateUser updates an existing user
	UpdateUser(c *gin.Context)
	// DeleteUser deletes a user by its ID
	DeleteUser(c *gin.Context)
}

type userController struct {
	service services.UserService
}

// NewUserController creates a new instance of UserController
func NewUserController(service services.UserService) *userController {
	return &userController{service: service}
}

// ListUsers godoc
// @Summary List users
// @Description Get the safe projection of every user
// @Tags users
// @Produce json
// @Success 200 {array} models.UserProjection
// @Failure 401 {object} models.APIError
// @Failure 500 {object} models.APIError
// @Security BearerAuth
// @Router /auth/users [get]
func (uc *userController) ListUsers(c *gin.Context) {
	users, err := uc.service.ListUsers()
	if err != nil {
		log.WithError(err).Error("Failed to list users")
		c.JSON(http.StatusInternalServerError, models.NewAPIError(models.ErrInternalServer, "Failed to retrieve users"))
		return
	}

	projections := make([]models.UserProjection, 0, len(users))
	for i := range users {
		projections = append(projections, users[i].Projection())
	}
	c.JSON(http.StatusOK, projections)
}

// GetUser godoc
// @Summary Get a user
// @Description Get a single user by its ID
// @Tags users
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} models.UserProjection
// @Failure 400 {object} models.APIError
// @Failure 401 {object} models.APIError
// @Failure 404 {object} models.APIError
// @Security BearerAuth
// @Router /auth/users/{id} [get]
func (uc *userController) GetUser(c *gin.Context) {
	id, ok := parseUserID(c)
	if !ok {
		return
	}

	user, err := uc.service.GetUser(id)
	if err != nil {
		uc.respondWithServiceError(c, err, "Failed to retrieve user")
		return
	}
	c.JSON(http.StatusOK, user.Projection())
}

// CreateUser godoc
// @Summary Create a user
// @Description Create a user account on behalf of an operator
// @Tags users
// @Accept json
// @Produce json
// @Param user body object{name=string,email=string,password=string} true "New user"
// @Success 201 {object} models.UserProjection
// @Failure 400 {object} models.APIError
// @Failure 401 {object} models.APIError
// @Failure 403 {object} models.APIError
// @Failure 409 {object} models.APIError
// @Security BearerAuth
// @Router /auth/users [post]
func (uc *userController) CreateUser(c *gin.Context) {
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

	user, err := uc.service.CreateUser(req.Name, email, req.Password)
	if err != nil {
		uc.respondWithServiceError(c, err, "Failed to create user")
		return
	}
	c.JSON(http.StatusCreated, user.Projection())
}

// UpdateUser godoc
// @Summary Update a user
// @Description Update a user's name, email and optionally password
// @Tags users
// @Accept json
// @Produce json
// @Param id path int true "User ID"
// @Param user body object{name=string,email=string,password=string} true "Fields to update"
// @Success 200 {object} models.UserProjection
// @Failure 400 {object} models.APIError
// @Failure 401 {object} models.APIError
// @Failure 403 {object} models.APIError
// @Failure 404 {object} models.APIError
// @Failure 409 {object} models.APIError
// @Security BearerAuth
// @Router /auth/users/{id} [put]
func (uc *userController) UpdateUser(c *gin.Context) {
	id, ok := parseUserID(c)
	if !ok {
		return
	}

	var req struct {
		Name     *string `json:"name"`
		Email    *string `json:"email"`
		Password *string `json:"password" binding:"omitempty,min=6"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.NewAPIError(models.ErrValidationFailed, err.Error()))
		return
	}

	if req.Email != nil {
		email, err := normalizeEmailInput(*req.Email)
		if err != nil {
			c.JSON(http.StatusBadRequest, models.NewAPIError(models.ErrValidationFailed, err.Error()))
			return
		}
		req.Email = &email
	}

	user, err := uc.service.UpdateUser(id, services.UserUpdate{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		uc.respondWithServiceError(c, err, "Failed to update user")
		return
	}
	c.JSON(http.StatusOK, user.Projection())
}

// DeleteUser godoc
// @Summary Delete a user
// @Description Delete a user by its ID
// @Tags users
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} models.APIError
// @Failure 401 {object} models.APIError
// @Failure 403 {object} models.APIError
// @Failure 404 {object} models.APIError
// @Security BearerAuth
// @Router /auth/users/{id} [delete]
func (uc *userController) DeleteUser(c *gin.Context) {
	id, ok := parseUserID(c)
	if !ok {
		return
	}

	user, err := uc.service.DeleteUser(id)
	if err != nil {
		uc.respondWithServiceError(c, err, "Failed to delete user")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "user deleted",
		"user":    user.Projection(),
	})
}

// parseUserID reads the :id path parameter. On failure it writes the error
// response and returns ok=false.
func parseUserID(c *gin.Context) (uint, bool) {
	raw := c.Param("id")
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.NewAPIError(models.ErrBadRequest, "Invalid user ID format"))
		return 0, false
	}
	return uint(id), true
}

// respondWithServiceError maps service sentinel errors onto the HTTP taxonomy
func (uc *userController) respondWithServiceError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, services.ErrUserNotFound):
		c.JSON(http.StatusNotFound, models.NewAPIError(models.ErrNotFound, "User not found"))
	case errors.Is(err, services.ErrProtectedUser):
		c.JSON(http.StatusForbidden, models.NewAPIError(models.ErrForbidden, err.Error()))
	case errors.Is(err, services.ErrEmailTaken):
		c.JSON(http.StatusConflict, models.NewAPIError(models.ErrConflict, "Email already exists"))
	default:
		log.WithError(err).Error(fallback)
		c.JSON(http.StatusInternalServerError, models.NewAPIError(models.ErrInternalServer, fallback))
	}
}
