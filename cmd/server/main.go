package main

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	_ "github.com/rmartinsanz/gin-userbase-api/docs" // Import generated docs
	"github.com/rmartinsanz/gin-userbase-api/internal/auth"
	"github.com/rmartinsanz/gin-userbase-api/internal/config"
	"github.com/rmartinsanz/gin-userbase-api/internal/controllers"
	"github.com/rmartinsanz/gin-userbase-api/internal/database"
	"github.com/rmartinsanz/gin-userbase-api/internal/middleware"
	"github.com/rmartinsanz/gin-userbase-api/internal/models"
	"github.com/rmartinsanz/gin-userbase-api/internal/services"
)

var (
	db             *gorm.DB
	configuration  *config.Config
	tokenIssuer    *auth.TokenIssuer
	userService    services.UserService
	authController *controllers.AuthController
	userController controllers.UserController
)

// @title Userbase API
// @version 1.0
// @description A credential-management API: registration, login and user administration
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	// Load environment variables
	loadDotenvFile()

	// Initialize logger
	setUpLogger()

	// Load configuration
	configuration = loadConfig()

	// Initialize database connection
	setupDatabase(configuration)

	// Initialize token issuer, services and controllers
	tokenIssuer = auth.NewTokenIssuer(configuration.JWTSecret, time.Duration(configuration.TokenTTLMinutes)*time.Minute)
	userService = services.NewUserService(db, configuration.AdminEmail)
	authController = controllers.NewAuthController(userService, tokenIssuer)
	userController = controllers.NewUserController(userService)

	// Seed the protected admin account
	seedAdminAccount()

	// Initialize Gin router
	var router *gin.Engine = setupRouter()

	// Start the server
	log.Infof("Starting server on %s:%d", configuration.Host, configuration.Port)
	router.Run(fmt.Sprintf("%v:%d", configuration.Host, configuration.Port))
}

// checkPanicErr checks if an error occurred and panics if it did
func checkPanicErr(err error) {
	if err != nil {
		panic(err)
	}
}

// loadDotenvFile loads environment variables from a .env file
// If the file is not found, it will log a warning and use system environment variables
func loadDotenvFile() {
	if err := godotenv.Load(); err != nil {
		log.Warn("No .env file found, using system environment variables")
	}
}

// setUpLogger initializes the logger with a JSON formatter and sets the log level based on the environment
func setUpLogger() {
	log.SetFormatter(&log.JSONFormatter{})
	environment := config.GetEnvWithDefault("APP_ENV", "development")
	switch environment {
	case "development":
		log.SetLevel(log.DebugLevel)
	case "production":
		log.SetLevel(log.ErrorLevel)
	default:
		log.SetLevel(log.InfoLevel)
	}
}

// loadConfig loads the application configuration from environment variables
// It returns a Config struct or panics if there is an error
func loadConfig() *config.Config {
	conf, err := config.LoadConfig()
	checkPanicErr(err)
	return conf
}

// setupDatabase initializes the database connection and migrates the schema
func setupDatabase(conf *config.Config) *gorm.DB {
	var err error
	db, err = database.InitDatabase(database.DatabaseConfig{
		Driver:   conf.DBDriver,
		Host:     conf.DBHost,
		Port:     conf.DBPort,
		User:     conf.DBUser,
		Password: conf.DBPassword,
		Name:     conf.DBName,
		SSLMode:  conf.DBSSLMode,
		Path:     conf.DBPath,
	})
	checkPanicErr(err)

	// Migrate the schema
	err = db.AutoMigrate(&models.User{})
	checkPanicErr(err)

	return db
}

// seedAdminAccount creates the protected admin account on first start
func seedAdminAccount() {
	err := userService.EnsureAdmin(configuration.AdminName, configuration.AdminEmail, configuration.AdminPassword)
	checkPanicErr(err)
}

// setupRouter initializes the Gin router and sets up the routes
// It returns the configured router
func setupRouter() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.RequestLogger(log.StandardLogger()))

	// Define routes
	setupRoutes(router)

	return router
}

// setupRoutes defines the routes for the Gin router
func setupRoutes(router *gin.Engine) {
	// Health check endpoint
	router.GET("/health", healthCheckHandler)

	authApi := router.Group("/auth")
	{
		// Public credential endpoints
		authApi.POST("/register", authController.Register)
		authApi.POST("/login", authController.Login)

		// User management requires a valid bearer token
		usersApi := authApi.Group("/users")
		usersApi.Use(middleware.JWTAuth(tokenIssuer))
		{
			usersApi.GET("", userController.ListUsers)
			usersApi.GET("/:id", userController.GetUser)
			usersApi.POST("", userController.CreateUser)
			usersApi.PUT("/:id", userController.UpdateUser)
			usersApi.DELETE("/:id", userController.DeleteUser)
		}
	}

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}

// healthCheckHandler handles the health check endpoint
// @Summary Health check
// @Description Check if the service is running
// @Tags health
// @Accept json
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func healthCheckHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"service":   "gin-userbase-api",
	})
}
