package handler

import (
	"net/http"
	"time"

	"inventory-service/internal/model"
	"inventory-service/pkg/database"
	"inventory-service/pkg/jwtutil"
	"inventory-service/pkg/logger"
	"inventory-service/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// RegisterRequest defines the structure for account creation requests
type RegisterRequest struct {
	Username string `json:"username" validate:"required"`
	Email    string `json:"email"`
	Password string `json:"password" validate:"required"`
}

// LoginRequest defines the structure for login requests
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Register creates a new operator account
func Register(c echo.Context) error {
	log := logger.FromContext(c)

	var req RegisterRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}

	if req.Username == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "username and password are required"})
	}

	// Check if username is taken
	var count int64
	database.GetDB().Model(&model.User{}).Where("username = ?", req.Username).Count(&count)
	if count > 0 {
		log.Warn("Username already taken", zap.String("username", req.Username))
		return c.JSON(http.StatusConflict, echo.Map{"error": "Username already taken"})
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Error("Failed to hash password", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to create account"})
	}

	user := model.User{
		Username: req.Username,
		Email:    req.Email,
		Password: string(hashed),
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())

	if result := database.GetDB().Create(&user); result.Error != nil {
		log.Error("Failed to create user", zap.String("username", req.Username), zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to create account"})
	}

	log.Info("User registered", zap.Uint("id", user.ID), zap.String("username", user.Username))
	return c.JSON(http.StatusCreated, echo.Map{
		"id":       user.ID,
		"username": user.Username,
		"email":    user.Email,
	})
}

// Login verifies credentials and issues a JWT token
func Login(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.AuthAttemptsCounter.Inc()

	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}

	defer prometheus.TrackDBOperation("query")(time.Now())

	var user model.User
	result := database.GetDB().Where("username = ?", req.Username).First(&user)
	if result.Error != nil {
		log.Warn("User not found", zap.String("username", req.Username))
		prometheus.AuthErrorsCounter.Inc()
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		log.Warn("Invalid password", zap.String("username", req.Username))
		prometheus.AuthErrorsCounter.Inc()
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}

	token, err := jwtutil.GenerateToken(user.Username, user.Email, user.ID)
	if err != nil {
		log.Error("Failed to generate token", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "token error"})
	}

	prometheus.AuthSuccessCounter.Inc()
	log.Info("User logged in", zap.String("username", user.Username))

	return c.JSON(http.StatusOK, echo.Map{
		"token": token,
		"user": echo.Map{
			"id":       user.ID,
			"username": user.Username,
			"email":    user.Email,
		},
	})
}
