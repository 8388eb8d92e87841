package jwtutil

import (
	"errors"
	"fmt"
	"time"

	"inventory-service/pkg/config"

	"github.com/golang-jwt/jwt/v5"
)

var jwtConfig *config.JWTConfig

// UserClaims extends jwt.RegisteredClaims with operator identity
type UserClaims struct {
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
	UserID   uint   `json:"user_id"`
	jwt.RegisteredClaims
}

// Initialize sets up the JWT utility with configuration
func Initialize(config *config.JWTConfig) {
	jwtConfig = config
}

// GenerateToken creates a new JWT token for a user
func GenerateToken(username, email string, userID uint) (string, error) {
	if jwtConfig == nil {
		return "", errors.New("JWT configuration not initialized")
	}

	// Get signing key from configuration
	signingKey := jwtConfig.SigningKey

	// Token expiration time from configuration
	expirationHours := jwtConfig.ExpirationHours

	// Create the claims
	claims := &UserClaims{
		Username: username,
		Email:    email,
		UserID:   userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Duration(expirationHours) * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	// Create token
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	// Generate encoded token
	return token.SignedString([]byte(signingKey))
}

// ValidateToken validates the token and returns the claims
func ValidateToken(tokenString string) (*UserClaims, error) {
	if jwtConfig == nil {
		return nil, errors.New("JWT configuration not initialized")
	}

	// Get signing key from configuration
	signingKey := jwtConfig.SigningKey

	// Parse the token
	token, err := jwt.ParseWithClaims(
		tokenString,
		&UserClaims{},
		func(token *jwt.Token) (interface{}, error) {
			// Validate the signing method
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return []byte(signingKey), nil
		},
	)

	if err != nil {
		return nil, err
	}

	// Validate the token and extract claims
	if claims, ok := token.Claims.(*UserClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, errors.New("invalid token")
}
