package middleware

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"budgetwise/internal/config"
	"budgetwise/internal/domain"
)

// Token types carried in the token_type claim.
const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
	TokenTypeReset   = "reset"
)

const issuer = "budgetwise-api"

// Context keys set by AuthMiddleware.
const (
	UserIDKey = "userID"
	EmailKey  = "email"
)

// getJWTKey returns the JWT key from configuration
func getJWTKey() []byte {
	return []byte(config.Get().JWTSecret)
}

// JWTClaims represents the claims in the JWT. PasswordStamp is only set on
// reset tokens and ties them to the password they were issued for.
type JWTClaims struct {
	UserID        string `json:"user_id"`
	Email         string `json:"email"`
	TokenType     string `json:"token_type"`
	PasswordStamp string `json:"pwd,omitempty"`
	jwt.RegisteredClaims
}

func signToken(user *domain.User, tokenType string, ttl time.Duration, stamp string) (string, error) {
	now := time.Now()
	claims := &JWTClaims{
		UserID:        user.ID,
		Email:         user.Email,
		TokenType:     tokenType,
		PasswordStamp: stamp,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    issuer,
			Subject:   user.ID,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(getJWTKey())
}

// GenerateAccessToken generates a short-lived JWT access token for a user.
func GenerateAccessToken(user *domain.User) (string, error) {
	return signToken(user, TokenTypeAccess, config.Get().JWTExpirationDur, "")
}

// GenerateRefreshToken generates a long-lived JWT refresh token for a user.
func GenerateRefreshToken(user *domain.User) (string, error) {
	return signToken(user, TokenTypeRefresh, config.Get().RefreshExpirationDur, "")
}

// GenerateResetToken generates a password reset token. It stops validating
// once the user's password hash changes.
func GenerateResetToken(user *domain.User) (string, error) {
	return signToken(user, TokenTypeReset, config.Get().ResetTokenExpiration, PasswordStamp(user.PasswordHash))
}

// PasswordStamp is a short fingerprint of a password hash.
func PasswordStamp(passwordHash string) string {
	return HashToken(passwordHash)[:16]
}

func parseToken(tokenString, tokenType string) (*JWTClaims, error) {
	claims := &JWTClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return getJWTKey(), nil
	}, jwt.WithIssuer(issuer))

	if err != nil || !token.Valid {
		return nil, fmt.Errorf("invalid %s token", tokenType)
	}
	if claims.TokenType != tokenType {
		return nil, fmt.Errorf("token is not a %s token", tokenType)
	}
	return claims, nil
}

// ValidateRefreshToken parses and validates a refresh token JWT.
// Returns the claims if valid, or an error if the token is invalid,
// expired, or not a refresh token.
func ValidateRefreshToken(tokenString string) (*JWTClaims, error) {
	return parseToken(tokenString, TokenTypeRefresh)
}

// ValidateResetToken parses a password reset token. Callers must still
// compare PasswordStamp with the user's current hash.
func ValidateResetToken(tokenString string) (*JWTClaims, error) {
	return parseToken(tokenString, TokenTypeReset)
}

// HashToken returns the SHA-256 hex digest of a token string.
func HashToken(token string) string {
	h := sha256.Sum256([]byte(token))
	return hex.EncodeToString(h[:])
}

func abortUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"error": gin.H{"code": "UNAUTHORIZED", "message": message},
	})
}

// AuthMiddleware verifies the JWT token and sets the user in the context
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortUnauthorized(c, "Authorization header is required")
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			abortUnauthorized(c, "Invalid authorization header format")
			return
		}

		// refresh and reset tokens are rejected here
		claims, err := parseToken(parts[1], TokenTypeAccess)
		if err != nil {
			abortUnauthorized(c, "Invalid or expired token")
			return
		}

		c.Set(UserIDKey, claims.UserID)
		c.Set(EmailKey, claims.Email)
		c.Next()
	}
}
