package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	autherrors "e-approval/internal/auth/errors"
	"e-approval/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

// AuthMiddleware accepts a bearer token or the access_token cookie and exposes
// user_id, role and department on the gin context.
func AuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if authenticate(c, secret) {
			c.Next()
		}
	}
}

// Authenticated is AuthMiddleware followed by ContextLogger, so request-scoped
// logs carry the authenticated user id.
func Authenticated(secret string, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !authenticate(c, secret) {
			return
		}
		attachRequestLogger(c, logger)
		c.Next()
	}
}

func authenticate(c *gin.Context, secret string) bool {
	tokenString, found := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
	if !found {
		tokenString = ""
	}

	if tokenString == "" {
		if cookie, err := c.Cookie("access_token"); err == nil {
			tokenString = cookie
		}
	}

	if tokenString == "" {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Token not found", nil)
		c.Abort()
		return false
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method")
		}
		return []byte(secret), nil
	})

	if err != nil || !token.Valid {
		errObj := autherrors.ErrInvalidToken
		if errors.Is(err, jwt.ErrTokenExpired) {
			errObj = autherrors.ErrTokenExpired
		}
		response.Error(c, errObj.HTTPStatus, errObj.Code, errObj.Message, nil)
		c.Abort()
		return false
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "INVALID_TOKEN", "Invalid token claims", nil)
		c.Abort()
		return false
	}

	// Refresh tokens carry typ=refresh and must not open API routes.
	if typ, _ := claims["typ"].(string); typ != "" && typ != "access" {
		response.Error(c, http.StatusUnauthorized, "INVALID_TOKEN", "Access token required", nil)
		c.Abort()
		return false
	}

	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		response.Error(c, http.StatusUnauthorized, "INVALID_TOKEN", "User ID not found in token", nil)
		c.Abort()
		return false
	}

	role, _ := claims["role"].(string)
	department, _ := claims["department"].(string)

	c.Set("user_id", userID)
	c.Set("role", role)
	c.Set("department", department)
	return true
}
