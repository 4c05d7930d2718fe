package middleware

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"chapterquiz-server/models"
	"chapterquiz-server/utils"
)

// Claims carried by admin bearer tokens.
type Claims struct {
	Email string   `json:"sub"`
	Roles []string `json:"roles"`
	jwt.RegisteredClaims
}

func abort(c *gin.Context, status int, detail string) {
	c.AbortWithStatusJSON(status, models.ErrorResponse{Detail: detail})
}

// AuthMiddleware validates an HS256 bearer token and sets admin_email and
// admin_roles on the context.
func AuthMiddleware(jwtSigningKey, issuer string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abort(c, http.StatusUnauthorized, "Authorization header required")
			return
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if !(len(parts) == 2 && strings.ToLower(parts[0]) == "bearer") {
			abort(c, http.StatusUnauthorized, "Authorization header format must be Bearer {token}")
			return
		}
		token, err := jwt.ParseWithClaims(parts[1], &Claims{}, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return []byte(jwtSigningKey), nil
		})
		if err != nil {
			log.Printf("JWT parsing error: %v", err)
			switch {
			case errors.Is(err, jwt.ErrTokenSignatureInvalid):
				abort(c, http.StatusUnauthorized, "Invalid token signature")
			case errors.Is(err, jwt.ErrTokenExpired):
				abort(c, http.StatusUnauthorized, "Token expired")
			case errors.Is(err, jwt.ErrTokenNotValidYet):
				abort(c, http.StatusUnauthorized, "Token not active yet")
			default:
				abort(c, http.StatusUnauthorized, "Invalid token")
			}
			return
		}
		claims, ok := token.Claims.(*Claims)
		if !ok || !token.Valid {
			abort(c, http.StatusUnauthorized, "Invalid token claims")
			return
		}
		if claims.Issuer != issuer {
			abort(c, http.StatusUnauthorized, "Invalid token issuer")
			return
		}
		if claims.ExpiresAt == nil || claims.ExpiresAt.Before(time.Now()) {
			abort(c, http.StatusUnauthorized, "Token expired")
			return
		}
		c.Set("admin_email", claims.Email)
		c.Set("admin_roles", claims.Roles)
		c.Next()
	}
}

// RoleCheckMiddleware requires one of requiredRoles among the token roles.
func RoleCheckMiddleware(requiredRoles []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		value, exists := c.Get("admin_roles")
		if !exists {
			abort(c, http.StatusForbidden, "User roles not found in context")
			return
		}
		roles, ok := value.([]string)
		if !ok {
			abort(c, http.StatusInternalServerError, "Invalid user roles format")
			return
		}
		for _, required := range requiredRoles {
			if utils.ContainsString(roles, required) {
				c.Next()
				return
			}
		}
		abort(c, http.StatusForbidden, "Insufficient permissions")
	}
}
