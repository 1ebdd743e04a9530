package middleware

import (
	"errors"
	"strings"

	"hunstagram/internal/apperr"
	"hunstagram/internal/services"

	"github.com/gin-gonic/gin"
)

// Context keys set after successful authentication. Handlers read the caller
// identity from here and pass it into services explicitly; nothing below the
// handler layer touches the request context.
const (
	UserIDKey = "auth_user_id"
	EmailKey  = "auth_email"
	RoleKey   = "auth_role"
)

// Auth verifies the bearer access token and stores the caller identity on the
// request context.
func Auth(tokens *services.TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := BearerToken(c)
		if err != nil {
			abort(c, err)
			return
		}

		claims, err := tokens.Verify(token)
		if err != nil {
			if errors.Is(err, services.ErrTokenExpired) {
				abort(c, apperr.AccessTokenExpired)
			} else {
				abort(c, apperr.InvalidToken)
			}
			return
		}

		c.Set(UserIDKey, claims.UserID)
		c.Set(EmailKey, claims.Email)
		c.Set(RoleKey, claims.Role)
		c.Next()
	}
}

// BearerToken extracts the token from the Authorization header.
func BearerToken(c *gin.Context) (string, error) {
	header := c.GetHeader("Authorization")
	if header == "" || !strings.HasPrefix(header, "Bearer ") {
		return "", apperr.TokenNotFound
	}
	return strings.TrimPrefix(header, "Bearer "), nil
}

// UserID returns the authenticated caller's id. Only valid behind Auth.
func UserID(c *gin.Context) uint {
	return c.MustGet(UserIDKey).(uint)
}

func abort(c *gin.Context, err error) {
	status, body := apperr.ResponseFor(err)
	c.AbortWithStatusJSON(status, body)
}
