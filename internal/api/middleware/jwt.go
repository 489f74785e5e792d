package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/yoockh/volunteerhub/internal/models"
	"github.com/yoockh/volunteerhub/internal/utils"
)

type apiError struct {
	Success bool       `json:"success"`
	Code    utils.Code `json:"code"`
	Message string     `json:"message"`
}

func abort(c *gin.Context, status int, code utils.Code, msg string) {
	c.AbortWithStatusJSON(status, apiError{Success: false, Code: code, Message: msg})
}

// JWTAuth verifies staff tokens issued by POST /auth/login.
// Browsers cannot set headers on a websocket upgrade, so the token may
// also arrive as ?access_token=.
func JWTAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if secret == "" {
			abort(c, http.StatusInternalServerError, utils.CodeInternal, "AUTH_JWT_SECRET is not set")
			return
		}

		raw := bearerToken(c)
		if raw == "" {
			abort(c, http.StatusUnauthorized, utils.CodeUnauthorized, "missing bearer token")
			return
		}

		claims := &models.StaffClaims{}
		tok, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
			return []byte(secret), nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

		if err != nil || tok == nil || !tok.Valid {
			abort(c, http.StatusUnauthorized, utils.CodeUnauthorized, "invalid token")
			return
		}

		if claims.Subject == "" {
			abort(c, http.StatusUnauthorized, utils.CodeUnauthorized, "missing subject")
			return
		}

		role := claims.Role
		if role == "" {
			role = models.RoleStaff
		}

		c.Set("user_id", claims.Subject)
		c.Set("role", string(role))
		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	if auth := c.GetHeader("Authorization"); strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
	}
	return strings.TrimSpace(c.Query("access_token"))
}
