package middleware

import (
	"net/http"
	"strings"

	"edu-store/models"
	"edu-store/utils"

	"github.com/gin-gonic/gin"
)

const bearerPrefix = "Bearer "

func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, bearerPrefix) {
			c.JSON(http.StatusUnauthorized, models.ErrorResponse{
				Success: false,
				Message: "Missing or malformed bearer token",
			})
			c.Abort()
			return
		}

		claims, err := utils.ValidateToken(strings.TrimPrefix(header, bearerPrefix))
		if err != nil {
			c.JSON(http.StatusUnauthorized, models.ErrorResponse{
				Success: false,
				Message: "Session token is invalid or expired",
				Error:   err.Error(),
			})
			c.Abort()
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("user_email", claims.Email)
		c.Set("user_role", claims.Role)
		c.Next()
	}
}

func AdminMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		role, _ := c.Get("user_role")
		if role != "admin" {
			c.JSON(http.StatusForbidden, models.ErrorResponse{
				Success: false,
				Message: "This endpoint requires an admin account",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}
