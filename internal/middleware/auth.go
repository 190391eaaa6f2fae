package middleware

import (
	"net/http"

	"inspection-portal/internal/auth"
	"inspection-portal/internal/models"

	"github.com/gin-gonic/gin"
)

func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := Actor(c)
		if !ok || !auth.IsAuthenticated(&user) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "требуется вход"})
			return
		}
		c.Next()
	}
}

// RequireRole пропускает роли не ниже требуемой (VIEWER < USER < ADMIN).
func RequireRole(required models.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := Actor(c)
		if !ok || !auth.HasRole(user, required) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "недостаточно прав"})
			return
		}
		c.Next()
	}
}

// RequireEdit — создание и изменение проверок и чек-листов.
func RequireEdit() gin.HandlerFunc {
	return RequireRole(models.RoleUser)
}
