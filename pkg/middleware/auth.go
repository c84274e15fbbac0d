package middleware

import (
	"crypto/subtle"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// AuthMiddleware пускает только запросы с правильным админским ключом
// в заголовке X-Admin-Key.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		expected := os.Getenv("ADMIN_API_KEY")
		if expected == "" {
			logrus.Error("ADMIN_API_KEY не установлен, запрос отклонён")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "server is not configured"})
			c.Abort()
			return
		}

		key := c.GetHeader("X-Admin-Key")
		if subtle.ConstantTimeCompare([]byte(key), []byte(expected)) != 1 {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "admin key is required in 'X-Admin-Key' header"})
			c.Abort()
			return
		}
		c.Next()
	}
}
