package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
)

const bearerScheme = "bearer"

// BearerToken извлекает токен из заголовка Authorization.
// Возвращает пустую строку, если схема не Bearer.
func BearerToken(c *gin.Context) string {
	header := strings.TrimSpace(c.GetHeader("Authorization"))
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, bearerScheme) {
		return ""
	}
	return strings.TrimSpace(token)
}
