package middleware

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"jucai-fund-backend/internal/common/errors"
	"jucai-fund-backend/internal/common/validation"
)

const userIDQuery = "user_id"

// QueryUserID читает user_id из query. Значение никак не проверяется на
// принадлежность вызывающему.
func QueryUserID() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.Query(userIDQuery)
		if raw == "" {
			Abort(c, errors.NewValidationError(userIDQuery, "is required"))
			return
		}

		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			Abort(c, errors.NewValidationError(userIDQuery, "must be a positive integer"))
			return
		}
		if err := validation.ValidatePositiveID(userIDQuery, id); err != nil {
			Abort(c, err)
			return
		}

		SetUserID(c, id)
		c.Next()
	}
}

// UserID возвращает пользователя, установленный QueryUserID
func UserID(c *gin.Context) int64 {
	return getUserID(c)
}
