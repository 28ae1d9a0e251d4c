package middleware

import (
	"errors"

	"fittrack/challenge-service/internal/dto"
	"fittrack/challenge-service/pkg/authsdk"
	"fittrack/challenge-service/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	ContextUserID    = "user_id"
	ContextUserEmail = "email"
)

// JWTAuth JWT 认证中间件（必需认证）
// token 的 sub 是用户档案 ID
func JWTAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := authsdk.GetUserFromRequest(c.Request, secret)
		if err != nil {
			dto.ErrorResponse(c, response.NewBusinessError(
				response.WithErrorCode(response.Unauthorized),
				response.WithErrorMessage(authMessage(err)),
				response.WithError(err),
			))
			c.Abort()
			return
		}

		// 将用户信息存入上下文
		c.Set(ContextUserID, user.UserID)
		c.Set(ContextUserEmail, user.Email)
		c.Next()
	}
}

// CurrentUserID 获取认证中间件写入的用户ID
func CurrentUserID(c *gin.Context) (uuid.UUID, bool) {
	v, ok := c.Get(ContextUserID)
	if !ok {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok && id != uuid.Nil
}

func authMessage(err error) string {
	switch {
	case errors.Is(err, authsdk.ErrNoToken):
		return "未提供认证令牌"
	case errors.Is(err, authsdk.ErrExpiredToken):
		return "认证令牌已过期"
	default:
		return "无效的认证令牌"
	}
}
