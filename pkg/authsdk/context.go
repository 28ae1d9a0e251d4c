package authsdk

import (
	"net/http"
	"strings"
)

// AccessTokenCookie 存放访问令牌的 cookie 名称
const AccessTokenCookie = "access_token"

// ExtractTokenFromRequest 从 HTTP 请求中提取 JWT token
// 支持两种方式：
// 1. access_token cookie
// 2. Authorization header (Bearer token)
func ExtractTokenFromRequest(r *http.Request) (string, error) {
	if cookie, err := r.Cookie(AccessTokenCookie); err == nil && cookie.Value != "" {
		return cookie.Value, nil
	}

	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", ErrNoToken
	}

	// 验证格式: Bearer <token>
	token, ok := strings.CutPrefix(authHeader, "Bearer ")
	if !ok || token == "" {
		return "", ErrInvalidToken
	}
	return token, nil
}

// GetUserFromRequest 从请求中解析用户信息
func GetUserFromRequest(r *http.Request, secret string) (*UserContext, error) {
	token, err := ExtractTokenFromRequest(r)
	if err != nil {
		return nil, err
	}
	return ParseToken(token, secret)
}
