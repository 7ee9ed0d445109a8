package authsdk

import (
	"context"
	"net/http"
	"strings"

	"google.golang.org/grpc/metadata"
)

// CookieName 会话 cookie 名
const CookieName = "access_token"

// ExtractTokenFromRequest 从 HTTP 请求中提取 JWT token
// 优先读取 access_token cookie，其次是 Authorization: Bearer
func ExtractTokenFromRequest(r *http.Request) (string, error) {
	if cookie, err := r.Cookie(CookieName); err == nil && cookie.Value != "" {
		return cookie.Value, nil
	}

	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", ErrNoToken
	}
	if token, ok := strings.CutPrefix(authHeader, "Bearer "); ok && token != "" {
		return token, nil
	}
	return "", ErrInvalidToken
}

// ExtractTokenFromContext 从 gRPC context 的 metadata 中提取 JWT token
// 支持两种方式：
// 1. authorization header (Bearer token)
// 2. x-access-token header
func ExtractTokenFromContext(ctx context.Context) (string, error) {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return "", ErrNoToken
	}

	if values := md.Get("authorization"); len(values) > 0 {
		return strings.TrimPrefix(values[0], "Bearer "), nil
	}

	if values := md.Get("x-access-token"); len(values) > 0 {
		return values[0], nil
	}

	return "", ErrNoToken
}

// GetUserFromContext 从 gRPC context 获取用户信息
// 没有 token 或解析失败时返回 nil
func GetUserFromContext(ctx context.Context, secret string) *UserContext {
	token, err := ExtractTokenFromContext(ctx)
	if err != nil {
		return nil
	}

	user, err := ParseToken(token, secret)
	if err != nil {
		return nil
	}

	return user
}
