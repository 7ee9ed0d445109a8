package middleware

import (
	"context"

	"terminal-terrace/guideline-wiki/internal/dto"
	"terminal-terrace/guideline-wiki/internal/permission"
	authsdk "terminal-terrace/guideline-wiki/packages/auth-sdk"
	"terminal-terrace/guideline-wiki/packages/response"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// userKey 当前身份在 gin.Context 中的键
const userKey = "auth_user"

// RevocationChecker 判断令牌是否已注销
type RevocationChecker interface {
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// Auth 解析会话令牌，把身份放进请求上下文
// 是否允许操作由 service 层根据身份判断
type Auth struct {
	secret  string
	revoked RevocationChecker
}

// NewAuth revoked 可以为 nil，表示不检查注销
func NewAuth(secret string, revoked RevocationChecker) *Auth {
	return &Auth{secret: secret, revoked: revoked}
}

// Identify 从请求中解析身份，失败返回 nil
func (a *Auth) Identify(c *gin.Context) *authsdk.UserContext {
	token, err := authsdk.ExtractTokenFromRequest(c.Request)
	if err != nil {
		return nil
	}

	user, err := authsdk.ParseToken(token, a.secret)
	if err != nil {
		return nil
	}

	if a.revoked != nil && user.TokenID != "" {
		revoked, err := a.revoked.IsRevoked(c.Request.Context(), user.TokenID)
		if err != nil {
			// 注销列表不可用时按未注销处理，令牌本身仍有过期时间
			log.Warn().Err(err).Msg("查询令牌注销状态失败")
		} else if revoked {
			return nil
		}
	}
	return user
}

// OptionalJWTAuth 可选认证：有合法 token 就解析身份，否则匿名继续
func (a *Auth) OptionalJWTAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if user := a.Identify(c); user != nil {
			SetCurrentUser(c, user)
		}
		c.Next()
	}
}

// JWTAuth 必需认证
func (a *Auth) JWTAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := a.Identify(c)
		if user == nil {
			dto.ErrorResponse(c, response.NewBusinessError(
				response.WithErrorCode(response.Unauthorized),
				response.WithErrorMessage("未登录或登录已过期"),
			))
			return
		}
		SetCurrentUser(c, user)
		c.Next()
	}
}

func SetCurrentUser(c *gin.Context, user *authsdk.UserContext) {
	c.Set(userKey, user)
}

// CurrentUser 当前请求的身份，匿名时为 nil
func CurrentUser(c *gin.Context) *authsdk.UserContext {
	v, ok := c.Get(userKey)
	if !ok {
		return nil
	}
	user, _ := v.(*authsdk.UserContext)
	return user
}

// RequireAdmin 管理接口：未登录 401，非管理员 403，在绑定请求体之前拦截
func (a *Auth) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := a.Identify(c)
		if err := permission.RequireAdmin(user); err != nil {
			dto.ErrorResponse(c, err)
			return
		}
		SetCurrentUser(c, user)
		c.Next()
	}
}
