package auth

import (
	"context"
	"strings"
	"sync"
	"time"

	"terminal-terrace/guideline-wiki/internal/database"
	"terminal-terrace/guideline-wiki/internal/dto"
	userModel "terminal-terrace/guideline-wiki/internal/model/user"
	authsdk "terminal-terrace/guideline-wiki/packages/auth-sdk"
	"terminal-terrace/guideline-wiki/packages/response"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// LoginResult 登录成功后签发的令牌
type LoginResult struct {
	Token     string               `json:"-"`
	ExpiresAt time.Time            `json:"expiresAt"`
	User      *authsdk.UserContext `json:"user"`
}

type AuthService struct {
	db      *gorm.DB
	secret  string
	ttl     time.Duration
	revoked RevocationStore
}

// NewAuthService revoked 为 nil 时注销只清除 cookie
func NewAuthService(db *gorm.DB, secret string, ttl time.Duration, revoked RevocationStore) *AuthService {
	return &AuthService{db: db, secret: secret, ttl: ttl, revoked: revoked}
}

// Login 邮箱密码登录
// 用户不存在和密码错误返回相同的提示
func (s *AuthService) Login(ctx context.Context, req dto.LoginRequest) (*LoginResult, *response.BusinessError) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	var u userModel.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&u).Error; err != nil {
		if database.IsNotFound(err) {
			// 仍然做一次哈希比较，避免通过响应时间枚举邮箱
			_ = bcrypt.CompareHashAndPassword(dummyHash(), []byte(req.Password))
			return nil, invalidCredentials()
		}
		return nil, response.NewBusinessError(
			response.WithErrorCode(response.Fail),
			response.WithErrorMessage("登录失败"),
			response.WithError(err),
		)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)); err != nil {
		return nil, invalidCredentials()
	}

	identity := u.Identity()
	token, err := authsdk.GenerateToken(identity, s.secret, s.ttl)
	if err != nil {
		return nil, response.NewBusinessError(
			response.WithErrorCode(response.Fail),
			response.WithErrorMessage("生成令牌失败"),
			response.WithError(err),
		)
	}

	log.Info().Uint("user_id", u.ID).Str("role", u.Role).Msg("用户登录")
	return &LoginResult{Token: token, ExpiresAt: time.Now().Add(s.ttl), User: identity}, nil
}

// Logout 把令牌加入注销列表直到它自然过期
func (s *AuthService) Logout(ctx context.Context, user *authsdk.UserContext) {
	if s.revoked == nil || user == nil || user.TokenID == "" {
		return
	}
	if err := s.revoked.Revoke(ctx, user.TokenID, time.Until(user.ExpiresAt)); err != nil {
		log.Warn().Err(err).Uint("user_id", user.UserID).Msg("注销令牌失败")
	}
}

// TTL 令牌有效期
func (s *AuthService) TTL() time.Duration {
	return s.ttl
}

func invalidCredentials() *response.BusinessError {
	return response.NewBusinessError(
		response.WithErrorCode(response.Unauthorized),
		response.WithErrorMessage("邮箱或密码错误"),
	)
}

var (
	dummyOnce sync.Once
	dummy     []byte
)

func dummyHash() []byte {
	dummyOnce.Do(func() {
		dummy, _ = bcrypt.GenerateFromPassword([]byte("not-a-real-password"), bcrypt.DefaultCost)
	})
	return dummy
}
