package user

import (
	"context"
	"strings"

	"terminal-terrace/guideline-wiki/internal/database"
	"terminal-terrace/guideline-wiki/internal/dto"
	userModel "terminal-terrace/guideline-wiki/internal/model/user"
	"terminal-terrace/guideline-wiki/internal/permission"
	authsdk "terminal-terrace/guideline-wiki/packages/auth-sdk"
	"terminal-terrace/guideline-wiki/packages/response"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type UserService struct {
	repo     *UserRepository
	notifier Notifier
	cost     int
}

type Option func(*UserService)

func WithNotifier(n Notifier) Option {
	return func(s *UserService) {
		s.notifier = n
	}
}

// WithBcryptCost 测试中使用 bcrypt.MinCost
func WithBcryptCost(cost int) Option {
	return func(s *UserService) {
		s.cost = cost
	}
}

func NewUserService(db *gorm.DB, opts ...Option) *UserService {
	s := &UserService{
		repo:     NewUserRepository(db),
		notifier: noopNotifier{},
		cost:     bcrypt.DefaultCost,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// 所有用户接口都只对管理员开放

func (s *UserService) List(ctx context.Context, actor *authsdk.UserContext) ([]userModel.User, *response.BusinessError) {
	if err := permission.RequireAdmin(actor); err != nil {
		return nil, err
	}
	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, failed("获取用户列表失败", err)
	}
	return users, nil
}

func (s *UserService) Get(ctx context.Context, actor *authsdk.UserContext, id uint) (*userModel.User, *response.BusinessError) {
	if err := permission.RequireAdmin(actor); err != nil {
		return nil, err
	}
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if database.IsNotFound(err) {
			return nil, notFound()
		}
		return nil, failed("获取用户失败", err)
	}
	return u, nil
}

func (s *UserService) Create(ctx context.Context, actor *authsdk.UserContext, req dto.CreateUserRequest) (*userModel.User, *response.BusinessError) {
	if err := permission.RequireAdmin(actor); err != nil {
		return nil, err
	}

	email := normalizeEmail(req.Email)
	taken, err := s.repo.EmailTaken(ctx, email, 0)
	if err != nil {
		return nil, failed("检查邮箱失败", err)
	}
	if taken {
		return nil, emailConflict()
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.cost)
	if err != nil {
		return nil, failed("密码加密失败", err)
	}

	u := &userModel.User{
		Name:         strings.TrimSpace(req.Name),
		Email:        email,
		PasswordHash: string(hash),
		Role:         req.Role,
	}
	if err := s.repo.Create(ctx, u); err != nil {
		if database.IsUniqueViolation(err) {
			return nil, emailConflict()
		}
		return nil, failed("创建用户失败", err)
	}

	// 通知失败不影响创建结果
	if err := s.notifier.AccountCreated(u); err != nil {
		log.Warn().Err(err).Uint("user_id", u.ID).Msg("发送账号通知失败")
	}

	log.Info().Uint("user_id", u.ID).Str("role", u.Role).Uint("actor", actor.UserID).Msg("用户已创建")
	return u, nil
}

// Update 整体替换；password 为空时保留原密码
// 不允许把最后一个管理员降级
func (s *UserService) Update(ctx context.Context, actor *authsdk.UserContext, id uint, req dto.UpdateUserRequest) (*userModel.User, *response.BusinessError) {
	if err := permission.RequireAdmin(actor); err != nil {
		return nil, err
	}

	email := normalizeEmail(req.Email)
	var hash []byte
	if req.Password != "" {
		var err error
		if hash, err = bcrypt.GenerateFromPassword([]byte(req.Password), s.cost); err != nil {
			return nil, failed("密码加密失败", err)
		}
	}

	var (
		updated *userModel.User
		bizErr  *response.BusinessError
	)
	err := s.repo.Transaction(ctx, func(repo *UserRepository) error {
		u, err := repo.GetByID(ctx, id)
		if err != nil {
			if database.IsNotFound(err) {
				bizErr = notFound()
				return bizErr
			}
			return err
		}

		if u.IsAdmin() && req.Role != userModel.RoleAdmin {
			if bizErr = s.ensureAnotherAdmin(ctx, repo); bizErr != nil {
				return bizErr
			}
		}

		taken, err := repo.EmailTaken(ctx, email, id)
		if err != nil {
			return err
		}
		if taken {
			bizErr = emailConflict()
			return bizErr
		}

		u.Name = strings.TrimSpace(req.Name)
		u.Email = email
		u.Role = req.Role
		if hash != nil {
			u.PasswordHash = string(hash)
		}
		if err := repo.Update(ctx, u); err != nil {
			return err
		}
		updated = u
		return nil
	})
	if bizErr != nil {
		return nil, bizErr
	}
	if err != nil {
		if database.IsUniqueViolation(err) {
			return nil, emailConflict()
		}
		return nil, failed("更新用户失败", err)
	}
	return updated, nil
}

// Delete 删除最后一个管理员会被拒绝
func (s *UserService) Delete(ctx context.Context, actor *authsdk.UserContext, id uint) *response.BusinessError {
	if err := permission.RequireAdmin(actor); err != nil {
		return err
	}

	var bizErr *response.BusinessError
	err := s.repo.Transaction(ctx, func(repo *UserRepository) error {
		u, err := repo.GetByID(ctx, id)
		if err != nil {
			if database.IsNotFound(err) {
				bizErr = notFound()
				return bizErr
			}
			return err
		}

		if u.IsAdmin() {
			if bizErr = s.ensureAnotherAdmin(ctx, repo); bizErr != nil {
				return bizErr
			}
		}
		return repo.Delete(ctx, id)
	})
	if bizErr != nil {
		return bizErr
	}
	if err != nil {
		return failed("删除用户失败", err)
	}

	log.Info().Uint("user_id", id).Uint("actor", actor.UserID).Msg("用户已删除")
	return nil
}

// EnsureAdmin 启动时若没有任何管理员，用配置的账号创建一个
// 返回是否创建了新账号
func (s *UserService) EnsureAdmin(ctx context.Context, name, email, password string) (bool, error) {
	n, err := s.repo.CountAdmins(ctx)
	if err != nil || n > 0 {
		return false, err
	}
	if email == "" || password == "" {
		log.Warn().Msg("没有管理员账号，且未配置 admin.email / admin.password")
		return false, nil
	}

	email = normalizeEmail(email)
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return false, err
	}

	existing, err := s.repo.GetByEmail(ctx, email)
	switch {
	case err == nil:
		// 同邮箱账号已存在时直接提升为管理员
		existing.Role = userModel.RoleAdmin
		existing.PasswordHash = string(hash)
		err = s.repo.Update(ctx, existing)
	case database.IsNotFound(err):
		if name == "" {
			name = "Administrator"
		}
		err = s.repo.Create(ctx, &userModel.User{
			Name:         name,
			Email:        email,
			PasswordHash: string(hash),
			Role:         userModel.RoleAdmin,
		})
	}
	if err != nil {
		return false, err
	}

	log.Info().Str("email", email).Msg("已创建初始管理员")
	return true, nil
}

func (s *UserService) ensureAnotherAdmin(ctx context.Context, repo *UserRepository) *response.BusinessError {
	ids, err := repo.LockAdminIDs(ctx)
	if err != nil {
		return failed("统计管理员失败", err)
	}
	if len(ids) <= 1 {
		return response.NewBusinessError(
			response.WithErrorCode(response.LastAdmin),
			response.WithErrorMessage("至少需要保留一个管理员"),
		)
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func notFound() *response.BusinessError {
	return response.NewBusinessError(
		response.WithErrorCode(response.NotFound),
		response.WithErrorMessage("用户不存在"),
	)
}

func emailConflict() *response.BusinessError {
	return response.NewBusinessError(
		response.WithErrorCode(response.Conflict),
		response.WithErrorMessage("邮箱已被使用"),
	)
}

func failed(msg string, err error) *response.BusinessError {
	return response.NewBusinessError(
		response.WithErrorCode(response.Fail),
		response.WithErrorMessage(msg),
		response.WithError(err),
	)
}
