package user

import (
	"context"
	"errors"
	"testing"

	"terminal-terrace/guideline-wiki/internal/dto"
	userModel "terminal-terrace/guideline-wiki/internal/model/user"
	"terminal-terrace/guideline-wiki/internal/testutils"
	"terminal-terrace/guideline-wiki/packages/email"
	"terminal-terrace/guideline-wiki/packages/response"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type mockNotifier struct {
	mock.Mock
}

func (m *mockNotifier) AccountCreated(u *userModel.User) error {
	return m.Called(u.Email).Error(0)
}

type mockSender struct {
	mock.Mock
}

func (m *mockSender) Send(msg *email.Message) error {
	return m.Called(msg).Error(0)
}

func TestDeleteUser_LastAdmin(t *testing.T) {
	db := testutils.SetupTestDB(t)
	service := NewUserService(db, WithBcryptCost(bcrypt.MinCost))
	only := testutils.CreateTestUser(db, testutils.WithRole(userModel.RoleAdmin))

	err := service.Delete(context.Background(), testutils.Admin(), only.ID)
	require.NotNil(t, err)
	assert.Equal(t, response.LastAdmin, err.Code)
	assert.Equal(t, 400, err.HTTPStatus())
	assert.Equal(t, int64(1), testutils.Count(db, &userModel.User{}, "id = ?", only.ID))
}

func TestDeleteUser_NonLastAdmin(t *testing.T) {
	db := testutils.SetupTestDB(t)
	service := NewUserService(db, WithBcryptCost(bcrypt.MinCost))
	a1 := testutils.CreateTestUser(db, testutils.WithRole(userModel.RoleAdmin))
	a2 := testutils.CreateTestUser(db, testutils.WithRole(userModel.RoleAdmin))

	require.Nil(t, service.Delete(context.Background(), testutils.Admin(), a1.ID))
	assert.Zero(t, testutils.Count(db, &userModel.User{}, "id = ?", a1.ID))

	// 现在 a2 是唯一的管理员
	err := service.Delete(context.Background(), testutils.Admin(), a2.ID)
	require.NotNil(t, err)
	assert.Equal(t, response.LastAdmin, err.Code)
}

func TestDeleteUser_Others(t *testing.T) {
	db := testutils.SetupTestDB(t)
	service := NewUserService(db, WithBcryptCost(bcrypt.MinCost))
	testutils.CreateTestUser(db, testutils.WithRole(userModel.RoleAdmin))
	reader := testutils.CreateTestUser(db)

	err := service.Delete(context.Background(), nil, reader.ID)
	require.NotNil(t, err)
	assert.Equal(t, response.Unauthorized, err.Code)

	err = service.Delete(context.Background(), testutils.Reader(), reader.ID)
	require.NotNil(t, err)
	assert.Equal(t, response.Forbidden, err.Code)

	err = service.Delete(context.Background(), testutils.Admin(), 9999)
	require.NotNil(t, err)
	assert.Equal(t, response.NotFound, err.Code)

	assert.Nil(t, service.Delete(context.Background(), testutils.Admin(), reader.ID))
}

func TestCreateUser(t *testing.T) {
	db := testutils.SetupTestDB(t)
	notifier := new(mockNotifier)
	notifier.On("AccountCreated", "nurse@example.com").Return(errors.New("smtp down")).Once()
	service := NewUserService(db, WithBcryptCost(bcrypt.MinCost), WithNotifier(notifier))

	u, err := service.Create(context.Background(), testutils.Admin(), dto.CreateUserRequest{
		Name: "Nurse", Email: "  Nurse@Example.com ", Password: "password123", Role: userModel.RoleUser,
	})
	require.Nil(t, err, "通知失败不影响创建")
	assert.Equal(t, "nurse@example.com", u.Email)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("password123")))
	notifier.AssertExpectations(t)

	_, err = service.Create(context.Background(), testutils.Admin(), dto.CreateUserRequest{
		Name: "Dup", Email: "nurse@example.com", Password: "password123", Role: userModel.RoleUser,
	})
	require.NotNil(t, err)
	assert.Equal(t, response.Conflict, err.Code)
}

func TestUpdateUser(t *testing.T) {
	db := testutils.SetupTestDB(t)
	service := NewUserService(db, WithBcryptCost(bcrypt.MinCost))
	admin := testutils.CreateTestUser(db, testutils.WithRole(userModel.RoleAdmin), testutils.WithPassword("keep-me-123"))
	other := testutils.CreateTestUser(db, testutils.WithEmail("other@example.com"))

	t.Run("降级唯一管理员被拒绝", func(t *testing.T) {
		_, err := service.Update(context.Background(), testutils.Admin(), admin.ID, dto.UpdateUserRequest{
			Name: admin.Name, Email: admin.Email, Role: userModel.RoleUser,
		})
		require.NotNil(t, err)
		assert.Equal(t, response.LastAdmin, err.Code)

		got, getErr := service.Get(context.Background(), testutils.Admin(), admin.ID)
		require.Nil(t, getErr)
		assert.Equal(t, userModel.RoleAdmin, got.Role)
	})

	t.Run("密码为空时保留原密码", func(t *testing.T) {
		u, err := service.Update(context.Background(), testutils.Admin(), admin.ID, dto.UpdateUserRequest{
			Name: "Renamed", Email: admin.Email, Role: userModel.RoleAdmin,
		})
		require.Nil(t, err)
		assert.Equal(t, "Renamed", u.Name)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("keep-me-123")))
	})

	t.Run("邮箱冲突", func(t *testing.T) {
		_, err := service.Update(context.Background(), testutils.Admin(), admin.ID, dto.UpdateUserRequest{
			Name: "x", Email: "OTHER@example.com", Role: userModel.RoleAdmin,
		})
		require.NotNil(t, err)
		assert.Equal(t, response.Conflict, err.Code)
	})

	t.Run("提升后可以降级原管理员", func(t *testing.T) {
		_, err := service.Update(context.Background(), testutils.Admin(), other.ID, dto.UpdateUserRequest{
			Name: other.Name, Email: other.Email, Password: "new-password", Role: userModel.RoleAdmin,
		})
		require.Nil(t, err)

		u, err := service.Update(context.Background(), testutils.Admin(), admin.ID, dto.UpdateUserRequest{
			Name: admin.Name, Email: admin.Email, Role: userModel.RoleUser,
		})
		require.Nil(t, err)
		assert.Equal(t, userModel.RoleUser, u.Role)
	})
}

func TestListUsers_RequiresAdmin(t *testing.T) {
	db := testutils.SetupTestDB(t)
	service := NewUserService(db)
	testutils.CreateTestUser(db)

	_, err := service.List(context.Background(), testutils.Reader())
	require.NotNil(t, err)
	assert.Equal(t, response.Forbidden, err.Code)

	users, err := service.List(context.Background(), testutils.Admin())
	require.Nil(t, err)
	assert.Len(t, users, 1)
}

func TestEnsureAdmin(t *testing.T) {
	db := testutils.SetupTestDB(t)
	service := NewUserService(db, WithBcryptCost(bcrypt.MinCost))

	created, err := service.EnsureAdmin(context.Background(), "", "", "")
	require.NoError(t, err)
	assert.False(t, created, "未配置账号时不创建")

	created, err = service.EnsureAdmin(context.Background(), "Root", "Root@Example.com", "bootstrap-pass")
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, int64(1), testutils.Count(db, &userModel.User{}, "email = ? AND role = ?", "root@example.com", userModel.RoleAdmin))

	created, err = service.EnsureAdmin(context.Background(), "Root", "another@example.com", "bootstrap-pass")
	require.NoError(t, err)
	assert.False(t, created, "已有管理员时不再创建")
}

func TestEmailNotifier(t *testing.T) {
	sender := new(mockSender)
	sender.On("Send", mock.MatchedBy(func(msg *email.Message) bool {
		return len(msg.To) == 1 && msg.To[0] == "doc@example.com" && msg.ContentType == "text/html"
	})).Return(nil).Once()

	n, err := NewEmailNotifier(sender, "http://wiki.local/")
	require.NoError(t, err)
	require.NoError(t, n.AccountCreated(&userModel.User{Name: "Doc", Email: "doc@example.com", Role: userModel.RoleUser}))
	sender.AssertExpectations(t)

	noop, err := NewNotifier(&email.Config{}, "http://wiki.local")
	require.NoError(t, err)
	assert.NoError(t, noop.AccountCreated(&userModel.User{}))
}
