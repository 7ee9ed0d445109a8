package auth

import (
	"context"
	"sync"
	"testing"
	"time"

	"terminal-terrace/guideline-wiki/internal/dto"
	userModel "terminal-terrace/guideline-wiki/internal/model/user"
	"terminal-terrace/guideline-wiki/internal/testutils"
	authsdk "terminal-terrace/guideline-wiki/packages/auth-sdk"
	"terminal-terrace/guideline-wiki/packages/response"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-for-testing-only"

// memoryStore 测试用的注销列表
type memoryStore struct {
	mu   sync.Mutex
	keys map[string]time.Duration
}

func newMemoryStore() *memoryStore {
	return &memoryStore{keys: map[string]time.Duration{}}
}

func (m *memoryStore) Revoke(_ context.Context, id string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.keys[id] = ttl
	return nil
}

func (m *memoryStore) IsRevoked(_ context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.keys[id]
	return ok, nil
}

func TestLogin(t *testing.T) {
	db := testutils.SetupTestDB(t)
	service := NewAuthService(db, testSecret, time.Hour, nil)
	u := testutils.CreateTestUser(db,
		testutils.WithEmail("doctor@example.com"),
		testutils.WithPassword("password123"),
		testutils.WithRole(userModel.RoleAdmin),
	)

	tests := []struct {
		name     string
		req      dto.LoginRequest
		wantCode *response.ResponseCode
	}{
		{name: "登录成功", req: dto.LoginRequest{Email: "doctor@example.com", Password: "password123"}},
		{name: "邮箱大小写不敏感", req: dto.LoginRequest{Email: "Doctor@Example.com ", Password: "password123"}},
		{name: "密码错误", req: dto.LoginRequest{Email: "doctor@example.com", Password: "wrong"}, wantCode: codePtr(response.Unauthorized)},
		{name: "用户不存在", req: dto.LoginRequest{Email: "ghost@example.com", Password: "password123"}, wantCode: codePtr(response.Unauthorized)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := service.Login(context.Background(), tt.req)
			if tt.wantCode != nil {
				require.NotNil(t, err)
				assert.Equal(t, *tt.wantCode, err.Code)
				return
			}
			require.Nil(t, err)

			identity, parseErr := authsdk.ParseToken(result.Token, testSecret)
			require.NoError(t, parseErr)
			assert.Equal(t, u.ID, identity.UserID)
			assert.Equal(t, authsdk.RoleAdmin, identity.Role)
			assert.NotEmpty(t, identity.TokenID)
		})
	}
}

func TestLogout_RevokesToken(t *testing.T) {
	db := testutils.SetupTestDB(t)
	store := newMemoryStore()
	service := NewAuthService(db, testSecret, time.Hour, store)
	testutils.CreateTestUser(db, testutils.WithEmail("a@example.com"), testutils.WithPassword("password123"))

	result, err := service.Login(context.Background(), dto.LoginRequest{Email: "a@example.com", Password: "password123"})
	require.Nil(t, err)
	identity, parseErr := authsdk.ParseToken(result.Token, testSecret)
	require.NoError(t, parseErr)

	service.Logout(context.Background(), identity)

	revoked, _ := store.IsRevoked(context.Background(), identity.TokenID)
	assert.True(t, revoked)
	assert.InDelta(t, time.Hour.Seconds(), store.keys[identity.TokenID].Seconds(), 5)

	// 匿名注销什么也不做
	service.Logout(context.Background(), nil)
}

func TestRedisRevocationStore(t *testing.T) {
	client := testutils.SetupTestRedis(t)
	if client == nil {
		t.Skip("Redis 不可用")
	}
	store := NewRedisRevocationStore(client)
	ctx := context.Background()

	revoked, err := store.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, store.Revoke(ctx, "jti-1", time.Minute))
	revoked, err = store.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	// 已过期的令牌不需要记录
	require.NoError(t, store.Revoke(ctx, "jti-2", -time.Second))
	revoked, err = store.IsRevoked(ctx, "jti-2")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func codePtr(c response.ResponseCode) *response.ResponseCode {
	return &c
}
