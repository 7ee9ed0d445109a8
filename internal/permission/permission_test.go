package permission

import (
	"testing"

	authsdk "terminal-terrace/guideline-wiki/packages/auth-sdk"
	"terminal-terrace/guideline-wiki/packages/response"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequireAdmin(t *testing.T) {
	tests := []struct {
		name     string
		actor    *authsdk.UserContext
		wantCode *response.ResponseCode
	}{
		{"匿名用户", nil, codePtr(response.Unauthorized)},
		{"普通用户", &authsdk.UserContext{UserID: 2, Role: authsdk.RoleUser}, codePtr(response.Forbidden)},
		{"小写 admin 不算管理员", &authsdk.UserContext{UserID: 3, Role: "admin"}, codePtr(response.Forbidden)},
		{"管理员", &authsdk.UserContext{UserID: 1, Role: authsdk.RoleAdmin}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := RequireAdmin(tt.actor)
			if tt.wantCode == nil {
				assert.Nil(t, err)
				return
			}
			require.NotNil(t, err)
			assert.Equal(t, *tt.wantCode, err.Code)
		})
	}
}

func TestRequireSession(t *testing.T) {
	assert.NotNil(t, RequireSession(nil))
	assert.Nil(t, RequireSession(&authsdk.UserContext{UserID: 1, Role: authsdk.RoleUser}))
}

func codePtr(c response.ResponseCode) *response.ResponseCode {
	return &c
}
