// Package permission 统一权限检查
// 只有两级: 管理员可以修改一切，其他登录用户只读
package permission

import (
	authsdk "terminal-terrace/guideline-wiki/packages/auth-sdk"
	"terminal-terrace/guideline-wiki/packages/response"
)

// RequireSession 需要登录
func RequireSession(actor *authsdk.UserContext) *response.BusinessError {
	if actor == nil {
		return response.NewBusinessError(
			response.WithErrorCode(response.Unauthorized),
			response.WithErrorMessage("未登录"),
		)
	}
	return nil
}

// RequireAdmin 需要管理员身份，在任何修改之前调用
func RequireAdmin(actor *authsdk.UserContext) *response.BusinessError {
	if err := RequireSession(actor); err != nil {
		return err
	}
	if !actor.IsAdmin() {
		return response.NewBusinessError(
			response.WithErrorCode(response.Forbidden),
			response.WithErrorMessage("需要管理员权限"),
		)
	}
	return nil
}
