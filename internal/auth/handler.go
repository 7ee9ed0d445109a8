package auth

import (
	"net/http"

	"terminal-terrace/guideline-wiki/internal/dto"
	"terminal-terrace/guideline-wiki/internal/middleware"
	authsdk "terminal-terrace/guideline-wiki/packages/auth-sdk"
	"terminal-terrace/guideline-wiki/packages/response"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authService  *AuthService
	cookieSecure bool
}

func NewAuthHandler(authService *AuthService, cookieSecure bool) *AuthHandler {
	return &AuthHandler{authService: authService, cookieSecure: cookieSecure}
}

// Login 登录
// @Summary 邮箱密码登录
// @Description 成功后写入 access_token cookie
// @Tags 认证
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "登录"
// @Success 200 {object} response.Response{data=LoginResult}
// @Failure 400,401,429 {object} response.Response
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.ValidationErrorResponse(c, err)
		return
	}

	result, err := h.authService.Login(c.Request.Context(), req)
	if err != nil {
		dto.ErrorResponse(c, err)
		return
	}

	h.SetSessionCookie(c, result.Token)
	dto.SuccessResponse(c, result)
}

// Logout 注销
// @Summary 注销
// @Tags 认证
// @Produce json
// @Success 200 {object} response.Response
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	h.authService.Logout(c.Request.Context(), middleware.CurrentUser(c))
	h.ClearSessionCookie(c)
	dto.SuccessResponse(c, nil)
}

// Me 当前登录身份
// @Summary 当前登录身份
// @Tags 认证
// @Produce json
// @Security CookieAuth
// @Success 200 {object} response.Response{data=authsdk.UserContext}
// @Failure 401 {object} response.Response
// @Router /auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		dto.ErrorResponse(c, response.NewBusinessError(
			response.WithErrorCode(response.Unauthorized),
			response.WithErrorMessage("未登录"),
		))
		return
	}
	dto.SuccessResponse(c, user)
}

// SetSessionCookie 页面登录复用
func (h *AuthHandler) SetSessionCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(authsdk.CookieName, token, int(h.authService.TTL().Seconds()), "/", "", h.cookieSecure, true)
}

func (h *AuthHandler) ClearSessionCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(authsdk.CookieName, "", -1, "/", "", h.cookieSecure, true)
}
