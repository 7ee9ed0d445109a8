package user

import (
	"terminal-terrace/guideline-wiki/internal/dto"
	"terminal-terrace/guideline-wiki/internal/middleware"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	userService *UserService
}

func NewUserHandler(userService *UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// ListUsers 用户列表
// @Summary 用户列表
// @Tags 用户
// @Produce json
// @Security CookieAuth
// @Success 200 {object} response.Response{data=[]user.User}
// @Failure 401,403 {object} response.Response
// @Router /users [get]
func (h *UserHandler) ListUsers(c *gin.Context) {
	users, err := h.userService.List(c.Request.Context(), middleware.CurrentUser(c))
	if err != nil {
		dto.ErrorResponse(c, err)
		return
	}
	dto.SuccessResponse(c, users)
}

// GetUser 获取用户
// @Summary 获取用户
// @Tags 用户
// @Produce json
// @Security CookieAuth
// @Param id path int true "用户ID"
// @Success 200 {object} response.Response{data=user.User}
// @Failure 400,401,403,404 {object} response.Response
// @Router /users/{id} [get]
func (h *UserHandler) GetUser(c *gin.Context) {
	id, ok := dto.ParseID(c, "用户")
	if !ok {
		return
	}

	u, err := h.userService.Get(c.Request.Context(), middleware.CurrentUser(c), id)
	if err != nil {
		dto.ErrorResponse(c, err)
		return
	}
	dto.SuccessResponse(c, u)
}

// CreateUser 创建用户
// @Summary 创建用户
// @Tags 用户
// @Accept json
// @Produce json
// @Security CookieAuth
// @Param request body dto.CreateUserRequest true "用户"
// @Success 201 {object} response.Response{data=user.User}
// @Failure 400,401,403,409 {object} response.Response
// @Router /users [post]
func (h *UserHandler) CreateUser(c *gin.Context) {
	var req dto.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.ValidationErrorResponse(c, err)
		return
	}

	u, err := h.userService.Create(c.Request.Context(), middleware.CurrentUser(c), req)
	if err != nil {
		dto.ErrorResponse(c, err)
		return
	}
	dto.CreatedResponse(c, u)
}

// UpdateUser 更新用户
// @Summary 更新用户
// @Description password 为空表示不修改；不能降级最后一个管理员
// @Tags 用户
// @Accept json
// @Produce json
// @Security CookieAuth
// @Param id path int true "用户ID"
// @Param request body dto.UpdateUserRequest true "用户"
// @Success 200 {object} response.Response{data=user.User}
// @Failure 400,401,403,404,409 {object} response.Response
// @Router /users/{id} [put]
func (h *UserHandler) UpdateUser(c *gin.Context) {
	id, ok := dto.ParseID(c, "用户")
	if !ok {
		return
	}

	var req dto.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.ValidationErrorResponse(c, err)
		return
	}

	u, err := h.userService.Update(c.Request.Context(), middleware.CurrentUser(c), id, req)
	if err != nil {
		dto.ErrorResponse(c, err)
		return
	}
	dto.SuccessResponse(c, u)
}

// DeleteUser 删除用户
// @Summary 删除用户
// @Description 不能删除最后一个管理员
// @Tags 用户
// @Produce json
// @Security CookieAuth
// @Param id path int true "用户ID"
// @Success 200 {object} response.Response
// @Failure 400,401,403,404 {object} response.Response
// @Router /users/{id} [delete]
func (h *UserHandler) DeleteUser(c *gin.Context) {
	id, ok := dto.ParseID(c, "用户")
	if !ok {
		return
	}

	if err := h.userService.Delete(c.Request.Context(), middleware.CurrentUser(c), id); err != nil {
		dto.ErrorResponse(c, err)
		return
	}
	dto.SuccessResponse(c, gin.H{"id": id})
}
