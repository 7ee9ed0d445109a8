package dto

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	res "terminal-terrace/guideline-wiki/packages/response"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
)

// RequestIDKey 请求 ID 在 gin.Context 中的键
const RequestIDKey = "request_id"

func SuccessResponse(c *gin.Context, data any) {
	c.JSON(http.StatusOK, res.SuccessResponse(data))
}

func CreatedResponse(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, res.SuccessResponse(data))
}

func PageResponse(c *gin.Context, items any, total int64, page, pageSize int) {
	c.JSON(http.StatusOK, res.PageResponse(items, total, page, pageSize))
}

// ErrorResponse 按业务错误码写出对应的 HTTP 状态
// 内部错误只返回通用消息，原因写进日志
func ErrorResponse(c *gin.Context, err *res.BusinessError) {
	if err.IsInternal() {
		log.Error().
			Err(err).
			Str(RequestIDKey, c.GetString(RequestIDKey)).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Msg("请求处理失败")
	}
	c.AbortWithStatusJSON(err.HTTPStatus(), res.ErrorResponse(err.Code, err.Msg))
}

// InvalidIDResponse 路径参数不是合法 ID
func InvalidIDResponse(c *gin.Context, what string) {
	ErrorResponse(c, res.NewBusinessError(
		res.WithErrorCode(res.ParseError),
		res.WithErrorMessage("无效的"+what+"ID"),
	))
}

// ValidationErrorResponse 处理验证错误，返回友好的JSON字段名
// 字段名来自 validation 包注册的 json tag 映射
func ValidationErrorResponse(c *gin.Context, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) && len(validationErrs) > 0 {
		ErrorResponse(c, res.NewBusinessError(
			res.WithErrorCode(res.ParseError),
			res.WithErrorMessage(FieldErrorMessage(validationErrs[0])),
		))
		return
	}

	// 如果不是 validation 错误（JSON 格式错误等），返回原始错误消息
	ErrorResponse(c, res.NewBusinessError(
		res.WithErrorCode(res.ParseError),
		res.WithErrorMessage("参数错误: "+err.Error()),
	))
}

// FieldErrorMessage 单个字段校验失败的提示
func FieldErrorMessage(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("字段 '%s' 是必填项", field)
	case "max":
		return fmt.Sprintf("字段 '%s' 长度不能超过 %s", field, fe.Param())
	case "min":
		return fmt.Sprintf("字段 '%s' 长度不能少于 %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("字段 '%s' 必须是以下值之一: %s", field, fe.Param())
	case "email":
		return fmt.Sprintf("字段 '%s' 必须是有效的邮箱地址", field)
	case "url":
		return fmt.Sprintf("字段 '%s' 必须是有效的 URL", field)
	case "gt":
		return fmt.Sprintf("字段 '%s' 必须大于 %s", field, fe.Param())
	default:
		return fmt.Sprintf("字段 '%s' 验证失败: %s", field, fe.Tag())
	}
}

// ParseID 解析路径参数 id，失败时已写出 400
func ParseID(c *gin.Context, what string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		InvalidIDResponse(c, what)
		return 0, false
	}
	return uint(id), true
}
