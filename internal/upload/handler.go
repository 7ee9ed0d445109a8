package upload

import (
	"errors"
	"fmt"
	"net/http"

	"terminal-terrace/guideline-wiki/internal/dto"
	"terminal-terrace/guideline-wiki/internal/middleware"
	"terminal-terrace/guideline-wiki/packages/response"

	"github.com/gin-gonic/gin"
)

// Result 上传结果
type Result struct {
	URL  string `json:"url"`
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

// multipart 头部与边界的余量
const multipartOverhead = 64 << 10

type Handler struct {
	uploadService *UploadService
}

func NewHandler(uploadService *UploadService) *Handler {
	return &Handler{uploadService: uploadService}
}

// Upload 上传文件
// @Summary 上传文件
// @Description multipart 字段名为 file，仅管理员
// @Tags 上传
// @Accept multipart/form-data
// @Produce json
// @Security CookieAuth
// @Param file formData file true "文件"
// @Success 200 {object} response.Response{data=Result}
// @Failure 400,401,403,500 {object} response.Response
// @Router /upload [post]
func (h *Handler) Upload(c *gin.Context) {
	limit := h.uploadService.MaxSize()
	if limit > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit+multipartOverhead)
	}

	fh, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			dto.ErrorResponse(c, badRequest(fmt.Sprintf("文件大小超过限制 (%d MB)", limit>>20)))
			return
		}
		dto.ErrorResponse(c, response.NewBusinessError(
			response.WithErrorCode(response.ParseError),
			response.WithErrorMessage("缺少上传文件"),
		))
		return
	}

	record, bizErr := h.uploadService.Save(c.Request.Context(), middleware.CurrentUser(c), fh)
	if bizErr != nil {
		dto.ErrorResponse(c, bizErr)
		return
	}
	dto.SuccessResponse(c, Result{URL: record.URL, ID: record.ID, Name: record.FileName})
}
