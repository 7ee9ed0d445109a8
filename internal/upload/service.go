package upload

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	filemodel "terminal-terrace/guideline-wiki/internal/model/file"
	"terminal-terrace/guideline-wiki/internal/permission"
	authsdk "terminal-terrace/guideline-wiki/packages/auth-sdk"
	"terminal-terrace/guideline-wiki/packages/response"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// Config 上传存储配置
type Config struct {
	Dir       string // 本地目录，对外以 URLPrefix 提供静态访问
	URLPrefix string
	MaxSize   int64 // 字节
}

type UploadService struct {
	db   *gorm.DB
	conf Config
	now  func() time.Time
}

func NewUploadService(db *gorm.DB, conf Config) *UploadService {
	return &UploadService{db: db, conf: conf, now: time.Now}
}

// MaxSize 单个文件的字节上限，0 表示不限制
func (s *UploadService) MaxSize() int64 {
	return s.conf.MaxSize
}

// StoredName 毫秒时间戳 + 去掉所有空白的原文件名
func StoredName(original string, at time.Time) string {
	base := filepath.Base(strings.ReplaceAll(original, `\`, "/"))
	base = strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, base)
	if base == "" || base == "." || base == "/" {
		base = "file"
	}
	return fmt.Sprintf("%d-%s", at.UnixMilli(), base)
}

// Save 保存上传的文件并记录元数据，仅管理员
func (s *UploadService) Save(ctx context.Context, actor *authsdk.UserContext, fh *multipart.FileHeader) (*filemodel.File, *response.BusinessError) {
	if err := permission.RequireAdmin(actor); err != nil {
		return nil, err
	}
	if fh == nil || fh.Size == 0 {
		return nil, badRequest("文件为空")
	}
	if s.conf.MaxSize > 0 && fh.Size > s.conf.MaxSize {
		return nil, badRequest(fmt.Sprintf("文件大小超过限制 (%d MB)", s.conf.MaxSize>>20))
	}

	src, err := fh.Open()
	if err != nil {
		return nil, badRequest("读取上传文件失败")
	}
	defer src.Close()

	if err := os.MkdirAll(s.conf.Dir, 0o755); err != nil {
		return nil, failed("创建上传目录失败", err)
	}

	name := StoredName(fh.Filename, s.now())
	target := filepath.Join(s.conf.Dir, name)
	mimeType, err := writeFile(target, src)
	if err != nil {
		return nil, failed("保存文件失败", err)
	}

	record := &filemodel.File{
		FileName:   fh.Filename,
		StoredName: name,
		URL:        path.Join(s.conf.URLPrefix, name),
		FileSize:   fh.Size,
		MimeType:   mimeType,
		UploadedBy: actor.UserID,
	}
	if err := s.db.WithContext(ctx).Create(record).Error; err != nil {
		_ = os.Remove(target)
		return nil, failed("保存文件记录失败", err)
	}

	log.Info().Str("file", name).Int64("size", fh.Size).Uint("actor", actor.UserID).Msg("文件已上传")
	return record, nil
}

// writeFile 写入文件并根据前 512 字节识别类型
// 写入失败时删除已创建的文件
func writeFile(target string, src io.Reader) (mimeType string, err error) {
	dst, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_EXCL, 0o644)
	if err != nil {
		return "", err
	}
	defer func() {
		if cerr := dst.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			_ = os.Remove(target)
		}
	}()

	head := make([]byte, 512)
	n, err := io.ReadFull(src, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return "", err
	}
	head = head[:n]

	if _, err := dst.Write(head); err != nil {
		return "", err
	}
	if _, err := io.Copy(dst, src); err != nil {
		return "", err
	}
	return http.DetectContentType(head), nil
}

func badRequest(msg string) *response.BusinessError {
	return response.NewBusinessError(
		response.WithErrorCode(response.InvalidParameter),
		response.WithErrorMessage(msg),
	)
}

func failed(msg string, err error) *response.BusinessError {
	return response.NewBusinessError(
		response.WithErrorCode(response.Fail),
		response.WithErrorMessage(msg),
		response.WithError(err),
	)
}
