// Package logger 基于 zerolog 的全局日志
package logger

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"terminal-terrace/guideline-wiki/config"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Init 按配置初始化全局 logger，返回需要在退出时关闭的文件（可能为 nil）
func Init(conf config.LogConfig) (io.Closer, error) {
	zerolog.TimeFieldFormat = time.RFC3339
	zerolog.SetGlobalLevel(ParseLevel(conf.Level))

	var (
		out    io.Writer = os.Stdout
		closer io.Closer
	)
	if conf.Output == "file" && conf.Path != "" {
		if err := os.MkdirAll(filepath.Dir(conf.Path), 0o755); err != nil {
			return nil, err
		}
		f, err := os.OpenFile(conf.Path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, err
		}
		out, closer = f, f
	}

	log.Logger = New(out, conf.Format)
	return closer, nil
}

// New 创建 logger，format 为 console 时输出人类可读格式
func New(out io.Writer, format string) zerolog.Logger {
	if strings.EqualFold(format, "console") || strings.EqualFold(format, "text") {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: "2006-01-02 15:04:05"}
	}
	return zerolog.New(out).With().Timestamp().Logger()
}

func ParseLevel(level string) zerolog.Level {
	l, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || level == "" {
		return zerolog.InfoLevel
	}
	return l
}
