package writer

import (
	"fmt"
	"io"
	"path/filepath"
	"time"

	rotatelogs "github.com/lestrrat-go/file-rotatelogs"
	"gopkg.in/natefinch/lumberjack.v2"
)

// RotateMode 日志轮转模式
type RotateMode int

const (
	// RotateModeTime 按时间轮转
	RotateModeTime RotateMode = iota
	// RotateModeSize 按大小轮转
	RotateModeSize
)

// RotateConfig 日志轮转配置
type RotateConfig struct {
	Mode     RotateMode
	Filepath string
	Filename string
	FileExt  string

	// 按时间轮转
	RotationTime int // 轮转间隔(小时)

	// 按大小轮转
	MaxSize    int  // 单个日志文件最大大小(MB)
	MaxBackups int  // 保留的旧日志文件数量
	Compress   bool // 是否压缩旧日志文件

	// 两种模式共用：时间模式为保留小时数，大小模式为保留天数
	MaxAge int
}

// File 创建文件输出 writer
func File(config RotateConfig) (io.Writer, error) {
	switch config.Mode {
	case RotateModeTime:
		w, err := rotatelogs.New(
			config.fullPath("%Y%m%d%H%M"),
			rotatelogs.WithLinkName(config.fullPath("")),
			rotatelogs.WithMaxAge(time.Duration(config.MaxAge)*time.Hour),
			rotatelogs.WithRotationTime(time.Duration(config.RotationTime)*time.Hour),
		)
		if err != nil {
			return nil, fmt.Errorf("create time rotate writer: %w", err)
		}
		return w, nil
	case RotateModeSize:
		return &lumberjack.Logger{
			Filename:   config.fullPath(""),
			MaxSize:    config.MaxSize,
			MaxBackups: config.MaxBackups,
			MaxAge:     config.MaxAge,
			Compress:   config.Compress,
		}, nil
	default:
		return nil, fmt.Errorf("unsupported rotate mode: %v", config.Mode)
	}
}

// fullPath 返回日志文件的完整路径，format 非空时插入时间占位符
func (c *RotateConfig) fullPath(format string) string {
	name := c.Filename
	if format != "" {
		name += "." + format
	}
	name += "." + c.FileExt
	return filepath.Join(c.Filepath, name)
}
