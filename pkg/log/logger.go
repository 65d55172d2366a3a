package log

import (
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/pkgerrors"

	"github.com/kochabx/subook/pkg/log/writer"
	"github.com/kochabx/subook/pkg/tag"
)

// Logger 日志记录器
type Logger struct {
	zerolog.Logger
	writer io.Writer
	closer io.Closer // 文件 writer 的资源清理
}

func init() {
	zerolog.TimeFieldFormat = time.DateTime
	zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack
}

// Close 关闭日志记录器，释放文件资源
func (l *Logger) Close() error {
	if l.closer != nil {
		return l.closer.Close()
	}
	return nil
}

// Option Logger 选项函数
type Option func(*Logger)

// WithLevel 设置日志级别
func WithLevel(level zerolog.Level) Option {
	return func(l *Logger) {
		l.Logger = l.Logger.Level(level)
	}
}

// WithCaller 记录调用位置
func WithCaller() Option {
	return func(l *Logger) {
		l.Logger = l.Logger.With().Caller().Logger()
	}
}

// FileConfig 日志文件配置
type FileConfig struct {
	Filepath   string            `json:"filepath" default:"log"`
	Filename   string            `json:"filename" default:"subook"`
	FileExt    string            `json:"file_ext" default:"log"`
	RotateMode writer.RotateMode `json:"rotate_mode"`
	MaxAge     int               `json:"max_age" default:"30"`      // 保留天数（按大小轮转）/ 小时（按时间轮转）
	MaxSize    int               `json:"max_size" default:"100"`    // 单个文件最大 MB（按大小轮转）
	MaxBackups int               `json:"max_backups" default:"5"`   // 保留文件数（按大小轮转）
	Rotation   int               `json:"rotation_time" default:"1"` // 轮转间隔小时（按时间轮转）
	Compress   bool              `json:"compress"`
}

func (c *FileConfig) toWriterConfig() writer.RotateConfig {
	return writer.RotateConfig{
		Filepath:     c.Filepath,
		Filename:     c.Filename,
		FileExt:      c.FileExt,
		Mode:         c.RotateMode,
		MaxAge:       c.MaxAge,
		MaxSize:      c.MaxSize,
		MaxBackups:   c.MaxBackups,
		RotationTime: c.Rotation,
		Compress:     c.Compress,
	}
}

// newLogger 统一的 Logger 构建方法
func newLogger(w io.Writer, opts ...Option) *Logger {
	logger := &Logger{
		writer: w,
		Logger: zerolog.New(w).With().Timestamp().Logger(),
	}

	for _, opt := range opts {
		opt(logger)
	}

	return logger
}

// New 创建输出到控制台的 Logger
func New(opts ...Option) *Logger {
	return newLogger(writer.Console(), opts...)
}

// NewFile 创建输出到轮转文件的 Logger
func NewFile(c FileConfig, opts ...Option) (*Logger, error) {
	if err := tag.ApplyDefaults(&c); err != nil {
		return nil, fmt.Errorf("apply log defaults: %w", err)
	}

	w, err := writer.File(c.toWriterConfig())
	if err != nil {
		return nil, fmt.Errorf("create file writer: %w", err)
	}

	logger := newLogger(w, opts...)
	if closer, ok := w.(io.Closer); ok {
		logger.closer = closer
	}

	return logger, nil
}

// NewMulti 创建同时输出到文件和控制台的 Logger
func NewMulti(c FileConfig, opts ...Option) (*Logger, error) {
	if err := tag.ApplyDefaults(&c); err != nil {
		return nil, fmt.Errorf("apply log defaults: %w", err)
	}

	fw, err := writer.File(c.toWriterConfig())
	if err != nil {
		return nil, fmt.Errorf("create file writer: %w", err)
	}

	multi := zerolog.MultiLevelWriter(fw, writer.Console())
	logger := newLogger(multi, opts...)
	if closer, ok := fw.(io.Closer); ok {
		logger.closer = closer
	}

	return logger, nil
}
