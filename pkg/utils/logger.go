package utils

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
)

// 日志级别常量
const (
	LogLevelVerbose = "VERBOSE"
	LogLevelNormal  = "INFO"
	LogLevelQuiet   = "WARN"
)

var (
	// Log 全局日志实例
	Log *logrus.Logger
	// 进度条模式下日志只写文件，避免打乱终端
	terminalProgressEnabled bool
)

// InitLogger 初始化日志系统
// level: 日志级别 (VERBOSE/INFO/WARN/ERROR，或logrus级别名如debug/info)
// logFile: 日志文件路径，空字符串表示仅输出到控制台
func InitLogger(level string, logFile string) error {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})

	switch {
	case terminalProgressEnabled:
		if logFile == "" {
			logFile = filepath.Join(os.TempDir(), "audio-aligner.log")
		}
		file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
		if err == nil {
			logger.SetOutput(file)
		}
	case logFile != "":
		if err := os.MkdirAll(filepath.Dir(logFile), 0755); err != nil {
			return fmt.Errorf("创建日志目录失败: %w", err)
		}
		file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
		if err != nil {
			return fmt.Errorf("打开日志文件失败: %w", err)
		}
		// 同时输出到文件和控制台
		logger.SetOutput(io.MultiWriter(os.Stdout, file))
	default:
		logger.SetOutput(os.Stdout)
	}

	logger.SetLevel(parseLevel(level))
	Log = logger
	return nil
}

// parseLevel 兼容自定义级别名和logrus级别名
func parseLevel(level string) logrus.Level {
	switch strings.ToUpper(level) {
	case LogLevelVerbose:
		return logrus.DebugLevel
	case LogLevelNormal:
		return logrus.InfoLevel
	case LogLevelQuiet:
		return logrus.WarnLevel
	}
	if parsed, err := logrus.ParseLevel(level); err == nil {
		return parsed
	}
	return logrus.InfoLevel
}

// EnableTerminalProgress 启用终端进度条模式，之后日志不再输出到终端
func EnableTerminalProgress() {
	terminalProgressEnabled = true
	level := LogLevelNormal
	if Log != nil {
		level = Log.GetLevel().String()
	}
	InitLogger(level, "")
}

// DisableTerminalProgress 禁用终端进度条模式，日志恢复到终端输出
func DisableTerminalProgress() {
	terminalProgressEnabled = false
	if Log != nil {
		Log.SetOutput(os.Stdout)
	}
}

// Debug 输出调试日志
func Debug(format string, args ...interface{}) {
	if Log != nil {
		if len(args) > 0 {
			Log.Debugf(format, args...)
		} else {
			Log.Debug(format)
		}
	}
}

// Info 输出信息日志
func Info(format string, args ...interface{}) {
	if Log != nil {
		if len(args) > 0 {
			Log.Infof(format, args...)
		} else {
			Log.Info(format)
		}
	}
}

// Warn 输出警告日志
func Warn(format string, args ...interface{}) {
	if Log != nil {
		if len(args) > 0 {
			Log.Warnf(format, args...)
		} else {
			Log.Warn(format)
		}
	}
}

// Error 输出错误日志
func Error(format string, args ...interface{}) {
	if Log != nil {
		if len(args) > 0 {
			Log.Errorf(format, args...)
		} else {
			Log.Error(format)
		}
	}
}

// WithField 创建带字段的日志条目
func WithField(key string, value interface{}) *logrus.Entry {
	return logger().WithField(key, value)
}

// WithFields 创建带多个字段的日志条目
func WithFields(fields logrus.Fields) *logrus.Entry {
	return logger().WithFields(fields)
}

// WithUtterance 创建带语音ID字段的日志条目
func WithUtterance(id string) *logrus.Entry {
	return logger().WithField("utterance", id)
}

// logger 未初始化时退回到丢弃输出的实例，保证调用方拿到的Entry不为nil
func logger() *logrus.Logger {
	if Log != nil {
		return Log
	}
	discard := logrus.New()
	discard.SetOutput(io.Discard)
	return discard
}
