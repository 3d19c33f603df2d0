package utils

import (
	"errors"
	"fmt"
	"sync"
	"time"
)

// ErrorKind 对齐流程中的错误分类，全部可以在单条语音内恢复
type ErrorKind int

const (
	// InputError 输入缺失或格式错误
	InputError ErrorKind = iota
	// UnalignableTranscript 识别器没有输出任何词
	UnalignableTranscript
	// EmptyFrameStream 没有可用的语音分类帧
	EmptyFrameStream
	// PlacementOverflow 词的开始时间超出了最后一个分段
	PlacementOverflow
	// MergeUnderflow 合并时分段少于2个
	MergeUnderflow
)

func (k ErrorKind) String() string {
	switch k {
	case UnalignableTranscript:
		return "UnalignableTranscript"
	case EmptyFrameStream:
		return "EmptyFrameStream"
	case PlacementOverflow:
		return "PlacementOverflow"
	case MergeUnderflow:
		return "MergeUnderflow"
	default:
		return "InputError"
	}
}

// AlignError 是对齐工具错误的基础类型
type AlignError struct {
	Kind      ErrorKind
	Utterance string
	Message   string
	Cause     error
}

// Error 实现error接口
func (e *AlignError) Error() string {
	prefix := e.Message
	if e.Utterance != "" {
		prefix = fmt.Sprintf("[%s] %s", e.Utterance, e.Message)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s", prefix, e.Cause.Error())
	}
	return prefix
}

// Unwrap 支持error chain
func (e *AlignError) Unwrap() error {
	return e.Cause
}

// NewError 创建一个新的AlignError
func NewError(message string, cause error) error {
	return &AlignError{
		Kind:    InputError,
		Message: message,
		Cause:   cause,
	}
}

// NewKindError 创建指定分类的AlignError
func NewKindError(kind ErrorKind, utterance, message string, cause error) error {
	return &AlignError{
		Kind:      kind,
		Utterance: utterance,
		Message:   message,
		Cause:     cause,
	}
}

// IsKind 判断错误链中是否包含指定分类的AlignError
func IsKind(err error, kind ErrorKind) bool {
	var alignErr *AlignError
	if errors.As(err, &alignErr) {
		return alignErr.Kind == kind
	}
	return false
}

// ErrorHandler 处理错误和重试
type ErrorHandler struct {
	MaxRetries int
	RetryDelay float64
	ErrorStats map[string]map[string]int // 操作 -> 错误信息 -> 计数
	mu         sync.Mutex
}

// NewErrorHandler 创建新的错误处理器
func NewErrorHandler(maxRetries int, retryDelay float64) *ErrorHandler {
	if maxRetries < 1 {
		maxRetries = 1
	}
	return &ErrorHandler{
		MaxRetries: maxRetries,
		RetryDelay: retryDelay,
		ErrorStats: make(map[string]map[string]int),
	}
}

// Retry 执行函数并在失败时重试
func (h *ErrorHandler) Retry(operation string, fn func() error) error {
	var lastErr error

	for attempt := 0; attempt < h.MaxRetries; attempt++ {
		err := fn()
		if err == nil {
			return nil
		}

		lastErr = err
		h.updateErrorStats(operation, err.Error())

		if attempt < h.MaxRetries-1 {
			delay := h.RetryDelay * float64(attempt+1)
			Warn("操作 %s 失败 (尝试 %d/%d): %s", operation, attempt+1, h.MaxRetries, err)
			time.Sleep(time.Duration(delay * float64(time.Second)))
		}
	}

	return NewError(fmt.Sprintf("操作 %s 重试 %d 次后仍然失败", operation, h.MaxRetries), lastErr)
}

// SafeExecute 安全地执行函数，失败或panic时执行清理并返回错误
func (h *ErrorHandler) SafeExecute(operation string, fn func() error, cleanup func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
			h.updateErrorStats(operation, err.Error())
			if cleanup != nil {
				cleanup()
			}
			err = NewError(fmt.Sprintf("操作 %s 失败", operation), err)
		}
	}()

	if err := fn(); err != nil {
		h.updateErrorStats(operation, err.Error())
		if cleanup != nil {
			Info("执行清理操作...")
			cleanup()
		}
		return NewError(fmt.Sprintf("操作 %s 失败", operation), err)
	}
	return nil
}

// Record 记录一次不中断流程的错误
func (h *ErrorHandler) Record(operation string, err error) {
	if err == nil {
		return
	}
	h.updateErrorStats(operation, err.Error())
}

func (h *ErrorHandler) updateErrorStats(operation string, errMsg string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.ErrorStats[operation] == nil {
		h.ErrorStats[operation] = make(map[string]int)
	}
	h.ErrorStats[operation][errMsg]++
}

// GetErrorStats 获取错误统计信息的副本
func (h *ErrorHandler) GetErrorStats() map[string]map[string]int {
	h.mu.Lock()
	defer h.mu.Unlock()
	stats := make(map[string]map[string]int, len(h.ErrorStats))
	for op, errs := range h.ErrorStats {
		inner := make(map[string]int, len(errs))
		for msg, n := range errs {
			inner[msg] = n
		}
		stats[op] = inner
	}
	return stats
}

// PrintErrorStats 打印错误统计信息
func (h *ErrorHandler) PrintErrorStats() {
	stats := h.GetErrorStats()
	if len(stats) == 0 {
		Info("没有错误记录")
		return
	}

	Info("错误统计:")
	for operation, errs := range stats {
		Info("操作: %s", operation)
		for errMsg, count := range errs {
			Info("  - %s: %d次", errMsg, count)
		}
	}
}
