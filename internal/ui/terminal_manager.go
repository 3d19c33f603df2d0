package ui

import (
	"fmt"
	"io"
	"os"
	"sync"
)

// TerminalManager 串行化终端输出，避免进度条和消息互相覆盖
type TerminalManager struct {
	mu     sync.Mutex
	writer io.Writer
}

var (
	globalTerminalManager *TerminalManager
	once                  sync.Once
)

// NewTerminalManager 创建输出到writer的终端管理器
func NewTerminalManager(writer io.Writer) *TerminalManager {
	return &TerminalManager{writer: writer}
}

// GetTerminalManager 获取输出到标准输出的全局实例
func GetTerminalManager() *TerminalManager {
	once.Do(func() {
		globalTerminalManager = NewTerminalManager(os.Stdout)
	})
	return globalTerminalManager
}

// PrintMsg 清除当前行后打印一行消息
func (tm *TerminalManager) PrintMsg(format string, args ...interface{}) {
	tm.mu.Lock()
	defer tm.mu.Unlock()

	fmt.Fprint(tm.writer, "\033[2K\r")
	fmt.Fprintf(tm.writer, format+"\n", args...)
}

// UpdateProgress 在当前行重绘进度
func (tm *TerminalManager) UpdateProgress(line string) {
	tm.mu.Lock()
	defer tm.mu.Unlock()

	// 直接输出文本，避免进度行里的%被当作格式符
	fmt.Fprint(tm.writer, "\033[2K\r")
	fmt.Fprint(tm.writer, line)
}

// FinishLine 结束当前进度行
func (tm *TerminalManager) FinishLine() {
	tm.mu.Lock()
	defer tm.mu.Unlock()
	fmt.Fprintln(tm.writer)
}
