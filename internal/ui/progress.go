package ui

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
)

// ProgressBar 进度条
type ProgressBar struct {
	Total      int       // 总步数
	Current    int       // 当前进度
	Prefix     string    // 前缀
	Suffix     string    // 后缀
	Width      int       // 进度条宽度
	FillChar   string    // 填充字符
	EmptyChar  string    // 空白字符
	StartTime  time.Time // 开始时间
	LastUpdate time.Time // 上次更新时间

	mu   sync.Mutex
	term *TerminalManager
}

// NewProgressBar 创建输出到标准输出的进度条
func NewProgressBar(total int, prefix string, suffix string) *ProgressBar {
	return NewProgressBarWithTerminal(GetTerminalManager(), total, prefix, suffix)
}

// NewProgressBarWithTerminal 创建通过指定终端管理器输出的进度条
func NewProgressBarWithTerminal(term *TerminalManager, total int, prefix string, suffix string) *ProgressBar {
	now := time.Now()
	return &ProgressBar{
		Total:      total,
		Prefix:     prefix,
		Suffix:     suffix,
		Width:      30,
		FillChar:   "█",
		EmptyChar:  "░",
		StartTime:  now,
		LastUpdate: now,
		term:       term,
	}
}

// Update 更新进度，超出总数时截断
func (p *ProgressBar) Update(current int, suffix string) {
	if current < 0 {
		return
	}

	p.mu.Lock()
	if current > p.Total {
		current = p.Total
	}
	p.Current = current
	if suffix != "" {
		p.Suffix = suffix
	}
	p.LastUpdate = time.Now()
	line := p.line()
	p.mu.Unlock()

	p.term.UpdateProgress(color.CyanString(line))
}

// Increment 进度加一
func (p *ProgressBar) Increment(suffix string) {
	p.mu.Lock()
	next := p.Current + 1
	p.mu.Unlock()
	p.Update(next, suffix)
}

// Complete 完成进度条并换行
func (p *ProgressBar) Complete(suffix string) {
	p.Update(p.Total, suffix)
	p.term.FinishLine()
}

// Percent 完成百分比
func (p *ProgressBar) Percent() float64 {
	if p.Total <= 0 {
		return 100
	}
	return float64(p.Current) / float64(p.Total) * 100
}

// line 构建进度行，调用方持有锁
func (p *ProgressBar) line() string {
	ratio := p.Percent() / 100
	filled := int(ratio * float64(p.Width))
	if filled > p.Width {
		filled = p.Width
	}
	bar := strings.Repeat(p.FillChar, filled) + strings.Repeat(p.EmptyChar, p.Width-filled)

	elapsed := time.Since(p.StartTime)
	var remaining time.Duration
	if p.Current > 0 && ratio < 1 {
		remaining = time.Duration(float64(elapsed) / ratio * (1 - ratio))
	}

	return fmt.Sprintf("%s [%s] %3.0f%% | %d/%d | %s<%s | %s",
		p.Prefix, bar, ratio*100, p.Current, p.Total,
		formatDuration(elapsed), formatDuration(remaining), p.Suffix)
}

// 格式化为 MM:SS
func formatDuration(d time.Duration) string {
	minutes := int(d.Minutes())
	seconds := int(d.Seconds()) % 60
	return fmt.Sprintf("%02d:%02d", minutes, seconds)
}

// String 返回进度条的字符串表示
func (p *ProgressBar) String() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return fmt.Sprintf("%s %s %3.0f%% | %d/%d",
		p.Prefix, renderProgressBar(p.Current, p.Total, 30), p.Percent(), p.Current, p.Total)
}

func renderProgressBar(current, total, width int) string {
	filled := width
	if total > 0 {
		filled = int(float64(current) / float64(total) * float64(width))
	}
	return "[" + strings.Repeat("█", filled) + strings.Repeat("░", width-filled) + "]"
}
