package ui

import (
	"sort"
	"sync"
)

// ProgressManager 管理多个进度条，满足 batch.ProgressManager 接口
type ProgressManager struct {
	progressBars map[string]*ProgressBar
	mutex        sync.Mutex
	enabled      bool
	term         *TerminalManager
}

// NewProgressManager 创建输出到标准输出的进度管理器
func NewProgressManager(enabled bool) *ProgressManager {
	return NewProgressManagerWithTerminal(enabled, GetTerminalManager())
}

// NewProgressManagerWithTerminal 创建通过指定终端管理器输出的进度管理器
func NewProgressManagerWithTerminal(enabled bool, term *TerminalManager) *ProgressManager {
	return &ProgressManager{
		progressBars: make(map[string]*ProgressBar),
		enabled:      enabled,
		term:         term,
	}
}

// Enabled 是否显示进度
func (pm *ProgressManager) Enabled() bool {
	return pm.enabled
}

// CreateProgressBar 创建并注册进度条，同名进度条会先被完成
func (pm *ProgressManager) CreateProgressBar(id string, total int, prefix string, suffix string) {
	if !pm.enabled {
		return
	}

	pm.mutex.Lock()
	old, exists := pm.progressBars[id]
	bar := NewProgressBarWithTerminal(pm.term, total, prefix, suffix)
	pm.progressBars[id] = bar
	pm.mutex.Unlock()

	if exists {
		old.Complete("已被替换")
	}
}

// GetProgressBar 获取已存在的进度条
func (pm *ProgressManager) GetProgressBar(id string) *ProgressBar {
	pm.mutex.Lock()
	defer pm.mutex.Unlock()

	return pm.progressBars[id]
}

// UpdateProgressBar 更新进度条
func (pm *ProgressManager) UpdateProgressBar(id string, current int, suffix string) {
	if bar := pm.GetProgressBar(id); bar != nil {
		bar.Update(current, suffix)
	}
}

// CompleteProgressBar 完成并移除进度条
func (pm *ProgressManager) CompleteProgressBar(id string, suffix string) {
	pm.mutex.Lock()
	bar, exists := pm.progressBars[id]
	delete(pm.progressBars, id)
	pm.mutex.Unlock()

	if exists {
		bar.Complete(suffix)
	}
}

// CloseAll 完成所有进度条
func (pm *ProgressManager) CloseAll(suffix string) {
	pm.mutex.Lock()
	bars := make([]*ProgressBar, 0, len(pm.progressBars))
	for _, bar := range pm.progressBars {
		bars = append(bars, bar)
	}
	pm.progressBars = make(map[string]*ProgressBar)
	pm.mutex.Unlock()

	for _, bar := range bars {
		bar.Complete(suffix)
	}
}

// PrintStatus 打印当前所有进度条的状态
func (pm *ProgressManager) PrintStatus() {
	if !pm.enabled {
		return
	}

	pm.mutex.Lock()
	ids := make([]string, 0, len(pm.progressBars))
	for id := range pm.progressBars {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	bars := make([]*ProgressBar, len(ids))
	for i, id := range ids {
		bars[i] = pm.progressBars[id]
	}
	pm.mutex.Unlock()

	pm.term.PrintMsg("当前进度状态:")
	for i, bar := range bars {
		pm.term.PrintMsg("- %s: %s %s", ids[i], bar.String(), bar.Suffix)
	}
}
