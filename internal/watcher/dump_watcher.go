package watcher

import (
	"time"

	"github.com/ccp-p/asr-media-cli/audio-aligner/internal/ui"
	"github.com/ccp-p/asr-media-cli/audio-aligner/pkg/batch"
	"github.com/ccp-p/asr-media-cli/audio-aligner/pkg/models"
	"github.com/ccp-p/asr-media-cli/audio-aligner/pkg/scanner"
	"github.com/ccp-p/asr-media-cli/audio-aligner/pkg/utils"
)

// DefaultDebounce 文件写入停止多久后开始处理
const DefaultDebounce = 2 * time.Second

// WatchManager 监听识别结果文件夹中新到的批处理文件和识别结果
type WatchManager struct {
	folderMonitor   *FolderMonitor
	pollingMonitor  *PollingMonitor
	progressManager *ui.ProgressManager
	config          *models.Config
	stopChan        chan struct{}
	StatusInterval  time.Duration
}

// NewWatchManager 创建监控管理器，poll为true时同时启用轮询
func NewWatchManager(config *models.Config, handler FileEventHandler, progressManager *ui.ProgressManager, poll bool) (*WatchManager, error) {
	folderMonitor, err := NewFolderMonitor(
		config.DumpFolder,
		[]string{batch.FileExt, scanner.DumpExt},
		handler,
		DefaultDebounce,
	)
	if err != nil {
		return nil, err
	}

	m := &WatchManager{
		folderMonitor:   folderMonitor,
		progressManager: progressManager,
		config:          config,
		stopChan:        make(chan struct{}),
		StatusInterval:  30 * time.Second,
	}
	if poll {
		m.pollingMonitor = NewPollingMonitor(config.DumpFolder, handler)
	}
	return m, nil
}

// Start 启动所有监控
func (m *WatchManager) Start() error {
	if err := m.folderMonitor.Start(); err != nil {
		return err
	}
	if m.pollingMonitor != nil {
		m.pollingMonitor.Start()
	}

	utils.Info("监听模式已启动: %s", m.config.DumpFolder)

	if m.progressManager != nil && m.progressManager.Enabled() {
		go m.periodicStatusUpdate()
	}
	return nil
}

// Stop 停止所有监控
func (m *WatchManager) Stop() {
	close(m.stopChan)
	m.folderMonitor.Stop()
	if m.pollingMonitor != nil {
		m.pollingMonitor.Stop()
	}
	utils.Info("监听模式已停止")
}

func (m *WatchManager) periodicStatusUpdate() {
	ticker := time.NewTicker(m.StatusInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.progressManager.PrintStatus()
		case <-m.stopChan:
			return
		}
	}
}
