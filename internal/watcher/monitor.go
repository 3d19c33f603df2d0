package watcher

import (
	"sync"
	"time"

	"github.com/ccp-p/asr-media-cli/audio-aligner/pkg/scanner"
	"github.com/sirupsen/logrus"
)

// PollingMonitor 定期扫描识别结果文件夹，用于收不到文件系统事件的网络目录
type PollingMonitor struct {
	Folder    string
	Handler   FileEventHandler
	Scanner   *scanner.UtteranceScanner
	StopChan  chan struct{}
	Interval  time.Duration
	processed map[string]bool
	mu        sync.Mutex
	stopOnce  sync.Once
}

// NewPollingMonitor 创建新的轮询监控器
func NewPollingMonitor(folder string, handler FileEventHandler) *PollingMonitor {
	return &PollingMonitor{
		Folder:    folder,
		Handler:   handler,
		Scanner:   scanner.NewUtteranceScanner(),
		StopChan:  make(chan struct{}),
		Interval:  10 * time.Second, // 默认10秒扫描一次
		processed: make(map[string]bool),
	}
}

// Start 开始轮询
func (m *PollingMonitor) Start() {
	go m.monitorRoutine()
}

// Stop 停止轮询，可重复调用
func (m *PollingMonitor) Stop() {
	m.stopOnce.Do(func() { close(m.StopChan) })
}

func (m *PollingMonitor) monitorRoutine() {
	ticker := time.NewTicker(m.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.Poll()
		case <-m.StopChan:
			return
		}
	}
}

// MarkProcessed 标记识别结果文件已处理，之后的轮询不再上报
func (m *PollingMonitor) MarkProcessed(dumpPath string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.processed[dumpPath] = true
}

// Poll 扫描一次，把新的识别结果交给处理器，返回上报的文件数
func (m *PollingMonitor) Poll() int {
	files, err := m.Scanner.ScanDirectory(m.Folder)
	if err != nil {
		logrus.Debugf("轮询识别结果文件夹失败: %v", err)
		return 0
	}

	m.mu.Lock()
	newFiles := m.Scanner.FilterNewFiles(files, m.processed)
	for _, f := range newFiles {
		m.processed[f.DumpPath] = true
	}
	m.mu.Unlock()

	for _, f := range newFiles {
		if m.Handler != nil {
			m.Handler.OnFileCreated(f.DumpPath)
		}
	}
	return len(newFiles)
}
