package watcher

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/ccp-p/asr-media-cli/audio-aligner/pkg/utils"
	"github.com/fsnotify/fsnotify"
)

// FileEventHandler 是处理文件事件的接口
type FileEventHandler interface {
	OnFileCreated(filePath string)
	OnFileModified(filePath string)
	OnFileDeleted(filePath string)
}

// FolderMonitor 监控文件夹中指定后缀的文件，写入停止debounceTime后才交给处理器
type FolderMonitor struct {
	watcher      *fsnotify.Watcher
	folderPath   string
	suffixes     []string
	handler      FileEventHandler
	debounceTime time.Duration
	pendingFiles map[string]*time.Timer
	mutex        sync.Mutex
	stopChan     chan struct{}
	stopOnce     sync.Once
}

// NewFolderMonitor 创建新的文件夹监控器。
// suffixes按完整后缀匹配，可以是 .rec.json 这样的复合扩展名
func NewFolderMonitor(folderPath string, suffixes []string, handler FileEventHandler, debounceTime time.Duration) (*FolderMonitor, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("创建文件监控器失败: %w", err)
	}

	return &FolderMonitor{
		watcher:      watcher,
		folderPath:   folderPath,
		suffixes:     suffixes,
		handler:      handler,
		debounceTime: debounceTime,
		pendingFiles: make(map[string]*time.Timer),
		stopChan:     make(chan struct{}),
	}, nil
}

// Start 开始监控文件夹
func (m *FolderMonitor) Start() error {
	if err := os.MkdirAll(m.folderPath, 0755); err != nil {
		return fmt.Errorf("创建文件夹失败: %w", err)
	}

	if err := m.watcher.Add(m.folderPath); err != nil {
		return fmt.Errorf("添加监控文件夹失败: %w", err)
	}

	go m.watchLoop()

	utils.Info("开始监控文件夹: %s", m.folderPath)
	return nil
}

// Stop 停止监控，可重复调用
func (m *FolderMonitor) Stop() {
	m.stopOnce.Do(func() {
		close(m.stopChan)
		m.watcher.Close()
		utils.Info("停止监控文件夹: %s", m.folderPath)

		m.mutex.Lock()
		defer m.mutex.Unlock()
		for path, timer := range m.pendingFiles {
			timer.Stop()
			delete(m.pendingFiles, path)
		}
	})
}

// Pending 等待处理的文件数
func (m *FolderMonitor) Pending() int {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return len(m.pendingFiles)
}

func (m *FolderMonitor) watchLoop() {
	for {
		select {
		case <-m.stopChan:
			return
		case event, ok := <-m.watcher.Events:
			if !ok {
				return
			}
			m.handleFileEvent(event)
		case err, ok := <-m.watcher.Errors:
			if !ok {
				return
			}
			utils.Error("监控文件夹时出错: %v", err)
		}
	}
}

func (m *FolderMonitor) handleFileEvent(event fsnotify.Event) {
	filePath := event.Name
	if !m.matchSuffix(filePath) {
		return
	}

	if event.Op&(fsnotify.Remove|fsnotify.Rename) != 0 {
		m.cancelPending(filePath)
		if m.handler != nil {
			m.handler.OnFileDeleted(filePath)
		}
		return
	}

	if event.Op&(fsnotify.Create|fsnotify.Write) == 0 || !m.isRegularFile(filePath) {
		return
	}

	m.mutex.Lock()
	defer m.mutex.Unlock()

	select {
	case <-m.stopChan:
		return
	default:
	}

	// 重新计时，文件写完后才处理
	if timer, exists := m.pendingFiles[filePath]; exists {
		timer.Stop()
	}
	m.pendingFiles[filePath] = time.AfterFunc(m.debounceTime, func() {
		m.processFile(filePath)
	})

	utils.Debug("检测到文件变化: %s", filePath)
}

func (m *FolderMonitor) cancelPending(filePath string) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if timer, exists := m.pendingFiles[filePath]; exists {
		timer.Stop()
		delete(m.pendingFiles, filePath)
	}
}

// matchSuffix 判断文件名是否为监控的后缀
func (m *FolderMonitor) matchSuffix(filePath string) bool {
	name := strings.ToLower(filepath.Base(filePath))
	if strings.HasPrefix(name, ".") {
		return false
	}
	for _, suffix := range m.suffixes {
		if strings.HasSuffix(name, suffix) {
			return true
		}
	}
	return false
}

func (m *FolderMonitor) isRegularFile(filePath string) bool {
	info, err := os.Stat(filePath)
	return err == nil && info.Mode().IsRegular()
}

func (m *FolderMonitor) processFile(filePath string) {
	m.mutex.Lock()
	delete(m.pendingFiles, filePath)
	m.mutex.Unlock()

	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		return
	}

	utils.Info("准备处理文件: %s", filePath)
	if m.handler != nil {
		m.handler.OnFileCreated(filePath)
	}
}

// MoveFile 把文件移动到目标文件夹，重名时加时间戳，返回新路径
func MoveFile(sourcePath, targetFolder string) (string, error) {
	if err := os.MkdirAll(targetFolder, 0755); err != nil {
		return "", fmt.Errorf("创建目标文件夹失败: %w", err)
	}

	filename := filepath.Base(sourcePath)
	targetPath := filepath.Join(targetFolder, filename)

	if _, err := os.Stat(targetPath); err == nil {
		ext := filepath.Ext(filename)
		name := strings.TrimSuffix(filename, ext)
		timestamp := time.Now().Format("20060102150405")
		targetPath = filepath.Join(targetFolder, fmt.Sprintf("%s_%s%s", name, timestamp, ext))
	}

	if err := os.Rename(sourcePath, targetPath); err != nil {
		return "", fmt.Errorf("移动文件失败 %s -> %s: %w", sourcePath, targetPath, err)
	}

	utils.Info("文件已移动: %s -> %s", sourcePath, targetPath)
	return targetPath, nil
}
