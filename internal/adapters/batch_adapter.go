package adapters

import (
	"context"
	"path/filepath"
	"strings"
	"sync"

	"github.com/ccp-p/asr-media-cli/audio-aligner/internal/watcher"
	"github.com/ccp-p/asr-media-cli/audio-aligner/pkg/batch"
	"github.com/ccp-p/asr-media-cli/audio-aligner/pkg/models"
	"github.com/ccp-p/asr-media-cli/audio-aligner/pkg/scanner"
	"github.com/ccp-p/asr-media-cli/audio-aligner/pkg/utils"
)

// ProcessedFolder 处理完的批处理文件移到识别结果文件夹下的这个子目录
const ProcessedFolder = "processed"

// BatchProcessorAdapter 把监听到的文件交给批处理器，实现 watcher.FileEventHandler
type BatchProcessorAdapter struct {
	Processor *batch.BatchProcessor
	Scanner   *scanner.UtteranceScanner
	// OnResults 每次处理完成后回调，可为nil
	OnResults func(source string, results []batch.BatchResult)

	ctx       context.Context
	processed map[string]bool
	mutex     sync.Mutex
}

// NewBatchProcessorAdapter 创建新的批处理器适配器
func NewBatchProcessorAdapter(ctx context.Context, processor *batch.BatchProcessor) *BatchProcessorAdapter {
	return &BatchProcessorAdapter{
		Processor: processor,
		Scanner:   scanner.NewUtteranceScanner(),
		ctx:       ctx,
		processed: make(map[string]bool),
	}
}

// IsRecognizedFile 检查文件是否已处理
func (a *BatchProcessorAdapter) IsRecognizedFile(filePath string) bool {
	a.mutex.Lock()
	defer a.mutex.Unlock()
	return a.processed[filePath]
}

// OnFileCreated 处理新的批处理文件或识别结果文件
func (a *BatchProcessorAdapter) OnFileCreated(filePath string) {
	if !a.markProcessed(filePath) {
		utils.Debug("文件已处理，跳过: %s", filePath)
		return
	}

	var utterances []models.Utterance
	switch {
	case strings.HasSuffix(filePath, batch.FileExt):
		utts, err := batch.LoadBatchFile(filePath)
		if err != nil {
			utils.Error("读取批处理文件失败 %s: %v", filePath, err)
			return
		}
		utterances = utts
	case strings.HasSuffix(filePath, scanner.DumpExt):
		file, err := a.Scanner.ScanFile(filePath)
		if err != nil {
			// 参考文本可能稍后才到，允许再次触发
			utils.Warn("暂不处理 %s: %v", filePath, err)
			a.forget(filePath)
			return
		}
		utterances = []models.Utterance{file.Utterance}
	default:
		return
	}

	results := a.Processor.ProcessUtterances(a.ctx, utterances)
	if a.OnResults != nil {
		a.OnResults(filePath, results)
	}

	if strings.HasSuffix(filePath, batch.FileExt) {
		archived, err := watcher.MoveFile(filePath, filepath.Join(filepath.Dir(filePath), ProcessedFolder))
		if err != nil {
			utils.Warn("归档批处理文件失败: %v", err)
			return
		}
		a.forget(filePath)
		a.mutex.Lock()
		a.processed[archived] = true
		a.mutex.Unlock()
	}
}

// OnFileModified 修改事件与创建事件一样由防抖后的OnFileCreated处理
func (a *BatchProcessorAdapter) OnFileModified(filePath string) {}

// OnFileDeleted 文件删除后允许同名文件再次处理
func (a *BatchProcessorAdapter) OnFileDeleted(filePath string) {
	a.forget(filePath)
}

// markProcessed 标记文件，已标记时返回false
func (a *BatchProcessorAdapter) markProcessed(filePath string) bool {
	a.mutex.Lock()
	defer a.mutex.Unlock()
	if a.processed[filePath] {
		return false
	}
	a.processed[filePath] = true
	return true
}

func (a *BatchProcessorAdapter) forget(filePath string) {
	a.mutex.Lock()
	defer a.mutex.Unlock()
	delete(a.processed, filePath)
}
