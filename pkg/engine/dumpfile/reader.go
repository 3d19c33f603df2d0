package dumpfile

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/ccp-p/asr-media-cli/audio-aligner/pkg/alignment"
	"github.com/ccp-p/asr-media-cli/audio-aligner/pkg/engine"
	"github.com/ccp-p/asr-media-cli/audio-aligner/pkg/models"
	"github.com/ccp-p/asr-media-cli/audio-aligner/pkg/utils"
)

// Name 注册名
const Name = models.SourceDump

func init() {
	engine.RegisterRecognizer(Name, func(cfg *models.Config) (engine.Recognizer, error) {
		return NewReader(cfg.DumpFolder, utils.NewErrorHandler(cfg.MaxRetries, cfg.RetryDelay)), nil
	})
	engine.RegisterFrontend(Name, func(cfg *models.Config) (engine.Frontend, error) {
		return NewReader(cfg.DumpFolder, utils.NewErrorHandler(cfg.MaxRetries, cfg.RetryDelay)), nil
	})
}

// Reader 从识别结果文件读取识别词和帧事件。
// 监听模式下文件可能仍在写入，读取失败时会重试
type Reader struct {
	folder  string
	handler *utils.ErrorHandler
}

// NewReader 创建读取器，folder用于定位没有指定DumpPath的语音
func NewReader(folder string, handler *utils.ErrorHandler) *Reader {
	if handler == nil {
		handler = utils.NewErrorHandler(1, 0)
	}
	return &Reader{folder: folder, handler: handler}
}

// Name 实现 engine.Recognizer 和 engine.Frontend
func (r *Reader) Name() string {
	return Name
}

// PathFor 语音对应的识别结果文件路径
func (r *Reader) PathFor(utt models.Utterance) string {
	if utt.DumpPath != "" {
		return utt.DumpPath
	}
	return filepath.Join(r.folder, utt.ID+Ext)
}

// Load 读取并解析识别结果文件
func (r *Reader) Load(ctx context.Context, utt models.Utterance) (*File, error) {
	path := r.PathFor(utt)
	var file File
	err := r.handler.Retry("读取识别结果", func() error {
		if err := ctx.Err(); err != nil {
			return err
		}
		file = File{}
		return utils.LoadJSONFile(path, &file)
	})
	if err != nil {
		return nil, fmt.Errorf("读取 %s 失败: %w", path, err)
	}
	return &file, nil
}

// Recognize 实现 engine.Recognizer
func (r *Reader) Recognize(ctx context.Context, utt models.Utterance) ([]alignment.HypothesisWord, error) {
	file, err := r.Load(ctx, utt)
	if err != nil {
		return nil, err
	}
	return file.Hypothesis(), nil
}

// Extract 实现 engine.Frontend
func (r *Reader) Extract(ctx context.Context, utt models.Utterance) ([]alignment.FrameEvent, error) {
	file, err := r.Load(ctx, utt)
	if err != nil {
		return nil, err
	}
	return file.Events()
}

// Save 把识别结果写入文件，用于缓存其他识别器的输出
func Save(path string, words []alignment.HypothesisWord, events []alignment.FrameEvent) error {
	return utils.SaveJSONFile(path, NewFile(words, events))
}
