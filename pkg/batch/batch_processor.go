package batch

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ccp-p/asr-media-cli/audio-aligner/pkg/models"
	"github.com/ccp-p/asr-media-cli/audio-aligner/pkg/utils"
)

// OverallBarID 总进度条ID
const OverallBarID = "batch_overall"

// UtteranceProcessor 处理单条语音
type UtteranceProcessor interface {
	Process(ctx context.Context, utt models.Utterance) (*models.Result, error)
}

// ProgressManager 批处理用到的进度条操作，internal/ui.ProgressManager 满足该接口
type ProgressManager interface {
	CreateProgressBar(id string, total int, prefix string, suffix string)
	UpdateProgressBar(id string, current int, suffix string)
	CompleteProgressBar(id string, suffix string)
}

// BatchResult 存储单条语音的批处理结果
type BatchResult struct {
	Utterance   models.Utterance
	Success     bool
	Result      *models.Result
	Error       error
	ProcessTime time.Duration
}

// BatchProgressCallback 批处理进度回调，开始时result为nil
type BatchProgressCallback func(current, total int, id string, result *BatchResult)

// BatchProcessor 以有限并发处理一批语音
type BatchProcessor struct {
	Processor        UtteranceProcessor
	MaxConcurrency   int
	ErrorHandler     *utils.ErrorHandler
	ProgressCallback BatchProgressCallback
	ProgressManager  ProgressManager
}

// NewBatchProcessor 创建批处理器
func NewBatchProcessor(processor UtteranceProcessor, callback BatchProgressCallback, config *models.Config) *BatchProcessor {
	concurrency := 4
	handler := utils.NewErrorHandler(1, 0)
	if config != nil {
		if config.MaxWorkers > 0 {
			concurrency = config.MaxWorkers
		}
		handler = utils.NewErrorHandler(config.MaxRetries, config.RetryDelay)
	}
	return &BatchProcessor{
		Processor:        processor,
		MaxConcurrency:   concurrency,
		ErrorHandler:     handler,
		ProgressCallback: callback,
	}
}

// SetProgressManager 设置进度管理器
func (p *BatchProcessor) SetProgressManager(manager ProgressManager) {
	p.ProgressManager = manager
}

// ProcessUtterances 并发处理多条语音，结果顺序与输入一致。
// 单条语音失败不会中断整批；ctx取消后尚未开始的语音直接记为失败
func (p *BatchProcessor) ProcessUtterances(ctx context.Context, utterances []models.Utterance) []BatchResult {
	total := len(utterances)
	results := make([]BatchResult, total)
	if total == 0 {
		return results
	}

	if p.ProgressManager != nil {
		p.ProgressManager.CreateProgressBar(OverallBarID, total,
			"总体进度", fmt.Sprintf("0/%d 语音已处理", total))
	}

	concurrency := p.MaxConcurrency
	if concurrency < 1 {
		concurrency = 1
	}

	var wg sync.WaitGroup
	var mu sync.Mutex
	done := 0
	sem := make(chan struct{}, concurrency) // 信号量限制并发

	for i, utt := range utterances {
		if err := ctx.Err(); err != nil {
			results[i] = BatchResult{Utterance: utt, Error: err}
			continue
		}

		wg.Add(1)
		sem <- struct{}{}

		go func(index int, utt models.Utterance) {
			defer wg.Done()
			defer func() { <-sem }()

			if p.ProgressCallback != nil {
				p.ProgressCallback(index+1, total, utt.ID, nil)
			}

			result := p.processSingle(ctx, utt)
			results[index] = result

			mu.Lock()
			done++
			current := done
			mu.Unlock()

			if p.ProgressCallback != nil {
				p.ProgressCallback(index+1, total, utt.ID, &result)
			}
			if p.ProgressManager != nil {
				p.ProgressManager.UpdateProgressBar(OverallBarID, current,
					fmt.Sprintf("%d/%d 语音已处理", current, total))
			}
		}(i, utt)
	}

	wg.Wait()

	if p.ProgressManager != nil {
		p.ProgressManager.CompleteProgressBar(OverallBarID, "所有语音处理完成")
	}
	return results
}

// processSingle 处理单条语音，panic也会被转换为失败结果
func (p *BatchProcessor) processSingle(ctx context.Context, utt models.Utterance) BatchResult {
	result := BatchResult{Utterance: utt}
	start := time.Now()

	err := p.ErrorHandler.SafeExecute("处理语音 "+utt.ID, func() error {
		res, err := p.Processor.Process(ctx, utt)
		result.Result = res
		return err
	}, nil)

	result.ProcessTime = time.Since(start)
	if err != nil {
		result.Error = err
		utils.WithUtterance(utt.ID).Errorf("处理失败: %v", err)
		return result
	}
	result.Success = true
	return result
}

// Summary 统计成功和失败数
func Summary(results []BatchResult) (succeeded, failed int) {
	for _, r := range results {
		if r.Success {
			succeeded++
		} else {
			failed++
		}
	}
	return succeeded, failed
}
