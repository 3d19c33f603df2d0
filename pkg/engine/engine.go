// Package engine 把识别器、前端、分词器和文本对齐器组合为一个显式传递的对齐引擎
package engine

import (
	"context"
	"fmt"

	"github.com/ccp-p/asr-media-cli/audio-aligner/pkg/alignment"
	"github.com/ccp-p/asr-media-cli/audio-aligner/pkg/models"
	"github.com/ccp-p/asr-media-cli/audio-aligner/pkg/utils"
)

// Recognizer 对一条语音给出带时间的识别词
type Recognizer interface {
	Name() string
	Recognize(ctx context.Context, utt models.Utterance) ([]alignment.HypothesisWord, error)
}

// Frontend 对一条语音给出按时间排序的帧事件
type Frontend interface {
	Name() string
	Extract(ctx context.Context, utt models.Utterance) ([]alignment.FrameEvent, error)
}

// Closer 持有外部资源的识别器或前端
type Closer interface {
	Close() error
}

// Analysis 单条语音的识别和对齐结果
type Analysis struct {
	Utterance  models.Utterance
	Hypothesis []alignment.HypothesisWord
	Events     []alignment.FrameEvent
	Transcript *alignment.TranscriptAlignment
}

// Engine 对齐引擎，由调用方创建并传递，可被多个goroutine同时使用
type Engine struct {
	recognizer Recognizer
	frontend   Frontend
	aligner    *alignment.WordAligner
	registry   *Registry
}

// New 创建对齐引擎
func New(recognizer Recognizer, frontend Frontend, tokenizer alignment.Tokenizer, textAligner alignment.TextAligner) *Engine {
	return &Engine{
		recognizer: recognizer,
		frontend:   frontend,
		aligner:    alignment.NewWordAligner(tokenizer, textAligner),
	}
}

// Aligner 词对齐器
func (e *Engine) Aligner() *alignment.WordAligner {
	return e.aligner
}

// Describe 引擎组成，用于日志
func (e *Engine) Describe() string {
	return fmt.Sprintf("recognizer=%s frontend=%s", e.recognizer.Name(), e.frontend.Name())
}

// Analyze 识别并对齐一条语音
func (e *Engine) Analyze(ctx context.Context, utt models.Utterance) (*Analysis, error) {
	log := utils.WithUtterance(utt.ID)

	hypothesis, err := e.recognizer.Recognize(ctx, utt)
	e.report(e.recognizer.Name(), err)
	if err != nil {
		return nil, utils.NewKindError(utils.InputError, utt.ID, "识别失败", err)
	}

	events, err := e.frontend.Extract(ctx, utt)
	e.report(e.frontend.Name(), err)
	if err != nil {
		return nil, utils.NewKindError(utils.InputError, utt.ID, "前端处理失败", err)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	transcript := e.aligner.AlignTranscript(utt.Reference, hypothesis, events)
	if transcript.Frames.Len() == 0 {
		log.Warn(utils.NewKindError(utils.EmptyFrameStream, utt.ID, "前端没有输出任何帧", nil).Error())
	}
	log.Debugf("识别词 %d 个，帧 %d 个，匹配 %d/%d", len(hypothesis), transcript.Frames.Len(),
		transcript.MatchedCount(), len(transcript.Words))

	return &Analysis{
		Utterance:  utt,
		Hypothesis: hypothesis,
		Events:     events,
		Transcript: transcript,
	}, nil
}

// Recognize 只运行识别器，不经过前端
func (e *Engine) Recognize(ctx context.Context, utt models.Utterance) ([]alignment.HypothesisWord, error) {
	hypothesis, err := e.recognizer.Recognize(ctx, utt)
	e.report(e.recognizer.Name(), err)
	if err != nil {
		return nil, utils.NewKindError(utils.InputError, utt.ID, "识别失败", err)
	}
	return hypothesis, nil
}

// Align 只返回对齐聚合
func (e *Engine) Align(ctx context.Context, utt models.Utterance) (*alignment.TranscriptAlignment, error) {
	analysis, err := e.Analyze(ctx, utt)
	if err != nil {
		return nil, err
	}
	return analysis.Transcript, nil
}

// Report 文本对齐报告
func (e *Engine) Report(a *Analysis) []string {
	return e.aligner.Report(a.Utterance.Reference, a.Hypothesis)
}

// Close 释放识别器和前端持有的资源
func (e *Engine) Close() error {
	var firstErr error
	for _, c := range []interface{}{e.recognizer, e.frontend} {
		if closer, ok := c.(Closer); ok {
			if err := closer.Close(); err != nil && firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

func (e *Engine) report(name string, err error) {
	if e.registry != nil {
		e.registry.ReportResult(name, err == nil)
	}
}
