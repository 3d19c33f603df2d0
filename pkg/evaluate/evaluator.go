package evaluate

import (
	"context"
	"strings"
	"time"

	"github.com/ccp-p/asr-media-cli/audio-aligner/pkg/alignment"
	"github.com/ccp-p/asr-media-cli/audio-aligner/pkg/models"
	"github.com/ccp-p/asr-media-cli/audio-aligner/pkg/utils"
)

// Recognizer 给出一条语音的识别词，engine.Engine 满足此接口
type Recognizer interface {
	Recognize(ctx context.Context, utt models.Utterance) ([]alignment.HypothesisWord, error)
}

// UtteranceScore 单条语音的评估结果
type UtteranceScore struct {
	ID          string        `json:"id"`
	Reference   []string      `json:"reference"`
	Hypothesis  []string      `json:"hypothesis"`
	Counts      Counts        `json:"counts"`
	Pairs       []Pair        `json:"-"`
	Error       string        `json:"error,omitempty"`
	ProcessTime time.Duration `json:"process_time"`
}

// Failed 识别失败
func (s *UtteranceScore) Failed() bool {
	return s.Error != ""
}

// Report 一批语音的评估结果
type Report struct {
	Utterances []UtteranceScore `json:"utterances"`
	Total      Counts           `json:"total"`
	Failed     int              `json:"failed"`
}

// Evaluator 识别并与参考文本比较
type Evaluator struct {
	recognizer Recognizer
	tokenizer  alignment.Tokenizer
	aligner    alignment.TextAligner
}

// NewEvaluator 创建评估器
func NewEvaluator(recognizer Recognizer, tokenizer alignment.Tokenizer, aligner alignment.TextAligner) *Evaluator {
	return &Evaluator{
		recognizer: recognizer,
		tokenizer:  tokenizer,
		aligner:    aligner,
	}
}

// EvaluateUtterance 评估一条语音。识别词与参考文本经过同样的规范化
func (e *Evaluator) EvaluateUtterance(ctx context.Context, utt models.Utterance) UtteranceScore {
	start := time.Now()
	score := UtteranceScore{
		ID:        utt.ID,
		Reference: e.tokenizer.Expand(utt.Reference),
	}

	hypothesis, err := e.recognizer.Recognize(ctx, utt)
	if err != nil {
		score.Error = err.Error()
		score.Counts = Counts{Reference: len(score.Reference)}
		score.ProcessTime = time.Since(start)
		return score
	}

	spellings := make([]string, 0, len(hypothesis))
	for _, w := range hypothesis {
		spellings = append(spellings, w.Spelling)
	}
	score.Hypothesis = e.tokenizer.Expand(strings.Join(spellings, " "))
	score.Counts, score.Pairs = Score(score.Reference, score.Hypothesis, e.aligner)
	score.ProcessTime = time.Since(start)
	return score
}

// Evaluate 依次评估所有语音。失败的语音不计入总错误率；
// 上下文取消后停止，已完成的结果仍然返回
func (e *Evaluator) Evaluate(ctx context.Context, utterances []models.Utterance) *Report {
	report := &Report{}
	for i, utt := range utterances {
		if ctx.Err() != nil {
			utils.Warn("评估已取消，剩余 %d 条语音未处理", len(utterances)-i)
			break
		}

		utils.Debug("评估 %s (%d/%d)", utt.ID, i+1, len(utterances))
		score := e.EvaluateUtterance(ctx, utt)
		if score.Failed() {
			report.Failed++
			utils.WithUtterance(utt.ID).Warnf("识别失败: %s", score.Error)
		} else {
			report.Total.Add(score.Counts)
		}
		report.Utterances = append(report.Utterances, score)
	}
	return report
}
