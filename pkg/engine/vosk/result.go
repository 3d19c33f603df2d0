package vosk

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/ccp-p/asr-media-cli/audio-aligner/pkg/alignment"
)

// Result Vosk输出的JSON结果
type Result struct {
	Text   string `json:"text"`
	Result []struct {
		Conf  float64 `json:"conf"`
		End   float64 `json:"end"`
		Start float64 `json:"start"`
		Word  string  `json:"word"`
	} `json:"result,omitempty"`
}

// ParseResult 解析Vosk结果并转换为识别词。
// Vosk不输出声学token，词的时间直接取自其起止秒数
func ParseResult(data string) ([]alignment.HypothesisWord, error) {
	var res Result
	if err := json.Unmarshal([]byte(data), &res); err != nil {
		return nil, fmt.Errorf("解析Vosk结果失败: %w", err)
	}

	words := make([]alignment.HypothesisWord, 0, len(res.Result))
	for _, w := range res.Result {
		words = append(words, alignment.HypothesisWord{
			Spelling: w.Word,
			Span:     alignment.NewTimeFrame(toTime(w.Start), toTime(w.End)),
		})
	}
	return words, nil
}

// toTime 秒转换为毫秒，并对齐到帧
func toTime(seconds float64) alignment.Time {
	ms := int64(math.Round(seconds * 1000))
	step := int64(alignment.FrameStep)
	return alignment.Time(ms / step * step)
}
