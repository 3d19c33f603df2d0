package alignment

import (
	"fmt"
	"strconv"
)

// AcousticToken 识别器为每个声学帧给出的token
type AcousticToken struct {
	Time          Time    `json:"time"`
	AcousticScore float64 `json:"score"`
	Unit          string  `json:"unit"`
	StateID       int     `json:"state"`
	MixtureID     int     `json:"mixture"`
}

// HypothesisWord 识别器输出的一个词
type HypothesisWord struct {
	Spelling string          `json:"spelling"`
	Span     TimeFrame       `json:"span"`
	Tokens   []AcousticToken `json:"tokens,omitempty"`
}

// WordAlignment 参考文本中一个词的对齐结果，未匹配时Time为nil
type WordAlignment struct {
	Word   string           `json:"word"`
	Time   *TimeFrame       `json:"time,omitempty"`
	Frames []FrameAlignment `json:"-"`
}

// NewWordAlignment 根据匹配到的识别词构建对齐结果，hyp为nil表示未匹配。
// 识别词不带token时直接使用其时间区间，此时Frames为空
func NewWordAlignment(word string, hyp *HypothesisWord) WordAlignment {
	w := WordAlignment{Word: word}
	if hyp == nil {
		return w
	}

	if len(hyp.Tokens) == 0 {
		span := hyp.Span
		w.Time = &span
		return w
	}

	span := NewTimeFrame(hyp.Tokens[0].Time, hyp.Tokens[len(hyp.Tokens)-1].Time)
	w.Time = &span
	w.Frames = make([]FrameAlignment, 0, len(hyp.Tokens))
	for _, token := range hyp.Tokens {
		w.Frames = append(w.Frames, newTokenFrame(word, token))
	}
	return w
}

// Matched 是否匹配到识别词
func (w WordAlignment) Matched() bool {
	return w.Time != nil
}

func (w WordAlignment) String() string {
	start, end := "", ""
	if w.Time != nil {
		start = strconv.FormatInt(int64(w.Time.Start), 10)
		end = strconv.FormatInt(int64(w.Time.End), 10)
	}
	return fmt.Sprintf("%10s %10s %20s", start, end, w.Word)
}
