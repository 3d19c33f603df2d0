package alignment

import (
	"fmt"
	"strconv"
)

// FeatureVector 前端输出的单帧特征
type FeatureVector []float32

// FrameAlignment 单个声学帧的对齐记录，汇总词、声学单元、语音分类和特征
type FrameAlignment struct {
	Time          Time          `json:"time"`
	Word          string        `json:"word,omitempty"`          // 空字符串表示该帧不属于任何词
	AcousticUnit  string        `json:"acoustic_unit,omitempty"` // 三音子/上下文标签
	StateID       *int          `json:"state_id,omitempty"`
	MixtureID     *int          `json:"mixture_id,omitempty"`
	AcousticScore *float64      `json:"acoustic_score,omitempty"`
	IsSpeech      bool          `json:"is_speech"`
	Features      FeatureVector `json:"features,omitempty"`
}

// NewBlankFrame 创建空白帧，用于填补时间轴空缺
func NewBlankFrame(t Time) FrameAlignment {
	return FrameAlignment{Time: t}
}

// newTokenFrame 根据识别器的声学token创建帧，标记为语音
func newTokenFrame(word string, token AcousticToken) FrameAlignment {
	state := token.StateID
	mixture := token.MixtureID
	score := token.AcousticScore
	return FrameAlignment{
		Time:          token.Time,
		Word:          word,
		AcousticUnit:  token.Unit,
		StateID:       &state,
		MixtureID:     &mixture,
		AcousticScore: &score,
		IsSpeech:      true,
	}
}

// HasWord 该帧是否属于某个词
func (f FrameAlignment) HasWord() bool {
	return f.Word != ""
}

// IsEmpty 非语音且无词的帧
func (f FrameAlignment) IsEmpty() bool {
	return !f.IsSpeech && !f.HasWord()
}

func (f FrameAlignment) String() string {
	word, unit, state, score := " ", " ", " ", " "
	if f.Word != "" {
		word = f.Word
	}
	if f.AcousticUnit != "" {
		unit = f.AcousticUnit
	}
	if f.StateID != nil {
		state = strconv.Itoa(*f.StateID)
	}
	if f.AcousticScore != nil {
		score = strconv.FormatFloat(*f.AcousticScore, 'g', -1, 64)
	}
	return fmt.Sprintf("%5.2f %15s %12s %4s %12s %t",
		f.Time.Seconds(), word, unit, state, score, f.IsSpeech)
}
