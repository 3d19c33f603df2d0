package alignment

import "github.com/ccp-p/asr-media-cli/audio-aligner/pkg/utils"

// TranscriptAlignment 单条语音的完整对齐结果，构建后只读，可并发读取
type TranscriptAlignment struct {
	Words          []WordAlignment
	Frames         *FrameTimeline
	ConfusionSpans []TimeFrame
	LastFrame      Time
	Unalignable    bool // 识别器没有输出任何词
}

// NewTranscriptAlignment 根据词对齐结果和前端事件流构建聚合
func NewTranscriptAlignment(words []WordAlignment, events []FrameEvent, unalignable bool) *TranscriptAlignment {
	frames := BuildTimelineFromEvents(words, events)
	lastFrame := frames.LastFrame()

	return &TranscriptAlignment{
		Words:          words,
		Frames:         frames,
		ConfusionSpans: ConfusionSpans(words, lastFrame),
		LastFrame:      lastFrame,
		Unalignable:    unalignable,
	}
}

// AlignTranscript 对齐参考文本并构建聚合
func (a *WordAligner) AlignTranscript(reference string, hypothesis []HypothesisWord, events []FrameEvent) *TranscriptAlignment {
	words := a.Align(reference, hypothesis)
	unalignable := len(hypothesis) == 0
	if unalignable && len(words) > 0 {
		utils.Warn("识别结果为空，%d 个参考词无法对齐", len(words))
	}
	return NewTranscriptAlignment(words, events, unalignable)
}

// MatchedCount 已匹配的参考词数量
func (t *TranscriptAlignment) MatchedCount() int {
	n := 0
	for _, w := range t.Words {
		if w.Matched() {
			n++
		}
	}
	return n
}

// Silences 以给定阈值检测可切分的静音区间
func (t *TranscriptAlignment) Silences(threshold Time) []TimeFrame {
	return EmptyRegions(t.Frames, threshold, t.ConfusionSpans, t.LastFrame)
}
