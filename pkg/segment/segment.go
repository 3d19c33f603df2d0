package segment

import (
	"fmt"
	"strings"

	"github.com/ccp-p/asr-media-cli/audio-aligner/pkg/alignment"
)

// Segment 录音中的一段连续区间，两侧可带静音上下文
type Segment struct {
	LeftSilence  *alignment.TimeFrame       `json:"left_silence,omitempty"`
	Span         alignment.TimeFrame        `json:"span"`
	RightSilence *alignment.TimeFrame       `json:"right_silence,omitempty"`
	Words        []*alignment.WordAlignment `json:"words"`
}

// Start 分段开始时间
func (s *Segment) Start() alignment.Time {
	return s.Span.Start
}

// End 分段结束时间
func (s *Segment) End() alignment.Time {
	return s.Span.End
}

// ContextStart 包含左侧静音的开始时间
func (s *Segment) ContextStart() alignment.Time {
	if s.LeftSilence != nil {
		return s.LeftSilence.Start
	}
	return s.Span.Start
}

// ContextEnd 包含右侧静音的结束时间
func (s *Segment) ContextEnd() alignment.Time {
	if s.RightSilence != nil {
		return s.RightSilence.End
	}
	return s.Span.End
}

// Length 分段长度，不含静音上下文
func (s *Segment) Length() alignment.Time {
	return s.Span.Length()
}

// Text 分段内的参考词，以空格连接
func (s *Segment) Text() string {
	words := make([]string, 0, len(s.Words))
	for _, w := range s.Words {
		words = append(words, w.Word)
	}
	return strings.Join(words, " ")
}

func (s *Segment) String() string {
	return fmt.Sprintf("%f %f %s", s.ContextStart().Seconds(), s.ContextEnd().Seconds(), s.Text())
}

// Join 把两个相邻分段合并为新分段，原分段不变
func Join(l, r *Segment) *Segment {
	words := make([]*alignment.WordAlignment, 0, len(l.Words)+len(r.Words))
	words = append(words, l.Words...)
	words = append(words, r.Words...)
	return &Segment{
		LeftSilence:  l.LeftSilence,
		Span:         alignment.NewTimeFrame(l.Span.Start, r.Span.End),
		RightSilence: r.RightSilence,
		Words:        words,
	}
}

// WordCount 所有分段的词数
func WordCount(segments []*Segment) int {
	n := 0
	for _, s := range segments {
		n += len(s.Words)
	}
	return n
}
