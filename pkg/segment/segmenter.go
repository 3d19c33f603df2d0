package segment

import (
	"github.com/ccp-p/asr-media-cli/audio-aligner/pkg/alignment"
	"github.com/ccp-p/asr-media-cli/audio-aligner/pkg/utils"
)

// Options 分段参数
type Options struct {
	SilenceThreshold alignment.Time // 静音检测的最小时长
	MergeThreshold   alignment.Time // 短于该长度的分段会被合并
	MergeMode        MergeMode
}

// DefaultOptions 默认分段参数
func DefaultOptions() Options {
	return Options{
		SilenceThreshold: alignment.DetectionThreshold,
		MergeThreshold:   alignment.MergeThreshold,
		MergeMode:        SinglePass,
	}
}

// Segmenter 在静音处切分对齐结果
type Segmenter struct {
	opts Options
}

// NewSegmenter 创建分段器，阈值非正时使用默认值
func NewSegmenter(opts Options) *Segmenter {
	defaults := DefaultOptions()
	if opts.SilenceThreshold <= 0 {
		opts.SilenceThreshold = defaults.SilenceThreshold
	}
	if opts.MergeThreshold <= 0 {
		opts.MergeThreshold = defaults.MergeThreshold
	}
	return &Segmenter{opts: opts}
}

// Options 返回当前参数
func (s *Segmenter) Options() Options {
	return s.opts
}

// Result 一次分段的完整输出
type Result struct {
	Silences []alignment.TimeFrame
	Raw      []*Segment                 // 切分并分配词之后、合并之前的分段
	Segments []*Segment                 // 去掉空分段并合并后的结果
	Dropped  []*alignment.WordAlignment // 无法放入任何分段的词
}

// Silences 检测可切分的静音区间
func (s *Segmenter) Silences(ta *alignment.TranscriptAlignment) []alignment.TimeFrame {
	return ta.Silences(s.opts.SilenceThreshold)
}

// Run 执行切分、分配词、去掉空分段和合并
func (s *Segmenter) Run(ta *alignment.TranscriptAlignment) *Result {
	if ta == nil || ta.Unalignable {
		return &Result{}
	}

	silences := s.Silences(ta)
	raw := Cut(silences, ta.LastFrame)
	dropped := Assign(raw, ta.Words)

	nonEmpty := make([]*Segment, 0, len(raw))
	for _, seg := range raw {
		if len(seg.Words) > 0 {
			nonEmpty = append(nonEmpty, seg)
		}
	}

	return &Result{
		Silences: silences,
		Raw:      raw,
		Segments: MergeWith(s.opts.MergeMode, nonEmpty, s.opts.MergeThreshold),
		Dropped:  dropped,
	}
}

// Segment 返回合并后的分段，无法对齐的语音返回空
func (s *Segmenter) Segment(ta *alignment.TranscriptAlignment) []*Segment {
	return s.Run(ta).Segments
}

// Cut 在静音区间处切分 [0, lastFrame]。
// 中间分段两端各让出一帧，避免与静音区间共享边界帧
func Cut(silences []alignment.TimeFrame, lastFrame alignment.Time) []*Segment {
	if len(silences) == 0 {
		return []*Segment{{Span: alignment.NewTimeFrame(0, lastFrame)}}
	}

	segments := make([]*Segment, 0, len(silences)+1)
	first := silences[0]
	segments = append(segments, &Segment{
		Span:         alignment.NewTimeFrame(0, first.Start),
		RightSilence: &first,
	})

	for i := 1; i < len(silences); i++ {
		left, right := silences[i-1], silences[i]
		segments = append(segments, &Segment{
			LeftSilence:  &left,
			Span:         alignment.NewTimeFrame(left.End+alignment.FrameStep, right.Start-alignment.FrameStep),
			RightSilence: &right,
		})
	}

	last := silences[len(silences)-1]
	segments = append(segments, &Segment{
		LeftSilence: &last,
		Span:        alignment.NewTimeFrame(last.End, lastFrame),
	})
	return segments
}

// Assign 单次前向扫描，把每个词放入一个分段。
// 带时间的词开始时间超过当前分段结束时间时前进到下一个分段；
// 不带时间的词留在当前分段。返回分段用尽后无法放置的词
func Assign(segments []*Segment, words []alignment.WordAlignment) []*alignment.WordAlignment {
	var dropped []*alignment.WordAlignment
	idx := 0

	for i := range words {
		word := &words[i]
		if word.Time != nil {
			for idx < len(segments) && word.Time.Start > segments[idx].End() {
				idx++
			}
		}
		if idx >= len(segments) {
			err := utils.NewKindError(utils.PlacementOverflow, "", "词无法放入任何分段", nil)
			utils.WithField("word", word.Word).Warn(err.Error())
			dropped = append(dropped, word)
			continue
		}
		segments[idx].Words = append(segments[idx].Words, word)
	}
	return dropped
}
