package alignment

import (
	"slices"

	"github.com/ccp-p/asr-media-cli/audio-aligner/pkg/utils"
)

// EventKind 前端事件类型
type EventKind int

const (
	// SpeechClassified 语音/非语音分类结果
	SpeechClassified EventKind = iota + 1
	// Feature 特征向量
	Feature
)

func (k EventKind) String() string {
	switch k {
	case SpeechClassified:
		return "speech"
	case Feature:
		return "feature"
	default:
		return "unknown"
	}
}

// FrameEvent 前端按时间顺序输出的帧事件
type FrameEvent struct {
	Kind     EventKind
	Time     Time
	IsSpeech bool          // 仅SpeechClassified有效
	Vector   FeatureVector // 仅Feature有效
}

// SpeechEvent 构造语音分类事件
func SpeechEvent(t Time, isSpeech bool) FrameEvent {
	return FrameEvent{Kind: SpeechClassified, Time: t, IsSpeech: isSpeech}
}

// FeatureEvent 构造特征事件
func FeatureEvent(t Time, vector FeatureVector) FrameEvent {
	return FrameEvent{Kind: Feature, Time: t, Vector: vector}
}

// SplitEvents 按类型拆分事件流，保持各自原有顺序
func SplitEvents(events []FrameEvent) (speech, features []FrameEvent) {
	for _, ev := range events {
		switch ev.Kind {
		case SpeechClassified:
			speech = append(speech, ev)
		case Feature:
			features = append(features, ev)
		default:
			utils.Warn("忽略未知类型的帧事件: kind=%d time=%d", ev.Kind, ev.Time)
		}
	}
	return speech, features
}

// FrameTimeline 按时间排序的帧序列，构建完成后只读
type FrameTimeline struct {
	times  []Time
	frames map[Time]FrameAlignment
}

type frameMap map[Time]FrameAlignment

// fetch 取出t处的帧，不存在时返回空白帧
func (m frameMap) fetch(t Time) FrameAlignment {
	if f, ok := m[t]; ok {
		return f
	}
	return NewBlankFrame(t)
}

// seedWords 第一阶段：用已匹配词的帧初始化
func seedWords(words []WordAlignment) frameMap {
	m := make(frameMap)
	for _, word := range words {
		for _, frame := range word.Frames {
			frame.IsSpeech = true
			m[frame.Time] = frame
		}
	}
	return m
}

// stepSpeech 第二阶段：写入语音分类
func stepSpeech(m frameMap, ev FrameEvent) frameMap {
	f := m.fetch(ev.Time)
	f.IsSpeech = ev.IsSpeech
	m[ev.Time] = f
	return m
}

// stepFeature 第三阶段：挂载特征向量
func stepFeature(m frameMap, ev FrameEvent) frameMap {
	f := m.fetch(ev.Time)
	f.Features = ev.Vector
	m[ev.Time] = f
	return m
}

// BuildTimeline 合并词帧、语音分类流和特征流。
// 结果的时间键是三者的并集，缺失处以空白帧补齐
func BuildTimeline(words []WordAlignment, speech, features []FrameEvent) *FrameTimeline {
	m := seedWords(words)
	for _, ev := range speech {
		m = stepSpeech(m, ev)
	}
	for _, ev := range features {
		m = stepFeature(m, ev)
	}

	times := make([]Time, 0, len(m))
	for t := range m {
		times = append(times, t)
	}
	slices.Sort(times)

	return &FrameTimeline{times: times, frames: m}
}

// BuildTimelineFromEvents 从混合事件流构建时间轴
func BuildTimelineFromEvents(words []WordAlignment, events []FrameEvent) *FrameTimeline {
	speech, features := SplitEvents(events)
	return BuildTimeline(words, speech, features)
}

// Len 帧数
func (t *FrameTimeline) Len() int {
	if t == nil {
		return 0
	}
	return len(t.times)
}

// Times 所有帧时间（升序）
func (t *FrameTimeline) Times() []Time {
	if t == nil {
		return nil
	}
	return slices.Clone(t.times)
}

// Get 获取指定时间的帧
func (t *FrameTimeline) Get(at Time) (FrameAlignment, bool) {
	if t == nil {
		return FrameAlignment{}, false
	}
	f, ok := t.frames[at]
	return f, ok
}

// Frames 按时间顺序返回所有帧
func (t *FrameTimeline) Frames() []FrameAlignment {
	if t == nil {
		return nil
	}
	out := make([]FrameAlignment, 0, len(t.times))
	for _, at := range t.times {
		out = append(out, t.frames[at])
	}
	return out
}

// LastFrame 最大帧时间，空时间轴返回0
func (t *FrameTimeline) LastFrame() Time {
	if t.Len() == 0 {
		return 0
	}
	return t.times[len(t.times)-1]
}
