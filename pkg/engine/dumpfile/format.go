// Package dumpfile 读写识别结果文件 (.rec.json)，同时充当识别器和前端
package dumpfile

import (
	"fmt"

	"github.com/ccp-p/asr-media-cli/audio-aligner/pkg/alignment"
)

// Ext 识别结果文件扩展名
const Ext = ".rec.json"

// Word 识别词
type Word struct {
	Spelling string                    `json:"spelling"`
	Start    alignment.Time            `json:"start"`
	End      alignment.Time            `json:"end"`
	Tokens   []alignment.AcousticToken `json:"tokens,omitempty"`
}

// Frame 前端帧事件
type Frame struct {
	Kind     string                  `json:"kind"` // speech | feature
	Time     alignment.Time          `json:"time"`
	IsSpeech bool                    `json:"is_speech,omitempty"`
	Vector   alignment.FeatureVector `json:"vector,omitempty"`
}

// File 识别结果文件内容
type File struct {
	Words  []Word  `json:"words"`
	Frames []Frame `json:"frames"`
}

// Hypothesis 转换为识别词
func (f *File) Hypothesis() []alignment.HypothesisWord {
	words := make([]alignment.HypothesisWord, 0, len(f.Words))
	for _, w := range f.Words {
		words = append(words, alignment.HypothesisWord{
			Spelling: w.Spelling,
			Span:     alignment.NewTimeFrame(w.Start, w.End),
			Tokens:   w.Tokens,
		})
	}
	return words
}

// Events 转换为帧事件，未知类型返回错误
func (f *File) Events() ([]alignment.FrameEvent, error) {
	events := make([]alignment.FrameEvent, 0, len(f.Frames))
	for i, fr := range f.Frames {
		switch fr.Kind {
		case alignment.SpeechClassified.String():
			events = append(events, alignment.SpeechEvent(fr.Time, fr.IsSpeech))
		case alignment.Feature.String():
			events = append(events, alignment.FeatureEvent(fr.Time, fr.Vector))
		default:
			return nil, fmt.Errorf("第 %d 帧类型未知: %q", i, fr.Kind)
		}
	}
	return events, nil
}

// NewFile 由识别词和帧事件构造文件内容
func NewFile(words []alignment.HypothesisWord, events []alignment.FrameEvent) *File {
	f := &File{
		Words:  make([]Word, 0, len(words)),
		Frames: make([]Frame, 0, len(events)),
	}
	for _, w := range words {
		f.Words = append(f.Words, Word{
			Spelling: w.Spelling,
			Start:    w.Span.Start,
			End:      w.Span.End,
			Tokens:   w.Tokens,
		})
	}
	for _, ev := range events {
		f.Frames = append(f.Frames, Frame{
			Kind:     ev.Kind.String(),
			Time:     ev.Time,
			IsSpeech: ev.IsSpeech,
			Vector:   ev.Vector,
		})
	}
	return f
}
