package segment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ccp-p/asr-media-cli/audio-aligner/pkg/alignment"
)

func matched(word string, start, end alignment.Time) alignment.WordAlignment {
	return alignment.NewWordAlignment(word, &alignment.HypothesisWord{
		Spelling: word,
		Span:     alignment.NewTimeFrame(start, end),
	})
}

// speechStream 生成 [0, last] 的语音分类流，silent中的区间标为非语音
func speechStream(last alignment.Time, silent ...alignment.TimeFrame) []alignment.FrameEvent {
	var events []alignment.FrameEvent
	for t := alignment.Time(0); t <= last; t += alignment.FrameStep {
		speech := true
		for _, s := range silent {
			if s.Contains(t) {
				speech = false
			}
		}
		events = append(events, alignment.SpeechEvent(t, speech))
	}
	return events
}

func TestCutWithoutSilences(t *testing.T) {
	segments := Cut(nil, 3000)
	require.Len(t, segments, 1)
	assert.Equal(t, alignment.NewTimeFrame(0, 3000), segments[0].Span)
	assert.Nil(t, segments[0].LeftSilence)
	assert.Nil(t, segments[0].RightSilence)
}

func TestCutAroundSilences(t *testing.T) {
	silences := []alignment.TimeFrame{
		alignment.NewTimeFrame(100, 200),
		alignment.NewTimeFrame(500, 700),
	}
	segments := Cut(silences, 1000)
	require.Len(t, segments, 3)

	assert.Equal(t, alignment.NewTimeFrame(0, 100), segments[0].Span)
	assert.Equal(t, silences[0], *segments[0].RightSilence)

	assert.Equal(t, alignment.NewTimeFrame(210, 490), segments[1].Span)
	assert.Equal(t, silences[0], *segments[1].LeftSilence)
	assert.Equal(t, silences[1], *segments[1].RightSilence)
	assert.Equal(t, alignment.Time(100), segments[1].ContextStart())
	assert.Equal(t, alignment.Time(700), segments[1].ContextEnd())

	assert.Equal(t, alignment.NewTimeFrame(700, 1000), segments[2].Span)
	assert.Nil(t, segments[2].RightSilence)

	// 分段与静音按时间顺序互不重叠
	for i := 1; i < len(segments); i++ {
		assert.LessOrEqual(t, segments[i-1].End(), segments[i].Start())
	}
}

func TestAssignForwardScan(t *testing.T) {
	segments := Cut([]alignment.TimeFrame{
		alignment.NewTimeFrame(100, 200),
		alignment.NewTimeFrame(500, 700),
	}, 1000)

	words := []alignment.WordAlignment{
		matched("a", 50, 90),
		{Word: "x"},
		matched("b", 600, 650),
		{Word: "y"},
		matched("c", 800, 900),
	}
	dropped := Assign(segments, words)

	assert.Empty(t, dropped)
	assert.Equal(t, "a x", segments[0].Text())
	assert.Empty(t, segments[1].Words)
	assert.Equal(t, "b y c", segments[2].Text())
	assert.Same(t, &words[0], segments[0].Words[0])
}

func TestAssignOverflowDropsWord(t *testing.T) {
	segments := []*Segment{{Span: alignment.NewTimeFrame(0, 100)}}
	words := []alignment.WordAlignment{
		matched("a", 10, 50),
		matched("late", 500, 600),
		{Word: "tail"},
	}

	dropped := Assign(segments, words)
	require.Len(t, dropped, 2)
	assert.Equal(t, "late", dropped[0].Word)
	assert.Equal(t, "tail", dropped[1].Word)
	assert.Equal(t, "a", segments[0].Text())
}

func TestRunUnalignable(t *testing.T) {
	ta := alignment.NewTranscriptAlignment(
		[]alignment.WordAlignment{{Word: "a"}},
		speechStream(1000, alignment.NewTimeFrame(200, 600)),
		true,
	)
	result := NewSegmenter(DefaultOptions()).Run(ta)
	assert.Empty(t, result.Segments)
	assert.Empty(t, result.Raw)

	assert.Empty(t, NewSegmenter(DefaultOptions()).Segment(nil))
}

func TestRunSplitsAndMerges(t *testing.T) {
	words := []alignment.WordAlignment{
		matched("hello", 100, 900),
		matched("world", 1600, 2900),
	}
	events := speechStream(3000, alignment.NewTimeFrame(1010, 1500))
	ta := alignment.NewTranscriptAlignment(words, events, false)

	// 默认合并阈值下两段都太短，合并为一段
	result := NewSegmenter(DefaultOptions()).Run(ta)
	assert.Equal(t, []alignment.TimeFrame{alignment.NewTimeFrame(1010, 1500)}, result.Silences)
	require.Len(t, result.Raw, 2)
	assert.Equal(t, alignment.NewTimeFrame(0, 1010), result.Raw[0].Span)
	assert.Equal(t, alignment.NewTimeFrame(1500, 3000), result.Raw[1].Span)
	require.Len(t, result.Segments, 1)
	assert.Equal(t, alignment.NewTimeFrame(0, 3000), result.Segments[0].Span)
	assert.Equal(t, "hello world", result.Segments[0].Text())

	// 降低合并阈值后保留两段
	segs := NewSegmenter(Options{MergeThreshold: 500}).Segment(ta)
	require.Len(t, segs, 2)
	assert.Equal(t, "hello", segs[0].Text())
	assert.Equal(t, "world", segs[1].Text())
	assert.Equal(t, "0.000000 1.500000 hello", segs[0].String())
}

func TestRunDropsEmptySegments(t *testing.T) {
	words := []alignment.WordAlignment{
		matched("one", 100, 900),
		matched("two", 2600, 2900),
	}
	events := speechStream(3000,
		alignment.NewTimeFrame(1010, 1500),
		alignment.NewTimeFrame(1810, 2200),
	)
	ta := alignment.NewTranscriptAlignment(words, events, false)

	result := NewSegmenter(Options{MergeThreshold: 100}).Run(ta)
	require.Len(t, result.Raw, 3)
	assert.Empty(t, result.Raw[1].Words)
	require.Len(t, result.Segments, 2)
	assert.Equal(t, "one", result.Segments[0].Text())
	assert.Equal(t, "two", result.Segments[1].Text())
}

func TestRunWithoutSilence(t *testing.T) {
	words := []alignment.WordAlignment{matched("only", 0, 500)}
	ta := alignment.NewTranscriptAlignment(words, speechStream(500), false)

	segs := NewSegmenter(DefaultOptions()).Segment(ta)
	require.Len(t, segs, 1)
	assert.Equal(t, alignment.NewTimeFrame(0, 500), segs[0].Span)
	assert.Equal(t, 1, WordCount(segs))
}

func TestNewSegmenterDefaults(t *testing.T) {
	s := NewSegmenter(Options{MergeMode: UntilStable})
	assert.Equal(t, alignment.DetectionThreshold, s.Options().SilenceThreshold)
	assert.Equal(t, alignment.MergeThreshold, s.Options().MergeThreshold)
	assert.Equal(t, UntilStable, s.Options().MergeMode)
}
