package alignment

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfusionSpans(t *testing.T) {
	assert.Empty(t, ConfusionSpans(nil, 100))

	words := []WordAlignment{
		{Word: "a"},
		NewWordAlignment("b", &HypothesisWord{Span: NewTimeFrame(100, 200)}),
		{Word: "c"},
		{Word: "d"},
		NewWordAlignment("e", &HypothesisWord{Span: NewTimeFrame(400, 500)}),
		NewWordAlignment("f", &HypothesisWord{Span: NewTimeFrame(500, 600)}),
	}
	assert.Equal(t, []TimeFrame{NewTimeFrame(0, 100), NewTimeFrame(200, 400)}, ConfusionSpans(words, 1000))

	allMatched := words[4:]
	assert.Empty(t, ConfusionSpans(allMatched, 1000))
}

func TestAlignTranscript(t *testing.T) {
	var events []FrameEvent
	events = append(events, speechRange(0, 4990, false)...)
	events = append(events, speechRange(5000, 5100, true)...)
	events = append(events, speechRange(5110, 6000, false)...)

	aligner := NewWordAligner(fieldsTokenizer{}, greedyAligner{})
	ta := aligner.AlignTranscript("the quick fox", []HypothesisWord{hyp("quick", 5000, 5100)}, events)

	assert.False(t, ta.Unalignable)
	assert.Equal(t, Time(6000), ta.LastFrame)
	assert.Equal(t, 1, ta.MatchedCount())
	assert.Equal(t, []TimeFrame{NewTimeFrame(0, 5000), NewTimeFrame(5100, 6000)}, ta.ConfusionSpans)

	// 两段静音都接触边界或落在混淆区内
	assert.Empty(t, ta.Silences(DetectionThreshold))
}

func TestAlignTranscriptUnalignable(t *testing.T) {
	aligner := NewWordAligner(fieldsTokenizer{}, greedyAligner{})
	ta := aligner.AlignTranscript("one two", nil, speechRange(0, 100, false))

	assert.True(t, ta.Unalignable)
	assert.Equal(t, 0, ta.MatchedCount())
	require.Len(t, ta.Words, 2)
	assert.Equal(t, []TimeFrame{NewTimeFrame(0, 100)}, ta.ConfusionSpans)
}

func TestTranscriptConcurrentReads(t *testing.T) {
	var events []FrameEvent
	events = append(events, speechRange(0, 500, true)...)
	events = append(events, speechRange(510, 1000, false)...)
	events = append(events, speechRange(1010, 2000, true)...)
	ta := NewTranscriptAlignment(nil, events, false)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.Equal(t, []TimeFrame{NewTimeFrame(510, 1000)}, ta.Silences(DetectionThreshold))
			assert.Equal(t, 201, ta.Frames.Len())
		}()
	}
	wg.Wait()
}
