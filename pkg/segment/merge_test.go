package segment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ccp-p/asr-media-cli/audio-aligner/pkg/alignment"
)

// contiguous 按长度构造首尾相接的分段，每段带一个词
func contiguous(lengths ...alignment.Time) []*Segment {
	segments := make([]*Segment, 0, len(lengths))
	var start alignment.Time
	for i, l := range lengths {
		span := alignment.NewTimeFrame(start, start+l)
		word := alignment.WordAlignment{Word: string(rune('a' + i)), Time: &span}
		segments = append(segments, &Segment{
			Span:  span,
			Words: []*alignment.WordAlignment{&word},
		})
		start += l
	}
	return segments
}

func lengths(segments []*Segment) []alignment.Time {
	out := make([]alignment.Time, 0, len(segments))
	for _, s := range segments {
		out = append(out, s.Length())
	}
	return out
}

func TestMergeFewerThanTwo(t *testing.T) {
	assert.Empty(t, Merge(nil, 5000))

	single := contiguous(10)
	assert.Equal(t, single, Merge(single, 5000))
}

func TestMergeShorterNeighborWins(t *testing.T) {
	merged := Merge(contiguous(200, 50, 300), 100)
	assert.Equal(t, []alignment.Time{250, 300}, lengths(merged))
	assert.Equal(t, "a b", merged[0].Text())

	merged = Merge(contiguous(300, 50, 200), 100)
	assert.Equal(t, []alignment.Time{300, 250}, lengths(merged))
	assert.Equal(t, "b c", merged[1].Text())
}

func TestMergeTiesFavorLeft(t *testing.T) {
	merged := Merge(contiguous(1000, 50, 1000), 100)
	require.Len(t, merged, 2)
	assert.Equal(t, []alignment.Time{1050, 1000}, lengths(merged))
	assert.Equal(t, "a b", merged[0].Text())
}

func TestMergeIsSinglePass(t *testing.T) {
	segments := contiguous(10, 20, 6000)

	once := Merge(segments, 5000)
	assert.Equal(t, []alignment.Time{30, 6000}, lengths(once))

	twice := Merge(once, 5000)
	assert.Equal(t, []alignment.Time{6030}, lengths(twice))

	assert.Equal(t, []alignment.Time{6030}, lengths(MergeUntilStable(segments, 5000)))
	assert.Equal(t, []alignment.Time{30, 6000}, lengths(MergeWith(SinglePass, segments, 5000)))
	assert.Equal(t, []alignment.Time{6030}, lengths(MergeWith(UntilStable, segments, 5000)))
}

func TestMergeAllShortCollapses(t *testing.T) {
	// 第一段并入第二段，剩下的第三段并入左侧
	merged := Merge(contiguous(200, 50, 300), 5000)
	assert.Equal(t, []alignment.Time{550}, lengths(merged))
	assert.Equal(t, "a b c", merged[0].Text())
}

func TestMergeIdempotentOnCleanInput(t *testing.T) {
	segments := contiguous(6000, 7000, 8000)
	assert.Equal(t, segments, Merge(segments, 5000))
}

func TestMergeEmptySegmentIsShort(t *testing.T) {
	segments := contiguous(9000, 6000, 6000)
	segments[1].Words = nil

	merged := Merge(segments, 5000)
	assert.Equal(t, []alignment.Time{9000, 12000}, lengths(merged))
	assert.Equal(t, "a", merged[0].Text())
	assert.Equal(t, "c", merged[1].Text())
}

func TestMergeConservation(t *testing.T) {
	segments := contiguous(100, 7000, 30, 40, 9000, 20)
	merged := Merge(segments, 5000)

	var before, after alignment.Time
	for _, s := range segments {
		before += s.Length()
	}
	for _, s := range merged {
		after += s.Length()
	}
	assert.Equal(t, before, after)
	assert.Equal(t, WordCount(segments), WordCount(merged))
	assert.Equal(t, "a b c d e f", joinText(merged))
}

func TestJoinKeepsContext(t *testing.T) {
	ls := alignment.NewTimeFrame(0, 100)
	rs := alignment.NewTimeFrame(900, 1000)
	l := &Segment{LeftSilence: &ls, Span: alignment.NewTimeFrame(100, 400)}
	r := &Segment{Span: alignment.NewTimeFrame(500, 900), RightSilence: &rs}

	j := Join(l, r)
	assert.Equal(t, alignment.NewTimeFrame(100, 900), j.Span)
	assert.Equal(t, alignment.Time(0), j.ContextStart())
	assert.Equal(t, alignment.Time(1000), j.ContextEnd())
	assert.Equal(t, alignment.NewTimeFrame(100, 400), l.Span)
}

func TestParseMergeMode(t *testing.T) {
	assert.Equal(t, UntilStable, ParseMergeMode(true))
	assert.Equal(t, SinglePass, ParseMergeMode(false))
	assert.Equal(t, "single-pass", SinglePass.String())
}

func joinText(segments []*Segment) string {
	text := ""
	for i, s := range segments {
		if i > 0 {
			text += " "
		}
		text += s.Text()
	}
	return text
}
