package alignment

import "strings"

type fieldsTokenizer struct{}

func (fieldsTokenizer) Expand(text string) []string {
	return strings.Fields(strings.ToLower(text))
}

// greedyAligner 每个参考词向后找第一个相同的识别词
type greedyAligner struct{}

func (greedyAligner) Align(reference, hypothesis []string) []int {
	ids := make([]int, len(reference))
	next := 0
	for i, ref := range reference {
		ids[i] = Unmatched
		for j := next; j < len(hypothesis); j++ {
			if hypothesis[j] == ref {
				ids[i] = j
				next = j + 1
				break
			}
		}
	}
	return ids
}

// fixedAligner 返回预设结果，用于构造非法输出
type fixedAligner []int

func (f fixedAligner) Align(reference, hypothesis []string) []int {
	return f
}

func hyp(spelling string, start, end Time, tokens ...AcousticToken) HypothesisWord {
	return HypothesisWord{Spelling: spelling, Span: NewTimeFrame(start, end), Tokens: tokens}
}

func speechRange(from, to Time, isSpeech bool) []FrameEvent {
	var events []FrameEvent
	for t := from; t <= to; t += FrameStep {
		events = append(events, SpeechEvent(t, isSpeech))
	}
	return events
}
