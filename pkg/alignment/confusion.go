package alignment

// ConfusionSpans 找出连续未匹配参考词覆盖的时间区间。
// 区间从上一个匹配词的结束时间开始，到下一个匹配词的开始时间结束；
// 序列以未匹配词结尾时延伸到lastFrame
func ConfusionSpans(words []WordAlignment, lastFrame Time) []TimeFrame {
	var spans []TimeFrame
	inConfusion := false
	var lastMatchedEnd Time

	for _, word := range words {
		if !word.Matched() {
			inConfusion = true
			continue
		}
		if inConfusion {
			spans = append(spans, NewTimeFrame(lastMatchedEnd, word.Time.Start))
			inConfusion = false
		}
		lastMatchedEnd = word.Time.End
	}

	if inConfusion {
		spans = append(spans, NewTimeFrame(lastMatchedEnd, lastFrame))
	}
	return spans
}
