package alignment

import "github.com/ccp-p/asr-media-cli/audio-aligner/pkg/utils"

// 常用的静音阈值
const (
	DetectionThreshold Time = 150
	MergeThreshold     Time = 5000
)

// EmptyRuns 把连续的空帧合并为区间，只保留长度不小于threshold的区间。
// 不做边界和混淆区校验
func EmptyRuns(frames *FrameTimeline, threshold Time) []TimeFrame {
	var empty []Time
	for _, f := range frames.Frames() {
		if f.IsEmpty() {
			empty = append(empty, f.Time)
		}
	}

	if len(empty) == 0 {
		utils.Debug("时间轴中没有空帧，跳过静音检测")
		return nil
	}

	var runs []TimeFrame
	start, end := empty[0], empty[0]
	closeRun := func() {
		if end-start >= threshold {
			runs = append(runs, NewTimeFrame(start, end))
		}
	}

	for _, t := range empty[1:] {
		if t == end+FrameStep {
			end = t
			continue
		}
		closeRun()
		start, end = t, t
	}
	closeRun()

	return runs
}

// EmptyRegions 检测可作为切分点的静音区间。
// 接触录音首尾或与混淆区相交的候选区间会被丢弃
func EmptyRegions(frames *FrameTimeline, threshold Time, confusion []TimeFrame, lastFrame Time) []TimeFrame {
	var accepted []TimeFrame
	for _, run := range EmptyRuns(frames, threshold) {
		if run.Start == 0 || run.End == lastFrame {
			continue
		}
		if overlapsAny(run, confusion) {
			continue
		}
		accepted = append(accepted, run)
	}
	return accepted
}

// overlapsAny 静音区间包含其最后一帧，因此按闭区间判断；
// 混淆区仍是半开区间，只在下一个匹配词开始处接触时不算相交
func overlapsAny(run TimeFrame, confusion []TimeFrame) bool {
	for _, o := range confusion {
		if o.Length() == 0 {
			if run.Contains(o.Start) {
				return true
			}
			continue
		}
		if o.Start <= run.End && run.Start < o.End {
			return true
		}
	}
	return false
}
