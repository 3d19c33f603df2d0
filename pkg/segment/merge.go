package segment

import (
	"github.com/ccp-p/asr-media-cli/audio-aligner/pkg/alignment"
	"github.com/ccp-p/asr-media-cli/audio-aligner/pkg/utils"
)

// MergeMode 合并方式
type MergeMode int

const (
	// SinglePass 只从左到右扫描一次，连续的短分段可能不会完全合并
	SinglePass MergeMode = iota
	// UntilStable 重复扫描直到分段数不再变化
	UntilStable
)

func (m MergeMode) String() string {
	if m == UntilStable {
		return "until-stable"
	}
	return "single-pass"
}

// ParseMergeMode 解析配置中的合并方式
func ParseMergeMode(untilStable bool) MergeMode {
	if untilStable {
		return UntilStable
	}
	return SinglePass
}

// isShort 无词或长度小于阈值的分段需要并入邻居
func isShort(s *Segment, threshold alignment.Time) bool {
	return len(s.Words) == 0 || s.Length() < threshold
}

// Merge 从左到右扫描一次，把短分段并入较短的相邻分段，长度相同时并入左侧。
// 第一段只能并入右侧，最后一段只能并入左侧
func Merge(segments []*Segment, threshold alignment.Time) []*Segment {
	if len(segments) < 2 {
		utils.Debug("分段数 %d 少于2，跳过合并", len(segments))
		return segments
	}

	acc := make([]*Segment, 0, len(segments))
	for i := 0; i < len(segments); i++ {
		curr := segments[i]
		if !isShort(curr, threshold) {
			acc = append(acc, curr)
			continue
		}

		var left, right *Segment
		if len(acc) > 0 {
			left = acc[len(acc)-1]
		}
		if i+1 < len(segments) {
			right = segments[i+1]
		}

		switch {
		case left == nil:
			acc = append(acc, Join(curr, right))
			i++
		case right == nil:
			acc[len(acc)-1] = Join(left, curr)
		case left.Length() > right.Length():
			acc = append(acc, Join(curr, right))
			i++
		default:
			acc[len(acc)-1] = Join(left, curr)
		}
	}
	return acc
}

// MergeUntilStable 重复执行Merge直到分段数不再减少
func MergeUntilStable(segments []*Segment, threshold alignment.Time) []*Segment {
	for {
		merged := Merge(segments, threshold)
		if len(merged) == len(segments) {
			return merged
		}
		segments = merged
	}
}

// MergeWith 按指定方式合并
func MergeWith(mode MergeMode, segments []*Segment, threshold alignment.Time) []*Segment {
	switch mode {
	case UntilStable:
		return MergeUntilStable(segments, threshold)
	default:
		return Merge(segments, threshold)
	}
}
