package alignment

import "fmt"

// Time 识别器原生时间戳，单位毫秒
type Time int64

// FrameStep 前端帧移，帧时间从0开始按该步长递增
const FrameStep Time = 10

// Seconds 转换为秒
func (t Time) Seconds() float64 {
	return float64(t) / 1000.0
}

// TimeFrame 表示一个时间区间 [Start, End)，Start <= End
type TimeFrame struct {
	Start Time `json:"start"`
	End   Time `json:"end"`
}

// NewTimeFrame 创建时间区间，end小于start时收缩为空区间
func NewTimeFrame(start, end Time) TimeFrame {
	if end < start {
		end = start
	}
	return TimeFrame{Start: start, End: end}
}

// Length 区间长度
func (t TimeFrame) Length() Time {
	return t.End - t.Start
}

// Contains 判断时间点是否落在区间内（两端闭合）
func (t TimeFrame) Contains(at Time) bool {
	return at >= t.Start && at <= t.End
}

// Overlaps 判断两个区间是否相交。零长度区间落在另一区间内部时也视为相交
func (t TimeFrame) Overlaps(o TimeFrame) bool {
	return t.Start < o.End && o.Start < t.End
}

func (t TimeFrame) String() string {
	return fmt.Sprintf("%d:%d", t.Start, t.End)
}
