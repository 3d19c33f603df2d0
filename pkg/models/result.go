package models

// Result 单条语音的处理结果统计
type Result struct {
	RunID         string            `json:"run_id"`
	UtteranceID   string            `json:"utterance_id"`
	AudioPath     string            `json:"audio_path"`
	WordCount     int               `json:"word_count"`    // 参考词数
	MatchedCount  int               `json:"matched_count"` // 匹配到识别结果的参考词数
	SilenceCount  int               `json:"silence_count"` // 可切分的静音区间数
	SegmentCount  int               `json:"segment_count"` // 合并后的分段数
	DroppedWords  int               `json:"dropped_words"` // 无法放入分段的词数
	Unalignable   bool              `json:"unalignable"`   // 识别结果为空
	DurationMs    int64             `json:"duration_ms"`   // 最后一帧时间（毫秒）
	ProcessTimeMs int64             `json:"process_time_ms"`
	OutputFiles   map[string]string `json:"output_files"` // 导出类型 -> 文件路径
	Error         string            `json:"error,omitempty"`
}

// MatchRate 参考词匹配率
func (r *Result) MatchRate() float64 {
	if r.WordCount == 0 {
		return 0
	}
	return float64(r.MatchedCount) / float64(r.WordCount)
}

// Failed 处理是否失败
func (r *Result) Failed() bool {
	return r.Error != ""
}
