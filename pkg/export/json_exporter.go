package export

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ccp-p/asr-media-cli/audio-aligner/pkg/alignment"
	"github.com/ccp-p/asr-media-cli/audio-aligner/pkg/segment"
	"github.com/ccp-p/asr-media-cli/audio-aligner/pkg/utils"
)

// WordEntry 分段中的一个词，未匹配的词没有时间
type WordEntry struct {
	Word  string   `json:"word"`
	Start *float64 `json:"start,omitempty"` // 秒
	End   *float64 `json:"end,omitempty"`
}

// SegmentEntry 一个分段
type SegmentEntry struct {
	Index        int         `json:"index"`
	Start        float64     `json:"start"` // 秒
	End          float64     `json:"end"`
	ContextStart float64     `json:"context_start"`
	ContextEnd   float64     `json:"context_end"`
	Text         string      `json:"text"`
	Words        []WordEntry `json:"words"`
}

// SegmentsDocument 单条语音的分段结果
type SegmentsDocument struct {
	Utterance   string                `json:"utterance"`
	Duration    float64               `json:"duration"` // 最后一帧时间（秒）
	Unalignable bool                  `json:"unalignable"`
	Matched     int                   `json:"matched"`
	Total       int                   `json:"total"`
	Confusion   []alignment.TimeFrame `json:"confusion_spans"`
	Silences    []alignment.TimeFrame `json:"silences"`
	Segments    []SegmentEntry        `json:"segments"`
}

// JSONExporter 负责将分段结果导出为JSON文件
type JSONExporter struct {
	OutputFolder string
}

// NewJSONExporter 创建一个新的JSON导出器
func NewJSONExporter(outputFolder string) *JSONExporter {
	return &JSONExporter{
		OutputFolder: outputFolder,
	}
}

// GenerateJSONContent 根据对齐聚合和分段生成文档
func (e *JSONExporter) GenerateJSONContent(id string, ta *alignment.TranscriptAlignment, result *segment.Result) SegmentsDocument {
	doc := SegmentsDocument{
		Utterance:   id,
		Duration:    ta.LastFrame.Seconds(),
		Unalignable: ta.Unalignable,
		Matched:     ta.MatchedCount(),
		Total:       len(ta.Words),
		Confusion:   ta.ConfusionSpans,
		Silences:    result.Silences,
		Segments:    make([]SegmentEntry, 0, len(result.Segments)),
	}

	for i, seg := range result.Segments {
		entry := SegmentEntry{
			Index:        i + 1,
			Start:        seg.Start().Seconds(),
			End:          seg.End().Seconds(),
			ContextStart: seg.ContextStart().Seconds(),
			ContextEnd:   seg.ContextEnd().Seconds(),
			Text:         seg.Text(),
			Words:        make([]WordEntry, 0, len(seg.Words)),
		}
		for _, w := range seg.Words {
			we := WordEntry{Word: w.Word}
			if w.Time != nil {
				start, end := w.Time.Start.Seconds(), w.Time.End.Seconds()
				we.Start, we.End = &start, &end
			}
			entry.Words = append(entry.Words, we)
		}
		doc.Segments = append(doc.Segments, entry)
	}
	return doc
}

// ExportJSON 导出JSON格式文件
func (e *JSONExporter) ExportJSON(id string, ta *alignment.TranscriptAlignment, result *segment.Result) (string, error) {
	if err := os.MkdirAll(e.OutputFolder, 0755); err != nil {
		return "", fmt.Errorf("创建输出目录失败: %w", err)
	}
	outputFile := filepath.Join(e.OutputFolder, fmt.Sprintf("%s_segments.json", id))

	jsonData, err := json.MarshalIndent(e.GenerateJSONContent(id, ta, result), "", "  ")
	if err != nil {
		return "", fmt.Errorf("JSON编码失败: %w", err)
	}

	if err := os.WriteFile(outputFile, jsonData, 0644); err != nil {
		return "", fmt.Errorf("写入JSON文件失败: %w", err)
	}

	utils.Debug("已导出JSON文件: %s", outputFile)
	return outputFile, nil
}
