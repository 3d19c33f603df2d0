package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ccp-p/asr-media-cli/audio-aligner/pkg/segment"
	"github.com/ccp-p/asr-media-cli/audio-aligner/pkg/utils"
)

// SRTExporter 负责将分段导出为SRT字幕文件，每个分段一条字幕
type SRTExporter struct {
	OutputFolder string
}

// NewSRTExporter 创建一个新的SRT导出器
func NewSRTExporter(outputFolder string) *SRTExporter {
	return &SRTExporter{
		OutputFolder: outputFolder,
	}
}

// GenerateSRTContent 生成SRT格式内容
func (e *SRTExporter) GenerateSRTContent(segments []*segment.Segment) string {
	var srtLines []string

	index := 0
	for _, seg := range segments {
		text := strings.TrimSpace(seg.Text())
		if text == "" {
			continue
		}
		index++

		srtLines = append(srtLines,
			fmt.Sprintf("%d", index),
			fmt.Sprintf("%s --> %s", utils.FormatSRTTimestamp(int64(seg.Start())), utils.FormatSRTTimestamp(int64(seg.End()))),
			text,
			"", // 空行分隔
		)
	}

	return strings.Join(srtLines, "\n")
}

// ExportSRT 导出SRT格式字幕文件
func (e *SRTExporter) ExportSRT(id string, segments []*segment.Segment) (string, error) {
	if err := os.MkdirAll(e.OutputFolder, 0755); err != nil {
		return "", fmt.Errorf("创建输出目录失败: %w", err)
	}
	outputFile := filepath.Join(e.OutputFolder, fmt.Sprintf("%s.srt", id))

	if err := os.WriteFile(outputFile, []byte(e.GenerateSRTContent(segments)), 0644); err != nil {
		return "", fmt.Errorf("写入SRT文件失败: %w", err)
	}

	utils.Debug("已导出SRT字幕: %s", outputFile)
	return outputFile, nil
}
