package export

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ccp-p/asr-media-cli/audio-aligner/pkg/alignment"
	"github.com/ccp-p/asr-media-cli/audio-aligner/pkg/segment"
	"github.com/ccp-p/asr-media-cli/audio-aligner/pkg/utils"
)

// FrameLines 每帧一行：秒 词 声学单元 状态 得分 是否语音
func FrameLines(ta *alignment.TranscriptAlignment) []string {
	frames := ta.Frames.Frames()
	lines := make([]string, 0, len(frames))
	for _, f := range frames {
		lines = append(lines, f.String())
	}
	return lines
}

// WordLines 每个参考词一行：开始 结束 词
func WordLines(ta *alignment.TranscriptAlignment) []string {
	lines := make([]string, 0, len(ta.Words))
	for _, w := range ta.Words {
		lines = append(lines, w.String())
	}
	return lines
}

// SegmentLines 每个分段一行：上下文开始 上下文结束 词（秒）
func SegmentLines(segments []*segment.Segment) []string {
	lines := make([]string, 0, len(segments))
	for _, s := range segments {
		lines = append(lines, s.String())
	}
	return lines
}

// Section 文本报告中的一节
type Section struct {
	Title string
	Lines []string
}

// WriteSections 按节写出文本报告
func WriteSections(w io.Writer, sections ...Section) error {
	for i, s := range sections {
		if i > 0 {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintf(w, "# %s\n", s.Title); err != nil {
			return err
		}
		if len(s.Lines) == 0 {
			continue
		}
		if _, err := fmt.Fprintln(w, strings.Join(s.Lines, "\n")); err != nil {
			return err
		}
	}
	return nil
}

// TextExporter 导出文本对齐报告
type TextExporter struct {
	OutputFolder string
}

// NewTextExporter 创建文本导出器
func NewTextExporter(outputFolder string) *TextExporter {
	return &TextExporter{OutputFolder: outputFolder}
}

// ExportText 导出对齐报告、词和分段
func (e *TextExporter) ExportText(id string, report []string, ta *alignment.TranscriptAlignment, segments []*segment.Segment) (string, error) {
	if err := os.MkdirAll(e.OutputFolder, 0755); err != nil {
		return "", fmt.Errorf("创建输出目录失败: %w", err)
	}
	outputFile := filepath.Join(e.OutputFolder, fmt.Sprintf("%s_alignment.txt", id))

	file, err := os.Create(outputFile)
	if err != nil {
		return "", fmt.Errorf("创建文本文件失败: %w", err)
	}
	defer file.Close()

	err = WriteSections(file,
		Section{Title: "alignment", Lines: report},
		Section{Title: "words", Lines: WordLines(ta)},
		Section{Title: "segments", Lines: SegmentLines(segments)},
	)
	if err != nil {
		return "", fmt.Errorf("写入文本文件失败: %w", err)
	}

	utils.Debug("已导出文本报告: %s", outputFile)
	return outputFile, nil
}
