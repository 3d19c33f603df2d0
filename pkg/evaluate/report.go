package evaluate

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/ccp-p/asr-media-cli/audio-aligner/pkg/utils"
)

// gapMark 插入或删除时另一侧的占位
const gapMark = "***"

// AlignedLines 生成逐列对齐的REF/HYP两行，错误词大写
func AlignedLines(pairs []Pair) (string, string) {
	var ref, hyp strings.Builder
	for i, p := range pairs {
		r, h := p.Ref, p.Hyp
		if !p.Match() {
			r, h = strings.ToUpper(r), strings.ToUpper(h)
		}
		if r == "" {
			r = gapMark
		}
		if h == "" {
			h = gapMark
		}

		if i > 0 {
			ref.WriteByte(' ')
			hyp.WriteByte(' ')
		}
		width := max(utf8.RuneCountInString(r), utf8.RuneCountInString(h))
		ref.WriteString(pad(r, width))
		hyp.WriteString(pad(h, width))
	}
	return strings.TrimRight(ref.String(), " "), strings.TrimRight(hyp.String(), " ")
}

func pad(s string, width int) string {
	return s + strings.Repeat(" ", width-utf8.RuneCountInString(s))
}

// WriteReport 写出每条语音的对齐和统计，最后是汇总
func WriteReport(w io.Writer, report *Report) error {
	for _, s := range report.Utterances {
		if s.Failed() {
			if _, err := fmt.Fprintf(w, "%s: 失败 %s\n\n", s.ID, s.Error); err != nil {
				return err
			}
			continue
		}
		ref, hyp := AlignedLines(s.Pairs)
		if _, err := fmt.Fprintf(w, "%s\nREF: %s\nHYP: %s\n%s\n\n", s.ID, ref, hyp, s.Counts); err != nil {
			return err
		}
	}

	_, err := fmt.Fprintf(w, "========== 汇总 ==========\n语音: %d，失败: %d\n%s\n",
		len(report.Utterances), report.Failed, report.Total)
	return err
}

// SaveReport 把评估结果保存为JSON
func SaveReport(path string, report *Report) error {
	return utils.SaveJSONFile(path, report)
}
