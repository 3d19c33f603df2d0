// Package evaluate 用参考文本评估识别结果的词错误率
package evaluate

import (
	"fmt"

	"github.com/ccp-p/asr-media-cli/audio-aligner/pkg/alignment"
)

// Counts 词级错误统计
type Counts struct {
	Reference     int `json:"reference"`
	Hypothesis    int `json:"hypothesis"`
	Correct       int `json:"correct"`
	Substitutions int `json:"substitutions"`
	Deletions     int `json:"deletions"`
	Insertions    int `json:"insertions"`
}

// Errors 替换、删除、插入之和
func (c Counts) Errors() int {
	return c.Substitutions + c.Deletions + c.Insertions
}

// WER 词错误率（百分比）。没有参考词时，只要有识别词就记为100
func (c Counts) WER() float64 {
	if c.Reference == 0 {
		if c.Hypothesis == 0 {
			return 0
		}
		return 100
	}
	return float64(c.Errors()) / float64(c.Reference) * 100
}

// Accuracy 正确词占参考词的百分比
func (c Counts) Accuracy() float64 {
	if c.Reference == 0 {
		return 0
	}
	return float64(c.Correct) / float64(c.Reference) * 100
}

// Add 累加
func (c *Counts) Add(o Counts) {
	c.Reference += o.Reference
	c.Hypothesis += o.Hypothesis
	c.Correct += o.Correct
	c.Substitutions += o.Substitutions
	c.Deletions += o.Deletions
	c.Insertions += o.Insertions
}

func (c Counts) String() string {
	return fmt.Sprintf("词 %d 正确 %d (%.1f%%) 替换 %d 删除 %d 插入 %d 错误率 %.1f%%",
		c.Reference, c.Correct, c.Accuracy(), c.Substitutions, c.Deletions, c.Insertions, c.WER())
}

// Pair 对齐后的一列，Ref或Hyp为空表示插入或删除
type Pair struct {
	Ref string
	Hyp string
}

// Match 两侧相同
func (p Pair) Match() bool {
	return p.Ref != "" && p.Ref == p.Hyp
}

// Score 按文本对齐器给出的匹配点统计错误。
// 相邻匹配点之间的参考词和识别词先两两记为替换，多出的记为删除或插入
func Score(reference, hypothesis []string, aligner alignment.TextAligner) (Counts, []Pair) {
	counts := Counts{Reference: len(reference), Hypothesis: len(hypothesis)}
	var pairs []Pair

	gap := func(ref, hyp []string) {
		n := min(len(ref), len(hyp))
		for k := 0; k < n; k++ {
			pairs = append(pairs, Pair{Ref: ref[k], Hyp: hyp[k]})
		}
		for _, w := range ref[n:] {
			pairs = append(pairs, Pair{Ref: w})
		}
		for _, w := range hyp[n:] {
			pairs = append(pairs, Pair{Hyp: w})
		}
		counts.Substitutions += n
		counts.Deletions += len(ref) - n
		counts.Insertions += len(hyp) - n
	}

	var ids []int
	if len(reference) > 0 && len(hypothesis) > 0 {
		ids = aligner.Align(reference, hypothesis)
	}

	lastRef, lastHyp := -1, -1
	for i, id := range ids {
		// 越界、破坏顺序或拼写不同的结果不算匹配
		if i >= len(reference) || id == alignment.Unmatched || id <= lastHyp || id >= len(hypothesis) ||
			reference[i] != hypothesis[id] {
			continue
		}
		gap(reference[lastRef+1:i], hypothesis[lastHyp+1:id])
		pairs = append(pairs, Pair{Ref: reference[i], Hyp: hypothesis[id]})
		counts.Correct++
		lastRef, lastHyp = i, id
	}
	gap(reference[lastRef+1:], hypothesis[lastHyp+1:])

	return counts, pairs
}
