package alignment

import (
	"fmt"

	"github.com/ccp-p/asr-media-cli/audio-aligner/pkg/utils"
)

// Unmatched 文本对齐器用于表示参考词没有匹配
const Unmatched = -1

// Tokenizer 将原始参考文本规范化为词序列
type Tokenizer interface {
	Expand(text string) []string
}

// TextAligner 近似长文本对齐器。返回结果与reference等长，
// 每个元素是匹配到的hypothesis下标或Unmatched，匹配下标严格递增
type TextAligner interface {
	Align(reference, hypothesis []string) []int
}

// WordAligner 将参考文本与识别结果对齐
type WordAligner struct {
	tokenizer   Tokenizer
	textAligner TextAligner
}

// NewWordAligner 创建词对齐器
func NewWordAligner(tokenizer Tokenizer, textAligner TextAligner) *WordAligner {
	return &WordAligner{
		tokenizer:   tokenizer,
		textAligner: textAligner,
	}
}

// Tokens 规范化参考文本
func (a *WordAligner) Tokens(reference string) []string {
	return a.tokenizer.Expand(reference)
}

// Align 对齐参考文本与识别词，输出与参考词一一对应且保持参考顺序
func (a *WordAligner) Align(reference string, hypothesis []HypothesisWord) []WordAlignment {
	return a.AlignTokens(a.Tokens(reference), hypothesis)
}

// AlignTokens 对已规范化的参考词进行对齐
func (a *WordAligner) AlignTokens(tokens []string, hypothesis []HypothesisWord) []WordAlignment {
	words := make([]WordAlignment, 0, len(tokens))

	// 识别结果为空时不做对齐，全部视为未匹配
	if len(hypothesis) == 0 {
		for _, token := range tokens {
			words = append(words, NewWordAlignment(token, nil))
		}
		return words
	}

	ids := a.matchIndices(tokens, hypothesis)
	for i, token := range tokens {
		if ids[i] == Unmatched {
			words = append(words, NewWordAlignment(token, nil))
			continue
		}
		words = append(words, NewWordAlignment(token, &hypothesis[ids[i]]))
	}
	return words
}

// matchIndices 调用文本对齐器，并把越界或破坏顺序的匹配降级为未匹配
func (a *WordAligner) matchIndices(tokens []string, hypothesis []HypothesisWord) []int {
	spellings := make([]string, len(hypothesis))
	for i, word := range hypothesis {
		spellings[i] = word.Spelling
	}

	raw := a.textAligner.Align(tokens, spellings)
	ids := make([]int, len(tokens))
	last := -1
	for i := range tokens {
		ids[i] = Unmatched
		if i >= len(raw) || raw[i] == Unmatched {
			continue
		}
		id := raw[i]
		if id < 0 || id >= len(hypothesis) || id <= last {
			utils.Warn("文本对齐结果无效: 参考词 %d -> 识别词 %d", i, id)
			continue
		}
		ids[i] = id
		last = id
	}
	return ids
}

// Report 生成文本对齐报告：
// "-" 未匹配的参考词，"+" 没有参考词对应的识别词，两个空格表示匹配
func (a *WordAligner) Report(reference string, hypothesis []HypothesisWord) []string {
	tokens := a.Tokens(reference)
	var out []string

	if len(hypothesis) == 0 {
		for _, token := range tokens {
			out = append(out, fmt.Sprintf("- %s", token))
		}
		return out
	}

	ids := a.matchIndices(tokens, hypothesis)
	lastID := -1
	for i, id := range ids {
		if id == Unmatched {
			out = append(out, fmt.Sprintf("- %s", tokens[i]))
			continue
		}
		for _, inserted := range hypothesis[lastID+1 : id] {
			out = append(out, fmt.Sprintf("+ %-25s [%s]", inserted.Spelling, inserted.Span))
		}
		out = append(out, fmt.Sprintf("  %-25s [%s]", hypothesis[id].Spelling, hypothesis[id].Span))
		lastID = id
	}

	if lastID >= 0 {
		for _, inserted := range hypothesis[lastID+1:] {
			out = append(out, fmt.Sprintf("+ %-25s [%s]", inserted.Spelling, inserted.Span))
		}
	}
	return out
}
