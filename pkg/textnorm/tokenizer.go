// Package textnorm 把参考文本规范化为对齐用的词序列
package textnorm

import (
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// Tokenizer 参考文本规范化器：NFKC、小写、去标点、数字展开为英文单词
type Tokenizer struct {
	lang        language.Tag
	expandDigit bool
}

// NewTokenizer 创建规范化器
func NewTokenizer() *Tokenizer {
	return &Tokenizer{lang: language.English, expandDigit: true}
}

// WithoutNumberExpansion 保留数字原样
func (t *Tokenizer) WithoutNumberExpansion() *Tokenizer {
	cp := *t
	cp.expandDigit = false
	return &cp
}

// Expand 规范化文本并切分为词
func (t *Tokenizer) Expand(text string) []string {
	// cases.Caser 有内部状态，不能在goroutine间共享
	lower := cases.Lower(t.lang)
	text = lower.String(norm.NFKC.String(text))

	var tokens []string
	for _, field := range strings.FieldsFunc(text, isSeparator) {
		word := strings.Trim(field, "'")
		if word == "" {
			continue
		}
		if t.expandDigit && isNumber(word) {
			tokens = append(tokens, expandNumber(word)...)
			continue
		}
		tokens = append(tokens, word)
	}
	return tokens
}

// isSeparator 除字母、数字和词内撇号外都作为分隔符
func isSeparator(r rune) bool {
	return !(unicode.IsLetter(r) || unicode.IsDigit(r) || r == '\'')
}

func isNumber(word string) bool {
	for _, r := range word {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

var (
	ones = []string{"zero", "one", "two", "three", "four", "five", "six", "seven", "eight", "nine",
		"ten", "eleven", "twelve", "thirteen", "fourteen", "fifteen", "sixteen", "seventeen", "eighteen", "nineteen"}
	tens   = []string{"", "", "twenty", "thirty", "forty", "fifty", "sixty", "seventy", "eighty", "ninety"}
	scales = []struct {
		value int64
		name  string
	}{
		{1_000_000_000, "billion"},
		{1_000_000, "million"},
		{1_000, "thousand"},
	}
)

// expandNumber 把整数展开为英文单词，超出范围时逐位读出
func expandNumber(digits string) []string {
	n, err := strconv.ParseInt(digits, 10, 64)
	if err != nil || n >= 1_000_000_000_000 {
		words := make([]string, 0, len(digits))
		for _, d := range digits {
			words = append(words, ones[d-'0'])
		}
		return words
	}
	if n == 0 {
		return []string{ones[0]}
	}
	return spell(n)
}

func spell(n int64) []string {
	var words []string
	for _, s := range scales {
		if n >= s.value {
			words = append(words, spellHundreds(n/s.value)...)
			words = append(words, s.name)
			n %= s.value
		}
	}
	if n > 0 {
		words = append(words, spellHundreds(n)...)
	}
	return words
}

// spellHundreds 0 < n < 1000
func spellHundreds(n int64) []string {
	var words []string
	if n >= 100 {
		words = append(words, ones[n/100], "hundred")
		n %= 100
	}
	switch {
	case n == 0:
	case n < 20:
		words = append(words, ones[n])
	default:
		words = append(words, tens[n/10])
		if n%10 != 0 {
			words = append(words, ones[n%10])
		}
	}
	return words
}
