package textnorm

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExpandBasic(t *testing.T) {
	tok := NewTokenizer()
	assert.Equal(t, []string{"the", "quick", "fox"}, tok.Expand("The quick, fox!"))
	assert.Equal(t, []string{"don't", "stop"}, tok.Expand("'Don't' stop..."))
	assert.Equal(t, []string{"well", "known"}, tok.Expand("well-known"))
	assert.Empty(t, tok.Expand("  ?!  "))
}

func TestExpandNormalizesWidth(t *testing.T) {
	// 全角字符经NFKC变为半角
	assert.Equal(t, []string{"abc", "twelve"}, NewTokenizer().Expand("ＡＢＣ １２"))
}

func TestExpandNumbers(t *testing.T) {
	tok := NewTokenizer()
	cases := map[string][]string{
		"0":          {"zero"},
		"7":          {"seven"},
		"42":         {"forty", "two"},
		"100":        {"one", "hundred"},
		"115":        {"one", "hundred", "fifteen"},
		"2024":       {"two", "thousand", "twenty", "four"},
		"1000001":    {"one", "million", "one"},
		"3000000000": {"three", "billion"},
	}
	for in, want := range cases {
		assert.Equal(t, want, tok.Expand(in), in)
	}

	assert.Equal(t, []string{"one", "two", "three", "four", "five", "six", "seven", "eight", "nine", "zero", "one", "two", "three"},
		tok.Expand("1234567890123"))
}

func TestWithoutNumberExpansion(t *testing.T) {
	tok := NewTokenizer().WithoutNumberExpansion()
	assert.Equal(t, []string{"room", "42"}, tok.Expand("Room 42"))
	assert.Equal(t, []string{"room", "forty", "two"}, NewTokenizer().Expand("Room 42"))
}

func TestExpandConcurrent(t *testing.T) {
	tok := NewTokenizer()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.Equal(t, []string{"hello", "world"}, tok.Expand("HELLO World"))
		}()
	}
	wg.Wait()
}
