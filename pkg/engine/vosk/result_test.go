package vosk

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ccp-p/asr-media-cli/audio-aligner/pkg/alignment"
)

func TestParseResult(t *testing.T) {
	data := `{"result":[{"conf":1.0,"start":0.27,"end":0.6,"word":"hello"},{"conf":0.9,"start":0.6,"end":1.234,"word":"world"}],"text":"hello world"}`

	words, err := ParseResult(data)
	require.NoError(t, err)
	require.Len(t, words, 2)
	assert.Equal(t, "hello", words[0].Spelling)
	assert.Equal(t, alignment.NewTimeFrame(270, 600), words[0].Span)
	assert.Equal(t, alignment.NewTimeFrame(600, 1230), words[1].Span)
	assert.Empty(t, words[1].Tokens)
}

func TestParseResultEmpty(t *testing.T) {
	words, err := ParseResult(`{"text":""}`)
	require.NoError(t, err)
	assert.Empty(t, words)

	_, err = ParseResult("{")
	assert.Error(t, err)
}
