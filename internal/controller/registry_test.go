//go:build !vosk

package controller

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ccp-p/asr-media-cli/audio-aligner/pkg/engine"
	"github.com/ccp-p/asr-media-cli/audio-aligner/pkg/models"
)

func TestDefaultBuildRegistersWithoutVosk(t *testing.T) {
	assert.Equal(t, []string{models.SourceDump}, engine.Default.Recognizers())
	assert.Equal(t, []string{models.SourceDump, models.SourceWAV}, engine.Default.Frontends())

	cfg := testConfig(t)
	cfg.Recognizer = models.SourceVosk
	cfg.ModelPath = t.TempDir()
	_, err := NewProcessorController(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "未注册的识别器: vosk")
}
