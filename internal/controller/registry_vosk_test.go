//go:build vosk

package controller

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ccp-p/asr-media-cli/audio-aligner/pkg/engine"
	"github.com/ccp-p/asr-media-cli/audio-aligner/pkg/models"
)

func TestVoskBuildRegistersRecognizer(t *testing.T) {
	assert.Equal(t, []string{models.SourceDump, models.SourceVosk}, engine.Default.Recognizers())
}
