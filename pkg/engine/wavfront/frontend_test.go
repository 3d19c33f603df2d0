package wavfront

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ccp-p/asr-media-cli/audio-aligner/pkg/alignment"
	"github.com/ccp-p/asr-media-cli/audio-aligner/pkg/models"
)

const testRate = 16000

// tone 生成采样：loud区间内是440Hz正弦，其余为0
func tone(totalMs int, loud ...[2]int) []int {
	data := make([]int, testRate*totalMs/1000)
	for i := range data {
		ms := i * 1000 / testRate
		for _, l := range loud {
			if ms >= l[0] && ms < l[1] {
				data[i] = int(12000 * math.Sin(2*math.Pi*440*float64(i)/testRate))
			}
		}
	}
	return data
}

func writeWAV(t *testing.T, path string, data []int) {
	t.Helper()
	out, err := os.Create(path)
	require.NoError(t, err)
	defer out.Close()

	enc := wav.NewEncoder(out, testRate, 16, 1, 1)
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 1, SampleRate: testRate},
		Data:           data,
		SourceBitDepth: 16,
	}
	require.NoError(t, enc.Write(buf))
	require.NoError(t, enc.Close())
}

func TestExtractFromWAV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.wav")
	writeWAV(t, path, tone(1000, [2]int{200, 400}))

	fe := New(-40, 0)
	events, err := fe.Extract(context.Background(), models.Utterance{ID: "a", AudioPath: path})
	require.NoError(t, err)
	require.Len(t, events, 200)

	speech, features := alignment.SplitEvents(events)
	require.Len(t, speech, 100)
	require.Len(t, features, 100)

	assert.Equal(t, alignment.Time(0), speech[0].Time)
	assert.Equal(t, alignment.Time(990), speech[99].Time)
	assert.False(t, speech[10].IsSpeech)
	assert.True(t, speech[30].IsSpeech)
	assert.False(t, speech[50].IsSpeech)
	assert.Len(t, features[30].Vector, FeatureDim)
	assert.Greater(t, features[30].Vector[0], features[10].Vector[0])
}

func TestAnalyzeHangover(t *testing.T) {
	samples := make([]float64, testRate) // 1秒
	for i := 0; i < testRate/10; i++ {   // 前100毫秒有声
		samples[i] = 0.5 * math.Sin(float64(i))
	}

	events := New(-40, 3).Analyze(samples, testRate)
	speech, _ := alignment.SplitEvents(events)

	assert.True(t, speech[9].IsSpeech)
	assert.True(t, speech[12].IsSpeech) // 挂起期内
	assert.False(t, speech[13].IsSpeech)
}

func TestAnalyzeSilenceDetectable(t *testing.T) {
	samples := make([]float64, testRate*2)
	for i := range samples {
		ms := i * 1000 / testRate
		if ms < 500 || ms >= 1500 {
			samples[i] = 0.3 * math.Sin(2*math.Pi*300*float64(i)/testRate)
		}
	}
	events := New(-40, 0).Analyze(samples, testRate)
	ta := alignment.NewTranscriptAlignment(nil, events, false)

	assert.Equal(t, []alignment.TimeFrame{alignment.NewTimeFrame(500, 1490)}, ta.Silences(alignment.DetectionThreshold))
}

func TestExtractInvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.wav")
	require.NoError(t, os.WriteFile(path, []byte("not a wav"), 0644))

	_, err := New(-40, 0).Extract(context.Background(), models.Utterance{AudioPath: path})
	assert.Error(t, err)

	_, err = New(-40, 0).Extract(context.Background(), models.Utterance{AudioPath: filepath.Join(t.TempDir(), "missing.wav")})
	assert.Error(t, err)
}

func TestAnalyzeEmpty(t *testing.T) {
	assert.Nil(t, New(-40, 0).Analyze(nil, testRate))
	assert.Nil(t, New(-40, -1).Analyze([]float64{0.1}, 0))
}
