package engine_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ccp-p/asr-media-cli/audio-aligner/pkg/alignment"
	"github.com/ccp-p/asr-media-cli/audio-aligner/pkg/engine"
	"github.com/ccp-p/asr-media-cli/audio-aligner/pkg/engine/dumpfile"
	_ "github.com/ccp-p/asr-media-cli/audio-aligner/pkg/engine/wavfront"
	"github.com/ccp-p/asr-media-cli/audio-aligner/pkg/models"
	"github.com/ccp-p/asr-media-cli/audio-aligner/pkg/textalign"
	"github.com/ccp-p/asr-media-cli/audio-aligner/pkg/textnorm"
	"github.com/ccp-p/asr-media-cli/audio-aligner/pkg/utils"
)

type failingRecognizer struct{}

func (failingRecognizer) Name() string { return "failing" }

func (failingRecognizer) Recognize(context.Context, models.Utterance) ([]alignment.HypothesisWord, error) {
	return nil, errors.New("模型不可用")
}

type closingFrontend struct{ closed bool }

func (f *closingFrontend) Name() string { return "closing" }

func (f *closingFrontend) Extract(context.Context, models.Utterance) ([]alignment.FrameEvent, error) {
	return nil, nil
}

func (f *closingFrontend) Close() error {
	f.closed = true
	return nil
}

func writeDump(t *testing.T, dir, id string) {
	t.Helper()
	var events []alignment.FrameEvent
	for ts := alignment.Time(0); ts <= 2000; ts += alignment.FrameStep {
		events = append(events, alignment.SpeechEvent(ts, ts < 500 || ts > 1000))
	}
	words := []alignment.HypothesisWord{
		{Spelling: "hello", Span: alignment.NewTimeFrame(100, 400)},
		{Spelling: "world", Span: alignment.NewTimeFrame(1100, 1900)},
	}
	require.NoError(t, dumpfile.Save(filepath.Join(dir, id+dumpfile.Ext), words, events))
}

func TestRegistryCreateAndAnalyze(t *testing.T) {
	dir := t.TempDir()
	writeDump(t, dir, "utt")

	cfg := models.NewDefaultConfig()
	cfg.DumpFolder = dir

	eng, err := engine.Default.Create(cfg, textnorm.NewTokenizer(), textalign.New())
	require.NoError(t, err)
	defer eng.Close()
	assert.Equal(t, "recognizer=dump frontend=dump", eng.Describe())

	analysis, err := eng.Analyze(context.Background(), models.Utterance{ID: "utt", Reference: "Hello, big World!"})
	require.NoError(t, err)

	ta := analysis.Transcript
	assert.Len(t, ta.Words, 3)
	assert.Equal(t, 2, ta.MatchedCount())
	assert.Equal(t, alignment.Time(2000), ta.LastFrame)
	assert.Equal(t, []alignment.TimeFrame{alignment.NewTimeFrame(400, 1100)}, ta.ConfusionSpans)
	assert.Equal(t, []string{
		"  hello                     [100:400]",
		"- big",
		"  world                     [1100:1900]",
	}, eng.Report(analysis))

	stats := engine.Default.GetStats()
	assert.Contains(t, stats, "dump")
}

func TestRegistryUnknownSource(t *testing.T) {
	reg := engine.NewRegistry()
	cfg := models.NewDefaultConfig()

	_, err := reg.Create(cfg, textnorm.NewTokenizer(), textalign.New())
	assert.ErrorContains(t, err, "未注册的识别器")

	reg.RegisterRecognizer("dump", func(*models.Config) (engine.Recognizer, error) {
		return failingRecognizer{}, nil
	})
	_, err = reg.Create(cfg, textnorm.NewTokenizer(), textalign.New())
	assert.ErrorContains(t, err, "未注册的前端")

	assert.Equal(t, []string{"dump"}, reg.Recognizers())
	assert.Contains(t, engine.Default.Frontends(), "wav")
}

func TestAnalyzeRecognizerFailure(t *testing.T) {
	fe := &closingFrontend{}
	eng := engine.New(failingRecognizer{}, fe, textnorm.NewTokenizer(), textalign.New())

	_, err := eng.Align(context.Background(), models.Utterance{ID: "x", Reference: "a"})
	require.Error(t, err)
	assert.True(t, utils.IsKind(err, utils.InputError))
	assert.ErrorContains(t, err, "模型不可用")

	_, err = eng.Recognize(context.Background(), models.Utterance{ID: "x"})
	assert.True(t, utils.IsKind(err, utils.InputError))

	require.NoError(t, eng.Close())
	assert.True(t, fe.closed)
}

func TestRegistryStats(t *testing.T) {
	reg := engine.NewRegistry()
	reg.ReportResult("dump", true)
	reg.ReportResult("dump", false)

	stats := reg.GetStats()
	assert.Equal(t, 2, stats["dump"]["count"])
	assert.Equal(t, "50.0%", stats["dump"]["success_rate"])
}
