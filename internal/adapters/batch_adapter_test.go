package adapters

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ccp-p/asr-media-cli/audio-aligner/pkg/batch"
	"github.com/ccp-p/asr-media-cli/audio-aligner/pkg/models"
)

type countingProcessor struct {
	mu  sync.Mutex
	ids []string
}

func (c *countingProcessor) Process(ctx context.Context, utt models.Utterance) (*models.Result, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ids = append(c.ids, utt.ID)
	return &models.Result{UtteranceID: utt.ID}, nil
}

func newAdapter(proc *countingProcessor) (*BatchProcessorAdapter, *[]string) {
	bp := batch.NewBatchProcessor(proc, nil, models.NewDefaultConfig())
	adapter := NewBatchProcessorAdapter(context.Background(), bp)
	var sources []string
	adapter.OnResults = func(source string, results []batch.BatchResult) {
		sources = append(sources, source)
	}
	return adapter, &sources
}

func TestOnFileCreatedBatchFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "jobs.lst")
	require.NoError(t, os.WriteFile(path, []byte("a01.wav hello\na02.wav world\n"), 0644))

	proc := &countingProcessor{}
	adapter, sources := newAdapter(proc)
	adapter.OnFileCreated(path)

	assert.ElementsMatch(t, []string{"a01", "a02"}, proc.ids)
	assert.Equal(t, []string{path}, *sources)

	// 批处理文件被归档
	archived := filepath.Join(dir, ProcessedFolder, "jobs.lst")
	assert.FileExists(t, archived)
	assert.NoFileExists(t, path)
	assert.False(t, adapter.IsRecognizedFile(path))
	assert.True(t, adapter.IsRecognizedFile(archived))
}

func TestOnFileCreatedDump(t *testing.T) {
	dir := t.TempDir()
	dump := filepath.Join(dir, "u1.rec.json")
	require.NoError(t, os.WriteFile(dump, []byte("{}"), 0644))

	proc := &countingProcessor{}
	adapter, _ := newAdapter(proc)

	// 参考文本还没到
	adapter.OnFileCreated(dump)
	assert.Empty(t, proc.ids)
	assert.False(t, adapter.IsRecognizedFile(dump))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "u1.txt"), []byte("hi there"), 0644))
	adapter.OnFileCreated(dump)
	assert.Equal(t, []string{"u1"}, proc.ids)
	assert.True(t, adapter.IsRecognizedFile(dump))

	// 重复事件不再处理
	adapter.OnFileCreated(dump)
	assert.Len(t, proc.ids, 1)

	// 删除后允许重新处理
	adapter.OnFileDeleted(dump)
	adapter.OnFileCreated(dump)
	assert.Len(t, proc.ids, 2)
}

func TestOnFileCreatedBadBatch(t *testing.T) {
	proc := &countingProcessor{}
	adapter, sources := newAdapter(proc)

	adapter.OnFileCreated(filepath.Join(t.TempDir(), "missing.lst"))
	adapter.OnFileModified("ignored.lst")
	assert.Empty(t, proc.ids)
	assert.Empty(t, *sources)
}
