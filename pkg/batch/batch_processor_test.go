package batch

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/ccp-p/asr-media-cli/audio-aligner/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockProgressManager 模拟的进度管理器
type MockProgressManager struct {
	mock.Mock
}

func (m *MockProgressManager) CreateProgressBar(id string, total int, title string, status string) {
	m.Called(id, total, title, status)
}

func (m *MockProgressManager) UpdateProgressBar(id string, value int, status string) {
	m.Called(id, value, status)
}

func (m *MockProgressManager) CompleteProgressBar(id string, status string) {
	m.Called(id, status)
}

// stubProcessor 按语音ID返回预设结果
type stubProcessor struct {
	mu     sync.Mutex
	calls  []string
	fail   map[string]error
	panics map[string]bool
}

func (s *stubProcessor) Process(ctx context.Context, utt models.Utterance) (*models.Result, error) {
	s.mu.Lock()
	s.calls = append(s.calls, utt.ID)
	s.mu.Unlock()

	if s.panics[utt.ID] {
		panic("boom")
	}
	if err := s.fail[utt.ID]; err != nil {
		return &models.Result{UtteranceID: utt.ID, Error: err.Error()}, err
	}
	return &models.Result{UtteranceID: utt.ID, WordCount: 2, MatchedCount: 2}, nil
}

func utterances(ids ...string) []models.Utterance {
	out := make([]models.Utterance, len(ids))
	for i, id := range ids {
		out[i] = models.Utterance{ID: id, AudioPath: id + ".wav"}
	}
	return out
}

func TestNewBatchProcessor(t *testing.T) {
	config := models.NewDefaultConfig()
	config.MaxWorkers = 2

	processor := NewBatchProcessor(&stubProcessor{}, nil, config)
	assert.NotNil(t, processor)
	assert.Equal(t, 2, processor.MaxConcurrency)
	assert.NotNil(t, processor.ErrorHandler)

	processor = NewBatchProcessor(&stubProcessor{}, nil, nil)
	assert.Equal(t, 4, processor.MaxConcurrency) // 默认值
}

func TestProcessUtterancesKeepsOrder(t *testing.T) {
	stub := &stubProcessor{fail: map[string]error{"b": errors.New("坏数据")}}
	processor := NewBatchProcessor(stub, nil, models.NewDefaultConfig())

	results := processor.ProcessUtterances(context.Background(), utterances("a", "b", "c", "d"))
	require.Len(t, results, 4)

	for i, id := range []string{"a", "b", "c", "d"} {
		assert.Equal(t, id, results[i].Utterance.ID)
	}
	assert.True(t, results[0].Success)
	assert.False(t, results[1].Success)
	assert.ErrorContains(t, results[1].Error, "坏数据")
	assert.True(t, results[3].Success)
	assert.Equal(t, "d", results[3].Result.UtteranceID)

	ok, failed := Summary(results)
	assert.Equal(t, 3, ok)
	assert.Equal(t, 1, failed)
	assert.Len(t, stub.calls, 4)

	// 失败被记录到错误统计
	assert.Contains(t, processor.ErrorHandler.GetErrorStats(), "处理语音 b")
}

func TestProcessUtterancesRecoversPanic(t *testing.T) {
	stub := &stubProcessor{panics: map[string]bool{"x": true}}
	processor := NewBatchProcessor(stub, nil, models.NewDefaultConfig())

	results := processor.ProcessUtterances(context.Background(), utterances("x", "y"))
	require.Len(t, results, 2)
	assert.False(t, results[0].Success)
	assert.ErrorContains(t, results[0].Error, "panic")
	assert.True(t, results[1].Success)
}

func TestProcessUtterancesCancelled(t *testing.T) {
	stub := &stubProcessor{}
	processor := NewBatchProcessor(stub, nil, models.NewDefaultConfig())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results := processor.ProcessUtterances(ctx, utterances("a", "b"))
	require.Len(t, results, 2)
	for _, r := range results {
		assert.False(t, r.Success)
		assert.ErrorIs(t, r.Error, context.Canceled)
	}
	assert.Empty(t, stub.calls)
}

func TestProcessUtterancesEmpty(t *testing.T) {
	mockPM := new(MockProgressManager)
	processor := NewBatchProcessor(&stubProcessor{}, nil, models.NewDefaultConfig())
	processor.SetProgressManager(mockPM)

	assert.Empty(t, processor.ProcessUtterances(context.Background(), nil))
	mockPM.AssertNotCalled(t, "CreateProgressBar", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestProcessUtterancesProgress(t *testing.T) {
	mockPM := new(MockProgressManager)
	mockPM.On("CreateProgressBar", OverallBarID, 3, "总体进度", "0/3 语音已处理").Once()
	mockPM.On("UpdateProgressBar", OverallBarID, mock.AnythingOfType("int"), mock.AnythingOfType("string")).Times(3)
	mockPM.On("CompleteProgressBar", OverallBarID, "所有语音处理完成").Once()

	var mu sync.Mutex
	started, finished := 0, 0
	callback := func(current, total int, id string, result *BatchResult) {
		mu.Lock()
		defer mu.Unlock()
		assert.GreaterOrEqual(t, current, 1)
		assert.Equal(t, 3, total)
		assert.NotEmpty(t, id)
		if result == nil {
			started++
		} else {
			finished++
			assert.Equal(t, id, result.Utterance.ID)
		}
	}

	processor := NewBatchProcessor(&stubProcessor{}, callback, models.NewDefaultConfig())
	processor.MaxConcurrency = 1
	processor.SetProgressManager(mockPM)

	results := processor.ProcessUtterances(context.Background(), utterances("a", "b", "c"))
	assert.Len(t, results, 3)
	assert.Equal(t, 3, started)
	assert.Equal(t, 3, finished)
	mockPM.AssertExpectations(t)
}
