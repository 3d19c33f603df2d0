package engine

import (
	"fmt"
	"sort"
	"sync"

	"github.com/ccp-p/asr-media-cli/audio-aligner/pkg/alignment"
	"github.com/ccp-p/asr-media-cli/audio-aligner/pkg/models"
	"github.com/ccp-p/asr-media-cli/audio-aligner/pkg/utils"
)

// RecognizerCreator 根据配置创建识别器
type RecognizerCreator func(cfg *models.Config) (Recognizer, error)

// FrontendCreator 根据配置创建前端
type FrontendCreator func(cfg *models.Config) (Frontend, error)

// SourceStats 识别器或前端的调用统计
type SourceStats struct {
	SuccessCount int
	TotalCount   int
}

// Registry 识别器和前端的注册表，各实现包在init中注册自己
type Registry struct {
	mu          sync.RWMutex
	recognizers map[string]RecognizerCreator
	frontends   map[string]FrontendCreator
	stats       map[string]*SourceStats
}

// NewRegistry 创建空注册表
func NewRegistry() *Registry {
	return &Registry{
		recognizers: make(map[string]RecognizerCreator),
		frontends:   make(map[string]FrontendCreator),
		stats:       make(map[string]*SourceStats),
	}
}

// Default 全局默认注册表
var Default = NewRegistry()

// RegisterRecognizer 在默认注册表中注册识别器
func RegisterRecognizer(name string, creator RecognizerCreator) {
	Default.RegisterRecognizer(name, creator)
}

// RegisterFrontend 在默认注册表中注册前端
func RegisterFrontend(name string, creator FrontendCreator) {
	Default.RegisterFrontend(name, creator)
}

// RegisterRecognizer 注册识别器，同名覆盖
func (r *Registry) RegisterRecognizer(name string, creator RecognizerCreator) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.recognizers[name] = creator
}

// RegisterFrontend 注册前端，同名覆盖
func (r *Registry) RegisterFrontend(name string, creator FrontendCreator) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.frontends[name] = creator
}

// Recognizers 已注册的识别器名称
func (r *Registry) Recognizers() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.recognizers))
	for name := range r.recognizers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Frontends 已注册的前端名称
func (r *Registry) Frontends() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.frontends))
	for name := range r.frontends {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Create 按配置创建引擎
func (r *Registry) Create(cfg *models.Config, tokenizer alignment.Tokenizer, textAligner alignment.TextAligner) (*Engine, error) {
	r.mu.RLock()
	newRecognizer, okR := r.recognizers[cfg.Recognizer]
	newFrontend, okF := r.frontends[cfg.Frontend]
	r.mu.RUnlock()

	if !okR {
		return nil, fmt.Errorf("未注册的识别器: %s (可用: %v)", cfg.Recognizer, r.Recognizers())
	}
	if !okF {
		return nil, fmt.Errorf("未注册的前端: %s (可用: %v)", cfg.Frontend, r.Frontends())
	}

	recognizer, err := newRecognizer(cfg)
	if err != nil {
		return nil, fmt.Errorf("创建识别器 %s 失败: %w", cfg.Recognizer, err)
	}
	frontend, err := newFrontend(cfg)
	if err != nil {
		if closer, ok := recognizer.(Closer); ok {
			closer.Close()
		}
		return nil, fmt.Errorf("创建前端 %s 失败: %w", cfg.Frontend, err)
	}

	e := New(recognizer, frontend, tokenizer, textAligner)
	e.registry = r
	utils.Info("对齐引擎已创建: %s", e.Describe())
	return e, nil
}

// ReportResult 记录一次调用结果
func (r *Registry) ReportResult(name string, success bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stat, ok := r.stats[name]
	if !ok {
		stat = &SourceStats{}
		r.stats[name] = stat
	}
	stat.TotalCount++
	if success {
		stat.SuccessCount++
	}
}

// GetStats 获取调用统计信息
func (r *Registry) GetStats() map[string]map[string]interface{} {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make(map[string]map[string]interface{})
	for name, stat := range r.stats {
		successRate := 0.0
		if stat.TotalCount > 0 {
			successRate = float64(stat.SuccessCount) / float64(stat.TotalCount) * 100
		}
		result[name] = map[string]interface{}{
			"count":        stat.TotalCount,
			"success_rate": fmt.Sprintf("%.1f%%", successRate),
		}
	}
	return result
}
