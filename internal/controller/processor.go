package controller

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/google/uuid"

	"github.com/ccp-p/asr-media-cli/audio-aligner/internal/adapters"
	"github.com/ccp-p/asr-media-cli/audio-aligner/internal/ui"
	"github.com/ccp-p/asr-media-cli/audio-aligner/internal/watcher"
	"github.com/ccp-p/asr-media-cli/audio-aligner/pkg/batch"
	"github.com/ccp-p/asr-media-cli/audio-aligner/pkg/engine"
	"github.com/ccp-p/asr-media-cli/audio-aligner/pkg/models"
	"github.com/ccp-p/asr-media-cli/audio-aligner/pkg/processor"
	"github.com/ccp-p/asr-media-cli/audio-aligner/pkg/scanner"
	"github.com/ccp-p/asr-media-cli/audio-aligner/pkg/textalign"
	"github.com/ccp-p/asr-media-cli/audio-aligner/pkg/textnorm"
	"github.com/ccp-p/asr-media-cli/audio-aligner/pkg/utils"

	// 注册识别器和前端
	_ "github.com/ccp-p/asr-media-cli/audio-aligner/pkg/engine/dumpfile"
	_ "github.com/ccp-p/asr-media-cli/audio-aligner/pkg/engine/wavfront"
)

// Stats 一次运行的统计
type Stats struct {
	StartTime      time.Time
	Total          int
	Succeeded      int
	Failed         int
	Unalignable    int
	Words          int
	MatchedWords   int
	Segments       int
	DroppedWords   int
	WatchTriggered int
}

// ProcessorController 处理器控制器，协调各个组件工作
type ProcessorController struct {
	Config *models.Config
	RunID  string

	ProgressManager *ui.ProgressManager
	Engine          *engine.Engine
	Processor       *processor.UtteranceProcessor
	BatchProcessor  *batch.BatchProcessor

	// 为true时轮询识别结果文件夹，用于收不到文件事件的网络目录
	PollWatch bool

	ctx        context.Context
	cancelFunc context.CancelFunc

	Stats   Stats
	cleanup []func()
	mu      sync.Mutex
}

// NewProcessorController 创建处理器控制器，config应已完成加载和命令行覆盖
func NewProcessorController(config *models.Config) (*ProcessorController, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	pc := &ProcessorController{
		Config:     config,
		RunID:      uuid.NewString(),
		ctx:        ctx,
		cancelFunc: cancel,
	}

	if err := utils.InitLogger(config.LogLevel, config.LogFile); err != nil {
		cancel()
		return nil, fmt.Errorf("初始化日志失败: %w", err)
	}
	if config.ShowProgress {
		utils.EnableTerminalProgress()
	}
	// 日志初始化后再创建ProgressManager
	pc.ProgressManager = ui.NewProgressManager(config.ShowProgress)

	if err := pc.initComponents(); err != nil {
		pc.Cleanup()
		return nil, err
	}

	pc.setupSignalHandlers()
	utils.WithField("run_id", pc.RunID).Infof("控制器已初始化: %s", pc.Engine.Describe())
	return pc, nil
}

// 初始化所有组件
func (pc *ProcessorController) initComponents() error {
	eng, err := engine.Default.Create(pc.Config, textnorm.NewTokenizer(), textalign.New())
	if err != nil {
		return err
	}
	pc.Engine = eng
	pc.addCleanup(func() {
		if err := eng.Close(); err != nil {
			utils.Warn("关闭引擎失败: %v", err)
		}
	})

	pc.Processor = processor.NewUtteranceProcessor(eng, pc.Config, pc.RunID)
	pc.BatchProcessor = batch.NewBatchProcessor(pc.Processor, pc.batchProgressCallback, pc.Config)
	if pc.Config.ShowProgress {
		pc.BatchProcessor.SetProgressManager(pc.ProgressManager)
	}
	return nil
}

// Context 控制器的上下文，收到中断信号后取消
func (pc *ProcessorController) Context() context.Context {
	return pc.ctx
}

func (pc *ProcessorController) batchProgressCallback(current, total int, id string, result *batch.BatchResult) {
	term := ui.GetTerminalManager()
	if result == nil {
		utils.Debug("[%d/%d] 开始处理: %s", current, total, id)
		return
	}
	if result.Success {
		term.PrintMsg(color.GreenString("[%d/%d] 处理成功: %s (匹配 %d/%d, 分段 %d, 用时 %s)",
			current, total, id, result.Result.MatchedCount, result.Result.WordCount,
			result.Result.SegmentCount, utils.FormatTimeDuration(result.ProcessTime.Seconds())))
		return
	}
	term.PrintMsg(color.RedString("[%d/%d] 处理失败: %s - %v", current, total, id, result.Error))
}

// LoadUtterances 读取批处理文件；未指定时扫描识别结果文件夹
func (pc *ProcessorController) LoadUtterances() ([]models.Utterance, error) {
	if pc.Config.BatchFile != "" {
		return batch.LoadBatchFile(pc.Config.BatchFile)
	}
	files, err := scanner.NewUtteranceScanner().ScanDirectory(pc.Config.DumpFolder)
	if err != nil {
		return nil, fmt.Errorf("扫描识别结果文件夹失败: %w", err)
	}
	return scanner.Utterances(files), nil
}

// ProcessBatch 处理一批语音并写出运行汇总
func (pc *ProcessorController) ProcessBatch() ([]batch.BatchResult, error) {
	pc.Stats.StartTime = time.Now()

	utterances, err := pc.LoadUtterances()
	if err != nil {
		return nil, err
	}
	if len(utterances) == 0 {
		utils.Info("没有找到待处理的语音")
		return nil, nil
	}

	utils.Info("开始处理 %d 条语音", len(utterances))
	results := pc.BatchProcessor.ProcessUtterances(pc.ctx, utterances)
	pc.updateStats(results)

	if _, err := pc.SaveRunSummary(results); err != nil {
		utils.Warn("写入运行汇总失败: %v", err)
	}
	return results, nil
}

// SaveRunSummary 把每条语音的结果写入 run_<id>.json
func (pc *ProcessorController) SaveRunSummary(results []batch.BatchResult) (string, error) {
	summary := make([]*models.Result, 0, len(results))
	for _, r := range results {
		if r.Result != nil {
			summary = append(summary, r.Result)
			continue
		}
		failed := &models.Result{RunID: pc.RunID, UtteranceID: r.Utterance.ID, AudioPath: r.Utterance.AudioPath}
		if r.Error != nil {
			failed.Error = r.Error.Error()
		}
		summary = append(summary, failed)
	}

	path := filepath.Join(pc.Config.OutputFolder, fmt.Sprintf("run_%s.json", pc.RunID))
	if err := utils.SaveJSONFile(path, summary); err != nil {
		return "", err
	}
	return path, nil
}

// StartWatchMode 监听识别结果文件夹，直到收到中断信号
func (pc *ProcessorController) StartWatchMode() error {
	if err := utils.EnsureDirExists(pc.Config.OutputFolder); err != nil {
		return err
	}

	adapter := adapters.NewBatchProcessorAdapter(pc.ctx, pc.BatchProcessor)
	adapter.OnResults = func(source string, results []batch.BatchResult) {
		pc.mu.Lock()
		pc.Stats.WatchTriggered++
		pc.mu.Unlock()
		pc.updateStats(results)
		utils.Info("已处理 %s: %d 条语音", filepath.Base(source), len(results))
	}

	manager, err := watcher.NewWatchManager(pc.Config, adapter, pc.ProgressManager, pc.PollWatch)
	if err != nil {
		return err
	}
	if err := manager.Start(); err != nil {
		return err
	}
	pc.addCleanup(manager.Stop)

	utils.Info("监控已启动，按Ctrl+C退出...")
	return pc.waitForTermination()
}

// PrintSummary 打印统计信息
func (pc *ProcessorController) PrintSummary() {
	pc.mu.Lock()
	s := pc.Stats
	pc.mu.Unlock()

	fmt.Println()
	color.Cyan("=========== 处理汇总 ===========")
	fmt.Printf("运行ID: %s\n", pc.RunID)
	fmt.Printf("语音总数: %d\n", s.Total)
	color.Green("成功: %d", s.Succeeded)
	if s.Failed > 0 {
		color.Red("失败: %d", s.Failed)
	}
	if s.Unalignable > 0 {
		color.Yellow("无法对齐: %d", s.Unalignable)
	}
	if s.Words > 0 {
		fmt.Printf("参考词: %d，匹配: %d (%.1f%%)\n", s.Words, s.MatchedWords,
			float64(s.MatchedWords)/float64(s.Words)*100)
	}
	fmt.Printf("分段: %d，丢弃词: %d\n", s.Segments, s.DroppedWords)
	if !s.StartTime.IsZero() {
		fmt.Printf("总用时: %s\n", utils.FormatTimeDuration(time.Since(s.StartTime).Seconds()))
	}

	for name, stat := range engine.Default.GetStats() {
		fmt.Printf("%s: 调用次数=%d, 成功率=%s\n", name, stat["count"], stat["success_rate"])
	}
	color.Cyan("================================")
}

// 添加清理函数
func (pc *ProcessorController) addCleanup(cleanup func()) {
	pc.mu.Lock()
	defer pc.mu.Unlock()
	pc.cleanup = append(pc.cleanup, cleanup)
}

// Cleanup 逆序执行所有清理函数
func (pc *ProcessorController) Cleanup() {
	pc.mu.Lock()
	cleanup := pc.cleanup
	pc.cleanup = nil
	pc.mu.Unlock()

	for i := len(cleanup) - 1; i >= 0; i-- {
		cleanup[i]()
	}

	if pc.ProgressManager != nil {
		pc.ProgressManager.CloseAll("已完成")
	}
	pc.cancelFunc()
	utils.DisableTerminalProgress()
}

// Stop 取消正在进行的处理
func (pc *ProcessorController) Stop() {
	pc.cancelFunc()
}

// 设置中断处理
func (pc *ProcessorController) setupSignalHandlers() {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		select {
		case <-c:
			utils.Info("接收到中断信号，正在停止...")
			pc.cancelFunc()
		case <-pc.ctx.Done():
		}
		signal.Stop(c)
	}()
}

func (pc *ProcessorController) waitForTermination() error {
	<-pc.ctx.Done()
	return nil
}

// 统计处理结果
func (pc *ProcessorController) updateStats(results []batch.BatchResult) {
	pc.mu.Lock()
	defer pc.mu.Unlock()

	pc.Stats.Total += len(results)
	for _, r := range results {
		if r.Success {
			pc.Stats.Succeeded++
		} else {
			pc.Stats.Failed++
		}
		if r.Result == nil {
			continue
		}
		if r.Result.Unalignable {
			pc.Stats.Unalignable++
		}
		pc.Stats.Words += r.Result.WordCount
		pc.Stats.MatchedWords += r.Result.MatchedCount
		pc.Stats.Segments += r.Result.SegmentCount
		pc.Stats.DroppedWords += r.Result.DroppedWords
	}
}
