package processor

import (
	"context"
	"fmt"
	"time"

	"github.com/ccp-p/asr-media-cli/audio-aligner/pkg/alignment"
	"github.com/ccp-p/asr-media-cli/audio-aligner/pkg/engine"
	"github.com/ccp-p/asr-media-cli/audio-aligner/pkg/export"
	"github.com/ccp-p/asr-media-cli/audio-aligner/pkg/models"
	"github.com/ccp-p/asr-media-cli/audio-aligner/pkg/segment"
	"github.com/ccp-p/asr-media-cli/audio-aligner/pkg/utils"
)

// 导出类型，作为 models.Result.OutputFiles 的键
const (
	OutputJSON     = "json"
	OutputSRT      = "srt"
	OutputText     = "text"
	OutputFeatures = "features"
)

// Outcome 单条语音处理的完整中间结果，供命令行打印
type Outcome struct {
	Analysis *engine.Analysis
	Segments *segment.Result
	Result   *models.Result
}

// UtteranceProcessor 识别、对齐、分段并导出单条语音
type UtteranceProcessor struct {
	Engine    *engine.Engine
	Segmenter *segment.Segmenter
	Config    *models.Config
	RunID     string

	jsonExporter    *export.JSONExporter
	srtExporter     *export.SRTExporter
	textExporter    *export.TextExporter
	featureExporter *export.FeatureExporter
}

// SegmenterOptions 由配置得到分段参数
func SegmenterOptions(config *models.Config) segment.Options {
	return segment.Options{
		SilenceThreshold: alignment.Time(config.SilenceThreshold),
		MergeThreshold:   alignment.Time(config.MergeThreshold),
		MergeMode:        segment.ParseMergeMode(config.MergeUntilStable),
	}
}

// NewUtteranceProcessor 创建语音处理器
func NewUtteranceProcessor(eng *engine.Engine, config *models.Config, runID string) *UtteranceProcessor {
	return &UtteranceProcessor{
		Engine:          eng,
		Segmenter:       segment.NewSegmenter(SegmenterOptions(config)),
		Config:          config,
		RunID:           runID,
		jsonExporter:    export.NewJSONExporter(config.OutputFolder),
		srtExporter:     export.NewSRTExporter(config.OutputFolder),
		textExporter:    export.NewTextExporter(config.OutputFolder),
		featureExporter: export.NewFeatureExporter(config.OutputFolder),
	}
}

// Process 实现 batch.UtteranceProcessor
func (p *UtteranceProcessor) Process(ctx context.Context, utt models.Utterance) (*models.Result, error) {
	outcome, err := p.Run(ctx, utt)
	if outcome == nil {
		return nil, err
	}
	return outcome.Result, err
}

// Run 处理单条语音。识别或前端失败时返回错误，导出失败记录在结果中
func (p *UtteranceProcessor) Run(ctx context.Context, utt models.Utterance) (*Outcome, error) {
	start := time.Now()
	log := utils.WithUtterance(utt.ID)

	result := &models.Result{
		RunID:       p.RunID,
		UtteranceID: utt.ID,
		AudioPath:   utt.AudioPath,
		OutputFiles: make(map[string]string),
	}
	outcome := &Outcome{Result: result}

	analysis, err := p.Engine.Analyze(ctx, utt)
	if err != nil {
		result.Error = err.Error()
		result.ProcessTimeMs = time.Since(start).Milliseconds()
		return outcome, err
	}
	outcome.Analysis = analysis

	ta := analysis.Transcript
	segs := p.Segmenter.Run(ta)
	outcome.Segments = segs

	result.WordCount = len(ta.Words)
	result.MatchedCount = ta.MatchedCount()
	result.Unalignable = ta.Unalignable
	result.SilenceCount = len(segs.Silences)
	result.SegmentCount = len(segs.Segments)
	result.DroppedWords = len(segs.Dropped)
	result.DurationMs = int64(ta.LastFrame)

	if ta.Unalignable {
		log.Warn(utils.NewKindError(utils.UnalignableTranscript, utt.ID, "识别结果为空，跳过分段", nil).Error())
	}

	if err := p.export(utt.ID, analysis, segs, result); err != nil {
		result.Error = err.Error()
		result.ProcessTimeMs = time.Since(start).Milliseconds()
		return outcome, err
	}

	result.ProcessTimeMs = time.Since(start).Milliseconds()
	log.Infof("完成: 匹配 %d/%d，分段 %d，耗时 %dms",
		result.MatchedCount, result.WordCount, result.SegmentCount, result.ProcessTimeMs)
	return outcome, nil
}

// export 按配置导出结果文件
func (p *UtteranceProcessor) export(id string, analysis *engine.Analysis, segs *segment.Result, result *models.Result) error {
	if !(p.Config.ExportJSON || p.Config.ExportSRT || p.Config.ExportText || p.Config.ExportFeatures) {
		return nil
	}
	if err := utils.EnsureDirExists(p.Config.OutputFolder); err != nil {
		return fmt.Errorf("创建输出目录失败: %w", err)
	}

	ta := analysis.Transcript
	if p.Config.ExportJSON {
		path, err := p.jsonExporter.ExportJSON(id, ta, segs)
		if err != nil {
			return fmt.Errorf("导出JSON失败: %w", err)
		}
		result.OutputFiles[OutputJSON] = path
	}

	if p.Config.ExportSRT {
		path, err := p.srtExporter.ExportSRT(id, segs.Segments)
		if err != nil {
			return fmt.Errorf("导出SRT失败: %w", err)
		}
		result.OutputFiles[OutputSRT] = path
	}

	if p.Config.ExportText {
		path, err := p.textExporter.ExportText(id, p.Engine.Report(analysis), ta, segs.Segments)
		if err != nil {
			return fmt.Errorf("导出文本报告失败: %w", err)
		}
		result.OutputFiles[OutputText] = path
	}

	if p.Config.ExportFeatures {
		path, n, err := p.featureExporter.ExportFeatures(id, ta)
		if err != nil {
			return fmt.Errorf("导出特征失败: %w", err)
		}
		if n > 0 {
			result.OutputFiles[OutputFeatures] = path
		}
	}
	return nil
}
